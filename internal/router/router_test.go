package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mockexam/internal/screen"
)

type pingMsg struct{}

// countingScreen counts the messages it receives. On pingMsg it returns
// next, so the test can check that the router stores the returned screen.
type countingScreen struct {
	name  string
	inits int
	seen  int
	next  screen.Screen
}

func (s *countingScreen) Init() tea.Cmd {
	s.inits++
	return nil
}

func (s *countingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.seen++
	if _, ok := msg.(pingMsg); ok && s.next != nil {
		return s.next, nil
	}
	return s, nil
}

func (s *countingScreen) View(int, int) string { return s.name }
func (s *countingScreen) Title() string        { return s.name }

func TestPushPopRestoresScreenBelow(t *testing.T) {
	welcome := &countingScreen{name: "welcome"}
	r := New(welcome)

	hist := &countingScreen{name: "history"}
	r.Push(hist)
	require.Equal(t, 2, r.Depth())
	assert.Equal(t, 1, hist.inits)
	assert.Equal(t, "history", r.View(80, 24))

	r.Update(tea.KeyPressMsg{Code: 'j'})
	assert.Equal(t, 1, hist.seen)
	assert.Zero(t, welcome.seen, "only the top screen receives messages")

	r.Pop()
	require.Equal(t, 1, r.Depth())
	assert.Same(t, welcome, r.Active())
	assert.Zero(t, welcome.inits, "popping does not re-init the screen below")

	r.Pop()
	assert.Equal(t, 1, r.Depth(), "the last screen stays")
}

func TestReplaceKeepsDepth(t *testing.T) {
	r := New(&countingScreen{name: "welcome"})
	r.Push(&countingScreen{name: "history"})

	loading := &countingScreen{name: "loading"}
	r.Replace(loading)
	assert.Equal(t, 2, r.Depth())
	assert.Same(t, loading, r.Active())
	assert.Equal(t, 1, loading.inits)
}

func TestUpdateStoresReturnedScreen(t *testing.T) {
	results := &countingScreen{name: "results"}
	r := New(&countingScreen{name: "question", next: results})

	r.Update(pingMsg{})
	assert.Same(t, results, r.Active())
	assert.Equal(t, "results", r.View(80, 24))
}

func TestEmptyRouter(t *testing.T) {
	r := &Router{}
	assert.Nil(t, r.Active())
	assert.Nil(t, r.Update(pingMsg{}))
	assert.Empty(t, r.View(80, 24))

	s := &countingScreen{name: "welcome"}
	r.Replace(s)
	assert.Same(t, s, r.Active())
}
