package loading

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mockexam/internal/screen"
	"github.com/abhisek/mockexam/internal/screen/screentest"
	"github.com/abhisek/mockexam/internal/session"
)

func generatingEnv(t *testing.T) *screen.Env {
	t.Helper()
	env := screentest.NewEnv(&screentest.Generator{}, &screentest.Feedback{}, &screentest.History{})
	_, err := env.Session.Start()
	require.NoError(t, err)
	return env
}

func TestGeneratingView(t *testing.T) {
	env := generatingEnv(t)
	env.Session.ReportProgress(env.Session.Epoch(), 4)

	s := New(env)
	assert.Equal(t, "出題中", s.Title())
	out := ansi.Strip(s.View(100, 30))
	assert.Contains(t, out, "AI 正在為您出題...")
	assert.Contains(t, out, "4 / 10 題")
	assert.Contains(t, out, "test-model")
}

func TestMessagesRotate(t *testing.T) {
	s := New(generatingEnv(t))
	first := s.Message()

	_, cmd := s.Update(rotateMsg{owner: s})
	assert.NotNil(t, cmd)
	assert.NotEqual(t, first, s.Message())

	s.Update(rotateMsg{owner: s})
	s.Update(rotateMsg{owner: s})
	assert.Equal(t, first, s.Message())

	_, cmd = s.Update(rotateMsg{owner: &LoadingScreen{}})
	assert.Nil(t, cmd, "ticks from another screen are dropped")
}

func TestEscRestartsGeneration(t *testing.T) {
	env := generatingEnv(t)
	s := New(env)

	s.Update(screentest.Special(tea.KeyEscape))
	assert.Equal(t, session.PhaseWelcome, env.Session.Phase())
}

func TestGradingView(t *testing.T) {
	env := screentest.NewEnv(&screentest.Generator{}, &screentest.Feedback{}, &screentest.History{})
	require.NoError(t, screentest.Answering(env, 5))
	for range 5 {
		require.NoError(t, env.Session.SelectAnswer("A"))
		_, err := env.Session.Next()
		require.NoError(t, err)
	}
	require.Equal(t, session.PhaseGrading, env.Session.Phase())

	s := New(env)
	assert.Equal(t, "批改中", s.Title())
	out := ansi.Strip(s.View(100, 30))
	assert.Contains(t, out, "處理中，請稍候...")
	assert.NotContains(t, out, "/ 5 題")

	s.Update(screentest.Special(tea.KeyEscape))
	assert.Equal(t, session.PhaseGrading, env.Session.Phase(), "grading cannot be abandoned")
}
