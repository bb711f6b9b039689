package welcome

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mockexam/internal/screen"
	"github.com/abhisek/mockexam/internal/screen/screentest"
	"github.com/abhisek/mockexam/internal/session"
)

func newTestWelcome() (*WelcomeScreen, *screen.Env) {
	env := screentest.NewEnv(&screentest.Generator{Questions: screentest.Questions(5)}, &screentest.Feedback{}, &screentest.History{})
	return New(env), env
}

func press(w *WelcomeScreen, keys ...tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = w.Update(k)
	}
	return cmd
}

func TestCycleExam(t *testing.T) {
	w, env := newTestWelcome()
	first := env.Session.Format().ID

	press(w, screentest.Special(tea.KeyRight))
	assert.NotEqual(t, first, env.Session.Format().ID)

	press(w, screentest.Special(tea.KeyLeft))
	assert.Equal(t, first, env.Session.Format().ID)

	press(w, screentest.Special(tea.KeyLeft))
	assert.NotEqual(t, first, env.Session.Format().ID, "left wraps to the last format")
}

func TestCycleCount(t *testing.T) {
	w, env := newTestWelcome()
	before := env.Session.Count()

	press(w, screentest.Special(tea.KeyDown), screentest.Special(tea.KeyRight))
	after := env.Session.Count()
	assert.NotEqual(t, before, after)
	assert.Contains(t, env.Session.Format().QuestionCounts, after)
	assert.Contains(t, w.View(100, 30), "題")
}

func TestStartRunsGeneration(t *testing.T) {
	w, env := newTestWelcome()

	cmd := press(w,
		screentest.Special(tea.KeyDown),
		screentest.Special(tea.KeyDown),
		screentest.Special(tea.KeyEnter),
	)
	require.NotNil(t, cmd)
	assert.Equal(t, session.PhaseGeneratingQuestions, env.Session.Phase())

	for {
		msg := cmd()
		if p, ok := msg.(screen.GenerationProgressMsg); ok {
			cmd = p.Next
			continue
		}
		done, ok := msg.(screen.GenerationDoneMsg)
		require.True(t, ok, "got %T", msg)
		assert.Equal(t, env.Session.Epoch(), done.Result.Epoch)
		assert.Len(t, done.Result.Questions, 5)
		break
	}
}

func TestViewHistory(t *testing.T) {
	w, env := newTestWelcome()
	press(w,
		screentest.Special(tea.KeyUp),
		screentest.Key('j'), screentest.Key('j'), screentest.Key('j'),
		screentest.Special(tea.KeyEnter),
	)
	assert.Equal(t, session.PhaseHistory, env.Session.Phase())
}

func TestQuit(t *testing.T) {
	w, _ := newTestWelcome()
	cmd := press(w, screentest.Key('q'))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestErrorBannerDismissedByAnyKey(t *testing.T) {
	env := screentest.NewEnv(&screentest.Generator{}, &screentest.Feedback{}, &screentest.History{})
	req, err := env.Session.Start()
	require.NoError(t, err)
	require.NoError(t, env.Session.ApplyGeneration(session.GenerationResult{Epoch: req.Epoch}))
	require.ErrorIs(t, env.Session.Err(), session.ErrNoValidQuestions)

	w := New(env)
	assert.Contains(t, w.View(100, 40), "無法生成題目")
	assert.Equal(t, env.Tr.T("DismissError"), w.Help())

	cmd := press(w, screentest.Key('q'))
	assert.Nil(t, cmd, "the first key only dismisses the error")
	assert.NoError(t, env.Session.Err())
	assert.NotContains(t, w.View(100, 40), "無法生成題目")
}

func TestBanner(t *testing.T) {
	assert.Contains(t, RenderBanner("Title", "Sub", 100), "Sub")
	assert.NotContains(t, RenderBanner("Title", "Sub", 40), "Sub")
}
