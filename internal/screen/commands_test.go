package screen

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mockexam/internal/feedback"
	"github.com/abhisek/mockexam/internal/i18n"
	"github.com/abhisek/mockexam/internal/questiongen"
	"github.com/abhisek/mockexam/internal/session"
)

type stubGenerator struct {
	steps []int
	qs    []questiongen.Question
	err   error

	// When set, reported is closed after the last step and the call then
	// blocks until hold is closed.
	reported chan struct{}
	hold     chan struct{}
}

func (g *stubGenerator) Generate(ctx context.Context, in questiongen.Input, p questiongen.ProgressObserver) ([]questiongen.Question, error) {
	for _, n := range g.steps {
		p.OnProgress(n)
	}
	if g.reported != nil {
		close(g.reported)
		<-g.hold
	}
	if g.err != nil {
		return nil, g.err
	}
	return g.qs, ctx.Err()
}

func (g *stubGenerator) ModelID() string { return "stub" }

type stubFeedback struct{}

func (stubFeedback) Generate(context.Context, feedback.Input) (*feedback.Feedback, error) {
	return &feedback.Feedback{LearningSuggestions: "<p>ok</p>"}, nil
}

type stubHistory struct{ records []session.TestRecord }

func (h *stubHistory) Load(context.Context) ([]session.TestRecord, error) { return h.records, nil }
func (h *stubHistory) Append(_ context.Context, r session.TestRecord) error {
	h.records = append(h.records, r)
	return nil
}

func oneQuestion() []questiongen.Question {
	return []questiongen.Question{{
		ID:               "q1",
		QuestionText:     "Pick A",
		Options:          []questiongen.QuestionOption{{Key: "A", Text: "a"}, {Key: "B", Text: "b"}, {Key: "C", Text: "c"}, {Key: "D", Text: "d"}},
		CorrectAnswerKey: "A",
		Topic:            "t",
	}}
}

func newTestEnv(gen *stubGenerator) *Env {
	s := session.New(gen, stubFeedback{}, &stubHistory{})
	return NewEnv(context.Background(), s, i18n.MustNew("zh-TW"))
}

// drain runs cmd and follows progress messages until the run completes.
func drain(t *testing.T, cmd tea.Cmd) ([]GenerationProgressMsg, GenerationDoneMsg) {
	t.Helper()
	var progress []GenerationProgressMsg
	deadline := time.After(2 * time.Second)
	for {
		msgs := make(chan tea.Msg, 1)
		go func() { msgs <- cmd() }()
		select {
		case <-deadline:
			t.Fatal("timed out waiting for generation")
		case msg := <-msgs:
			switch m := msg.(type) {
			case GenerationProgressMsg:
				progress = append(progress, m)
				require.NotNil(t, m.Next)
				cmd = m.Next
			case GenerationDoneMsg:
				return progress, m
			default:
				t.Fatalf("unexpected message %T", msg)
			}
		}
	}
}

func TestRunGeneration(t *testing.T) {
	gen := &stubGenerator{steps: []int{1}, qs: oneQuestion()}
	env := newTestEnv(gen)
	req, err := env.Session.Start()
	require.NoError(t, err)

	progress, done := drain(t, RunGeneration(env, req))
	for _, p := range progress {
		assert.Equal(t, req.Epoch, p.Epoch)
	}
	assert.Equal(t, req.Epoch, done.Result.Epoch)
	require.NoError(t, done.Result.Err)
	require.NoError(t, env.Session.ApplyGeneration(done.Result))
	assert.Equal(t, session.PhaseAnsweringQuestions, env.Session.Phase())
}

func TestRunGeneration_CoalescesProgress(t *testing.T) {
	steps := make([]int, 50)
	for i := range steps {
		steps[i] = i + 1
	}
	gen := &stubGenerator{steps: steps, qs: oneQuestion(), reported: make(chan struct{}), hold: make(chan struct{})}
	env := newTestEnv(gen)
	req, err := env.Session.Start()
	require.NoError(t, err)

	cmd := RunGeneration(env, req)
	<-gen.reported

	p, ok := cmd().(GenerationProgressMsg)
	require.True(t, ok)
	assert.Equal(t, 50, p.Generated, "unread counts are replaced by the latest")
	assert.Equal(t, req.Epoch, p.Epoch)

	close(gen.hold)
	progress, done := drain(t, p.Next)
	assert.Empty(t, progress)
	require.NoError(t, done.Result.Err)
}

func TestRunGeneration_Error(t *testing.T) {
	gen := &stubGenerator{err: errors.New("boom")}
	env := newTestEnv(gen)
	req, err := env.Session.Start()
	require.NoError(t, err)

	_, done := drain(t, RunGeneration(env, req))
	require.NoError(t, env.Session.ApplyGeneration(done.Result))
	assert.Equal(t, session.PhaseWelcome, env.Session.Phase())
	assert.Contains(t, env.ErrorMessage(), "boom")
}

func TestCancelRun(t *testing.T) {
	env := newTestEnv(&stubGenerator{})
	ctx := env.runContext()
	env.CancelRun()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	env.CancelRun()
}

func TestRunGrading(t *testing.T) {
	gen := &stubGenerator{qs: oneQuestion()}
	env := newTestEnv(gen)
	req, err := env.Session.Start()
	require.NoError(t, err)
	require.NoError(t, env.Session.ApplyGeneration(env.Session.RunGeneration(context.Background(), req, nil)))
	require.NoError(t, env.Session.SelectAnswer("A"))
	job, err := env.Session.Next()
	require.NoError(t, err)
	require.NotNil(t, job)

	msg := RunGrading(env, job)()
	done, ok := msg.(GradingDoneMsg)
	require.True(t, ok)
	assert.True(t, done.Outcome.Saved)
	require.NoError(t, env.Session.ApplyGrading(done.Outcome))
	assert.Equal(t, session.PhaseViewingFeedback, env.Session.Phase())

	assert.Nil(t, RunGrading(env, nil))
}
