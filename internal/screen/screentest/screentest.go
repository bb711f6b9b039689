// Package screentest provides fakes for exercising screens without an LLM.
package screentest

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mockexam/internal/feedback"
	"github.com/abhisek/mockexam/internal/i18n"
	"github.com/abhisek/mockexam/internal/questiongen"
	"github.com/abhisek/mockexam/internal/screen"
	"github.com/abhisek/mockexam/internal/session"
)

// Generator returns Questions, or Err when set.
type Generator struct {
	Questions []questiongen.Question
	Err       error
}

func (g *Generator) Generate(_ context.Context, in questiongen.Input, p questiongen.ProgressObserver) ([]questiongen.Question, error) {
	if g.Err != nil {
		return nil, g.Err
	}
	if p != nil {
		p.OnProgress(min(len(g.Questions), in.Count))
	}
	return g.Questions, nil
}

func (g *Generator) ModelID() string { return "test-model" }

// Feedback returns Suggestions as the learning suggestions.
type Feedback struct {
	Suggestions string
	Err         error
}

func (f *Feedback) Generate(context.Context, feedback.Input) (*feedback.Feedback, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Suggestions == "" {
		return nil, nil
	}
	return &feedback.Feedback{LearningSuggestions: f.Suggestions}, nil
}

// History is an in-memory session.HistoryRepo.
type History struct {
	mu      sync.Mutex
	Records []session.TestRecord
}

func (h *History) Load(context.Context) ([]session.TestRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]session.TestRecord(nil), h.Records...), nil
}

func (h *History) Append(_ context.Context, r session.TestRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Records = append(h.Records, r)
	return nil
}

// Questions returns n questions whose correct answer is A.
func Questions(n int) []questiongen.Question {
	qs := make([]questiongen.Question, n)
	for i := range qs {
		qs[i] = questiongen.Question{
			ID:           fmt.Sprintf("q%d", i+1),
			QuestionText: fmt.Sprintf("Question %d?", i+1),
			Options: []questiongen.QuestionOption{
				{Key: "A", Text: "alpha"},
				{Key: "B", Text: "beta"},
				{Key: "C", Text: "gamma"},
				{Key: "D", Text: "delta"},
			},
			CorrectAnswerKey: "A",
			Topic:            fmt.Sprintf("topic-%d", i%2),
			Explanation:      "because",
		}
	}
	return qs
}

// Now is the fixed clock used by NewEnv.
var Now = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

// NewEnv returns an Env around a fresh session using gen and fb.
func NewEnv(gen *Generator, fb *Feedback, h *History) *screen.Env {
	s := session.New(gen, fb, h)
	env := screen.NewEnv(context.Background(), s, i18n.MustNew("zh-TW"))
	env.Location = time.UTC
	env.Now = func() time.Time { return Now }
	env.Width, env.Height = 100, 30
	return env
}

// Key builds a key press for a printable rune.
func Key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// Special builds a key press for a named key such as tea.KeyEnter.
func Special(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// Answering drives env's session into the answering phase with n questions.
func Answering(env *screen.Env, n int) error {
	if err := env.Session.SetCount(n); err != nil {
		return err
	}
	req, err := env.Session.Start()
	if err != nil {
		return err
	}
	return env.Session.ApplyGeneration(session.GenerationResult{Epoch: req.Epoch, Questions: Questions(n)})
}
