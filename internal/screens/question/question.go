// Package question is the answering screen: one question at a time with a
// running timer.
package question

import (
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mockexam/internal/screen"
	"github.com/abhisek/mockexam/internal/session"
	"github.com/abhisek/mockexam/internal/ui/components"
	"github.com/abhisek/mockexam/internal/ui/layout"
	"github.com/abhisek/mockexam/internal/ui/theme"
)

type tickMsg struct {
	owner *QuestionScreen
	at    time.Time
}

// QuestionScreen shows the current question and records answers.
type QuestionScreen struct {
	env *screen.Env
}

var _ screen.Screen = (*QuestionScreen)(nil)
var _ screen.HelpProvider = (*QuestionScreen)(nil)

// New creates the answering screen.
func New(env *screen.Env) *QuestionScreen {
	return &QuestionScreen{env: env}
}

func (s *QuestionScreen) Init() tea.Cmd { return s.tick() }

func (s *QuestionScreen) tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{owner: s, at: t}
	})
}

func (s *QuestionScreen) Title() string { return s.env.Tr.T("TitleAnswering") }

func (s *QuestionScreen) Help() string { return s.env.Tr.T("HelpAnswer") }

func (s *QuestionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	sess := s.env.Session
	switch msg := msg.(type) {
	case tickMsg:
		if msg.owner != s || sess.Phase() != session.PhaseAnsweringQuestions {
			return s, nil
		}
		sess.Tick(msg.at)
		return s, s.tick()

	case tea.KeyPressMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *QuestionScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	sess := s.env.Session
	q, ok := sess.Current()
	if !ok {
		if key.Matches(msg, keys.Abandon) {
			_ = sess.Restart()
		}
		return nil
	}
	chosen, _ := sess.Answer(q.ID)
	list := components.OptionList{Options: q.Options}

	switch {
	case key.Matches(msg, keys.Up):
		_ = sess.SelectAnswer(list.Step(chosen, -1))
	case key.Matches(msg, keys.Down):
		_ = sess.SelectAnswer(list.Step(chosen, 1))
	case key.Matches(msg, keys.Next):
		job, err := sess.Next()
		if err != nil || job == nil {
			return nil
		}
		return screen.RunGrading(s.env, job)
	case key.Matches(msg, keys.Previous):
		_ = sess.Previous()
	case key.Matches(msg, keys.Abandon):
		_ = sess.Restart()
	default:
		if k, ok := optionKey(msg.String()); ok {
			_ = sess.SelectAnswer(k)
		}
	}
	return nil
}

func (s *QuestionScreen) View(width, height int) string {
	tr := s.env.Tr
	sess := s.env.Session
	cw := components.ContentWidth(width)

	q, ok := sess.Current()
	if !ok {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render(tr.T("NoQuestions")))
	}
	total := len(sess.Questions())
	idx := sess.Index()
	chosen, _ := sess.Answer(q.ID)

	elapsed := sess.Elapsed()
	status := lipgloss.JoinHorizontal(lipgloss.Top,
		theme.Heading.Render(tr.Td("QuestionProgress", map[string]any{"N": idx + 1, "Total": total})),
		"    ",
		theme.Hint.Render(tr.Td("ElapsedTime", map[string]any{"Minutes": elapsed / 60, "Seconds": elapsed % 60})),
	)

	var sections []string
	sections = append(sections, status)
	if !layout.IsCompactHeight(height) {
		sections = append(sections, components.NewProgressBar(cw).View(idx+1, total, ""))
	}
	sections = append(sections,
		"",
		theme.Body.Bold(true).Width(cw).Render(q.QuestionText),
		"",
		components.OptionList{Options: q.Options, Chosen: chosen, Width: cw}.View(),
		"",
	)

	nextLabel := tr.T("Next")
	if idx == total-1 {
		nextLabel = tr.T("Submit")
	}
	sections = append(sections, components.ButtonRow(
		components.Button{Label: tr.T("Previous"), Key: "←", Enabled: idx > 0},
		components.Button{Label: nextLabel, Key: "enter", Enabled: chosen != "", Primary: true},
	))

	if msg := s.env.ErrorMessage(); msg != "" {
		sections = append(sections, "", layout.RenderError(msg, cw+4))
	}
	if model := sess.Model(); model != "" {
		sections = append(sections, "", theme.Hint.Render(tr.Td("GeneratedBy", map[string]any{"Model": model})))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}
