// Package loading shows progress while questions are generated or a test
// is graded.
package loading

import (
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mockexam/internal/screen"
	"github.com/abhisek/mockexam/internal/session"
	"github.com/abhisek/mockexam/internal/ui/components"
	"github.com/abhisek/mockexam/internal/ui/theme"
)

// rotateInterval is how long each status message stays on screen.
const rotateInterval = 3 * time.Second

type rotateMsg struct {
	owner *LoadingScreen
}

// LoadingScreen is shown during the generating and grading phases.
type LoadingScreen struct {
	env      *screen.Env
	grading  bool
	spinner  spinner.Model
	bar      components.ProgressBar
	messages []string
	current  int
}

var _ screen.Screen = (*LoadingScreen)(nil)
var _ screen.HelpProvider = (*LoadingScreen)(nil)

// New creates the loading screen for the session's current phase.
func New(env *screen.Env) *LoadingScreen {
	grading := env.Session.Phase() == session.PhaseGrading
	ids := []string{"GenMessage1", "GenMessage2", "GenMessage3"}
	if grading {
		ids = []string{"GradeMessage1", "GradeMessage2", "GradeMessage3"}
	}
	msgs := make([]string, len(ids))
	for i, id := range ids {
		msgs[i] = env.Tr.T(id)
	}

	return &LoadingScreen{
		env:     env,
		grading: grading,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
		),
		bar:      components.NewProgressBar(min(components.ContentWidth(env.Width), 50)),
		messages: msgs,
	}
}

func (s *LoadingScreen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, s.rotate())
}

func (s *LoadingScreen) rotate() tea.Cmd {
	return tea.Tick(rotateInterval, func(time.Time) tea.Msg {
		return rotateMsg{owner: s}
	})
}

func (s *LoadingScreen) Title() string {
	if s.grading {
		return s.env.Tr.T("TitleGrading")
	}
	return s.env.Tr.T("TitleGenerating")
}

func (s *LoadingScreen) Help() string {
	if s.grading {
		return s.env.Tr.T("HelpGrading")
	}
	return s.env.Tr.T("HelpLoading")
}

// Message returns the status line currently shown.
func (s *LoadingScreen) Message() string {
	return s.messages[s.current]
}

func (s *LoadingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case rotateMsg:
		if msg.owner != s {
			return s, nil
		}
		s.current = (s.current + 1) % len(s.messages)
		return s, s.rotate()

	case tea.WindowSizeMsg:
		s.bar.SetWidth(min(components.ContentWidth(msg.Width), 50))
		return s, nil

	case tea.KeyPressMsg:
		if msg.String() == "esc" && !s.grading {
			s.env.CancelRun()
			_ = s.env.Session.Restart()
		}
		return s, nil
	}
	return s, nil
}

func (s *LoadingScreen) View(width, height int) string {
	tr := s.env.Tr
	sections := []string{
		s.spinner.View() + " " + theme.Body.Render(s.Message()),
	}

	if !s.grading {
		total := s.env.Session.Count()
		done := s.env.Session.Progress()
		caption := tr.Td("GenProgress", map[string]any{"Done": done, "Total": total})
		sections = append(sections, "", s.bar.View(done, total, caption))
		if model := s.env.Session.Model(); model != "" {
			sections = append(sections, "", theme.Hint.Render(tr.Td("GeneratedBy", map[string]any{"Model": model})))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
