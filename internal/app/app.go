package app

import (
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mockexam/internal/router"
	"github.com/abhisek/mockexam/internal/screen"
	"github.com/abhisek/mockexam/internal/screens/history"
	"github.com/abhisek/mockexam/internal/screens/loading"
	"github.com/abhisek/mockexam/internal/screens/question"
	"github.com/abhisek/mockexam/internal/screens/results"
	"github.com/abhisek/mockexam/internal/screens/welcome"
	"github.com/abhisek/mockexam/internal/session"
	"github.com/abhisek/mockexam/internal/ui/layout"
)

// AppModel is the root Bubble Tea model. The session phase decides which
// screen is active; every update that changes the phase swaps the screen.
type AppModel struct {
	env    *screen.Env
	router *router.Router
	phase  session.Phase
	width  int
	height int
}

// newAppModel creates a new AppModel showing the screen for the session's
// current phase.
func newAppModel(env *screen.Env) AppModel {
	return AppModel{
		env:    env,
		router: router.New(screenFor(env)),
		phase:  env.Session.Phase(),
	}
}

// screenFor builds the screen for the session's current phase.
func screenFor(env *screen.Env) screen.Screen {
	switch env.Session.Phase() {
	case session.PhaseGeneratingQuestions, session.PhaseGrading:
		return loading.New(env)
	case session.PhaseAnsweringQuestions:
		return question.New(env)
	case session.PhaseViewingFeedback:
		return results.New(env)
	case session.PhaseHistory:
		return history.New(env)
	default:
		return welcome.New(env)
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.env.Width = msg.Width
		m.env.Height = layout.ContentHeight(msg.Height)
		cmd = m.router.Update(msg)

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			m.env.CancelRun()
			return m, tea.Quit
		}
		cmd = m.router.Update(msg)

	case screen.GenerationProgressMsg:
		m.env.Session.ReportProgress(msg.Epoch, msg.Generated)
		cmd = msg.Next

	case screen.GenerationDoneMsg:
		if err := m.env.Session.ApplyGeneration(msg.Result); err != nil {
			slog.Debug("generation result ignored", "error", err)
		}

	case screen.GradingDoneMsg:
		if err := m.env.Session.ApplyGrading(msg.Outcome); err != nil {
			slog.Debug("grading outcome ignored", "error", err)
		}

	default:
		cmd = m.router.Update(msg)
	}

	sync := m.syncScreen()
	return m, tea.Batch(cmd, sync)
}

// syncScreen moves the router to the session's phase. History opens on top
// of the welcome screen and closing it pops back to the same welcome
// screen; every other change replaces the active screen.
func (m *AppModel) syncScreen() tea.Cmd {
	phase := m.env.Session.Phase()
	if phase == m.phase {
		return nil
	}
	slog.Debug("phase changed", "from", m.phase, "to", phase)
	from := m.phase
	m.phase = phase

	switch {
	case from == session.PhaseWelcome && phase == session.PhaseHistory:
		return m.router.Push(history.New(m.env))
	case from == session.PhaseHistory && phase == session.PhaseWelcome && m.router.Depth() > 1:
		return m.router.Pop()
	}
	return m.router.Replace(screenFor(m.env))
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.WindowTitle = m.env.Tr.T("AppTitle")

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	tr := m.env.Tr
	active := m.router.Active()

	status := ""
	if m.phase != session.PhaseWelcome && m.phase != session.PhaseHistory {
		status = m.env.Session.Format().Name()
	}
	if layout.IsCompactWidth(m.width) {
		status = ""
	}
	header := layout.RenderHeader(tr.T("AppTitle"), active.Title(), status, m.width)

	help := ""
	if hp, ok := active.(screen.HelpProvider); ok {
		help = hp.Help()
	}
	footer := layout.RenderFooter(help, tr.T("Footer"), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(env *screen.Env, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(newAppModel(env), opts...)
	_, err := p.Run()
	env.CancelRun()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
