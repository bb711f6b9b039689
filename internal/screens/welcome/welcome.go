package welcome

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mockexam/internal/exam"
	"github.com/abhisek/mockexam/internal/screen"
	"github.com/abhisek/mockexam/internal/ui/components"
	"github.com/abhisek/mockexam/internal/ui/layout"
	"github.com/abhisek/mockexam/internal/ui/theme"
)

const (
	rowExam = iota
	rowCount
	rowStart
	rowHistory
)

// WelcomeScreen is the main menu: pick an exam and a question count, then
// start a test or open the history.
type WelcomeScreen struct {
	env     *screen.Env
	formats []exam.Format
	menu    components.Menu
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.HelpProvider = (*WelcomeScreen)(nil)

// New creates the welcome screen.
func New(env *screen.Env) *WelcomeScreen {
	w := &WelcomeScreen{
		env:     env,
		formats: exam.All(),
	}
	w.menu = components.NewMenu(w.items())
	return w
}

func (w *WelcomeScreen) Init() tea.Cmd { return nil }

func (w *WelcomeScreen) Title() string { return w.env.Tr.T("SelectExam") }

func (w *WelcomeScreen) Help() string {
	if w.env.Session.Err() != nil {
		return w.env.Tr.T("DismissError")
	}
	return w.env.Tr.T("HelpWelcome")
}

func (w *WelcomeScreen) items() []components.MenuItem {
	tr := w.env.Tr
	s := w.env.Session
	f := s.Format()
	count := tr.Td("CountOption", map[string]any{"Count": s.Count()})

	return []components.MenuItem{
		{Label: tr.T("SelectExam") + "  ◂ " + f.Name() + " ▸"},
		{Label: tr.T("SelectCount") + "  ◂ " + count + " ▸"},
		{Label: tr.T("StartTest"), Action: w.start},
		{Label: tr.T("ViewHistory"), Action: w.showHistory},
	}
}

func (w *WelcomeScreen) start() tea.Cmd {
	req, err := w.env.Session.Start()
	if err != nil {
		return nil
	}
	return screen.RunGeneration(w.env, req)
}

func (w *WelcomeScreen) showHistory() tea.Cmd {
	_ = w.env.Session.ShowHistory()
	return nil
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return w, nil
	}

	if w.env.Session.Err() != nil {
		w.env.Session.DismissError()
		return w, nil
	}

	switch kmsg.String() {
	case "q":
		return w, tea.Quit
	case "left", "h":
		w.cycle(-1)
		return w, nil
	case "right", "l":
		w.cycle(1)
		return w, nil
	}

	var cmd tea.Cmd
	w.menu, cmd = w.menu.Update(msg)
	return w, cmd
}

// cycle moves the exam or count row value by delta, wrapping around.
func (w *WelcomeScreen) cycle(delta int) {
	s := w.env.Session
	switch w.menu.Selected {
	case rowExam:
		cur := indexOf(w.formats, s.Format().ID)
		next := w.formats[wrap(cur+delta, len(w.formats))]
		_ = s.SelectFormat(next.ID)
	case rowCount:
		counts := s.Format().QuestionCounts
		cur := 0
		for i, c := range counts {
			if c == s.Count() {
				cur = i
			}
		}
		_ = s.SetCount(counts[wrap(cur+delta, len(counts))])
	default:
		return
	}
	w.menu.SetItems(w.items())
}

func indexOf(formats []exam.Format, id string) int {
	for i, f := range formats {
		if f.ID == id {
			return i
		}
	}
	return 0
}

func wrap(i, n int) int {
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}

func (w *WelcomeScreen) View(width, height int) string {
	tr := w.env.Tr
	f := w.env.Session.Format()
	cw := components.ContentWidth(width)

	var sections []string
	if !layout.IsCompactHeight(height) {
		sections = append(sections, RenderBanner(tr.T("AppTitle"), tr.T("AppSubtitle"), width), "")
	}

	accent := lipgloss.NewStyle().Foreground(theme.ExamColor(f.Color)).Bold(true)
	examCard := accent.Render(f.DisplayName)
	if f.Description != "" {
		examCard += "\n\n" + theme.Hint.Width(cw-6).Render(f.Description)
	}
	sections = append(sections,
		components.Card(examCard, cw),
		"",
		components.Card(strings.TrimRight(w.menu.View(), "\n"), cw),
	)

	if msg := w.env.ErrorMessage(); msg != "" {
		sections = append(sections, "", layout.RenderError(msg, cw+4))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
