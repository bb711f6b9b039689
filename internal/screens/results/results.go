// Package results shows the score, the per-question error analysis and the
// learning suggestions after a test is graded.
package results

import (
	"slices"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mockexam/internal/screen"
	"github.com/abhisek/mockexam/internal/session"
	"github.com/abhisek/mockexam/internal/ui/components"
	"github.com/abhisek/mockexam/internal/ui/layout"
	"github.com/abhisek/mockexam/internal/ui/theme"
)

// ResultsScreen renders the graded test in a scrollable viewport.
type ResultsScreen struct {
	env      *screen.Env
	viewport viewport.Model
	width    int
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.HelpProvider = (*ResultsScreen)(nil)

// New creates the results screen for the session's current result.
func New(env *screen.Env) *ResultsScreen {
	s := &ResultsScreen{env: env}
	s.resize(env.Width, env.Height)
	return s
}

func (s *ResultsScreen) Init() tea.Cmd { return nil }

func (s *ResultsScreen) Title() string { return s.env.Tr.T("FeedbackTitle") }

func (s *ResultsScreen) Help() string { return s.env.Tr.T("HelpFeedback") }

func (s *ResultsScreen) resize(width, height int) {
	cw := components.ContentWidth(width)
	vh := max(height-s.chromeHeight(cw), 3)
	if s.width == 0 {
		s.viewport = viewport.New(viewport.WithWidth(cw), viewport.WithHeight(vh))
	} else {
		s.viewport.SetWidth(cw)
		s.viewport.SetHeight(vh)
	}
	s.width = width
	s.viewport.SetContent(s.content(cw))
}

// chromeHeight is the height taken by the score card and error banner.
func (s *ResultsScreen) chromeHeight(cw int) int {
	h := lipgloss.Height(s.summary(cw)) + 1
	if msg := s.env.ErrorMessage(); msg != "" {
		h += lipgloss.Height(layout.RenderError(msg, cw+4)) + 1
	}
	return h
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.resize(msg.Width, layout.ContentHeight(msg.Height))
		return s, nil

	case tea.KeyPressMsg:
		if msg.String() == "enter" {
			_ = s.env.Session.Restart()
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return s, cmd
}

func (s *ResultsScreen) summary(cw int) string {
	tr := s.env.Tr
	sess := s.env.Session
	res := sess.Result()
	if res == nil {
		return theme.Hint.Render(tr.T("NoFeedback"))
	}
	elapsed := sess.Elapsed()

	correct := theme.Correct.Render(tr.T("CorrectCount") + "  " + strconv.Itoa(res.Score.Correct))
	incorrect := theme.Incorrect.Render(tr.T("IncorrectCount") + "  " + strconv.Itoa(res.Score.Incorrect))
	body := lipgloss.JoinVertical(lipgloss.Left,
		theme.Heading.Render(tr.Td("FeedbackFor", map[string]any{"Name": sess.Format().Name()})),
		"",
		correct+"      "+incorrect,
		theme.Hint.Render(tr.Td("TotalTime", map[string]any{"Minutes": elapsed / 60, "Seconds": elapsed % 60})),
	)
	return components.Card(body, cw-4)
}

func (s *ResultsScreen) content(cw int) string {
	tr := s.env.Tr
	res := s.env.Session.Result()
	if res == nil {
		return ""
	}

	var b strings.Builder
	if len(res.TopicAnalysis) > 0 {
		b.WriteString(theme.Title.Render(tr.T("TopicAnalysisTitle")) + "\n\n")
		for _, line := range topicLines(tr.Td, res.TopicAnalysis) {
			b.WriteString("  " + theme.Body.Render(line) + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(theme.Title.Render(tr.T("ErrorAnalysisTitle")) + "\n\n")
	b.WriteString(components.RenderHTML(res.ErrorAnalysisHTML, cw-2) + "\n\n")
	b.WriteString(theme.Title.Render(tr.T("SuggestionsTitle")) + "\n\n")
	b.WriteString(components.RenderHTML(res.LearningSuggestions, cw-2))
	return b.String()
}

func topicLines(td func(string, map[string]any) string, analysis session.TopicAnalysis) []string {
	topics := make([]string, 0, len(analysis))
	for t := range analysis {
		topics = append(topics, t)
	}
	slices.Sort(topics)

	lines := make([]string, 0, len(topics))
	for _, t := range topics {
		st := analysis[t]
		lines = append(lines, td("TopicLine", map[string]any{"Topic": t, "Correct": st.Correct, "Total": st.Total}))
	}
	return lines
}

func (s *ResultsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	sections := []string{s.summary(cw)}
	if msg := s.env.ErrorMessage(); msg != "" {
		sections = append(sections, layout.RenderError(msg, cw+4))
	}
	sections = append(sections, "", s.viewport.View())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}
