package history

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mockexam/internal/export"
	"github.com/abhisek/mockexam/internal/screen"
	"github.com/abhisek/mockexam/internal/session"
	"github.com/abhisek/mockexam/internal/ui/components"
	"github.com/abhisek/mockexam/internal/ui/layout"
	"github.com/abhisek/mockexam/internal/ui/theme"
)

// HistoryScreen lists past tests, newest first, and exports them to CSV.
type HistoryScreen struct {
	env       *screen.Env
	records   []session.TestRecord
	selected  int
	expanded  map[int]bool
	exporting bool
	input     components.TextInput
	status    string
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.HelpProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen from the session's in-memory history.
func New(env *screen.Env) *HistoryScreen {
	records := env.Session.History()
	slices.Reverse(records)
	return &HistoryScreen{
		env:      env,
		records:  records,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd { return nil }

func (s *HistoryScreen) Title() string { return s.env.Tr.T("HistoryTitle") }

func (s *HistoryScreen) Help() string {
	if s.exporting {
		return s.env.Tr.T("HelpExport")
	}
	return s.env.Tr.T("HelpHistory")
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.exporting {
		return s.updateExport(msg)
	}

	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "esc":
		_ = s.env.Session.BackToWelcome()
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.records)-1 {
			s.selected++
		}
	case "enter":
		if len(s.records) > 0 {
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	case "e":
		s.status, s.errMsg = "", ""
		path := filepath.Join(s.env.ExportDir, export.FileName(s.env.Now()))
		s.input = components.NewTextInput(s.env.Tr.T("ExportPath"), path, components.ContentWidth(s.env.Width)-4)
		s.exporting = true
		return s, s.input.Focus()
	}
	return s, nil
}

func (s *HistoryScreen) updateExport(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "esc":
			s.exporting = false
			return s, nil
		case "enter":
			s.exporting = false
			s.export(strings.TrimSpace(s.input.Value()))
			return s, nil
		}
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *HistoryScreen) export(path string) {
	tr := s.env.Tr
	err := export.WriteFile(path, s.env.Session.History(), s.env.Location)
	switch {
	case errors.Is(err, export.ErrNoHistory):
		s.errMsg = tr.T("ErrNoHistory")
	case err != nil:
		s.errMsg = tr.Td("ExportFailed", map[string]any{"Cause": err.Error()})
	default:
		s.status = tr.Td("ExportDone", map[string]any{"Path": path})
	}
}

func (s *HistoryScreen) View(width, height int) string {
	tr := s.env.Tr
	cw := components.ContentWidth(width)

	var sections []string
	if len(s.records) == 0 {
		sections = append(sections, theme.Hint.Render(tr.T("HistoryEmpty")))
	} else {
		sections = append(sections, s.list(cw))
	}

	if s.exporting {
		sections = append(sections, "", components.Card(s.input.View(), cw-4))
	}
	if s.status != "" {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(theme.Success).Render(s.status))
	}
	if s.errMsg != "" {
		sections = append(sections, "", layout.RenderError(s.errMsg, cw+4))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, "\n"+content)
}

func (s *HistoryScreen) list(cw int) string {
	tr := s.env.Tr
	var b strings.Builder

	for i, rec := range s.records {
		date := rec.Time().In(s.env.Location).Format("2006/01/02 15:04")
		score := tr.Td("HistoryScore", map[string]any{"Correct": rec.Score.Correct, "Total": len(rec.Questions)})
		elapsed := tr.Td("HistoryElapsed", map[string]any{"Minutes": rec.ElapsedSecs / 60, "Seconds": rec.ElapsedSecs % 60})

		prefix := "  "
		style := theme.Unselected
		if i == s.selected {
			prefix = "▸ "
			style = theme.Selected
		}
		line := fmt.Sprintf("%s%s  %s  %s  %s", prefix, date, rec.ExamName, score, elapsed)
		b.WriteString(style.MaxWidth(cw).Render(line))
		b.WriteString("\n")

		if s.expanded[i] {
			topics := make([]string, 0, len(rec.TopicAnalysis))
			for t := range rec.TopicAnalysis {
				topics = append(topics, t)
			}
			slices.Sort(topics)
			for _, t := range topics {
				st := rec.TopicAnalysis[t]
				topic := tr.Td("TopicLine", map[string]any{"Topic": t, "Correct": st.Correct, "Total": st.Total})
				b.WriteString(theme.Hint.Render("      " + topic))
				b.WriteString("\n")
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
