package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mockexam/internal/questiongen"
	"github.com/abhisek/mockexam/internal/ui/theme"
)

// OptionList renders the four options of a question with the chosen one
// highlighted.
type OptionList struct {
	Options []questiongen.QuestionOption
	Chosen  string
	Width   int
}

// View renders one bordered row per option.
func (l OptionList) View() string {
	rows := make([]string, 0, len(l.Options))
	for _, o := range l.Options {
		style := lipgloss.NewStyle().
			Width(max(l.Width-2, 10)).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
		marker := "○"
		if o.Key == l.Chosen {
			marker = "●"
			style = style.BorderForeground(theme.Primary).Foreground(theme.Primary).Bold(true)
		} else {
			style = style.BorderForeground(theme.Border).Foreground(theme.Text)
		}
		rows = append(rows, style.Render(marker+" "+o.Key+". "+o.Text))
	}
	return strings.Join(rows, "\n")
}

// Step returns the key delta positions away from current, clamped to the
// option range. An empty current starts from before the first option.
func (l OptionList) Step(current string, delta int) string {
	if len(l.Options) == 0 {
		return current
	}
	idx := -1
	for i, o := range l.Options {
		if o.Key == current {
			idx = i
			break
		}
	}
	if idx < 0 && delta < 0 {
		idx = len(l.Options)
	}
	idx = min(max(idx+delta, 0), len(l.Options)-1)
	return l.Options[idx].Key
}
