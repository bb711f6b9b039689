package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mockexam/internal/ui/theme"
)

// Button is a labelled action shown in a button row.
type Button struct {
	Label   string
	Key     string
	Enabled bool
	Primary bool
}

// View renders the button. Primary buttons are filled.
func (b Button) View() string {
	label := b.Label
	if b.Key != "" {
		label += " (" + b.Key + ")"
	}
	switch {
	case !b.Enabled:
		return theme.ButtonInactive.Foreground(theme.Border).Render(label)
	case b.Primary:
		return theme.ButtonActive.Render(label)
	default:
		return theme.ButtonInactive.Render(label)
	}
}

// ButtonRow renders buttons side by side, vertically centered.
func ButtonRow(buttons ...Button) string {
	views := make([]string, 0, 2*len(buttons))
	for i, b := range buttons {
		if i > 0 {
			views = append(views, "  ")
		}
		views = append(views, b.View())
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, views...)
}
