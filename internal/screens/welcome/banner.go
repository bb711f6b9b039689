package welcome

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mockexam/internal/ui/theme"
)

// RenderBanner returns the app title framed by a double rule with the
// subtitle underneath. The subtitle is dropped on narrow terminals.
func RenderBanner(title, subtitle string, width int) string {
	t := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(title)
	w := lipgloss.Width(t) + 8
	rule := lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("═", w))

	lines := []string{rule, "    " + t, rule}
	if width >= 60 && subtitle != "" {
		lines = append(lines, theme.Subtitle.Width(w).Render(subtitle))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}
