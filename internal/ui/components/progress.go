package components

import (
	"charm.land/bubbles/v2/progress"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mockexam/internal/ui/theme"
)

// ProgressBar renders a static done/total bar with a caption underneath.
type ProgressBar struct {
	bar progress.Model
}

// NewProgressBar creates a bar of the given width.
func NewProgressBar(width int) ProgressBar {
	return ProgressBar{
		bar: progress.New(
			progress.WithColors(theme.Secondary, theme.Primary),
			progress.WithWidth(width),
			progress.WithoutPercentage(),
		),
	}
}

// SetWidth resizes the bar.
func (p *ProgressBar) SetWidth(w int) {
	p.bar.SetWidth(w)
}

// View renders the bar filled to done/total with caption below it.
func (p ProgressBar) View(done, total int, caption string) string {
	var pct float64
	if total > 0 {
		pct = min(float64(done)/float64(total), 1)
	}
	out := p.bar.ViewAs(pct)
	if caption != "" {
		out += "\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render(caption)
	}
	return out
}
