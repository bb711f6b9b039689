package components

import (
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"golang.org/x/net/html"

	"github.com/abhisek/mockexam/internal/ui/theme"
)

// RenderHTML renders the small HTML subset produced by the feedback
// generator (p, h1-h4, strong/b, em/i, ul/ol/li, br, hr, div) as styled
// terminal text wrapped to width. Unknown tags are dropped and their text
// kept.
func RenderHTML(src string, width int) string {
	width = max(width, 10)
	r := &htmlRenderer{width: width}
	z := html.NewTokenizer(strings.NewReader(src))

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			r.flush()
			return strings.TrimRight(strings.Join(r.blocks, "\n"), "\n")
		case html.TextToken:
			r.text(string(z.Text()))
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			r.open(string(name))
		case html.EndTagToken:
			name, _ := z.TagName()
			r.close(string(name))
		}
	}
}

type htmlRenderer struct {
	width  int
	blocks []string

	buf     strings.Builder
	heading bool
	bold    int
	italic  int
	lists   []int // item counter per open list; -1 for unordered
}

func (r *htmlRenderer) open(tag string) {
	switch tag {
	case "p", "div":
		r.flush()
	case "h1", "h2", "h3", "h4", "h5", "h6":
		r.flush()
		r.heading = true
	case "strong", "b":
		r.bold++
	case "em", "i":
		r.italic++
	case "br":
		r.buf.WriteString("\n")
	case "hr":
		r.flush()
		r.blocks = append(r.blocks, lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", r.width)), "")
	case "ul":
		r.flush()
		r.lists = append(r.lists, -1)
	case "ol":
		r.flush()
		r.lists = append(r.lists, 0)
	case "li":
		r.flush()
		marker := "• "
		if n := len(r.lists); n > 0 && r.lists[n-1] >= 0 {
			r.lists[n-1]++
			marker = strconv.Itoa(r.lists[n-1]) + ". "
		}
		r.buf.WriteString(strings.Repeat("  ", max(len(r.lists)-1, 0)) + marker)
	}
}

func (r *htmlRenderer) close(tag string) {
	switch tag {
	case "p", "div":
		r.flush()
	case "h1", "h2", "h3", "h4", "h5", "h6":
		r.flush()
		r.heading = false
	case "strong", "b":
		r.bold = max(r.bold-1, 0)
	case "em", "i":
		r.italic = max(r.italic-1, 0)
	case "li":
		r.flushTight()
	case "ul", "ol":
		r.flush()
		if n := len(r.lists); n > 0 {
			r.lists = r.lists[:n-1]
		}
		if len(r.lists) == 0 {
			r.blocks = append(r.blocks, "")
		}
	}
}

func (r *htmlRenderer) text(s string) {
	s = collapseSpace(s)
	if strings.TrimSpace(s) == "" {
		if r.buf.Len() > 0 && s != "" {
			r.buf.WriteString(" ")
		}
		return
	}
	style := lipgloss.NewStyle().Foreground(theme.Text)
	if r.heading {
		style = theme.Heading
	}
	if r.bold > 0 {
		style = style.Bold(true)
	}
	if r.italic > 0 {
		style = style.Italic(true)
	}
	r.buf.WriteString(style.Render(s))
}

// flush closes the current paragraph and adds a blank line after it.
func (r *htmlRenderer) flush() {
	if r.emit() {
		r.blocks = append(r.blocks, "")
	}
}

// flushTight closes the current line without a trailing blank line.
func (r *htmlRenderer) flushTight() {
	r.emit()
}

func (r *htmlRenderer) emit() bool {
	s := strings.TrimSpace(r.buf.String())
	r.buf.Reset()
	if s == "" {
		return false
	}
	style := lipgloss.NewStyle().Width(r.width)
	if r.heading {
		style = theme.Heading.Width(r.width)
	}
	r.blocks = append(r.blocks, style.Render(s))
	return true
}

func collapseSpace(s string) string {
	fields := strings.Fields(s)
	out := strings.Join(fields, " ")
	if len(s) > 0 && isSpace(s[0]) && out != "" {
		out = " " + out
	}
	if len(s) > 0 && isSpace(s[len(s)-1]) && out != "" {
		out += " "
	}
	if out == "" && s != "" {
		return " "
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}
