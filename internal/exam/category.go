package exam

import (
	"embed"
	"fmt"
	"strings"
)

// Category groups exams that share a knowledge base and calibration.
// It is derived from the exam name, so custom names that mention a known
// certification pick up its grounding text too.
type Category int

const (
	CategoryGeneric Category = iota
	CategoryIIICert
	CategoryAIPlanner
	CategoryNetZero
)

// Markers are matched in this order; the first hit wins.
var categoryMarkers = []struct {
	marker   string
	category Category
}{
	{"資策會", CategoryIIICert},
	{"iPAS AI應用規劃師初級", CategoryAIPlanner},
	{"iPAS 淨零碳規劃管理師", CategoryNetZero},
}

// CategoryOf classifies an exam by substring match on its name.
func CategoryOf(examName string) Category {
	for _, m := range categoryMarkers {
		if strings.Contains(examName, m.marker) {
			return m.category
		}
	}
	return CategoryGeneric
}

func (c Category) String() string {
	switch c {
	case CategoryIIICert:
		return "iii-cert"
	case CategoryAIPlanner:
		return "ai-planner"
	case CategoryNetZero:
		return "net-zero"
	default:
		return "generic"
	}
}

//go:embed kb/*.md
var kbFS embed.FS

// KnowledgeBase is the reference text a category's questions must be
// grounded on.
type KnowledgeBase struct {
	// Title is the certification name used in the grounding instruction.
	Title string
	Text  string
}

var knowledgeBases = map[Category]struct{ title, file string }{
	CategoryIIICert:   {"資策會生成式AI能力認證", "kb/iii_cert.md"},
	CategoryAIPlanner: {"iPAS AI應用規劃師初級", "kb/ipas_ai_planner.md"},
	CategoryNetZero:   {"iPAS 淨零碳規劃管理師", "kb/ipas_net_zero.md"},
}

// KnowledgeBaseFor returns the knowledge base for the exam name, if its
// category has one.
func KnowledgeBaseFor(examName string) (KnowledgeBase, bool) {
	entry, ok := knowledgeBases[CategoryOf(examName)]
	if !ok {
		return KnowledgeBase{}, false
	}
	data, err := kbFS.ReadFile(entry.file)
	if err != nil {
		// Embedded at build time; a miss is a packaging bug.
		panic(fmt.Sprintf("exam: knowledge base %s: %v", entry.file, err))
	}
	return KnowledgeBase{Title: entry.title, Text: strings.TrimSpace(string(data))}, true
}
