package exam

import (
	"slices"
	"strings"
)

// Format describes one certification exam the helper can generate
// questions for.
type Format struct {
	ID string

	// DisplayName may contain newlines for two-line rendering.
	// Use Name for prompts and records.
	DisplayName string

	Description string

	// Topics is the exam syllabus. Every generated question is tagged with
	// one of these strings.
	Topics []string

	QuestionCounts []int
	DefaultCount   int

	// Color is a hex color used for the format's accent in the TUI.
	Color string
}

// Name returns DisplayName on a single line.
func (f Format) Name() string {
	return strings.ReplaceAll(f.DisplayName, "\n", " ")
}

// NormalizeCount returns n if it is on the format's count menu,
// otherwise the format's default count.
func (f Format) NormalizeCount(n int) int {
	if slices.Contains(f.QuestionCounts, n) {
		return n
	}
	return f.DefaultCount
}

// DefaultID is the format selected on first launch.
const DefaultID = "iii_cert"

var formats = []Format{
	{
		ID:          "iii_cert",
		DisplayName: "資策會\n生成式AI能力認證",
		Description: "評量生成式AI的核心概念、提示工程、工具應用與倫理法規，著重職場實務運用能力。",
		Topics: []string{
			"生成式AI基本概念與發展",
			"大型語言模型與提示工程",
			"生成式AI工具應用 (文字、影像、影音)",
			"AI倫理、法規與資訊安全",
			"生成式AI於職場與產業之應用",
		},
		QuestionCounts: []int{5, 10, 20, 30, 50},
		DefaultCount:   10,
		Color:          "#0EA5E9",
	},
	{
		ID:          "ipas_s1",
		DisplayName: "iPAS AI應用規劃師初級\n科目一：人工智慧基礎概論",
		Description: "涵蓋人工智慧概念、資料處理與分析、機器學習原理，以及鑑別式AI與生成式AI的基礎知識。",
		Topics: []string{
			"人工智慧概念",
			"資料處理與分析概念",
			"機器學習概念",
			"鑑別式AI與生成式AI概念",
		},
		QuestionCounts: []int{5, 10, 20, 30, 50},
		DefaultCount:   20,
		Color:          "#6366F1",
	},
	{
		ID:          "ipas_s2",
		DisplayName: "iPAS AI應用規劃師初級\n科目二：生成式AI應用與規劃",
		Description: "聚焦No Code / Low Code 工具、生成式AI應用領域與工具選用，以及企業導入生成式AI的評估規劃。",
		Topics: []string{
			"No Code / Low Code 概念",
			"生成式AI應用領域與工具使用",
			"生成式AI導入評估規劃",
		},
		QuestionCounts: []int{5, 10, 20, 30, 50},
		DefaultCount:   20,
		Color:          "#F59E0B",
	},
	{
		ID:          "ipas_nz_s1",
		DisplayName: "iPAS 淨零碳規劃管理師\n科目一：淨零碳概論與政策法規",
		Description: "評量氣候變遷與淨零趨勢、國內外淨零政策法規、溫室氣體盤查與碳足跡標準，以及碳定價機制。",
		Topics: []string{
			"氣候變遷與淨零排放趨勢",
			"國際與國內淨零政策法規",
			"溫室氣體盤查 (ISO 14064-1)",
			"產品碳足跡 (ISO 14067)",
			"碳定價與碳交易機制",
		},
		QuestionCounts: []int{5, 10, 20, 30, 50},
		DefaultCount:   20,
		Color:          "#10B981",
	},
	{
		ID:          "ipas_nz_s2",
		DisplayName: "iPAS 淨零碳規劃管理師\n科目二：淨零碳規劃管理實務",
		Description: "著重企業淨零路徑規劃、能源管理與減碳技術、再生能源採購、碳中和宣告與永續資訊揭露實務。",
		Topics: []string{
			"企業淨零路徑與科學基礎減量目標 (SBTi)",
			"能源管理與節能減碳技術",
			"再生能源與綠電採購",
			"碳中和 (ISO 14068-1) 與碳抵換",
			"永續資訊揭露 (TCFD / IFRS S2)",
		},
		QuestionCounts: []int{5, 10, 20, 30, 50},
		DefaultCount:   20,
		Color:          "#14B8A6",
	},
}

// All returns every format in display order. The returned slice is a copy.
func All() []Format {
	return slices.Clone(formats)
}

// Lookup returns the format with the given id.
func Lookup(id string) (Format, bool) {
	for _, f := range formats {
		if f.ID == id {
			return f, true
		}
	}
	return Format{}, false
}

// LookupOrDefault returns the format with the given id, falling back to
// the first format in the catalog.
func LookupOrDefault(id string) Format {
	if f, ok := Lookup(id); ok {
		return f
	}
	return formats[0]
}
