package feedback

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

var promptTemplate = template.Must(template.New("feedback").Parse(`您是一位AI領域的資深學者，也是「{{.ExamName}}」的考試委員。請根據考生的作答摘要提供學習建議。

**考生表現概要 ({{.ExamName}})：**
總題數：{{.Total}}
答對題數：{{.Correct}}
答錯題數：{{.Incorrect}}
作答總時間：{{.Elapsed}}
{{.Analysis}}

請嚴格遵循 JSON 格式輸出，只需提供 'learningSuggestions' 欄位。

**內容指引 for 'learningSuggestions':**
{{if gt .Incorrect 0 -}}
根據考生在「{{.ExamName}}」的答錯情況（特別是答錯較多的主題）與作答總時間（{{.Elapsed}}），請提供2-3項具體的學習建議。請針對考生較弱的面向或知識點，為每個建議創建一個獨立區塊，並嚴格遵循以下 HTML 結構：
- **建議標題**: 使用 ` + "`<h4>`" + ` 標籤包裹，簡潔點出建議核心 (例如：` + "`<h4>強化特定主題的理解</h4>`" + `)。
- **詳細內容**: 在 ` + "`<h4>`" + ` 之後，使用一個或多個 ` + "`<p>`" + ` 標籤來詳細闡述。在說明中，必須使用 ` + "`<strong>`" + ` 標籤來強調重要的關鍵概念、主題或行動建議。
如果作答時間相對於題數明顯過長，也可以在建議中適當提醒考生注意時間分配。
{{- else -}}
恭喜您在「{{.ExamName}}」測驗中全部答對！您的基礎非常紮實。考量到您的作答總時間為 {{.Elapsed}}，請提供1-2個針對「{{.ExamName}}」相關領域的進階學習方向，例如深入研究特定AI技術或關注新興應用趨勢。請為每個建議創建一個獨立區塊，並嚴格遵循以下 HTML 結構：
- **建議標題**: 使用 ` + "`<h4>`" + ` 標籤包裹，簡潔點出建議核心 (例如：` + "`<h4>深入研究前沿技術</h4>`" + `)。
- **詳細內容**: 在 ` + "`<h4>`" + ` 之後，使用一個或多個 ` + "`<p>`" + ` 標籤來詳細闡述。在說明中，必須使用 ` + "`<strong>`" + ` 標籤來強調重要的關鍵概念、新興技術或學習資源。
{{- end}}

請保持專業、嚴謹且具鼓勵性的語氣。最終輸出的 'learningSuggestions' 內容必須是格式正確、可以直接渲染的 HTML 字串，不要出現MARKDOWN格式或任何JSON以外的文字。
`))

type promptData struct {
	ExamName  string
	Total     int
	Correct   int
	Incorrect int
	Elapsed   string
	Analysis  string
}

func buildPrompt(in Input) (string, error) {
	var buf bytes.Buffer
	err := promptTemplate.Execute(&buf, promptData{
		ExamName:  in.ExamName,
		Total:     in.Correct + in.Incorrect,
		Correct:   in.Correct,
		Incorrect: in.Incorrect,
		Elapsed:   FormatElapsed(in.ElapsedSeconds),
		Analysis:  analysisText(in.Topics),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func analysisText(topics []TopicResult) string {
	if len(topics) == 0 {
		return "無主題分析資料。"
	}
	lines := make([]string, 0, len(topics)+1)
	lines = append(lines, "答題主題分析：")
	for _, t := range topics {
		lines = append(lines, fmt.Sprintf("- 主題「%s」: %d / %d 答對", t.Topic, t.Correct, t.Total))
	}
	return strings.Join(lines, "\n")
}
