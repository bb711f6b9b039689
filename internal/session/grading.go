package session

import (
	"fmt"
	"html"
	"strings"

	"github.com/abhisek/mockexam/internal/feedback"
	"github.com/abhisek/mockexam/internal/questiongen"
)

// PlaceholderSuggestions replaces the learning suggestions when the
// feedback generator returns nothing usable.
const PlaceholderSuggestions = "<p>抱歉，目前無法生成個人化的學習建議。</p>"

const noErrorsHTML = "<p>本次測驗無錯誤題目，恭喜！</p>"

// Result is everything the feedback screen shows for a graded test.
type Result struct {
	Score         Score
	TopicAnalysis TopicAnalysis

	// ErrorAnalysisHTML is rendered locally from the answers, so it is
	// available even when the feedback call fails.
	ErrorAnalysisHTML string

	LearningSuggestions string
}

// Grade counts exact key matches. Unanswered questions are incorrect.
func Grade(questions []questiongen.Question, answers map[string]string) Score {
	var s Score
	for _, q := range questions {
		if answers[q.ID] == q.CorrectAnswerKey {
			s.Correct++
		}
	}
	s.Incorrect = len(questions) - s.Correct
	return s
}

// BuildTopicAnalysis tallies results per topic. Questions without a topic
// are skipped.
func BuildTopicAnalysis(questions []questiongen.Question, answers map[string]string) TopicAnalysis {
	analysis := TopicAnalysis{}
	for _, q := range questions {
		if q.Topic == "" {
			continue
		}
		st := analysis[q.Topic]
		if answers[q.ID] == q.CorrectAnswerKey {
			st.Correct++
		} else {
			st.Incorrect++
		}
		st.Total++
		analysis[q.Topic] = st
	}
	return analysis
}

// TopicResults orders the analysis by first appearance in questions.
func TopicResults(questions []questiongen.Question, analysis TopicAnalysis) []feedback.TopicResult {
	if len(analysis) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(analysis))
	var out []feedback.TopicResult
	for _, q := range questions {
		st, ok := analysis[q.Topic]
		if !ok || seen[q.Topic] {
			continue
		}
		seen[q.Topic] = true
		out = append(out, feedback.TopicResult{Topic: q.Topic, Correct: st.Correct, Total: st.Total})
	}
	return out
}

// ErrorAnalysisHTML renders one block per incorrectly answered question,
// numbered by its position in the test.
func ErrorAnalysisHTML(questions []questiongen.Question, answers map[string]string) string {
	var blocks []string
	for i, q := range questions {
		chosen := answers[q.ID]
		if chosen == q.CorrectAnswerKey {
			continue
		}

		yours := "(未作答)"
		if opt, ok := q.Option(chosen); ok {
			yours = optionLine(opt)
		}
		correct := "N/A"
		if opt, ok := q.Option(q.CorrectAnswerKey); ok {
			correct = optionLine(opt)
		}
		explanation := "此題未提供詳解。"
		if q.Explanation != "" {
			explanation = html.EscapeString(q.Explanation)
		}

		var b strings.Builder
		fmt.Fprintf(&b, "<div><h4>題目 %d: %s</h4>", i+1, html.EscapeString(q.QuestionText))
		fmt.Fprintf(&b, "<p><strong>你的答案 (錯誤)</strong></p><p>%s</p>", yours)
		fmt.Fprintf(&b, "<p><strong>正確答案</strong></p><p>%s</p>", correct)
		fmt.Fprintf(&b, "<p><strong>詳解說明：</strong></p><p>%s</p></div>", explanation)
		blocks = append(blocks, b.String())
	}
	if len(blocks) == 0 {
		return noErrorsHTML
	}
	return strings.Join(blocks, "<hr/>")
}

func optionLine(o questiongen.QuestionOption) string {
	return html.EscapeString(o.Key + ". " + o.Text)
}
