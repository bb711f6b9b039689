package session

import (
	"strconv"
	"time"

	"github.com/abhisek/mockexam/internal/exam"
	"github.com/abhisek/mockexam/internal/questiongen"
)

// Score is the graded tally of a test.
type Score struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// Total returns the number of graded questions.
func (s Score) Total() int { return s.Correct + s.Incorrect }

// TopicStats is the tally for one topic. Correct+Incorrect == Total.
type TopicStats struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Total     int `json:"total"`
}

// TopicAnalysis maps a topic to its tally.
type TopicAnalysis map[string]TopicStats

// TestRecord is one completed test as persisted in history. The JSON shape
// is the on-disk format and must stay stable.
type TestRecord struct {
	ID            string                 `json:"id"`
	ExamID        string                 `json:"examId"`
	ExamName      string                 `json:"examName"`
	Timestamp     int64                  `json:"timestamp"` // Unix milliseconds
	Score         Score                  `json:"score"`
	ElapsedSecs   int                    `json:"elapsedTimeInSeconds"`
	Questions     []questiongen.Question `json:"questions"`
	Answers       map[string]string      `json:"answers"`
	TopicAnalysis TopicAnalysis          `json:"topicAnalysis"`
}

// Time returns the record's creation time in the local zone.
func (r TestRecord) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// Answer returns the chosen key for question id.
func (r TestRecord) Answer(id string) (string, bool) {
	k, ok := r.Answers[id]
	return k, ok && k != ""
}

func newRecord(now time.Time, format exam.Format, elapsed int, questions []questiongen.Question,
	answers map[string]string, score Score, analysis TopicAnalysis) TestRecord {
	ms := now.UnixMilli()
	return TestRecord{
		ID:            strconv.FormatInt(ms, 10),
		ExamID:        format.ID,
		ExamName:      format.Name(),
		Timestamp:     ms,
		Score:         score,
		ElapsedSecs:   elapsed,
		Questions:     append([]questiongen.Question(nil), questions...),
		Answers:       cloneAnswers(answers),
		TopicAnalysis: analysis,
	}
}

func cloneAnswers(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
