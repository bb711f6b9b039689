package questiongen

// OptionKeys are the only valid option keys, in display order.
var OptionKeys = []string{"A", "B", "C", "D"}

// QuestionOption is one answer choice.
type QuestionOption struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Question is a validated single-choice exam question.
// It is immutable once returned by the generator.
type Question struct {
	// ID is "q<n>" where n is the 1-based position in the final set.
	ID               string           `json:"id"`
	QuestionText     string           `json:"questionText"`
	Options          []QuestionOption `json:"options"`
	CorrectAnswerKey string           `json:"correctAnswerKey"`
	Topic            string           `json:"topic"`
	Explanation      string           `json:"explanation"`
}

// Option returns the option with the given key.
func (q Question) Option(key string) (QuestionOption, bool) {
	for _, o := range q.Options {
		if o.Key == key {
			return o, true
		}
	}
	return QuestionOption{}, false
}

// Input describes one generation request.
type Input struct {
	// Count is the number of questions wanted. Must be positive.
	Count int

	// Topics is the exam syllabus. Must be non-empty.
	Topics []string

	// ExamName is the single-line exam display name. It selects the
	// knowledge base and difficulty calibration.
	ExamName string
}

// ProgressObserver receives the cumulative number of generated questions.
// Calls are serialized and the values are non-decreasing and never exceed
// Input.Count.
type ProgressObserver interface {
	OnProgress(generated int)
}

// ProgressFunc adapts a function to ProgressObserver.
type ProgressFunc func(generated int)

func (f ProgressFunc) OnProgress(generated int) { f(generated) }
