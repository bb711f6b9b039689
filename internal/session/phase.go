package session

// Phase is the state of a test session.
type Phase int

const (
	PhaseWelcome Phase = iota
	PhaseGeneratingQuestions
	PhaseAnsweringQuestions
	PhaseGrading
	PhaseViewingFeedback
	PhaseHistory
)

func (p Phase) String() string {
	switch p {
	case PhaseWelcome:
		return "welcome"
	case PhaseGeneratingQuestions:
		return "generating_questions"
	case PhaseAnsweringQuestions:
		return "answering_questions"
	case PhaseGrading:
		return "grading"
	case PhaseViewingFeedback:
		return "viewing_feedback"
	case PhaseHistory:
		return "history"
	default:
		return "unknown"
	}
}
