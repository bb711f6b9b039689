package session

import (
	"errors"

	"github.com/abhisek/mockexam/internal/i18n"
	"github.com/abhisek/mockexam/internal/llm"
	"github.com/abhisek/mockexam/internal/questiongen"
)

var (
	// ErrNotAnswered blocks advancing past an unanswered question.
	ErrNotAnswered = errors.New("session: current question is not answered")

	// ErrLastNotAnswered blocks grading while the last question is unanswered.
	ErrLastNotAnswered = errors.New("session: last question is not answered")

	// ErrInvalidTransition is returned when an operation is not allowed in
	// the current phase. The session is left unchanged.
	ErrInvalidTransition = errors.New("session: invalid transition")

	// ErrNoValidQuestions means generation finished without a usable question.
	ErrNoValidQuestions = errors.New("session: no valid questions generated")

	// ErrFeedbackUnavailable is the non-blocking error shown when the
	// feedback generator returned nothing.
	ErrFeedbackUnavailable = errors.New("session: feedback unavailable")

	// ErrStaleResult is returned when a generation or grading result belongs
	// to an abandoned run. The result is discarded.
	ErrStaleResult = errors.New("session: stale result discarded")
)

// HistoryError wraps a failure to persist a test record.
type HistoryError struct {
	Err error
}

func (e *HistoryError) Error() string { return "save test record: " + e.Err.Error() }

func (e *HistoryError) Unwrap() error { return e.Err }

// UserMessage turns err into a short localized message. phase is the phase
// the error was raised in; it picks the generic wording for errors with no
// dedicated message. A nil err yields "".
func UserMessage(tr *i18n.Translator, phase Phase, err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrNotAnswered):
		return tr.T("ErrSelectAnswer")
	case errors.Is(err, ErrLastNotAnswered):
		return tr.T("ErrAnswerLast")
	case errors.Is(err, ErrNoValidQuestions):
		return tr.T("ErrNoValidQuestions")
	case errors.Is(err, ErrFeedbackUnavailable):
		return tr.T("ErrFeedbackUnavailable")
	case errors.Is(err, questiongen.ErrNoQuestionsGenerated):
		return tr.T("ErrNoQuestionsGenerated")
	}

	var he *HistoryError
	if errors.As(err, &he) {
		return tr.Td("ErrSaveHistory", map[string]any{"Cause": he.Err.Error()})
	}

	switch llm.KindOf(err) {
	case llm.KindInvalidCredential:
		return tr.T("ErrInvalidCredential")
	case llm.KindRateLimited:
		return tr.T("ErrRateLimited")
	case llm.KindServiceBusy:
		return tr.T("ErrServiceBusy")
	}

	if phase == PhaseGrading || phase == PhaseViewingFeedback {
		return tr.Td("ErrFetchingFeedback", map[string]any{"Cause": err.Error()})
	}
	return tr.Td("ErrGenerating", map[string]any{"Cause": err.Error()})
}
