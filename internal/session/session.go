package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/mockexam/internal/exam"
	"github.com/abhisek/mockexam/internal/feedback"
	"github.com/abhisek/mockexam/internal/questiongen"
)

// QuestionGenerator produces the questions for a test.
// *questiongen.Generator satisfies it.
type QuestionGenerator interface {
	Generate(ctx context.Context, in questiongen.Input, progress questiongen.ProgressObserver) ([]questiongen.Question, error)
	ModelID() string
}

// FeedbackGenerator writes learning suggestions for a graded test.
// *feedback.Generator satisfies it.
type FeedbackGenerator interface {
	Generate(ctx context.Context, in feedback.Input) (*feedback.Feedback, error)
}

// GenerationRequest is the work started by Start. Run it with
// RunGeneration and hand the result to ApplyGeneration.
type GenerationRequest struct {
	Epoch string
	Input questiongen.Input
}

// GenerationResult is the outcome of a GenerationRequest.
type GenerationResult struct {
	Epoch     string
	Questions []questiongen.Question
	Err       error
}

// GradeJob is the remote part of grading: persisting the record and
// fetching feedback. Score, topic analysis and the error document are
// already final when a GradeJob exists.
type GradeJob struct {
	Epoch    string
	Record   TestRecord
	Feedback feedback.Input
}

// GradeOutcome is the result of RunGrading.
type GradeOutcome struct {
	Epoch    string
	Record   TestRecord
	Saved    bool
	Feedback *feedback.Feedback
	Err      error
}

// Session is the test state machine. It is not safe for concurrent use:
// all methods except RunGeneration and RunGrading must be called from the
// goroutine that owns the session. Those two only read the injected
// collaborators, so they may run in the background.
type Session struct {
	questionsGen QuestionGenerator
	feedbackGen  FeedbackGenerator
	history      HistoryRepo
	logger       *slog.Logger
	now          func() time.Time

	phase  Phase
	format exam.Format
	count  int

	// epoch identifies the current run. Results carrying another epoch
	// are discarded.
	epoch    string
	progress int
	model    string

	questions []questiongen.Question
	answers   map[string]string
	index     int
	startedAt time.Time
	elapsed   int
	result    *Result

	records []TestRecord

	err      error
	errPhase Phase
}

// New creates a session in the welcome phase with the default exam format
// selected.
func New(questions QuestionGenerator, fb FeedbackGenerator, history HistoryRepo) *Session {
	f := exam.LookupOrDefault(exam.DefaultID)
	return &Session{
		questionsGen: questions,
		feedbackGen:  fb,
		history:      history,
		logger:       slog.Default().With("component", "session"),
		now:          time.Now,
		phase:        PhaseWelcome,
		format:       f,
		count:        f.DefaultCount,
		answers:      map[string]string{},
	}
}

// LoadHistory reads the stored history. On failure the in-memory history
// stays empty and the error is returned for logging.
func (s *Session) LoadHistory(ctx context.Context) error {
	records, err := s.history.Load(ctx)
	if err != nil {
		s.logger.Warn("could not load test history", "error", err)
		return err
	}
	s.records = records
	return nil
}

func (s *Session) Phase() Phase { return s.phase }
func (s *Session) Format() exam.Format { return s.format }
func (s *Session) Count() int { return s.count }
func (s *Session) Index() int { return s.index }
func (s *Session) Elapsed() int { return s.elapsed }
func (s *Session) Progress() int { return s.progress }
func (s *Session) Model() string { return s.model }
func (s *Session) Epoch() string { return s.epoch }
func (s *Session) Result() *Result { return s.result }
func (s *Session) Err() error { return s.err }
func (s *Session) ErrPhase() Phase { return s.errPhase }
func (s *Session) Questions() []questiongen.Question {
	return append([]questiongen.Question(nil), s.questions...)
}

// History returns the stored records oldest first.
func (s *Session) History() []TestRecord {
	return append([]TestRecord(nil), s.records...)
}

// Current returns the question at the cursor.
func (s *Session) Current() (questiongen.Question, bool) {
	if s.index < 0 || s.index >= len(s.questions) {
		return questiongen.Question{}, false
	}
	return s.questions[s.index], true
}

// Answer returns the option chosen for question id.
func (s *Session) Answer(id string) (string, bool) {
	k, ok := s.answers[id]
	return k, ok && k != ""
}

// DismissError clears the pending user-visible error.
func (s *Session) DismissError() {
	s.err = nil
}

func (s *Session) fail(phase Phase, err error) {
	s.err = err
	s.errPhase = phase
}

func (s *Session) invalid(op string) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, op, s.phase)
}

// SelectFormat picks the exam. The count falls back to the format's
// default when it is not on the new format's menu.
func (s *Session) SelectFormat(id string) error {
	if s.phase != PhaseWelcome {
		return s.invalid("select format")
	}
	f, ok := exam.Lookup(id)
	if !ok {
		return fmt.Errorf("unknown exam format %q", id)
	}
	s.format = f
	s.count = f.NormalizeCount(s.count)
	return nil
}

// SetCount picks the number of questions from the format's menu.
func (s *Session) SetCount(n int) error {
	if s.phase != PhaseWelcome {
		return s.invalid("set count")
	}
	s.count = s.format.NormalizeCount(n)
	return nil
}

// Start moves to the generating phase and returns the generation work.
func (s *Session) Start() (GenerationRequest, error) {
	if s.phase != PhaseWelcome {
		return GenerationRequest{}, s.invalid("start")
	}
	s.err = nil
	s.epoch = uuid.NewString()
	s.progress = 0
	s.elapsed = 0
	s.startedAt = time.Time{}
	if s.questionsGen != nil {
		s.model = s.questionsGen.ModelID()
	}
	s.phase = PhaseGeneratingQuestions

	s.logger.Info("test started", "exam", s.format.ID, "count", s.count, "epoch", s.epoch)
	return GenerationRequest{
		Epoch: s.epoch,
		Input: questiongen.Input{
			Count:    s.count,
			Topics:   s.format.Topics,
			ExamName: s.format.Name(),
		},
	}, nil
}

// RunGeneration calls the question generator. It does not touch session
// state.
func (s *Session) RunGeneration(ctx context.Context, req GenerationRequest, progress questiongen.ProgressObserver) GenerationResult {
	qs, err := s.questionsGen.Generate(ctx, req.Input, progress)
	return GenerationResult{Epoch: req.Epoch, Questions: qs, Err: err}
}

// ReportProgress records generation progress for the run identified by
// epoch. Stale or decreasing values are ignored.
func (s *Session) ReportProgress(epoch string, generated int) {
	if epoch != s.epoch || s.phase != PhaseGeneratingQuestions {
		return
	}
	s.progress = max(s.progress, min(generated, s.count))
}

// ApplyGeneration completes the generating phase. A failed or empty result
// returns to welcome with a user-visible error.
func (s *Session) ApplyGeneration(res GenerationResult) error {
	if res.Epoch != s.epoch || s.phase != PhaseGeneratingQuestions {
		s.logger.Debug("discarding stale generation result", "epoch", res.Epoch)
		return ErrStaleResult
	}

	if res.Err != nil {
		s.logger.Error("question generation failed", "error", res.Err)
		s.fail(PhaseGeneratingQuestions, res.Err)
		s.phase = PhaseWelcome
		return nil
	}
	if len(res.Questions) == 0 {
		s.fail(PhaseGeneratingQuestions, ErrNoValidQuestions)
		s.phase = PhaseWelcome
		return nil
	}

	qs := res.Questions
	if len(qs) > s.count {
		qs = qs[:s.count]
	}
	s.questions = append([]questiongen.Question(nil), qs...)
	s.answers = map[string]string{}
	s.index = 0
	s.result = nil
	s.err = nil
	s.elapsed = 0
	s.startedAt = s.now()
	s.phase = PhaseAnsweringQuestions
	return nil
}

// SelectAnswer records key for the current question. Answering clears any
// pending error.
func (s *Session) SelectAnswer(key string) error {
	if s.phase != PhaseAnsweringQuestions {
		return s.invalid("select answer")
	}
	q, ok := s.Current()
	if !ok {
		return s.invalid("select answer")
	}
	if _, ok := q.Option(key); !ok {
		return fmt.Errorf("question %s has no option %q", q.ID, key)
	}
	s.answers[q.ID] = key
	s.err = nil
	return nil
}

// Next advances the cursor. On the last question it submits the test and
// returns the grading work instead.
func (s *Session) Next() (*GradeJob, error) {
	if s.phase != PhaseAnsweringQuestions {
		return nil, s.invalid("next")
	}
	q, ok := s.Current()
	if !ok {
		return nil, s.invalid("next")
	}
	if _, answered := s.Answer(q.ID); !answered {
		s.fail(PhaseAnsweringQuestions, ErrNotAnswered)
		return nil, ErrNotAnswered
	}
	s.err = nil
	if s.index < len(s.questions)-1 {
		s.index++
		return nil, nil
	}
	return s.Submit()
}

// Previous moves the cursor back. It is a no-op on the first question.
func (s *Session) Previous() error {
	if s.phase != PhaseAnsweringQuestions {
		return s.invalid("previous")
	}
	if s.index > 0 {
		s.index--
		s.err = nil
	}
	return nil
}

// Tick recomputes the elapsed seconds from the start time. It only has an
// effect while answering.
func (s *Session) Tick(now time.Time) {
	if s.phase != PhaseAnsweringQuestions || s.startedAt.IsZero() {
		return
	}
	s.elapsed = max(0, int(now.Sub(s.startedAt)/time.Second))
}

// Submit grades the test locally and moves to the grading phase. The
// returned job persists the record and fetches feedback.
func (s *Session) Submit() (*GradeJob, error) {
	if s.phase != PhaseAnsweringQuestions {
		return nil, s.invalid("submit")
	}
	if len(s.questions) == 0 {
		return nil, s.invalid("submit")
	}
	last := s.questions[len(s.questions)-1]
	if _, answered := s.Answer(last.ID); !answered {
		s.fail(PhaseAnsweringQuestions, ErrLastNotAnswered)
		return nil, ErrLastNotAnswered
	}

	s.err = nil
	score := Grade(s.questions, s.answers)
	analysis := BuildTopicAnalysis(s.questions, s.answers)
	s.result = &Result{
		Score:             score,
		TopicAnalysis:     analysis,
		ErrorAnalysisHTML: ErrorAnalysisHTML(s.questions, s.answers),
	}
	rec := newRecord(s.now(), s.format, s.elapsed, s.questions, s.answers, score, analysis)
	s.phase = PhaseGrading

	s.logger.Info("test graded", "exam", s.format.ID, "correct", score.Correct, "incorrect", score.Incorrect, "elapsed", s.elapsed)
	return &GradeJob{
		Epoch:  s.epoch,
		Record: rec,
		Feedback: feedback.Input{
			Correct:        score.Correct,
			Incorrect:      score.Incorrect,
			ElapsedSeconds: s.elapsed,
			ExamName:       s.format.Name(),
			Topics:         TopicResults(s.questions, analysis),
		},
	}, nil
}

// RunGrading persists the record then asks for feedback. It does not touch
// session state.
func (s *Session) RunGrading(ctx context.Context, job *GradeJob) GradeOutcome {
	out := GradeOutcome{Epoch: job.Epoch, Record: job.Record}
	if err := s.history.Append(ctx, job.Record); err != nil {
		out.Err = &HistoryError{Err: err}
		return out
	}
	out.Saved = true

	fb, err := s.feedbackGen.Generate(ctx, job.Feedback)
	if err != nil {
		out.Err = err
		return out
	}
	out.Feedback = fb
	return out
}

// ApplyGrading completes the grading phase. Missing feedback still reaches
// the results with placeholder suggestions. A failed call returns to
// answering with the answers intact.
func (s *Session) ApplyGrading(out GradeOutcome) error {
	if out.Saved {
		s.records = append(s.records, out.Record)
	}
	if out.Epoch != s.epoch || s.phase != PhaseGrading {
		return ErrStaleResult
	}

	if out.Err != nil {
		s.logger.Error("grading failed", "error", out.Err)
		s.fail(PhaseGrading, out.Err)
		s.result = nil
		s.phase = PhaseAnsweringQuestions
		return nil
	}

	if out.Feedback == nil || strings.TrimSpace(out.Feedback.LearningSuggestions) == "" {
		s.fail(PhaseGrading, ErrFeedbackUnavailable)
		s.result.LearningSuggestions = PlaceholderSuggestions
	} else {
		s.result.LearningSuggestions = out.Feedback.LearningSuggestions
	}
	s.phase = PhaseViewingFeedback
	return nil
}

// Restart abandons the current run and returns to welcome. Results still in
// flight for the old run are discarded when they arrive.
func (s *Session) Restart() error {
	switch s.phase {
	case PhaseGeneratingQuestions, PhaseAnsweringQuestions, PhaseViewingFeedback:
	default:
		return s.invalid("restart")
	}
	s.epoch = ""
	s.progress = 0
	s.model = ""
	s.questions = nil
	s.answers = map[string]string{}
	s.index = 0
	s.startedAt = time.Time{}
	s.elapsed = 0
	s.result = nil
	s.err = nil
	s.phase = PhaseWelcome
	return nil
}

// ShowHistory opens the history view.
func (s *Session) ShowHistory() error {
	if s.phase != PhaseWelcome {
		return s.invalid("show history")
	}
	s.err = nil
	s.phase = PhaseHistory
	return nil
}

// BackToWelcome leaves the history view.
func (s *Session) BackToWelcome() error {
	if s.phase != PhaseHistory {
		return s.invalid("back to welcome")
	}
	s.err = nil
	s.phase = PhaseWelcome
	return nil
}
