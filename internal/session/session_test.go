package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mockexam/internal/feedback"
	"github.com/abhisek/mockexam/internal/i18n"
	"github.com/abhisek/mockexam/internal/llm"
	"github.com/abhisek/mockexam/internal/questiongen"
)

type fakeGenerator struct {
	questions []questiongen.Question
	err       error
	calls     []questiongen.Input
}

func (f *fakeGenerator) Generate(_ context.Context, in questiongen.Input, progress questiongen.ProgressObserver) ([]questiongen.Question, error) {
	f.calls = append(f.calls, in)
	if progress != nil {
		progress.OnProgress(len(f.questions))
	}
	return f.questions, f.err
}

func (f *fakeGenerator) ModelID() string { return "fake-model" }

type fakeFeedback struct {
	fb    *feedback.Feedback
	err   error
	calls []feedback.Input
}

func (f *fakeFeedback) Generate(_ context.Context, in feedback.Input) (*feedback.Feedback, error) {
	f.calls = append(f.calls, in)
	return f.fb, f.err
}

type memKV struct {
	mu     sync.Mutex
	data   map[string][]byte
	putErr error
}

func newMemKV() *memKV { return &memKV{data: map[string][]byte{}} }

func (m *memKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.data[key] = value
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func makeQuestions(n int) []questiongen.Question {
	qs := make([]questiongen.Question, n)
	for i := range n {
		qs[i] = questiongen.Question{
			ID:           fmt.Sprintf("q%d", i+1),
			QuestionText: fmt.Sprintf("Question %d?", i+1),
			Options: []questiongen.QuestionOption{
				{Key: "A", Text: "alpha"},
				{Key: "B", Text: "beta"},
				{Key: "C", Text: "gamma"},
				{Key: "D", Text: "delta"},
			},
			CorrectAnswerKey: "A",
			Topic:            fmt.Sprintf("topic-%d", i%2),
			Explanation:      "because",
		}
	}
	return qs
}

var testStart = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

type harness struct {
	s   *Session
	gen *fakeGenerator
	fb  *fakeFeedback
	kv  *memKV
}

func newHarness(t *testing.T, n int) *harness {
	t.Helper()
	h := &harness{
		gen: &fakeGenerator{questions: makeQuestions(n)},
		fb:  &fakeFeedback{fb: &feedback.Feedback{LearningSuggestions: "<h4>Keep going</h4>"}},
		kv:  newMemKV(),
	}
	h.s = New(h.gen, h.fb, NewKVHistory(h.kv))
	h.s.now = func() time.Time { return testStart }
	require.NoError(t, h.s.SetCount(5))
	return h
}

// generate runs one generation round trip synchronously.
func generate(t *testing.T, s *Session) {
	t.Helper()
	req, err := s.Start()
	require.NoError(t, err)
	require.NoError(t, s.ApplyGeneration(s.RunGeneration(context.Background(), req, nil)))
}

// grade submits the test and applies the grading outcome synchronously.
func grade(t *testing.T, s *Session) {
	t.Helper()
	job, err := s.Submit()
	require.NoError(t, err)
	require.NoError(t, s.ApplyGrading(s.RunGrading(context.Background(), job)))
}

// answering returns a harness already in the answering phase.
func answering(t *testing.T, n int) *harness {
	t.Helper()
	h := newHarness(t, n)
	generate(t, h.s)
	require.Equal(t, PhaseAnsweringQuestions, h.s.Phase())
	return h
}

// answerAll walks the test choosing answers[i] for question i. The last
// Next triggers submission and its job is returned.
func answerAll(t *testing.T, s *Session, answers []string) *GradeJob {
	t.Helper()
	var job *GradeJob
	for i, a := range answers {
		require.NoError(t, s.SelectAnswer(a), "question %d", i+1)
		var err error
		job, err = s.Next()
		require.NoError(t, err, "question %d", i+1)
	}
	return job
}

func TestNew_Defaults(t *testing.T) {
	s := New(nil, nil, nil)
	if s.Phase() != PhaseWelcome {
		t.Errorf("Phase = %v, want welcome", s.Phase())
	}
	if s.Format().ID != "iii_cert" {
		t.Errorf("Format = %q, want iii_cert", s.Format().ID)
	}
	if s.Count() != 10 {
		t.Errorf("Count = %d, want 10", s.Count())
	}
}

func TestSelectFormat_NormalizesCount(t *testing.T) {
	s := New(nil, nil, nil)
	require.NoError(t, s.SetCount(50))
	require.NoError(t, s.SelectFormat("ipas_s1"))
	assert.Equal(t, 50, s.Count(), "50 is on the ipas_s1 menu")

	require.NoError(t, s.SetCount(7))
	assert.Equal(t, 20, s.Count(), "off-menu count falls back to the default")

	assert.Error(t, s.SelectFormat("nope"))
	assert.Equal(t, "ipas_s1", s.Format().ID)
}

func TestGenerate_ScenarioA(t *testing.T) {
	h := newHarness(t, 5)
	var seen []int
	req, err := h.s.Start()
	require.NoError(t, err)
	res := h.s.RunGeneration(context.Background(), req, questiongen.ProgressFunc(func(n int) { seen = append(seen, n) }))
	require.NoError(t, h.s.ApplyGeneration(res))

	assert.Equal(t, PhaseAnsweringQuestions, h.s.Phase())
	qs := h.s.Questions()
	require.Len(t, qs, 5)
	for i, q := range qs {
		assert.Equal(t, fmt.Sprintf("q%d", i+1), q.ID)
	}
	assert.Equal(t, 0, h.s.Index())
	assert.Equal(t, "fake-model", h.s.Model())
	assert.NoError(t, h.s.Err())
	assert.Equal(t, []int{5}, seen)

	require.Len(t, h.gen.calls, 1)
	in := h.gen.calls[0]
	assert.Equal(t, 5, in.Count)
	assert.Equal(t, "資策會 生成式AI能力認證", in.ExamName)
	assert.NotEmpty(t, in.Topics)
}

func TestGenerate_TruncatesToCount(t *testing.T) {
	h := newHarness(t, 8)
	generate(t, h.s)
	assert.Len(t, h.s.Questions(), 5)
}

func TestGenerate_EmptyResultReturnsToWelcome(t *testing.T) {
	h := newHarness(t, 0)
	generate(t, h.s)
	assert.Equal(t, PhaseWelcome, h.s.Phase())
	assert.ErrorIs(t, h.s.Err(), ErrNoValidQuestions)
	assert.Equal(t, PhaseGeneratingQuestions, h.s.ErrPhase())
}

func TestGenerate_ErrorReturnsToWelcome(t *testing.T) {
	h := newHarness(t, 5)
	h.gen.err = &llm.ErrInvalidCredential{Err: errors.New("API key not valid")}
	h.gen.questions = nil

	generate(t, h.s)
	assert.Equal(t, PhaseWelcome, h.s.Phase())
	assert.Equal(t, llm.KindInvalidCredential, llm.KindOf(h.s.Err()))
}

func TestStart_OnlyFromWelcome(t *testing.T) {
	h := answering(t, 5)
	_, err := h.s.Start()
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, PhaseAnsweringQuestions, h.s.Phase())
}

func TestApplyGeneration_DiscardsStaleEpoch(t *testing.T) {
	h := newHarness(t, 5)
	req, err := h.s.Start()
	require.NoError(t, err)
	stale := h.s.RunGeneration(context.Background(), req, nil)

	// Abandon and start again before the first result lands.
	require.NoError(t, h.s.Restart())
	req2, err := h.s.Start()
	require.NoError(t, err)
	require.NotEqual(t, req.Epoch, req2.Epoch)

	assert.ErrorIs(t, h.s.ApplyGeneration(stale), ErrStaleResult)
	assert.Equal(t, PhaseGeneratingQuestions, h.s.Phase())

	h.s.ReportProgress(req.Epoch, 3)
	assert.Equal(t, 0, h.s.Progress(), "stale progress is ignored")

	require.NoError(t, h.s.ApplyGeneration(h.s.RunGeneration(context.Background(), req2, nil)))
	assert.Equal(t, PhaseAnsweringQuestions, h.s.Phase())
}

func TestReportProgress_MonotonicAndCapped(t *testing.T) {
	h := newHarness(t, 5)
	req, err := h.s.Start()
	require.NoError(t, err)

	for _, tc := range []struct{ in, want int }{
		{2, 2}, {1, 2}, {4, 4}, {9, 5},
	} {
		h.s.ReportProgress(req.Epoch, tc.in)
		assert.Equal(t, tc.want, h.s.Progress(), "after reporting %d", tc.in)
	}
}

func TestNext_ScenarioD(t *testing.T) {
	h := answering(t, 5)

	job, err := h.s.Next()
	assert.Nil(t, job)
	assert.ErrorIs(t, err, ErrNotAnswered)
	assert.ErrorIs(t, h.s.Err(), ErrNotAnswered)
	assert.Equal(t, 0, h.s.Index(), "blocked next leaves the cursor")
	assert.Equal(t, PhaseAnsweringQuestions, h.s.Phase())

	require.NoError(t, h.s.SelectAnswer("B"))
	assert.NoError(t, h.s.Err(), "answering clears the error")

	job, err = h.s.Next()
	require.NoError(t, err)
	assert.Nil(t, job)
	assert.Equal(t, 1, h.s.Index())
}

func TestSelectAnswer_RejectsUnknownOption(t *testing.T) {
	h := answering(t, 5)
	assert.Error(t, h.s.SelectAnswer("E"))
	_, ok := h.s.Answer("q1")
	assert.False(t, ok)
}

func TestSelectAnswer_OutsideAnswering(t *testing.T) {
	s := New(nil, nil, nil)
	assert.ErrorIs(t, s.SelectAnswer("A"), ErrInvalidTransition)
}

func TestPrevious(t *testing.T) {
	h := answering(t, 5)

	require.NoError(t, h.s.Previous())
	assert.Equal(t, 0, h.s.Index(), "no-op on the first question")

	require.NoError(t, h.s.SelectAnswer("A"))
	_, err := h.s.Next()
	require.NoError(t, err)

	_, err = h.s.Next()
	require.ErrorIs(t, err, ErrNotAnswered)

	require.NoError(t, h.s.Previous())
	assert.Equal(t, 0, h.s.Index())
	assert.NoError(t, h.s.Err(), "moving back clears the error")

	a, ok := h.s.Answer("q1")
	assert.True(t, ok)
	assert.Equal(t, "A", a)
}

func TestTick_RecomputesFromStart(t *testing.T) {
	h := answering(t, 5)

	h.s.Tick(testStart.Add(1500 * time.Millisecond))
	assert.Equal(t, 1, h.s.Elapsed())

	// A suspended ticker catches up on the next tick.
	h.s.Tick(testStart.Add(95 * time.Second))
	assert.Equal(t, 95, h.s.Elapsed())

	h.s.Tick(testStart.Add(-time.Second))
	assert.Equal(t, 0, h.s.Elapsed())
}

func TestTick_IgnoredOutsideAnswering(t *testing.T) {
	h := newHarness(t, 5)
	h.s.Tick(testStart.Add(time.Minute))
	assert.Equal(t, 0, h.s.Elapsed())
}

func TestGrade_ScenarioC_FeedbackUnavailable(t *testing.T) {
	h := answering(t, 5)
	h.fb.fb = nil

	h.s.Tick(testStart.Add(125 * time.Second))
	job := answerAll(t, h.s, []string{"A", "A", "A", "B", "C"})
	require.NotNil(t, job)
	assert.Equal(t, PhaseGrading, h.s.Phase())

	require.NoError(t, h.s.ApplyGrading(h.s.RunGrading(context.Background(), job)))

	assert.Equal(t, PhaseViewingFeedback, h.s.Phase())
	res := h.s.Result()
	require.NotNil(t, res)
	assert.Equal(t, Score{Correct: 3, Incorrect: 2}, res.Score)
	assert.Equal(t, PlaceholderSuggestions, res.LearningSuggestions)
	assert.Contains(t, res.ErrorAnalysisHTML, "題目 4")
	assert.Contains(t, res.ErrorAnalysisHTML, "題目 5")
	assert.NotContains(t, res.ErrorAnalysisHTML, "題目 1:")
	assert.ErrorIs(t, h.s.Err(), ErrFeedbackUnavailable)

	require.Len(t, h.fb.calls, 1)
	in := h.fb.calls[0]
	assert.Equal(t, 3, in.Correct)
	assert.Equal(t, 2, in.Incorrect)
	assert.Equal(t, 125, in.ElapsedSeconds)
	assert.Equal(t, []feedback.TopicResult{
		{Topic: "topic-0", Correct: 2, Total: 3},
		{Topic: "topic-1", Correct: 1, Total: 2},
	}, in.Topics)

	hist := h.s.History()
	require.Len(t, hist, 1)
	assert.Equal(t, Score{Correct: 3, Incorrect: 2}, hist[0].Score)
	assert.Equal(t, 125, hist[0].ElapsedSecs)
	assert.Equal(t, "1740821400000", hist[0].ID)

	stored, err := NewKVHistory(h.kv).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, hist[0].ID, stored[0].ID)
}

func TestGrade_WithFeedback(t *testing.T) {
	h := answering(t, 5)
	for range 4 {
		require.NoError(t, h.s.SelectAnswer("A"))
		_, err := h.s.Next()
		require.NoError(t, err)
	}
	require.NoError(t, h.s.SelectAnswer("A"))
	grade(t, h.s)

	assert.Equal(t, PhaseViewingFeedback, h.s.Phase())
	assert.NoError(t, h.s.Err())
	assert.Equal(t, "<h4>Keep going</h4>", h.s.Result().LearningSuggestions)
	assert.Equal(t, noErrorsHTML, h.s.Result().ErrorAnalysisHTML)
}

func TestGrade_ThrownErrorPreservesAnswers(t *testing.T) {
	h := answering(t, 5)
	h.fb.err = &llm.ErrProviderUnavailable{Err: errors.New("upstream down")}

	job := answerAll(t, h.s, []string{"A", "B", "A", "B", "A"})
	require.NoError(t, h.s.ApplyGrading(h.s.RunGrading(context.Background(), job)))

	assert.Equal(t, PhaseAnsweringQuestions, h.s.Phase())
	assert.Equal(t, PhaseGrading, h.s.ErrPhase())
	assert.Error(t, h.s.Err())
	assert.Nil(t, h.s.Result())
	for i, want := range []string{"A", "B", "A", "B", "A"} {
		got, ok := h.s.Answer(fmt.Sprintf("q%d", i+1))
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}

	// The user can resubmit from where they were.
	h.fb.err = nil
	grade(t, h.s)
	assert.Equal(t, PhaseViewingFeedback, h.s.Phase())
}

func TestGrade_HistoryFailureReturnsToAnswering(t *testing.T) {
	h := answering(t, 5)
	h.kv.putErr = errors.New("disk full")

	job := answerAll(t, h.s, []string{"A", "A", "A", "A", "A"})
	require.NoError(t, h.s.ApplyGrading(h.s.RunGrading(context.Background(), job)))

	assert.Equal(t, PhaseAnsweringQuestions, h.s.Phase())
	var he *HistoryError
	assert.ErrorAs(t, h.s.Err(), &he)
	assert.Empty(t, h.fb.calls, "feedback is not requested when saving fails")
	assert.Empty(t, h.s.History())
}

func TestGrade_CorruptStoredHistoryIsReplaced(t *testing.T) {
	h := newHarness(t, 5)
	h.kv.data[HistoryKey] = []byte("{not json")
	assert.Error(t, h.s.LoadHistory(context.Background()))

	for range 2 {
		generate(t, h.s)
		job := answerAll(t, h.s, []string{"A", "B", "A", "A", "A"})
		require.NoError(t, h.s.ApplyGrading(h.s.RunGrading(context.Background(), job)))
		require.Equal(t, PhaseViewingFeedback, h.s.Phase())
		assert.NoError(t, h.s.Err())
		require.NoError(t, h.s.Restart())
	}

	assert.Len(t, h.s.History(), 2)
	stored, err := NewKVHistory(h.kv).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestSubmit_RequiresLastAnswer(t *testing.T) {
	h := answering(t, 5)
	_, err := h.s.Submit()
	assert.ErrorIs(t, err, ErrLastNotAnswered)
	assert.Equal(t, PhaseAnsweringQuestions, h.s.Phase())
	assert.ErrorIs(t, h.s.Err(), ErrLastNotAnswered)
}

func TestRestart_ClearsRunState(t *testing.T) {
	h := answering(t, 5)
	answerAll(t, h.s, []string{"A", "A", "A", "A", "A"})
	assert.ErrorIs(t, h.s.Restart(), ErrInvalidTransition, "cannot abandon while grading")

	h = answering(t, 5)
	h.s.Tick(testStart.Add(30 * time.Second))
	job := answerAll(t, h.s, []string{"A", "B", "A", "A", "A"})
	require.NoError(t, h.s.ApplyGrading(h.s.RunGrading(context.Background(), job)))
	require.Equal(t, PhaseViewingFeedback, h.s.Phase())

	require.NoError(t, h.s.Restart())
	assert.Equal(t, PhaseWelcome, h.s.Phase())
	assert.Empty(t, h.s.Questions())
	assert.Nil(t, h.s.Result())
	assert.Zero(t, h.s.Elapsed())
	assert.Zero(t, h.s.Index())
	assert.Empty(t, h.s.Model())
	assert.NoError(t, h.s.Err())
	_, ok := h.s.Answer("q1")
	assert.False(t, ok)
	assert.Len(t, h.s.History(), 1, "history survives a restart")

	assert.ErrorIs(t, h.s.Restart(), ErrInvalidTransition)
}

func TestHistoryNavigation(t *testing.T) {
	h := newHarness(t, 5)
	assert.ErrorIs(t, h.s.BackToWelcome(), ErrInvalidTransition)

	require.NoError(t, h.s.ShowHistory())
	assert.Equal(t, PhaseHistory, h.s.Phase())
	_, err := h.s.Start()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, h.s.BackToWelcome())
	assert.Equal(t, PhaseWelcome, h.s.Phase())
}

func TestLoadHistory(t *testing.T) {
	kv := newMemKV()
	repo := NewKVHistory(kv)
	require.NoError(t, repo.Append(context.Background(), TestRecord{ID: "1", ExamID: "iii_cert"}))

	s := New(nil, nil, repo)
	require.NoError(t, s.LoadHistory(context.Background()))
	require.Len(t, s.History(), 1)
	assert.Equal(t, "iii_cert", s.History()[0].ExamID)

	kv.data[HistoryKey] = []byte("{broken")
	s = New(nil, nil, repo)
	assert.Error(t, s.LoadHistory(context.Background()))
	assert.Empty(t, s.History())
}

func TestUserMessage(t *testing.T) {
	tr := i18n.MustNew("zh-TW")

	tests := []struct {
		name  string
		phase Phase
		err   error
		want  string
	}{
		{"nil", PhaseGeneratingQuestions, nil, ""},
		{"not answered", PhaseAnsweringQuestions, ErrNotAnswered, "請選擇一個答案後再進行下一題。"},
		{"last not answered", PhaseAnsweringQuestions, ErrLastNotAnswered, "請回答最後一題後再提交。"},
		{"no valid questions", PhaseGeneratingQuestions, ErrNoValidQuestions, "無法生成題目"},
		{"feedback unavailable", PhaseGrading, ErrFeedbackUnavailable, "AI 未能生成有效的回饋內容"},
		{"empty aggregate", PhaseGeneratingQuestions, fmt.Errorf("gen: %w", questiongen.ErrNoQuestionsGenerated), "AI 未能生成任何題目"},
		{"credential", PhaseGeneratingQuestions, &llm.ErrInvalidCredential{Err: errors.New("bad key")}, "API Key 設定無效"},
		{"rate limited", PhaseGrading, &llm.ErrRateLimit{Err: errors.New("429")}, "API 請求頻率過高"},
		{"busy", PhaseGeneratingQuestions, fmt.Errorf("batch: %w", llm.ErrServiceBusy), "API 請求過於頻繁"},
		{"history", PhaseGrading, &HistoryError{Err: errors.New("disk full")}, "儲存測驗紀錄時發生錯誤: disk full"},
		{"generic generating", PhaseGeneratingQuestions, errors.New("boom"), "生成題目時發生錯誤: boom"},
		{"generic feedback", PhaseGrading, errors.New("boom"), "取得回饋時發生錯誤: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UserMessage(tr, tt.phase, tt.err)
			if tt.want == "" {
				assert.Empty(t, got)
				return
			}
			assert.True(t, strings.Contains(got, tt.want), "got %q, want it to contain %q", got, tt.want)
		})
	}
}
