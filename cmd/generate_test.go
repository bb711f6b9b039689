package cmd

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mockexam/internal/exam"
	"github.com/abhisek/mockexam/internal/questiongen"
	"github.com/abhisek/mockexam/internal/session"
)

type fixedGenerator struct {
	qs []questiongen.Question
}

func (g fixedGenerator) Generate(_ context.Context, in questiongen.Input, p questiongen.ProgressObserver) ([]questiongen.Question, error) {
	p.OnProgress(len(g.qs))
	return g.qs, nil
}

func (fixedGenerator) ModelID() string { return "fixed" }

func previewQuestionSet(topics ...string) []questiongen.Question {
	qs := make([]questiongen.Question, len(topics))
	for i, topic := range topics {
		qs[i] = questiongen.Question{
			ID:           fmt.Sprintf("q%d", i+1),
			QuestionText: fmt.Sprintf("Question %d?", i+1),
			Options: []questiongen.QuestionOption{
				{Key: "A", Text: "alpha"}, {Key: "B", Text: "beta"},
				{Key: "C", Text: "gamma"}, {Key: "D", Text: "delta"},
			},
			CorrectAnswerKey: "A",
			Topic:            topic,
		}
	}
	return qs
}

func TestPreviewQuestions_NoValidQuestions(t *testing.T) {
	var out, errOut bytes.Buffer
	err := previewQuestions(context.Background(), fixedGenerator{}, exam.LookupOrDefault(exam.DefaultID), 5,
		false, strings.NewReader(""), &out, &errOut)
	assert.ErrorIs(t, err, session.ErrNoValidQuestions)
	assert.NotContains(t, out.String(), "Question")
}

func TestPreviewQuestions_PrintsAnswers(t *testing.T) {
	var out, errOut bytes.Buffer
	err := previewQuestions(context.Background(), fixedGenerator{qs: previewQuestionSet("t1", "t2")},
		exam.LookupOrDefault(exam.DefaultID), 2, false, strings.NewReader(""), &out, &errOut)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "── Question 2/2 ── [t2]")
	assert.Equal(t, 2, strings.Count(out.String(), "Answer: A"))
	assert.Contains(t, errOut.String(), "2 / 2")
}

func TestPreviewQuestions_SummaryInQuestionOrder(t *testing.T) {
	qs := previewQuestionSet("zeta", "alpha", "mid", "zeta", "alpha")
	var out, errOut bytes.Buffer
	err := previewQuestions(context.Background(), fixedGenerator{qs: qs}, exam.LookupOrDefault(exam.DefaultID), 5,
		true, strings.NewReader("a\nB\nx\nA\nA\n"), &out, &errOut)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "── Summary: 3/5 correct ──")
	iz := strings.Index(text, "  zeta: 2/2")
	ia := strings.Index(text, "  alpha: 1/2")
	im := strings.Index(text, "  mid: 0/1")
	require.NotEqual(t, -1, iz)
	require.NotEqual(t, -1, ia)
	require.NotEqual(t, -1, im)
	assert.Less(t, iz, ia)
	assert.Less(t, ia, im)
}
