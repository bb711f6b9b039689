package feedback

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhisek/mockexam/internal/llm"
)

// Config holds configuration for the feedback generator.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{Temperature: 0.7}
}

// TopicResult is one topic's tally, in the order topics first appeared in
// the test.
type TopicResult struct {
	Topic   string
	Correct int
	Total   int
}

// Input summarizes a graded test.
type Input struct {
	Correct        int
	Incorrect      int
	ElapsedSeconds int
	ExamName       string

	// Topics is the per-topic breakdown. Nil means no analysis is
	// available.
	Topics []TopicResult
}

// Feedback is the AI-written part of the results screen.
type Feedback struct {
	// LearningSuggestions is HTML restricted to <h4>, <p> and <strong>.
	LearningSuggestions string `json:"learningSuggestions"`
}

// Schema is the response schema for feedback requests.
var Schema = &llm.Schema{
	Name:        "exam-feedback",
	Description: "Personalized learning suggestions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"learningSuggestions": map[string]any{
				"type":        "string",
				"description": "An HTML string providing learning suggestions based on the user's performance. It should use <h4> for suggestion titles, and <p> and <strong> tags for detailed content and emphasis.",
			},
		},
		"required": []any{"learningSuggestions"},
	},
}

// Generator asks the LLM for learning suggestions.
type Generator struct {
	provider llm.Provider
	cfg      Config
	logger   *slog.Logger
}

// New creates a feedback Generator.
func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{
		provider: provider,
		cfg:      cfg,
		logger:   slog.Default().With("component", "feedback"),
	}
}

// Generate returns learning suggestions for a graded test. It returns
// (nil, nil) when the model answered but the answer is empty, unparseable
// or missing learningSuggestions. Call failures are returned as errors.
func (g *Generator) Generate(ctx context.Context, in Input) (*Feedback, error) {
	ctx = llm.WithPurpose(ctx, "feedback")

	prompt, err := buildPrompt(in)
	if err != nil {
		return nil, fmt.Errorf("build feedback prompt: %w", err)
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		Messages:    llm.UserPrompt(prompt),
		Schema:      Schema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("feedback generation failed: %w", err)
	}

	log := g.logger.With("exam", in.ExamName)
	if strings.TrimSpace(resp.Text) == "" {
		log.Error("empty feedback response")
		return nil, nil
	}

	raw, ok := llm.ParseJSON(resp.Text)
	if !ok {
		log.Error("unparseable feedback response")
		return nil, nil
	}
	if err := llm.ValidateValue(Schema, raw); err != nil {
		log.Error("feedback response failed validation", "error", err)
		return nil, nil
	}

	obj, _ := raw.(map[string]any)
	suggestions, _ := obj["learningSuggestions"].(string)
	if strings.TrimSpace(suggestions) == "" {
		log.Error("feedback response has no learning suggestions")
		return nil, nil
	}
	return &Feedback{LearningSuggestions: suggestions}, nil
}

// FormatElapsed renders seconds as "M 分 S 秒", omitting minutes when zero.
func FormatElapsed(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	m, s := totalSeconds/60, totalSeconds%60
	if m > 0 {
		return fmt.Sprintf("%d 分 %d 秒", m, s)
	}
	return fmt.Sprintf("%d 秒", s)
}
