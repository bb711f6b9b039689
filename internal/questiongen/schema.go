package questiongen

import (
	"fmt"

	"github.com/abhisek/mockexam/internal/llm"
)

// ItemSchema is the JSON schema of a single generated question, before ids
// are assigned. Items are validated against it one by one so a malformed
// item only drops itself.
var ItemSchema = &llm.Schema{
	Name:        "exam-question",
	Description: "A single-choice exam question with four options",
	Definition:  itemDefinition,
}

var itemDefinition = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"questionText": map[string]any{
			"type":        "string",
			"minLength":   1,
			"description": "The text of the question.",
		},
		"options": map[string]any{
			"type":        "array",
			"description": "An array of four possible answers.",
			"minItems":    4,
			"maxItems":    4,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"key": map[string]any{
						"type":        "string",
						"enum":        []any{"A", "B", "C", "D"},
						"description": "The option key: 'A', 'B', 'C', or 'D'.",
					},
					"text": map[string]any{
						"type":        "string",
						"minLength":   1,
						"description": "The text for the option.",
					},
				},
				"required": []any{"key", "text"},
			},
		},
		"correctAnswerKey": map[string]any{
			"type":        "string",
			"enum":        []any{"A", "B", "C", "D"},
			"description": "The key of the correct answer: 'A', 'B', 'C', or 'D'.",
		},
		"topic": map[string]any{
			"type":        "string",
			"minLength":   1,
			"description": "The specific topic this question relates to, chosen exactly from the provided list.",
		},
		"explanation": map[string]any{
			"type":        "string",
			"minLength":   1,
			"description": "A detailed explanation of why the correct answer is correct, clarifying key concepts.",
		},
	},
	"required": []any{"questionText", "options", "correctAnswerKey", "topic", "explanation"},
}

// batchSchema is the response schema sent with one batch request.
func batchSchema(size int, examName string) *llm.Schema {
	return &llm.Schema{
		Name:        "exam-questions",
		Description: fmt.Sprintf("List of %d questions for the %s exam.", size, examName),
		Definition: map[string]any{
			"type":        "array",
			"description": fmt.Sprintf("List of %d questions for the %s exam.", size, examName),
			"items":       itemDefinition,
		},
	}
}
