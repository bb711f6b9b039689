package questiongen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/mockexam/internal/llm"
)

// Validator checks one generated item. Implementations must be stateless
// and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for logging, e.g. "schema".
	Name() string

	// Validate checks the raw parsed item and its decoded form.
	Validate(raw any, q *Question) *ValidationError
}

// ValidationError describes why an item was dropped.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// DefaultValidators is the standard chain: schema shape first, then the
// cross-field rules a schema cannot express.
func DefaultValidators() []Validator {
	return []Validator{&SchemaValidator{}, &StructuralValidator{}}
}

// SchemaValidator checks the raw item against ItemSchema.
type SchemaValidator struct{}

func (v *SchemaValidator) Name() string { return "schema" }

func (v *SchemaValidator) Validate(raw any, _ *Question) *ValidationError {
	if err := llm.ValidateValue(ItemSchema, raw); err != nil {
		return &ValidationError{Validator: v.Name(), Message: err.Error()}
	}
	return nil
}

// StructuralValidator enforces the decoded question's invariants:
// non-blank text fields, exactly four options with distinct keys A-D and
// a correct key that names one of them.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(_ any, q *Question) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...)}
	}

	if strings.TrimSpace(q.QuestionText) == "" {
		return fail("questionText is empty")
	}
	if len(q.Options) != len(OptionKeys) {
		return fail("expected %d options, got %d", len(OptionKeys), len(q.Options))
	}
	seen := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		if !slices.Contains(OptionKeys, o.Key) {
			return fail("invalid option key %q", o.Key)
		}
		if seen[o.Key] {
			return fail("duplicate option key %q", o.Key)
		}
		seen[o.Key] = true
		if strings.TrimSpace(o.Text) == "" {
			return fail("option %s has empty text", o.Key)
		}
	}
	if !seen[q.CorrectAnswerKey] {
		return fail("correctAnswerKey %q is not an option", q.CorrectAnswerKey)
	}
	if strings.TrimSpace(q.Topic) == "" {
		return fail("topic is empty")
	}
	if strings.TrimSpace(q.Explanation) == "" {
		return fail("explanation is empty")
	}
	return nil
}
