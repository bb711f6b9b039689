package llm

import "context"

// Provider sends a single prompt to a remote model and returns its text.
// Implementations map transport and SDK failures into the typed errors in
// errors.go so callers can classify them with KindOf.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes one generation call.
type Request struct {
	// System is an optional system instruction.
	System string

	// Messages is the conversation. Question and feedback generation both
	// send a single user message.
	Messages []Message

	// Schema, when set, asks the provider for JSON shaped like Definition
	// using its native structured-output mechanism. The provider does not
	// validate the returned text; see ParseJSON and ValidateValue.
	Schema *Schema

	// MaxTokens caps the response length. Zero leaves it to the provider.
	MaxTokens int

	Temperature float64
}

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserPrompt builds the common single-message request.
func UserPrompt(prompt string) []Message {
	return []Message{{Role: RoleUser, Content: prompt}}
}

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies the schema, e.g. "exam-questions". Used as the cache
	// key for compiled validators and as the OpenAI schema name.
	Name string

	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Text is the raw response body. Models regularly wrap JSON in code
	// fences or leave trailing commas, so it is not guaranteed to be valid
	// JSON even when a Schema was requested.
	Text string

	Usage Usage

	// Model is the model that served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
