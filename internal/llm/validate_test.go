package llm

import (
	"errors"
	"testing"
)

func testSchema() *Schema {
	return &Schema{
		Name:        "test-option",
		Description: "A test option",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"key":  map[string]any{"type": "string", "enum": []any{"A", "B", "C", "D"}},
				"text": map[string]any{"type": "string", "minLength": 1},
				"rank": map[string]any{"type": "integer", "minimum": 0},
			},
			"required": []any{"key", "text"},
		},
	}
}

func mustParse(t *testing.T, raw string) any {
	t.Helper()
	v, ok := ParseJSON(raw)
	if !ok {
		t.Fatalf("parse %q failed", raw)
	}
	return v
}

func TestValidateValue(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"key":"A","text":"x","rank":2}`, false},
		{"optional omitted", `{"key":"B","text":"y"}`, false},
		{"missing required", `{"key":"C"}`, true},
		{"empty text", `{"key":"C","text":""}`, true},
		{"wrong type", `{"key":"A","text":7}`, true},
		{"bad enum", `{"key":"E","text":"x"}`, true},
		{"not an object", `["A","x"]`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateValue(testSchema(), mustParse(t, tt.raw))
			if tt.wantErr {
				var inv *ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Fatalf("expected ErrInvalidResponse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateValue_NilSchema(t *testing.T) {
	if err := ValidateValue(nil, map[string]any{"anything": "goes"}); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateValue_CachesCompiledSchema(t *testing.T) {
	s := testSchema()
	s.Name = "test-cache"
	if err := ValidateValue(s, mustParse(t, `{"key":"A","text":"x"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := schemaCache.Load("test-cache"); !ok {
		t.Fatal("expected compiled schema to be cached")
	}
}
