package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `  {"a":1}  `, `{"a":1}`},
		{"fenced with tag", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced without tag", "```\n[1,2]\n```", `[1,2]`},
		{"fenced one line", "```{\"a\":1}```", `{"a":1}`},
		{"surrounding whitespace", "\n\n```json\n{\"a\":1}\n```\n", `{"a":1}`},
		{"multiline body", "```json\n{\n  \"a\": 1\n}\n```", "{\n  \"a\": 1\n}"},
		{"text before fence is kept", "here:\n```json\n{}\n```", "here:\n```json\n{}\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFence(tt.in))
		})
	}
}

func TestParseJSON_FencedEqualsUnfenced(t *testing.T) {
	body := `[{"questionText":"q","options":[{"key":"A","text":"x"}]}]`

	plain, ok := ParseJSON(body)
	require.True(t, ok)
	fenced, ok := ParseJSON("```json\n" + body + "\n```")
	require.True(t, ok)

	assert.Equal(t, plain, fenced)
}

func TestParseJSON_TrailingCommaRepaired(t *testing.T) {
	clean, ok := ParseJSON(`{"a":[1,2],"b":{"c":"d"}}`)
	require.True(t, ok)

	tests := []string{
		`{"a":[1,2,],"b":{"c":"d"}}`,
		`{"a":[1,2],"b":{"c":"d",}}`,
		"{\"a\":[1,2],\"b\":{\"c\":\"d\"},\n}",
	}
	for _, in := range tests {
		got, ok := ParseJSON(in)
		require.True(t, ok, "input %q", in)
		assert.Equal(t, clean, got)
	}
}

func TestParseJSON_BrokenReturnsFalse(t *testing.T) {
	for _, in := range []string{
		`{"a":[1,2}`,
		`[{"a":1}`,
		``,
		`not json at all`,
		"```json\n{\"a\":\n```",
	} {
		v, ok := ParseJSON(in)
		assert.False(t, ok, "input %q", in)
		assert.Nil(t, v)
	}
}

func TestDecodeJSON_Typed(t *testing.T) {
	type out struct {
		LearningSuggestions string `json:"learningSuggestions"`
	}

	got, ok := DecodeJSON[out]("```json\n{\"learningSuggestions\": \"<p>hi</p>\",}\n```")
	require.True(t, ok)
	assert.Equal(t, "<p>hi</p>", got.LearningSuggestions)

	_, ok = DecodeJSON[out](`{"learningSuggestions": 5}`)
	assert.False(t, ok)
}
