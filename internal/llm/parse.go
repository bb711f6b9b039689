package llm

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
)

var (
	fenceRe         = regexp.MustCompile("(?s)^```(\\w*)?\\s*\\n?(.*?)\\n?\\s*```$")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// StripFence trims raw and, if the whole body is a fenced code block
// (optionally tagged, e.g. ```json), returns the text inside the fence.
func StripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if m := fenceRe.FindStringSubmatch(s); m != nil && m[2] != "" {
		return strings.TrimSpace(m[2])
	}
	return s
}

// ParseJSON extracts a JSON value from a model response. It tries a strict
// parse first and then one repair pass that drops trailing commas before a
// closing brace or bracket. It reports false instead of failing when the
// text is still not valid JSON.
func ParseJSON(raw string) (any, bool) {
	var v any
	if !decodeJSON(raw, &v) {
		return nil, false
	}
	return v, true
}

// DecodeJSON is ParseJSON for a typed target.
func DecodeJSON[T any](raw string) (T, bool) {
	var v T
	if !decodeJSON(raw, &v) {
		var zero T
		return zero, false
	}
	return v, true
}

func decodeJSON(raw string, dst any) bool {
	cleaned := StripFence(raw)

	err := json.Unmarshal([]byte(cleaned), dst)
	if err == nil {
		return true
	}
	slog.Debug("strict JSON parse failed, attempting repair", "error", err)

	fixed := trailingCommaRe.ReplaceAllString(cleaned, "$1")
	if err := json.Unmarshal([]byte(fixed), dst); err != nil {
		slog.Warn("failed to parse JSON response", "error", err, "raw", truncate(raw, 500))
		return false
	}
	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
