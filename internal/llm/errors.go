package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrServiceBusy is returned by the retry policy once every attempt has
// failed with a rate-limit error. It deliberately does not wrap the last
// rate-limit error so callers can tell exhaustion apart from a single 429.
var ErrServiceBusy = errors.New("llm: service busy, please try again later")

// ErrorKind is the classification of a remote-call failure. Provider
// adapters decide the kind once, when mapping SDK errors; everything
// downstream switches on KindOf instead of inspecting messages.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindRateLimited
	KindInvalidCredential
	KindUnavailable
	KindInvalidResponse
	KindServiceBusy
	KindCanceled
)

func (k ErrorKind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindInvalidCredential:
		return "invalid_credential"
	case KindUnavailable:
		return "unavailable"
	case KindInvalidResponse:
		return "invalid_response"
	case KindServiceBusy:
		return "service_busy"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// ErrRateLimit indicates the provider rejected the call because of quota or
// request-rate limits (HTTP 429, RESOURCE_EXHAUSTED).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidCredential indicates the API key was missing, malformed or
// rejected by the provider.
type ErrInvalidCredential struct {
	Err error
}

func (e *ErrInvalidCredential) Error() string {
	return fmt.Sprintf("invalid API credential: %v", e.Err)
}

func (e *ErrInvalidCredential) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the model returned content that could not be
// used, e.g. no text at all.
type ErrInvalidResponse struct {
	Content string
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down, unreachable, or
// failed in a way that has no more specific kind.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated at MaxTokens.
type ErrMaxTokensExceeded struct {
	Content string
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// KindOf classifies err. Order matters: busy is checked before rate limit
// and cancellation before everything else.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled
	}
	if errors.Is(err, ErrServiceBusy) {
		return KindServiceBusy
	}

	var rl *ErrRateLimit
	if errors.As(err, &rl) {
		return KindRateLimited
	}
	var cred *ErrInvalidCredential
	if errors.As(err, &cred) {
		return KindInvalidCredential
	}
	var inv *ErrInvalidResponse
	if errors.As(err, &inv) {
		return KindInvalidResponse
	}
	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return KindInvalidResponse
	}
	var unavail *ErrProviderUnavailable
	if errors.As(err, &unavail) {
		return KindUnavailable
	}
	return KindUnknown
}

// IsRetryable reports whether the retry policy should try err again.
// Only rate limiting qualifies; auth and malformed-request errors would
// fail the same way on every attempt.
func IsRetryable(err error) bool {
	return KindOf(err) == KindRateLimited
}
