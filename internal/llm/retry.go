package llm

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"
)

// Retry defaults.
const (
	DefaultMaxAttempts  = 3
	DefaultInitialDelay = time.Second
	DefaultMaxJitter    = time.Second
)

// RetryConfig configures backoff for rate-limited calls.
type RetryConfig struct {
	// MaxAttempts is the total number of calls, including the first.
	MaxAttempts int

	// InitialDelay is the wait before the second attempt. Each later wait
	// doubles it.
	InitialDelay time.Duration

	// MaxJitter bounds the random amount added to every wait.
	MaxJitter time.Duration
}

// DefaultRetryConfig returns 3 attempts starting at 1s with up to 1s jitter.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  DefaultMaxAttempts,
		InitialDelay: DefaultInitialDelay,
		MaxJitter:    DefaultMaxJitter,
	}
}

func (c RetryConfig) normalized() RetryConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.InitialDelay < 0 {
		c.InitialDelay = 0
	}
	if c.MaxJitter < 0 {
		c.MaxJitter = 0
	}
	return c
}

// Backoff returns the wait after the given failed attempt (1-based),
// excluding jitter: InitialDelay * 2^(attempt-1).
func (c RetryConfig) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return c.InitialDelay << (attempt - 1)
}

// Retrier runs operations under a RetryConfig. The sleep and jitter hooks
// exist so tests can run without waiting.
type Retrier struct {
	cfg    RetryConfig
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func(max time.Duration) time.Duration
	logger *slog.Logger
}

// NewRetrier creates a Retrier using real time.
func NewRetrier(cfg RetryConfig) *Retrier {
	return &Retrier{
		cfg:    cfg.normalized(),
		sleep:  sleepCtx,
		jitter: randomJitter,
		logger: slog.Default(),
	}
}

// Do calls op until it succeeds, fails with a non-rate-limit error, or runs
// out of attempts. Non-retryable errors are returned unchanged. Exhaustion
// returns an error matching ErrServiceBusy.
func Do[T any](ctx context.Context, r *Retrier, op func(context.Context) (T, error)) (T, error) {
	var zero T
	for attempt := 1; ; attempt++ {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		if !IsRetryable(err) {
			return zero, err
		}
		if attempt >= r.cfg.MaxAttempts {
			r.logger.Error("llm call failed after max attempts",
				"attempts", r.cfg.MaxAttempts, "error", err)
			return zero, fmt.Errorf("%w (%d attempts)", ErrServiceBusy, r.cfg.MaxAttempts)
		}

		wait := r.cfg.Backoff(attempt) + r.jitter(r.cfg.MaxJitter)
		r.logger.Warn("rate limited, retrying",
			"attempt", attempt, "max_attempts", r.cfg.MaxAttempts, "wait", wait.Round(time.Millisecond))
		if err := r.sleep(ctx, wait); err != nil {
			return zero, err
		}
	}
}

// RetryProvider is a decorator that applies a Retrier to every Generate call.
type RetryProvider struct {
	inner   Provider
	retrier *Retrier
}

// WithRetry wraps a Provider with the rate-limit retry policy.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, retrier: NewRetrier(cfg)}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	return Do(ctx, r.retrier, func(ctx context.Context) (*Response, error) {
		return r.inner.Generate(ctx, req)
	})
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func randomJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return rand.N(max)
}
