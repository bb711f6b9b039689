package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/mockexam/internal/llm"
)

// ErrNoQuestionsGenerated is returned when every batch came back empty,
// failed or unparseable.
var ErrNoQuestionsGenerated = errors.New("questiongen: no questions generated")

// Generator produces exam questions in concurrent batches.
type Generator struct {
	provider llm.Provider
	config   Config
	logger   *slog.Logger
}

// New creates a Generator. The provider should already be wrapped with
// llm.WithRetry; batch failures are contained here, not retried.
func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{
		provider: provider,
		config:   cfg,
		logger:   slog.Default().With("component", "questiongen"),
	}
}

// ModelID returns the model the generator's provider uses.
func (g *Generator) ModelID() string {
	return g.provider.ModelID()
}

// Generate requests in.Count questions in batches of BatchSize.
//
// A failing or unparseable batch contributes nothing and does not abort
// its siblings. If no batch produced any item, Generate returns
// ErrNoQuestionsGenerated. If items were produced but none passed
// validation, it returns (nil, nil). Otherwise it returns at most in.Count
// questions in batch order with ids q1..qK.
//
// progress may be nil.
func (g *Generator) Generate(ctx context.Context, in Input, progress ProgressObserver) ([]Question, error) {
	if in.Count <= 0 {
		return nil, fmt.Errorf("questiongen: count must be positive, got %d", in.Count)
	}
	if len(in.Topics) == 0 {
		return nil, errors.New("questiongen: topic list is empty")
	}
	ctx = llm.WithPurpose(ctx, "question-gen")

	sizes := BatchSizes(in.Count)
	results := make([][]any, len(sizes))
	tracker := &progressTracker{target: in.Count, observer: progress}

	grp, gctx := errgroup.WithContext(ctx)
	if g.config.MaxConcurrency > 0 {
		grp.SetLimit(g.config.MaxConcurrency)
	}
	for i, size := range sizes {
		grp.Go(func() error {
			items := g.runBatch(gctx, in, size, i, len(sizes))
			results[i] = items
			tracker.add(len(items))
			return nil
		})
	}
	_ = grp.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var all []any
	for _, items := range results {
		all = append(all, items...)
	}
	if len(all) == 0 {
		g.logger.Error("no questions generated", "exam", in.ExamName, "batches", len(sizes))
		return nil, ErrNoQuestionsGenerated
	}

	valid := g.validate(all, in.Count)
	if len(valid) < in.Count {
		g.logger.Warn("fewer valid questions than requested",
			"exam", in.ExamName, "requested", in.Count, "valid", len(valid), "parsed", len(all))
	}
	if len(valid) == 0 {
		return nil, nil
	}
	for i := range valid {
		valid[i].ID = fmt.Sprintf("q%d", i+1)
	}
	return valid, nil
}

// runBatch issues one batch request and returns its parsed items. Every
// failure is logged and yields nil.
func (g *Generator) runBatch(ctx context.Context, in Input, size, index, batches int) []any {
	log := g.logger.With("batch", index+1, "batches", batches)

	req := llm.Request{
		Messages:    llm.UserPrompt(batchPrompt(in, size, index, batches)),
		Schema:      batchSchema(size, in.ExamName),
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}
	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		log.Error("batch failed", "kind", llm.KindOf(err).String(), "error", err)
		return nil
	}
	if strings.TrimSpace(resp.Text) == "" {
		log.Warn("batch returned an empty response")
		return nil
	}

	items, ok := llm.DecodeJSON[[]any](resp.Text)
	if !ok {
		log.Warn("batch response is not a JSON array", "stop_reason", resp.StopReason)
		return nil
	}
	return items
}

// validate decodes and filters items in order, stopping at limit.
func (g *Generator) validate(items []any, limit int) []Question {
	var out []Question
	for i, raw := range items {
		if len(out) == limit {
			break
		}
		q, err := decodeItem(raw)
		if err != nil {
			g.logger.Debug("dropping undecodable item", "index", i, "error", err)
			continue
		}
		if verr := g.check(raw, &q); verr != nil {
			g.logger.Debug("dropping invalid item", "index", i, "error", verr)
			continue
		}
		out = append(out, q)
	}
	return out
}

func (g *Generator) check(raw any, q *Question) *ValidationError {
	for _, v := range g.config.Validators {
		if verr := v.Validate(raw, q); verr != nil {
			return verr
		}
	}
	return nil
}

// decodeItem converts one generic JSON value into a Question. Any id the
// model supplied is discarded.
func decodeItem(raw any) (Question, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return Question{}, err
	}
	var q Question
	if err := json.Unmarshal(data, &q); err != nil {
		return Question{}, err
	}
	q.ID = ""
	return q, nil
}

// progressTracker accumulates per-batch counts and notifies the observer
// while holding its lock, so observed values never go backwards.
type progressTracker struct {
	mu       sync.Mutex
	count    int
	target   int
	observer ProgressObserver
}

func (p *progressTracker) add(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count += n
	if p.observer != nil {
		p.observer.OnProgress(min(p.count, p.target))
	}
}
