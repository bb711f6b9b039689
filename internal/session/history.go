package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// HistoryKey is the key the history list is stored under.
const HistoryKey = "fantexticTestHistory"

// HistoryRepo persists completed tests. The session reads it once at
// startup and appends once per graded test.
type HistoryRepo interface {
	Load(ctx context.Context) ([]TestRecord, error)
	Append(ctx context.Context, rec TestRecord) error
}

// KVStore is the subset of a key-value store KVHistory needs.
// *store.KVRepo satisfies it.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// KVHistory keeps the whole history as one JSON array under HistoryKey.
// The array is read once and rewritten wholesale from memory on every
// append. An unreadable stored value is replaced by the next append.
type KVHistory struct {
	kv KVStore

	mu      sync.Mutex
	loaded  bool
	records []TestRecord
}

var _ HistoryRepo = (*KVHistory)(nil)

// NewKVHistory returns a HistoryRepo backed by kv.
func NewKVHistory(kv KVStore) *KVHistory {
	return &KVHistory{kv: kv}
}

// Load reads the stored records, oldest first. A missing key is an empty
// history. A value that does not decode is reported and then treated as
// empty; the next Append overwrites it.
func (h *KVHistory) Load(ctx context.Context) ([]TestRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.load(ctx); err != nil {
		return nil, err
	}
	return slices.Clone(h.records), nil
}

func (h *KVHistory) load(ctx context.Context) error {
	raw, ok, err := h.kv.Get(ctx, HistoryKey)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	h.loaded = true
	h.records = nil
	if !ok || len(raw) == 0 {
		return nil
	}
	var records []TestRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return fmt.Errorf("decode history: %w", err)
	}
	h.records = records
	return nil
}

// Append adds rec to the in-memory history and writes the whole list back.
func (h *KVHistory) Append(ctx context.Context, rec TestRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.loaded {
		if err := h.load(ctx); err != nil {
			if !h.loaded {
				return err
			}
			slog.Warn("discarding unreadable test history", "error", err)
		}
	}

	records := append(slices.Clone(h.records), rec)
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := h.kv.Put(ctx, HistoryKey, raw); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	h.records = records
	return nil
}

// Clear removes every stored record.
func (h *KVHistory) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.kv.Delete(ctx, HistoryKey); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	h.loaded = true
	h.records = nil
	return nil
}
