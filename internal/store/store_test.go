package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.db

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	if err := migrate(s.db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	for _, table := range []string{"kv", "llm_request_events"} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("table %s not found: %v", table, err)
		}
	}
}

func TestKVGetMissing(t *testing.T) {
	s := openTestStore(t)
	v, ok, err := s.KV().Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok || v != nil {
		t.Fatalf("expected missing key, got ok=%v value=%q", ok, v)
	}
}

func TestKVPutOverwriteDelete(t *testing.T) {
	s := openTestStore(t)
	kv := s.KV()
	ctx := context.Background()

	if err := kv.Put(ctx, "history", []byte(`[1]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := kv.Put(ctx, "history", []byte(`[1,2]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	v, ok, err := kv.Get(ctx, "history")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(v) != `[1,2]` {
		t.Fatalf("value = %q, want [1,2]", v)
	}

	if err := kv.Delete(ctx, "history"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := kv.Delete(ctx, "history"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "history"); ok {
		t.Fatal("expected key to be gone")
	}
}

func TestKVPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.KV().Put(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("put: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	v, ok, err := s.KV().Get(ctx, "k")
	if err != nil || !ok || string(v) != "v" {
		t.Fatalf("after reopen: value=%q ok=%v err=%v", v, ok, err)
	}
}

func TestLLMEventAppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	events := []LLMRequestEventData{
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "question-gen", InputTokens: 100, OutputTokens: 400, LatencyMs: 900, Success: true},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "question-gen", InputTokens: 120, LatencyMs: 300, ErrorMessage: "rate limited"},
		{Provider: "gemini", Model: "gemini-2.5-pro", Purpose: "feedback", InputTokens: 50, OutputTokens: 80, LatencyMs: 500, Success: true},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}
	if all[0].Purpose != "feedback" {
		t.Errorf("expected newest first, got %q", all[0].Purpose)
	}
	if !all[0].Timestamp.Equal(base.Add(3 * time.Minute)) {
		t.Errorf("timestamp = %v", all[0].Timestamp)
	}

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1, Purpose: "question-gen"})
	if err != nil {
		t.Fatalf("query limited: %v", err)
	}
	if len(limited) != 1 || limited[0].ErrorMessage != "rate limited" {
		t.Fatalf("unexpected limited result: %+v", limited)
	}

	windowed, err := repo.QueryLLMEvents(ctx, QueryOpts{To: base.Add(90 * time.Second)})
	if err != nil {
		t.Fatalf("query windowed: %v", err)
	}
	if len(windowed) != 1 || windowed[0].InputTokens != 100 {
		t.Fatalf("unexpected windowed result: %+v", windowed)
	}
}

func TestGetLLMEvent(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	missing, err := repo.GetLLMEvent(ctx, 42)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for missing event")
	}

	err = repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Model: "mock", Purpose: "feedback", Success: true,
		RequestBody: "[user]\nhi", ResponseBody: `{"learningSuggestions":"ok"}`,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	e, err := repo.GetLLMEvent(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e == nil || !e.Success || e.ResponseBody != `{"learningSuggestions":"ok"}` {
		t.Fatalf("unexpected event: %+v", e)
	}
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{Model: "a", Purpose: "question-gen", InputTokens: 10, OutputTokens: 20, LatencyMs: 100, Success: true},
		{Model: "a", Purpose: "question-gen", InputTokens: 30, OutputTokens: 40, LatencyMs: 300, Success: true},
		{Model: "b", Purpose: "feedback", InputTokens: 5, LatencyMs: 50},
	} {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("expected 2 purposes, got %d", len(byPurpose))
	}
	fb, qg := byPurpose[0], byPurpose[1]
	if fb.Purpose != "feedback" || fb.Failures != 1 {
		t.Errorf("feedback usage = %+v", fb)
	}
	if qg.Calls != 2 || qg.InputTokens != 40 || qg.OutputTokens != 60 || qg.AvgLatencyMs != 200 {
		t.Errorf("question-gen usage = %+v", qg)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("by model: %v", err)
	}
	if len(byModel) != 1 || byModel[0].Model != "a" || byModel[0].Calls != 2 {
		t.Fatalf("by model = %+v", byModel)
	}
}
