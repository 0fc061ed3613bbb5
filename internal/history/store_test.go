package history_test

import (
	"context"
	"testing"
	"time"

	"neoncrush/internal/history"
	"neoncrush/internal/testsupport"
)

func TestRecordAndRecent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := &history.Run{
		Source:       "logo.svg",
		SourceDigest: "aaa",
		Action:       "raster",
		Status:       history.StatusCompleted,
		OriginalSize: 2048,
		OutputSize:   512,
		Attempts:     1,
		WithinBudget: true,
		StartedAt:    base,
		FinishedAt:   base.Add(time.Second),
	}
	second := &history.Run{
		RequestID:       "req-2",
		Source:          "spinner.svg",
		SourceDigest:    "bbb",
		Action:          "gif",
		Status:          history.StatusFailed,
		Renderer:        "chrome",
		Attempts:        2,
		DurationSeconds: 7,
		FPS:             15,
		Error:           "render failed",
		StartedAt:       base.Add(time.Minute),
		FinishedAt:      base.Add(2 * time.Minute),
	}
	for _, run := range []*history.Run{first, second} {
		if err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record: %v", err)
		}
		if run.ID == "" {
			t.Fatal("expected Record to assign an id")
		}
	}

	runs, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Source != "spinner.svg" || runs[1].Source != "logo.svg" {
		t.Fatalf("expected newest first, got %s then %s", runs[0].Source, runs[1].Source)
	}
	got := runs[0]
	if got.Status != history.StatusFailed || got.Error != "render failed" || got.RequestID != "req-2" {
		t.Fatalf("unexpected run fields: %+v", got)
	}
	if got.Renderer != "chrome" || got.DurationSeconds != 7 || got.FPS != 15 || got.Attempts != 2 {
		t.Fatalf("unexpected run fields: %+v", got)
	}
	if got.Elapsed() != time.Minute {
		t.Fatalf("expected 1m elapsed, got %s", got.Elapsed())
	}
	if !runs[1].WithinBudget || runs[1].OutputSize != 512 {
		t.Fatalf("unexpected first run: %+v", runs[1])
	}

	limited, err := store.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent limit: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 run, got %d", len(limited))
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)

	run, err := store.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if run != nil {
		t.Fatalf("expected nil run, got %+v", run)
	}
}

func TestClear(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	run := &history.Run{Source: "a.svg", SourceDigest: "d", Action: "minify", Status: history.StatusCompleted}
	if err := store.Record(ctx, run); err != nil {
		t.Fatalf("Record: %v", err)
	}
	fetched, err := store.Get(ctx, run.ID)
	if err != nil || fetched == nil {
		t.Fatalf("Get: %v %v", fetched, err)
	}

	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	runs, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected empty history, got %d", len(runs))
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Record(context.Background(), &history.Run{Source: "a.svg", SourceDigest: "d", Action: "gif", Status: history.StatusSkipped}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := testsupport.MustOpenHistory(t, cfg)
	if reopened.Path() != cfg.HistoryPath() {
		t.Fatalf("unexpected path %q", reopened.Path())
	}
	runs, err := reopened.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != history.StatusSkipped {
		t.Fatalf("expected skipped run after reopen, got %+v", runs)
	}
}
