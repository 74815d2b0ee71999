package scoreboard

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/mcp-training/giftrun/game/service"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "scores.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreInMemory(t *testing.T) {
	for _, dsn := range []string{"", MemoryDSN} {
		store, err := Open(dsn)
		if err != nil {
			t.Fatalf("Open(%q) failed: %v", dsn, err)
		}

		ctx := context.Background()
		if _, err := store.SaveResult(ctx, service.RunResult{Level: "sleigh_run", Score: 10}); err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
		// Queries must see the same database as the insert
		results, err := store.TopResults(ctx, "sleigh_run", 5)
		if err != nil {
			t.Fatalf("TopResults() failed: %v", err)
		}
		if len(results) != 1 {
			t.Errorf("Expected 1 result, got %d", len(results))
		}
		store.Close()
	}
}

func TestStoreSaveResult(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	saved, err := store.SaveResult(ctx, service.RunResult{
		SessionID: "ab12",
		Level:     "first_night",
		Won:       true,
		Score:     30,
		Delivered: 3,
		MovesUsed: 17,
	})
	if err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}

	if _, err := uuid.Parse(saved.ID); err != nil {
		t.Errorf("Expected a UUID run ID, got %q", saved.ID)
	}
	if saved.FinishedAt.IsZero() {
		t.Error("Expected FinishedAt to be filled in")
	}

	results, err := store.TopResults(ctx, "first_night", 1)
	if err != nil {
		t.Fatalf("TopResults() failed: %v", err)
	}
	got := results[0]
	if got.ID != saved.ID || got.SessionID != "ab12" || !got.Won || got.Score != 30 || got.Delivered != 3 || got.MovesUsed != 17 {
		t.Errorf("Round trip mismatch: %+v", got)
	}
	if !got.FinishedAt.Equal(saved.FinishedAt) {
		t.Errorf("Expected finished_at %v, got %v", saved.FinishedAt, got.FinishedAt)
	}
}

func TestStoreSaveResult_RequiresLevel(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.SaveResult(context.Background(), service.RunResult{Score: 1}); !errors.Is(err, ErrEmptyLevel) {
		t.Errorf("Expected ErrEmptyLevel, got %v", err)
	}
}

func TestStoreTopResults_Ordering(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 12, 24, 22, 0, 0, 0, time.UTC)

	runs := []service.RunResult{
		{ID: "lost-high", Level: "sleigh_run", Won: false, Score: 50, MovesUsed: 45, FinishedAt: base},
		{ID: "won-slow", Level: "sleigh_run", Won: true, Score: 30, MovesUsed: 40, FinishedAt: base},
		{ID: "won-fast", Level: "sleigh_run", Won: true, Score: 30, MovesUsed: 23, FinishedAt: base.Add(time.Minute)},
		{ID: "won-best", Level: "sleigh_run", Won: true, Score: 42, MovesUsed: 30, FinishedAt: base},
		{ID: "other", Level: "first_night", Won: true, Score: 99, MovesUsed: 17, FinishedAt: base},
	}
	for _, r := range runs {
		if _, err := store.SaveResult(ctx, r); err != nil {
			t.Fatalf("SaveResult(%s) failed: %v", r.ID, err)
		}
	}

	results, err := store.TopResults(ctx, "sleigh_run", 10)
	if err != nil {
		t.Fatalf("TopResults() failed: %v", err)
	}

	want := []string{"won-best", "won-fast", "won-slow", "lost-high"}
	if len(results) != len(want) {
		t.Fatalf("Expected %d results, got %d", len(want), len(results))
	}
	for i, id := range want {
		if results[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, results[i].ID)
		}
	}

	limited, _ := store.TopResults(ctx, "sleigh_run", 2)
	if len(limited) != 2 {
		t.Errorf("Expected limit to apply, got %d results", len(limited))
	}

	empty, err := store.TopResults(ctx, "unknown", 0)
	if err != nil {
		t.Fatalf("TopResults() failed: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", empty)
	}
}

func TestStoreTopResults_EarlierFinishBreaksTies(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 12, 24, 22, 0, 0, 0, time.UTC)

	runs := []service.RunResult{
		{ID: "later", Level: "first_night", Won: true, Score: 40, MovesUsed: 20, FinishedAt: base.Add(500 * time.Millisecond)},
		{ID: "latest", Level: "first_night", Won: true, Score: 40, MovesUsed: 20, FinishedAt: base.Add(time.Second + 123*time.Microsecond)},
		{ID: "earlier", Level: "first_night", Won: true, Score: 40, MovesUsed: 20, FinishedAt: base},
	}
	for _, r := range runs {
		if _, err := store.SaveResult(ctx, r); err != nil {
			t.Fatalf("SaveResult(%s) failed: %v", r.ID, err)
		}
	}

	results, err := store.TopResults(ctx, "first_night", 10)
	if err != nil {
		t.Fatalf("TopResults() failed: %v", err)
	}

	want := []string{"earlier", "later", "latest"}
	if len(results) != len(want) {
		t.Fatalf("Expected %d results, got %d", len(want), len(results))
	}
	for i, id := range want {
		if results[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, results[i].ID)
		}
	}
	if !results[1].FinishedAt.Equal(base.Add(500 * time.Millisecond)) {
		t.Errorf("Expected finish time to round-trip, got %v", results[1].FinishedAt)
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "scores.db")
	ctx := context.Background()

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	store.SaveResult(ctx, service.RunResult{Level: "sleigh_run", Won: true, Score: 30})
	store.Close()

	reopened, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close()

	results, _ := reopened.TopResults(ctx, "sleigh_run", 10)
	if len(results) != 1 {
		t.Errorf("Expected the result to survive reopening, got %d", len(results))
	}
}
