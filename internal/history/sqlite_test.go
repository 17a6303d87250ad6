package history

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/amishk599/boardwatch/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_EmptyOnFirstRun(t *testing.T) {
	s := newTestStore(t)

	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty history, got %d postings", len(got))
	}
}

func TestSQLiteStore_SaveThenLoad(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, samplePostings()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := samplePostings()
	if len(got) != len(want) {
		t.Fatalf("loaded %d postings, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("posting %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSQLiteStore_SaveIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, samplePostings()); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if err := s.Save(ctx, samplePostings()); err != nil {
		t.Fatalf("second Save (duplicate): %v", err)
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != len(samplePostings()) {
		t.Errorf("count = %d, want %d", count, len(samplePostings()))
	}
}

func TestSQLiteStore_FirstRecordWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	original := model.Posting{Title: "Original", URL: "https://example.org/a", PostedAt: ""}
	if err := s.Save(ctx, []model.Posting{original}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	changed := model.Posting{Title: "Changed", URL: "https://example.org/a", PostedAt: "2025.01.01"}
	if err := s.Save(ctx, []model.Posting{original, changed}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 || got[0] != original {
		t.Errorf("history = %+v, want only the original record", got)
	}
}

func TestSQLiteStore_GrowsInInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	all := samplePostings()
	if err := s.Save(ctx, all[:1]); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, all); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for i := range all {
		if got[i].URL != all[i].URL {
			t.Errorf("position %d = %s, want %s", i, got[i].URL, all[i].URL)
		}
	}
}

func TestNewSQLiteStore_NotADatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	if err := os.WriteFile(path, []byte("title,url,posted_at\nthis is a csv file, not sqlite\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewSQLiteStore(path)
	var corrupt *model.HistoryCorruptError
	if !errors.As(err, &corrupt) {
		t.Fatalf("expected HistoryCorruptError, got %v", err)
	}
}
