package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "minutes.sqlite3"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestFetchLatestEmpty(t *testing.T) {
	s := openTestStore(t)

	rec, err := s.FetchLatest(context.Background())
	if err != nil {
		t.Fatalf("FetchLatest() error = %v", err)
	}
	if rec != nil {
		t.Errorf("FetchLatest() on empty store = %+v, want nil", rec)
	}
}

func TestSaveAndFetchLatest(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "第1回 定例会議", "transcript one", "# minutes one"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if err := s.Save(ctx, "第2回 定例会議", "transcript two", "# minutes two"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	rec, err := s.FetchLatest(ctx)
	if err != nil {
		t.Fatalf("FetchLatest() error = %v", err)
	}
	if rec == nil {
		t.Fatal("FetchLatest() = nil after saves")
	}
	if rec.Title != "第2回 定例会議" {
		t.Errorf("latest title = %q, want the second save", rec.Title)
	}
	if rec.MinutesMD != "# minutes two" {
		t.Errorf("latest minutes = %q", rec.MinutesMD)
	}
	if rec.ID == "" {
		t.Error("record has no id")
	}
	if rec.CreatedAt.IsZero() {
		t.Error("record has no timestamp")
	}
}

func TestFetchAllNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	titles := []string{"first", "second", "third"}
	for _, title := range titles {
		if err := s.Save(ctx, title, "t", "m"); err != nil {
			t.Fatalf("Save(%q) error = %v", title, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	records, err := s.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}
	for i, want := range []string{"third", "second", "first"} {
		if records[i].Title != want {
			t.Errorf("records[%d].Title = %q, want %q", i, records[i].Title, want)
		}
	}
}
