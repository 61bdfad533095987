package history

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func record(t *testing.T, store *Store, keyword string) {
	t.Helper()
	if err := store.Record(keyword); err != nil {
		t.Fatalf("record %q: %v", keyword, err)
	}
	// searched_at has sub-second resolution; keep inserts apart so the
	// most-recent-first ordering is deterministic.
	time.Sleep(2 * time.Millisecond)
}

func keywords(t *testing.T, store *Store) []string {
	t.Helper()
	entries, err := store.List(0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Keyword)
	}
	return out
}

func TestRecordAndListOrder(t *testing.T) {
	store := newTestStore(t)

	record(t, store, "первый")
	record(t, store, "второй")
	record(t, store, "третий")

	got := keywords(t, store)
	want := []string{"третий", "второй", "первый"}
	if len(got) != len(want) {
		t.Fatalf("list = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("list = %v, want %v", got, want)
		}
	}
}

func TestRecordBumpsExisting(t *testing.T) {
	store := newTestStore(t)

	record(t, store, "первый")
	record(t, store, "второй")
	record(t, store, "первый")

	got := keywords(t, store)
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2 after dedup", len(got))
	}
	if got[0] != "первый" {
		t.Fatalf("front = %q, want re-recorded keyword", got[0])
	}
}

func TestRecordEmptyKeyword(t *testing.T) {
	store := newTestStore(t)

	if err := store.Record(""); err != nil {
		t.Fatalf("record empty: %v", err)
	}
	if got := keywords(t, store); len(got) != 0 {
		t.Fatalf("list = %v, want empty", got)
	}
}

func TestListLimit(t *testing.T) {
	store := newTestStore(t)

	record(t, store, "a")
	record(t, store, "b")
	record(t, store, "c")

	entries, err := store.List(2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
}

func TestRemoveAt(t *testing.T) {
	store := newTestStore(t)

	record(t, store, "первый")
	record(t, store, "второй")
	record(t, store, "третий")

	// Index 1 in most-recent-first order is "второй".
	if err := store.RemoveAt(1); err != nil {
		t.Fatalf("remove: %v", err)
	}

	got := keywords(t, store)
	if len(got) != 2 || got[0] != "третий" || got[1] != "первый" {
		t.Fatalf("list after remove = %v", got)
	}

	// Out-of-range and negative indexes are no-ops.
	if err := store.RemoveAt(10); err != nil {
		t.Fatalf("remove out of range: %v", err)
	}
	if err := store.RemoveAt(-1); err != nil {
		t.Fatalf("remove negative: %v", err)
	}
	if got := keywords(t, store); len(got) != 2 {
		t.Fatalf("list = %v, want untouched", got)
	}
}

func TestClear(t *testing.T) {
	store := newTestStore(t)

	record(t, store, "первый")
	record(t, store, "второй")

	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := keywords(t, store); len(got) != 0 {
		t.Fatalf("list after clear = %v, want empty", got)
	}
}
