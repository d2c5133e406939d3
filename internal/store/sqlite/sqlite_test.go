package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrSnakeDoc/netcompare/internal/store"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "state.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSetGetOverwriteDelete(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	if _, ok, err := s.Get(ctx, "lastSearchAddress"); ok || err != nil {
		t.Fatalf("Get(missing) = %v, %v", ok, err)
	}

	if err := s.Set(ctx, "lastSearchAddress", []byte(`{"stadt":"Berlin"}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set(ctx, "lastSearchAddress", []byte(`{"stadt":"Köln"}`)); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	got, ok, err := s.Get(ctx, "lastSearchAddress")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if string(got) != `{"stadt":"Köln"}` {
		t.Errorf("Get() = %s", got)
	}

	if err := s.Delete(ctx, "lastSearchAddress", "lastSearchResults"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := s.Get(ctx, "lastSearchAddress"); ok {
		t.Error("key present after Delete")
	}
	if err := s.Delete(ctx); err != nil {
		t.Errorf("Delete() with no keys error = %v", err)
	}
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	_ = s.Set(ctx, "a:lastSearchAddress", []byte("1"))
	_ = s.Set(ctx, "a:lastSearchResults", []byte("2"))
	s.now = func() time.Time { return base.Add(time.Hour) }
	_ = s.Set(ctx, "b:lastSearchAddress", []byte("3"))

	removed, err := s.Sweep(ctx, base.Add(time.Minute))
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("Sweep() removed %d, want 2", removed)
	}
	if _, ok, _ := s.Get(ctx, "b:lastSearchAddress"); !ok {
		t.Error("fresh row was swept")
	}
}

func TestGetRefreshesAge(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	day := 24 * time.Hour
	t0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return t0 }
	_ = s.Set(ctx, "a:lastSearchAddress", []byte("addr"))
	s.now = func() time.Time { return t0.Add(20 * day) }
	_ = s.Set(ctx, "a:lastSearchResults", []byte("results"))

	s.now = func() time.Time { return t0.Add(29 * day) }
	for _, k := range []string{"a:lastSearchAddress", "a:lastSearchResults"} {
		if _, ok, err := s.Get(ctx, k); !ok || err != nil {
			t.Fatalf("Get(%s) = %v, %v", k, ok, err)
		}
	}

	removed, err := s.Sweep(ctx, t0.Add(31*day).Add(-30*day))
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if removed != 0 {
		t.Errorf("Sweep() removed %d, want 0", removed)
	}
	for _, k := range []string{"a:lastSearchAddress", "a:lastSearchResults"} {
		if _, ok, _ := s.Get(ctx, k); !ok {
			t.Errorf("%s was swept after being read", k)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	kv := store.Scope(s, "cli")
	if err := kv.Set(ctx, "lastSearchResults", []byte(`{"hasSearched":true}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	_ = s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()
	got, ok, err := s.Get(ctx, "cli:lastSearchResults")
	if err != nil || !ok || string(got) != `{"hasSearched":true}` {
		t.Errorf("Get() after reopen = %q, %v, %v", got, ok, err)
	}
}
