package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"expensetracker/internal/storage"
)

var _ storage.Storage = (*Store)(nil)

func TestStore_RoundTripAndReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "expenses.db")

	s, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if _, ok, err := s.GetItem(ctx, storage.KeyExpenses); ok || err != nil {
		t.Fatalf("fresh db: ok=%v err=%v", ok, err)
	}
	if err := s.SetItem(ctx, storage.KeyExpenses, `[]`); err != nil {
		t.Fatal(err)
	}
	if err := s.SetItem(ctx, storage.KeyExpenses, `[{"id":"1"}]`); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.SetItem(ctx, storage.KeyUser, `{"id":"u"}`); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveItem(ctx, storage.KeyUser); err != nil {
		t.Fatal(err)
	}
	if err := s.Ping(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopening runs migrations again, which must be a no-op.
	s, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	v, ok, err := s.GetItem(ctx, storage.KeyExpenses)
	if err != nil || !ok || v != `[{"id":"1"}]` {
		t.Fatalf("after reopen: %q ok=%v err=%v", v, ok, err)
	}
	if _, ok, _ := s.GetItem(ctx, storage.KeyUser); ok {
		t.Fatal("removed key came back")
	}
}
