package postgres

import (
	"context"
	"os"
	"testing"

	"expensetracker/internal/storage"
)

var _ storage.Storage = (*Store)(nil)

func TestStore_Integration(t *testing.T) {
	url := os.Getenv("POSTGRES_TEST_URL")
	if url == "" {
		t.Skip("POSTGRES_TEST_URL not set")
	}
	ctx := context.Background()

	s, err := Connect(ctx, url)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer s.Close()

	key := "test_" + t.Name()
	t.Cleanup(func() { _ = s.RemoveItem(context.Background(), key) })

	if _, ok, err := s.GetItem(ctx, key); ok || err != nil {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if err := s.SetItem(ctx, key, `{"a":1}`); err != nil {
		t.Fatal(err)
	}
	if err := s.SetItem(ctx, key, `{"a":2}`); err != nil {
		t.Fatal(err)
	}
	v, ok, err := s.GetItem(ctx, key)
	if err != nil || !ok || v != `{"a":2}` {
		t.Fatalf("got %q ok=%v err=%v", v, ok, err)
	}
	if err := s.RemoveItem(ctx, key); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.GetItem(ctx, key); ok {
		t.Fatal("key should be gone")
	}
}
