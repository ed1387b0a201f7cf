package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"expensetracker/internal/storage"
	"expensetracker/internal/storage/memory"
)

type countingStorage struct {
	storage.Storage
	gets    int
	failSet bool
}

func (c *countingStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	c.gets++
	return c.Storage.GetItem(ctx, key)
}

func (c *countingStorage) SetItem(ctx context.Context, key, value string) error {
	if c.failSet {
		return errors.New("disk full")
	}
	return c.Storage.SetItem(ctx, key, value)
}

func TestLoadSave(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	var got []string
	ok, err := storage.Load(ctx, s, storage.KeyExpenses, &got)
	if ok || err != nil {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}

	if err := storage.Save(ctx, s, storage.KeyExpenses, []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	if ok, err := storage.Load(ctx, s, storage.KeyExpenses, &got); !ok || err != nil || len(got) != 2 {
		t.Fatalf("ok=%v err=%v got=%v", ok, err, got)
	}

	_ = s.SetItem(ctx, storage.KeyBudgets, "not json")
	if _, err := storage.Load(ctx, s, storage.KeyBudgets, &got); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestCached(t *testing.T) {
	ctx := context.Background()
	backend := &countingStorage{Storage: memory.New()}
	c := storage.NewCached(backend, 8, time.Minute)

	for i := 0; i < 3; i++ {
		if _, ok, err := c.GetItem(ctx, storage.KeyUser); ok || err != nil {
			t.Fatalf("ok=%v err=%v", ok, err)
		}
	}
	if backend.gets != 1 {
		t.Fatalf("absent key should be cached, backend gets = %d", backend.gets)
	}

	if err := c.SetItem(ctx, storage.KeyUser, `{"id":"1"}`); err != nil {
		t.Fatal(err)
	}
	if v, ok, _ := c.GetItem(ctx, storage.KeyUser); !ok || v != `{"id":"1"}` {
		t.Fatalf("write-through failed: %q %v", v, ok)
	}
	if backend.gets != 1 {
		t.Fatalf("read after write should hit cache, gets = %d", backend.gets)
	}

	if err := c.RemoveItem(ctx, storage.KeyUser); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.GetItem(ctx, storage.KeyUser); ok {
		t.Fatal("removed key should be absent")
	}

	backend.failSet = true
	if err := c.SetItem(ctx, storage.KeyUser, `{}`); err == nil {
		t.Fatal("expected backend error")
	}
	if _, ok, _ := c.GetItem(ctx, storage.KeyUser); ok {
		t.Fatal("failed write must not be visible")
	}
	if err := storage.Ping(ctx, c); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
