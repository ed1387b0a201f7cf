// Package storage defines the string-keyed persistence used by the stores.
//
// Values are JSON documents stored verbatim under a small fixed set of keys.
// Backends live in the memory, sqlite and postgres subpackages.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// Keys under which the application persists its collections.
const (
	KeyUser     = "user"
	KeyUsers    = "users"
	KeyExpenses = "expenses"
	KeyBudgets  = "budgets"
)

// Storage is a key-value store of JSON strings.
type Storage interface {
	// GetItem returns the value under key; ok is false when the key is absent.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	// RemoveItem deletes key. Removing a missing key is not an error.
	RemoveItem(ctx context.Context, key string) error
}

// Pinger is implemented by backends that can report their readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Load decodes the JSON value under key into dst. It returns false with a nil
// error when the key is absent, leaving dst untouched.
func Load(ctx context.Context, s Storage, key string, dst any) (bool, error) {
	raw, ok, err := s.GetItem(ctx, key)
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Save encodes v as JSON and writes it under key.
func Save(ctx context.Context, s Storage, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.SetItem(ctx, key, string(b)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Ping checks s if it implements Pinger.
func Ping(ctx context.Context, s Storage) error {
	if p, ok := s.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
