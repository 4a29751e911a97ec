package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// ErrCorrupt is returned when a persisted value cannot be decoded.
var ErrCorrupt = errors.New("corrupt data")

// Store is the persistence boundary: a key-value area plus named record stores.
// Values are JSON encoded.
type Store interface {
	// Get decodes the value stored under key into v. It reports false when the
	// key has never been set.
	Get(ctx context.Context, key string, v any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	// GetAll returns the raw records of a store in insertion order.
	GetAll(ctx context.Context, store string) ([]json.RawMessage, error)
	// SaveTo inserts or replaces the record with the given id.
	SaveTo(ctx context.Context, store, id string, v any) error
	DeleteFrom(ctx context.Context, store, id string) error
	Close() error
}

var nameRE = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func validName(kind, name string) error {
	if !nameRE.MatchString(name) {
		return fmt.Errorf("invalid %s name %q", kind, name)
	}
	return nil
}

// Records decodes every record of a store into T. A record that fails to decode
// aborts the read with ErrCorrupt.
func Records[T any](ctx context.Context, s Store, store string) ([]T, error) {
	raws, err := s.GetAll(ctx, store)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raws))
	for i, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: record %d of store %s: %v", ErrCorrupt, i, store, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Value reads key into a fresh T. Missing keys yield def.
func Value[T any](ctx context.Context, s Store, key string, def T) (T, error) {
	v := def
	ok, err := s.Get(ctx, key, &v)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}
