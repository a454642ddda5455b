// Package storage is the key-value persistence boundary. Values are opaque
// bytes, normally JSON documents.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("storage: key not found")

// KV is a flat string-keyed store. Get returns ErrNotFound for a missing key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// GetJSON reads key and decodes it into v.
func GetJSON(ctx context.Context, kv KV, key string, v any) error {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &DecodeError{Key: key, Err: err}
	}
	return nil
}

func SetJSON(ctx context.Context, kv KV, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Set(ctx, key, raw)
}

// DecodeError reports a stored value whose shape does not match what the
// caller expected.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("storage: malformed value at %s: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
