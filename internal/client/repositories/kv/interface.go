package kv

import "context"

// Backend is a durable string key/value medium. Values are opaque text; an
// absent key is reported as ok == false with a nil error.
type Backend interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string) error
	// Delete removes every given key. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
