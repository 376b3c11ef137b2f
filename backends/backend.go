package backends

import (
	"context"
)

// Backend is the key/value cache sitting in front of the lift ride store.
//
// Get returns a KEY_NOT_FOUND utils.LookupError when key holds no value. Put
// overwrites whatever key held before; a zero ttlSeconds lets the backend
// apply its own default expiration.
type Backend interface {
	Put(ctx context.Context, key string, value string, ttlSeconds int) error
	Get(ctx context.Context, key string) (string, error)
}
