package backends

import (
	"context"
	"sync"
)

// ErrorProneBackend fails every call with the configured errors. It is meant
// for tests of the layers built on top of a Backend.
type ErrorProneBackend struct {
	GetError error
	PutError error
}

func (b *ErrorProneBackend) Get(ctx context.Context, key string) (string, error) {
	return "", b.GetError
}

func (b *ErrorProneBackend) Put(ctx context.Context, key string, value string, ttlSeconds int) error {
	return b.PutError
}

// SpyBackend wraps a Backend and counts the calls that reach it.
type SpyBackend struct {
	Backend
	mu      sync.Mutex
	gets    int
	puts    int
	lastTTL int
}

func NewSpyBackend(delegate Backend) *SpyBackend {
	return &SpyBackend{Backend: delegate}
}

func (s *SpyBackend) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	s.gets++
	s.mu.Unlock()
	return s.Backend.Get(ctx, key)
}

func (s *SpyBackend) Put(ctx context.Context, key string, value string, ttlSeconds int) error {
	s.mu.Lock()
	s.puts++
	s.lastTTL = ttlSeconds
	s.mu.Unlock()
	return s.Backend.Put(ctx, key, value, ttlSeconds)
}

// Calls returns how many Get and Put calls reached the spy.
func (s *SpyBackend) Calls() (gets int, puts int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets, s.puts
}

func (s *SpyBackend) LastTTL() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTTL
}
