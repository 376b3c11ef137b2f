// Package storetest provides a Store double for lookup tests.
package storetest

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/skierstats/skier-stats/store"
)

// CountingStore answers from an in-memory store while counting queries. When
// Release is set every query blocks until it is closed.
type CountingStore struct {
	*store.MemoryStore

	Err     error
	Release chan struct{}

	queries int64
	mu      sync.Mutex
	last    store.Query
}

func NewCountingStore(records ...store.Record) *CountingStore {
	return &CountingStore{MemoryStore: store.NewMemoryStore(records...)}
}

func (s *CountingStore) Query(ctx context.Context, q store.Query) ([]store.Record, error) {
	atomic.AddInt64(&s.queries, 1)
	s.mu.Lock()
	s.last = q
	s.mu.Unlock()

	if s.Release != nil {
		select {
		case <-s.Release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return s.MemoryStore.Query(ctx, q)
}

func (s *CountingStore) Queries() int64 {
	return atomic.LoadInt64(&s.queries)
}

func (s *CountingStore) LastQuery() store.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
