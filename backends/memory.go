package backends

import (
	"context"
	"sync"
	"time"

	"github.com/skierstats/skier-stats/utils"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryBackend keeps values in process memory. Entries written with a
// positive TTL are dropped lazily once they expire.
type MemoryBackend struct {
	db  map[string]memoryEntry
	mu  sync.RWMutex
	now func() time.Time
}

func (b *MemoryBackend) Get(ctx context.Context, key string) (string, error) {
	b.mu.RLock()
	entry, ok := b.db[key]
	b.mu.RUnlock()

	if !ok {
		return "", utils.NewLookupError(utils.KEY_NOT_FOUND)
	}
	if !entry.expiresAt.IsZero() && !b.now().Before(entry.expiresAt) {
		b.mu.Lock()
		if current, stillThere := b.db[key]; stillThere && current.expiresAt.Equal(entry.expiresAt) {
			delete(b.db, key)
		}
		b.mu.Unlock()
		return "", utils.NewLookupError(utils.KEY_NOT_FOUND)
	}

	return entry.value, nil
}

func (b *MemoryBackend) Put(ctx context.Context, key string, value string, ttlSeconds int) error {
	entry := memoryEntry{value: value}
	if ttlSeconds > 0 {
		entry.expiresAt = b.now().Add(time.Duration(ttlSeconds) * time.Second)
	}

	b.mu.Lock()
	b.db[key] = entry
	b.mu.Unlock()
	return nil
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		db:  make(map[string]memoryEntry),
		now: time.Now,
	}
}
