package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"
)

// MemoryStore keeps lift rides in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

func NewMemoryStore(records ...Record) *MemoryStore {
	s := &MemoryStore{}
	s.Add(records...)
	return s
}

// LoadMemoryStore reads a JSON array of records from seedFile. An empty
// seedFile yields an empty store.
func LoadMemoryStore(seedFile string) (*MemoryStore, error) {
	if seedFile == "" {
		log.Info("Lift ride store is empty: no seed file configured")
		return NewMemoryStore(), nil
	}

	raw, err := os.ReadFile(seedFile)
	if err != nil {
		return nil, fmt.Errorf("reading lift ride seed file: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parsing lift ride seed file %s: %w", seedFile, err)
	}
	log.Infof("Loaded %d lift rides from %s", len(records), seedFile)
	return NewMemoryStore(records...), nil
}

func (s *MemoryStore) Add(records ...Record) {
	s.mu.Lock()
	s.records = append(s.records, records...)
	s.mu.Unlock()
}

func (s *MemoryStore) Query(ctx context.Context, q Query) ([]Record, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreInternal, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []Record
	for _, r := range s.records {
		if q.matches(r) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}
