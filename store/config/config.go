package config

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/skierstats/skier-stats/config"
	"github.com/skierstats/skier-stats/metrics"
	"github.com/skierstats/skier-stats/store"
)

// NewStore builds the configured lift ride store, wrapped with retries and
// metrics.
func NewStore(cfg config.Configuration, m *metrics.Metrics) store.Store {
	base, err := newBaseStore(cfg.Store)
	if err != nil {
		log.Fatalf("Could not create the lift ride store: %v", err)
		panic("Error creating the lift ride store. The store type is not supported.")
	}
	return store.LogMetrics(store.RetryOnError(base, cfg.Store.Retry), m)
}

func newBaseStore(cfg config.Store) (store.Store, error) {
	switch cfg.Type {
	case config.StoreDynamoDB:
		return store.NewDynamoDBStore(cfg.DynamoDB)
	case config.StoreMemory:
		return store.LoadMemoryStore(cfg.Memory.SeedFile)
	}
	return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
}
