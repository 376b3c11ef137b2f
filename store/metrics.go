package store

import (
	"context"
	"time"

	"github.com/skierstats/skier-stats/metrics"
)

// LogMetrics records the duration, failures and result size of every query.
func LogMetrics(delegate Store, m *metrics.Metrics) Store {
	return &instrumentedStore{delegate: delegate, metrics: m}
}

type instrumentedStore struct {
	delegate Store
	metrics  *metrics.Metrics
}

func (s *instrumentedStore) Query(ctx context.Context, q Query) ([]Record, error) {
	start := time.Now()
	records, err := s.delegate.Query(ctx, q)
	if err != nil {
		s.metrics.RecordStoreQueryError()
		return nil, err
	}
	s.metrics.RecordStoreQueryDuration(time.Since(start))
	s.metrics.RecordStoreRecords(len(records))
	return records, nil
}
