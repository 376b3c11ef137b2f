package decorators

import (
	"context"
	"time"

	"github.com/skierstats/skier-stats/backends"
	"github.com/skierstats/skier-stats/metrics"
	"github.com/skierstats/skier-stats/utils"
)

type backendWithMetrics struct {
	delegate backends.Backend
	metrics  *metrics.Metrics
}

// Get logs the total, duration and error metrics of a cache read. A miss is
// counted as an error of type key not found.
func (b *backendWithMetrics) Get(ctx context.Context, key string) (string, error) {
	b.metrics.RecordGetBackendTotal()

	start := time.Now()
	val, err := b.delegate.Get(ctx, key)
	if err == nil {
		b.metrics.RecordGetBackendDuration(time.Since(start))
	} else {
		if utils.IsLookupErrorType(err, utils.KEY_NOT_FOUND) {
			b.metrics.RecordKeyNotFoundError()
		}
		b.metrics.RecordGetBackendError()
	}
	return val, err
}

func (b *backendWithMetrics) Put(ctx context.Context, key string, value string, ttlSeconds int) error {
	b.metrics.RecordPutBackendTotal()
	b.metrics.RecordPutBackendTTLSeconds(time.Duration(ttlSeconds) * time.Second)
	b.metrics.RecordPutBackendSize(float64(len(value)))

	start := time.Now()
	err := b.delegate.Put(ctx, key, value, ttlSeconds)
	if err == nil {
		b.metrics.RecordPutBackendDuration(time.Since(start))
	} else {
		b.metrics.RecordPutBackendError()
	}
	return err
}

func LogMetrics(backend backends.Backend, m *metrics.Metrics) backends.Backend {
	return &backendWithMetrics{
		delegate: backend,
		metrics:  m,
	}
}
