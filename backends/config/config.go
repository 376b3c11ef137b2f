package config

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/skierstats/skier-stats/backends"
	"github.com/skierstats/skier-stats/backends/decorators"
	"github.com/skierstats/skier-stats/compression"
	"github.com/skierstats/skier-stats/config"
	"github.com/skierstats/skier-stats/metrics"
)

// NewBackend builds the configured cache backend and wraps it with the
// decorators every lookup goes through, outermost first: metrics, TTL limits,
// retries, compression and the size limit.
func NewBackend(cfg config.Configuration, appMetrics *metrics.Metrics) backends.Backend {
	backend := newBaseBackend(cfg.Backend)
	if cfg.RequestLimits.MaxSize > 0 {
		backend = decorators.EnforceSizeLimit(backend, cfg.RequestLimits.MaxSize)
	}
	backend = applyCompression(cfg.Compression, backend)
	backend = decorators.RetryOnError(backend, cfg.Backend.Retry)
	backend = decorators.LimitTTLs(backend, getMaxTTLSeconds(cfg))
	backend = decorators.LogMetrics(backend, appMetrics)
	return backend
}

func applyCompression(cfg config.Compression, backend backends.Backend) backends.Backend {
	switch cfg.Type {
	case config.CompressionNone:
		return backend
	case config.CompressionSnappy:
		return compression.SnappyCompress(backend)
	default:
		log.Fatalf("Unknown compression type: %s", cfg.Type)
	}

	panic("Error applying compression. This shouldn't happen.")
}

func newBaseBackend(cfg config.Backend) backends.Backend {
	switch cfg.Type {
	case config.BackendCassandra:
		return backends.NewCassandraBackend(cfg.Cassandra)
	case config.BackendIgnite:
		return backends.NewIgniteBackend(cfg.Ignite)
	case config.BackendMemory:
		return backends.NewMemoryBackend()
	case config.BackendMemcache:
		return backends.NewMemcacheBackend(cfg.Memcache)
	case config.BackendAerospike:
		return backends.NewAerospikeBackend(cfg.Aerospike)
	case config.BackendRedis:
		return backends.NewRedisBackend(cfg.Redis, context.Background())
	case config.BackendRedisSentinel:
		return backends.NewRedisSentinelBackend(cfg.RedisSentinel, context.Background())
	default:
		log.Fatalf("Unknown backend type: %s", cfg.Type)
	}

	panic("Error creating backend. This shouldn't happen.")
}

// getMaxTTLSeconds returns the TTL ceiling of the configured backend: the
// request limit, lowered to the backend's own default expiration if that is
// shorter.
func getMaxTTLSeconds(cfg config.Configuration) int {
	maxTTLSeconds := cfg.RequestLimits.MaxTTLSeconds

	switch cfg.Backend.Type {
	case config.BackendCassandra:
		if cfg.Backend.Cassandra.DefaultTTL > 0 && cfg.Backend.Cassandra.DefaultTTL < maxTTLSeconds {
			maxTTLSeconds = cfg.Backend.Cassandra.DefaultTTL
		}
	case config.BackendRedis:
		if cfg.Backend.Redis.Expiration > 0 && cfg.Backend.Redis.Expiration*60 < maxTTLSeconds {
			maxTTLSeconds = cfg.Backend.Redis.Expiration * 60
		}
	}
	return maxTTLSeconds
}
