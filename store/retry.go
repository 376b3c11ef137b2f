package store

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	log "github.com/sirupsen/logrus"

	"github.com/skierstats/skier-stats/config"
)

// RetryOnError retries transient query failures with exponential backoff, at
// most cfg.MaxRetries times. Missing tables, invalid queries and queries whose
// ctx is done fail at once.
func RetryOnError(delegate Store, cfg config.Retry) Store {
	if cfg.MaxRetries <= 0 {
		return delegate
	}
	return &retryingStore{
		delegate:        delegate,
		maxTries:        uint(cfg.MaxRetries + 1),
		initialInterval: cfg.InitialInterval(),
	}
}

type retryingStore struct {
	delegate        Store
	maxTries        uint
	initialInterval time.Duration
}

func (s *retryingStore) Query(ctx context.Context, q Query) ([]Record, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.initialInterval

	return backoff.Retry(ctx, func() ([]Record, error) {
		records, err := s.delegate.Query(ctx, q)
		if err != nil && (ctx.Err() != nil || !IsTransient(err)) {
			return nil, backoff.Permanent(err)
		}
		return records, err
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(s.maxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Debugf("Query on %s failed, retrying in %v: %v", q.Index, next, err)
		}),
	)
}
