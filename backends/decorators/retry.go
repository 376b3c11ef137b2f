package decorators

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	log "github.com/sirupsen/logrus"

	"github.com/skierstats/skier-stats/backends"
	"github.com/skierstats/skier-stats/config"
	"github.com/skierstats/skier-stats/utils"
)

// RetryOnError retries failed Get and Put calls with exponential backoff, at
// most cfg.MaxRetries times. A KEY_NOT_FOUND answer and a rejected payload size
// are final, and no call is retried once ctx is done.
func RetryOnError(delegate backends.Backend, cfg config.Retry) backends.Backend {
	if cfg.MaxRetries <= 0 {
		return delegate
	}
	return &retryingBackend{
		delegate:        delegate,
		maxTries:        uint(cfg.MaxRetries + 1),
		initialInterval: cfg.InitialInterval(),
	}
}

type retryingBackend struct {
	delegate        backends.Backend
	maxTries        uint
	initialInterval time.Duration
}

func (b *retryingBackend) Get(ctx context.Context, key string) (string, error) {
	return backoff.Retry(ctx, func() (string, error) {
		value, err := b.delegate.Get(ctx, key)
		if err != nil && (ctx.Err() != nil || utils.IsLookupErrorType(err, utils.KEY_NOT_FOUND)) {
			return "", backoff.Permanent(err)
		}
		return value, err
	}, b.options("get", key)...)
}

func (b *retryingBackend) Put(ctx context.Context, key string, value string, ttlSeconds int) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := b.delegate.Put(ctx, key, value, ttlSeconds)
		var badSize *BadPayloadSize
		if err != nil && (ctx.Err() != nil || errors.As(err, &badSize)) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, b.options("put", key)...)
	return err
}

func (b *retryingBackend) options(op string, key string) []backoff.RetryOption {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = b.initialInterval

	return []backoff.RetryOption{
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(b.maxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Debugf("Cache %s of key %s failed, retrying in %v: %v", op, key, next, err)
		}),
	}
}
