package lookup

import (
	"context"
	"errors"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/skierstats/skier-stats/backends"
	"github.com/skierstats/skier-stats/config"
	"github.com/skierstats/skier-stats/metrics"
	"github.com/skierstats/skier-stats/store"
	"github.com/skierstats/skier-stats/utils"
)

// Service resolves QueryKeys cache first. Every error it returns is a
// utils.LookupError of type INVALID_INPUT, NOT_FOUND, CACHE_UNAVAILABLE or
// STORE_UNAVAILABLE.
type Service struct {
	cache   backends.Backend
	store   store.Store
	routes  *RouteTable
	metrics *metrics.Metrics
	cfg     config.Lookup

	fills singleflight.Group
}

func NewService(cache backends.Backend, st store.Store, routes *RouteTable, m *metrics.Metrics, cfg config.Lookup) *Service {
	return &Service{
		cache:   cache,
		store:   st,
		routes:  routes,
		metrics: m,
		cfg:     cfg,
	}
}

// LookupPath resolves a request path and its query parameters through the
// route table before looking the key up.
func (s *Service) LookupPath(ctx context.Context, path string, query url.Values) (Result, error) {
	key, err := s.routes.Match(path, query)
	if err != nil {
		return nil, err
	}
	return s.Lookup(ctx, key)
}

func (s *Service) Lookup(ctx context.Context, key QueryKey) (Result, error) {
	queryType := string(key.Type)
	if err := key.Validate(); err != nil {
		s.metrics.RecordLookup(queryType, metrics.LookupInvalidInput)
		return nil, err
	}

	start := time.Now()
	defer func() {
		s.metrics.RecordLookupDuration(queryType, time.Since(start))
	}()

	cacheKey := key.CacheKey()
	result, err := s.readCache(ctx, key, cacheKey)
	if err == nil {
		s.metrics.RecordLookup(queryType, metrics.LookupCacheHit)
		return result, nil
	}
	if utils.IsLookupErrorType(err, utils.CACHE_UNAVAILABLE) {
		s.metrics.RecordLookup(queryType, metrics.LookupCacheUnavailable)
		if s.cfg.CacheFailurePolicy == config.CacheFailureFail {
			log.Errorf("Cache read of %s failed: %v", cacheKey, errors.Unwrap(err))
			return nil, err
		}
		log.Warnf("Cache read of %s failed, answering from the store: %v", cacheKey, errors.Unwrap(err))
	}

	// The fill is shared by every waiter on cacheKey, so it must outlive the
	// caller that started it. It stays bounded by the store timeout.
	ch := s.fills.DoChan(cacheKey, func() (interface{}, error) {
		return s.fill(context.WithoutCancel(ctx), key, cacheKey)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			s.recordFailure(queryType, res.Err)
			return nil, res.Err
		}
		s.metrics.RecordLookup(queryType, metrics.LookupCacheMiss)
		return res.Val.(Result), nil
	case <-ctx.Done():
		s.metrics.RecordLookup(queryType, metrics.LookupCanceled)
		return nil, utils.WrapLookupError(utils.STORE_UNAVAILABLE, ctx.Err())
	}
}

func (s *Service) recordFailure(queryType string, err error) {
	if utils.IsLookupErrorType(err, utils.NOT_FOUND) {
		s.metrics.RecordLookup(queryType, metrics.LookupNotFound)
		return
	}
	s.metrics.RecordLookup(queryType, metrics.LookupStoreUnavailable)
}

// readCache returns a KEY_NOT_FOUND error for a missing or undecodable entry
// and a CACHE_UNAVAILABLE error when the cache could not be read.
func (s *Service) readCache(ctx context.Context, key QueryKey, cacheKey string) (Result, error) {
	cacheCtx, cancel := context.WithTimeout(ctx, s.cfg.CacheTimeout())
	defer cancel()

	raw, err := s.cache.Get(cacheCtx, cacheKey)
	if err != nil {
		if utils.IsLookupErrorType(err, utils.KEY_NOT_FOUND) {
			return nil, err
		}
		return nil, utils.WrapLookupError(utils.CACHE_UNAVAILABLE, err)
	}

	result, err := decodeResult(key.Type, raw)
	if err != nil {
		log.Warnf("Discarding corrupt cache entry %s: %v", cacheKey, err)
		return nil, utils.NewLookupError(utils.KEY_NOT_FOUND)
	}
	return result, nil
}

// fill answers key from the store and caches the answer.
func (s *Service) fill(ctx context.Context, key QueryKey, cacheKey string) (Result, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout())
	defer cancel()

	records, err := s.store.Query(storeCtx, key.storeQuery())
	if err != nil {
		log.Errorf("Store query for %s failed: %v", cacheKey, err)
		return nil, utils.WrapLookupError(utils.STORE_UNAVAILABLE, err)
	}
	if len(records) == 0 {
		return nil, utils.NewLookupError(utils.NOT_FOUND)
	}

	result := aggregate(key, records, s.cfg.ResortName)
	s.writeCache(ctx, cacheKey, result)
	return result, nil
}

// writeCache stores result under cacheKey. Failures are logged and counted
// but never returned.
func (s *Service) writeCache(ctx context.Context, cacheKey string, result Result) {
	value, err := encodeResult(result)
	if err != nil {
		log.Errorf("Could not encode %s for the cache: %v", cacheKey, err)
		s.metrics.RecordCacheWriteFailed()
		return
	}

	cacheCtx, cancel := context.WithTimeout(ctx, s.cfg.CacheTimeout())
	defer cancel()

	if err := s.cache.Put(cacheCtx, cacheKey, value, s.cfg.CacheTTLSeconds); err != nil {
		log.Warnf("%s Key: %s: %v", utils.NewLookupError(utils.CACHE_WRITE_FAILED).Error(), cacheKey, err)
		s.metrics.RecordCacheWriteFailed()
	}
}
