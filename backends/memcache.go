package backends

import (
	"context"

	"github.com/google/gomemcache/memcache"
	log "github.com/sirupsen/logrus"

	"github.com/skierstats/skier-stats/config"
	"github.com/skierstats/skier-stats/utils"
)

type MemcacheDataStore interface {
	Get(key string) (*memcache.Item, error)
	Put(key string, value string, ttlSeconds int) error
}

// Memcache Object use to implement MemcacheDataStore interface
type Memcache struct {
	client *memcache.Client
}

func (mc *Memcache) Get(key string) (*memcache.Item, error) {
	return mc.client.Get(key)
}

func (mc *Memcache) Put(key string, value string, ttlSeconds int) error {
	return mc.client.Set(&memcache.Item{
		Expiration: int32(ttlSeconds),
		Key:        key,
		Value:      []byte(value),
	})
}

// MemcacheBackend implements the Backend interface
type MemcacheBackend struct {
	client MemcacheDataStore
}

// NewMemcacheBackend create a new memcache backend
func NewMemcacheBackend(cfg config.Memcache) *MemcacheBackend {
	mc := memcache.New(cfg.Hosts...)
	log.Infof("Cache Connection established. Memcache servers: %v", cfg.Hosts)

	return &MemcacheBackend{
		client: &Memcache{mc},
	}
}

// Get translates memcache.ErrCacheMiss into a KEY_NOT_FOUND error
func (mc *MemcacheBackend) Get(ctx context.Context, key string) (string, error) {
	res, err := mc.client.Get(key)
	if err != nil {
		if err == memcache.ErrCacheMiss {
			err = utils.NewLookupError(utils.KEY_NOT_FOUND)
		}
		return "", err
	}

	return string(res.Value), nil
}

// Put calls Set(item *Item), that writes the given item, unconditionally as
// opposed to Add, that writes the given item only if no value already exists or
// Replace, that writes only if the server already holds data for this key
func (mc *MemcacheBackend) Put(ctx context.Context, key string, value string, ttlSeconds int) error {
	return mc.client.Put(key, value, ttlSeconds)
}
