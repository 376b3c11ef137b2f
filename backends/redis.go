package backends

import (
	"context"
	"crypto/tls"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/skierstats/skier-stats/config"
	"github.com/skierstats/skier-stats/utils"
)

// RedisDB is an interface that helps us communicate with an instance of a
// Redis database. Its implementation is intended to use the "github.com/redis/go-redis"
// client
type RedisDB interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string, ttlSeconds int) error
}

// RedisDBClient is a wrapper for the Redis client that implements the RedisDB interface
type RedisDBClient struct {
	client redis.UniversalClient
}

// Get returns the value associated with the provided `key` parameter
func (db RedisDBClient) Get(ctx context.Context, key string) (string, error) {
	return db.client.Get(ctx, key).Result()
}

// Put sets 'key' to hold string 'value', replacing any previous value. A
// refilled entry must reflect the latest store read, so SetNX is not an option.
func (db RedisDBClient) Put(ctx context.Context, key string, value string, ttlSeconds int) error {
	return db.client.Set(ctx, key, value, time.Duration(ttlSeconds)*time.Second).Err()
}

// RedisBackend when initialized will instantiate and configure the Redis client. It implements
// the Backend interface.
type RedisBackend struct {
	cfg    config.Redis
	client RedisDB
}

// NewRedisBackend initializes the redis client and pings to make sure connection was successful
func NewRedisBackend(cfg config.Redis, ctx context.Context) *RedisBackend {
	constr := cfg.Host + ":" + strconv.Itoa(cfg.Port)

	options := &redis.Options{
		Addr:     constr,
		Password: cfg.Password,
		DB:       cfg.Db,
	}

	if cfg.TLS.Enabled {
		options.TLSConfig = &tls.Config{InsecureSkipVerify: cfg.TLS.InsecureSkipVerify}
	}

	client := redis.NewClient(options)

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Error connecting to Redis Cache at %s: %v", constr, err)
	}

	log.Infof("Cache Connection established. Connected to Redis at %s", constr)

	return &RedisBackend{
		cfg:    cfg,
		client: RedisDBClient{client: client},
	}
}

// Get calls the Redis client to return the value associated with the provided `key`
// parameter and interprets its response. A `Nil` error reply of the Redis client means
// the `key` does not exist.
func (b *RedisBackend) Get(ctx context.Context, key string) (string, error) {
	res, err := b.client.Get(ctx, key)
	if err == redis.Nil {
		err = utils.NewLookupError(utils.KEY_NOT_FOUND)
	}

	return res, err
}

// Put writes the `value` under the provided `key` in the Redis storage server. A zero
// ttlSeconds falls back to the configured expiration, expressed in minutes.
func (b *RedisBackend) Put(ctx context.Context, key string, value string, ttlSeconds int) error {
	if ttlSeconds == 0 {
		ttlSeconds = b.cfg.Expiration * 60
	}
	return b.client.Put(ctx, key, value, ttlSeconds)
}
