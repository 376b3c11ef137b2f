package backends

import (
	"context"
	"crypto/tls"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/skierstats/skier-stats/config"
	"github.com/skierstats/skier-stats/utils"
)

// RedisSentinelBackend talks to the current master of a Redis Sentinel
// deployment. It implements the Backend interface.
type RedisSentinelBackend struct {
	cfg    config.RedisSentinel
	client RedisDB
}

// NewRedisSentinelBackend initializes the Redis Sentinel client and pings to make sure connection was successful
func NewRedisSentinelBackend(cfg config.RedisSentinel, ctx context.Context) *RedisSentinelBackend {
	options := &redis.FailoverOptions{
		MasterName:    cfg.MasterName,
		SentinelAddrs: cfg.SentinelAddrs,
		Password:      cfg.Password,
		DB:            cfg.Db,
	}

	if cfg.TLS.Enabled {
		options.TLSConfig = &tls.Config{InsecureSkipVerify: cfg.TLS.InsecureSkipVerify}
	}

	client := redis.NewFailoverClient(options)

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Error connecting to Redis Sentinels %v: %v", cfg.SentinelAddrs, err)
	}
	log.Infof("Cache Connection established. Connected to Redis Sentinels at %v", cfg.SentinelAddrs)

	return &RedisSentinelBackend{
		cfg:    cfg,
		client: RedisDBClient{client: client},
	}
}

// Get returns a KEY_NOT_FOUND error when the master answers with a `Nil` reply.
func (b *RedisSentinelBackend) Get(ctx context.Context, key string) (string, error) {
	res, err := b.client.Get(ctx, key)
	if err == redis.Nil {
		err = utils.NewLookupError(utils.KEY_NOT_FOUND)
	}

	return res, err
}

func (b *RedisSentinelBackend) Put(ctx context.Context, key string, value string, ttlSeconds int) error {
	return b.client.Put(ctx, key, value, ttlSeconds)
}
