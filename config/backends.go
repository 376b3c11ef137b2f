package config

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Backend struct {
	Type          BackendType   `mapstructure:"type"`
	Aerospike     Aerospike     `mapstructure:"aerospike"`
	Cassandra     Cassandra     `mapstructure:"cassandra"`
	Ignite        Ignite        `mapstructure:"ignite"`
	Memcache      Memcache      `mapstructure:"memcache"`
	Redis         Redis         `mapstructure:"redis"`
	RedisSentinel RedisSentinel `mapstructure:"redis_sentinel"`
	Retry         Retry         `mapstructure:"retry"`
}

func (cfg *Backend) validateAndLog() error {
	log.Infof("config.backend.type: %s", cfg.Type)

	var err error
	switch cfg.Type {
	case BackendAerospike:
		err = cfg.Aerospike.validateAndLog()
	case BackendCassandra:
		err = cfg.Cassandra.validateAndLog()
	case BackendIgnite:
		err = cfg.Ignite.validateAndLog()
	case BackendMemcache:
		err = cfg.Memcache.validateAndLog()
	case BackendRedis:
		err = cfg.Redis.validateAndLog()
	case BackendRedisSentinel:
		err = cfg.RedisSentinel.validateAndLog()
	case BackendMemory:
	default:
		return fmt.Errorf(`invalid config.backend.type: %s. It must be "aerospike", "cassandra", "ignite", "memcache", "redis", "redis_sentinel", or "memory".`, cfg.Type)
	}
	if err != nil {
		return err
	}
	return cfg.Retry.validateAndLog("config.backend.retry")
}

type BackendType string

const (
	BackendAerospike     BackendType = "aerospike"
	BackendCassandra     BackendType = "cassandra"
	BackendIgnite        BackendType = "ignite"
	BackendMemcache      BackendType = "memcache"
	BackendMemory        BackendType = "memory"
	BackendRedis         BackendType = "redis"
	BackendRedisSentinel BackendType = "redis_sentinel"
)

type Aerospike struct {
	Host      string   `mapstructure:"host"`
	Hosts     []string `mapstructure:"hosts"`
	Port      int      `mapstructure:"port"`
	Namespace string   `mapstructure:"namespace"`
	User      string   `mapstructure:"user"`
	Password  string   `mapstructure:"password"`
}

func (cfg *Aerospike) validateAndLog() error {
	if len(cfg.Host) < 1 && len(cfg.Hosts) < 1 {
		return fmt.Errorf("Cannot connect to empty Aerospike host(s)")
	}
	if cfg.Port <= 0 {
		return fmt.Errorf("Cannot connect to Aerospike host at port %d", cfg.Port)
	}
	log.Infof("config.backend.aerospike.host: %s", cfg.Host)
	log.Infof("config.backend.aerospike.hosts: %v", cfg.Hosts)
	log.Infof("config.backend.aerospike.port: %d", cfg.Port)
	log.Infof("config.backend.aerospike.namespace: %s", cfg.Namespace)
	log.Infof("config.backend.aerospike.user: %s", cfg.User)
	return nil
}

type Cassandra struct {
	Hosts      string `mapstructure:"hosts"`
	Keyspace   string `mapstructure:"keyspace"`
	DefaultTTL int    `mapstructure:"default_ttl_seconds"`
}

func (cfg *Cassandra) validateAndLog() error {
	if cfg.Hosts == "" {
		return fmt.Errorf("Cannot connect to empty Cassandra hosts")
	}
	log.Infof("config.backend.cassandra.hosts: %s", cfg.Hosts)
	log.Infof("config.backend.cassandra.keyspace: %s", cfg.Keyspace)
	if cfg.DefaultTTL < 0 {
		// Goes back to default if we are provided a negative value
		cfg.DefaultTTL = 2400
	}
	log.Infof("config.backend.cassandra.default_ttl_seconds: %d", cfg.DefaultTTL)
	return nil
}

// Ignite points at the REST API of an Apache Ignite node.
type Ignite struct {
	Scheme     string            `mapstructure:"scheme"`
	Host       string            `mapstructure:"host"`
	Port       uint              `mapstructure:"port"`
	VerifyCert bool              `mapstructure:"secure"`
	Headers    map[string]string `mapstructure:"headers"`
	Cache      IgniteCache       `mapstructure:"cache"`
}

type IgniteCache struct {
	Name          string `mapstructure:"name"`
	CreateOnStart bool   `mapstructure:"create_on_start"`
}

func (cfg *Ignite) validateAndLog() error {
	if cfg.Scheme == "" {
		return fmt.Errorf("Cannot connect to Ignite without a scheme")
	}
	if cfg.Host == "" {
		return fmt.Errorf("Cannot connect to empty Ignite host")
	}
	if cfg.Port == 0 {
		return fmt.Errorf("Cannot connect to Ignite host at port %d", cfg.Port)
	}
	if cfg.Cache.Name == "" {
		return fmt.Errorf("Cannot use Ignite without a cache name")
	}
	log.Infof("config.backend.ignite.scheme: %s", cfg.Scheme)
	log.Infof("config.backend.ignite.host: %s", cfg.Host)
	log.Infof("config.backend.ignite.port: %d", cfg.Port)
	log.Infof("config.backend.ignite.secure: %t", cfg.VerifyCert)
	log.Infof("config.backend.ignite.cache.name: %s", cfg.Cache.Name)
	log.Infof("config.backend.ignite.cache.create_on_start: %t", cfg.Cache.CreateOnStart)
	return nil
}

type Memcache struct {
	Hosts []string `mapstructure:"hosts"`
}

func (cfg *Memcache) validateAndLog() error {
	if len(cfg.Hosts) == 0 {
		return fmt.Errorf("Cannot connect to empty Memcache hosts")
	}
	log.Infof("config.backend.memcache.hosts: %v", cfg.Hosts)
	return nil
}

type Redis struct {
	Host       string   `mapstructure:"host"`
	Port       int      `mapstructure:"port"`
	Password   string   `mapstructure:"password"`
	Db         int      `mapstructure:"db"`
	Expiration int      `mapstructure:"expiration"`
	TLS        RedisTLS `mapstructure:"tls"`
}

type RedisTLS struct {
	Enabled            bool `mapstructure:"enabled"`
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify"`
}

func (cfg *Redis) validateAndLog() error {
	if cfg.Host == "" {
		return fmt.Errorf("Cannot connect to empty Redis host")
	}
	log.Infof("config.backend.redis.host: %s", cfg.Host)
	log.Infof("config.backend.redis.port: %d", cfg.Port)
	log.Infof("config.backend.redis.db: %d", cfg.Db)
	log.Infof("config.backend.redis.expiration: %d", cfg.Expiration)
	log.Infof("config.backend.redis.tls.enabled: %t", cfg.TLS.Enabled)
	log.Infof("config.backend.redis.tls.insecure_skip_verify: %t", cfg.TLS.InsecureSkipVerify)
	return nil
}

type RedisSentinel struct {
	SentinelAddrs []string `mapstructure:"sentinel_addrs"`
	MasterName    string   `mapstructure:"master_name"`
	Password      string   `mapstructure:"password"`
	Db            int      `mapstructure:"db"`
	TLS           RedisTLS `mapstructure:"tls"`
}

func (cfg *RedisSentinel) validateAndLog() error {
	if len(cfg.SentinelAddrs) == 0 {
		return fmt.Errorf("Cannot connect to empty Redis Sentinel addresses")
	}
	if cfg.MasterName == "" {
		return fmt.Errorf("Cannot connect to Redis Sentinel without a master name")
	}
	log.Infof("config.backend.redis_sentinel.sentinel_addrs: %v", cfg.SentinelAddrs)
	log.Infof("config.backend.redis_sentinel.master_name: %s", cfg.MasterName)
	log.Infof("config.backend.redis_sentinel.db: %d", cfg.Db)
	log.Infof("config.backend.redis_sentinel.tls.enabled: %t", cfg.TLS.Enabled)
	log.Infof("config.backend.redis_sentinel.tls.insecure_skip_verify: %t", cfg.TLS.InsecureSkipVerify)
	return nil
}

// Retry bounds the exponential backoff applied to transient failures.
type Retry struct {
	MaxRetries        int `mapstructure:"max_retries"`
	InitialIntervalMs int `mapstructure:"initial_interval_ms"`
}

func (cfg *Retry) validateAndLog(prefix string) error {
	if cfg.MaxRetries < 0 {
		return fmt.Errorf("invalid %s.max_retries: %d. It can't be negative", prefix, cfg.MaxRetries)
	}
	if cfg.MaxRetries > 0 && cfg.InitialIntervalMs <= 0 {
		return fmt.Errorf("invalid %s.initial_interval_ms: %d. It must be greater than zero", prefix, cfg.InitialIntervalMs)
	}
	log.Infof("%s.max_retries: %d", prefix, cfg.MaxRetries)
	log.Infof("%s.initial_interval_ms: %d", prefix, cfg.InitialIntervalMs)
	return nil
}

func (cfg *Retry) InitialInterval() time.Duration {
	return time.Duration(cfg.InitialIntervalMs) * time.Millisecond
}
