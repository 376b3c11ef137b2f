package config

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/skierstats/skier-stats/utils"
)

// NewConfig loads the configuration from the optional file named filename,
// defaults and environment variables, in that order of precedence.
func NewConfig(filename string) Configuration {
	v := viper.New()
	setConfigDefaults(v)
	setEnvVars(v)

	if filename != "" {
		setConfigFile(v, filename)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Info("Configuration file not detected. Initializing with default values and environment variable overrides.")
			} else {
				log.Fatalf("Configuration file could not be read: %v", err)
			}
		}
	} else {
		log.Info("Configuration file not detected. Initializing with default values and environment variable overrides.")
	}

	cfg := Configuration{}
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("Failed to unmarshal config: %v", err)
	}

	return cfg
}

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("admin_port", 8081)
	v.SetDefault("log.level", "info")
	v.SetDefault("lookup.cache_timeout_ms", utils.CACHE_DEFAULT_TIMEOUT_MS)
	v.SetDefault("lookup.store_timeout_ms", utils.STORE_DEFAULT_TIMEOUT_MS)
	v.SetDefault("lookup.cache_failure_policy", string(CacheFailureFallthrough))
	v.SetDefault("lookup.cache_ttl_seconds", utils.CACHE_DEFAULT_TTL_SECONDS)
	v.SetDefault("lookup.resort_name", utils.DefaultResortName)
	v.SetDefault("backend.type", string(BackendMemory))
	v.SetDefault("backend.aerospike.host", "")
	v.SetDefault("backend.aerospike.port", 0)
	v.SetDefault("backend.aerospike.namespace", "")
	v.SetDefault("backend.aerospike.user", "")
	v.SetDefault("backend.aerospike.password", "")
	v.SetDefault("backend.cassandra.hosts", "")
	v.SetDefault("backend.cassandra.keyspace", "")
	v.SetDefault("backend.cassandra.default_ttl_seconds", utils.CASSANDRA_DEFAULT_TTL_SECONDS)
	v.SetDefault("backend.ignite.scheme", "")
	v.SetDefault("backend.ignite.host", "")
	v.SetDefault("backend.ignite.port", 0)
	v.SetDefault("backend.ignite.secure", false)
	v.SetDefault("backend.ignite.headers", map[string]string{})
	v.SetDefault("backend.ignite.cache.name", "")
	v.SetDefault("backend.ignite.cache.create_on_start", false)
	v.SetDefault("backend.redis.host", "")
	v.SetDefault("backend.redis.port", 6379)
	v.SetDefault("backend.redis.password", "")
	v.SetDefault("backend.redis.db", 0)
	v.SetDefault("backend.redis.expiration", utils.REDIS_DEFAULT_EXPIRATION_MINUTES)
	v.SetDefault("backend.redis.tls.enabled", false)
	v.SetDefault("backend.redis.tls.insecure_skip_verify", false)
	v.SetDefault("backend.redis_sentinel.master_name", "")
	v.SetDefault("backend.redis_sentinel.password", "")
	v.SetDefault("backend.redis_sentinel.db", 0)
	v.SetDefault("backend.redis_sentinel.tls.enabled", false)
	v.SetDefault("backend.redis_sentinel.tls.insecure_skip_verify", false)
	v.SetDefault("backend.retry.max_retries", 2)
	v.SetDefault("backend.retry.initial_interval_ms", 20)
	v.SetDefault("compression.type", string(CompressionNone))
	v.SetDefault("store.type", string(StoreMemory))
	v.SetDefault("store.memory.seed_file", "")
	v.SetDefault("store.dynamodb.table", "SkierLiftRidesData_Final")
	v.SetDefault("store.dynamodb.resort_day_index", "resortID-dayID-index")
	v.SetDefault("store.dynamodb.skier_resort_index", "skierID-resortID-index")
	v.SetDefault("store.dynamodb.region", "us-west-2")
	v.SetDefault("store.dynamodb.endpoint", "")
	v.SetDefault("store.dynamodb.access_key", "")
	v.SetDefault("store.dynamodb.secret_key", "")
	v.SetDefault("store.dynamodb.session_token", "")
	v.SetDefault("store.retry.max_retries", 3)
	v.SetDefault("store.retry.initial_interval_ms", 50)
	v.SetDefault("metrics.influx.host", "")
	v.SetDefault("metrics.influx.database", "")
	v.SetDefault("metrics.influx.username", "")
	v.SetDefault("metrics.influx.password", "")
	v.SetDefault("metrics.influx.enabled", false)
	v.SetDefault("metrics.prometheus.port", 0)
	v.SetDefault("metrics.prometheus.namespace", "")
	v.SetDefault("metrics.prometheus.subsystem", "")
	v.SetDefault("metrics.prometheus.timeout_ms", 0)
	v.SetDefault("metrics.prometheus.enabled", false)
	v.SetDefault("rate_limiter.enabled", true)
	v.SetDefault("rate_limiter.num_requests", utils.RATE_LIMITER_NUM_REQUESTS)
	v.SetDefault("request_limits.max_size_bytes", utils.REQUEST_MAX_SIZE_BYTES)
	v.SetDefault("request_limits.max_ttl_seconds", utils.REQUEST_MAX_TTL_SECONDS)
	v.SetDefault("routes.index_response", "Skier lift ride statistics.")
}

func setConfigFile(v *viper.Viper, filename string) {
	v.SetConfigName(filename)             // name of config file (without extension)
	v.AddConfigPath("/etc/skier-stats/")  // path to look for the config file in
	v.AddConfigPath("$HOME/.skier-stats") // call multiple times to add many search paths
	v.AddConfigPath(".")
}

func setEnvVars(v *viper.Viper) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("SKS")
	v.AutomaticEnv()

	// AWS credentials keep the names the deployment already exports.
	v.BindEnv("store.dynamodb.access_key", "AWS_ACCESS_KEY")
	v.BindEnv("store.dynamodb.secret_key", "AWS_SECRET_KEY")
	v.BindEnv("store.dynamodb.session_token", "AWS_SESSION_TOKEN")
}

type Configuration struct {
	Port          int           `mapstructure:"port"`
	AdminPort     int           `mapstructure:"admin_port"`
	Log           Log           `mapstructure:"log"`
	Lookup        Lookup        `mapstructure:"lookup"`
	RateLimiting  RateLimiting  `mapstructure:"rate_limiter"`
	RequestLimits RequestLimits `mapstructure:"request_limits"`
	Backend       Backend       `mapstructure:"backend"`
	Compression   Compression   `mapstructure:"compression"`
	Store         Store         `mapstructure:"store"`
	Metrics       Metrics       `mapstructure:"metrics"`
	Routes        Routes        `mapstructure:"routes"`
}

// ValidateAndLog validates the config, terminating the program on any errors.
// It also logs the config values that it used.
func (cfg *Configuration) ValidateAndLog() {
	log.Infof("config.port: %d", cfg.Port)
	log.Infof("config.admin_port: %d", cfg.AdminPort)
	cfg.Log.validateAndLog()
	if err := cfg.Lookup.validateAndLog(); err != nil {
		log.Fatalf("%s", err.Error())
	}
	cfg.RateLimiting.validateAndLog()
	cfg.RequestLimits.validateAndLog()
	if err := cfg.Backend.validateAndLog(); err != nil {
		log.Fatalf("%s", err.Error())
	}
	cfg.Compression.validateAndLog()
	if err := cfg.Store.validateAndLog(); err != nil {
		log.Fatalf("%s", err.Error())
	}
	cfg.Metrics.validateAndLog()
	cfg.Routes.validateAndLog()
}

type Log struct {
	Level LogLevel `mapstructure:"level"`
}

func (cfg *Log) validateAndLog() {
	log.Infof("config.log.level: %s", cfg.Level)
}

type LogLevel string

const (
	Debug   LogLevel = "debug"
	Info    LogLevel = "info"
	Warning LogLevel = "warning"
	Error   LogLevel = "error"
	Fatal   LogLevel = "fatal"
	Panic   LogLevel = "panic"
)

// Lookup holds the knobs of the read-through lookup path.
type Lookup struct {
	CacheTimeoutMillis int                `mapstructure:"cache_timeout_ms"`
	StoreTimeoutMillis int                `mapstructure:"store_timeout_ms"`
	CacheFailurePolicy CacheFailurePolicy `mapstructure:"cache_failure_policy"`
	CacheTTLSeconds    int                `mapstructure:"cache_ttl_seconds"`
	ResortName         string             `mapstructure:"resort_name"`
}

type CacheFailurePolicy string

const (
	// CacheFailureFallthrough answers from the store when the cache cannot be read.
	CacheFailureFallthrough CacheFailurePolicy = "fallthrough"
	// CacheFailureFail answers with a server error when the cache cannot be read.
	CacheFailureFail CacheFailurePolicy = "fail"
)

func (cfg *Lookup) validateAndLog() error {
	switch cfg.CacheFailurePolicy {
	case CacheFailureFallthrough, CacheFailureFail:
	default:
		return fmt.Errorf(`invalid config.lookup.cache_failure_policy: %s. It must be "fallthrough" or "fail"`, cfg.CacheFailurePolicy)
	}
	if cfg.CacheTimeoutMillis <= 0 {
		return fmt.Errorf("invalid config.lookup.cache_timeout_ms: %d. It must be greater than zero", cfg.CacheTimeoutMillis)
	}
	if cfg.StoreTimeoutMillis <= 0 {
		return fmt.Errorf("invalid config.lookup.store_timeout_ms: %d. It must be greater than zero", cfg.StoreTimeoutMillis)
	}
	if cfg.CacheTTLSeconds < 0 {
		return fmt.Errorf("invalid config.lookup.cache_ttl_seconds: %d. It can't be negative", cfg.CacheTTLSeconds)
	}

	log.Infof("config.lookup.cache_timeout_ms: %d", cfg.CacheTimeoutMillis)
	log.Infof("config.lookup.store_timeout_ms: %d", cfg.StoreTimeoutMillis)
	log.Infof("config.lookup.cache_failure_policy: %s", cfg.CacheFailurePolicy)
	log.Infof("config.lookup.cache_ttl_seconds: %d", cfg.CacheTTLSeconds)
	log.Infof("config.lookup.resort_name: %s", cfg.ResortName)
	return nil
}

func (cfg *Lookup) CacheTimeout() time.Duration {
	return time.Duration(cfg.CacheTimeoutMillis) * time.Millisecond
}

func (cfg *Lookup) StoreTimeout() time.Duration {
	return time.Duration(cfg.StoreTimeoutMillis) * time.Millisecond
}

type RateLimiting struct {
	Enabled              bool  `mapstructure:"enabled"`
	MaxRequestsPerSecond int64 `mapstructure:"num_requests"`
}

func (cfg *RateLimiting) validateAndLog() {
	log.Infof("config.rate_limiter.enabled: %t", cfg.Enabled)
	log.Infof("config.rate_limiter.num_requests: %d", cfg.MaxRequestsPerSecond)
}

type RequestLimits struct {
	MaxSize       int `mapstructure:"max_size_bytes"`
	MaxTTLSeconds int `mapstructure:"max_ttl_seconds"`
}

func (cfg *RequestLimits) validateAndLog() {
	log.Infof("config.request_limits.max_ttl_seconds: %d", cfg.MaxTTLSeconds)
	log.Infof("config.request_limits.max_size_bytes: %d", cfg.MaxSize)
}

type Compression struct {
	Type CompressionType `mapstructure:"type"`
}

func (cfg *Compression) validateAndLog() {
	switch cfg.Type {
	case CompressionNone:
		fallthrough
	case CompressionSnappy:
		log.Infof("config.compression.type: %s", cfg.Type)
	default:
		log.Fatalf(`invalid config.compression.type: %s. It must be "none" or "snappy"`, cfg.Type)
	}
}

type CompressionType string

const (
	CompressionNone   CompressionType = "none"
	CompressionSnappy CompressionType = "snappy"
)

type Metrics struct {
	Type       MetricsType       `mapstructure:"type"`
	Influx     InfluxMetrics     `mapstructure:"influx"`
	Prometheus PrometheusMetrics `mapstructure:"prometheus"`
}

func (cfg *Metrics) validateAndLog() {
	if cfg.Type == MetricsInflux || cfg.Influx.Enabled {
		cfg.Influx.validateAndLog()
		cfg.Influx.Enabled = true
	}

	if cfg.Prometheus.Enabled {
		cfg.Prometheus.validateAndLog()
	}

	metricsEnabled := cfg.Influx.Enabled || cfg.Prometheus.Enabled
	if cfg.Type == MetricsNone || cfg.Type == "" {
		if !metricsEnabled {
			log.Infof("Skier stats will run without metrics")
		}
	} else if cfg.Type != MetricsInflux {
		if metricsEnabled {
			log.Infof("Skier stats will run without unsupported metrics \"%s\".", cfg.Type)
		} else {
			log.Fatalf("Metrics \"%s\" are not supported, exiting program.", cfg.Type)
		}
	}
}

type MetricsType string

const (
	MetricsNone   MetricsType = "none"
	MetricsInflux MetricsType = "influx"
)

type InfluxMetrics struct {
	Host     string `mapstructure:"host"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Enabled  bool   `mapstructure:"enabled"`
}

func (cfg *InfluxMetrics) validateAndLog() {
	if cfg.Host == "" {
		log.Fatalf(`Despite being enabled, influx metrics came with no host info: config.metrics.influx.host = "".`)
	}
	if cfg.Database == "" {
		log.Fatalf(`Despite being enabled, influx metrics came with no database info: config.metrics.influx.database = "".`)
	}
	log.Infof("config.metrics.influx.host: %s", cfg.Host)
	log.Infof("config.metrics.influx.database: %s", cfg.Database)
}

type PrometheusMetrics struct {
	Port             int    `mapstructure:"port"`
	Namespace        string `mapstructure:"namespace"`
	Subsystem        string `mapstructure:"subsystem"`
	TimeoutMillisRaw int    `mapstructure:"timeout_ms"`
	Enabled          bool   `mapstructure:"enabled"`
}

func (cfg *PrometheusMetrics) validateAndLog() {
	if cfg.Port == 0 {
		log.Fatalf(`Despite being enabled, prometheus metrics came with an empty port number: config.metrics.prometheus.port = 0`)
	}
	if cfg.Namespace == "" {
		log.Fatalf(`Despite being enabled, prometheus metrics came with an empty name space: config.metrics.prometheus.namespace = "".`)
	}
	if cfg.Subsystem == "" {
		log.Fatalf(`Despite being enabled, prometheus metrics came with an empty subsystem value: config.metrics.prometheus.subsystem = "".`)
	}
	log.Infof("config.metrics.prometheus.namespace: %s", cfg.Namespace)
	log.Infof("config.metrics.prometheus.subsystem: %s", cfg.Subsystem)
	log.Infof("config.metrics.prometheus.port: %d", cfg.Port)
}

func (cfg *PrometheusMetrics) Timeout() time.Duration {
	return time.Duration(cfg.TimeoutMillisRaw) * time.Millisecond
}

type Routes struct {
	IndexResponse string `mapstructure:"index_response"`
}

func (cfg *Routes) validateAndLog() {
	log.Infof("config.routes.index_response: %s", cfg.IndexResponse)
}
