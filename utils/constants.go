package utils

// The following numeric constants serve as configuration defaults
const (
	CACHE_DEFAULT_TTL_SECONDS        = 3600
	CACHE_DEFAULT_TIMEOUT_MS         = 100
	STORE_DEFAULT_TIMEOUT_MS         = 2000
	RATE_LIMITER_NUM_REQUESTS        = 100
	REQUEST_MAX_SIZE_BYTES           = 10 * 1024
	REQUEST_MAX_TTL_SECONDS          = 24 * 3600
	CASSANDRA_DEFAULT_TTL_SECONDS    = 2400
	REDIS_DEFAULT_EXPIRATION_MINUTES = 60
)

// DefaultResortName is reported in the "time" field of the unique skiers response.
const DefaultResortName = "Mission Ridge"
