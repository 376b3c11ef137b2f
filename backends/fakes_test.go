package backends

import (
	"context"

	as "github.com/aerospike/aerospike-client-go/v6"
	as_types "github.com/aerospike/aerospike-client-go/v6/types"
	"github.com/gocql/gocql"
	"github.com/google/gomemcache/memcache"
	"github.com/redis/go-redis/v9"
)

// ------------------------------------------
// Redis client mocks
// ------------------------------------------
type FakeRedisClient struct {
	StoredData  map[string]string
	ServerError error
}

func (c FakeRedisClient) Get(ctx context.Context, key string) (string, error) {
	if c.ServerError != nil {
		return "", c.ServerError
	}
	if value, found := c.StoredData[key]; found {
		return value, nil
	}
	return "", redis.Nil
}

func (c FakeRedisClient) Put(ctx context.Context, key string, value string, ttlSeconds int) error {
	if c.ServerError != nil {
		return c.ServerError
	}
	c.StoredData[key] = value
	return nil
}

// ------------------------------------------
// Memcache client mocks
// ------------------------------------------
type errorProneMemcache struct {
	serverError error
}

func (ec *errorProneMemcache) Get(key string) (*memcache.Item, error) {
	return nil, ec.serverError
}

func (ec *errorProneMemcache) Put(key string, value string, ttlSeconds int) error {
	return ec.serverError
}

type goodMemcache struct {
	storedData map[string]string
	ttls       map[string]int
}

func newGoodMemcache() *goodMemcache {
	return &goodMemcache{storedData: map[string]string{}, ttls: map[string]int{}}
}

func (gm *goodMemcache) Get(key string) (*memcache.Item, error) {
	if value, found := gm.storedData[key]; found {
		return &memcache.Item{Key: key, Value: []byte(value)}, nil
	}
	return nil, memcache.ErrCacheMiss
}

func (gm *goodMemcache) Put(key string, value string, ttlSeconds int) error {
	gm.storedData[key] = value
	gm.ttls[key] = ttlSeconds
	return nil
}

// ------------------------------------------
// Cassandra client mocks
// ------------------------------------------
type errorProneCassandraClient struct {
	serverError error
}

func (ec *errorProneCassandraClient) Init() error {
	return ec.serverError
}

func (ec *errorProneCassandraClient) Get(ctx context.Context, key string) (string, error) {
	return "", ec.serverError
}

func (ec *errorProneCassandraClient) Put(ctx context.Context, key string, value string, ttlSeconds int) error {
	return ec.serverError
}

type goodCassandraClient struct {
	storedData map[string]string
	ttls       map[string]int
}

func newGoodCassandraClient() *goodCassandraClient {
	return &goodCassandraClient{storedData: map[string]string{}, ttls: map[string]int{}}
}

func (gc *goodCassandraClient) Init() error {
	return nil
}

func (gc *goodCassandraClient) Get(ctx context.Context, key string) (string, error) {
	if value, found := gc.storedData[key]; found {
		return value, nil
	}
	return "", gocql.ErrNotFound
}

func (gc *goodCassandraClient) Put(ctx context.Context, key string, value string, ttlSeconds int) error {
	gc.storedData[key] = value
	gc.ttls[key] = ttlSeconds
	return nil
}

// ------------------------------------------
// Aerospike client mocks
// ------------------------------------------
type errorProneAerospikeClient struct {
	errorThrowingFunction string
}

func (c *errorProneAerospikeClient) NewKey(namespace string, key string) (*as.Key, error) {
	if c.errorThrowingFunction == "TEST_KEY_GEN_ERROR" {
		return nil, &as.AerospikeError{ResultCode: as_types.NOT_AUTHENTICATED}
	}
	return nil, nil
}

func (c *errorProneAerospikeClient) Get(key *as.Key) (*as.Record, error) {
	switch c.errorThrowingFunction {
	case "TEST_GET_ERROR":
		return nil, &as.AerospikeError{ResultCode: as_types.KEY_NOT_FOUND_ERROR}
	case "TEST_NO_BUCKET_ERROR":
		return &as.Record{Bins: as.BinMap{"AnyKey": "any_value"}}, nil
	case "TEST_NON_STRING_VALUE_ERROR":
		return &as.Record{Bins: as.BinMap{binValue: 0.0}}, nil
	}
	return nil, nil
}

func (c *errorProneAerospikeClient) Put(policy *as.WritePolicy, key *as.Key, binMap as.BinMap) error {
	if c.errorThrowingFunction == "TEST_PUT_ERROR" {
		return &as.AerospikeError{ResultCode: as_types.SERVER_NOT_AVAILABLE}
	}
	return nil
}

type goodAerospikeClient struct {
	records map[string]*as.Record
	lastTTL uint32
}

func (c *goodAerospikeClient) NewKey(namespace string, key string) (*as.Key, error) {
	return as.NewKey(namespace, setName, key)
}

func (c *goodAerospikeClient) Get(aeKey *as.Key) (*as.Record, error) {
	if aeKey != nil && aeKey.Value() != nil {
		if rec, found := c.records[aeKey.Value().String()]; found {
			return rec, nil
		}
	}
	return nil, &as.AerospikeError{ResultCode: as_types.KEY_NOT_FOUND_ERROR}
}

func (c *goodAerospikeClient) Put(policy *as.WritePolicy, aeKey *as.Key, binMap as.BinMap) error {
	if aeKey == nil || aeKey.Value() == nil {
		return &as.AerospikeError{ResultCode: as_types.KEY_MISMATCH}
	}
	c.records[aeKey.Value().String()] = &as.Record{Bins: binMap}
	c.lastTTL = policy.Expiration
	return nil
}
