package backends

import (
	"context"

	"github.com/gocql/gocql"
	log "github.com/sirupsen/logrus"

	"github.com/skierstats/skier-stats/config"
	"github.com/skierstats/skier-stats/utils"
)

// CassandraDB is an interface that helps us communicate with an instance of a
// Cassandra cluster. Its implementation is intended to use the "github.com/gocql/gocql"
// client
type CassandraDB interface {
	Init() error
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string, ttlSeconds int) error
}

// CassandraDBClient is a wrapper for the Cassandra client 'gocql' that
// interacts with the Cassandra server and implements the CassandraDB interface
type CassandraDBClient struct {
	cluster *gocql.ClusterConfig
	session *gocql.Session
}

// Init creates a session from the cluster configuration
func (c *CassandraDBClient) Init() error {
	var err error
	c.session, err = c.cluster.CreateSession()
	return err
}

// Get returns the value associated with the provided `key` parameter
func (c *CassandraDBClient) Get(ctx context.Context, key string) (string, error) {
	var res string
	err := c.session.Query(`SELECT value FROM cache WHERE key = ? LIMIT 1`, key).
		WithContext(ctx).
		Consistency(gocql.One).
		Scan(&res)

	return res, err
}

// Put upserts the row of `key`, resetting its TTL
func (c *CassandraDBClient) Put(ctx context.Context, key string, value string, ttlSeconds int) error {
	return c.session.Query(`INSERT INTO cache (key, value) VALUES (?, ?) USING TTL ?`, key, value, ttlSeconds).
		WithContext(ctx).
		Exec()
}

// CassandraBackend implements the Backend interface
type CassandraBackend struct {
	defaultTTL int
	client     CassandraDB
}

// NewCassandraBackend creates a new cassandra backend
func NewCassandraBackend(cfg config.Cassandra) *CassandraBackend {
	backend := &CassandraBackend{
		defaultTTL: cfg.DefaultTTL,
	}

	client := &CassandraDBClient{
		cluster: gocql.NewCluster(cfg.Hosts),
	}
	client.cluster.Keyspace = cfg.Keyspace
	client.cluster.Consistency = gocql.LocalOne

	if err := client.Init(); err != nil {
		log.Fatalf("Error connecting to Cassandra Cache: %v", err)
		panic("Cassandra failure. This shouldn't happen.")
	}
	log.Infof("Cache Connection established. Connected to Cassandra at %s", cfg.Hosts)

	backend.client = client
	return backend
}

// Get translates gocql.ErrNotFound into a KEY_NOT_FOUND error
func (c *CassandraBackend) Get(ctx context.Context, key string) (string, error) {
	res, err := c.client.Get(ctx, key)
	if err == gocql.ErrNotFound {
		err = utils.NewLookupError(utils.KEY_NOT_FOUND)
	}

	return res, err
}

func (c *CassandraBackend) Put(ctx context.Context, key string, value string, ttlSeconds int) error {
	if ttlSeconds == 0 {
		ttlSeconds = c.defaultTTL
	}

	return c.client.Put(ctx, key, value, ttlSeconds)
}
