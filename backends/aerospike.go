package backends

import (
	"context"
	"errors"

	as "github.com/aerospike/aerospike-client-go/v6"
	as_types "github.com/aerospike/aerospike-client-go/v6/types"
	log "github.com/sirupsen/logrus"

	"github.com/skierstats/skier-stats/config"
	"github.com/skierstats/skier-stats/utils"
)

const setName = "skier_stats"
const binValue = "value"

// AerospikeDB is a wrapper for the Aerospike client
type AerospikeDB interface {
	NewKey(namespace string, key string) (*as.Key, error)
	Get(key *as.Key) (*as.Record, error)
	Put(policy *as.WritePolicy, key *as.Key, binMap as.BinMap) error
}

// AerospikeDBClient implements the AerospikeDB interface
type AerospikeDBClient struct {
	client *as.Client
}

// Get performs the as.Client Get operation
func (db AerospikeDBClient) Get(key *as.Key) (*as.Record, error) {
	rec, err := db.client.Get(nil, key, binValue)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// NewKey creates a new as.Key in the lookup set
func (db AerospikeDBClient) NewKey(namespace string, key string) (*as.Key, error) {
	asKey, err := as.NewKey(namespace, setName, key)
	if err != nil {
		return nil, err
	}
	return asKey, nil
}

// Put performs the as.Client Put operation
func (db AerospikeDBClient) Put(policy *as.WritePolicy, key *as.Key, binMap as.BinMap) error {
	if err := db.client.Put(policy, key, binMap); err != nil {
		return err
	}
	return nil
}

// AerospikeBackend upon creation will instantiates, and configure the Aerospike client. Implements
// the Backend interface
type AerospikeBackend struct {
	namespace string
	client    AerospikeDB
}

// NewAerospikeBackend validates config.Aerospike and returns an AerospikeBackend
func NewAerospikeBackend(cfg config.Aerospike) *AerospikeBackend {
	var hosts []*as.Host

	clientPolicy := as.NewClientPolicy()
	// cfg.User and cfg.Password are optional parameters
	// if left blank in the config, they will default to the empty
	// string and be ignored
	clientPolicy.User = cfg.User
	clientPolicy.Password = cfg.Password

	if len(cfg.Host) > 1 {
		hosts = append(hosts, as.NewHost(cfg.Host, cfg.Port))
	}
	for _, host := range cfg.Hosts {
		hosts = append(hosts, as.NewHost(host, cfg.Port))
	}

	client, aerr := as.NewClientWithPolicyAndHost(clientPolicy, hosts...)
	if aerr != nil {
		log.Fatalf("Error connecting to Aerospike Cache: %s", classifyAerospikeError(aerr).Error())
		panic("AerospikeBackend failure. This shouldn't happen.")
	}
	log.Infof("Cache Connection established. Connected to Aerospike at %s %v on port %d", cfg.Host, cfg.Hosts, cfg.Port)

	return &AerospikeBackend{
		namespace: cfg.Namespace,
		client:    &AerospikeDBClient{client},
	}
}

// Get creates an aerospike key based on the key parameter, perfomrs the client's Get call
// and validates output
func (a *AerospikeBackend) Get(ctx context.Context, key string) (string, error) {
	asKey, err := a.client.NewKey(a.namespace, key)
	if err != nil {
		return "", classifyAerospikeError(err)
	}
	rec, err := a.client.Get(asKey)
	if err != nil {
		return "", classifyAerospikeError(err)
	}
	if rec == nil {
		return "", errors.New("Nil record")
	}

	value, found := rec.Bins[binValue]
	if !found {
		return "", errors.New("No 'value' bucket found")
	}

	str, isString := value.(string)
	if !isString {
		return "", errors.New("Unexpected non-string value found")
	}

	return str, nil
}

// Put creates an aerospike key based on the key parameter and stores value under it,
// replacing any previous record.
func (a *AerospikeBackend) Put(ctx context.Context, key string, value string, ttlSeconds int) error {
	asKey, err := a.client.NewKey(a.namespace, key)
	if err != nil {
		return classifyAerospikeError(err)
	}

	bins := as.BinMap{binValue: value}
	policy := as.NewWritePolicy(0, uint32(ttlSeconds))
	policy.RecordExistsAction = as.REPLACE

	if err := a.client.Put(policy, asKey, bins); err != nil {
		return classifyAerospikeError(err)
	}

	return nil
}

func classifyAerospikeError(err error) error {
	if err != nil {
		if aerr, ok := err.(*as.AerospikeError); ok {
			if aerr.ResultCode == as_types.KEY_NOT_FOUND_ERROR {
				return utils.NewLookupError(utils.KEY_NOT_FOUND)
			}
		}
	}
	return err
}
