package backends

import (
	"context"
	"errors"
	"testing"

	"github.com/google/gomemcache/memcache"
	"github.com/stretchr/testify/assert"

	"github.com/skierstats/skier-stats/utils"
)

func TestMemcacheGet(t *testing.T) {
	mcBackend := &MemcacheBackend{}

	stored := newGoodMemcache()
	stored.storedData["defaultKey"] = "aValue"

	testCases := []struct {
		desc          string
		client        MemcacheDataStore
		key           string
		expectedValue string
		expectedErr   error
	}{
		{
			desc:        "Memcache.Get() throws a memcache.ErrCacheMiss error",
			client:      &errorProneMemcache{serverError: memcache.ErrCacheMiss},
			key:         "someKeyThatWontBeFound",
			expectedErr: utils.NewLookupError(utils.KEY_NOT_FOUND),
		},
		{
			desc:        "Memcache.Get() throws an error different from memcache.ErrCacheMiss",
			client:      &errorProneMemcache{serverError: errors.New("some other get error")},
			key:         "someKey",
			expectedErr: errors.New("some other get error"),
		},
		{
			desc:          "Memcache.Get() doesn't throw an error",
			client:        stored,
			key:           "defaultKey",
			expectedValue: "aValue",
		},
	}

	for _, tt := range testCases {
		mcBackend.client = tt.client

		actualValue, actualErr := mcBackend.Get(context.TODO(), tt.key)

		assert.Equal(t, tt.expectedValue, actualValue, tt.desc)
		assert.Equal(t, tt.expectedErr, actualErr, tt.desc)
	}
}

func TestMemcachePut(t *testing.T) {
	good := newGoodMemcache()
	good.storedData["key"] = "old"

	mcBackend := &MemcacheBackend{client: good}
	assert.NoError(t, mcBackend.Put(context.TODO(), "key", "new", 15))
	assert.Equal(t, "new", good.storedData["key"])
	assert.Equal(t, 15, good.ttls["key"])

	mcBackend.client = &errorProneMemcache{serverError: errors.New("server down")}
	assert.EqualError(t, mcBackend.Put(context.TODO(), "key", "new", 15), "server down")
}
