package backends

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/skierstats/skier-stats/utils"
)

func TestMemoryBackend(t *testing.T) {
	type testExpectedValues struct {
		value string
		err   error
	}

	testCases := []struct {
		desc     string
		setup    func(b *MemoryBackend)
		run      func(b *MemoryBackend) (string, error)
		expected testExpectedValues
	}{
		{
			desc:  "succesful put",
			setup: func(b *MemoryBackend) {},
			run: func(b *MemoryBackend) (string, error) {
				err := b.Put(context.TODO(), "someKey", "someValue", 0)
				return "", err
			},
			expected: testExpectedValues{err: nil},
		},
		{
			desc: "Put overwrites the previous value",
			setup: func(b *MemoryBackend) {
				b.Put(context.TODO(), "someKey", "oldValue", 0)
			},
			run: func(b *MemoryBackend) (string, error) {
				if err := b.Put(context.TODO(), "someKey", "newValue", 0); err != nil {
					return "", err
				}
				return b.Get(context.TODO(), "someKey")
			},
			expected: testExpectedValues{"newValue", nil},
		},
		{
			desc: "succesful get",
			setup: func(b *MemoryBackend) {
				b.Put(context.TODO(), "someKey", "someValue", 0)
			},
			run: func(b *MemoryBackend) (string, error) {
				return b.Get(context.TODO(), "someKey")
			},
			expected: testExpectedValues{"someValue", nil},
		},
		{
			desc:  "Get returns a Key not found error",
			setup: func(b *MemoryBackend) {},
			run: func(b *MemoryBackend) (string, error) {
				return b.Get(context.TODO(), "someKey")
			},
			expected: testExpectedValues{"", utils.NewLookupError(utils.KEY_NOT_FOUND)},
		},
	}

	for _, tc := range testCases {
		backend := NewMemoryBackend()
		tc.setup(backend)

		value, err := tc.run(backend)

		assert.Equal(t, tc.expected.value, value, tc.desc)
		assert.Equal(t, tc.expected.err, err, tc.desc)
	}
}

func TestMemoryBackendExpiration(t *testing.T) {
	now := time.Date(2019, 1, 5, 10, 0, 0, 0, time.UTC)
	backend := NewMemoryBackend()
	backend.now = func() time.Time { return now }

	assert.NoError(t, backend.Put(context.Background(), "expiring", "v", 60))
	assert.NoError(t, backend.Put(context.Background(), "forever", "v", 0))

	now = now.Add(59 * time.Second)
	value, err := backend.Get(context.Background(), "expiring")
	assert.NoError(t, err)
	assert.Equal(t, "v", value)

	now = now.Add(time.Second)
	_, err = backend.Get(context.Background(), "expiring")
	assert.True(t, utils.IsLookupErrorType(err, utils.KEY_NOT_FOUND), "entry should expire once its TTL elapses")

	now = now.Add(24 * time.Hour)
	value, err = backend.Get(context.Background(), "forever")
	assert.NoError(t, err)
	assert.Equal(t, "v", value)
}
