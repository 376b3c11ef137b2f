package decorators_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skierstats/skier-stats/backends"
	"github.com/skierstats/skier-stats/backends/decorators"
	"github.com/skierstats/skier-stats/utils"
)

func TestLimitTTLDecorator(t *testing.T) {
	type testCase struct {
		desc         string
		inRequestTTL int
		expectedTTL  int
	}
	testGroups := []struct {
		groupDesc string
		maxTTL    int
		testCases []testCase
	}{
		{
			groupDesc: "maxTTL is negative. REQUEST_MAX_TTL_SECONDS becomes the limit",
			maxTTL:    -1,
			testCases: []testCase{
				{
					desc:         "reqTTL < maxTTL",
					inRequestTTL: -2,
					expectedTTL:  utils.REQUEST_MAX_TTL_SECONDS,
				},
				{
					desc:         "0 < reqTTL < REQUEST_MAX_TTL_SECONDS; keep reqTTL",
					inRequestTTL: 10,
					expectedTTL:  10,
				},
			},
		},
		{
			groupDesc: "maxTTL is zero. Set to REQUEST_MAX_TTL_SECONDS constant when reqTTL is out of bounds",
			maxTTL:    0,
			testCases: []testCase{
				{
					desc:         "reqTTL < maxTTL",
					inRequestTTL: -1,
					expectedTTL:  utils.REQUEST_MAX_TTL_SECONDS,
				},
				{
					desc:         "reqTTL = maxTTL",
					inRequestTTL: 0,
					expectedTTL:  utils.REQUEST_MAX_TTL_SECONDS,
				},
				{
					desc:         "reqTTL above REQUEST_MAX_TTL_SECONDS",
					inRequestTTL: utils.REQUEST_MAX_TTL_SECONDS + 1,
					expectedTTL:  utils.REQUEST_MAX_TTL_SECONDS,
				},
			},
		},
		{
			groupDesc: "maxTTL is non-negative nor zero",
			maxTTL:    3600,
			testCases: []testCase{
				{
					desc:         "reqTTL < 0 < maxTTL; set to maxTTL",
					inRequestTTL: -1,
					expectedTTL:  3600,
				},
				{
					desc:         "reqTTL equals zero. Set to non-zero maxTTL",
					inRequestTTL: 0,
					expectedTTL:  3600,
				},
				{
					desc:         "0 < reqTTL < maxTTL; keep reqTTL",
					inRequestTTL: 60,
					expectedTTL:  60,
				},
				{
					desc:         "reqTTL equals maxTTL",
					inRequestTTL: 3600,
					expectedTTL:  3600,
				},
				{
					desc:         "0 < maxTTL < reqTTL; set to maxTTL",
					inRequestTTL: 7200,
					expectedTTL:  3600,
				},
			},
		},
	}
	for _, group := range testGroups {
		for _, tc := range group.testCases {
			delegate := backends.NewSpyBackend(backends.NewMemoryBackend())
			wrapped := decorators.LimitTTLs(delegate, group.maxTTL)

			wrapped.Put(context.Background(), "key", "value", tc.inRequestTTL)

			assert.Equal(t, tc.expectedTTL, delegate.LastTTL(), "%s - %s", group.groupDesc, tc.desc)
		}
	}
}

func TestLimitTTLsGetPassesThrough(t *testing.T) {
	delegate := backends.NewMemoryBackend()
	delegate.Put(context.Background(), "total_vertical:42:1:2019", "stored", 0)
	wrapped := decorators.LimitTTLs(delegate, 100)

	value, err := wrapped.Get(context.Background(), "total_vertical:42:1:2019")

	assert.NoError(t, err)
	assert.Equal(t, "stored", value)
}
