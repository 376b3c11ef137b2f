package lookup

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skierstats/skier-stats/utils"
)

func TestRouteTableMatch(t *testing.T) {
	table, err := NewRouteTable(DefaultRoutes())
	require.NoError(t, err)

	testCases := []struct {
		desc     string
		path     string
		query    url.Values
		expected QueryKey
	}{
		{
			desc:     "unique skiers",
			path:     "/resorts/1/seasons/2019/day/5/skiers",
			expected: QueryKey{Type: QueryUniqueSkiers, ResortID: 1, SeasonID: 2019, DayID: 5},
		},
		{
			desc:     "skier day vertical",
			path:     "/skiers/1/seasons/2019/days/5/skiers/42",
			expected: QueryKey{Type: QuerySkierDayVertical, ResortID: 1, SeasonID: 2019, DayID: 5, SkierID: 42},
		},
		{
			desc:     "total vertical",
			path:     "/skiers/42/vertical",
			query:    url.Values{"resort": {"1"}, "season": {"2019"}},
			expected: QueryKey{Type: QueryTotalVertical, ResortID: 1, SeasonID: 2019, SkierID: 42},
		},
	}

	for _, tc := range testCases {
		key, err := table.Match(tc.path, tc.query)
		assert.NoError(t, err, tc.desc)
		assert.Equal(t, tc.expected, key, tc.desc)
	}
}

func TestRouteTableRejects(t *testing.T) {
	table, err := NewRouteTable(DefaultRoutes())
	require.NoError(t, err)

	testCases := []struct {
		desc  string
		path  string
		query url.Values
	}{
		{"non numeric resort", "/resorts/abc/seasons/2019/day/5/skiers", nil},
		{"missing segment", "/resorts/1/seasons/2019/day/skiers", nil},
		{"extra segment", "/resorts/1/seasons/2019/day/5/skiers/42", nil},
		{"trailing slash", "/resorts/1/seasons/2019/day/5/skiers/", nil},
		{"plural day on resorts", "/resorts/1/seasons/2019/days/5/skiers", nil},
		{"singular day on skiers", "/skiers/1/seasons/2019/day/5/skiers/42", nil},
		{"negative skier", "/skiers/1/seasons/2019/days/5/skiers/-42", nil},
		{"overflowing day", "/resorts/1/seasons/2019/day/99999999999999999999/skiers", nil},
		{"unknown prefix", "/lifts/1/seasons/2019/day/5/skiers", nil},
		{"empty path", "", nil},
		{"total vertical without params", "/skiers/42/vertical", nil},
		{"total vertical without season", "/skiers/42/vertical", url.Values{"resort": {"1"}}},
		{"total vertical with a word", "/skiers/42/vertical", url.Values{"resort": {"one"}, "season": {"2019"}}},
		{"total vertical with negative season", "/skiers/42/vertical", url.Values{"resort": {"1"}, "season": {"-2019"}}},
	}

	for _, tc := range testCases {
		_, err := table.Match(tc.path, tc.query)
		assert.True(t, utils.IsLookupErrorType(err, utils.INVALID_INPUT), tc.desc)
	}
}

func TestNewRouteTableErrors(t *testing.T) {
	_, err := NewRouteTable([]Route{{Type: QueryUniqueSkiers, Prefix: "/resorts", Pattern: `/(\d+`, Extract: DefaultRoutes()[0].Extract}})
	assert.Error(t, err)

	_, err = NewRouteTable([]Route{{Type: QueryUniqueSkiers, Prefix: "/resorts", Pattern: `/\d+`}})
	assert.Error(t, err)
}

func TestRouteTablePrefixes(t *testing.T) {
	table, err := NewRouteTable(DefaultRoutes())
	require.NoError(t, err)
	assert.Equal(t, []string{"/resorts", "/skiers"}, table.Prefixes())
}
