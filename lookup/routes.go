package lookup

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/skierstats/skier-stats/utils"
)

// Route maps request paths under Prefix whose remainder matches Pattern to a
// QueryKey. Extract receives the remainder split on "/".
type Route struct {
	Type    QueryType
	Prefix  string
	Pattern string
	Extract func(segments []string, query url.Values) (QueryKey, error)
}

// DefaultRoutes lists the three statistics endpoints. Each extractor relies
// on its pattern for the number of segments.
func DefaultRoutes() []Route {
	return []Route{
		{
			Type:    QueryUniqueSkiers,
			Prefix:  "/resorts",
			Pattern: `/\d+/seasons/\d+/day/\d+/skiers`,
			Extract: func(segments []string, _ url.Values) (QueryKey, error) {
				ids, err := parseIDs(segments[0], segments[2], segments[4])
				if err != nil {
					return QueryKey{}, err
				}
				return QueryKey{Type: QueryUniqueSkiers, ResortID: ids[0], SeasonID: ids[1], DayID: ids[2]}, nil
			},
		},
		{
			Type:    QuerySkierDayVertical,
			Prefix:  "/skiers",
			Pattern: `/\d+/seasons/\d+/days/\d+/skiers/\d+`,
			Extract: func(segments []string, _ url.Values) (QueryKey, error) {
				ids, err := parseIDs(segments[0], segments[2], segments[4], segments[6])
				if err != nil {
					return QueryKey{}, err
				}
				return QueryKey{Type: QuerySkierDayVertical, ResortID: ids[0], SeasonID: ids[1], DayID: ids[2], SkierID: ids[3]}, nil
			},
		},
		{
			Type:    QueryTotalVertical,
			Prefix:  "/skiers",
			Pattern: `/\d+/vertical`,
			Extract: func(segments []string, query url.Values) (QueryKey, error) {
				ids, err := parseIDs(segments[0], query.Get("resort"), query.Get("season"))
				if err != nil {
					return QueryKey{}, err
				}
				return QueryKey{Type: QueryTotalVertical, SkierID: ids[0], ResortID: ids[1], SeasonID: ids[2]}, nil
			},
		},
	}
}

func parseIDs(raw ...string) ([]int64, error) {
	ids := make([]int64, len(raw))
	for i, r := range raw {
		id, err := parseID(r)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func parseID(raw string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, utils.NewLookupError(utils.INVALID_INPUT)
	}
	return v, nil
}

type compiledRoute struct {
	Route
	re *regexp.Regexp
}

// RouteTable resolves request paths to QueryKeys.
type RouteTable struct {
	routes []compiledRoute
}

// NewRouteTable compiles every route pattern, anchored at both ends.
func NewRouteTable(routes []Route) (*RouteTable, error) {
	table := &RouteTable{routes: make([]compiledRoute, 0, len(routes))}
	for _, r := range routes {
		if r.Extract == nil {
			return nil, fmt.Errorf("route %s%s has no extractor", r.Prefix, r.Pattern)
		}
		re, err := regexp.Compile("^" + r.Pattern + "$")
		if err != nil {
			return nil, fmt.Errorf("route %s%s: %w", r.Prefix, r.Pattern, err)
		}
		table.routes = append(table.routes, compiledRoute{Route: r, re: re})
	}
	return table, nil
}

// Match returns the QueryKey of the first route matching path. It fails with
// INVALID_INPUT when no route matches or an ID does not parse.
func (t *RouteTable) Match(path string, query url.Values) (QueryKey, error) {
	for _, r := range t.routes {
		if !strings.HasPrefix(path, r.Prefix) {
			continue
		}
		rest := path[len(r.Prefix):]
		if !r.re.MatchString(rest) {
			continue
		}
		return r.Extract(strings.Split(strings.TrimPrefix(rest, "/"), "/"), query)
	}
	return QueryKey{}, utils.NewLookupError(utils.INVALID_INPUT)
}

// Prefixes returns the distinct route prefixes, in route order.
func (t *RouteTable) Prefixes() []string {
	var prefixes []string
	seen := make(map[string]bool)
	for _, r := range t.routes {
		if !seen[r.Prefix] {
			seen[r.Prefix] = true
			prefixes = append(prefixes, r.Prefix)
		}
	}
	return prefixes
}
