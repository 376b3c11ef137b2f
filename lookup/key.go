// Package lookup answers lift ride statistics queries from the cache, falling
// back to the lift ride store on a miss and filling the cache on the way out.
package lookup

import (
	"fmt"

	"github.com/skierstats/skier-stats/store"
	"github.com/skierstats/skier-stats/utils"
)

type QueryType string

const (
	QueryUniqueSkiers     QueryType = "unique_skiers"
	QuerySkierDayVertical QueryType = "skier_day_vertical"
	QueryTotalVertical    QueryType = "total_vertical"
)

// QueryKey addresses one statistic in both the cache and the store. DayID is
// ignored by QueryTotalVertical and SkierID by QueryUniqueSkiers.
type QueryKey struct {
	Type     QueryType
	ResortID int64
	SeasonID int64
	DayID    int64
	SkierID  int64
}

// Validate returns an INVALID_INPUT utils.LookupError unless k has a known
// type and non-negative IDs.
func (k QueryKey) Validate() error {
	switch k.Type {
	case QueryUniqueSkiers, QuerySkierDayVertical, QueryTotalVertical:
	default:
		return utils.NewLookupError(utils.INVALID_INPUT)
	}
	if k.ResortID < 0 || k.SeasonID < 0 || k.DayID < 0 || k.SkierID < 0 {
		return utils.NewLookupError(utils.INVALID_INPUT)
	}
	return nil
}

func (k QueryKey) CacheKey() string {
	switch k.Type {
	case QueryUniqueSkiers:
		return fmt.Sprintf("%s:%d:%d:%d", k.Type, k.ResortID, k.SeasonID, k.DayID)
	case QuerySkierDayVertical:
		return fmt.Sprintf("%s:%d:%d:%d:%d", k.Type, k.ResortID, k.SeasonID, k.DayID, k.SkierID)
	case QueryTotalVertical:
		return fmt.Sprintf("%s:%d:%d:%d", k.Type, k.SkierID, k.ResortID, k.SeasonID)
	}
	return ""
}

func (k QueryKey) storeQuery() store.Query {
	switch k.Type {
	case QueryUniqueSkiers:
		return store.Query{Index: store.ResortDayIndex, ResortID: k.ResortID, SeasonID: k.SeasonID, DayID: k.DayID}
	case QuerySkierDayVertical:
		return store.Query{Index: store.ResortDayIndex, ResortID: k.ResortID, SeasonID: k.SeasonID, DayID: k.DayID, SkierID: k.SkierID, FilterSkier: true}
	}
	return store.Query{Index: store.SkierResortIndex, ResortID: k.ResortID, SeasonID: k.SeasonID, SkierID: k.SkierID}
}
