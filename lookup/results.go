package lookup

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/skierstats/skier-stats/store"
)

// Result is the answer to one QueryKey. It marshals to the JSON body served
// to clients, which is also what gets cached.
type Result interface {
	queryType() QueryType
}

type UniqueSkiersResult struct {
	Time      string `json:"time"`
	NumSkiers int64  `json:"numSkiers"`
}

type DayVerticalResult int64

type TotalVerticalResult struct {
	Resorts []SeasonVertical `json:"resorts"`
}

type SeasonVertical struct {
	SeasonID  string `json:"seasonID"`
	TotalVert int64  `json:"totalVert"`
}

func (UniqueSkiersResult) queryType() QueryType  { return QueryUniqueSkiers }
func (DayVerticalResult) queryType() QueryType   { return QuerySkierDayVertical }
func (TotalVerticalResult) queryType() QueryType { return QueryTotalVertical }

// aggregate folds the store records of key into its Result. records must not
// be empty.
func aggregate(key QueryKey, records []store.Record, resortName string) Result {
	switch key.Type {
	case QueryUniqueSkiers:
		skiers := make(map[int64]struct{}, len(records))
		for _, r := range records {
			skiers[r.SkierID] = struct{}{}
		}
		return UniqueSkiersResult{Time: resortName, NumSkiers: int64(len(skiers))}
	case QuerySkierDayVertical:
		return DayVerticalResult(sumVertical(records))
	}
	return TotalVerticalResult{Resorts: []SeasonVertical{{
		SeasonID:  strconv.FormatInt(key.SeasonID, 10),
		TotalVert: sumVertical(records),
	}}}
}

func sumVertical(records []store.Record) int64 {
	var total int64
	for _, r := range records {
		total += r.Vertical()
	}
	return total
}

func encodeResult(result Result) (string, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeResult(queryType QueryType, raw string) (Result, error) {
	switch queryType {
	case QueryUniqueSkiers:
		var r UniqueSkiersResult
		err := json.Unmarshal([]byte(raw), &r)
		return r, err
	case QuerySkierDayVertical:
		var r DayVerticalResult
		err := json.Unmarshal([]byte(raw), &r)
		return r, err
	case QueryTotalVertical:
		var r TotalVerticalResult
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return r, err
		}
		if len(r.Resorts) == 0 {
			return r, fmt.Errorf("total vertical entry lists no season")
		}
		return r, nil
	}
	return nil, fmt.Errorf("unknown query type %q", queryType)
}
