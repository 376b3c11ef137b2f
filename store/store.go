// Package store reads lift ride records through the secondary indexes of the
// lift ride table.
package store

import (
	"context"
	"errors"
)

// Index names the secondary index a Query runs against.
type Index string

const (
	// ResortDayIndex is keyed by resortID and dayID.
	ResortDayIndex Index = "resort_day"
	// SkierResortIndex is keyed by skierID and resortID.
	SkierResortIndex Index = "skier_resort"
)

var (
	ErrStoreInternal      = errors.New("lift ride store internal error")
	ErrStoreThrottled     = errors.New("lift ride store throughput exceeded")
	ErrStoreTableNotFound = errors.New("lift ride table or index not found")
	ErrInvalidQuery       = errors.New("invalid lift ride query")
)

// Store answers index queries over lift ride records.
type Store interface {
	Query(ctx context.Context, q Query) ([]Record, error)
}

// Query selects the records of one index partition. On ResortDayIndex the
// records of ResortID and DayID are returned, filtered down to SeasonID and,
// when FilterSkier is set, to SkierID. On SkierResortIndex the records of
// SkierID and ResortID are returned, filtered down to SeasonID.
type Query struct {
	Index       Index
	ResortID    int64
	SeasonID    int64
	DayID       int64
	SkierID     int64
	FilterSkier bool
}

func (q Query) validate() error {
	switch q.Index {
	case ResortDayIndex, SkierResortIndex:
		return nil
	}
	return ErrInvalidQuery
}

// matches tells whether r belongs to the result of q.
func (q Query) matches(r Record) bool {
	if r.ResortID != q.ResortID || r.SeasonID != q.SeasonID {
		return false
	}
	switch q.Index {
	case ResortDayIndex:
		return r.DayID == q.DayID && (!q.FilterSkier || r.SkierID == q.SkierID)
	case SkierResortIndex:
		return r.SkierID == q.SkierID
	}
	return false
}

// Record is one lift ride.
type Record struct {
	SkierID  int64 `json:"skierID"`
	ResortID int64 `json:"resortID"`
	SeasonID int64 `json:"seasonID"`
	DayID    int64 `json:"dayID"`
	LiftID   int64 `json:"liftID"`
	Time     int64 `json:"time"`
	// RideVertical is nil when the ride was stored without a vertical.
	RideVertical *int64 `json:"vertical,omitempty"`
}

// Vertical returns the vertical of the ride. Rides stored without one count
// ten times their lift ID.
func (r Record) Vertical() int64 {
	if r.RideVertical != nil {
		return *r.RideVertical
	}
	return r.LiftID * 10
}

// IsTransient tells whether a failed query may succeed when retried.
func IsTransient(err error) bool {
	return errors.Is(err, ErrStoreInternal) || errors.Is(err, ErrStoreThrottled)
}
