package booking

import (
	"errors"
	"time"
)

// ErrSameAirports rejects a route whose source equals its destination.
var ErrSameAirports = errors.New("source and destination airports must be different")

// ErrArrivalBeforeDeparture rejects a flight that lands before it leaves.
var ErrArrivalBeforeDeparture = errors.New("arrival time must not be before departure time")

// ValidateRoute is applied on every route create and update.
func ValidateRoute(sourceID, destinationID uint64) error {
	if sourceID == destinationID {
		return ErrSameAirports
	}
	return nil
}

// ValidateSchedule is applied on every flight create and update.  Equal
// times are accepted.
func ValidateSchedule(departure, arrival time.Time) error {
	if arrival.Before(departure) {
		return ErrArrivalBeforeDeparture
	}
	return nil
}
