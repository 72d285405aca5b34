// Package booking implements seat reservation for flights: validation of
// ticket coordinates against the airplane grid, seat uniqueness per
// flight, atomic creation of an order with all of its tickets and the
// derived seat availability of a flight.
package booking

import (
	"errors"
	"fmt"
)

// Sentinel errors of the reservation engine.  Every validation failure
// returned by the engine wraps exactly one of them, so callers can use
// errors.Is regardless of how much context has been attached.
var (
	// ErrEmptyOrder is returned when an order carries no tickets.
	ErrEmptyOrder = errors.New("order must contain at least one ticket")
	// ErrUnknownFlight is returned when a ticket references a missing flight.
	ErrUnknownFlight = errors.New("flight not found")
	// ErrSeatTaken is returned when (row, seat, flight) is already
	// occupied, either by a committed ticket or by an earlier ticket of
	// the same order.
	ErrSeatTaken = errors.New("the seat in this row is already taken for the flight, choose a free one")
	// ErrOutOfRange is returned when a row or seat lies outside the
	// airplane grid.
	ErrOutOfRange = errors.New("seat coordinate out of range")
)

// FieldError reports a single out-of-range coordinate.  Field is either
// "row" or "seat"; the valid inclusive range is 1..Max.
type FieldError struct {
	Field string
	Value int
	Max   int
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s number must be in the available range: 1..%d (got %d)", e.Field, e.Max, e.Value)
}

// Unwrap makes errors.Is(err, ErrOutOfRange) hold.
func (e *FieldError) Unwrap() error { return ErrOutOfRange }

// TicketError pins a validation failure to the ticket at Index (0-based
// position in the submitted list) and to the offending Field ("row",
// "seat" or "flight").
type TicketError struct {
	Index int
	Field string
	Err   error
}

func (e *TicketError) Error() string {
	return fmt.Sprintf("tickets[%d].%s: %v", e.Index, e.Field, e.Err)
}

func (e *TicketError) Unwrap() error { return e.Err }

// ticketErr wraps err for the ticket at index i.  The field is taken from
// a *FieldError when present.
func ticketErr(i int, field string, err error) *TicketError {
	var fe *FieldError
	if errors.As(err, &fe) {
		field = fe.Field
	}
	return &TicketError{Index: i, Field: field, Err: err}
}
