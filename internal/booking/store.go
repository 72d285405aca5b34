package booking

import (
	"context"

	"github.com/iliyamo/airline-booking/internal/model"
)

// SeatSource is the read side needed to validate tickets.  FlightAirplane
// returns ErrUnknownFlight when the flight does not exist.
type SeatSource interface {
	FlightAirplane(ctx context.Context, flightID uint64) (model.Airplane, error)
	SeatTaken(ctx context.Context, flightID uint64, row, seat int) (bool, error)
}

// Tx is a unit of work opened by Store.InTx.  InsertTicket must return an
// error wrapping ErrSeatTaken when the storage-level uniqueness
// constraint on (row, seat, flight) rejects the row.
type Tx interface {
	SeatSource
	InsertOrder(ctx context.Context, o *model.Order) error
	InsertTicket(ctx context.Context, t *model.Ticket) error
}

// Store persists orders and tickets.  InTx runs fn in one transaction and
// commits only when fn returns nil; a commit may itself fail with
// ErrSeatTaken when a concurrent writer won the seat first.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
	FlightAirplane(ctx context.Context, flightID uint64) (model.Airplane, error)
	CountTickets(ctx context.Context, flightID uint64) (int, error)
}
