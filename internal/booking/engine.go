package booking

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/airline-booking/internal/model"
)

// Engine creates orders and answers availability queries on top of a
// Store.  It keeps no state between calls and is safe for concurrent use.
type Engine struct {
	store Store
	now   func() time.Time
}

// NewEngine returns an Engine backed by store.
func NewEngine(store Store) *Engine {
	if store == nil {
		panic("nil store passed to NewEngine")
	}
	return &Engine{store: store, now: time.Now}
}

// CreateOrder validates specs and persists one order owned by userID with
// one ticket per spec, all in one transaction.  Nothing is persisted when
// any ticket fails.  The returned order lists its tickets in the order of
// specs.
//
// The in-transaction validation is advisory: the storage uniqueness
// constraint decides races, and a duplicate reported on insert is mapped
// back to the ticket that caused it.
func (e *Engine) CreateOrder(ctx context.Context, userID uint64, specs []TicketSpec) (*model.Order, error) {
	if len(specs) == 0 {
		return nil, ErrEmptyOrder
	}
	var out *model.Order
	err := e.store.InTx(ctx, func(tx Tx) error {
		if err := ValidateTickets(ctx, tx, specs); err != nil {
			return err
		}
		order := &model.Order{UserID: userID, CreatedAt: e.now().UTC()}
		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}
		order.Tickets = make([]model.Ticket, 0, len(specs))
		for i, s := range specs {
			t := model.Ticket{Row: s.Row, Seat: s.Seat, FlightID: s.FlightID, OrderID: order.ID}
			if err := tx.InsertTicket(ctx, &t); err != nil {
				switch {
				case errors.Is(err, ErrSeatTaken):
					return ticketErr(i, "seat", ErrSeatTaken)
				case errors.Is(err, ErrUnknownFlight):
					// flight deleted after validation
					return ticketErr(i, "flight", ErrUnknownFlight)
				}
				return err
			}
			order.Tickets = append(order.Tickets, t)
		}
		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SeatsAvailable returns capacity minus tickets sold for the flight.  It
// is recomputed on every call.
func (e *Engine) SeatsAvailable(ctx context.Context, flightID uint64) (int, error) {
	plane, err := e.store.FlightAirplane(ctx, flightID)
	if err != nil {
		return 0, err
	}
	sold, err := e.store.CountTickets(ctx, flightID)
	if err != nil {
		return 0, err
	}
	return SeatsAvailable(plane, sold), nil
}

// SeatsAvailable is the pure form of Engine.SeatsAvailable.
func SeatsAvailable(plane model.Airplane, sold int) int {
	return plane.Capacity() - sold
}
