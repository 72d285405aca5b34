package booking

import (
	"context"
	"errors"

	"github.com/iliyamo/airline-booking/internal/model"
)

// TicketSpec is one requested seat of an order.
type TicketSpec struct {
	Row      int    `json:"row"`
	Seat     int    `json:"seat"`
	FlightID uint64 `json:"flight"`
}

type seatKey struct {
	flightID  uint64
	row, seat int
}

// ValidateTickets runs the pre-commit checks for an order in list order
// and returns the first failure as a *TicketError.  It checks the grid
// bounds of each ticket's airplane, then uniqueness against tickets
// already stored and against earlier tickets of the same list.  It has
// no side effects; src may be a transaction or a plain reader.
func ValidateTickets(ctx context.Context, src SeatSource, specs []TicketSpec) error {
	if len(specs) == 0 {
		return ErrEmptyOrder
	}
	planes := make(map[uint64]model.Airplane)
	staged := make(map[seatKey]struct{}, len(specs))
	for i, s := range specs {
		plane, ok := planes[s.FlightID]
		if !ok {
			p, err := src.FlightAirplane(ctx, s.FlightID)
			if err != nil {
				if errors.Is(err, ErrUnknownFlight) {
					return ticketErr(i, "flight", err)
				}
				return err
			}
			planes[s.FlightID] = p
			plane = p
		}
		if err := ValidateSeat(s.Row, s.Seat, plane); err != nil {
			return ticketErr(i, "", err)
		}
		key := seatKey{flightID: s.FlightID, row: s.Row, seat: s.Seat}
		if _, dup := staged[key]; dup {
			return ticketErr(i, "seat", ErrSeatTaken)
		}
		taken, err := src.SeatTaken(ctx, s.FlightID, s.Row, s.Seat)
		if err != nil {
			return err
		}
		if taken {
			return ticketErr(i, "seat", ErrSeatTaken)
		}
		staged[key] = struct{}{}
	}
	return nil
}
