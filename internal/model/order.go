package model

import "time"

// Order groups the tickets bought in one purchase.  Orders outlive their
// owner: when a user is deleted the order is handed to the sentinel
// deleted-user account.
type Order struct {
	ID        uint64    `json:"id"`         // orders.id
	UserID    uint64    `json:"-"`          // orders.user_id
	CreatedAt time.Time `json:"created_at"` // orders.created_at
	Tickets   []Ticket  `json:"tickets"`    // tickets.order_id = id, in creation order
}

// Ticket is one reserved seat on one flight.  The (Row, Seat, FlightID)
// triple is unique across all tickets.
type Ticket struct {
	ID           uint64 `json:"id"`                      // tickets.id
	Row          int    `json:"row"`                     // tickets.row_num
	Seat         int    `json:"seat"`                    // tickets.seat_num
	FlightID     uint64 `json:"flight"`                  // tickets.flight_id
	OrderID      uint64 `json:"-"`                       // tickets.order_id
	FlightNumber string `json:"flight_number,omitempty"` // joined flights.number
}
