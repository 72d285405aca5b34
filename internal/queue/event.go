// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// OrderCreatedEvent is published after an order commits.  It carries
// enough for consumers to log or notify without querying the database.
type OrderCreatedEvent struct {
	OrderID   uint64        `json:"order_id"`
	UserID    uint64        `json:"user_id"`
	CreatedAt time.Time     `json:"created_at"`
	Tickets   []EventTicket `json:"tickets"`
}

// EventTicket is one seat of an OrderCreatedEvent.
type EventTicket struct {
	FlightID     uint64 `json:"flight_id"`
	FlightNumber string `json:"flight_number,omitempty"`
	Row          int    `json:"row"`
	Seat         int    `json:"seat"`
}
