package model

import "time"

// Crew is a crew member that can be assigned to many flights.
type Crew struct {
	ID        uint64 `json:"id"`         // crew.id
	FirstName string `json:"first_name"` // crew.first_name
	LastName  string `json:"last_name"`  // crew.last_name
}

// Route connects two distinct airports.
type Route struct {
	ID              uint64 `json:"id"`                         // routes.id
	SourceID        uint64 `json:"source"`                     // routes.source_id
	DestinationID   uint64 `json:"destination"`                // routes.destination_id
	Distance        int    `json:"distance"`                   // routes.distance (km)
	SourceName      string `json:"source_name,omitempty"`      // joined airports.name
	DestinationName string `json:"destination_name,omitempty"` // joined airports.name
}

// Flight is a scheduled operation of one airplane over one route.  Many
// flights may share an airplane; the airplane cannot be deleted while any
// flight references it.  Deleting a flight deletes its tickets.
//
// Fields:
//  ID            – primary key identifier.
//  Number        – flight number, e.g. "PS101".
//  RouteID       – route flown.
//  AirplaneID    – airplane assigned; its grid bounds every ticket.
//  DepartureTime – scheduled departure (UTC).
//  ArrivalTime   – scheduled arrival (UTC), not before departure.
//  CrewIDs       – assigned crew members.
type Flight struct {
	ID            uint64    `json:"id"`             // flights.id
	Number        string    `json:"number"`         // flights.number
	RouteID       uint64    `json:"route"`          // flights.route_id
	AirplaneID    uint64    `json:"airplane"`       // flights.airplane_id
	DepartureTime time.Time `json:"departure_time"` // flights.departure_time
	ArrivalTime   time.Time `json:"arrival_time"`   // flights.arrival_time
	CrewIDs       []uint64  `json:"crew"`           // flight_crew.crew_id
}
