package model

// AirplaneType groups airplanes by model (e.g. "Boeing 737").
type AirplaneType struct {
	ID   uint64 `json:"id"`   // airplane_types.id
	Name string `json:"name"` // airplane_types.name (unique)
}

// Airplane describes the physical seat grid of an aircraft.  Every seat
// is addressed by a 1-based (row, seat) pair where row runs 1..Rows and
// seat runs 1..SeatsInRow.
//
// Fields:
//  ID             – primary key identifier.
//  Name           – human readable label.
//  Rows           – number of seat rows, at least 1.
//  SeatsInRow     – seats per row, at least 1.
//  AirplaneTypeID – reference to airplane_types.
type Airplane struct {
	ID             uint64 `json:"id"`                  // airplanes.id
	Name           string `json:"name"`                // airplanes.name
	Rows           int    `json:"rows"`                // airplanes.rows_count
	SeatsInRow     int    `json:"seats_in_row"`        // airplanes.seats_in_row
	AirplaneTypeID uint64 `json:"airplane_type"`       // airplanes.airplane_type_id
	TypeName       string `json:"type_name,omitempty"` // joined airplane_types.name
}

// Capacity returns the total number of seats on the airplane.
func (a Airplane) Capacity() int {
	return a.Rows * a.SeatsInRow
}
