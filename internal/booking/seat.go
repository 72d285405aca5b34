package booking

import "github.com/iliyamo/airline-booking/internal/model"

// ValidateSeat checks that (row, seat) lies inside the grid of the given
// airplane.  The row is checked before the seat and only the first
// failure is reported.  The returned error is a *FieldError.
func ValidateSeat(row, seat int, plane model.Airplane) error {
	if row < 1 || row > plane.Rows {
		return &FieldError{Field: "row", Value: row, Max: plane.Rows}
	}
	if seat < 1 || seat > plane.SeatsInRow {
		return &FieldError{Field: "seat", Value: seat, Max: plane.SeatsInRow}
	}
	return nil
}
