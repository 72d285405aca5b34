package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/airline-booking/internal/model"
)

func TestValidateSeat_Grid(t *testing.T) {
	planes := []model.Airplane{
		{Rows: 1, SeatsInRow: 1},
		{Rows: 30, SeatsInRow: 6},
		{Rows: 4, SeatsInRow: 9},
	}
	for _, p := range planes {
		for row := -1; row <= p.Rows+2; row++ {
			for seat := -1; seat <= p.SeatsInRow+2; seat++ {
				err := ValidateSeat(row, seat, p)
				inside := row >= 1 && row <= p.Rows && seat >= 1 && seat <= p.SeatsInRow
				if inside {
					assert.NoError(t, err, "plane %dx%d row=%d seat=%d", p.Rows, p.SeatsInRow, row, seat)
				} else {
					assert.ErrorIs(t, err, ErrOutOfRange, "plane %dx%d row=%d seat=%d", p.Rows, p.SeatsInRow, row, seat)
				}
			}
		}
	}
}

func TestValidateSeat_ReportsRowFirst(t *testing.T) {
	plane := model.Airplane{Rows: 30, SeatsInRow: 6}

	err := ValidateSeat(40, 10, plane)
	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "row", fe.Field)
	assert.Equal(t, 30, fe.Max)
	assert.Contains(t, err.Error(), "row number must be in the available range: 1..30")

	err = ValidateSeat(1, 10, plane)
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "seat", fe.Field)
	assert.Equal(t, 6, fe.Max)
	assert.Contains(t, err.Error(), "seat number must be in the available range: 1..6")
}

func TestValidateRoute(t *testing.T) {
	assert.NoError(t, ValidateRoute(1, 2))
	assert.ErrorIs(t, ValidateRoute(3, 3), ErrSameAirports)
}

func TestValidateSchedule(t *testing.T) {
	dep := time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)
	assert.NoError(t, ValidateSchedule(dep, dep.Add(2*time.Hour)))
	assert.NoError(t, ValidateSchedule(dep, dep))
	assert.ErrorIs(t, ValidateSchedule(dep, dep.Add(-time.Minute)), ErrArrivalBeforeDeparture)
}

func TestSeatsAvailable_Pure(t *testing.T) {
	plane := model.Airplane{Rows: 30, SeatsInRow: 6}
	assert.Equal(t, 180, plane.Capacity())
	assert.Equal(t, 180, SeatsAvailable(plane, 0))
	assert.Equal(t, 178, SeatsAvailable(plane, 2))
	assert.Equal(t, 0, SeatsAvailable(plane, 180))
}
