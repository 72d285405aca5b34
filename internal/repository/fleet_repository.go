package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/airline-booking/internal/model"
)

// FleetRepo manages airplane types and airplanes.
type FleetRepo struct {
	db *sql.DB
}

func NewFleetRepo(db *sql.DB) *FleetRepo { return &FleetRepo{db: db} }

func (r *FleetRepo) ListTypes(ctx context.Context) ([]model.AirplaneType, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM airplane_types ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.AirplaneType{}
	for rows.Next() {
		var t model.AirplaneType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *FleetRepo) GetType(ctx context.Context, id uint64) (model.AirplaneType, error) {
	var t model.AirplaneType
	err := r.db.QueryRowContext(ctx, "SELECT id, name FROM airplane_types WHERE id=?", id).Scan(&t.ID, &t.Name)
	return t, classify(err)
}

func (r *FleetRepo) CreateType(ctx context.Context, t *model.AirplaneType) error {
	res, err := r.db.ExecContext(ctx, "INSERT INTO airplane_types (name) VALUES (?)", t.Name)
	if err != nil {
		return classify(err)
	}
	t.ID, err = lastID(res)
	return err
}

func (r *FleetRepo) UpdateType(ctx context.Context, t model.AirplaneType) error {
	return updateExisting(ctx, r.db, "airplane_types", t.ID, func() (sql.Result, error) {
		return r.db.ExecContext(ctx, "UPDATE airplane_types SET name=? WHERE id=?", t.Name, t.ID)
	})
}

// DeleteType cascades to the type's airplanes and fails with ErrProtected
// when one of them still flies.
func (r *FleetRepo) DeleteType(ctx context.Context, id uint64) error {
	return affectedOrNotFound(r.db.ExecContext(ctx, "DELETE FROM airplane_types WHERE id=?", id))
}

const airplaneSelect = `SELECT p.id, p.name, p.rows_count, p.seats_in_row, p.airplane_type_id, t.name
	FROM airplanes p
	JOIN airplane_types t ON t.id = p.airplane_type_id`

func scanAirplane(sc interface{ Scan(...any) error }) (model.Airplane, error) {
	var p model.Airplane
	err := sc.Scan(&p.ID, &p.Name, &p.Rows, &p.SeatsInRow, &p.AirplaneTypeID, &p.TypeName)
	return p, err
}

func (r *FleetRepo) ListAirplanes(ctx context.Context) ([]model.Airplane, error) {
	rows, err := r.db.QueryContext(ctx, airplaneSelect+" ORDER BY p.name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Airplane{}
	for rows.Next() {
		p, err := scanAirplane(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *FleetRepo) GetAirplane(ctx context.Context, id uint64) (model.Airplane, error) {
	p, err := scanAirplane(r.db.QueryRowContext(ctx, airplaneSelect+" WHERE p.id=?", id))
	return p, classify(err)
}

func (r *FleetRepo) CreateAirplane(ctx context.Context, p *model.Airplane) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO airplanes (name, rows_count, seats_in_row, airplane_type_id) VALUES (?,?,?,?)",
		p.Name, p.Rows, p.SeatsInRow, p.AirplaneTypeID)
	if err != nil {
		return classify(err)
	}
	p.ID, err = lastID(res)
	return err
}

// UpdateAirplane changes the grid of an airplane.  A grid that no longer
// covers every ticket sold on the airplane's flights is rejected with
// ErrTicketsOutsideGrid.
func (r *FleetRepo) UpdateAirplane(ctx context.Context, p model.Airplane) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := updateExisting(ctx, tx, "airplanes", p.ID, func() (sql.Result, error) {
			return tx.ExecContext(ctx,
				"UPDATE airplanes SET name=?, rows_count=?, seats_in_row=?, airplane_type_id=? WHERE id=?",
				p.Name, p.Rows, p.SeatsInRow, p.AirplaneTypeID, p.ID)
		})
		if err != nil {
			return err
		}
		return ticketsWithinGrid(ctx, tx, "f.airplane_id = ?", p.ID)
	})
}

// ticketsWithinGrid fails when a ticket matched by cond sits beyond the
// grid of its flight's airplane.  It must run after the UPDATE of the
// flight or airplane row: the statement then sees the new grid, and the
// row lock held by that UPDATE keeps bookings out until commit.
func ticketsWithinGrid(ctx context.Context, q querier, cond string, id uint64) error {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM tickets t
		JOIN flights f ON f.id = t.flight_id
		JOIN airplanes p ON p.id = f.airplane_id
		WHERE `+cond+` AND (t.row_num > p.rows_count OR t.seat_num > p.seats_in_row)
		LIMIT 1 FOR UPDATE`, id).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil
	case err != nil:
		return err
	}
	return ErrTicketsOutsideGrid
}

// DeleteAirplane fails with ErrProtected while any flight references the
// airplane.
func (r *FleetRepo) DeleteAirplane(ctx context.Context, id uint64) error {
	return affectedOrNotFound(r.db.ExecContext(ctx, "DELETE FROM airplanes WHERE id=?", id))
}
