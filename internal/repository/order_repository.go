package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/iliyamo/airline-booking/internal/booking"
	"github.com/iliyamo/airline-booking/internal/model"
)

// OrderRepo stores orders and tickets.  It implements booking.Store; the
// UNIQUE (flight_id, row_num, seat_num) index on tickets is what finally
// decides which of two concurrent orders gets a seat.
type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

var _ booking.Store = (*OrderRepo)(nil)

// InTx runs fn in a transaction.  A duplicate key reported by COMMIT is
// returned as booking.ErrSeatTaken.
func (r *OrderRepo) InTx(ctx context.Context, fn func(tx booking.Tx) error) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		return fn(orderTx{q: tx})
	})
	if IsDuplicate(err) {
		return fmt.Errorf("%w: %v", booking.ErrSeatTaken, err)
	}
	return err
}

func (r *OrderRepo) FlightAirplane(ctx context.Context, flightID uint64) (model.Airplane, error) {
	return flightAirplane(ctx, r.db, flightID, false)
}

func (r *OrderRepo) CountTickets(ctx context.Context, flightID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tickets WHERE flight_id=?", flightID).Scan(&n)
	return n, err
}

// flightAirplane loads the airplane of a flight.  With lock set the
// flight row is share-locked so the airplane cannot be swapped while
// tickets are validated against its grid.
func flightAirplane(ctx context.Context, q querier, flightID uint64, lock bool) (model.Airplane, error) {
	query := `SELECT p.id, p.name, p.rows_count, p.seats_in_row, p.airplane_type_id
		FROM flights f JOIN airplanes p ON p.id = f.airplane_id
		WHERE f.id = ?`
	if lock {
		query += " LOCK IN SHARE MODE"
	}
	var p model.Airplane
	err := q.QueryRowContext(ctx, query, flightID).Scan(&p.ID, &p.Name, &p.Rows, &p.SeatsInRow, &p.AirplaneTypeID)
	if err == sql.ErrNoRows {
		return p, booking.ErrUnknownFlight
	}
	return p, err
}

type orderTx struct{ q querier }

func (t orderTx) FlightAirplane(ctx context.Context, flightID uint64) (model.Airplane, error) {
	return flightAirplane(ctx, t.q, flightID, true)
}

func (t orderTx) SeatTaken(ctx context.Context, flightID uint64, row, seat int) (bool, error) {
	var one int
	err := t.q.QueryRowContext(ctx,
		"SELECT 1 FROM tickets WHERE flight_id=? AND row_num=? AND seat_num=? LIMIT 1",
		flightID, row, seat).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (t orderTx) InsertOrder(ctx context.Context, o *model.Order) error {
	res, err := t.q.ExecContext(ctx, "INSERT INTO orders (user_id, created_at) VALUES (?,?)", o.UserID, o.CreatedAt)
	if err != nil {
		return err
	}
	o.ID, err = lastID(res)
	return err
}

// InsertTicket maps a duplicate key on the tickets index to
// booking.ErrSeatTaken.
func (t orderTx) InsertTicket(ctx context.Context, tk *model.Ticket) error {
	res, err := t.q.ExecContext(ctx,
		"INSERT INTO tickets (row_num, seat_num, flight_id, order_id) VALUES (?,?,?,?)",
		tk.Row, tk.Seat, tk.FlightID, tk.OrderID)
	if err != nil {
		if IsDuplicate(err) {
			return fmt.Errorf("%w: %v", booking.ErrSeatTaken, err)
		}
		if mysqlNumber(err) == errNoReferencedRow {
			return booking.ErrUnknownFlight
		}
		return err
	}
	tk.ID, err = lastID(res)
	return err
}

// OrderPage is one page of a user's orders.
type OrderPage struct {
	Count   int64         `json:"count"`
	Page    int           `json:"page"`
	Results []model.Order `json:"results"`
}

// ListByUser returns the user's orders newest first, with tickets and
// their flight numbers.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64, page, pageSize int) (OrderPage, error) {
	out := OrderPage{Page: page, Results: []model.Order{}}
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders WHERE user_id=?", userID).Scan(&out.Count); err != nil {
		return out, err
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, created_at FROM orders WHERE user_id=? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return out, err
	}
	defer rows.Close()
	index := map[uint64]int{}
	ids := []any{}
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.CreatedAt); err != nil {
			return out, err
		}
		o.Tickets = []model.Ticket{}
		index[o.ID] = len(out.Results)
		ids = append(ids, o.ID)
		out.Results = append(out.Results, o)
	}
	if err := rows.Err(); err != nil {
		return out, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	trows, err := r.db.QueryContext(ctx, `SELECT t.id, t.row_num, t.seat_num, t.flight_id, t.order_id, f.number
		FROM tickets t JOIN flights f ON f.id = t.flight_id
		WHERE t.order_id IN (`+placeholders(len(ids))+`)
		ORDER BY t.id`, ids...)
	if err != nil {
		return out, err
	}
	defer trows.Close()
	for trows.Next() {
		var tk model.Ticket
		if err := trows.Scan(&tk.ID, &tk.Row, &tk.Seat, &tk.FlightID, &tk.OrderID, &tk.FlightNumber); err != nil {
			return out, err
		}
		i := index[tk.OrderID]
		out.Results[i].Tickets = append(out.Results[i].Tickets, tk)
	}
	return out, trows.Err()
}

// DeleteForUser cancels an order owned by userID; its tickets are freed
// by the cascade.  Orders of other users look like missing ones.
func (r *OrderRepo) DeleteForUser(ctx context.Context, orderID, userID uint64) error {
	return affectedOrNotFound(r.db.ExecContext(ctx, "DELETE FROM orders WHERE id=? AND user_id=?", orderID, userID))
}

// FlightNumbers resolves flight ids to numbers for event payloads.
func (r *OrderRepo) FlightNumbers(ctx context.Context, ids []uint64) (map[uint64]string, error) {
	out := map[uint64]string{}
	if len(ids) == 0 {
		return out, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, number FROM flights WHERE id IN ("+placeholders(len(ids))+")", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id uint64
		var num string
		if err := rows.Scan(&id, &num); err != nil {
			return nil, err
		}
		out[id] = strings.TrimSpace(num)
	}
	return out, rows.Err()
}
