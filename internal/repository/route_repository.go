package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/airline-booking/internal/model"
)

// RouteRepo manages routes between airports.  Callers validate that the
// two airports differ before writing.
type RouteRepo struct {
	db *sql.DB
}

func NewRouteRepo(db *sql.DB) *RouteRepo { return &RouteRepo{db: db} }

const routeSelect = `SELECT r.id, r.source_id, r.destination_id, r.distance, s.name, d.name
	FROM routes r
	JOIN airports s ON s.id = r.source_id
	JOIN airports d ON d.id = r.destination_id`

func scanRoute(sc interface{ Scan(...any) error }) (model.Route, error) {
	var rt model.Route
	err := sc.Scan(&rt.ID, &rt.SourceID, &rt.DestinationID, &rt.Distance, &rt.SourceName, &rt.DestinationName)
	return rt, err
}

func (r *RouteRepo) List(ctx context.Context) ([]model.Route, error) {
	rows, err := r.db.QueryContext(ctx, routeSelect+" ORDER BY r.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Route{}
	for rows.Next() {
		rt, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (r *RouteRepo) Get(ctx context.Context, id uint64) (model.Route, error) {
	rt, err := scanRoute(r.db.QueryRowContext(ctx, routeSelect+" WHERE r.id=?", id))
	return rt, classify(err)
}

// Create returns ErrConflict when an airport does not exist.
func (r *RouteRepo) Create(ctx context.Context, rt *model.Route) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO routes (source_id, destination_id, distance) VALUES (?,?,?)",
		rt.SourceID, rt.DestinationID, rt.Distance)
	if err != nil {
		return classify(err)
	}
	rt.ID, err = lastID(res)
	return err
}

func (r *RouteRepo) Update(ctx context.Context, rt model.Route) error {
	return updateExisting(ctx, r.db, "routes", rt.ID, func() (sql.Result, error) {
		return r.db.ExecContext(ctx,
			"UPDATE routes SET source_id=?, destination_id=?, distance=? WHERE id=?",
			rt.SourceID, rt.DestinationID, rt.Distance, rt.ID)
	})
}

// Delete cascades to the route's flights and their tickets.
func (r *RouteRepo) Delete(ctx context.Context, id uint64) error {
	return affectedOrNotFound(r.db.ExecContext(ctx, "DELETE FROM routes WHERE id=?", id))
}
