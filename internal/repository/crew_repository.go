package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/airline-booking/internal/model"
)

// CrewRepo manages crew members.
type CrewRepo struct {
	db *sql.DB
}

func NewCrewRepo(db *sql.DB) *CrewRepo { return &CrewRepo{db: db} }

func (r *CrewRepo) List(ctx context.Context) ([]model.Crew, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, first_name, last_name FROM crew ORDER BY last_name, first_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Crew{}
	for rows.Next() {
		var m model.Crew
		if err := rows.Scan(&m.ID, &m.FirstName, &m.LastName); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *CrewRepo) Get(ctx context.Context, id uint64) (model.Crew, error) {
	var m model.Crew
	err := r.db.QueryRowContext(ctx, "SELECT id, first_name, last_name FROM crew WHERE id=?", id).
		Scan(&m.ID, &m.FirstName, &m.LastName)
	return m, classify(err)
}

func (r *CrewRepo) Create(ctx context.Context, m *model.Crew) error {
	res, err := r.db.ExecContext(ctx, "INSERT INTO crew (first_name, last_name) VALUES (?,?)", m.FirstName, m.LastName)
	if err != nil {
		return classify(err)
	}
	m.ID, err = lastID(res)
	return err
}

func (r *CrewRepo) Update(ctx context.Context, m model.Crew) error {
	return updateExisting(ctx, r.db, "crew", m.ID, func() (sql.Result, error) {
		return r.db.ExecContext(ctx, "UPDATE crew SET first_name=?, last_name=? WHERE id=?", m.FirstName, m.LastName, m.ID)
	})
}

func (r *CrewRepo) Delete(ctx context.Context, id uint64) error {
	return affectedOrNotFound(r.db.ExecContext(ctx, "DELETE FROM crew WHERE id=?", id))
}
