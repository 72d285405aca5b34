package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/airline-booking/internal/model"
)

// LocationRepo manages countries, cities and airports.
type LocationRepo struct {
	db *sql.DB
}

func NewLocationRepo(db *sql.DB) *LocationRepo { return &LocationRepo{db: db} }

// ----- countries -----

func (r *LocationRepo) ListCountries(ctx context.Context) ([]model.Country, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM countries ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Country{}
	for rows.Next() {
		var c model.Country
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *LocationRepo) GetCountry(ctx context.Context, id uint64) (model.Country, error) {
	var c model.Country
	err := r.db.QueryRowContext(ctx, "SELECT id, name FROM countries WHERE id=?", id).Scan(&c.ID, &c.Name)
	return c, classify(err)
}

// CreateCountry returns ErrConflict when the name is taken.
func (r *LocationRepo) CreateCountry(ctx context.Context, c *model.Country) error {
	res, err := r.db.ExecContext(ctx, "INSERT INTO countries (name) VALUES (?)", c.Name)
	if err != nil {
		return classify(err)
	}
	c.ID, err = lastID(res)
	return err
}

func (r *LocationRepo) UpdateCountry(ctx context.Context, c model.Country) error {
	return updateExisting(ctx, r.db, "countries", c.ID,
		func() (sql.Result, error) {
			return r.db.ExecContext(ctx, "UPDATE countries SET name=? WHERE id=?", c.Name, c.ID)
		})
}

func (r *LocationRepo) DeleteCountry(ctx context.Context, id uint64) error {
	return affectedOrNotFound(r.db.ExecContext(ctx, "DELETE FROM countries WHERE id=?", id))
}

// ----- cities -----

func (r *LocationRepo) ListCities(ctx context.Context) ([]model.City, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, country_id FROM cities ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.City{}
	for rows.Next() {
		var c model.City
		if err := rows.Scan(&c.ID, &c.Name, &c.CountryID); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *LocationRepo) GetCity(ctx context.Context, id uint64) (model.City, error) {
	var c model.City
	err := r.db.QueryRowContext(ctx, "SELECT id, name, country_id FROM cities WHERE id=?", id).
		Scan(&c.ID, &c.Name, &c.CountryID)
	return c, classify(err)
}

// CreateCity returns ErrConflict when the country does not exist.
func (r *LocationRepo) CreateCity(ctx context.Context, c *model.City) error {
	res, err := r.db.ExecContext(ctx, "INSERT INTO cities (name, country_id) VALUES (?,?)", c.Name, c.CountryID)
	if err != nil {
		return classify(err)
	}
	c.ID, err = lastID(res)
	return err
}

func (r *LocationRepo) UpdateCity(ctx context.Context, c model.City) error {
	return updateExisting(ctx, r.db, "cities", c.ID,
		func() (sql.Result, error) {
			return r.db.ExecContext(ctx, "UPDATE cities SET name=?, country_id=? WHERE id=?", c.Name, c.CountryID, c.ID)
		})
}

func (r *LocationRepo) DeleteCity(ctx context.Context, id uint64) error {
	return affectedOrNotFound(r.db.ExecContext(ctx, "DELETE FROM cities WHERE id=?", id))
}

// ----- airports -----

const airportSelect = `SELECT a.id, a.name, a.closest_big_city_id, ci.name, co.name
	FROM airports a
	JOIN cities ci    ON ci.id = a.closest_big_city_id
	JOIN countries co ON co.id = ci.country_id`

func scanAirport(sc interface{ Scan(...any) error }) (model.Airport, error) {
	var a model.Airport
	err := sc.Scan(&a.ID, &a.Name, &a.ClosestCityID, &a.ClosestCity, &a.ClosestCountry)
	return a, err
}

func (r *LocationRepo) ListAirports(ctx context.Context) ([]model.Airport, error) {
	rows, err := r.db.QueryContext(ctx, airportSelect+" ORDER BY a.name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Airport{}
	for rows.Next() {
		a, err := scanAirport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *LocationRepo) GetAirport(ctx context.Context, id uint64) (model.Airport, error) {
	a, err := scanAirport(r.db.QueryRowContext(ctx, airportSelect+" WHERE a.id=?", id))
	return a, classify(err)
}

func (r *LocationRepo) CreateAirport(ctx context.Context, a *model.Airport) error {
	res, err := r.db.ExecContext(ctx, "INSERT INTO airports (name, closest_big_city_id) VALUES (?,?)", a.Name, a.ClosestCityID)
	if err != nil {
		return classify(err)
	}
	a.ID, err = lastID(res)
	return err
}

func (r *LocationRepo) UpdateAirport(ctx context.Context, a model.Airport) error {
	return updateExisting(ctx, r.db, "airports", a.ID,
		func() (sql.Result, error) {
			return r.db.ExecContext(ctx, "UPDATE airports SET name=?, closest_big_city_id=? WHERE id=?", a.Name, a.ClosestCityID, a.ID)
		})
}

func (r *LocationRepo) DeleteAirport(ctx context.Context, id uint64) error {
	return affectedOrNotFound(r.db.ExecContext(ctx, "DELETE FROM airports WHERE id=?", id))
}
