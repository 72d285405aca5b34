package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/airline-booking/internal/model"
)

// FlightRepo manages flights and their crew assignments.
type FlightRepo struct {
	db *sql.DB
}

func NewFlightRepo(db *sql.DB) *FlightRepo { return &FlightRepo{db: db} }

// FlightSearch filters the flight list.  Empty slices and nil dates do
// not filter; all set filters must match.
type FlightSearch struct {
	Sources       []uint64   // route source airport IN
	Destinations  []uint64   // route destination airport IN
	DepartureDate *time.Time // DATE(departure_time) =
	ArrivalDate   *time.Time // DATE(arrival_time) =
}

// FlightRow is one entry of the flight list.
type FlightRow struct {
	ID             uint64    `json:"id"`
	Number         string    `json:"number"`
	RouteID        uint64    `json:"route"`
	Source         string    `json:"source"`
	Destination    string    `json:"destination"`
	AirplaneID     uint64    `json:"airplane"`
	AirplaneName   string    `json:"airplane_name"`
	DepartureTime  time.Time `json:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time"`
	SeatsAvailable int       `json:"seats_available"`
}

// buildFlightFilter returns the WHERE condition and its arguments.
func buildFlightFilter(q FlightSearch) (string, []any) {
	where := []string{}
	args := []any{}
	if len(q.Sources) > 0 {
		where = append(where, "r.source_id IN ("+placeholders(len(q.Sources))+")")
		for _, id := range q.Sources {
			args = append(args, id)
		}
	}
	if len(q.Destinations) > 0 {
		where = append(where, "r.destination_id IN ("+placeholders(len(q.Destinations))+")")
		for _, id := range q.Destinations {
			args = append(args, id)
		}
	}
	if q.DepartureDate != nil {
		where = append(where, "DATE(f.departure_time) = ?")
		args = append(args, q.DepartureDate.Format("2006-01-02"))
	}
	if q.ArrivalDate != nil {
		where = append(where, "DATE(f.arrival_time) = ?")
		args = append(args, q.ArrivalDate.Format("2006-01-02"))
	}
	if len(where) == 0 {
		return "1=1", args
	}
	return strings.Join(where, " AND "), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// Search lists flights ordered by departure then arrival.  Each row
// carries the seats still free, counted at query time.
func (r *FlightRepo) Search(ctx context.Context, q FlightSearch) ([]FlightRow, error) {
	cond, args := buildFlightFilter(q)
	query := `SELECT
			f.id, f.number, f.route_id, s.name, d.name, p.id, p.name,
			f.departure_time, f.arrival_time,
			CAST(p.rows_count * p.seats_in_row AS SIGNED)
				- (SELECT COUNT(*) FROM tickets t WHERE t.flight_id = f.id) AS seats_available
		FROM flights f
		JOIN routes r    ON r.id = f.route_id
		JOIN airports s  ON s.id = r.source_id
		JOIN airports d  ON d.id = r.destination_id
		JOIN airplanes p ON p.id = f.airplane_id
		WHERE ` + cond + `
		ORDER BY f.departure_time, f.arrival_time, f.id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []FlightRow{}
	for rows.Next() {
		var fr FlightRow
		if err := rows.Scan(&fr.ID, &fr.Number, &fr.RouteID, &fr.Source, &fr.Destination,
			&fr.AirplaneID, &fr.AirplaneName, &fr.DepartureTime, &fr.ArrivalTime, &fr.SeatsAvailable); err != nil {
			return nil, err
		}
		out = append(out, fr)
	}
	return out, rows.Err()
}

// FlightDetail is a flight with its route, airplane and crew expanded.
type FlightDetail struct {
	ID            uint64         `json:"id"`
	Number        string         `json:"number"`
	Route         model.Route    `json:"route"`
	Airplane      model.Airplane `json:"airplane"`
	DepartureTime time.Time      `json:"departure_time"`
	ArrivalTime   time.Time      `json:"arrival_time"`
	Crew          []model.Crew   `json:"crew"`
	TakenPlaces   []TakenPlace   `json:"taken_places"`
}

// TakenPlace is a sold (row, seat) pair.
type TakenPlace struct {
	Row  int `json:"row"`
	Seat int `json:"seat"`
}

// Detail loads one flight with related rows and its sold seats.
func (r *FlightRepo) Detail(ctx context.Context, id uint64) (FlightDetail, error) {
	const q = `SELECT f.id, f.number, f.departure_time, f.arrival_time,
			r.id, r.source_id, r.destination_id, r.distance, s.name, d.name,
			p.id, p.name, p.rows_count, p.seats_in_row, p.airplane_type_id, t.name
		FROM flights f
		JOIN routes r         ON r.id = f.route_id
		JOIN airports s       ON s.id = r.source_id
		JOIN airports d       ON d.id = r.destination_id
		JOIN airplanes p      ON p.id = f.airplane_id
		JOIN airplane_types t ON t.id = p.airplane_type_id
		WHERE f.id = ?`
	var fd FlightDetail
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&fd.ID, &fd.Number, &fd.DepartureTime, &fd.ArrivalTime,
		&fd.Route.ID, &fd.Route.SourceID, &fd.Route.DestinationID, &fd.Route.Distance,
		&fd.Route.SourceName, &fd.Route.DestinationName,
		&fd.Airplane.ID, &fd.Airplane.Name, &fd.Airplane.Rows, &fd.Airplane.SeatsInRow,
		&fd.Airplane.AirplaneTypeID, &fd.Airplane.TypeName,
	)
	if err != nil {
		return fd, classify(err)
	}

	crewRows, err := r.db.QueryContext(ctx, `SELECT c.id, c.first_name, c.last_name
		FROM flight_crew fc JOIN crew c ON c.id = fc.crew_id
		WHERE fc.flight_id = ? ORDER BY c.last_name, c.first_name`, id)
	if err != nil {
		return fd, err
	}
	defer crewRows.Close()
	fd.Crew = []model.Crew{}
	for crewRows.Next() {
		var m model.Crew
		if err := crewRows.Scan(&m.ID, &m.FirstName, &m.LastName); err != nil {
			return fd, err
		}
		fd.Crew = append(fd.Crew, m)
	}
	if err := crewRows.Err(); err != nil {
		return fd, err
	}

	seatRows, err := r.db.QueryContext(ctx,
		"SELECT row_num, seat_num FROM tickets WHERE flight_id = ? ORDER BY row_num, seat_num", id)
	if err != nil {
		return fd, err
	}
	defer seatRows.Close()
	fd.TakenPlaces = []TakenPlace{}
	for seatRows.Next() {
		var tp TakenPlace
		if err := seatRows.Scan(&tp.Row, &tp.Seat); err != nil {
			return fd, err
		}
		fd.TakenPlaces = append(fd.TakenPlaces, tp)
	}
	return fd, seatRows.Err()
}

// Get loads the bare flight row with its crew ids.
func (r *FlightRepo) Get(ctx context.Context, id uint64) (model.Flight, error) {
	var f model.Flight
	err := r.db.QueryRowContext(ctx,
		"SELECT id, number, route_id, airplane_id, departure_time, arrival_time FROM flights WHERE id=?", id).
		Scan(&f.ID, &f.Number, &f.RouteID, &f.AirplaneID, &f.DepartureTime, &f.ArrivalTime)
	if err != nil {
		return f, classify(err)
	}
	f.CrewIDs, err = crewIDs(ctx, r.db, id)
	return f, err
}

// Create inserts the flight and its crew links in one transaction.
// Unknown route, airplane or crew ids yield ErrConflict.
func (r *FlightRepo) Create(ctx context.Context, f *model.Flight) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO flights (number, route_id, airplane_id, departure_time, arrival_time) VALUES (?,?,?,?,?)",
			f.Number, f.RouteID, f.AirplaneID, f.DepartureTime.UTC(), f.ArrivalTime.UTC())
		if err != nil {
			return classify(err)
		}
		if f.ID, err = lastID(res); err != nil {
			return err
		}
		return setCrew(ctx, tx, f.ID, f.CrewIDs)
	})
}

// Update rewrites the flight row and replaces its crew.  Moving a flight
// to an airplane whose grid does not cover its sold tickets fails with
// ErrTicketsOutsideGrid.
func (r *FlightRepo) Update(ctx context.Context, f model.Flight) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := updateExisting(ctx, tx, "flights", f.ID, func() (sql.Result, error) {
			return tx.ExecContext(ctx,
				"UPDATE flights SET number=?, route_id=?, airplane_id=?, departure_time=?, arrival_time=? WHERE id=?",
				f.Number, f.RouteID, f.AirplaneID, f.DepartureTime.UTC(), f.ArrivalTime.UTC(), f.ID)
		})
		if err != nil {
			return err
		}
		if err := ticketsWithinGrid(ctx, tx, "t.flight_id = ?", f.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM flight_crew WHERE flight_id=?", f.ID); err != nil {
			return err
		}
		return setCrew(ctx, tx, f.ID, f.CrewIDs)
	})
}

// Delete removes the flight; its tickets and crew links go with it.
func (r *FlightRepo) Delete(ctx context.Context, id uint64) error {
	return affectedOrNotFound(r.db.ExecContext(ctx, "DELETE FROM flights WHERE id=?", id))
}

func setCrew(ctx context.Context, tx *sql.Tx, flightID uint64, crew []uint64) error {
	seen := map[uint64]bool{}
	for _, id := range crew {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO flight_crew (flight_id, crew_id) VALUES (?,?)", flightID, id); err != nil {
			return classify(err)
		}
	}
	return nil
}

func crewIDs(ctx context.Context, q querier, flightID uint64) ([]uint64, error) {
	rows, err := q.QueryContext(ctx, "SELECT crew_id FROM flight_crew WHERE flight_id=? ORDER BY crew_id", flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []uint64{}
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
