package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// migration is one forward-only schema step.  Applied steps are recorded
// in schema_migrations by name.
type migration struct {
	name string
	stmt string
}

var migrations = []migration{
	{"001_countries", `CREATE TABLE IF NOT EXISTS countries (
		id   BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		UNIQUE KEY uq_countries_name (name)
	) ENGINE=InnoDB`},
	{"002_cities", `CREATE TABLE IF NOT EXISTS cities (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name       VARCHAR(255) NOT NULL,
		country_id BIGINT UNSIGNED NOT NULL,
		CONSTRAINT fk_cities_country FOREIGN KEY (country_id) REFERENCES countries(id) ON DELETE CASCADE
	) ENGINE=InnoDB`},
	{"003_airports", `CREATE TABLE IF NOT EXISTS airports (
		id                  BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name                VARCHAR(255) NOT NULL,
		closest_big_city_id BIGINT UNSIGNED NOT NULL,
		CONSTRAINT fk_airports_city FOREIGN KEY (closest_big_city_id) REFERENCES cities(id) ON DELETE CASCADE
	) ENGINE=InnoDB`},
	{"004_airplane_types", `CREATE TABLE IF NOT EXISTS airplane_types (
		id   BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL
	) ENGINE=InnoDB`},
	{"005_airplanes", `CREATE TABLE IF NOT EXISTS airplanes (
		id               BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name             VARCHAR(255) NOT NULL,
		rows_count       INT UNSIGNED NOT NULL,
		seats_in_row     INT UNSIGNED NOT NULL,
		airplane_type_id BIGINT UNSIGNED NOT NULL,
		CONSTRAINT chk_airplanes_rows CHECK (rows_count >= 1),
		CONSTRAINT chk_airplanes_seats CHECK (seats_in_row >= 1),
		CONSTRAINT fk_airplanes_type FOREIGN KEY (airplane_type_id) REFERENCES airplane_types(id) ON DELETE CASCADE
	) ENGINE=InnoDB`},
	{"006_crew", `CREATE TABLE IF NOT EXISTS crew (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		first_name VARCHAR(255) NOT NULL,
		last_name  VARCHAR(255) NOT NULL
	) ENGINE=InnoDB`},
	{"007_routes", `CREATE TABLE IF NOT EXISTS routes (
		id             BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		source_id      BIGINT UNSIGNED NOT NULL,
		destination_id BIGINT UNSIGNED NOT NULL,
		distance       INT UNSIGNED NOT NULL,
		CONSTRAINT fk_routes_source FOREIGN KEY (source_id) REFERENCES airports(id) ON DELETE CASCADE,
		CONSTRAINT fk_routes_destination FOREIGN KEY (destination_id) REFERENCES airports(id) ON DELETE CASCADE
	) ENGINE=InnoDB`},
	{"008_flights", `CREATE TABLE IF NOT EXISTS flights (
		id             BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		number         VARCHAR(64) NOT NULL,
		route_id       BIGINT UNSIGNED NOT NULL,
		airplane_id    BIGINT UNSIGNED NOT NULL,
		departure_time DATETIME NOT NULL,
		arrival_time   DATETIME NOT NULL,
		KEY idx_flights_schedule (departure_time, arrival_time),
		CONSTRAINT fk_flights_route FOREIGN KEY (route_id) REFERENCES routes(id) ON DELETE CASCADE,
		CONSTRAINT fk_flights_airplane FOREIGN KEY (airplane_id) REFERENCES airplanes(id) ON DELETE RESTRICT
	) ENGINE=InnoDB`},
	{"009_flight_crew", `CREATE TABLE IF NOT EXISTS flight_crew (
		flight_id BIGINT UNSIGNED NOT NULL,
		crew_id   BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (flight_id, crew_id),
		CONSTRAINT fk_flight_crew_flight FOREIGN KEY (flight_id) REFERENCES flights(id) ON DELETE CASCADE,
		CONSTRAINT fk_flight_crew_crew FOREIGN KEY (crew_id) REFERENCES crew(id) ON DELETE CASCADE
	) ENGINE=InnoDB`},
	{"010_users", `CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email         VARCHAR(255) NOT NULL,
		first_name    VARCHAR(150) NOT NULL DEFAULT '',
		last_name     VARCHAR(150) NOT NULL DEFAULT '',
		password_hash VARCHAR(255) NOT NULL,
		role          ENUM('ADMIN','CUSTOMER') NOT NULL DEFAULT 'CUSTOMER',
		is_active     TINYINT(1) NOT NULL DEFAULT 1,
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB`},
	{"011_refresh_tokens", `CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_refresh_tokens_hash (token_hash),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB`},
	// orders.user_id has no cascade: account removal moves orders to the
	// placeholder user before the row goes away.
	{"012_orders", `CREATE TABLE IF NOT EXISTS orders (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		created_at DATETIME NOT NULL,
		KEY idx_orders_user (user_id, created_at),
		CONSTRAINT fk_orders_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE RESTRICT
	) ENGINE=InnoDB`},
	{"013_tickets", `CREATE TABLE IF NOT EXISTS tickets (
		id        BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		row_num   INT UNSIGNED NOT NULL,
		seat_num  INT UNSIGNED NOT NULL,
		flight_id BIGINT UNSIGNED NOT NULL,
		order_id  BIGINT UNSIGNED NOT NULL,
		UNIQUE KEY uq_tickets_flight_row_seat (flight_id, row_num, seat_num),
		CONSTRAINT fk_tickets_flight FOREIGN KEY (flight_id) REFERENCES flights(id) ON DELETE CASCADE,
		CONSTRAINT fk_tickets_order FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
	) ENGINE=InnoDB`},
}

// Migrate applies every migration not yet recorded in schema_migrations,
// in order.  It is safe to call on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	const track = `CREATE TABLE IF NOT EXISTS schema_migrations (
		name       VARCHAR(128) PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB`
	if _, err := db.ExecContext(ctx, track); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := map[string]bool{}
	rows, err := db.QueryContext(ctx, "SELECT name FROM schema_migrations")
	if err != nil {
		return err
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return err
		}
		applied[name] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.name] {
			continue
		}
		if _, err := db.ExecContext(ctx, m.stmt); err != nil {
			return fmt.Errorf("migration %s: %w", m.name, err)
		}
		if _, err := db.ExecContext(ctx, "INSERT INTO schema_migrations (name) VALUES (?)", m.name); err != nil {
			return fmt.Errorf("record migration %s: %w", m.name, err)
		}
		log.Printf("applied migration %s", m.name)
	}
	return nil
}
