package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_UniqueOrderedNames(t *testing.T) {
	seen := map[string]bool{}
	prev := ""
	for _, m := range migrations {
		assert.False(t, seen[m.name], "duplicate migration %s", m.name)
		assert.Greater(t, m.name, prev)
		seen[m.name] = true
		prev = m.name
	}
}

func TestMigrations_TicketUniqueness(t *testing.T) {
	var tickets string
	for _, m := range migrations {
		if strings.HasSuffix(m.name, "_tickets") {
			tickets = m.stmt
		}
	}
	require.NotEmpty(t, tickets)
	assert.Contains(t, tickets, "UNIQUE KEY uq_tickets_flight_row_seat (flight_id, row_num, seat_num)")
	assert.Contains(t, tickets, "REFERENCES flights(id) ON DELETE CASCADE")
	assert.Contains(t, tickets, "REFERENCES orders(id) ON DELETE CASCADE")
}

func TestMigrations_AirplaneIsProtected(t *testing.T) {
	for _, m := range migrations {
		if strings.HasSuffix(m.name, "_flights") {
			assert.Contains(t, m.stmt, "REFERENCES airplanes(id) ON DELETE RESTRICT")
			return
		}
	}
	t.Fatal("flights migration missing")
}

func TestOptions_DSN(t *testing.T) {
	dsn := Options{User: "app", Pass: "secret", Host: "db", Port: "3306", Name: "airline"}.DSN()
	assert.True(t, strings.HasPrefix(dsn, "app:secret@tcp(db:3306)/airline?"))
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}
