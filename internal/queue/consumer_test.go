package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatLine(t *testing.T) {
	ev := OrderCreatedEvent{
		OrderID:   12,
		UserID:    3,
		CreatedAt: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
		Tickets: []EventTicket{
			{FlightID: 1, FlightNumber: "PS101", Row: 1, Seat: 2},
			{FlightID: 4, Row: 10, Seat: 6},
		},
	}
	assert.Equal(t,
		"[2026-05-01T10:00:00Z] Order created | order_id=12 | user_id=3 | tickets=2 | seats=[PS101/1-2,#4/10-6]\n",
		formatLine(ev))
}

func TestConsumerHandle_AppendsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "orders.log")
	c := Consumer{LogPath: path}

	for _, id := range []uint64{1, 2} {
		body, err := json.Marshal(OrderCreatedEvent{OrderID: id, UserID: 5})
		require.NoError(t, err)
		require.NoError(t, c.handle(body))
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "order_id=1 ")
	assert.Contains(t, string(data), "order_id=2 ")
}

func TestConsumerHandle_RejectsBadMessages(t *testing.T) {
	c := Consumer{LogPath: filepath.Join(t.TempDir(), "orders.log")}
	assert.Error(t, c.handle([]byte("{not json")))
	assert.Error(t, c.handle([]byte(`{"user_id":1}`)))
}
