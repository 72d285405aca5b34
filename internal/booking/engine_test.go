package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/airline-booking/internal/model"
)

const flightF uint64 = 7

func newTestEngine(t *testing.T) (*Engine, *memStore) {
	t.Helper()
	store := newMemStore()
	store.addFlight(flightF, 30, 6)
	e := NewEngine(store)
	e.now = func() time.Time { return time.Date(2024, 9, 1, 12, 0, 0, 0, time.FixedZone("X", 3600)) }
	return e, store
}

func TestEngine_Scenario(t *testing.T) {
	ctx := context.Background()
	e, store := newTestEngine(t)

	order, err := e.CreateOrder(ctx, 42, []TicketSpec{
		{Row: 1, Seat: 1, FlightID: flightF},
		{Row: 1, Seat: 2, FlightID: flightF},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), order.UserID)
	assert.NotZero(t, order.ID)
	assert.Equal(t, time.UTC, order.CreatedAt.Location())
	require.Len(t, order.Tickets, 2)
	assert.Equal(t, 1, order.Tickets[0].Seat)
	assert.Equal(t, 2, order.Tickets[1].Seat)
	for _, tk := range order.Tickets {
		assert.Equal(t, order.ID, tk.OrderID)
		assert.NotZero(t, tk.ID)
	}

	avail, err := e.SeatsAvailable(ctx, flightF)
	require.NoError(t, err)
	assert.Equal(t, 178, avail)

	_, err = e.CreateOrder(ctx, 42, []TicketSpec{{Row: 1, Seat: 1, FlightID: flightF}})
	assert.ErrorIs(t, err, ErrSeatTaken)

	_, err = e.CreateOrder(ctx, 42, []TicketSpec{{Row: 40, Seat: 1, FlightID: flightF}})
	require.ErrorIs(t, err, ErrOutOfRange)
	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "row", fe.Field)
	assert.Equal(t, 30, fe.Max)

	orders, tickets := store.counts()
	assert.Equal(t, 1, orders)
	assert.Equal(t, 2, tickets)
}

func TestEngine_RejectsWholeOrder(t *testing.T) {
	tests := []struct {
		name      string
		specs     []TicketSpec
		wantErr   error
		wantIndex int
		wantField string
	}{
		{
			name: "valid then out of range seat",
			specs: []TicketSpec{
				{Row: 2, Seat: 2, FlightID: flightF},
				{Row: 2, Seat: 7, FlightID: flightF},
			},
			wantErr:   ErrOutOfRange,
			wantIndex: 1,
			wantField: "seat",
		},
		{
			name: "same seat twice in one order",
			specs: []TicketSpec{
				{Row: 3, Seat: 3, FlightID: flightF},
				{Row: 3, Seat: 3, FlightID: flightF},
			},
			wantErr:   ErrSeatTaken,
			wantIndex: 1,
			wantField: "seat",
		},
		{
			name: "unknown flight",
			specs: []TicketSpec{
				{Row: 1, Seat: 1, FlightID: flightF},
				{Row: 1, Seat: 1, FlightID: 999},
			},
			wantErr:   ErrUnknownFlight,
			wantIndex: 1,
			wantField: "flight",
		},
		{
			name: "row zero",
			specs: []TicketSpec{
				{Row: 0, Seat: 1, FlightID: flightF},
			},
			wantErr:   ErrOutOfRange,
			wantIndex: 0,
			wantField: "row",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, store := newTestEngine(t)
			order, err := e.CreateOrder(context.Background(), 1, tt.specs)
			assert.Nil(t, order)
			require.ErrorIs(t, err, tt.wantErr)

			var te *TicketError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tt.wantIndex, te.Index)
			assert.Equal(t, tt.wantField, te.Field)

			orders, tickets := store.counts()
			assert.Zero(t, orders)
			assert.Zero(t, tickets)
		})
	}
}

func TestEngine_EmptyOrder(t *testing.T) {
	e, store := newTestEngine(t)
	_, err := e.CreateOrder(context.Background(), 1, nil)
	assert.ErrorIs(t, err, ErrEmptyOrder)
	orders, _ := store.counts()
	assert.Zero(t, orders)
}

func TestEngine_SameSeatOnDifferentFlights(t *testing.T) {
	e, store := newTestEngine(t)
	store.addFlight(8, 30, 6)
	order, err := e.CreateOrder(context.Background(), 1, []TicketSpec{
		{Row: 5, Seat: 5, FlightID: flightF},
		{Row: 5, Seat: 5, FlightID: 8},
	})
	require.NoError(t, err)
	assert.Len(t, order.Tickets, 2)
}

func TestEngine_InsertCollisionMapsToTicket(t *testing.T) {
	e, store := newTestEngine(t)
	var once sync.Once
	// Another writer commits row 9 seat 2 after validation has passed.
	store.beforeInsert = func() {
		once.Do(func() { store.occupy(flightF, 9, 2) })
	}

	_, err := e.CreateOrder(context.Background(), 1, []TicketSpec{
		{Row: 9, Seat: 1, FlightID: flightF},
		{Row: 9, Seat: 2, FlightID: flightF},
	})
	require.ErrorIs(t, err, ErrSeatTaken)
	var te *TicketError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 1, te.Index)

	orders, tickets := store.counts()
	assert.Zero(t, orders)
	assert.Equal(t, 1, tickets, "only the competing ticket is stored")
}

func TestEngine_FlightRemovedBeforeInsertMapsToTicket(t *testing.T) {
	e, store := newTestEngine(t)
	store.addFlight(8, 10, 4)
	store.beforeInsert = func() {
		store.mu.Lock()
		delete(store.planes, 8)
		store.mu.Unlock()
	}

	_, err := e.CreateOrder(context.Background(), 1, []TicketSpec{
		{Row: 1, Seat: 1, FlightID: flightF},
		{Row: 1, Seat: 1, FlightID: 8},
	})
	require.ErrorIs(t, err, ErrUnknownFlight)
	var te *TicketError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 1, te.Index)
	assert.Equal(t, "flight", te.Field)

	orders, tickets := store.counts()
	assert.Zero(t, orders)
	assert.Zero(t, tickets)
}

func TestEngine_ConcurrentBookingsOfOneSeat(t *testing.T) {
	e, store := newTestEngine(t)
	const racers = 16

	var (
		wg       sync.WaitGroup
		start    = make(chan struct{})
		mu       sync.Mutex
		wins     int
		conflict int
	)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(user uint64) {
			defer wg.Done()
			<-start
			_, err := e.CreateOrder(context.Background(), user, []TicketSpec{{Row: 12, Seat: 4, FlightID: flightF}})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrSeatTaken):
				conflict++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(uint64(i + 1))
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, racers-1, conflict)
	orders, tickets := store.counts()
	assert.Equal(t, 1, orders)
	assert.Equal(t, 1, tickets)

	avail, err := e.SeatsAvailable(context.Background(), flightF)
	require.NoError(t, err)
	assert.Equal(t, 179, avail)
}

func TestEngine_SeatsAvailableUnknownFlight(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.SeatsAvailable(context.Background(), 404)
	assert.ErrorIs(t, err, ErrUnknownFlight)
}

type failingSource struct{ err error }

func (f failingSource) FlightAirplane(context.Context, uint64) (model.Airplane, error) {
	return model.Airplane{}, f.err
}

func (f failingSource) SeatTaken(context.Context, uint64, int, int) (bool, error) {
	return false, f.err
}

func TestValidateTickets_PropagatesStorageErrors(t *testing.T) {
	boom := errors.New("connection reset")
	err := ValidateTickets(context.Background(), failingSource{err: boom}, []TicketSpec{{Row: 1, Seat: 1, FlightID: 1}})
	assert.ErrorIs(t, err, boom)
	var te *TicketError
	assert.False(t, errors.As(err, &te))
}
