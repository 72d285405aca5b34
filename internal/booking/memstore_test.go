package booking

import (
	"context"
	"fmt"
	"sync"

	"github.com/iliyamo/airline-booking/internal/model"
)

// memStore is an in-memory Store.  Tickets staged by a transaction are
// checked against committed tickets again at commit time, which mirrors a
// unique index evaluated by the database.
type memStore struct {
	mu         sync.Mutex
	planes     map[uint64]model.Airplane // keyed by flight id
	orders     map[uint64]model.Order
	tickets    map[seatKey]model.Ticket
	nextOrder  uint64
	nextTicket uint64

	// beforeInsert runs before every InsertTicket; tests use it to slip a
	// competing commit in between validation and insert.
	beforeInsert func()
}

func newMemStore() *memStore {
	return &memStore{
		planes:  make(map[uint64]model.Airplane),
		orders:  make(map[uint64]model.Order),
		tickets: make(map[seatKey]model.Ticket),
	}
}

func (m *memStore) addFlight(flightID uint64, rows, seats int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.planes[flightID] = model.Airplane{ID: flightID * 100, Rows: rows, SeatsInRow: seats}
}

// occupy commits a ticket outside of any order-creation flow.
func (m *memStore) occupy(flightID uint64, row, seat int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextTicket++
	m.tickets[seatKey{flightID, row, seat}] = model.Ticket{ID: m.nextTicket, Row: row, Seat: seat, FlightID: flightID}
}

func (m *memStore) counts() (orders, tickets int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders), len(m.tickets)
}

func (m *memStore) FlightAirplane(_ context.Context, flightID uint64) (model.Airplane, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.planes[flightID]
	if !ok {
		return model.Airplane{}, ErrUnknownFlight
	}
	return p, nil
}

func (m *memStore) CountTickets(_ context.Context, flightID uint64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.tickets {
		if k.flightID == flightID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	tx := &memTx{store: m}
	if err := fn(tx); err != nil {
		return err
	}
	return m.commit(tx)
}

func (m *memStore) commit(tx *memTx) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range tx.tickets {
		if _, ok := m.tickets[seatKey{t.FlightID, t.Row, t.Seat}]; ok {
			return fmt.Errorf("commit: %w", ErrSeatTaken)
		}
	}
	for _, o := range tx.orders {
		m.orders[o.ID] = *o
	}
	for _, t := range tx.tickets {
		m.tickets[seatKey{t.FlightID, t.Row, t.Seat}] = t
	}
	return nil
}

type memTx struct {
	store   *memStore
	orders  []*model.Order
	tickets []model.Ticket
}

func (tx *memTx) FlightAirplane(ctx context.Context, flightID uint64) (model.Airplane, error) {
	return tx.store.FlightAirplane(ctx, flightID)
}

func (tx *memTx) SeatTaken(_ context.Context, flightID uint64, row, seat int) (bool, error) {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	_, ok := tx.store.tickets[seatKey{flightID, row, seat}]
	return ok, nil
}

func (tx *memTx) InsertOrder(_ context.Context, o *model.Order) error {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	tx.store.nextOrder++
	o.ID = tx.store.nextOrder
	tx.orders = append(tx.orders, o)
	return nil
}

func (tx *memTx) InsertTicket(_ context.Context, t *model.Ticket) error {
	if tx.store.beforeInsert != nil {
		tx.store.beforeInsert()
	}
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	if _, ok := tx.store.planes[t.FlightID]; !ok {
		return fmt.Errorf("insert ticket: %w", ErrUnknownFlight)
	}
	key := seatKey{t.FlightID, t.Row, t.Seat}
	if _, ok := tx.store.tickets[key]; ok {
		return fmt.Errorf("insert ticket: %w", ErrSeatTaken)
	}
	for _, s := range tx.tickets {
		if s.FlightID == t.FlightID && s.Row == t.Row && s.Seat == t.Seat {
			return fmt.Errorf("insert ticket: %w", ErrSeatTaken)
		}
	}
	tx.store.nextTicket++
	t.ID = tx.store.nextTicket
	tx.tickets = append(tx.tickets, *t)
	return nil
}
