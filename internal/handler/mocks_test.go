package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/airline-booking/internal/booking"
	"github.com/iliyamo/airline-booking/internal/model"
	"github.com/iliyamo/airline-booking/internal/queue"
	"github.com/iliyamo/airline-booking/internal/repository"
)

type mockEngine struct{ mock.Mock }

func (m *mockEngine) CreateOrder(ctx context.Context, userID uint64, specs []booking.TicketSpec) (*model.Order, error) {
	args := m.Called(ctx, userID, specs)
	o, _ := args.Get(0).(*model.Order)
	return o, args.Error(1)
}

func (m *mockEngine) SeatsAvailable(ctx context.Context, flightID uint64) (int, error) {
	args := m.Called(ctx, flightID)
	return args.Int(0), args.Error(1)
}

type mockOrders struct{ mock.Mock }

func (m *mockOrders) ListByUser(ctx context.Context, userID uint64, page, size int) (repository.OrderPage, error) {
	args := m.Called(ctx, userID, page, size)
	return args.Get(0).(repository.OrderPage), args.Error(1)
}

func (m *mockOrders) DeleteForUser(ctx context.Context, orderID, userID uint64) error {
	return m.Called(ctx, orderID, userID).Error(0)
}

func (m *mockOrders) FlightNumbers(ctx context.Context, ids []uint64) (map[uint64]string, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[uint64]string), args.Error(1)
}

type mockEvents struct{ mock.Mock }

func (m *mockEvents) PublishOrderCreated(ctx context.Context, ev queue.OrderCreatedEvent) error {
	return m.Called(ctx, ev).Error(0)
}

type mockFlights struct{ mock.Mock }

func (m *mockFlights) Search(ctx context.Context, q repository.FlightSearch) ([]repository.FlightRow, error) {
	args := m.Called(ctx, q)
	rows, _ := args.Get(0).([]repository.FlightRow)
	return rows, args.Error(1)
}

func (m *mockFlights) Detail(ctx context.Context, id uint64) (repository.FlightDetail, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(repository.FlightDetail), args.Error(1)
}

func (m *mockFlights) Create(ctx context.Context, f *model.Flight) error {
	return m.Called(ctx, f).Error(0)
}

func (m *mockFlights) Update(ctx context.Context, f model.Flight) error {
	return m.Called(ctx, f).Error(0)
}

func (m *mockFlights) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

type mockFleet struct {
	mock.Mock
	FleetStore // unimplemented methods panic
}

func (m *mockFleet) ListAirplanes(ctx context.Context) ([]model.Airplane, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Airplane), args.Error(1)
}

func (m *mockFleet) CreateAirplane(ctx context.Context, p *model.Airplane) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockFleet) UpdateAirplane(ctx context.Context, p model.Airplane) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockFleet) DeleteAirplane(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

type mockRoutes struct {
	mock.Mock
	RouteStore
}

func (m *mockRoutes) Create(ctx context.Context, r *model.Route) error {
	return m.Called(ctx, r).Error(0)
}
