package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/airline-booking/internal/booking"
	"github.com/iliyamo/airline-booking/internal/model"
	"github.com/iliyamo/airline-booking/internal/repository"
)

// newCtx builds an echo context for an authenticated user (0 = anonymous).
func newCtx(method, target, body string, userID uint64) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("user_id", userID)
		c.Set("role", model.RoleCustomer)
	}
	return c, rec
}

func TestOrderHandler_Create(t *testing.T) {
	engine := new(mockEngine)
	orders := new(mockOrders)
	events := new(mockEvents)
	h := NewOrderHandler(engine, orders, events)

	specs := []booking.TicketSpec{{Row: 1, Seat: 1, FlightID: 5}, {Row: 1, Seat: 2, FlightID: 5}}
	created := &model.Order{
		ID: 10, UserID: 7, CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Tickets: []model.Ticket{{ID: 1, Row: 1, Seat: 1, FlightID: 5}, {ID: 2, Row: 1, Seat: 2, FlightID: 5}},
	}
	engine.On("CreateOrder", mock.Anything, uint64(7), specs).Return(created, nil)
	orders.On("FlightNumbers", mock.Anything, []uint64{5, 5}).Return(map[uint64]string{5: "PS101"}, nil)
	events.On("PublishOrderCreated", mock.Anything, mock.AnythingOfType("queue.OrderCreatedEvent")).Return(nil)

	c, rec := newCtx(http.MethodPost, "/v1/orders",
		`{"tickets":[{"row":1,"seat":1,"flight":5},{"row":1,"seat":2,"flight":5}]}`, 7)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var got model.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, uint64(10), got.ID)
	require.Len(t, got.Tickets, 2)
	assert.Equal(t, "PS101", got.Tickets[0].FlightNumber)
	engine.AssertExpectations(t)
	events.AssertNumberOfCalls(t, "PublishOrderCreated", 1)
}

func TestOrderHandler_CreateErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   map[string]any
	}{
		{
			name:       "seat out of range",
			err:        &booking.TicketError{Index: 1, Field: "row", Err: &booking.FieldError{Field: "row", Value: 40, Max: 30}},
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"error": "out_of_range", "ticket_index": float64(1), "field": "row"},
		},
		{
			name:       "seat taken",
			err:        &booking.TicketError{Index: 0, Field: "seat", Err: booking.ErrSeatTaken},
			wantStatus: http.StatusConflict,
			wantBody:   map[string]any{"error": "seat_taken", "ticket_index": float64(0), "field": "seat"},
		},
		{
			name:       "unknown flight",
			err:        &booking.TicketError{Index: 2, Field: "flight", Err: booking.ErrUnknownFlight},
			wantStatus: http.StatusNotFound,
			wantBody:   map[string]any{"error": "unknown_flight", "ticket_index": float64(2), "field": "flight"},
		},
		{
			name:       "empty order",
			err:        booking.ErrEmptyOrder,
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"error": "empty_order"},
		},
		{
			name:       "lost race at commit",
			err:        errors.Join(booking.ErrSeatTaken, errors.New("Error 1062")),
			wantStatus: http.StatusConflict,
			wantBody:   map[string]any{"error": "seat_taken"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := new(mockEngine)
			engine.On("CreateOrder", mock.Anything, uint64(7), mock.Anything).Return(nil, tt.err)
			h := NewOrderHandler(engine, new(mockOrders), nil)

			c, rec := newCtx(http.MethodPost, "/v1/orders", `{"tickets":[]}`, 7)
			require.NoError(t, h.Create(c))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			for k, v := range tt.wantBody {
				assert.Equal(t, v, body[k], k)
			}
		})
	}
}

func TestOrderHandler_RequiresUser(t *testing.T) {
	h := NewOrderHandler(new(mockEngine), new(mockOrders), nil)
	c, rec := newCtx(http.MethodPost, "/v1/orders", `{}`, 0)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOrderHandler_ListPagination(t *testing.T) {
	tests := []struct {
		query    string
		page     int
		pageSize int
	}{
		{"", 1, 3},
		{"?page=2", 2, 3},
		{"?page=0&page_size=5", 1, 5},
		{"?page_size=50", 1, 5},
		{"?page=x&page_size=-1", 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			orders := new(mockOrders)
			orders.On("ListByUser", mock.Anything, uint64(3), tt.page, tt.pageSize).
				Return(repository.OrderPage{Page: tt.page, Results: []model.Order{}}, nil)
			h := NewOrderHandler(new(mockEngine), orders, nil)

			c, rec := newCtx(http.MethodGet, "/v1/orders"+tt.query, "", 3)
			require.NoError(t, h.List(c))
			assert.Equal(t, http.StatusOK, rec.Code)
			orders.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_Delete(t *testing.T) {
	orders := new(mockOrders)
	orders.On("DeleteForUser", mock.Anything, uint64(4), uint64(3)).Return(nil)
	orders.On("DeleteForUser", mock.Anything, uint64(5), uint64(3)).Return(repository.ErrNotFound)
	h := NewOrderHandler(new(mockEngine), orders, nil)

	for id, want := range map[string]int{"4": http.StatusNoContent, "5": http.StatusNotFound, "x": http.StatusBadRequest} {
		c, rec := newCtx(http.MethodDelete, "/v1/orders/"+id, "", 3)
		c.SetParamNames("id")
		c.SetParamValues(id)
		require.NoError(t, h.Delete(c))
		assert.Equal(t, want, rec.Code, id)
	}
}
