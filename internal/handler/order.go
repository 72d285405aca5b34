package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airline-booking/internal/booking"
	"github.com/iliyamo/airline-booking/internal/model"
	"github.com/iliyamo/airline-booking/internal/queue"
	"github.com/iliyamo/airline-booking/internal/repository"
)

// OrderEngine creates orders atomically.
type OrderEngine interface {
	CreateOrder(ctx context.Context, userID uint64, specs []booking.TicketSpec) (*model.Order, error)
}

// OrderStore reads and cancels a user's orders.
type OrderStore interface {
	ListByUser(ctx context.Context, userID uint64, page, pageSize int) (repository.OrderPage, error)
	DeleteForUser(ctx context.Context, orderID, userID uint64) error
	FlightNumbers(ctx context.Context, ids []uint64) (map[uint64]string, error)
}

// OrderEvents publishes order.created events.
type OrderEvents interface {
	PublishOrderCreated(ctx context.Context, ev queue.OrderCreatedEvent) error
}

// Page sizes of the order list.
const (
	defaultOrderPageSize = 3
	maxOrderPageSize     = 5
)

// OrderHandler serves /v1/orders for the authenticated user.
type OrderHandler struct {
	Engine OrderEngine
	Orders OrderStore
	Events OrderEvents // optional
}

func NewOrderHandler(engine OrderEngine, orders OrderStore, events OrderEvents) *OrderHandler {
	if engine == nil || orders == nil {
		panic("nil dependency passed to NewOrderHandler")
	}
	return &OrderHandler{Engine: engine, Orders: orders, Events: events}
}

type createOrderReq struct {
	Tickets []booking.TicketSpec `json:"tickets"`
}

// Create books every ticket of the body as one order, or none of them.
func (h *OrderHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	order, err := h.Engine.CreateOrder(ctx, uid, req.Tickets)
	if err != nil {
		return renderError(c, err)
	}

	ids := make([]uint64, 0, len(order.Tickets))
	for _, t := range order.Tickets {
		ids = append(ids, t.FlightID)
	}
	if numbers, err := h.Orders.FlightNumbers(ctx, ids); err == nil {
		for i := range order.Tickets {
			order.Tickets[i].FlightNumber = numbers[order.Tickets[i].FlightID]
		}
	}
	h.publish(c, order)
	return c.JSON(http.StatusCreated, order)
}

// publish is best effort; the order is already committed.
func (h *OrderHandler) publish(c echo.Context, o *model.Order) {
	if h.Events == nil {
		return
	}
	ev := queue.OrderCreatedEvent{OrderID: o.ID, UserID: o.UserID, CreatedAt: o.CreatedAt}
	for _, t := range o.Tickets {
		ev.Tickets = append(ev.Tickets, queue.EventTicket{
			FlightID: t.FlightID, FlightNumber: t.FlightNumber, Row: t.Row, Seat: t.Seat,
		})
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), 2*time.Second)
	defer cancel()
	if err := h.Events.PublishOrderCreated(ctx, ev); err != nil {
		c.Logger().Warnf("order %d: publish order.created: %v", o.ID, err)
	}
}

// List returns the caller's orders, newest first, paginated by ?page and
// ?page_size.
func (h *OrderHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	page, size := pagination(c)

	ctx, cancel := dbCtx(c)
	defer cancel()
	out, err := h.Orders.ListByUser(ctx, uid, page, size)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Delete cancels one of the caller's orders and frees its seats.
func (h *OrderHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid order id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Orders.DeleteForUser(ctx, id, uid); err != nil {
		return renderError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func pagination(c echo.Context) (page, size int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	size, _ = strconv.Atoi(c.QueryParam("page_size"))
	if size < 1 {
		size = defaultOrderPageSize
	}
	if size > maxOrderPageSize {
		size = maxOrderPageSize
	}
	return page, size
}
