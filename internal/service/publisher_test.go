package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/airline-booking/internal/queue"
)

func TestPublisher_NoBroker(t *testing.T) {
	err := NewPublisher("", "order.created").PublishOrderCreated(context.Background(), queue.OrderCreatedEvent{OrderID: 1})
	assert.ErrorIs(t, err, ErrNoBroker)

	var nilPub *Publisher
	assert.ErrorIs(t, nilPub.PublishOrderCreated(context.Background(), queue.OrderCreatedEvent{}), ErrNoBroker)
	assert.NoError(t, NewPublisher("", "q").Close())
}
