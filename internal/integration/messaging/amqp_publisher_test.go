package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
)

type published struct {
	exchange string
	key      string
	msg      amqp091.Publishing
}

type fakeChannel struct {
	messages []published
	err      error
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.messages = append(c.messages, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (c *fakeChannel) Close() error { return nil }

func TestAMQPPublisher(t *testing.T) {
	t.Run("publishes synchronization events", func(t *testing.T) {
		ch := &fakeChannel{}
		publisher := &AMQPPublisher{channel: ch, exchange: "recurring-payments"}
		event := adapter.SynchronizationEvent{
			DefinitionID: uuid.New(),
			SyncedAt:     time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			Created:      3,
		}

		require.NoError(t, publisher.PublishSynchronized(context.Background(), event))

		require.Len(t, ch.messages, 1)
		msg := ch.messages[0]
		assert.Equal(t, "recurring-payments", msg.exchange)
		assert.Equal(t, RoutingKeySynchronized, msg.key)
		assert.Equal(t, "application/json", msg.msg.ContentType)
		assert.Equal(t, amqp091.Persistent, msg.msg.DeliveryMode)

		var decoded adapter.SynchronizationEvent
		require.NoError(t, json.Unmarshal(msg.msg.Body, &decoded))
		assert.Equal(t, event.DefinitionID, decoded.DefinitionID)
		assert.Equal(t, 3, decoded.Created)
	})

	t.Run("publishes completion events", func(t *testing.T) {
		ch := &fakeChannel{}
		publisher := &AMQPPublisher{channel: ch, exchange: "recurring-payments"}

		err := publisher.PublishOccurrenceCompleted(context.Background(), adapter.OccurrenceCompletedEvent{
			OccurrenceID: uuid.New(),
			ActualAmount: decimal.NewFromInt(42),
		})
		require.NoError(t, err)

		require.Len(t, ch.messages, 1)
		assert.Equal(t, RoutingKeyOccurrenceCompleted, ch.messages[0].key)
		assert.Contains(t, string(ch.messages[0].msg.Body), `"actual_amount":"42"`)
	})

	t.Run("wraps broker errors", func(t *testing.T) {
		brokerErr := errors.New("channel closed")
		publisher := &AMQPPublisher{channel: &fakeChannel{err: brokerErr}, exchange: "recurring-payments"}

		err := publisher.PublishSynchronized(context.Background(), adapter.SynchronizationEvent{})
		assert.ErrorIs(t, err, brokerErr)
	})
}

func TestNoopPublisher(t *testing.T) {
	var publisher adapter.EventPublisher = NoopPublisher{}

	assert.NoError(t, publisher.PublishSynchronized(context.Background(), adapter.SynchronizationEvent{}))
	assert.NoError(t, publisher.PublishOccurrenceCompleted(context.Background(), adapter.OccurrenceCompletedEvent{}))
}
