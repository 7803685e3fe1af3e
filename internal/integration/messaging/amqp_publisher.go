// Package messaging publishes domain events to a message broker.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
)

const (
	// RoutingKeySynchronized is the routing key of definition synchronization events.
	RoutingKeySynchronized = "definition.synchronized"
	// RoutingKeyOccurrenceCompleted is the routing key of occurrence completion events.
	RoutingKeyOccurrenceCompleted = "occurrence.completed"

	publishTimeout = 5 * time.Second
)

// channel is the subset of *amqp091.Channel used for publishing.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// AMQPPublisher implements adapter.EventPublisher over a RabbitMQ topic exchange.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	channel  channel
	exchange string
}

// NewAMQPPublisher dials the broker and declares a durable topic exchange.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	slog.Info("AMQP publisher connected", "exchange", exchange)

	return &AMQPPublisher{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
	}, nil
}

// PublishSynchronized publishes a definition.synchronized event.
func (p *AMQPPublisher) PublishSynchronized(ctx context.Context, event adapter.SynchronizationEvent) error {
	return p.publish(ctx, RoutingKeySynchronized, event)
}

// PublishOccurrenceCompleted publishes an occurrence.completed event.
func (p *AMQPPublisher) PublishOccurrenceCompleted(ctx context.Context, event adapter.OccurrenceCompletedEvent) error {
	return p.publish(ctx, RoutingKeyOccurrenceCompleted, event)
}

func (p *AMQPPublisher) publish(ctx context.Context, routingKey string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	// Channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	slog.DebugContext(ctx, "event published",
		"exchange", p.exchange,
		"routing_key", routingKey,
	)
	return nil
}

// Close closes the channel and the connection.
func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NoopPublisher discards every event. It is used when no broker is configured.
type NoopPublisher struct{}

// PublishSynchronized implements adapter.EventPublisher.
func (NoopPublisher) PublishSynchronized(context.Context, adapter.SynchronizationEvent) error {
	return nil
}

// PublishOccurrenceCompleted implements adapter.EventPublisher.
func (NoopPublisher) PublishOccurrenceCompleted(context.Context, adapter.OccurrenceCompletedEvent) error {
	return nil
}
