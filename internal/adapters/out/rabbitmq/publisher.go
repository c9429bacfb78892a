// Package rabbitmq publishes order events to the fulfillment channel: a durable
// topic exchange with keys order.created.<kind> and order.status.<status>.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"restaurant/internal/core/domain/model/order"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// DefaultExchange is the topic exchange order events go to.
	DefaultExchange = "orders_topic"

	publishTimeout = 5 * time.Second
)

var ErrPublishNacked = errors.New("publish NACK from broker")

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends order events with publisher confirms. Publishes are serialized so
// every confirmation matches its message.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       channel
	acks     <-chan amqp.Confirmation
	exchange string
	logger   *slog.Logger
}

// Dial connects, declares the exchange and enables publisher confirms.
func Dial(url, exchange string, logger *slog.Logger) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err = ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	if err = ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("enable confirms: %w", err)
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	p := newPublisher(ch, acks, exchange, logger)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, acks <-chan amqp.Confirmation, exchange string, logger *slog.Logger) *Publisher {
	return &Publisher{
		ch:       ch,
		acks:     acks,
		exchange: exchange,
		logger:   logger.With("component", "order_event_publisher"),
	}
}

func (p *Publisher) OrderCreated(ctx context.Context, o *order.Order) error {
	return p.publish(ctx, eventCreated, o)
}

func (p *Publisher) OrderStatusChanged(ctx context.Context, o *order.Order) error {
	return p.publish(ctx, eventStatusChanged, o)
}

func (p *Publisher) publish(ctx context.Context, event string, o *order.Order) error {
	body, err := json.Marshal(newOrderMessage(event, o))
	if err != nil {
		return fmt.Errorf("marshal order message: %w", err)
	}
	key := routingKey(event, o)

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		DeliveryMode:  amqp.Persistent,
		ContentType:   "application/json",
		Body:          body,
		MessageId:     fmt.Sprintf("%s-%d", o.ID(), time.Now().UnixNano()),
		CorrelationId: o.Number(),
		Timestamp:     time.Now().UTC(),
		Type:          event,
		Headers:       amqp.Table{"x-source": "restaurant"},
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}

	if p.acks != nil {
		select {
		case conf, ok := <-p.acks:
			if !ok {
				return fmt.Errorf("publish %s: %w", key, amqp.ErrClosed)
			}
			if !conf.Ack {
				return fmt.Errorf("publish %s: %w", key, ErrPublishNacked)
			}
		case <-ctx.Done():
			return fmt.Errorf("publish %s: %w", key, ctx.Err())
		}
	}

	p.logger.DebugContext(ctx, "order event published", "routing_key", key, "order_number", o.Number())
	return nil
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.ch.Close()
	if p.conn != nil {
		err = errors.Join(err, p.conn.Close())
	}
	return err
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) OrderCreated(context.Context, *order.Order) error       { return nil }
func (NopPublisher) OrderStatusChanged(context.Context, *order.Order) error { return nil }
