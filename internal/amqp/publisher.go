package amqp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
	"github.com/tivecs/finance/finance-backend/internal/event"
)

const publishTimeout = 5 * time.Second

// Channel is the subset of *amqp091.Channel the publisher uses
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher publishes change events to a durable topic exchange.
// The routing key is the event type, e.g. "expense.created".
type Publisher struct {
	conn     *amqp091.Connection
	channel  Channel
	exchange string
	mu       sync.Mutex
}

// Ensure Publisher implements event.Publisher
var _ event.Publisher = (*Publisher)(nil)

// NewPublisher dials the broker and declares the exchange
func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p, err := NewPublisherWithChannel(channel, exchange)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

// NewPublisherWithChannel declares the exchange on an already open channel
func NewPublisherWithChannel(channel Channel, exchange string) (*Publisher, error) {
	err := channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Publisher{channel: channel, exchange: exchange}, nil
}

// Publish implements event.Publisher. Failures are logged and dropped.
func (p *Publisher) Publish(ownerID uuid.UUID, ev event.Event) {
	msg := &ChangeMessage{OwnerID: ownerID, Event: ev}
	body, err := msg.ToJSON()
	if err != nil {
		log.Error().Err(err).Str("event_type", ev.Type).Msg("Failed to marshal change message")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	p.mu.Lock()
	err = p.channel.PublishWithContext(
		ctx,
		p.exchange, // exchange
		ev.Type,    // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    ev.Timestamp,
			Headers:      amqp091.Table{"owner_id": ownerID.String()},
			Body:         body,
		},
	)
	p.mu.Unlock()

	if err != nil {
		log.Warn().
			Err(err).
			Str("owner_id", ownerID.String()).
			Str("event_type", ev.Type).
			Str("exchange", p.exchange).
			Msg("Failed to publish change message")
		return
	}

	log.Debug().
		Str("owner_id", ownerID.String()).
		Str("event_type", ev.Type).
		Str("exchange", p.exchange).
		Msg("Published change message")
}

// Close closes the channel and the connection
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
