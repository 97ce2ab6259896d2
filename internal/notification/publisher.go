package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Routing keys for lifecycle events.
const (
	OrderCompleted       = "order.completed"
	OrderFailed          = "order.failed"
	InquiryStaffAssigned = "inquiry.staff_assigned"
	RSVPSubmitted        = "invitation.rsvp_submitted"
)

// Publisher delivers an event payload under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// OrderEvent is published when an order reaches a terminal state.
type OrderEvent struct {
	OrderID         int64     `json:"order_id"`
	UserID          int64     `json:"user_id"`
	Kind            string    `json:"kind"`
	ItemID          int64     `json:"item_id"`
	PaymentIntentID string    `json:"payment_intent_id"`
	Amount          string    `json:"amount"`
	Currency        string    `json:"currency"`
	Status          string    `json:"status"`
	OccurredAt      time.Time `json:"occurred_at"`
}

type StaffAssignedEvent struct {
	InquiryID                 int64     `json:"inquiry_id"`
	PhotographerApplicationID *int64    `json:"photographer_application_id"`
	DecoratorApplicationID    *int64    `json:"decorator_application_id"`
	CateringApplicationID     *int64    `json:"catering_application_id"`
	OccurredAt                time.Time `json:"occurred_at"`
}

// RSVPEvent is published when a guest answers or changes an answer.
type RSVPEvent struct {
	RSVPID     int64     `json:"rsvp_id"`
	OrderID    int64     `json:"order_id"`
	TemplateID int64     `json:"template_id"`
	GuestEmail string    `json:"guest_email"`
	Attendance int       `json:"attendance"`
	Updated    bool      `json:"updated"`
	OccurredAt time.Time `json:"occurred_at"`
}

const exchangeKind = "topic"

// amqpChannel is the part of *amqp.Channel the publisher uses.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQP publishes JSON messages to a durable topic exchange.
type AMQP struct {
	conn     *amqp.Connection
	channel  amqpChannel
	exchange string
	log      *zap.Logger
}

func NewAMQP(url, exchange string, log *zap.Logger) (*AMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, exchangeKind, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp exchange declare: %w", err)
	}

	return newAMQP(conn, ch, exchange, log), nil
}

func newAMQP(conn *amqp.Connection, ch amqpChannel, exchange string, log *zap.Logger) *AMQP {
	if log == nil {
		log = zap.NewNop()
	}
	return &AMQP{conn: conn, channel: ch, exchange: exchange, log: log}
}

func (p *AMQP) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	p.log.Debug("event published", zap.String("exchange", p.exchange), zap.String("routing_key", routingKey))
	return nil
}

func (p *AMQP) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// Log writes events to the logger when no broker is configured.
type Log struct {
	log *zap.Logger
}

func NewLog(log *zap.Logger) *Log {
	if log == nil {
		log = zap.NewNop()
	}
	return &Log{log: log}
}

func (p *Log) Publish(_ context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	p.log.Info("event", zap.String("routing_key", routingKey), zap.ByteString("payload", body))
	return nil
}
