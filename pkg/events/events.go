package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/waynex/travels-api/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject)

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Event subjects
const (
	UserRegistered  = "user.registered"
	UserVerified    = "user.verified"
	BookingCreated  = "booking.created"
	BookingUpdated  = "booking.updated"
	BookingCanceled = "booking.canceled"
	InvoicePaid     = "invoice.paid"
)

type UserRegisteredEvent struct {
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type BookingCreatedEvent struct {
	BookingID   int64     `json:"booking_id"`
	BookingRef  string    `json:"booking_ref"`
	UserID      int64     `json:"user_id"`
	UserEmail   string    `json:"user_email"`
	OrderType   string    `json:"order_type"`
	PackageName string    `json:"package_name"`
	FinalAmount string    `json:"final_amount"`
	TravelDate  time.Time `json:"travel_date"`
	CreatedAt   time.Time `json:"created_at"`
}

type InvoicePaidEvent struct {
	InvoiceID     int64  `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number"`
	BookingID     int64  `json:"booking_id"`
	PaidAmount    string `json:"paid_amount"`
	BalanceDue    string `json:"balance_due"`
}

// NoopEventBus is used in tests and when NATS is unavailable.
type NoopEventBus struct{}

func (NoopEventBus) Publish(ctx context.Context, subject string, data interface{}) error { return nil }
func (NoopEventBus) Subscribe(string, func(msg *Message)) error                          { return nil }
func (NoopEventBus) QueueSubscribe(string, string, func(msg *Message)) error             { return nil }
func (NoopEventBus) Close() error                                                        { return nil }
