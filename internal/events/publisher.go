package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/middleware"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/models"
)

// EventType represents the type of checkout event.
type EventType string

const (
	EventTypePaymentDetailsSubmitted EventType = "payment.details_submitted"
)

// CheckoutEvent represents a checkout-related event.
type CheckoutEvent struct {
	ID            string            `json:"id"`
	Type          EventType         `json:"type"`
	UserID        string            `json:"user_id"`
	Data          json.RawMessage   `json:"data"`
	Metadata      map[string]string `json:"metadata"`
	Timestamp     time.Time         `json:"timestamp"`
	CorrelationID string            `json:"correlation_id,omitempty"`
}

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes checkout events to Kafka.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *logging.Logger
}

// NewKafkaPublisher creates a new Kafka-based event publisher.
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.CheckoutTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaPublisher{
		writer: writer,
		topic:  cfg.CheckoutTopic,
		logger: logging.NewLogger("kafka-publisher"),
	}
}

// PublishPaymentDetailsSubmitted publishes a redacted payment details
// submission.
func (p *KafkaPublisher) PublishPaymentDetailsSubmitted(ctx context.Context, submission *models.PaymentSubmission) error {
	p.logger.Debug("Publishing payment details submitted event", logging.Fields{
		"user_id": submission.UserID,
	})

	data, err := json.Marshal(submission)
	if err != nil {
		return err
	}

	event := newEvent(ctx, EventTypePaymentDetailsSubmitted, submission.UserID, data)
	return p.publish(ctx, event)
}

func newEvent(ctx context.Context, eventType EventType, userID string, data []byte) *CheckoutEvent {
	return &CheckoutEvent{
		ID:            uuid.NewString(),
		Type:          eventType,
		UserID:        userID,
		Data:          data,
		Metadata:      map[string]string{"source": "checkout-service"},
		Timestamp:     time.Now().UTC(),
		CorrelationID: middleware.RequestIDFrom(ctx),
	}
}

func (p *KafkaPublisher) publish(ctx context.Context, event *CheckoutEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.UserID),
		Value: eventData,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish event", logging.Fields{
			"event_id":   event.ID,
			"event_type": event.Type,
			"topic":      p.topic,
			"error":      err.Error(),
		})
		return err
	}

	p.logger.Info("Event published", logging.Fields{
		"event_id":   event.ID,
		"event_type": event.Type,
		"topic":      p.topic,
	})

	return nil
}

// Close closes the Kafka writer.
func (p *KafkaPublisher) Close() error {
	p.logger.Info("Closing Kafka publisher")
	return p.writer.Close()
}

// NoopPublisher drops every event. It is used when checkout events are
// disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishPaymentDetailsSubmitted(ctx context.Context, submission *models.PaymentSubmission) error {
	return nil
}

// MockEventPublisher records published events for tests.
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []*CheckoutEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{
		Events: make([]*CheckoutEvent, 0),
	}
}

func (m *MockEventPublisher) PublishPaymentDetailsSubmitted(ctx context.Context, submission *models.PaymentSubmission) error {
	data, err := json.Marshal(submission)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, newEvent(ctx, EventTypePaymentDetailsSubmitted, submission.UserID, data))
	return nil
}
