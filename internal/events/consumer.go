package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/models"
)

// Payment event types published by the payment service.
const (
	PaymentEventCompleted = "payment.completed"
	PaymentEventFailed    = "payment.failed"
	PaymentEventRefunded  = "payment.refunded"
)

// PaymentRecorder stores payments reported by the payment service.
type PaymentRecorder interface {
	RecordPayment(ctx context.Context, event *models.PaymentEvent, status models.PaymentStatus) error
}

// KafkaConsumer consumes payment events from Kafka.
type KafkaConsumer struct {
	reader   *kafka.Reader
	recorder PaymentRecorder
	logger   *logging.Logger
	stopCh   chan struct{}
}

// NewKafkaConsumer creates a new Kafka-based event consumer.
func NewKafkaConsumer(cfg config.KafkaConfig, recorder PaymentRecorder) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.PaymentsTopic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})

	return &KafkaConsumer{
		reader:   reader,
		recorder: recorder,
		logger:   logging.NewLogger("kafka-consumer"),
		stopCh:   make(chan struct{}),
	}
}

// Start begins consuming events. It returns when ctx is done or Stop is called.
func (c *KafkaConsumer) Start(ctx context.Context) error {
	c.logger.Info("Starting Kafka consumer")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopCh:
			c.logger.Info("Kafka consumer stopped")
			return nil
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				select {
				case <-c.stopCh:
					c.logger.Info("Kafka consumer stopped")
					return nil
				default:
				}
				c.logger.Error("Failed to read message", logging.Fields{"error": err.Error()})
				continue
			}

			c.handleMessage(ctx, msg)
		}
	}
}

// Stop stops the consumer.
func (c *KafkaConsumer) Stop() error {
	close(c.stopCh)
	return c.reader.Close()
}

func (c *KafkaConsumer) handleMessage(ctx context.Context, msg kafka.Message) {
	c.logger.Debug("Received message", logging.Fields{
		"topic":     msg.Topic,
		"partition": msg.Partition,
		"offset":    msg.Offset,
	})

	var event models.PaymentEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Error("Failed to unmarshal event", logging.Fields{"error": err.Error()})
		return
	}

	var status models.PaymentStatus
	switch event.Type {
	case PaymentEventCompleted:
		status = models.PaymentStatusCompleted
	case PaymentEventFailed:
		status = models.PaymentStatusFailed
	case PaymentEventRefunded:
		status = models.PaymentStatusRefunded
	default:
		c.logger.Debug("Ignoring unknown event type", logging.Fields{"type": event.Type})
		return
	}

	c.logger.Info("Handling payment event", logging.Fields{
		"type":       event.Type,
		"payment_id": event.TransactionID,
		"order_id":   event.OrderID,
	})

	if err := c.recorder.RecordPayment(ctx, &event, status); err != nil {
		c.logger.Error("Failed to record payment", logging.Fields{
			"payment_id": event.TransactionID,
			"error":      err.Error(),
		})
	}
}
