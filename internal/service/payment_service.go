package service

import (
	"context"
	"time"

	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/middleware"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/repository"
)

// PaymentDetailsMessage is returned when payment details are accepted.
const PaymentDetailsMessage = "Payment details submitted successfully."

// PaymentDetailsForwarder hands payment details to the payment service.
type PaymentDetailsForwarder interface {
	SubmitPaymentDetails(ctx context.Context, userID string, req *models.PaymentDetailsRequest) error
}

// EventPublisher publishes checkout events.
type EventPublisher interface {
	PublishPaymentDetailsSubmitted(ctx context.Context, submission *models.PaymentSubmission) error
}

// PaymentService handles payment detail submissions and payment records.
type PaymentService struct {
	payments  repository.PaymentRepository
	forwarder PaymentDetailsForwarder
	publisher EventPublisher
	metrics   *metrics.Metrics
	config    *config.Config
	logger    *logging.Logger
	now       func() time.Time
}

// NewPaymentService creates a new payment service. forwarder and publisher
// may be nil when the matching feature is disabled.
func NewPaymentService(
	payments repository.PaymentRepository,
	forwarder PaymentDetailsForwarder,
	publisher EventPublisher,
	m *metrics.Metrics,
	cfg *config.Config,
) *PaymentService {
	return &PaymentService{
		payments:  payments,
		forwarder: forwarder,
		publisher: publisher,
		metrics:   m,
		config:    cfg,
		logger:    logging.NewLogger("payment-service"),
		now:       time.Now,
	}
}

// SubmitDetails accepts payment details from the payment popup. The password
// is passed to the payment service when forwarding is enabled and is never
// logged, stored or published.
func (s *PaymentService) SubmitDetails(ctx context.Context, userID string, req *models.PaymentDetailsRequest) (*models.PaymentDetailsResponse, error) {
	if err := ValidatePaymentDetails(req); err != nil {
		s.metrics.ObservePaymentSubmission(metrics.OutcomeInvalid)
		s.logger.Debug("Rejected payment details", logging.Fields{
			"user_id":    userID,
			"request_id": middleware.RequestIDFrom(ctx),
			"error":      err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Payment details submitted", logging.Fields{
		"user_id":        userID,
		"payment_method": req.PaymentMethod,
		"account_number": models.MaskAccountNumber(req.AccountNumber),
	})

	if s.config.Features.EnablePaymentForwarding && s.forwarder != nil {
		if err := s.forwarder.SubmitPaymentDetails(ctx, userID, req); err != nil {
			s.metrics.ObservePaymentSubmission(metrics.OutcomeError)
			s.logger.Error("Failed to forward payment details", logging.Fields{
				"user_id": userID,
				"error":   err.Error(),
			})
			return nil, err
		}
	}

	if s.config.Features.EnableCheckoutEvents && s.publisher != nil {
		submission := &models.PaymentSubmission{
			UserID:        userID,
			PaymentMethod: models.PaymentMethod(req.PaymentMethod),
			AccountLast4:  models.Last4(req.AccountNumber),
			SubmittedAt:   s.now().UTC(),
		}
		if err := s.publisher.PublishPaymentDetailsSubmitted(ctx, submission); err != nil {
			// Log but don't fail
			s.logger.Warn("Failed to publish payment details event", logging.Fields{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
	}

	s.metrics.ObservePaymentSubmission(metrics.OutcomeOK)
	return &models.PaymentDetailsResponse{
		Status:  "success",
		Message: PaymentDetailsMessage,
	}, nil
}

// RecordPayment stores a payment reported by the payment service with the
// given status.
func (s *PaymentService) RecordPayment(ctx context.Context, event *models.PaymentEvent, status models.PaymentStatus) error {
	if event.TransactionID == "" {
		return errors.NewValidationError("payment_id", "payment id is required")
	}
	if event.UserID == "" {
		return errors.NewValidationError("user_id", "user id is required")
	}

	currency := event.Currency
	if currency == "" {
		currency = s.config.Currency
	}
	paidAt := event.Timestamp
	if paidAt.IsZero() {
		paidAt = s.now()
	}

	payment := &models.Payment{
		UserID:        event.UserID,
		OrderID:       event.OrderID,
		Amount:        event.Amount,
		Currency:      currency,
		Method:        event.Method,
		Status:        status,
		TransactionID: event.TransactionID,
		PaymentDate:   paidAt.UTC(),
	}

	if err := s.payments.Upsert(ctx, payment); err != nil {
		s.logger.Error("Failed to record payment", logging.Fields{
			"payment_id": event.TransactionID,
			"error":      err.Error(),
		})
		return err
	}

	s.logger.Info("Payment recorded", logging.Fields{
		"payment_id": event.TransactionID,
		"user_id":    event.UserID,
		"status":     status,
	})
	return nil
}

// LatestCompleted returns the user's most recent completed payment.
func (s *PaymentService) LatestCompleted(ctx context.Context, userID string) (*models.Payment, error) {
	p, err := s.payments.LatestCompletedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.ErrNotFound
	}
	return p, nil
}
