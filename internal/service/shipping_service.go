package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/pricing"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/repository"
)

// ShippingService handles shipping method listing and quoting.
type ShippingService struct {
	methods  repository.ShippingMethodRepository
	cache    repository.ShippingMethodCache
	payments repository.PaymentRepository
	metrics  *metrics.Metrics
	config   *config.Config
	logger   *logging.Logger
}

// NewShippingService creates a new shipping service.
func NewShippingService(
	methods repository.ShippingMethodRepository,
	cache repository.ShippingMethodCache,
	payments repository.PaymentRepository,
	m *metrics.Metrics,
	cfg *config.Config,
) *ShippingService {
	if cache == nil {
		cache = repository.NoopShippingMethodCache{}
	}
	return &ShippingService{
		methods:  methods,
		cache:    cache,
		payments: payments,
		metrics:  m,
		config:   cfg,
		logger:   logging.NewLogger("shipping-service"),
	}
}

// ListActiveMethods returns the active shipping methods, served from cache
// when caching is enabled.
func (s *ShippingService) ListActiveMethods(ctx context.Context) ([]*models.ShippingMethod, error) {
	if s.config.Features.EnableMethodCaching {
		cached, err := s.cache.GetActive(ctx)
		if err == nil && cached != nil {
			s.metrics.ObserveCache(true)
			return cached, nil
		}
		s.metrics.ObserveCache(false)
	}

	methods, err := s.methods.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	if s.config.Features.EnableMethodCaching {
		if err := s.cache.SetActive(ctx, methods); err != nil {
			// Log but don't fail
			s.logger.Warn("Failed to cache shipping methods", logging.Fields{"error": err.Error()})
		}
	}
	return methods, nil
}

// TotalPayment returns the amount of the user's latest completed payment, or
// zero when there is none.
func (s *ShippingService) TotalPayment(ctx context.Context, userID string) (decimal.Decimal, error) {
	if userID == "" {
		return decimal.Zero, nil
	}
	p, err := s.payments.LatestCompletedByUser(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	if p == nil {
		return decimal.Zero, nil
	}
	return p.Amount, nil
}

// ShippingPage assembles the shipping methods page for a user. The total
// with shipping assumes the first active method, which the page selects by
// default.
func (s *ShippingService) ShippingPage(ctx context.Context, userID string) (*models.ShippingPage, error) {
	methods, err := s.ListActiveMethods(ctx)
	if err != nil {
		return nil, err
	}

	totalPayment, err := s.TotalPayment(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load total payment", logging.Fields{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	defaultCharge := decimal.Zero
	if len(methods) > 0 {
		defaultCharge = methods[0].Charge
	}

	return &models.ShippingPage{
		Methods:           methods,
		TotalPayment:      totalPayment,
		TotalWithShipping: pricing.GrandTotal(totalPayment, defaultCharge),
		Currency:          s.config.Currency,
	}, nil
}

// Quote computes the display state for a shipping selection. An unparseable
// charge is not an error: the quote comes back with Valid false.
func (s *ShippingService) Quote(ctx context.Context, userID string, req *models.QuoteRequest) (*models.Quote, error) {
	if err := ValidateQuoteRequest(req); err != nil {
		return nil, err
	}

	opt := pricing.Option{Charge: req.Charge, Delivery: req.Delivery}
	if req.Method != "" {
		m, err := s.methods.GetByMethod(ctx, req.Method)
		if err != nil {
			return nil, err
		}
		if !m.IsActive {
			return nil, errors.ErrNotFound
		}
		opt = pricing.Option{Charge: m.Charge.String(), Delivery: m.EstimatedDeliveryTime}
	}

	var totalPayment string
	if req.TotalPayment != nil {
		totalPayment = *req.TotalPayment
	} else {
		total, err := s.TotalPayment(ctx, userID)
		if err != nil {
			return nil, err
		}
		totalPayment = total.String()
	}

	d := pricing.Compute(opt, totalPayment)
	s.metrics.ObserveQuote(d.Valid)

	if !d.Valid {
		s.logger.Debug("Shipping charge not parseable", logging.Fields{
			"method": req.Method,
			"charge": opt.Charge,
		})
	}

	return &models.Quote{
		ShippingCharge:   d.ShippingCharge,
		DeliveryEstimate: d.DeliveryEstimate,
		GrandTotal:       d.GrandTotal,
		Valid:            d.Valid,
		Currency:         s.config.Currency,
	}, nil
}

// CreateMethod registers a new shipping method.
func (s *ShippingService) CreateMethod(ctx context.Context, req *models.CreateShippingMethodRequest) (*models.ShippingMethod, error) {
	charge, err := ValidateCreateShippingMethodRequest(req)
	if err != nil {
		return nil, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	created, err := s.methods.Create(ctx, &models.ShippingMethod{
		Method:                req.Method,
		Charge:                charge,
		EstimatedDeliveryTime: req.EstimatedDeliveryTime,
		IsActive:              active,
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.logger.Info("Shipping method registered", logging.Fields{
		"method": created.Method,
		"charge": created.Charge.StringFixed(2),
	})
	return created, nil
}

// SetMethodActive enables or disables a shipping method.
func (s *ShippingService) SetMethodActive(ctx context.Context, code models.ShippingMethodCode, active bool) error {
	if err := s.methods.SetActive(ctx, code, active); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ShippingService) invalidate(ctx context.Context) {
	if !s.config.Features.EnableMethodCaching {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Failed to invalidate shipping method cache", logging.Fields{"error": err.Error()})
	}
}
