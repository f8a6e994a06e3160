package handlers

import (
	"context"

	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/service"
)

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Handlers holds all HTTP handlers for the checkout service.
type Handlers struct {
	shippingService  *service.ShippingService
	paymentService   *service.PaymentService
	promotionService *service.PromotionService
	config           *config.Config
	logger           *logging.Logger
	checks           map[string]ReadinessCheck
}

// NewHandlers creates a new handlers instance.
func NewHandlers(
	shippingService *service.ShippingService,
	paymentService *service.PaymentService,
	promotionService *service.PromotionService,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		shippingService:  shippingService,
		paymentService:   paymentService,
		promotionService: promotionService,
		config:           cfg,
		logger:           logging.NewLogger("handlers"),
		checks:           make(map[string]ReadinessCheck),
	}
}

// AddReadinessCheck registers a dependency probed by GET /ready.
func (h *Handlers) AddReadinessCheck(name string, check ReadinessCheck) {
	h.checks[name] = check
}
