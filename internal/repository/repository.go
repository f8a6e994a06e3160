package repository

import (
	"context"

	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/models"
)

// ShippingMethodRepository stores the shipping methods offered at checkout.
type ShippingMethodRepository interface {
	// ListActive returns the active methods ordered by id.
	ListActive(ctx context.Context) ([]*models.ShippingMethod, error)
	// List returns every method ordered by id.
	List(ctx context.Context) ([]*models.ShippingMethod, error)
	// GetByMethod returns errors.ErrNotFound when no method has the code.
	GetByMethod(ctx context.Context, code models.ShippingMethodCode) (*models.ShippingMethod, error)
	// Create fails with a validation error if the method code already exists.
	Create(ctx context.Context, method *models.ShippingMethod) (*models.ShippingMethod, error)
	SetActive(ctx context.Context, code models.ShippingMethodCode, active bool) error
}

// PaymentRepository stores payments recorded from payment service events.
type PaymentRepository interface {
	// LatestCompletedByUser returns nil, nil when the user has no completed payment.
	LatestCompletedByUser(ctx context.Context, userID string) (*models.Payment, error)
	// Upsert inserts a payment or updates the one with the same transaction id.
	Upsert(ctx context.Context, payment *models.Payment) error
}

// DiscountCodeRepository stores discount codes.
type DiscountCodeRepository interface {
	List(ctx context.Context) ([]*models.DiscountCode, error)
	GetByCode(ctx context.Context, code string) (*models.DiscountCode, error)
}

// ShippingMethodCache caches the active shipping method list.
type ShippingMethodCache interface {
	// GetActive returns nil, nil on a miss.
	GetActive(ctx context.Context) ([]*models.ShippingMethod, error)
	SetActive(ctx context.Context, methods []*models.ShippingMethod) error
	Invalidate(ctx context.Context) error
}

var (
	_ ShippingMethodRepository = (*PostgresShippingMethodRepository)(nil)
	_ ShippingMethodRepository = (*MemoryShippingMethodRepository)(nil)
	_ PaymentRepository        = (*PostgresPaymentRepository)(nil)
	_ PaymentRepository        = (*MemoryPaymentRepository)(nil)
	_ DiscountCodeRepository   = (*PostgresDiscountCodeRepository)(nil)
	_ DiscountCodeRepository   = (*MemoryDiscountCodeRepository)(nil)
	_ ShippingMethodCache      = (*RedisShippingMethodCache)(nil)
	_ ShippingMethodCache      = NoopShippingMethodCache{}
)
