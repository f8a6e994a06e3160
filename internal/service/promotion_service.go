package service

import (
	"context"
	"strings"
	"time"

	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/promotions"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/repository"
)

// PromotionService applies discount codes.
type PromotionService struct {
	catalog *promotions.Catalog
	codes   repository.DiscountCodeRepository
	metrics *metrics.Metrics
	logger  *logging.Logger
	now     func() time.Time
}

// NewPromotionService creates a new promotion service.
func NewPromotionService(catalog *promotions.Catalog, codes repository.DiscountCodeRepository, m *metrics.Metrics) *PromotionService {
	return &PromotionService{
		catalog: catalog,
		codes:   codes,
		metrics: m,
		logger:  logging.NewLogger("promotion-service"),
		now:     time.Now,
	}
}

// ApplyCode looks up a code in the promotions catalog. Lookup is exact and
// case-sensitive; unknown codes yield the invalid code message.
func (s *PromotionService) ApplyCode(ctx context.Context, code string) models.DiscountResult {
	result := s.catalog.Apply(code)
	s.metrics.ObserveDiscount(result.Success)

	s.logger.Debug("Discount code applied", logging.Fields{
		"code":    code,
		"success": result.Success,
	})
	return result
}

// ListCodes returns the stored discount codes. With activeOnly set, only
// codes valid right now are returned.
func (s *PromotionService) ListCodes(ctx context.Context, activeOnly bool) ([]*models.DiscountCode, error) {
	codes, err := s.codes.List(ctx)
	if err != nil {
		return nil, err
	}
	if !activeOnly {
		return codes, nil
	}

	now := s.now()
	valid := make([]*models.DiscountCode, 0, len(codes))
	for _, c := range codes {
		if c.IsValidAt(now) {
			valid = append(valid, c)
		}
	}
	return valid, nil
}

// GetCode returns a stored discount code.
func (s *PromotionService) GetCode(ctx context.Context, code string) (*models.DiscountCode, error) {
	return s.codes.GetByCode(ctx, strings.TrimSpace(code))
}
