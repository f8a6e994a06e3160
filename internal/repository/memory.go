package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/models"
)

// MemoryShippingMethodRepository is an in-process ShippingMethodRepository
// used by the memory storage driver and in tests.
type MemoryShippingMethodRepository struct {
	mu      sync.RWMutex
	methods map[models.ShippingMethodCode]*models.ShippingMethod
	nextID  int64
}

func NewMemoryShippingMethodRepository() *MemoryShippingMethodRepository {
	return &MemoryShippingMethodRepository{
		methods: make(map[models.ShippingMethodCode]*models.ShippingMethod),
	}
}

func (r *MemoryShippingMethodRepository) ListActive(ctx context.Context) ([]*models.ShippingMethod, error) {
	return r.list(true), nil
}

func (r *MemoryShippingMethodRepository) List(ctx context.Context) ([]*models.ShippingMethod, error) {
	return r.list(false), nil
}

func (r *MemoryShippingMethodRepository) list(activeOnly bool) []*models.ShippingMethod {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.ShippingMethod
	for _, m := range r.methods {
		if activeOnly && !m.IsActive {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *MemoryShippingMethodRepository) GetByMethod(ctx context.Context, code models.ShippingMethodCode) (*models.ShippingMethod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.methods[code]
	if !ok {
		return nil, errors.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *MemoryShippingMethodRepository) Create(ctx context.Context, method *models.ShippingMethod) (*models.ShippingMethod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.methods[method.Method]; exists {
		return nil, errors.NewValidationError("method", "shipping method already exists")
	}

	r.nextID++
	now := time.Now().UTC()
	created := *method
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.methods[created.Method] = &created

	cp := created
	return &cp, nil
}

func (r *MemoryShippingMethodRepository) SetActive(ctx context.Context, code models.ShippingMethodCode, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.methods[code]
	if !ok {
		return errors.ErrNotFound
	}
	m.IsActive = active
	m.UpdatedAt = time.Now().UTC()
	return nil
}

// MemoryPaymentRepository is an in-process PaymentRepository.
type MemoryPaymentRepository struct {
	mu       sync.RWMutex
	payments []*models.Payment
}

func NewMemoryPaymentRepository() *MemoryPaymentRepository {
	return &MemoryPaymentRepository{}
}

func (r *MemoryPaymentRepository) LatestCompletedByUser(ctx context.Context, userID string) (*models.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *models.Payment
	for _, p := range r.payments {
		if p.UserID != userID || p.Status != models.PaymentStatusCompleted {
			continue
		}
		if latest == nil || !p.PaymentDate.Before(latest.PaymentDate) {
			latest = p
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *MemoryPaymentRepository) Upsert(ctx context.Context, payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.payments {
		if payment.TransactionID != "" && p.TransactionID == payment.TransactionID {
			p.Status = payment.Status
			p.Amount = payment.Amount
			p.Currency = payment.Currency
			return nil
		}
	}

	cp := *payment
	cp.ID = int64(len(r.payments) + 1)
	if cp.PaymentDate.IsZero() {
		cp.PaymentDate = time.Now().UTC()
	}
	r.payments = append(r.payments, &cp)
	return nil
}

// MemoryDiscountCodeRepository is an in-process DiscountCodeRepository.
type MemoryDiscountCodeRepository struct {
	mu    sync.RWMutex
	codes map[string]*models.DiscountCode
}

func NewMemoryDiscountCodeRepository(codes ...*models.DiscountCode) *MemoryDiscountCodeRepository {
	r := &MemoryDiscountCodeRepository{codes: make(map[string]*models.DiscountCode)}
	for i, c := range codes {
		cp := *c
		if cp.ID == 0 {
			cp.ID = int64(i + 1)
		}
		r.codes[cp.Code] = &cp
	}
	return r
}

func (r *MemoryDiscountCodeRepository) List(ctx context.Context) ([]*models.DiscountCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.DiscountCode, 0, len(r.codes))
	for _, c := range r.codes {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *MemoryDiscountCodeRepository) GetByCode(ctx context.Context, code string) (*models.DiscountCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.codes[code]
	if !ok {
		return nil, errors.ErrNotFound
	}
	cp := *c
	return &cp, nil
}
