package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/lib/pq"

	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/models"
)

const pqUniqueViolation = "23505"

// PostgresShippingMethodRepository implements ShippingMethodRepository using PostgreSQL.
type PostgresShippingMethodRepository struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewPostgresShippingMethodRepository creates a new PostgreSQL shipping method repository.
func NewPostgresShippingMethodRepository(db *sql.DB) *PostgresShippingMethodRepository {
	return &PostgresShippingMethodRepository{
		db:     db,
		logger: logging.NewLogger("shipping-repository"),
	}
}

const shippingMethodColumns = `id, method, charge, estimated_delivery_time, is_active, created_at, updated_at`

// ListActive retrieves the active shipping methods.
func (r *PostgresShippingMethodRepository) ListActive(ctx context.Context) ([]*models.ShippingMethod, error) {
	return r.query(ctx, `SELECT `+shippingMethodColumns+` FROM shipping_methods WHERE is_active ORDER BY id`)
}

// List retrieves every shipping method.
func (r *PostgresShippingMethodRepository) List(ctx context.Context) ([]*models.ShippingMethod, error) {
	return r.query(ctx, `SELECT `+shippingMethodColumns+` FROM shipping_methods ORDER BY id`)
}

func (r *PostgresShippingMethodRepository) query(ctx context.Context, query string, args ...interface{}) ([]*models.ShippingMethod, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list shipping methods", logging.Fields{"error": err.Error()})
		return nil, err
	}
	defer rows.Close()

	var methods []*models.ShippingMethod
	for rows.Next() {
		m, err := scanShippingMethod(rows)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, rows.Err()
}

// GetByMethod retrieves a shipping method by its code.
func (r *PostgresShippingMethodRepository) GetByMethod(ctx context.Context, code models.ShippingMethodCode) (*models.ShippingMethod, error) {
	r.logger.Debug("Fetching shipping method", logging.Fields{"method": code})

	row := r.db.QueryRowContext(ctx,
		`SELECT `+shippingMethodColumns+` FROM shipping_methods WHERE method = $1`, string(code))

	m, err := scanShippingMethod(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to fetch shipping method", logging.Fields{
			"method": code,
			"error":  err.Error(),
		})
		return nil, err
	}
	return m, nil
}

// Create inserts a new shipping method.
func (r *PostgresShippingMethodRepository) Create(ctx context.Context, method *models.ShippingMethod) (*models.ShippingMethod, error) {
	now := time.Now().UTC()

	query := `
		INSERT INTO shipping_methods (method, charge, estimated_delivery_time, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id
	`

	created := *method
	created.CreatedAt = now
	created.UpdatedAt = now

	err := r.db.QueryRowContext(ctx, query,
		string(method.Method),
		method.Charge,
		method.EstimatedDeliveryTime,
		method.IsActive,
		now,
	).Scan(&created.ID)
	if err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, errors.NewValidationError("method", "shipping method already exists")
		}
		r.logger.Error("Failed to create shipping method", logging.Fields{
			"method": method.Method,
			"error":  err.Error(),
		})
		return nil, err
	}

	r.logger.Info("Shipping method created", logging.Fields{
		"id":     created.ID,
		"method": created.Method,
	})
	return &created, nil
}

// SetActive enables or disables a shipping method.
func (r *PostgresShippingMethodRepository) SetActive(ctx context.Context, code models.ShippingMethodCode, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE shipping_methods SET is_active = $1, updated_at = $2 WHERE method = $3`,
		active, time.Now().UTC(), string(code))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanShippingMethod(s scanner) (*models.ShippingMethod, error) {
	var m models.ShippingMethod
	var code string
	if err := s.Scan(
		&m.ID,
		&code,
		&m.Charge,
		&m.EstimatedDeliveryTime,
		&m.IsActive,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	m.Method = models.ShippingMethodCode(code)
	return &m, nil
}

// PostgresPaymentRepository implements PaymentRepository using PostgreSQL.
type PostgresPaymentRepository struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewPostgresPaymentRepository creates a new PostgreSQL payment repository.
func NewPostgresPaymentRepository(db *sql.DB) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{
		db:     db,
		logger: logging.NewLogger("payment-repository"),
	}
}

// LatestCompletedByUser returns the user's most recent completed payment.
func (r *PostgresPaymentRepository) LatestCompletedByUser(ctx context.Context, userID string) (*models.Payment, error) {
	query := `
		SELECT id, user_id, order_id, amount, currency, method, status, transaction_id, payment_date
		FROM payments
		WHERE user_id = $1 AND status = $2
		ORDER BY payment_date DESC, id DESC
		LIMIT 1
	`

	var p models.Payment
	var method, status string
	var txID sql.NullString

	err := r.db.QueryRowContext(ctx, query, userID, string(models.PaymentStatusCompleted)).Scan(
		&p.ID,
		&p.UserID,
		&p.OrderID,
		&p.Amount,
		&p.Currency,
		&method,
		&status,
		&txID,
		&p.PaymentDate,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to fetch latest payment", logging.Fields{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	p.Method = models.PaymentMethod(method)
	p.Status = models.PaymentStatus(status)
	if txID.Valid {
		p.TransactionID = txID.String
	}
	return &p, nil
}

// Upsert records a payment keyed by its transaction id.
func (r *PostgresPaymentRepository) Upsert(ctx context.Context, p *models.Payment) error {
	query := `
		INSERT INTO payments (user_id, order_id, amount, currency, method, status, transaction_id, payment_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (transaction_id) DO UPDATE
		SET status = EXCLUDED.status,
		    amount = EXCLUDED.amount,
		    currency = EXCLUDED.currency
	`

	_, err := r.db.ExecContext(ctx, query,
		p.UserID,
		p.OrderID,
		p.Amount,
		p.Currency,
		string(p.Method),
		string(p.Status),
		p.TransactionID,
		p.PaymentDate,
	)
	if err != nil {
		r.logger.Error("Failed to upsert payment", logging.Fields{
			"transaction_id": p.TransactionID,
			"error":          err.Error(),
		})
		return err
	}
	return nil
}

// PostgresDiscountCodeRepository implements DiscountCodeRepository using PostgreSQL.
type PostgresDiscountCodeRepository struct {
	db *sql.DB
}

// NewPostgresDiscountCodeRepository creates a new PostgreSQL discount code repository.
func NewPostgresDiscountCodeRepository(db *sql.DB) *PostgresDiscountCodeRepository {
	return &PostgresDiscountCodeRepository{db: db}
}

const discountColumns = `id, code, description, discount_percentage, valid_from, valid_to, is_active`

// List retrieves every discount code.
func (r *PostgresDiscountCodeRepository) List(ctx context.Context) ([]*models.DiscountCode, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+discountColumns+` FROM discount_codes ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []*models.DiscountCode
	for rows.Next() {
		d, err := scanDiscountCode(rows)
		if err != nil {
			return nil, err
		}
		codes = append(codes, d)
	}
	return codes, rows.Err()
}

// GetByCode retrieves a discount code.
func (r *PostgresDiscountCodeRepository) GetByCode(ctx context.Context, code string) (*models.DiscountCode, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+discountColumns+` FROM discount_codes WHERE code = $1`, code)
	d, err := scanDiscountCode(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	return d, err
}

func scanDiscountCode(s scanner) (*models.DiscountCode, error) {
	var d models.DiscountCode
	if err := s.Scan(
		&d.ID,
		&d.Code,
		&d.Description,
		&d.DiscountPercentage,
		&d.ValidFrom,
		&d.ValidTo,
		&d.IsActive,
	); err != nil {
		return nil, err
	}
	return &d, nil
}
