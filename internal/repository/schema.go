package repository

import (
	"context"
	"database/sql"

	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/logging"
)

// Schema creates the tables used by the postgres repositories.
const Schema = `
CREATE TABLE IF NOT EXISTS shipping_methods (
	id                      BIGSERIAL PRIMARY KEY,
	method                  VARCHAR(20) NOT NULL UNIQUE,
	charge                  NUMERIC(10, 2) NOT NULL CHECK (charge >= 0),
	estimated_delivery_time VARCHAR(100) NOT NULL,
	is_active               BOOLEAN NOT NULL DEFAULT TRUE,
	created_at              TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at              TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS payments (
	id             BIGSERIAL PRIMARY KEY,
	user_id        VARCHAR(64) NOT NULL,
	order_id       VARCHAR(64) NOT NULL,
	amount         NUMERIC(10, 2) NOT NULL,
	currency       VARCHAR(3) NOT NULL,
	method         VARCHAR(50) NOT NULL DEFAULT 'Credit Card',
	status         VARCHAR(20) NOT NULL DEFAULT 'Pending',
	transaction_id VARCHAR(255) UNIQUE,
	payment_date   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS payments_user_status_idx ON payments (user_id, status, payment_date DESC);

CREATE TABLE IF NOT EXISTS discount_codes (
	id                  BIGSERIAL PRIMARY KEY,
	code                VARCHAR(50) NOT NULL UNIQUE,
	description         TEXT NOT NULL,
	discount_percentage NUMERIC(5, 2) NOT NULL,
	valid_from          TIMESTAMPTZ NOT NULL,
	valid_to            TIMESTAMPTZ NOT NULL,
	is_active           BOOLEAN NOT NULL DEFAULT TRUE
);
`

// Migrate applies Schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return err
	}
	logging.NewLogger("migrations").Info("Schema applied")
	return nil
}
