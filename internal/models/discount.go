package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountCode is a promotional code that can be applied to a purchase.
type DiscountCode struct {
	ID                 int64           `json:"id"`
	Code               string          `json:"code"`
	Description        string          `json:"description"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	ValidFrom          time.Time       `json:"valid_from"`
	ValidTo            time.Time       `json:"valid_to"`
	IsActive           bool            `json:"is_active"`
}

// IsValidAt reports whether the code is active and inside its validity window.
func (d *DiscountCode) IsValidAt(t time.Time) bool {
	if !d.IsActive {
		return false
	}
	return !t.Before(d.ValidFrom) && !t.After(d.ValidTo)
}

func (d *DiscountCode) String() string {
	return d.Code
}

// DiscountResult is the outcome of applying a discount code.
type DiscountResult struct {
	Code    string `json:"code"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}
