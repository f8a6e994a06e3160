package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/models"
)

// Largest charge a NUMERIC(10,2) column holds.
var maxCharge = decimal.New(1, 8).Sub(decimal.New(1, -2))

const maxChargeIntDigits = 8

// ValidateCreateShippingMethodRequest validates a new shipping method and
// returns its parsed charge.
func ValidateCreateShippingMethodRequest(req *models.CreateShippingMethodRequest) (decimal.Decimal, error) {
	if !req.Method.Valid() {
		return decimal.Zero, errors.NewValidationError("method", "unknown shipping method")
	}

	charge, err := decimal.NewFromString(strings.TrimSpace(req.Charge))
	if err != nil {
		return decimal.Zero, errors.NewValidationError("charge", "charge must be a decimal amount")
	}
	if charge.IsNegative() {
		return decimal.Zero, errors.NewValidationError("charge", "charge cannot be negative")
	}
	if charge.IsZero() {
		charge = decimal.Zero
	}

	// Bound the exponent before rescaling; Round and GreaterThan cost grows
	// with its magnitude.
	exp, digits := int(charge.Exponent()), charge.NumDigits()
	if !charge.IsZero() && exp+digits > maxChargeIntDigits {
		return decimal.Zero, errors.NewValidationError("charge", "charge is too large")
	}
	if !charge.IsZero() && exp < -2 && -2-exp >= digits {
		return decimal.Zero, errors.NewValidationError("charge", "charge cannot have more than 2 decimal places")
	}
	if !charge.Equal(charge.Round(2)) {
		return decimal.Zero, errors.NewValidationError("charge", "charge cannot have more than 2 decimal places")
	}
	if charge.GreaterThan(maxCharge) {
		return decimal.Zero, errors.NewValidationError("charge", "charge is too large")
	}

	if strings.TrimSpace(req.EstimatedDeliveryTime) == "" {
		return decimal.Zero, errors.NewValidationError("estimated_delivery_time", "estimated delivery time is required")
	}
	if len(req.EstimatedDeliveryTime) > 100 {
		return decimal.Zero, errors.NewValidationError("estimated_delivery_time", "estimated delivery time too long (max 100 characters)")
	}

	return charge, nil
}

// ValidateQuoteRequest validates a quote request.
func ValidateQuoteRequest(req *models.QuoteRequest) error {
	if req.Method != "" && !req.Method.Valid() {
		return errors.NewValidationError("method", "unknown shipping method")
	}
	if req.Method != "" && req.Charge != "" {
		return errors.NewValidationError("charge", "charge cannot be combined with method")
	}
	return nil
}

// ValidatePaymentDetails validates a payment details submission.
func ValidatePaymentDetails(req *models.PaymentDetailsRequest) error {
	if req.PaymentMethod == "" {
		return errors.NewValidationError("payment_method", "payment method is required")
	}
	if req.AccountNumber == "" {
		return errors.NewValidationError("account_number", "account number is required")
	}
	if req.Password == "" {
		return errors.NewValidationError("password", "password is required")
	}
	if !models.PaymentMethod(req.PaymentMethod).Valid() {
		return errors.NewValidationError("payment_method", "invalid payment method")
	}
	return nil
}
