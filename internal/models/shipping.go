package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ShippingMethodCode identifies one of the offered shipping methods.
type ShippingMethodCode string

const (
	ShippingStandard      ShippingMethodCode = "standard"
	ShippingExpress       ShippingMethodCode = "express"
	ShippingOvernight     ShippingMethodCode = "overnight"
	ShippingTwoDay        ShippingMethodCode = "two_day"
	ShippingSameDay       ShippingMethodCode = "same_day"
	ShippingInternational ShippingMethodCode = "international"
)

var shippingMethodNames = map[ShippingMethodCode]string{
	ShippingStandard:      "Standard Shipping",
	ShippingExpress:       "Express Shipping",
	ShippingOvernight:     "Overnight Shipping",
	ShippingTwoDay:        "Two-Day Shipping",
	ShippingSameDay:       "Same-Day Shipping",
	ShippingInternational: "International Shipping",
}

// ShippingMethodCodes lists the method codes in display order.
var ShippingMethodCodes = []ShippingMethodCode{
	ShippingStandard,
	ShippingExpress,
	ShippingOvernight,
	ShippingTwoDay,
	ShippingSameDay,
	ShippingInternational,
}

// Valid reports whether c is a known method code.
func (c ShippingMethodCode) Valid() bool {
	_, ok := shippingMethodNames[c]
	return ok
}

// DisplayName returns the human readable name, or the raw code if unknown.
func (c ShippingMethodCode) DisplayName() string {
	if name, ok := shippingMethodNames[c]; ok {
		return name
	}
	return string(c)
}

// ShippingMethod is a shipping method offered at checkout.
type ShippingMethod struct {
	ID                    int64              `json:"id"`
	Method                ShippingMethodCode `json:"method"`
	Charge                decimal.Decimal    `json:"charge"`
	EstimatedDeliveryTime string             `json:"estimated_delivery_time"`
	IsActive              bool               `json:"is_active"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`
}

func (m *ShippingMethod) String() string {
	return fmt.Sprintf("%s - $%s", m.Method.DisplayName(), m.Charge.StringFixed(2))
}

// CreateShippingMethodRequest is the input for registering a shipping method.
type CreateShippingMethodRequest struct {
	Method                ShippingMethodCode `json:"method"`
	Charge                string             `json:"charge"`
	EstimatedDeliveryTime string             `json:"estimated_delivery_time"`
	IsActive              *bool              `json:"is_active,omitempty"`
}

// ShippingPage is everything the shipping methods page renders.
type ShippingPage struct {
	Methods           []*ShippingMethod `json:"methods"`
	TotalPayment      decimal.Decimal   `json:"total_payment"`
	TotalWithShipping decimal.Decimal   `json:"total_with_shipping"`
	Currency          string            `json:"currency"`
}

// QuoteRequest asks for the display state of one shipping selection. Either
// Method names a stored method, or Charge/Delivery carry raw attribute text.
type QuoteRequest struct {
	Method       ShippingMethodCode `json:"method,omitempty"`
	Charge       string             `json:"charge,omitempty"`
	Delivery     string             `json:"delivery,omitempty"`
	TotalPayment *string            `json:"total_payment,omitempty"`
}

// Quote is the display state computed for a shipping selection.
type Quote struct {
	ShippingCharge   string `json:"shipping_charge"`
	DeliveryEstimate string `json:"delivery_estimate"`
	GrandTotal       string `json:"grand_total,omitempty"`
	Valid            bool   `json:"valid"`
	Currency         string `json:"currency"`
}
