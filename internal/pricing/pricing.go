// Package pricing computes the shipping charge, delivery estimate and grand
// total shown for a selected shipping option.
package pricing

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// NotAvailable is shown in place of a missing delivery estimate.
const NotAvailable = "N/A"

// ErrUnparseableCharge is returned when an amount attribute is missing or
// does not start with a number.
var ErrUnparseableCharge = errors.New("unparseable amount")

// Leading numeric prefix of an attribute value; trailing text is ignored.
var numberPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// Option is the metadata the page attaches to one shipping choice.
type Option struct {
	Charge   string
	Delivery string
}

// Display is the text written into the three output regions. When Valid is
// false the charge could not be parsed and GrandTotal is empty: the grand
// total region must be left as it was.
type Display struct {
	ShippingCharge   string
	DeliveryEstimate string
	GrandTotal       string
	Valid            bool
}

// ParseAmount reads a decimal from attribute text. Leading whitespace is
// skipped and anything after the numeric prefix is ignored, so "12.5 USD"
// parses as 12.5. The value is read as a float64, so digits beyond its
// precision are dropped, underflow reads as zero and values out of its range
// are unparseable.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	m := numberPrefix.FindString(s)
	if m == "" {
		return decimal.Zero, ErrUnparseableCharge
	}

	m = strings.TrimPrefix(m, "+")
	if i := strings.IndexAny(m, "eE"); i > 0 && m[i-1] == '.' {
		m = m[:i-1] + m[i:]
	}
	m = strings.TrimSuffix(m, ".")

	f, err := strconv.ParseFloat(m, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return decimal.Zero, ErrUnparseableCharge
	}
	if math.IsInf(f, 0) {
		return decimal.Zero, ErrUnparseableCharge
	}
	return decimal.NewFromFloat(f), nil
}

// ParseTotal reads the page-level total payment, defaulting to zero.
func ParseTotal(raw string) decimal.Decimal {
	d, err := ParseAmount(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Format renders an amount with exactly two decimal places.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// GrandTotal is the committed order total plus the shipping charge.
func GrandTotal(totalPayment, charge decimal.Decimal) decimal.Decimal {
	return totalPayment.Add(charge)
}

// Compute derives the display state for the selected option.
func Compute(opt Option, totalPayment string) Display {
	charge, err := ParseAmount(opt.Charge)
	if err != nil {
		return Display{
			ShippingCharge:   Format(decimal.Zero),
			DeliveryEstimate: NotAvailable,
		}
	}

	delivery := opt.Delivery
	if delivery == "" {
		delivery = NotAvailable
	}

	return Display{
		ShippingCharge:   Format(charge),
		DeliveryEstimate: delivery,
		GrandTotal:       Format(GrandTotal(ParseTotal(totalPayment), charge)),
		Valid:            true,
	}
}
