package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
	PaymentStatusFailed    PaymentStatus = "Failed"
	PaymentStatusRefunded  PaymentStatus = "Refunded"
)

// PaymentMethod is how the customer pays.
type PaymentMethod string

const (
	PaymentMethodCreditCard     PaymentMethod = "Credit Card"
	PaymentMethodDebitCard      PaymentMethod = "Debit Card"
	PaymentMethodPayPal         PaymentMethod = "PayPal"
	PaymentMethodBankTransfer   PaymentMethod = "Bank Transfer"
	PaymentMethodCashOnDelivery PaymentMethod = "Cash on Delivery"
	PaymentMethodBKash          PaymentMethod = "bKash"
	PaymentMethodRocket         PaymentMethod = "Rocket"
	PaymentMethodApplePay       PaymentMethod = "Apple Pay"
	PaymentMethodGooglePay      PaymentMethod = "Google Pay"
	PaymentMethodMasterCard     PaymentMethod = "Master Card"
	PaymentMethodNagad          PaymentMethod = "Nagad"
)

var paymentMethods = map[PaymentMethod]struct{}{
	PaymentMethodCreditCard:     {},
	PaymentMethodDebitCard:      {},
	PaymentMethodPayPal:         {},
	PaymentMethodBankTransfer:   {},
	PaymentMethodCashOnDelivery: {},
	PaymentMethodBKash:          {},
	PaymentMethodRocket:         {},
	PaymentMethodApplePay:       {},
	PaymentMethodGooglePay:      {},
	PaymentMethodMasterCard:     {},
	PaymentMethodNagad:          {},
}

// Valid reports whether m is an accepted payment method.
func (m PaymentMethod) Valid() bool {
	_, ok := paymentMethods[m]
	return ok
}

// Payment is a payment made by a user for an order.
type Payment struct {
	ID            int64           `json:"id"`
	UserID        string          `json:"user_id"`
	OrderID       string          `json:"order_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Method        PaymentMethod   `json:"method"`
	Status        PaymentStatus   `json:"status"`
	TransactionID string          `json:"transaction_id,omitempty"`
	PaymentDate   time.Time       `json:"payment_date"`
}

// PaymentDetailsRequest is the form posted by the payment popup.
type PaymentDetailsRequest struct {
	PaymentMethod string `form:"payment_method" json:"payment_method"`
	AccountNumber string `form:"account_number" json:"account_number"`
	Password      string `form:"password" json:"-"`
}

// PaymentDetailsResponse is returned to the payment popup.
type PaymentDetailsResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Errors  string `json:"errors,omitempty"`
}

// PaymentSubmission is the redacted record of a payment details submission.
type PaymentSubmission struct {
	UserID        string        `json:"user_id"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	AccountLast4  string        `json:"account_last4"`
	SubmittedAt   time.Time     `json:"submitted_at"`
}

// PaymentEvent is a payment lifecycle event published by the payment service.
type PaymentEvent struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	TransactionID string          `json:"payment_id"`
	OrderID       string          `json:"order_id"`
	UserID        string          `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Method        PaymentMethod   `json:"method"`
	Status        PaymentStatus   `json:"status"`
	Timestamp     time.Time       `json:"timestamp"`
}

// MaskAccountNumber keeps only the last four characters of an account number.
func MaskAccountNumber(account string) string {
	account = strings.TrimSpace(account)
	if len(account) <= 4 {
		return strings.Repeat("*", len(account))
	}
	return strings.Repeat("*", len(account)-4) + account[len(account)-4:]
}

// Last4 returns the last four characters of an account number.
func Last4(account string) string {
	account = strings.TrimSpace(account)
	if len(account) <= 4 {
		return ""
	}
	return account[len(account)-4:]
}
