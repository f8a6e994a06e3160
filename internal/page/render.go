package page

import (
	"html/template"
	"io"

	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/pricing"
)

// ShippingView is the data behind the shipping methods page.
type ShippingView struct {
	TotalPayment      string
	TotalWithShipping string
	Currency          string
	Options           []ShippingOptionView
	ShippingCharge    string
	DeliveryEstimate  string
}

// ShippingOptionView is one rendered <option>.
type ShippingOptionView struct {
	Value    string
	Label    string
	Charge   string
	Delivery string
}

// NewShippingView builds the view for a shipping page. The initial regions
// show the first method, matching the default selection.
func NewShippingView(sp *models.ShippingPage) ShippingView {
	v := ShippingView{
		TotalPayment:      pricing.Format(sp.TotalPayment),
		TotalWithShipping: pricing.Format(sp.TotalWithShipping),
		Currency:          sp.Currency,
		ShippingCharge:    pricing.Format(sp.TotalWithShipping.Sub(sp.TotalPayment)),
		DeliveryEstimate:  pricing.NotAvailable,
	}
	for i, m := range sp.Methods {
		opt := ShippingOptionView{
			Value:    string(m.Method),
			Label:    m.String(),
			Charge:   pricing.Format(m.Charge),
			Delivery: m.EstimatedDeliveryTime,
		}
		if i == 0 && opt.Delivery != "" {
			v.DeliveryEstimate = opt.Delivery
		}
		v.Options = append(v.Options, opt)
	}
	return v
}

var shippingTemplate = template.Must(template.New("shipping").Parse(`<!DOCTYPE html>
<html>
<head><title>Shipping Methods</title></head>
<body data-total-payment="{{.TotalPayment}}">
<h1>Choose a shipping method</h1>
<select id="shippingMethods" name="shipping_method" onchange="updatePrice()">
{{- range .Options}}
  <option value="{{.Value}}" data-charge="{{.Charge}}" data-delivery="{{.Delivery}}">{{.Label}}</option>
{{- end}}
</select>
<p>Order total: <span id="totalPayment">{{.TotalPayment}}</span> {{.Currency}}</p>
<p>Shipping: <span id="totalPrice">{{.ShippingCharge}}</span> {{.Currency}}</p>
<p>Estimated delivery: <span id="estimatedDelivery">{{.DeliveryEstimate}}</span></p>
<p>Total: <span id="finalTotal">{{.TotalWithShipping}}</span> {{.Currency}}</p>
</body>
</html>
`))

// RenderShipping writes the shipping methods page.
func RenderShipping(w io.Writer, v ShippingView) error {
	return shippingTemplate.Execute(w, v)
}

// PaymentFormView is the data behind the payment details popup.
type PaymentFormView struct {
	Methods       []models.PaymentMethod
	DefaultMethod models.PaymentMethod
}

var paymentTemplate = template.Must(template.New("payment").Parse(`<!DOCTYPE html>
<html>
<head><title>Payment Details</title></head>
<body>
<form id="paymentForm" method="post" action="/payment/details">
  <select id="payment-method" name="payment_method">
  {{- range .Methods}}
    <option value="{{.}}"{{if eq . $.DefaultMethod}} selected{{end}}>{{.}}</option>
  {{- end}}
  </select>
  <input id="account-number" name="account_number" type="text" autocomplete="off">
  <input id="password" name="password" type="password" autocomplete="off">
  <button type="submit">Submit</button>
</form>
</body>
</html>
`))

// RenderPaymentForm writes the payment details popup.
func RenderPaymentForm(w io.Writer, v PaymentFormView) error {
	return paymentTemplate.Execute(w, v)
}
