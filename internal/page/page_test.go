package page

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/display"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/pricing"
)

func shippingPage() *models.ShippingPage {
	return &models.ShippingPage{
		Methods: []*models.ShippingMethod{
			{Method: models.ShippingStandard, Charge: decimal.RequireFromString("5.00"), EstimatedDeliveryTime: "5-7 Business Days", IsActive: true},
			{Method: models.ShippingExpress, Charge: decimal.RequireFromString("12.5"), EstimatedDeliveryTime: "3-5 days", IsActive: true},
			{Method: models.ShippingSameDay, Charge: decimal.RequireFromString("20")},
		},
		TotalPayment:      decimal.RequireFromString("49.99"),
		TotalWithShipping: decimal.RequireFromString("54.99"),
		Currency:          "USD",
	}
}

func TestRenderThenParse(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderShipping(&buf, NewShippingView(shippingPage())))

	doc, err := Parse(&buf)
	require.NoError(t, err)

	assert.Equal(t, "49.99", doc.Page.TotalPayment())
	assert.Equal(t, "5.00", doc.Page.Text(display.RegionShippingCharge))
	assert.Equal(t, "5-7 Business Days", doc.Page.Text(display.RegionDelivery))
	assert.Equal(t, "54.99", doc.Page.Text(display.RegionGrandTotal))

	opts := doc.Selector.Options()
	require.Len(t, opts, 3)
	assert.Equal(t, "express", opts[1].Value)
	assert.Equal(t, "Express Shipping - $12.50", opts[1].Label)
	assert.Equal(t, "12.50", opts[1].Charge)
	assert.Equal(t, "3-5 days", opts[1].Delivery)
	assert.Equal(t, "", opts[2].Delivery)

	display.NewUpdater(doc.Page).Bind(doc.Selector)

	require.NoError(t, doc.Selector.SelectValue("express"))
	assert.Equal(t, "12.50", doc.Page.Text(display.RegionShippingCharge))
	assert.Equal(t, "3-5 days", doc.Page.Text(display.RegionDelivery))
	assert.Equal(t, "62.49", doc.Page.Text(display.RegionGrandTotal))

	require.NoError(t, doc.Selector.SelectValue("same_day"))
	assert.Equal(t, pricing.NotAvailable, doc.Page.Text(display.RegionDelivery))
	assert.Equal(t, "69.99", doc.Page.Text(display.RegionGrandTotal))
}

func TestParseHandwrittenMarkup(t *testing.T) {
	markup := `<html><body>
<select id="shippingMethods">
  <optgroup label="Domestic">
    <option value="a" data-charge="4.5" data-delivery="2 days">A</option>
    <option value="b" data-charge="oops" data-delivery="1 day" selected>B</option>
  </optgroup>
  <option data-charge="9">C</option>
</select>
<span id="totalPrice">0.00</span>
<span id="estimatedDelivery">N/A</span>
<span id="finalTotal">0.00</span>
</body></html>`

	doc, err := Parse(strings.NewReader(markup))
	require.NoError(t, err)

	assert.Equal(t, "", doc.Page.TotalPayment())

	selected, ok := doc.Selector.Selected()
	require.True(t, ok)
	assert.Equal(t, "b", selected.Value)

	opts := doc.Selector.Options()
	require.Len(t, opts, 3)
	assert.Equal(t, "C", opts[2].Value)

	display.NewUpdater(doc.Page).Bind(doc.Selector)

	require.NoError(t, doc.Selector.SelectValue("a"))
	assert.Equal(t, "4.50", doc.Page.Text(display.RegionShippingCharge))
	assert.Equal(t, "4.50", doc.Page.Text(display.RegionGrandTotal))

	require.NoError(t, doc.Selector.SelectValue("b"))
	assert.Equal(t, "0.00", doc.Page.Text(display.RegionShippingCharge))
	assert.Equal(t, pricing.NotAvailable, doc.Page.Text(display.RegionDelivery))
	assert.Equal(t, "4.50", doc.Page.Text(display.RegionGrandTotal))
}

func TestParseWithoutSelector(t *testing.T) {
	_, err := Parse(strings.NewReader(`<html><body><p>nothing here</p></body></html>`))
	assert.ErrorIs(t, err, ErrNoSelector)
}

func TestRenderPaymentForm(t *testing.T) {
	var buf bytes.Buffer
	err := RenderPaymentForm(&buf, PaymentFormView{
		Methods:       []models.PaymentMethod{models.PaymentMethodCreditCard, models.PaymentMethodBankTransfer},
		DefaultMethod: models.PaymentMethodBankTransfer,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `id="paymentForm"`)
	assert.Contains(t, out, `<option value="Bank Transfer" selected>Bank Transfer</option>`)
	assert.Contains(t, out, `name="password" type="password"`)
}
