package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/pricing"
)

func testOptions() []Option {
	return []Option{
		{Value: "standard", Label: "Standard Shipping", Option: pricing.Option{Charge: "5.00", Delivery: "5-7 Business Days"}},
		{Value: "express", Label: "Express Shipping", Option: pricing.Option{Charge: "12.5", Delivery: "3-5 days"}},
		{Value: "broken", Label: "Broken", Option: pricing.Option{Charge: "", Delivery: "Tomorrow"}},
		{Value: "nodelivery", Label: "No Delivery", Option: pricing.Option{Charge: "7"}},
	}
}

func newBoundPage(totalPayment string) (*Page, *Selector, *Updater) {
	page := NewPage(totalPayment)
	page.SetText(RegionShippingCharge, "5.00")
	page.SetText(RegionDelivery, "5-7 Business Days")
	page.SetText(RegionGrandTotal, "54.99")

	sel := NewSelector(testOptions(), 0)
	u := NewUpdater(page)
	u.Bind(sel)
	return page, sel, u
}

func TestUpdaterValidSelection(t *testing.T) {
	page, sel, _ := newBoundPage("49.99")

	require.NoError(t, sel.SelectValue("express"))

	assert.Equal(t, "12.50", page.Text(RegionShippingCharge))
	assert.Equal(t, "3-5 days", page.Text(RegionDelivery))
	assert.Equal(t, "62.49", page.Text(RegionGrandTotal))
}

func TestUpdaterInvalidChargeLeavesGrandTotal(t *testing.T) {
	page, sel, _ := newBoundPage("49.99")

	require.NoError(t, sel.SelectValue("express"))
	require.NoError(t, sel.SelectValue("broken"))

	assert.Equal(t, "0.00", page.Text(RegionShippingCharge))
	assert.Equal(t, pricing.NotAvailable, page.Text(RegionDelivery))
	assert.Equal(t, "62.49", page.Text(RegionGrandTotal))
}

func TestUpdaterMissingDelivery(t *testing.T) {
	page, sel, _ := newBoundPage("")

	require.NoError(t, sel.Select(3))

	assert.Equal(t, "7.00", page.Text(RegionShippingCharge))
	assert.Equal(t, pricing.NotAvailable, page.Text(RegionDelivery))
	assert.Equal(t, "7.00", page.Text(RegionGrandTotal))
}

func TestUpdaterObservers(t *testing.T) {
	_, sel, u := newBoundPage("10")

	var seen []pricing.Display
	u.OnUpdate(func(d pricing.Display) { seen = append(seen, d) })

	require.NoError(t, sel.Select(1))
	require.NoError(t, sel.Select(2))

	require.Len(t, seen, 2)
	assert.True(t, seen[0].Valid)
	assert.False(t, seen[1].Valid)
}

func TestSelectorOnlyNotifiesOnChange(t *testing.T) {
	sel := NewSelector(testOptions(), 0)

	calls := 0
	sel.Subscribe(func(SelectionChanged) { calls++ })

	require.NoError(t, sel.Select(0))
	assert.Equal(t, 0, calls)

	require.NoError(t, sel.Select(1))
	require.NoError(t, sel.Select(1))
	assert.Equal(t, 1, calls)
}

func TestSelectorUnsubscribe(t *testing.T) {
	sel := NewSelector(testOptions(), 0)

	var first, second int
	unsubscribe := sel.Subscribe(func(SelectionChanged) { first++ })
	sel.Subscribe(func(SelectionChanged) { second++ })

	require.NoError(t, sel.Select(1))
	unsubscribe()
	require.NoError(t, sel.Select(2))

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestSelectorEventCarriesOption(t *testing.T) {
	sel := NewSelector(testOptions(), 0)

	var got SelectionChanged
	sel.Subscribe(func(ev SelectionChanged) { got = ev })

	require.NoError(t, sel.Select(1))
	assert.Equal(t, 1, got.Index)
	assert.Equal(t, "express", got.Option.Value)
	assert.Equal(t, "12.5", got.Option.Charge)
}

func TestSelectorErrors(t *testing.T) {
	sel := NewSelector(testOptions(), 9)

	opt, ok := sel.Selected()
	require.True(t, ok)
	assert.Equal(t, "standard", opt.Value)

	assert.Error(t, sel.Select(-1))
	assert.Error(t, sel.Select(4))
	assert.Error(t, sel.SelectValue("teleport"))

	empty := NewSelector(nil, 0)
	_, ok = empty.Selected()
	assert.False(t, ok)
	assert.Error(t, empty.Select(0))
}
