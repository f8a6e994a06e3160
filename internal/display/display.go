// Package display binds a shipping option selector to the page regions that
// show the shipping charge, delivery estimate and grand total.
//
// A Page and its Selector belong to a single page load and are not safe for
// concurrent use. Events are dispatched synchronously, so each handler runs
// to completion before Select returns.
package display

import (
	"fmt"

	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/pricing"
)

// RegionID names an output region of the shipping page.
type RegionID string

const (
	RegionShippingCharge RegionID = "totalPrice"
	RegionDelivery       RegionID = "estimatedDelivery"
	RegionGrandTotal     RegionID = "finalTotal"
)

// Regions lists the output regions in display order.
var Regions = []RegionID{RegionShippingCharge, RegionDelivery, RegionGrandTotal}

// Page holds the read-only page attributes and the current region text.
type Page struct {
	totalPayment string
	regions      map[RegionID]string
}

// NewPage creates a page carrying the server-rendered total payment attribute.
func NewPage(totalPayment string) *Page {
	return &Page{
		totalPayment: totalPayment,
		regions:      make(map[RegionID]string, len(Regions)),
	}
}

// TotalPayment returns the raw total payment attribute.
func (p *Page) TotalPayment() string {
	return p.totalPayment
}

// SetText overwrites the text of a region.
func (p *Page) SetText(id RegionID, text string) {
	p.regions[id] = text
}

// Text returns the current text of a region.
func (p *Page) Text(id RegionID) string {
	return p.regions[id]
}

// Option is one entry of the shipping method selector.
type Option struct {
	Value string
	Label string
	pricing.Option
}

// SelectionChanged is raised when the selected option changes.
type SelectionChanged struct {
	Index  int
	Option Option
}

// Handler receives selection change events.
type Handler func(SelectionChanged)

// Selector is the shipping method selection control.
type Selector struct {
	options  []Option
	selected int
	handlers map[int]Handler
	order    []int
	nextID   int
}

// NewSelector creates a selector with the given options, initially selecting
// the option at index selected. With no options nothing is selected.
func NewSelector(options []Option, selected int) *Selector {
	switch {
	case len(options) == 0:
		selected = -1
	case selected < 0 || selected >= len(options):
		selected = 0
	}
	return &Selector{
		options:  options,
		selected: selected,
		handlers: make(map[int]Handler),
	}
}

// Options returns the selector's options.
func (s *Selector) Options() []Option {
	return s.options
}

// Selected returns the currently selected option.
func (s *Selector) Selected() (Option, bool) {
	if s.selected < 0 {
		return Option{}, false
	}
	return s.options[s.selected], true
}

// Subscribe registers h for selection changes and returns a function that
// removes it.
func (s *Selector) Subscribe(h Handler) func() {
	id := s.nextID
	s.nextID++
	s.handlers[id] = h
	s.order = append(s.order, id)

	return func() {
		delete(s.handlers, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

// Select changes the selection to index. Handlers are only notified when the
// selection actually changes.
func (s *Selector) Select(index int) error {
	if index < 0 || index >= len(s.options) {
		return fmt.Errorf("option index %d out of range [0,%d)", index, len(s.options))
	}
	if index == s.selected {
		return nil
	}
	s.selected = index

	ev := SelectionChanged{Index: index, Option: s.options[index]}
	for _, id := range append([]int(nil), s.order...) {
		if h, ok := s.handlers[id]; ok {
			h(ev)
		}
	}
	return nil
}

// SelectValue selects the first option with the given value.
func (s *Selector) SelectValue(value string) error {
	for i, opt := range s.options {
		if opt.Value == value {
			return s.Select(i)
		}
	}
	return fmt.Errorf("no option with value %q", value)
}

// Updater rewrites the page regions whenever the selection changes.
type Updater struct {
	page      *Page
	observers []func(pricing.Display)
}

// NewUpdater creates an updater writing into page.
func NewUpdater(page *Page) *Updater {
	return &Updater{page: page}
}

// OnUpdate registers fn to be called with every computed display state.
func (u *Updater) OnUpdate(fn func(pricing.Display)) {
	u.observers = append(u.observers, fn)
}

// Bind subscribes the updater to sel.
func (u *Updater) Bind(sel *Selector) func() {
	return sel.Subscribe(u.Handle)
}

// Handle applies a selection change to the page.
func (u *Updater) Handle(ev SelectionChanged) {
	d := u.Apply(ev.Option.Option)
	for _, fn := range u.observers {
		fn(d)
	}
}

// Apply computes the display state for opt and writes it into the page. The
// grand total region is untouched when the charge cannot be parsed.
func (u *Updater) Apply(opt pricing.Option) pricing.Display {
	d := pricing.Compute(opt, u.page.TotalPayment())

	u.page.SetText(RegionShippingCharge, d.ShippingCharge)
	u.page.SetText(RegionDelivery, d.DeliveryEstimate)
	if d.Valid {
		u.page.SetText(RegionGrandTotal, d.GrandTotal)
	}
	return d
}
