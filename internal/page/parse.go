// Package page renders the server-side checkout pages and reads the data
// attributes embedded in their markup.
package page

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/display"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/pricing"
)

// Element ids and attribute names shared with the rendered markup.
const (
	SelectorID       = "shippingMethods"
	AttrCharge       = "data-charge"
	AttrDelivery     = "data-delivery"
	AttrTotalPayment = "data-total-payment"
)

// ErrNoSelector is returned when the markup has no shipping method selector.
var ErrNoSelector = errors.New("page has no #" + SelectorID + " selector")

// Document is a parsed shipping page.
type Document struct {
	Page     *display.Page
	Selector *display.Selector
}

// Parse reads shipping page markup. The body's total payment attribute,
// the selector options with their data attributes, and the current text of
// the output regions are extracted. A missing attribute reads as empty.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var (
		body     *html.Node
		selectEl *html.Node
		regions  = make(map[display.RegionID]string)
	)

	walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		if n.DataAtom == atom.Body && body == nil {
			body = n
		}
		id, _ := attr(n, "id")
		if id == SelectorID && n.DataAtom == atom.Select && selectEl == nil {
			selectEl = n
			return false
		}
		for _, region := range display.Regions {
			if id == string(region) {
				regions[region] = strings.TrimSpace(textContent(n))
			}
		}
		return true
	})

	if selectEl == nil {
		return nil, ErrNoSelector
	}

	var totalPayment string
	if body != nil {
		totalPayment, _ = attr(body, AttrTotalPayment)
	}

	options, selected := readOptions(selectEl)

	p := display.NewPage(totalPayment)
	for id, text := range regions {
		p.SetText(id, text)
	}

	return &Document{
		Page:     p,
		Selector: display.NewSelector(options, selected),
	}, nil
}

func readOptions(sel *html.Node) ([]display.Option, int) {
	var (
		options  []display.Option
		selected = -1
	)
	walk(sel, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.DataAtom != atom.Option {
			return true
		}
		label := strings.TrimSpace(textContent(n))
		value, ok := attr(n, "value")
		if !ok {
			value = label
		}
		charge, _ := attr(n, AttrCharge)
		delivery, _ := attr(n, AttrDelivery)
		if _, ok := attr(n, "selected"); ok {
			selected = len(options)
		}
		options = append(options, display.Option{
			Value:  value,
			Label:  label,
			Option: pricing.Option{Charge: charge, Delivery: delivery},
		})
		return false
	})
	if selected < 0 {
		selected = 0
	}
	return options, selected
}

// walk visits n and its descendants depth first; fn returning false skips
// the node's children.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}
