// Package promotions holds the discount code message catalog.
package promotions

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/models"
)

// InvalidCodeMessage is shown for an empty or unknown discount code.
const InvalidCodeMessage = "Please select a valid discount code."

// Catalog maps discount codes to the message shown when they are applied.
// It is built once at startup and never modified.
type Catalog struct {
	messages map[string]string
}

type catalogFile struct {
	Discounts []struct {
		Code    string `yaml:"code"`
		Message string `yaml:"message"`
	} `yaml:"discounts"`
}

// NewCatalog copies messages into a new catalog.
func NewCatalog(messages map[string]string) (*Catalog, error) {
	c := &Catalog{messages: make(map[string]string, len(messages))}
	for code, msg := range messages {
		if strings.TrimSpace(code) == "" {
			return nil, fmt.Errorf("discount code must not be empty")
		}
		if msg == "" {
			return nil, fmt.Errorf("discount code %q has no message", code)
		}
		c.messages[code] = msg
	}
	return c, nil
}

// ParseCatalog reads a YAML catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse discount catalog: %w", err)
	}
	messages := make(map[string]string, len(f.Discounts))
	for _, d := range f.Discounts {
		if _, dup := messages[d.Code]; dup {
			return nil, fmt.Errorf("duplicate discount code %q", d.Code)
		}
		messages[d.Code] = d.Message
	}
	return NewCatalog(messages)
}

// LoadCatalog reads a YAML catalog file. An empty path yields an empty catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return NewCatalog(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read discount catalog: %w", err)
	}
	return ParseCatalog(data)
}

// Message returns the message for code.
func (c *Catalog) Message(code string) (string, bool) {
	msg, ok := c.messages[code]
	return msg, ok
}

// Codes returns the known codes in sorted order.
func (c *Catalog) Codes() []string {
	codes := make([]string, 0, len(c.messages))
	for code := range c.messages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Len returns the number of codes.
func (c *Catalog) Len() int {
	return len(c.messages)
}

// Apply looks up code and returns the message to show.
func (c *Catalog) Apply(code string) models.DiscountResult {
	if code != "" {
		if msg, ok := c.messages[code]; ok {
			return models.DiscountResult{Code: code, Success: true, Message: msg}
		}
	}
	return models.DiscountResult{Code: code, Success: false, Message: InvalidCodeMessage}
}
