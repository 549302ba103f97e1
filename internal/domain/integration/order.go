package integration

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Normalized Order
// ---------------------------------------------------------------------------

// NormalizedOrder is the provider-independent view of a marketplace order.
// Status keeps the provider's own vocabulary.
type NormalizedOrder struct {
	// Platform is the marketplace the order came from
	Platform PlatformCode `json:"platform"`
	// ExternalID is the order identifier on the marketplace
	ExternalID string `json:"external_id"`
	// Status is the provider order status, unmodified
	Status string `json:"status"`
	// Buyer holds the customer contact details
	Buyer Buyer `json:"buyer"`
	// ShippingAddress is where the order ships to
	ShippingAddress Address `json:"shipping_address"`
	// Total is the amount charged to the buyer
	Total decimal.Decimal `json:"total"`
	// Currency is the ISO 4217 code, empty when the provider omits it
	Currency string `json:"currency,omitempty"`
	// Items are the order lines
	Items []OrderLine `json:"items"`
	// CreatedAt is when the order was placed
	CreatedAt time.Time `json:"created_at"`
	// TrackingNumber is the cargo tracking number, if already shipped
	TrackingNumber string `json:"tracking_number,omitempty"`
	// Source tells live data from demo fixtures
	Source OrderSource `json:"source"`
	// Raw is the provider payload the order was mapped from
	Raw json.RawMessage `json:"raw,omitempty"`
}

// Buyer is the customer on an order
type Buyer struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Address is a shipping address. Full is set when the provider only returns a single line.
type Address struct {
	Name       string `json:"name,omitempty"`
	Line1      string `json:"line1,omitempty"`
	District   string `json:"district,omitempty"`
	City       string `json:"city,omitempty"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
	Full       string `json:"full,omitempty"`
}

// OrderLine is a single line item
type OrderLine struct {
	Name      string          `json:"name"`
	SKU       string          `json:"sku,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// LineTotal returns UnitPrice * Quantity
func (l OrderLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ItemCount returns the total quantity across all lines
func (o NormalizedOrder) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

// IsFixture reports whether the order is demo data
func (o NormalizedOrder) IsFixture() bool {
	return o.Source == OrderSourceFixture
}
