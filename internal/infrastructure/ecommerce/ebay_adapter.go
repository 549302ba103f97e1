package ecommerce

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/siparisbot/backend/internal/domain/integration"
)

// EbayOrder is an order in the Fulfillment API shape
type EbayOrder struct {
	OrderID         string         `json:"orderId"`
	CreationDate    time.Time      `json:"creationDate"`
	OrderStatus     string         `json:"orderFulfillmentStatus"`
	Buyer           EbayBuyer      `json:"buyer"`
	ShippingAddress EbayAddress    `json:"shippingAddress"`
	Total           EbayAmount     `json:"total"`
	LineItems       []EbayLineItem `json:"lineItems"`
}

// EbayBuyer is the buyer of an order
type EbayBuyer struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// EbayAddress is the ship-to address of an order
type EbayAddress struct {
	Name            string `json:"name"`
	Street1         string `json:"street1"`
	City            string `json:"city"`
	StateOrProvince string `json:"stateOrProvince"`
	PostalCode      string `json:"postalCode"`
	Country         string `json:"country"`
}

// EbayAmount is a value with its currency
type EbayAmount struct {
	Value    flexDecimal `json:"value"`
	Currency string      `json:"currency"`
}

// EbayLineItem is one order line
type EbayLineItem struct {
	ItemID       string     `json:"itemId"`
	Title        string     `json:"title"`
	Quantity     int        `json:"quantity"`
	LineItemCost EbayAmount `json:"lineItemCost"`
}

// EbayAdapter reports eBay configuration. No Fulfillment API calls are wired:
// order operations fail with ErrNotImplemented, or return demo orders when fixtures are enabled.
type EbayAdapter struct {
	config   EbayConfig
	fixtures bool
	now      func() time.Time
}

var _ integration.MarketplaceAdapter = (*EbayAdapter)(nil)

// NewEbayAdapter creates an eBay adapter
func NewEbayAdapter(cfg EbayConfig, fixtures bool) *EbayAdapter {
	return &EbayAdapter{config: cfg, fixtures: fixtures, now: time.Now}
}

// Platform returns the platform code this adapter handles
func (a *EbayAdapter) Platform() integration.PlatformCode {
	return integration.PlatformCodeEbay
}

// Mode returns AdapterModeNotWired
func (a *EbayAdapter) Mode() integration.AdapterMode {
	return integration.AdapterModeNotWired
}

// IsConfigured reports whether every required credential is set
func (a *EbayAdapter) IsConfigured() bool {
	return a.config.Status().Configured
}

// ConfigStatus lists the missing credential keys
func (a *EbayAdapter) ConfigStatus() integration.ConfigStatus {
	return a.config.Status()
}

// FetchOrders returns fixture orders when enabled, ErrNotImplemented otherwise
func (a *EbayAdapter) FetchOrders(_ context.Context, filter integration.OrderFilter) ([]integration.NormalizedOrder, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	provider := a.Platform().DisplayName()
	if err := a.ConfigStatus().Err(provider); err != nil {
		return nil, err
	}
	if !a.fixtures {
		return nil, integration.NewNotImplementedError(provider)
	}
	if filter.Page > 0 {
		return []integration.NormalizedOrder{}, nil
	}
	return []integration.NormalizedOrder{ebayToNormalized(ebayFixtureOrder(a.now()))}, nil
}

// UpdateShipment always fails with ErrNotImplemented once configured
func (a *EbayAdapter) UpdateShipment(_ context.Context, update integration.ShipmentUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}
	provider := a.Platform().DisplayName()
	if err := a.ConfigStatus().Err(provider); err != nil {
		return err
	}
	return integration.NewNotImplementedError(provider)
}

func ebayFixtureOrder(now time.Time) EbayOrder {
	return EbayOrder{
		OrderID:      "EBAY-123-2024",
		CreationDate: now.UTC(),
		OrderStatus:  "ACTIVE",
		Buyer: EbayBuyer{
			Username: "buyer_user",
			Email:    "buyer@example.com",
		},
		ShippingAddress: EbayAddress{
			Name:            "Jane Smith",
			Street1:         "456 Oak Ave",
			City:            "Los Angeles",
			StateOrProvince: "CA",
			PostalCode:      "90001",
			Country:         "US",
		},
		Total: EbayAmount{Value: decStr("75.00"), Currency: "USD"},
		LineItems: []EbayLineItem{
			{
				ItemID:       "123456789",
				Title:        "eBay Product Sample",
				Quantity:     1,
				LineItemCost: EbayAmount{Value: decStr("75.00"), Currency: "USD"},
			},
		},
	}
}

// ebayToNormalized maps an eBay order to the common shape. The buyer name comes
// from the ship-to address since eBay only exposes a username.
func ebayToNormalized(o EbayOrder) integration.NormalizedOrder {
	items := make([]integration.OrderLine, 0, len(o.LineItems))
	for _, it := range o.LineItems {
		unit := it.LineItemCost.Value.Decimal
		if it.Quantity > 1 {
			unit = unit.DivRound(decimal.NewFromInt(int64(it.Quantity)), 2)
		}
		items = append(items, integration.OrderLine{
			Name:      it.Title,
			SKU:       it.ItemID,
			Quantity:  it.Quantity,
			UnitPrice: unit,
		})
	}

	addr := o.ShippingAddress
	name := addr.Name
	if name == "" {
		name = o.Buyer.Username
	}
	return integration.NormalizedOrder{
		Platform:   integration.PlatformCodeEbay,
		ExternalID: o.OrderID,
		Status:     o.OrderStatus,
		Buyer: integration.Buyer{
			Name:  name,
			Email: o.Buyer.Email,
		},
		ShippingAddress: integration.Address{
			Name:       addr.Name,
			Line1:      addr.Street1,
			City:       addr.City,
			Region:     addr.StateOrProvince,
			PostalCode: addr.PostalCode,
			Country:    addr.Country,
		},
		Total:     o.Total.Value.Decimal,
		Currency:  o.Total.Currency,
		Items:     items,
		CreatedAt: o.CreationDate,
		Source:    integration.OrderSourceFixture,
		Raw:       rawJSON(o),
	}
}
