package ecommerce

import (
	"context"
	"time"

	"github.com/siparisbot/backend/internal/domain/integration"
)

// AmazonOrder is an order in the Selling Partner API shape
type AmazonOrder struct {
	AmazonOrderID   string            `json:"AmazonOrderId"`
	PurchaseDate    time.Time         `json:"PurchaseDate"`
	OrderStatus     string            `json:"OrderStatus"`
	BuyerInfo       AmazonBuyerInfo   `json:"BuyerInfo"`
	ShippingAddress AmazonAddress     `json:"ShippingAddress"`
	OrderTotal      AmazonMoney       `json:"OrderTotal"`
	OrderItems      []AmazonOrderItem `json:"OrderItems"`
}

// AmazonBuyerInfo is the buyer of an order
type AmazonBuyerInfo struct {
	BuyerEmail string `json:"BuyerEmail,omitempty"`
	BuyerName  string `json:"BuyerName,omitempty"`
}

// AmazonAddress is the shipping address of an order
type AmazonAddress struct {
	Name          string `json:"Name"`
	AddressLine1  string `json:"AddressLine1"`
	City          string `json:"City"`
	StateOrRegion string `json:"StateOrRegion"`
	PostalCode    string `json:"PostalCode"`
	CountryCode   string `json:"CountryCode"`
}

// AmazonMoney is an amount with its currency
type AmazonMoney struct {
	CurrencyCode string      `json:"CurrencyCode"`
	Amount       flexDecimal `json:"Amount"`
}

// AmazonOrderItem is one order line
type AmazonOrderItem struct {
	ASIN            string      `json:"ASIN"`
	Title           string      `json:"Title"`
	QuantityOrdered int         `json:"QuantityOrdered"`
	ItemPrice       AmazonMoney `json:"ItemPrice"`
}

// AmazonAdapter reports Amazon configuration. No Selling Partner API calls are wired:
// order operations fail with ErrNotImplemented, or return demo orders when fixtures are enabled.
type AmazonAdapter struct {
	config   AmazonConfig
	fixtures bool
	now      func() time.Time
}

var _ integration.MarketplaceAdapter = (*AmazonAdapter)(nil)

// NewAmazonAdapter creates an Amazon adapter
func NewAmazonAdapter(cfg AmazonConfig, fixtures bool) *AmazonAdapter {
	return &AmazonAdapter{config: cfg, fixtures: fixtures, now: time.Now}
}

// Platform returns the platform code this adapter handles
func (a *AmazonAdapter) Platform() integration.PlatformCode {
	return integration.PlatformCodeAmazon
}

// Mode returns AdapterModeNotWired
func (a *AmazonAdapter) Mode() integration.AdapterMode {
	return integration.AdapterModeNotWired
}

// IsConfigured reports whether every required credential is set
func (a *AmazonAdapter) IsConfigured() bool {
	return a.config.Status().Configured
}

// ConfigStatus lists the missing credential keys
func (a *AmazonAdapter) ConfigStatus() integration.ConfigStatus {
	return a.config.Status()
}

// MarketplaceID returns the configured marketplace ID, or the one derived from country
func (a *AmazonAdapter) MarketplaceID(country string) string {
	if a.config.MarketplaceID != "" {
		return a.config.MarketplaceID
	}
	return MarketplaceID(country)
}

// FetchOrders returns fixture orders when enabled, ErrNotImplemented otherwise
func (a *AmazonAdapter) FetchOrders(_ context.Context, filter integration.OrderFilter) ([]integration.NormalizedOrder, error) {
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
	return []integration.NormalizedOrder{amazonToNormalized(amazonFixtureOrder(a.now()))}, nil
}

// UpdateShipment always fails with ErrNotImplemented once configured
func (a *AmazonAdapter) UpdateShipment(_ context.Context, update integration.ShipmentUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}
	provider := a.Platform().DisplayName()
	if err := a.ConfigStatus().Err(provider); err != nil {
		return err
	}
	return integration.NewNotImplementedError(provider)
}

func amazonFixtureOrder(now time.Time) AmazonOrder {
	return AmazonOrder{
		AmazonOrderID: "AMZ-111-2024-001",
		PurchaseDate:  now.UTC(),
		OrderStatus:   "Pending",
		BuyerInfo: AmazonBuyerInfo{
			BuyerEmail: "customer@example.com",
			BuyerName:  "John Doe",
		},
		ShippingAddress: AmazonAddress{
			Name:          "John Doe",
			AddressLine1:  "123 Main St",
			City:          "New York",
			StateOrRegion: "NY",
			PostalCode:    "10001",
			CountryCode:   "US",
		},
		OrderTotal: AmazonMoney{CurrencyCode: "USD", Amount: decStr("99.99")},
		OrderItems: []AmazonOrderItem{
			{
				ASIN:            "B08N5WRWNW",
				Title:           "Sample Product",
				QuantityOrdered: 1,
				ItemPrice:       AmazonMoney{CurrencyCode: "USD", Amount: decStr("99.99")},
			},
		},
	}
}

// amazonToNormalized maps an Amazon order to the common shape. Only fixtures pass through here.
func amazonToNormalized(o AmazonOrder) integration.NormalizedOrder {
	items := make([]integration.OrderLine, 0, len(o.OrderItems))
	for _, it := range o.OrderItems {
		items = append(items, integration.OrderLine{
			Name:      it.Title,
			SKU:       it.ASIN,
			Quantity:  it.QuantityOrdered,
			UnitPrice: it.ItemPrice.Amount.Decimal,
		})
	}

	addr := o.ShippingAddress
	return integration.NormalizedOrder{
		Platform:   integration.PlatformCodeAmazon,
		ExternalID: o.AmazonOrderID,
		Status:     o.OrderStatus,
		Buyer: integration.Buyer{
			Name:  o.BuyerInfo.BuyerName,
			Email: o.BuyerInfo.BuyerEmail,
		},
		ShippingAddress: integration.Address{
			Name:       addr.Name,
			Line1:      addr.AddressLine1,
			City:       addr.City,
			Region:     addr.StateOrRegion,
			PostalCode: addr.PostalCode,
			Country:    addr.CountryCode,
		},
		Total:     o.OrderTotal.Amount.Decimal,
		Currency:  o.OrderTotal.CurrencyCode,
		Items:     items,
		CreatedAt: o.PurchaseDate,
		Source:    integration.OrderSourceFixture,
		Raw:       rawJSON(o),
	}
}
