package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MaxOrderPageSize is the largest page size any marketplace accepts
const MaxOrderPageSize = 200

// ---------------------------------------------------------------------------
// Request Types
// ---------------------------------------------------------------------------

// OrderFilter narrows an order listing. Zero values mean "provider default".
type OrderFilter struct {
	// StartDate limits to orders created at or after this time
	StartDate *time.Time
	// EndDate limits to orders created at or before this time
	EndDate *time.Time
	// Page is the zero-based page number
	Page int
	// PageSize is the number of orders per page (0 = provider default)
	PageSize int
	// Status filters by provider order status
	Status string
}

// Validate checks the filter for impossible values
func (f OrderFilter) Validate() error {
	if f.Page < 0 {
		return fmt.Errorf("%w: page must not be negative", ErrInvalidRequest)
	}
	if f.PageSize < 0 || f.PageSize > MaxOrderPageSize {
		return fmt.Errorf("%w: page size must be between 0 and %d", ErrInvalidRequest, MaxOrderPageSize)
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return fmt.Errorf("%w: end date is before start date", ErrInvalidRequest)
	}
	return nil
}

// ShipmentUpdate carries tracking data pushed back to a marketplace
type ShipmentUpdate struct {
	// OrderID is the marketplace order identifier (order number on Trendyol)
	OrderID string `json:"order_id"`
	// TrackingNumber is the cargo tracking number
	TrackingNumber string `json:"tracking_number"`
	// Carrier is the cargo company name
	Carrier string `json:"carrier"`
	// ShippingProviderID is the provider-side carrier ID (TikTok Shop); falls back to Carrier
	ShippingProviderID string `json:"shipping_provider_id,omitempty"`
	// ShippingMethod is the shipping service level (Meta Commerce)
	ShippingMethod string `json:"shipping_method,omitempty"`
}

// Validate checks that the required fields are present
func (u ShipmentUpdate) Validate() error {
	if u.OrderID == "" {
		return fmt.Errorf("%w: order id is required", ErrInvalidRequest)
	}
	if u.TrackingNumber == "" {
		return fmt.Errorf("%w: tracking number is required", ErrInvalidRequest)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Ports
// ---------------------------------------------------------------------------

// MarketplaceAdapter is the port every marketplace adapter implements.
// Network methods return a ConfigurationError without sending anything when IsConfigured is false.
type MarketplaceAdapter interface {
	ConfigReporter

	// Platform returns the marketplace this adapter serves
	Platform() PlatformCode

	// Mode tells whether the adapter calls the live API
	Mode() AdapterMode

	// FetchOrders lists orders and maps them to NormalizedOrder
	FetchOrders(ctx context.Context, filter OrderFilter) ([]NormalizedOrder, error)

	// UpdateShipment pushes tracking data for an order
	UpdateShipment(ctx context.Context, update ShipmentUpdate) error
}

// OrderPage is one page of a cursor-paginated order listing
type OrderPage struct {
	Orders []NormalizedOrder
	// Next is the cursor of the following page, empty on the last page
	Next string
}

// CursorPager is implemented by adapters whose provider pages by an opaque cursor
// instead of a page number. filter.Page is ignored; an empty cursor starts at the first page.
type CursorPager interface {
	FetchOrderPage(ctx context.Context, filter OrderFilter, cursor string) (OrderPage, error)
}

// AdapterRegistry resolves the adapters for a tenant
type AdapterRegistry interface {
	// Adapter returns the adapter for a platform, falling back to the default credential set
	Adapter(tenantID uuid.UUID, code PlatformCode) (MarketplaceAdapter, error)

	// Adapters returns every adapter visible to the tenant in platform order
	Adapters(tenantID uuid.UUID) []MarketplaceAdapter
}
