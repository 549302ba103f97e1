package ecommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/infrastructure/providerhttp"
)

// TrendyolAdapter implements MarketplaceAdapter for the Trendyol supplier API
type TrendyolAdapter struct {
	config TrendyolConfig
	client *providerhttp.Client
}

// Compile-time interface check
var _ integration.MarketplaceAdapter = (*TrendyolAdapter)(nil)

// NewTrendyolAdapter creates a Trendyol adapter. Credentials are not validated here;
// an unconfigured adapter reports its missing keys and refuses network calls.
func NewTrendyolAdapter(cfg TrendyolConfig, opts ...providerhttp.Option) *TrendyolAdapter {
	return &TrendyolAdapter{
		config: cfg,
		client: providerhttp.NewWithOptions(integration.PlatformCodeTrendyol.DisplayName(), opts...),
	}
}

// Platform returns the platform code this adapter handles
func (a *TrendyolAdapter) Platform() integration.PlatformCode {
	return integration.PlatformCodeTrendyol
}

// Mode returns AdapterModeLive
func (a *TrendyolAdapter) Mode() integration.AdapterMode {
	return integration.AdapterModeLive
}

// IsConfigured reports whether every required credential is set
func (a *TrendyolAdapter) IsConfigured() bool {
	return a.config.Status().Configured
}

// ConfigStatus lists the missing credential keys
func (a *TrendyolAdapter) ConfigStatus() integration.ConfigStatus {
	return a.config.Status()
}

// ---------------------------------------------------------------------------
// Native Operations
// ---------------------------------------------------------------------------

// GetOrders lists shipment packages in Trendyol's native shape
func (a *TrendyolAdapter) GetOrders(ctx context.Context, params TrendyolOrderParams) ([]TrendyolOrder, error) {
	if err := a.ConfigStatus().Err(a.client.Provider()); err != nil {
		return nil, err
	}

	size := params.Size
	if size <= 0 {
		size = TrendyolDefaultPageSize
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(params.Page))
	query.Set("size", strconv.Itoa(size))
	if params.StartDate > 0 {
		query.Set("startDate", strconv.FormatInt(params.StartDate, 10))
	}
	if params.EndDate > 0 {
		query.Set("endDate", strconv.FormatInt(params.EndDate, 10))
	}
	if params.Status != "" {
		query.Set("status", params.Status)
	}

	var page trendyolOrdersPage
	err := a.client.DoJSON(ctx, providerhttp.Request{
		Operation: "orders.list",
		Method:    http.MethodGet,
		URL:       a.ordersURL() + "?" + query.Encode(),
		Header:    a.headers(),
	}, &page)
	if err != nil {
		return nil, fmt.Errorf("trendyol get orders: %w", err)
	}

	return decodeEach[TrendyolOrder](a.client.Provider(), page.Content)
}

// GetOrderDetails fetches one shipment package by order number
func (a *TrendyolAdapter) GetOrderDetails(ctx context.Context, orderNumber string) (*TrendyolOrder, error) {
	if err := a.ConfigStatus().Err(a.client.Provider()); err != nil {
		return nil, err
	}
	if orderNumber == "" {
		return nil, fmt.Errorf("%w: order number is required", integration.ErrInvalidRequest)
	}

	resp, err := a.client.Do(ctx, providerhttp.Request{
		Operation: "orders.get",
		Method:    http.MethodGet,
		URL:       a.ordersURL() + "/" + url.PathEscape(orderNumber),
		Header:    a.headers(),
	})
	if err != nil {
		return nil, fmt.Errorf("trendyol get order details: %w", err)
	}

	orders, err := decodeEach[TrendyolOrder](a.client.Provider(), []json.RawMessage{resp.Body})
	if err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// UpdateCargoInfo sets the cargo tracking number of an order
func (a *TrendyolAdapter) UpdateCargoInfo(ctx context.Context, orderNumber, trackingNumber, cargoProviderName string) error {
	if err := a.ConfigStatus().Err(a.client.Provider()); err != nil {
		return err
	}

	body, err := a.client.EncodeJSON(trendyolCargoRequest{
		CargoTrackingNumber: trackingNumber,
		CargoProviderName:   cargoProviderName,
	})
	if err != nil {
		return err
	}

	_, err = a.client.Do(ctx, providerhttp.Request{
		Operation: "orders.cargo_tracking",
		Method:    http.MethodPut,
		URL:       a.ordersURL() + "/" + url.PathEscape(orderNumber) + "/cargo-tracking-number",
		Header:    a.headers(),
		Body:      body,
	})
	if err != nil {
		return fmt.Errorf("trendyol update cargo info: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// MarketplaceAdapter
// ---------------------------------------------------------------------------

// FetchOrders lists orders and maps them to NormalizedOrder
func (a *TrendyolAdapter) FetchOrders(ctx context.Context, filter integration.OrderFilter) ([]integration.NormalizedOrder, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	params := TrendyolOrderParams{
		Page:   filter.Page,
		Size:   filter.PageSize,
		Status: filter.Status,
	}
	if filter.StartDate != nil {
		params.StartDate = filter.StartDate.UnixMilli()
	}
	if filter.EndDate != nil {
		params.EndDate = filter.EndDate.UnixMilli()
	}

	orders, err := a.GetOrders(ctx, params)
	if err != nil {
		return nil, err
	}

	out := make([]integration.NormalizedOrder, 0, len(orders))
	for _, o := range orders {
		out = append(out, trendyolToNormalized(o))
	}
	return out, nil
}

// UpdateShipment pushes tracking data through the cargo tracking endpoint
func (a *TrendyolAdapter) UpdateShipment(ctx context.Context, update integration.ShipmentUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}
	return a.UpdateCargoInfo(ctx, update.OrderID, update.TrackingNumber, update.Carrier)
}

func (a *TrendyolAdapter) ordersURL() string {
	return a.config.baseURL() + "/" + url.PathEscape(a.config.SupplierID) + "/orders"
}

func (a *TrendyolAdapter) headers() http.Header {
	h := providerhttp.JSONHeader()
	h.Set("Authorization", a.config.authorization())
	h.Set("User-Agent", userAgent)
	return h
}

// trendyolToNormalized maps a shipment package to the common order shape
func trendyolToNormalized(o TrendyolOrder) integration.NormalizedOrder {
	addr := o.ShipmentAddress
	items := make([]integration.OrderLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		sku := l.Barcode
		if sku == "" {
			sku = l.MerchantSKU
		}
		items = append(items, integration.OrderLine{
			Name:      l.ProductName,
			SKU:       sku,
			Quantity:  l.Quantity,
			UnitPrice: l.Price.Decimal,
		})
	}

	recipient := addr.FullName
	if recipient == "" {
		recipient = joinName(addr.FirstName, addr.LastName)
	}

	return integration.NormalizedOrder{
		Platform:   integration.PlatformCodeTrendyol,
		ExternalID: o.OrderNumber.String(),
		Status:     o.Status,
		Buyer: integration.Buyer{
			Name:  joinName(o.CustomerFirstName, o.CustomerLastName),
			Email: o.CustomerEmail,
			Phone: addr.Phone.String(),
		},
		ShippingAddress: integration.Address{
			Name:       recipient,
			Line1:      addr.Address1,
			District:   addr.District,
			City:       addr.City,
			PostalCode: addr.PostalCode,
			Country:    addr.CountryCode,
			Full:       addr.FullAddress,
		},
		Total:          o.TotalPrice.Decimal,
		Currency:       o.CurrencyCode,
		Items:          items,
		CreatedAt:      fromUnixMillis(o.OrderDate),
		TrackingNumber: o.CargoTrackingNumber.String(),
		Source:         integration.OrderSourceLive,
		Raw:            o.RawJSON(),
	}
}
