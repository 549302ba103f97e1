package ecommerce

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/infrastructure/providerhttp"
)

// MetaAdapter implements MarketplaceAdapter for Facebook and Instagram shops
// through the Graph API commerce endpoints
type MetaAdapter struct {
	config MetaConfig
	client *providerhttp.Client
}

var (
	_ integration.MarketplaceAdapter = (*MetaAdapter)(nil)
	_ integration.CursorPager        = (*MetaAdapter)(nil)
)

// NewMetaAdapter creates a Meta Commerce adapter
func NewMetaAdapter(cfg MetaConfig, opts ...providerhttp.Option) *MetaAdapter {
	return &MetaAdapter{
		config: cfg,
		client: providerhttp.NewWithOptions(integration.PlatformCodeMetaCommerce.DisplayName(), opts...),
	}
}

// Platform returns the platform code this adapter handles
func (a *MetaAdapter) Platform() integration.PlatformCode {
	return integration.PlatformCodeMetaCommerce
}

// Mode returns AdapterModeLive
func (a *MetaAdapter) Mode() integration.AdapterMode {
	return integration.AdapterModeLive
}

// IsConfigured reports whether every required credential is set
func (a *MetaAdapter) IsConfigured() bool {
	return a.config.Status().Configured
}

// ConfigStatus lists the missing credential keys
func (a *MetaAdapter) ConfigStatus() integration.ConfigStatus {
	return a.config.Status()
}

// ShopURL returns the public storefront of the page on the configured platform
func (a *MetaAdapter) ShopURL() string {
	return MetaShopURL(a.config.PageID, a.config.Platform)
}

// MetaShopURL builds the storefront URL for a page
func MetaShopURL(pageID string, platform MetaPlatform) string {
	if platform == MetaPlatformInstagram {
		return "https://www.instagram.com/" + pageID + "/shop"
	}
	return "https://www.facebook.com/" + pageID + "/shop"
}

// ListOrders returns the page's commerce orders in the Graph API shape. The Graph
// API pages by cursor, so a Page above zero follows paging.cursors.after from the first page.
func (a *MetaAdapter) ListOrders(ctx context.Context, filter integration.OrderFilter) ([]MetaOrder, error) {
	if err := a.ConfigStatus().Err(a.client.Provider()); err != nil {
		return nil, err
	}
	return walkToPage(ctx, filter.Page, func(ctx context.Context, cursor string) ([]MetaOrder, string, error) {
		return a.listOrdersPage(ctx, filter, cursor)
	})
}

// FetchOrderPage returns the orders after cursor and the cursor of the next page
func (a *MetaAdapter) FetchOrderPage(ctx context.Context, filter integration.OrderFilter, cursor string) (integration.OrderPage, error) {
	if err := filter.Validate(); err != nil {
		return integration.OrderPage{}, err
	}
	if err := a.ConfigStatus().Err(a.client.Provider()); err != nil {
		return integration.OrderPage{}, err
	}

	orders, next, err := a.listOrdersPage(ctx, filter, cursor)
	if err != nil {
		return integration.OrderPage{}, err
	}
	return integration.OrderPage{Orders: metaNormalizeAll(orders), Next: next}, nil
}

func (a *MetaAdapter) listOrdersPage(ctx context.Context, filter integration.OrderFilter, cursor string) ([]MetaOrder, string, error) {
	query := a.authQuery()
	query.Set("fields", metaOrderFields)
	if filter.PageSize > 0 {
		query.Set("limit", strconv.Itoa(filter.PageSize))
	}
	if filter.Status != "" {
		query.Set("state", filter.Status)
	}
	if filter.StartDate != nil {
		query.Set("updated_after", strconv.FormatInt(filter.StartDate.Unix(), 10))
	}
	if filter.EndDate != nil {
		query.Set("updated_before", strconv.FormatInt(filter.EndDate.Unix(), 10))
	}
	if cursor != "" {
		query.Set("after", cursor)
	}

	var envelope metaListEnvelope
	err := a.client.DoJSON(ctx, providerhttp.Request{
		Operation: "orders.list",
		Method:    http.MethodGet,
		URL:       a.config.baseURL() + "/" + url.PathEscape(a.config.PageID) + "/commerce_orders?" + query.Encode(),
		Header:    providerhttp.JSONHeader(),
	}, &envelope)
	if err != nil {
		return nil, "", fmt.Errorf("meta list orders: %w", err)
	}

	orders, err := decodeEach[MetaOrder](a.client.Provider(), envelope.Data)
	if err != nil {
		return nil, "", err
	}
	return orders, envelope.Paging.after(), nil
}

// UpdateOrderStatus moves an order to status. Tracking is only sent with SHIPPED.
func (a *MetaAdapter) UpdateOrderStatus(ctx context.Context, orderID string, status MetaOrderStatus, tracking *MetaTrackingInfo) error {
	if err := a.ConfigStatus().Err(a.client.Provider()); err != nil {
		return err
	}
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown order status %q", integration.ErrInvalidRequest, status)
	}

	req := metaStatusRequest{OrderStatus: status}
	if status == MetaOrderStatusShipped {
		req.TrackingInfo = tracking
	}
	body, err := a.client.EncodeJSON(req)
	if err != nil {
		return err
	}

	_, err = a.client.Do(ctx, providerhttp.Request{
		Operation: "orders.update_status",
		Method:    http.MethodPost,
		URL:       a.config.baseURL() + "/" + url.PathEscape(orderID) + "?" + a.authQuery().Encode(),
		Header:    providerhttp.JSONHeader(),
		Body:      body,
	})
	if err != nil {
		return fmt.Errorf("meta update order status: %w", err)
	}
	return nil
}

// ListCatalogProducts returns the catalog products, or nothing when no catalog is configured
func (a *MetaAdapter) ListCatalogProducts(ctx context.Context) ([]MetaProduct, error) {
	if err := a.ConfigStatus().Err(a.client.Provider()); err != nil {
		return nil, err
	}
	if a.config.CatalogID == "" {
		return []MetaProduct{}, nil
	}

	query := a.authQuery()
	query.Set("fields", metaCatalogFields)

	var envelope metaProductsEnvelope
	err := a.client.DoJSON(ctx, providerhttp.Request{
		Operation: "catalog.products",
		Method:    http.MethodGet,
		URL:       a.config.baseURL() + "/" + url.PathEscape(a.config.CatalogID) + "/products?" + query.Encode(),
	}, &envelope)
	if err != nil {
		return nil, fmt.Errorf("meta list catalog products: %w", err)
	}
	if envelope.Data == nil {
		return []MetaProduct{}, nil
	}
	return envelope.Data, nil
}

// FetchOrders lists commerce orders and maps them to NormalizedOrder
func (a *MetaAdapter) FetchOrders(ctx context.Context, filter integration.OrderFilter) ([]integration.NormalizedOrder, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	orders, err := a.ListOrders(ctx, filter)
	if err != nil {
		return nil, err
	}
	return metaNormalizeAll(orders), nil
}

func metaNormalizeAll(orders []MetaOrder) []integration.NormalizedOrder {
	out := make([]integration.NormalizedOrder, 0, len(orders))
	for _, o := range orders {
		out = append(out, metaToNormalized(o))
	}
	return out
}

// UpdateShipment marks the order SHIPPED with tracking info
func (a *MetaAdapter) UpdateShipment(ctx context.Context, update integration.ShipmentUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}
	return a.UpdateOrderStatus(ctx, update.OrderID, MetaOrderStatusShipped, &MetaTrackingInfo{
		Carrier:        update.Carrier,
		TrackingNumber: update.TrackingNumber,
		ShippingMethod: update.ShippingMethod,
	})
}

func (a *MetaAdapter) authQuery() url.Values {
	query := url.Values{}
	query.Set("access_token", a.config.AccessToken)
	return query
}

// metaToNormalized maps a commerce order to the common order shape
func metaToNormalized(o MetaOrder) integration.NormalizedOrder {
	items := make([]integration.OrderLine, 0, len(o.Items.Data))
	currency := o.EstimatedPaymentDetails.TotalAmount.Currency
	for _, it := range o.Items.Data {
		name := it.ProductName
		if name == "" {
			name = it.ProductID
		}
		items = append(items, integration.OrderLine{
			Name:      name,
			SKU:       it.RetailerID,
			Quantity:  it.Quantity,
			UnitPrice: it.PricePerUnit.Amount.Decimal,
		})
		if currency == "" {
			currency = it.PricePerUnit.Currency
		}
	}

	addr := o.ShippingAddress
	return integration.NormalizedOrder{
		Platform:   integration.PlatformCodeMetaCommerce,
		ExternalID: o.ID,
		Status:     o.OrderStatus.State,
		Buyer: integration.Buyer{
			Name:  o.BuyerDetails.Name,
			Email: o.BuyerDetails.Email,
		},
		ShippingAddress: integration.Address{
			Name:       addr.Name,
			Line1:      joinName(addr.Street1, addr.Street2),
			City:       addr.City,
			Region:     addr.State,
			PostalCode: addr.PostalCode,
			Country:    addr.Country,
		},
		Total:     o.EstimatedPaymentDetails.TotalAmount.Amount.Decimal,
		Currency:  currency,
		Items:     items,
		CreatedAt: parseTimestamp(o.Created),
		Source:    integration.OrderSourceLive,
		Raw:       o.RawJSON(),
	}
}
