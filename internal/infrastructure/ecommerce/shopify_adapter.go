package ecommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/infrastructure/providerhttp"
)

// ShopifyAdapter implements MarketplaceAdapter for the Shopify Admin REST API
type ShopifyAdapter struct {
	config ShopifyConfig
	client *providerhttp.Client
}

var (
	_ integration.MarketplaceAdapter = (*ShopifyAdapter)(nil)
	_ integration.CursorPager        = (*ShopifyAdapter)(nil)
)

// NewShopifyAdapter creates a Shopify adapter
func NewShopifyAdapter(cfg ShopifyConfig, opts ...providerhttp.Option) *ShopifyAdapter {
	return &ShopifyAdapter{
		config: cfg,
		client: providerhttp.NewWithOptions(integration.PlatformCodeShopify.DisplayName(), opts...),
	}
}

// Platform returns the platform code this adapter handles
func (a *ShopifyAdapter) Platform() integration.PlatformCode {
	return integration.PlatformCodeShopify
}

// Mode returns AdapterModeLive
func (a *ShopifyAdapter) Mode() integration.AdapterMode {
	return integration.AdapterModeLive
}

// IsConfigured reports whether every required credential is set
func (a *ShopifyAdapter) IsConfigured() bool {
	return a.config.Status().Configured
}

// ConfigStatus lists the missing credential keys
func (a *ShopifyAdapter) ConfigStatus() integration.ConfigStatus {
	return a.config.Status()
}

// ListOrders returns open orders in Shopify's native shape. Shopify pages by
// cursor, so a Page above zero follows the Link header from the first page.
func (a *ShopifyAdapter) ListOrders(ctx context.Context, filter integration.OrderFilter) ([]ShopifyOrder, error) {
	if err := a.ConfigStatus().Err(a.client.Provider()); err != nil {
		return nil, err
	}
	return walkToPage(ctx, filter.Page, func(ctx context.Context, cursor string) ([]ShopifyOrder, string, error) {
		return a.listOrdersPage(ctx, filter, cursor)
	})
}

// FetchOrderPage returns the orders at cursor and the page_info of the next page
func (a *ShopifyAdapter) FetchOrderPage(ctx context.Context, filter integration.OrderFilter, cursor string) (integration.OrderPage, error) {
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
	return integration.OrderPage{Orders: shopifyNormalizeAll(orders), Next: next}, nil
}

func (a *ShopifyAdapter) listOrdersPage(ctx context.Context, filter integration.OrderFilter, cursor string) ([]ShopifyOrder, string, error) {
	query := url.Values{}
	if filter.PageSize > 0 {
		query.Set("limit", strconv.Itoa(filter.PageSize))
	}
	if cursor != "" {
		// the cursor carries the original filters; Shopify rejects them next to page_info
		query.Set("page_info", cursor)
	} else {
		status := filter.Status
		if status == "" {
			status = "open"
		}
		query.Set("status", status)
		if filter.StartDate != nil {
			query.Set("created_at_min", filter.StartDate.UTC().Format(time.RFC3339))
		}
		if filter.EndDate != nil {
			query.Set("created_at_max", filter.EndDate.UTC().Format(time.RFC3339))
		}
	}

	resp, err := a.client.Do(ctx, providerhttp.Request{
		Operation: "orders.list",
		Method:    http.MethodGet,
		URL:       a.config.baseURL() + "/orders.json?" + query.Encode(),
		Header:    a.headers(),
	})
	if err != nil {
		return nil, "", fmt.Errorf("shopify list orders: %w", err)
	}

	var envelope shopifyOrdersEnvelope
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &envelope); err != nil {
			return nil, "", integration.NewInvalidResponseError(a.client.Provider(), err)
		}
	}
	orders, err := decodeEach[ShopifyOrder](a.client.Provider(), envelope.Orders)
	if err != nil {
		return nil, "", err
	}
	return orders, shopifyNextPageInfo(resp.Header.Get("Link")), nil
}

// shopifyNextPageInfo extracts page_info from the rel="next" entry of a Link header
func shopifyNextPageInfo(link string) string {
	for _, entry := range strings.Split(link, ",") {
		parts := strings.Split(entry, ";")
		if len(parts) < 2 {
			continue
		}
		next := false
		for _, p := range parts[1:] {
			if strings.TrimSpace(p) == `rel="next"` {
				next = true
			}
		}
		if !next {
			continue
		}
		u, err := url.Parse(strings.Trim(strings.TrimSpace(parts[0]), "<>"))
		if err != nil {
			return ""
		}
		return u.Query().Get("page_info")
	}
	return ""
}

// CreateFulfillment marks an order fulfilled with tracking data and notifies the customer
func (a *ShopifyAdapter) CreateFulfillment(ctx context.Context, orderID, trackingNumber, trackingCompany string) error {
	if err := a.ConfigStatus().Err(a.client.Provider()); err != nil {
		return err
	}

	body, err := a.client.EncodeJSON(shopifyFulfillmentRequest{
		Fulfillment: shopifyFulfillment{
			TrackingNumber:  trackingNumber,
			TrackingCompany: trackingCompany,
			NotifyCustomer:  true,
		},
	})
	if err != nil {
		return err
	}

	_, err = a.client.Do(ctx, providerhttp.Request{
		Operation: "orders.fulfill",
		Method:    http.MethodPost,
		URL:       a.config.baseURL() + "/orders/" + url.PathEscape(orderID) + "/fulfillments.json",
		Header:    a.headers(),
		Body:      body,
	})
	if err != nil {
		return fmt.Errorf("shopify create fulfillment: %w", err)
	}
	return nil
}

// FetchOrders lists open orders and maps them to NormalizedOrder
func (a *ShopifyAdapter) FetchOrders(ctx context.Context, filter integration.OrderFilter) ([]integration.NormalizedOrder, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	orders, err := a.ListOrders(ctx, filter)
	if err != nil {
		return nil, err
	}
	return shopifyNormalizeAll(orders), nil
}

// UpdateShipment creates a fulfillment for the order
func (a *ShopifyAdapter) UpdateShipment(ctx context.Context, update integration.ShipmentUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}
	return a.CreateFulfillment(ctx, update.OrderID, update.TrackingNumber, update.Carrier)
}

func (a *ShopifyAdapter) headers() http.Header {
	h := providerhttp.JSONHeader()
	h.Set("X-Shopify-Access-Token", a.config.AccessToken)
	return h
}

func shopifyNormalizeAll(orders []ShopifyOrder) []integration.NormalizedOrder {
	out := make([]integration.NormalizedOrder, 0, len(orders))
	for _, o := range orders {
		out = append(out, shopifyToNormalized(o))
	}
	return out
}

// shopifyToNormalized maps an Admin API order to the common order shape.
// ExternalID is the numeric order id, which is what the fulfillment endpoint takes.
func shopifyToNormalized(o ShopifyOrder) integration.NormalizedOrder {
	items := make([]integration.OrderLine, 0, len(o.LineItems))
	for _, l := range o.LineItems {
		items = append(items, integration.OrderLine{
			Name:      l.Title,
			SKU:       l.SKU,
			Quantity:  l.Quantity,
			UnitPrice: l.Price.Decimal,
		})
	}

	var buyer integration.Buyer
	if c := o.Customer; c != nil {
		buyer = integration.Buyer{
			Name:  joinName(c.FirstName, c.LastName),
			Email: c.Email,
			Phone: c.Phone,
		}
	}

	var addr integration.Address
	if s := o.ShippingAddress; s != nil {
		addr = integration.Address{
			Name:       joinName(s.FirstName, s.LastName),
			Line1:      s.Address1,
			City:       s.City,
			Region:     s.Province,
			PostalCode: s.Zip,
			Country:    s.Country,
		}
		if buyer.Phone == "" {
			buyer.Phone = s.Phone
		}
		if buyer.Name == "" {
			buyer.Name = addr.Name
		}
	}

	var tracking string
	for _, f := range o.Fulfillments {
		if f.TrackingNumber != "" {
			tracking = f.TrackingNumber
			break
		}
	}

	return integration.NormalizedOrder{
		Platform:        integration.PlatformCodeShopify,
		ExternalID:      strconv.FormatInt(o.ID, 10),
		Status:          o.FinancialStatus,
		Buyer:           buyer,
		ShippingAddress: addr,
		Total:           o.TotalPrice.Decimal,
		Currency:        o.Currency,
		Items:           items,
		CreatedAt:       parseTimestamp(o.CreatedAt),
		TrackingNumber:  tracking,
		Source:          integration.OrderSourceLive,
		Raw:             o.RawJSON(),
	}
}
