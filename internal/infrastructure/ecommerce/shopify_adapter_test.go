package ecommerce

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/infrastructure/config"
	"github.com/siparisbot/backend/internal/infrastructure/providerhttp"
	"github.com/siparisbot/backend/internal/infrastructure/providerhttp/providerhttptest"
)

const shopifyOrdersBody = `{"orders":[{
  "id": 450789469,
  "order_number": 1001,
  "name": "#1001",
  "created_at": "2024-03-05T14:30:00-05:00",
  "financial_status": "paid",
  "fulfillment_status": null,
  "customer": {"id": 67890, "email": "sarah@example.com", "first_name": "Sarah", "last_name": "Johnson"},
  "shipping_address": {"first_name": "Sarah", "last_name": "Johnson", "address1": "789 Pine Rd",
    "city": "Chicago", "province": "IL", "zip": "60601", "country": "United States", "phone": "+13125550100"},
  "total_price": "125.00",
  "currency": "USD",
  "line_items": [{"id": 11111, "title": "Premium Product", "quantity": 1, "price": "125.00", "sku": "PREM-001"}]
}]}`

func TestShopifyConfig_Status(t *testing.T) {
	assert.Equal(t, []string{}, NewShopifyConfig("acme", "shpat_x").Status().Missing)
	assert.Equal(t, []string{config.KeyShopifyShopName},
		NewShopifyConfig("", "shpat_x").Status().Missing)
	assert.Equal(t, []string{config.KeyShopifyShopName, config.KeyShopifyAccessToken},
		ShopifyConfigFromCredentials(config.ShopifyCredentials{}).Status().Missing)
}

func TestShopifyConfig_BaseURL(t *testing.T) {
	assert.Equal(t, "https://acme.myshopify.com/admin/api/2024-01", NewShopifyConfig("acme", "t").baseURL())
	assert.Equal(t, "https://acme.myshopify.com/admin/api/2024-01", NewShopifyConfig("acme.myshopify.com", "t").baseURL())
	assert.Equal(t, "http://127.0.0.1:9000", ShopifyConfig{APIBaseURL: "http://127.0.0.1:9000/"}.baseURL())
}

func TestShopifyAdapter_FetchOrders(t *testing.T) {
	client, spy := providerhttptest.RespondingClient(http.StatusOK, shopifyOrdersBody)
	adapter := NewShopifyAdapter(NewShopifyConfig("acme", "shpat_x"), providerhttp.WithHTTPClient(client))

	orders, err := adapter.FetchOrders(context.Background(), integration.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, orders, 1)

	req := spy.LastRequest()
	assert.Equal(t, "https://acme.myshopify.com/admin/api/2024-01/orders.json?status=open", req.URL.String())
	assert.Equal(t, "shpat_x", req.Header.Get("X-Shopify-Access-Token"))

	o := orders[0]
	assert.Equal(t, integration.PlatformCodeShopify, o.Platform)
	assert.Equal(t, "450789469", o.ExternalID)
	assert.Equal(t, "paid", o.Status)
	assert.Equal(t, "Sarah Johnson", o.Buyer.Name)
	assert.Equal(t, "sarah@example.com", o.Buyer.Email)
	assert.Equal(t, "+13125550100", o.Buyer.Phone)
	assert.Equal(t, "IL", o.ShippingAddress.Region)
	assert.Equal(t, "60601", o.ShippingAddress.PostalCode)
	assert.True(t, decimal.RequireFromString("125").Equal(o.Total))
	assert.Equal(t, "USD", o.Currency)
	assert.Equal(t, time.Date(2024, 3, 5, 19, 30, 0, 0, time.UTC), o.CreatedAt)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "PREM-001", o.Items[0].SKU)
	assert.Empty(t, o.TrackingNumber)
	assert.NotEmpty(t, o.Raw)
}

func TestShopifyAdapter_ListOrders_Native(t *testing.T) {
	client, spy := providerhttptest.RespondingClient(http.StatusOK, shopifyOrdersBody)
	adapter := NewShopifyAdapter(NewShopifyConfig("acme", "shpat_x"), providerhttp.WithHTTPClient(client))

	orders, err := adapter.ListOrders(context.Background(), integration.OrderFilter{Status: "any", PageSize: 25})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "1001", orders[0].OrderNumber.String())
	assert.Nil(t, orders[0].FulfillmentStatus)

	query := spy.LastRequest().URL.Query()
	assert.Equal(t, "any", query.Get("status"))
	assert.Equal(t, "25", query.Get("limit"))
}

func TestShopifyAdapter_Unconfigured_SendsNothing(t *testing.T) {
	client, spy := providerhttptest.FailingClient()
	adapter := NewShopifyAdapter(NewShopifyConfig("acme", ""), providerhttp.WithHTTPClient(client))

	_, err := adapter.FetchOrders(context.Background(), integration.OrderFilter{})
	assert.True(t, integration.IsConfigurationError(err))
	err = adapter.UpdateShipment(context.Background(), integration.ShipmentUpdate{OrderID: "1", TrackingNumber: "T"})
	assert.True(t, integration.IsConfigurationError(err))
	assert.False(t, adapter.IsConfigured())
	assert.Zero(t, spy.Calls())
}

func TestShopifyAdapter_UpdateShipment(t *testing.T) {
	for _, tc := range []struct {
		status int
		ok     bool
	}{
		{http.StatusCreated, true},
		{http.StatusUnprocessableEntity, false},
		{http.StatusInternalServerError, false},
	} {
		client, spy := providerhttptest.RespondingClient(tc.status, `{}`)
		adapter := NewShopifyAdapter(NewShopifyConfig("acme", "shpat_x"), providerhttp.WithHTTPClient(client))

		err := adapter.UpdateShipment(context.Background(), integration.ShipmentUpdate{
			OrderID: "450789469", TrackingNumber: "1Z999", Carrier: "UPS",
		})
		assert.Equal(t, tc.ok, err == nil, "status %d", tc.status)

		req := spy.LastRequest()
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "/admin/api/2024-01/orders/450789469/fulfillments.json", req.URL.Path)
		assert.JSONEq(t,
			`{"fulfillment":{"tracking_number":"1Z999","tracking_company":"UPS","notify_customer":true}}`,
			string(spy.LastBody()))
	}

	client, _ := providerhttptest.FailingClient()
	adapter := NewShopifyAdapter(NewShopifyConfig("acme", "shpat_x"), providerhttp.WithHTTPClient(client))
	err := adapter.UpdateShipment(context.Background(), integration.ShipmentUpdate{OrderID: "1", TrackingNumber: "T"})
	assert.ErrorIs(t, err, integration.ErrProviderUnavailable)
}

func shopifyOrderJSON(id int) string {
	return fmt.Sprintf(`{"id":%d,"created_at":"2024-03-05T14:30:00Z","financial_status":"paid","total_price":"10.00","line_items":[]}`, id)
}

// newShopifyPagedAdapter serves orders 1-2 on the first page and order 3 behind page_info=cursor-2
func newShopifyPagedAdapter() (*ShopifyAdapter, *providerhttptest.SpyTransport) {
	const base = "https://acme.myshopify.com/admin/api/2024-01/orders.json"
	spy := &providerhttptest.SpyTransport{Next: providerhttptest.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Query().Get("page_info") == "cursor-2" {
			link := http.Header{"Link": {`<` + base + `?limit=2&page_info=cursor-1>; rel="previous"`}}
			return providerhttptest.NewResponse(req, http.StatusOK, link, `{"orders":[`+shopifyOrderJSON(3)+`]}`), nil
		}
		link := http.Header{"Link": {`<` + base + `?limit=2&page_info=cursor-2>; rel="next"`}}
		return providerhttptest.NewResponse(req, http.StatusOK, link,
			`{"orders":[`+shopifyOrderJSON(1)+`,`+shopifyOrderJSON(2)+`]}`), nil
	})}
	adapter := NewShopifyAdapter(NewShopifyConfig("acme", "shpat_x"), providerhttp.WithHTTPClient(spy.Client()))
	return adapter, spy
}

func TestShopifyAdapter_FetchOrderPage(t *testing.T) {
	adapter, spy := newShopifyPagedAdapter()
	ctx := context.Background()
	filter := integration.OrderFilter{PageSize: 2, Status: "any"}

	first, err := adapter.FetchOrderPage(ctx, filter, "")
	require.NoError(t, err)
	require.Len(t, first.Orders, 2)
	assert.Equal(t, "cursor-2", first.Next)
	q := spy.LastRequest().URL.Query()
	assert.Equal(t, "any", q.Get("status"))
	assert.Equal(t, "2", q.Get("limit"))
	assert.Empty(t, q.Get("page_info"))

	second, err := adapter.FetchOrderPage(ctx, filter, first.Next)
	require.NoError(t, err)
	require.Len(t, second.Orders, 1)
	assert.Equal(t, "3", second.Orders[0].ExternalID)
	assert.Empty(t, second.Next)
	q = spy.LastRequest().URL.Query()
	assert.Equal(t, "cursor-2", q.Get("page_info"))
	assert.Empty(t, q.Get("status"), "filters travel inside the cursor")
}

func TestShopifyAdapter_FetchOrders_PageFollowsCursor(t *testing.T) {
	ctx := context.Background()

	t.Run("second page", func(t *testing.T) {
		adapter, spy := newShopifyPagedAdapter()
		orders, err := adapter.FetchOrders(ctx, integration.OrderFilter{Page: 1, PageSize: 2})
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "3", orders[0].ExternalID)
		assert.Equal(t, int64(2), spy.Calls())
	})

	t.Run("past the end", func(t *testing.T) {
		adapter, spy := newShopifyPagedAdapter()
		orders, err := adapter.FetchOrders(ctx, integration.OrderFilter{Page: 5, PageSize: 2})
		require.NoError(t, err)
		assert.Empty(t, orders)
		assert.Equal(t, int64(2), spy.Calls())
	})
}

func TestShopifyNextPageInfo(t *testing.T) {
	tests := []struct {
		link string
		want string
	}{
		{"", ""},
		{"garbage", ""},
		{`<https://a.myshopify.com/o.json?page_info=abc&limit=50>; rel="next"`, "abc"},
		{`<https://a.myshopify.com/o.json?page_info=prev>; rel="previous", <https://a.myshopify.com/o.json?page_info=nxt>; rel="next"`, "nxt"},
		{`<https://a.myshopify.com/o.json?page_info=prev>; rel="previous"`, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, shopifyNextPageInfo(tt.link), tt.link)
	}
}
