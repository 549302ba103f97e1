package ecommerce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
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

const tiktokOrdersBody = `{"code":0,"message":"Success","data":{"order_list":[{
  "order_id": "TT-567890123",
  "order_status": "AWAITING_SHIPMENT",
  "create_time": 1700000000,
  "buyer": {"name": "TikTok User"},
  "recipient_address": {"name": "Recipient Name", "phone": "+1234567890",
    "full_address": "456 Creator Lane, Los Angeles, CA 90001", "region": "California",
    "city": "Los Angeles", "district": "Downtown", "postal_code": "90001"},
  "items": [{"id": "item_1", "product_id": "prod_tt_123", "product_name": "Trending Product",
    "sku_id": "sku_1", "sku_name": "Size M, Color Red", "quantity": 2, "sale_price": 29.99, "original_price": 39.99}],
  "payment": {"currency": "USD", "sub_total": 59.98, "shipping_fee": 4.99, "tax": 5.40, "total": 70.37}
}]}}`

var tiktokTestNow = time.Unix(1700000000, 0)

func newTestTikTokAdapter(client *http.Client) *TikTokAdapter {
	adapter := NewTikTokAdapter(NewTikTokConfig("ak", "secret", "tok", "77", "us"), providerhttp.WithHTTPClient(client))
	adapter.now = func() time.Time { return tiktokTestNow }
	return adapter
}

func TestTikTokConfig_Status(t *testing.T) {
	cfg := TikTokConfigFromCredentials(config.TikTokCredentials{AppKey: "ak", ShopID: "77"})
	assert.Equal(t, []string{config.KeyTikTokAppSecret, config.KeyTikTokAccessToken}, cfg.Status().Missing)
	assert.False(t, cfg.Status().Configured)
	assert.True(t, cfg.SignRequests)

	assert.Equal(t, []string{}, NewTikTokConfig("a", "b", "c", "d", "").Status().Missing)
}

func TestTikTokConfig_Region(t *testing.T) {
	assert.Equal(t, "US", NewTikTokConfig("", "", "", "", "").Region)
	assert.Equal(t, "UK", NewTikTokConfig("", "", "", "", "uk").Region)
	assert.Equal(t, "US", NewTikTokConfig("", "", "", "", "TR").Region)
}

func TestTikTokConfig_Sign(t *testing.T) {
	cfg := NewTikTokConfig("ak", "secret", "tok", "77", "US")
	query := url.Values{}
	query.Set("version", "202309")
	query.Set("timestamp", "1700000000")
	query.Set("shop_id", "77")
	query.Set("app_key", "ak")

	want := "143b3d90a03de6e9610eef6a19be39eb2e2b3242ae2afacc94fb22fde275482d"
	assert.Equal(t, want, cfg.Sign("/order/list", query, []byte(`{"a":1}`)))

	// sign and access_token never feed the signature
	query.Set("sign", "stale")
	query.Set("access_token", "tok")
	assert.Equal(t, want, cfg.Sign("/order/list", query, []byte(`{"a":1}`)))

	assert.NotEqual(t, want, cfg.Sign("/order/list", query, []byte(`{"a":2}`)))
}

func TestTikTokShopURL(t *testing.T) {
	assert.Equal(t, "https://www.tiktok.com/@77/shop", newTestTikTokAdapter(nil).ShopURL())
}

func TestTikTokAdapter_FetchOrders(t *testing.T) {
	client, spy := providerhttptest.RespondingClient(http.StatusOK, tiktokOrdersBody)
	adapter := newTestTikTokAdapter(client)

	orders, err := adapter.FetchOrders(context.Background(), integration.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, orders, 1)

	req := spy.LastRequest()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/order/list", req.URL.Path)
	query := req.URL.Query()
	assert.Equal(t, "ak", query.Get("app_key"))
	assert.Equal(t, "77", query.Get("shop_id"))
	assert.Equal(t, "1700000000", query.Get("timestamp"))
	assert.Equal(t, "202309", query.Get("version"))
	assert.Empty(t, query.Get("access_token"))

	body := spy.LastBody()
	sign := query.Get("sign")
	query.Del("sign")
	assert.Equal(t, adapter.config.Sign("/order/list", query, body), sign)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(body, &sent))
	assert.Equal(t, "ak", sent["app_key"])
	assert.Equal(t, "tok", sent["access_token"])
	assert.Equal(t, "1700000000", sent["timestamp"])
	assert.Equal(t, "77", sent["shop_id"])
	assert.EqualValues(t, 1, sent["page_number"])

	o := orders[0]
	assert.Equal(t, integration.PlatformCodeTikTokShop, o.Platform)
	assert.Equal(t, "TT-567890123", o.ExternalID)
	assert.Equal(t, "AWAITING_SHIPMENT", o.Status)
	assert.Equal(t, "+1234567890", o.Buyer.Phone)
	assert.Equal(t, "456 Creator Lane, Los Angeles, CA 90001", o.ShippingAddress.Full)
	assert.True(t, decimal.RequireFromString("70.37").Equal(o.Total))
	assert.Equal(t, tiktokTestNow.UTC(), o.CreatedAt)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "sku_1", o.Items[0].SKU)
	assert.True(t, decimal.RequireFromString("29.99").Equal(o.Items[0].UnitPrice))
}

func TestTikTokAdapter_SigningDisabled(t *testing.T) {
	client, spy := providerhttptest.RespondingClient(http.StatusOK, `{"code":0,"data":{"products":[]}}`)
	adapter := newTestTikTokAdapter(client)
	adapter.config.SignRequests = false

	products, err := adapter.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.Equal(t, "/products/list", spy.LastRequest().URL.Path)
	assert.False(t, spy.LastRequest().URL.Query().Has("sign"))
}

func TestTikTokAdapter_ListProducts(t *testing.T) {
	client, _ := providerhttptest.RespondingClient(http.StatusOK,
		`{"code":0,"data":{"products":[{"id":"p1","title":"Hoodie","status":"ACTIVATE","skus":[{"id":"s1"}]}]}}`)

	products, err := newTestTikTokAdapter(client).ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Hoodie", products[0].Title)
	assert.Contains(t, string(products[0].RawJSON()), `"skus"`)
}

func TestTikTokAdapter_ProviderLogicError(t *testing.T) {
	client, _ := providerhttptest.RespondingClient(http.StatusOK, `{"code":36009004,"message":"Invalid access token"}`)

	_, err := newTestTikTokAdapter(client).FetchOrders(context.Background(), integration.OrderFilter{})
	require.Error(t, err)
	assert.ErrorIs(t, err, integration.ErrProviderRejected)
	assert.Equal(t, integration.ErrorKindProviderLogic, integration.KindOf(err))
	assert.Equal(t, "TikTok Shop API error: Invalid access token (code 36009004)", integration.Message(err))
}

func TestTikTokAdapter_Unconfigured_SendsNothing(t *testing.T) {
	client, spy := providerhttptest.FailingClient()
	adapter := NewTikTokAdapter(NewTikTokConfig("ak", "", "tok", "77", "US"), providerhttp.WithHTTPClient(client))
	ctx := context.Background()

	_, err := adapter.FetchOrders(ctx, integration.OrderFilter{})
	assert.True(t, integration.IsConfigurationError(err))
	_, err = adapter.ListProducts(ctx)
	assert.True(t, integration.IsConfigurationError(err))
	err = adapter.UpdateShipment(ctx, integration.ShipmentUpdate{OrderID: "1", TrackingNumber: "T"})
	assert.True(t, integration.IsConfigurationError(err))
	assert.Zero(t, spy.Calls())
}

func TestTikTokAdapter_UpdateShipment(t *testing.T) {
	t.Run("provider id falls back to carrier", func(t *testing.T) {
		client, spy := providerhttptest.RespondingClient(http.StatusOK, `{"code":0}`)
		adapter := newTestTikTokAdapter(client)

		err := adapter.UpdateShipment(context.Background(), integration.ShipmentUpdate{
			OrderID: "TT-1", TrackingNumber: "9400", Carrier: "USPS",
		})
		require.NoError(t, err)
		assert.Equal(t, "/fulfillment/ship", spy.LastRequest().URL.Path)

		var sent map[string]any
		require.NoError(t, json.Unmarshal(spy.LastBody(), &sent))
		assert.Equal(t, "TT-1", sent["order_id"])
		assert.Equal(t, "9400", sent["tracking_number"])
		assert.Equal(t, "USPS", sent["shipping_provider_id"])
	})

	t.Run("explicit provider id", func(t *testing.T) {
		client, spy := providerhttptest.RespondingClient(http.StatusOK, `{"code":0}`)
		err := newTestTikTokAdapter(client).UpdateShipment(context.Background(), integration.ShipmentUpdate{
			OrderID: "TT-1", TrackingNumber: "9400", Carrier: "USPS", ShippingProviderID: "7117858858072016686",
		})
		require.NoError(t, err)
		assert.Contains(t, string(spy.LastBody()), `"shipping_provider_id":"7117858858072016686"`)
	})

	t.Run("5xx fails", func(t *testing.T) {
		client, _ := providerhttptest.RespondingClient(http.StatusBadGateway, "")
		err := newTestTikTokAdapter(client).UpdateShipment(context.Background(), integration.ShipmentUpdate{
			OrderID: "TT-1", TrackingNumber: "9400",
		})
		assert.ErrorIs(t, err, integration.ErrRequestFailed)
	})
}

func TestTikTokAdapter_TimestampMatchesBodyAndQuery(t *testing.T) {
	client, spy := providerhttptest.RespondingClient(http.StatusOK, tiktokOrdersBody)
	adapter := newTestTikTokAdapter(client)

	// every clock read lands on a new second
	tick := tiktokTestNow
	adapter.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	_, err := adapter.FetchOrders(context.Background(), integration.OrderFilter{})
	require.NoError(t, err)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(spy.LastBody(), &sent))
	query := spy.LastRequest().URL.Query()
	assert.Equal(t, query.Get("timestamp"), sent["timestamp"])
	assert.Equal(t, adapter.config.Sign(tiktokOrderListPath, query, spy.LastBody()), query.Get("sign"))
}
