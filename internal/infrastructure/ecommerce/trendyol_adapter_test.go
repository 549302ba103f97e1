package ecommerce

import (
	"context"
	"encoding/json"
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

const trendyolOrdersBody = `{
  "page": 0, "size": 50, "totalPages": 1, "totalElements": 1,
  "content": [{
    "id": 987,
    "orderNumber": 10293847,
    "orderDate": 1704103200000,
    "status": "Created",
    "grossAmount": 320.5,
    "totalDiscount": 20.5,
    "totalPrice": 300,
    "currencyCode": "TRY",
    "customerFirstName": "Ayşe",
    "customerLastName": "Yılmaz",
    "customerEmail": "ayse@example.com",
    "cargoTrackingNumber": 7330001234,
    "lines": [
      {"productName": "Kupa", "quantity": 2, "price": "75.00", "barcode": "869000001"},
      {"productName": "Tabak", "quantity": 1, "price": 150, "merchantSku": "TBK-1"}
    ],
    "shipmentAddress": {
      "fullName": "Ayşe Yılmaz",
      "address1": "Atatürk Cad. No:1",
      "fullAddress": "Atatürk Cad. No:1 Kadıköy İstanbul",
      "city": "İstanbul",
      "district": "Kadıköy",
      "postalCode": "34710",
      "countryCode": "TR",
      "phone": "05551112233"
    }
  }]
}`

func newTestTrendyolAdapter(client *http.Client) *TrendyolAdapter {
	return NewTrendyolAdapter(NewTrendyolConfig("12345", "key", "secret"), providerhttp.WithHTTPClient(client))
}

// ---------------------------------------------------------------------------
// Config Tests
// ---------------------------------------------------------------------------

func TestTrendyolConfig_Status(t *testing.T) {
	tests := []struct {
		name    string
		config  TrendyolConfig
		missing []string
	}{
		{
			name:    "fully configured",
			config:  NewTrendyolConfig("12345", "key", "secret"),
			missing: []string{},
		},
		{
			name:    "missing api secret",
			config:  NewTrendyolConfig("12345", "key", ""),
			missing: []string{config.KeyTrendyolAPISecret},
		},
		{
			name:   "nothing set",
			config: TrendyolConfig{},
			missing: []string{
				config.KeyTrendyolSupplierID,
				config.KeyTrendyolAPIKey,
				config.KeyTrendyolAPISecret,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := NewTrendyolAdapter(tt.config)
			status := adapter.ConfigStatus()
			assert.Equal(t, tt.missing, status.Missing)
			assert.Equal(t, len(tt.missing) == 0, status.Configured)
			assert.Equal(t, status.Configured, adapter.IsConfigured())
		})
	}
}

func TestTrendyolConfigFromCredentials(t *testing.T) {
	cfg := TrendyolConfigFromCredentials(config.TrendyolCredentials{
		SupplierID: "1", APIKey: "k", APISecret: "s",
	})
	assert.Equal(t, TrendyolProductionAPIURL, cfg.APIBaseURL)
	assert.True(t, cfg.Status().Configured)
}

// ---------------------------------------------------------------------------
// Adapter Tests
// ---------------------------------------------------------------------------

func TestTrendyolAdapter_Identity(t *testing.T) {
	adapter := NewTrendyolAdapter(TrendyolConfig{})
	assert.Equal(t, integration.PlatformCodeTrendyol, adapter.Platform())
	assert.Equal(t, integration.AdapterModeLive, adapter.Mode())
}

func TestTrendyolAdapter_GetOrders_Request(t *testing.T) {
	client, spy := providerhttptest.RespondingClient(http.StatusOK, trendyolOrdersBody)
	adapter := newTestTrendyolAdapter(client)

	orders, err := adapter.GetOrders(context.Background(), TrendyolOrderParams{})
	require.NoError(t, err)
	require.Len(t, orders, 1)

	req := spy.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "https://api.trendyol.com/sapigw/suppliers/12345/orders?page=0&size=50", req.URL.String())
	assert.Equal(t, "Basic a2V5OnNlY3JldA==", req.Header.Get("Authorization"))
	assert.Equal(t, "SiparisBot/1.0", req.Header.Get("User-Agent"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
}

func TestTrendyolAdapter_GetOrders_Filter(t *testing.T) {
	client, spy := providerhttptest.RespondingClient(http.StatusOK, `{"content":[]}`)
	adapter := newTestTrendyolAdapter(client)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	orders, err := adapter.FetchOrders(context.Background(), integration.OrderFilter{
		StartDate: &start,
		EndDate:   &end,
		Page:      2,
		PageSize:  10,
		Status:    "Shipped",
	})
	require.NoError(t, err)
	assert.Empty(t, orders)

	query := spy.LastRequest().URL.Query()
	assert.Equal(t, "2", query.Get("page"))
	assert.Equal(t, "10", query.Get("size"))
	assert.Equal(t, "1704067200000", query.Get("startDate"))
	assert.Equal(t, "1704153600000", query.Get("endDate"))
	assert.Equal(t, "Shipped", query.Get("status"))
}

func TestTrendyolAdapter_FetchOrders_Mapping(t *testing.T) {
	client, _ := providerhttptest.RespondingClient(http.StatusOK, trendyolOrdersBody)
	adapter := newTestTrendyolAdapter(client)

	orders, err := adapter.FetchOrders(context.Background(), integration.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, orders, 1)

	o := orders[0]
	assert.Equal(t, integration.PlatformCodeTrendyol, o.Platform)
	assert.Equal(t, "10293847", o.ExternalID)
	assert.Equal(t, "Created", o.Status)
	assert.Equal(t, "Ayşe Yılmaz", o.Buyer.Name)
	assert.Equal(t, "ayse@example.com", o.Buyer.Email)
	assert.Equal(t, "05551112233", o.Buyer.Phone)
	assert.Equal(t, "Ayşe Yılmaz", o.ShippingAddress.Name)
	assert.Equal(t, "Kadıköy", o.ShippingAddress.District)
	assert.Equal(t, "İstanbul", o.ShippingAddress.City)
	assert.Equal(t, "Atatürk Cad. No:1 Kadıköy İstanbul", o.ShippingAddress.Full)
	assert.True(t, decimal.NewFromInt(300).Equal(o.Total))
	assert.Equal(t, "TRY", o.Currency)
	assert.Equal(t, "7330001234", o.TrackingNumber)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), o.CreatedAt)
	assert.Equal(t, integration.OrderSourceLive, o.Source)

	require.Len(t, o.Items, 2)
	assert.Equal(t, "869000001", o.Items[0].SKU)
	assert.True(t, decimal.NewFromInt(75).Equal(o.Items[0].UnitPrice))
	assert.Equal(t, "TBK-1", o.Items[1].SKU)
	assert.Equal(t, 3, o.ItemCount())

	var raw map[string]any
	require.NoError(t, json.Unmarshal(o.Raw, &raw))
	assert.EqualValues(t, 987, raw["id"])
}

func TestTrendyolAdapter_Unconfigured_SendsNothing(t *testing.T) {
	client, spy := providerhttptest.FailingClient()
	adapter := NewTrendyolAdapter(NewTrendyolConfig("", "key", "secret"), providerhttp.WithHTTPClient(client))
	ctx := context.Background()

	_, err := adapter.FetchOrders(ctx, integration.OrderFilter{})
	assert.True(t, integration.IsConfigurationError(err))

	_, err = adapter.GetOrderDetails(ctx, "1")
	assert.True(t, integration.IsConfigurationError(err))

	err = adapter.UpdateShipment(ctx, integration.ShipmentUpdate{OrderID: "1", TrackingNumber: "T"})
	assert.True(t, integration.IsConfigurationError(err))
	assert.Contains(t, err.Error(), config.KeyTrendyolSupplierID)

	assert.Zero(t, spy.Calls())
}

func TestTrendyolAdapter_GetOrders_HTTPError(t *testing.T) {
	client, _ := providerhttptest.RespondingClient(http.StatusUnauthorized, `{"errors":[{"message":"unauthorized"}]}`)
	adapter := newTestTrendyolAdapter(client)

	_, err := adapter.FetchOrders(context.Background(), integration.OrderFilter{})
	require.Error(t, err)
	assert.ErrorIs(t, err, integration.ErrRequestFailed)
	assert.Equal(t, integration.ErrorKindTransport, integration.KindOf(err))
	assert.Equal(t, `Trendyol API error: {"errors":[{"message":"unauthorized"}]}`, integration.Message(err))
}

func TestTrendyolAdapter_GetOrderDetails(t *testing.T) {
	client, spy := providerhttptest.RespondingClient(http.StatusOK,
		`{"orderNumber":"TY-1","status":"Picking","totalPrice":"12.5","lines":[]}`)
	adapter := newTestTrendyolAdapter(client)

	order, err := adapter.GetOrderDetails(context.Background(), "TY-1")
	require.NoError(t, err)
	assert.Equal(t, "TY-1", order.OrderNumber.String())
	assert.True(t, decimal.RequireFromString("12.5").Equal(order.TotalPrice.Decimal))
	assert.Equal(t, "/sapigw/suppliers/12345/orders/TY-1", spy.LastRequest().URL.Path)

	_, err = adapter.GetOrderDetails(context.Background(), "")
	assert.ErrorIs(t, err, integration.ErrInvalidRequest)
}

func TestTrendyolAdapter_UpdateCargoInfo(t *testing.T) {
	tests := []struct {
		name   string
		client func() (*http.Client, *providerhttptest.SpyTransport)
		ok     bool
	}{
		{
			name:   "200 ok",
			client: func() (*http.Client, *providerhttptest.SpyTransport) { return providerhttptest.RespondingClient(http.StatusOK, "") },
			ok:     true,
		},
		{
			name: "204 no content",
			client: func() (*http.Client, *providerhttptest.SpyTransport) {
				return providerhttptest.RespondingClient(http.StatusNoContent, "")
			},
			ok: true,
		},
		{
			name: "400 bad request",
			client: func() (*http.Client, *providerhttptest.SpyTransport) {
				return providerhttptest.RespondingClient(http.StatusBadRequest, `{"message":"invalid"}`)
			},
		},
		{
			name: "503 unavailable",
			client: func() (*http.Client, *providerhttptest.SpyTransport) {
				return providerhttptest.RespondingClient(http.StatusServiceUnavailable, "")
			},
		},
		{
			name:   "transport error",
			client: providerhttptest.FailingClient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, spy := tt.client()
			adapter := newTestTrendyolAdapter(client)

			err := adapter.UpdateCargoInfo(context.Background(), "TY-1", "7330001234", "Yurtiçi Kargo")
			assert.Equal(t, tt.ok, err == nil)
			assert.Equal(t, int64(1), spy.Calls())

			req := spy.LastRequest()
			assert.Equal(t, http.MethodPut, req.Method)
			assert.Equal(t, "/sapigw/suppliers/12345/orders/TY-1/cargo-tracking-number", req.URL.Path)
			assert.JSONEq(t, `{"cargoTrackingNumber":"7330001234","cargoProviderName":"Yurtiçi Kargo"}`, string(spy.LastBody()))
		})
	}
}

func TestTrendyolAdapter_UpdateShipment_Validation(t *testing.T) {
	client, spy := providerhttptest.FailingClient()
	adapter := newTestTrendyolAdapter(client)

	err := adapter.UpdateShipment(context.Background(), integration.ShipmentUpdate{OrderID: "TY-1"})
	assert.ErrorIs(t, err, integration.ErrInvalidRequest)
	assert.Zero(t, spy.Calls())
}
