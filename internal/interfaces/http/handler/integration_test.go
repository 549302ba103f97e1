package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"

	appintegration "github.com/siparisbot/backend/internal/application/integration"
	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/infrastructure/ecommerce"
	"github.com/siparisbot/backend/internal/infrastructure/persistence"
	"github.com/siparisbot/backend/internal/interfaces/http/dto"
	"github.com/siparisbot/backend/internal/interfaces/http/middleware"
)

var (
	testTenant = uuid.MustParse("6f1c2d3e-4b5a-4c7d-8e9f-0a1b2c3d4e5f")
	testNow    = time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
)

// stubAdapter is a scripted marketplace adapter
type stubAdapter struct {
	platform  integration.PlatformCode
	missing   []string
	orders    []integration.NormalizedOrder
	fetchErr  error
	updateErr error

	mu      sync.Mutex
	filters []integration.OrderFilter
	updates []integration.ShipmentUpdate
}

func (a *stubAdapter) Platform() integration.PlatformCode { return a.platform }
func (a *stubAdapter) Mode() integration.AdapterMode      { return integration.AdapterModeLive }
func (a *stubAdapter) IsConfigured() bool                 { return len(a.missing) == 0 }
func (a *stubAdapter) ConfigStatus() integration.ConfigStatus {
	return integration.ConfigStatus{Configured: a.IsConfigured(), Missing: a.missing}
}

func (a *stubAdapter) FetchOrders(_ context.Context, filter integration.OrderFilter) ([]integration.NormalizedOrder, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.filters = append(a.filters, filter)
	if a.fetchErr != nil {
		return nil, a.fetchErr
	}
	return a.orders, nil
}

func (a *stubAdapter) UpdateShipment(_ context.Context, update integration.ShipmentUpdate) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.updates = append(a.updates, update)
	return a.updateErr
}

func stubOrders(platform integration.PlatformCode, n int) []integration.NormalizedOrder {
	orders := make([]integration.NormalizedOrder, n)
	for i := range orders {
		orders[i] = integration.NormalizedOrder{
			Platform:   platform,
			ExternalID: fmt.Sprintf("%s-%d", strings.ToLower(string(platform)), i+1),
			Status:     "Created",
			Buyer:      integration.Buyer{Name: fmt.Sprintf("Müşteri %d", i+1)},
			Total:      decimal.NewFromInt(100),
			Currency:   "TRY",
			Items:      []integration.OrderLine{},
			CreatedAt:  testNow.Add(-time.Duration(i+1) * time.Hour),
			Source:     integration.OrderSourceLive,
		}
	}
	return orders
}

func newOrderRepository(t *testing.T) integration.OrderRepository {
	t.Helper()
	db, err := persistence.Open(sqlite.Open(":memory:"), zap.NewNop(), "silent", time.Second, "test")
	require.NoError(t, err)
	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return persistence.NewGormOrderRepository(db.DB)
}

// withTenant stands in for the auth middleware
func withTenant(id uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.TenantIDKey, id)
		c.Next()
	}
}

func setupIntegrationRouter(repo integration.OrderRepository, adapters ...integration.MarketplaceAdapter) *gin.Engine {
	service := appintegration.NewService(appintegration.ServiceConfig{
		Registry: ecommerce.NewAdapterRegistry(adapters...),
		Orders:   repo,
		Now:      func() time.Time { return testNow },
	})
	entries := make([]appintegration.StatusEntry, 0, len(adapters))
	for _, a := range adapters {
		entries = append(entries, appintegration.StatusEntry{Name: a.Platform().DisplayName(), Reporter: a})
	}

	r := gin.New()
	api := r.Group("/api/v1", withTenant(testTenant))
	NewIntegrationHandler(service, appintegration.NewStatusPanel(entries...)).RegisterRoutes(api)
	return r
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIntegrationHandler_Status(t *testing.T) {
	trendyol := &stubAdapter{platform: integration.PlatformCodeTrendyol}
	shopify := &stubAdapter{platform: integration.PlatformCodeShopify, missing: []string{"VITE_SHOPIFY_ACCESS_TOKEN"}}
	r := setupIntegrationRouter(nil, trendyol, shopify)

	w := doRequest(r, http.MethodGet, "/api/v1/integrations/status", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got StatusResponse
	decodeData(t, w, &got)
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, 1, got.Configured)
	require.Len(t, got.Providers, 2)
	assert.Equal(t, "Trendyol", got.Providers[0].Name)
	assert.True(t, got.Providers[0].Testable)
	assert.Equal(t, []string{"VITE_SHOPIFY_ACCESS_TOKEN"}, got.Providers[1].Missing)
	assert.Equal(t, "VITE_SHOPIFY_ACCESS_TOKEN=your_value_here", got.Providers[1].EnvExample)
}

func TestIntegrationHandler_ListOrders(t *testing.T) {
	t.Run("returns normalized orders", func(t *testing.T) {
		trendyol := &stubAdapter{platform: integration.PlatformCodeTrendyol, orders: stubOrders(integration.PlatformCodeTrendyol, 2)}
		r := setupIntegrationRouter(nil, trendyol)

		w := doRequest(r, http.MethodGet, "/api/v1/integrations/trendyol/orders?page=1&size=50&status=Created&start=2024-03-01&end=2024-03-31", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got OrdersResponse
		decodeData(t, w, &got)
		assert.Equal(t, integration.PlatformCodeTrendyol, got.Platform)
		assert.Equal(t, 2, got.Count)

		require.Len(t, trendyol.filters, 1)
		f := trendyol.filters[0]
		assert.Equal(t, 1, f.Page)
		assert.Equal(t, 50, f.PageSize)
		assert.Equal(t, "Created", f.Status)
		require.NotNil(t, f.StartDate)
		require.NotNil(t, f.EndDate)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *f.StartDate)
		assert.Equal(t, time.Date(2024, 3, 31, 23, 59, 59, 999999999, time.UTC), *f.EndDate)
	})

	t.Run("unknown platform", func(t *testing.T) {
		r := setupIntegrationRouter(nil)
		w := doRequest(r, http.MethodGet, "/api/v1/integrations/hepsiburada/orders", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, decodeResponse(t, w).Error.Code)
	})

	t.Run("malformed query", func(t *testing.T) {
		trendyol := &stubAdapter{platform: integration.PlatformCodeTrendyol}
		r := setupIntegrationRouter(nil, trendyol)

		for _, query := range []string{"size=500", "start=yesterday", "start=2024-03-10&end=2024-03-01"} {
			w := doRequest(r, http.MethodGet, "/api/v1/integrations/trendyol/orders?"+query, "")
			assert.Equal(t, http.StatusBadRequest, w.Code, query)
		}
		assert.Empty(t, trendyol.filters, "invalid filters never reach the adapter")
	})

	t.Run("missing credentials", func(t *testing.T) {
		trendyol := &stubAdapter{
			platform: integration.PlatformCodeTrendyol,
			fetchErr: integration.NewConfigurationError("Trendyol", []string{"VITE_TRENDYOL_API_KEY"}),
		}
		r := setupIntegrationRouter(nil, trendyol)

		w := doRequest(r, http.MethodGet, "/api/v1/integrations/trendyol/orders", "")
		assert.Equal(t, http.StatusBadGateway, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeNotConfigured, resp.Error.Code)
		assert.Contains(t, resp.Error.Message, "VITE_TRENDYOL_API_KEY")
	})

	t.Run("provider rejected the call", func(t *testing.T) {
		shopify := &stubAdapter{
			platform: integration.PlatformCodeShopify,
			fetchErr: integration.NewHTTPStatusError("Shopify", http.StatusUnauthorized, "Invalid API key"),
		}
		r := setupIntegrationRouter(nil, shopify)

		w := doRequest(r, http.MethodGet, "/api/v1/integrations/SHOPIFY/orders", "")
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, "Shopify API error: Invalid API key", decodeResponse(t, w).Error.Message)
	})
}

func TestIntegrationHandler_ListAllOrders(t *testing.T) {
	trendyol := &stubAdapter{platform: integration.PlatformCodeTrendyol, orders: stubOrders(integration.PlatformCodeTrendyol, 3)}
	shopify := &stubAdapter{
		platform: integration.PlatformCodeShopify,
		fetchErr: integration.NewTransportError("Shopify", context.DeadlineExceeded),
	}
	unconfigured := &stubAdapter{platform: integration.PlatformCodeEbay, missing: []string{"VITE_EBAY_TOKEN"}}
	r := setupIntegrationRouter(nil, trendyol, shopify, unconfigured)

	w := doRequest(r, http.MethodGet, "/api/v1/integrations/orders", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got []appintegration.OrdersResult
	decodeData(t, w, &got)
	require.Len(t, got, 2, "unconfigured marketplaces are skipped")

	byPlatform := map[integration.PlatformCode]appintegration.OrdersResult{}
	for _, res := range got {
		byPlatform[res.Platform] = res
	}
	assert.True(t, byPlatform[integration.PlatformCodeTrendyol].Success)
	assert.Len(t, byPlatform[integration.PlatformCodeTrendyol].Orders, 3)
	assert.False(t, byPlatform[integration.PlatformCodeShopify].Success)
	assert.Equal(t, integration.ErrorKindTransport, byPlatform[integration.PlatformCodeShopify].Kind)
	assert.Empty(t, unconfigured.filters)
}

func TestIntegrationHandler_UpdateShipment(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		trendyol := &stubAdapter{platform: integration.PlatformCodeTrendyol}
		r := setupIntegrationRouter(nil, trendyol)

		w := doRequest(r, http.MethodPost, "/api/v1/integrations/trendyol/orders/TY-1001/shipment",
			`{"tracking_number":"YK123456","carrier":"Yurtiçi Kargo"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got ShipmentResponse
		decodeData(t, w, &got)
		assert.True(t, got.Updated)
		assert.Equal(t, "TY-1001", got.OrderID)

		require.Len(t, trendyol.updates, 1)
		assert.Equal(t, integration.ShipmentUpdate{OrderID: "TY-1001", TrackingNumber: "YK123456", Carrier: "Yurtiçi Kargo"}, trendyol.updates[0])
	})

	t.Run("tracking number required", func(t *testing.T) {
		trendyol := &stubAdapter{platform: integration.PlatformCodeTrendyol}
		r := setupIntegrationRouter(nil, trendyol)

		w := doRequest(r, http.MethodPost, "/api/v1/integrations/trendyol/orders/TY-1001/shipment", `{"carrier":"Aras"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeResponse(t, w).Error.Message, "tracking_number")
		assert.Empty(t, trendyol.updates)
	})

	t.Run("rejected by marketplace", func(t *testing.T) {
		trendyol := &stubAdapter{
			platform:  integration.PlatformCodeTrendyol,
			updateErr: integration.NewHTTPStatusError("Trendyol", http.StatusBadRequest, "package not found"),
		}
		r := setupIntegrationRouter(nil, trendyol)

		w := doRequest(r, http.MethodPost, "/api/v1/integrations/trendyol/orders/TY-1001/shipment",
			`{"tracking_number":"YK123456","carrier":"Aras"}`)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeProviderError, resp.Error.Code)
		assert.Equal(t, "Trendyol did not accept the shipment update", resp.Error.Message)
	})
}

func TestIntegrationHandler_SyncAndAnalytics(t *testing.T) {
	t.Run("storage not configured", func(t *testing.T) {
		trendyol := &stubAdapter{platform: integration.PlatformCodeTrendyol}
		r := setupIntegrationRouter(nil, trendyol)

		w := doRequest(r, http.MethodPost, "/api/v1/integrations/trendyol/sync", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, dto.ErrCodeStorageUnavailable, decodeResponse(t, w).Error.Code)

		w = doRequest(r, http.MethodGet, "/api/v1/analytics/summary", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Empty(t, trendyol.filters)
	})

	t.Run("sync then summarize", func(t *testing.T) {
		trendyol := &stubAdapter{platform: integration.PlatformCodeTrendyol, orders: stubOrders(integration.PlatformCodeTrendyol, 3)}
		r := setupIntegrationRouter(newOrderRepository(t), trendyol)

		w := doRequest(r, http.MethodPost, "/api/v1/integrations/trendyol/sync", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var result integration.SyncResult
		decodeData(t, w, &result)
		assert.Equal(t, 3, result.FetchedCount)
		assert.Equal(t, 3, result.SyncedCount)

		w = doRequest(r, http.MethodGet, "/api/v1/analytics/summary?platform=trendyol", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var summary appintegration.Analytics
		decodeData(t, w, &summary)
		assert.Equal(t, 3, summary.TotalOrders)
		assert.Equal(t, 3, summary.UniqueCustomers)
		assert.True(t, decimal.NewFromInt(300).Equal(summary.TotalRevenue), summary.TotalRevenue.String())
		assert.True(t, decimal.NewFromInt(100).Equal(summary.AverageOrderValue))
	})

	t.Run("sync fetch failure", func(t *testing.T) {
		trendyol := &stubAdapter{
			platform: integration.PlatformCodeTrendyol,
			fetchErr: integration.NewTransportError("Trendyol", context.DeadlineExceeded),
		}
		r := setupIntegrationRouter(newOrderRepository(t), trendyol)

		w := doRequest(r, http.MethodPost, "/api/v1/integrations/trendyol/sync", "")
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, dto.ErrCodeProviderUnavailable, decodeResponse(t, w).Error.Code)
	})

	t.Run("invalid analytics platform", func(t *testing.T) {
		r := setupIntegrationRouter(newOrderRepository(t))
		w := doRequest(r, http.MethodGet, "/api/v1/analytics/summary?platform=nope", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
