package persistence

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siparisbot/backend/internal/domain/integration"
)

func testOrder(platform integration.PlatformCode, id string, createdAt time.Time) integration.NormalizedOrder {
	return integration.NormalizedOrder{
		Platform:   platform,
		ExternalID: id,
		Status:     "Created",
		Buyer:      integration.Buyer{Name: "Ayşe Yılmaz", Email: "ayse@example.com", Phone: "+905551112233"},
		ShippingAddress: integration.Address{
			Name:     "Ayşe Yılmaz",
			Line1:    "Bağdat Cad. No:1",
			District: "Kadıköy",
			City:     "İstanbul",
			Country:  "TR",
		},
		Total:    decimal.RequireFromString("149.90"),
		Currency: "TRY",
		Items: []integration.OrderLine{
			{Name: "Kupa", SKU: "KP-1", Quantity: 2, UnitPrice: decimal.RequireFromString("74.95")},
		},
		CreatedAt: createdAt,
		Source:    integration.OrderSourceLive,
		Raw:       json.RawMessage(`{"orderNumber":"` + id + `"}`),
	}
}

func TestGormOrderRepository_SaveAndList(t *testing.T) {
	db := setupTestDatabase(t)
	repo := NewGormOrderRepository(db.DB)
	ctx := context.Background()
	tenantID := uuid.New()
	base := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

	orders := []integration.NormalizedOrder{
		testOrder(integration.PlatformCodeTrendyol, "1001", base),
		testOrder(integration.PlatformCodeTrendyol, "1002", base.Add(time.Hour)),
		testOrder(integration.PlatformCodeShopify, "5001", base.Add(2*time.Hour)),
	}

	n, err := repo.SaveOrders(ctx, tenantID, orders)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	t.Run("newest first with mapping preserved", func(t *testing.T) {
		got, err := repo.ListOrders(ctx, tenantID, integration.OrderQuery{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "5001", got[0].ExternalID)
		assert.Equal(t, "1002", got[1].ExternalID)
		assert.Equal(t, "1001", got[2].ExternalID)

		last := got[2]
		assert.Equal(t, integration.PlatformCodeTrendyol, last.Platform)
		assert.Equal(t, "Ayşe Yılmaz", last.Buyer.Name)
		assert.Equal(t, "Kadıköy", last.ShippingAddress.District)
		assert.True(t, decimal.RequireFromString("149.90").Equal(last.Total))
		assert.Equal(t, "TRY", last.Currency)
		require.Len(t, last.Items, 1)
		assert.Equal(t, 2, last.Items[0].Quantity)
		assert.True(t, decimal.RequireFromString("74.95").Equal(last.Items[0].UnitPrice))
		assert.True(t, base.Equal(last.CreatedAt))
		assert.Equal(t, integration.OrderSourceLive, last.Source)
		assert.JSONEq(t, `{"orderNumber":"1001"}`, string(last.Raw))
	})

	t.Run("platform filter", func(t *testing.T) {
		got, err := repo.ListOrders(ctx, tenantID, integration.OrderQuery{Platform: integration.PlatformCodeShopify})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "5001", got[0].ExternalID)
	})

	t.Run("time window and limit", func(t *testing.T) {
		got, err := repo.ListOrders(ctx, tenantID, integration.OrderQuery{
			Since: base.Add(30 * time.Minute),
			Until: base.Add(3 * time.Hour),
			Limit: 1,
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "5001", got[0].ExternalID)

		count, err := repo.CountOrders(ctx, tenantID, integration.OrderQuery{Since: base.Add(30 * time.Minute), Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("other tenants see nothing", func(t *testing.T) {
		got, err := repo.ListOrders(ctx, uuid.New(), integration.OrderQuery{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestGormOrderRepository_Upsert(t *testing.T) {
	db := setupTestDatabase(t)
	repo := NewGormOrderRepository(db.DB)
	ctx := context.Background()
	tenantID := uuid.New()
	created := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

	_, err := repo.SaveOrders(ctx, tenantID, []integration.NormalizedOrder{testOrder(integration.PlatformCodeTrendyol, "1001", created)})
	require.NoError(t, err)

	updated := testOrder(integration.PlatformCodeTrendyol, "1001", created)
	updated.Status = "Shipped"
	updated.TrackingNumber = "YK123"
	_, err = repo.SaveOrders(ctx, tenantID, []integration.NormalizedOrder{updated})
	require.NoError(t, err)

	count, err := repo.CountOrders(ctx, tenantID, integration.OrderQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "same key is overwritten")

	got, err := repo.ListOrders(ctx, tenantID, integration.OrderQuery{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Shipped", got[0].Status)
	assert.Equal(t, "YK123", got[0].TrackingNumber)

	t.Run("same external id on another platform is a separate order", func(t *testing.T) {
		_, err := repo.SaveOrders(ctx, tenantID, []integration.NormalizedOrder{testOrder(integration.PlatformCodeShopify, "1001", created)})
		require.NoError(t, err)
		count, err := repo.CountOrders(ctx, tenantID, integration.OrderQuery{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}

func TestGormOrderRepository_SaveOrders_Validation(t *testing.T) {
	db := setupTestDatabase(t)
	repo := NewGormOrderRepository(db.DB)
	ctx := context.Background()

	n, err := repo.SaveOrders(ctx, uuid.New(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = repo.SaveOrders(ctx, uuid.New(), []integration.NormalizedOrder{testOrder(integration.PlatformCodeTrendyol, "", time.Now())})
	assert.ErrorIs(t, err, integration.ErrInvalidRequest)
}
