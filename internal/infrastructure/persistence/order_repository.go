package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/infrastructure/persistence/models"
)

// orderBatchSize is the number of rows per INSERT when saving snapshots
const orderBatchSize = 100

// GormOrderRepository implements integration.OrderRepository using GORM
type GormOrderRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormOrderRepository creates a new GORM order repository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db, now: time.Now}
}

// tenantScope restricts a query to one tenant's rows
func tenantScope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// orderQueryScope applies the platform and time window of q
func orderQueryScope(q integration.OrderQuery) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q.Platform != "" {
			db = db.Where("platform = ?", q.Platform)
		}
		if !q.Since.IsZero() {
			db = db.Where("ordered_at >= ?", q.Since.UTC())
		}
		if !q.Until.IsZero() {
			db = db.Where("ordered_at < ?", q.Until.UTC())
		}
		return db
	}
}

// SaveOrders upserts the snapshots. Orders without an external ID are rejected
// since they cannot be keyed.
func (r *GormOrderRepository) SaveOrders(ctx context.Context, tenantID uuid.UUID, orders []integration.NormalizedOrder) (int, error) {
	if len(orders) == 0 {
		return 0, nil
	}

	now := r.now().UTC()
	records := make([]*models.OrderRecord, 0, len(orders))
	for _, o := range orders {
		if o.ExternalID == "" {
			return 0, fmt.Errorf("%w: %s order without external id", integration.ErrInvalidRequest, o.Platform)
		}
		record, err := models.FromNormalizedOrder(tenantID, o, now)
		if err != nil {
			return 0, err
		}
		records = append(records, record)
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "platform"}, {Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns(models.OrderRecordUpdateColumns),
	}).CreateInBatches(records, orderBatchSize)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to save orders: %w", result.Error)
	}
	return int(result.RowsAffected), nil
}

// ListOrders returns snapshots newest first
func (r *GormOrderRepository) ListOrders(ctx context.Context, tenantID uuid.UUID, query integration.OrderQuery) ([]integration.NormalizedOrder, error) {
	db := r.db.WithContext(ctx).Model(&models.OrderRecord{}).
		Scopes(tenantScope(tenantID), orderQueryScope(query)).
		Order("ordered_at DESC").Order("external_id ASC")
	if query.Limit > 0 {
		db = db.Limit(query.Limit)
	}

	var records []models.OrderRecord
	if err := db.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]integration.NormalizedOrder, 0, len(records))
	for i := range records {
		o, err := records[i].ToDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// CountOrders counts snapshots matching query. Limit is ignored.
func (r *GormOrderRepository) CountOrders(ctx context.Context, tenantID uuid.UUID, query integration.OrderQuery) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OrderRecord{}).
		Scopes(tenantScope(tenantID), orderQueryScope(query)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

var _ integration.OrderRepository = (*GormOrderRepository)(nil)
