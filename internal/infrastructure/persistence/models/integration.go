package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/siparisbot/backend/internal/domain/integration"
)

// OrderRecord is the persisted snapshot of a NormalizedOrder.
// (tenant_id, platform, external_id) is unique; a re-sync overwrites the row.
type OrderRecord struct {
	ID             uuid.UUID                `gorm:"type:uuid;primary_key"`
	TenantID       uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex:idx_marketplace_orders_key,priority:1;index:idx_marketplace_orders_created,priority:1"`
	Platform       integration.PlatformCode `gorm:"type:varchar(20);not null;uniqueIndex:idx_marketplace_orders_key,priority:2"`
	ExternalID     string                   `gorm:"type:varchar(100);not null;uniqueIndex:idx_marketplace_orders_key,priority:3"`
	Status         string                   `gorm:"type:varchar(50)"`
	BuyerName      string                   `gorm:"type:varchar(255)"`
	BuyerEmail     string                   `gorm:"type:varchar(255)"`
	BuyerPhone     string                   `gorm:"type:varchar(50)"`
	AddressJSON    string                   `gorm:"type:text;column:shipping_address"`
	Total          decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	Currency       string                   `gorm:"type:varchar(3)"`
	ItemsJSON      string                   `gorm:"type:text;column:items"`
	ItemCount      int                      `gorm:"not null;default:0"`
	TrackingNumber string                   `gorm:"type:varchar(100)"`
	Source         integration.OrderSource  `gorm:"type:varchar(10);not null"`
	RawJSON        string                   `gorm:"type:text;column:raw"`
	OrderedAt      time.Time                `gorm:"not null;index:idx_marketplace_orders_created,priority:2"`
	CreatedAt      time.Time                `gorm:"not null"`
	UpdatedAt      time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderRecord) TableName() string {
	return "marketplace_orders"
}

// OrderRecordUpdateColumns are overwritten when a snapshot is saved again
var OrderRecordUpdateColumns = []string{
	"status", "buyer_name", "buyer_email", "buyer_phone", "shipping_address",
	"total", "currency", "items", "item_count", "tracking_number", "source", "raw",
	"ordered_at", "updated_at",
}

// FromNormalizedOrder builds a record for tenantID. A new ID is assigned; on
// conflict the stored ID is kept.
func FromNormalizedOrder(tenantID uuid.UUID, o integration.NormalizedOrder, now time.Time) (*OrderRecord, error) {
	address, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to encode shipping address: %w", err)
	}
	items := o.Items
	if items == nil {
		items = []integration.OrderLine{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order items: %w", err)
	}

	return &OrderRecord{
		ID:             uuid.New(),
		TenantID:       tenantID,
		Platform:       o.Platform,
		ExternalID:     o.ExternalID,
		Status:         o.Status,
		BuyerName:      o.Buyer.Name,
		BuyerEmail:     o.Buyer.Email,
		BuyerPhone:     o.Buyer.Phone,
		AddressJSON:    string(address),
		Total:          o.Total,
		Currency:       o.Currency,
		ItemsJSON:      string(itemsJSON),
		ItemCount:      o.ItemCount(),
		TrackingNumber: o.TrackingNumber,
		Source:         o.Source,
		RawJSON:        string(o.Raw),
		OrderedAt:      o.CreatedAt.UTC(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// ToDomain converts the record back to a NormalizedOrder
func (m *OrderRecord) ToDomain() (integration.NormalizedOrder, error) {
	o := integration.NormalizedOrder{
		Platform:   m.Platform,
		ExternalID: m.ExternalID,
		Status:     m.Status,
		Buyer: integration.Buyer{
			Name:  m.BuyerName,
			Email: m.BuyerEmail,
			Phone: m.BuyerPhone,
		},
		Total:          m.Total,
		Currency:       m.Currency,
		CreatedAt:      m.OrderedAt.UTC(),
		TrackingNumber: m.TrackingNumber,
		Source:         m.Source,
	}
	if m.AddressJSON != "" {
		if err := json.Unmarshal([]byte(m.AddressJSON), &o.ShippingAddress); err != nil {
			return o, fmt.Errorf("failed to decode shipping address of %s: %w", m.ExternalID, err)
		}
	}
	if m.ItemsJSON != "" {
		if err := json.Unmarshal([]byte(m.ItemsJSON), &o.Items); err != nil {
			return o, fmt.Errorf("failed to decode items of %s: %w", m.ExternalID, err)
		}
	}
	if m.RawJSON != "" {
		o.Raw = json.RawMessage(m.RawJSON)
	}
	return o, nil
}
