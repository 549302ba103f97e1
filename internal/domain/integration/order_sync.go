package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SyncWindow is how far back an order sync looks
const SyncWindow = 30 * 24 * time.Hour

// SyncPageSize is the page size used when syncing
const SyncPageSize = 100

// SyncProgressFunc receives progress while orders are persisted
type SyncProgressFunc func(current, total int)

// SyncResult summarizes one sync run
type SyncResult struct {
	Platform     PlatformCode `json:"platform"`
	FetchedCount int          `json:"fetched_count"`
	SyncedCount  int          `json:"synced_count"`
	StartedAt    time.Time    `json:"started_at"`
	FinishedAt   time.Time    `json:"finished_at"`
}

// OrderQuery selects stored order snapshots
type OrderQuery struct {
	// Platform limits to one marketplace; empty means all
	Platform PlatformCode
	// Since limits to orders created at or after this time
	Since time.Time
	// Until limits to orders created before this time; zero means now
	Until time.Time
	// Limit caps the result size; 0 means no limit
	Limit int
}

// OrderRepository persists normalized order snapshots
type OrderRepository interface {
	// SaveOrders upserts orders keyed by tenant, platform and external ID and returns the number written
	SaveOrders(ctx context.Context, tenantID uuid.UUID, orders []NormalizedOrder) (int, error)

	// ListOrders returns stored orders ordered by creation time, newest first
	ListOrders(ctx context.Context, tenantID uuid.UUID, query OrderQuery) ([]NormalizedOrder, error)

	// CountOrders returns the number of stored orders matching the query
	CountOrders(ctx context.Context, tenantID uuid.UUID, query OrderQuery) (int64, error)
}
