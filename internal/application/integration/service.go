// Package integration holds the marketplace use cases: order fetch, shipment
// push, order sync, analytics and the credential status panel.
package integration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/infrastructure/logger"
	"github.com/siparisbot/backend/internal/infrastructure/telemetry"
)

// maxSyncPages bounds the pages a single sync walks
const maxSyncPages = 50

// ErrStorageUnavailable is returned by sync and analytics when no order repository is wired
var ErrStorageUnavailable = errors.New("integration: order storage not configured")

// SyncRecorder receives the number of orders persisted per sync
type SyncRecorder interface {
	RecordOrdersSynced(ctx context.Context, platform integration.PlatformCode, count int)
}

// ServiceConfig holds the collaborators of Service
type ServiceConfig struct {
	Registry integration.AdapterRegistry
	// Orders stores synced snapshots. Optional; sync and analytics fail without it.
	Orders integration.OrderRepository
	Logger *zap.Logger
	// Metrics is optional
	Metrics SyncRecorder
	// Now defaults to time.Now
	Now func() time.Time
}

// Service runs marketplace operations for a tenant. Adapter errors never
// escape: fetches return a failed OrdersResult, shipment pushes return false.
type Service struct {
	registry integration.AdapterRegistry
	orders   integration.OrderRepository
	logger   *zap.Logger
	metrics  SyncRecorder
	now      func() time.Time
}

// NewService creates a new marketplace service
func NewService(cfg ServiceConfig) *Service {
	s := &Service{
		registry: cfg.Registry,
		orders:   cfg.Orders,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		now:      cfg.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// FetchOrders lists normalized orders from one marketplace
func (s *Service) FetchOrders(ctx context.Context, tenantID uuid.UUID, platform integration.PlatformCode, filter integration.OrderFilter) OrdersResult {
	ctx, span := telemetry.StartServiceSpan(ctx, "integration", "fetch_orders",
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrPlatform, string(platform),
	)
	defer span.End()

	if err := filter.Validate(); err != nil {
		return failedOrders(platform, err)
	}

	adapter, err := s.registry.Adapter(tenantID, platform)
	if err != nil {
		return failedOrders(platform, err)
	}

	result := s.fetch(ctx, adapter, filter)
	if !result.Success {
		telemetry.RecordError(span, errors.New(result.Error))
	} else {
		telemetry.SetAttributes(span, telemetry.SpanAttrOrderCount, len(result.Orders))
	}
	return result
}

// FetchAll lists orders from every configured marketplace concurrently.
// Each result is independent; one provider failing does not affect the others.
func (s *Service) FetchAll(ctx context.Context, tenantID uuid.UUID, filter integration.OrderFilter) []OrdersResult {
	ctx, span := telemetry.StartServiceSpan(ctx, "integration", "fetch_all",
		telemetry.SpanAttrTenantID, tenantID.String(),
	)
	defer span.End()

	adapters := make([]integration.MarketplaceAdapter, 0)
	for _, a := range s.registry.Adapters(tenantID) {
		if a.IsConfigured() {
			adapters = append(adapters, a)
		}
	}

	results := make([]OrdersResult, len(adapters))
	if err := filter.Validate(); err != nil {
		for i, a := range adapters {
			results[i] = failedOrders(a.Platform(), err)
		}
		return results
	}

	var g errgroup.Group
	for i, a := range adapters {
		g.Go(func() error {
			results[i] = s.fetch(ctx, a, filter)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (s *Service) fetch(ctx context.Context, adapter integration.MarketplaceAdapter, filter integration.OrderFilter) OrdersResult {
	platform := adapter.Platform()
	orders, err := adapter.FetchOrders(ctx, filter)
	if err != nil {
		logger.Enrich(ctx, s.logger).Warn("Failed to fetch orders",
			zap.String("platform", platform.DisplayName()),
			zap.String("kind", string(integration.KindOf(err))),
			zap.Error(err))
		return failedOrders(platform, err)
	}
	if orders == nil {
		orders = []integration.NormalizedOrder{}
	}
	return OrdersResult{Platform: platform, Success: true, Orders: orders}
}

// UpdateShipment pushes tracking data and reports whether the marketplace accepted it.
// Failures are logged, never returned.
func (s *Service) UpdateShipment(ctx context.Context, tenantID uuid.UUID, platform integration.PlatformCode, update integration.ShipmentUpdate) bool {
	ctx, span := telemetry.StartServiceSpan(ctx, "integration", "update_shipment",
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrPlatform, string(platform),
		telemetry.SpanAttrOrderID, update.OrderID,
	)
	defer span.End()

	log := logger.Enrich(ctx, s.logger).With(
		zap.String("platform", string(platform)),
		zap.String("order_id", update.OrderID),
	)

	if err := update.Validate(); err != nil {
		log.Warn("Rejected shipment update", zap.Error(err))
		telemetry.RecordError(span, err)
		return false
	}

	adapter, err := s.registry.Adapter(tenantID, platform)
	if err != nil {
		log.Warn("No adapter for shipment update", zap.Error(err))
		telemetry.RecordError(span, err)
		return false
	}

	if err := adapter.UpdateShipment(ctx, update); err != nil {
		log.Error("Failed to update shipment",
			zap.String("kind", string(integration.KindOf(err))),
			zap.Error(err))
		telemetry.RecordError(span, err)
		return false
	}

	log.Info("Shipment updated", zap.String("tracking_number", update.TrackingNumber))
	return true
}

// StorageEnabled reports whether an order repository is wired
func (s *Service) StorageEnabled() bool {
	return s.orders != nil
}

// SyncOrders fetches the last SyncWindow of orders page by page and upserts them.
// progress, when set, is called once per persisted order with (current, total).
func (s *Service) SyncOrders(ctx context.Context, tenantID uuid.UUID, platform integration.PlatformCode, progress integration.SyncProgressFunc) SyncOutcome {
	ctx, span := telemetry.StartServiceSpan(ctx, "integration", "sync_orders",
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrPlatform, string(platform),
	)
	defer span.End()

	outcome := s.syncOrders(ctx, tenantID, platform, progress)
	if !outcome.Success {
		telemetry.RecordError(span, errors.New(outcome.Error))
	} else {
		telemetry.SetAttributes(span, telemetry.SpanAttrOrderCount, outcome.Result.SyncedCount)
	}
	return outcome
}

// collectWindow pages through filter's window. Cursor pagers follow their cursor;
// other adapters advance Page until a short page. Orders are kept once per
// external ID and a page with no new ID ends the walk. On error it also
// returns the failing page.
func collectWindow(ctx context.Context, adapter integration.MarketplaceAdapter, filter integration.OrderFilter) ([]integration.NormalizedOrder, int, error) {
	pager, cursored := adapter.(integration.CursorPager)

	var (
		out    []integration.NormalizedOrder
		cursor string
	)
	seen := make(map[string]struct{})

	for page := 0; page < maxSyncPages; page++ {
		var (
			batch []integration.NormalizedOrder
			more  bool
		)
		if cursored {
			res, err := pager.FetchOrderPage(ctx, filter, cursor)
			if err != nil {
				return nil, page, err
			}
			batch, cursor, more = res.Orders, res.Next, res.Next != ""
		} else {
			filter.Page = page
			orders, err := adapter.FetchOrders(ctx, filter)
			if err != nil {
				return nil, page, err
			}
			batch, more = orders, len(orders) >= filter.PageSize
		}

		added := 0
		for _, o := range batch {
			if o.ExternalID != "" {
				if _, dup := seen[o.ExternalID]; dup {
					continue
				}
				seen[o.ExternalID] = struct{}{}
			}
			out = append(out, o)
			added++
		}
		if !more || added == 0 {
			break
		}
	}
	return out, 0, nil
}

func (s *Service) syncOrders(ctx context.Context, tenantID uuid.UUID, platform integration.PlatformCode, progress integration.SyncProgressFunc) SyncOutcome {
	log := logger.Enrich(ctx, s.logger).With(zap.String("platform", string(platform)))

	if s.orders == nil {
		return failedSync(ErrStorageUnavailable)
	}

	adapter, err := s.registry.Adapter(tenantID, platform)
	if err != nil {
		return failedSync(err)
	}

	started := s.now().UTC()
	since := started.Add(-integration.SyncWindow)

	fetched, page, err := collectWindow(ctx, adapter, integration.OrderFilter{
		StartDate: &since,
		EndDate:   &started,
		PageSize:  integration.SyncPageSize,
	})
	if err != nil {
		log.Error("Order sync fetch failed", zap.Int("page", page), zap.Error(err))
		return failedSync(err)
	}

	synced := 0
	total := len(fetched)
	for start := 0; start < total; start += integration.SyncPageSize {
		end := min(start+integration.SyncPageSize, total)
		if _, err := s.orders.SaveOrders(ctx, tenantID, fetched[start:end]); err != nil {
			log.Error("Order sync persist failed", zap.Int("synced", synced), zap.Error(err))
			return failedSync(fmt.Errorf("persist orders: %w", err))
		}
		for i := start; i < end; i++ {
			synced++
			if progress != nil {
				progress(synced, total)
			}
		}
	}

	if s.metrics != nil {
		s.metrics.RecordOrdersSynced(ctx, platform, synced)
	}

	result := &integration.SyncResult{
		Platform:     platform,
		FetchedCount: total,
		SyncedCount:  synced,
		StartedAt:    started,
		FinishedAt:   s.now().UTC(),
	}
	log.Info("Orders synced", zap.Int("fetched", total), zap.Int("synced", synced))
	return SyncOutcome{Success: true, Result: result}
}
