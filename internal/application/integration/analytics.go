package integration

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/infrastructure/telemetry"
)

// AnalyticsWindow is the length of one comparison window
const AnalyticsWindow = 30 * 24 * time.Hour

// DailyStats aggregates one UTC day
type DailyStats struct {
	Date         string          `json:"date"`
	TotalOrders  int             `json:"total_orders"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// Analytics compares the last AnalyticsWindow with the window before it
type Analytics struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalOrders       int             `json:"total_orders"`
	UniqueCustomers   int             `json:"unique_customers"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	// RevenueChange and OrdersChange are percentages; 0 when the previous window is empty
	RevenueChange decimal.Decimal `json:"revenue_change"`
	OrdersChange  decimal.Decimal `json:"orders_change"`
	Daily         []DailyStats    `json:"daily"`
	WindowStart   time.Time       `json:"window_start"`
	WindowEnd     time.Time       `json:"window_end"`
}

var hundred = decimal.NewFromInt(100)

// ComputeAnalytics aggregates orders relative to now. Orders outside both
// windows are ignored. Daily buckets cover the current window only, ascending.
func ComputeAnalytics(orders []integration.NormalizedOrder, now time.Time) Analytics {
	now = now.UTC()
	currentStart := now.Add(-AnalyticsWindow)
	previousStart := currentStart.Add(-AnalyticsWindow)

	var (
		revenue, previousRevenue decimal.Decimal
		count, previousCount     int
		daily                    = make(map[string]*DailyStats)
		customers                = make(map[string]struct{})
	)

	for _, o := range orders {
		created := o.CreatedAt.UTC()
		switch {
		case !created.Before(currentStart) && !created.After(now):
			revenue = revenue.Add(o.Total)
			count++

			day := created.Format(time.DateOnly)
			bucket, ok := daily[day]
			if !ok {
				bucket = &DailyStats{Date: day}
				daily[day] = bucket
			}
			bucket.TotalOrders++
			bucket.TotalRevenue = bucket.TotalRevenue.Add(o.Total)

			if key := customerKey(o.Buyer); key != "" {
				customers[key] = struct{}{}
			}
		case !created.Before(previousStart) && created.Before(currentStart):
			previousRevenue = previousRevenue.Add(o.Total)
			previousCount++
		}
	}

	a := Analytics{
		TotalRevenue:      revenue,
		TotalOrders:       count,
		UniqueCustomers:   len(customers),
		AverageOrderValue: decimal.Zero,
		RevenueChange:     percentChange(revenue, previousRevenue),
		OrdersChange:      percentChange(decimal.NewFromInt(int64(count)), decimal.NewFromInt(int64(previousCount))),
		Daily:             make([]DailyStats, 0, len(daily)),
		WindowStart:       currentStart,
		WindowEnd:         now,
	}
	if count > 0 {
		a.AverageOrderValue = revenue.DivRound(decimal.NewFromInt(int64(count)), 2)
	}
	for _, bucket := range daily {
		a.Daily = append(a.Daily, *bucket)
	}
	sort.Slice(a.Daily, func(i, j int) bool { return a.Daily[i].Date < a.Daily[j].Date })

	return a
}

func percentChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred).Round(1)
}

// customerKey identifies a buyer by email, then phone, then name
func customerKey(b integration.Buyer) string {
	for _, v := range []string{b.Email, b.Phone, b.Name} {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			return v
		}
	}
	return ""
}

// Analytics computes the 30-day summary from stored snapshots.
// platform narrows to one marketplace; empty means all.
func (s *Service) Analytics(ctx context.Context, tenantID uuid.UUID, platform integration.PlatformCode) (Analytics, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "integration", "analytics",
		telemetry.SpanAttrTenantID, tenantID.String(),
	)
	defer span.End()

	if s.orders == nil {
		return Analytics{}, ErrStorageUnavailable
	}

	now := s.now().UTC()
	orders, err := s.orders.ListOrders(ctx, tenantID, integration.OrderQuery{
		Platform: platform,
		Since:    now.Add(-2 * AnalyticsWindow),
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return Analytics{}, err
	}
	return ComputeAnalytics(orders, now), nil
}
