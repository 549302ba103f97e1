package handler

import (
	"fmt"
	"time"

	appintegration "github.com/siparisbot/backend/internal/application/integration"
	"github.com/siparisbot/backend/internal/domain/integration"
)

const dateLayout = "2006-01-02"

// OrdersQuery binds the order listing query string.
// start and end accept RFC 3339 timestamps or YYYY-MM-DD dates.
type OrdersQuery struct {
	Page   int    `form:"page" binding:"gte=0"`
	Size   int    `form:"size" binding:"gte=0,lte=200"`
	Status string `form:"status"`
	Start  string `form:"start"`
	End    string `form:"end"`
}

// Filter converts the query into an order filter. A date-only end covers the whole day.
func (q OrdersQuery) Filter() (integration.OrderFilter, error) {
	filter := integration.OrderFilter{
		Page:     q.Page,
		PageSize: q.Size,
		Status:   q.Status,
	}

	if q.Start != "" {
		start, _, err := parseQueryTime(q.Start)
		if err != nil {
			return filter, fmt.Errorf("start: %w", err)
		}
		filter.StartDate = &start
	}
	if q.End != "" {
		end, dateOnly, err := parseQueryTime(q.End)
		if err != nil {
			return filter, fmt.Errorf("end: %w", err)
		}
		if dateOnly {
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
		filter.EndDate = &end
	}

	return filter, filter.Validate()
}

func parseQueryTime(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), false, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%q is not an RFC 3339 time or YYYY-MM-DD date", s)
	}
	return t, true, nil
}

// OrdersResponse is one marketplace's order listing
type OrdersResponse struct {
	Platform integration.PlatformCode      `json:"platform"`
	Count    int                           `json:"count"`
	Orders   []integration.NormalizedOrder `json:"orders"`
}

// ShipmentRequest is the tracking data pushed to a marketplace
type ShipmentRequest struct {
	TrackingNumber     string `json:"tracking_number" binding:"required"`
	Carrier            string `json:"carrier"`
	ShippingProviderID string `json:"shipping_provider_id"`
	ShippingMethod     string `json:"shipping_method"`
}

// ToUpdate builds the shipment update for orderID
func (r ShipmentRequest) ToUpdate(orderID string) integration.ShipmentUpdate {
	return integration.ShipmentUpdate{
		OrderID:            orderID,
		TrackingNumber:     r.TrackingNumber,
		Carrier:            r.Carrier,
		ShippingProviderID: r.ShippingProviderID,
		ShippingMethod:     r.ShippingMethod,
	}
}

// ShipmentResponse confirms an accepted shipment update
type ShipmentResponse struct {
	Platform       integration.PlatformCode `json:"platform"`
	OrderID        string                   `json:"order_id"`
	TrackingNumber string                   `json:"tracking_number"`
	Updated        bool                     `json:"updated"`
}

// StatusResponse is the credential status panel
type StatusResponse struct {
	Providers  []appintegration.ProviderStatus `json:"providers"`
	Configured int                             `json:"configured"`
	Total      int                             `json:"total"`
}
