package integration

import (
	"github.com/siparisbot/backend/internal/domain/integration"
)

// OrdersResult is the outcome of one order fetch. A failed fetch carries the
// provider error text instead of returning an error.
type OrdersResult struct {
	Platform integration.PlatformCode      `json:"platform"`
	Success  bool                          `json:"success"`
	Orders   []integration.NormalizedOrder `json:"orders,omitempty"`
	Error    string                        `json:"error,omitempty"`
	Kind     integration.ErrorKind         `json:"kind,omitempty"`
}

// SyncOutcome is the outcome of one order sync
type SyncOutcome struct {
	Success bool                    `json:"success"`
	Result  *integration.SyncResult `json:"result,omitempty"`
	Error   string                  `json:"error,omitempty"`
	Kind    integration.ErrorKind   `json:"kind,omitempty"`
}

func failedOrders(platform integration.PlatformCode, err error) OrdersResult {
	return OrdersResult{
		Platform: platform,
		Success:  false,
		Error:    integration.Message(err),
		Kind:     integration.KindOf(err),
	}
}

func failedSync(err error) SyncOutcome {
	return SyncOutcome{
		Success: false,
		Error:   integration.Message(err),
		Kind:    integration.KindOf(err),
	}
}
