package telemetry

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/siparisbot/backend/internal/domain/integration"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics constructor receives a nil meter.
var ErrMeterNil = errors.New("telemetry: meter is nil")

// Outcome attribute values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// ProviderMetrics records outbound provider calls and the work built on them.
// It satisfies providerhttp.Recorder.
type ProviderMetrics struct {
	requests        *Counter
	duration        *Histogram
	ordersSynced    *Counter
	messagesInbound *Counter
}

// NewProviderMetrics creates the provider instruments on meter.
func NewProviderMetrics(meter metric.Meter) (*ProviderMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		pm  ProviderMetrics
		err error
	)

	pm.requests, err = NewCounter(meter,
		"integration.provider.requests",
		"Outbound provider API requests",
		"{requests}",
	)
	if err != nil {
		return nil, err
	}

	pm.duration, err = NewHistogram(meter, HistogramOpts{
		Name:        "integration.provider.duration",
		Description: "Outbound provider API request duration",
		Unit:        "s",
		Boundaries:  ProviderDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	pm.ordersSynced, err = NewCounter(meter,
		"integration.orders.synced",
		"Normalized orders persisted by order sync",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	pm.messagesInbound, err = NewCounter(meter,
		"messaging.inbound.messages",
		"Inbound WhatsApp messages accepted after deduplication",
		"{messages}",
	)
	if err != nil {
		return nil, err
	}

	return &pm, nil
}

// RecordProviderRequest records one provider call.
func (pm *ProviderMetrics) RecordProviderRequest(ctx context.Context, provider, operation string, statusCode int, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		AttrProvider.String(provider),
		AttrOperation.String(operation),
		AttrHTTPStatusCode.String(strconv.Itoa(statusCode)),
	}
	if err != nil {
		attrs = append(attrs,
			AttrOutcome.String(OutcomeFailure),
			AttrErrorKind.String(string(integration.KindOf(err))),
		)
	} else {
		attrs = append(attrs, AttrOutcome.String(OutcomeSuccess))
	}

	pm.requests.Inc(ctx, attrs...)
	pm.duration.RecordDuration(ctx, duration, attrs...)
}

// RecordOrdersSynced adds count persisted orders for a platform.
func (pm *ProviderMetrics) RecordOrdersSynced(ctx context.Context, platform integration.PlatformCode, count int) {
	if count <= 0 {
		return
	}
	pm.ordersSynced.Add(ctx, int64(count), AttrProvider.String(platform.DisplayName()))
}

// RecordInboundMessage counts one accepted inbound message.
func (pm *ProviderMetrics) RecordInboundMessage(ctx context.Context, messageType string) {
	pm.messagesInbound.Inc(ctx, AttrMessageType.String(messageType))
}
