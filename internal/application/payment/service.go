// Package payment exposes iyzico payments and subscriptions with the
// success/error envelope used across the API.
package payment

import (
	"context"

	"go.uber.org/zap"

	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/infrastructure/logger"
	"github.com/siparisbot/backend/internal/infrastructure/payment"
	"github.com/siparisbot/backend/internal/infrastructure/telemetry"
)

// Gateway is the payment provider port
type Gateway interface {
	integration.ConfigReporter
	Sandbox() bool
	CreatePayment(ctx context.Context, req payment.PaymentRequest) (*payment.PaymentResult, error)
	CreateSubscription(ctx context.Context, req payment.SubscriptionRequest) (*payment.SubscriptionResult, error)
	CancelSubscription(ctx context.Context, referenceCode string) error
	GetSubscription(ctx context.Context, referenceCode string) (*payment.Subscription, error)
}

// Outcome is the envelope returned by every payment operation
type Outcome[T any] struct {
	Success bool                  `json:"success"`
	Data    *T                    `json:"data,omitempty"`
	Error   string                `json:"error,omitempty"`
	Kind    integration.ErrorKind `json:"kind,omitempty"`
}

func succeeded[T any](v *T) Outcome[T] {
	return Outcome[T]{Success: true, Data: v}
}

func failed[T any](err error) Outcome[T] {
	return Outcome[T]{Success: false, Error: integration.Message(err), Kind: integration.KindOf(err)}
}

// Service runs payment operations
type Service struct {
	gateway Gateway
	logger  *zap.Logger
}

// NewService creates a new payment service
func NewService(gateway Gateway, zapLogger *zap.Logger) *Service {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	return &Service{gateway: gateway, logger: zapLogger}
}

// Sandbox reports whether payments go to the iyzico sandbox
func (s *Service) Sandbox() bool {
	return s.gateway.Sandbox()
}

// Pay charges a card
func (s *Service) Pay(ctx context.Context, req payment.PaymentRequest) Outcome[payment.PaymentResult] {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "pay",
		telemetry.SpanAttrPaymentRef, req.BasketID,
	)
	defer span.End()

	log := logger.Enrich(ctx, s.logger).With(zap.String("basket_id", req.BasketID))

	result, err := s.gateway.CreatePayment(ctx, req)
	if err != nil {
		log.Warn("Payment failed", zap.String("kind", string(integration.KindOf(err))), zap.Error(err))
		telemetry.RecordError(span, err)
		return failed[payment.PaymentResult](err)
	}

	log.Info("Payment completed",
		zap.String("payment_id", result.PaymentID),
		zap.Bool("sandbox", s.gateway.Sandbox()))
	return succeeded(result)
}

// Subscribe starts a subscription
func (s *Service) Subscribe(ctx context.Context, req payment.SubscriptionRequest) Outcome[payment.SubscriptionResult] {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "subscribe",
		telemetry.SpanAttrPaymentRef, req.PricingPlanReferenceCode,
	)
	defer span.End()

	result, err := s.gateway.CreateSubscription(ctx, req)
	if err != nil {
		logger.Enrich(ctx, s.logger).Warn("Subscription failed",
			zap.String("plan", req.PricingPlanReferenceCode),
			zap.Error(err))
		telemetry.RecordError(span, err)
		return failed[payment.SubscriptionResult](err)
	}
	return succeeded(result)
}

// CancelResult confirms a cancellation
type CancelResult struct {
	ReferenceCode string `json:"reference_code"`
}

// Cancel cancels a subscription
func (s *Service) Cancel(ctx context.Context, referenceCode string) Outcome[CancelResult] {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "cancel_subscription",
		telemetry.SpanAttrPaymentRef, referenceCode,
	)
	defer span.End()

	if err := s.gateway.CancelSubscription(ctx, referenceCode); err != nil {
		logger.Enrich(ctx, s.logger).Warn("Subscription cancel failed",
			zap.String("reference_code", referenceCode),
			zap.Error(err))
		telemetry.RecordError(span, err)
		return failed[CancelResult](err)
	}
	return succeeded(&CancelResult{ReferenceCode: referenceCode})
}

// Subscription retrieves a subscription
func (s *Service) Subscription(ctx context.Context, referenceCode string) Outcome[payment.Subscription] {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "get_subscription",
		telemetry.SpanAttrPaymentRef, referenceCode,
	)
	defer span.End()

	sub, err := s.gateway.GetSubscription(ctx, referenceCode)
	if err != nil {
		telemetry.RecordError(span, err)
		return failed[payment.Subscription](err)
	}
	return succeeded(sub)
}
