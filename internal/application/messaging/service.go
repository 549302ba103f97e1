// Package messaging handles WhatsApp deliveries, outbound messages and the AI
// reply helpers built on them.
package messaging

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/domain/shared"
	"github.com/siparisbot/backend/internal/infrastructure/ai"
	"github.com/siparisbot/backend/internal/infrastructure/logger"
	whatsapp "github.com/siparisbot/backend/internal/infrastructure/messaging"
	"github.com/siparisbot/backend/internal/infrastructure/telemetry"
)

var (
	// ErrInvalidSignature is returned when a delivery fails the X-Hub-Signature-256 check
	ErrInvalidSignature = errors.New("messaging: invalid webhook signature")
	// ErrInvalidPayload is returned when a delivery body cannot be parsed
	ErrInvalidPayload = errors.New("messaging: invalid webhook payload")
)

// WhatsAppClient is the part of the WhatsApp adapter the service uses
type WhatsAppClient interface {
	integration.ConfigReporter
	SendMessage(ctx context.Context, msg whatsapp.Message) (string, error)
	SendText(ctx context.Context, phone, text string) (string, error)
	VerifyWebhook(mode, token, challenge string) (string, bool)
	VerifySignature(body []byte, header string) bool
	ParseWebhook(body []byte) ([]whatsapp.InboundMessage, error)
}

// Responder generates AI answers
type Responder interface {
	integration.ConfigReporter
	GenerateCustomerResponse(ctx context.Context, customerMessage string, cc ai.CustomerContext, systemPrompt string) (string, error)
	AnalyzeSentiment(ctx context.Context, text string) (ai.Sentiment, error)
}

// InboundRecorder counts accepted inbound messages
type InboundRecorder interface {
	RecordInboundMessage(ctx context.Context, messageType string)
}

// ServiceConfig holds the collaborators of Service
type ServiceConfig struct {
	WhatsApp WhatsAppClient
	// Responder is optional; auto-reply and the AI helpers need it
	Responder Responder
	// Deliveries deduplicates redelivered webhook messages
	Deliveries shared.DeliveryStore
	Dedupe     shared.DedupeConfig
	// AutoReply answers inbound text messages when Responder is configured
	AutoReply    bool
	BusinessName string
	Logger       *zap.Logger
	// Metrics is optional
	Metrics InboundRecorder
}

// Service processes WhatsApp traffic
type Service struct {
	whatsapp     WhatsAppClient
	responder    Responder
	deliveries   shared.DeliveryStore
	dedupe       shared.DedupeConfig
	autoReply    bool
	businessName string
	logger       *zap.Logger
	metrics      InboundRecorder
}

// NewService creates a new messaging service
func NewService(cfg ServiceConfig) *Service {
	s := &Service{
		whatsapp:     cfg.WhatsApp,
		responder:    cfg.Responder,
		deliveries:   cfg.Deliveries,
		dedupe:       cfg.Dedupe,
		autoReply:    cfg.AutoReply,
		businessName: cfg.BusinessName,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.dedupe.TTL <= 0 {
		s.dedupe.TTL = shared.DefaultDedupeConfig().TTL
	}
	return s
}

// ProcessResult counts what happened to one delivery
type ProcessResult struct {
	Received   int `json:"received"`
	Accepted   int `json:"accepted"`
	Duplicates int `json:"duplicates"`
	Replied    int `json:"replied"`
	// Failed messages had their claim released so a redelivery is handled again
	Failed int `json:"failed"`
}

// VerifySubscription answers the webhook verification handshake
func (s *Service) VerifySubscription(mode, token, challenge string) (string, bool) {
	return s.whatsapp.VerifyWebhook(mode, token, challenge)
}

// HandleWebhook verifies and parses a delivery callback, then processes its messages
func (s *Service) HandleWebhook(ctx context.Context, body []byte, signature string) (ProcessResult, error) {
	if !s.whatsapp.VerifySignature(body, signature) {
		return ProcessResult{}, ErrInvalidSignature
	}
	messages, err := s.whatsapp.ParseWebhook(body)
	if err != nil {
		return ProcessResult{}, errors.Join(ErrInvalidPayload, err)
	}
	return s.Process(ctx, messages), nil
}

// Process drops redelivered messages, logs the rest and auto-replies to text
// messages when enabled.
func (s *Service) Process(ctx context.Context, messages []whatsapp.InboundMessage) ProcessResult {
	result := ProcessResult{Received: len(messages)}
	for _, msg := range messages {
		switch s.processOne(ctx, msg) {
		case outcomeDuplicate:
			result.Duplicates++
		case outcomeAccepted:
			result.Accepted++
		case outcomeReplied:
			result.Accepted++
			result.Replied++
		case outcomeFailed:
			result.Accepted++
			result.Failed++
		}
	}
	return result
}

type outcome int

const (
	outcomeAccepted outcome = iota
	outcomeDuplicate
	outcomeReplied
	outcomeFailed
)

func (s *Service) processOne(ctx context.Context, msg whatsapp.InboundMessage) outcome {
	ctx, span := telemetry.StartServiceSpan(ctx, "messaging", "inbound",
		telemetry.SpanAttrMessageID, msg.ID,
	)
	defer span.End()

	log := logger.Enrich(ctx, s.logger).With(zap.String("message_id", msg.ID))

	claimed := s.claim(ctx, log, msg.ID)
	if !claimed {
		log.Debug("Dropping redelivered message")
		return outcomeDuplicate
	}

	log.Info("Inbound WhatsApp message",
		zap.String("from", msg.From),
		zap.String("type", msg.Type),
		zap.Time("timestamp", msg.Timestamp),
	)
	if s.metrics != nil {
		s.metrics.RecordInboundMessage(ctx, msg.Type)
	}

	if !s.shouldReply(msg) {
		return outcomeAccepted
	}

	if err := s.reply(ctx, msg); err != nil {
		log.Error("Auto-reply failed", zap.Error(err))
		telemetry.RecordError(span, err)
		if s.deliveries != nil && s.dedupe.Enabled {
			if rerr := s.deliveries.Release(ctx, msg.ID); rerr != nil {
				log.Warn("Failed to release delivery claim", zap.Error(rerr))
			}
		}
		return outcomeFailed
	}
	return outcomeReplied
}

// claim reports whether msg should be handled. A store failure lets the message through.
func (s *Service) claim(ctx context.Context, log *zap.Logger, id string) bool {
	if s.deliveries == nil || !s.dedupe.Enabled || id == "" {
		return true
	}
	ok, err := s.deliveries.Claim(ctx, id, s.dedupe.TTL)
	if err != nil {
		log.Warn("Delivery store unavailable, handling message without deduplication", zap.Error(err))
		return true
	}
	return ok
}

func (s *Service) shouldReply(msg whatsapp.InboundMessage) bool {
	return s.autoReply &&
		msg.IsText() &&
		s.responder != nil && s.responder.IsConfigured() &&
		s.whatsapp.IsConfigured()
}

func (s *Service) reply(ctx context.Context, msg whatsapp.InboundMessage) error {
	answer, err := s.responder.GenerateCustomerResponse(ctx, msg.Text, ai.CustomerContext{BusinessName: s.businessName}, "")
	if err != nil {
		return err
	}
	_, err = s.whatsapp.SendText(ctx, msg.From, answer)
	return err
}

// SendResult is the outcome of an outbound message
type SendResult struct {
	Success   bool                  `json:"success"`
	MessageID string                `json:"message_id,omitempty"`
	Error     string                `json:"error,omitempty"`
	Kind      integration.ErrorKind `json:"kind,omitempty"`
	SentAt    time.Time             `json:"sent_at,omitzero"`
}

// Send delivers an outbound message
func (s *Service) Send(ctx context.Context, msg whatsapp.Message) SendResult {
	id, err := s.whatsapp.SendMessage(ctx, msg)
	if err != nil {
		logger.Enrich(ctx, s.logger).Warn("Failed to send WhatsApp message",
			zap.String("type", string(msg.Type)),
			zap.Error(err))
		return SendResult{Success: false, Error: integration.Message(err), Kind: integration.KindOf(err)}
	}
	return SendResult{Success: true, MessageID: id, SentAt: time.Now().UTC()}
}

// ErrResponderUnavailable is returned by the AI helpers when no responder is wired
var ErrResponderUnavailable = errors.New("messaging: AI responder not configured")

// SuggestReply drafts an answer to a customer message. An empty systemPrompt
// selects the default customer service prompt.
func (s *Service) SuggestReply(ctx context.Context, customerMessage, customerName, systemPrompt string) (string, error) {
	if s.responder == nil {
		return "", ErrResponderUnavailable
	}
	return s.responder.GenerateCustomerResponse(ctx, customerMessage, ai.CustomerContext{
		CustomerName: customerName,
		BusinessName: s.businessName,
	}, systemPrompt)
}

// Sentiment classifies a customer message
func (s *Service) Sentiment(ctx context.Context, text string) (ai.Sentiment, error) {
	if s.responder == nil {
		return "", ErrResponderUnavailable
	}
	return s.responder.AnalyzeSentiment(ctx, text)
}
