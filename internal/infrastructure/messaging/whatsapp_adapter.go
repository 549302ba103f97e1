package messaging

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/infrastructure/providerhttp"
)

// WhatsAppProvider is the provider name used in errors, spans and metrics
const WhatsAppProvider = "WhatsApp"

// SignatureHeader carries the HMAC of a webhook delivery
const SignatureHeader = "X-Hub-Signature-256"

const (
	webhookModeSubscribe = "subscribe"
	webhookFieldMessages = "messages"
	signaturePrefix      = "sha256="
)

// WhatsAppAdapter sends messages through the WhatsApp Business Cloud API
// and interprets its webhook callbacks
type WhatsAppAdapter struct {
	config WhatsAppConfig
	client *providerhttp.Client
}

var _ integration.ConfigReporter = (*WhatsAppAdapter)(nil)

// NewWhatsAppAdapter creates a WhatsApp adapter
func NewWhatsAppAdapter(cfg WhatsAppConfig, opts ...providerhttp.Option) *WhatsAppAdapter {
	return &WhatsAppAdapter{
		config: cfg,
		client: providerhttp.NewWithOptions(WhatsAppProvider, opts...),
	}
}

// IsConfigured reports whether every required credential is set
func (a *WhatsAppAdapter) IsConfigured() bool {
	return a.config.Status().Configured
}

// ConfigStatus lists the missing credential keys
func (a *WhatsAppAdapter) ConfigStatus() integration.ConfigStatus {
	return a.config.Status()
}

// SendMessage sends msg and returns the WhatsApp message ID
func (a *WhatsAppAdapter) SendMessage(ctx context.Context, msg Message) (string, error) {
	if err := a.ConfigStatus().Err(WhatsAppProvider); err != nil {
		return "", err
	}

	payload, err := buildPayload(msg)
	if err != nil {
		return "", err
	}
	body, err := a.client.EncodeJSON(payload)
	if err != nil {
		return "", err
	}

	header := providerhttp.JSONHeader()
	header.Set("Authorization", "Bearer "+a.config.AccessToken)

	var resp whatsappSendResponse
	err = a.client.DoJSON(ctx, providerhttp.Request{
		Operation: "messages.send",
		Method:    http.MethodPost,
		URL:       a.config.baseURL() + "/" + a.config.PhoneNumberID + "/messages",
		Header:    header,
		Body:      body,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("whatsapp send %s message: %w", msg.Type, err)
	}

	if len(resp.Messages) == 0 {
		return "", nil
	}
	return resp.Messages[0].ID, nil
}

// SendText sends a plain text message
func (a *WhatsAppAdapter) SendText(ctx context.Context, phone, text string) (string, error) {
	return a.SendMessage(ctx, Message{To: phone, Type: MessageTypeText, Body: text})
}

// SendTemplate sends a template message; variables fill the body placeholders in order
func (a *WhatsAppAdapter) SendTemplate(ctx context.Context, phone, templateName string, variables []string) (string, error) {
	params := make([]TemplateParameter, 0, len(variables))
	for _, v := range variables {
		params = append(params, TemplateParameter{Type: "text", Text: v})
	}

	return a.SendMessage(ctx, Message{
		To:   phone,
		Type: MessageTypeTemplate,
		Template: &Template{
			Name:     templateName,
			Language: TemplateLanguageRef{Code: TemplateLanguage},
			Components: []TemplateComponent{
				{Type: "body", Parameters: params},
			},
		},
	})
}

// SendImage sends an image by URL
func (a *WhatsAppAdapter) SendImage(ctx context.Context, phone, imageURL string) (string, error) {
	return a.SendMessage(ctx, Message{To: phone, Type: MessageTypeImage, Image: &Image{Link: imageURL}})
}

// VerifyWebhook answers the subscription handshake. It returns the challenge
// and true only for mode "subscribe" with the configured verify token.
func (a *WhatsAppAdapter) VerifyWebhook(mode, token, challenge string) (string, bool) {
	if mode != webhookModeSubscribe {
		return "", false
	}
	if !hmac.Equal([]byte(token), []byte(a.config.verifyToken())) {
		return "", false
	}
	return challenge, true
}

// SignatureRequired reports whether deliveries must carry a valid signature
func (a *WhatsAppAdapter) SignatureRequired() bool {
	return a.config.AppSecret != ""
}

// VerifySignature checks the X-Hub-Signature-256 header against body.
// Without an app secret every delivery is accepted.
func (a *WhatsAppAdapter) VerifySignature(body []byte, header string) bool {
	if !a.SignatureRequired() {
		return true
	}
	sig, ok := strings.CutPrefix(header, signaturePrefix)
	if !ok {
		return false
	}
	got, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(a.config.AppSecret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

// ParseWebhook extracts inbound messages from a delivery callback.
// Only changes with field "messages" are read.
func (a *WhatsAppAdapter) ParseWebhook(body []byte) ([]InboundMessage, error) {
	var hook whatsappWebhook
	if err := json.Unmarshal(body, &hook); err != nil {
		return nil, fmt.Errorf("%w: malformed webhook body: %v", integration.ErrInvalidRequest, err)
	}

	var out []InboundMessage
	for _, entry := range hook.Entry {
		for _, change := range entry.Changes {
			if change.Field != webhookFieldMessages {
				continue
			}
			for _, raw := range change.Value.Messages {
				msg, err := parseInbound(raw)
				if err != nil {
					return nil, err
				}
				out = append(out, msg)
			}
		}
	}
	return out, nil
}

func parseInbound(raw json.RawMessage) (InboundMessage, error) {
	var in whatsappInbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return InboundMessage{}, fmt.Errorf("%w: malformed webhook message: %v", integration.ErrInvalidRequest, err)
	}

	msg := InboundMessage{
		ID:   in.ID,
		From: in.From,
		Type: in.Type,
		Raw:  raw,
	}
	if sec, err := strconv.ParseInt(in.Timestamp, 10, 64); err == nil {
		msg.Timestamp = time.Unix(sec, 0).UTC()
	}
	if in.Text != nil {
		msg.Text = in.Text.Body
	}
	return msg, nil
}

func buildPayload(msg Message) (*whatsappSendPayload, error) {
	to := digitsOnly(msg.To)
	if to == "" {
		return nil, fmt.Errorf("%w: recipient phone number is required", integration.ErrInvalidRequest)
	}

	payload := &whatsappSendPayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             msg.Type,
	}
	switch msg.Type {
	case MessageTypeText:
		if msg.Body == "" {
			return nil, fmt.Errorf("%w: text message body is required", integration.ErrInvalidRequest)
		}
		payload.Text = &whatsappText{Body: msg.Body}
	case MessageTypeTemplate:
		if msg.Template == nil || msg.Template.Name == "" {
			return nil, fmt.Errorf("%w: template name is required", integration.ErrInvalidRequest)
		}
		payload.Template = msg.Template
	case MessageTypeImage:
		if msg.Image == nil || msg.Image.Link == "" {
			return nil, fmt.Errorf("%w: image url is required", integration.ErrInvalidRequest)
		}
		payload.Image = msg.Image
	default:
		return nil, fmt.Errorf("%w: unsupported message type %q", integration.ErrInvalidRequest, msg.Type)
	}
	return payload, nil
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
