package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	appmessaging "github.com/siparisbot/backend/internal/application/messaging"
	"github.com/siparisbot/backend/internal/interfaces/http/dto"
	"github.com/siparisbot/backend/internal/interfaces/http/middleware"
)

// SignatureHeader carries the HMAC-SHA256 of a webhook delivery
const SignatureHeader = "X-Hub-Signature-256"

// WebhookHandler receives WhatsApp Cloud API webhooks. Its routes are public;
// deliveries are authenticated by signature instead of a bearer token.
type WebhookHandler struct {
	BaseHandler
	service *appmessaging.Service
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(service *appmessaging.Service) *WebhookHandler {
	return &WebhookHandler{service: service}
}

// RegisterRoutes registers the webhook routes
func (h *WebhookHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/webhooks/whatsapp", h.Verify)
	r.POST("/webhooks/whatsapp", h.Receive)
}

// Verify answers the subscription handshake by echoing hub.challenge
func (h *WebhookHandler) Verify(c *gin.Context) {
	challenge, ok := h.service.VerifySubscription(
		c.Query("hub.mode"),
		c.Query("hub.verify_token"),
		c.Query("hub.challenge"),
	)
	if !ok {
		h.ErrorWithCode(c, dto.ErrCodeForbidden, "Webhook verification failed")
		return
	}
	c.String(http.StatusOK, challenge)
}

// Receive handles a delivery. A non-2xx answer makes the platform redeliver,
// so only messages that failed processing return 500.
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}

	result, err := h.service.HandleWebhook(c.Request.Context(), body, c.GetHeader(SignatureHeader))
	switch {
	case errors.Is(err, appmessaging.ErrInvalidSignature):
		h.ErrorWithCode(c, dto.ErrCodeUnauthorized, "Invalid webhook signature")
		return
	case errors.Is(err, appmessaging.ErrInvalidPayload):
		h.BadRequest(c, "Invalid webhook payload")
		return
	case err != nil:
		h.InternalError(c, "Failed to process webhook")
		return
	}

	if result.Failed > 0 {
		c.JSON(http.StatusInternalServerError, dto.Response{
			Success: false,
			Data:    result,
			Error: &dto.ErrorInfo{
				Code:      dto.ErrCodeInternal,
				Message:   "Some messages could not be processed",
				RequestID: middleware.GetRequestID(c),
			},
		})
		return
	}
	h.Success(c, result)
}
