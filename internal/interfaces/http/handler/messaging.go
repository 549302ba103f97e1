package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	appmessaging "github.com/siparisbot/backend/internal/application/messaging"
	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/interfaces/http/dto"
)

// MessagingHandler serves outbound WhatsApp messages and the AI helpers
type MessagingHandler struct {
	BaseHandler
	service *appmessaging.Service
}

// NewMessagingHandler creates a new MessagingHandler
func NewMessagingHandler(service *appmessaging.Service) *MessagingHandler {
	return &MessagingHandler{service: service}
}

// RegisterRoutes registers the messaging routes on the authenticated API group
func (h *MessagingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/messages", h.SendMessage)

	aiGroup := rg.Group("/ai")
	{
		aiGroup.POST("/reply", h.SuggestReply)
		aiGroup.POST("/sentiment", h.Sentiment)
	}
}

// SendMessage sends a text, template or image message
func (h *MessagingHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result := h.service.Send(c.Request.Context(), req.ToMessage())
	if !result.Success {
		h.ProviderError(c, result.Kind, result.Error)
		return
	}
	h.Created(c, result)
}

// SuggestReply drafts an AI answer to a customer message
func (h *MessagingHandler) SuggestReply(c *gin.Context) {
	var req SuggestReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	reply, err := h.service.SuggestReply(c.Request.Context(), req.Message, req.CustomerName, req.SystemPrompt)
	if err != nil {
		h.aiError(c, err)
		return
	}
	h.Success(c, SuggestReplyResponse{Reply: reply})
}

// Sentiment classifies a customer message
func (h *MessagingHandler) Sentiment(c *gin.Context) {
	var req SentimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	sentiment, err := h.service.Sentiment(c.Request.Context(), req.Text)
	if err != nil {
		h.aiError(c, err)
		return
	}
	h.Success(c, SentimentResponse{Sentiment: string(sentiment)})
}

func (h *MessagingHandler) aiError(c *gin.Context, err error) {
	if errors.Is(err, appmessaging.ErrResponderUnavailable) {
		h.ErrorWithCode(c, dto.ErrCodeNotConfigured, integration.NewConfigurationError("OpenAI", nil).Error())
		return
	}
	h.ProviderErr(c, err)
}
