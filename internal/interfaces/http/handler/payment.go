package handler

import (
	"github.com/gin-gonic/gin"

	apppayment "github.com/siparisbot/backend/internal/application/payment"
)

// PaymentHandler serves the iyzico payment and subscription endpoints
type PaymentHandler struct {
	BaseHandler
	service *apppayment.Service
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(service *apppayment.Service) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// RegisterRoutes registers the payment routes on the authenticated API group
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments", h.CreatePayment)
	rg.POST("/subscriptions", h.CreateSubscription)
	rg.GET("/subscriptions/:ref", h.GetSubscription)
	rg.DELETE("/subscriptions/:ref", h.CancelSubscription)
}

// CreatePayment charges a card
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	outcome := h.service.Pay(c.Request.Context(), req.ToPaymentRequest(c.ClientIP()))
	if !outcome.Success {
		h.ProviderError(c, outcome.Kind, outcome.Error)
		return
	}
	h.Created(c, outcome.Data)
}

// CreateSubscription starts a subscription
func (h *PaymentHandler) CreateSubscription(c *gin.Context) {
	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	outcome := h.service.Subscribe(c.Request.Context(), req.ToSubscriptionRequest())
	if !outcome.Success {
		h.ProviderError(c, outcome.Kind, outcome.Error)
		return
	}
	h.Created(c, outcome.Data)
}

// GetSubscription retrieves a subscription by reference code
func (h *PaymentHandler) GetSubscription(c *gin.Context) {
	outcome := h.service.Subscription(c.Request.Context(), c.Param("ref"))
	if !outcome.Success {
		h.ProviderError(c, outcome.Kind, outcome.Error)
		return
	}
	h.Success(c, outcome.Data)
}

// CancelSubscription cancels a subscription by reference code
func (h *PaymentHandler) CancelSubscription(c *gin.Context) {
	outcome := h.service.Cancel(c.Request.Context(), c.Param("ref"))
	if !outcome.Success {
		h.ProviderError(c, outcome.Kind, outcome.Error)
		return
	}
	h.Success(c, outcome.Data)
}
