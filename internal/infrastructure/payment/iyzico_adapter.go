package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/infrastructure/providerhttp"
)

// IyzicoProvider is the provider name used in errors, spans and metrics
const IyzicoProvider = "iyzico"

const (
	iyzicoLocale        = "tr"
	iyzicoStatusSuccess = "success"

	iyzicoPaymentPath              = "/payment/auth"
	iyzicoSubscriptionInitPath     = "/v2/subscription/initialize"
	iyzicoSubscriptionCancelPath   = "/v2/subscription/cancel"
	iyzicoSubscriptionRetrievePath = "/v2/subscription/retrieve"
)

// IyzicoAdapter calls the iyzico payment and subscription API.
// Every request is signed with IyzicoSigner over the exact body bytes sent.
type IyzicoAdapter struct {
	config IyzicoConfig
	signer IyzicoSigner
	client *providerhttp.Client
	nonce  func() string
}

var _ integration.ConfigReporter = (*IyzicoAdapter)(nil)

// NewIyzicoAdapter creates an iyzico adapter
func NewIyzicoAdapter(cfg IyzicoConfig, opts ...providerhttp.Option) *IyzicoAdapter {
	return &IyzicoAdapter{
		config: cfg,
		signer: NewIyzicoSigner(cfg.APIKey, cfg.SecretKey),
		client: providerhttp.NewWithOptions(IyzicoProvider, opts...),
		nonce:  newNonce,
	}
}

// IsConfigured reports whether both merchant keys are set
func (a *IyzicoAdapter) IsConfigured() bool {
	return a.config.Status().Configured
}

// ConfigStatus lists the missing credential keys
func (a *IyzicoAdapter) ConfigStatus() integration.ConfigStatus {
	return a.config.Status()
}

// Sandbox reports whether the adapter talks to the sandbox environment
func (a *IyzicoAdapter) Sandbox() bool {
	return a.config.Sandbox()
}

// CreatePayment charges a card. Prices are sent with two decimals.
func (a *IyzicoAdapter) CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	items := make([]iyzicoBasketItem, 0, len(req.BasketItems))
	for _, it := range req.BasketItems {
		items = append(items, iyzicoBasketItem{
			ID:        it.ID,
			Name:      it.Name,
			Category1: it.Category1,
			ItemType:  it.ItemType,
			Price:     it.Price.StringFixed(2),
		})
	}

	resp, err := a.post(ctx, "payment.create", iyzicoPaymentPath, iyzicoPaymentRequest{
		Locale:          iyzicoLocale,
		ConversationID:  req.BasketID,
		Price:           req.Price.StringFixed(2),
		PaidPrice:       req.PaidPrice.StringFixed(2),
		Currency:        req.Currency,
		Installment:     "1",
		BasketID:        req.BasketID,
		PaymentChannel:  "WEB",
		PaymentGroup:    "PRODUCT",
		PaymentCard:     req.PaymentCard,
		Buyer:           req.Buyer,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		BasketItems:     items,
	})
	if err != nil {
		return nil, fmt.Errorf("iyzico create payment: %w", err)
	}

	return &PaymentResult{
		PaymentID:      resp.PaymentID,
		Status:         resp.Status,
		ConversationID: resp.ConversationID,
	}, nil
}

// CreateSubscription starts a subscription. Locale and conversation ID are filled when empty.
func (a *IyzicoAdapter) CreateSubscription(ctx context.Context, req SubscriptionRequest) (*SubscriptionResult, error) {
	if req.Locale == "" {
		req.Locale = iyzicoLocale
	}
	if req.ConversationID == "" {
		req.ConversationID = uuid.NewString()
	}

	resp, err := a.post(ctx, "subscription.initialize", iyzicoSubscriptionInitPath, req)
	if err != nil {
		return nil, fmt.Errorf("iyzico create subscription: %w", err)
	}

	sub, err := a.decodeSubscription(resp.Data)
	if err != nil {
		return nil, err
	}
	return &SubscriptionResult{
		ReferenceCode: sub.ReferenceCode,
		Status:        sub.SubscriptionStatus,
	}, nil
}

// CancelSubscription cancels a subscription by reference code
func (a *IyzicoAdapter) CancelSubscription(ctx context.Context, referenceCode string) error {
	if referenceCode == "" {
		return fmt.Errorf("%w: subscription reference code is required", integration.ErrInvalidRequest)
	}

	_, err := a.post(ctx, "subscription.cancel", iyzicoSubscriptionCancelPath, iyzicoSubscriptionRefRequest{
		Locale:                    iyzicoLocale,
		SubscriptionReferenceCode: referenceCode,
	})
	if err != nil {
		return fmt.Errorf("iyzico cancel subscription: %w", err)
	}
	return nil
}

// GetSubscription retrieves a subscription by reference code
func (a *IyzicoAdapter) GetSubscription(ctx context.Context, referenceCode string) (*Subscription, error) {
	if referenceCode == "" {
		return nil, fmt.Errorf("%w: subscription reference code is required", integration.ErrInvalidRequest)
	}

	resp, err := a.post(ctx, "subscription.retrieve", iyzicoSubscriptionRetrievePath, iyzicoSubscriptionRefRequest{
		Locale:                    iyzicoLocale,
		SubscriptionReferenceCode: referenceCode,
	})
	if err != nil {
		return nil, fmt.Errorf("iyzico get subscription: %w", err)
	}
	return a.decodeSubscription(resp.Data)
}

// post signs and sends payload, then checks the envelope status
func (a *IyzicoAdapter) post(ctx context.Context, operation, path string, payload any) (*iyzicoResponse, error) {
	if err := a.ConfigStatus().Err(IyzicoProvider); err != nil {
		return nil, err
	}

	body, err := a.client.EncodeJSON(payload)
	if err != nil {
		return nil, err
	}

	nonce := a.nonce()
	header := providerhttp.JSONHeader()
	header.Set("Authorization", a.signer.Authorization(nonce, path, body))
	header.Set("x-iyzi-rnd", nonce)

	var resp iyzicoResponse
	err = a.client.DoJSON(ctx, providerhttp.Request{
		Operation: operation,
		Method:    http.MethodPost,
		URL:       a.config.baseURL() + path,
		Header:    header,
		Body:      body,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Status != iyzicoStatusSuccess {
		msg := resp.ErrorMessage
		if msg == "" {
			msg = "Payment failed"
		}
		return nil, integration.NewProviderLogicError(IyzicoProvider, msg)
	}
	return &resp, nil
}

func (a *IyzicoAdapter) decodeSubscription(data json.RawMessage) (*Subscription, error) {
	sub := &Subscription{Data: data}
	if len(data) == 0 {
		return sub, nil
	}
	if err := json.Unmarshal(data, sub); err != nil {
		return nil, integration.NewInvalidResponseError(IyzicoProvider, err)
	}
	return sub, nil
}
