package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apppayment "github.com/siparisbot/backend/internal/application/payment"
	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/infrastructure/payment"
	"github.com/siparisbot/backend/internal/interfaces/http/dto"
)

// MockGateway is a mock implementation of the payment gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) IsConfigured() bool { return m.Called().Bool(0) }

func (m *MockGateway) ConfigStatus() integration.ConfigStatus {
	return m.Called().Get(0).(integration.ConfigStatus)
}

func (m *MockGateway) Sandbox() bool { return m.Called().Bool(0) }

func (m *MockGateway) CreatePayment(ctx context.Context, req payment.PaymentRequest) (*payment.PaymentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PaymentResult), args.Error(1)
}

func (m *MockGateway) CreateSubscription(ctx context.Context, req payment.SubscriptionRequest) (*payment.SubscriptionResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.SubscriptionResult), args.Error(1)
}

func (m *MockGateway) CancelSubscription(ctx context.Context, referenceCode string) error {
	return m.Called(ctx, referenceCode).Error(0)
}

func (m *MockGateway) GetSubscription(ctx context.Context, referenceCode string) (*payment.Subscription, error) {
	args := m.Called(ctx, referenceCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Subscription), args.Error(1)
}

func setupPaymentRouter(gateway *MockGateway) *gin.Engine {
	r := gin.New()
	api := r.Group("/api/v1", withTenant(testTenant))
	NewPaymentHandler(apppayment.NewService(gateway, nil)).RegisterRoutes(api)
	return r
}

const validCard = `{
	"card_holder_name": "Ayşe Yılmaz",
	"card_number": "5528790000000008",
	"expire_month": "12",
	"expire_year": "2030",
	"cvc": "123"
}`

const validAddress = `{
	"contact_name": "Ayşe Yılmaz",
	"city": "Istanbul",
	"country": "Turkey",
	"address": "Bağdat Cad. No:1"
}`

const validPayment = `{
	"price": "149.90",
	"paid_price": 149.90,
	"basket_id": "B-1001",
	"payment_card": ` + validCard + `,
	"buyer": {
		"id": "C-1",
		"name": "Ayşe",
		"surname": "Yılmaz",
		"email": "ayse@example.com",
		"identity_number": "74300864791",
		"registration_address": "Bağdat Cad. No:1",
		"city": "Istanbul",
		"country": "Turkey"
	},
	"shipping_address": ` + validAddress + `,
	"billing_address": ` + validAddress + `,
	"basket_items": [
		{"id": "P-1", "name": "Kupa", "category1": "Ev", "item_type": "PHYSICAL", "price": "149.90"}
	]
}`

func TestPaymentHandler_CreatePayment(t *testing.T) {
	t.Run("charges the card", func(t *testing.T) {
		gateway := new(MockGateway)
		gateway.On("Sandbox").Return(true)
		gateway.On("CreatePayment", mock.Anything, mock.MatchedBy(func(req payment.PaymentRequest) bool {
			return req.Price.Equal(decimal.RequireFromString("149.90")) &&
				req.Currency == DefaultCurrency &&
				req.Buyer.IP == "192.0.2.1" &&
				len(req.BasketItems) == 1 &&
				req.BasketItems[0].ItemType == "PHYSICAL"
		})).Return(&payment.PaymentResult{PaymentID: "12345", Status: "success"}, nil)

		w := doRequest(setupPaymentRouter(gateway), http.MethodPost, "/api/v1/payments", validPayment)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var got payment.PaymentResult
		decodeData(t, w, &got)
		assert.Equal(t, "12345", got.PaymentID)
		gateway.AssertExpectations(t)
	})

	t.Run("rejects an invalid body", func(t *testing.T) {
		gateway := new(MockGateway)
		tests := map[string]string{
			"empty":        `{}`,
			"zero price":   `{"price": 0, "paid_price": 1, "basket_id": "B", "basket_items": [{"id":"1","name":"n","category1":"c","item_type":"PHYSICAL","price":1}]}`,
			"no items":     `{"price": 1, "paid_price": 1, "basket_id": "B", "basket_items": []}`,
			"not json":     `price=1`,
			"bad item":     `{"price": 1, "paid_price": 1, "basket_id": "B", "basket_items": [{"id":"1","name":"n","category1":"c","item_type":"DIGITAL","price":1}]}`,
			"bad currency": `{"price": 1, "paid_price": 1, "currency": "XYZ", "basket_id": "B"}`,
		}
		for name, body := range tests {
			t.Run(name, func(t *testing.T) {
				w := doRequest(setupPaymentRouter(gateway), http.MethodPost, "/api/v1/payments", body)
				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Equal(t, dto.ErrCodeBadRequest, decodeResponse(t, w).Error.Code)
			})
		}
		gateway.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
	})

	t.Run("provider declined", func(t *testing.T) {
		gateway := new(MockGateway)
		gateway.On("CreatePayment", mock.Anything, mock.Anything).
			Return(nil, integration.NewProviderLogicError("iyzico", "Kart limiti yetersiz"))

		w := doRequest(setupPaymentRouter(gateway), http.MethodPost, "/api/v1/payments", validPayment)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeProviderError, resp.Error.Code)
		assert.Equal(t, "Kart limiti yetersiz", resp.Error.Message)
	})

	t.Run("credentials missing", func(t *testing.T) {
		gateway := new(MockGateway)
		gateway.On("CreatePayment", mock.Anything, mock.Anything).
			Return(nil, integration.NewConfigurationError("iyzico", []string{"VITE_IYZICO_API_KEY"}))

		w := doRequest(setupPaymentRouter(gateway), http.MethodPost, "/api/v1/payments", validPayment)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, dto.ErrCodeNotConfigured, decodeResponse(t, w).Error.Code)
	})
}

func TestPaymentHandler_Subscriptions(t *testing.T) {
	const validSubscription = `{
		"pricing_plan_reference_code": "plan-pro",
		"customer": {
			"name": "Ayşe",
			"surname": "Yılmaz",
			"email": "ayse@example.com",
			"identity_number": "74300864791",
			"billing_address": ` + validAddress + `
		},
		"payment_card": ` + validCard + `
	}`

	t.Run("create", func(t *testing.T) {
		gateway := new(MockGateway)
		gateway.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(req payment.SubscriptionRequest) bool {
			return req.PricingPlanReferenceCode == "plan-pro" &&
				req.SubscriptionInitialStatus == "ACTIVE" &&
				req.Customer.Email == "ayse@example.com"
		})).Return(&payment.SubscriptionResult{ReferenceCode: "sub-1", Status: "ACTIVE"}, nil)

		w := doRequest(setupPaymentRouter(gateway), http.MethodPost, "/api/v1/subscriptions", validSubscription)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var got payment.SubscriptionResult
		decodeData(t, w, &got)
		assert.Equal(t, "sub-1", got.ReferenceCode)
	})

	t.Run("create requires a plan", func(t *testing.T) {
		gateway := new(MockGateway)
		w := doRequest(setupPaymentRouter(gateway), http.MethodPost, "/api/v1/subscriptions", `{"customer": {}}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		gateway.AssertNotCalled(t, "CreateSubscription", mock.Anything, mock.Anything)
	})

	t.Run("get", func(t *testing.T) {
		gateway := new(MockGateway)
		gateway.On("GetSubscription", mock.Anything, "sub-1").
			Return(&payment.Subscription{ReferenceCode: "sub-1", SubscriptionStatus: "ACTIVE"}, nil)

		w := doRequest(setupPaymentRouter(gateway), http.MethodGet, "/api/v1/subscriptions/sub-1", "")
		require.Equal(t, http.StatusOK, w.Code)

		var got payment.Subscription
		decodeData(t, w, &got)
		assert.Equal(t, "ACTIVE", got.SubscriptionStatus)
	})

	t.Run("cancel", func(t *testing.T) {
		gateway := new(MockGateway)
		gateway.On("CancelSubscription", mock.Anything, "sub-1").Return(nil)

		w := doRequest(setupPaymentRouter(gateway), http.MethodDelete, "/api/v1/subscriptions/sub-1", "")
		require.Equal(t, http.StatusOK, w.Code)

		var got apppayment.CancelResult
		decodeData(t, w, &got)
		assert.Equal(t, "sub-1", got.ReferenceCode)
	})

	t.Run("cancel failure", func(t *testing.T) {
		gateway := new(MockGateway)
		gateway.On("CancelSubscription", mock.Anything, "sub-1").
			Return(integration.NewTransportError("iyzico", context.DeadlineExceeded))

		w := doRequest(setupPaymentRouter(gateway), http.MethodDelete, "/api/v1/subscriptions/sub-1", "")
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, dto.ErrCodeProviderUnavailable, decodeResponse(t, w).Error.Code)
	})
}
