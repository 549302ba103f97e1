package payment

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Requests
// ---------------------------------------------------------------------------

// PaymentCard is the card charged by a payment or subscription
type PaymentCard struct {
	CardHolderName string `json:"cardHolderName"`
	CardNumber     string `json:"cardNumber"`
	ExpireMonth    string `json:"expireMonth"`
	ExpireYear     string `json:"expireYear"`
	CVC            string `json:"cvc"`
}

// Buyer is the paying customer
type Buyer struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Surname             string `json:"surname"`
	Email               string `json:"email"`
	IdentityNumber      string `json:"identityNumber"`
	RegistrationAddress string `json:"registrationAddress"`
	City                string `json:"city"`
	Country             string `json:"country"`
	IP                  string `json:"ip"`
}

// Address is a shipping or billing address
type Address struct {
	ContactName string `json:"contactName"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Address     string `json:"address"`
}

// BasketItem is one item of the basket being paid
type BasketItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category1 string          `json:"category1"`
	ItemType  string          `json:"itemType"`
	Price     decimal.Decimal `json:"price"`
}

// PaymentRequest describes a card payment
type PaymentRequest struct {
	Price           decimal.Decimal
	PaidPrice       decimal.Decimal
	Currency        string
	BasketID        string
	PaymentCard     PaymentCard
	Buyer           Buyer
	ShippingAddress Address
	BillingAddress  Address
	BasketItems     []BasketItem
}

// SubscriptionCustomer is the subscriber
type SubscriptionCustomer struct {
	Name           string  `json:"name"`
	Surname        string  `json:"surname"`
	Email          string  `json:"email"`
	IdentityNumber string  `json:"identityNumber"`
	BillingAddress Address `json:"billingAddress"`
}

// SubscriptionRequest starts a subscription on a pricing plan
type SubscriptionRequest struct {
	Locale                    string               `json:"locale"`
	ConversationID            string               `json:"conversationId"`
	PricingPlanReferenceCode  string               `json:"pricingPlanReferenceCode"`
	SubscriptionInitialStatus string               `json:"subscriptionInitialStatus"`
	Customer                  SubscriptionCustomer `json:"customer"`
	PaymentCard               PaymentCard          `json:"paymentCard"`
}

// ---------------------------------------------------------------------------
// Results
// ---------------------------------------------------------------------------

// PaymentResult is a successful payment
type PaymentResult struct {
	PaymentID      string `json:"payment_id"`
	Status         string `json:"status"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// SubscriptionResult is a created subscription
type SubscriptionResult struct {
	ReferenceCode string `json:"reference_code"`
	Status        string `json:"status"`
}

// Subscription is a retrieved subscription. Data holds the full provider record.
type Subscription struct {
	ReferenceCode            string          `json:"referenceCode"`
	SubscriptionStatus       string          `json:"subscriptionStatus"`
	PricingPlanReferenceCode string          `json:"pricingPlanReferenceCode,omitempty"`
	CustomerEmail            string          `json:"customerEmail,omitempty"`
	Data                     json.RawMessage `json:"-"`
}

// ---------------------------------------------------------------------------
// Wire Types
// ---------------------------------------------------------------------------

type iyzicoBasketItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category1 string `json:"category1"`
	ItemType  string `json:"itemType"`
	Price     string `json:"price"`
}

type iyzicoPaymentRequest struct {
	Locale          string             `json:"locale"`
	ConversationID  string             `json:"conversationId"`
	Price           string             `json:"price"`
	PaidPrice       string             `json:"paidPrice"`
	Currency        string             `json:"currency"`
	Installment     string             `json:"installment"`
	BasketID        string             `json:"basketId"`
	PaymentChannel  string             `json:"paymentChannel"`
	PaymentGroup    string             `json:"paymentGroup"`
	PaymentCard     PaymentCard        `json:"paymentCard"`
	Buyer           Buyer              `json:"buyer"`
	ShippingAddress Address            `json:"shippingAddress"`
	BillingAddress  Address            `json:"billingAddress"`
	BasketItems     []iyzicoBasketItem `json:"basketItems"`
}

type iyzicoSubscriptionRefRequest struct {
	Locale                    string `json:"locale"`
	SubscriptionReferenceCode string `json:"subscriptionReferenceCode"`
}

// iyzicoResponse is the common response envelope; status is "success" or "failure"
type iyzicoResponse struct {
	Status         string          `json:"status"`
	ErrorCode      string          `json:"errorCode,omitempty"`
	ErrorMessage   string          `json:"errorMessage,omitempty"`
	ConversationID string          `json:"conversationId,omitempty"`
	PaymentID      string          `json:"paymentId,omitempty"`
	Data           json.RawMessage `json:"data,omitempty"`
}
