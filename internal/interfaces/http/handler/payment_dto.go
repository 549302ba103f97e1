package handler

import (
	"github.com/shopspring/decimal"

	"github.com/siparisbot/backend/internal/infrastructure/payment"
)

// DefaultCurrency is charged when a payment names none
const DefaultCurrency = "TRY"

// PaymentCardRequest is the card being charged
type PaymentCardRequest struct {
	CardHolderName string `json:"card_holder_name" binding:"required"`
	CardNumber     string `json:"card_number" binding:"required,numeric,min=12,max=19"`
	ExpireMonth    string `json:"expire_month" binding:"required,len=2,numeric"`
	ExpireYear     string `json:"expire_year" binding:"required,numeric"`
	CVC            string `json:"cvc" binding:"required,numeric,min=3,max=4"`
}

func (r PaymentCardRequest) toCard() payment.PaymentCard {
	return payment.PaymentCard{
		CardHolderName: r.CardHolderName,
		CardNumber:     r.CardNumber,
		ExpireMonth:    r.ExpireMonth,
		ExpireYear:     r.ExpireYear,
		CVC:            r.CVC,
	}
}

// BuyerRequest is the paying customer. ip defaults to the caller's address.
type BuyerRequest struct {
	ID                  string `json:"id" binding:"required"`
	Name                string `json:"name" binding:"required"`
	Surname             string `json:"surname" binding:"required"`
	Email               string `json:"email" binding:"required,email"`
	IdentityNumber      string `json:"identity_number" binding:"required"`
	RegistrationAddress string `json:"registration_address" binding:"required"`
	City                string `json:"city" binding:"required"`
	Country             string `json:"country" binding:"required"`
	IP                  string `json:"ip" binding:"omitempty,ip"`
}

// AddressRequest is a shipping or billing address
type AddressRequest struct {
	ContactName string `json:"contact_name" binding:"required"`
	City        string `json:"city" binding:"required"`
	Country     string `json:"country" binding:"required"`
	Address     string `json:"address" binding:"required"`
}

func (r AddressRequest) toAddress() payment.Address {
	return payment.Address{
		ContactName: r.ContactName,
		City:        r.City,
		Country:     r.Country,
		Address:     r.Address,
	}
}

// BasketItemRequest is one basket line
type BasketItemRequest struct {
	ID        string          `json:"id" binding:"required"`
	Name      string          `json:"name" binding:"required"`
	Category1 string          `json:"category1" binding:"required"`
	ItemType  string          `json:"item_type" binding:"required,oneof=PHYSICAL VIRTUAL"`
	Price     decimal.Decimal `json:"price" binding:"gt=0"`
}

// CreatePaymentRequest is a card payment
type CreatePaymentRequest struct {
	Price           decimal.Decimal     `json:"price" binding:"gt=0"`
	PaidPrice       decimal.Decimal     `json:"paid_price" binding:"gt=0"`
	Currency        string              `json:"currency" binding:"omitempty,oneof=TRY USD EUR GBP"`
	BasketID        string              `json:"basket_id" binding:"required"`
	PaymentCard     PaymentCardRequest  `json:"payment_card"`
	Buyer           BuyerRequest        `json:"buyer"`
	ShippingAddress AddressRequest      `json:"shipping_address"`
	BillingAddress  AddressRequest      `json:"billing_address"`
	BasketItems     []BasketItemRequest `json:"basket_items" binding:"required,min=1,dive"`
}

// ToPaymentRequest converts the request; clientIP fills an empty buyer ip
func (r CreatePaymentRequest) ToPaymentRequest(clientIP string) payment.PaymentRequest {
	currency := r.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	ip := r.Buyer.IP
	if ip == "" {
		ip = clientIP
	}

	items := make([]payment.BasketItem, 0, len(r.BasketItems))
	for _, it := range r.BasketItems {
		items = append(items, payment.BasketItem{
			ID:        it.ID,
			Name:      it.Name,
			Category1: it.Category1,
			ItemType:  it.ItemType,
			Price:     it.Price,
		})
	}

	return payment.PaymentRequest{
		Price:       r.Price,
		PaidPrice:   r.PaidPrice,
		Currency:    currency,
		BasketID:    r.BasketID,
		PaymentCard: r.PaymentCard.toCard(),
		Buyer: payment.Buyer{
			ID:                  r.Buyer.ID,
			Name:                r.Buyer.Name,
			Surname:             r.Buyer.Surname,
			Email:               r.Buyer.Email,
			IdentityNumber:      r.Buyer.IdentityNumber,
			RegistrationAddress: r.Buyer.RegistrationAddress,
			City:                r.Buyer.City,
			Country:             r.Buyer.Country,
			IP:                  ip,
		},
		ShippingAddress: r.ShippingAddress.toAddress(),
		BillingAddress:  r.BillingAddress.toAddress(),
		BasketItems:     items,
	}
}

// SubscriberRequest is the subscribing customer
type SubscriberRequest struct {
	Name           string         `json:"name" binding:"required"`
	Surname        string         `json:"surname" binding:"required"`
	Email          string         `json:"email" binding:"required,email"`
	IdentityNumber string         `json:"identity_number" binding:"required"`
	BillingAddress AddressRequest `json:"billing_address"`
}

// CreateSubscriptionRequest starts a subscription on a pricing plan
type CreateSubscriptionRequest struct {
	PricingPlanReferenceCode string             `json:"pricing_plan_reference_code" binding:"required"`
	InitialStatus            string             `json:"initial_status" binding:"omitempty,oneof=ACTIVE PENDING"`
	Customer                 SubscriberRequest  `json:"customer"`
	PaymentCard              PaymentCardRequest `json:"payment_card"`
}

// ToSubscriptionRequest converts the request. Locale and conversation ID are left to the gateway.
func (r CreateSubscriptionRequest) ToSubscriptionRequest() payment.SubscriptionRequest {
	status := r.InitialStatus
	if status == "" {
		status = "ACTIVE"
	}
	return payment.SubscriptionRequest{
		PricingPlanReferenceCode:  r.PricingPlanReferenceCode,
		SubscriptionInitialStatus: status,
		Customer: payment.SubscriptionCustomer{
			Name:           r.Customer.Name,
			Surname:        r.Customer.Surname,
			Email:          r.Customer.Email,
			IdentityNumber: r.Customer.IdentityNumber,
			BillingAddress: r.Customer.BillingAddress.toAddress(),
		},
		PaymentCard: r.PaymentCard.toCard(),
	}
}
