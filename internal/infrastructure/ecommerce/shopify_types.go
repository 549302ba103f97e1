package ecommerce

import "encoding/json"

// ---------------------------------------------------------------------------
// Shopify Order Types
// ---------------------------------------------------------------------------

// ShopifyOrder is an order as returned by the Admin REST API
type ShopifyOrder struct {
	nativeRaw

	ID                int64             `json:"id"`
	OrderNumber       flexString        `json:"order_number"`
	Name              string            `json:"name,omitempty"` // "#1001"
	CreatedAt         string            `json:"created_at"`
	FinancialStatus   string            `json:"financial_status"`
	FulfillmentStatus *string           `json:"fulfillment_status"`
	Customer          *ShopifyCustomer  `json:"customer,omitempty"`
	ShippingAddress   *ShopifyAddress   `json:"shipping_address,omitempty"`
	TotalPrice        flexDecimal       `json:"total_price"`
	Currency          string            `json:"currency,omitempty"`
	LineItems         []ShopifyLineItem `json:"line_items"`
	Fulfillments      []ShopifyShipment `json:"fulfillments,omitempty"`
}

// ShopifyCustomer is the customer attached to an order
type ShopifyCustomer struct {
	ID        int64  `json:"id,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// ShopifyAddress is the order shipping address
type ShopifyAddress struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Address1  string `json:"address1,omitempty"`
	City      string `json:"city,omitempty"`
	Province  string `json:"province,omitempty"`
	Zip       string `json:"zip,omitempty"`
	Country   string `json:"country,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// ShopifyLineItem is one order line
type ShopifyLineItem struct {
	ID       int64       `json:"id,omitempty"`
	Title    string      `json:"title"`
	Quantity int         `json:"quantity"`
	Price    flexDecimal `json:"price"`
	SKU      string      `json:"sku,omitempty"`
}

// ShopifyShipment is an existing fulfillment on an order
type ShopifyShipment struct {
	TrackingNumber  string `json:"tracking_number,omitempty"`
	TrackingCompany string `json:"tracking_company,omitempty"`
}

// shopifyOrdersEnvelope wraps the orders listing
type shopifyOrdersEnvelope struct {
	Orders []json.RawMessage `json:"orders"`
}

// shopifyFulfillmentRequest is the create fulfillment body
type shopifyFulfillmentRequest struct {
	Fulfillment shopifyFulfillment `json:"fulfillment"`
}

type shopifyFulfillment struct {
	TrackingNumber  string `json:"tracking_number"`
	TrackingCompany string `json:"tracking_company"`
	NotifyCustomer  bool   `json:"notify_customer"`
}
