package ecommerce

import "encoding/json"

// ---------------------------------------------------------------------------
// TikTok Shop Order Types
// ---------------------------------------------------------------------------

// TikTokOrder is an order as returned by the order list endpoint
type TikTokOrder struct {
	nativeRaw

	OrderID          string        `json:"order_id"`
	OrderStatus      string        `json:"order_status"`
	CreateTime       int64         `json:"create_time"` // epoch seconds
	UpdateTime       int64         `json:"update_time,omitempty"`
	Buyer            TikTokBuyer   `json:"buyer"`
	RecipientAddress TikTokAddress `json:"recipient_address"`
	Items            []TikTokItem  `json:"items"`
	Payment          TikTokPayment `json:"payment"`
	TrackingNumber   string        `json:"tracking_number,omitempty"`
}

// TikTokBuyer is the buyer of an order
type TikTokBuyer struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// TikTokAddress is the recipient address of an order
type TikTokAddress struct {
	Name        string `json:"name"`
	Phone       string `json:"phone,omitempty"`
	FullAddress string `json:"full_address"`
	Region      string `json:"region,omitempty"`
	City        string `json:"city,omitempty"`
	District    string `json:"district,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
}

// TikTokItem is one order line
type TikTokItem struct {
	ID            string      `json:"id"`
	ProductID     string      `json:"product_id"`
	ProductName   string      `json:"product_name"`
	SKUID         string      `json:"sku_id,omitempty"`
	SKUName       string      `json:"sku_name,omitempty"`
	Quantity      int         `json:"quantity"`
	SalePrice     flexDecimal `json:"sale_price"`
	OriginalPrice flexDecimal `json:"original_price,omitempty"`
}

// TikTokPayment holds the order amounts
type TikTokPayment struct {
	Currency      string      `json:"currency,omitempty"`
	SubTotal      flexDecimal `json:"sub_total"`
	ShippingFee   flexDecimal `json:"shipping_fee"`
	Tax           flexDecimal `json:"tax"`
	Total         flexDecimal `json:"total"`
	PaymentMethod string      `json:"payment_method,omitempty"`
}

// TikTokProduct is a product in the shop listing. RawJSON has the full record.
type TikTokProduct struct {
	nativeRaw

	ID     string `json:"id"`
	Title  string `json:"title,omitempty"`
	Status string `json:"status,omitempty"`
}

// tiktokCommonBody carries the credentials every call sends in the JSON body
type tiktokCommonBody struct {
	AppKey      string `json:"app_key"`
	AccessToken string `json:"access_token"`
	Timestamp   string `json:"timestamp"`
	ShopID      string `json:"shop_id"`
}

type tiktokOrderListRequest struct {
	tiktokCommonBody
	PageSize     int    `json:"page_size,omitempty"`
	PageNumber   int    `json:"page_number,omitempty"`
	OrderStatus  string `json:"order_status,omitempty"`
	CreateTimeGE int64  `json:"create_time_ge,omitempty"`
	CreateTimeLT int64  `json:"create_time_lt,omitempty"`
}

type tiktokShipRequest struct {
	tiktokCommonBody
	OrderID            string `json:"order_id"`
	TrackingNumber     string `json:"tracking_number"`
	ShippingProviderID string `json:"shipping_provider_id"`
}

// tiktokEnvelope is the common response wrapper. A non-zero code is a failure.
type tiktokEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type tiktokOrderListData struct {
	OrderList []json.RawMessage `json:"order_list"`
}

type tiktokProductListData struct {
	Products []json.RawMessage `json:"products"`
}
