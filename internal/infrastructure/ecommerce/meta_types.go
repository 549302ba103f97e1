package ecommerce

import "encoding/json"

// ---------------------------------------------------------------------------
// Meta Commerce Order Types
// ---------------------------------------------------------------------------

// metaOrderFields is the field selection requested for commerce orders
const metaOrderFields = "id,order_status,created,channel,buyer_details,shipping_address,estimated_payment_details,items"

// metaCatalogFields is the field selection requested for catalog products
const metaCatalogFields = "id,name,description,price,image_url,url,availability"

// MetaOrderStatus is a commerce order state accepted by the status update endpoint
type MetaOrderStatus string

const (
	MetaOrderStatusProcessing MetaOrderStatus = "PROCESSING"
	MetaOrderStatusShipped    MetaOrderStatus = "SHIPPED"
	MetaOrderStatusCompleted  MetaOrderStatus = "COMPLETED"
	MetaOrderStatusRefunded   MetaOrderStatus = "REFUNDED"
)

// IsValid reports whether s is one of the accepted states
func (s MetaOrderStatus) IsValid() bool {
	switch s {
	case MetaOrderStatusProcessing, MetaOrderStatusShipped, MetaOrderStatusCompleted, MetaOrderStatusRefunded:
		return true
	}
	return false
}

// MetaOrder is a commerce order as returned by the Graph API
type MetaOrder struct {
	nativeRaw

	ID                      string             `json:"id"`
	OrderStatus             MetaOrderState     `json:"order_status"`
	Created                 string             `json:"created"`
	Channel                 string             `json:"channel,omitempty"`
	BuyerDetails            MetaBuyer          `json:"buyer_details"`
	ShippingAddress         MetaAddress        `json:"shipping_address"`
	EstimatedPaymentDetails MetaPaymentDetails `json:"estimated_payment_details"`
	Items                   MetaItemList       `json:"items"`
}

// MetaOrderState wraps the order state
type MetaOrderState struct {
	State string `json:"state"`
}

// MetaBuyer is the buyer on a commerce order
type MetaBuyer struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// MetaAddress is the shipping address of a commerce order
type MetaAddress struct {
	Name       string `json:"name,omitempty"`
	Street1    string `json:"street1,omitempty"`
	Street2    string `json:"street2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// MetaAmount is a Graph API money value
type MetaAmount struct {
	Amount   flexDecimal `json:"amount"`
	Currency string      `json:"currency,omitempty"`
}

// MetaPaymentDetails holds the estimated totals of an order
type MetaPaymentDetails struct {
	TotalAmount MetaAmount `json:"total_amount"`
}

// MetaItemList is the paged items edge of an order
type MetaItemList struct {
	Data []MetaItem `json:"data"`
}

// MetaItem is one line of a commerce order
type MetaItem struct {
	ID           string     `json:"id"`
	ProductID    string     `json:"product_id,omitempty"`
	RetailerID   string     `json:"retailer_id,omitempty"`
	ProductName  string     `json:"product_name,omitempty"`
	Quantity     int        `json:"quantity"`
	PricePerUnit MetaAmount `json:"price_per_unit"`
}

// MetaTrackingInfo is sent when an order moves to SHIPPED
type MetaTrackingInfo struct {
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"tracking_number"`
	ShippingMethod string `json:"shipping_method,omitempty"`
}

// MetaProduct is a catalog product
type MetaProduct struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Price        string `json:"price,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
	URL          string `json:"url,omitempty"`
	Availability string `json:"availability,omitempty"`
}

type metaListEnvelope struct {
	Data   []json.RawMessage `json:"data"`
	Paging *metaPaging       `json:"paging,omitempty"`
}

// metaPaging is the Graph API cursor block. Next is absent on the last page.
type metaPaging struct {
	Cursors struct {
		Before string `json:"before,omitempty"`
		After  string `json:"after,omitempty"`
	} `json:"cursors"`
	Next string `json:"next,omitempty"`
}

func (p *metaPaging) after() string {
	if p == nil || p.Next == "" {
		return ""
	}
	return p.Cursors.After
}

type metaProductsEnvelope struct {
	Data []MetaProduct `json:"data"`
}

type metaStatusRequest struct {
	OrderStatus  MetaOrderStatus   `json:"order_status"`
	TrackingInfo *MetaTrackingInfo `json:"tracking_info,omitempty"`
}
