package ecommerce

import (
	"encoding/json"
)

// ---------------------------------------------------------------------------
// Trendyol Order Types
// ---------------------------------------------------------------------------

// TrendyolOrder is a shipment package as returned by the supplier orders API
type TrendyolOrder struct {
	nativeRaw

	ID                  int64               `json:"id,omitempty"` // shipmentPackageId
	OrderNumber         flexString          `json:"orderNumber"`
	OrderDate           int64               `json:"orderDate"` // epoch millis
	Status              string              `json:"status"`
	GrossAmount         flexDecimal         `json:"grossAmount"`
	TotalDiscount       flexDecimal         `json:"totalDiscount"`
	TotalPrice          flexDecimal         `json:"totalPrice"`
	CurrencyCode        string              `json:"currencyCode,omitempty"`
	CustomerFirstName   string              `json:"customerFirstName"`
	CustomerLastName    string              `json:"customerLastName"`
	CustomerEmail       string              `json:"customerEmail,omitempty"`
	Lines               []TrendyolOrderLine `json:"lines"`
	ShipmentAddress     TrendyolAddress     `json:"shipmentAddress"`
	CargoTrackingNumber flexString          `json:"cargoTrackingNumber,omitempty"`
	CargoProviderName   string              `json:"cargoProviderName,omitempty"`
}

// TrendyolOrderLine is one line of a shipment package
type TrendyolOrderLine struct {
	ProductName  string      `json:"productName"`
	Quantity     int         `json:"quantity"`
	Price        flexDecimal `json:"price"`
	Amount       flexDecimal `json:"amount,omitempty"`
	Barcode      string      `json:"barcode"`
	MerchantSKU  string      `json:"merchantSku,omitempty"`
	CurrencyCode string      `json:"currencyCode,omitempty"`
}

// TrendyolAddress is the shipment address of a package
type TrendyolAddress struct {
	FirstName   string     `json:"firstName,omitempty"`
	LastName    string     `json:"lastName,omitempty"`
	FullName    string     `json:"fullName,omitempty"`
	Address1    string     `json:"address1,omitempty"`
	FullAddress string     `json:"fullAddress"`
	City        string     `json:"city"`
	District    string     `json:"district"`
	PostalCode  string     `json:"postalCode,omitempty"`
	CountryCode string     `json:"countryCode,omitempty"`
	Phone       flexString `json:"phone,omitempty"`
}

// TrendyolOrderParams are the listing query parameters
type TrendyolOrderParams struct {
	Page      int
	Size      int   // 0 means TrendyolDefaultPageSize
	StartDate int64 // epoch millis, 0 = unset
	EndDate   int64 // epoch millis, 0 = unset
	Status    string
}

// trendyolOrdersPage is the paged listing envelope
type trendyolOrdersPage struct {
	Page          int               `json:"page"`
	Size          int               `json:"size"`
	TotalPages    int               `json:"totalPages"`
	TotalElements int               `json:"totalElements"`
	Content       []json.RawMessage `json:"content"`
}

// trendyolCargoRequest is the cargo tracking update body
type trendyolCargoRequest struct {
	CargoTrackingNumber string `json:"cargoTrackingNumber"`
	CargoProviderName   string `json:"cargoProviderName"`
}
