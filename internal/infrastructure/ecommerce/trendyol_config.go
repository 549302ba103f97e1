package ecommerce

import (
	"encoding/base64"

	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/infrastructure/config"
)

// TrendyolProductionAPIURL is the supplier API root; the supplier ID is appended
const TrendyolProductionAPIURL = "https://api.trendyol.com/sapigw/suppliers"

// TrendyolDefaultPageSize is used when a listing does not ask for a size
const TrendyolDefaultPageSize = 50

// TrendyolConfig holds Trendyol supplier API credentials
type TrendyolConfig struct {
	// SupplierID is the seller's supplier number
	SupplierID string
	// APIKey and APISecret form the Basic auth pair
	APIKey    string
	APISecret string
	// APIBaseURL overrides TrendyolProductionAPIURL (tests)
	APIBaseURL string
}

// NewTrendyolConfig creates a Trendyol configuration with defaults
func NewTrendyolConfig(supplierID, apiKey, apiSecret string) TrendyolConfig {
	return TrendyolConfig{
		SupplierID: supplierID,
		APIKey:     apiKey,
		APISecret:  apiSecret,
		APIBaseURL: TrendyolProductionAPIURL,
	}
}

// TrendyolConfigFromCredentials maps loaded credentials to a TrendyolConfig
func TrendyolConfigFromCredentials(c config.TrendyolCredentials) TrendyolConfig {
	return NewTrendyolConfig(c.SupplierID, c.APIKey, c.APISecret)
}

// Status reports which required credentials are empty
func (c TrendyolConfig) Status() integration.ConfigStatus {
	return integration.CheckRequired(
		integration.Require(config.KeyTrendyolSupplierID, c.SupplierID),
		integration.Require(config.KeyTrendyolAPIKey, c.APIKey),
		integration.Require(config.KeyTrendyolAPISecret, c.APISecret),
	)
}

// authorization returns the Basic auth header value
func (c TrendyolConfig) authorization() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.APIKey+":"+c.APISecret))
}

func (c TrendyolConfig) baseURL() string {
	if c.APIBaseURL == "" {
		return TrendyolProductionAPIURL
	}
	return c.APIBaseURL
}
