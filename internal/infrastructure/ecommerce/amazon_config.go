package ecommerce

import (
	"strings"

	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/infrastructure/config"
)

// amazonMarketplaceIDs maps a country code to its Amazon marketplace ID
var amazonMarketplaceIDs = map[string]string{
	"US": "ATVPDKIKX0DER",
	"CA": "A2EUQ1WTGCTBG2",
	"MX": "A1AM78C64UM0Y8",
	"UK": "A1F83G8C2ARO7P",
	"DE": "A1PA6795UKMFR9",
	"FR": "A13V1IB3VIYZZH",
	"IT": "APJ6JRA9NG5V4",
	"ES": "A1RKKUPIHCS9HS",
	"JP": "A1VC38T7YXB528",
	"AU": "A39IBJ37TRP1C6",
	"IN": "A21TJRUUN4KGV",
}

// MarketplaceID returns the Amazon marketplace ID for a country code, US for unknown codes
func MarketplaceID(country string) string {
	if id, ok := amazonMarketplaceIDs[strings.ToUpper(strings.TrimSpace(country))]; ok {
		return id
	}
	return amazonMarketplaceIDs["US"]
}

// AmazonConfig holds Amazon seller credentials
type AmazonConfig struct {
	SellerID      string
	MWSAuthToken  string
	MarketplaceID string
	// Region is the selling region (NA, EU or FE)
	Region string
}

// NewAmazonConfig creates an Amazon configuration
func NewAmazonConfig(sellerID, mwsAuthToken, marketplaceID, region string) AmazonConfig {
	return AmazonConfig{
		SellerID:      sellerID,
		MWSAuthToken:  mwsAuthToken,
		MarketplaceID: marketplaceID,
		Region:        strings.ToUpper(region),
	}
}

// AmazonConfigFromCredentials maps loaded credentials to an AmazonConfig
func AmazonConfigFromCredentials(c config.AmazonCredentials) AmazonConfig {
	return NewAmazonConfig(c.SellerID, c.MWSAuthToken, c.MarketplaceID, c.Region)
}

// Status reports which required credentials are empty
func (c AmazonConfig) Status() integration.ConfigStatus {
	return integration.CheckRequired(
		integration.Require(config.KeyAmazonSellerID, c.SellerID),
		integration.Require(config.KeyAmazonMWSAuthToken, c.MWSAuthToken),
		integration.Require(config.KeyAmazonMarketplaceID, c.MarketplaceID),
	)
}
