package ecommerce

import (
	"strings"

	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/infrastructure/config"
)

// ShopifyAPIVersion is the Admin REST API version the adapter speaks
const ShopifyAPIVersion = "2024-01"

// ShopifyConfig holds Shopify Admin API credentials
type ShopifyConfig struct {
	// ShopName is the store subdomain, "acme" for acme.myshopify.com
	ShopName    string
	AccessToken string
	// APIBaseURL overrides the per-shop admin URL (tests)
	APIBaseURL string
}

// NewShopifyConfig creates a Shopify configuration
func NewShopifyConfig(shopName, accessToken string) ShopifyConfig {
	return ShopifyConfig{
		ShopName:    shopName,
		AccessToken: accessToken,
	}
}

// ShopifyConfigFromCredentials maps loaded credentials to a ShopifyConfig
func ShopifyConfigFromCredentials(c config.ShopifyCredentials) ShopifyConfig {
	return NewShopifyConfig(c.ShopName, c.AccessToken)
}

// Status reports which required credentials are empty
func (c ShopifyConfig) Status() integration.ConfigStatus {
	return integration.CheckRequired(
		integration.Require(config.KeyShopifyShopName, c.ShopName),
		integration.Require(config.KeyShopifyAccessToken, c.AccessToken),
	)
}

// baseURL returns https://{shop}.myshopify.com/admin/api/{version}.
// A full myshopify.com host is accepted as the shop name.
func (c ShopifyConfig) baseURL() string {
	if c.APIBaseURL != "" {
		return strings.TrimRight(c.APIBaseURL, "/")
	}
	host := strings.TrimSuffix(strings.TrimSpace(c.ShopName), "/")
	host = strings.TrimPrefix(host, "https://")
	if !strings.HasSuffix(host, ".myshopify.com") {
		host += ".myshopify.com"
	}
	return "https://" + host + "/admin/api/" + ShopifyAPIVersion
}
