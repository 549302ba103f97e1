package ecommerce

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"

	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/infrastructure/config"
)

// TikTokAPIURL serves every TikTok Shop region
const TikTokAPIURL = "https://open-api.tiktokglobalshop.com"

// TikTokAPIVersion is sent as the version query parameter
const TikTokAPIVersion = "202309"

// TikTokRegions lists the seller regions the Open API accepts
var TikTokRegions = []string{"US", "UK", "ID", "TH", "VN", "MY", "PH", "SG"}

// TikTokConfig holds TikTok Shop Open API credentials
type TikTokConfig struct {
	AppKey      string
	AppSecret   string
	AccessToken string
	ShopID      string
	Region      string
	// SignRequests adds the HMAC sign parameter. Only compatibility tests turn it off.
	SignRequests bool
	// APIBaseURL overrides TikTokAPIURL (tests)
	APIBaseURL string
}

// NewTikTokConfig creates a TikTok Shop configuration with signing enabled
func NewTikTokConfig(appKey, appSecret, accessToken, shopID, region string) TikTokConfig {
	return TikTokConfig{
		AppKey:       appKey,
		AppSecret:    appSecret,
		AccessToken:  accessToken,
		ShopID:       shopID,
		Region:       normalizeTikTokRegion(region),
		SignRequests: true,
		APIBaseURL:   TikTokAPIURL,
	}
}

// TikTokConfigFromCredentials maps loaded credentials to a TikTokConfig
func TikTokConfigFromCredentials(c config.TikTokCredentials) TikTokConfig {
	return NewTikTokConfig(c.AppKey, c.AppSecret, c.AccessToken, c.ShopID, c.Region)
}

// Status reports which required credentials are empty
func (c TikTokConfig) Status() integration.ConfigStatus {
	return integration.CheckRequired(
		integration.Require(config.KeyTikTokAppKey, c.AppKey),
		integration.Require(config.KeyTikTokAppSecret, c.AppSecret),
		integration.Require(config.KeyTikTokAccessToken, c.AccessToken),
		integration.Require(config.KeyTikTokShopID, c.ShopID),
	)
}

// Sign computes the request signature:
// hex(HMAC-SHA256(secret, secret + path + sorted(k+v) + body + secret)).
// The sign and access_token parameters are never part of the input.
func (c TikTokConfig) Sign(path string, query url.Values, body []byte) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		if k == "sign" || k == "access_token" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(c.AppSecret)
	sb.WriteString(path)
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteString(query.Get(k))
	}
	sb.Write(body)
	sb.WriteString(c.AppSecret)

	mac := hmac.New(sha256.New, []byte(c.AppSecret))
	mac.Write([]byte(sb.String()))
	return hex.EncodeToString(mac.Sum(nil))
}

func (c TikTokConfig) baseURL() string {
	if c.APIBaseURL == "" {
		return TikTokAPIURL
	}
	return strings.TrimRight(c.APIBaseURL, "/")
}

// normalizeTikTokRegion upper-cases region and falls back to US for unknown values
func normalizeTikTokRegion(region string) string {
	region = strings.ToUpper(strings.TrimSpace(region))
	for _, r := range TikTokRegions {
		if r == region {
			return r
		}
	}
	return "US"
}
