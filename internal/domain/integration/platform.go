package integration

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Platform Code
// ---------------------------------------------------------------------------

// PlatformCode identifies a marketplace
type PlatformCode string

const (
	// PlatformCodeTrendyol represents Trendyol
	PlatformCodeTrendyol PlatformCode = "TRENDYOL"
	// PlatformCodeShopify represents Shopify
	PlatformCodeShopify PlatformCode = "SHOPIFY"
	// PlatformCodeEbay represents eBay
	PlatformCodeEbay PlatformCode = "EBAY"
	// PlatformCodeAmazon represents Amazon Seller Central
	PlatformCodeAmazon PlatformCode = "AMAZON"
	// PlatformCodeTikTokShop represents TikTok Shop
	PlatformCodeTikTokShop PlatformCode = "TIKTOK_SHOP"
	// PlatformCodeMetaCommerce represents Meta Commerce (Facebook and Instagram shops)
	PlatformCodeMetaCommerce PlatformCode = "META_COMMERCE"
)

// AllPlatformCodes returns every supported platform in display order
func AllPlatformCodes() []PlatformCode {
	return []PlatformCode{
		PlatformCodeTrendyol,
		PlatformCodeShopify,
		PlatformCodeEbay,
		PlatformCodeAmazon,
		PlatformCodeTikTokShop,
		PlatformCodeMetaCommerce,
	}
}

// IsValid returns true if the platform code is valid
func (p PlatformCode) IsValid() bool {
	switch p {
	case PlatformCodeTrendyol, PlatformCodeShopify, PlatformCodeEbay,
		PlatformCodeAmazon, PlatformCodeTikTokShop, PlatformCodeMetaCommerce:
		return true
	default:
		return false
	}
}

// String returns the string representation of PlatformCode
func (p PlatformCode) String() string {
	return string(p)
}

// DisplayName returns the human-readable name of the platform
func (p PlatformCode) DisplayName() string {
	switch p {
	case PlatformCodeTrendyol:
		return "Trendyol"
	case PlatformCodeShopify:
		return "Shopify"
	case PlatformCodeEbay:
		return "eBay"
	case PlatformCodeAmazon:
		return "Amazon"
	case PlatformCodeTikTokShop:
		return "TikTok Shop"
	case PlatformCodeMetaCommerce:
		return "Meta Commerce"
	default:
		return string(p)
	}
}

// ParsePlatformCode parses a platform code from a path segment or query value.
// It accepts any case, dashes in place of underscores, and the short forms "tiktok" and "meta".
func ParsePlatformCode(s string) (PlatformCode, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	switch normalized {
	case "TIKTOK":
		normalized = string(PlatformCodeTikTokShop)
	case "META", "FACEBOOK", "INSTAGRAM":
		normalized = string(PlatformCodeMetaCommerce)
	}
	code := PlatformCode(normalized)
	if !code.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPlatform, s)
	}
	return code, nil
}

// ---------------------------------------------------------------------------
// Adapter Mode
// ---------------------------------------------------------------------------

// AdapterMode tells whether an adapter talks to the real provider API
type AdapterMode string

const (
	// AdapterModeLive adapters call the provider API
	AdapterModeLive AdapterMode = "LIVE"
	// AdapterModeNotWired adapters have no API wiring and return ErrNotImplemented
	AdapterModeNotWired AdapterMode = "NOT_WIRED"
)

// OrderSource tells where a normalized order came from
type OrderSource string

const (
	// OrderSourceLive orders were returned by the provider API
	OrderSourceLive OrderSource = "LIVE"
	// OrderSourceFixture orders are demo data and must never be mistaken for real orders
	OrderSourceFixture OrderSource = "FIXTURE"
)
