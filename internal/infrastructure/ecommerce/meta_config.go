package ecommerce

import (
	"strings"

	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/infrastructure/config"
)

// MetaGraphAPIURL is the Graph API root for the version the adapter speaks
const MetaGraphAPIURL = "https://graph.facebook.com/v18.0"

// MetaPlatform selects the storefront a Meta shop is presented on
type MetaPlatform string

const (
	MetaPlatformFacebook  MetaPlatform = "facebook"
	MetaPlatformInstagram MetaPlatform = "instagram"
)

// MetaConfig holds Meta Commerce credentials
type MetaConfig struct {
	AccessToken string
	PageID      string
	// CatalogID is optional; without it the catalog listing is empty
	CatalogID string
	Platform  MetaPlatform
	// APIBaseURL overrides MetaGraphAPIURL (tests)
	APIBaseURL string
}

// NewMetaConfig creates a Meta Commerce configuration defaulting to the Facebook storefront
func NewMetaConfig(accessToken, pageID, catalogID string, platform MetaPlatform) MetaConfig {
	if platform == "" {
		platform = MetaPlatformFacebook
	}
	return MetaConfig{
		AccessToken: accessToken,
		PageID:      pageID,
		CatalogID:   catalogID,
		Platform:    platform,
		APIBaseURL:  MetaGraphAPIURL,
	}
}

// MetaConfigFromCredentials maps loaded credentials to a MetaConfig
func MetaConfigFromCredentials(c config.MetaCredentials) MetaConfig {
	return NewMetaConfig(c.AccessToken, c.PageID, c.CatalogID, MetaPlatform(strings.ToLower(c.Platform)))
}

// Status reports which required credentials are empty. The catalog ID is optional.
func (c MetaConfig) Status() integration.ConfigStatus {
	return integration.CheckRequired(
		integration.Require(config.KeyMetaAccessToken, c.AccessToken),
		integration.Require(config.KeyMetaPageID, c.PageID),
	)
}

func (c MetaConfig) baseURL() string {
	if c.APIBaseURL == "" {
		return MetaGraphAPIURL
	}
	return strings.TrimRight(c.APIBaseURL, "/")
}
