// Package messaging implements the WhatsApp Business Cloud API adapter:
// outbound text, template and image messages, webhook verification and
// parsing of inbound message deliveries.
package messaging

import (
	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/infrastructure/config"
)

// WhatsAppGraphAPIURL is the Graph API root used for message sends
const WhatsAppGraphAPIURL = "https://graph.facebook.com/v18.0"

// WhatsAppConfig holds WhatsApp Business API credentials
type WhatsAppConfig struct {
	PhoneNumberID     string
	AccessToken       string
	BusinessAccountID string
	// VerifyToken is compared against hub.verify_token during the webhook handshake
	VerifyToken string
	// AppSecret enables X-Hub-Signature-256 checks on webhook deliveries. Optional.
	AppSecret string
	// APIBaseURL overrides WhatsAppGraphAPIURL (tests)
	APIBaseURL string
}

// NewWhatsAppConfig creates a WhatsApp configuration with the default verify token
func NewWhatsAppConfig(phoneNumberID, accessToken, businessAccountID string) WhatsAppConfig {
	return WhatsAppConfig{
		PhoneNumberID:     phoneNumberID,
		AccessToken:       accessToken,
		BusinessAccountID: businessAccountID,
		VerifyToken:       config.DefaultWhatsAppVerifyToken,
		APIBaseURL:        WhatsAppGraphAPIURL,
	}
}

// WhatsAppConfigFromCredentials maps loaded credentials to a WhatsAppConfig
func WhatsAppConfigFromCredentials(c config.WhatsAppCredentials) WhatsAppConfig {
	cfg := NewWhatsAppConfig(c.PhoneNumberID, c.AccessToken, c.BusinessAccountID)
	if c.VerifyToken != "" {
		cfg.VerifyToken = c.VerifyToken
	}
	cfg.AppSecret = c.AppSecret
	return cfg
}

// Status reports which required credentials are empty
func (c WhatsAppConfig) Status() integration.ConfigStatus {
	return integration.CheckRequired(
		integration.Require(config.KeyWhatsAppPhoneNumberID, c.PhoneNumberID),
		integration.Require(config.KeyWhatsAppAccessToken, c.AccessToken),
		integration.Require(config.KeyWhatsAppBusinessAccountID, c.BusinessAccountID),
	)
}

func (c WhatsAppConfig) verifyToken() string {
	if c.VerifyToken == "" {
		return config.DefaultWhatsAppVerifyToken
	}
	return c.VerifyToken
}

func (c WhatsAppConfig) baseURL() string {
	if c.APIBaseURL == "" {
		return WhatsAppGraphAPIURL
	}
	return c.APIBaseURL
}
