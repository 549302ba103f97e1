package ecommerce

import (
	"strings"

	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/infrastructure/config"
)

// EbayEnvironment selects the eBay API environment
type EbayEnvironment string

const (
	EbayEnvironmentProduction EbayEnvironment = "production"
	EbayEnvironmentSandbox    EbayEnvironment = "sandbox"
)

// EbayConfig holds eBay developer credentials
type EbayConfig struct {
	AppID       string
	CertID      string
	DevID       string
	AuthToken   string
	Environment EbayEnvironment
}

// NewEbayConfig creates an eBay configuration. Anything but "production" selects the sandbox.
func NewEbayConfig(appID, certID, devID, authToken, environment string) EbayConfig {
	env := EbayEnvironmentSandbox
	if strings.EqualFold(environment, string(EbayEnvironmentProduction)) {
		env = EbayEnvironmentProduction
	}
	return EbayConfig{
		AppID:       appID,
		CertID:      certID,
		DevID:       devID,
		AuthToken:   authToken,
		Environment: env,
	}
}

// EbayConfigFromCredentials maps loaded credentials to an EbayConfig
func EbayConfigFromCredentials(c config.EbayCredentials) EbayConfig {
	return NewEbayConfig(c.AppID, c.CertID, c.DevID, c.AuthToken, c.Environment)
}

// Status reports which required credentials are empty
func (c EbayConfig) Status() integration.ConfigStatus {
	return integration.CheckRequired(
		integration.Require(config.KeyEbayAppID, c.AppID),
		integration.Require(config.KeyEbayCertID, c.CertID),
		integration.Require(config.KeyEbayDevID, c.DevID),
		integration.Require(config.KeyEbayAuthToken, c.AuthToken),
	)
}
