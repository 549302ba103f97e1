package payment

import (
	"strings"

	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/infrastructure/config"
)

const (
	// IyzicoProductionURL is the live API root
	IyzicoProductionURL = "https://api.iyzipay.com"
	// IyzicoSandboxURL is the sandbox API root
	IyzicoSandboxURL = "https://sandbox-api.iyzipay.com"
)

// IyzicoConfig contains configuration for the iyzico payment API
type IyzicoConfig struct {
	// APIKey identifies the merchant in the Authorization header
	APIKey string
	// SecretKey signs every request
	SecretKey string
	// Production selects the live environment; false means sandbox
	Production bool
	// APIBaseURL replaces the environment URL, e.g. for a local stub or proxy.
	// It does not change the environment: Sandbox still follows Production.
	APIBaseURL string
}

// NewIyzicoConfig creates an iyzico configuration
func NewIyzicoConfig(apiKey, secretKey string, production bool) IyzicoConfig {
	return IyzicoConfig{
		APIKey:     apiKey,
		SecretKey:  secretKey,
		Production: production,
	}
}

// IyzicoConfigFromCredentials maps loaded credentials to an IyzicoConfig.
// Production is only true when VITE_IYZICO_PRODUCTION is exactly "true".
func IyzicoConfigFromCredentials(c config.IyzicoCredentials) IyzicoConfig {
	return NewIyzicoConfig(c.APIKey, c.SecretKey, c.Production)
}

// Status reports which required credentials are empty
func (c IyzicoConfig) Status() integration.ConfigStatus {
	return integration.CheckRequired(
		integration.Require(config.KeyIyzicoAPIKey, c.APIKey),
		integration.Require(config.KeyIyzicoSecretKey, c.SecretKey),
	)
}

// Sandbox reports whether the sandbox environment is selected
func (c IyzicoConfig) Sandbox() bool {
	return !c.Production
}

func (c IyzicoConfig) baseURL() string {
	if c.APIBaseURL != "" {
		return strings.TrimRight(c.APIBaseURL, "/")
	}
	if c.Production {
		return IyzicoProductionURL
	}
	return IyzicoSandboxURL
}
