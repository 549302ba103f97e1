// Package ai wraps the OpenAI chat completions API for customer replies,
// sentiment analysis and order summaries.
package ai

import (
	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/infrastructure/config"
)

// OpenAIConfig holds the OpenAI API key
type OpenAIConfig struct {
	APIKey string
	// BaseURL overrides the public API root (tests, proxies). Optional.
	BaseURL string
}

// NewOpenAIConfig creates an OpenAI configuration
func NewOpenAIConfig(apiKey string) OpenAIConfig {
	return OpenAIConfig{APIKey: apiKey}
}

// OpenAIConfigFromCredentials maps loaded credentials to an OpenAIConfig
func OpenAIConfigFromCredentials(c config.OpenAICredentials) OpenAIConfig {
	return NewOpenAIConfig(c.APIKey)
}

// Status reports which required credentials are empty
func (c OpenAIConfig) Status() integration.ConfigStatus {
	return integration.CheckRequired(
		integration.Require(config.KeyOpenAIAPIKey, c.APIKey),
	)
}
