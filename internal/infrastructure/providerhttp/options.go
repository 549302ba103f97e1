package providerhttp

import (
	"net/http"
	"time"

	"github.com/siparisbot/backend/internal/infrastructure/ratelimit"
	"go.uber.org/zap"
)

// Option customizes the Client an adapter builds for itself.
type Option func(*Config)

// WithHTTPClient replaces the default traced http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *Config) {
		cfg.HTTPClient = c
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(cfg *Config) {
		cfg.Timeout = d
	}
}

// WithBudget sets the provider request budget.
func WithBudget(b *ratelimit.Budget) Option {
	return func(cfg *Config) {
		cfg.Budget = b
	}
}

// WithBudgetSet takes the provider's budget from a shared set.
func WithBudgetSet(s *ratelimit.BudgetSet) Option {
	return func(cfg *Config) {
		if s != nil {
			cfg.Budget = s.For(cfg.Provider)
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(cfg *Config) {
		cfg.Recorder = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = l
	}
}

// NewWithOptions builds a Client for provider from options.
func NewWithOptions(provider string, opts ...Option) *Client {
	cfg := Config{Provider: provider}
	for _, opt := range opts {
		opt(&cfg)
	}
	return New(cfg)
}
