// Package shared holds cross-cutting domain contracts such as delivery deduplication.
package shared

import (
	"context"
	"time"
)

// DeliveryStore remembers delivery IDs of inbound webhook messages so that a
// message the provider redelivers is handled once
type DeliveryStore interface {
	// Claim records id for ttl.
	// Returns true if id was newly claimed, false if it is already claimed and not expired
	Claim(ctx context.Context, id string, ttl time.Duration) (bool, error)

	// Seen checks if id is currently claimed
	Seen(ctx context.Context, id string) (bool, error)

	// Release forgets id so the next delivery of the same message is handled again
	Release(ctx context.Context, id string) error

	// Close closes the store and releases resources
	Close() error
}

// DedupeConfig holds configuration for inbound message deduplication
type DedupeConfig struct {
	// TTL is how long a claimed delivery ID is remembered.
	// WhatsApp retries failed webhooks for up to a day.
	// Default: 24 hours
	TTL time.Duration

	// Enabled determines whether deduplication is applied
	// Default: true
	Enabled bool
}

// DefaultDedupeConfig returns the default deduplication configuration
func DefaultDedupeConfig() DedupeConfig {
	return DedupeConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
