// Package ratelimit provides per-provider request budgets for outbound API calls.
// A budget combines a token bucket (requests per second) with a concurrency cap.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// BudgetConfig holds the limits for one provider.
type BudgetConfig struct {
	// RequestsPerSecond is the sustained rate. Zero or negative disables rate limiting.
	RequestsPerSecond float64
	// Burst is the token bucket size. Defaults to max(1, int(RequestsPerSecond)).
	Burst int
	// MaxConcurrent caps in-flight requests. Zero or negative disables the cap.
	MaxConcurrent int64
}

// DefaultBudgetConfig returns conservative limits that stay under every
// marketplace's published quota.
func DefaultBudgetConfig() BudgetConfig {
	return BudgetConfig{
		RequestsPerSecond: 5,
		Burst:             5,
		MaxConcurrent:     4,
	}
}

// BudgetStats contains statistics about budget usage.
type BudgetStats struct {
	// Name is the provider the budget belongs to
	Name string
	// TotalAcquired is the number of successful acquisitions
	TotalAcquired int64
	// TotalCancelled is the number of acquisitions abandoned because the context ended
	TotalCancelled int64
	// InFlight is the number of acquired, unreleased slots
	InFlight int64
	// AvgWaitTime is the average time spent waiting in Acquire
	AvgWaitTime time.Duration
}

// Budget limits the request rate and concurrency towards one provider.
//
// Thread Safety: Safe for concurrent use.
type Budget struct {
	name    string
	limiter *rate.Limiter
	sem     *semaphore.Weighted

	totalAcquired  atomic.Int64
	totalCancelled atomic.Int64
	inFlight       atomic.Int64
	totalWaitTime  atomic.Int64 // nanoseconds
}

// NewBudget creates a budget for the named provider.
func NewBudget(name string, cfg BudgetConfig) *Budget {
	limit := rate.Inf
	burst := cfg.Burst
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		if burst <= 0 {
			burst = max(1, int(cfg.RequestsPerSecond))
		}
	}
	if burst <= 0 {
		burst = 1
	}

	b := &Budget{
		name:    name,
		limiter: rate.NewLimiter(limit, burst),
	}
	if cfg.MaxConcurrent > 0 {
		b.sem = semaphore.NewWeighted(cfg.MaxConcurrent)
	}
	return b
}

// Name returns the provider name.
func (b *Budget) Name() string {
	return b.name
}

// Acquire blocks until a token and a concurrency slot are available or ctx ends.
// The returned release function must be called once the request completes; calling it
// more than once is a no-op.
func (b *Budget) Acquire(ctx context.Context) (release func(), err error) {
	start := time.Now()

	if err := b.limiter.Wait(ctx); err != nil {
		b.totalCancelled.Add(1)
		return nil, fmt.Errorf("ratelimit: %s budget wait: %w", b.name, err)
	}

	if b.sem != nil {
		if err := b.sem.Acquire(ctx, 1); err != nil {
			b.totalCancelled.Add(1)
			return nil, fmt.Errorf("ratelimit: %s concurrency wait: %w", b.name, err)
		}
	}

	b.totalAcquired.Add(1)
	b.inFlight.Add(1)
	b.totalWaitTime.Add(int64(time.Since(start)))

	var once sync.Once
	return func() {
		once.Do(func() {
			b.inFlight.Add(-1)
			if b.sem != nil {
				b.sem.Release(1)
			}
		})
	}, nil
}

// Stats returns current statistics about the budget.
func (b *Budget) Stats() BudgetStats {
	acquired := b.totalAcquired.Load()
	var avg time.Duration
	if acquired > 0 {
		avg = time.Duration(b.totalWaitTime.Load() / acquired)
	}
	return BudgetStats{
		Name:           b.name,
		TotalAcquired:  acquired,
		TotalCancelled: b.totalCancelled.Load(),
		InFlight:       b.inFlight.Load(),
		AvgWaitTime:    avg,
	}
}

// BudgetSet hands out one shared Budget per provider name.
type BudgetSet struct {
	mu        sync.Mutex
	defaults  BudgetConfig
	overrides map[string]BudgetConfig
	budgets   map[string]*Budget
}

// NewBudgetSet creates a set that uses overrides[name] when present and defaults otherwise.
func NewBudgetSet(defaults BudgetConfig, overrides map[string]BudgetConfig) *BudgetSet {
	o := make(map[string]BudgetConfig, len(overrides))
	for k, v := range overrides {
		o[k] = v
	}
	return &BudgetSet{
		defaults:  defaults,
		overrides: o,
		budgets:   make(map[string]*Budget),
	}
}

// For returns the budget for a provider, creating it on first use.
func (s *BudgetSet) For(name string) *Budget {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.budgets[name]; ok {
		return b
	}
	cfg, ok := s.overrides[name]
	if !ok {
		cfg = s.defaults
	}
	b := NewBudget(name, cfg)
	s.budgets[name] = b
	return b
}

// Stats returns statistics for every budget created so far.
func (s *BudgetSet) Stats() []BudgetStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := make([]BudgetStats, 0, len(s.budgets))
	for _, b := range s.budgets {
		stats = append(stats, b.Stats())
	}
	return stats
}
