package cache

import (
	"context"
	"sync"
	"time"

	"github.com/siparisbot/backend/internal/domain/shared"
)

// DefaultCleanupInterval is how often expired delivery IDs are swept
const DefaultCleanupInterval = 5 * time.Minute

// InMemoryDeliveryStore implements DeliveryStore with a map.
// State is per process, so it suits single-instance deployments and tests.
type InMemoryDeliveryStore struct {
	mu        sync.Mutex
	expiry    map[string]time.Time
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryDeliveryStore creates an in-memory store and starts its sweeper
func NewInMemoryDeliveryStore() *InMemoryDeliveryStore {
	return newInMemoryDeliveryStore(time.Now, DefaultCleanupInterval)
}

func newInMemoryDeliveryStore(now func() time.Time, interval time.Duration) *InMemoryDeliveryStore {
	store := &InMemoryDeliveryStore{
		expiry:   make(map[string]time.Time),
		now:      now,
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop(interval)

	return store
}

// Claim records id for ttl. An expired claim is replaced.
func (s *InMemoryDeliveryStore) Claim(_ context.Context, id string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if exp, ok := s.expiry[id]; ok && now.Before(exp) {
		return false, nil
	}
	s.expiry[id] = now.Add(ttl)
	return true, nil
}

// Seen reports whether id is claimed and not expired
func (s *InMemoryDeliveryStore) Seen(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.expiry[id]
	return ok && s.now().Before(exp), nil
}

// Release forgets id
func (s *InMemoryDeliveryStore) Release(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.expiry, id)
	s.mu.Unlock()
	return nil
}

// Close stops the sweeper. Safe to call multiple times.
func (s *InMemoryDeliveryStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryDeliveryStore) cleanupLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// cleanup drops expired IDs
func (s *InMemoryDeliveryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, exp := range s.expiry {
		if !now.Before(exp) {
			delete(s.expiry, id)
		}
	}
}

// Size returns the number of remembered IDs, expired or not
func (s *InMemoryDeliveryStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expiry)
}

var _ shared.DeliveryStore = (*InMemoryDeliveryStore)(nil)
