package ecommerce

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/infrastructure/config"
	"github.com/siparisbot/backend/internal/infrastructure/providerhttp"
)

// AdapterRegistry holds the default adapter set built from the environment and
// optional per-tenant sets. A tenant without its own adapter for a platform uses the default.
//
// Thread Safety: Safe for concurrent use.
type AdapterRegistry struct {
	mu       sync.RWMutex
	defaults map[integration.PlatformCode]integration.MarketplaceAdapter
	tenants  map[uuid.UUID]map[integration.PlatformCode]integration.MarketplaceAdapter
}

var _ integration.AdapterRegistry = (*AdapterRegistry)(nil)

// NewAdapterRegistry creates a registry with the given default adapters
func NewAdapterRegistry(defaults ...integration.MarketplaceAdapter) *AdapterRegistry {
	r := &AdapterRegistry{
		defaults: make(map[integration.PlatformCode]integration.MarketplaceAdapter),
		tenants:  make(map[uuid.UUID]map[integration.PlatformCode]integration.MarketplaceAdapter),
	}
	for _, a := range defaults {
		r.defaults[a.Platform()] = a
	}
	return r
}

// NewDefaultAdapters builds one adapter per marketplace from loaded credentials.
// opts apply to every live adapter's HTTP client.
func NewDefaultAdapters(creds config.Credentials, fixtures bool, opts ...providerhttp.Option) []integration.MarketplaceAdapter {
	return []integration.MarketplaceAdapter{
		NewTrendyolAdapter(TrendyolConfigFromCredentials(creds.Trendyol), opts...),
		NewShopifyAdapter(ShopifyConfigFromCredentials(creds.Shopify), opts...),
		NewEbayAdapter(EbayConfigFromCredentials(creds.Ebay), fixtures),
		NewAmazonAdapter(AmazonConfigFromCredentials(creds.Amazon), fixtures),
		NewTikTokAdapter(TikTokConfigFromCredentials(creds.TikTok), opts...),
		NewMetaAdapter(MetaConfigFromCredentials(creds.Meta), opts...),
	}
}

// RegisterTenant installs adapters for one tenant, replacing any it had for the same platforms
func (r *AdapterRegistry) RegisterTenant(tenantID uuid.UUID, adapters ...integration.MarketplaceAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.tenants[tenantID]
	if !ok {
		set = make(map[integration.PlatformCode]integration.MarketplaceAdapter)
		r.tenants[tenantID] = set
	}
	for _, a := range adapters {
		set[a.Platform()] = a
	}
}

// UnregisterTenant drops a tenant's own adapters; it falls back to the defaults afterwards
func (r *AdapterRegistry) UnregisterTenant(tenantID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tenants, tenantID)
}

// Adapter returns the tenant's adapter for code, falling back to the default set
func (r *AdapterRegistry) Adapter(tenantID uuid.UUID, code integration.PlatformCode) (integration.MarketplaceAdapter, error) {
	if !code.IsValid() {
		return nil, fmt.Errorf("%w: %q", integration.ErrInvalidPlatform, code)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if a, ok := r.lookup(tenantID, code); ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: %s", integration.ErrAdapterNotRegistered, code.DisplayName())
}

// Adapters returns every adapter visible to the tenant in platform display order
func (r *AdapterRegistry) Adapters(tenantID uuid.UUID) []integration.MarketplaceAdapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]integration.MarketplaceAdapter, 0, len(r.defaults))
	for _, code := range integration.AllPlatformCodes() {
		if a, ok := r.lookup(tenantID, code); ok {
			out = append(out, a)
		}
	}
	return out
}

// lookup must be called with r.mu held
func (r *AdapterRegistry) lookup(tenantID uuid.UUID, code integration.PlatformCode) (integration.MarketplaceAdapter, bool) {
	if set, ok := r.tenants[tenantID]; ok {
		if a, ok := set[code]; ok {
			return a, true
		}
	}
	a, ok := r.defaults[code]
	return a, ok
}
