package integration

import (
	"strings"

	"github.com/siparisbot/backend/internal/domain/integration"
)

// Documentation links shown next to each provider.
const (
	DocsWhatsApp     = "https://developers.facebook.com/docs/whatsapp"
	DocsOpenAI       = "https://platform.openai.com/docs"
	DocsTrendyol     = "https://developers.trendyol.com"
	DocsIyzico       = "https://dev.iyzipay.com"
	DocsShopify      = "https://shopify.dev/docs/api/admin-rest"
	DocsMetaCommerce = "https://developers.facebook.com/docs/commerce-platform"
	DocsTikTokShop   = "https://partner.tiktokshop.com/docv2"
	DocsAmazon       = "https://developer-docs.amazon.com/sp-api"
	DocsEbay         = "https://developer.ebay.com/develop/apis"
)

// StatusEntry is one row of the status panel
type StatusEntry struct {
	Name     string
	Docs     string
	Reporter integration.ConfigReporter
}

// ProviderStatus is the rendered state of one entry
type ProviderStatus struct {
	Name       string   `json:"name"`
	Configured bool     `json:"configured"`
	Missing    []string `json:"missing"`
	Docs       string   `json:"docs"`
	// EnvExample lists the missing keys as KEY=your_value_here lines
	EnvExample string `json:"env_example,omitempty"`
	// Testable means a connection test can be offered
	Testable bool `json:"testable"`
}

// StatusPanel reports credential completeness for a fixed list of providers
type StatusPanel struct {
	entries []StatusEntry
}

// NewStatusPanel creates a panel over entries, kept in the given order
func NewStatusPanel(entries ...StatusEntry) *StatusPanel {
	return &StatusPanel{entries: entries}
}

// Statuses evaluates every entry. Nothing is cached.
func (p *StatusPanel) Statuses() []ProviderStatus {
	out := make([]ProviderStatus, 0, len(p.entries))
	for _, e := range p.entries {
		status := e.Reporter.ConfigStatus()
		missing := status.Missing
		if missing == nil {
			missing = []string{}
		}
		out = append(out, ProviderStatus{
			Name:       e.Name,
			Configured: status.Configured,
			Missing:    missing,
			Docs:       e.Docs,
			EnvExample: EnvExample(missing),
			Testable:   status.Configured,
		})
	}
	return out
}

// EnvExample renders keys as .env lines with a placeholder value
func EnvExample(keys []string) string {
	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = k + "=your_value_here"
	}
	return strings.Join(lines, "\n")
}
