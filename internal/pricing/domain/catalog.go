// Package domain implements the bounded price negotiation engine used by
// the conversational sales assistant. All monetary amounts are integer
// minor units (cents).
package domain

import (
	"fmt"
	"os"

	"growthcore_backend/platform/apperr"

	"gopkg.in/yaml.v3"
)

// CatalogEntry is one quotable (service, tier) pair.
type CatalogEntry struct {
	Service        string `yaml:"service"`
	Tier           string `yaml:"tier"`
	BasePriceCents int64  `yaml:"basePriceCents"`
	Currency       string `yaml:"currency"`
}

// Catalog maps (service, tier) to a list price. It is immutable after
// construction and injected into the negotiation service, so tests and
// concurrent configurations never share ambient state.
type Catalog struct {
	entries map[string]CatalogEntry
}

func catalogKey(service, tier string) string {
	return service + "/" + tier
}

// NewCatalog builds a catalog from explicit entries.
func NewCatalog(entries []CatalogEntry) *Catalog {
	m := make(map[string]CatalogEntry, len(entries))
	for _, e := range entries {
		m[catalogKey(e.Service, e.Tier)] = e
	}
	return &Catalog{entries: m}
}

// LoadCatalog reads the pricing catalog from a YAML file. An empty path
// returns the compiled-in defaults.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return NewCatalog(DefaultCatalogEntries()), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pricing catalog: %w", err)
	}

	var file struct {
		Prices []CatalogEntry `yaml:"prices"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse pricing catalog: %w", err)
	}

	return NewCatalog(file.Prices), nil
}

// PriceFor returns the list price for a (service, tier) pair. Unknown
// pairs are a hard error: there is no sensible fallback price, and
// silently substituting one would misquote the client.
func (c *Catalog) PriceFor(service, tier string) (CatalogEntry, error) {
	entry, ok := c.entries[catalogKey(service, tier)]
	if !ok {
		return CatalogEntry{}, apperr.NotFound("no price defined for service and tier").
			WithOp("pricing.PriceFor")
	}
	return entry, nil
}

// DefaultCatalogEntries returns the consultancy's standard price list.
func DefaultCatalogEntries() []CatalogEntry {
	return []CatalogEntry{
		{Service: "growth-audit", Tier: "express", BasePriceCents: 250000, Currency: "USD"},
		{Service: "growth-audit", Tier: "executive", BasePriceCents: 750000, Currency: "USD"},
		{Service: "automation-sprint", Tier: "express", BasePriceCents: 480000, Currency: "USD"},
		{Service: "automation-sprint", Tier: "executive", BasePriceCents: 1200000, Currency: "USD"},
		{Service: "fractional-cto", Tier: "executive", BasePriceCents: 2000000, Currency: "USD"},
	}
}
