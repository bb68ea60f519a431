// Package adapters holds the concrete gateway providers and their registry.
package adapters

import (
	"strings"

	"github.com/paylane/billing/internal/gateway/domain"
)

// Registry resolves a catalog gateway name to its provider adapter.
type Registry struct {
	providers map[string]domain.Provider
}

func NewRegistry(providers map[string]domain.Provider) *Registry {
	registry := &Registry{providers: map[string]domain.Provider{}}
	for name, provider := range providers {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || provider == nil {
			continue
		}
		registry.providers[name] = provider
	}
	return registry
}

func (r *Registry) Provider(name string) (domain.Provider, error) {
	if r == nil {
		return nil, domain.ErrProviderNotFound
	}
	provider, ok := r.providers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, domain.ErrProviderNotFound
	}
	return provider, nil
}
