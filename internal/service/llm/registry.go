package llm

import (
	"fmt"
	"sync"

	"vidhik/internal/domain/services"
)

// providerSource builds provider instances by name
type providerSource interface {
	GetProvider(providerName string) (services.LLMProvider, error)
}

// ProviderRegistry routes model strings to lazily created, cached providers.
type ProviderRegistry struct {
	factory providerSource
	cache   map[string]services.LLMProvider
	mu      sync.RWMutex
}

// NewProviderRegistry creates a new provider registry.
func NewProviderRegistry(factory providerSource) *ProviderRegistry {
	return &ProviderRegistry{
		factory: factory,
		cache:   make(map[string]services.LLMProvider),
	}
}

// GetProvider returns the cached provider for name, creating it on first use.
func (r *ProviderRegistry) GetProvider(name string) (services.LLMProvider, error) {
	if name == "" {
		return nil, fmt.Errorf("provider cannot be empty")
	}

	r.mu.RLock()
	if cached, exists := r.cache[name]; exists {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// another goroutine may have created it while we waited for the lock
	if cached, exists := r.cache[name]; exists {
		return cached, nil
	}

	provider, err := r.factory.GetProvider(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider '%s': %w", name, err)
	}
	r.cache[name] = provider
	return provider, nil
}

// Resolve parses a model string and returns its provider and provider-local model id
func (r *ProviderRegistry) Resolve(modelStr string) (services.LLMProvider, string, error) {
	info, err := ParseModel(modelStr)
	if err != nil {
		return nil, "", err
	}

	provider, err := r.GetProvider(info.Provider)
	if err != nil {
		return nil, "", err
	}
	return provider, info.Model, nil
}
