package llm

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"privlens/internal/config"
	"privlens/internal/port"
)

// ProviderFactory creates a CompletionProvider from a provider config.
type ProviderFactory func(cfg *config.ProviderConfig) (port.CompletionProvider, error)

var (
	providersMu sync.RWMutex
	providers   = map[string]ProviderFactory{}
)

// RegisterProvider registers a provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providersMu.Lock()
	defer providersMu.Unlock()
	providers[name] = factory
}

// RegisteredProviders returns the registered provider names, sorted.
func RegisteredProviders() []string {
	providersMu.RLock()
	defer providersMu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewProvider creates a CompletionProvider using the registered factory.
func NewProvider(cfg *config.ProviderConfig) (port.CompletionProvider, error) {
	providersMu.RLock()
	factory, ok := providers[cfg.Provider]
	providersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown reasoning provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// NewProviderChain builds the primary provider and, when a fallback is
// configured, wraps both in a FallbackProvider.
func NewProviderChain(cfg *config.ReasoningConfig, logger *zap.Logger) (port.CompletionProvider, error) {
	primary, err := NewProvider(&cfg.Primary)
	if err != nil {
		return nil, fmt.Errorf("creating primary provider: %w", err)
	}
	fbCfg := cfg.FallbackConfig()
	if fbCfg == nil {
		return primary, nil
	}
	fallback, err := NewProvider(fbCfg)
	if err != nil {
		return nil, fmt.Errorf("creating fallback provider: %w", err)
	}
	return NewFallbackProvider([]port.CompletionProvider{primary, fallback}, logger), nil
}
