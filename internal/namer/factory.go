package namer

import (
	"sort"

	"scannamer/internal/config"
	"scannamer/internal/domain"
	"scannamer/internal/port"
)

// Factory is a function that creates a TitleGenerator from a provider config.
type Factory func(cfg *config.ProviderConfig) (port.TitleGenerator, error)

type registration struct {
	factory      Factory
	defaultModel string
}

// registry of provider factories, populated by init() in each provider
// package.
var providers = map[string]registration{}

// Register registers a provider factory by name, along with the model used
// when the configuration names none.
func Register(name, defaultModel string, factory Factory) {
	providers[name] = registration{factory: factory, defaultModel: defaultModel}
}

// DefaultModel returns the registered default model for a provider, or the
// empty string for unknown providers.
func DefaultModel(name string) string {
	return providers[name].defaultModel
}

// New creates a TitleGenerator for the configured provider. An unknown
// provider is a configuration error that aborts the run.
func New(cfg *config.ProviderConfig) (port.TitleGenerator, error) {
	reg, ok := providers[cfg.Provider]
	if !ok {
		return nil, domain.NewConfigurationError("unknown provider %q (available: %v)",
			cfg.Provider, Providers())
	}
	return reg.factory(cfg)
}

// Providers returns the registered provider names, sorted.
func Providers() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
