package ai

import (
	"context"
	"fmt"

	"github.com/v0xg/limboscrape/internal/config"
	"github.com/v0xg/limboscrape/internal/credentials"
)

// KeySource looks up stored credentials.
type KeySource interface {
	Get(name credentials.Name) (string, bool)
}

// ProviderFactory builds a provider from its configuration and key.
type ProviderFactory func(cfg config.ProviderConfig, apiKey string, s Settings) (Provider, error)

// Analyzer selects a provider by tag and runs it with the tag's stored key.
type Analyzer struct {
	cfg      *config.Config
	keys     KeySource
	settings Settings
	factory  ProviderFactory
}

// NewAnalyzer creates an analyzer over the configured providers.
func NewAnalyzer(cfg *config.Config, keys KeySource, s Settings) *Analyzer {
	if s.MaxContentChars <= 0 {
		s.MaxContentChars = cfg.Analysis.MaxContentChars
	}
	s.LenientJSON = s.LenientJSON || cfg.Analysis.LenientJSON
	return &Analyzer{
		cfg:      cfg,
		keys:     keys,
		settings: s,
		factory:  NewProvider,
	}
}

// WithFactory replaces the provider constructor, for tests.
func (a *Analyzer) WithFactory(f ProviderFactory) *Analyzer {
	a.factory = f
	return a
}

// KeyName maps a provider tag to its credential.
func KeyName(tag string) credentials.Name {
	if tag == config.ProviderSecondary {
		return credentials.LLMSecondary
	}
	return credentials.LLMPrimary
}

// HasKey reports whether the provider for tag has a stored key.
func (a *Analyzer) HasKey(tag string) bool {
	_, ok := a.keys.Get(KeyName(tag))
	return ok
}

// Label returns the display name of the provider for tag.
func (a *Analyzer) Label(tag string) string {
	if p, err := a.cfg.Provider(tag); err == nil && p.Label != "" {
		return p.Label
	}
	return tag
}

// Analyze runs the provider selected by tag over content. It fails fast,
// without a request, when the provider has no key.
func (a *Analyzer) Analyze(ctx context.Context, content, tag string) (*Analysis, error) {
	pcfg, err := a.cfg.Provider(tag)
	if err != nil {
		return nil, err
	}
	key, ok := a.keys.Get(KeyName(tag))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoAPIKey, pcfg.Label)
	}
	provider, err := a.factory(pcfg, key, a.settings)
	if err != nil {
		return nil, fmt.Errorf("AI provider init failed: %w", err)
	}
	return provider.Analyze(ctx, content)
}
