package ai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/v0xg/limboscrape/internal/config"
)

// Provider analyzes page content with a language model.
type Provider interface {
	Name() string
	Analyze(ctx context.Context, content string) (*Analysis, error)
}

// Settings are shared by every provider implementation.
type Settings struct {
	MaxContentChars int
	LenientJSON     bool
	HTTPClient      *http.Client
	Logger          *slog.Logger
}

// NewProvider creates a provider for cfg based on its API style.
func NewProvider(cfg config.ProviderConfig, apiKey string, s Settings) (Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoAPIKey, cfg.Label)
	}
	switch cfg.API {
	case config.APIOpenAI, "":
		return NewOpenAIProvider(cfg, apiKey, s), nil
	case config.APIAnthropic:
		return NewClaudeProvider(cfg, apiKey, s), nil
	default:
		return nil, fmt.Errorf("unknown provider api: %s (supported: openai, anthropic)", cfg.API)
	}
}
