package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/v0xg/limboscrape/internal/config"
	"github.com/v0xg/limboscrape/internal/credentials"
)

type mapKeys map[credentials.Name]string

func (m mapKeys) Get(name credentials.Name) (string, bool) {
	v, ok := m[name]
	return v, ok && v != ""
}

type stubProvider struct {
	name     string
	analysis *Analysis
	err      error
	content  string
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Analyze(ctx context.Context, content string) (*Analysis, error) {
	s.content = content
	return s.analysis, s.err
}

func TestAnalyzer_SelectsProviderByTag(t *testing.T) {
	cfg := config.Default()
	keys := mapKeys{credentials.LLMPrimary: "or-key", credentials.LLMSecondary: "pplx-key"}

	var gotCfg config.ProviderConfig
	var gotKey string
	var gotSettings Settings
	stub := &stubProvider{analysis: &Analysis{Summary: "ok"}}
	a := NewAnalyzer(cfg, keys, Settings{}).WithFactory(func(pc config.ProviderConfig, key string, s Settings) (Provider, error) {
		gotCfg, gotKey, gotSettings = pc, key, s
		return stub, nil
	})

	analysis, err := a.Analyze(context.Background(), "content", config.ProviderSecondary)
	require.NoError(t, err)
	require.Equal(t, "ok", analysis.Summary)
	require.Equal(t, "Perplexity", gotCfg.Label)
	require.Equal(t, "pplx-key", gotKey)
	require.Equal(t, 4000, gotSettings.MaxContentChars)
	require.Equal(t, "content", stub.content)

	_, err = a.Analyze(context.Background(), "content", config.ProviderPrimary)
	require.NoError(t, err)
	require.Equal(t, "OpenRouter", gotCfg.Label)
	require.Equal(t, "or-key", gotKey)
}

func TestAnalyzer_MissingKeyFailsFast(t *testing.T) {
	built := false
	a := NewAnalyzer(config.Default(), mapKeys{}, Settings{}).WithFactory(func(config.ProviderConfig, string, Settings) (Provider, error) {
		built = true
		return &stubProvider{}, nil
	})

	require.False(t, a.HasKey(config.ProviderPrimary))
	_, err := a.Analyze(context.Background(), "content", config.ProviderPrimary)
	require.ErrorIs(t, err, ErrNoAPIKey)
	require.Contains(t, err.Error(), "OpenRouter")
	require.False(t, built)
}

func TestAnalyzer_UnknownTag(t *testing.T) {
	a := NewAnalyzer(config.Default(), mapKeys{}, Settings{})
	_, err := a.Analyze(context.Background(), "content", "tertiary")
	require.Error(t, err)
	require.Equal(t, "tertiary", a.Label("tertiary"))
	require.Equal(t, "Perplexity", a.Label(config.ProviderSecondary))
}

func TestAnalyzer_PropagatesProviderError(t *testing.T) {
	want := &ParseError{Provider: "OpenRouter", Response: "nope", Err: errors.New("bad")}
	a := NewAnalyzer(config.Default(), mapKeys{credentials.LLMPrimary: "k"}, Settings{}).
		WithFactory(func(config.ProviderConfig, string, Settings) (Provider, error) {
			return &stubProvider{err: want}, nil
		})

	_, err := a.Analyze(context.Background(), "content", config.ProviderPrimary)
	require.ErrorIs(t, err, want)
}

func TestNewProvider(t *testing.T) {
	cfg := config.Default()

	p, err := NewProvider(cfg.Analysis.Providers[config.ProviderPrimary], "key", Settings{})
	require.NoError(t, err)
	require.IsType(t, &OpenAIProvider{}, p)

	p, err = NewProvider(claudeConfig(""), "key", Settings{})
	require.NoError(t, err)
	require.IsType(t, &ClaudeProvider{}, p)

	_, err = NewProvider(cfg.Analysis.Providers[config.ProviderPrimary], "", Settings{})
	require.ErrorIs(t, err, ErrNoAPIKey)

	_, err = NewProvider(config.ProviderConfig{API: "grpc", Label: "x"}, "key", Settings{})
	require.Error(t, err)
}
