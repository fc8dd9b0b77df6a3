package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
	"github.com/v0xg/limboscrape/internal/config"
	"github.com/v0xg/limboscrape/internal/logging"
)

// OpenAIProvider implements Provider against any OpenAI-compatible chat
// completions endpoint (OpenRouter, Perplexity, OpenAI).
type OpenAIProvider struct {
	client   *openai.Client
	cfg      config.ProviderConfig
	settings Settings
	logger   *slog.Logger
}

// NewOpenAIProvider creates a new OpenAI-compatible provider.
func NewOpenAIProvider(cfg config.ProviderConfig, apiKey string, s Settings) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if s.HTTPClient != nil {
		clientCfg.HTTPClient = s.HTTPClient
	}

	return &OpenAIProvider{
		client:   openai.NewClientWithConfig(clientCfg),
		cfg:      cfg,
		settings: s,
		logger:   logging.OrDiscard(s.Logger),
	}
}

// Name returns the provider label.
func (p *OpenAIProvider) Name() string {
	return p.cfg.Label
}

// Analyze sends content to the chat completions endpoint and decodes the reply.
func (p *OpenAIProvider) Analyze(ctx context.Context, content string) (*Analysis, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: promptFor(p.cfg.SystemPrompt),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildUserPrompt(content, p.settings.MaxContentChars),
			},
		},
		Temperature: float32(p.cfg.Temperature),
		MaxTokens:   p.cfg.MaxTokens,
	})
	if err != nil {
		vendorErr := &VendorError{Provider: p.cfg.Label, Err: err}
		var apiErr *openai.APIError
		var reqErr *openai.RequestError
		switch {
		case errors.As(err, &apiErr):
			vendorErr.StatusCode = apiErr.HTTPStatusCode
		case errors.As(err, &reqErr):
			vendorErr.StatusCode = reqErr.HTTPStatusCode
		}
		return nil, vendorErr
	}

	if len(resp.Choices) == 0 {
		return nil, &VendorError{Provider: p.cfg.Label, Err: fmt.Errorf("empty response")}
	}

	responseText := resp.Choices[0].Message.Content
	p.logger.Debug("llm output", "provider", p.cfg.Label, "output", responseText)

	analysis, err := parseAnalysisJSON(responseText, p.settings.LenientJSON)
	if err != nil {
		return nil, &ParseError{Provider: p.cfg.Label, Response: responseText, Err: err}
	}
	return analysis, nil
}
