package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/v0xg/limboscrape/internal/config"
	"github.com/v0xg/limboscrape/internal/logging"
)

// ClaudeProvider implements Provider using Anthropic's Messages API.
type ClaudeProvider struct {
	client   *anthropic.Client
	cfg      config.ProviderConfig
	settings Settings
	logger   *slog.Logger
}

// NewClaudeProvider creates a new Claude provider. SDK retries are
// disabled; a failed call is reported as is.
func NewClaudeProvider(cfg config.ProviderConfig, apiKey string, s Settings) *ClaudeProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if s.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(s.HTTPClient))
	}
	client := anthropic.NewClient(opts...)

	return &ClaudeProvider{
		client:   &client,
		cfg:      cfg,
		settings: s,
		logger:   logging.OrDiscard(s.Logger),
	}
}

// Name returns the provider label.
func (p *ClaudeProvider) Name() string {
	return p.cfg.Label
}

// Analyze sends content to Claude and decodes the reply.
func (p *ClaudeProvider) Analyze(ctx context.Context, content string) (*Analysis, error) {
	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.cfg.Model),
		MaxTokens:   int64(p.cfg.MaxTokens),
		Temperature: anthropic.Float(p.cfg.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: promptFor(p.cfg.SystemPrompt)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildUserPrompt(content, p.settings.MaxContentChars))),
		},
	})
	if err != nil {
		vendorErr := &VendorError{Provider: p.cfg.Label, Err: err}
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			vendorErr.StatusCode = apiErr.StatusCode
		}
		return nil, vendorErr
	}

	// Extract text content
	var responseText string
	for _, block := range resp.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}
	if responseText == "" {
		return nil, &VendorError{Provider: p.cfg.Label, Err: fmt.Errorf("empty response")}
	}
	p.logger.Debug("llm output", "provider", p.cfg.Label, "output", responseText)

	analysis, err := parseAnalysisJSON(responseText, p.settings.LenientJSON)
	if err != nil {
		return nil, &ParseError{Provider: p.cfg.Label, Response: responseText, Err: err}
	}
	return analysis, nil
}
