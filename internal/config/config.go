package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// ProviderPrimary and ProviderSecondary are the two analysis provider tags.
	ProviderPrimary   = "primary"
	ProviderSecondary = "secondary"

	// APIOpenAI selects an OpenAI-compatible chat completions endpoint.
	APIOpenAI = "openai"
	// APIAnthropic selects the Anthropic Messages API.
	APIAnthropic = "anthropic"

	DefaultConfigFile = "config.yaml"
)

// Config is the full tool configuration.
type Config struct {
	Scrape   ScrapeConfig   `yaml:"scrape"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

// ScrapeConfig configures the Firecrawl client.
type ScrapeConfig struct {
	BaseURL      string        `yaml:"base_url"`
	CrawlLimit   int           `yaml:"crawl_limit"`
	PollInterval time.Duration `yaml:"poll_interval"`
	// Zero means no client-side timeout.
	Timeout time.Duration `yaml:"timeout"`
}

// AnalysisConfig configures the analysis step of the pipeline.
type AnalysisConfig struct {
	DefaultProvider  string                    `yaml:"default_provider"`
	MinContentLength int                       `yaml:"min_content_length"`
	MaxContentChars  int                       `yaml:"max_content_chars"`
	LenientJSON      bool                      `yaml:"lenient_json"`
	Timeout          time.Duration             `yaml:"timeout"`
	Providers        map[string]ProviderConfig `yaml:"providers"`
}

// ProviderConfig describes one analysis provider as data.
type ProviderConfig struct {
	Label       string  `yaml:"label"`
	API         string  `yaml:"api"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	// Zero means unset. go-openai omits a zero temperature from requests,
	// so the openai API requires a positive value.
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	// Empty means the built-in analysis instruction.
	SystemPrompt string `yaml:"system_prompt"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Scrape: ScrapeConfig{
			BaseURL:      "https://api.firecrawl.dev",
			CrawlLimit:   10,
			PollInterval: 2 * time.Second,
		},
		Analysis: AnalysisConfig{
			DefaultProvider:  ProviderPrimary,
			MinContentLength: 50,
			MaxContentChars:  4000,
			Providers: map[string]ProviderConfig{
				ProviderPrimary: {
					Label:       "OpenRouter",
					API:         APIOpenAI,
					BaseURL:     "https://openrouter.ai/api/v1",
					Model:       "tngtech/deepseek-r1t2-chimera:free",
					Temperature: 0.3,
					MaxTokens:   500,
				},
				ProviderSecondary: {
					Label:       "Perplexity",
					API:         APIOpenAI,
					BaseURL:     "https://api.perplexity.ai",
					Model:       "llama-3.1-sonar-small-128k-online",
					Temperature: 0.2,
					MaxTokens:   500,
				},
			},
		},
	}
}

// Load reads the YAML file at path on top of the defaults. A missing file
// is not an error. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}
	cfg.applyEnv()
	cfg.fillProviderDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("FIRECRAWL_API_URL"); v != "" {
		c.Scrape.BaseURL = v
	}
	if v := os.Getenv("LIMBOSCRAPE_PROVIDER"); v != "" {
		c.Analysis.DefaultProvider = v
	}
}

// fillProviderDefaults lets a config file override single provider fields
// without restating the whole block.
func (c *Config) fillProviderDefaults() {
	defaults := Default().Analysis.Providers
	if c.Analysis.Providers == nil {
		c.Analysis.Providers = make(map[string]ProviderConfig, len(defaults))
	}
	for tag, def := range defaults {
		p, ok := c.Analysis.Providers[tag]
		if !ok {
			c.Analysis.Providers[tag] = def
			continue
		}
		if p.API == "" {
			p.API = def.API
		}
		if p.Label == "" {
			p.Label = def.Label
		}
		if p.BaseURL == "" && p.API == def.API {
			p.BaseURL = def.BaseURL
		}
		if p.Model == "" && p.API == def.API {
			p.Model = def.Model
		}
		if p.Temperature == 0 && p.API == def.API {
			p.Temperature = def.Temperature
		}
		if p.MaxTokens == 0 {
			p.MaxTokens = def.MaxTokens
		}
		c.Analysis.Providers[tag] = p
	}
}

// Validate checks the configuration for values the tool cannot run with.
func (c *Config) Validate() error {
	if c.Scrape.BaseURL == "" {
		return fmt.Errorf("scrape.base_url is required")
	}
	if c.Scrape.CrawlLimit <= 0 {
		return fmt.Errorf("scrape.crawl_limit must be positive, got %d", c.Scrape.CrawlLimit)
	}
	if c.Scrape.PollInterval <= 0 {
		return fmt.Errorf("scrape.poll_interval must be positive")
	}
	if c.Analysis.MaxContentChars <= 0 {
		return fmt.Errorf("analysis.max_content_chars must be positive, got %d", c.Analysis.MaxContentChars)
	}
	if c.Analysis.MinContentLength <= 0 {
		return fmt.Errorf("analysis.min_content_length must be positive, got %d", c.Analysis.MinContentLength)
	}
	if !IsProviderTag(c.Analysis.DefaultProvider) {
		return fmt.Errorf("unknown default provider: %s (supported: primary, secondary)", c.Analysis.DefaultProvider)
	}
	for tag, p := range c.Analysis.Providers {
		if !IsProviderTag(tag) {
			return fmt.Errorf("unknown provider tag: %s (supported: primary, secondary)", tag)
		}
		switch p.API {
		case APIOpenAI:
			if p.BaseURL == "" {
				return fmt.Errorf("provider %s: base_url is required for the openai api", tag)
			}
			if p.Temperature <= 0 {
				return fmt.Errorf("provider %s: temperature must be positive for the openai api", tag)
			}
		case APIAnthropic:
		default:
			return fmt.Errorf("provider %s: unknown api %q (supported: openai, anthropic)", tag, p.API)
		}
		if p.Model == "" {
			return fmt.Errorf("provider %s: model is required", tag)
		}
		if p.MaxTokens <= 0 {
			return fmt.Errorf("provider %s: max_tokens must be positive", tag)
		}
		if p.Temperature < 0 {
			return fmt.Errorf("provider %s: temperature must not be negative", tag)
		}
	}
	return nil
}

// Provider returns the configuration for a provider tag.
func (c *Config) Provider(tag string) (ProviderConfig, error) {
	p, ok := c.Analysis.Providers[tag]
	if !ok {
		return ProviderConfig{}, fmt.Errorf("unknown provider: %s (supported: primary, secondary)", tag)
	}
	return p, nil
}

// IsProviderTag reports whether tag names one of the two providers.
func IsProviderTag(tag string) bool {
	return tag == ProviderPrimary || tag == ProviderSecondary
}

// DefaultProfileDir returns the directory holding credentials and config
// when no profile is given.
func DefaultProfileDir() (string, error) {
	if v := os.Getenv("LIMBOSCRAPE_PROFILE"); v != "" {
		return v, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return filepath.Join(dir, "limboscrape"), nil
}
