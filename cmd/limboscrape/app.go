package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/v0xg/limboscrape/internal/ai"
	"github.com/v0xg/limboscrape/internal/config"
	"github.com/v0xg/limboscrape/internal/credentials"
	"github.com/v0xg/limboscrape/internal/logging"
	"github.com/v0xg/limboscrape/internal/pipeline"
	"github.com/v0xg/limboscrape/internal/scraper"
)

// app holds everything a command needs, built from the global flags.
type app struct {
	cfg      *config.Config
	store    *credentials.Store
	logger   *slog.Logger
	analyzer *ai.Analyzer
	out      io.Writer
	errOut   io.Writer
}

func newApp(cmd *cobra.Command) (*app, error) {
	logger := logging.New(cmd.ErrOrStderr(), resolveLogLevel())

	dir := profileDir
	if dir == "" {
		var err error
		if dir, err = config.DefaultProfileDir(); err != nil {
			return nil, err
		}
	}

	path := configPath
	if path == "" {
		path = filepath.Join(dir, config.DefaultConfigFile)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("configuration loaded", "profile", dir, "config", path)

	store, err := credentials.Open(dir, logger)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		store:  store,
		logger: logger,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}
	a.analyzer = ai.NewAnalyzer(cfg, store, ai.Settings{
		HTTPClient: httpClient(cfg.Analysis.Timeout),
		Logger:     logger,
	})
	return a, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func resolveLogLevel() slog.Level {
	if logLevel != "" {
		return logging.LevelFromString(logLevel)
	}
	if verbose {
		return slog.LevelDebug
	}
	return logging.DefaultLevel
}

// httpClient returns nil when no timeout is configured, leaving each client
// on its default.
func httpClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		return nil
	}
	return &http.Client{Timeout: timeout}
}

func (a *app) newScraper(apiKey string) *scraper.Client {
	opts := []scraper.Option{
		scraper.WithAPIKey(apiKey),
		scraper.WithBaseURL(a.cfg.Scrape.BaseURL),
		scraper.WithCrawlLimit(a.cfg.Scrape.CrawlLimit),
		scraper.WithPollInterval(a.cfg.Scrape.PollInterval),
		scraper.WithLogger(a.logger),
	}
	if hc := httpClient(a.cfg.Scrape.Timeout); hc != nil {
		opts = append(opts, scraper.WithHTTPClient(hc))
	}
	return scraper.New(opts...)
}

func (a *app) newPipeline(observer pipeline.Observer) *pipeline.Pipeline {
	return pipeline.New(a.store, func(apiKey string) pipeline.Scraper {
		return a.newScraper(apiKey)
	}, a.analyzer, pipeline.Options{
		MinContentLength: a.cfg.Analysis.MinContentLength,
		Observer:         observer,
		Logger:           a.logger,
	})
}

// resolveProvider picks the --provider flag value or the configured default.
func (a *app) resolveProvider(flag string) (string, error) {
	tag := flag
	if tag == "" {
		tag = a.cfg.Analysis.DefaultProvider
	}
	if !config.IsProviderTag(tag) {
		return "", fmt.Errorf("unknown provider: %s (supported: primary, secondary)", tag)
	}
	return tag, nil
}
