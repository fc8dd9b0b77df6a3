// Package scraper retrieves page content through the Firecrawl API.
package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	firecrawl "github.com/mendableai/firecrawl-go/v2"
	"github.com/v0xg/limboscrape/internal/logging"
)

const (
	// DefaultBaseURL is the API root; the SDK appends the versioned paths.
	DefaultBaseURL      = "https://api.firecrawl.dev"
	DefaultCrawlLimit   = 10
	DefaultPollInterval = 2 * time.Second

	// testURL is scraped to check whether a key is accepted.
	testURL = "https://example.com"
)

var (
	// IncludeTags restricts extraction to semantic content tags.
	IncludeTags = []string{"title", "meta", "h1", "h2", "h3", "p", "article"}
	// ExcludeTags drops boilerplate tags.
	ExcludeTags = []string{"nav", "footer", "script", "style"}
)

// ErrNoAPIKey is returned when an operation needs a key and none is set.
var ErrNoAPIKey = errors.New("Firecrawl API key not found")

// VendorError is a failure reported by, or on the way to, Firecrawl.
type VendorError struct {
	Op         string // "scrape", "crawl", "crawl status"
	StatusCode int    // zero when no non-2xx response was seen
	Message    string
	Err        error
}

func (e *VendorError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("firecrawl %s failed", e.Op)
}

func (e *VendorError) Unwrap() error {
	return e.Err
}

// Option modifies the client configuration.
type Option func(*Client)

// WithAPIKey sets the active API key.
func WithAPIKey(apiKey string) Option {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

// WithBaseURL sets the API root, without the version segment.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient sets the HTTP client whose transport and timeout the SDK uses.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithCrawlLimit sets the maximum number of pages a crawl may visit.
func WithCrawlLimit(limit int) Option {
	return func(c *Client) {
		if limit > 0 {
			c.crawlLimit = limit
		}
	}
}

// WithPollInterval sets how often crawl status is polled.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.OrDiscard(logger)
	}
}

// Client wraps the Firecrawl SDK with context cancellation and normalized
// results.
type Client struct {
	mu     sync.RWMutex
	apiKey string

	baseURL      string
	httpClient   *http.Client
	crawlLimit   int
	pollInterval time.Duration
	logger       *slog.Logger
}

// New creates a client. A missing key is not an error here; operations
// that need one fail with ErrNoAPIKey.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:      DefaultBaseURL,
		httpClient:   http.DefaultClient,
		crawlLimit:   DefaultCrawlLimit,
		pollInterval: DefaultPollInterval,
		logger:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIKey returns the active key.
func (c *Client) APIKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey
}

func scrapeParams(formats ...string) firecrawl.ScrapeParams {
	onlyMainContent := true
	return firecrawl.ScrapeParams{
		Formats:         formats,
		IncludeTags:     IncludeTags,
		ExcludeTags:     ExcludeTags,
		OnlyMainContent: &onlyMainContent,
	}
}

// TestKey scrapes a fixed page with candidate and reports whether Firecrawl
// accepted it. On success the client switches to candidate.
func (c *Client) TestKey(ctx context.Context, candidate string) bool {
	if candidate == "" {
		return false
	}
	c.logger.Debug("testing firecrawl api key")

	app, _, err := c.app(ctx, candidate)
	if err != nil {
		return false
	}
	params := scrapeParams("markdown")
	if _, err := app.ScrapeURL(testURL, &params); err != nil {
		c.logger.Debug("firecrawl api key rejected", "error", err)
		return false
	}

	c.mu.Lock()
	c.apiKey = candidate
	c.mu.Unlock()
	return true
}

// Scrape fetches markdown and HTML renderings of the main content of url.
// The returned result is never nil; err is non-nil exactly when the result
// is unsuccessful.
func (c *Client) Scrape(ctx context.Context, url string) (*ScrapeResult, error) {
	result := &ScrapeResult{URL: url}
	key := c.APIKey()
	if key == "" {
		result.Error = ErrNoAPIKey.Error()
		return result, ErrNoAPIKey
	}

	app, rec, err := c.app(ctx, key)
	if err != nil {
		return fail(result, &VendorError{Op: "scrape", Err: err})
	}

	c.logger.Info("scraping url", "url", url)
	params := scrapeParams("markdown", "html")
	doc, err := app.ScrapeURL(url, &params)
	if err != nil {
		return fail(result, rec.vendorError("scrape", err))
	}

	var data Document
	if err := normalize(doc, &data); err != nil {
		return fail(result, &VendorError{Op: "scrape", Err: fmt.Errorf("failed to parse scrape response: %w", err)})
	}

	result.Success = true
	if doc != nil {
		result.Data = &data
	}
	c.logger.Debug("scrape successful", "url", url)
	return result, nil
}

// Crawl starts a crawl of up to the configured page limit and waits for it
// to finish. Like Scrape, the result is never nil.
func (c *Client) Crawl(ctx context.Context, url string) (*CrawlResult, error) {
	result := &CrawlResult{URL: url}
	key := c.APIKey()
	if key == "" {
		result.Error = ErrNoAPIKey.Error()
		return result, ErrNoAPIKey
	}

	app, rec, err := c.app(ctx, key)
	if err != nil {
		return failCrawl(result, &VendorError{Op: "crawl", Err: err})
	}

	c.logger.Info("starting crawl", "url", url, "limit", c.crawlLimit)
	limit := c.crawlLimit
	started, err := app.AsyncCrawlURL(url, &firecrawl.CrawlParams{
		Limit:         &limit,
		ScrapeOptions: scrapeParams("markdown"),
	}, nil)
	if err != nil {
		return failCrawl(result, rec.vendorError("crawl", err))
	}
	var start crawlStartResponse
	if err := normalize(started, &start); err != nil || start.ID == "" {
		return failCrawl(result, &VendorError{Op: "crawl", Message: "Failed to crawl website", Err: err})
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		resp, err := app.CheckCrawlStatus(start.ID)
		if err != nil {
			if ctx.Err() != nil {
				return failCrawl(result, ctx.Err())
			}
			return failCrawl(result, rec.vendorError("crawl status", err))
		}
		var status crawlStatusResponse
		if err := normalize(resp, &status); err != nil {
			return failCrawl(result, &VendorError{Op: "crawl status", Err: fmt.Errorf("failed to parse crawl status: %w", err)})
		}
		c.logger.Debug("crawl status", "id", start.ID, "status", status.Status,
			"completed", status.Completed, "total", status.Total)

		switch status.Status {
		case "completed":
			result.Success = true
			result.Status = status.Status
			result.Completed = status.Completed
			result.Total = status.Total
			result.CreditsUsed = status.CreditsUsed
			result.ExpiresAt = status.ExpiresAt
			result.Data = status.Data
			return result, nil
		case "failed", "cancelled":
			result.Status = status.Status
			return failCrawl(result, &VendorError{Op: "crawl", Message: "crawl " + status.Status})
		}

		select {
		case <-ctx.Done():
			return failCrawl(result, ctx.Err())
		case <-ticker.C:
		}
	}
}

// app builds an SDK client for key whose requests carry ctx.
func (c *Client) app(ctx context.Context, key string) (*firecrawl.FirecrawlApp, *statusRecorder, error) {
	app, err := firecrawl.NewFirecrawlApp(key, c.baseURL)
	if err != nil {
		return nil, nil, err
	}
	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	rec := &statusRecorder{ctx: ctx, base: base}
	app.Client = &http.Client{Transport: rec, Timeout: c.httpClient.Timeout}
	return app, rec, nil
}

// statusRecorder binds SDK requests to a context and remembers the last
// non-2xx status, which the SDK only reports as text.
type statusRecorder struct {
	ctx  context.Context
	base http.RoundTripper

	mu     sync.Mutex
	status int
}

func (r *statusRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := r.base.RoundTrip(req.WithContext(r.ctx))
	if err != nil {
		return nil, fmt.Errorf("Failed to connect to Firecrawl API: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.mu.Lock()
		r.status = resp.StatusCode
		r.mu.Unlock()
	}
	return resp, nil
}

func (r *statusRecorder) vendorError(op string, err error) *VendorError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &VendorError{Op: op, StatusCode: r.status, Message: err.Error(), Err: err}
}

// normalize copies an SDK value into one of our types through its JSON
// form; both follow the Firecrawl wire names.
func normalize(from, to any) error {
	raw, err := json.Marshal(from)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, to)
}

func fail(result *ScrapeResult, err error) (*ScrapeResult, error) {
	result.Success = false
	result.Error = err.Error()
	return result, err
}

func failCrawl(result *CrawlResult, err error) (*CrawlResult, error) {
	result.Success = false
	result.Error = err.Error()
	return result, err
}
