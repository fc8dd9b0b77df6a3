// Package pipeline sequences scraping, content extraction and optional
// analysis for one submitted URL.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/v0xg/limboscrape/internal/ai"
	"github.com/v0xg/limboscrape/internal/credentials"
	"github.com/v0xg/limboscrape/internal/logging"
	"github.com/v0xg/limboscrape/internal/scraper"
	"github.com/v0xg/limboscrape/internal/session"
)

// DefaultMinContentLength is the content length analysis requires, exclusive.
const DefaultMinContentLength = 50

const (
	msgMissingKey   = "Please configure your Firecrawl API key first"
	msgInvalidURL   = "Please enter a valid URL including http:// or https://"
	msgScrapeFailed = "Failed to scrape website"
	msgNoContent    = "No content found on the webpage"
)

// Scraper fetches one URL.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*scraper.ScrapeResult, error)
}

// ScraperFactory builds a scraper bound to an API key.
type ScraperFactory func(apiKey string) Scraper

// Analyzer runs the analysis step.
type Analyzer interface {
	HasKey(tag string) bool
	Label(tag string) string
	Analyze(ctx context.Context, content, tag string) (*ai.Analysis, error)
}

// KeySource looks up stored credentials.
type KeySource interface {
	Get(name credentials.Name) (string, bool)
}

// Options tunes a pipeline.
type Options struct {
	MinContentLength int
	Observer         Observer
	Logger           *slog.Logger
}

// Pipeline runs submissions one at a time.
type Pipeline struct {
	keys             KeySource
	newScraper       ScraperFactory
	analyzer         Analyzer
	minContentLength int
	observer         Observer
	logger           *slog.Logger

	running atomic.Bool

	mu         sync.Mutex
	scraper    Scraper
	scraperKey string
	progress   Progress
}

// New creates a pipeline. analyzer may be nil, in which case the analysis
// step is always skipped.
func New(keys KeySource, newScraper ScraperFactory, analyzer Analyzer, opts Options) *Pipeline {
	if opts.MinContentLength <= 0 {
		opts.MinContentLength = DefaultMinContentLength
	}
	return &Pipeline{
		keys:             keys,
		newScraper:       newScraper,
		analyzer:         analyzer,
		minContentLength: opts.MinContentLength,
		observer:         opts.Observer,
		logger:           logging.OrDiscard(opts.Logger),
	}
}

// Progress returns the current progress of the in-flight submission.
func (p *Pipeline) Progress() Progress {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.progress
}

// Run processes rawURL and returns the composed result. provider selects
// the analysis provider tag. Fatal failures are returned as *Error;
// analysis failures are logged and leave Analysis nil.
func (p *Pipeline) Run(ctx context.Context, rawURL, provider string) (*session.Result, error) {
	if !p.running.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer p.running.Store(false)
	defer p.setProgress(Progress{State: Idle})

	rawURL = strings.TrimSpace(rawURL)
	p.setProgress(Progress{State: Validating, Percent: 0, Step: "Initializing..."})

	key, ok := p.keys.Get(credentials.Scrape)
	if !ok {
		return nil, p.fail(&Error{Kind: MissingCredential, State: Validating, Message: msgMissingKey, Err: scraper.ErrNoAPIKey})
	}
	if err := validateURL(rawURL); err != nil {
		return nil, p.fail(&Error{Kind: InvalidInput, State: Validating, Message: msgInvalidURL, Err: err})
	}

	p.setProgress(Progress{State: Scraping, Percent: 25, Step: "Scraping website content..."})
	res, err := p.scraperFor(key).Scrape(ctx, rawURL)
	if err != nil || res == nil || !res.Success {
		msg := msgScrapeFailed
		if res != nil && res.Error != "" {
			msg = res.Error
		} else if err != nil && err.Error() != "" {
			msg = err.Error()
		}
		return nil, p.fail(&Error{Kind: VendorFailure, State: Scraping, Message: msg, Err: err})
	}

	p.setProgress(Progress{State: Extracting, Percent: 50, Step: "Processing content..."})
	content := extractContent(res)
	if strings.TrimSpace(content) == "" || content == "{}" {
		p.logger.Debug("scrape returned no content", "url", rawURL)
		return nil, p.fail(&Error{Kind: EmptyContent, State: Extracting, Message: msgNoContent})
	}

	var metadata *scraper.PageMetadata
	if res.Data != nil {
		metadata = res.Data.Metadata
	}

	var analysis *ai.Analysis
	var analyzedBy string
	if p.shouldAnalyze(content, provider) {
		label := p.analyzer.Label(provider)
		p.setProgress(Progress{State: Analyzing, Percent: 75, Step: "Analyzing content with " + label + "..."})

		a, err := p.analyzer.Analyze(ctx, content, provider)
		if err != nil {
			kind := VendorFailure
			var parseErr *ai.ParseError
			if errors.As(err, &parseErr) {
				kind = AnalysisParseFailure
			}
			p.logger.Warn("AI analysis failed", "provider", label, "kind", kind.String(), "error", err)
		} else {
			analysis = a
			analyzedBy = label
		}
	}

	p.setProgress(Progress{State: Done, Percent: 100, Step: "Complete!"})
	return session.NewResult(rawURL, metadata, content, analysis, analyzedBy), nil
}

func (p *Pipeline) shouldAnalyze(content, provider string) bool {
	if p.analyzer == nil || !p.analyzer.HasKey(provider) {
		return false
	}
	return utf8.RuneCountInString(content) > p.minContentLength
}

// scraperFor returns a scraper bound to key, rebuilding it when the key changed.
func (p *Pipeline) scraperFor(key string) Scraper {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.scraper == nil || p.scraperKey != key {
		p.scraper = p.newScraper(key)
		p.scraperKey = key
	}
	return p.scraper
}

func (p *Pipeline) setProgress(pr Progress) {
	p.mu.Lock()
	p.progress = pr
	p.mu.Unlock()
	if p.observer != nil {
		p.observer(pr)
	}
}

func (p *Pipeline) fail(e *Error) error {
	p.logger.Debug("submission failed", "state", e.State.String(), "kind", e.Kind.String(), "error", e.Message)
	p.setProgress(Progress{State: Failed, Percent: p.Progress().Percent, Step: e.Message})
	return e
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return errors.New("url must be absolute with a scheme and host")
	}
	return nil
}

// extractContent picks markdown, then HTML, then a JSON dump of whatever
// data came back.
func extractContent(res *scraper.ScrapeResult) string {
	if res.Data == nil {
		return "{}"
	}
	if res.Data.Markdown != "" {
		return res.Data.Markdown
	}
	if res.Data.HTML != "" {
		return res.Data.HTML
	}
	raw, err := json.Marshal(res.Data)
	if err != nil {
		return "{}"
	}
	return string(raw)
}
