package scraper

// Document is the page content returned by a scrape, or one page of a crawl.
type Document struct {
	Markdown string        `json:"markdown,omitempty"`
	HTML     string        `json:"html,omitempty"`
	Metadata *PageMetadata `json:"metadata,omitempty"`
}

// PageMetadata holds the optional page-level fields Firecrawl reports.
type PageMetadata struct {
	Title             string   `json:"title,omitempty" yaml:"title,omitempty"`
	Description       string   `json:"description,omitempty" yaml:"description,omitempty"`
	Language          string   `json:"language,omitempty" yaml:"language,omitempty"`
	Keywords          string   `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Robots            string   `json:"robots,omitempty" yaml:"robots,omitempty"`
	OgTitle           string   `json:"ogTitle,omitempty" yaml:"og_title,omitempty"`
	OgDescription     string   `json:"ogDescription,omitempty" yaml:"og_description,omitempty"`
	OgURL             string   `json:"ogUrl,omitempty" yaml:"og_url,omitempty"`
	OgImage           string   `json:"ogImage,omitempty" yaml:"og_image,omitempty"`
	OgLocaleAlternate []string `json:"ogLocaleAlternate,omitempty" yaml:"og_locale_alternate,omitempty"`
	OgSiteName        string   `json:"ogSiteName,omitempty" yaml:"og_site_name,omitempty"`
	SourceURL         string   `json:"sourceURL,omitempty" yaml:"source_url,omitempty"`
	StatusCode        int      `json:"statusCode,omitempty" yaml:"status_code,omitempty"`
}

// ScrapeResult is the normalized outcome of scraping one URL.
type ScrapeResult struct {
	URL     string    `json:"url"`
	Success bool      `json:"success"`
	Data    *Document `json:"data,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// CrawlResult is the normalized outcome of crawling a site.
type CrawlResult struct {
	URL         string     `json:"url" yaml:"url"`
	Success     bool       `json:"success" yaml:"success"`
	Status      string     `json:"status,omitempty" yaml:"status,omitempty"`
	Completed   int        `json:"completed" yaml:"completed"`
	Total       int        `json:"total" yaml:"total"`
	CreditsUsed int        `json:"creditsUsed" yaml:"credits_used"`
	ExpiresAt   string     `json:"expiresAt,omitempty" yaml:"expires_at,omitempty"`
	Data        []Document `json:"data,omitempty" yaml:"data,omitempty"`
	Error       string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// crawlStartResponse and crawlStatusResponse receive the SDK's crawl
// responses after normalize.
type crawlStartResponse struct {
	ID string `json:"id"`
}

type crawlStatusResponse struct {
	Status      string     `json:"status"`
	Completed   int        `json:"completed"`
	Total       int        `json:"total"`
	CreditsUsed int        `json:"creditsUsed"`
	ExpiresAt   string     `json:"expiresAt"`
	Data        []Document `json:"data"`
}
