// Package session holds the results collected during one run of the tool.
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/v0xg/limboscrape/internal/ai"
	"github.com/v0xg/limboscrape/internal/scraper"
)

// Result is one completed submission: scraped content plus optional analysis.
type Result struct {
	ID        string                `json:"id" yaml:"id"`
	URL       string                `json:"url" yaml:"url"`
	Metadata  *scraper.PageMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Content   string                `json:"content" yaml:"content"`
	Analysis  *ai.Analysis          `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	Provider  string                `json:"provider,omitempty" yaml:"provider,omitempty"`
	CreatedAt time.Time             `json:"created_at" yaml:"created_at"`
}

// NewResult creates a result with a fresh id.
func NewResult(url string, metadata *scraper.PageMetadata, content string, analysis *ai.Analysis, provider string) *Result {
	return &Result{
		ID:        uuid.NewString(),
		URL:       url,
		Metadata:  metadata,
		Content:   content,
		Analysis:  analysis,
		Provider:  provider,
		CreatedAt: time.Now(),
	}
}

// Title returns the page title, falling back to the Open Graph title.
func (r *Result) Title() string {
	if r.Metadata != nil {
		if r.Metadata.Title != "" {
			return r.Metadata.Title
		}
		if r.Metadata.OgTitle != "" {
			return r.Metadata.OgTitle
		}
	}
	return ""
}

// Results is an in-memory, most-recent-first list of results.
type Results struct {
	mu    sync.RWMutex
	items []*Result
}

// NewResults creates an empty list.
func NewResults() *Results {
	return &Results{}
}

// Add puts r at the front of the list.
func (s *Results) Add(r *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]*Result{r}, s.items...)
}

// List returns a snapshot, most recent first.
func (s *Results) List() []*Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Result, len(s.items))
	copy(out, s.items)
	return out
}

// Get finds a result by id or id prefix.
func (s *Results) Get(id string) (*Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.items {
		if r.ID == id || (len(id) >= 4 && strings.HasPrefix(r.ID, id)) {
			return r, true
		}
	}
	return nil, false
}

// Len returns the number of results.
func (s *Results) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Clear removes every result.
func (s *Results) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}
