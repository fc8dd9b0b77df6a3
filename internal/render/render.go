// Package render formats results, credential status and crawl summaries
// for the terminal.
package render

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/lipgloss"
	"github.com/v0xg/limboscrape/internal/ai"
	"github.com/v0xg/limboscrape/internal/credentials"
	"github.com/v0xg/limboscrape/internal/scraper"
	"github.com/v0xg/limboscrape/internal/session"
)

// DefaultPreviewChars is how much content the result view shows.
const DefaultPreviewChars = 500

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginTop(1)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Padding(0, 1)

	contentStyle = lipgloss.NewStyle().
			Padding(0, 2)

	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	badStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// PageTitle returns the title shown for a result.
func PageTitle(r *session.Result) string {
	if t := r.Title(); t != "" {
		return t
	}
	return "Untitled Page"
}

// PageDescription returns the description shown for a result.
func PageDescription(r *session.Result) string {
	if r.Metadata != nil {
		if r.Metadata.Description != "" {
			return r.Metadata.Description
		}
		if r.Metadata.OgDescription != "" {
			return r.Metadata.OgDescription
		}
	}
	return "No description available"
}

// Host returns the hostname of rawURL, or rawURL itself when it does not parse.
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	return u.Hostname()
}

// ContentSize formats content length in thousands of characters, rounded.
func ContentSize(content string) string {
	n := utf8.RuneCountInString(content)
	return fmt.Sprintf("%dk chars", int(math.Round(float64(n)/1000)))
}

// SentimentIcon maps a sentiment to its marker. Unknown values read as neutral.
func SentimentIcon(s ai.Sentiment) string {
	switch ai.Sentiment(strings.ToLower(string(s))) {
	case ai.SentimentPositive:
		return "😊"
	case ai.SentimentNegative:
		return "😟"
	default:
		return "😐"
	}
}

func sentimentStyle(s ai.Sentiment) lipgloss.Style {
	switch ai.Sentiment(strings.ToLower(string(s))) {
	case ai.SentimentPositive:
		return okStyle
	case ai.SentimentNegative:
		return badStyle
	default:
		return warnStyle
	}
}

// Preview returns up to limit runes of readable text. HTML content is reduced
// to its text first.
func Preview(content string, limit int) string {
	text := content
	if looksLikeHTML(content) {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(content)); err == nil {
			doc.Find("script,style,noscript").Remove()
			text = doc.Text()
		}
	}
	text = strings.Join(strings.Fields(text), " ")
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + "..."
}

func looksLikeHTML(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "<") && strings.Contains(s, ">")
}

// Result renders the full result view.
func Result(r *session.Result, previewChars int) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(PageTitle(r)))
	b.WriteString("\n")
	b.WriteString(PageDescription(r))
	b.WriteString("\n")

	meta := []string{Host(r.URL)}
	if r.Metadata != nil && r.Metadata.Language != "" {
		meta = append(meta, strings.ToUpper(r.Metadata.Language))
	}
	meta = append(meta, r.CreatedAt.Format("2006-01-02"))
	b.WriteString(metaStyle.Render(strings.Join(meta, " · ")))
	b.WriteString("\n")

	if a := r.Analysis; a != nil {
		heading := "AI Analysis"
		if r.Provider != "" {
			heading += " (" + r.Provider + ")"
		}
		b.WriteString(headingStyle.Render(heading))
		b.WriteString("\n")
		if a.Summary != "" {
			b.WriteString(contentStyle.Render(a.Summary))
			b.WriteString("\n")
		}
		if len(a.Keywords) > 0 {
			b.WriteString("Keywords: ")
			for i, k := range a.Keywords {
				if i > 0 {
					b.WriteString(" ")
				}
				b.WriteString(badgeStyle.Render(k))
			}
			b.WriteString("\n")
		}
		if a.Classification != "" {
			fmt.Fprintf(&b, "Category: %s\n", badgeStyle.Render(a.Classification))
		}
		if a.Sentiment != "" {
			fmt.Fprintf(&b, "Sentiment: %s %s\n", SentimentIcon(a.Sentiment), sentimentStyle(a.Sentiment).Render(string(a.Sentiment)))
		}
	}

	b.WriteString(headingStyle.Render("Scraped Content"))
	b.WriteString(" ")
	b.WriteString(metaStyle.Render(ContentSize(r.Content)))
	b.WriteString("\n")
	b.WriteString(contentStyle.Render(Preview(r.Content, previewChars)))
	b.WriteString("\n")

	return b.String()
}

// ResultList renders one line per result, most recent first.
func ResultList(results []*session.Result) string {
	if len(results) == 0 {
		return metaStyle.Render("No results yet.") + "\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d result(s)\n", len(results))
	for _, r := range results {
		marker := " "
		if r.Analysis != nil {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %s  %s  %s\n", marker, shortID(r.ID), PageTitle(r), metaStyle.Render(r.URL))
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// KeyStatus renders which credentials are configured.
func KeyStatus(status map[credentials.Name]bool) string {
	var b strings.Builder
	for _, name := range credentials.Names {
		mark := badStyle.Render("✗ not configured")
		if status[name] {
			mark = okStyle.Render("✓ configured")
		}
		fmt.Fprintf(&b, "%-14s %s\n", name, mark)
	}
	return b.String()
}

// Crawl renders a crawl summary with one line per page.
func Crawl(res *scraper.CrawlResult) string {
	var b strings.Builder
	status := res.Status
	if status == "" {
		status = "unknown"
	}
	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render("Crawl "+status), metaStyle.Render(res.URL))
	fmt.Fprintf(&b, "Pages: %d/%d  Credits used: %d\n", res.Completed, res.Total, res.CreditsUsed)
	if res.Error != "" {
		b.WriteString(badStyle.Render(res.Error))
		b.WriteString("\n")
	}
	for _, doc := range res.Data {
		title, source := "Untitled Page", ""
		if doc.Metadata != nil {
			if doc.Metadata.Title != "" {
				title = doc.Metadata.Title
			} else if doc.Metadata.OgTitle != "" {
				title = doc.Metadata.OgTitle
			}
			source = doc.Metadata.SourceURL
		}
		content := doc.Markdown
		if content == "" {
			content = doc.HTML
		}
		fmt.Fprintf(&b, "- %s %s %s\n", title, metaStyle.Render(source), metaStyle.Render("("+ContentSize(content)+")"))
	}
	return b.String()
}
