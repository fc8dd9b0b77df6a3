package session

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/v0xg/limboscrape/internal/scraper"
)

func TestResults_MostRecentFirst(t *testing.T) {
	results := NewResults()
	require.Zero(t, results.Len())
	require.Empty(t, results.List())

	first := NewResult("https://a.example", nil, "a", nil, "")
	second := NewResult("https://b.example", nil, "b", nil, "")
	results.Add(first)
	results.Add(second)

	list := results.List()
	require.Len(t, list, 2)
	require.Same(t, second, list[0])
	require.Same(t, first, list[1])

	// The snapshot is detached from the list.
	list[0] = nil
	require.Same(t, second, results.List()[0])
}

func TestResults_GetAndClear(t *testing.T) {
	results := NewResults()
	r := NewResult("https://a.example", nil, "a", nil, "")
	results.Add(r)

	got, ok := results.Get(r.ID)
	require.True(t, ok)
	require.Same(t, r, got)

	got, ok = results.Get(r.ID[:8])
	require.True(t, ok)
	require.Same(t, r, got)

	_, ok = results.Get(r.ID[:2])
	require.False(t, ok, "prefixes shorter than four characters are ambiguous")

	results.Clear()
	require.Zero(t, results.Len())
	_, ok = results.Get(r.ID)
	require.False(t, ok)
}

func TestResult_Title(t *testing.T) {
	require.Empty(t, (&Result{}).Title())
	require.Equal(t, "OG", (&Result{Metadata: &scraper.PageMetadata{OgTitle: "OG"}}).Title())
	require.Equal(t, "T", (&Result{Metadata: &scraper.PageMetadata{Title: "T", OgTitle: "OG"}}).Title())
}
