package credentials

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, n := range Names {
		t.Setenv(n.EnvVar(), "")
	}
}

func openTestStore(t *testing.T, dir string) *Store {
	t.Helper()
	s, err := Open(dir, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SaveGet(t *testing.T) {
	clearEnv(t)
	s := openTestStore(t, t.TempDir())

	_, ok := s.Get(Scrape)
	require.False(t, ok)
	require.False(t, s.Has(Scrape))

	require.NoError(t, s.Save(Scrape, "fc-123"))
	v, ok := s.Get(Scrape)
	require.True(t, ok)
	require.Equal(t, "fc-123", v)

	// Overwrites silently.
	require.NoError(t, s.Save(Scrape, "fc-456"))
	v, ok = s.Get(Scrape)
	require.True(t, ok)
	require.Equal(t, "fc-456", v)

	// No format validation.
	require.NoError(t, s.Save(LLMPrimary, "  not a key "))
	v, _ = s.Get(LLMPrimary)
	require.Equal(t, "  not a key ", v)
}

func TestStore_DurableAcrossOpen(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	s, err := Open(dir, nil)
	require.NoError(t, err)
	require.NoError(t, s.Save(LLMSecondary, "pplx-1"))
	require.NoError(t, s.Close())

	reopened := openTestStore(t, dir)
	v, ok := reopened.Get(LLMSecondary)
	require.True(t, ok)
	require.Equal(t, "pplx-1", v)
	require.Equal(t, filepath.Join(dir, DBFile), reopened.Path())
}

func TestStore_EnvFallback(t *testing.T) {
	clearEnv(t)
	s := openTestStore(t, t.TempDir())

	t.Setenv("OPENROUTER_API_KEY", "from-env")
	v, ok := s.Get(LLMPrimary)
	require.True(t, ok)
	require.Equal(t, "from-env", v)

	require.NoError(t, s.Save(LLMPrimary, "stored"))
	v, _ = s.Get(LLMPrimary)
	require.Equal(t, "stored", v, "stored value wins over the environment")

	stored, err := s.Stored()
	require.NoError(t, err)
	require.Equal(t, []Name{LLMPrimary}, stored)
}

func TestStore_DeleteAndStatus(t *testing.T) {
	clearEnv(t)
	s := openTestStore(t, t.TempDir())

	require.NoError(t, s.Save(Scrape, "fc"))
	require.NoError(t, s.Save(LLMPrimary, "or"))
	require.Equal(t, map[Name]bool{Scrape: true, LLMPrimary: true, LLMSecondary: false}, s.Status())

	require.NoError(t, s.Delete(Scrape))
	require.NoError(t, s.Delete(Scrape))
	require.False(t, s.Has(Scrape))
}

func TestStore_GetAfterCloseReportsAbsence(t *testing.T) {
	clearEnv(t)
	s, err := Open(t.TempDir(), nil)
	require.NoError(t, err)
	require.NoError(t, s.Save(Scrape, "fc"))
	require.NoError(t, s.Close())

	_, ok := s.Get(Scrape)
	require.False(t, ok)

	var storeErr *StoreError
	require.True(t, errors.As(s.Save(Scrape, "x"), &storeErr))
	require.Equal(t, "save", storeErr.Op)
}

func TestParseName(t *testing.T) {
	n, err := ParseName("llm_secondary")
	require.NoError(t, err)
	require.Equal(t, LLMSecondary, n)

	_, err = ParseName("openai")
	require.Error(t, err)
}
