package wordlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterEnglishASCII(t *testing.T) {
	filter := FilterForLang("en")
	require.True(t, filter("hello"))
	for _, word := range []string{"résumé", "naïve", "don’t", "co-op", ""} {
		require.False(t, filter(word), word)
	}
	require.True(t, FilterForLang("de")("Straße"))
}

func TestLoadFallsBackToEmbeddedEnglish(t *testing.T) {
	words, source, err := Load("en", filepath.Join(t.TempDir(), "missing.txt"))
	require.NoError(t, err)
	require.Equal(t, "embedded:en", source)
	require.Greater(t, len(words), 500)
	for _, w := range words {
		require.True(t, FilterForLang("en")(w), w)
	}
}

func TestLoadMissingNonEmbeddedLang(t *testing.T) {
	_, _, err := Load("fr", filepath.Join(t.TempDir(), "fr.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFiltersFileWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en.txt")
	require.NoError(t, os.WriteFile(path, []byte("alpha\n\nBeta\ngamma\n  delta  \n"), 0o644))

	words, source, err := Load("en", path)
	require.NoError(t, err)
	require.Equal(t, path, source)
	require.Equal(t, []string{"alpha", "gamma", "delta"}, words)
}

func TestLoadWordsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n\n"), 0o644))
	_, err := LoadWords(path)
	require.ErrorContains(t, err, "empty")
}
