// Package wordlist loads word lists from files.
package wordlist

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

//go:embed default_en.txt
var defaultEnglish string

// EmbeddedLang is the language bundled into the binary.
const EmbeddedLang = "en"

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return ReadWords(file)
}

// ReadWords reads one word per line, skipping blanks.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}

// Load reads the list at path, falling back to the embedded list when the
// file does not exist and lang is the embedded language. The returned source
// names where the words came from.
func Load(lang, path string) (words []string, source string, err error) {
	words, err = LoadWords(path)
	if err == nil {
		return filterWords(words, lang), path, nil
	}
	if !errors.Is(err, fs.ErrNotExist) || !strings.EqualFold(lang, EmbeddedLang) {
		return nil, "", err
	}
	words, err = ReadWords(strings.NewReader(defaultEnglish))
	if err != nil {
		return nil, "", err
	}
	return words, "embedded:" + EmbeddedLang, nil
}

func filterWords(words []string, lang string) []string {
	keep := FilterForLang(lang)
	out := words[:0:0]
	for _, w := range words {
		if keep(w) {
			out = append(out, w)
		}
	}
	if len(out) == 0 {
		return words
	}
	return out
}
