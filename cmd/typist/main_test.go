package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typist/internal/model"
	"github.com/verte-zerg/typist/internal/typing"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestResolvePracticeConfigFlagsWin(t *testing.T) {
	path := writeConfig(t, `
[practice]
lang = "de"
words = 40
time-limit = "45s"

[typing]
pause-on-error = true
count-errors = "everytime"
`)
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--words", "10", "--count-errors", "once"}))

	cfg, err := resolvePracticeConfig(cmd, path)
	require.NoError(t, err)
	require.Equal(t, "de", cfg.Lang)
	require.Equal(t, 10, cfg.Words)
	require.Equal(t, 45*time.Second, cfg.TimeLimit)
	require.True(t, cfg.Typing.PauseOnError)
	require.True(t, cfg.Typing.SkipWordOnSpace)
	require.Equal(t, typing.Once, cfg.Typing.CountErrors)
	require.NoError(t, validateConfig(cfg))
}

func TestResolvePracticeConfigRejectsBadValues(t *testing.T) {
	cmd := newRootCmd()
	_, err := resolvePracticeConfig(cmd, writeConfig(t, "[typing]\ncount-errors = \"twice\"\n"))
	require.ErrorContains(t, err, "--count-errors")

	cmd = newRootCmd()
	_, err = resolvePracticeConfig(cmd, writeConfig(t, "[practice]\ntime-limit = \"soon\"\n"))
	require.ErrorContains(t, err, "time-limit")
}

func TestValidateConfig(t *testing.T) {
	base := model.Config{Words: 5, PunctSet: ".", PunctPct: 0.5}
	require.NoError(t, validateConfig(base))

	cases := map[string]func(*model.Config){
		"--words":      func(c *model.Config) { c.Words = 0 },
		"--caps":       func(c *model.Config) { c.CapsPct = 1.5 },
		"--punct-set":  func(c *model.Config) { c.PunctSet = "" },
		"--weak-top":   func(c *model.Config) { c.WeakTop = -1 },
		"--time-limit": func(c *model.Config) { c.TimeLimit = -time.Second },
	}
	for flag, mutate := range cases {
		cfg := base
		mutate(&cfg)
		require.ErrorContains(t, validateConfig(cfg), flag)
	}

	fileMode := model.Config{TextFile: "x.txt"}
	require.NoError(t, validateConfig(fileMode), "word count is unused for text files")
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var out map[string]any
	_, err := toml.Decode(defaultConfigTemplate(), &out)
	require.NoError(t, err)
}

func TestAvailableLangs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"de.txt", "fr.txt", "notes.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x\n"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755))

	langs, err := availableLangs(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"de", "en", "fr"}, langs)

	langs, err = availableLangs(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	require.Equal(t, []string{"en"}, langs)
}

func TestParseSince(t *testing.T) {
	since, err := parseSince("")
	require.NoError(t, err)
	require.Nil(t, since)

	since, err = parseSince("2024-03-05")
	require.NoError(t, err)
	require.Equal(t, 5, since.Day())

	_, err = parseSince("yesterday")
	require.Error(t, err)
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "export.yaml")
	require.NoError(t, writeFileAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "sessions: []\n")
		return err
	}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "sessions: []\n", string(data))

	failing := filepath.Join(t.TempDir(), "fail.yaml")
	boom := errors.New("boom")
	require.ErrorIs(t, writeFileAtomic(failing, func(io.Writer) error { return boom }), boom)
	_, err = os.Stat(failing)
	require.True(t, os.IsNotExist(err))
}
