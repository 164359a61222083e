// Package main provides the CLI entrypoint for typist.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typist/internal/config"
	"github.com/verte-zerg/typist/internal/generator"
	"github.com/verte-zerg/typist/internal/logging"
	"github.com/verte-zerg/typist/internal/model"
	"github.com/verte-zerg/typist/internal/stats"
	"github.com/verte-zerg/typist/internal/store"
	"github.com/verte-zerg/typist/internal/textfile"
	"github.com/verte-zerg/typist/internal/tui"
	"github.com/verte-zerg/typist/internal/typing"
	"github.com/verte-zerg/typist/internal/wordlist"
)

const (
	defaultLang        = "en"
	defaultWords       = 25
	defaultCaps        = 0.5
	defaultPunct       = 0.5
	defaultWeakTop     = 8
	defaultWeakFactor  = 2.0
	defaultWeakWindow  = 20
	defaultCurveWindow = 20
	defaultHistoryLast = 15
)

const defaultPunctSet = ".,!?;:\"'{}()[]-=/<>`"

var (
	practiceLang       string
	practiceWords      int
	practiceCaps       float64
	practicePunct      float64
	practicePunctSet   string
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakFactor float64
	practiceWeakWindow int
	practiceTextFile   string
	practiceTimeLimit  time.Duration

	typingSkipWord     bool
	typingPauseOnError bool
	typingCountErrors  string

	debugLog bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typist",
		Short:         "TUI typing trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "write a debug log (also enabled by "+logging.EnvDebug+")")
	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		return initDebugLog()
	}
	rootCmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		closeDebugLog()
	}

	defaults := typing.DefaultOptions()
	rootCmd.Flags().StringVar(&practiceLang, "lang", defaultLang, "language code (default: en)")
	rootCmd.Flags().IntVar(&practiceWords, "words", defaultWords, "words per text")
	rootCmd.Flags().Float64Var(&practiceCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	rootCmd.Flags().Float64Var(&practicePunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	rootCmd.Flags().StringVar(&practicePunctSet, "punct-set", defaultPunctSet, "punctuation set")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias practice toward weak characters")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak characters to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak characters")
	rootCmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent sessions to compute weak chars")
	rootCmd.Flags().StringVar(&practiceTextFile, "text-file", "", "practice on the contents of a file, reloaded when it changes")
	rootCmd.Flags().DurationVar(&practiceTimeLimit, "time-limit", 0, "end each attempt after this long (e.g. 60s)")
	rootCmd.Flags().BoolVar(&typingSkipWord, "skip-word-on-space", defaults.SkipWordOnSpace, "jump to the next word when space is typed mid-word")
	rootCmd.Flags().BoolVar(&typingPauseOnError, "pause-on-error", defaults.PauseOnError, "stay on a character until it is typed correctly")
	rootCmd.Flags().StringVar(&typingCountErrors, "count-errors", defaults.CountErrors.String(), "error counting: everytime or once")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newExportCmd())

	return rootCmd
}

var closeDebugLog = func() {}

func initDebugLog() error {
	if !logging.Enabled(debugLog) {
		return nil
	}
	cleanup, err := logging.Init(config.DefaultLogPath(), slog.LevelDebug)
	if err != nil {
		return err
	}
	closeDebugLog = cleanup
	logging.Logger().Info("debug log started", "args", os.Args[1:])
	return nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolvePracticeConfig(cmd, config.DefaultConfigPath())
	if err != nil {
		return err
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	params := tui.Params{}
	if cfg.TextFile != "" {
		text, err := textfile.Read(cfg.TextFile)
		if err != nil {
			return err
		}
		watcher, err := textfile.New(textfile.DefaultConfig(cfg.TextFile), text)
		if err != nil {
			return err
		}
		changes, err := watcher.Start()
		if err != nil {
			_ = watcher.Stop()
			return err
		}
		defer func() {
			if cerr := watcher.Stop(); cerr != nil {
				logErrf("failed to stop text file watcher: %v\n", cerr)
			}
		}()
		params.Text = text
		params.Changes = changes
		params.Source = "file:" + cfg.TextFile
	} else {
		wordPath := config.DefaultWordListPath(cfg.Lang)
		words, source, err := wordlist.Load(cfg.Lang, wordPath)
		if err != nil {
			return wordListLoadError(cfg.Lang, wordPath, err)
		}
		params.Words = words
		params.Source = source
		params.Gen = generator.New()
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	params.Store = st

	if cfg.FocusWeak {
		aggs, err := st.GetWeakChars(context.Background(), cfg.WeakWindow, cfg.Lang)
		if err != nil {
			logErrf("failed to load weak chars: %v\n", err)
		} else {
			params.Weak = stats.SelectWeakChars(aggs, cfg.WeakTop)
			if len(params.Weak) == 0 {
				logErrln("no stats available for weak-char focus yet; using normal generator")
				params.WeakNoticePrinted = true
			}
		}
	}

	zone.NewGlobal()
	defer zone.Close()

	m := tui.NewModel(cfg, params)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolvePracticeConfig merges the config file under explicitly set flags.
func resolvePracticeConfig(cmd *cobra.Command, path string) (model.Config, error) {
	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyConfig(cmd, "lang", &practiceLang, fileCfg.Practice.Lang)
	applyConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyConfig(cmd, "caps", &practiceCaps, fileCfg.Practice.CapsPct)
	applyConfig(cmd, "punct", &practicePunct, fileCfg.Practice.PunctPct)
	applyConfig(cmd, "punct-set", &practicePunctSet, fileCfg.Practice.PunctSet)
	applyConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyConfig(cmd, "weak-window", &practiceWeakWindow, fileCfg.Practice.WeakWindow)
	applyConfig(cmd, "text-file", &practiceTextFile, fileCfg.Practice.TextFile)
	applyConfig(cmd, "skip-word-on-space", &typingSkipWord, fileCfg.Typing.SkipWordOnSpace)
	applyConfig(cmd, "pause-on-error", &typingPauseOnError, fileCfg.Typing.PauseOnError)
	applyConfig(cmd, "count-errors", &typingCountErrors, fileCfg.Typing.CountErrors)

	if fileCfg.Practice.TimeLimit != nil && !cmd.Flags().Changed("time-limit") {
		limit, err := time.ParseDuration(*fileCfg.Practice.TimeLimit)
		if err != nil {
			return model.Config{}, fmt.Errorf("invalid time-limit in config: %w", err)
		}
		practiceTimeLimit = limit
	}

	countMode, err := typing.ParseErrorCountMode(typingCountErrors)
	if err != nil {
		return model.Config{}, fmt.Errorf("--count-errors: %w", err)
	}

	return model.Config{
		Lang:       practiceLang,
		Words:      practiceWords,
		CapsPct:    practiceCaps,
		PunctPct:   practicePunct,
		PunctSet:   practicePunctSet,
		FocusWeak:  practiceFocusWeak,
		WeakTop:    practiceWeakTop,
		WeakFactor: practiceWeakFactor,
		WeakWindow: practiceWeakWindow,
		TextFile:   practiceTextFile,
		TimeLimit:  practiceTimeLimit,
		Typing: typing.Options{
			SkipWordOnSpace: typingSkipWord,
			PauseOnError:    typingPauseOnError,
			CountErrors:     countMode,
		},
	}, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typist configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# lang = "en"             # Language code (default %q)
# words = %d              # Words per text
# caps = %.2f             # Probability of capitalized first letter (0-1)
# punct = %.2f            # Punctuation probability per word (0-1)
# punct-set = %q          # Punctuation set
# focus-weak = false      # Bias practice toward weak characters
# weak-top = %d           # Number of weak characters to focus on
# weak-factor = %.1f      # Weight factor for weak characters
# weak-window = %d        # Number of recent sessions to compute weak chars
# text-file = ""          # Practice on a file instead of generated words
# time-limit = "60s"      # End each attempt after this long

[typing]
# skip-word-on-space = true   # Space mid-word jumps to the next word
# pause-on-error = false      # Stay on a character until it is typed correctly
# count-errors = "everytime"  # "everytime" or "once" per character
`,
		defaultLang,
		defaultWords,
		defaultCaps,
		defaultPunct,
		defaultPunctSet,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.TextFile == "" && cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctSet == "" && cfg.PunctPct > 0 {
		return fmt.Errorf("--punct-set must not be empty")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	if cfg.TimeLimit < 0 {
		return fmt.Errorf("--time-limit must be >= 0")
	}
	return nil
}

func wordListLoadError(lang, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load word list: %v", err),
		fmt.Sprintf("expected word list at: %s", path),
		fmt.Sprintf("language %q not found", lang),
		"Run: typist langs",
		"Add a list with one word per line, or practice on a file with --text-file",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
