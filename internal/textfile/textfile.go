// Package textfile loads practice text from a file and watches it for edits.
package textfile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/verte-zerg/typist/internal/logging"
)

// Read loads the file and collapses whitespace runs into single spaces.
func Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}
	return Normalize(string(data)), nil
}

// Normalize collapses all whitespace, including newlines, into single spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Change carries the new text of a watched file, or the error reading it.
type Change struct {
	Text string
	Err  error
}

// Config holds watcher configuration options.
type Config struct {
	Path     string
	Debounce time.Duration
}

// DefaultConfig returns the debounce used by the practice TUI.
func DefaultConfig(path string) Config {
	return Config{Path: path, Debounce: 200 * time.Millisecond}
}

// Watcher reports content changes of a single text file.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  time.Duration
	last      string
	changes   chan Change
	done      chan struct{}
	log       *slog.Logger
}

// New creates a watcher. initial is the text already in use, so a save that
// leaves the normalized contents unchanged is not reported.
func New(cfg Config, initial string) (*Watcher, error) {
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve text file: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{
		fsWatcher: fsw,
		path:      abs,
		debounce:  cfg.Debounce,
		last:      initial,
		changes:   make(chan Change, 1),
		done:      make(chan struct{}),
		log:       logging.For("textfile"),
	}, nil
}

// Start watches the directory holding the file. Editors that save by
// renaming a temp file over the target are covered this way.
func (w *Watcher) Start() (<-chan Change, error) {
	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	go w.loop()
	return w.changes, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevant(event) {
				continue
			}
			w.log.Debug("text file event", "op", event.Op.String(), "name", event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("text file watcher error", "err", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (w *Watcher) isRelevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Clean(event.Name) == w.path
}

func (w *Watcher) reload() {
	text, err := Read(w.path)
	if err == nil {
		if text == w.last {
			return
		}
		w.last = text
	}
	w.send(Change{Text: text, Err: err})
}

// send keeps only the newest pending change.
func (w *Watcher) send(c Change) {
	for {
		select {
		case w.changes <- c:
			return
		default:
		}
		select {
		case <-w.changes:
		default:
		}
	}
}
