package textfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, path, initial string) <-chan Change {
	t.Helper()
	w, err := New(Config{Path: path, Debounce: 50 * time.Millisecond}, initial)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })
	changes, err := w.Start()
	require.NoError(t, err)
	return changes
}

func TestReadNormalizesWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.txt")
	require.NoError(t, os.WriteFile(path, []byte("  the quick\n\tbrown   fox\n"), 0o644))

	text, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "the quick brown fox", text)

	_, err = Read(filepath.Join(t.TempDir(), "missing.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatcherDebouncesWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.txt")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0o644))
	changes := startWatcher(t, path, "one")

	for _, s := range []string{"two", "three", "four"} {
		require.NoError(t, os.WriteFile(path, []byte(s), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case c := <-changes:
		require.NoError(t, c.Err)
		assert.Equal(t, "four", c.Text)
	case <-time.After(time.Second):
		t.Fatal("expected change notification")
	}

	select {
	case c := <-changes:
		t.Fatalf("unexpected second change: %+v", c)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcherSkipsUnchangedContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.txt")
	require.NoError(t, os.WriteFile(path, []byte("same words"), 0o644))
	changes := startWatcher(t, path, "same words")

	require.NoError(t, os.WriteFile(path, []byte("same\nwords\n"), 0o644))

	select {
	case c := <-changes:
		t.Fatalf("unexpected change: %+v", c)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "text.txt")
	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("b"), 0o644))
	changes := startWatcher(t, path, "a")

	require.NoError(t, os.WriteFile(other, []byte("changed"), 0o644))

	select {
	case c := <-changes:
		t.Fatalf("unexpected change: %+v", c)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSendKeepsNewest(t *testing.T) {
	w := &Watcher{changes: make(chan Change, 1)}
	w.send(Change{Text: "old"})
	w.send(Change{Text: "new"})
	assert.Equal(t, "new", (<-w.changes).Text)
}
