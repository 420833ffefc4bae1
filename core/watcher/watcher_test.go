package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tristendillon/ruml/core/cache/manager"
	"github.com/tristendillon/ruml/core/walker"
)

func newTestWatcher(t *testing.T, root string, withCache bool) *FileWatcherImpl {
	t.Helper()
	w := walker.NewSourceWalker([]string{".rs"}, []string{".git", "target"})
	var fw *FileWatcherImpl
	var err error
	if withCache {
		fw, err = NewFileWatcher(root, w, manager.NewCacheManager())
	} else {
		fw, err = NewFileWatcher(root, w, nil)
	}
	require.NoError(t, err)
	fw.FileWatcher.Debounce = 50 * time.Millisecond
	return fw
}

func TestShouldExcludePath(t *testing.T) {
	root := t.TempDir()
	fw := newTestWatcher(t, root, false)
	defer fw.Close()

	assert.False(t, fw.shouldExcludePath(root))
	assert.False(t, fw.shouldExcludePath(filepath.Join(root, "src", "lib.rs")))
	assert.True(t, fw.shouldExcludePath(filepath.Join(root, "target", "debug", "build.rs")))
	assert.True(t, fw.shouldExcludePath(filepath.Join(root, "crates", "a", "target")))
	assert.True(t, fw.shouldExcludePath(filepath.Join(root, ".git", "HEAD")))
}

func TestHandleEvent_FiltersByExtension(t *testing.T) {
	root := t.TempDir()
	fw := newTestWatcher(t, root, false)
	defer fw.Close()

	assert.True(t, fw.handleEvent(fsnotify.Event{Name: filepath.Join(root, "lib.rs"), Op: fsnotify.Write}))
	assert.False(t, fw.handleEvent(fsnotify.Event{Name: filepath.Join(root, "README.md"), Op: fsnotify.Write}))
	assert.False(t, fw.handleEvent(fsnotify.Event{Name: filepath.Join(root, "lib.rs"), Op: fsnotify.Chmod}))
}

func TestHandleEvent_UnchangedContentIsIgnored(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "lib.rs")
	require.NoError(t, os.WriteFile(path, []byte("struct A;\n"), 0o644))

	fw := newTestWatcher(t, root, true)
	defer fw.Close()

	assert.True(t, fw.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Create}))
	assert.False(t, fw.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Write}))

	require.NoError(t, os.WriteFile(path, []byte("pub struct Account { id: u64 }\n"), 0o644))
	assert.True(t, fw.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Write}))
}

func TestWatch_RegeneratesOnChange(t *testing.T) {
	root := t.TempDir()
	fw := newTestWatcher(t, root, false)

	var started atomic.Bool
	changed := make(chan struct{}, 4)
	fw.FileWatcher.AddOnStartFunc(func() error {
		started.Store(true)
		return nil
	})
	fw.FileWatcher.AddOnChangeFunc(func() error {
		changed <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fw.Watch(ctx) }()

	require.Eventually(t, started.Load, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(root, "model.rs"), []byte("struct A;\n"), 0o644))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a regeneration after writing a source file")
	}

	cancel()
	require.NoError(t, <-done)
	require.NoError(t, fw.Close())
}
