package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotifyingPoller(t *testing.T, dir string) *Poller {
	t.Helper()
	p, err := New(source(dir, ".txt"), WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func waitHint(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case _, ok := <-ch:
		require.True(t, ok, "hint channel closed")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for change hint")
	}
}

func TestPoller_Notify(t *testing.T) {
	t.Run("signals on new file", func(t *testing.T) {
		dir := t.TempDir()
		p := newNotifyingPoller(t, dir)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		hints, err := p.Notify(ctx)
		require.NoError(t, err)

		writeFile(t, dir, "new.txt", "content")
		waitHint(t, hints)
	})

	t.Run("signals on modification in subdirectory", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "sub/doc.txt", "v1")
		p := newNotifyingPoller(t, dir)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		hints, err := p.Notify(ctx)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))
		waitHint(t, hints)
	})

	t.Run("coalesces bursts", func(t *testing.T) {
		dir := t.TempDir()
		p := newNotifyingPoller(t, dir)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		hints, err := p.Notify(ctx)
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			writeFile(t, dir, "burst.txt", string(rune('a'+i)))
		}
		waitHint(t, hints)

		select {
		case <-hints:
			t.Fatal("expected burst to produce a single hint")
		case <-time.After(100 * time.Millisecond):
		}
	})

	t.Run("missing root", func(t *testing.T) {
		p := newNotifyingPoller(t, filepath.Join(t.TempDir(), "gone"))

		hints, err := p.Notify(context.Background())

		assert.Error(t, err)
		assert.Nil(t, hints)
		assert.Contains(t, err.Error(), "root path error")
	})

	t.Run("closes channel on cancel", func(t *testing.T) {
		p := newNotifyingPoller(t, t.TempDir())
		ctx, cancel := context.WithCancel(context.Background())

		hints, err := p.Notify(ctx)
		require.NoError(t, err)
		cancel()

		select {
		case _, ok := <-hints:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("channel did not close after context cancellation")
		}
	})

	t.Run("closes channel on Close", func(t *testing.T) {
		p := newNotifyingPoller(t, t.TempDir())

		hints, err := p.Notify(context.Background())
		require.NoError(t, err)
		require.NoError(t, p.Close())

		select {
		case _, ok := <-hints:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("channel did not close after Close")
		}
	})

	t.Run("refused after close", func(t *testing.T) {
		p := newNotifyingPoller(t, t.TempDir())
		require.NoError(t, p.Close())
		require.NoError(t, p.Close())

		hints, err := p.Notify(context.Background())

		assert.Error(t, err)
		assert.Nil(t, hints)
		assert.Contains(t, err.Error(), "closed")
	})
}

func TestPoller_Relevant(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "doc.txt", "x")
	png := writeFile(t, dir, "image.png", "x")
	hidden := writeFile(t, dir, ".hidden.txt", "x")

	p, err := New(source(dir, ".txt"))
	require.NoError(t, err)
	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write matching file", fsnotify.Event{Name: txt, Op: fsnotify.Write}, true},
		{"create matching file", fsnotify.Event{Name: txt, Op: fsnotify.Create}, true},
		{"write other extension", fsnotify.Event{Name: png, Op: fsnotify.Write}, false},
		{"chmod only", fsnotify.Event{Name: txt, Op: fsnotify.Chmod}, false},
		{"hidden file", fsnotify.Event{Name: hidden, Op: fsnotify.Write}, false},
		{"removed entry", fsnotify.Event{Name: filepath.Join(dir, "gone.txt"), Op: fsnotify.Remove}, true},
		{"write and chmod", fsnotify.Event{Name: txt, Op: fsnotify.Write | fsnotify.Chmod}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.relevant(watcher, tt.event))
		})
	}
}

func TestPoller_Notify_SymlinkedRoot(t *testing.T) {
	target := t.TempDir()
	path := writeFile(t, target, "sub/doc.txt", "v1")
	link := filepath.Join(t.TempDir(), "link")
	require.NoError(t, os.Symlink(target, link))

	p := newNotifyingPoller(t, link)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hints, err := p.Notify(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))
	waitHint(t, hints)
}
