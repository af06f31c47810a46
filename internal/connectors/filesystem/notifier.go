package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/logger"
)

// Notify watches the directory tree and signals, after a quiet period of
// the debounce interval, whenever a relevant file may have changed.
// The channel is closed when ctx is cancelled or the poller is closed.
func (p *Poller) Notify(ctx context.Context) (<-chan struct{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, errClosed
	}
	if p.watcher != nil {
		return nil, fmt.Errorf("%w: already watching %s", domain.ErrInvalidInput, p.rootPath)
	}

	root, err := filepath.EvalSymlinks(p.rootPath)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path error: %s is not a directory", p.rootPath)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	p.watcher = watcher
	p.watchRoot = root

	p.addRecursive(watcher, root)

	out := make(chan struct{}, 1)
	go p.processEvents(ctx, watcher, out)

	return out, nil
}

// Close stops watching. It is safe to call more than once.
func (p *Poller) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	if p.watcher != nil {
		return p.watcher.Close()
	}
	return nil
}

// addRecursive watches dir and every visible subdirectory within the depth limit.
func (p *Poller) addRecursive(watcher *fsnotify.Watcher, dir string) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		base := p.eventRoot()
		if path != base {
			rel, _ := filepath.Rel(base, path)
			if isHidden(rel) || (p.depth > 0 && depthOf(rel) >= p.depth) {
				return filepath.SkipDir
			}
		}
		if addErr := watcher.Add(path); addErr != nil {
			logger.Debug("Cannot watch %s: %v", path, addErr)
		}
		return nil
	})
}

// processEvents turns fsnotify events into debounced hints.
func (p *Poller) processEvents(ctx context.Context, watcher *fsnotify.Watcher, out chan<- struct{}) {
	defer close(out)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !p.relevant(watcher, event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(p.debounce)
			} else {
				timer.Reset(p.debounce)
			}
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Debug("Watch error on %s: %v", p.rootPath, err)

		case <-fire:
			fire = nil
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}
}

// relevant reports whether event could change a poll result.
// New directories are added to the watch list as a side effect.
func (p *Poller) relevant(watcher *fsnotify.Watcher, event fsnotify.Event) bool {
	rel, err := filepath.Rel(p.eventRoot(), event.Name)
	if err != nil || isHidden(rel) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
			p.addRecursive(watcher, event.Name)
			return true
		}
	}

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	// Removed entries may have been directories, so only filter by name
	// when the entry still exists as a file.
	if info, statErr := os.Stat(event.Name); statErr == nil && !info.IsDir() {
		return p.matches(filepath.Base(event.Name))
	}
	return true
}

// eventRoot is the directory fsnotify reports paths under: the resolved
// root once watching has started, the configured root before that.
func (p *Poller) eventRoot() string {
	if p.watchRoot != "" {
		return p.watchRoot
	}
	return p.rootPath
}
