// Package filesystem polls a local directory tree for text documents.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
	"github.com/custodia-labs/biowatch/internal/logger"
)

// Ensure Poller implements the interfaces.
var (
	_ driven.Poller   = (*Poller)(nil)
	_ driven.Notifier = (*Poller)(nil)
)

// Poller enumerates files under a root directory whose names match the
// extension allow-list. Hidden files and directories are skipped.
type Poller struct {
	name        string
	rootPath    string
	depth       int
	patterns    []glob.Glob
	ioTimeout   time.Duration
	concurrency int
	debounce    time.Duration
	now         func() time.Time
	readFile    func(string) ([]byte, error)
	normalisers driven.NormaliserRegistry

	mu        sync.Mutex
	watcher   *fsnotify.Watcher
	watchRoot string
	closed    bool
}

// Option configures the filesystem poller.
type Option func(*Poller)

// WithIOTimeout bounds each file read.
func WithIOTimeout(d time.Duration) Option {
	return func(p *Poller) {
		p.ioTimeout = d
	}
}

// WithReadConcurrency bounds the number of files read in parallel.
func WithReadConcurrency(n int) Option {
	return func(p *Poller) {
		p.concurrency = n
	}
}

// WithDebounce sets how long change notifications are coalesced.
func WithDebounce(d time.Duration) Option {
	return func(p *Poller) {
		p.debounce = d
	}
}

// WithNormalisers converts markup files to plain text after reading.
// Files whose extension has no normaliser are used verbatim.
func WithNormalisers(r driven.NormaliserRegistry) Option {
	return func(p *Poller) {
		p.normalisers = r
	}
}

// DefaultDebounce is the default quiet period before a change hint fires.
const DefaultDebounce = 250 * time.Millisecond

// New creates a filesystem poller for src.
func New(src domain.SourceDescriptor, opts ...Option) (*Poller, error) {
	if src.Kind != domain.SourceKindFilesystem {
		return nil, fmt.Errorf("%w: source %q is %q, not filesystem", domain.ErrConfiguration, src.Name, src.Kind)
	}

	root, err := filepath.Abs(src.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: source %q: resolve path: %w", domain.ErrConfiguration, src.Name, err)
	}

	exts := src.Extensions
	if len(exts) == 0 {
		exts = domain.DefaultExtensions
	}
	patterns, err := compilePatterns(exts)
	if err != nil {
		return nil, fmt.Errorf("%w: source %q: %w", domain.ErrConfiguration, src.Name, err)
	}

	p := &Poller{
		name:        src.Name,
		rootPath:    filepath.Clean(root),
		depth:       src.Depth,
		patterns:    patterns,
		ioTimeout:   domain.DefaultIOTimeout,
		concurrency: domain.DefaultReadConcurrency,
		debounce:    DefaultDebounce,
		now:         time.Now,
		readFile:    os.ReadFile,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.concurrency <= 0 {
		p.concurrency = domain.DefaultReadConcurrency
	}
	if p.ioTimeout <= 0 {
		p.ioTimeout = domain.DefaultIOTimeout
	}

	return p, nil
}

// compilePatterns turns an extension allow-list into file name globs.
// ".txt" and "txt" both become "*.txt"; entries with glob syntax are kept.
func compilePatterns(exts []string) ([]glob.Glob, error) {
	patterns := make([]glob.Glob, 0, len(exts))
	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		pattern := ext
		if !strings.ContainsAny(ext, "*?[{") {
			pattern = "*." + strings.TrimPrefix(ext, ".")
		}
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid extension pattern %q: %w", ext, err)
		}
		patterns = append(patterns, g)
	}
	return patterns, nil
}

// Name returns the configured source name.
func (p *Poller) Name() string {
	return p.name
}

// Kind returns the filesystem source kind.
func (p *Poller) Kind() domain.SourceKind {
	return domain.SourceKindFilesystem
}

// Root returns the absolute directory being polled.
func (p *Poller) Root() string {
	return p.rootPath
}

// Poll enumerates the directory and reads every matching file.
// A missing or unreadable root makes the whole source unavailable.
// Subdirectories that cannot be listed mark the batch incomplete.
//
// A root that is a symlink is resolved on every poll, but identifiers keep
// the configured root as their prefix. Symlinked files inside the tree are
// followed; symlinked directories are not.
func (p *Poller) Poll(ctx context.Context) (domain.PollBatch, error) {
	batch := domain.PollBatch{Source: p.name}

	walkRoot, err := filepath.EvalSymlinks(p.rootPath)
	if err != nil {
		return batch, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnavailable, p.rootPath, err)
	}
	info, err := os.Stat(walkRoot)
	if err != nil {
		return batch, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnavailable, p.rootPath, err)
	}
	if !info.IsDir() {
		return batch, fmt.Errorf("%w: %s: not a directory", domain.ErrSourceUnavailable, p.rootPath)
	}

	paths, broken, complete, err := p.enumerate(ctx, walkRoot)
	if err != nil {
		return batch, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnavailable, p.rootPath, err)
	}

	docs, unreadable, err := p.readAll(ctx, paths)
	if err != nil {
		return batch, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnavailable, p.rootPath, err)
	}

	batch.Documents = docs
	batch.Unreadable = append(broken, unreadable...)
	batch.Complete = complete

	logger.Debug("Polled %s: %d file(s), %d unreadable, complete=%t", p.name, len(docs), len(batch.Unreadable), complete)
	return batch, nil
}

// enumerate walks walkRoot in lexical order and returns the matching files
// as paths under the configured root. Matching symlinks whose target cannot
// be resolved are returned separately as unreadable.
func (p *Poller) enumerate(ctx context.Context, walkRoot string) ([]string, []domain.SourceIdentifier, bool, error) {
	var (
		paths  []string
		broken []domain.SourceIdentifier
	)
	complete := true

	err := filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == walkRoot {
				return err
			}
			logger.Warn("Cannot list %s: %v", path, err)
			complete = false
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == walkRoot {
			return nil
		}

		rel, _ := filepath.Rel(walkRoot, path)
		if isHidden(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if p.depth > 0 && depthOf(rel) >= p.depth {
				return filepath.SkipDir
			}
			return nil
		}

		if !p.matches(d.Name()) {
			return nil
		}
		id := filepath.Join(p.rootPath, rel)

		switch {
		case d.Type().IsRegular():
			paths = append(paths, id)
		case d.Type()&fs.ModeSymlink != 0:
			target, err := os.Stat(path)
			if err != nil {
				logger.Warn("Cannot follow %s: %v", id, err)
				broken = append(broken, id)
			} else if target.Mode().IsRegular() {
				paths = append(paths, id)
			}
		}
		return nil
	})

	return paths, broken, complete, err
}

func (p *Poller) matches(name string) bool {
	for _, g := range p.patterns {
		if g.Match(name) {
			return true
		}
	}
	return false
}

type fileResult struct {
	doc domain.RawDocument
	err error
}

// readAll reads paths with bounded parallelism, preserving their order.
func (p *Poller) readAll(ctx context.Context, paths []string) ([]domain.RawDocument, []domain.SourceIdentifier, error) {
	results := make([]fileResult, len(paths))

	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := p.read(ctx, path)
			doc := domain.RawDocument{
				Identifier: path,
				Content:    content,
				Category:   domain.CategoryInternal,
				ObservedAt: p.now(),
				Title:      filepath.Base(path),
				URI:        "file://" + filepath.ToSlash(path),
			}
			if err == nil {
				p.normalise(&doc)
			}
			results[i] = fileResult{doc: doc, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	docs := make([]domain.RawDocument, 0, len(paths))
	var unreadable []domain.SourceIdentifier
	for _, r := range results {
		if r.err != nil {
			logger.Warn("Skipping %s this cycle: %v", r.doc.Identifier, r.err)
			unreadable = append(unreadable, r.doc.Identifier)
			continue
		}
		docs = append(docs, r.doc)
	}
	return docs, unreadable, nil
}

func (p *Poller) normalise(doc *domain.RawDocument) {
	if p.normalisers == nil {
		return
	}
	n := p.normalisers.ForPath(doc.Identifier)
	if n == nil {
		return
	}
	text, title := n.Normalise(doc.Identifier, doc.Content)
	doc.Content = text
	if title != "" {
		doc.Title = title
	}
}

type readResult struct {
	data []byte
	err  error
}

// read loads one file as UTF-8 text, giving up after the I/O timeout.
// Invalid UTF-8 sequences are dropped.
func (p *Poller) read(ctx context.Context, path string) (string, error) {
	rctx, cancel := context.WithTimeout(ctx, p.ioTimeout)
	defer cancel()

	done := make(chan readResult, 1)
	go func() {
		data, err := p.readFile(path)
		done <- readResult{data: data, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrSourceRead, r.err)
		}
		return strings.ToValidUTF8(string(r.data), ""), nil
	case <-rctx.Done():
		return "", fmt.Errorf("%w: %s: %w", domain.ErrSourceRead, path, rctx.Err())
	}
}

// isHidden reports whether any element of a slash- or separator-delimited
// path starts with a dot. "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == filepath.Separator
	}) {
		if part != "." && part != ".." && strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// depthOf returns the number of elements in a relative path.
func depthOf(rel string) int {
	return len(strings.Split(filepath.ToSlash(rel), "/"))
}

var errClosed = errors.New("poller closed")
