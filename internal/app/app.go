// Package app assembles the engine from a configuration: stores, pollers,
// the watcher and the retriever.
package app

import (
	"fmt"

	"github.com/custodia-labs/biowatch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/biowatch/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/biowatch/internal/connectors/filesystem"
	"github.com/custodia-labs/biowatch/internal/connectors/remote"
	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
	"github.com/custodia-labs/biowatch/internal/core/ports/driving"
	"github.com/custodia-labs/biowatch/internal/core/services"
	"github.com/custodia-labs/biowatch/internal/extractors"
	"github.com/custodia-labs/biowatch/internal/normalisers"
	"github.com/custodia-labs/biowatch/internal/postprocessors/chunker"
)

// App holds the wired engine.
type App struct {
	Config    domain.Config
	Watcher   *services.Watcher
	Retriever *services.Retriever

	// Changes serves recent events: the journal when configured,
	// otherwise an in-memory ring.
	Changes driving.ChangeLog

	// Journal is nil unless Config.JournalPath is set.
	Journal *sqlite.Journal
}

// Close stops the watcher and releases the journal.
func (a *App) Close() error {
	err := a.Watcher.Stop()
	if a.Journal != nil {
		if cerr := a.Journal.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

type options struct {
	extractors  driven.ExtractorRegistry
	normalisers driven.NormaliserRegistry
	fetcher     driven.Fetcher
	logEvents   bool
}

// Option customises Build.
type Option func(*options)

// WithExtractors replaces the built-in extractor registry.
func WithExtractors(r driven.ExtractorRegistry) Option {
	return func(o *options) {
		o.extractors = r
	}
}

// WithFetcher replaces the HTTP fetcher shared by remote sources.
func WithFetcher(f driven.Fetcher) Option {
	return func(o *options) {
		o.fetcher = f
	}
}

// WithEventLogging subscribes a handler that logs every change event.
func WithEventLogging() Option {
	return func(o *options) {
		o.logEvents = true
	}
}

// Build validates cfg and wires every component. The returned watcher is
// idle; callers start it or use PollOnce.
func Build(cfg domain.Config, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if o.extractors == nil {
		o.extractors = extractors.NewDefaultRegistry()
	}
	o.normalisers = normalisers.NewDefaultRegistry()
	if o.fetcher == nil {
		o.fetcher = remote.NewFetcher(
			remote.WithTimeout(cfg.IOTimeout),
			remote.WithHostLimiter(remote.NewHostLimiter(remote.DefaultRequestsPerSecond)),
		)
	}

	chunks, err := chunker.New(
		chunker.WithChunkSize(cfg.ChunkSize),
		chunker.WithOverlap(cfg.ChunkOverlap),
	)
	if err != nil {
		return nil, err
	}

	pollers := make([]driven.Poller, 0, len(cfg.Sources))
	for _, src := range cfg.Sources {
		p, err := newPoller(src, cfg, o)
		if err != nil {
			return nil, err
		}
		pollers = append(pollers, p)
	}

	corpus := services.NewCorpus(
		services.NewDetector(memory.NewEntryStore()),
		chunks,
		memory.NewChunkStore(),
	)

	watcher, err := services.NewWatcher(corpus, services.NewDispatcher(), pollers,
		services.WithPollInterval(cfg.PollInterval),
		services.WithSourceTimeout(cfg.SourceTimeout),
	)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:    cfg,
		Watcher:   watcher,
		Retriever: services.NewRetriever(corpus),
	}

	if cfg.JournalPath != "" {
		j, err := sqlite.NewJournal(cfg.JournalPath)
		if err != nil {
			return nil, fmt.Errorf("open change journal: %w", err)
		}
		watcher.Subscribe(j, domain.EventFilter{})
		a.Journal = j
		a.Changes = j
	} else {
		ring := memory.NewEventLog(cfg.EventLogSize)
		watcher.Subscribe(ring, domain.EventFilter{})
		a.Changes = ring
	}
	if o.logEvents {
		watcher.Subscribe(services.LogHandler(), domain.EventFilter{})
	}

	return a, nil
}

func newPoller(src domain.SourceDescriptor, cfg domain.Config, o *options) (driven.Poller, error) {
	switch src.Kind {
	case domain.SourceKindFilesystem:
		fsOpts := []filesystem.Option{
			filesystem.WithIOTimeout(cfg.IOTimeout),
			filesystem.WithReadConcurrency(cfg.ReadConcurrency),
		}
		if src.Option(domain.OptionNormalise, "") == "true" {
			fsOpts = append(fsOpts, filesystem.WithNormalisers(o.normalisers))
		}
		return filesystem.New(src, fsOpts...)
	case domain.SourceKindRemote:
		x, err := o.extractors.Get(src.Extractor)
		if err != nil {
			return nil, fmt.Errorf("%w: source %q: %w", domain.ErrConfiguration, src.Name, err)
		}
		return remote.New(src, o.fetcher, x)
	default:
		return nil, fmt.Errorf("%w: source %q: unknown kind %q", domain.ErrConfiguration, src.Name, src.Kind)
	}
}
