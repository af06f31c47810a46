// Package remote polls HTTP endpoints and turns their responses into
// documents through a pluggable extractor.
package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
	"github.com/custodia-labs/biowatch/internal/logger"
)

// Ensure Poller implements the interface.
var _ driven.Poller = (*Poller)(nil)

// DefaultFetchConcurrency bounds parallel fetches within one source.
const DefaultFetchConcurrency = 4

// Poller fetches every endpoint of a remote source each cycle.
type Poller struct {
	source      domain.SourceDescriptor
	fetcher     driven.Fetcher
	extractor   driven.Extractor
	concurrency int
	now         func() time.Time
}

// New creates a remote poller for src.
func New(src domain.SourceDescriptor, fetcher driven.Fetcher, extractor driven.Extractor) (*Poller, error) {
	if src.Kind != domain.SourceKindRemote {
		return nil, fmt.Errorf("%w: source %q is %q, not remote", domain.ErrConfiguration, src.Name, src.Kind)
	}
	if len(src.Endpoints) == 0 {
		return nil, fmt.Errorf("%w: source %q: at least one endpoint is required", domain.ErrConfiguration, src.Name)
	}
	if fetcher == nil || extractor == nil {
		return nil, fmt.Errorf("%w: source %q: fetcher and extractor are required", domain.ErrConfiguration, src.Name)
	}

	return &Poller{
		source:      src,
		fetcher:     fetcher,
		extractor:   extractor,
		concurrency: DefaultFetchConcurrency,
		now:         time.Now,
	}, nil
}

// Name returns the configured source name.
func (p *Poller) Name() string {
	return p.source.Name
}

// Kind returns the remote source kind.
func (p *Poller) Kind() domain.SourceKind {
	return domain.SourceKindRemote
}

type endpointResult struct {
	items []driven.Item
	err   error
}

// Poll fetches and extracts every endpoint. If every endpoint fails the
// source is unavailable; if only some fail the batch is incomplete so no
// deletions are inferred from it.
func (p *Poller) Poll(ctx context.Context) (domain.PollBatch, error) {
	batch := domain.PollBatch{Source: p.source.Name}
	endpoints := p.source.Endpoints
	results := make([]endpointResult, len(endpoints))

	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, endpoint := range endpoints {
		g.Go(func() error {
			items, err := p.pollEndpoint(ctx, endpoint)
			results[i] = endpointResult{items: items, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	observed := p.now()
	for i, r := range results {
		if r.err != nil {
			logger.Warn("Endpoint %s of %s failed: %v", endpoints[i], p.source.Name, r.err)
			errs = append(errs, r.err)
			continue
		}
		for _, item := range r.items {
			uri := item.URL
			if uri == "" {
				uri = endpoints[i]
			}
			batch.Documents = append(batch.Documents, domain.RawDocument{
				Identifier: domain.RemoteIdentifier(p.source.Name, item.Key),
				Content:    item.Text,
				Category:   domain.CategoryExternal,
				ObservedAt: observed,
				Title:      item.Title,
				URI:        uri,
			})
		}
	}

	if len(errs) == len(endpoints) {
		return domain.PollBatch{Source: p.source.Name},
			fmt.Errorf("%w: %s: %w", domain.ErrSourceUnavailable, p.source.Name, errors.Join(errs...))
	}

	batch.Complete = len(errs) == 0
	logger.Debug("Polled %s: %d item(s) from %d endpoint(s), complete=%t",
		p.source.Name, len(batch.Documents), len(endpoints), batch.Complete)
	return batch, nil
}

func (p *Poller) pollEndpoint(ctx context.Context, endpoint string) ([]driven.Item, error) {
	resp, err := p.fetcher.Fetch(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceRead, err)
	}
	items, err := p.extractor.Extract(ctx, resp, p.source)
	if err != nil {
		return nil, fmt.Errorf("%w: extract %s: %w", domain.ErrSourceRead, endpoint, err)
	}
	for _, item := range items {
		if item.Key == "" {
			return nil, fmt.Errorf("%w: extract %s: item without key", domain.ErrSourceRead, endpoint)
		}
	}
	return items, nil
}
