package extractors

import (
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
	"github.com/custodia-labs/biowatch/internal/extractors/article"
	"github.com/custodia-labs/biowatch/internal/extractors/feed"
	"github.com/custodia-labs/biowatch/internal/extractors/htmllist"
	"github.com/custodia-labs/biowatch/internal/extractors/jsonapi"
	"github.com/custodia-labs/biowatch/internal/extractors/page"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps extractor names to implementations.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string]driven.Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[string]driven.Extractor),
	}
}

// NewDefaultRegistry creates a registry holding every built-in extractor.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(jsonapi.New())
	r.Register(htmllist.New())
	r.Register(page.New())
	r.Register(article.New())
	r.Register(feed.New())
	return r
}

// Register adds an extractor, replacing any previous one with the same name.
func (r *Registry) Register(x driven.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[x.Name()] = x
}

// Get returns the extractor registered under name.
func (r *Registry) Get(name string) (driven.Extractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	x, ok := r.extractors[name]
	if !ok {
		return nil, fmt.Errorf("%w: extractor %q", domain.ErrUnsupportedType, name)
	}
	return x, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.extractors))
	for name := range r.extractors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
