package normalisers

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
	"github.com/custodia-labs/biowatch/internal/normalisers/html"
	"github.com/custodia-labs/biowatch/internal/normalisers/markdown"
	"github.com/custodia-labs/biowatch/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry maps file extensions to normalisers.
type Registry struct {
	mu    sync.RWMutex
	byExt map[string]driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byExt: make(map[string]driven.Normaliser),
	}
}

// NewDefaultRegistry creates a registry holding every built-in normaliser.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	return r
}

// Register adds n for each of its extensions, replacing earlier entries.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range n.Extensions() {
		r.byExt[strings.ToLower(ext)] = n
	}
}

// ForPath returns the normaliser for path's extension, or nil.
func (r *Registry) ForPath(path string) driven.Normaliser {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byExt[strings.ToLower(filepath.Ext(path))]
}
