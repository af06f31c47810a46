package driven

import (
	"context"

	"github.com/custodia-labs/biowatch/internal/core/domain"
)

// Item is one structured entry extracted from a remote response.
type Item struct {
	// Key is unique within the source and stable across polls.
	Key string

	// Title is an optional human-readable title.
	Title string

	// Text is the plain text content of the item.
	Text string

	// URL is an optional link to the item.
	URL string
}

// Extractor turns a fetched response into items.
// Source-specific parsing lives behind this interface so the core only ever
// sees plain text.
type Extractor interface {
	// Name returns the registered extractor name.
	Name() string

	// Extract parses one response. Options come from the source descriptor.
	Extract(ctx context.Context, resp *Response, src domain.SourceDescriptor) ([]Item, error)
}

// ExtractorRegistry resolves extractors by name.
type ExtractorRegistry interface {
	// Get returns the extractor registered under name.
	Get(name string) (Extractor, error)
}
