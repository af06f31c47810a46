// Package article provides an Extractor that keeps only the main content of
// an HTML page, dropping navigation, sidebars and footers.
package article

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/markusmobius/go-trafilatura"

	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// New creates an article extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns "article".
func (e *Extractor) Name() string {
	return "article"
}

// Extract returns the page's main text as one item keyed by the page URL.
func (e *Extractor) Extract(_ context.Context, resp *driven.Response, _ domain.SourceDescriptor) ([]driven.Item, error) {
	if resp == nil {
		return nil, domain.ErrInvalidInput
	}
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil, errors.New("empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(bytes.NewReader(resp.Body), opts)
	if err != nil {
		return nil, fmt.Errorf("extract main content: %w", err)
	}

	return []driven.Item{{
		Key:   resp.URL,
		Title: strings.TrimSpace(result.Metadata.Title),
		Text:  strings.TrimSpace(result.ContentText),
		URL:   resp.URL,
	}}, nil
}
