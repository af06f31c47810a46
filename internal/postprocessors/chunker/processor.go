// Package chunker provides a fixed-size sliding-window text chunker.
package chunker

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.Chunker = (*Processor)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// Processor splits document content into overlapping fixed-size windows.
// Sizes are measured in characters (runes), not bytes.
type Processor struct {
	chunkSize int
	overlap   int
	newID     func() string
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		p.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		p.overlap = overlap
	}
}

// New creates a new chunker processor with the given options.
// A window that cannot advance (overlap >= size) is rejected.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		newID:     func() string { return uuid.New().String() },
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrConfiguration, p.chunkSize)
	}
	if p.overlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap must not be negative, got %d", domain.ErrConfiguration, p.overlap)
	}
	if p.overlap >= p.chunkSize {
		return nil, fmt.Errorf("%w: chunk overlap (%d) must be smaller than chunk size (%d)",
			domain.ErrConfiguration, p.overlap, p.chunkSize)
	}

	return p, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Step returns how far each window advances.
func (p *Processor) Step() int {
	return p.chunkSize - p.overlap
}

// Chunk cuts content into windows of chunkSize characters starting every
// Step characters. Blank windows are dropped and the remaining chunks are
// numbered contiguously from 0.
func (p *Processor) Chunk(
	id domain.SourceIdentifier,
	content string,
	category domain.Category,
	at time.Time,
) []domain.Chunk {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	runes := []rune(content)
	contentLen := len(runes)
	step := p.Step()

	chunks := make([]domain.Chunk, 0, contentLen/step+1)

	for start := 0; start < contentLen; start += step {
		end := start + p.chunkSize
		if end > contentLen {
			end = contentLen
		}

		text := string(runes[start:end])
		if strings.TrimSpace(text) == "" {
			continue
		}

		chunks = append(chunks, domain.Chunk{
			ID:         p.newID(),
			Identifier: id,
			Index:      len(chunks),
			Text:       text,
			Category:   category,
			IndexedAt:  at,
		})
	}

	return chunks
}
