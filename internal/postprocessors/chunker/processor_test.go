package chunker

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/biowatch/internal/core/domain"
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func texts(chunks []domain.Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p, err := New()
		require.NoError(t, err)
		assert.Equal(t, DefaultChunkSize, p.chunkSize)
		assert.Equal(t, DefaultChunkOverlap, p.overlap)
		assert.Equal(t, 800, p.Step())
	})

	t.Run("custom values", func(t *testing.T) {
		p, err := New(WithChunkSize(500), WithOverlap(100))
		require.NoError(t, err)
		assert.Equal(t, 500, p.chunkSize)
		assert.Equal(t, 100, p.overlap)
	})

	t.Run("zero overlap allowed", func(t *testing.T) {
		p, err := New(WithChunkSize(10), WithOverlap(0))
		require.NoError(t, err)
		assert.Equal(t, 10, p.Step())
	})

	tests := []struct {
		name    string
		size    int
		overlap int
	}{
		{"overlap equals size", 100, 100},
		{"overlap exceeds size", 100, 150},
		{"zero size", 0, 0},
		{"negative size", -5, 0},
		{"negative overlap", 100, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(WithChunkSize(tt.size), WithOverlap(tt.overlap))
			assert.Nil(t, p)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
		})
	}
}

func TestProcessor_Name(t *testing.T) {
	p, err := New()
	require.NoError(t, err)
	assert.Equal(t, "chunker", p.Name())
}

func TestProcessor_Chunk_SlidingWindow(t *testing.T) {
	p, err := New(WithChunkSize(10), WithOverlap(5))
	require.NoError(t, err)

	chunks := p.Chunk("/docs/a.txt", "0123456789ABCDE", domain.CategoryInternal, testTime)

	assert.Equal(t, []string{"0123456789", "56789ABCDE", "ABCDE"}, texts(chunks))
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, "/docs/a.txt", c.Identifier)
		assert.Equal(t, domain.CategoryInternal, c.Category)
		assert.Equal(t, testTime, c.IndexedAt)
		assert.NotEmpty(t, c.ID)
	}
}

func TestProcessor_Chunk_ShortContent(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	chunks := p.Chunk("x", "Bird flu alert", domain.CategoryExternal, testTime)

	require.Len(t, chunks, 1)
	assert.Equal(t, "Bird flu alert", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Index)
}

func TestProcessor_Chunk_Empty(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	assert.Empty(t, p.Chunk("x", "", domain.CategoryInternal, testTime))
	assert.Empty(t, p.Chunk("x", " \n\t  ", domain.CategoryInternal, testTime))
}

func TestProcessor_Chunk_SkipsBlankWindows(t *testing.T) {
	p, err := New(WithChunkSize(4), WithOverlap(0))
	require.NoError(t, err)

	content := "abcd" + strings.Repeat(" ", 8) + "efgh"
	chunks := p.Chunk("x", content, domain.CategoryInternal, testTime)

	assert.Equal(t, []string{"abcd", "efgh"}, texts(chunks))
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, 1, chunks[1].Index)
}

func TestProcessor_Chunk_CountsRunes(t *testing.T) {
	p, err := New(WithChunkSize(3), WithOverlap(1))
	require.NoError(t, err)

	chunks := p.Chunk("x", "αβγδε", domain.CategoryInternal, testTime)

	assert.Equal(t, []string{"αβγ", "γδε", "ε"}, texts(chunks))
}

func TestProcessor_Chunk_UniqueIDs(t *testing.T) {
	p, err := New(WithChunkSize(10), WithOverlap(2))
	require.NoError(t, err)

	chunks := p.Chunk("x", strings.Repeat("outbreak ", 20), domain.CategoryInternal, testTime)

	ids := make(map[string]bool)
	for _, c := range chunks {
		assert.False(t, ids[c.ID], "duplicate chunk id %s", c.ID)
		ids[c.ID] = true
	}
}

func TestProcessor_Chunk_Deterministic(t *testing.T) {
	p, err := New(WithChunkSize(7), WithOverlap(3))
	require.NoError(t, err)

	content := "H5N1 detected in poultry farms across the region."
	first := p.Chunk("x", content, domain.CategoryInternal, testTime)
	second := p.Chunk("x", content, domain.CategoryInternal, testTime)

	assert.Equal(t, texts(first), texts(second))
}

func TestProcessor_Chunk_CoversContent(t *testing.T) {
	p, err := New(WithChunkSize(8), WithOverlap(3))
	require.NoError(t, err)

	content := "surveillance report for week twelve"
	chunks := p.Chunk("x", content, domain.CategoryInternal, testTime)
	require.NotEmpty(t, chunks)

	runes := []rune(content)
	for i, c := range chunks {
		start := i * p.Step()
		end := min(start+8, len(runes))
		assert.Equal(t, string(runes[start:end]), c.Text)
	}
}
