package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/biowatch/internal/core/domain"
)

func makeChunks(id string, cat domain.Category, texts ...string) []domain.Chunk {
	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			ID:         id + "-" + text,
			Identifier: id,
			Index:      i,
			Text:       text,
			Category:   cat,
		}
	}
	return chunks
}

func scanTexts(s *ChunkStore) []string {
	var out []string
	s.Scan(func(c domain.Chunk) bool {
		out = append(out, c.Text)
		return true
	})
	return out
}

func TestNewChunkStore(t *testing.T) {
	store := NewChunkStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.chunks)
	assert.Equal(t, 0, store.Len())
}

func TestChunkStore_Replace(t *testing.T) {
	store := NewChunkStore()

	store.Replace("a", makeChunks("a", domain.CategoryInternal, "a0", "a1"))

	got := store.Chunks("a")
	require.Len(t, got, 2)
	assert.Equal(t, "a0", got[0].Text)
	assert.Equal(t, "a1", got[1].Text)
}

func TestChunkStore_Replace_SwapsChunks(t *testing.T) {
	store := NewChunkStore()

	store.Replace("a", makeChunks("a", domain.CategoryInternal, "old0", "old1", "old2"))
	store.Replace("a", makeChunks("a", domain.CategoryInternal, "new0"))

	assert.Equal(t, []string{"new0"}, scanTexts(store))
	total, _ := store.Counts()
	assert.Equal(t, 1, total)
}

func TestChunkStore_Replace_MovesToEnd(t *testing.T) {
	store := NewChunkStore()

	store.Replace("a", makeChunks("a", domain.CategoryInternal, "a0"))
	store.Replace("b", makeChunks("b", domain.CategoryInternal, "b0"))
	store.Replace("a", makeChunks("a", domain.CategoryInternal, "a0'"))

	assert.Equal(t, []string{"b0", "a0'"}, scanTexts(store))
}

func TestChunkStore_Replace_EmptyRemoves(t *testing.T) {
	store := NewChunkStore()

	store.Replace("a", makeChunks("a", domain.CategoryInternal, "a0"))
	store.Replace("a", nil)

	assert.Empty(t, store.Chunks("a"))
	assert.Equal(t, 0, store.Len())
}

func TestChunkStore_Replace_CopiesInput(t *testing.T) {
	store := NewChunkStore()
	chunks := makeChunks("a", domain.CategoryInternal, "a0")

	store.Replace("a", chunks)
	chunks[0].Text = "mutated"

	assert.Equal(t, "a0", store.Chunks("a")[0].Text)
}

func TestChunkStore_Retire(t *testing.T) {
	store := NewChunkStore()

	store.Replace("a", makeChunks("a", domain.CategoryInternal, "a0"))
	store.Replace("b", makeChunks("b", domain.CategoryExternal, "b0"))
	store.Retire("a")

	assert.Empty(t, store.Chunks("a"))
	assert.Equal(t, []string{"b0"}, scanTexts(store))
}

func TestChunkStore_Retire_Unknown(t *testing.T) {
	store := NewChunkStore()
	store.Replace("a", makeChunks("a", domain.CategoryInternal, "a0"))

	store.Retire("missing")

	assert.Equal(t, 1, store.Len())
}

func TestChunkStore_Scan_StopsEarly(t *testing.T) {
	store := NewChunkStore()
	store.Replace("a", makeChunks("a", domain.CategoryInternal, "a0", "a1", "a2"))

	var seen int
	store.Scan(func(domain.Chunk) bool {
		seen++
		return seen < 2
	})

	assert.Equal(t, 2, seen)
}

func TestChunkStore_Counts(t *testing.T) {
	store := NewChunkStore()

	store.Replace("a", makeChunks("a", domain.CategoryInternal, "a0", "a1"))
	store.Replace("b", makeChunks("b", domain.CategoryExternal, "b0"))

	total, byCategory := store.Counts()
	assert.Equal(t, 3, total)
	assert.Equal(t, 2, byCategory[domain.CategoryInternal])
	assert.Equal(t, 1, byCategory[domain.CategoryExternal])
}

func TestChunkStore_ConcurrentAccess(t *testing.T) {
	store := NewChunkStore()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Replace("a", makeChunks("a", domain.CategoryInternal, "x"))
		}()
		go func() {
			defer wg.Done()
			store.Scan(func(domain.Chunk) bool { return true })
			store.Counts()
		}()
	}

	wg.Wait()
	assert.Equal(t, 1, store.Len())
}
