package vector

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"pagesift/internal/chunk"
)

var (
	// ErrIndexUnavailable means a persisted artifact is missing. Callers can
	// choose to start with an empty index; the distinction from an empty
	// store is deliberate so stale state is never loaded silently.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrIndexCorrupt means the artifacts exist but cannot be trusted:
	// unreadable, from different snapshots, or with mismatched chunk ids.
	ErrIndexCorrupt = errors.New("index corrupt")
)

// Index is the process-wide store mapping chunk id -> embedding vector ->
// chunk. Scores are cosine similarity: higher is better, 1 is identical
// direction. Search iterates every stored vector (flat index), so filters
// always apply before truncation to topK.
//
// Upsert, Save and Load take the write lock (single-writer discipline);
// concurrent Search calls share the read lock.
type Index struct {
	mu      sync.RWMutex
	dim     int
	ids     []string // insertion order, one entry per live chunk
	vectors map[string][]float32
	chunks  map[string]chunk.Chunk
}

func NewIndex() *Index {
	return &Index{
		vectors: make(map[string][]float32),
		chunks:  make(map[string]chunk.Chunk),
	}
}

// Upsert adds each (chunk, vector) pair; vectors[i] belongs to chunks[i].
// Re-upserting an existing chunk id replaces its vector and metadata, last
// write wins. There is no deduplication by content.
func (x *Index) Upsert(chunks []chunk.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("upsert: %d chunks but %d vectors", len(chunks), len(vectors))
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	for i, c := range chunks {
		v := vectors[i]
		if len(v) == 0 {
			return fmt.Errorf("upsert: empty vector for chunk %s", c.ID)
		}
		if x.dim == 0 {
			x.dim = len(v)
		}
		if len(v) != x.dim {
			return fmt.Errorf("upsert: vector for chunk %s has dim %d, index has dim %d", c.ID, len(v), x.dim)
		}
		if _, exists := x.chunks[c.ID]; !exists {
			x.ids = append(x.ids, c.ID)
		}
		x.vectors[c.ID] = v
		x.chunks[c.ID] = c
	}
	return nil
}

// Search returns up to topK results ordered best-first. filters are
// AND-combined exact string matches against chunk metadata extra; filters
// are applied before truncating to topK, so a heavily filtered query still
// fills its quota from whatever matches. Unknown filter keys simply match
// nothing.
func (x *Index) Search(query []float32, topK int, filters map[string]string) ([]chunk.QueryResult, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if topK <= 0 || len(x.ids) == 0 {
		return nil, nil
	}
	if x.dim != 0 && len(query) != x.dim {
		return nil, fmt.Errorf("search: query vector has dim %d, index has dim %d", len(query), x.dim)
	}

	results := make([]chunk.QueryResult, 0, len(x.ids))
	for _, id := range x.ids {
		c := x.chunks[id]
		if !passesFilters(c, filters) {
			continue
		}
		results = append(results, chunk.QueryResult{
			ChunkID:  c.ID,
			Text:     c.Text,
			Metadata: c.Metadata,
			Score:    cosine(query, x.vectors[id]),
			Tables:   c.Tables,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Len reports the number of stored chunks.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.ids)
}

// DeleteBySource removes every chunk belonging to sourceID and reports how
// many were dropped.
func (x *Index) DeleteBySource(sourceID string) int {
	x.mu.Lock()
	defer x.mu.Unlock()

	kept := x.ids[:0]
	removed := 0
	for _, id := range x.ids {
		if x.chunks[id].Metadata.SourceID == sourceID {
			delete(x.chunks, id)
			delete(x.vectors, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	x.ids = kept
	return removed
}

// CountBySource reports the number of stored chunks for sourceID.
func (x *Index) CountBySource(sourceID string) int {
	x.mu.RLock()
	defer x.mu.RUnlock()

	n := 0
	for _, id := range x.ids {
		if x.chunks[id].Metadata.SourceID == sourceID {
			n++
		}
	}
	return n
}

// ChunksBySource returns the stored chunks for sourceID in insertion order.
func (x *Index) ChunksBySource(sourceID string) []chunk.Chunk {
	x.mu.RLock()
	defer x.mu.RUnlock()

	var out []chunk.Chunk
	for _, id := range x.ids {
		if c := x.chunks[id]; c.Metadata.SourceID == sourceID {
			out = append(out, c)
		}
	}
	return out
}

func passesFilters(c chunk.Chunk, filters map[string]string) bool {
	for k, want := range filters {
		if got, ok := c.Metadata.Extra[k]; !ok || got != want {
			return false
		}
	}
	return true
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
