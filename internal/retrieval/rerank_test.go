package retrieval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pagesift/internal/chunk"
	"pagesift/internal/retrieval"
)

func result(id, text string, score float64) chunk.QueryResult {
	return chunk.QueryResult{
		ChunkID: id,
		Text:    text,
		Score:   score,
		Metadata: chunk.ChunkMetadata{
			SourceID: "doc.pdf",
			Page:     1,
			Kind:     chunk.KindText,
		},
	}
}

func TestRerank(t *testing.T) {
	t.Run("Pure Reordering", func(t *testing.T) {
		in := []chunk.QueryResult{
			result("a", "invoice total payment schedule", 0.9),
			result("b", "quarterly revenue breakdown", 0.8),
			result("c", "employee onboarding checklist", 0.7),
		}
		out := retrieval.Rerank("revenue breakdown", in, 0.3)

		assert.Len(t, out, len(in))
		seen := map[string]bool{}
		for _, r := range out {
			seen[r.ChunkID] = true
		}
		for _, r := range in {
			assert.True(t, seen[r.ChunkID], "candidate %s must survive reranking", r.ChunkID)
		}
	})

	t.Run("Exact Number Recovery", func(t *testing.T) {
		// The lexically matching chunk starts with the worse vector score
		// but carries the exact terms the question asks for.
		in := []chunk.QueryResult{
			result("vague", "general discussion of deadlines and planning", 0.80),
			result("exact", "the contract deadline is 2024 with penalty clause 417", 0.60),
		}
		out := retrieval.Rerank("deadline 2024 penalty 417", in, 0.5)

		assert.Equal(t, "exact", out[0].ChunkID)
	})

	t.Run("Zero Weight Keeps Vector Order", func(t *testing.T) {
		in := []chunk.QueryResult{
			result("a", "zzz unrelated words", 0.9),
			result("b", "precise matching terms here", 0.5),
		}
		out := retrieval.Rerank("precise matching terms", in, 0)

		assert.Equal(t, "a", out[0].ChunkID)
		assert.Equal(t, "b", out[1].ChunkID)
	})

	t.Run("Ties Keep Original Order", func(t *testing.T) {
		in := []chunk.QueryResult{
			result("first", "alpha beta", 0.5),
			result("second", "alpha beta", 0.5),
			result("third", "alpha beta", 0.5),
		}
		out := retrieval.Rerank("gamma delta", in, 0.3)

		assert.Equal(t, "first", out[0].ChunkID)
		assert.Equal(t, "second", out[1].ChunkID)
		assert.Equal(t, "third", out[2].ChunkID)
	})

	t.Run("Table Chunks Match On Rendered Cells", func(t *testing.T) {
		table := chunk.QueryResult{
			ChunkID: "doc.pdf:p1:table1",
			Score:   0.4,
			Metadata: chunk.ChunkMetadata{
				SourceID: "doc.pdf",
				Page:     1,
				Kind:     chunk.KindTable,
			},
			Tables: []chunk.TableRecord{{
				ID:      "doc.pdf:p1:table1",
				Headers: []string{"Quarter", "Revenue"},
				Rows:    []map[string]string{{"Quarter": "Q3", "Revenue": "417000"}},
			}},
		}
		in := []chunk.QueryResult{
			result("narrative", "some unrelated narrative text", 0.6),
			table,
		}
		out := retrieval.Rerank("revenue 417000", in, 0.6)

		assert.Equal(t, "doc.pdf:p1:table1", out[0].ChunkID)
	})

	t.Run("Weight Clamped", func(t *testing.T) {
		in := []chunk.QueryResult{
			result("a", "alpha", 0.9),
			result("b", "beta", 0.1),
		}
		assert.NotPanics(t, func() {
			retrieval.Rerank("alpha", in, -5)
			retrieval.Rerank("alpha", in, 5)
		})
	})

	t.Run("Short Inputs Pass Through", func(t *testing.T) {
		single := []chunk.QueryResult{result("only", "text", 0.5)}
		assert.Equal(t, single, retrieval.Rerank("anything", single, 0.3))
		assert.Empty(t, retrieval.Rerank("anything", nil, 0.3))
	})
}
