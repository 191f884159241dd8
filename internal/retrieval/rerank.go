package retrieval

import (
	"regexp"
	"sort"
	"strings"

	"pagesift/internal/chunk"
)

// DefaultRerankWeight is the lexical share of the combined score; vector
// similarity keeps the larger share by default.
const (
	DefaultRerankWeight     = 0.3
	DefaultRerankMultiplier = 3
)

var tokenRe = regexp.MustCompile(`[a-z0-9]+`)

// Short or structural words that carry no ranking signal.
var stopTerms = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "this": {}, "that": {},
	"from": {}, "are": {}, "was": {}, "were": {}, "you": {}, "your": {},
	"but": {}, "not": {}, "can": {}, "will": {}, "have": {}, "has": {},
	"had": {}, "all": {}, "any": {}, "page": {}, "source": {}, "chunk": {},
	"type": {}, "table": {}, "text": {},
}

// Rerank reorders candidates by blending vector similarity with
// token-overlap against the question. It recovers exact-phrase and
// exact-number matches (dates, identifiers) that embedding similarity
// under-ranks. Pure reordering: the returned slice holds exactly the input
// candidates, ties keep their original vector rank.
func Rerank(question string, results []chunk.QueryResult, weight float64) []chunk.QueryResult {
	if len(results) < 2 {
		return results
	}
	if weight < 0 {
		weight = 0
	}
	if weight > 1 {
		weight = 1
	}

	queryTerms := normalizeTerms(question)

	type scored struct {
		combined float64
		result   chunk.QueryResult
	}
	ranked := make([]scored, len(results))
	for i, r := range results {
		overlap := overlapScore(queryTerms, chunk.SearchText(r))
		ranked[i] = scored{
			combined: (1-weight)*r.Score + weight*overlap,
			result:   r,
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].combined > ranked[j].combined
	})

	out := make([]chunk.QueryResult, len(ranked))
	for i, s := range ranked {
		out[i] = s.result
	}
	return out
}

func normalizeTerms(text string) map[string]struct{} {
	terms := make(map[string]struct{})
	for _, tok := range tokenRe.FindAllString(strings.ToLower(text), -1) {
		if len(tok) <= 2 {
			continue
		}
		if _, stop := stopTerms[tok]; stop {
			continue
		}
		terms[tok] = struct{}{}
	}
	return terms
}

func overlapScore(queryTerms map[string]struct{}, text string) float64 {
	if len(queryTerms) == 0 {
		return 0
	}
	terms := normalizeTerms(text)
	if len(terms) == 0 {
		return 0
	}
	hits := 0
	for t := range queryTerms {
		if _, ok := terms[t]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(queryTerms))
}
