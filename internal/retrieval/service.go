package retrieval

import (
	"context"
	"fmt"
	"time"

	"pagesift/internal/chunk"
	"pagesift/internal/settings"
)

type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

type Searcher interface {
	Search(vector []float32, topK int, filters map[string]string) ([]chunk.QueryResult, error)
}

type SettingsService interface {
	Get(ctx context.Context) (*settings.Settings, error)
}

type SearchOptions struct {
	TopK         *int
	Filters      map[string]string
	RerankWeight *float64
}

// Service answers similarity queries: embed the question, over-fetch
// candidates from the index so the reranker has a wider pool, blend in the
// lexical overlap score, truncate to topK.
type Service struct {
	embedder Embedder
	index    Searcher
	settings SettingsService
	logger   *QueryLogger
}

func NewService(e Embedder, idx Searcher, set SettingsService, l *QueryLogger) *Service {
	return &Service{embedder: e, index: idx, settings: set, logger: l}
}

func (s *Service) Query(ctx context.Context, question string, opts *SearchOptions) ([]chunk.QueryResult, error) {
	start := time.Now()

	topK := settings.DefaultSearchTopK
	weight := DefaultRerankWeight
	multiplier := DefaultRerankMultiplier

	if s.settings != nil {
		if cfg, err := s.settings.Get(ctx); err == nil && cfg != nil {
			if cfg.SearchTopK > 0 {
				topK = cfg.SearchTopK
			}
			if cfg.RerankWeight >= 0 {
				weight = cfg.RerankWeight
			}
			if cfg.RerankMultiplier > 0 {
				multiplier = cfg.RerankMultiplier
			}
		}
	}

	var filters map[string]string
	if opts != nil {
		if opts.TopK != nil && *opts.TopK > 0 {
			topK = *opts.TopK
		}
		if opts.RerankWeight != nil {
			weight = *opts.RerankWeight
		}
		filters = opts.Filters
	}

	vec, err := s.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	preK := topK * multiplier
	if preK < topK {
		preK = topK
	}
	candidates, err := s.index.Search(vec, preK, filters)
	if err != nil {
		return nil, fmt.Errorf("index search: %w", err)
	}

	results := Rerank(question, candidates, weight)
	if len(results) > topK {
		results = results[:topK]
	}

	if s.logger != nil {
		s.logger.Log(ctx, QueryLogEntry{
			Query:      question,
			TopK:       topK,
			Filters:    filters,
			NumResults: len(results),
			Duration:   time.Since(start),
		})
	}
	return results, nil
}
