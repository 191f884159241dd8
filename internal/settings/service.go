package settings

import (
	"context"
)

// Defaults applied when the stored settings row carries zero values.
const (
	DefaultSearchTopK = 5
)

// Settings are the runtime-tunable retrieval knobs.
type Settings struct {
	ID               int     `json:"-"`
	GeminiAPIKey     string  `json:"gemini_api_key"`
	EmbedProvider    string  `json:"embed_provider"`
	RerankWeight     float64 `json:"rerank_weight"`
	RerankMultiplier int     `json:"rerank_multiplier"`
	SearchTopK       int     `json:"search_top_k"`
}

type Repository interface {
	Get(ctx context.Context) (*Settings, error)
	Update(ctx context.Context, s *Settings) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context) (*Settings, error) {
	return s.repo.Get(ctx)
}

func (s *Service) Update(ctx context.Context, set *Settings) error {
	return s.repo.Update(ctx, set)
}
