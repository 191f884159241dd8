package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"google.golang.org/api/option"

	"pagesift/internal/settings"
)

// DynamicEmbedder resolves the API key from settings on every call, so a key
// rotated through the settings endpoint takes effect without a restart.
// Requests go through a cached Embedder that is rebuilt only when the key
// changes.
type DynamicEmbedder struct {
	settingsSvc *settings.Service
	embedder    *Embedder
	currentKey  string
	mu          sync.RWMutex
	clientOpts  []option.ClientOption
}

func NewDynamicEmbedder(svc *settings.Service, opts ...option.ClientOption) *DynamicEmbedder {
	return &DynamicEmbedder{
		settingsSvc: svc,
		clientOpts:  opts,
	}
}

func (e *DynamicEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	emb, err := e.resolveEmbedder(ctx)
	if err != nil {
		return nil, err
	}
	return emb.EmbedTexts(ctx, texts)
}

func (e *DynamicEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	emb, err := e.resolveEmbedder(ctx)
	if err != nil {
		return nil, err
	}
	return emb.EmbedQuery(ctx, text)
}

func (e *DynamicEmbedder) resolveEmbedder(ctx context.Context) (*Embedder, error) {
	s, err := e.settingsSvc.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	if s.GeminiAPIKey == "" {
		return nil, fmt.Errorf("gemini api key not configured")
	}
	return e.getEmbedder(ctx, s.GeminiAPIKey)
}

func (e *DynamicEmbedder) getEmbedder(ctx context.Context, key string) (*Embedder, error) {
	e.mu.RLock()
	if e.embedder != nil && e.currentKey == key {
		defer e.mu.RUnlock()
		return e.embedder, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	// Double check
	if e.embedder != nil && e.currentKey == key {
		return e.embedder, nil
	}

	if e.embedder != nil {
		if err := e.embedder.Close(); err != nil {
			slog.Warn("failed to close previous gemini embedder", "error", err)
		}
	}

	emb, err := NewEmbedder(ctx, key, e.clientOpts...)
	if err != nil {
		return nil, err
	}

	e.embedder = emb
	e.currentKey = key
	return emb, nil
}
