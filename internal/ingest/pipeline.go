package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"pagesift/internal/chunk"
)

type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

type Index interface {
	Upsert(chunks []chunk.Chunk, vectors [][]float32) error
}

// Pipeline runs one synchronous ingestion batch: assemble chunks, embed
// their rendered text, upsert into the index. An embedder failure aborts
// the whole batch before any index mutation, so the index never ends up
// silently half-populated; retry policy belongs to the caller.
type Pipeline struct {
	assembler Assembler
	embedder  Embedder
	index     Index
}

func NewPipeline(assembler Assembler, embedder Embedder, index Index) *Pipeline {
	return &Pipeline{assembler: assembler, embedder: embedder, index: index}
}

func (p *Pipeline) Ingest(ctx context.Context, docs []chunk.SourceDocument) ([]chunk.Chunk, error) {
	var chunks []chunk.Chunk
	for _, doc := range docs {
		chunks = append(chunks, p.assembler.Assemble(doc)...)
	}
	if len(chunks) == 0 {
		slog.InfoContext(ctx, "ingestion produced no chunks")
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = chunk.EmbeddingText(c)
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunk batch: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	if err := p.index.Upsert(chunks, vectors); err != nil {
		return nil, fmt.Errorf("upsert chunk batch: %w", err)
	}

	slog.InfoContext(ctx, "ingestion batch complete", "chunks", len(chunks), "documents", len(docs))
	return chunks, nil
}
