package worker

import (
	"context"

	"pagesift/internal/chunk"
)

type DocumentLoader interface {
	Load(path, sourceID string) (chunk.SourceDocument, error)
}

type Ingestor interface {
	Ingest(ctx context.Context, docs []chunk.SourceDocument) ([]chunk.Chunk, error)
}

type IndexStore interface {
	Persist() error
	DeleteBySource(sourceID string) (int, error)
}

type StatusUpdater interface {
	UpdateStatus(ctx context.Context, id, status, errMsg string) error
}

type EventPublisher interface {
	Publish(topic string, body []byte) error
}
