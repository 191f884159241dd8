package document

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"pagesift/internal/chunk"
	"pagesift/internal/config"
	"pagesift/internal/middleware"
	"pagesift/internal/worker"
)

type Document struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Filename    string `json:"filename"`
	Path        string `json:"-"`
	ContentHash string `json:"-"`
	Status      string `json:"status"` // in_progress, completed, failed
	Error       string `json:"error,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

type Repository interface {
	Save(ctx context.Context, doc *Document) error
	ExistsByHash(ctx context.Context, hash string) (bool, error)
	Get(ctx context.Context, id string) (*Document, error)
	List(ctx context.Context) ([]Document, error)
	UpdateStatus(ctx context.Context, id, status, errMsg string) error
	SoftDelete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// ChunkStore is the slice of the vector store the document feature needs:
// reading a document's chunks back out and removing them on delete.
type ChunkStore interface {
	ChunksBySource(sourceID string) []chunk.Chunk
	CountBySource(sourceID string) int
	DeleteBySource(sourceID string) (int, error)
}

type EventPublisher interface {
	Publish(topic string, body []byte) error
}

type Service struct {
	repo       Repository
	pub        EventPublisher
	chunkStore ChunkStore
}

func NewService(repo Repository, pub EventPublisher, chunkStore ChunkStore) *Service {
	return &Service{repo: repo, pub: pub, chunkStore: chunkStore}
}

// Upload registers an uploaded file and queues it for ingestion. The
// filename doubles as the chunk-id prefix, so two documents with the same
// filename would collide; the content-hash dedupe usually catches the
// re-upload case first.
func (s *Service) Upload(ctx context.Context, path, hash, name, filename string) (*Document, error) {
	exists, err := s.repo.ExistsByHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("Duplicate detected")
	}

	doc := &Document{
		Name:        name,
		Filename:    filename,
		Path:        path,
		ContentHash: hash,
		Status:      worker.StatusInProgress,
	}
	if err := s.repo.Save(ctx, doc); err != nil {
		return nil, err
	}

	s.publishTask(ctx, doc, false)
	return doc, nil
}

type DocumentDetail struct {
	Document
	Chunks      []chunk.Chunk `json:"chunks"`
	TotalChunks int           `json:"total_chunks"`
}

func (s *Service) Get(ctx context.Context, id string, includeChunks bool) (*DocumentDetail, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &DocumentDetail{
		Document:    *doc,
		Chunks:      []chunk.Chunk{},
		TotalChunks: s.chunkStore.CountBySource(doc.Filename),
	}
	if includeChunks {
		if chunks := s.chunkStore.ChunksBySource(doc.Filename); chunks != nil {
			detail.Chunks = chunks
		}
	}
	return detail, nil
}

func (s *Service) List(ctx context.Context) ([]Document, error) {
	return s.repo.List(ctx)
}

// Delete removes the document's chunks from the index before soft-deleting
// the row, so a failed index cleanup leaves the document visible.
func (s *Service) Delete(ctx context.Context, id string) error {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.chunkStore.DeleteBySource(doc.Filename); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

// Reingest re-queues an existing document. The worker drops the old chunks
// before indexing the fresh ones.
func (s *Service) Reingest(ctx context.Context, id string) error {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateStatus(ctx, id, worker.StatusInProgress, ""); err != nil {
		return err
	}
	s.publishTask(ctx, doc, true)
	return nil
}

func (s *Service) publishTask(ctx context.Context, doc *Document, resync bool) {
	payload, _ := json.Marshal(worker.IngestTask{
		ID:            doc.ID,
		Path:          doc.Path,
		SourceID:      doc.Filename,
		Resync:        resync,
		CorrelationID: middleware.GetCorrelationID(ctx),
	})
	if err := s.pub.Publish(config.TopicIngestTask, payload); err != nil {
		slog.Error("failed to publish ingest.task event", "error", err, "id", doc.ID)
	} else {
		slog.Info("published ingest.task event", "id", doc.ID, "filename", doc.Filename, "resync", resync)
	}
}
