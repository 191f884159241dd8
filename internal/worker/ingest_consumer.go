package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nsqio/go-nsq"

	"pagesift/internal/chunk"
	"pagesift/internal/config"
	"pagesift/internal/middleware"
)

const ingestTimeout = 120 * time.Second

// IngestConsumer processes ingest.task messages: load the document, run the
// chunk/embed/index pipeline, persist the index snapshot, report the outcome
// on ingest.result.
type IngestConsumer struct {
	loader   DocumentLoader
	ingestor Ingestor
	store    IndexStore
	pub      EventPublisher
}

func NewIngestConsumer(loader DocumentLoader, ingestor Ingestor, store IndexStore, pub EventPublisher) *IngestConsumer {
	return &IngestConsumer{
		loader:   loader,
		ingestor: ingestor,
		store:    store,
		pub:      pub,
	}
}

func (h *IngestConsumer) HandleMessage(m *nsq.Message) error {
	if len(m.Body) == 0 {
		return nil
	}

	var task IngestTask
	if err := json.Unmarshal(m.Body, &task); err != nil {
		// Poison Pill: Invalid JSON, don't retry
		slog.Error("poison pill: invalid json", "error", err)
		return nil
	}

	ctx := context.Background()
	if task.CorrelationID != "" {
		ctx = middleware.WithCorrelationID(ctx, task.CorrelationID)
	}
	ctx, cancel := context.WithTimeout(ctx, ingestTimeout)
	defer cancel()

	if task.Resync {
		// Fresh start: old chunks out before the new ones go in, so a
		// shrunken document leaves no stale chunks behind.
		if _, err := h.store.DeleteBySource(task.SourceID); err != nil {
			slog.ErrorContext(ctx, "resync cleanup failed", "error", err, "source_id", task.SourceID)
			return err // Retry
		}
	}

	doc, err := h.loader.Load(task.Path, task.SourceID)
	if err != nil {
		// An unreadable file won't fix itself on redelivery.
		slog.ErrorContext(ctx, "document load failed", "error", err, "path", task.Path)
		h.publishResult(ctx, task, StatusFailed, err.Error(), 0)
		return nil
	}

	chunks, err := h.ingestor.Ingest(ctx, []chunk.SourceDocument{doc})
	if err != nil {
		slog.ErrorContext(ctx, "ingestion failed", "error", err, "source_id", task.SourceID)
		return err // Retry
	}

	if err := h.store.Persist(); err != nil {
		slog.ErrorContext(ctx, "index persist failed", "error", err, "source_id", task.SourceID)
		return err // Retry
	}

	h.publishResult(ctx, task, StatusCompleted, "", len(chunks))
	slog.InfoContext(ctx, "document ingested", "source_id", task.SourceID, "chunks", len(chunks))
	return nil
}

func (h *IngestConsumer) publishResult(ctx context.Context, task IngestTask, status, errMsg string, numChunks int) {
	payload, _ := json.Marshal(IngestResult{
		ID:            task.ID,
		SourceID:      task.SourceID,
		Status:        status,
		Error:         errMsg,
		NumChunks:     numChunks,
		CorrelationID: task.CorrelationID,
	})
	if err := h.pub.Publish(config.TopicIngestResult, payload); err != nil {
		slog.ErrorContext(ctx, "failed to publish ingest.result event", "error", err)
	}
}
