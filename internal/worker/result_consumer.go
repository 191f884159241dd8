package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nsqio/go-nsq"

	"pagesift/internal/middleware"
)

// ResultConsumer applies ingest.result messages to the documents table.
type ResultConsumer struct {
	docs StatusUpdater
}

func NewResultConsumer(docs StatusUpdater) *ResultConsumer {
	return &ResultConsumer{docs: docs}
}

func (h *ResultConsumer) HandleMessage(m *nsq.Message) error {
	if len(m.Body) == 0 {
		return nil
	}

	var result IngestResult
	if err := json.Unmarshal(m.Body, &result); err != nil {
		// Poison Pill: Invalid JSON, don't retry
		slog.Error("poison pill: invalid json", "error", err)
		return nil
	}

	ctx := context.Background()
	if result.CorrelationID != "" {
		ctx = middleware.WithCorrelationID(ctx, result.CorrelationID)
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := h.docs.UpdateStatus(ctx, result.ID, result.Status, result.Error); err != nil {
		slog.ErrorContext(ctx, "status update failed", "error", err, "id", result.ID)
		return err // Retry
	}

	slog.InfoContext(ctx, "document status updated", "id", result.ID, "status", result.Status, "chunks", result.NumChunks)
	return nil
}
