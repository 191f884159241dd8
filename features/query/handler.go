package query

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"pagesift/internal/chunk"
	"pagesift/internal/middleware"
	"pagesift/internal/retrieval"
)

// Filter keys the index stores per chunk; anything else is a client error
// rather than a silent empty result.
var allowedFilterKeys = map[string]bool{
	"source_id": true,
	"page":      true,
	"kind":      true,
}

type QueryService interface {
	Query(ctx context.Context, question string, opts *retrieval.SearchOptions) ([]chunk.QueryResult, error)
}

type Handler struct {
	service QueryService
}

func NewHandler(service QueryService) *Handler {
	return &Handler{service: service}
}

type queryRequest struct {
	Question     string            `json:"question"`
	TopK         *int              `json:"top_k,omitempty"`
	Filters      map[string]string `json:"filters,omitempty"`
	RerankWeight *float64          `json:"rerank_weight,omitempty"`
	Page         *int              `json:"page,omitempty"`
	Kind         string            `json:"kind,omitempty"`
	SourceID     string            `json:"source_id,omitempty"`
}

func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(r.Context(), w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		h.writeError(r.Context(), w, "VALIDATION_ERROR", "question is required", http.StatusBadRequest)
		return
	}
	if req.TopK != nil && *req.TopK <= 0 {
		h.writeError(r.Context(), w, "VALIDATION_ERROR", "top_k must be positive", http.StatusBadRequest)
		return
	}
	if req.RerankWeight != nil && (*req.RerankWeight < 0 || *req.RerankWeight > 1) {
		h.writeError(r.Context(), w, "VALIDATION_ERROR", "rerank_weight must be within [0, 1]", http.StatusBadRequest)
		return
	}

	filters := map[string]string{}
	for k, v := range req.Filters {
		if !allowedFilterKeys[k] {
			h.writeError(r.Context(), w, "VALIDATION_ERROR", "unknown filter key: "+k, http.StatusBadRequest)
			return
		}
		filters[k] = v
	}
	// Top-level shorthands for the common filters
	if req.SourceID != "" {
		filters["source_id"] = req.SourceID
	}
	if req.Page != nil {
		filters["page"] = strconv.Itoa(*req.Page)
	}
	if req.Kind != "" {
		if req.Kind != chunk.KindText && req.Kind != chunk.KindTable {
			h.writeError(r.Context(), w, "VALIDATION_ERROR", "kind must be text or table", http.StatusBadRequest)
			return
		}
		filters["kind"] = req.Kind
	}
	if len(filters) == 0 {
		filters = nil
	}

	results, err := h.service.Query(r.Context(), req.Question, &retrieval.SearchOptions{
		TopK:         req.TopK,
		Filters:      filters,
		RerankWeight: req.RerankWeight,
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "query failed", "error", err)
		h.writeError(r.Context(), w, "INTERNAL_ERROR", "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if results == nil {
		results = []chunk.QueryResult{}
	}

	w.Header().Set("Content-Type", "application/json")
	resp := map[string]interface{}{
		"data": results,
		"meta": map[string]int{"count": len(results)},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, code, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
		"correlationId": middleware.GetCorrelationID(ctx),
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
