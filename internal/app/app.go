package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"pagesift/features/document"
	"pagesift/features/query"
	"pagesift/features/stats"
	"pagesift/internal/adapter/gemini"
	"pagesift/internal/adapter/ollama"
	"pagesift/internal/adapter/pdf"
	"pagesift/internal/config"
	"pagesift/internal/ingest"
	"pagesift/internal/middleware"
	"pagesift/internal/retrieval"
	"pagesift/internal/settings"
	"pagesift/internal/text"
	"pagesift/internal/vector"
	"pagesift/internal/worker"
)

type TaskPublisher interface {
	Publish(topic string, body []byte) error
}

// Embedder is the full embedding surface the app wires: batch embedding for
// ingestion, single-shot for queries.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

type App struct {
	Handler          http.Handler
	DocumentService  *document.Service
	RetrievalService *retrieval.Service
	IngestConsumer   *worker.IngestConsumer
	ResultConsumer   *worker.ResultConsumer

	port int
}

func New(
	cfg *config.Config,
	db *sql.DB,
	store *vector.Store,
	taskPub TaskPublisher,
) (*App, error) {
	// Feature: Settings
	settingsRepo := settings.NewPostgresRepo(db)
	settingsService := settings.NewService(settingsRepo)

	// Seed Gemini API Key from Config
	if cfg.GeminiAPIKey != "" {
		ctx := context.Background()
		set, err := settingsService.Get(ctx)
		if err == nil {
			if set.GeminiAPIKey == "" {
				set.GeminiAPIKey = cfg.GeminiAPIKey
				if err := settingsService.Update(ctx, set); err != nil {
					slog.Warn("failed to seed gemini api key", "error", err)
				} else {
					slog.Info("seeded gemini api key from environment")
				}
			}
		} else {
			slog.Warn("failed to fetch settings for seeding", "error", err)
		}
	}

	settingsHandler := settings.NewHandler(settingsService)

	// Embedding provider
	var embedder Embedder
	switch cfg.EmbedProvider {
	case "ollama":
		embedder = ollama.NewEmbedder(cfg.OllamaURL, cfg.OllamaModel)
	default:
		embedder = gemini.NewDynamicEmbedder(settingsService)
	}

	// Ingestion pipeline
	chunker := text.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	assembler := ingest.NewAssembler(chunker)
	pipeline := ingest.NewPipeline(assembler, embedder, store.Index)
	loader := pdf.NewLoader()

	// Feature: Document
	documentRepo := document.NewPostgresRepo(db)
	documentService := document.NewService(documentRepo, taskPub, store)
	documentHandler := document.NewHandler(documentService, cfg.UploadDir, cfg.MaxUploadSizeMB)

	// Feature: Query
	queryLogger, err := retrieval.NewFileQueryLogger(cfg.QueryLogPath)
	if err != nil {
		slog.Warn("failed to create query logger, falling back to stdout", "error", err)
		queryLogger = retrieval.NewQueryLogger(os.Stdout)
	}
	retrievalService := retrieval.NewService(embedder, store.Index, settingsService, queryLogger)
	queryHandler := query.NewHandler(retrievalService)

	// Feature: Stats
	statsHandler := stats.NewHandler(documentRepo, store.Index)

	// Middleware: CORS
	enableCORS := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next(w, r)
		}
	}

	// Routes
	mux := http.NewServeMux()

	mux.Handle("POST /documents/upload", middleware.CorrelationID(enableCORS(documentHandler.Upload)))
	mux.Handle("GET /documents", middleware.CorrelationID(enableCORS(documentHandler.List)))
	mux.Handle("GET /documents/{id}", middleware.CorrelationID(enableCORS(documentHandler.Get)))
	mux.Handle("DELETE /documents/{id}", middleware.CorrelationID(enableCORS(documentHandler.Delete)))
	mux.Handle("POST /documents/{id}/reingest", middleware.CorrelationID(enableCORS(documentHandler.Reingest)))

	mux.Handle("POST /query", middleware.CorrelationID(enableCORS(queryHandler.Query)))

	mux.Handle("GET /settings", middleware.CorrelationID(enableCORS(settingsHandler.GetSettings)))
	mux.Handle("PUT /settings", middleware.CorrelationID(enableCORS(settingsHandler.UpdateSettings)))

	mux.Handle("GET /stats", middleware.CorrelationID(enableCORS(statsHandler.GetStats)))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return &App{
		Handler:          mux,
		DocumentService:  documentService,
		RetrievalService: retrievalService,
		IngestConsumer:   worker.NewIngestConsumer(loader, pipeline, store, taskPub),
		ResultConsumer:   worker.NewResultConsumer(documentRepo),
		port:             cfg.ServerPort,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.port),
		Handler: a.Handler,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down server...")
		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("server starting", "port", a.port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
