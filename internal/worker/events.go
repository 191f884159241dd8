package worker

// Document lifecycle states carried on ingest results.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// IngestTask asks a worker to chunk, embed and index one uploaded document.
type IngestTask struct {
	ID            string `json:"id"`
	Path          string `json:"path"`
	SourceID      string `json:"source_id"`
	Resync        bool   `json:"resync,omitempty"`
	CorrelationID string `json:"correlation_id"`
}

// IngestResult reports the outcome of an IngestTask.
type IngestResult struct {
	ID            string `json:"id"`
	SourceID      string `json:"source_id"`
	Status        string `json:"status"`
	Error         string `json:"error,omitempty"`
	NumChunks     int    `json:"num_chunks"`
	CorrelationID string `json:"correlation_id"`
}
