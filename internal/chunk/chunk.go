package chunk

// Kind values for ChunkMetadata.Kind and the "kind" filter key.
const (
	KindText  = "text"
	KindTable = "table"
)

type ImageRef struct {
	Path    string `json:"path"`
	Page    int    `json:"page"`
	Caption string `json:"caption,omitempty"`
}

// TableRecord is the structured form of one extracted table. Every row maps
// header name -> cell value; a row's key set is always a subset of Headers.
// Records are built once during ingestion and never mutated.
type TableRecord struct {
	ID      string              `json:"id"`
	Headers []string            `json:"headers"`
	Rows    []map[string]string `json:"rows"`
}

type ChunkMetadata struct {
	SourceID  string     `json:"source_id"`
	Page      int        `json:"page"`
	Section   string     `json:"section,omitempty"`
	Kind      string     `json:"kind"`
	ImageRefs []ImageRef `json:"image_refs,omitempty"`

	// Extra mirrors source_id/page/kind as strings for exact-match filtering.
	Extra map[string]string `json:"extra"`
}

// Chunk is one retrievable unit. Text is empty exactly when Kind is table,
// in which case Tables holds the structured table. Identity is ID.
type Chunk struct {
	ID       string        `json:"id"`
	Text     string        `json:"text"`
	Metadata ChunkMetadata `json:"metadata"`
	Tables   []TableRecord `json:"tables,omitempty"`
}

type QueryResult struct {
	ChunkID  string        `json:"chunk_id"`
	Text     string        `json:"text"`
	Metadata ChunkMetadata `json:"metadata"`
	// Score is cosine similarity against the query vector; higher is better.
	Score  float64       `json:"score"`
	Tables []TableRecord `json:"tables,omitempty"`
}

type PageContent struct {
	Page      int        `json:"page"`
	Text      string     `json:"text"`
	ImageRefs []ImageRef `json:"image_refs,omitempty"`
}

// SourceDocument is what a document loader produces: ordered per-page raw
// text plus image locations, nothing else.
type SourceDocument struct {
	SourceID string        `json:"source_id"`
	Pages    []PageContent `json:"pages"`
}
