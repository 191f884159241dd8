package vector

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"pagesift/internal/chunk"
)

const artifactVersion = 1

// vectorArtifact and metaArtifact are versioned together: both carry the
// same snapshot id, written in one Save call. Loading artifacts from
// different snapshots, or artifacts whose chunk-id sets disagree, is a
// corruption, not a soft fallback.
type vectorArtifact struct {
	Version  int                  `json:"version"`
	Snapshot string               `json:"snapshot"`
	Dim      int                  `json:"dim"`
	IDs      []string             `json:"ids"`
	Vectors  map[string][]float32 `json:"vectors"`
}

type metaArtifact struct {
	Version  int                    `json:"version"`
	Snapshot string                 `json:"snapshot"`
	Chunks   map[string]chunk.Chunk `json:"chunks"`
}

// Save persists the vector store and the chunk table as two JSON artifacts.
// Each file is written to a temp path and renamed, so a crash mid-write
// leaves the previous artifacts intact rather than half a snapshot.
func (x *Index) Save(indexPath, metaPath string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	snapshot := uuid.New().String()

	va := vectorArtifact{
		Version:  artifactVersion,
		Snapshot: snapshot,
		Dim:      x.dim,
		IDs:      x.ids,
		Vectors:  x.vectors,
	}
	ma := metaArtifact{
		Version:  artifactVersion,
		Snapshot: snapshot,
		Chunks:   x.chunks,
	}

	if err := writeJSONAtomic(indexPath, va); err != nil {
		return fmt.Errorf("save vector artifact: %w", err)
	}
	if err := writeJSONAtomic(metaPath, ma); err != nil {
		return fmt.Errorf("save meta artifact: %w", err)
	}
	return nil
}

// Load restores a saved snapshot. A missing artifact yields
// ErrIndexUnavailable; anything unreadable or inconsistent yields
// ErrIndexCorrupt. The in-memory state is untouched on failure.
func (x *Index) Load(indexPath, metaPath string) error {
	var va vectorArtifact
	if err := readJSON(indexPath, &va); err != nil {
		return err
	}
	var ma metaArtifact
	if err := readJSON(metaPath, &ma); err != nil {
		return err
	}

	if va.Version != artifactVersion || ma.Version != artifactVersion {
		return fmt.Errorf("%w: unsupported artifact version", ErrIndexCorrupt)
	}
	if va.Snapshot == "" || va.Snapshot != ma.Snapshot {
		return fmt.Errorf("%w: vector and meta artifacts are from different snapshots", ErrIndexCorrupt)
	}
	if len(va.IDs) != len(ma.Chunks) || len(va.IDs) != len(va.Vectors) {
		return fmt.Errorf("%w: chunk id sets do not match", ErrIndexCorrupt)
	}
	for _, id := range va.IDs {
		if _, ok := va.Vectors[id]; !ok {
			return fmt.Errorf("%w: missing vector for chunk %s", ErrIndexCorrupt, id)
		}
		if _, ok := ma.Chunks[id]; !ok {
			return fmt.Errorf("%w: missing metadata for chunk %s", ErrIndexCorrupt, id)
		}
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.dim = va.Dim
	x.ids = va.IDs
	x.vectors = va.Vectors
	x.chunks = ma.Chunks
	return nil
}

func writeJSONAtomic(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "tmp-*.json")
	if err != nil {
		return err
	}
	if err := json.NewEncoder(tmp).Encode(v); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrIndexUnavailable, path)
		}
		return fmt.Errorf("%w: %s: %v", ErrIndexCorrupt, path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrIndexCorrupt, path, err)
	}
	return nil
}
