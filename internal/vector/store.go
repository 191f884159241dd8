package vector

// Store binds an Index to its artifact paths so callers that mutate the
// index can persist without threading paths everywhere.
type Store struct {
	*Index
	indexPath string
	metaPath  string
}

func NewStore(idx *Index, indexPath, metaPath string) *Store {
	return &Store{Index: idx, indexPath: indexPath, metaPath: metaPath}
}

// Persist writes the current snapshot to the bound artifact paths.
func (s *Store) Persist() error {
	return s.Save(s.indexPath, s.metaPath)
}

// DeleteBySource removes a source's chunks and persists the shrunken
// snapshot when anything was dropped.
func (s *Store) DeleteBySource(sourceID string) (int, error) {
	removed := s.Index.DeleteBySource(sourceID)
	if removed == 0 {
		return 0, nil
	}
	return removed, s.Persist()
}
