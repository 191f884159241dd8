package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"pagesift/internal/chunk"
)

// Loader turns an uploaded file into a SourceDocument with per-page text.
// PDFs keep their native page boundaries; plain text files use form feeds as
// page breaks, the whole file being page 1 when none are present.
type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

func (l *Loader) Load(path, sourceID string) (chunk.SourceDocument, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return l.loadPDF(path, sourceID)
	default:
		return l.loadText(path, sourceID)
	}
}

func (l *Loader) loadPDF(path, sourceID string) (chunk.SourceDocument, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return chunk.SourceDocument{}, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	doc := chunk.SourceDocument{SourceID: sourceID}
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return chunk.SourceDocument{}, fmt.Errorf("extract page %d: %w", i, err)
		}
		doc.Pages = append(doc.Pages, chunk.PageContent{
			Page: i,
			Text: text,
		})
	}
	return doc, nil
}

func (l *Loader) loadText(path, sourceID string) (chunk.SourceDocument, error) {
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return chunk.SourceDocument{}, fmt.Errorf("read file: %w", err)
	}

	doc := chunk.SourceDocument{SourceID: sourceID}
	for i, pageText := range strings.Split(string(raw), "\f") {
		doc.Pages = append(doc.Pages, chunk.PageContent{
			Page: i + 1,
			Text: pageText,
		})
	}
	return doc, nil
}
