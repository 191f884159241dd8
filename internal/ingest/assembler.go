package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"pagesift/internal/chunk"
	"pagesift/internal/segment"
	"pagesift/internal/text"
)

// Assembler walks a page's classified line spans in source order and emits
// one chunk per narrative span piece and one chunk per accepted table
// block. Tables are removed from the narrative stream, never duplicated
// into it: concatenating the text chunks (de-overlapped) plus a placeholder
// per table chunk reconstructs the page's non-blank lines in order.
//
// Assembly is a pure function of the input document and chunker
// parameters, so re-ingesting the same source yields byte-identical chunks.
type Assembler struct {
	chunker text.Chunker
}

func NewAssembler(chunker text.Chunker) Assembler {
	return Assembler{chunker: chunker}
}

func (a Assembler) Assemble(doc chunk.SourceDocument) []chunk.Chunk {
	var chunks []chunk.Chunk
	for _, page := range doc.Pages {
		chunks = append(chunks, a.AssemblePage(doc.SourceID, page)...)
	}
	return chunks
}

func (a Assembler) AssemblePage(sourceID string, page chunk.PageContent) []chunk.Chunk {
	lines := strings.Split(page.Text, "\n")
	spans := segment.Segment(lines)

	var chunks []chunk.Chunk
	pos := 0    // running per-page chunk position
	tables := 0 // per-page table counter

	emitText := func(spanText string) {
		spanText = strings.TrimSpace(spanText)
		if spanText == "" {
			return
		}
		for _, piece := range a.chunker.Split(spanText) {
			pos++
			chunks = append(chunks, chunk.Chunk{
				ID:       fmt.Sprintf("%s:p%d:%d", sourceID, page.Page, pos),
				Text:     piece,
				Metadata: makeMetadata(sourceID, page, chunk.KindText),
			})
		}
	}

	for _, span := range spans {
		if span.Kind == segment.SpanTable {
			rec, ok := segment.BuildTable(span.Lines, sourceID, page.Page, tables+1)
			if ok {
				tables++
				pos++
				chunks = append(chunks, chunk.Chunk{
					ID:       rec.ID,
					Text:     "",
					Metadata: makeMetadata(sourceID, page, chunk.KindTable),
					Tables:   []chunk.TableRecord{rec},
				})
				continue
			}
			// Pathological block that slipped past the collector heuristic:
			// degrade to narrative rather than dropping content.
		}
		emitText(strings.Join(span.Lines, "\n"))
	}

	return chunks
}

func makeMetadata(sourceID string, page chunk.PageContent, kind string) chunk.ChunkMetadata {
	return chunk.ChunkMetadata{
		SourceID:  sourceID,
		Page:      page.Page,
		Kind:      kind,
		ImageRefs: page.ImageRefs,
		Extra: map[string]string{
			"source_id": sourceID,
			"page":      strconv.Itoa(page.Page),
			"kind":      kind,
		},
	}
}
