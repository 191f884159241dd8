package chunk

import (
	"fmt"
	"strings"
)

// tableTextMaxRows caps how many rows are rendered into embedding text.
// Wide tables embed fine from a sample; full rows are preserved in the
// structured record.
const tableTextMaxRows = 5

// TableText renders a table to compact pipe-separated text for embedding
// and lexical matching.
func TableText(t TableRecord) string {
	headers := make([]string, 0, len(t.Headers))
	for _, h := range t.Headers {
		if s := strings.TrimSpace(h); s != "" {
			headers = append(headers, s)
		}
	}

	var rows []string
	for i, row := range t.Rows {
		if i >= tableTextMaxRows {
			break
		}
		vals := make([]string, 0, len(t.Headers))
		for _, h := range t.Headers {
			vals = append(vals, strings.TrimSpace(row[h]))
		}
		line := strings.Join(vals, " | ")
		if strings.TrimSpace(line) != "" {
			rows = append(rows, line)
		}
	}

	var parts []string
	if len(headers) > 0 {
		parts = append(parts, strings.Join(headers, " | "))
	}
	if len(rows) > 0 {
		parts = append(parts, strings.Join(rows, "\n"))
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// EmbeddingText produces the string handed to the embedder for a chunk.
// Text chunks embed their text, table chunks embed the rendered tables,
// and the chunk id is the last resort so the embedder input is never empty
// and positional alignment with the chunk batch is preserved.
func EmbeddingText(c Chunk) string {
	meta := fmt.Sprintf("source_id: %s | page: %d | kind: %s",
		c.Metadata.SourceID, c.Metadata.Page, c.Metadata.Kind)

	if text := strings.TrimSpace(c.Text); text != "" {
		return text + "\n\n" + meta
	}

	if len(c.Tables) > 0 {
		var rendered []string
		for _, t := range c.Tables {
			if s := TableText(t); s != "" {
				rendered = append(rendered, s)
			}
		}
		if len(rendered) > 0 {
			return strings.Join(rendered, "\n\n") + "\n\n" + meta
		}
	}

	return c.ID + "\n\n" + meta
}

// SearchText is the lexical-match view of a result: chunk text for text
// chunks, flattened headers and cells for table chunks.
func SearchText(r QueryResult) string {
	if text := strings.TrimSpace(r.Text); text != "" {
		return text
	}
	var rendered []string
	for _, t := range r.Tables {
		if s := TableText(t); s != "" {
			rendered = append(rendered, s)
		}
	}
	if len(rendered) > 0 {
		return strings.Join(rendered, "\n\n")
	}
	return r.ChunkID
}
