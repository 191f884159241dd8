package text

import (
	"strings"
	"unicode"
)

const (
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 120
)

// Chunker splits narrative text into overlapping fixed-size chunks. Break
// points are chosen by separator granularity: the farthest paragraph
// boundary inside the size budget wins, then a line boundary, then a
// whitespace boundary, then a hard character cut. Every chunk after the
// first is extended backwards by Overlap characters of its predecessor,
// clamped to the start of the text, so chunks are exact substrings of the
// input and consecutive chunks share exactly Overlap characters unless the
// preceding cut sits closer to the start than Overlap.
//
// Split is pure: the same input and parameters always produce the same
// chunks.
type Chunker struct {
	Size    int
	Overlap int
}

func NewChunker(size, overlap int) Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size - 1
	}
	return Chunker{Size: size, Overlap: overlap}
}

func (c Chunker) Split(text string) []string {
	if text == "" {
		return nil
	}
	norm := NewChunker(c.Size, c.Overlap)
	size, overlap := norm.Size, norm.Overlap

	// Input within budget: exactly one chunk, no overlap applied.
	if len(text) <= size {
		return []string{text}
	}

	cuts := cutPoints(text, size)

	chunks := make([]string, 0, len(cuts)+1)
	prev := 0
	for _, cut := range cuts {
		chunks = append(chunks, text[chunkStart(prev, overlap, len(chunks)):cut])
		prev = cut
	}
	chunks = append(chunks, text[chunkStart(prev, overlap, len(chunks)):])

	return chunks
}

// chunkStart extends every chunk after the first backwards by overlap,
// clamped to the start of the text. A cut point can land closer to the
// start than the overlap span when the first break boundary sits in the
// opening characters.
func chunkStart(prev, overlap, emitted int) int {
	if emitted == 0 {
		return prev
	}
	start := prev - overlap
	if start < 0 {
		return 0
	}
	return start
}

// cutPoints walks the text greedily, picking for each window of at most
// size bytes the best break point by separator priority. The returned
// offsets are strictly increasing and exclude 0 and len(text).
func cutPoints(text string, size int) []int {
	var cuts []int
	pos := 0
	for len(text)-pos > size {
		window := text[pos : pos+size]

		cut := pos + size // hard cut fallback
		if idx := strings.LastIndex(window, "\n\n"); idx >= 0 {
			cut = pos + idx + 2
		} else if idx := strings.LastIndex(window, "\n"); idx >= 0 {
			cut = pos + idx + 1
		} else if idx := strings.LastIndexFunc(window, unicode.IsSpace); idx > 0 {
			cut = pos + idx + 1
		}

		if cut <= pos {
			cut = pos + size
		}
		cuts = append(cuts, cut)
		pos = cut
	}
	return cuts
}
