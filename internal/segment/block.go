package segment

import "strings"

type SpanKind int

const (
	SpanNarrative SpanKind = iota
	SpanTable
)

// Span tags a run of consecutive page lines as narrative text or one
// candidate table block. Spans partition the input: original line order is
// preserved and no line appears in two spans.
type Span struct {
	Kind  SpanKind
	Lines []string
}

// Segment scans a page's lines in order and collects runs of consecutive
// table-like lines into table spans. A run ends at the first blank line or
// first line the predicate rejects. Runs shorter than two lines (header plus
// at least one data line) are demoted back to narrative, which guards
// against a lone sentence with multiple spaces being promoted to a table.
func Segment(lines []string) []Span {
	var spans []Span
	var narrative []string
	var block []string

	flushNarrative := func() {
		if len(narrative) > 0 {
			spans = append(spans, Span{Kind: SpanNarrative, Lines: narrative})
			narrative = nil
		}
	}
	flushBlock := func() {
		if len(block) == 0 {
			return
		}
		if len(block) >= 2 {
			flushNarrative()
			spans = append(spans, Span{Kind: SpanTable, Lines: block})
		} else {
			// False positive: a single matching line stays narrative.
			narrative = append(narrative, block...)
		}
		block = nil
	}

	for _, line := range lines {
		if strings.TrimSpace(line) != "" && IsTableLine(line) {
			block = append(block, line)
			continue
		}
		flushBlock()
		narrative = append(narrative, line)
	}
	flushBlock()
	flushNarrative()

	return spans
}
