package segment

import (
	"regexp"
	"strings"
)

// Defaults for the table-row heuristic. MaxCellLen keeps prose sentences
// that happen to contain double spaces from qualifying; MinLineLen drops
// stray extraction artifacts.
const (
	DefaultMaxCellLen = 100
	DefaultMinLineLen = 10
)

var columnGapRe = regexp.MustCompile(`\s{2,}`)

// IsTableLine reports whether one line of page text looks like a table row.
// A line qualifies when it splits into at least two non-empty column
// candidates on runs of two or more whitespace characters, every candidate
// except possibly the last stays under MaxCellLen, and the trimmed line is
// longer than MinLineLen. Stateless and deterministic.
func IsTableLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) <= DefaultMinLineLen {
		return false
	}

	cells := splitOnGaps(trimmed)
	if len(cells) < 2 {
		return false
	}
	for i, cell := range cells {
		if i < len(cells)-1 && len(cell) > DefaultMaxCellLen {
			return false
		}
	}
	return true
}

// SplitColumns splits one table line into column values. Runs of two or
// more whitespace characters are the primary delimiter (the common PDF
// extraction artifact); if that yields fewer than two fields it falls back
// to single whitespace so documents that lost double-spacing still parse.
// Edge empties are dropped, interior empty cells are kept.
func SplitColumns(line string) []string {
	cells := splitOnGaps(strings.TrimSpace(line))
	if len(cells) >= 2 {
		return cells
	}
	fields := strings.Fields(line)
	if len(fields) >= 2 {
		return fields
	}
	return cells
}

func splitOnGaps(trimmed string) []string {
	if trimmed == "" {
		return nil
	}
	parts := columnGapRe.Split(trimmed, -1)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	// Trim empty edges only; interior empties are intentional cells.
	start, end := 0, len(parts)
	for start < end && parts[start] == "" {
		start++
	}
	for end > start && parts[end-1] == "" {
		end--
	}
	return parts[start:end]
}
