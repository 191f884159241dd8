package segment

import (
	"fmt"
	"strings"

	"pagesift/internal/chunk"
)

// BuildTable turns an accepted table block into a structured record. The
// first line supplies the headers (duplicates are deduplicated by suffixing
// an occurrence index), every following line becomes one row. A row with
// fewer values than headers leaves the trailing headers empty; a row with
// more values folds the overflow into the last header's cell, space-joined.
// Neither case drops data.
//
// ok is false when parsing leaves zero headers or zero rows; the caller must
// then treat the block as narrative text.
func BuildTable(lines []string, sourceID string, page, ordinal int) (chunk.TableRecord, bool) {
	if len(lines) < 2 {
		return chunk.TableRecord{}, false
	}

	headers := dedupeHeaders(SplitColumns(lines[0]))
	if len(headers) == 0 {
		return chunk.TableRecord{}, false
	}

	var rows []map[string]string
	for _, line := range lines[1:] {
		values := SplitColumns(line)
		if len(values) == 0 {
			continue
		}
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(values) {
				row[h] = values[i]
			} else {
				row[h] = ""
			}
		}
		if len(values) > len(headers) {
			last := headers[len(headers)-1]
			row[last] = strings.Join(values[len(headers)-1:], " ")
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return chunk.TableRecord{}, false
	}

	return chunk.TableRecord{
		ID:      fmt.Sprintf("%s:p%d:table%d", sourceID, page, ordinal),
		Headers: headers,
		Rows:    rows,
	}, true
}

func dedupeHeaders(cells []string) []string {
	seen := make(map[string]int, len(cells))
	headers := make([]string, 0, len(cells))
	for _, c := range cells {
		if c == "" {
			continue
		}
		seen[c]++
		if n := seen[c]; n > 1 {
			c = fmt.Sprintf("%s_%d", c, n)
		}
		headers = append(headers, c)
	}
	return headers
}
