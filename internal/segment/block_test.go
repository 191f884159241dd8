package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegment(t *testing.T) {
	t.Run("Table Between Narrative", func(t *testing.T) {
		lines := []string{
			"Intro paragraph.",
			"",
			"Header1  Header2",
			"Val1, here  Val2, there",
			"",
			"Closing paragraph.",
		}
		spans := Segment(lines)

		assert.Len(t, spans, 3)
		assert.Equal(t, SpanNarrative, spans[0].Kind)
		assert.Equal(t, []string{"Intro paragraph.", ""}, spans[0].Lines)
		assert.Equal(t, SpanTable, spans[1].Kind)
		assert.Equal(t, []string{"Header1  Header2", "Val1, here  Val2, there"}, spans[1].Lines)
		assert.Equal(t, SpanNarrative, spans[2].Kind)
		assert.Equal(t, []string{"", "Closing paragraph."}, spans[2].Lines)
	})

	t.Run("Single Matching Line Demoted", func(t *testing.T) {
		lines := []string{
			"Some prose before.",
			"lonely col  another col",
			"More prose after.",
		}
		spans := Segment(lines)

		assert.Len(t, spans, 1)
		assert.Equal(t, SpanNarrative, spans[0].Kind)
		assert.Equal(t, lines, spans[0].Lines)
	})

	t.Run("Blank Line Terminates Block", func(t *testing.T) {
		lines := []string{
			"Header1  Header2",
			"Val1 content  Val2 content",
			"",
			"Header3  Header4",
			"Val3 content  Val4 content",
		}
		spans := Segment(lines)

		assert.Len(t, spans, 3)
		assert.Equal(t, SpanTable, spans[0].Kind)
		assert.Equal(t, SpanNarrative, spans[1].Kind)
		assert.Equal(t, SpanTable, spans[2].Kind)
	})

	t.Run("All Narrative", func(t *testing.T) {
		lines := []string{"Just a line.", "And another line."}
		spans := Segment(lines)
		assert.Len(t, spans, 1)
		assert.Equal(t, SpanNarrative, spans[0].Kind)
	})

	t.Run("Lines Are Partitioned In Order", func(t *testing.T) {
		lines := []string{
			"Before the table.",
			"ColA header  ColB header",
			"cell one, a  cell one, b",
			"cell two, a  cell two, b",
			"After the table.",
		}
		spans := Segment(lines)

		var flat []string
		for _, s := range spans {
			flat = append(flat, s.Lines...)
		}
		assert.Equal(t, lines, flat)
	})

	t.Run("Empty Input", func(t *testing.T) {
		assert.Empty(t, Segment(nil))
	})
}
