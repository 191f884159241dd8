package segment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTableLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"Two Columns Double Space", "Header1  Header2", true},
		{"Three Columns", "Name  Age  City", true},
		{"Single Space Prose", "This is a normal sentence.", false},
		{"Too Short", "a  b", false},
		{"Exactly Minimum Length Rejected", "abcd  efgh", false},
		{"One Past Minimum Accepted", "abcde  fghi", true},
		{"Blank", "", false},
		{"Whitespace Only", "    ", false},
		{"Tab Separated", "Name\t\tValue of it", true},
		{"Long Last Cell Allowed", "Key  " + strings.Repeat("x", 150), true},
		{"Long Interior Cell Rejected", strings.Repeat("x", 150) + "  mid  end", false},
		{"Single Column", "JustOneLongValueHere", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTableLine(tt.line))
		})
	}
}

func TestSplitColumns(t *testing.T) {
	t.Run("Double Space Split", func(t *testing.T) {
		got := SplitColumns("Name  Age  City")
		assert.Equal(t, []string{"Name", "Age", "City"}, got)
	})

	t.Run("Multi Word Cells Survive", func(t *testing.T) {
		got := SplitColumns("Row 1, Col 1  Row 1, Col 2")
		assert.Equal(t, []string{"Row 1, Col 1", "Row 1, Col 2"}, got)
	})

	t.Run("Single Space Fallback", func(t *testing.T) {
		got := SplitColumns("Alice 30 Paris")
		assert.Equal(t, []string{"Alice", "30", "Paris"}, got)
	})

	t.Run("Leading And Trailing Gaps Dropped", func(t *testing.T) {
		got := SplitColumns("   Name  Age   ")
		assert.Equal(t, []string{"Name", "Age"}, got)
	})

	t.Run("Mixed Whitespace", func(t *testing.T) {
		got := SplitColumns("Name\t\tAge \t City")
		assert.Equal(t, []string{"Name", "Age", "City"}, got)
	})

	t.Run("Single Word", func(t *testing.T) {
		got := SplitColumns("Alone")
		assert.Equal(t, []string{"Alone"}, got)
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Empty(t, SplitColumns(""))
	})
}
