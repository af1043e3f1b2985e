package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		count  int
	}{
		{"empty", "", 0},
		{"single without newline", "a", 1},
		{"single with newline", "a\n", 1},
		{"two lines", "a\nb", 2},
		{"blank lines", "\n\n", 2},
		{"crlf", "a\r\nb\r\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.count, BuildLines(tt.source).Count())
		})
	}
}

func TestLinesInfoAndContent(t *testing.T) {
	t.Parallel()

	lines := BuildLines("def f\r\n  1\nend")

	info, ok := lines.Info(1)
	require.True(t, ok)
	assert.Equal(t, LineInfo{StartOffset: 0, NewlineStart: 5, EndOffset: 7}, info)
	assert.Equal(t, "def f", lines.Content(1))
	assert.Equal(t, "  1", lines.Content(2))
	assert.Equal(t, "end", lines.Content(3))

	_, ok = lines.Info(0)
	assert.False(t, ok)
	_, ok = lines.Info(4)
	assert.False(t, ok)
	assert.Empty(t, lines.Content(4))
}

func TestPositionAt(t *testing.T) {
	t.Parallel()

	lines := BuildLines("ab\ncd\n")

	tests := []struct {
		offset int
		want   Position
	}{
		{0, Position{Line: 1, Column: 0, Offset: 0}},
		{2, Position{Line: 1, Column: 2, Offset: 2}},
		{3, Position{Line: 2, Column: 0, Offset: 3}},
		{5, Position{Line: 2, Column: 2, Offset: 5}},
		{6, Position{Line: 3, Column: 0, Offset: 6}},
		{99, Position{Line: 3, Column: 0, Offset: 6}},
		{-4, Position{Line: 1, Column: 0, Offset: 0}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, lines.PositionAt(tt.offset), "offset %d", tt.offset)
	}

	unterminated := BuildLines("ab\ncd")
	assert.Equal(t, Position{Line: 2, Column: 2, Offset: 5}, unterminated.PositionAt(5))

	empty := BuildLines("")
	assert.Equal(t, Position{Line: 1, Column: 0, Offset: 0}, empty.PositionAt(0))
}

func TestSplitLines(t *testing.T) {
	t.Parallel()

	assert.Nil(t, SplitLines(""))
	assert.Equal(t, []string{"a"}, SplitLines("a\n"))
	assert.Equal(t, []string{"a", "", "b"}, SplitLines("a\r\n\nb"))
	assert.Equal(t, []string{""}, SplitLines("\n"))
}

func TestLeadingSpaces(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, LeadingSpaces("end"))
	assert.Equal(t, 2, LeadingSpaces("  end"))
	assert.Equal(t, 0, LeadingSpaces("\tend"))
	assert.Equal(t, 3, LeadingSpaces("   "))
}

func TestPositionAndSpan(t *testing.T) {
	t.Parallel()

	start := Position{Line: 1, Column: 4, Offset: 4}
	end := Position{Line: 1, Column: 7, Offset: 7}
	span := Span{Start: start, End: end}

	assert.True(t, start.IsValid())
	assert.False(t, Position{}.IsValid())
	assert.True(t, start.Before(end))
	assert.False(t, end.Before(start))
	assert.Equal(t, "1:5", start.String())

	assert.Equal(t, 3, span.Len())
	assert.False(t, span.IsEmpty())
	assert.True(t, span.Contains(4))
	assert.True(t, span.Contains(6))
	assert.False(t, span.Contains(7))
	assert.True(t, Span{Start: start, End: start}.IsEmpty())
}
