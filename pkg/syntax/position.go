// Package syntax defines the value types shared by the lexer, the nesting
// tracker and the completion classifier: positions, tokens, lexer states and
// syntax errors.
package syntax

import "fmt"

// Position is a location in the analyzed buffer.
// Line is 1-based, Column is a 0-based byte offset within the line and
// Offset is the 0-based byte offset from the start of the buffer.
type Position struct {
	Line   int
	Column int
	Offset int
}

// IsValid returns true if this position points into a buffer.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column >= 0 && p.Offset >= 0
}

// Before reports whether p comes strictly before other.
func (p Position) Before(other Position) bool {
	return p.Offset < other.Offset
}

// String renders the position as line:column with a 1-based column.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column+1)
}

// Span is a half-open byte range [Start, End) with line information.
type Span struct {
	Start Position
	End   Position
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

// IsEmpty returns true if the span covers no bytes.
func (s Span) IsEmpty() bool {
	return s.Start.Offset == s.End.Offset
}

// Contains returns true if the given offset lies within the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset < s.End.Offset
}
