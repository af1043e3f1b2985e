// Package reindent turns the indentation the console would give each line
// into byte edits on the file a snippet came from, applies them, and
// renders the change as a unified diff.
package reindent

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/yaklabco/rubynest/pkg/console"
	"github.com/yaklabco/rubynest/pkg/snippet"
)

// Edit replaces the leading whitespace of one line.
type Edit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int

	// NewText is the replacement indentation.
	NewText string

	// Line is the 1-based file line.
	Line int
}

// Compute returns the edits that reindent snip in its file.
func Compute(analyzer *console.Analyzer, snip *snippet.Snippet) []Edit {
	before := strings.Split(strings.TrimSuffix(snip.Code, "\n"), "\n")
	after := strings.Split(strings.TrimSuffix(analyzer.Reindent(snip.Code), "\n"), "\n")
	if len(before) != len(after) {
		return nil
	}

	var edits []Edit
	for i := range before {
		if before[i] == after[i] {
			continue
		}
		start := snip.FileOffset(i+1, 0)
		if start < 0 {
			continue
		}
		oldIndent := indentation(before[i])
		newIndent := indentation(after[i])
		if strings.TrimLeft(after[i], " \t") == "" {
			oldIndent = before[i]
			newIndent = ""
		}
		edits = append(edits, Edit{
			StartOffset: start,
			EndOffset:   start + len(oldIndent),
			NewText:     newIndent,
			Line:        snip.FileLine(i + 1),
		})
	}
	return edits
}

func indentation(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// ValidationError describes an edit outside the content.
type ValidationError struct {
	Edit    Edit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit on line %d [%d:%d]: %s", e.Edit.Line, e.Edit.StartOffset, e.Edit.EndOffset, e.Message)
}

// ConflictError describes two edits touching the same bytes.
type ConflictError struct {
	First  Edit
	Second Edit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits on lines %d and %d", e.First.Line, e.Second.Line)
}

// Prepare checks edits against a content length and returns them sorted
// by offset.
func Prepare(edits []Edit, contentLen int) ([]Edit, error) {
	for _, edit := range edits {
		switch {
		case edit.StartOffset < 0:
			return nil, &ValidationError{Edit: edit, Message: "start offset is negative"}
		case edit.EndOffset < edit.StartOffset:
			return nil, &ValidationError{Edit: edit, Message: "end offset is before start offset"}
		case edit.EndOffset > contentLen:
			return nil, &ValidationError{
				Edit:    edit,
				Message: fmt.Sprintf("end offset %d exceeds content length %d", edit.EndOffset, contentLen),
			}
		}
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].StartOffset != sorted[j].StartOffset {
			return sorted[i].StartOffset < sorted[j].StartOffset
		}
		return sorted[i].EndOffset < sorted[j].EndOffset
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].StartOffset < sorted[i-1].EndOffset || sorted[i].StartOffset == sorted[i-1].StartOffset {
			return nil, &ConflictError{First: sorted[i-1], Second: sorted[i]}
		}
	}
	return sorted, nil
}

// Apply applies prepared edits to content.
func Apply(content []byte, edits []Edit) []byte {
	if len(edits) == 0 {
		return content
	}

	grow := 0
	for _, e := range edits {
		grow += len(e.NewText) - (e.EndOffset - e.StartOffset)
	}

	var out bytes.Buffer
	out.Grow(len(content) + grow)
	cursor := 0
	for _, e := range edits {
		out.Write(content[cursor:e.StartOffset])
		out.WriteString(e.NewText)
		cursor = e.EndOffset
	}
	out.Write(content[cursor:])
	return out.Bytes()
}
