package syntax

import (
	"sort"
	"strings"
)

// LineInfo describes one physical line of a buffer.
type LineInfo struct {
	// StartOffset is the byte index of the first byte of the line.
	StartOffset int

	// NewlineStart is the byte index where the line terminator begins
	// (or the end of the buffer for an unterminated last line).
	NewlineStart int

	// EndOffset is the byte index just past the line terminator.
	EndOffset int
}

// Lines is a line index over a buffer.
type Lines struct {
	source string
	infos  []LineInfo
}

// BuildLines constructs the line index for source.
// A trailing newline does not start a new physical line: "a\n" has one
// line and "a\nb" has two. The empty buffer has no lines.
func BuildLines(source string) *Lines {
	idx := &Lines{source: source}
	lineStart := 0

	for i := 0; i < len(source); i++ {
		if source[i] != '\n' {
			continue
		}
		newlineStart := i
		if i > 0 && source[i-1] == '\r' {
			newlineStart = i - 1
		}
		idx.infos = append(idx.infos, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    i + 1,
		})
		lineStart = i + 1
	}

	if lineStart < len(source) {
		idx.infos = append(idx.infos, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: len(source),
			EndOffset:    len(source),
		})
	}

	return idx
}

// Count returns the number of physical lines.
func (l *Lines) Count() int {
	return len(l.infos)
}

// Info returns the metadata of a 1-based line number.
func (l *Lines) Info(line int) (LineInfo, bool) {
	if line < 1 || line > len(l.infos) {
		return LineInfo{}, false
	}
	return l.infos[line-1], true
}

// PositionAt converts a byte offset into a Position.
// Offsets past the end clamp to the end of the buffer.
func (l *Lines) PositionAt(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(l.source) {
		offset = len(l.source)
	}
	if len(l.infos) == 0 {
		return Position{Line: 1, Column: offset, Offset: offset}
	}

	lineIdx := sort.Search(len(l.infos), func(i int) bool {
		return l.infos[i].EndOffset > offset
	})
	if lineIdx >= len(l.infos) {
		// Offset at the very end: either just after the final newline
		// (start of a virtual next line) or at the end of the last line.
		last := l.infos[len(l.infos)-1]
		if last.EndOffset > last.NewlineStart && offset == last.EndOffset {
			return Position{Line: len(l.infos) + 1, Column: 0, Offset: offset}
		}
		lineIdx = len(l.infos) - 1
	}

	info := l.infos[lineIdx]
	return Position{Line: lineIdx + 1, Column: offset - info.StartOffset, Offset: offset}
}

// Content returns a 1-based line without its terminator.
func (l *Lines) Content(line int) string {
	info, ok := l.Info(line)
	if !ok {
		return ""
	}
	return l.source[info.StartOffset:info.NewlineStart]
}

// SplitLines splits source into physical lines, dropping terminators.
func SplitLines(source string) []string {
	if source == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(source, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// LeadingSpaces returns the number of leading space characters of line.
func LeadingSpaces(line string) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	return n
}
