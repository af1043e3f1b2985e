package console

import (
	"strings"

	"github.com/yaklabco/rubynest/pkg/lexer"
	"github.com/yaklabco/rubynest/pkg/nesting"
)

// LineIndent returns the number of leading spaces for lines[lineIndex],
// looking only at the lines up to it. newline is set when the line was
// just started by the user pressing enter. The bool is false when the line
// should keep the indentation the user typed, as inside a string.
func (a *Analyzer) LineIndent(lines []string, lineIndex int, newline bool) (int, bool) {
	if lineIndex < 0 || lineIndex >= len(lines) {
		return 0, false
	}

	res, err := nesting.Analyze(joinLines(lines[:lineIndex+1]), lexer.Options{Locals: a.locals})
	if err != nil || len(res.Snapshots) == 0 {
		return 0, false
	}
	snaps := res.Snapshots

	var prev, next []nesting.Element
	minDepth := 0
	if lineIndex < len(snaps) {
		prev, next, minDepth = snaps[lineIndex].Previous, snaps[lineIndex].Current, snaps[lineIndex].MinDepth
	} else {
		prev = snaps[len(snaps)-1].Current
		next = prev
		minDepth = len(prev)
	}

	indent := a.indentWidth * nesting.IndentLevel(prev[:minDepth])

	preserveLine := lineIndex
	if newline && lineIndex > 0 {
		preserveLine--
	}
	preserve := leadingSpaces(lines[preserveLine])

	prevOpen, hasPrev := last(prev)
	nextOpen, hasNext := last(next)

	base := 0
	if hasPrev {
		base = max(0, a.indentDifference(lines, snaps, prevOpen.Pos.Line-1))
	}

	switch {
	case hasPrev && prevOpen.FreeIndent():
		if newline && prevOpen.Pos.Line == lineIndex {
			return base + indent, true
		}
		return 0, false

	case hasPrev && prevOpen.Kind == nesting.KindEmbdoc, hasNext && nextOpen.Kind == nesting.KindEmbdoc:
		if hasPrev && hasNext && prevOpen.Kind == nextOpen.Kind {
			return 0, false
		}
		// =begin and =end lines
		return 0, true

	case hasPrev && prevOpen.Kind == nesting.KindHeredoc:
		if len(prev) <= len(next) {
			if newline && lines[lineIndex] == "" && lineIndex > 0 && !openedBefore(snaps, lineIndex-1, prevOpen) {
				if prevOpen.Indenting() {
					return base + indent, true
				}
				return indent, true
			}
			if strings.HasPrefix(prevOpen.Text, "<<~") {
				return max(base+indent, preserve), true
			}
			return 0, false
		}
		// terminator line
		if prevOpen.Indenting() {
			return base + a.indentWidth*(nesting.IndentLevel(prev)-1), true
		}
		return 0, true
	}

	return base + indent, true
}

// indentDifference returns how far the code pasted at lineIndex is
// indented beyond the calculated indentation. Lines inside multi-line
// literals defer to the line the literal started on.
func (a *Analyzer) indentDifference(lines []string, snaps []nesting.Snapshot, lineIndex int) int {
	for range len(lines) {
		if lineIndex < 0 || lineIndex >= len(snaps) || lineIndex >= len(lines) {
			return 0
		}
		snap := snaps[lineIndex]
		open, ok := last(snap.Previous)
		switch {
		case !ok || (open.Kind != nesting.KindHeredoc && !open.FreeIndent()):
			calculated := a.indentWidth * nesting.IndentLevel(snap.Previous[:snap.MinDepth])
			return leadingSpaces(lines[lineIndex]) - calculated
		case open.Kind == nesting.KindHeredoc && !open.Indenting():
			return 0
		}
		if open.Pos.Line-1 >= lineIndex {
			return 0
		}
		lineIndex = open.Pos.Line - 1
	}
	return 0
}

// Reindent recomputes the leading whitespace of every line of source,
// as when a block of code is pasted. Lines inside strings, heredocs and
// embedded documents keep their text.
func (a *Analyzer) Reindent(source string) string {
	trailing := strings.HasSuffix(source, "\n")
	lines := strings.Split(strings.TrimSuffix(source, "\n"), "\n")

	for i, line := range lines {
		n, ok := a.LineIndent(lines, i, false)
		if !ok {
			continue
		}
		body := strings.TrimLeft(line, " \t")
		if body == "" {
			lines[i] = ""
			continue
		}
		lines[i] = strings.Repeat(" ", n) + body
	}

	out := strings.Join(lines, "\n")
	if trailing {
		out += "\n"
	}
	return out
}

func openedBefore(snaps []nesting.Snapshot, lineIndex int, elem nesting.Element) bool {
	if lineIndex >= len(snaps) {
		return false
	}
	open, ok := last(snaps[lineIndex].Previous)
	return ok && open == elem
}

func last(elems []nesting.Element) (nesting.Element, bool) {
	if len(elems) == 0 {
		return nesting.Element{}, false
	}
	return elems[len(elems)-1], true
}

func leadingSpaces(line string) int {
	return len(line) - len(strings.TrimLeft(line, " "))
}

func joinLines(lines []string) string {
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
