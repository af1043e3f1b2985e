package reindent

import (
	"fmt"
	"strings"
)

// contextLines is the number of unchanged lines shown around a change.
const contextLines = 3

// LineKind marks a diff line.
type LineKind int

const (
	// LineContext is an unchanged line.
	LineContext LineKind = iota

	// LineRemove is a line of the original.
	LineRemove

	// LineAdd is a line of the reindented file.
	LineAdd
)

// DiffLine is one line of a hunk.
type DiffLine struct {
	Kind    LineKind
	Content string
}

// Hunk is a run of changed lines with surrounding context. Reindenting
// never adds or removes lines, so both sides start and span alike.
type Hunk struct {
	// Start is the 1-based first line.
	Start int

	// Count is the number of lines on each side.
	Count int

	Lines []DiffLine
}

// Diff is the unified diff of a reindented file.
type Diff struct {
	Path  string
	Hunks []Hunk

	// Changed is the number of reindented lines.
	Changed int
}

// GenerateDiff compares original and reindented content line by line.
// It returns nil when nothing changed or the line counts differ.
func GenerateDiff(path string, original, modified []byte) *Diff {
	before := splitLines(original)
	after := splitLines(modified)
	if len(before) != len(after) {
		return nil
	}

	var changed []int
	for i := range before {
		if before[i] != after[i] {
			changed = append(changed, i)
		}
	}
	if len(changed) == 0 {
		return nil
	}

	diff := &Diff{Path: path, Changed: len(changed)}
	for start := 0; start < len(changed); {
		end := start + 1
		for end < len(changed) && changed[end]-changed[end-1] <= 2*contextLines {
			end++
		}
		diff.Hunks = append(diff.Hunks, buildHunk(before, after, changed[start:end]))
		start = end
	}
	return diff
}

func buildHunk(before, after []string, changed []int) Hunk {
	from := max(0, changed[0]-contextLines)
	to := min(len(before), changed[len(changed)-1]+contextLines+1)

	hunk := Hunk{Start: from + 1, Count: to - from}
	next := 0
	for i := from; i < to; i++ {
		if next < len(changed) && changed[next] == i {
			hunk.Lines = append(hunk.Lines,
				DiffLine{Kind: LineRemove, Content: before[i]},
				DiffLine{Kind: LineAdd, Content: after[i]})
			next++
			continue
		}
		hunk.Lines = append(hunk.Lines, DiffLine{Kind: LineContext, Content: before[i]})
	}
	return hunk
}

// HasChanges reports whether the diff changes anything.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// String renders the diff in unified format.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", path, path)
	for _, hunk := range d.Hunks {
		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n", hunk.Start, hunk.Count, hunk.Start, hunk.Count)
		for _, line := range hunk.Lines {
			sb.WriteByte(" -+"[line.Kind])
			sb.WriteString(line.Content)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
}
