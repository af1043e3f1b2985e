package nesting

import (
	"fmt"
	"sort"

	"github.com/yaklabco/rubynest/pkg/lexer"
	"github.com/yaklabco/rubynest/pkg/syntax"
)

// Snapshot is the nesting state around one physical line.
type Snapshot struct {
	// Line is the 1-based line number.
	Line int

	// Previous holds the elements open before the line.
	Previous []Element

	// Current holds the elements open after the line.
	Current []Element

	// MinDepth is the length of the common prefix of Previous and Current.
	MinDepth int
}

// Result bundles everything derived from one analysis of a buffer.
type Result struct {
	Lex       *lexer.Result
	Tree      *Tree
	Snapshots []Snapshot

	// Opens holds the elements still open at the end of the buffer.
	Opens []Element

	// Errors merges lexical and structural errors.
	Errors []syntax.SyntaxError
}

// Analyze tokenizes source and computes its per-line nesting.
func Analyze(source string, opts lexer.Options) (*Result, error) {
	lex := lexer.TokenizeWithOptions(source, opts)
	return AnalyzeTokens(lex)
}

// AnalyzeTokens computes the per-line nesting of an already tokenized
// buffer.
func AnalyzeTokens(lex *lexer.Result) (*Result, error) {
	tree, err := Parse(lex.Tokens)
	if err != nil {
		return nil, err
	}

	snaps, opens, err := tree.replay(lex.Lines.Count())
	if err != nil {
		return nil, err
	}

	errs := make([]syntax.SyntaxError, 0, len(lex.Errors)+len(tree.Errors))
	errs = append(errs, lex.Errors...)
	errs = append(errs, tree.Errors...)

	return &Result{
		Lex:       lex,
		Tree:      tree,
		Snapshots: snaps,
		Opens:     opens,
		Errors:    syntax.SortErrors(errs),
	}, nil
}

// ComputeNestings returns one snapshot per physical line of source.
func ComputeNestings(source string, locals ...string) ([]Snapshot, error) {
	res, err := Analyze(source, lexer.Options{Locals: locals})
	if err != nil {
		return nil, err
	}
	return res.Snapshots, nil
}

// Snapshots returns one snapshot for each of the first lineCount lines.
func (t *Tree) Snapshots(lineCount int) ([]Snapshot, error) {
	snaps, _, err := t.replay(lineCount)
	return snaps, err
}

// Opens returns the elements left open at the end of the buffer.
func (t *Tree) Opens() ([]Element, error) {
	_, opens, err := t.replay(0)
	return opens, err
}

// replay applies the events line by line. On each line closes come before
// opens at the same column, then the line's heredocs open, the leftmost
// innermost.
func (t *Tree) replay(lineCount int) ([]Snapshot, []Element, error) {
	events := make([]Event, len(t.Events))
	copy(events, t.Events)
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i].Pos, events[j].Pos
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return !events[i].Open && events[j].Open
	})

	lastLine := lineCount
	if n := len(events); n > 0 && events[n-1].Pos.Line > lastLine {
		lastLine = events[n-1].Pos.Line
	}
	for line := range t.HeredocOpens {
		if line > lastLine {
			lastLine = line
		}
	}

	snaps := make([]Snapshot, 0, lineCount)
	var stack []int
	next := 0
	for line := 1; line <= lastLine; line++ {
		before := t.elements(stack)

		for next < len(events) && events[next].Pos.Line == line {
			ev := events[next]
			next++
			if ev.Open {
				stack = append(stack, ev.Elem)
				continue
			}
			var ok bool
			if stack, ok = remove(stack, ev.Elem); !ok {
				elem := t.Elements[ev.Elem]
				return nil, nil, fmt.Errorf("%w: close of %s %q at %s with no open element",
					ErrInvariant, elem.Kind, elem.Text, ev.Pos)
			}
		}

		heredocs := append([]int(nil), t.HeredocOpens[line]...)
		sort.SliceStable(heredocs, func(i, j int) bool {
			return t.Elements[heredocs[i]].Pos.Column > t.Elements[heredocs[j]].Pos.Column
		})
		stack = append(stack, heredocs...)

		if line <= lineCount {
			after := t.elements(stack)
			snaps = append(snaps, Snapshot{
				Line:     line,
				Previous: before,
				Current:  after,
				MinDepth: CommonPrefix(before, after),
			})
		}
	}

	return snaps, t.elements(stack), nil
}

func (t *Tree) elements(stack []int) []Element {
	out := make([]Element, len(stack))
	for i, idx := range stack {
		out[i] = t.Elements[idx]
	}
	return out
}

// remove deletes the innermost occurrence of elem. Heredocs close by line,
// so their element is not always on top.
func remove(stack []int, elem int) ([]int, bool) {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == elem {
			return append(stack[:i], stack[i+1:]...), true
		}
	}
	return stack, false
}
