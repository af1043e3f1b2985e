// Package console answers the questions an interactive Ruby console asks
// about its input buffer: keep reading or evaluate, how far to indent
// each line, and which prompt to show next.
//
// Every call re-analyzes the whole buffer; an Analyzer holds only
// configuration and is safe for concurrent use.
package console

import (
	"github.com/yaklabco/rubynest/pkg/classify"
	"github.com/yaklabco/rubynest/pkg/nesting"
	"github.com/yaklabco/rubynest/pkg/syntax"
)

// DefaultIndentWidth is the number of spaces per indentation level.
const DefaultIndentWidth = 2

// Options configures an Analyzer.
type Options struct {
	// IndentWidth is the number of spaces per level. Zero means
	// DefaultIndentWidth.
	IndentWidth int

	// Commands are console command names. Nil means
	// classify.DefaultCommands.
	Commands []string

	// Locals are the local variables in scope.
	Locals []string
}

// Analyzer analyzes console buffers.
type Analyzer struct {
	indentWidth int
	commands    []string
	locals      []string
	classifier  *classify.Classifier
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(opts Options) *Analyzer {
	width := opts.IndentWidth
	if width <= 0 {
		width = DefaultIndentWidth
	}
	commands := opts.Commands
	if commands == nil {
		commands = classify.DefaultCommands
	}
	return &Analyzer{
		indentWidth: width,
		commands:    commands,
		locals:      opts.Locals,
		classifier:  classify.New(classify.Options{Commands: commands}),
	}
}

// IndentWidth returns the number of spaces per level.
func (a *Analyzer) IndentWidth() int {
	return a.indentWidth
}

// Commands returns the console command names.
func (a *Analyzer) Commands() []string {
	return a.commands
}

// Locals returns the local variables the analyzer lexes with.
func (a *Analyzer) Locals() []string {
	return a.locals
}

// WithLocals returns a copy of a that lexes with locals.
func (a *Analyzer) WithLocals(locals ...string) *Analyzer {
	clone := *a
	clone.locals = locals
	return &clone
}

// Analysis is the outcome of analyzing one buffer.
type Analysis struct {
	Source string

	Tokens    []syntax.Token
	Snapshots []nesting.Snapshot

	// Opens holds the elements left open at the end of the buffer.
	Opens []nesting.Element

	Errors []syntax.SyntaxError

	// Continue is set when the console should read another line.
	Continue bool

	// Terminated is set when the console should evaluate the buffer,
	// errors included.
	Terminated bool

	// LineContinues is set when the last line asks for more input on its
	// own, as with a trailing operator or backslash.
	LineContinues bool

	// Command is set when the buffer is a console command.
	Command bool

	Verdict classify.Verdict
	Class   classify.SyntaxClass
}

// NestingLevel returns the nesting depth shown in prompts.
func (r *Analysis) NestingLevel() int {
	return nesting.NestingLevel(r.Opens)
}

// IndentLevel returns the indentation level of the next line.
func (r *Analysis) IndentLevel() int {
	return nesting.IndentLevel(r.Opens)
}

// LiteralType returns the prompt character of the open literal, or "".
func (r *Analysis) LiteralType() string {
	return nesting.LiteralType(r.Opens)
}

// Analyze classifies source. An internal analyzer failure yields a
// terminated analysis together with the error so the console can still
// hand the buffer to evaluation.
func (a *Analyzer) Analyze(source string) (*Analysis, error) {
	report, err := a.classifier.Inspect(source, a.locals...)
	analysis := &Analysis{
		Source:     source,
		Verdict:    report.Verdict,
		Class:      report.Class,
		Command:    report.Command,
		Continue:   report.Verdict == classify.Continue,
		Terminated: report.Verdict != classify.Continue,
	}
	if err != nil {
		return analysis, err
	}

	analysis.LineContinues = report.Continue
	if res := report.Analysis; res != nil {
		analysis.Tokens = res.Lex.Tokens
		analysis.Snapshots = res.Snapshots
		analysis.Opens = res.Opens
		analysis.Errors = res.Errors
	}
	return analysis, nil
}

// SplitPaste returns the last line of a pasted buffer when everything
// before it is already a complete statement.
func (a *Analyzer) SplitPaste(source string) (string, bool) {
	return a.classifier.TerminatedAtPreviousLine(source, a.locals...)
}
