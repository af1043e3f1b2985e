// Package classify decides whether a console buffer is a complete statement
// ready for evaluation or needs more lines.
package classify

import (
	"strings"
	"unicode"

	"github.com/yaklabco/rubynest/pkg/lexer"
	"github.com/yaklabco/rubynest/pkg/nesting"
)

// Verdict is the decision about a console buffer.
type Verdict int

// Verdicts.
const (
	// Continue asks for another line.
	Continue Verdict = iota

	// Terminated hands the buffer to evaluation, errors included.
	Terminated

	// AbandonWithError reports that the analyzer itself failed. Callers
	// treat it like Terminated.
	AbandonWithError
)

//nolint:gochecknoglobals // Read-only lookup table.
var verdictNames = map[Verdict]string{
	Continue:         "continue",
	Terminated:       "terminated",
	AbandonWithError: "abandon",
}

// String returns the name of the verdict.
func (v Verdict) String() string {
	if name, ok := verdictNames[v]; ok {
		return name
	}
	return "unknown"
}

// DefaultCommands are the console commands that are not Ruby code and
// always complete a single line.
//
//nolint:gochecknoglobals // Read-only defaults.
var DefaultCommands = []string{"$", "@"}

// Options configures a Classifier.
type Options struct {
	// Commands are console command names. A buffer whose first word is a
	// command is complete as it stands. Nil means DefaultCommands.
	Commands []string
}

// Classifier classifies console buffers. It holds no per-buffer state and
// is safe for concurrent use.
type Classifier struct {
	commands map[string]struct{}
}

// New creates a Classifier.
func New(opts Options) *Classifier {
	names := opts.Commands
	if names == nil {
		names = DefaultCommands
	}
	commands := make(map[string]struct{}, len(names))
	for _, name := range names {
		commands[name] = struct{}{}
	}
	return &Classifier{commands: commands}
}

// Report is the full outcome of classifying a buffer.
type Report struct {
	Verdict Verdict

	// Command is set when the buffer starts with a console command. No
	// analysis is done then.
	Command bool

	Class    SyntaxClass
	Continue bool

	// Analysis is the nesting analysis of the normalized buffer.
	Analysis *nesting.Result
}

// Opens returns the elements left open at the end of the buffer.
func (r *Report) Opens() []nesting.Element {
	if r.Analysis == nil {
		return nil
	}
	return r.Analysis.Opens
}

// Classify returns the verdict for source.
func (c *Classifier) Classify(source string, locals ...string) Verdict {
	report, err := c.Inspect(source, locals...)
	if err != nil {
		return AbandonWithError
	}
	return report.Verdict
}

// Inspect classifies source and returns everything the decision was based
// on. The error wraps nesting.ErrInvariant.
func (c *Classifier) Inspect(source string, locals ...string) (*Report, error) {
	if c.IsCommand(source) {
		return &Report{Verdict: Terminated, Command: true}, nil
	}

	res, err := nesting.Analyze(CheckTarget(source), lexer.Options{Locals: locals})
	if err != nil {
		return &Report{Verdict: AbandonWithError}, err
	}
	return c.decide(res), nil
}

func (c *Classifier) decide(res *nesting.Result) *Report {
	report := &Report{
		Class:    ClassifyErrors(res.Errors, res.Lex.Tokens),
		Continue: ShouldContinue(res.Lex.Tokens),
		Analysis: res,
	}

	switch report.Class {
	case UnrecoverableError:
		report.Verdict = Terminated
	case RecoverableError:
		report.Verdict = Continue
	case OtherError:
		report.Verdict = Continue
		if len(res.Opens) == 0 && !report.Continue {
			report.Verdict = Terminated
		}
	case Valid:
		report.Verdict = Terminated
		if report.Continue {
			report.Verdict = Continue
		}
	}
	return report
}

// IsCommand reports whether the first word of source names a console
// command.
func (c *Classifier) IsCommand(source string) bool {
	if len(c.commands) == 0 {
		return false
	}
	_, ok := c.commands[FirstWord(source)]
	return ok
}

// FirstWord returns source up to its first whitespace character.
func FirstWord(source string) string {
	if i := strings.IndexFunc(source, unicode.IsSpace); i >= 0 {
		return source[:i]
	}
	return source
}
