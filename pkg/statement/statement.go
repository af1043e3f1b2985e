// Package statement turns a terminated console buffer into the statement
// the console evaluates: empty input, a console command or a Ruby
// expression. Expressions know whether they end in an assignment and
// whether their result should be echoed.
package statement

import (
	"regexp"
	"slices"
	"strings"

	"github.com/yaklabco/rubynest/pkg/lexer"
	"github.com/yaklabco/rubynest/pkg/syntax"
)

// Kind identifies the statement variant.
type Kind int

const (
	// EmptyInput is a buffer of newlines only.
	EmptyInput Kind = iota

	// Expression is Ruby code.
	Expression

	// Command is a console command with its argument.
	Command
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case EmptyInput:
		return "empty"
	case Expression:
		return "expression"
	case Command:
		return "command"
	default:
		return "unknown"
	}
}

// Statement is one evaluable unit of console input.
type Statement struct {
	Kind Kind

	// Code is the raw buffer.
	Code string

	// Name and Arg are set for commands.
	Name string
	Arg  string

	// Assignment is set for expressions whose last statement assigns.
	Assignment bool

	// Silent is set for expressions ending in a semicolon.
	Silent bool
}

// IsAssignment reports whether the statement ends in an assignment.
func (s Statement) IsAssignment() bool {
	return s.Kind == Expression && s.Assignment
}

// SuppressesEcho reports whether the console should skip printing the
// result. Empty input never prints; an expression is silenced by a
// trailing semicolon, comments after it included.
func (s Statement) SuppressesEcho() bool {
	switch s.Kind {
	case EmptyInput:
		return true
	case Expression:
		return s.Silent
	default:
		return false
	}
}

//nolint:gochecknoglobals // Compiled once.
var (
	emptyInput    = regexp.MustCompile(`\A\n*\z`)
	commandSplit  = regexp.MustCompile(`\s`)
	assignmentArg = regexp.MustCompile(`\A\s*(?:[-+*/%&|^]|\*\*|<<|>>|&&|\|\|)?=(?:[^=~>]|\z)`)
)

// Parse builds the statement for source. A first word found in commands
// makes a command unless a local variable of that name exists or the rest
// of the line assigns to it.
func Parse(source string, commands []string, locals ...string) Statement {
	if emptyInput.MatchString(source) {
		return Statement{Kind: EmptyInput, Code: source}
	}

	if name, arg, ok := parseCommand(source, commands, locals); ok {
		return Statement{Kind: Command, Code: source, Name: name, Arg: arg}
	}

	return Statement{
		Kind:       Expression,
		Code:       source,
		Assignment: IsAssignment(source, locals...),
		Silent:     endsWithSemicolon(source, locals),
	}
}

func parseCommand(source string, commands, locals []string) (string, string, bool) {
	parts := commandSplit.Split(strings.TrimRight(source, "\n"), 2) //nolint:mnd // name and argument
	name := parts[0]
	if name == "" || !slices.Contains(commands, name) || slices.Contains(locals, name) {
		return "", "", false
	}
	arg := ""
	if len(parts) > 1 {
		arg = strings.TrimSpace(parts[1])
	}
	if assignmentArg.MatchString(arg) {
		return "", "", false
	}
	return name, arg, true
}

func endsWithSemicolon(source string, locals []string) bool {
	tokens := lexer.Tokenize(source, locals...).Tokens
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].IsTrivia() {
			continue
		}
		return tokens[i].Kind == syntax.TokSemicolon
	}
	return false
}
