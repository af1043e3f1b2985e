// Package nesting tracks the constructs left open by each line of a Ruby
// buffer: keyword blocks, brackets, string-like literals, heredocs,
// interpolations and embedded documents.
package nesting

import (
	"regexp"
	"strings"

	"github.com/yaklabco/rubynest/pkg/syntax"
)

// Kind classifies an open element.
type Kind int

// Element kinds.
const (
	// KindKeyword covers keyword blocks and clauses (if, def, do, else, ...)
	// as well as block and lambda braces.
	KindKeyword Kind = iota

	// KindBracket covers parentheses, brackets and hash braces.
	KindBracket

	// KindString covers quoted strings, backticks, regexps, quoted symbols
	// and word or symbol arrays.
	KindString

	// KindHeredoc is a heredoc whose terminator has not been seen.
	KindHeredoc

	// KindEmbexpr is a #{...} interpolation.
	KindEmbexpr

	// KindEmbdoc is an =begin ... =end block.
	KindEmbdoc
)

//nolint:gochecknoglobals // Read-only lookup table.
var kindNames = map[Kind]string{
	KindKeyword: "keyword",
	KindBracket: "bracket",
	KindString:  "string",
	KindHeredoc: "heredoc",
	KindEmbexpr: "embexpr",
	KindEmbdoc:  "embdoc",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Element is a construct opened at Pos by the token Text.
type Element struct {
	Pos  syntax.Position
	Kind Kind
	Text string
}

// IndentLevel returns the number of indentation steps a stack of open
// elements calls for.
func IndentLevel(opens []Element) int {
	level := 0
	for _, elem := range opens {
		switch elem.Kind {
		case KindHeredoc:
			if strings.HasPrefix(elem.Text, "<<~") {
				level++
			}
		case KindString:
			if strings.HasPrefix(elem.Text, "%") {
				level++
			}
		case KindEmbdoc:
			level = 0
		case KindKeyword:
			if elem.Text != "alias" && elem.Text != "undef" {
				level++
			}
		case KindBracket, KindEmbexpr:
			level++
		}
	}
	return level
}

// NestingLevel counts the keyword and bracket elements of opens. Prompts
// show it as the nesting depth.
func NestingLevel(opens []Element) int {
	level := 0
	for _, elem := range opens {
		if elem.Kind == KindKeyword || elem.Kind == KindBracket {
			level++
		}
	}
	return level
}

//nolint:gochecknoglobals // Compiled once.
var quotedHeredoc = regexp.MustCompile("^<<[-~]?(['\"`])\\w+(['\"`])$")

// LiteralType returns the prompt character of the innermost open literal:
// `"` or `'` for strings, `/` for regexps, `:` for symbols, "`" for
// commands and `]` for word arrays. It returns "" outside literals.
func LiteralType(opens []Element) string {
	for i := len(opens) - 1; i >= 0; i-- {
		elem := opens[i]
		switch elem.Kind {
		case KindHeredoc:
			if m := quotedHeredoc.FindStringSubmatch(elem.Text); m != nil && m[1] == m[2] {
				return m[1]
			}
			return `"`
		case KindString:
			return stringLiteralType(elem.Text)
		}
	}
	return ""
}

func stringLiteralType(open string) string {
	switch {
	case open == `"`, strings.HasPrefix(open, "%Q"), len(open) == 2 && open[0] == '%':
		return `"`
	case open == "'", strings.HasPrefix(open, "%q"):
		return "'"
	case open == "/", strings.HasPrefix(open, "%r"):
		return "/"
	case strings.HasPrefix(open, ":"), strings.HasPrefix(open, "%s"):
		return ":"
	case open == "`", strings.HasPrefix(open, "%x"):
		return "`"
	case len(open) >= 2 && open[0] == '%' && strings.ContainsRune("wWiI", rune(open[1])):
		return "]"
	}
	return ""
}

// FreeIndent reports whether lines inside e keep the indentation the user
// typed: quoted strings, backticks, regexps and symbols. Word arrays do not.
func (e Element) FreeIndent() bool {
	return e.Kind == KindString && stringLiteralType(e.Text) != "]"
}

// Indenting reports whether e is a heredoc whose body may be indented
// (<<- or <<~).
func (e Element) Indenting() bool {
	return e.Kind == KindHeredoc && (strings.HasPrefix(e.Text, "<<~") || strings.HasPrefix(e.Text, "<<-"))
}

// CommonPrefix returns the length of the longest common prefix of a and b.
func CommonPrefix(a, b []Element) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}
