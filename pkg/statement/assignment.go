package statement

import (
	"slices"
	"sort"

	pc "github.com/shibukawa/parsercombinator"

	"github.com/yaklabco/rubynest/pkg/lexer"
	"github.com/yaklabco/rubynest/pkg/nesting"
	"github.com/yaklabco/rubynest/pkg/syntax"
)

// tokenOf parses one token of the given kinds.
func tokenOf(name string, kinds ...syntax.TokenKind) pc.Parser[syntax.Token] {
	return func(_ *pc.ParseContext[syntax.Token], tokens []pc.Token[syntax.Token]) (int, []pc.Token[syntax.Token], error) {
		if len(tokens) > 0 && slices.Contains(kinds, tokens[0].Val.Kind) {
			match := tokens[0]
			match.Type = name
			return 1, []pc.Token[syntax.Token]{match}, nil
		}
		return 0, nil, pc.ErrNotMatch
	}
}

// op parses an operator with the given text.
func op(name, text string) pc.Parser[syntax.Token] {
	return func(_ *pc.ParseContext[syntax.Token], tokens []pc.Token[syntax.Token]) (int, []pc.Token[syntax.Token], error) {
		if len(tokens) > 0 && tokens[0].Val.Kind == syntax.TokOp && tokens[0].Val.Text == text {
			match := tokens[0]
			match.Type = name
			return 1, []pc.Token[syntax.Token]{match}, nil
		}
		return 0, nil, pc.ErrNotMatch
	}
}

// index parses a bracketed index written right after its receiver.
func index(_ *pc.ParseContext[syntax.Token], tokens []pc.Token[syntax.Token]) (int, []pc.Token[syntax.Token], error) {
	if len(tokens) == 0 || tokens[0].Val.Kind != syntax.TokLBracket || tokens[0].Val.SpaceBefore {
		return 0, nil, pc.ErrNotMatch
	}
	depth := 0
	for i, tok := range tokens {
		switch tok.Val.Kind {
		case syntax.TokLBracket:
			depth++
		case syntax.TokRBracket:
			depth--
			if depth == 0 {
				return i + 1, tokens[:i+1], nil
			}
		}
	}
	return 0, nil, pc.ErrNotMatch
}

//nolint:gochecknoglobals // Grammar built once.
var (
	comma = tokenOf("comma", syntax.TokComma)
	scope = tokenOf("scope", syntax.TokColon2)

	primary = pc.Or(
		tokenOf("variable", syntax.TokIdent, syntax.TokConst, syntax.TokIvar, syntax.TokCvar, syntax.TokGvar, syntax.TokKwSelf),
		pc.Seq(scope, tokenOf("constant", syntax.TokConst)),
	)

	accessor = pc.Or(
		pc.Seq(tokenOf("call", syntax.TokDot, syntax.TokAmpDot), tokenOf("method", syntax.TokIdent, syntax.TokConst)),
		pc.Seq(scope, tokenOf("name", syntax.TokConst, syntax.TokIdent)),
		index,
	)

	target = pc.Seq(
		pc.Optional(op("splat", "*")),
		primary,
		pc.ZeroOrMore("accessor", accessor),
	)

	// Assignment matches the left-hand side of "a, b.c, *d[0] = ...",
	// "::A = ..." and "a ||= ...".
	Assignment = pc.Seq(
		target,
		pc.ZeroOrMore("targets", pc.Seq(comma, target)),
		pc.Optional(comma),
		tokenOf("assign", syntax.TokAssign, syntax.TokOpAssign),
	)
)

// ToParserTokens wraps tokens for the combinators.
func ToParserTokens(tokens []syntax.Token) []pc.Token[syntax.Token] {
	results := make([]pc.Token[syntax.Token], len(tokens))
	for i, tok := range tokens {
		results[i] = pc.Token[syntax.Token]{
			Type: "raw",
			Pos: &pc.Pos{
				Line:  tok.Span.Start.Line,
				Col:   tok.Span.Start.Column,
				Index: tok.Span.Start.Offset,
			},
			Val: tok,
			Raw: tok.Text,
		}
	}
	return results
}

// IsAssignment reports whether the last top-level statement of source is
// an assignment. A top-level modifier or "and"/"or" makes the statement
// something else, as in "a = 1 if b".
func IsAssignment(source string, locals ...string) bool {
	stmt, ok := LastStatement(source, locals...)
	if !ok || stmt.Compound {
		return false
	}
	_, _, err := Assignment(pc.NewParseContext[syntax.Token](), ToParserTokens(stmt.Tokens))
	return err == nil
}

// TopLevel is one statement of the buffer outside any block, bracket or
// literal.
type TopLevel struct {
	// Tokens are the significant tokens of the statement.
	Tokens []syntax.Token

	// Compound is set when a modifier other than rescue, or "and"/"or",
	// joins expressions at the top level of the statement.
	Compound bool
}

// LastStatement returns the last non-empty top-level statement of source.
func LastStatement(source string, locals ...string) (TopLevel, bool) {
	res, err := nesting.Analyze(source, lexer.Options{Locals: locals})
	if err != nil {
		return TopLevel{}, false
	}

	depth := depthFunc(res.Tree)
	var current, last TopLevel
	for _, tok := range res.Lex.Tokens {
		if tok.Kind == syntax.TokDataEnd {
			break
		}
		top := depth(tok.Span.Start.Offset) == 0
		switch {
		case top && (tok.Kind == syntax.TokSemicolon || tok.Kind == syntax.TokNewline):
			if len(current.Tokens) > 0 {
				last, current = current, TopLevel{}
			}
		case tok.IsTrivia(), tok.Kind == syntax.TokStringContent, tok.Kind == syntax.TokWordsSep:
		default:
			current.Tokens = append(current.Tokens, tok)
			if top && joinsExpressions(tok.Kind) {
				current.Compound = true
			}
		}
	}
	if len(current.Tokens) > 0 {
		last = current
	}
	return last, len(last.Tokens) > 0
}

func joinsExpressions(kind syntax.TokenKind) bool {
	switch kind {
	case syntax.TokKwIfMod, syntax.TokKwUnlessMod, syntax.TokKwWhileMod, syntax.TokKwUntilMod,
		syntax.TokKwAnd, syntax.TokKwOr:
		return true
	default:
		return false
	}
}

// depthFunc returns a function giving the number of elements open just
// before a byte offset. Heredocs are left out: their bodies are skipped
// as string content.
func depthFunc(tree *nesting.Tree) func(offset int) int {
	type mark struct {
		offset int
		delta  int
	}
	marks := make([]mark, 0, len(tree.Events))
	for _, ev := range tree.Events {
		if tree.Elements[ev.Elem].Kind == nesting.KindHeredoc {
			continue
		}
		delta := -1
		if ev.Open {
			delta = 1
		}
		marks = append(marks, mark{offset: ev.Pos.Offset, delta: delta})
	}
	sort.SliceStable(marks, func(i, j int) bool { return marks[i].offset < marks[j].offset })

	return func(offset int) int {
		depth := 0
		for _, m := range marks {
			if m.offset >= offset {
				break
			}
			depth += m.delta
		}
		return depth
	}
}

// AssignedLocals returns the local variable names the last top-level
// statement of source assigns to, in order. Attribute, index and constant
// targets are not locals.
func AssignedLocals(source string, locals ...string) []string {
	stmt, ok := LastStatement(source, locals...)
	if !ok || stmt.Compound || !IsAssignment(source, locals...) {
		return nil
	}

	var names []string
	for i, tok := range stmt.Tokens {
		if tok.Kind == syntax.TokAssign || tok.Kind == syntax.TokOpAssign {
			break
		}
		if tok.Kind != syntax.TokIdent || i+1 >= len(stmt.Tokens) {
			continue
		}
		switch stmt.Tokens[i+1].Kind {
		case syntax.TokComma, syntax.TokAssign, syntax.TokOpAssign:
		default:
			continue
		}
		if i > 0 {
			prev := stmt.Tokens[i-1]
			if prev.Kind != syntax.TokComma && (prev.Kind != syntax.TokOp || prev.Text != "*") {
				continue
			}
		}
		names = append(names, tok.Text)
	}
	return names
}
