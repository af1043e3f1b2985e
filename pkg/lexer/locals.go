package lexer

import (
	"strings"

	"github.com/yaklabco/rubynest/pkg/syntax"
)

// locals is the set of names known to be local variables. Reading a
// known local ends an expression, so "a /b" divides while "foo /b" starts
// a regexp argument.
type locals struct {
	names map[string]struct{}
}

func newLocals(names []string) *locals {
	set := &locals{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		set.add(name)
	}
	return set
}

func (s *locals) has(name string) bool {
	_, ok := s.names[name]
	return ok
}

func (s *locals) add(name string) {
	if name == "" || IsKeyword(name) {
		return
	}
	s.names[name] = struct{}{}
}

// Stages of a method definition header.
const (
	defStageNone = iota
	defStageName
	defStageDot // after the name, where a dot makes it a singleton method
)

// declTracker watches the emitted token stream for places that bind local
// variables: assignments, block and lambda parameters, method parameters,
// for-loop variables and rescue targets.
type declTracker struct {
	defStage      int
	defParenDepth int
	defBare       bool

	expectPipe    bool
	blockParams   bool
	lambdaParams  bool
	forVars       bool
	rescueClause  bool
	rescueBinding bool
}

func (d *declTracker) inParams() bool {
	return d.blockParams || d.lambdaParams || d.forVars || d.defBare || d.defParenDepth > 0
}

//nolint:gocyclo,cyclop // Flat dispatch over the binding forms.
func (d *declTracker) observe(l *lexer, kind syntax.TokenKind, text string) {
	if kind == syntax.TokComment || kind == syntax.TokIgnoredNewline {
		return
	}

	switch d.defStage {
	case defStageName:
		d.defStage = defStageDot
		return
	case defStageDot:
		if kind == syntax.TokDot || kind == syntax.TokColon2 {
			d.defStage = defStageName
			return
		}
		d.defStage = defStageNone
		d.startDefParams(l, kind, text)
		if d.defBare {
			d.bind(l, kind, text)
		}
		return
	}

	if d.expectPipe {
		d.expectPipe = false
		if kind == syntax.TokOp && text == "|" {
			d.blockParams = true
			return
		}
	}

	switch kind {
	case syntax.TokKwDef:
		d.defStage = defStageName
	case syntax.TokLBraceBlock, syntax.TokKwDo:
		d.expectPipe = true
	case syntax.TokLambda:
		d.lambdaParams = true
	case syntax.TokLambdaBegin, syntax.TokKwDoLambda:
		d.lambdaParams = false
	case syntax.TokKwFor:
		d.forVars = true
	case syntax.TokKwIn:
		d.forVars = false
	case syntax.TokKwRescue:
		d.rescueClause = true
	case syntax.TokArrow:
		d.rescueBinding = d.rescueClause
		return
	case syntax.TokNewline, syntax.TokSemicolon, syntax.TokKwThen:
		d.defBare = false
		d.forVars = false
		d.rescueClause = false
	case syntax.TokOp:
		if text == "|" && d.blockParams {
			d.blockParams = false
		}
	case syntax.TokRParen:
		if d.defParenDepth > 0 && l.parenNest < d.defParenDepth {
			d.defParenDepth = 0
		}
	case syntax.TokAssign, syntax.TokOpAssign:
		l.declareAssigned()
	case syntax.TokIdent, syntax.TokLabel:
		if d.inParams() || d.rescueBinding {
			d.bind(l, kind, text)
		}
	}
	d.rescueBinding = false
}

// startDefParams is called with the first token after a method name.
func (d *declTracker) startDefParams(l *lexer, kind syntax.TokenKind, text string) {
	switch {
	case kind == syntax.TokLParen:
		d.defParenDepth = l.parenNest
	case kind == syntax.TokIdent || kind == syntax.TokLabel:
		d.defBare = true
	case kind == syntax.TokOp && (text == "*" || text == "**" || text == "&"):
		d.defBare = true
	}
}

func (d *declTracker) bind(l *lexer, kind syntax.TokenKind, text string) {
	switch kind {
	case syntax.TokIdent:
		l.locals.add(text)
	case syntax.TokLabel:
		l.locals.add(strings.TrimSuffix(text, ":"))
	}
}

// declareAssigned binds the plain names on the left of the assignment
// token just emitted: "x = 1", "a, *b = list", "x ||= 1".
func (l *lexer) declareAssigned() {
	expectName := true
	for i := len(l.tokens) - 2; i >= 0; i-- {
		tok := l.tokens[i]
		if tok.Kind == syntax.TokSpace {
			continue
		}
		if expectName {
			if tok.Kind != syntax.TokIdent || strings.ContainsAny(tok.Text, "?!=") || l.isAttribute(i) {
				return
			}
			l.locals.add(tok.Text)
			expectName = false
			continue
		}
		switch {
		case tok.Kind == syntax.TokComma:
			expectName = true
		case tok.Kind == syntax.TokOp && tok.Text == "*":
		default:
			return
		}
	}
}

// isAttribute reports whether the token at i is a method name after a dot.
func (l *lexer) isAttribute(i int) bool {
	for j := i - 1; j >= 0; j-- {
		switch l.tokens[j].Kind {
		case syntax.TokSpace:
			continue
		case syntax.TokDot, syntax.TokAmpDot, syntax.TokColon2:
			return true
		}
		return false
	}
	return false
}
