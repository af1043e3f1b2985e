package nesting

import (
	"errors"
	"fmt"

	"github.com/yaklabco/rubynest/pkg/syntax"
)

// ErrInvariant is returned when the tracker finds a close with no matching
// open. It signals a defect in the analyzer, not in the analyzed code.
var ErrInvariant = errors.New("nesting invariant violated")

// Event opens or closes the element Elem at Pos.
type Event struct {
	Pos  syntax.Position
	Open bool
	Elem int
}

// Tree is the structural outline of a buffer: its open/close events and
// the syntax errors found while walking the tokens.
type Tree struct {
	// Elements holds every element ever opened. Events refer to them by
	// index.
	Elements []Element

	// Events are the open and close events of everything but heredoc
	// openings, in token order.
	Events []Event

	// HeredocOpens maps a marker line to the heredocs opened on it. They
	// are pushed after the regular events of that line.
	HeredocOpens map[int][]int

	// Errors are the structural errors, sorted by position.
	Errors []syntax.SyntaxError
}

type role int

const (
	roleRoot role = iota
	roleBlock
	roleBrace
	roleBracket
	roleParams
	roleString
	roleEmbexpr
	roleEmbdoc
	roleHeredocBody
)

type phase int

const (
	phaseBody phase = iota
	phaseHeader
	phaseLoopHeader
	phaseForVar
	phaseDefName
	phaseDefAfterName
	phaseDefParams
	phaseDefAfterParams
)

// frame is an entry of the parse stack. Besides the construct it stands
// for, it holds the state of the statement being read inside it.
type frame struct {
	role  role
	elem  int
	word  string
	owner string
	phase phase

	start bool // the next token starts a statement
	n     int  // tokens read in the current statement
	prev  syntax.Token
	prev2 syntax.Token

	lhs  bool // the statement so far could be an assignment target
	mlhs bool // a comma-separated target list is waiting for '='
	wait bool // a newline ended the line of a waiting target list
}

func (f *frame) note(tok syntax.Token) {
	f.prev2 = f.prev
	f.prev = tok
	f.n++
	f.start = false
}

func (f *frame) prevKind() syntax.TokenKind {
	if f.n == 0 {
		return syntax.TokEOF
	}
	return f.prev.Kind
}

func (f *frame) allowsTargetList() bool {
	switch f.role {
	case roleRoot, roleBlock, roleBrace, roleEmbexpr:
		return f.phase == phaseBody
	default:
		return false
	}
}

func (f *frame) inDefHeader() bool {
	return f.role == roleParams || f.phase >= phaseDefName
}

func (f *frame) beginStatement() {
	f.start = true
	f.n = 0
	f.mlhs = false
	f.wait = false
	f.lhs = f.allowsTargetList()
}

type heredoc struct {
	elem int
	line int
	col  int
}

type parser struct {
	tree     *Tree
	frames   []*frame
	pending  []heredoc
	inBody   bool
	skipNext bool
	last     syntax.Token
	hasLast  bool
	errs     []syntax.SyntaxError
	broken   error
}

// Parse walks tokens, as produced by the lexer, and records where each
// construct opens and closes. Trailing incomplete code is tolerated:
// frames left open at the end are reported with ErrUnexpectedEOF and stay
// open in the tree. The returned error wraps ErrInvariant.
func Parse(tokens []syntax.Token) (*Tree, error) {
	p := &parser{tree: &Tree{HeredocOpens: map[int][]int{}}}
	root := &frame{role: roleRoot, elem: -1}
	root.beginStatement()
	p.frames = []*frame{root}

	for _, tok := range tokens {
		if tok.Kind == syntax.TokEOF || tok.Kind == syntax.TokDataEnd {
			p.finish(tok)
			break
		}
		p.feed(tok)
	}

	p.tree.Errors = syntax.SortErrors(p.errs)
	return p.tree, p.broken
}

func (p *parser) top() *frame {
	return p.frames[len(p.frames)-1]
}

func (p *parser) errorAt(code syntax.ErrorCode, tok syntax.Token, msg string) {
	p.errs = append(p.errs, syntax.SyntaxError{Code: code, Message: msg, Span: tok.Span})
}

func (p *parser) unexpected(tok syntax.Token) {
	p.errorAt(syntax.ErrUnexpectedToken, tok, fmt.Sprintf("syntax error, unexpected '%s'", tok.Text))
}

func (p *parser) invariant(format string, args ...any) {
	if p.broken == nil {
		p.broken = fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
	}
}

// open pushes a frame for tok, which the enclosing frame sees as one token
// of its statement.
func (p *parser) open(tok syntax.Token, r role, kind Kind, ph phase) *frame {
	parent := p.top()
	p.trackTarget(parent, tok)
	parent.note(tok)
	p.noteLast(tok)

	f := &frame{role: r, elem: p.addElement(tok, kind), word: tok.Text, owner: tok.Text, phase: ph}
	f.beginStatement()
	p.frames = append(p.frames, f)
	return f
}

func (p *parser) addElement(tok syntax.Token, kind Kind) int {
	p.tree.Elements = append(p.tree.Elements, Element{Pos: tok.Span.Start, Kind: kind, Text: tok.Text})
	idx := len(p.tree.Elements) - 1
	p.tree.Events = append(p.tree.Events, Event{Pos: tok.Span.Start, Open: true, Elem: idx})
	return idx
}

// pop closes the top frame at tok.
func (p *parser) pop(tok syntax.Token) *frame {
	f := p.top()
	p.frames = p.frames[:len(p.frames)-1]
	if f.elem >= 0 {
		p.tree.Events = append(p.tree.Events, Event{Pos: tok.Span.Start, Elem: f.elem})
	}
	return f
}

// closeFrame pops the top frame and hands the closing token to the frame
// below.
func (p *parser) closeFrame(tok syntax.Token) {
	p.pop(tok)
	parent := p.top()
	p.trackTarget(parent, tok)
	parent.note(tok)
	p.noteLast(tok)
}

// closeRole closes the innermost frame of role r, closing any frame above
// it first. Literal delimiters come from the lexer, so a missing frame is
// an analyzer defect.
func (p *parser) closeRole(tok syntax.Token, r role) {
	idx := -1
	for i := len(p.frames) - 1; i > 0; i-- {
		if p.frames[i].role == r {
			idx = i
			break
		}
	}
	if idx < 0 {
		p.invariant("%s at %s closes nothing", tok.Kind, tok.Span.Start)
		return
	}
	if idx != len(p.frames)-1 {
		p.errorAt(syntax.ErrUnmatchedClose, tok, fmt.Sprintf("syntax error, unexpected '%s'", tok.Text))
		for len(p.frames)-1 > idx {
			p.pop(tok)
		}
	}
	p.closeFrame(tok)
}

// replace closes the clause on top of the stack and opens the clause tok
// in its place.
func (p *parser) replace(tok syntax.Token, ph phase) {
	old := p.pop(tok)
	f := &frame{
		role:  old.role,
		elem:  p.addElement(tok, KindKeyword),
		word:  tok.Text,
		owner: old.owner,
		phase: ph,
	}
	f.beginStatement()
	p.frames = append(p.frames, f)
	p.noteLast(tok)
}

// noteLast records the last token of the code outside heredoc bodies.
func (p *parser) noteLast(tok syntax.Token) {
	if p.inBody {
		return
	}
	p.last = tok
	p.hasLast = true
}

//nolint:gocyclo,cyclop,funlen // One branch per token kind.
func (p *parser) feed(tok syntax.Token) {
	p.enterHeredocBody(tok)

	switch tok.Kind {
	case syntax.TokEmbdocBegin:
		f := &frame{role: roleEmbdoc, elem: p.addElement(tok, KindEmbdoc)}
		p.frames = append(p.frames, f)
		return
	case syntax.TokEmbdocEnd:
		if p.top().role != roleEmbdoc {
			p.invariant("=end at %s closes nothing", tok.Span.Start)
			return
		}
		p.pop(tok)
		return
	case syntax.TokStringContent, syntax.TokWordsSep, syntax.TokEmbdoc:
		return
	case syntax.TokEmbvar:
		p.skipNext = true
		return
	case syntax.TokHeredocEnd:
		p.closeHeredoc(tok)
		return
	}
	if tok.IsTrivia() && tok.Kind != syntax.TokNewline {
		return
	}
	if p.skipNext {
		p.skipNext = false
		return
	}

	f := p.top()
	if tok.Kind == syntax.TokNewline {
		p.newline(f)
		return
	}

	if f.wait {
		f.wait = false
		if tok.Kind != syntax.TokAssign {
			p.unexpected(tok)
			f.beginStatement()
		}
	}

	if p.header(f, tok) {
		return
	}

	if f.start && (tok.Kind == syntax.TokDot || tok.Kind == syntax.TokAmpDot) {
		p.unexpected(tok)
	}

	switch tok.Kind {
	case syntax.TokSemicolon, syntax.TokKwThen:
		p.requireOperand(f, tok)
		if f.mlhs {
			p.unexpected(tok)
		}
		f.note(tok)
		p.noteLast(tok)
		p.endStatement(f)

	case syntax.TokKwIf, syntax.TokKwUnless, syntax.TokKwCase, syntax.TokKwClass, syntax.TokKwModule:
		p.open(tok, roleBlock, KindKeyword, phaseHeader)
	case syntax.TokKwWhile, syntax.TokKwUntil:
		p.open(tok, roleBlock, KindKeyword, phaseLoopHeader)
	case syntax.TokKwFor:
		p.open(tok, roleBlock, KindKeyword, phaseForVar)
	case syntax.TokKwBegin, syntax.TokKwDo, syntax.TokKwDoLambda:
		p.open(tok, roleBlock, KindKeyword, phaseBody)
	case syntax.TokKwDef:
		p.open(tok, roleBlock, KindKeyword, phaseDefName)
	case syntax.TokLBraceBlock, syntax.TokLambdaBegin:
		p.open(tok, roleBrace, KindKeyword, phaseBody)
	case syntax.TokLParen, syntax.TokLBracket, syntax.TokLBrace:
		p.open(tok, roleBracket, KindBracket, phaseBody)
	case syntax.TokEmbexprBegin:
		p.open(tok, roleEmbexpr, KindEmbexpr, phaseBody)
	case syntax.TokStringBegin, syntax.TokBacktick, syntax.TokRegexpBegin, syntax.TokSymbolBegin,
		syntax.TokWordsBegin, syntax.TokQWordsBegin, syntax.TokSymbolsBegin, syntax.TokQSymbolsBegin:
		p.open(tok, roleString, KindString, phaseBody)

	case syntax.TokStringEnd, syntax.TokRegexpEnd, syntax.TokLabelEnd:
		p.closeRole(tok, roleString)
	case syntax.TokEmbexprEnd:
		p.requireOperand(f, tok)
		p.closeRole(tok, roleEmbexpr)

	case syntax.TokRParen:
		p.closeBracket(f, tok, "(")
	case syntax.TokRBracket:
		p.closeBracket(f, tok, "[")
	case syntax.TokRBrace:
		p.closeBracket(f, tok, "{")

	case syntax.TokKwEnd:
		p.requireOperand(f, tok)
		if f.role != roleBlock {
			p.errorAt(syntax.ErrUnexpectedEnd, tok, "syntax error, unexpected 'end'")
			f.note(tok)
			p.noteLast(tok)
			return
		}
		p.closeFrame(tok)

	case syntax.TokKwElsif, syntax.TokKwElse, syntax.TokKwWhen, syntax.TokKwRescue, syntax.TokKwEnsure:
		p.clause(f, tok)
	case syntax.TokKwIn:
		if f.word == "case" || (f.word == "in" && f.start) {
			p.clause(f, tok)
			return
		}
		p.plain(f, tok)

	case syntax.TokHeredocBegin:
		p.openHeredoc(f, tok)

	case syntax.TokAssign, syntax.TokOpAssign:
		p.assignment(f, tok)

	default:
		p.plain(f, tok)
	}
}

// plain reads a token that neither opens nor closes anything.
func (p *parser) plain(f *frame, tok syntax.Token) {
	p.trackTarget(f, tok)
	f.note(tok)
	p.noteLast(tok)
}

func (p *parser) newline(f *frame) {
	if f.mlhs {
		f.wait = true
		return
	}
	p.endStatement(f)
}

// endStatement ends the statement of f at a newline, ';', 'then' or the
// 'do' of a loop. A construct header ends with its first statement.
func (p *parser) endStatement(f *frame) {
	f.phase = phaseBody
	f.beginStatement()
}

// header handles the tokens that end or shape a construct header. It
// reports whether tok was consumed.
func (p *parser) header(f *frame, tok syntax.Token) bool {
	switch f.phase {
	case phaseDefName:
		f.phase = phaseDefAfterName
		f.note(tok)
		p.noteLast(tok)
		return true

	case phaseDefAfterName:
		switch {
		case (tok.Kind == syntax.TokDot || tok.Kind == syntax.TokColon2) && !tok.SpaceBefore:
			f.phase = phaseDefName
			f.note(tok)
			p.noteLast(tok)
			return true
		case tok.Kind == syntax.TokLParen:
			f.phase = phaseDefAfterParams
			p.open(tok, roleParams, KindBracket, phaseBody)
			return true
		case tok.Kind == syntax.TokAssign:
			p.endlessDef(tok)
			return true
		case tok.Kind == syntax.TokSemicolon:
			return false
		}
		f.phase = phaseDefParams
		return false

	case phaseDefAfterParams:
		switch tok.Kind {
		case syntax.TokAssign:
			p.endlessDef(tok)
			return true
		case syntax.TokSemicolon:
			return false
		}
		f.phase = phaseBody
		f.beginStatement()
		return false

	case phaseForVar:
		if tok.Kind == syntax.TokKwIn {
			f.phase = phaseLoopHeader
			f.note(tok)
			p.noteLast(tok)
			return true
		}

	case phaseLoopHeader:
		if tok.Kind == syntax.TokKwDo {
			f.note(tok)
			p.noteLast(tok)
			p.endStatement(f)
			return true
		}

	case phaseBody, phaseHeader, phaseDefParams:
	}
	return false
}

// endlessDef closes a "def name(args) =" at the '='. The body that follows
// belongs to the enclosing statement.
func (p *parser) endlessDef(tok syntax.Token) {
	p.pop(tok)
	parent := p.top()
	parent.lhs = false
	parent.note(tok)
	p.noteLast(tok)
}

func (p *parser) closeBracket(f *frame, tok syntax.Token, opener string) {
	p.requireOperand(f, tok)
	matches := f.word == opener
	switch f.role {
	case roleBracket, roleParams:
	case roleBrace:
		matches = matches && opener == "{"
	default:
		matches = false
	}
	if !matches {
		p.errorAt(syntax.ErrUnmatchedClose, tok, fmt.Sprintf("syntax error, unexpected '%s'", tok.Text))
		f.note(tok)
		p.noteLast(tok)
		return
	}
	p.closeFrame(tok)
}

//nolint:gochecknoglobals // Read-only lookup table.
var (
	rescuable = map[string]bool{"begin": true, "def": true, "do": true, "class": true, "module": true}
	elseAfter = map[string]bool{"if": true, "elsif": true, "unless": true, "case": true, "when": true, "in": true, "rescue": true}
)

// clause handles a keyword that closes the clause on top of the stack and
// opens its own: elsif, else, when, in, rescue, ensure.
func (p *parser) clause(f *frame, tok syntax.Token) {
	p.requireOperand(f, tok)

	ok := false
	next := phaseHeader
	if f.role == roleBlock {
		switch tok.Kind {
		case syntax.TokKwElsif:
			ok = f.word == "if" || f.word == "elsif"
		case syntax.TokKwElse:
			ok = elseAfter[f.word]
			next = phaseBody
		case syntax.TokKwWhen:
			ok = f.word == "case" || f.word == "when"
		case syntax.TokKwIn:
			ok = true
		case syntax.TokKwRescue:
			ok = rescuable[f.owner] && (f.word == f.owner || f.word == "rescue")
		case syntax.TokKwEnsure:
			ok = rescuable[f.owner] && (f.word == f.owner || f.word == "rescue" || f.word == "else")
			next = phaseBody
		}
	}
	if !ok {
		p.unexpected(tok)
		f.note(tok)
		p.noteLast(tok)
		return
	}
	p.replace(tok, next)
}

// requireOperand reports a closing token that directly follows a binary
// operator, a dot or an assignment.
func (p *parser) requireOperand(f *frame, tok syntax.Token) {
	if f.n == 0 || f.inDefHeader() {
		return
	}
	if needsOperand(f.prev) {
		p.unexpected(tok)
	}
}

func needsOperand(tok syntax.Token) bool {
	switch tok.Kind {
	case syntax.TokOp:
		switch tok.Text {
		case "|", "*", "**", "&", "!":
			return false
		}
		return tok.State.Any(syntax.StateBeg)
	case syntax.TokOpAssign, syntax.TokAssign, syntax.TokArrow, syntax.TokQuestion, syntax.TokColon,
		syntax.TokDot, syntax.TokAmpDot:
		return true
	case syntax.TokColon2:
		return tok.State.Any(syntax.StateDot)
	default:
		return false
	}
}

func isPrimary(kind syntax.TokenKind) bool {
	switch kind {
	case syntax.TokIdent, syntax.TokConst, syntax.TokIvar, syntax.TokCvar, syntax.TokGvar,
		syntax.TokBackref, syntax.TokKwSelf:
		return true
	default:
		return false
	}
}

func endsTarget(kind syntax.TokenKind) bool {
	return isPrimary(kind) || kind == syntax.TokRBracket || kind == syntax.TokRParen
}

func isSplat(tok syntax.Token) bool {
	return tok.Kind == syntax.TokOp && tok.Text == "*"
}

// trackTarget follows whether the statement read so far in f can be the
// left-hand side of an assignment, such as "a, b.c, *d[0]".
func (p *parser) trackTarget(f *frame, tok syntax.Token) {
	if !f.lhs {
		return
	}

	prev := f.prevKind()
	first := f.n == 0
	afterSep := first || prev == syntax.TokComma || isSplat(f.prev) && f.n > 0

	ok := false
	switch tok.Kind {
	case syntax.TokIdent, syntax.TokConst, syntax.TokIvar, syntax.TokCvar, syntax.TokGvar,
		syntax.TokBackref, syntax.TokKwSelf:
		ok = afterSep || prev == syntax.TokDot || prev == syntax.TokAmpDot || prev == syntax.TokColon2
	case syntax.TokDot, syntax.TokAmpDot:
		ok = !first && endsTarget(prev)
	case syntax.TokColon2:
		ok = afterSep || endsTarget(prev)
	case syntax.TokLBracket:
		ok = !first && endsTarget(prev) && !tok.SpaceBefore
	case syntax.TokLParen:
		ok = afterSep || (endsTarget(prev) && !tok.SpaceBefore)
	case syntax.TokRBracket, syntax.TokRParen:
		ok = true
	case syntax.TokComma:
		ok = !first && endsTarget(prev)
		if ok {
			f.mlhs = true
		}
	case syntax.TokOp:
		ok = isSplat(tok) && (first || prev == syntax.TokComma)
	}

	if !ok {
		f.lhs = false
		if f.mlhs {
			f.mlhs = false
			p.unexpected(tok)
		}
	}
}

//nolint:gochecknoglobals // Read-only lookup table.
var unassignable = map[syntax.TokenKind]string{
	syntax.TokKwSelf:     "Can't change the value of self",
	syntax.TokKwNil:      "Can't assign to nil",
	syntax.TokKwTrue:     "Can't assign to true",
	syntax.TokKwFalse:    "Can't assign to false",
	syntax.TokKwFile:     "Can't assign to __FILE__",
	syntax.TokKwLine:     "Can't assign to __LINE__",
	syntax.TokKwEncoding: "Can't assign to __ENCODING__",
	syntax.TokInteger:    "unexpected '=' after a literal",
	syntax.TokFloat:      "unexpected '=' after a literal",
	syntax.TokRational:   "unexpected '=' after a literal",
	syntax.TokImaginary:  "unexpected '=' after a literal",
	syntax.TokChar:       "unexpected '=' after a literal",
	syntax.TokSymbol:     "unexpected '=' after a literal",
	syntax.TokBackref:    "Can't set variable",
}

func (p *parser) assignment(f *frame, tok syntax.Token) {
	if f.n > 0 && !f.inDefHeader() {
		if msg, bad := unassignable[f.prev.Kind]; bad {
			if f.prev.Kind == syntax.TokBackref {
				msg += " " + f.prev.Text
			}
			p.errorAt(syntax.ErrInvalidAssignment, f.prev, msg)
		}
		afterDot := f.n > 1 && (f.prev2.Kind == syntax.TokDot || f.prev2.Kind == syntax.TokAmpDot)
		if f.prev.Kind == syntax.TokConst && !afterDot && p.inDef() {
			p.errorAt(syntax.ErrDynamicConstant, f.prev, "dynamic constant assignment")
		}
	}
	f.mlhs = false
	f.lhs = false
	f.note(tok)
	p.noteLast(tok)
}

// inDef reports whether the innermost class, module or def around the
// cursor is a def.
func (p *parser) inDef() bool {
	for i := len(p.frames) - 1; i > 0; i-- {
		switch p.frames[i].owner {
		case "def":
			return true
		case "class", "module":
			return false
		}
	}
	return false
}

func (p *parser) openHeredoc(f *frame, tok syntax.Token) {
	p.trackTarget(f, tok)
	f.note(tok)
	p.noteLast(tok)

	p.tree.Elements = append(p.tree.Elements, Element{Pos: tok.Span.Start, Kind: KindHeredoc, Text: tok.Text})
	idx := len(p.tree.Elements) - 1
	line := tok.Span.Start.Line
	p.tree.HeredocOpens[line] = append(p.tree.HeredocOpens[line], idx)
	p.pending = append(p.pending, heredoc{elem: idx, line: line, col: tok.Span.Start.Column})
}

// enterHeredocBody pushes a frame for heredoc bodies when tok is the first
// token past the marker line, so that body tokens leave the statement
// around the marker alone.
func (p *parser) enterHeredocBody(tok syntax.Token) {
	if p.inBody || len(p.pending) == 0 || tok.Span.Start.Line <= p.pending[0].line {
		return
	}
	p.frames = append(p.frames, &frame{role: roleHeredocBody, elem: -1})
	p.inBody = true
}

// closeHeredoc matches a terminator with its heredoc: the bodies of the
// latest marker line come first, in marker order.
func (p *parser) closeHeredoc(tok syntax.Token) {
	if len(p.pending) == 0 {
		p.invariant("heredoc terminator at %s without a heredoc", tok.Span.Start)
		return
	}
	best := 0
	for i, h := range p.pending {
		b := p.pending[best]
		if h.line > b.line || (h.line == b.line && h.col < b.col) {
			best = i
		}
	}
	h := p.pending[best]
	p.pending = append(p.pending[:best], p.pending[best+1:]...)
	p.tree.Events = append(p.tree.Events, Event{Pos: tok.Span.Start, Elem: h.elem})

	if len(p.pending) == 0 && p.inBody {
		p.inBody = false
		for len(p.frames) > 1 {
			f := p.pop(tok)
			if f.role == roleHeredocBody {
				break
			}
		}
	}
}

// finish reports what the end of input leaves incomplete.
func (p *parser) finish(eof syntax.Token) {
	incomplete := false
	for _, f := range p.frames {
		switch f.role {
		case roleBlock, roleBrace, roleBracket, roleParams:
			incomplete = true
		case roleRoot, roleString, roleEmbexpr, roleEmbdoc, roleHeredocBody:
		}
		if f.mlhs {
			incomplete = true
		}
	}
	if p.hasLast && lastNeedsMore(p.last) {
		incomplete = true
	}
	if incomplete {
		p.errorAt(syntax.ErrUnexpectedEOF, eof, "syntax error, unexpected end-of-input")
	}
}

func lastNeedsMore(tok syntax.Token) bool {
	switch tok.Kind {
	case syntax.TokSemicolon, syntax.TokDot2, syntax.TokDot3:
		return false
	case syntax.TokLabel, syntax.TokLabelEnd:
		return true
	}
	if tok.Kind.IsModifier() {
		return true
	}
	return tok.State.Any(syntax.StateBeg | syntax.StateDot)
}
