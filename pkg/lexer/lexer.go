// Package lexer turns a Ruby buffer into a stream of classified tokens that
// carry the scanner state after each token.
//
// The tokenizer never fails: malformed input produces tokens plus
// SyntaxErrors, so that incomplete code typed into a console can still be
// analyzed line by line.
package lexer

import (
	"sort"

	"github.com/yaklabco/rubynest/pkg/syntax"
)

// Options configures a tokenization.
type Options struct {
	// Locals are names already bound as local variables in the surrounding
	// session. They change how a following "/" or "%" is read.
	Locals []string
}

// Result is the output of a tokenization.
type Result struct {
	// Tokens are ordered by offset and end with a single EOF token.
	Tokens []syntax.Token

	// Errors are ordered by offset.
	Errors []syntax.SyntaxError

	// Lines is the line index of the tokenized buffer.
	Lines *syntax.Lines

	// Encoding is the name declared by a magic comment, if any.
	Encoding string

	// EncodingKnown is set when Encoding names a charset Ruby accepts.
	EncodingKnown bool
}

// Tokenize splits source into tokens, treating locals as known variables.
func Tokenize(source string, locals ...string) *Result {
	return TokenizeWithOptions(source, Options{Locals: locals})
}

// TokenizeWithOptions splits source into tokens.
//
// A magic comment naming an unknown encoding does not affect tokenization:
// bytes are never decoded, so the buffer lexes as if the comment were
// absent. The declared name is reported on the Result.
func TokenizeWithOptions(source string, opts Options) *Result {
	lex := newLexer(source, syntax.BuildLines(source), opts)
	lex.run()

	res := lex.result()
	if name, ok := MagicEncoding(source); ok {
		res.Encoding = name
		res.EncodingKnown = KnownEncoding(name)
	}
	return res
}

// Bytes that end the program text the way __END__ does.
const (
	byteNUL = 0x00
	byteEOT = 0x04
	byteSUB = 0x1a
)

const notFound = -1

// lexer is the scanner state for one buffer.
type lexer struct {
	src    string
	pos    int
	lines  *syntax.Lines
	tokens []syntax.Token
	errs   []syntax.SyntaxError

	state        syntax.LexState
	spaceSeen    bool
	commandStart bool
	stopped      bool

	modes []*mode

	// heredocEnd is where lexing resumes after the newline of a line that
	// started one or more heredocs, or notFound.
	heredocEnd int

	parenNest int
	lparBeg   int

	locals *locals
	decl   declTracker
}

func newLexer(source string, lines *syntax.Lines, opts Options) *lexer {
	const tokensPerByte = 4
	return &lexer{
		src:          source,
		lines:        lines,
		tokens:       make([]syntax.Token, 0, len(source)/tokensPerByte+1),
		state:        syntax.StateBeg,
		commandStart: true,
		heredocEnd:   notFound,
		lparBeg:      notFound,
		locals:       newLocals(opts.Locals),
	}
}

// run drives the scanner until the buffer is exhausted, unwinding literals
// left open at the end of input.
func (l *lexer) run() {
	for {
		for l.pos < len(l.src) && !l.stopped {
			top := l.top()
			switch {
			case top == nil || top.kind == modeEmbexpr:
				l.lexCode()
			case top.kind == modeHeredoc:
				l.lexHeredocBody(top)
			default:
				l.lexStringBody(top)
			}
		}
		if !l.unwindAtEOF() {
			break
		}
	}
}

// unwindAtEOF reports literals still open at the end of input. It returns
// true when lexing must resume, which happens when an unterminated heredoc
// leaves the rest of its marker line unscanned.
func (l *lexer) unwindAtEOF() bool {
	for len(l.modes) > 0 {
		top := l.pop()
		switch top.kind {
		case modeHeredoc:
			l.errorAt(syntax.ErrUnterminatedHeredoc, top.begin, len(l.src),
				"can't find string \""+top.ident+"\" anywhere before EOF")
			l.state = top.saved
			l.pos = top.resume
			l.heredocEnd = len(l.src)
			if l.stopped {
				continue
			}
			return true
		case modeString:
			if top.lit == litRegexp {
				l.errorAt(syntax.ErrUnterminatedRegexp, top.begin, len(l.src), "unterminated regexp meets end of file")
			} else {
				l.errorAt(syntax.ErrUnterminatedString, top.begin, len(l.src), "unterminated string meets end of file")
			}
		case modeEmbexpr:
			// The nesting tracker reports the open interpolation.
		}
	}
	return false
}

func (l *lexer) result() *Result {
	sort.SliceStable(l.tokens, func(i, j int) bool {
		return l.tokens[i].Span.Start.Offset < l.tokens[j].Span.Start.Offset
	})

	eof := len(l.src)
	l.tokens = append(l.tokens, syntax.Token{
		Kind:  syntax.TokEOF,
		Span:  l.span(eof, eof),
		State: l.state,
	})

	return &Result{
		Tokens: l.tokens,
		Errors: syntax.SortErrors(l.errs),
		Lines:  l.lines,
	}
}

func (l *lexer) top() *mode {
	if len(l.modes) == 0 {
		return nil
	}
	return l.modes[len(l.modes)-1]
}

func (l *lexer) push(m *mode) {
	l.modes = append(l.modes, m)
}

func (l *lexer) pop() *mode {
	top := l.modes[len(l.modes)-1]
	l.modes = l.modes[:len(l.modes)-1]
	return top
}

func (l *lexer) span(start, end int) syntax.Span {
	return syntax.Span{Start: l.lines.PositionAt(start), End: l.lines.PositionAt(end)}
}

// emit appends a token covering [start, end) with the current state.
func (l *lexer) emit(kind syntax.TokenKind, start, end int) {
	if end <= start {
		return
	}
	l.tokens = append(l.tokens, syntax.Token{
		Kind:        kind,
		Text:        l.src[start:end],
		Span:        l.span(start, end),
		State:       l.state,
		SpaceBefore: l.spaceSeen,
	})
	if kind == syntax.TokSpace || kind == syntax.TokLineContinuation {
		l.spaceSeen = true
		return
	}
	l.spaceSeen = false
	l.decl.observe(l, kind, l.src[start:end])
}

func (l *lexer) errorAt(code syntax.ErrorCode, start, end int, msg string) {
	l.errs = append(l.errs, syntax.SyntaxError{
		Code:    code,
		Message: msg,
		Span:    l.span(start, end),
	})
}

func (l *lexer) peek(n int) byte {
	if l.pos+n < len(l.src) {
		return l.src[l.pos+n]
	}
	return 0
}

func (l *lexer) atLineStart() bool {
	return l.pos == 0 || l.src[l.pos-1] == '\n'
}

// opState is the state after an operator: a method name after def or a
// dot, otherwise the start of an operand.
func (l *lexer) opState() syntax.LexState {
	if l.state.Any(syntax.StateFname | syntax.StateDot) {
		return syntax.StateArg
	}
	return syntax.StateBeg
}
