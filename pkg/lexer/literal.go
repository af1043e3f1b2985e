package lexer

import (
	"strings"

	"github.com/yaklabco/rubynest/pkg/syntax"
)

type modeKind int

const (
	modeString modeKind = iota
	modeHeredoc
	modeEmbexpr
)

// literal is the flavor of a string-like body.
type literal int

const (
	litString literal = iota
	litXString
	litRegexp
	litWords
)

// mode is an entry of the literal stack. Code inside #{...} runs in an
// embexpr mode pushed on top of the literal it interpolates into.
type mode struct {
	kind modeKind
	lit  literal

	open   byte // opening delimiter when delimiters nest, else 0
	close  byte
	nest   int
	interp bool
	label  bool // a closing quote directly followed by ':' forms a label

	begin    int // offset of the opening token
	beginEnd int

	// Heredocs.
	ident     string
	indented  bool // <<- or <<~: the terminator may be indented
	resume    int  // where the marker line continues
	lineStart bool

	// Embedded expressions.
	braces int

	saved syntax.LexState
}

// beginString emits an opening token of n bytes and enters its body.
func (l *lexer) beginString(kind syntax.TokenKind, n int, lit literal, term byte, interp, label bool) {
	start := l.pos
	l.pos += n
	l.emit(kind, start, l.pos)

	m := &mode{
		kind:     modeString,
		lit:      lit,
		close:    term,
		interp:   interp,
		label:    label,
		begin:    start,
		beginEnd: l.pos,
	}
	if closer := closingDelimiter(term); closer != term {
		m.open, m.close = term, closer
	}
	l.push(m)
}

func closingDelimiter(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	case '{':
		return '}'
	case '<':
		return '>'
	default:
		return open
	}
}

// lexStringBody scans string content up to the next token boundary:
// the terminator, an interpolation, a word separator or the end of input.
//
//nolint:gocyclo,cyclop // One branch per body construct.
func (l *lexer) lexStringBody(m *mode) {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\\':
			if l.peek(1) == '\n' && l.heredocEnd != notFound {
				l.pos += 2
				l.emit(syntax.TokStringContent, start, l.pos)
				l.jumpOverHeredocBodies()
				return
			}
			l.pos += 2
			if l.pos > len(l.src) {
				l.pos = len(l.src)
			}
			continue
		case m.open != 0 && c == m.open:
			m.nest++
		case c == m.close:
			if m.nest > 0 {
				m.nest--
				break
			}
			l.emit(syntax.TokStringContent, start, l.pos)
			l.closeString(m)
			return
		case m.lit == litWords && isSpaceOrNewline(c):
			l.emit(syntax.TokStringContent, start, l.pos)
			sep := l.pos
			for l.pos < len(l.src) && isSpaceOrNewline(l.src[l.pos]) && l.src[l.pos] != m.close {
				if l.src[l.pos] == '\n' && l.heredocEnd != notFound {
					l.pos++
					l.emit(syntax.TokWordsSep, sep, l.pos)
					l.jumpOverHeredocBodies()
					return
				}
				l.pos++
			}
			l.emit(syntax.TokWordsSep, sep, l.pos)
			return
		case c == '#' && m.interp && l.startsInterpolation():
			l.emit(syntax.TokStringContent, start, l.pos)
			l.lexInterpolation()
			return
		case c == '\n' && l.heredocEnd != notFound:
			l.pos++
			l.emit(syntax.TokStringContent, start, l.pos)
			l.jumpOverHeredocBodies()
			return
		}
		l.pos++
	}
	l.emit(syntax.TokStringContent, start, l.pos)
}

// closeString emits the terminator of the literal on top of the stack.
func (l *lexer) closeString(m *mode) {
	l.pop()
	start := l.pos
	l.pos++

	switch {
	case m.lit == litRegexp:
		for l.pos < len(l.src) && strings.IndexByte("imxounse", l.src[l.pos]) >= 0 {
			l.pos++
		}
		l.state = syntax.StateEnd
		l.emit(syntax.TokRegexpEnd, start, l.pos)
	case m.label && l.labelSuffixAt(l.pos):
		l.pos++
		l.state = syntax.StateArg | syntax.StateLabeled
		l.emit(syntax.TokLabelEnd, start, l.pos)
	default:
		l.state = syntax.StateEnd
		l.emit(syntax.TokStringEnd, start, l.pos)
	}
	if m.close == '\n' {
		l.jumpOverHeredocBodies()
	}
}

// startsInterpolation reports whether the '#' at the cursor begins #{...},
// #@ivar, #@@cvar or #$gvar.
func (l *lexer) startsInterpolation() bool {
	switch l.peek(1) {
	case '{':
		return true
	case '@':
		if l.peek(2) == '@' {
			return isIdentStart(l.peek(3))
		}
		return isIdentStart(l.peek(2))
	case '$':
		return gvarLen(l.src[l.pos+1:]) > 0
	}
	return false
}

// lexInterpolation emits the opener of an interpolation at the cursor.
func (l *lexer) lexInterpolation() {
	start := l.pos
	if l.peek(1) == '{' {
		l.pos += 2
		saved := l.state
		l.emit(syntax.TokEmbexprBegin, start, l.pos)
		l.push(&mode{kind: modeEmbexpr, begin: start, beginEnd: l.pos, saved: saved})
		l.state = syntax.StateBeg
		l.commandStart = true
		return
	}

	saved := l.state
	l.pos++
	l.emit(syntax.TokEmbvar, start, l.pos)
	if l.src[l.pos] == '$' {
		l.lexGlobalVariable()
	} else {
		l.lexInstanceVariable()
	}
	l.state = saved
}

// lexPercentLiteral scans the opener of %q(...), %w[...], %(...) and kin.
func (l *lexer) lexPercentLiteral() {
	start := l.pos
	p := start + 1
	if p >= len(l.src) {
		l.pos = p
		l.emit(syntax.TokStringBegin, start, p)
		l.push(&mode{kind: modeString, lit: litString, begin: start, beginEnd: p})
		return
	}

	typ := byte('Q')
	term := l.src[p]
	if isAlnum(term) {
		typ = term
		p++
		if p >= len(l.src) {
			l.pos = p
			l.emit(syntax.TokStringBegin, start, p)
			l.push(&mode{kind: modeString, lit: litString, begin: start, beginEnd: p})
			return
		}
		term = l.src[p]
		if isAlnum(term) || strings.IndexByte("QqWwIirsx", typ) < 0 {
			l.pos = p
			l.emit(syntax.TokUnknown, start, p)
			l.errorAt(syntax.ErrUnexpectedToken, start, p, "unknown type of %string")
			return
		}
	}

	kind, lit, interp := percentKind(typ)
	l.beginString(kind, p+1-start, lit, term, interp, false)
}

func percentKind(typ byte) (syntax.TokenKind, literal, bool) {
	switch typ {
	case 'q':
		return syntax.TokStringBegin, litString, false
	case 'W':
		return syntax.TokWordsBegin, litWords, true
	case 'w':
		return syntax.TokQWordsBegin, litWords, false
	case 'I':
		return syntax.TokSymbolsBegin, litWords, true
	case 'i':
		return syntax.TokQSymbolsBegin, litWords, false
	case 'r':
		return syntax.TokRegexpBegin, litRegexp, true
	case 's':
		return syntax.TokSymbolBegin, litString, false
	case 'x':
		return syntax.TokBacktick, litXString, true
	default:
		return syntax.TokStringBegin, litString, true
	}
}

// tryHeredoc scans <<ID, <<-ID, <<~ID and their quoted forms. The body is
// scanned right away, starting on the next line (or after the body of an
// earlier heredoc on the same line); the rest of the marker line is
// scanned after the terminator.
func (l *lexer) tryHeredoc() bool {
	start := l.pos
	p := start + 2
	indented := false
	if p < len(l.src) && (l.src[p] == '~' || l.src[p] == '-') {
		indented = true
		p++
	}

	var ident string
	interp := true
	if p < len(l.src) && (l.src[p] == '\'' || l.src[p] == '"' || l.src[p] == '`') {
		quote := l.src[p]
		rest := l.src[p+1:]
		end := strings.IndexByte(rest, quote)
		if end < 0 {
			return false
		}
		if nl := strings.IndexByte(rest[:end], '\n'); nl >= 0 {
			return false
		}
		ident = rest[:end]
		interp = quote != '\''
		p += end + 2
	} else {
		n := identLen(l.src[p:])
		if n == 0 {
			return false
		}
		ident = l.src[p : p+n]
		p += n
	}

	l.pos = p
	l.state = syntax.StateEnd
	l.emit(syntax.TokHeredocBegin, start, p)

	bodyStart := l.heredocEnd
	if bodyStart == notFound {
		bodyStart = l.lineEnd()
	}
	l.push(&mode{
		kind:      modeHeredoc,
		interp:    interp,
		ident:     ident,
		indented:  indented,
		resume:    p,
		lineStart: true,
		begin:     start,
		beginEnd:  p,
		saved:     l.state,
	})
	l.heredocEnd = notFound
	l.pos = bodyStart
	return true
}

// lexHeredocBody scans one line of a heredoc body, or up to an
// interpolation within it.
func (l *lexer) lexHeredocBody(m *mode) {
	if m.lineStart && l.isHeredocTerminator(m) {
		end := l.lineEnd()
		l.emit(syntax.TokHeredocEnd, l.pos, end)
		l.pop()
		l.state = m.saved
		l.heredocEnd = end
		l.pos = m.resume
		return
	}

	m.lineStart = false
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\\' && m.interp && l.peek(1) != '\n':
			l.pos += 2
			if l.pos > len(l.src) {
				l.pos = len(l.src)
			}
			continue
		case c == '\n':
			l.pos++
			l.emit(syntax.TokStringContent, start, l.pos)
			m.lineStart = true
			l.jumpOverHeredocBodies()
			return
		case c == '#' && m.interp && l.startsInterpolation():
			l.emit(syntax.TokStringContent, start, l.pos)
			l.lexInterpolation()
			return
		}
		l.pos++
	}
	l.emit(syntax.TokStringContent, start, l.pos)
}

func (l *lexer) isHeredocTerminator(m *mode) bool {
	line := l.src[l.pos:]
	if nl := strings.IndexByte(line, '\n'); nl >= 0 {
		line = line[:nl]
	}
	line = strings.TrimSuffix(line, "\r")
	if m.indented {
		line = strings.TrimLeft(line, " \t")
	}
	return line == m.ident
}
