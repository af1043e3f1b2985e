package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/rubynest/pkg/syntax"
)

// lexCode scans one token outside of any literal body.
func (l *lexer) lexCode() {
	c := l.src[l.pos]

	switch {
	case c == ' ' || c == '\t' || c == '\f' || c == '\v' || (c == '\r' && l.peek(1) != '\n'):
		l.lexSpace()
		return
	case c == '\\' && l.isContinuation():
		l.lexContinuation()
		return
	case c == '\n' || c == '\r':
		l.lexNewline()
		return
	case c == '#':
		l.lexComment()
		return
	case c == '=' && l.atLineStart() && l.hasLineKeyword("=begin"):
		l.lexEmbdoc()
		return
	case c == '_' && l.atLineStart() && l.isDataEnd(),
		c == byteNUL || c == byteEOT || c == byteSUB:
		l.stop()
		return
	}

	cmdState := l.commandStart
	l.commandStart = false

	switch {
	case isIdentStart(c):
		l.lexIdentifier(cmdState)
	case isDigit(c):
		l.lexNumber()
	default:
		l.lexPunct(c, cmdState)
	}
}

func (l *lexer) lexSpace() {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == ' ' || c == '\t' || c == '\f' || c == '\v' || (c == '\r' && l.peek(1) != '\n') {
			l.pos++
			continue
		}
		break
	}
	l.emit(syntax.TokSpace, start, l.pos)
}

func (l *lexer) isContinuation() bool {
	next := l.peek(1)
	return l.pos+1 == len(l.src) || next == '\n' || (next == '\r' && l.peek(2) == '\n')
}

func (l *lexer) lexContinuation() {
	start := l.pos
	l.pos++
	if l.pos < len(l.src) && l.src[l.pos] == '\r' {
		l.pos++
	}
	if l.pos < len(l.src) {
		l.pos++
	}
	l.emit(syntax.TokLineContinuation, start, l.pos)
	l.jumpOverHeredocBodies()
}

func (l *lexer) lexNewline() {
	start := l.pos
	if l.src[l.pos] == '\r' {
		l.pos++
	}
	l.pos++

	kind := l.newlineKind()
	if kind == syntax.TokNewline {
		l.state = syntax.StateBeg
		l.commandStart = true
	}
	l.emit(kind, start, l.pos)
	l.jumpOverHeredocBodies()
}

// stop ends the program text at the cursor. Heredoc bodies already
// scanned past the current line keep their tokens.
func (l *lexer) stop() {
	if l.heredocEnd != notFound {
		end := l.lineEnd()
		l.emit(syntax.TokDataEnd, l.pos, end)
		l.pos = l.heredocEnd
		l.heredocEnd = notFound
	}
	l.emit(syntax.TokDataEnd, l.pos, len(l.src))
	l.pos = len(l.src)
	l.stopped = true
}

// jumpOverHeredocBodies moves past the bodies of heredocs started on the
// line that just ended. Their tokens were already produced.
func (l *lexer) jumpOverHeredocBodies() {
	if l.heredocEnd != notFound {
		l.pos = l.heredocEnd
		l.heredocEnd = notFound
	}
}

// newlineKind decides whether the newline just consumed ends a statement.
func (l *lexer) newlineKind() syntax.TokenKind {
	s := l.state
	if s.Any(syntax.StateBeg|syntax.StateClass|syntax.StateFname|syntax.StateDot) && !s.Any(syntax.StateLabeled) {
		return syntax.TokIgnoredNewline
	}
	if s.All(syntax.StateArg | syntax.StateLabeled) {
		return syntax.TokIgnoredNewline
	}

	next := l.pos
	if l.heredocEnd != notFound {
		next = l.heredocEnd
	}
	if l.leadingDotAt(next) {
		return syntax.TokIgnoredNewline
	}
	return syntax.TokNewline
}

// leadingDotAt reports whether the next code line, skipping comment-only
// lines, starts with a method-call dot.
func (l *lexer) leadingDotAt(from int) bool {
	for i := from; i < len(l.src); {
		j := i
		for j < len(l.src) && isBlank(l.src[j]) {
			j++
		}
		if j >= len(l.src) {
			return false
		}
		switch l.src[j] {
		case '#':
			nl := strings.IndexByte(l.src[j:], '\n')
			if nl < 0 {
				return false
			}
			i = j + nl + 1
			continue
		case '.':
			return j+1 >= len(l.src) || l.src[j+1] != '.'
		case '&':
			return j+1 < len(l.src) && l.src[j+1] == '.'
		}
		return false
	}
	return false
}

func (l *lexer) lexComment() {
	start := l.pos
	end := strings.IndexByte(l.src[l.pos:], '\n')
	if end < 0 {
		l.pos = len(l.src)
	} else {
		l.pos += end
		if l.src[l.pos-1] == '\r' && l.pos-1 > start {
			l.pos--
		}
	}
	l.emit(syntax.TokComment, start, l.pos)
}

// hasLineKeyword reports whether the text at the cursor is word followed by
// whitespace or the end of the buffer.
func (l *lexer) hasLineKeyword(word string) bool {
	if !strings.HasPrefix(l.src[l.pos:], word) {
		return false
	}
	after := l.pos + len(word)
	return after >= len(l.src) || isSpaceOrNewline(l.src[after])
}

func (l *lexer) isDataEnd() bool {
	rest := l.src[l.pos:]
	if !strings.HasPrefix(rest, "__END__") {
		return false
	}
	rest = rest[len("__END__"):]
	return rest == "" || rest[0] == '\n' || strings.HasPrefix(rest, "\r\n")
}

// lexEmbdoc scans an =begin ... =end block one line per token.
func (l *lexer) lexEmbdoc() {
	start := l.pos
	l.emit(syntax.TokEmbdocBegin, l.pos, l.lineEnd())
	l.pos = l.lineEnd()

	for l.pos < len(l.src) {
		end := l.lineEnd()
		if l.hasLineKeyword("=end") {
			l.emit(syntax.TokEmbdocEnd, l.pos, end)
			l.pos = end
			return
		}
		l.emit(syntax.TokEmbdoc, l.pos, end)
		l.pos = end
	}
	l.errorAt(syntax.ErrUnterminatedEmbdoc, start, len(l.src), "embedded document meets end of file")
}

// lineEnd returns the offset just past the newline ending the current line.
func (l *lexer) lineEnd() int {
	nl := strings.IndexByte(l.src[l.pos:], '\n')
	if nl < 0 {
		return len(l.src)
	}
	return l.pos + nl + 1
}

// labelPossible reports whether a name followed by ':' would be a label.
func (l *lexer) labelPossible(cmdState bool) bool {
	return (l.state.Any(syntax.StateLabel|syntax.StateEndFn) && !cmdState) || l.state.Any(syntax.StateArgAny)
}

func (l *lexer) labelSuffixAt(pos int) bool {
	return pos < len(l.src) && l.src[pos] == ':' && (pos+1 >= len(l.src) || l.src[pos+1] != ':')
}

// isBeg reports whether the cursor is at the start of an operand.
func (l *lexer) isBeg() bool {
	return l.state.Any(syntax.StateBegAny) || l.state.All(syntax.StateArg|syntax.StateLabeled)
}

// isSpaceArg reports whether the cursor follows a command name and a space
// but not yet an argument, as in "puts -1" or "p /re/".
func (l *lexer) isSpaceArg(next byte) bool {
	return l.state.Any(syntax.StateArgAny) && l.spaceSeen && !isSpaceOrNewline(next)
}

func (l *lexer) lexIdentifier(cmdState bool) {
	start := l.pos
	prev := l.state
	for l.pos < len(l.src) && isIdentChar(l.src[l.pos]) {
		l.pos++
	}

	setter := false
	if c := l.peek(0); (c == '!' || c == '?') && l.peek(1) != '=' {
		l.pos++
	} else if c == '=' && prev.Any(syntax.StateFname) {
		after := l.peek(1)
		if after != '~' && after != '>' && (after != '=' || l.peek(2) == '>') {
			l.pos++
			setter = true
		}
	}
	name := l.src[start:l.pos]

	if !setter && l.labelPossible(cmdState) && l.labelSuffixAt(l.pos) {
		l.pos++
		l.state = syntax.StateArg | syntax.StateLabeled
		l.emit(syntax.TokLabel, start, l.pos)
		return
	}

	if !prev.Any(syntax.StateDot) && !setter {
		if kw, ok := lookupKeyword(name); ok {
			l.emitKeyword(kw, prev, start)
			return
		}
	}

	kind := syntax.TokIdent
	if isConstStart(name) {
		kind = syntax.TokConst
	}

	switch {
	case prev.Any(syntax.StateFname):
		l.state = syntax.StateEndFn
	case prev.Any(syntax.StateDot):
		l.state = argState(cmdState)
	case kind == syntax.TokIdent && l.locals.has(name):
		l.state = syntax.StateEnd | syntax.StateLabel
	default:
		l.state = argState(cmdState)
	}
	l.emit(kind, start, l.pos)
}

func argState(cmdState bool) syntax.LexState {
	if cmdState {
		return syntax.StateCmdArg
	}
	return syntax.StateArg
}

func (l *lexer) emitKeyword(kw keyword, prev syntax.LexState, start int) {
	if prev.Any(syntax.StateFname) {
		// Method names such as "def end" or "alias if unless".
		l.state = syntax.StateEndFn
		l.emit(syntax.TokIdent, start, l.pos)
		return
	}

	l.state = kw.state
	if l.state.Any(syntax.StateBeg) {
		l.commandStart = true
	}

	kind := kw.kind
	switch {
	case kind == syntax.TokKwDo:
		if l.lparBeg != notFound && l.lparBeg == l.parenNest {
			l.lparBeg = notFound
			kind = syntax.TokKwDoLambda
		}
	case prev.Any(syntax.StateBeg | syntax.StateLabeled | syntax.StateClass):
	case kw.modifier != 0:
		kind = kw.modifier
		l.state = syntax.StateBeg | syntax.StateLabel
	}
	l.emit(kind, start, l.pos)
}

func (l *lexer) lexNumber() {
	start := l.pos
	kind := syntax.TokInteger

	if l.src[l.pos] == '0' && strings.IndexByte("xXbBoOdD", l.peek(1)) >= 0 {
		l.pos += 2
		l.skipDigits(radixDigits(l.src[start+1]))
	} else {
		l.skipDigits(isDigit)
		if l.peek(0) == '.' && isDigit(l.peek(1)) {
			kind = syntax.TokFloat
			l.pos++
			l.skipDigits(isDigit)
		}
		if c := l.peek(0); c == 'e' || c == 'E' {
			next := l.peek(1)
			if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peek(2))) {
				kind = syntax.TokFloat
				l.pos += 2
				l.skipDigits(isDigit)
			}
		}
	}

	if l.src[l.pos-1] == '_' {
		l.errorAt(syntax.ErrInvalidNumber, start, l.pos, "trailing '_' in number")
	}

	if l.peek(0) == 'r' && !isIdentChar(l.peek(1)) || (l.peek(0) == 'r' && l.peek(1) == 'i' && !isIdentChar(l.peek(2))) {
		kind = syntax.TokRational
		l.pos++
	}
	if l.peek(0) == 'i' && !isIdentChar(l.peek(1)) {
		kind = syntax.TokImaginary
		l.pos++
	}

	l.state = syntax.StateEnd
	l.emit(kind, start, l.pos)
}

func (l *lexer) skipDigits(accept func(byte) bool) {
	for l.pos < len(l.src) && (accept(l.src[l.pos]) || l.src[l.pos] == '_') {
		l.pos++
	}
}

func radixDigits(prefix byte) func(byte) bool {
	switch prefix {
	case 'x', 'X':
		return isHexDigit
	case 'b', 'B':
		return func(c byte) bool { return c == '0' || c == '1' }
	case 'o', 'O':
		return func(c byte) bool { return c >= '0' && c <= '7' }
	default:
		return isDigit
	}
}

// lexPunct scans operators, punctuation, sigiled names and literal openers.
//
//nolint:gocyclo,cyclop,funlen // One case per leading byte.
func (l *lexer) lexPunct(c byte, cmdState bool) {
	start := l.pos

	switch c {
	case '"':
		l.beginString(syntax.TokStringBegin, 1, litString, '"', true, l.labelPossible(cmdState))
	case '\'':
		l.beginString(syntax.TokStringBegin, 1, litString, '\'', false, l.labelPossible(cmdState))
	case '`':
		switch {
		case l.state.Any(syntax.StateFname):
			l.operator(syntax.TokOp, 1, syntax.StateEndFn)
		case l.state.Any(syntax.StateDot):
			l.operator(syntax.TokOp, 1, argState(cmdState))
		default:
			l.beginString(syntax.TokBacktick, 1, litXString, '`', true, false)
		}
	case '?':
		l.lexQuestion()
	case ':':
		l.lexColon()
	case '/':
		l.lexSlash()
	case '%':
		l.lexPercentSign()
	case '<':
		l.lexLess()
	case '>':
		switch {
		case l.peek(1) == '=':
			l.operator(syntax.TokOp, 2, l.opState())
		case l.peek(1) == '>' && l.peek(2) == '=':
			l.operator(syntax.TokOpAssign, 3, syntax.StateBeg)
		case l.peek(1) == '>':
			l.operator(syntax.TokOp, 2, l.opState())
		default:
			l.operator(syntax.TokOp, 1, l.opState())
		}
	case '=':
		l.lexEquals()
	case '!':
		l.lexBang()
	case '&':
		l.lexAmpersand()
	case '|':
		l.lexPipe()
	case '+', '-':
		l.lexPlusMinus(c)
	case '*':
		switch {
		case l.peek(1) == '*' && l.peek(2) == '=':
			l.operator(syntax.TokOpAssign, 3, syntax.StateBeg)
		case l.peek(1) == '*':
			l.operator(syntax.TokOp, 2, l.opState())
		case l.peek(1) == '=':
			l.operator(syntax.TokOpAssign, 2, syntax.StateBeg)
		default:
			l.operator(syntax.TokOp, 1, l.opState())
		}
	case '^':
		if l.peek(1) == '=' {
			l.operator(syntax.TokOpAssign, 2, syntax.StateBeg)
		} else {
			l.operator(syntax.TokOp, 1, l.opState())
		}
	case '~':
		if l.state.Any(syntax.StateFname|syntax.StateDot) && l.peek(1) == '@' {
			l.operator(syntax.TokOp, 2, syntax.StateArg)
		} else {
			l.operator(syntax.TokOp, 1, l.opState())
		}
	case '.':
		l.lexDot()
	case ',':
		l.operator(syntax.TokComma, 1, syntax.StateBeg|syntax.StateLabel)
	case ';':
		l.commandStart = true
		l.operator(syntax.TokSemicolon, 1, syntax.StateBeg)
	case '(':
		l.parenNest++
		l.operator(syntax.TokLParen, 1, syntax.StateBeg|syntax.StateLabel)
	case ')':
		l.parenNest--
		l.operator(syntax.TokRParen, 1, syntax.StateEndFn)
	case '[':
		l.lexLBracket()
	case ']':
		l.parenNest--
		l.operator(syntax.TokRBracket, 1, syntax.StateEnd)
	case '{':
		l.lexLBrace()
	case '}':
		l.lexRBrace()
	case '@':
		l.lexInstanceVariable()
	case '$':
		l.lexGlobalVariable()
	case '\\':
		l.pos++
		l.emit(syntax.TokUnknown, start, l.pos)
		l.errorAt(syntax.ErrInvalidCharacter, start, l.pos, "backslash appearing outside of a string")
	default:
		_, size := utf8.DecodeRuneInString(l.src[l.pos:])
		l.pos += size
		l.emit(syntax.TokUnknown, start, l.pos)
		l.errorAt(syntax.ErrInvalidCharacter, start, l.pos, fmt.Sprintf("invalid character %q in expression", l.src[start:l.pos]))
	}
}

// operator emits a token of n bytes and moves to state.
func (l *lexer) operator(kind syntax.TokenKind, n int, state syntax.LexState) {
	start := l.pos
	l.pos += n
	l.state = state
	l.emit(kind, start, l.pos)
}

func (l *lexer) lexQuestion() {
	next := l.peek(1)
	switch {
	case l.state.Any(syntax.StateEndAny),
		l.pos+1 >= len(l.src),
		isSpaceOrNewline(next),
		isIdentChar(next) && next < utf8.RuneSelf && isIdentChar(l.peek(2)):
		l.operator(syntax.TokQuestion, 1, syntax.StateBeg)
		return
	}

	start := l.pos
	l.pos++
	if next == '\\' {
		l.skipCharEscape()
	} else {
		_, size := utf8.DecodeRuneInString(l.src[l.pos:])
		l.pos += size
	}
	l.state = syntax.StateEnd
	l.emit(syntax.TokChar, start, l.pos)
	if l.src[l.pos-1] == '\n' {
		l.jumpOverHeredocBodies()
	}
}

// skipCharEscape consumes an escape sequence after "?".
func (l *lexer) skipCharEscape() {
	l.pos++ // backslash
	if l.pos >= len(l.src) {
		return
	}
	switch c := l.src[l.pos]; {
	case c == 'u' && l.peek(1) == '{':
		end := strings.IndexByte(l.src[l.pos:], '}')
		if end < 0 {
			l.pos = len(l.src)
			return
		}
		l.pos += end + 1
	case c == 'u':
		l.pos++
		for i := 0; i < 4 && l.pos < len(l.src) && isHexDigit(l.src[l.pos]); i++ {
			l.pos++
		}
	case (c == 'C' || c == 'M') && l.peek(1) == '-':
		l.pos += 2
		if l.peek(0) == '\\' {
			l.skipCharEscape()
			return
		}
		l.pos++
	case c == 'c':
		l.pos++
		if l.peek(0) == '\\' {
			l.skipCharEscape()
			return
		}
		l.pos++
	default:
		_, size := utf8.DecodeRuneInString(l.src[l.pos:])
		l.pos += size
	}
	if l.pos > len(l.src) {
		l.pos = len(l.src)
	}
}

func (l *lexer) lexColon() {
	next := l.peek(1)
	if next == ':' {
		if l.isBeg() || l.isSpaceArg(l.peek(2)) {
			l.operator(syntax.TokColon2, 2, syntax.StateBeg)
		} else {
			l.operator(syntax.TokColon2, 2, syntax.StateDot)
		}
		return
	}

	if l.state.Any(syntax.StateEndAny) || l.pos+1 >= len(l.src) || isSpaceOrNewline(next) || next == '#' {
		l.operator(syntax.TokColon, 1, syntax.StateBeg)
		return
	}

	switch next {
	case '"':
		l.beginString(syntax.TokSymbolBegin, 2, litString, '"', true, false)
		return
	case '\'':
		l.beginString(syntax.TokSymbolBegin, 2, litString, '\'', false, false)
		return
	}

	if n := symbolNameLen(l.src[l.pos+1:]); n > 0 {
		l.operator(syntax.TokSymbol, 1+n, syntax.StateEnd)
		return
	}
	l.operator(syntax.TokColon, 1, syntax.StateBeg)
}

//nolint:gochecknoglobals // Read-only lookup table.
var operatorSymbols = []string{
	"[]=", "[]", "**", "!=", "!~", "<=>", "<=", "<<", ">=", ">>", "===", "==", "=~",
	"+@", "-@", "~@", "!@", "!", "<", ">", "+", "-", "*", "/", "%", "&", "|", "^", "~", "`",
}

// symbolNameLen returns the length of a simple symbol name at the start of
// s, or 0 if s does not start with one.
func symbolNameLen(s string) int {
	if s == "" {
		return 0
	}

	switch {
	case s[0] == '@':
		n := 1
		if len(s) > 1 && s[1] == '@' {
			n = 2
		}
		if n >= len(s) || !isIdentStart(s[n]) {
			return 0
		}
		return n + identLen(s[n:])
	case s[0] == '$':
		return gvarLen(s)
	case isIdentStart(s[0]):
		n := identLen(s)
		if n < len(s) {
			switch s[n] {
			case '?', '!':
				if n+1 >= len(s) || s[n+1] != '=' {
					n++
				}
			case '=':
				if n+1 >= len(s) || (s[n+1] != '=' && s[n+1] != '~' && s[n+1] != '>') {
					n++
				}
			}
		}
		return n
	}

	for _, op := range operatorSymbols {
		if strings.HasPrefix(s, op) {
			return len(op)
		}
	}
	return 0
}

func identLen(s string) int {
	n := 0
	for n < len(s) && isIdentChar(s[n]) {
		n++
	}
	return n
}

func (l *lexer) lexSlash() {
	switch {
	case l.isBeg():
		l.beginString(syntax.TokRegexpBegin, 1, litRegexp, '/', true, false)
	case l.peek(1) == '=':
		l.operator(syntax.TokOpAssign, 2, syntax.StateBeg)
	case l.isSpaceArg(l.peek(1)):
		l.beginString(syntax.TokRegexpBegin, 1, litRegexp, '/', true, false)
	default:
		l.operator(syntax.TokOp, 1, l.opState())
	}
}

func (l *lexer) lexPercentSign() {
	switch {
	case l.isBeg():
		l.lexPercentLiteral()
	case l.peek(1) == '=':
		l.operator(syntax.TokOpAssign, 2, syntax.StateBeg)
	case l.isSpaceArg(l.peek(1)) && l.pos+1 < len(l.src),
		l.state.Any(syntax.StateFitem) && l.peek(1) == 's':
		l.lexPercentLiteral()
	default:
		l.operator(syntax.TokOp, 1, l.opState())
	}
}

func (l *lexer) lexLess() {
	if l.peek(1) == '<' &&
		!l.state.Any(syntax.StateDot|syntax.StateClass) &&
		!l.state.Any(syntax.StateEndAny) &&
		(!l.state.Any(syntax.StateArgAny) || l.state.Any(syntax.StateLabeled) || l.spaceSeen) {
		if l.tryHeredoc() {
			return
		}
	}

	state := l.opState()
	if state == syntax.StateBeg && l.state.Any(syntax.StateClass) {
		l.commandStart = true
	}
	switch {
	case l.peek(1) == '=' && l.peek(2) == '>':
		l.operator(syntax.TokOp, 3, state)
	case l.peek(1) == '=':
		l.operator(syntax.TokOp, 2, state)
	case l.peek(1) == '<' && l.peek(2) == '=':
		l.operator(syntax.TokOpAssign, 3, syntax.StateBeg)
	case l.peek(1) == '<':
		l.operator(syntax.TokOp, 2, state)
	default:
		l.operator(syntax.TokOp, 1, state)
	}
}

func (l *lexer) lexEquals() {
	state := l.opState()
	switch {
	case l.peek(1) == '=' && l.peek(2) == '=':
		l.operator(syntax.TokOp, 3, state)
	case l.peek(1) == '=' || l.peek(1) == '~':
		l.operator(syntax.TokOp, 2, state)
	case l.peek(1) == '>':
		l.operator(syntax.TokArrow, 2, state)
	default:
		l.operator(syntax.TokAssign, 1, state)
	}
}

func (l *lexer) lexBang() {
	if l.state.Any(syntax.StateFname|syntax.StateDot) && l.peek(1) == '@' {
		l.operator(syntax.TokOp, 2, syntax.StateArg)
		return
	}
	state := l.opState()
	if l.peek(1) == '=' || l.peek(1) == '~' {
		l.operator(syntax.TokOp, 2, state)
		return
	}
	l.operator(syntax.TokOp, 1, state)
}

func (l *lexer) lexAmpersand() {
	switch {
	case l.peek(1) == '&' && l.peek(2) == '=':
		l.operator(syntax.TokOpAssign, 3, syntax.StateBeg)
	case l.peek(1) == '&':
		l.operator(syntax.TokOp, 2, syntax.StateBeg)
	case l.peek(1) == '=':
		l.operator(syntax.TokOpAssign, 2, syntax.StateBeg)
	case l.peek(1) == '.':
		l.operator(syntax.TokAmpDot, 2, syntax.StateDot)
	default:
		l.operator(syntax.TokOp, 1, l.opState())
	}
}

func (l *lexer) lexPipe() {
	switch {
	case l.peek(1) == '|' && l.peek(2) == '=':
		l.operator(syntax.TokOpAssign, 3, syntax.StateBeg)
	case l.peek(1) == '|' && !l.state.Any(syntax.StateBeg):
		l.operator(syntax.TokOp, 2, syntax.StateBeg)
	case l.peek(1) == '=':
		l.operator(syntax.TokOpAssign, 2, syntax.StateBeg)
	default:
		state := l.opState()
		if state == syntax.StateBeg {
			state |= syntax.StateLabel
		}
		l.operator(syntax.TokOp, 1, state)
	}
}

func (l *lexer) lexPlusMinus(c byte) {
	next := l.peek(1)
	switch {
	case l.state.Any(syntax.StateFname | syntax.StateDot):
		if next == '@' {
			l.operator(syntax.TokOp, 2, syntax.StateArg)
		} else {
			l.operator(syntax.TokOp, 1, syntax.StateArg)
		}
	case next == '=':
		l.operator(syntax.TokOpAssign, 2, syntax.StateBeg)
	case c == '-' && next == '>':
		l.lparBeg = l.parenNest
		l.operator(syntax.TokLambda, 2, syntax.StateEndFn)
	default:
		l.operator(syntax.TokOp, 1, syntax.StateBeg)
	}
}

func (l *lexer) lexDot() {
	switch {
	case l.peek(1) == '.' && l.peek(2) == '.':
		l.operator(syntax.TokDot3, 3, syntax.StateBeg)
	case l.peek(1) == '.':
		l.operator(syntax.TokDot2, 2, syntax.StateBeg)
	case l.decl.defStage == defStageDot:
		l.operator(syntax.TokDot, 1, syntax.StateFname)
	default:
		l.operator(syntax.TokDot, 1, syntax.StateDot)
	}
}

func (l *lexer) lexLBracket() {
	if l.state.Any(syntax.StateFname|syntax.StateDot) && l.peek(1) == ']' {
		if l.peek(2) == '=' {
			l.operator(syntax.TokOp, 3, syntax.StateArg)
		} else {
			l.operator(syntax.TokOp, 2, syntax.StateArg)
		}
		return
	}
	l.parenNest++
	l.operator(syntax.TokLBracket, 1, syntax.StateBeg|syntax.StateLabel)
}

func (l *lexer) lexLBrace() {
	if top := l.top(); top != nil && top.kind == modeEmbexpr {
		top.braces++
	}

	var kind syntax.TokenKind
	switch {
	case l.lparBeg != notFound && l.lparBeg == l.parenNest:
		l.lparBeg = notFound
		kind = syntax.TokLambdaBegin
	case l.state.Any(syntax.StateLabeled):
		kind = syntax.TokLBrace
	case l.state.Any(syntax.StateArgAny | syntax.StateEndAny):
		kind = syntax.TokLBraceBlock
	default:
		kind = syntax.TokLBrace
	}

	l.parenNest++
	if kind == syntax.TokLBrace {
		l.operator(kind, 1, syntax.StateBeg|syntax.StateLabel)
		return
	}
	l.commandStart = true
	l.operator(kind, 1, syntax.StateBeg)
}

func (l *lexer) lexRBrace() {
	if top := l.top(); top != nil && top.kind == modeEmbexpr {
		if top.braces == 0 {
			l.pop()
			l.operator(syntax.TokEmbexprEnd, 1, top.saved)
			return
		}
		top.braces--
	}
	l.parenNest--
	l.operator(syntax.TokRBrace, 1, syntax.StateEnd)
}

func (l *lexer) nameState() syntax.LexState {
	if l.state.Any(syntax.StateFname) {
		return syntax.StateEndFn
	}
	return syntax.StateEnd
}

func (l *lexer) lexInstanceVariable() {
	start := l.pos
	kind, code, what := syntax.TokIvar, syntax.ErrInvalidIvarName, "an instance"
	n := 1
	if l.peek(1) == '@' {
		kind, code, what = syntax.TokCvar, syntax.ErrInvalidCvarName, "a class"
		n = 2
	}
	l.pos += n

	if l.pos < len(l.src) && isIdentStart(l.src[l.pos]) {
		l.pos += identLen(l.src[l.pos:])
		l.state = l.nameState()
		l.emit(kind, start, l.pos)
		return
	}

	var msg string
	if l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.skipDigits(isDigit)
		msg = fmt.Sprintf("'%s' is not allowed as %s variable name", l.src[start:l.pos], what)
	} else {
		msg = fmt.Sprintf("'%s' without identifiers is not allowed as %s variable name", l.src[start:l.pos], what)
	}
	l.state = syntax.StateEnd
	l.emit(kind, start, l.pos)
	l.errorAt(code, start, l.pos, msg)
}

func (l *lexer) lexGlobalVariable() {
	start := l.pos
	n := gvarLen(l.src[l.pos:])
	if n == 0 {
		l.pos++
		l.state = syntax.StateEnd
		l.emit(syntax.TokGvar, start, l.pos)
		l.errorAt(syntax.ErrInvalidGvarName, start, l.pos, "'$' without identifiers is not allowed as a global variable name")
		return
	}

	l.pos += n
	kind := syntax.TokGvar
	if second := l.src[start+1]; strings.IndexByte("&`'+", second) >= 0 || isDigit(second) && second != '0' {
		kind = syntax.TokBackref
	}
	l.state = l.nameState()
	l.emit(kind, start, l.pos)
}

// gvarLen returns the length of the global variable name at the start of s
// (which begins with '$'), or 0 if there is none.
func gvarLen(s string) int {
	if len(s) < 2 {
		return 0
	}
	c := s[1]
	switch {
	case isIdentStart(c):
		return 1 + identLen(s[1:])
	case c == '-':
		if len(s) > 2 && isIdentChar(s[2]) {
			return 3
		}
		return 2
	case isDigit(c) && c != '0':
		n := 1
		for n < len(s) && isDigit(s[n]) {
			n++
		}
		return n
	case strings.IndexByte("~*$?!@/\\;,.=:<>\"0&`'+", c) >= 0:
		return 2
	}
	return 0
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\f' || c == '\v' || c == '\r'
}

func isSpaceOrNewline(c byte) bool {
	return isBlank(c) || c == '\n'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool {
	return isAlpha(c) || isDigit(c)
}

// isIdentStart accepts ASCII letters, '_' and any byte of a multibyte
// character, which Ruby treats as an identifier character.
func isIdentStart(c byte) bool {
	return isAlpha(c) || c == '_' || c >= utf8.RuneSelf
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isConstStart(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}
