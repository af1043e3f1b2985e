package classify

import (
	"strings"

	"github.com/yaklabco/rubynest/pkg/lexer"
	"github.com/yaklabco/rubynest/pkg/nesting"
	"github.com/yaklabco/rubynest/pkg/syntax"
)

// SyntaxClass is the outcome of a syntax check.
type SyntaxClass int

// Syntax classes.
const (
	// Valid code has no syntax errors.
	Valid SyntaxClass = iota

	// RecoverableError means more input may complete the code.
	RecoverableError

	// UnrecoverableError means no further input can fix the code.
	UnrecoverableError

	// OtherError is an error neither kind of, left to the nesting state.
	OtherError
)

//nolint:gochecknoglobals // Read-only lookup table.
var classNames = map[SyntaxClass]string{
	Valid:              "valid",
	RecoverableError:   "recoverable",
	UnrecoverableError: "unrecoverable",
	OtherError:         "other",
}

// String returns the name of the class.
func (c SyntaxClass) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return "unknown"
}

// recovery is what appending input can do about an error.
type recovery int

const (
	recoveryUnknown recovery = iota
	recoveryPossible
	recoveryNever
)

// recoverability maps an error code to whether more input may fix it.
// It is the only place that knows about individual error codes.
func recoverability(code syntax.ErrorCode) recovery {
	switch code {
	case syntax.ErrUnexpectedEOF, syntax.ErrUnterminatedString, syntax.ErrUnterminatedRegexp,
		syntax.ErrUnterminatedHeredoc, syntax.ErrUnterminatedEmbdoc, syntax.ErrParse:
		return recoveryPossible
	case syntax.ErrUnexpectedToken, syntax.ErrUnexpectedEnd, syntax.ErrUnmatchedClose,
		syntax.ErrInvalidIvarName, syntax.ErrInvalidCvarName, syntax.ErrInvalidGvarName,
		syntax.ErrInvalidCharacter, syntax.ErrInvalidAssignment, syntax.ErrDynamicConstant:
		return recoveryNever
	case syntax.ErrInvalidNumber:
		return recoveryUnknown
	}
	return recoveryUnknown
}

// CheckTarget returns source terminated by a newline, the form console
// buffers are checked in. Trailing spaces are kept: "% a " is a complete
// string literal while "% a" is not.
func CheckTarget(source string) string {
	if strings.HasSuffix(source, "\n") {
		return source
	}
	return source + "\n"
}

// CheckSyntax classifies the syntax errors of source.
func CheckSyntax(source string, locals ...string) (SyntaxClass, error) {
	res, err := nesting.Analyze(CheckTarget(source), lexer.Options{Locals: locals})
	if err != nil {
		return OtherError, err
	}
	return ClassifyErrors(res.Errors, res.Lex.Tokens), nil
}

// ClassifyErrors classifies errs, found in the buffer that produced
// tokens. An error that ends before the last meaningful token starts
// cannot be fixed by appending input, whatever its code.
func ClassifyErrors(errs []syntax.SyntaxError, tokens []syntax.Token) SyntaxClass {
	if len(errs) == 0 {
		return Valid
	}

	lastStart := 0
	if idx := lexer.LastSignificant(tokens); idx >= 0 {
		lastStart = tokens[idx].Span.Start.Offset
	}

	recoverable := false
	for _, e := range errs {
		if e.Span.End.Offset < lastStart {
			return UnrecoverableError
		}
		switch recoverability(e.Code) {
		case recoveryNever:
			return UnrecoverableError
		case recoveryPossible:
			recoverable = true
		case recoveryUnknown:
		}
	}
	if recoverable {
		return RecoverableError
	}
	return OtherError
}
