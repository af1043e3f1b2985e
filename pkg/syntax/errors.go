package syntax

import (
	"fmt"
	"sort"
)

// ErrorCode classifies a syntax error. Codes are stable; messages are not.
type ErrorCode int

// Error codes.
const (
	ErrParse ErrorCode = iota // generic, least specific
	ErrUnexpectedEOF
	ErrUnterminatedString
	ErrUnterminatedRegexp
	ErrUnterminatedHeredoc
	ErrUnterminatedEmbdoc
	ErrUnexpectedToken
	ErrUnexpectedEnd
	ErrUnmatchedClose
	ErrInvalidIvarName
	ErrInvalidCvarName
	ErrInvalidGvarName
	ErrInvalidCharacter
	ErrInvalidNumber
	ErrInvalidAssignment
	ErrDynamicConstant
)

//nolint:gochecknoglobals // Read-only lookup table.
var codeNames = map[ErrorCode]string{
	ErrParse:               "parse-error",
	ErrUnexpectedEOF:       "unexpected-eof",
	ErrUnterminatedString:  "unterminated-string",
	ErrUnterminatedRegexp:  "unterminated-regexp",
	ErrUnterminatedHeredoc: "unterminated-heredoc",
	ErrUnterminatedEmbdoc:  "unterminated-embdoc",
	ErrUnexpectedToken:     "unexpected-token",
	ErrUnexpectedEnd:       "unexpected-end",
	ErrUnmatchedClose:      "unmatched-close",
	ErrInvalidIvarName:     "invalid-ivar-name",
	ErrInvalidCvarName:     "invalid-cvar-name",
	ErrInvalidGvarName:     "invalid-gvar-name",
	ErrInvalidCharacter:    "invalid-character",
	ErrInvalidNumber:       "invalid-number",
	ErrInvalidAssignment:   "invalid-assignment",
	ErrDynamicConstant:     "dynamic-constant-assignment",
}

// String returns the kebab-case name of the code.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("error-%d", int(c))
}

// SyntaxError is a problem found while lexing or parsing.
type SyntaxError struct {
	Code    ErrorCode
	Message string
	Span    Span
}

// Error implements the error interface.
func (e SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Span.Start, e.Message)
}

// SortErrors orders errors by start offset and collapses errors that start
// at the same offset into the most specific one: any classified error wins
// over a generic ErrParse, and among equals the first reported is kept.
func SortErrors(errs []SyntaxError) []SyntaxError {
	if len(errs) == 0 {
		return nil
	}

	sorted := make([]SyntaxError, len(errs))
	copy(sorted, errs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Span.Start.Offset < sorted[j].Span.Start.Offset
	})

	result := make([]SyntaxError, 0, len(sorted))
	for _, err := range sorted {
		last := len(result) - 1
		if last >= 0 && result[last].Span.Start.Offset == err.Span.Start.Offset {
			if result[last].Code == ErrParse && err.Code != ErrParse {
				result[last] = err
			}
			continue
		}
		result = append(result, err)
	}
	return result
}
