package classify

import (
	"github.com/yaklabco/rubynest/pkg/syntax"
)

// ShouldContinue reports whether the last line of tokens asks for another
// line even though nothing is left open: it ends in a backslash, or its last
// meaningful token still expects an operand.
func ShouldContinue(tokens []syntax.Token) bool {
	ignoredNewline := false
	for i := len(tokens) - 1; i >= 0; i-- {
		tok := tokens[i]
		switch tok.Kind {
		case syntax.TokLineContinuation:
			return true
		case syntax.TokNewline:
			ignoredNewline = false
			continue
		case syntax.TokIgnoredNewline:
			ignoredNewline = true
			continue
		case syntax.TokEOF, syntax.TokSpace, syntax.TokComment,
			syntax.TokEmbdocBegin, syntax.TokEmbdoc, syntax.TokEmbdocEnd:
			continue
		}
		return continuesAfter(tok, ignoredNewline)
	}
	return false
}

func continuesAfter(tok syntax.Token, ignoredNewline bool) bool {
	switch tok.Kind {
	case syntax.TokRegexpEnd, syntax.TokSemicolon, syntax.TokHeredocEnd, syntax.TokDataEnd,
		syntax.TokDot2, syntax.TokDot3:
		return false
	case syntax.TokKwBegin, syntax.TokKwElse, syntax.TokKwEnsure:
		return false
	}
	if tok.State.Any(syntax.StateBeg | syntax.StateFname | syntax.StateDot) {
		return true
	}
	return ignoredNewline
}
