package lexer

import "github.com/yaklabco/rubynest/pkg/syntax"

// TrimTrailing drops trailing spaces, comments, newlines and the EOF token
// from tokens without re-lexing. The returned slice shares storage with
// tokens.
func TrimTrailing(tokens []syntax.Token) []syntax.Token {
	end := len(tokens)
	for end > 0 {
		switch tokens[end-1].Kind {
		case syntax.TokEOF, syntax.TokSpace, syntax.TokComment, syntax.TokNewline, syntax.TokIgnoredNewline:
			end--
			continue
		}
		break
	}
	return tokens[:end]
}

// LastSignificant returns the index of the last token that is not trivia,
// or -1 if there is none.
func LastSignificant(tokens []syntax.Token) int {
	for i := len(tokens) - 1; i >= 0; i-- {
		if !tokens[i].IsTrivia() {
			return i
		}
	}
	return -1
}
