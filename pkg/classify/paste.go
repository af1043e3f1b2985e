package classify

import (
	"github.com/yaklabco/rubynest/pkg/lexer"
	"github.com/yaklabco/rubynest/pkg/syntax"
)

// TerminatedAtPreviousLine checks pasted input whose last line starts a new
// statement. When everything before the last line is already a complete
// statement, it returns the last line so the console can evaluate the rest
// first and keep the last line as the start of the next buffer.
func (c *Classifier) TerminatedAtPreviousLine(source string, locals ...string) (string, bool) {
	lines := syntax.BuildLines(source)
	if lines.Count() < 2 {
		return "", false
	}
	info, _ := lines.Info(lines.Count())
	rest := source[info.StartOffset:]

	first, ok := firstToken(lexer.Tokenize(source, locals...).Tokens, info.StartOffset)
	if !ok || first.State.Any(syntax.StateDot) {
		return "", false
	}

	report, err := c.Inspect(source[:info.StartOffset], locals...)
	if err != nil || report.Command || report.Verdict != Terminated {
		return "", false
	}
	return rest, true
}

// firstToken returns the first token at or after offset that is not a
// space, comment or newline.
func firstToken(tokens []syntax.Token, offset int) (syntax.Token, bool) {
	for _, tok := range tokens {
		if tok.Span.Start.Offset < offset {
			continue
		}
		switch tok.Kind {
		case syntax.TokSpace, syntax.TokComment, syntax.TokNewline, syntax.TokIgnoredNewline:
			continue
		case syntax.TokEOF:
			return syntax.Token{}, false
		}
		return tok, true
	}
	return syntax.Token{}, false
}
