package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenKindPredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, TokKwDef.IsKeyword())
	assert.True(t, TokKwIfMod.IsKeyword())
	assert.False(t, TokIdent.IsKeyword())

	assert.True(t, TokKwRescueMod.IsModifier())
	assert.False(t, TokKwIf.IsModifier())

	for _, kind := range []TokenKind{TokSpace, TokComment, TokNewline, TokEmbdoc, TokEOF} {
		assert.True(t, kind.IsTrivia(), kind.String())
	}
	assert.False(t, TokSemicolon.IsTrivia())
	assert.Equal(t, "HeredocBegin", TokHeredocBegin.String())
}

func TestValidateTokens(t *testing.T) {
	t.Parallel()

	tok := func(start, end int) Token {
		return Token{
			Kind: TokIdent,
			Span: Span{Start: Position{Line: 1, Offset: start}, End: Position{Line: 1, Offset: end}},
		}
	}

	assert.True(t, ValidateTokens(nil))
	assert.True(t, ValidateTokens([]Token{tok(0, 1), tok(1, 3), tok(5, 6)}))
	assert.False(t, ValidateTokens([]Token{tok(0, 2), tok(1, 3)}))
	assert.False(t, ValidateTokens([]Token{tok(2, 3), tok(0, 1)}))
	assert.False(t, ValidateTokens([]Token{tok(3, 1)}))
}

func TestLexState(t *testing.T) {
	t.Parallel()

	s := StateBeg | StateLabel
	assert.True(t, s.Any(StateBeg|StateEnd))
	assert.False(t, s.All(StateBeg|StateEnd))
	assert.True(t, s.All(StateBeg|StateLabel))
	assert.True(t, s.ExpectsOperand())
	assert.True(t, StateDot.ExpectsOperand())
	assert.False(t, StateEnd.ExpectsOperand())

	assert.Equal(t, "BEG|LABEL", s.String())
	assert.Equal(t, "NONE", StateNone.String())
}
