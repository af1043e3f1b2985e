package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rubynest/pkg/syntax"
)

func TestCheckSyntax_ValidWithLocals(t *testing.T) {
	t.Parallel()

	class, err := CheckSyntax("b /c/; a /b#{)", "a")
	require.NoError(t, err)
	assert.Equal(t, Valid, class)
}

func TestCheckSyntax_MoreInputMayHelp(t *testing.T) {
	t.Parallel()

	sources := []string{
		"class A",
		"def f",
		"def f =",
		"1 +",
		"puts(",
		"puts(a,",
		"puts(x:",
		"puts(*",
		"puts(&",
		"[",
		"[1,",
		"{",
		"{x:",
		"{x:,",
		"[a, b ?",
		"[a, b ? c",
		"[a, b ? c :",
		"def f(a,",
		"class a",
		"a,b",
		"a,b,",
		"a,B",
		"a,self",
		"a,$1",
		"p foo?:",
		"x in A|{x:",
	}

	for _, source := range sources {
		t.Run(source, func(t *testing.T) {
			t.Parallel()

			class, err := CheckSyntax(source)
			require.NoError(t, err)
			assert.Contains(t, []SyntaxClass{RecoverableError, OtherError}, class)
		})
	}
}

func TestCheckSyntax_Classes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source string
		want   SyntaxClass
	}{
		{"1 + 1", Valid},
		{"def f; end", Valid},
		{"puts 1 if true", Valid},
		{"\"abc", RecoverableError},
		{"/abc", RecoverableError},
		{"<<A\nbody", RecoverableError},
		{"=begin\ndoc", RecoverableError},
		{"end", UnrecoverableError},
		{"}", UnrecoverableError},
		{"(]", UnrecoverableError},
		{"self = 1", UnrecoverableError},
		{"def f; A = 1", UnrecoverableError},
		{"@; a", UnrecoverableError},
		{".; a+", UnrecoverableError},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			t.Parallel()

			class, err := CheckSyntax(tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, class)
		})
	}
}

func span(start, end int) syntax.Span {
	return syntax.Span{Start: syntax.Position{Offset: start}, End: syntax.Position{Offset: end}}
}

func TestClassifyErrors(t *testing.T) {
	t.Parallel()

	tokens := []syntax.Token{
		{Kind: syntax.TokIdent, Span: span(0, 1)},
		{Kind: syntax.TokSpace, Span: span(1, 2)},
		{Kind: syntax.TokIdent, Span: span(2, 3)},
		{Kind: syntax.TokEOF, Span: span(3, 3)},
	}

	tests := []struct {
		name string
		errs []syntax.SyntaxError
		want SyntaxClass
	}{
		{"none", nil, Valid},
		{"eof", []syntax.SyntaxError{{Code: syntax.ErrUnexpectedEOF, Span: span(3, 3)}}, RecoverableError},
		{"generic", []syntax.SyntaxError{{Code: syntax.ErrParse, Span: span(2, 3)}}, RecoverableError},
		{"early", []syntax.SyntaxError{{Code: syntax.ErrUnexpectedEOF, Span: span(0, 1)}}, UnrecoverableError},
		{"terminal", []syntax.SyntaxError{{Code: syntax.ErrUnexpectedToken, Span: span(2, 3)}}, UnrecoverableError},
		{"terminal wins", []syntax.SyntaxError{
			{Code: syntax.ErrUnterminatedString, Span: span(2, 3)},
			{Code: syntax.ErrInvalidAssignment, Span: span(2, 3)},
		}, UnrecoverableError},
		{"unmapped", []syntax.SyntaxError{{Code: syntax.ErrInvalidNumber, Span: span(2, 3)}}, OtherError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, ClassifyErrors(tt.errs, tokens))
		})
	}
}

func TestCheckTarget(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a\n", CheckTarget("a"))
	assert.Equal(t, "a \n", CheckTarget("a "))
	assert.Equal(t, "a\n", CheckTarget("a\n"))
	assert.Equal(t, "\n", CheckTarget(""))
}

func TestSyntaxClass_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "valid", Valid.String())
	assert.Equal(t, "recoverable", RecoverableError.String())
	assert.Equal(t, "unrecoverable", UnrecoverableError.String())
	assert.Equal(t, "other", OtherError.String())
}
