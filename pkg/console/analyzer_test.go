package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rubynest/pkg/classify"
)

func TestAnalyze(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(Options{})

	tests := []struct {
		name       string
		source     string
		cont       bool
		opens      int
		lineCont   bool
		class      classify.SyntaxClass
		snapshotAt int
	}{
		{"complete", "1 + 1\n", false, 0, false, classify.Valid, 1},
		{"open if", "if true\n", true, 1, false, classify.RecoverableError, 1},
		{"open array", "[\n", true, 1, false, classify.RecoverableError, 1},
		{"unterminated string", "'abc\n", true, 1, false, classify.RecoverableError, 1},
		{"trailing backslash", "a\\\n", true, 0, true, classify.Valid, 1},
		{"stray end", "end\n", false, 0, false, classify.UnrecoverableError, 1},
		{"heredoc", "<<A\ntext\nA\n", false, 0, false, classify.Valid, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := a.Analyze(tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.cont, res.Continue)
			assert.Equal(t, !tt.cont, res.Terminated)
			assert.Len(t, res.Opens, tt.opens)
			assert.Equal(t, tt.lineCont, res.LineContinues)
			assert.Equal(t, tt.class, res.Class)
			assert.GreaterOrEqual(t, len(res.Snapshots), tt.snapshotAt)
			assert.NotEmpty(t, res.Tokens)
		})
	}
}

func TestAnalyze_Command(t *testing.T) {
	t.Parallel()

	res, err := NewAnalyzer(Options{}).Analyze("$ foo(")
	require.NoError(t, err)
	assert.True(t, res.Command)
	assert.True(t, res.Terminated)
	assert.Empty(t, res.Opens)

	res, err = NewAnalyzer(Options{Commands: []string{}}).Analyze("$ foo(")
	require.NoError(t, err)
	assert.False(t, res.Command)
}

func TestAnalyze_Locals(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(Options{})
	res, err := a.Analyze("a /1#/ do\n2\n")
	require.NoError(t, err)
	assert.True(t, res.Continue)

	res, err = a.WithLocals("a").Analyze("a /1#/ do\n2\n")
	require.NoError(t, err)
	assert.True(t, res.Terminated)
	assert.Empty(t, a.Locals())
}

func TestAnalyze_Levels(t *testing.T) {
	t.Parallel()

	res, err := NewAnalyzer(Options{}).Analyze("def f\n  x = [\n    \"a\n")
	require.NoError(t, err)
	assert.Equal(t, 2, res.NestingLevel())
	assert.Equal(t, 2, res.IndentLevel())
	assert.Equal(t, `"`, res.LiteralType())
}

func TestSplitPaste(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(Options{})
	rest, ok := a.SplitPaste("a = 1\nb = 2\n")
	assert.True(t, ok)
	assert.Equal(t, "b = 2\n", rest)

	_, ok = a.SplitPaste("foo\n.bar\n")
	assert.False(t, ok)
}

func TestNewAnalyzer_Defaults(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(Options{})
	assert.Equal(t, DefaultIndentWidth, a.IndentWidth())
	assert.Equal(t, classify.DefaultCommands, a.Commands())
}
