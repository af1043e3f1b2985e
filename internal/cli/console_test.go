package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rubynest/internal/logging"
	"github.com/yaklabco/rubynest/internal/ui/pretty"
	"github.com/yaklabco/rubynest/pkg/config"
	"github.com/yaklabco/rubynest/pkg/console"
)

// scriptedReader replays lines and records the prompts and suggestions
// it was shown.
type scriptedReader struct {
	lines       []string
	prompts     []string
	suggestions []string
	history     []string
}

func (r *scriptedReader) PromptWithSuggestion(prompt, suggestion string, _ int) (string, error) {
	r.prompts = append(r.prompts, prompt)
	r.suggestions = append(r.suggestions, suggestion)
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	if line == "^C" {
		return "", errInterrupted
	}
	return line, nil
}

func (r *scriptedReader) AppendHistory(item string) {
	r.history = append(r.history, item)
}

func newTestSession(t *testing.T, modeName string, lines ...string) (*consoleSession, *scriptedReader, *bytes.Buffer) {
	t.Helper()

	mode, ok := console.LookupMode(modeName)
	require.True(t, ok)

	reader := &scriptedReader{lines: lines}
	var out bytes.Buffer
	session := &consoleSession{
		analyzer: console.NewAnalyzer(console.Options{Commands: []string{"show_source"}}),
		prompter: &console.Prompter{
			Mode:        mode,
			Name:        consoleName,
			Main:        "main",
			MainInspect: "main",
			IndentWidth: 2,
		},
		reader:     reader,
		out:        &out,
		styles:     pretty.NewStyles(false),
		logger:     logging.Default(),
		autoIndent: true,
	}
	return session, reader, &out
}

func TestConsoleSession_Echo(t *testing.T) {
	t.Parallel()

	session, reader, out := newTestSession(t, console.ModeSimple,
		"def f", "  1", "end",
		"x = 1",
		"x;",
		"show_source foo",
	)
	require.NoError(t, session.Run())

	assert.Equal(t, "=> expression\n=> assignment\n=> command show_source foo\n", out.String())
	assert.Equal(t, []string{">> ", "?> ", "?> ", ">> ", ">> ", ">> ", ">> "}, reader.prompts)
	assert.Equal(t, []string{"def f\n  1\nend", "x = 1", "x;", "show_source foo"}, reader.history)
}

func TestConsoleSession_Suggestions(t *testing.T) {
	t.Parallel()

	session, reader, _ := newTestSession(t, console.ModeSimple, "class A", "def f", "1")
	require.NoError(t, session.Run())

	assert.Equal(t, []string{"", "  ", "    ", "    "}, reader.suggestions)
}

func TestConsoleSession_NoAutoIndent(t *testing.T) {
	t.Parallel()

	session, reader, _ := newTestSession(t, console.ModeSimple, "if a")
	session.autoIndent = false
	require.NoError(t, session.Run())

	for _, suggestion := range reader.suggestions {
		assert.Empty(t, suggestion)
	}
}

func TestConsoleSession_LearnsLocals(t *testing.T) {
	t.Parallel()

	session, _, _ := newTestSession(t, console.ModeNull, "*a, b = list", "c += 1")
	require.NoError(t, session.Run())

	assert.Equal(t, []string{"a", "b", "c"}, session.analyzer.Locals())
}

func TestConsoleSession_Interrupt(t *testing.T) {
	t.Parallel()

	session, reader, out := newTestSession(t, console.ModeSimple, "def f", "^C", "1")
	require.NoError(t, session.Run())

	assert.Equal(t, "=> expression\n", out.String())
	assert.Equal(t, ">> ", reader.prompts[2], "interrupt discards the open buffer")
}

func TestConsoleSession_SyntaxErrors(t *testing.T) {
	t.Parallel()

	session, _, out := newTestSession(t, console.ModeSimple, "end", "x = [1,")
	require.NoError(t, session.Run())

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.True(t, strings.HasPrefix(lines[0], "SyntaxError: 1:1  "), lines[0])
	assert.Equal(t, `SyntaxError: 1:5  "[" is never closed`, lines[len(lines)-1])
}

func TestConsoleSession_StringPrompt(t *testing.T) {
	t.Parallel()

	session, reader, _ := newTestSession(t, console.ModeSimple, `s = "abc`)
	require.NoError(t, session.Run())

	require.Len(t, reader.prompts, 2)
	assert.Equal(t, `"> `, reader.prompts[1])
	assert.Empty(t, reader.suggestions[1], "no indentation inside a literal")
}

func TestScanReader(t *testing.T) {
	t.Parallel()

	reader := newScanReader(strings.NewReader("a\r\nb\n"))

	line, err := reader.PromptWithSuggestion(">> ", "", -1)
	require.NoError(t, err)
	assert.Equal(t, "a", line)

	line, err = reader.PromptWithSuggestion(">> ", "", -1)
	require.NoError(t, err)
	assert.Equal(t, "b", line)

	_, err = reader.PromptWithSuggestion(">> ", "", -1)
	require.ErrorIs(t, err, io.EOF)
}

func TestPromptMode(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.PromptMode = "mine"
	cfg.Prompts = map[string]config.PromptConfig{"mine": {Normal: "> ", Return: "%s\n"}}

	mode, err := promptMode(cfg)
	require.NoError(t, err)
	assert.Equal(t, "mine", mode.Name)
	assert.Equal(t, "> ", mode.Normal)

	cfg.PromptMode = console.ModeXMP
	mode, err = promptMode(cfg)
	require.NoError(t, err)
	assert.Equal(t, "    ==>%s\n", mode.Return)

	cfg.PromptMode = "missing"
	_, err = promptMode(cfg)
	require.ErrorIs(t, err, ErrConfig)
}

func TestMergeLocals(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b"}, mergeLocals([]string{"a"}, []string{"a", "b"}))
}
