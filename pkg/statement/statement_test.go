package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAssignment(t *testing.T) {
	t.Parallel()

	assignments := []string{
		"foo = bar",
		"@foo = bar",
		"$foo = bar",
		"@@foo = bar",
		"::Foo = bar",
		"a::Foo = bar",
		"Foo = bar",
		"foo.bar = 1",
		"foo[1] = bar",
		"foo += bar",
		"foo -= bar",
		"foo ||= bar",
		"foo &&= bar",
		"foo, bar = 1, 2",
		"foo.bar=(1)",
		"foo; foo = bar",
		"foo; foo = bar; ;\n ;",
		"foo\nfoo = bar",
		"*a, b = list",
		"self.name = 1",
		"foo&.bar = 1",
		"a = b rescue c",
		"a = [1].map { |x| x if x }",
		"h[k[0]] = 1",
	}
	for _, source := range assignments {
		t.Run(source, func(t *testing.T) {
			t.Parallel()

			assert.True(t, IsAssignment(source))
		})
	}

	others := []string{
		"",
		"foo",
		"foo.bar",
		"foo[0]",
		"foo = bar; foo",
		"foo = bar\nfoo",
		"a == b",
		"a = 1 if b",
		"a = 1 and b",
		"foo(a = 1)",
		"foo [1] = 2",
		"[a = 1]",
	}
	for _, source := range others {
		t.Run(source, func(t *testing.T) {
			t.Parallel()

			assert.False(t, IsAssignment(source))
		})
	}
}

func TestIsAssignment_Locals(t *testing.T) {
	t.Parallel()

	assert.False(t, IsAssignment("a /1;x=1#/"))
	assert.True(t, IsAssignment("a /1;x=1#/", "a"))
}

func TestLastStatement(t *testing.T) {
	t.Parallel()

	stmt, ok := LastStatement("a = 1; if b\n  c = 2\nend\n")
	require.True(t, ok)
	assert.Equal(t, "if", stmt.Tokens[0].Text)
	assert.Equal(t, "end", stmt.Tokens[len(stmt.Tokens)-1].Text)
	assert.False(t, stmt.Compound)

	stmt, ok = LastStatement("x = 1 unless y")
	require.True(t, ok)
	assert.True(t, stmt.Compound)

	_, ok = LastStatement(";\n;")
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	t.Parallel()

	commands := []string{"$", "show_source"}

	tests := []struct {
		name     string
		source   string
		locals   []string
		kind     Kind
		cmd      string
		arg      string
		assign   bool
		suppress bool
	}{
		{"empty", "", nil, EmptyInput, "", "", false, true},
		{"newlines", "\n\n", nil, EmptyInput, "", "", false, true},
		{"expression", "1 + 1\n", nil, Expression, "", "", false, false},
		{"assignment", "a = 1\n", nil, Expression, "", "", true, false},
		{"silenced", "a = 1;\n", nil, Expression, "", "", true, true},
		{"silenced with comment", "a = 1; # quiet\n", nil, Expression, "", "", true, true},
		{"command", "show_source Foo#bar\n", nil, Command, "show_source", "Foo#bar", false, false},
		{"bare command", "$\n", nil, Command, "$", "", false, false},
		{"command shadowed by local", "show_source 1\n", []string{"show_source"}, Expression, "", "", false, false},
		{"command name assigned", "show_source = 1\n", nil, Expression, "", "", true, false},
		{"command name op-assigned", "show_source ||= 1\n", nil, Expression, "", "", true, false},
		{"command with comparison", "show_source == 1\n", nil, Command, "show_source", "== 1", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stmt := Parse(tt.source, commands, tt.locals...)
			assert.Equal(t, tt.kind, stmt.Kind)
			assert.Equal(t, tt.source, stmt.Code)
			assert.Equal(t, tt.cmd, stmt.Name)
			assert.Equal(t, tt.arg, stmt.Arg)
			assert.Equal(t, tt.assign, stmt.IsAssignment())
			assert.Equal(t, tt.suppress, stmt.SuppressesEcho())
		})
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "empty", EmptyInput.String())
	assert.Equal(t, "expression", Expression.String())
	assert.Equal(t, "command", Command.String())
	assert.Equal(t, "unknown", Kind(9).String())
}

func FuzzIsAssignment(f *testing.F) {
	for _, seed := range []string{"a = 1", "foo[1] = 2", "a, b = c", "x if y", "<<A\nA\n"} {
		f.Add(seed)
	}

	f.Fuzz(func(_ *testing.T, source string) {
		_ = IsAssignment(source)
		_ = Parse(source, []string{"$"})
	})
}

func TestAssignedLocals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source string
		want   []string
	}{
		{"foo = 1", []string{"foo"}},
		{"foo, bar = 1, 2", []string{"foo", "bar"}},
		{"*a, b = list", []string{"a", "b"}},
		{"x ||= 3", []string{"x"}},
		{"a = 1; b = 2", []string{"b"}},
		{"@foo = 1", nil},
		{"foo.bar = 1", nil},
		{"foo[1] = 2", nil},
		{"Foo = 1", nil},
		{"a = 1 if b", nil},
		{"foo", nil},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, AssignedLocals(tt.source))
		})
	}
}
