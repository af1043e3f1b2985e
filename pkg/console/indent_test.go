package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type indentCase struct {
	name    string
	lines   []string
	newline bool
	want    int
	ok      bool
}

func runIndentCases(t *testing.T, tests []indentCase) {
	t.Helper()

	a := NewAnalyzer(Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := a.LineIndent(tt.lines, len(tt.lines)-1, tt.newline)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLineIndent_Blocks(t *testing.T) {
	t.Parallel()

	runIndentCases(t, []indentCase{
		{"top level", []string{"puts 1"}, false, 0, true},
		{"inside if", []string{"if a", ""}, true, 2, true},
		{"end of if", []string{"if a", "  b", "end"}, false, 0, true},
		{"nested", []string{"def f", "  if a", ""}, true, 4, true},
		{"else", []string{"if a", "  b", "else"}, false, 0, true},
		{"chained block", []string{"foo do", "end.map do"}, false, 0, true},
		{"inside chained block", []string{"foo do", "end.map do", ""}, true, 2, true},
		{"bracket", []string{"[", ""}, true, 2, true},
		{"hash in call", []string{"foo({", ""}, true, 4, true},
		{"closing bracket", []string{"foo(", "  1", ")"}, false, 0, true},
		{"modifier", []string{"a if b", ""}, true, 0, true},
		{"percent literal", []string{"%w(", ""}, true, 2, true},
	})
}

func TestLineIndent_PastedIndentation(t *testing.T) {
	t.Parallel()

	runIndentCases(t, []indentCase{
		{"extra indent kept", []string{"  if a", "b"}, false, 4, true},
		{"deeper", []string{"  if a", "      if b", "c"}, false, 8, true},
		{"closing", []string{"  if a", "  end"}, false, 2, true},
	})
}

func TestLineIndent_Strings(t *testing.T) {
	t.Parallel()

	runIndentCases(t, []indentCase{
		{"first line inside string", []string{"x = \"abc", ""}, true, 0, true},
		{"first line inside string in block", []string{"if a", "  x = 'abc", ""}, true, 2, true},
		{"string content", []string{"x = \"abc", "  def"}, false, 0, false},
		{"later string line", []string{"x = \"abc", "def", ""}, true, 0, false},
		{"regexp", []string{"x = /a", "  b"}, false, 0, false},
	})
}

func TestLineIndent_Heredocs(t *testing.T) {
	t.Parallel()

	runIndentCases(t, []indentCase{
		{"squiggly first line", []string{"x = <<~A", ""}, true, 2, true},
		{"dash first line", []string{"if a", "  x = <<-A", ""}, true, 2, true},
		{"plain first line", []string{"x = <<A", ""}, true, 0, true},
		{"squiggly extra spaces", []string{"x = <<~A", "      text"}, false, 6, true},
		{"squiggly fewer spaces", []string{"x = <<~A", "text"}, false, 2, true},
		{"plain body", []string{"x = <<A", "  text"}, false, 0, false},
		{"squiggly terminator", []string{"x = <<~A", "  text", "A"}, false, 0, true},
		{"plain terminator", []string{"if a", "  x = <<A", "text", "A"}, false, 0, true},
		{"squiggly terminator in block", []string{"if a", "  x = <<~A", "    text", "  A"}, false, 2, true},
	})
}

func TestLineIndent_Embdoc(t *testing.T) {
	t.Parallel()

	runIndentCases(t, []indentCase{
		{"begin line", []string{"=begin"}, false, 0, true},
		{"content", []string{"=begin", "  notes"}, false, 0, false},
		{"end line", []string{"=begin", "notes", "=end"}, false, 0, true},
	})
}

func TestLineIndent_OutOfRange(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(Options{})
	_, ok := a.LineIndent([]string{"a"}, 3, false)
	assert.False(t, ok)
	_, ok = a.LineIndent(nil, 0, true)
	assert.False(t, ok)
}

func TestLineIndent_Width(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(Options{IndentWidth: 4})
	got, ok := a.LineIndent([]string{"class A", "def f", ""}, 2, true)
	assert.True(t, ok)
	assert.Equal(t, 8, got)
}

func TestLineIndent_Locals(t *testing.T) {
	t.Parallel()

	lines := []string{"a /1#/ do", ""}
	got, ok := NewAnalyzer(Options{}).LineIndent(lines, 1, true)
	assert.True(t, ok)
	assert.Equal(t, 2, got)

	got, ok = NewAnalyzer(Options{Locals: []string{"a"}}).LineIndent(lines, 1, true)
	assert.True(t, ok)
	assert.Equal(t, 0, got)
}

func TestReindent(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(Options{})

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			"flat block",
			"def f\nif a\nb\nend\nend\n",
			"def f\n  if a\n    b\n  end\nend\n",
		},
		{
			"over-indented",
			"      class A\n    def f\n  end\nend",
			"class A\n  def f\n  end\nend",
		},
		{
			"blank lines emptied",
			"if a\n   \nb\nend\n",
			"if a\n\n  b\nend\n",
		},
		{
			"string body kept",
			"if a\nx = \"\n   keep\n\"\nend\n",
			"if a\n  x = \"\n   keep\n\"\nend\n",
		},
		{
			"embdoc kept",
			"if a\n=begin\n   doc\n=end\nend\n",
			"if a\n=begin\n   doc\n=end\nend\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, a.Reindent(tt.source))
		})
	}
}

func TestReindent_Idempotent(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(Options{})
	source := "module M\n  def f(x)\n    [1, 2].map do |y|\n      y + x\n    end\n  end\nend\n"
	assert.Equal(t, source, a.Reindent(source))
	assert.Equal(t, source, a.Reindent(a.Reindent(source)))
}
