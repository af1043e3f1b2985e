package snippet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		content string
		want    FileKind
	}{
		{"app/models/user.rb", "", KindRuby},
		{"lib/tasks/db.rake", "", KindRuby},
		{"Gemfile", "", KindRuby},
		{"Rakefile", "", KindRuby},
		{"README.md", "", KindMarkdown},
		{"bin/console", "#!/usr/bin/env ruby\nputs 1\n", KindRuby},
		{"bin/run", "#!/bin/sh\necho hi\n", KindOther},
		{"main.go", "package main\n", KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Classify(tt.path, []byte(tt.content)))
		})
	}
}

func TestExtract_RubyFile(t *testing.T) {
	t.Parallel()

	snippets, err := Extract(context.Background(), "a.rb", []byte("def f\n  1\nend"), Options{})
	require.NoError(t, err)
	require.Len(t, snippets, 1)

	snip := snippets[0]
	assert.Equal(t, "def f\n  1\nend\n", snip.Code)
	assert.False(t, snip.Fenced)
	assert.Equal(t, []Segment{{Offset: 0, Line: 1}, {Offset: 6, Line: 2}, {Offset: 10, Line: 3}}, snip.Segments)
	assert.Equal(t, 1, snip.StartLine())
}

const markdown = "# Title\n" +
	"\n" +
	"```ruby\n" +
	"def f\n" +
	"  1\n" +
	"end\n" +
	"```\n" +
	"\n" +
	"```go\n" +
	"package main\n" +
	"```\n" +
	"\n" +
	"- item\n" +
	"\n" +
	"  ```rb title=x\n" +
	"  if a\n" +
	"  ```\n" +
	"\n" +
	"```\n" +
	"require 'json'\n" +
	"```\n"

func TestExtract_Markdown(t *testing.T) {
	t.Parallel()

	snippets, err := Extract(context.Background(), "doc.md", []byte(markdown), Options{Markdown: true})
	require.NoError(t, err)
	require.Len(t, snippets, 2)

	first := snippets[0]
	assert.Equal(t, "def f\n  1\nend\n", first.Code)
	assert.True(t, first.Fenced)
	assert.Equal(t, "ruby", first.Info)
	assert.Equal(t, 4, first.StartLine())
	assert.Equal(t, 6, first.FileLine(3))
	assert.Equal(t, len("# Title\n\n```ruby\n"), first.FileOffset(1, 0))

	second := snippets[1]
	assert.Equal(t, 1, second.Index)
	assert.Equal(t, "if a\n", second.Code)
	assert.Equal(t, "rb title=x", second.Info)
	assert.Equal(t, 16, second.StartLine())

	line, column := second.FilePosition(1, 3)
	assert.Equal(t, 16, line)
	assert.Equal(t, 5, column)
}

func TestExtract_MarkdownUnlabeled(t *testing.T) {
	t.Parallel()

	snippets, err := Extract(context.Background(), "doc.md", []byte(markdown),
		Options{Markdown: true, DetectUnlabeled: true})
	require.NoError(t, err)
	require.Len(t, snippets, 3)
	assert.Equal(t, "require 'json'\n", snippets[2].Code)
}

func TestExtract_MarkdownDisabled(t *testing.T) {
	t.Parallel()

	snippets, err := Extract(context.Background(), "doc.md", []byte(markdown), Options{})
	require.NoError(t, err)
	assert.Empty(t, snippets)
}

func TestExtract_CustomLabels(t *testing.T) {
	t.Parallel()

	snippets, err := Extract(context.Background(), "doc.md", []byte(markdown),
		Options{Markdown: true, FenceLabels: []string{"rb"}})
	require.NoError(t, err)
	require.Len(t, snippets, 1)
	assert.Equal(t, "if a\n", snippets[0].Code)
}

func TestExtract_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Extract(ctx, "a.rb", []byte("1"), Options{})
	require.Error(t, err)
}

func TestSnippet_FileLine(t *testing.T) {
	t.Parallel()

	snip := Snippet{Segments: []Segment{{Offset: 10, Line: 3}, {Offset: 15, Line: 4}}}
	assert.Equal(t, 3, snip.FileLine(1))
	assert.Equal(t, 4, snip.FileLine(2))
	assert.Equal(t, 5, snip.FileLine(3))
	assert.Equal(t, 3, snip.FileLine(0))
	assert.Equal(t, 17, snip.FileOffset(2, 2))
	assert.Equal(t, -1, snip.FileOffset(3, 0))

	line, column := snip.FilePosition(5, 1)
	assert.Equal(t, 6, line)
	assert.Equal(t, 1, column)
}

func TestLooksLikeRuby(t *testing.T) {
	t.Parallel()

	assert.True(t, LooksLikeRuby([]byte("#!/usr/bin/env ruby\nputs 1\n")))
	assert.True(t, LooksLikeRuby([]byte("def greet(name)\n  puts name\nend\n")))
	assert.True(t, LooksLikeRuby([]byte("[1, 2].each do |x|\n  p x\nend\n")))
	assert.False(t, LooksLikeRuby([]byte("#!/bin/bash\necho hi\n")))
	assert.False(t, LooksLikeRuby([]byte("   \n")))
}

func TestFileKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ruby", KindRuby.String())
	assert.Equal(t, "markdown", KindMarkdown.String())
	assert.Equal(t, "other", KindOther.String())
}
