package reindent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rubynest/pkg/console"
	"github.com/yaklabco/rubynest/pkg/snippet"
)

func extract(t *testing.T, path, content string) []snippet.Snippet {
	t.Helper()

	snippets, err := snippet.Extract(context.Background(), path, []byte(content), snippet.Options{Markdown: true})
	require.NoError(t, err)
	return snippets
}

func reindentFile(t *testing.T, path, content string) (string, []Edit) {
	t.Helper()

	analyzer := console.NewAnalyzer(console.Options{})
	var edits []Edit
	for _, snip := range extract(t, path, content) {
		edits = append(edits, Compute(analyzer, &snip)...)
	}
	prepared, err := Prepare(edits, len(content))
	require.NoError(t, err)
	return string(Apply([]byte(content), prepared)), prepared
}

func TestCompute_RubyFile(t *testing.T) {
	t.Parallel()

	got, edits := reindentFile(t, "a.rb", "def f\nif a\n      b\nend\n  \nend\n")
	assert.Equal(t, "def f\n  if a\n    b\n  end\n\nend\n", got)
	require.Len(t, edits, 4)
	assert.Equal(t, Edit{StartOffset: 6, EndOffset: 6, NewText: "  ", Line: 2}, edits[0])
	assert.Equal(t, 5, edits[3].Line)
}

func TestCompute_Unchanged(t *testing.T) {
	t.Parallel()

	got, edits := reindentFile(t, "a.rb", "if a\n  b\nend\n")
	assert.Equal(t, "if a\n  b\nend\n", got)
	assert.Empty(t, edits)
}

func TestCompute_MarkdownFence(t *testing.T) {
	t.Parallel()

	doc := "Intro\n\n```ruby\nclass A\ndef f\nend\nend\n```\n\nOutro\n"
	got, edits := reindentFile(t, "doc.md", doc)
	assert.Equal(t, "Intro\n\n```ruby\nclass A\n  def f\n  end\nend\n```\n\nOutro\n", got)
	require.Len(t, edits, 2)
	assert.Equal(t, 5, edits[0].Line)
}

func TestPrepare(t *testing.T) {
	t.Parallel()

	edits, err := Prepare([]Edit{
		{StartOffset: 8, EndOffset: 9, Line: 2},
		{StartOffset: 0, EndOffset: 2, Line: 1},
	}, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, edits[0].Line)

	_, err = Prepare([]Edit{{StartOffset: -1, EndOffset: 0}}, 10)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Error(), "negative")

	_, err = Prepare([]Edit{{StartOffset: 3, EndOffset: 2}}, 10)
	require.ErrorAs(t, err, &verr)

	_, err = Prepare([]Edit{{StartOffset: 3, EndOffset: 11}}, 10)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "exceeds content length")

	_, err = Prepare([]Edit{{StartOffset: 0, EndOffset: 4, Line: 1}, {StartOffset: 2, EndOffset: 5, Line: 2}}, 10)
	var cerr *ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "overlapping edits on lines 1 and 2", cerr.Error())
}

func TestApply(t *testing.T) {
	t.Parallel()

	content := []byte("a\n    b\nc\n")
	got := Apply(content, []Edit{{StartOffset: 2, EndOffset: 6, NewText: "  "}, {StartOffset: 8, EndOffset: 8, NewText: "\t"}})
	assert.Equal(t, "a\n  b\n\tc\n", string(got))
	assert.Equal(t, content, Apply(content, nil))
}

func TestGenerateDiff(t *testing.T) {
	t.Parallel()

	before := []byte("a\nb\nc\nd\ne\nf\ng\nh\ni\nj\nk\nl\nm\n")
	after := []byte("a\n  b\nc\nd\ne\nf\ng\nh\ni\nj\nk\n  l\nm\n")

	diff := GenerateDiff("/src/x.rb", before, after)
	require.NotNil(t, diff)
	assert.True(t, diff.HasChanges())
	assert.Equal(t, 2, diff.Changed)
	require.Len(t, diff.Hunks, 2)
	assert.Equal(t, 1, diff.Hunks[0].Start)
	assert.Equal(t, 5, diff.Hunks[0].Count)
	assert.Equal(t, 9, diff.Hunks[1].Start)
	assert.Equal(t, 5, diff.Hunks[1].Count)

	want := "--- a/src/x.rb\n+++ b/src/x.rb\n" +
		"@@ -1,5 +1,5 @@\n a\n-b\n+  b\n c\n d\n e\n" +
		"@@ -9,5 +9,5 @@\n i\n j\n k\n-l\n+  l\n m\n"
	assert.Equal(t, want, diff.String())
}

func TestGenerateDiff_MergesCloseChanges(t *testing.T) {
	t.Parallel()

	diff := GenerateDiff("x.rb", []byte("a\nb\nc\nd\n"), []byte(" a\nb\nc\n d\n"))
	require.NotNil(t, diff)
	require.Len(t, diff.Hunks, 1)
	assert.Equal(t, 4, diff.Hunks[0].Count)
}

func TestGenerateDiff_NoChanges(t *testing.T) {
	t.Parallel()

	assert.Nil(t, GenerateDiff("x.rb", []byte("a\n"), []byte("a\n")))
	assert.Nil(t, GenerateDiff("x.rb", nil, nil))
	assert.Nil(t, GenerateDiff("x.rb", []byte("a\n"), []byte("a\nb\n")))

	var diff *Diff
	assert.False(t, diff.HasChanges())
	assert.Empty(t, diff.String())
}

func FuzzApply(f *testing.F) {
	f.Add("def f\nif a\nb\nend\nend\n")
	f.Add("x = <<~A\n  a\nA\n")
	f.Add("=begin\n x\n=end\n")

	analyzer := console.NewAnalyzer(console.Options{})
	f.Fuzz(func(t *testing.T, source string) {
		snippets, err := snippet.Extract(context.Background(), "f.rb", []byte(source), snippet.Options{})
		if err != nil || len(snippets) == 0 {
			return
		}
		edits, err := Prepare(Compute(analyzer, &snippets[0]), len(source))
		if err != nil {
			t.Fatalf("prepare: %v", err)
		}
		_ = GenerateDiff("f.rb", []byte(source), Apply([]byte(source), edits))
	})
}
