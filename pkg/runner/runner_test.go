package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/rubynest/pkg/config"
	"github.com/yaklabco/rubynest/pkg/console"
	"github.com/yaklabco/rubynest/pkg/runner"
	"github.com/yaklabco/rubynest/pkg/snippet"
)

func newRunner() *runner.Runner {
	return runner.New(console.NewAnalyzer(console.Options{}))
}

func run(t *testing.T, dir string, opts runner.Options) *runner.Result {
	t.Helper()

	opts.WorkingDir = dir
	if opts.Config == nil {
		opts.Config = config.NewConfig()
	}
	result, err := newRunner().Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return result
}

func outcomeFor(t *testing.T, result *runner.Result, name string) runner.FileOutcome {
	t.Helper()

	for _, f := range result.Files {
		if filepath.Base(f.Path) == name {
			return f
		}
	}
	t.Fatalf("no outcome for %s", name)
	return runner.FileOutcome{}
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	result := run(t, t.TempDir(), runner.Options{})
	if result.Stats.FilesDiscovered != 0 || len(result.Files) != 0 {
		t.Errorf("got %+v", result.Stats)
	}
	if result.HasInvalid() || result.HasIncomplete() {
		t.Error("empty run reports issues")
	}
}

func TestRunner_Run_Check(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, map[string]string{
		"ok.rb":   "def f\n  1\nend\n",
		"open.rb": "x = 1\ndef f\n",
		"bad.rb":  "end\n",
		"doc.md":  "# T\n\n```ruby\nx = 1\nif a\n```\n\n```rb\nputs 1\n```\n",
	})

	result := run(t, dir, runner.Options{Snippet: snippet.Options{Markdown: true}})

	stats := result.Stats
	if stats.FilesDiscovered != 4 || stats.FilesProcessed != 4 {
		t.Errorf("files: %+v", stats)
	}
	if stats.SnippetsChecked != 5 {
		t.Errorf("SnippetsChecked = %d, want 5", stats.SnippetsChecked)
	}
	if stats.SnippetsIncomplete != 2 {
		t.Errorf("SnippetsIncomplete = %d, want 2", stats.SnippetsIncomplete)
	}
	if stats.SnippetsInvalid != 1 {
		t.Errorf("SnippetsInvalid = %d, want 1", stats.SnippetsInvalid)
	}
	if stats.FilesWithIssues != 3 {
		t.Errorf("FilesWithIssues = %d, want 3", stats.FilesWithIssues)
	}
	if !result.HasInvalid() || !result.HasIncomplete() {
		t.Error("expected invalid and incomplete snippets")
	}

	if got := outcomeFor(t, result, "ok.rb").Snippets[0].Status; got != runner.StatusOK {
		t.Errorf("ok.rb status = %v", got)
	}

	open := outcomeFor(t, result, "open.rb").Snippets[0]
	if open.Status != runner.StatusIncomplete || len(open.Opens) != 1 {
		t.Fatalf("open.rb: %+v", open)
	}
	if want := (runner.OpenElement{Line: 2, Column: 1, Kind: "keyword", Text: "def", Source: "def f"}); open.Opens[0] != want {
		t.Errorf("open element = %+v, want %+v", open.Opens[0], want)
	}

	bad := outcomeFor(t, result, "bad.rb").Snippets[0]
	if bad.Status != runner.StatusInvalid || len(bad.Problems) == 0 {
		t.Fatalf("bad.rb: %+v", bad)
	}
	if p := bad.Problems[0]; p.Line != 1 || p.Column != 1 || p.Code != "unexpected-end" {
		t.Errorf("problem = %+v", p)
	}

	doc := outcomeFor(t, result, "doc.md")
	if doc.Kind != snippet.KindMarkdown || len(doc.Snippets) != 2 {
		t.Fatalf("doc.md: %+v", doc)
	}
	fence := doc.Snippets[0]
	if fence.Line != 4 || fence.EndLine != 5 || !fence.Fenced || fence.Info != "ruby" {
		t.Errorf("fence = %+v", fence)
	}
	if len(fence.Opens) != 1 || fence.Opens[0].Line != 5 || fence.Opens[0].Source != "if a" {
		t.Errorf("fence opens = %+v", fence.Opens)
	}
	if doc.Snippets[1].Status != runner.StatusOK {
		t.Errorf("second fence status = %v", doc.Snippets[1].Status)
	}
}

func TestRunner_Run_DeterministicOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := map[string]string{}
	for _, name := range []string{"e.rb", "a.rb", "d.rb", "c.rb", "b.rb"} {
		files[name] = "1\n"
	}
	makeTree(t, dir, files)

	result := run(t, dir, runner.Options{Jobs: 3})
	for i, want := range []string{"a.rb", "b.rb", "c.rb", "d.rb", "e.rb"} {
		if got := filepath.Base(result.Files[i].Path); got != want {
			t.Errorf("Files[%d] = %s, want %s", i, got, want)
		}
	}
}

func TestRunner_Run_Indent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, map[string]string{
		"messy.rb": "def f\nif a\n      b\nend\nend\n",
		"tidy.rb":  "def f\n  1\nend\n",
		"bad.rb":   "end\n    end\n",
	})

	result := run(t, dir, runner.Options{Mode: runner.ModeIndent})
	if result.Stats.FilesChanged != 1 || result.Stats.FilesModified != 0 {
		t.Errorf("stats = %+v", result.Stats)
	}

	messy := outcomeFor(t, result, "messy.rb")
	if !messy.Diff.HasChanges() || messy.Diff.Changed != 3 {
		t.Errorf("diff = %+v", messy.Diff)
	}
	if string(messy.Reindented) != "def f\n  if a\n    b\n  end\nend\n" {
		t.Errorf("Reindented = %q", messy.Reindented)
	}
	if !messy.Snippets[0].Reindented {
		t.Error("snippet not marked reindented")
	}
	if outcomeFor(t, result, "bad.rb").Diff != nil {
		t.Error("invalid snippet was reindented")
	}

	content, err := os.ReadFile(filepath.Join(dir, "messy.rb"))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "def f\nif a\n      b\nend\nend\n" {
		t.Errorf("file changed without Write: %q", content)
	}
}

func TestRunner_Run_IndentWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, map[string]string{"messy.rb": "class A\ndef f\nend\nend\n"})

	result := run(t, dir, runner.Options{Mode: runner.ModeIndent, Write: true})
	if result.Stats.FilesModified != 1 {
		t.Fatalf("stats = %+v", result.Stats)
	}

	path := filepath.Join(dir, "messy.rb")
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "class A\n  def f\n  end\nend\n" {
		t.Errorf("content = %q", content)
	}

	outcome := outcomeFor(t, result, "messy.rb")
	if outcome.BackupPath != path+".rubynest.bak" {
		t.Errorf("BackupPath = %q", outcome.BackupPath)
	}
	backup, err := os.ReadFile(outcome.BackupPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(backup) != "class A\ndef f\nend\nend\n" {
		t.Errorf("backup = %q", backup)
	}
}

func TestRunner_Run_IndentWriteNoBackups(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, map[string]string{"messy.rb": "if a\nb\nend\n"})

	cfg := config.NewConfig()
	cfg.NoBackups = true
	result := run(t, dir, runner.Options{Mode: runner.ModeIndent, Write: true, Config: cfg})

	if outcomeFor(t, result, "messy.rb").BackupPath != "" {
		t.Error("backup made with NoBackups")
	}
	if _, err := os.Stat(filepath.Join(dir, "messy.rb.rubynest.bak")); !os.IsNotExist(err) {
		t.Errorf("backup file exists: %v", err)
	}
}

func TestRunner_Run_Locals(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, map[string]string{"a.rb": "a /1#/ do\n2\n"})

	result := run(t, dir, runner.Options{})
	if result.Stats.SnippetsIncomplete != 1 {
		t.Errorf("without locals: %+v", result.Stats)
	}

	withLocals := runner.New(console.NewAnalyzer(console.Options{Locals: []string{"a"}}))
	result, err := withLocals.Run(context.Background(), runner.Options{WorkingDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if result.Stats.SnippetsIncomplete != 0 {
		t.Errorf("with locals: %+v", result.Stats)
	}
}

func TestRunner_Run_FileError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	result, err := newRunner().Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Paths:      []string{dir},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Stats.FilesErrored != 0 {
		t.Errorf("stats = %+v", result.Stats)
	}

	outcome := newRunner().ProcessFile(context.Background(), filepath.Join(dir, "missing.rb"), runner.Options{})
	if outcome.Error == nil {
		t.Error("expected error for missing file")
	}
}

func TestRunner_Run_Cancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, map[string]string{"a.rb": "1\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newRunner().Run(ctx, runner.Options{WorkingDir: dir}); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	off := false
	cfg := config.NewConfig()
	cfg.Markdown = &off
	cfg.Ignore = []string{"vendor/**"}
	cfg.Jobs = 2

	opts := runner.OptionsFromConfig(cfg)
	if opts.Snippet.Markdown || opts.Jobs != 2 || len(opts.ExcludeGlobs) != 1 || opts.Config != cfg {
		t.Errorf("opts = %+v", opts)
	}
}

func TestStatus_String(t *testing.T) {
	t.Parallel()

	for status, want := range map[runner.Status]string{
		runner.StatusOK:         "ok",
		runner.StatusIncomplete: "incomplete",
		runner.StatusInvalid:    "invalid",
		runner.Status(9):        "unknown",
	} {
		if got := status.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", status, got, want)
		}
	}
}
