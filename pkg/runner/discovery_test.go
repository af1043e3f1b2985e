package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/yaklabco/rubynest/pkg/runner"
)

func makeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("setup mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("setup write: %v", err)
		}
	}
}

func relative(t *testing.T, dir string, paths []string) []string {
	t.Helper()

	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			t.Fatalf("rel: %v", err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func discover(t *testing.T, opts runner.Options) []string {
	t.Helper()

	files, err := runner.Discover(context.Background(), opts)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	return relative(t, opts.WorkingDir, files)
}

func TestDiscover_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, map[string]string{
		"Gemfile":             "source 'x'\n",
		"Rakefile":            "task :a\n",
		"lib/a.rb":            "1\n",
		"lib/tasks/b.rake":    "2\n",
		"app.gemspec":         "3\n",
		"config.ru":           "run A\n",
		"README.md":           "# A\n",
		"docs/guide.markdown": "# B\n",
		"main.go":             "package main\n",
		"notes.txt":           "x\n",
		"Makefile":            "all:\n",
	})

	got := discover(t, runner.Options{Paths: []string{"."}, WorkingDir: dir})
	want := []string{
		"Gemfile", "README.md", "Rakefile", "app.gemspec", "config.ru",
		"docs/guide.markdown", "lib/a.rb", "lib/tasks/b.rake",
	}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDiscover_ExplicitFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, map[string]string{"bin/tool": "#!/usr/bin/env ruby\n", "vendor/x.rb": "1\n"})

	got := discover(t, runner.Options{Paths: []string{"bin/tool"}, WorkingDir: dir})
	if !slices.Equal(got, []string{"bin/tool"}) {
		t.Errorf("explicit file without extension: got %v", got)
	}

	got = discover(t, runner.Options{
		Paths:        []string{"vendor/x.rb"},
		WorkingDir:   dir,
		ExcludeGlobs: []string{"vendor/**"},
	})
	if len(got) != 0 {
		t.Errorf("excluded explicit file: got %v", got)
	}
}

func TestDiscover_CustomExtensionsAndNames(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, map[string]string{"a.RB": "", "b.md": "", "c.thor": "", "Gemfile": ""})

	got := discover(t, runner.Options{
		WorkingDir: dir,
		Extensions: []string{".rb", ".thor"},
		FileNames:  []string{},
	})
	if !slices.Equal(got, []string{"a.RB", "c.thor"}) {
		t.Errorf("got %v", got)
	}
}

func TestDiscover_Globs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, map[string]string{
		"lib/a.rb":                 "",
		"lib/deep/b.rb":            "",
		"vendor/bundle/c.rb":       "",
		"spec/fixtures/bad.rb":     "",
		"spec/a_spec.rb":           "",
		"node_modules/x/README.md": "",
	})

	got := discover(t, runner.Options{
		WorkingDir:   dir,
		ExcludeGlobs: []string{"vendor/**", "**/fixtures", "node_modules/**"},
	})
	want := []string{"lib/a.rb", "lib/deep/b.rb", "spec/a_spec.rb"}
	if !slices.Equal(got, want) {
		t.Errorf("exclude: got %v, want %v", got, want)
	}

	got = discover(t, runner.Options{WorkingDir: dir, IncludeGlobs: []string{"lib/**"}})
	want = []string{"lib/a.rb", "lib/deep/b.rb"}
	if !slices.Equal(got, want) {
		t.Errorf("include: got %v, want %v", got, want)
	}

	got = discover(t, runner.Options{WorkingDir: dir, IncludeGlobs: []string{"*_spec.rb"}})
	if !slices.Equal(got, []string{"spec/a_spec.rb"}) {
		t.Errorf("base name include: got %v", got)
	}
}

func TestDiscover_HiddenEntries(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, map[string]string{
		".hidden.rb":     "",
		".bundle/cfg.rb": "",
		"shown.rb":       "",
	})

	got := discover(t, runner.Options{WorkingDir: dir})
	if !slices.Equal(got, []string{"shown.rb"}) {
		t.Errorf("got %v", got)
	}
}

func TestDiscover_Deduplication(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, map[string]string{"lib/a.rb": "", "b.rb": ""})

	got := discover(t, runner.Options{
		WorkingDir: dir,
		Paths:      []string{"lib", ".", "lib/a.rb", filepath.Join(dir, "b.rb")},
	})
	if !slices.Equal(got, []string{"b.rb", "lib/a.rb"}) {
		t.Errorf("got %v", got)
	}
}

func TestDiscover_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if _, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: dir,
		Paths:      []string{"missing"},
	}); err == nil {
		t.Error("expected error for missing path")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := runner.Discover(ctx, runner.Options{WorkingDir: dir}); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestDiscover_DirectorySymlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	external := t.TempDir()
	makeTree(t, dir, map[string]string{"a.rb": ""})
	makeTree(t, external, map[string]string{"b.rb": ""})

	if err := os.Symlink(external, filepath.Join(dir, "linked")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Errorf("without FollowSymlinks: got %v", files)
	}

	files, err = runner.Discover(context.Background(), runner.Options{WorkingDir: dir, FollowSymlinks: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Errorf("with FollowSymlinks: got %v", files)
	}
}
