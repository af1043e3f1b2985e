package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/yaklabco/rubynest/internal/cli"
	"github.com/yaklabco/rubynest/pkg/fsutil"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{
		Version: "test",
		Commit:  "test",
		Date:    "test",
	}
}

func TestRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	if cmd.Use != "rubynest" {
		t.Errorf("expected Use to be 'rubynest', got %q", cmd.Use)
	}

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}

	for _, name := range []string{"check", "nest", "indent", "classify", "console", "modes", "init", "config", "version"} {
		if !subcommands[name] {
			t.Errorf("expected %q subcommand to exist", name)
		}
	}
}

func TestCheckCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	checkCmd, _, err := cmd.Find([]string{"check"})
	if err != nil {
		t.Fatalf("check command not found: %v", err)
	}

	expectedFlags := []string{
		"format",
		"jobs",
		"ignore",
		"include",
		"locals",
		"extensions",
		"strict",
		"no-markdown",
		"no-context",
		"compact",
		"follow-symlinks",
		"sort",
	}

	for _, flagName := range expectedFlags {
		if checkCmd.Flags().Lookup(flagName) == nil {
			t.Errorf("expected flag %q to exist on check command", flagName)
		}
	}
}

func TestIndentCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	indentCmd, _, err := cmd.Find([]string{"indent"})
	if err != nil {
		t.Fatalf("indent command not found: %v", err)
	}

	for _, flagName := range []string{"write", "diff", "check", "no-backups", "jobs", "indent-width", "ignore", "locals"} {
		if indentCmd.Flags().Lookup(flagName) == nil {
			t.Errorf("expected flag %q to exist on indent command", flagName)
		}
	}
	if indentCmd.Flags().ShorthandLookup("w") == nil {
		t.Error("expected -w shorthand for --write")
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, flagName := range []string{"debug", "config", "color"} {
		if cmd.PersistentFlags().Lookup(flagName) == nil {
			t.Errorf("expected global flag %q to exist", flagName)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{
		Version: "1.2.3",
		Commit:  "abc123",
		Date:    "2024-01-01",
	})
	cmd.SetArgs([]string{"version"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(out.String(), "1.2.3") {
		t.Errorf("version output missing version: %q", out.String())
	}
}

func TestCheckCommandAcceptsArbitraryArgs(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	checkCmd, _, err := cmd.Find([]string{"check"})
	if err != nil {
		t.Fatalf("check command not found: %v", err)
	}

	if err := checkCmd.Args(checkCmd, []string{"lib/a.rb", "README.md", "app/"}); err != nil {
		t.Errorf("check command should accept arbitrary args, got error: %v", err)
	}
}

func TestConsoleCommandRejectsArgs(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	consoleCmd, _, err := cmd.Find([]string{"console"})
	if err != nil {
		t.Fatalf("console command not found: %v", err)
	}

	if err := consoleCmd.Args(consoleCmd, []string{"file.rb"}); err == nil {
		t.Error("console command should not accept arguments")
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, cli.ExitSuccess},
		{"issues", cli.ErrIssuesFound, cli.ExitInvalid},
		{"changes", cli.ErrChangesFound, cli.ExitInvalid},
		{"incomplete", cli.ErrIncomplete, cli.ExitIncomplete},
		{"usage", fmt.Errorf("%w: bad flag", cli.ErrUsage), cli.ExitInvalidUsage},
		{"config", errors.Join(cli.ErrConfig, errors.New("bad yaml")), cli.ExitConfigError},
		{"path error", &fs.PathError{Op: "open", Path: "x.rb", Err: fs.ErrNotExist}, cli.ExitIOError},
		{"not found", fmt.Errorf("read: %w", fsutil.ErrNotFound), cli.ExitIOError},
		{"internal", errors.New("boom"), cli.ExitInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := cli.ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	if got := cli.ExitCodeFromResult(nil, true); got != cli.ExitSuccess {
		t.Errorf("nil result: got %d", got)
	}
}

func TestIsReported(t *testing.T) {
	t.Parallel()

	if !cli.IsReported(cli.ErrIssuesFound) || !cli.IsReported(cli.ErrChangesFound) || !cli.IsReported(cli.ErrIncomplete) {
		t.Error("result sentinels should be reported")
	}
	if cli.IsReported(cli.ErrUsage) || cli.IsReported(errors.New("boom")) {
		t.Error("other errors should not be reported")
	}
}

func TestVersionCommandShort(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "1.2.3"})
	cmd.SetArgs([]string{"version", "--short"})

	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version --short failed: %v", err)
	}
	if out.String() != "1.2.3\n" {
		t.Errorf("version --short = %q", out.String())
	}
}
