package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rubynest/internal/logging"
	"github.com/yaklabco/rubynest/pkg/config"
	"github.com/yaklabco/rubynest/pkg/reindent"
	"github.com/yaklabco/rubynest/pkg/reporter"
	"github.com/yaklabco/rubynest/pkg/runner"
)

type indentFlags struct {
	write  bool
	diff   bool
	check  bool
	ignore []string
	locals []string
}

func newIndentCommand() *cobra.Command {
	var cfg config.Config
	flags := &indentFlags{}

	cmd := &cobra.Command{
		Use:   "indent [file|-|paths...]",
		Short: "Reindent Ruby code the way a console formats a paste",
		Long: `Recompute the leading whitespace of every line from its nesting.
Lines inside strings, heredocs and embedded documents keep their text.
Snippets with syntax errors are left alone.

With a single file or standard input, the reindented code is printed.
Use --diff to print a unified diff instead, or --write to rewrite files
in place (a backup is kept unless --no-backups is given).

Examples:
  rubynest indent lib/a.rb           # Print lib/a.rb reindented
  pbpaste | rubynest indent          # Reindent a paste
  rubynest indent --diff lib/        # Show what would change
  rubynest indent --write lib/       # Rewrite files in place
  rubynest indent --check .          # Exit 1 if any file would change`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndent(cmd, args, &cfg, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "rewrite files in place")
	cmd.Flags().BoolVarP(&flags.diff, "diff", "d", false, "print a unified diff instead of the reindented code")
	cmd.Flags().BoolVar(&flags.check, "check", false, "exit with status 1 if any file would change")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "disable backup creation when rewriting")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().IntVar(&cfg.IndentWidth, "indent-width", 0, "spaces per nesting level (default from config)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.locals, "locals", nil, "local variables assumed to be in scope")

	return cmd
}

func runIndent(cmd *cobra.Command, args []string, cfg *config.Config, flags *indentFlags) error {
	ctx := commandContext(cmd)

	cfg.Ignore = flags.ignore
	cfg.Locals = flags.locals
	finalCfg, workDir, err := loadConfig(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	analyzer := newAnalyzer(finalCfg)

	if len(args) == 0 || (len(args) == 1 && args[0] == stdinName) {
		if flags.write {
			return fmt.Errorf("%w: cannot --write standard input", ErrUsage)
		}
		name, content, err := readInput(ctx, cmd, args)
		if err != nil {
			return err
		}
		modified := []byte(analyzer.Reindent(string(content)))
		outcome := runner.FileOutcome{Path: name, Diff: reindent.GenerateDiff(name, content, modified)}
		if outcome.Diff.HasChanges() {
			outcome.Reindented = modified
		}
		return finishIndent(cmd, flags, workDir, singleResult(outcome), content)
	}

	runOpts := runner.OptionsFromConfig(finalCfg)
	runOpts.Paths = args
	runOpts.WorkingDir = workDir
	runOpts.Mode = runner.ModeIndent
	runOpts.Write = flags.write

	logging.FromContext(ctx).Debug("starting indent run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWrite, runOpts.Write,
	)

	result, err := runner.New(analyzer).Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("indent run failed: %w", err)
	}

	var original []byte
	if !flags.write && len(args) == 1 && len(result.Files) == 1 && isRegularFile(args[0]) {
		file := result.Files[0]
		if file.Error != nil {
			return file.Error
		}
		original, err = os.ReadFile(file.Path)
		if err != nil {
			return fmt.Errorf("read %s: %w", file.Path, err)
		}
	}
	return finishIndent(cmd, flags, workDir, result, original)
}

// finishIndent writes the outcome of an indent run. original is the input
// when a single file or standard input was reindented, nil otherwise.
func finishIndent(cmd *cobra.Command, flags *indentFlags, workDir string, result *runner.Result, original []byte) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	switch {
	case flags.write:
		for _, file := range result.Files {
			switch {
			case file.Error != nil:
				logger.Error("reindent failed", logging.FieldPath, file.Path, logging.FieldError, file.Error)
			case file.Written:
				logger.Info("reindented", logging.FieldPath, file.Path, logging.FieldOutput, file.BackupPath)
			}
		}
		logger.Info("indent finished",
			logging.FieldFilesProcessed, result.Stats.FilesProcessed,
			logging.FieldFilesModified, result.Stats.FilesModified)

	case flags.diff || flags.check || original == nil:
		rep, err := reporter.New(reporter.Options{
			Writer:      cmd.OutOrStdout(),
			ErrorWriter: cmd.ErrOrStderr(),
			Format:      reporter.FormatDiff,
			Color:       colorFlag(cmd),
			ShowSummary: true,
			WorkingDir:  workDir,
		})
		if err != nil {
			return fmt.Errorf("create reporter: %w", err)
		}
		if _, err := rep.Report(ctx, result); err != nil {
			return fmt.Errorf("report results: %w", err)
		}

	default:
		content := original
		if reindented := result.Files[0].Reindented; reindented != nil {
			content = reindented
		}
		if _, err := cmd.OutOrStdout().Write(content); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}

	if flags.check && result.HasChanges() {
		return ErrChangesFound
	}
	if result.Stats.FilesErrored > 0 {
		return fmt.Errorf("%d file(s) could not be reindented", result.Stats.FilesErrored)
	}
	return nil
}

// singleResult wraps the outcome of reindenting standard input.
func singleResult(outcome runner.FileOutcome) *runner.Result {
	result := &runner.Result{Files: []runner.FileOutcome{outcome}}
	result.Stats.FilesDiscovered = 1
	result.Stats.FilesProcessed = 1
	if outcome.Diff.HasChanges() {
		result.Stats.FilesChanged = 1
	}
	return result
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
