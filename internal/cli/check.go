package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rubynest/internal/logging"
	"github.com/yaklabco/rubynest/pkg/analysis"
	"github.com/yaklabco/rubynest/pkg/config"
	"github.com/yaklabco/rubynest/pkg/reporter"
	"github.com/yaklabco/rubynest/pkg/runner"
)

type checkFlags struct {
	format     string
	ignore     []string
	include    []string
	locals     []string
	extensions []string
	noMarkdown bool
	noContext  bool
	compact    bool
	symlinks   bool
	sortBy      string
}

func newCheckCommand(info BuildInfo) *cobra.Command {
	var cfg config.Config
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check Ruby files and Markdown snippets for unclosed constructs",
		Long:  checkLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, &cfg, flags, info)
		},
	}

	addCheckFlags(cmd, &cfg, flags)

	return cmd
}

const checkLongDescription = `Check Ruby source for constructs that are never closed and for
syntax errors no further input could fix.

By default, checks .rb, .rake, .gemspec and .ru files, Gemfile-style files,
and the Ruby code blocks of .md and .markdown files in the current directory
and subdirectories. Specify paths to check specific files or directories.

An incomplete snippet (one a console would keep reading) is a warning;
an invalid snippet is an error.

Examples:
  rubynest check                     # Check current directory
  rubynest check lib/                # Check lib directory
  rubynest check README.md           # Check the Ruby fences of one document
  rubynest check --format json       # Output as JSON for CI
  rubynest check --strict            # Fail on incomplete snippets too
  rubynest check --locals foo,bar    # Lex with foo and bar as local variables`

func runCheck(cmd *cobra.Command, args []string, cfg *config.Config, flags *checkFlags, info BuildInfo) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if format == reporter.FormatDiff {
		return fmt.Errorf("%w: the diff format is only available for indent", ErrUsage)
	}
	sortBy := analysis.SortField(flags.sortBy)
	if !sortBy.IsValid() {
		return fmt.Errorf("%w: unknown sort order %q", ErrUsage, flags.sortBy)
	}

	// Only set values that were explicitly provided via CLI flags.
	cfg.Format = config.OutputFormat(format)
	cfg.Ignore = flags.ignore
	cfg.Locals = flags.locals
	cfg.Extensions = flags.extensions
	if flags.noMarkdown {
		off := false
		cfg.Markdown = &off
	}

	finalCfg, workDir, err := loadConfig(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	runOpts := runner.OptionsFromConfig(finalCfg)
	runOpts.Paths = args
	runOpts.WorkingDir = workDir
	runOpts.IncludeGlobs = flags.include
	runOpts.FollowSymlinks = flags.symlinks
	runOpts.Mode = runner.ModeCheck

	logger.Debug("starting check run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New(newAnalyzer(finalCfg)).Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("check run failed: %w", err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      reporter.FromConfig(finalCfg.Format),
		Color:       colorFlag(cmd),
		ShowContext: !flags.noContext,
		ShowSummary: true,
		GroupByFile: true,
		Compact:     flags.compact,
		SortBy:      sortBy,
		WorkingDir:  workDir,
		ToolVersion: info.Version,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	return errorFromExitCode(ExitCodeFromResult(result, finalCfg.Strict))
}

func addCheckFlags(cmd *cobra.Command, cfg *config.Config, flags *checkFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, table, json, sarif, summary")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "only check paths matching these glob patterns")
	cmd.Flags().StringSliceVar(&flags.locals, "locals", nil, "local variables assumed to be in scope")
	cmd.Flags().StringSliceVar(&flags.extensions, "extensions", nil, "file extensions to check (default .rb,.rake,.gemspec,.ru,.md,.markdown)")
	cmd.Flags().BoolVar(&cfg.Strict, "strict", false, "fail on incomplete snippets too")
	cmd.Flags().BoolVar(&flags.noMarkdown, "no-markdown", false, "skip the Ruby code blocks of Markdown files")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().BoolVar(&flags.symlinks, "follow-symlinks", false, "follow directory symlinks")
	cmd.Flags().StringVar(&flags.sortBy, "sort", string(analysis.SortByCount),
		"order of summary tables: count, alpha, severity")
}
