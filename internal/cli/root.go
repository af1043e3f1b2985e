// Package cli provides the Cobra command structure for rubynest.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/rubynest/internal/logging"
	"github.com/yaklabco/rubynest/internal/ui/pretty"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root rubynest command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "rubynest",
		Short: "Incremental Ruby syntax nesting analyzer",
		Long: `rubynest analyzes Ruby source the way an interactive console reads it.

It tracks which keywords, brackets, strings and heredocs are still open,
decides whether a buffer is complete or needs another line, and computes
the indentation of every line. Use it to check Ruby files and the Ruby
snippets of Markdown documents for unclosed constructs, to reindent code,
or to type Ruby in a console that knows when a statement ends.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", pretty.ColorAuto,
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newCheckCommand(info))
	rootCmd.AddCommand(newNestCommand())
	rootCmd.AddCommand(newIndentCommand())
	rootCmd.AddCommand(newClassifyCommand())
	rootCmd.AddCommand(newConsoleCommand())
	rootCmd.AddCommand(newModesCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	applyHelp(rootCmd)

	return rootCmd
}
