package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rubynest/internal/configloader"
	"github.com/yaklabco/rubynest/internal/logging"
	"github.com/yaklabco/rubynest/internal/ui/pretty"
	"github.com/yaklabco/rubynest/pkg/config"
	"github.com/yaklabco/rubynest/pkg/console"
	"github.com/yaklabco/rubynest/pkg/fsutil"
)

// stdinName is the argument and display name for standard input.
const stdinName = "-"

// commandContext returns the command's context carrying the default logger.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithLogger(ctx, logging.Default())
}

// loadConfig resolves the configuration with cliCfg as the highest layer
// and applies its log level unless --debug is set.
func loadConfig(ctx context.Context, cmd *cobra.Command, cliCfg *config.Config) (*config.Config, string, error) {
	result, workDir, err := loadConfigResult(ctx, cmd, cliCfg)
	if err != nil {
		return nil, "", err
	}
	return result.Config, workDir, nil
}

// loadConfigResult is loadConfig returning where the configuration came
// from as well.
func loadConfigResult(ctx context.Context, cmd *cobra.Command, cliCfg *config.Config) (*configloader.LoadResult, string, error) {
	logger := logging.FromContext(ctx)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, "", errors.Join(ErrConfig, err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	cfg := loadResult.Config
	if debug, _ := cmd.Flags().GetBool("debug"); !debug && cfg.LogLevel != "" {
		logging.SetLevel(string(cfg.LogLevel))
	}

	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}
	logger.Debug("configuration loaded",
		logging.FieldIndentWidth, cfg.IndentWidth,
		logging.FieldMode, cfg.PromptMode,
		logging.FieldLocals, cfg.Locals,
		logging.FieldJobs, cfg.Jobs,
	)

	return loadResult, workDir, nil
}

// newAnalyzer builds the analyzer the configuration describes.
func newAnalyzer(cfg *config.Config) *console.Analyzer {
	return console.NewAnalyzer(console.Options{
		IndentWidth: cfg.IndentWidth,
		Commands:    cfg.Commands,
		Locals:      cfg.Locals,
	})
}

// readInput reads the named file, or standard input for "-" or no name.
// It returns the display name with the content.
func readInput(ctx context.Context, cmd *cobra.Command, args []string) (string, []byte, error) {
	if len(args) == 0 || args[0] == stdinName {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", nil, fmt.Errorf("read standard input: %w", err)
		}
		return "<stdin>", content, nil
	}

	src, err := fsutil.Read(ctx, args[0])
	if err != nil {
		return "", nil, err
	}
	return src.Path, src.Content, nil
}

// colorFlag returns the persistent --color value.
func colorFlag(cmd *cobra.Command) string {
	color, err := cmd.Flags().GetString("color")
	if err != nil {
		return pretty.ColorAuto
	}
	return color
}
