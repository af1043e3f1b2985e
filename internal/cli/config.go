package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rubynest/pkg/config"
)

func newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration rubynest runs with: the defaults merged with the
system, user, project and explicit configuration files and the RUBYNEST_*
environment variables. The header lists the files that were loaded.

Examples:
  rubynest config
  rubynest config --config ci.yml
  RUBYNEST_INDENT_WIDTH=4 rubynest config`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, _, err := loadConfigResult(commandContext(cmd), cmd, &config.Config{})
			if err != nil {
				return err
			}

			data, err := result.Config.ToYAMLWithHeader(configHeader(result.LoadedFrom))
			if err != nil {
				return fmt.Errorf("render configuration: %w", err)
			}
			if _, err := cmd.OutOrStdout().Write(data); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			return nil
		},
	}
}

func configHeader(loadedFrom []string) string {
	if len(loadedFrom) == 0 {
		return "# Effective rubynest configuration (defaults only)\n"
	}

	var sb strings.Builder
	sb.WriteString("# Effective rubynest configuration, loaded from:\n")
	for _, path := range loadedFrom {
		sb.WriteString("#   " + path + "\n")
	}
	return sb.String()
}
