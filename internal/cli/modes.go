package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rubynest/internal/logging"
	"github.com/yaklabco/rubynest/pkg/config"
	"github.com/yaklabco/rubynest/pkg/console"
)

// modeInfo represents a prompt mode in JSON output.
type modeInfo struct {
	Name     string `json:"name"`
	Builtin  bool   `json:"builtin"`
	Normal   string `json:"normal"`
	String   string `json:"string"`
	Continue string `json:"continue"`
	Return   string `json:"return"`
	Example  string `json:"example"`
}

func newModesCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "modes",
		Short: "List console prompt modes",
		Long: `List the built-in console prompt modes and the custom modes of the
configuration, with their templates and a rendered example prompt.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)
			cfg, _, err := loadConfig(ctx, cmd, &config.Config{})
			if err != nil {
				return err
			}

			modes := listModes(cfg)

			if format == formatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(modes); err != nil {
					return fmt.Errorf("encoding modes: %w", err)
				}
				return nil
			}

			logger := logging.NewInteractive(cmd.OutOrStdout())
			logger.Info("prompt modes", logging.FieldMode, cfg.PromptMode)
			for _, mode := range modes {
				name := mode.Name
				if name == cfg.PromptMode {
					name += " *"
				}
				logger.Info(name,
					"normal", mode.Normal,
					"continue", mode.Continue,
					"example", mode.Example,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json")

	return cmd
}

// listModes returns the built-in modes followed by the custom ones, each
// group sorted by name.
func listModes(cfg *config.Config) []modeInfo {
	names := console.ModeNames()
	infos := make([]modeInfo, 0, len(names)+len(cfg.Prompts))
	for _, name := range names {
		if _, custom := cfg.Prompts[name]; custom {
			continue
		}
		mode, _ := console.LookupMode(name)
		infos = append(infos, newModeInfo(mode, true))
	}

	custom := make([]string, 0, len(cfg.Prompts))
	for name := range cfg.Prompts {
		custom = append(custom, name)
	}
	sort.Strings(custom)
	for _, name := range custom {
		p := cfg.Prompts[name]
		infos = append(infos, newModeInfo(console.Mode{
			Name:     name,
			Normal:   p.Normal,
			String:   p.String,
			Continue: p.Continue,
			Return:   p.Return,
		}, false))
	}
	return infos
}

func newModeInfo(mode console.Mode, builtin bool) modeInfo {
	prompter := &console.Prompter{Mode: mode, Name: consoleName, Main: "main", MainInspect: "main"}
	return modeInfo{
		Name:     mode.Name,
		Builtin:  builtin,
		Normal:   mode.Normal,
		String:   mode.String,
		Continue: mode.Continue,
		Return:   mode.Return,
		Example:  prompter.PromptFor(nil, 1),
	}
}
