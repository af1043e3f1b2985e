package configloader

import (
	"maps"

	"github.com/yaklabco/rubynest/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Booleans held as pointers: override wins whenever it is set, so a
//     layer can turn a default off
//   - Prompts: merged by mode name, override's entries win
//   - Slices: override replaces base entirely if override is non-nil
//
// The result shares no slices or maps with its inputs.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override.Clone()
	}
	if override == nil {
		return base.Clone()
	}

	result := *base

	if override.IndentWidth != 0 {
		result.IndentWidth = override.IndentWidth
	}
	if override.PromptMode != "" {
		result.PromptMode = override.PromptMode
	}
	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	// CLI-only switches can only be turned on.
	if override.Strict {
		result.Strict = true
	}
	if override.NoBackups {
		result.NoBackups = true
	}

	if override.AutoIndent != nil {
		result.AutoIndent = override.AutoIndent
	}
	if override.Markdown != nil {
		result.Markdown = override.Markdown
	}
	if override.Backups.Enabled != nil {
		result.Backups.Enabled = override.Backups.Enabled
	}
	if override.Backups.Suffix != "" {
		result.Backups.Suffix = override.Backups.Suffix
	}

	result.Prompts = mergePrompts(base.Prompts, override.Prompts)

	if override.Commands != nil {
		result.Commands = override.Commands
	}
	if override.Locals != nil {
		result.Locals = override.Locals
	}
	if override.FenceLabels != nil {
		result.FenceLabels = override.FenceLabels
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}
	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}

	return result.Clone()
}

func mergePrompts(base, override map[string]config.PromptConfig) map[string]config.PromptConfig {
	result := make(map[string]config.PromptConfig, len(base)+len(override))
	maps.Copy(result, base)
	maps.Copy(result, override)
	return result
}

// MergeAll merges multiple configurations in order.
// Later configurations take precedence over earlier ones.
func MergeAll(configs ...*config.Config) *config.Config {
	var result *config.Config
	for _, cfg := range configs {
		result = merge(result, cfg)
	}
	return result
}
