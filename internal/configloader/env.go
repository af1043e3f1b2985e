package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/rubynest/pkg/config"
)

// envVarPrefix is the prefix for all rubynest environment variables.
const envVarPrefix = "RUBYNEST_"

// envVar describes one environment override.
type envVar struct {
	description string
	apply       func(cfg *config.Config, value string) error
}

func stringVar(description string, set func(*config.Config, string)) envVar {
	return envVar{description: description, apply: func(cfg *config.Config, value string) error {
		set(cfg, value)
		return nil
	}}
}

func boolVar(description string, set func(*config.Config, bool)) envVar {
	return envVar{description: description, apply: func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", value)
		}
		set(cfg, b)
		return nil
	}}
}

func intVar(description string, set func(*config.Config, int)) envVar {
	return envVar{description: description, apply: func(cfg *config.Config, value string) error {
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		set(cfg, i)
		return nil
	}}
}

func sliceVar(description string, set func(*config.Config, []string)) envVar {
	return envVar{description: description, apply: func(cfg *config.Config, value string) error {
		set(cfg, parseSliceValue(value))
		return nil
	}}
}

// envVars maps environment variable names (without prefix) to overrides.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envVars = map[string]envVar{
	"INDENT_WIDTH": intVar("Spaces per nesting level (1-16)",
		func(c *config.Config, v int) { c.IndentWidth = v }),
	"PROMPT_MODE": stringVar("Console prompt mode name",
		func(c *config.Config, v string) { c.PromptMode = v }),
	"AUTO_INDENT": boolVar("Pre-fill console lines with indentation: true or false",
		func(c *config.Config, v bool) { c.AutoIndent = &v }),
	"MARKDOWN": boolVar("Check Ruby fences in Markdown files: true or false",
		func(c *config.Config, v bool) { c.Markdown = &v }),
	"FORMAT": stringVar("Output format: text, table, json, sarif, or summary",
		func(c *config.Config, v string) { c.Format = config.OutputFormat(v) }),
	"LOG_LEVEL": stringVar("Log level: debug, info, warn, or error",
		func(c *config.Config, v string) { c.LogLevel = config.LogLevel(v) }),
	"JOBS": intVar("Number of parallel workers (0 = auto)",
		func(c *config.Config, v int) { c.Jobs = v }),
	"STRICT": boolVar("Fail on incomplete snippets: true or false",
		func(c *config.Config, v bool) { c.Strict = v }),
	"IGNORE": sliceVar("Comma-separated list of ignore patterns",
		func(c *config.Config, v []string) { c.Ignore = v }),
	"LOCALS": sliceVar("Comma-separated local variables assumed in scope",
		func(c *config.Config, v []string) { c.Locals = v }),
	"COMMANDS": sliceVar("Comma-separated console command names",
		func(c *config.Config, v []string) { c.Commands = v }),
	"FENCE_LABELS": sliceVar("Comma-separated fence info strings treated as Ruby",
		func(c *config.Config, v []string) { c.FenceLabels = v }),
	"EXTENSIONS": sliceVar("Comma-separated file extensions to check",
		func(c *config.Config, v []string) { c.Extensions = v }),
	"BACKUPS_ENABLED": boolVar("Keep a backup when rewriting files: true or false",
		func(c *config.Config, v bool) { c.Backups.Enabled = &v }),
	"BACKUPS_SUFFIX": stringVar("Suffix appended to backup file names",
		func(c *config.Config, v string) { c.Backups.Suffix = v }),
	"NO_BACKUPS": boolVar("Disable backups: true or false",
		func(c *config.Config, v bool) { c.NoBackups = v }),
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with RUBYNEST_ (e.g., RUBYNEST_INDENT_WIDTH).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for suffix, v := range envVars {
		name := envVarPrefix + suffix
		value := os.Getenv(name)
		if value == "" {
			continue
		}
		if err := v.apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ListEnvVars returns all supported environment variables with their
// descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envVars))
	for suffix, v := range envVars {
		vars[envVarPrefix+suffix] = v.description
	}
	return vars
}
