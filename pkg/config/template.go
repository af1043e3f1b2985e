package config

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full documents every setting with its default value.
	// If false, generates a minimal commented template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string

	// Modes lists the built-in prompt mode names to mention.
	Modes []string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateJSON()
	}
	if opts.Full {
		return []byte(fullTemplate(opts)), nil
	}
	return []byte(minimalTemplate(opts)), nil
}

func modeList(opts TemplateOptions) string {
	if len(opts.Modes) == 0 {
		return DefaultPromptMode
	}
	return strings.Join(opts.Modes, ", ")
}

func minimalTemplate(opts TemplateOptions) string {
	return DefaultTemplateHeader() + `

# Spaces per nesting level
indent_width: 2

# Console prompt mode: ` + modeList(opts) + `
# prompt_mode: default

# Local variables assumed to be defined (changes how "a /1/" lexes)
# locals:
#   - foo

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"
`
}

func fullTemplate(opts TemplateOptions) string {
	return `# rubynest configuration - Full Template
# See: https://github.com/yaklabco/rubynest
#
# Every setting with its default value. Uncomment and modify as needed.

# Spaces per nesting level (1-16)
indent_width: 2

# Console prompt mode: ` + modeList(opts) + `, or a key of prompts
prompt_mode: default

# Custom prompt modes. Escapes: %N name, %m main, %M main inspected,
# %NNn line number, %l literal type, %NNi nesting level, %% percent
# prompts:
#   mine:
#     normal: "%N(%m):%03n> "
#     string: "%N(%m):%03n%l "
#     continue: "%N(%m):%03n* "
#     return: "=> %s\n"

# Console commands that complete on one line
commands:
  - $
  - "@"

# Local variables assumed to be defined
locals: []

# Pre-fill console lines with their indentation
auto_indent: true

# Check Ruby fences in Markdown files
markdown: true

# Fence info strings treated as Ruby
fence_labels:
  - ruby
  - rb
  - irb

# File extensions to discover (empty means Ruby and Markdown defaults)
extensions: []

# File patterns to ignore (glob patterns)
ignore:
  - "vendor/**"
  - "node_modules/**"

# Log level: debug, info, warn, or error
log_level: warn

# Backups made by "indent --write"
backups:
  enabled: true
  suffix: .rubynest.bak
`
}

func templateJSON() ([]byte, error) {
	cfg := map[string]any{
		"indent_width": DefaultIndentWidth,
		"prompt_mode":  DefaultPromptMode,
		"prompts":      map[string]any{},
		"commands":     []string{"$", "@"},
		"locals":       []string{},
		"auto_indent":  true,
		"markdown":     true,
		"fence_labels": []string{"ruby", "rb", "irb"},
		"extensions":   []string{},
		"ignore":       []string{"vendor/**", "node_modules/**"},
		"log_level":    string(LogLevelWarn),
		"backups": map[string]any{
			"enabled": true,
			"suffix":  ".rubynest.bak",
		},
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// DefaultTemplateHeader returns the header for generated configs.
func DefaultTemplateHeader() string {
	return `# rubynest configuration
# See: https://github.com/yaklabco/rubynest`
}
