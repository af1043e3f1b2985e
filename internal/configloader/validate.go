package configloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/rubynest/pkg/config"
	"github.com/yaklabco/rubynest/pkg/console"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "backups.suffix").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	})
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.IndentWidth < 1 || cfg.IndentWidth > config.MaxIndentWidth {
		result.fail("indent_width", cfg.IndentWidth,
			"indent width %d out of range; must be between 1 and %d", cfg.IndentWidth, config.MaxIndentWidth)
	}

	validatePrompts(cfg, result)

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.fail("format", cfg.Format,
			"invalid format %q; must be one of: %s", cfg.Format, joinFormats())
	}

	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		result.fail("log_level", cfg.LogLevel,
			"invalid log level %q; must be one of: debug, info, warn, error", cfg.LogLevel)
	}

	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	validateIgnorePatterns(cfg, result)

	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			result.fail(fmt.Sprintf("extensions[%d]", i), ext,
				"invalid extension %q; must start with a dot", ext)
		}
	}

	for i, label := range cfg.FenceLabels {
		if strings.TrimSpace(label) == "" {
			result.warn(fmt.Sprintf("fence_labels[%d]", i), label, "empty fence label is ignored")
		}
	}

	for i, name := range cfg.Commands {
		if strings.TrimSpace(name) == "" || strings.ContainsAny(name, " \t") {
			result.warn(fmt.Sprintf("commands[%d]", i), name,
				"command %q is not a single word; it will never match", name)
		}
	}

	if strings.ContainsAny(cfg.Backups.Suffix, `/\`) {
		result.fail("backups.suffix", cfg.Backups.Suffix,
			"backup suffix %q must not contain a path separator", cfg.Backups.Suffix)
	}

	return result
}

// validatePrompts checks that the selected prompt mode exists and that
// custom modes are usable.
func validatePrompts(cfg *config.Config, result *ValidationResult) {
	for name, prompt := range cfg.Prompts {
		if _, builtin := console.LookupMode(name); builtin {
			result.warn("prompts."+name, name, "custom prompt mode %q overrides the built-in mode", name)
		}
		if prompt.Normal == "" {
			result.warn("prompts."+name+".normal", "", "prompt mode %q has an empty normal prompt", name)
		}
	}

	if cfg.PromptMode == "" {
		return
	}
	if _, ok := cfg.Prompts[cfg.PromptMode]; ok {
		return
	}
	if _, ok := console.LookupMode(cfg.PromptMode); ok {
		return
	}
	result.fail("prompt_mode", cfg.PromptMode,
		"unknown prompt mode %q; must be one of: %s or a mode under prompts",
		cfg.PromptMode, strings.Join(console.ModeNames(), ", "))
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		// filepath.Match returns an error only for malformed patterns
		if _, err := filepath.Match(pattern, ""); err != nil {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

func joinFormats() string {
	formats := config.OutputFormats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
