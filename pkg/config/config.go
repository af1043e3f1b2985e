// Package config defines the configuration types for rubynest.
// These types are pure data; loading and merging live in configloader.
package config

// OutputFormat specifies the output format for check results.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatSARIF   OutputFormat = "sarif"
	FormatSummary OutputFormat = "summary"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatTable, FormatJSON, FormatSARIF, FormatSummary:
		return true
	default:
		return false
	}
}

// LogLevel is a logger verbosity.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// IsValid returns true if the level is known.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true
	default:
		return false
	}
}

// Default values.
const (
	DefaultIndentWidth = 2
	DefaultPromptMode  = "default"
	MaxIndentWidth     = 16
)

// PromptConfig is a user-defined prompt mode. Templates use the same
// escapes as the built-in modes.
type PromptConfig struct {
	Normal   string `yaml:"normal"`
	String   string `yaml:"string"`
	Continue string `yaml:"continue"`
	Return   string `yaml:"return"`
}

// BackupsConfig controls backups when rewriting files.
type BackupsConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Suffix  string `yaml:"suffix"`
}

// Config is the root configuration structure.
type Config struct {
	// IndentWidth is the number of spaces per nesting level.
	IndentWidth int `yaml:"indent_width"`

	// PromptMode names the console prompt mode.
	PromptMode string `yaml:"prompt_mode"`

	// Prompts holds custom prompt modes keyed by name.
	Prompts map[string]PromptConfig `yaml:"prompts"`

	// Commands are console command names that complete on one line.
	Commands []string `yaml:"commands"`

	// Locals are local variables assumed to be in scope.
	Locals []string `yaml:"locals"`

	// AutoIndent pre-fills console lines with their indentation.
	AutoIndent *bool `yaml:"auto_indent"`

	// Markdown enables checking Ruby fences in Markdown files.
	Markdown *bool `yaml:"markdown"`

	// FenceLabels are the fence info strings treated as Ruby.
	FenceLabels []string `yaml:"fence_labels"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore"`

	// Extensions are the file extensions to discover.
	Extensions []string `yaml:"extensions"`

	// LogLevel sets the logger verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// Backups configures backups made by indent --write.
	Backups BackupsConfig `yaml:"backups"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// Strict fails the run on incomplete snippets too.
	Strict bool `yaml:"-"`

	// NoBackups disables backups when rewriting files.
	NoBackups bool `yaml:"-"`
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	return &Config{
		IndentWidth: DefaultIndentWidth,
		PromptMode:  DefaultPromptMode,
		Prompts:     make(map[string]PromptConfig),
		AutoIndent:  boolPtr(true),
		Markdown:    boolPtr(true),
		LogLevel:    LogLevelWarn,
		Backups: BackupsConfig{
			Enabled: boolPtr(true),
		},
		Format: FormatText,
		Jobs:   0, // 0 means use GOMAXPROCS
	}
}

// AutoIndentEnabled reports whether auto-indent is on. Unset means on.
func (c *Config) AutoIndentEnabled() bool {
	return c.AutoIndent == nil || *c.AutoIndent
}

// MarkdownEnabled reports whether Markdown fences are checked. Unset means
// on.
func (c *Config) MarkdownEnabled() bool {
	return c.Markdown == nil || *c.Markdown
}

// BackupsEnabled reports whether rewrites keep a backup.
func (c *Config) BackupsEnabled() bool {
	if c.NoBackups {
		return false
	}
	return c.Backups.Enabled == nil || *c.Backups.Enabled
}

func boolPtr(v bool) *bool {
	return &v
}
