// Package runner checks the Ruby snippets of many files concurrently.
package runner

import (
	"github.com/yaklabco/rubynest/pkg/config"
	"github.com/yaklabco/rubynest/pkg/snippet"
)

// Mode selects what the runner does with each file.
type Mode int

const (
	// ModeCheck classifies every snippet.
	ModeCheck Mode = iota

	// ModeIndent reindents every snippet and reports the change.
	ModeIndent
)

// Options controls a run.
type Options struct {
	// Paths are the files or directories to process. Empty means the
	// working directory.
	Paths []string

	// WorkingDir resolves relative Paths. Empty means the process working
	// directory.
	WorkingDir string

	// Extensions are the lowercase file extensions, with leading dot, to
	// discover in directories. Empty means DefaultExtensions.
	Extensions []string

	// FileNames are extensionless file names to discover, such as
	// Gemfile. Nil means DefaultFileNames.
	FileNames []string

	// IncludeGlobs restrict discovery to matching paths, relative to
	// WorkingDir.
	IncludeGlobs []string

	// ExcludeGlobs skip matching files and directories.
	ExcludeGlobs []string

	// FollowSymlinks traverses directory symlinks.
	FollowSymlinks bool

	// Jobs is the worker count. 0 or negative means runtime.NumCPU().
	Jobs int

	Mode Mode

	// Write rewrites files in ModeIndent.
	Write bool

	// Snippet controls extraction.
	Snippet snippet.Options

	// Config is the resolved configuration for this run.
	Config *config.Config
}

// DefaultExtensions returns the Ruby and Markdown extensions.
func DefaultExtensions() []string {
	return []string{".rb", ".rake", ".gemspec", ".ru", ".md", ".markdown"}
}

// DefaultFileNames returns Ruby files conventionally named without an
// extension.
func DefaultFileNames() []string {
	return []string{"Gemfile", "Rakefile", "Guardfile", "Capfile", "Vagrantfile", "Brewfile"}
}

// OptionsFromConfig fills discovery and extraction settings from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{Config: cfg}
	if cfg == nil {
		return opts
	}
	opts.Extensions = cfg.Extensions
	opts.ExcludeGlobs = cfg.Ignore
	opts.Jobs = cfg.Jobs
	opts.Snippet = snippet.Options{
		Markdown:        cfg.MarkdownEnabled(),
		FenceLabels:     cfg.FenceLabels,
		DetectUnlabeled: cfg.MarkdownEnabled(),
	}
	return opts
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectiveFileNames() []string {
	if o.FileNames == nil {
		return DefaultFileNames()
	}
	return o.FileNames
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
