package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Option fields.
	FieldMode        = "mode"
	FieldFormat      = "format"
	FieldWrite       = "write"
	FieldJobs        = "jobs"
	FieldIndentWidth = "indent_width"
	FieldLocals      = "locals"
	FieldInteractive = "interactive"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesWithIssues = "files_with_issues"
	FieldFilesChanged    = "files_changed"
	FieldFilesModified   = "files_modified"
	FieldSnippets        = "snippets"

	// Analysis fields.
	FieldVerdict = "verdict"
	FieldClass   = "class"
	FieldLine    = "line"

	// Version fields.
	FieldVersion   = "version"
	FieldCommit    = "commit"
	FieldBuilt     = "built"
	FieldPlatform  = "platform"
	FieldGoVersion = "go"
)
