package analysis

import "time"

// Severity levels of a finding.
const (
	// SeverityError marks input no further lines can fix.
	SeverityError = "error"

	// SeverityWarning marks input left incomplete.
	SeverityWarning = "warning"
)

// Codes for findings that do not come from a syntax error.
const (
	CodeUnclosed     = "unclosed"
	CodeContinuation = "continuation"
	CodeInvalid      = "invalid"
	CodeInternal     = "internal"
)

// Report contains pre-computed views of a run.
// Computed once by Analyze(), used by all renderers.
type Report struct {
	// Findings is the flat list for detailed output.
	Findings []Finding `json:"findings,omitempty"`

	// Files lists every processed file with its snippets.
	Files []FileEntry `json:"files,omitempty"`

	// ByFile groups findings by file path.
	ByFile []FileAnalysis `json:"byFile,omitempty"`

	// ByCode groups findings by code.
	ByCode []CodeAnalysis `json:"byCode,omitempty"`

	Totals Totals `json:"summary"`

	// Version is the report format version.
	Version string `json:"version"`

	Timestamp time.Time `json:"timestamp"`
}

// Finding is one reportable problem in a snippet.
type Finding struct {
	FilePath string `json:"filePath"`

	// Snippet is the index of the snippet within the file.
	Snippet int `json:"snippet"`

	// Line and Column are 1-based file coordinates.
	Line   int `json:"line"`
	Column int `json:"column"`

	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`

	// Source is the text of the file line.
	Source string `json:"-"`
}

// IsError reports whether the finding has error severity.
func (f Finding) IsError() bool {
	return f.Severity == SeverityError
}

// FileEntry describes one processed file.
type FileEntry struct {
	Path       string         `json:"path"`
	Kind       string         `json:"kind"`
	Snippets   []SnippetEntry `json:"snippets"`
	Changed    bool           `json:"changed,omitempty"`
	Written    bool           `json:"written,omitempty"`
	BackupPath string         `json:"backupPath,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// SnippetEntry describes one checked snippet.
type SnippetEntry struct {
	Index        int    `json:"index"`
	Line         int    `json:"line"`
	EndLine      int    `json:"endLine"`
	Fenced       bool   `json:"fenced"`
	Info         string `json:"info,omitempty"`
	Status       string `json:"status"`
	Verdict      string `json:"verdict"`
	Class        string `json:"class"`
	NestingLevel int    `json:"nestingLevel"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files              int `json:"filesChecked"`
	FilesWithIssues    int `json:"filesWithIssues"`
	FilesErrored       int `json:"filesErrored"`
	FilesChanged       int `json:"filesChanged"`
	FilesModified      int `json:"filesModified"`
	Snippets           int `json:"snippets"`
	SnippetsIncomplete int `json:"snippetsIncomplete"`
	SnippetsInvalid    int `json:"snippetsInvalid"`
	Issues             int `json:"totalIssues"`
	Errors             int `json:"errors"`
	Warnings           int `json:"warnings"`
}

// HasIssues returns true if there are any findings.
func (t Totals) HasIssues() bool {
	return t.Issues > 0
}

// HasErrors returns true if there are any error findings.
func (t Totals) HasErrors() bool {
	return t.Errors > 0
}

// FileAnalysis contains aggregated data for a single file.
type FileAnalysis struct {
	Path     string   `json:"path"`
	Issues   int      `json:"issues"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Codes    []string `json:"codes,omitempty"`
}

// CodeAnalysis contains aggregated data for a single finding code.
type CodeAnalysis struct {
	Code     string   `json:"code"`
	Issues   int      `json:"issues"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Files    []string `json:"files,omitempty"`
}
