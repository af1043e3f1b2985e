package runner

import (
	"github.com/yaklabco/rubynest/pkg/classify"
	"github.com/yaklabco/rubynest/pkg/reindent"
	"github.com/yaklabco/rubynest/pkg/snippet"
)

// Status summarizes a snippet check.
type Status int

const (
	// StatusOK is a complete snippet without syntax errors.
	StatusOK Status = iota

	// StatusIncomplete is a snippet a console would keep reading: it ends
	// inside an open construct or on a continuation.
	StatusIncomplete

	// StatusInvalid is a snippet with syntax errors no further input can
	// fix.
	StatusInvalid
)

// String returns the name of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusIncomplete:
		return "incomplete"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Problem is a syntax error in file coordinates.
type Problem struct {
	// Line is 1-based; Column is 1-based.
	Line    int
	Column  int
	Code    string
	Message string

	// Source is the text of the file line.
	Source string
}

// OpenElement is a construct left open at the end of a snippet, in file
// coordinates.
type OpenElement struct {
	Line   int
	Column int
	Kind   string
	Text   string
	Source string
}

// SnippetOutcome is the result of checking one snippet.
type SnippetOutcome struct {
	Index int

	// Line and EndLine are the first and last file lines of the snippet.
	Line    int
	EndLine int

	Fenced bool
	Info   string

	Status  Status
	Verdict classify.Verdict
	Class   classify.SyntaxClass

	// NestingLevel is the nesting depth at the end of the snippet.
	NestingLevel int

	Opens    []OpenElement
	Problems []Problem

	// Reindented is set in indent mode when the snippet's indentation
	// changed.
	Reindented bool

	// Err is an internal analyzer failure.
	Err error
}

// FileOutcome is the result of processing one file.
type FileOutcome struct {
	Path     string
	Kind     snippet.FileKind
	Snippets []SnippetOutcome

	// Diff is the indentation change in indent mode, nil if none.
	Diff *reindent.Diff

	// Reindented is the file content after reindentation, set in indent
	// mode when Diff has changes.
	Reindented []byte

	// Written is set when the file was rewritten.
	Written    bool
	BackupPath string

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesErrored    int

	// FilesWithIssues counts files with an incomplete or invalid snippet.
	FilesWithIssues int

	// FilesChanged counts files whose indentation differs in indent mode.
	FilesChanged int

	// FilesModified counts files rewritten on disk.
	FilesModified int

	SnippetsChecked    int
	SnippetsIncomplete int
	SnippetsInvalid    int
}

// Result is the overall runner result.
type Result struct {
	// Files are ordered by path.
	Files []FileOutcome

	Stats Stats

	// Errors holds failures not tied to one file.
	Errors []error
}

// HasInvalid reports whether any snippet has unfixable syntax errors.
func (r *Result) HasInvalid() bool {
	return r != nil && r.Stats.SnippetsInvalid > 0
}

// HasIncomplete reports whether any snippet is left open.
func (r *Result) HasIncomplete() bool {
	return r != nil && r.Stats.SnippetsIncomplete > 0
}

// HasChanges reports whether indent mode found anything to change.
func (r *Result) HasChanges() bool {
	return r != nil && r.Stats.FilesChanged > 0
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	r.Stats.FilesProcessed++

	if outcome.Diff.HasChanges() {
		r.Stats.FilesChanged++
	}
	if outcome.Written {
		r.Stats.FilesModified++
	}

	issues := false
	for _, snip := range outcome.Snippets {
		r.Stats.SnippetsChecked++
		switch snip.Status {
		case StatusIncomplete:
			r.Stats.SnippetsIncomplete++
			issues = true
		case StatusInvalid:
			r.Stats.SnippetsInvalid++
			issues = true
		}
	}
	if issues {
		r.Stats.FilesWithIssues++
	}
}
