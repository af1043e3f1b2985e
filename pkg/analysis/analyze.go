package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/rubynest/pkg/runner"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// makeRelativePath converts an absolute path to a relative path from workDir.
// If workDir is empty or conversion fails, returns the original path.
func makeRelativePath(absPath, workDir string) string {
	if workDir == "" {
		return absPath
	}
	relPath, err := filepath.Rel(workDir, absPath)
	if err != nil {
		return absPath
	}
	return relPath
}

// analysisContext holds temporary state during analysis.
type analysisContext struct {
	codeMap   map[string]*CodeAnalysis
	fileMap   map[string]*FileAnalysis
	codeFiles map[string]map[string]bool
	fileCodes map[string]map[string]bool
}

func newAnalysisContext() *analysisContext {
	return &analysisContext{
		codeMap:   make(map[string]*CodeAnalysis),
		fileMap:   make(map[string]*FileAnalysis),
		codeFiles: make(map[string]map[string]bool),
		fileCodes: make(map[string]map[string]bool),
	}
}

func (ctx *analysisContext) add(finding Finding, totals *Totals) {
	fa, ok := ctx.fileMap[finding.FilePath]
	if !ok {
		fa = &FileAnalysis{Path: finding.FilePath}
		ctx.fileMap[finding.FilePath] = fa
		ctx.fileCodes[finding.FilePath] = make(map[string]bool)
	}
	ca, ok := ctx.codeMap[finding.Code]
	if !ok {
		ca = &CodeAnalysis{Code: finding.Code}
		ctx.codeMap[finding.Code] = ca
		ctx.codeFiles[finding.Code] = make(map[string]bool)
	}

	totals.Issues++
	fa.Issues++
	ca.Issues++
	if finding.IsError() {
		totals.Errors++
		fa.Errors++
		ca.Errors++
	} else {
		totals.Warnings++
		fa.Warnings++
		ca.Warnings++
	}
	ctx.fileCodes[finding.FilePath][finding.Code] = true
	ctx.codeFiles[finding.Code][finding.FilePath] = true
}

func (ctx *analysisContext) buildByCode(opts Options) []CodeAnalysis {
	result := make([]CodeAnalysis, 0, len(ctx.codeMap))
	for code, ca := range ctx.codeMap {
		for f := range ctx.codeFiles[code] {
			ca.Files = append(ca.Files, f)
		}
		slices.Sort(ca.Files)
		result = append(result, *ca)
	}
	sortBy(result, opts, func(c CodeAnalysis) (string, int, int, int) {
		return c.Code, c.Issues, c.Errors, c.Warnings
	})
	return result
}

func (ctx *analysisContext) buildByFile(opts Options) []FileAnalysis {
	result := make([]FileAnalysis, 0, len(ctx.fileMap))
	for path, fa := range ctx.fileMap {
		for c := range ctx.fileCodes[path] {
			fa.Codes = append(fa.Codes, c)
		}
		slices.Sort(fa.Codes)
		result = append(result, *fa)
	}
	sortBy(result, opts, func(f FileAnalysis) (string, int, int, int) {
		return f.Path, f.Issues, f.Errors, f.Warnings
	})
	return result
}

// Analyze transforms a runner.Result into a Report.
// It performs a single pass through the outcomes to compute all views.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}
	if result == nil {
		return report
	}

	stats := result.Stats
	report.Totals = Totals{
		Files:              stats.FilesProcessed,
		FilesWithIssues:    stats.FilesWithIssues,
		FilesErrored:       stats.FilesErrored,
		FilesChanged:       stats.FilesChanged,
		FilesModified:      stats.FilesModified,
		Snippets:           stats.SnippetsChecked,
		SnippetsIncomplete: stats.SnippetsIncomplete,
		SnippetsInvalid:    stats.SnippetsInvalid,
	}

	ctx := newAnalysisContext()
	for _, file := range result.Files {
		displayPath := makeRelativePath(file.Path, opts.WorkingDir)

		if opts.IncludeFiles {
			report.Files = append(report.Files, fileEntry(displayPath, file))
		}

		for _, snip := range file.Snippets {
			for _, finding := range SnippetFindings(displayPath, snip) {
				ctx.add(finding, &report.Totals)
				if opts.IncludeFindings {
					report.Findings = append(report.Findings, finding)
				}
			}
		}
	}

	if opts.IncludeByCode {
		report.ByCode = ctx.buildByCode(opts)
	}
	if opts.IncludeByFile {
		report.ByFile = ctx.buildByFile(opts)
	}
	return report
}

func fileEntry(path string, file runner.FileOutcome) FileEntry {
	entry := FileEntry{
		Path:       path,
		Kind:       file.Kind.String(),
		Snippets:   make([]SnippetEntry, 0, len(file.Snippets)),
		Changed:    file.Diff.HasChanges(),
		Written:    file.Written,
		BackupPath: file.BackupPath,
	}
	if file.Error != nil {
		entry.Error = file.Error.Error()
	}
	for _, snip := range file.Snippets {
		entry.Snippets = append(entry.Snippets, SnippetEntry{
			Index:        snip.Index,
			Line:         snip.Line,
			EndLine:      snip.EndLine,
			Fenced:       snip.Fenced,
			Info:         snip.Info,
			Status:       snip.Status.String(),
			Verdict:      snip.Verdict.String(),
			Class:        snip.Class.String(),
			NestingLevel: snip.NestingLevel,
		})
	}
	return entry
}

// sortBy orders grouped views. key returns the name and the issue, error
// and warning counts of an entry.
func sortBy[T any](entries []T, opts Options, key func(T) (string, int, int, int)) {
	slices.SortFunc(entries, func(left, right T) int {
		lName, lIssues, lErrors, lWarnings := key(left)
		rName, rIssues, rErrors, rWarnings := key(right)

		var result int
		switch opts.SortBy {
		case SortByAlpha:
			// Alphabetical sorting is always ascending (A-Z)
			return cmp.Compare(lName, rName)
		case SortBySeverity:
			result = cmp.Or(
				cmp.Compare(rErrors, lErrors),
				cmp.Compare(rWarnings, lWarnings),
				cmp.Compare(rIssues, lIssues),
			)
		default: // SortByCount
			result = cmp.Compare(lIssues, rIssues)
			if opts.SortDesc {
				result = -result
			}
		}
		return cmp.Or(result, cmp.Compare(lName, rName))
	})
}
