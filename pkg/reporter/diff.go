package reporter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/rubynest/internal/ui/pretty"
	"github.com/yaklabco/rubynest/pkg/reindent"
	"github.com/yaklabco/rubynest/pkg/runner"
)

// DiffReporter writes reindentation changes as git-style unified diffs.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Report implements Reporter. The count is the number of files with
// changes.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil {
		return 0, nil
	}

	var files, lines int
	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprintf(r.out, "%s: %s\n",
				r.styles.FilePath.Render(file.Path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)))
			continue
		}
		if !file.Diff.HasChanges() {
			continue
		}

		files++
		lines += file.Diff.Changed
		r.writeDiff(file.Diff)
	}

	if files > 0 && r.opts.ShowSummary {
		fmt.Fprintf(r.out, "%s changed, %s reindented\n",
			pluralize(files, "file"),
			r.styles.DiffAdd.Render(pluralize(lines, "line")))
	}
	return files, nil
}

func (r *DiffReporter) writeDiff(diff *reindent.Diff) {
	displayPath := filepath.ToSlash(r.relativePath(diff.Path))

	header := fmt.Sprintf("diff --git a/%s b/%s", displayPath, displayPath)
	fmt.Fprintln(r.out, r.styles.DiffHeader.Render(header))
	fmt.Fprintln(r.out, r.styles.DiffRemove.Render("--- a/"+displayPath))
	fmt.Fprintln(r.out, r.styles.DiffAdd.Render("+++ b/"+displayPath))

	for _, hunk := range diff.Hunks {
		fmt.Fprintln(r.out, r.styles.DiffHunk.Render(
			fmt.Sprintf("@@ -%d,%d +%d,%d @@", hunk.Start, hunk.Count, hunk.Start, hunk.Count)))
		for _, line := range hunk.Lines {
			switch line.Kind {
			case reindent.LineRemove:
				fmt.Fprintln(r.out, r.styles.DiffRemove.Render("-"+line.Content))
			case reindent.LineAdd:
				fmt.Fprintln(r.out, r.styles.DiffAdd.Render("+"+line.Content))
			default:
				fmt.Fprintln(r.out, r.styles.DiffContext.Render(" "+line.Content))
			}
		}
	}
	fmt.Fprintln(r.out)
}

// relativePath shortens path against the working directory. Paths needing
// more than two parent traversals fall back to the base name.
func (r *DiffReporter) relativePath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	base := r.opts.WorkingDir
	if base == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return filepath.Base(path)
		}
		base = cwd
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.Count(rel, "..") > 2 {
		return filepath.Base(path)
	}
	return rel
}

func pluralize(count int, word string) string {
	if count == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", count, word)
}
