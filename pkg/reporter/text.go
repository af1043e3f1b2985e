package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/rubynest/internal/ui/pretty"
	"github.com/yaklabco/rubynest/pkg/analysis"
)

// TextRenderer formats reports as styled terminal output.
type TextRenderer struct {
	opts   Options
	styles *pretty.Styles
}

// NewTextRenderer creates a new text renderer.
func NewTextRenderer(opts Options) *TextRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
	}
}

// Render implements Renderer.
func (r *TextRenderer) Render(_ context.Context, report *analysis.Report) error {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)

	if len(report.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(bw, r.styles.Success.Render("No files to check."))
		}
		return bw.Flush()
	}

	for _, file := range report.Files {
		if file.Error != "" {
			fmt.Fprintf(bw, "%s: %s\n",
				r.styles.FilePath.Render(file.Path),
				r.styles.Error.Render("error: "+file.Error))
		}
	}

	if r.opts.GroupByFile {
		r.renderGrouped(bw, report.Findings)
	} else {
		for _, finding := range report.Findings {
			fmt.Fprint(bw, r.styles.FormatFinding(finding, r.opts.ShowContext))
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprint(bw, r.styles.FormatSummaryOneLine(report.Totals))
	}
	return bw.Flush()
}

// renderGrouped writes findings under one header per file. Findings
// arrive in file order.
func (r *TextRenderer) renderGrouped(bw *bufio.Writer, findings []analysis.Finding) {
	for start := 0; start < len(findings); {
		end := start + 1
		for end < len(findings) && findings[end].FilePath == findings[start].FilePath {
			end++
		}

		fmt.Fprintln(bw, r.styles.FormatFileHeader(findings[start].FilePath, end-start))
		for _, finding := range findings[start:end] {
			fmt.Fprint(bw, r.styles.FormatFinding(finding, r.opts.ShowContext))
		}
		fmt.Fprintln(bw)
		start = end
	}
}
