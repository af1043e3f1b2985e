package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yaklabco/rubynest/internal/ui/pretty"
	"github.com/yaklabco/rubynest/pkg/analysis"
)

// Table layout for summary output. Both tables share one width.
const (
	tableWidth        = 90
	codeColWidth      = 30
	fileColWidth      = 60
	numColWidth       = 7
	warnColWidth      = 9
	maxFilePathLength = 58
)

// padRight pads a string to the given width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string to the given width with spaces on the left.
// This must be called BEFORE applying ANSI styles.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// SummaryRenderer formats reports as aggregated tables by code and file.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) error {
	if !report.Totals.HasIssues() {
		fmt.Fprint(r.out, r.styles.FormatSummaryOneLine(report.Totals))
		return nil
	}

	r.renderCodeTable(report.ByCode)
	fmt.Fprintln(r.out)
	r.renderFileTable(report.ByFile)
	fmt.Fprintln(r.out)
	fmt.Fprint(r.out, r.styles.Bold.Render("Total: ")+r.styles.FormatSummaryOneLine(report.Totals))
	return nil
}

func (r *SummaryRenderer) separator() {
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))
}

func (r *SummaryRenderer) header(first string, width int) {
	fmt.Fprintf(r.out, "%s %s %s %s\n",
		r.styles.TableHeader.Render(padRight(first, width)),
		r.styles.TableHeader.Render(padLeft("Count", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Errors", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Warnings", warnColWidth)),
	)
}

func (r *SummaryRenderer) row(name string, width, issues, errors, warnings int) {
	padded := padRight(name, width)
	switch {
	case errors > 0:
		padded = r.styles.TableErrorRow.Render(padded)
	case warnings > 0:
		padded = r.styles.TableWarnRow.Render(padded)
	}
	fmt.Fprintf(r.out, "%s %s %s %s\n",
		padded,
		padLeft(strconv.Itoa(issues), numColWidth),
		padLeft(strconv.Itoa(errors), numColWidth),
		padLeft(strconv.Itoa(warnings), warnColWidth),
	)
}

func (r *SummaryRenderer) renderCodeTable(codes []analysis.CodeAnalysis) {
	if len(codes) == 0 {
		return
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Codes Summary"))
	r.separator()
	r.header("Code", codeColWidth)
	r.separator()
	for _, code := range codes {
		r.row(code.Code, codeColWidth, code.Issues, code.Errors, code.Warnings)
	}
}

func (r *SummaryRenderer) renderFileTable(files []analysis.FileAnalysis) {
	if len(files) == 0 {
		return
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Files Summary"))
	r.separator()
	r.header("File", fileColWidth)
	r.separator()
	for _, file := range files {
		path := file.Path
		if len(path) > maxFilePathLength {
			path = "…" + path[len(path)-(maxFilePathLength-1):]
		}
		r.row(path, fileColWidth, file.Issues, file.Errors, file.Warnings)
	}
}
