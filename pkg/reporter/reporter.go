// Package reporter writes run results as text, tables, JSON, SARIF,
// summaries or reindentation diffs.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/rubynest/pkg/analysis"
	"github.com/yaklabco/rubynest/pkg/runner"
)

// Reporter formats and writes run results.
type Reporter interface {
	// Report writes result and returns the number of issues it contains.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// Renderer presents an already analyzed report.
type Renderer interface {
	Render(ctx context.Context, report *analysis.Report) error
}

// renderers builds the Renderer behind each finding-oriented format.
//
//nolint:gochecknoglobals // Read-only constructor table.
var renderers = map[Format]func(Options) Renderer{
	FormatText:    func(o Options) Renderer { return NewTextRenderer(o) },
	FormatTable:   func(o Options) Renderer { return NewTableRenderer(o) },
	FormatJSON:    func(o Options) Renderer { return NewJSONRenderer(o) },
	FormatSARIF:   func(o Options) Renderer { return NewSARIFRenderer(o) },
	FormatSummary: func(o Options) Renderer { return NewSummaryRenderer(o) },
}

// analyzed runs analysis.Analyze before handing the report to a Renderer.
type analyzed struct {
	renderer Renderer
	opts     analysis.Options
}

func (a *analyzed) Report(ctx context.Context, result *runner.Result) (int, error) {
	report := analysis.Analyze(result, a.opts)
	if err := a.renderer.Render(ctx, report); err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}
	return report.Totals.Issues, nil
}

// New creates the Reporter for opts.Format, text when unset.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}

	if opts.Format == FormatDiff {
		return NewDiffReporter(opts), nil
	}
	build, ok := renderers[opts.Format]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}

	analysisOpts := analysis.DefaultOptions()
	analysisOpts.WorkingDir = opts.WorkingDir
	if opts.SortBy.IsValid() {
		analysisOpts.SortBy = opts.SortBy
	}
	return &analyzed{renderer: build(opts), opts: analysisOpts}, nil
}
