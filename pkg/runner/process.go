package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/rubynest/pkg/classify"
	"github.com/yaklabco/rubynest/pkg/console"
	"github.com/yaklabco/rubynest/pkg/fsutil"
	"github.com/yaklabco/rubynest/pkg/reindent"
	"github.com/yaklabco/rubynest/pkg/snippet"
)

// ProcessFile reads path, checks each snippet, and in indent mode
// computes and optionally writes the reindented file.
func (r *Runner) ProcessFile(ctx context.Context, path string, opts Options) FileOutcome {
	outcome := FileOutcome{Path: path}

	src, err := fsutil.Read(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Kind = snippet.Classify(path, src.Content)

	snippets, err := snippet.Extract(ctx, path, src.Content, opts.Snippet)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	lines := splitLines(src.Content)
	var edits []reindent.Edit
	for i := range snippets {
		snip := &snippets[i]
		checked := Check(r.analyzer, snip)
		attachSource(&checked, lines)

		if opts.Mode == ModeIndent && checked.Status != StatusInvalid {
			if snipEdits := reindent.Compute(r.analyzer, snip); len(snipEdits) > 0 {
				checked.Reindented = true
				edits = append(edits, snipEdits...)
			}
		}
		outcome.Snippets = append(outcome.Snippets, checked)
	}

	if opts.Mode != ModeIndent || len(edits) == 0 {
		return outcome
	}

	prepared, err := reindent.Prepare(edits, len(src.Content))
	if err != nil {
		outcome.Error = fmt.Errorf("reindent %s: %w", path, err)
		return outcome
	}
	modified := reindent.Apply(src.Content, prepared)
	outcome.Diff = reindent.GenerateDiff(path, src.Content, modified)
	if outcome.Diff.HasChanges() {
		outcome.Reindented = modified
	}

	if opts.Write {
		res, err := fsutil.Replace(ctx, src, modified, backupPolicy(opts))
		if err != nil {
			outcome.Error = err
			return outcome
		}
		outcome.Written = res.Written
		outcome.BackupPath = res.BackupPath
	}
	return outcome
}

func backupPolicy(opts Options) fsutil.BackupPolicy {
	if opts.Config == nil {
		return fsutil.BackupPolicy{}
	}
	return fsutil.BackupPolicy{
		Enabled: opts.Config.BackupsEnabled(),
		Suffix:  opts.Config.Backups.Suffix,
	}
}

// Check analyzes one snippet and maps the findings to file coordinates.
func Check(analyzer *console.Analyzer, snip *snippet.Snippet) SnippetOutcome {
	outcome := SnippetOutcome{
		Index:   snip.Index,
		Line:    snip.StartLine(),
		EndLine: snip.FileLine(max(len(snip.Segments), 1)),
		Fenced:  snip.Fenced,
		Info:    snip.Info,
	}

	analysis, err := analyzer.Analyze(snip.Code)
	outcome.Verdict = analysis.Verdict
	outcome.Class = analysis.Class
	if err != nil {
		outcome.Err = err
		outcome.Status = StatusInvalid
		return outcome
	}

	outcome.NestingLevel = analysis.NestingLevel()
	for _, elem := range analysis.Opens {
		line, column := snip.FilePosition(elem.Pos.Line, elem.Pos.Column)
		outcome.Opens = append(outcome.Opens, OpenElement{
			Line:   line,
			Column: column + 1,
			Kind:   elem.Kind.String(),
			Text:   elem.Text,
		})
	}
	for _, syntaxErr := range analysis.Errors {
		start := syntaxErr.Span.Start
		line, column := snip.FilePosition(start.Line, start.Column)
		outcome.Problems = append(outcome.Problems, Problem{
			Line:    line,
			Column:  column + 1,
			Code:    syntaxErr.Code.String(),
			Message: syntaxErr.Message,
		})
	}

	outcome.Status = statusOf(analysis)
	return outcome
}

func statusOf(analysis *console.Analysis) Status {
	switch {
	case analysis.Verdict == classify.Continue:
		return StatusIncomplete
	case analysis.Verdict == classify.AbandonWithError:
		return StatusInvalid
	case analysis.Class != classify.Valid || len(analysis.Errors) > 0:
		return StatusInvalid
	default:
		return StatusOK
	}
}

func splitLines(content []byte) []string {
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
}

func attachSource(outcome *SnippetOutcome, lines []string) {
	text := func(line int) string {
		if line < 1 || line > len(lines) {
			return ""
		}
		return strings.TrimRight(lines[line-1], "\r")
	}
	for i := range outcome.Problems {
		outcome.Problems[i].Source = text(outcome.Problems[i].Line)
	}
	for i := range outcome.Opens {
		outcome.Opens[i].Source = text(outcome.Opens[i].Line)
	}
}
