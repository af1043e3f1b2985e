package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/rubynest/pkg/analysis"
)

const summaryDividerWidth = 40

// plural formats a count with the singular or plural form of word.
func plural(count int, word string) string {
	if count == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", count, word)
}

// FormatSummaryOneLine formats report totals as a single line.
// Example: "3 issues (1 error, 2 warnings) in 2 files, 7 snippets checked".
func (s *Styles) FormatSummaryOneLine(totals analysis.Totals) string {
	var parts []string

	if !totals.HasIssues() {
		parts = append(parts, s.Success.Render("No issues found")+
			s.Dim.Render(fmt.Sprintf(" (%s, %s checked)",
				plural(totals.Files, "file"), plural(totals.Snippets, "snippet"))))
	} else {
		var severityParts []string
		if totals.Errors > 0 {
			severityParts = append(severityParts, s.Error.Render(plural(totals.Errors, "error")))
		}
		if totals.Warnings > 0 {
			severityParts = append(severityParts, s.Warning.Render(plural(totals.Warnings, "warning")))
		}
		parts = append(parts,
			fmt.Sprintf("%s (%s) in %s",
				plural(totals.Issues, "issue"),
				strings.Join(severityParts, ", "),
				plural(totals.FilesWithIssues, "file")),
			plural(totals.Snippets, "snippet")+" checked")
	}

	if totals.FilesModified > 0 {
		parts = append(parts, s.Success.Render(plural(totals.FilesModified, "file")+" reindented"))
	} else if totals.FilesChanged > 0 {
		parts = append(parts, s.Warning.Render(plural(totals.FilesChanged, "file")+" to reindent"))
	}
	if totals.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(plural(totals.FilesErrored, "file")+" unreadable"))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats report totals as a summary block.
func (s *Styles) FormatSummary(totals analysis.Totals) string {
	var builder strings.Builder

	row := func(label string, style func(...string) string, value int) {
		fmt.Fprintf(&builder, "  %-19s%s\n", label+":", style(strconv.Itoa(value)))
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row("Files checked", s.SummaryValue.Render, totals.Files)
	if totals.FilesWithIssues > 0 {
		row("Files with issues", s.Failure.Render, totals.FilesWithIssues)
	}
	if totals.FilesErrored > 0 {
		row("Files unreadable", s.Failure.Render, totals.FilesErrored)
	}
	if totals.FilesChanged > 0 {
		row("Files to reindent", s.Warning.Render, totals.FilesChanged)
	}
	if totals.FilesModified > 0 {
		row("Files reindented", s.Success.Render, totals.FilesModified)
	}

	builder.WriteString("\n")
	row("Snippets checked", s.SummaryValue.Render, totals.Snippets)
	if totals.SnippetsIncomplete > 0 {
		row("  Incomplete", s.Warning.Render, totals.SnippetsIncomplete)
	}
	if totals.SnippetsInvalid > 0 {
		row("  Invalid", s.Error.Render, totals.SnippetsInvalid)
	}

	builder.WriteString("\n")
	row("Total issues", s.SummaryValue.Render, totals.Issues)
	if totals.Errors > 0 {
		row("  Errors", s.Error.Render, totals.Errors)
	}
	if totals.Warnings > 0 {
		row("  Warnings", s.Warning.Render, totals.Warnings)
	}

	builder.WriteString("\n")
	switch {
	case totals.HasErrors():
		builder.WriteString(s.Failure.Render("Check failed with invalid snippets"))
	case totals.HasIssues():
		builder.WriteString(s.Warning.Render("Check completed with incomplete snippets"))
	default:
		builder.WriteString(s.Success.Render("Check passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
