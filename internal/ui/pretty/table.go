package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/rubynest/pkg/analysis"
)

// Table formatting constants.
const (
	tablePadding     = 2
	tableColumnCount = 5 // SEV, FILE, LOC, MESSAGE, CODE
	severityWidth    = 3
	minFileWidth     = 20
	minLocWidth      = 8
	minMessageWidth  = 35
	minCodeWidth     = 8
	heavySeparator   = "="
	lightSeparator   = "-"
	defaultTermWidth = 100
)

// TableRow represents a single row in the findings table.
type TableRow struct {
	File     string
	Location string
	Message  string
	Code     string
	Severity string
}

// FindingToTableRow converts a finding to a table row.
func FindingToTableRow(finding analysis.Finding) TableRow {
	return TableRow{
		File:     finding.FilePath,
		Location: fmt.Sprintf("%d:%d", finding.Line, finding.Column),
		Message:  finding.Message,
		Code:     finding.Code,
		Severity: finding.Severity,
	}
}

// TableFormatter formats findings as a styled table.
type TableFormatter struct {
	styles       *Styles
	colorEnabled bool
	termWidth    int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, colorEnabled bool, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:       styles,
		colorEnabled: colorEnabled,
		termWidth:    termWidth,
	}
}

type columnWidths struct {
	file    int
	loc     int
	message int
	code    int
}

func (w columnWidths) total() int {
	return severityWidth + w.file + w.loc + w.message + w.code + tablePadding*tableColumnCount
}

// FormatTable formats findings as a table with one group per file.
// Findings are expected in file order.
func (t *TableFormatter) FormatTable(findings []analysis.Finding) string {
	groups := groupRows(findings)
	if len(groups) == 0 {
		return ""
	}

	widths := t.calculateColumnWidths(groups)

	var builder strings.Builder
	builder.WriteString(t.formatHeader(widths) + "\n")
	builder.WriteString(t.formatSeparator(widths, heavySeparator) + "\n")

	for i, group := range groups {
		if i > 0 {
			builder.WriteString(t.formatSeparator(widths, lightSeparator) + "\n")
		}
		for _, row := range group {
			builder.WriteString(t.formatRow(row, widths) + "\n")
		}
	}

	builder.WriteString(t.formatSeparator(widths, heavySeparator) + "\n")
	builder.WriteString(t.formatLegend() + "\n")
	return builder.String()
}

func groupRows(findings []analysis.Finding) [][]TableRow {
	var groups [][]TableRow
	for i, finding := range findings {
		if i == 0 || finding.FilePath != findings[i-1].FilePath {
			groups = append(groups, nil)
		}
		last := len(groups) - 1
		groups[last] = append(groups[last], FindingToTableRow(finding))
	}
	return groups
}

// calculateColumnWidths determines column widths from content, shrinking
// the message and then the file column to fit the terminal.
func (t *TableFormatter) calculateColumnWidths(groups [][]TableRow) columnWidths {
	widths := columnWidths{
		file:    minFileWidth,
		loc:     minLocWidth,
		message: minMessageWidth,
		code:    minCodeWidth,
	}
	for _, group := range groups {
		for _, row := range group {
			widths.file = max(widths.file, len(row.File))
			widths.loc = max(widths.loc, len(row.Location))
			widths.message = max(widths.message, len(row.Message))
			widths.code = max(widths.code, len(row.Code))
		}
	}

	if excess := widths.total() - t.termWidth; excess > 0 {
		widths.message = max(minMessageWidth, widths.message-excess)
	}
	if excess := widths.total() - t.termWidth; excess > 0 {
		widths.file = max(minFileWidth, widths.file-excess)
	}
	return widths
}

func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s  %-*s ",
		severityWidth, "SEV",
		widths.file, "FILE",
		widths.loc, "LOC",
		widths.message, "MESSAGE",
		widths.code, "CODE",
	)
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(widths columnWidths, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, widths.total()))
}

// formatRow formats a single row with severity-based styling.
func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	content := fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s  %-*s ",
		severityWidth, severityMarker(row.Severity),
		widths.file, truncateFilePath(row.File, widths.file),
		widths.loc, truncateString(row.Location, widths.loc),
		widths.message, truncateString(row.Message, widths.message),
		widths.code, truncateString(row.Code, widths.code),
	)
	return t.rowStyle(row.Severity).Render(content)
}

func severityMarker(severity string) string {
	switch severity {
	case analysis.SeverityError:
		return "E"
	case analysis.SeverityWarning:
		return "W"
	default:
		return "?"
	}
}

func (t *TableFormatter) rowStyle(severity string) lipgloss.Style {
	switch severity {
	case analysis.SeverityError:
		return t.styles.TableErrorRow
	case analysis.SeverityWarning:
		return t.styles.TableWarnRow
	default:
		return lipgloss.NewStyle()
	}
}

// formatLegend formats the legend explaining the severity markers.
func (t *TableFormatter) formatLegend() string {
	if !t.colorEnabled {
		return t.styles.TableLegend.Render(" Legend: E = invalid (error) | W = incomplete (warning)")
	}
	return t.styles.TableLegend.Render(fmt.Sprintf(" Legend: %s = invalid  %s = incomplete",
		t.styles.TableErrorRow.Render(" error "),
		t.styles.TableWarnRow.Render(" warning ")))
}

// FormatTableSummary formats a summary line for table output.
func (t *TableFormatter) FormatTableSummary(totals analysis.Totals, duration string) string {
	parts := []string{
		plural(totals.Files, "file") + " checked",
		plural(totals.Snippets, "snippet"),
	}
	if totals.Errors > 0 {
		parts = append(parts, t.styles.Error.Render(plural(totals.Errors, "error")))
	}
	if totals.Warnings > 0 {
		parts = append(parts, t.styles.Warning.Render(plural(totals.Warnings, "warning")))
	}
	if duration != "" {
		parts = append(parts, t.styles.Dim.Render(duration))
	}
	return " " + strings.Join(parts, " | ")
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// truncateFilePath truncates a file path, keeping the file name end.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
