package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/rubynest/pkg/analysis"
)

// FormatFinding formats a single finding for terminal output.
func (s *Styles) FormatFinding(finding analysis.Finding, showContext bool) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d:%d",
		s.FilePath.Render(finding.FilePath),
		finding.Line,
		finding.Column,
	)

	fmt.Fprintf(&builder, "  %s  %s  %s  %s\n",
		location,
		s.FormatSeverity(finding.Severity),
		s.Message.Render(finding.Message),
		s.Code.Render("("+finding.Code+")"),
	)

	if showContext && finding.Source != "" {
		builder.WriteString(s.FormatSourceContext(finding.Source, finding.Column))
	}
	return builder.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(severity string) string {
	switch severity {
	case analysis.SeverityError:
		return s.Error.Render(severity)
	case analysis.SeverityWarning:
		return s.Warning.Render(severity)
	default:
		return severity
	}
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	const indent = "        "

	builder.WriteString(indent + s.SourceLine.Render(expandTabs(line)) + "\n")
	if column > 0 {
		padding := indent + strings.Repeat(" ", caretOffset(line, column))
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}
	return builder.String()
}

// caretOffset is the display width of line before the 1-based byte
// column, with tabs expanded the way expandTabs does it.
func caretOffset(line string, column int) int {
	prefix := line[:min(column-1, len(line))]
	return len([]rune(expandTabs(prefix)))
}

func expandTabs(line string) string {
	return strings.ReplaceAll(line, "\t", "    ")
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	switch {
	case issueCount == 1:
		header += s.Dim.Render(" (1 issue)")
	case issueCount > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}

// FormatElement renders the opening text of a construct styled by its
// kind name.
func (s *Styles) FormatElement(kind, text string) string {
	switch kind {
	case "keyword":
		return s.Keyword.Render(text)
	case "bracket", "embexpr":
		return s.Bracket.Render(text)
	case "string", "heredoc", "embdoc":
		return s.Literal.Render(text)
	default:
		return text
	}
}
