package analysis

import (
	"fmt"

	"github.com/yaklabco/rubynest/pkg/runner"
)

// SnippetFindings lists the findings of one snippet outcome. Invalid
// snippets yield errors; incomplete snippets yield a warning for each
// construct left open, or one for a trailing continuation.
func SnippetFindings(path string, snip runner.SnippetOutcome) []Finding {
	newFinding := func(line, column int, code, severity, message, source string) Finding {
		return Finding{
			FilePath: path,
			Snippet:  snip.Index,
			Line:     line,
			Column:   max(column, 1),
			Code:     code,
			Severity: severity,
			Message:  message,
			Source:   source,
		}
	}

	switch snip.Status {
	case runner.StatusInvalid:
		if snip.Err != nil {
			return []Finding{newFinding(snip.Line, 1, CodeInternal, SeverityError, snip.Err.Error(), "")}
		}
		if len(snip.Problems) == 0 {
			return []Finding{newFinding(snip.Line, 1, CodeInvalid, SeverityError,
				fmt.Sprintf("snippet is not valid Ruby (%s)", snip.Class), "")}
		}
		findings := make([]Finding, 0, len(snip.Problems))
		for _, p := range snip.Problems {
			findings = append(findings, newFinding(p.Line, p.Column, p.Code, SeverityError, p.Message, p.Source))
		}
		return findings

	case runner.StatusIncomplete:
		var findings []Finding
		for _, open := range snip.Opens {
			findings = append(findings, newFinding(open.Line, open.Column, CodeUnclosed, SeverityWarning,
				UnclosedMessage(open.Kind, open.Text), open.Source))
		}
		for _, p := range snip.Problems {
			findings = append(findings, newFinding(p.Line, p.Column, p.Code, SeverityWarning, p.Message, p.Source))
		}
		if len(findings) == 0 {
			findings = append(findings, newFinding(snip.EndLine, 1, CodeContinuation, SeverityWarning,
				"snippet ends expecting more input", ""))
		}
		return findings

	default:
		return nil
	}
}

// UnclosedMessage describes a construct of the given kind left open.
func UnclosedMessage(kind, text string) string {
	switch kind {
	case "keyword":
		return fmt.Sprintf("%q is never closed with end", text)
	case "bracket":
		return fmt.Sprintf("%q is never closed", text)
	case "string":
		return fmt.Sprintf("literal %q is never terminated", text)
	case "heredoc":
		return fmt.Sprintf("heredoc %s is never terminated", text)
	case "embexpr":
		return "interpolation #{ is never closed"
	case "embdoc":
		return "=begin is never closed with =end"
	default:
		return fmt.Sprintf("%q is never closed", text)
	}
}
