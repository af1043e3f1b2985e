package reporter

import (
	"fmt"
	"strings"

	"github.com/yaklabco/rubynest/pkg/config"
)

// Format represents an output format.
type Format string

// Output formats supported by the reporter. FormatDiff is only used to
// show reindentation changes.
const (
	FormatText    Format = "text"
	FormatTable   Format = "table"
	FormatJSON    Format = "json"
	FormatSARIF   Format = "sarif"
	FormatSummary Format = "summary"
	FormatDiff    Format = "diff"
)

// ParseFormat parses a format string, returning an error for unknown formats.
func ParseFormat(formatStr string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(formatStr)))
	if format == "" {
		return FormatText, nil
	}
	if !format.IsValid() {
		return "", fmt.Errorf("unknown format %q; valid formats: text, table, json, sarif, summary, diff", formatStr)
	}
	return format, nil
}

// FromConfig maps a configured output format to a reporter format.
func FromConfig(format config.OutputFormat) Format {
	if format == "" {
		return FormatText
	}
	return Format(format)
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsValid returns true if the format is a known valid format.
func (f Format) IsValid() bool {
	switch f {
	case FormatText, FormatTable, FormatJSON, FormatSARIF, FormatSummary, FormatDiff:
		return true
	default:
		return false
	}
}
