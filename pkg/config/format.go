package config

import (
	"fmt"
	"strings"
)

// OutputFormats returns the accepted output formats in display order.
func OutputFormats() []OutputFormat {
	return []OutputFormat{FormatText, FormatTable, FormatJSON, FormatSARIF, FormatSummary}
}

// ParseOutputFormat parses a format name, ignoring case.
func ParseOutputFormat(name string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(name)))
	if !format.IsValid() {
		names := make([]string, 0, len(OutputFormats()))
		for _, f := range OutputFormats() {
			names = append(names, string(f))
		}
		return "", fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(names, ", "))
	}
	return format, nil
}
