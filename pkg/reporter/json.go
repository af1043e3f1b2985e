package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/rubynest/pkg/analysis"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string          `json:"version"`
	Files   []JSONFile      `json:"files"`
	Summary analysis.Totals `json:"summary"`
}

// JSONFile is one file with its snippets and findings.
type JSONFile struct {
	analysis.FileEntry

	Findings []analysis.Finding `json:"findings"`
}

// JSONRenderer formats reports as JSON.
type JSONRenderer struct {
	opts Options
}

// NewJSONRenderer creates a new JSON renderer.
func NewJSONRenderer(opts Options) *JSONRenderer {
	return &JSONRenderer{opts: opts}
}

// Render implements Renderer.
func (r *JSONRenderer) Render(_ context.Context, report *analysis.Report) error {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)

	encoder := json.NewEncoder(bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(BuildJSONOutput(report)); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return bw.Flush()
}

// BuildJSONOutput attaches each finding to its file entry.
func BuildJSONOutput(report *analysis.Report) *JSONOutput {
	output := &JSONOutput{
		Version: report.Version,
		Files:   make([]JSONFile, 0, len(report.Files)),
		Summary: report.Totals,
	}

	byPath := make(map[string][]analysis.Finding)
	for _, finding := range report.Findings {
		byPath[finding.FilePath] = append(byPath[finding.FilePath], finding)
	}
	for _, file := range report.Files {
		findings := byPath[file.Path]
		if findings == nil {
			findings = []analysis.Finding{}
		}
		output.Files = append(output.Files, JSONFile{FileEntry: file, Findings: findings})
	}
	return output
}
