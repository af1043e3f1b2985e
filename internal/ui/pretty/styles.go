// Package pretty renders rubynest output with lipgloss styles.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color modes accepted by IsColorEnabled.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Styles holds the styles of every kind of output element.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style

	// Finding parts.
	FilePath   lipgloss.Style
	Location   lipgloss.Style
	Code       lipgloss.Style
	Message    lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	// Open constructs, by kind.
	Keyword lipgloss.Style
	Bracket lipgloss.Style
	Literal lipgloss.Style

	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	TableHeader    lipgloss.Style
	TableErrorRow  lipgloss.Style
	TableWarnRow   lipgloss.Style
	TableLegend    lipgloss.Style
	TableSeparator lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// palette names the ANSI 256 colors the styles are built from.
type palette struct {
	red, yellow, green, cyan, magenta, grey, light lipgloss.Color
}

//nolint:gochecknoglobals // Read-only color table.
var ansiPalette = &palette{
	red:     "9",
	yellow:  "11",
	green:   "10",
	cyan:    "14",
	magenta: "13",
	grey:    "8",
	light:   "7",
}

// NewStyles returns colored styles, or plain ones when color is off.
func NewStyles(colorEnabled bool) *Styles {
	if colorEnabled {
		return newStyles(ansiPalette)
	}
	return newStyles(nil)
}

// newStyles builds the styles from p. A nil palette yields styles that
// render text unchanged.
func newStyles(p *palette) *Styles {
	plain := lipgloss.NewStyle()
	if p == nil {
		s := &Styles{}
		for _, style := range s.all() {
			*style = plain
		}
		return s
	}

	fg := func(c lipgloss.Color) lipgloss.Style { return plain.Foreground(c) }
	bold := plain.Bold(true)

	return &Styles{
		Error:   fg(p.red).Bold(true),
		Warning: fg(p.yellow).Bold(true),

		FilePath:   bold,
		Location:   fg(p.grey),
		Code:       fg(p.grey),
		Message:    plain,
		SourceLine: fg(p.light),
		Caret:      fg(p.red),

		Keyword: fg(p.magenta).Bold(true),
		Bracket: fg(p.cyan),
		Literal: fg(p.green),

		DiffHeader:  bold,
		DiffHunk:    fg(p.cyan),
		DiffAdd:     fg(p.green),
		DiffRemove:  fg(p.red),
		DiffContext: fg(p.grey),

		SummaryTitle: bold,
		SummaryValue: plain,
		Success:      fg(p.green).Bold(true),
		Failure:      fg(p.red).Bold(true),

		TableHeader:    fg(p.light).Bold(true),
		TableErrorRow:  fg(p.red),
		TableWarnRow:   fg(p.yellow),
		TableLegend:    fg(p.grey).Italic(true),
		TableSeparator: fg(p.grey),

		Dim:  fg(p.grey),
		Bold: bold,
	}
}

func (s *Styles) all() []*lipgloss.Style {
	return []*lipgloss.Style{
		&s.Error, &s.Warning,
		&s.FilePath, &s.Location, &s.Code, &s.Message, &s.SourceLine, &s.Caret,
		&s.Keyword, &s.Bracket, &s.Literal,
		&s.DiffHeader, &s.DiffHunk, &s.DiffAdd, &s.DiffRemove, &s.DiffContext,
		&s.SummaryTitle, &s.SummaryValue, &s.Success, &s.Failure,
		&s.TableHeader, &s.TableErrorRow, &s.TableWarnRow, &s.TableLegend, &s.TableSeparator,
		&s.Dim, &s.Bold,
	}
}

// IsColorEnabled resolves a color mode for writer. Any mode other than
// always or never is auto: color only on a terminal and only when
// NO_COLOR is unset (https://no-color.org/).
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
