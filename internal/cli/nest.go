package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/rubynest/internal/logging"
	"github.com/yaklabco/rubynest/internal/ui/pretty"
	"github.com/yaklabco/rubynest/pkg/config"
	"github.com/yaklabco/rubynest/pkg/console"
	"github.com/yaklabco/rubynest/pkg/nesting"
)

const formatJSON = "json"

type nestFlags struct {
	format string
	locals []string
}

// nestElement is an open construct in JSON output.
type nestElement struct {
	Kind   string `json:"kind"`
	Text   string `json:"text"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// nestLine is the nesting state of one line in JSON output.
type nestLine struct {
	Line     int           `json:"line"`
	Text     string        `json:"text"`
	MinDepth int           `json:"min_depth"`
	Depth    int           `json:"depth"`
	Indent   *int          `json:"indent"`
	Opens    []nestElement `json:"opens"`
}

// nestError is a syntax error in JSON output.
type nestError struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// nestOutput is the JSON document written by nest --format json.
type nestOutput struct {
	Source       string        `json:"source"`
	Verdict      string        `json:"verdict"`
	Class        string        `json:"class"`
	NestingLevel int           `json:"nesting_level"`
	Lines        []nestLine    `json:"lines"`
	Opens        []nestElement `json:"opens"`
	Errors       []nestError   `json:"errors"`
}

func newNestCommand() *cobra.Command {
	flags := &nestFlags{}

	cmd := &cobra.Command{
		Use:   "nest [file|-]",
		Short: "Show the nesting state of every line",
		Long: `Show, for every line of a Ruby file or standard input, how deeply it
is nested, the indentation it calls for, and the constructs open after it.

MIN is the depth shared by the states before and after the line, DEPTH the
number of constructs open after it, and INDENT the computed leading spaces
("-" where the line keeps the indentation it has, as inside a string).

Examples:
  rubynest nest lib/a.rb
  echo 'def f' | rubynest nest
  rubynest nest --format json lib/a.rb`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNest(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().StringSliceVar(&flags.locals, "locals", nil, "local variables assumed to be in scope")

	return cmd
}

func runNest(cmd *cobra.Command, args []string, flags *nestFlags) error {
	ctx := commandContext(cmd)

	if flags.format != "text" && flags.format != formatJSON {
		return fmt.Errorf("%w: invalid format %q: must be text or json", ErrUsage, flags.format)
	}

	cfg, _, err := loadConfig(ctx, cmd, &config.Config{Locals: flags.locals})
	if err != nil {
		return err
	}

	name, content, err := readInput(ctx, cmd, args)
	if err != nil {
		return err
	}

	analyzer := newAnalyzer(cfg)
	result, err := analyzer.Analyze(string(content))
	if err != nil {
		return fmt.Errorf("analyze %s: %w", name, err)
	}
	logging.FromContext(ctx).Debug("analyzed",
		logging.FieldInput, name,
		logging.FieldVerdict, result.Verdict,
		logging.FieldClass, result.Class)

	out := buildNestOutput(name, analyzer, result)
	if flags.format == formatJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encoding nesting: %w", err)
		}
		return nil
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(colorFlag(cmd), cmd.OutOrStdout()))
	writeNestText(cmd.OutOrStdout(), styles, out)
	return nil
}

func buildNestOutput(name string, analyzer *console.Analyzer, result *console.Analysis) nestOutput {
	lines := sourceLines(result.Source)
	out := nestOutput{
		Source:       name,
		Verdict:      result.Verdict.String(),
		Class:        result.Class.String(),
		NestingLevel: result.NestingLevel(),
		Lines:        make([]nestLine, 0, len(result.Snapshots)),
		Opens:        toNestElements(result.Opens),
		Errors:       make([]nestError, 0, len(result.Errors)),
	}

	for i, snap := range result.Snapshots {
		line := nestLine{
			Line:     snap.Line,
			MinDepth: snap.MinDepth,
			Depth:    len(snap.Current),
			Opens:    toNestElements(snap.Current),
		}
		if i < len(lines) {
			line.Text = lines[i]
			if indent, ok := analyzer.LineIndent(lines, i, false); ok {
				line.Indent = &indent
			}
		}
		out.Lines = append(out.Lines, line)
	}

	for _, syntaxErr := range result.Errors {
		start := syntaxErr.Span.Start
		out.Errors = append(out.Errors, nestError{
			Line:    start.Line,
			Column:  start.Column + 1,
			Code:    syntaxErr.Code.String(),
			Message: syntaxErr.Message,
		})
	}
	return out
}

func toNestElements(elems []nesting.Element) []nestElement {
	out := make([]nestElement, 0, len(elems))
	for _, elem := range elems {
		out = append(out, nestElement{
			Kind:   elem.Kind.String(),
			Text:   elem.Text,
			Line:   elem.Pos.Line,
			Column: elem.Pos.Column + 1,
		})
	}
	return out
}

func writeNestText(w io.Writer, styles *pretty.Styles, out nestOutput) {
	opens := make([]string, len(out.Lines))
	width := len("OPEN")
	for i, line := range out.Lines {
		parts := make([]string, 0, len(line.Opens))
		for _, elem := range line.Opens {
			parts = append(parts, styles.FormatElement(elem.Kind, elem.Text))
		}
		opens[i] = strings.Join(parts, " ")
		width = max(width, lipgloss.Width(opens[i]))
	}

	header := fmt.Sprintf("%4s  %3s  %5s  %6s  %-*s  %s", "LINE", "MIN", "DEPTH", "INDENT", width, "OPEN", "SOURCE")
	fmt.Fprintln(w, styles.TableHeader.Render(header))

	for i, line := range out.Lines {
		indent := "-"
		if line.Indent != nil {
			indent = strconv.Itoa(*line.Indent)
		}
		pad := strings.Repeat(" ", width-lipgloss.Width(opens[i]))
		fmt.Fprintf(w, "%4d  %3d  %5d  %6s  %s%s  %s\n",
			line.Line, line.MinDepth, line.Depth, indent, opens[i], pad,
			styles.SourceLine.Render(line.Text))
	}

	fmt.Fprintln(w)
	for _, e := range out.Errors {
		fmt.Fprintf(w, "%s %s  %s  %s\n",
			styles.FormatSeverity("error"),
			styles.Location.Render(fmt.Sprintf("%d:%d", e.Line, e.Column)),
			styles.Message.Render(e.Message),
			styles.Code.Render("("+e.Code+")"))
	}
	fmt.Fprintf(w, "%s %s (%s), nesting level %d\n",
		styles.Bold.Render("Verdict:"), out.Verdict, out.Class, out.NestingLevel)
}

// sourceLines splits source into lines without their terminators.
func sourceLines(source string) []string {
	if source == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(source, "\n"), "\n")
}
