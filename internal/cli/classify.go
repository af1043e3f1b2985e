package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rubynest/internal/ui/pretty"
	"github.com/yaklabco/rubynest/pkg/config"
	"github.com/yaklabco/rubynest/pkg/statement"
)

type classifyFlags struct {
	format   string
	locals   []string
	commands []string
}

// classification is the result of classify in JSON output.
type classification struct {
	Verdict        string      `json:"verdict"`
	Class          string      `json:"class"`
	Continue       bool        `json:"continue"`
	Terminated     bool        `json:"terminated"`
	NestingLevel   int         `json:"nesting_level"`
	LiteralType    string      `json:"literal_type,omitempty"`
	Statement      string      `json:"statement"`
	Command        string      `json:"command,omitempty"`
	Assignment     bool        `json:"assignment"`
	SuppressesEcho bool        `json:"suppresses_echo"`
	Errors         []nestError `json:"errors"`
}

func newClassifyCommand() *cobra.Command {
	flags := &classifyFlags{}

	cmd := &cobra.Command{
		Use:   "classify [code]",
		Short: "Tell whether a console buffer is complete",
		Long: `Classify a buffer the way a console does after each line: continue
reading, or hand the buffer over for evaluation. The code comes from the
arguments, or from standard input when none are given.

Examples:
  rubynest classify 'def f'
  rubynest classify 'x = [1,'
  printf 'a = <<~E\n  x\nE\n' | rubynest classify`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().StringSliceVar(&flags.locals, "locals", nil, "local variables assumed to be in scope")
	cmd.Flags().StringSliceVar(&flags.commands, "commands", nil, "console command names (default from config)")

	return cmd
}

func runClassify(cmd *cobra.Command, args []string, flags *classifyFlags) error {
	ctx := commandContext(cmd)

	if flags.format != "text" && flags.format != formatJSON {
		return fmt.Errorf("%w: invalid format %q: must be text or json", ErrUsage, flags.format)
	}

	cfg, _, err := loadConfig(ctx, cmd, &config.Config{Locals: flags.locals, Commands: flags.commands})
	if err != nil {
		return err
	}

	var source string
	if len(args) > 0 {
		source = strings.Join(args, " ")
	} else {
		_, content, err := readInput(ctx, cmd, nil)
		if err != nil {
			return err
		}
		source = string(content)
	}
	if !strings.HasSuffix(source, "\n") {
		source += "\n"
	}

	analyzer := newAnalyzer(cfg)
	result, err := analyzer.Analyze(source)
	if err != nil {
		return fmt.Errorf("classify: %w", err)
	}

	out := classification{
		Verdict:      result.Verdict.String(),
		Class:        result.Class.String(),
		Continue:     result.Continue,
		Terminated:   result.Terminated,
		NestingLevel: result.NestingLevel(),
		LiteralType:  result.LiteralType(),
		Errors:       make([]nestError, 0, len(result.Errors)),
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
	if result.Terminated {
		stmt := statement.Parse(source, analyzer.Commands(), analyzer.Locals()...)
		out.Statement = stmt.Kind.String()
		out.Command = stmt.Name
		out.Assignment = stmt.IsAssignment()
		out.SuppressesEcho = stmt.SuppressesEcho()
	}

	if flags.format == formatJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encoding classification: %w", err)
		}
		return nil
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(colorFlag(cmd), cmd.OutOrStdout()))
	writeClassification(cmd.OutOrStdout(), styles, out)
	return nil
}

func writeClassification(w io.Writer, styles *pretty.Styles, out classification) {
	row := func(label, value string) {
		fmt.Fprintf(w, "%s%s\n", styles.SummaryTitle.Render(fmt.Sprintf("%-16s", label)), value)
	}

	verdict := styles.Success.Render(out.Verdict)
	if out.Continue {
		verdict = styles.Warning.Render(out.Verdict)
	}
	if out.Class != "valid" {
		verdict = styles.Failure.Render(out.Verdict)
	}

	row("verdict:", verdict)
	row("class:", out.Class)
	row("continue:", fmt.Sprint(out.Continue))
	row("nesting level:", fmt.Sprint(out.NestingLevel))
	if out.LiteralType != "" {
		row("literal:", out.LiteralType)
	}
	if out.Statement != "" {
		kind := out.Statement
		if out.Command != "" {
			kind += " " + out.Command
		}
		row("statement:", kind)
		row("assignment:", fmt.Sprint(out.Assignment))
		row("echo:", fmt.Sprint(!out.SuppressesEcho))
	}
	for _, e := range out.Errors {
		row("error:", fmt.Sprintf("%d:%d %s (%s)", e.Line, e.Column, e.Message, e.Code))
	}
}
