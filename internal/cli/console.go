package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/rubynest/internal/logging"
	"github.com/yaklabco/rubynest/internal/ui/pretty"
	"github.com/yaklabco/rubynest/pkg/analysis"
	"github.com/yaklabco/rubynest/pkg/config"
	"github.com/yaklabco/rubynest/pkg/console"
	"github.com/yaklabco/rubynest/pkg/statement"
)

// consoleName is shown by the %N prompt directive.
const consoleName = "rubynest"

type consoleFlags struct {
	mode         string
	locals       []string
	noAutoIndent bool
}

// lineReader reads one line of console input. The suggestion pre-fills
// the line where the reader supports it.
type lineReader interface {
	PromptWithSuggestion(prompt, suggestion string, pos int) (string, error)
	AppendHistory(item string)
}

// errInterrupted is returned by a lineReader when the user discards the
// current buffer.
var errInterrupted = liner.ErrPromptAborted

func newConsoleCommand() *cobra.Command {
	flags := &consoleFlags{}

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Type Ruby in a console that knows when a statement ends",
		Long: `Start an interactive console. Each line is analyzed as you type:
the console keeps reading while a construct is open, pre-fills the next
line with its indentation, and shows the nesting in the prompt. A finished
statement is echoed with its kind instead of being evaluated.

Press Ctrl-C to discard the current statement and Ctrl-D to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConsole(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.mode, "prompt-mode", "", "prompt mode (default from config)")
	cmd.Flags().StringSliceVar(&flags.locals, "locals", nil, "local variables assumed to be in scope")
	cmd.Flags().BoolVar(&flags.noAutoIndent, "no-auto-indent", false, "do not pre-fill lines with indentation")

	return cmd
}

func runConsole(cmd *cobra.Command, flags *consoleFlags) error {
	ctx := commandContext(cmd)

	cliCfg := &config.Config{PromptMode: flags.mode, Locals: flags.locals}
	if flags.noAutoIndent {
		off := false
		cliCfg.AutoIndent = &off
	}
	cfg, _, err := loadConfig(ctx, cmd, cliCfg)
	if err != nil {
		return err
	}

	mode, err := promptMode(cfg)
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	logging.FromContext(ctx).Debug("starting console",
		logging.FieldMode, mode.Name,
		logging.FieldInteractive, interactive)

	session := &consoleSession{
		analyzer: newAnalyzer(cfg),
		prompter: &console.Prompter{
			Mode:        mode,
			Name:        consoleName,
			Main:        "main",
			MainInspect: "main",
			IndentWidth: cfg.IndentWidth,
		},
		out:        cmd.OutOrStdout(),
		styles:     pretty.NewStyles(pretty.IsColorEnabled(colorFlag(cmd), cmd.OutOrStdout())),
		autoIndent: cfg.AutoIndentEnabled(),
		logger:     logging.FromContext(ctx),
	}

	if !interactive {
		session.reader = newScanReader(in)
		return session.Run()
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetMultiLineMode(true)

	// Dumb terminals ignore suggestions, so the prompt carries the indent.
	session.prompter.AutoIndent = session.autoIndent && !liner.TerminalSupported()
	session.reader = line
	session.banner = true

	return session.Run()
}

// promptMode resolves the configured prompt mode, custom modes first.
func promptMode(cfg *config.Config) (console.Mode, error) {
	if custom, ok := cfg.Prompts[cfg.PromptMode]; ok {
		return console.Mode{
			Name:     cfg.PromptMode,
			Normal:   custom.Normal,
			String:   custom.String,
			Continue: custom.Continue,
			Return:   custom.Return,
		}, nil
	}
	mode, ok := console.LookupMode(cfg.PromptMode)
	if !ok {
		return console.Mode{}, fmt.Errorf("%w: unknown prompt mode %q", ErrConfig, cfg.PromptMode)
	}
	return mode, nil
}

// consoleSession reads statements line by line until end of input.
type consoleSession struct {
	analyzer   *console.Analyzer
	prompter   *console.Prompter
	reader     lineReader
	out        io.Writer
	styles     *pretty.Styles
	logger     *log.Logger
	autoIndent bool
	banner     bool

	lines  []string
	lineNo int
}

// Run reads and echoes statements until the reader reports end of input.
func (s *consoleSession) Run() error {
	if s.banner {
		fmt.Fprintln(s.out, s.styles.Dim.Render("rubynest console: Ctrl-C discards the statement, Ctrl-D quits"))
	}

	s.lineNo = 1
	var current *console.Analysis
	for {
		prompt := s.prompter.PromptFor(current, s.lineNo)
		line, err := s.reader.PromptWithSuggestion(prompt, s.suggestion(current), -1)
		switch {
		case errors.Is(err, io.EOF):
			if len(s.lines) > 0 {
				s.finish(current)
			}
			return nil
		case errors.Is(err, errInterrupted):
			s.lines, current = nil, nil
			continue
		case err != nil:
			return fmt.Errorf("read line: %w", err)
		}

		s.lines = append(s.lines, line)
		s.lineNo++

		current, err = s.analyzer.Analyze(s.buffer())
		if err != nil {
			s.logger.Debug("analysis failed", logging.FieldError, err)
		}
		if current.Continue {
			continue
		}
		s.finish(current)
		current = nil
	}
}

// suggestion returns the indentation to pre-fill the next line with.
func (s *consoleSession) suggestion(current *console.Analysis) string {
	if !s.autoIndent || current == nil || current.LiteralType() != "" {
		return ""
	}
	lines := append(slices.Clone(s.lines), "")
	indent, ok := s.analyzer.LineIndent(lines, len(s.lines), true)
	if !ok || indent <= 0 {
		return ""
	}
	return strings.Repeat(" ", indent)
}

func (s *consoleSession) buffer() string {
	return strings.Join(s.lines, "\n") + "\n"
}

// finish echoes the buffered statement and starts a new one.
func (s *consoleSession) finish(current *console.Analysis) {
	source := s.buffer()
	lineCount := len(s.lines)
	s.lines = nil
	if entry := strings.TrimRight(source, "\n"); strings.TrimSpace(entry) != "" {
		s.reader.AppendHistory(entry)
	}

	switch {
	case current != nil && current.Continue:
		// End of input inside an open construct.
		for _, open := range current.Opens {
			s.syntaxError(open.Pos.Line, open.Pos.Column, analysis.UnclosedMessage(open.Kind.String(), open.Text))
		}
		if len(current.Opens) == 0 {
			s.syntaxError(lineCount, 0, "unexpected end of input")
		}
		return
	case current != nil && len(current.Errors) > 0:
		for _, e := range current.Errors {
			s.syntaxError(e.Span.Start.Line, e.Span.Start.Column, e.Message)
		}
		return
	}

	stmt := statement.Parse(source, s.analyzer.Commands(), s.analyzer.Locals()...)
	if stmt.IsAssignment() {
		if names := statement.AssignedLocals(source, s.analyzer.Locals()...); len(names) > 0 {
			s.analyzer = s.analyzer.WithLocals(mergeLocals(s.analyzer.Locals(), names)...)
		}
	}
	if stmt.SuppressesEcho() {
		return
	}
	fmt.Fprint(s.out, s.prompter.FormatReturn(describeStatement(stmt)))
}

// syntaxError prints a syntax error at a 1-based line and 0-based column.
func (s *consoleSession) syntaxError(line, column int, message string) {
	fmt.Fprintf(s.out, "%s %s  %s\n",
		s.styles.Error.Render("SyntaxError:"),
		s.styles.Location.Render(fmt.Sprintf("%d:%d", line, column+1)),
		message)
}

// describeStatement renders the echo of a statement.
func describeStatement(stmt statement.Statement) string {
	switch {
	case stmt.Kind == statement.Command && stmt.Arg != "":
		return fmt.Sprintf("command %s %s", stmt.Name, stmt.Arg)
	case stmt.Kind == statement.Command:
		return "command " + stmt.Name
	case stmt.IsAssignment():
		return "assignment"
	default:
		return stmt.Kind.String()
	}
}

func mergeLocals(locals, names []string) []string {
	merged := slices.Clone(locals)
	for _, name := range names {
		if !slices.Contains(merged, name) {
			merged = append(merged, name)
		}
	}
	return merged
}

// scanReader reads lines from a non-interactive input without prompts.
type scanReader struct {
	scanner *bufio.Scanner
}

func newScanReader(r io.Reader) *scanReader {
	return &scanReader{scanner: bufio.NewScanner(r)}
}

func (r *scanReader) PromptWithSuggestion(_, _ string, _ int) (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", fmt.Errorf("scan input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSuffix(r.scanner.Text(), "\r"), nil
}

func (r *scanReader) AppendHistory(string) {}
