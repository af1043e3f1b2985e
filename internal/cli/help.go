package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/rubynest/internal/configloader"
	"github.com/yaklabco/rubynest/internal/ui/pretty"
)

const usageTemplate = `{{ heading "Usage:" }}
  {{if .Runnable}}{{ command .UseLine }}{{end}}
  {{if .HasAvailableSubCommands}}{{ command .CommandPath }} [command]{{end}}

{{- if gt (len .Aliases) 0}}

{{ heading "Aliases:" }}
  {{ dim (join .Aliases ", ") }}
{{- end}}

{{- if .HasExample}}

{{ heading "Examples:" }}
{{ dim .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ heading "Available Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ name (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}

{{- if not .HasParent}}

{{ heading "Environment:" }}
{{ env }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{if or .Runnable .HasSubCommands}}{{ command .CommandPath }}{{if .Version}} {{ dim .Version }}{{end}}

{{end}}{{with (or .Long .Short)}}{{ . | trimTrailingWhitespaces }}

{{end}}` + usageTemplate

// helpStyles style help output with the colors of the rest of the output.
type helpStyles struct {
	command lipgloss.Style
	heading lipgloss.Style
	name    lipgloss.Style
	flag    lipgloss.Style
	dim     lipgloss.Style
}

func newHelpStyles(colorEnabled bool) helpStyles {
	s := pretty.NewStyles(colorEnabled)
	return helpStyles{
		command: s.Bold,
		heading: s.Warning,
		name:    s.Literal,
		flag:    s.Bracket,
		dim:     s.Dim,
	}
}

func (s helpStyles) funcs() template.FuncMap {
	return template.FuncMap{
		"command":                 s.command.Render,
		"heading":                 s.heading.Render,
		"name":                    s.name.Render,
		"dim":                     s.dim.Render,
		"flags":                   s.flagUsages,
		"env":                     s.envUsages,
		"join":                    strings.Join,
		"rpad":                    rpad,
		"trimTrailingWhitespaces": trimTrailingWhitespaces,
	}
}

// applyHelp installs styled help and usage output on root; subcommands
// inherit it. Color is resolved each time help is shown, from --color and
// the command's output.
func applyHelp(root *cobra.Command) {
	root.SetUsageFunc(func(cmd *cobra.Command) error {
		return renderHelp(cmd, usageTemplate)
	})
	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		if err := renderHelp(cmd, helpTemplate); err != nil {
			cmd.PrintErrln(err)
		}
	})
}

func renderHelp(cmd *cobra.Command, text string) error {
	styles := newHelpStyles(pretty.IsColorEnabled(colorFlag(cmd), cmd.OutOrStdout()))
	tmpl, err := template.New("help").Funcs(styles.funcs()).Parse(text)
	if err != nil {
		return fmt.Errorf("parse help template: %w", err)
	}
	if err := tmpl.Execute(cmd.OutOrStdout(), cmd); err != nil {
		return fmt.Errorf("render help: %w", err)
	}
	return nil
}

// flagUsages renders one aligned line per visible flag.
func (s helpStyles) flagUsages(fs *pflag.FlagSet) string {
	type row struct {
		names, varname, usage string
	}

	var rows []row
	width := 0
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		names := "    --" + f.Name
		if f.Shorthand != "" {
			names = "-" + f.Shorthand + ", --" + f.Name
		}
		varname, usage := pflag.UnquoteUsage(f)
		if def := defaultText(f); def != "" {
			usage += " (default " + def + ")"
		}

		r := row{names: names, varname: varname, usage: usage}
		rows = append(rows, r)
		width = max(width, len(flagColumn(r.names, r.varname)))
	})

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		styled := s.flag.Render(r.names)
		if r.varname != "" {
			styled += " " + s.dim.Render(r.varname)
		}
		pad := strings.Repeat(" ", width-len(flagColumn(r.names, r.varname)))
		lines = append(lines, "  "+styled+pad+"   "+r.usage)
	}
	return strings.Join(lines, "\n")
}

func flagColumn(names, varname string) string {
	if varname == "" {
		return names
	}
	return names + " " + varname
}

// defaultText renders a flag default worth mentioning, or "".
func defaultText(f *pflag.Flag) string {
	switch f.DefValue {
	case "", "false", "0", "[]":
		return ""
	}
	if f.Value.Type() == "string" {
		return fmt.Sprintf("%q", f.DefValue)
	}
	return f.DefValue
}

// envUsages lists the environment variables that override configuration.
func (s helpStyles) envUsages() string {
	vars := configloader.ListEnvVars()
	names := make([]string, 0, len(vars))
	width := 0
	for name := range vars {
		names = append(names, name)
		width = max(width, len(name))
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, "  "+s.flag.Render(rpad(name, width))+"   "+vars[name])
	}
	return strings.Join(lines, "\n")
}

func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
