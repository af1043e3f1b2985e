package console

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Mode is a named set of prompt templates.
//
// Templates understand %N (console name), %m (main object label),
// %M (main object inspect label), %l (open literal character),
// %i (nesting level), %n (line number) and %%. %i and %n take an
// optional printf width such as %03n. An empty template renders an empty
// prompt.
type Mode struct {
	Name string `yaml:"-"`

	// Normal starts a statement.
	Normal string `yaml:"normal"`

	// String continues inside a string-like literal.
	String string `yaml:"string"`

	// Continue continues an unfinished statement.
	Continue string `yaml:"continue"`

	// Return formats an echoed result; %s is the result.
	Return string `yaml:"return"`
}

// Built-in prompt mode names.
const (
	ModeDefault = "default"
	ModeClassic = "classic"
	ModeSimple  = "simple"
	ModeInfRuby = "inf-ruby"
	ModeXMP     = "xmp"
	ModeNull    = "null"
)

//nolint:gochecknoglobals // Read-only table of built-in modes.
var builtinModes = map[string]Mode{
	ModeDefault: {
		Normal:   "%N(%m):%03n> ",
		String:   "%N(%m):%03n%l ",
		Continue: "%N(%m):%03n* ",
		Return:   "=> %s\n",
	},
	ModeClassic: {
		Normal:   "%N(%m):%03n:%i> ",
		String:   "%N(%m):%03n:%i%l ",
		Continue: "%N(%m):%03n:%i* ",
		Return:   "%s\n",
	},
	ModeSimple: {
		Normal:   ">> ",
		String:   "%l> ",
		Continue: "?> ",
		Return:   "=> %s\n",
	},
	ModeInfRuby: {
		Normal: "%N(%m):%03n> ",
		Return: "%s\n",
	},
	ModeXMP: {
		Return: "    ==>%s\n",
	},
	ModeNull: {
		Return: "%s\n",
	},
}

// LookupMode returns the built-in mode called name.
func LookupMode(name string) (Mode, bool) {
	mode, ok := builtinModes[name]
	mode.Name = name
	return mode, ok
}

// ModeNames returns the built-in mode names in order.
func ModeNames() []string {
	names := make([]string, 0, len(builtinModes))
	for name := range builtinModes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// maxMainLength bounds the %m and %M labels.
const maxMainLength = 32

// Prompter renders prompts for one console session.
type Prompter struct {
	Mode Mode

	// Name is the console name shown by %N.
	Name string

	// Main and MainInspect are shown by %m and %M.
	Main        string
	MainInspect string

	// AutoIndent pads continuation prompts to the indentation of the
	// next line, for line editors that cannot pre-fill input.
	AutoIndent  bool
	IndentWidth int
}

//nolint:gochecknoglobals // Compiled once.
var promptDirective = regexp.MustCompile(`%([0-9]+)?([a-zA-Z%])`)

// Render expands the directives of format.
func (p *Prompter) Render(format, ltype string, level, lineNo int) string {
	return promptDirective.ReplaceAllStringFunc(format, func(directive string) string {
		m := promptDirective.FindStringSubmatch(directive)
		width, verb := m[1], m[2]
		switch verb {
		case "N":
			return p.Name
		case "m":
			return truncateMain(p.Main)
		case "M":
			return truncateMain(p.MainInspect)
		case "l":
			return ltype
		case "i":
			if level < 0 {
				if width != "" {
					n, _ := strconv.Atoi(width)
					return fmt.Sprintf("%*s", n, "-")
				}
				return "-"
			}
			return formatNumber(width, level)
		case "n":
			return formatNumber(width, lineNo)
		case "%":
			if width == "" {
				return "%"
			}
		}
		return ""
	})
}

// PromptFor returns the prompt for line lineNo following the buffer
// described by analysis. A nil analysis stands for an empty buffer.
func (p *Prompter) PromptFor(analysis *Analysis, lineNo int) string {
	var ltype string
	level, indentLevel := 0, 0
	continuing := false
	if analysis != nil {
		ltype = analysis.LiteralType()
		level = analysis.NestingLevel()
		indentLevel = analysis.IndentLevel()
		continuing = len(analysis.Opens) > 0 || analysis.LineContinues
	}

	format := p.Mode.Normal
	switch {
	case ltype != "":
		format = p.Mode.String
	case continuing:
		format = p.Mode.Continue
	}
	prompt := p.Render(format, ltype, level, lineNo)

	if p.AutoIndent && ltype == "" {
		normal := p.Render(p.Mode.Normal, ltype, level, lineNo)
		if i := strings.LastIndexByte(normal, '\n'); i >= 0 {
			normal = normal[i+1:]
		}
		width := p.IndentWidth
		if width <= 0 {
			width = DefaultIndentWidth
		}
		if pad := len(normal) + indentLevel*width - len(prompt); pad > 0 {
			prompt += strings.Repeat(" ", pad)
		}
	}
	return prompt
}

// FormatReturn renders an echoed result with the mode's return template.
func (p *Prompter) FormatReturn(result string) string {
	if p.Mode.Return == "" {
		return result + "\n"
	}
	return strings.ReplaceAll(p.Mode.Return, "%s", result)
}

func formatNumber(width string, n int) string {
	if width == "" {
		return strconv.Itoa(n)
	}
	return fmt.Sprintf("%"+width+"d", n)
}

func truncateMain(label string) string {
	label = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, label)
	if len(label) > maxMainLength {
		return label[:maxMainLength-3] + "..."
	}
	return label
}
