// Package snippet extracts the Ruby code to analyze from files on disk.
// A Ruby source file is one snippet. A Markdown file yields one snippet
// per fenced code block written in Ruby.
package snippet

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// FileKind classifies a file for extraction.
type FileKind int

const (
	// KindOther is a file with no Ruby to analyze.
	KindOther FileKind = iota

	// KindRuby is a Ruby source file.
	KindRuby

	// KindMarkdown is a Markdown document.
	KindMarkdown
)

// String returns the name of the kind.
func (k FileKind) String() string {
	switch k {
	case KindRuby:
		return "ruby"
	case KindMarkdown:
		return "markdown"
	default:
		return "other"
	}
}

// Enry language names.
const (
	languageRuby     = "Ruby"
	languageMarkdown = "Markdown"
)

// DefaultFenceLabels are the info strings marking a fence as Ruby.
func DefaultFenceLabels() []string {
	return []string{"ruby", "rb", "irb"}
}

// Options controls extraction.
type Options struct {
	// Markdown enables extraction from Markdown fences.
	Markdown bool

	// FenceLabels are the info strings marking a fence as Ruby. Empty
	// means DefaultFenceLabels.
	FenceLabels []string

	// DetectUnlabeled classifies fences without an info string by their
	// content.
	DetectUnlabeled bool
}

func (o Options) labels() []string {
	if len(o.FenceLabels) == 0 {
		return DefaultFenceLabels()
	}
	return o.FenceLabels
}

// Segment locates one snippet line in its file.
type Segment struct {
	// Offset is the byte offset of the line in the file.
	Offset int

	// Line is the 1-based line number in the file.
	Line int

	// Column is the byte column of the line start in the file. It is
	// non-zero for fences nested in indented blocks.
	Column int
}

// Snippet is a unit of Ruby code taken from a file.
type Snippet struct {
	Path string

	// Index numbers the snippets of a file from 0.
	Index int

	// Code is the Ruby source, newline terminated.
	Code string

	// Fenced is set for snippets from Markdown fences.
	Fenced bool

	// Info is the fence info string.
	Info string

	// Segments maps each line of Code to the file.
	Segments []Segment
}

// StartLine returns the file line of the first snippet line.
func (s *Snippet) StartLine() int {
	if len(s.Segments) == 0 {
		return 1
	}
	return s.Segments[0].Line
}

// FileLine maps a 1-based snippet line to its file line.
func (s *Snippet) FileLine(line int) int {
	switch {
	case line < 1 || len(s.Segments) == 0:
		return s.StartLine()
	case line > len(s.Segments):
		return s.Segments[len(s.Segments)-1].Line + line - len(s.Segments)
	default:
		return s.Segments[line-1].Line
	}
}

// FilePosition maps a 1-based snippet line and 0-based byte column to
// the file line and column.
func (s *Snippet) FilePosition(line, column int) (int, int) {
	if line < 1 || line > len(s.Segments) {
		return s.FileLine(line), column
	}
	seg := s.Segments[line-1]
	return seg.Line, seg.Column + column
}

// FileOffset maps a 1-based snippet line and byte column to a file offset.
// It returns -1 when the line is outside the snippet.
func (s *Snippet) FileOffset(line, column int) int {
	if line < 1 || line > len(s.Segments) {
		return -1
	}
	return s.Segments[line-1].Offset + column
}

// Classify decides how path is read: by file name, then extension, then
// an interpreter line.
func Classify(path string, content []byte) FileKind {
	if lang, _ := enry.GetLanguageByFilename(path); lang != "" {
		return kindOf(lang)
	}

	// Extensions can be ambiguous (.md is also GCC machine description).
	if candidates := enry.GetLanguagesByExtension(path, content, nil); len(candidates) > 0 {
		switch {
		case slices.Contains(candidates, languageRuby):
			return KindRuby
		case slices.Contains(candidates, languageMarkdown):
			return KindMarkdown
		default:
			return KindOther
		}
	}

	lang, _ := enry.GetLanguageByShebang(content)
	return kindOf(lang)
}

func kindOf(lang string) FileKind {
	switch lang {
	case languageRuby:
		return KindRuby
	case languageMarkdown:
		return KindMarkdown
	default:
		return KindOther
	}
}

// Extract returns the Ruby snippets of a file.
func Extract(ctx context.Context, path string, content []byte, opts Options) ([]Snippet, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract cancelled: %w", err)
	}

	switch Classify(path, content) {
	case KindRuby:
		return []Snippet{wholeFile(path, content)}, nil
	case KindMarkdown:
		if !opts.Markdown {
			return nil, nil
		}
		return extractFences(path, content, opts), nil
	default:
		return nil, nil
	}
}

func wholeFile(path string, content []byte) Snippet {
	code := string(content)
	snip := Snippet{Path: path, Code: code}

	offset := 0
	for line := 1; offset < len(code) || line == 1; line++ {
		snip.Segments = append(snip.Segments, Segment{Offset: offset, Line: line})
		next := strings.IndexByte(code[offset:], '\n')
		if next < 0 {
			break
		}
		offset += next + 1
	}
	if code != "" && !strings.HasSuffix(code, "\n") {
		snip.Code += "\n"
	}
	return snip
}

func extractFences(path string, content []byte, opts Options) []Snippet {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(content))
	lineStarts := lineOffsets(content)
	labels := opts.labels()

	var snippets []Snippet
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		info := ""
		if block.Info != nil {
			info = strings.TrimSpace(string(block.Info.Segment.Value(content)))
		}
		lang := strings.ToLower(string(block.Language(content)))

		var code bytes.Buffer
		var segments []Segment
		lines := block.Lines()
		for i := range lines.Len() {
			seg := lines.At(i)
			code.Write(seg.Value(content))
			line := lineOf(lineStarts, seg.Start)
			segments = append(segments, Segment{Offset: seg.Start, Line: line, Column: seg.Start - lineStarts[line-1]})
		}
		if len(segments) == 0 {
			return ast.WalkSkipChildren, nil
		}

		switch {
		case lang != "" && slices.Contains(labels, lang):
		case lang == "" && opts.DetectUnlabeled && LooksLikeRuby(code.Bytes()):
		default:
			return ast.WalkSkipChildren, nil
		}

		snippets = append(snippets, Snippet{
			Path:     path,
			Index:    len(snippets),
			Code:     code.String(),
			Fenced:   true,
			Info:     info,
			Segments: segments,
		})
		return ast.WalkSkipChildren, nil
	})
	return snippets
}

//nolint:gochecknoglobals // Read-only candidate list.
var classifierCandidates = []string{
	languageRuby, "Python", "Shell", "JavaScript", "Go", "Perl", "Crystal",
	"Elixir", "YAML", "JSON", "SQL",
}

// LooksLikeRuby reports whether unlabeled code is Ruby, by interpreter
// line first and the enry classifier second.
func LooksLikeRuby(code []byte) bool {
	if len(bytes.TrimSpace(code)) == 0 {
		return false
	}
	if lang, safe := enry.GetLanguageByShebang(code); safe {
		return lang == languageRuby
	}
	if rubyIdioms(code) {
		return true
	}
	lang, safe := enry.GetLanguageByClassifier(code, classifierCandidates)
	return safe && lang == languageRuby
}

// rubyIdioms catches short snippets the classifier is unsure about.
func rubyIdioms(code []byte) bool {
	s := string(code)
	hasEnd := strings.Contains(s, "\nend") || strings.HasPrefix(s, "end")
	switch {
	case strings.Contains(s, "require '") || strings.Contains(s, "require \""):
		return !strings.Contains(s, "require(")
	case strings.Contains(s, "def ") && hasEnd && !strings.Contains(s, "):"):
		return true
	case strings.Contains(s, " do |") && hasEnd:
		return true
	case strings.Contains(s, "attr_accessor ") || strings.Contains(s, "attr_reader "):
		return true
	}
	return false
}

func lineOffsets(content []byte) []int {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func lineOf(starts []int, offset int) int {
	i, found := slices.BinarySearch(starts, offset)
	if found {
		return i + 1
	}
	return i
}
