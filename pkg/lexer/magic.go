package lexer

import (
	"regexp"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

//nolint:gochecknoglobals // Compiled once.
var magicCommentPattern = regexp.MustCompile(`^\s*#.*?coding\s*[:=]\s*([\w.-]+)`)

// rubyEncodings are names Ruby accepts that are not registered with IANA.
//
//nolint:gochecknoglobals // Read-only lookup table.
var rubyEncodings = map[string]struct{}{
	"ascii":                 {},
	"ascii-8bit":            {},
	"binary":                {},
	"big5-hkscs":            {},
	"cp51932":               {},
	"cp50220":               {},
	"cp50221":               {},
	"cp65001":               {},
	"cp932":                 {},
	"cp936":                 {},
	"cp949":                 {},
	"cp950":                 {},
	"emacs-mule":            {},
	"eucjp":                 {},
	"eucjp-ms":              {},
	"euc-jp-ms":             {},
	"external":              {},
	"filesystem":            {},
	"locale":                {},
	"macjapanese":           {},
	"sjis":                  {},
	"stateless-iso-2022-jp": {},
	"utf-8-hfs":             {},
	"utf-8-mac":             {},
	"utf8-mac":              {},
}

// MagicEncoding returns the encoding declared by a magic comment on the
// first line of source, or on the second line after a shebang.
func MagicEncoding(source string) (string, bool) {
	lines := strings.SplitN(source, "\n", 3)
	if len(lines) > 1 && strings.HasPrefix(lines[0], "#!") {
		lines = lines[1:]
	}
	if m := magicCommentPattern.FindStringSubmatch(lines[0]); m != nil {
		return m[1], true
	}
	return "", false
}

// KnownEncoding reports whether name is an encoding Ruby would accept in a
// magic comment. Emacs line-ending suffixes are ignored.
func KnownEncoding(name string) bool {
	name = strings.ToLower(name)
	if _, ok := rubyEncodings[name]; ok {
		return true
	}
	for _, suffix := range []string{"-unix", "-dos", "-mac"} {
		name = strings.TrimSuffix(name, suffix)
	}
	if _, ok := rubyEncodings[name]; ok {
		return true
	}
	_, err := ianaindex.IANA.Encoding(name)
	return err == nil
}
