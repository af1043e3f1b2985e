package lexer

import "github.com/yaklabco/rubynest/pkg/syntax"

// keyword describes a reserved word: its kind, the kind of its trailing
// modifier form (0 if it has none) and the state after it.
type keyword struct {
	kind     syntax.TokenKind
	modifier syntax.TokenKind
	state    syntax.LexState
}

//nolint:gochecknoglobals // Read-only lookup table.
var keywords = map[string]keyword{
	"__ENCODING__": {kind: syntax.TokKwEncoding, state: syntax.StateEnd},
	"__LINE__":     {kind: syntax.TokKwLine, state: syntax.StateEnd},
	"__FILE__":     {kind: syntax.TokKwFile, state: syntax.StateEnd},
	"BEGIN":        {kind: syntax.TokKwBEGIN, state: syntax.StateEnd},
	"END":          {kind: syntax.TokKwEND, state: syntax.StateEnd},
	"alias":        {kind: syntax.TokKwAlias, state: syntax.StateFname | syntax.StateFitem},
	"and":          {kind: syntax.TokKwAnd, state: syntax.StateValue},
	"begin":        {kind: syntax.TokKwBegin, state: syntax.StateBeg},
	"break":        {kind: syntax.TokKwBreak, state: syntax.StateMid},
	"case":         {kind: syntax.TokKwCase, state: syntax.StateValue},
	"class":        {kind: syntax.TokKwClass, state: syntax.StateClass},
	"def":          {kind: syntax.TokKwDef, state: syntax.StateFname},
	"defined?":     {kind: syntax.TokKwDefined, state: syntax.StateArg},
	"do":           {kind: syntax.TokKwDo, state: syntax.StateBeg},
	"else":         {kind: syntax.TokKwElse, state: syntax.StateBeg},
	"elsif":        {kind: syntax.TokKwElsif, state: syntax.StateValue},
	"end":          {kind: syntax.TokKwEnd, state: syntax.StateEnd},
	"ensure":       {kind: syntax.TokKwEnsure, state: syntax.StateBeg},
	"false":        {kind: syntax.TokKwFalse, state: syntax.StateEnd},
	"for":          {kind: syntax.TokKwFor, state: syntax.StateValue},
	"if":           {kind: syntax.TokKwIf, modifier: syntax.TokKwIfMod, state: syntax.StateValue},
	"in":           {kind: syntax.TokKwIn, state: syntax.StateValue},
	"module":       {kind: syntax.TokKwModule, state: syntax.StateValue},
	"next":         {kind: syntax.TokKwNext, state: syntax.StateMid},
	"nil":          {kind: syntax.TokKwNil, state: syntax.StateEnd},
	"not":          {kind: syntax.TokKwNot, state: syntax.StateArg},
	"or":           {kind: syntax.TokKwOr, state: syntax.StateValue},
	"redo":         {kind: syntax.TokKwRedo, state: syntax.StateEnd},
	"rescue":       {kind: syntax.TokKwRescue, modifier: syntax.TokKwRescueMod, state: syntax.StateMid},
	"retry":        {kind: syntax.TokKwRetry, state: syntax.StateEnd},
	"return":       {kind: syntax.TokKwReturn, state: syntax.StateMid},
	"self":         {kind: syntax.TokKwSelf, state: syntax.StateEnd},
	"super":        {kind: syntax.TokKwSuper, state: syntax.StateArg},
	"then":         {kind: syntax.TokKwThen, state: syntax.StateBeg},
	"true":         {kind: syntax.TokKwTrue, state: syntax.StateEnd},
	"undef":        {kind: syntax.TokKwUndef, state: syntax.StateFname | syntax.StateFitem},
	"unless":       {kind: syntax.TokKwUnless, modifier: syntax.TokKwUnlessMod, state: syntax.StateValue},
	"until":        {kind: syntax.TokKwUntil, modifier: syntax.TokKwUntilMod, state: syntax.StateValue},
	"when":         {kind: syntax.TokKwWhen, state: syntax.StateValue},
	"while":        {kind: syntax.TokKwWhile, modifier: syntax.TokKwWhileMod, state: syntax.StateValue},
	"yield":        {kind: syntax.TokKwYield, state: syntax.StateArg},
}

func lookupKeyword(name string) (keyword, bool) {
	kw, ok := keywords[name]
	return kw, ok
}

// IsKeyword reports whether name is a reserved word.
func IsKeyword(name string) bool {
	_, ok := keywords[name]
	return ok
}
