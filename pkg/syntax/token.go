package syntax

// TokenKind classifies a lexical token.
type TokenKind uint16

// Token kinds. Every keyword has its own kind so that block-opening and
// modifier forms can be told apart without looking at the text.
const (
	TokEOF TokenKind = iota

	// Trivia.
	TokSpace
	TokLineContinuation // backslash-newline
	TokNewline
	TokIgnoredNewline // newline inside a still-open expression
	TokComment
	TokEmbdocBegin // =begin line
	TokEmbdoc      // embedded document body line
	TokEmbdocEnd   // =end line
	TokDataEnd     // __END__ and the data section after it

	// Names.
	TokIdent
	TokConst
	TokIvar
	TokCvar
	TokGvar
	TokBackref // $&, $1, ...
	TokLabel   // foo:

	// Literals.
	TokInteger
	TokFloat
	TokRational
	TokImaginary
	TokChar // ?a
	TokSymbol

	// String-likes.
	TokStringBegin
	TokStringContent
	TokStringEnd
	TokLabelEnd // closing quote of "foo":
	TokEmbexprBegin
	TokEmbexprEnd
	TokEmbvar
	TokBacktick
	TokRegexpBegin
	TokRegexpEnd
	TokSymbolBegin
	TokWordsBegin
	TokQWordsBegin
	TokSymbolsBegin
	TokQSymbolsBegin
	TokWordsSep
	TokHeredocBegin
	TokHeredocEnd

	// Operators and punctuation.
	TokOp       // arithmetic, comparison, logical and other operators
	TokOpAssign // +=, ||=, ...
	TokAssign   // =
	TokLParen
	TokRParen
	TokLBracket
	TokRBracket
	TokLBrace       // hash literal
	TokLBraceBlock  // block brace
	TokLambdaBegin  // brace of a stabby lambda
	TokRBrace
	TokComma
	TokSemicolon
	TokDot
	TokAmpDot
	TokColon2
	TokLambda // ->
	TokDot2
	TokDot3
	TokQuestion // ternary ?
	TokColon    // ternary :
	TokArrow    // =>

	// Keywords.
	TokKwAlias
	TokKwAnd
	TokKwBegin
	TokKwBEGIN
	TokKwBreak
	TokKwCase
	TokKwClass
	TokKwDef
	TokKwDefined
	TokKwDo
	TokKwDoLambda
	TokKwElse
	TokKwElsif
	TokKwEnd
	TokKwEND
	TokKwEnsure
	TokKwFalse
	TokKwFor
	TokKwIf
	TokKwIfMod
	TokKwIn
	TokKwModule
	TokKwNext
	TokKwNil
	TokKwNot
	TokKwOr
	TokKwRedo
	TokKwRescue
	TokKwRescueMod
	TokKwRetry
	TokKwReturn
	TokKwSelf
	TokKwSuper
	TokKwThen
	TokKwTrue
	TokKwUndef
	TokKwUnless
	TokKwUnlessMod
	TokKwUntil
	TokKwUntilMod
	TokKwWhen
	TokKwWhile
	TokKwWhileMod
	TokKwYield
	TokKwFile
	TokKwLine
	TokKwEncoding

	TokUnknown // a byte the lexer could not classify
)

//nolint:gochecknoglobals // Read-only lookup table.
var kindNames = map[TokenKind]string{
	TokEOF:              "EOF",
	TokSpace:            "Space",
	TokLineContinuation: "LineContinuation",
	TokNewline:          "Newline",
	TokIgnoredNewline:   "IgnoredNewline",
	TokComment:          "Comment",
	TokEmbdocBegin:      "EmbdocBegin",
	TokEmbdoc:           "Embdoc",
	TokEmbdocEnd:        "EmbdocEnd",
	TokDataEnd:          "DataEnd",
	TokIdent:            "Ident",
	TokConst:            "Const",
	TokIvar:             "Ivar",
	TokCvar:             "Cvar",
	TokGvar:             "Gvar",
	TokBackref:          "Backref",
	TokLabel:            "Label",
	TokInteger:          "Integer",
	TokFloat:            "Float",
	TokRational:         "Rational",
	TokImaginary:        "Imaginary",
	TokChar:             "Char",
	TokSymbol:           "Symbol",
	TokStringBegin:      "StringBegin",
	TokStringContent:    "StringContent",
	TokStringEnd:        "StringEnd",
	TokLabelEnd:         "LabelEnd",
	TokEmbexprBegin:     "EmbexprBegin",
	TokEmbexprEnd:       "EmbexprEnd",
	TokEmbvar:           "Embvar",
	TokBacktick:         "Backtick",
	TokRegexpBegin:      "RegexpBegin",
	TokRegexpEnd:        "RegexpEnd",
	TokSymbolBegin:      "SymbolBegin",
	TokWordsBegin:       "WordsBegin",
	TokQWordsBegin:      "QWordsBegin",
	TokSymbolsBegin:     "SymbolsBegin",
	TokQSymbolsBegin:    "QSymbolsBegin",
	TokWordsSep:         "WordsSep",
	TokHeredocBegin:     "HeredocBegin",
	TokHeredocEnd:       "HeredocEnd",
	TokOp:               "Op",
	TokOpAssign:         "OpAssign",
	TokAssign:           "Assign",
	TokLParen:           "LParen",
	TokRParen:           "RParen",
	TokLBracket:         "LBracket",
	TokRBracket:         "RBracket",
	TokLBrace:           "LBrace",
	TokLBraceBlock:      "LBraceBlock",
	TokLambdaBegin:      "LambdaBegin",
	TokRBrace:           "RBrace",
	TokComma:            "Comma",
	TokSemicolon:        "Semicolon",
	TokDot:              "Dot",
	TokAmpDot:           "AmpDot",
	TokColon2:           "Colon2",
	TokLambda:           "Lambda",
	TokDot2:             "Dot2",
	TokDot3:             "Dot3",
	TokQuestion:         "Question",
	TokColon:            "Colon",
	TokArrow:            "Arrow",
	TokKwAlias:          "KwAlias",
	TokKwAnd:            "KwAnd",
	TokKwBegin:          "KwBegin",
	TokKwBEGIN:          "KwBEGIN",
	TokKwBreak:          "KwBreak",
	TokKwCase:           "KwCase",
	TokKwClass:          "KwClass",
	TokKwDef:            "KwDef",
	TokKwDefined:        "KwDefined",
	TokKwDo:             "KwDo",
	TokKwDoLambda:       "KwDoLambda",
	TokKwElse:           "KwElse",
	TokKwElsif:          "KwElsif",
	TokKwEnd:            "KwEnd",
	TokKwEND:            "KwEND",
	TokKwEnsure:         "KwEnsure",
	TokKwFalse:          "KwFalse",
	TokKwFor:            "KwFor",
	TokKwIf:             "KwIf",
	TokKwIfMod:          "KwIfMod",
	TokKwIn:             "KwIn",
	TokKwModule:         "KwModule",
	TokKwNext:           "KwNext",
	TokKwNil:            "KwNil",
	TokKwNot:            "KwNot",
	TokKwOr:             "KwOr",
	TokKwRedo:           "KwRedo",
	TokKwRescue:         "KwRescue",
	TokKwRescueMod:      "KwRescueMod",
	TokKwRetry:          "KwRetry",
	TokKwReturn:         "KwReturn",
	TokKwSelf:           "KwSelf",
	TokKwSuper:          "KwSuper",
	TokKwThen:           "KwThen",
	TokKwTrue:           "KwTrue",
	TokKwUndef:          "KwUndef",
	TokKwUnless:         "KwUnless",
	TokKwUnlessMod:      "KwUnlessMod",
	TokKwUntil:          "KwUntil",
	TokKwUntilMod:       "KwUntilMod",
	TokKwWhen:           "KwWhen",
	TokKwWhile:          "KwWhile",
	TokKwWhileMod:       "KwWhileMod",
	TokKwYield:          "KwYield",
	TokKwFile:           "KwFile",
	TokKwLine:           "KwLine",
	TokKwEncoding:       "KwEncoding",
	TokUnknown:          "Unknown",
}

// String returns the name of the kind.
func (k TokenKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "TokenKind(?)"
}

// IsKeyword returns true for every keyword kind, including modifier forms.
func (k TokenKind) IsKeyword() bool {
	return k >= TokKwAlias && k <= TokKwEncoding
}

// IsModifier returns true for the trailing forms of if/unless/while/until/rescue.
func (k TokenKind) IsModifier() bool {
	switch k {
	case TokKwIfMod, TokKwUnlessMod, TokKwWhileMod, TokKwUntilMod, TokKwRescueMod:
		return true
	default:
		return false
	}
}

// IsTrivia returns true for tokens that carry no syntax: whitespace,
// comments, newlines, embedded documents and the end marker.
func (k TokenKind) IsTrivia() bool {
	switch k {
	case TokSpace, TokLineContinuation, TokNewline, TokIgnoredNewline, TokComment,
		TokEmbdocBegin, TokEmbdoc, TokEmbdocEnd, TokDataEnd, TokEOF:
		return true
	default:
		return false
	}
}

// Token is a lexical unit of the analyzed buffer.
type Token struct {
	// Kind classifies the token.
	Kind TokenKind

	// Text is the exact source text of the token.
	Text string

	// Span locates the token in the buffer.
	Span Span

	// State is the lexer state after the token.
	State LexState

	// SpaceBefore is set when whitespace separates this token from the
	// previous one on the same line.
	SpaceBefore bool
}

// IsTrivia returns true if the token carries no syntax.
func (t Token) IsTrivia() bool {
	return t.Kind.IsTrivia()
}

// Line returns the 1-based line on which the token starts.
func (t Token) Line() int {
	return t.Span.Start.Line
}

// ValidateTokens reports whether tokens are in strictly increasing offset
// order and do not overlap.
func ValidateTokens(tokens []Token) bool {
	prevEnd := -1
	prevStart := -1
	for _, tok := range tokens {
		if tok.Span.Start.Offset < prevEnd || tok.Span.Start.Offset < prevStart {
			return false
		}
		if tok.Span.End.Offset < tok.Span.Start.Offset {
			return false
		}
		if tok.Span.Start.Offset == prevStart && tok.Kind != TokEOF {
			return false
		}
		prevStart = tok.Span.Start.Offset
		prevEnd = tok.Span.End.Offset
	}
	return true
}
