// Package lexer tokenizes indent-sensitive Chalcedony source into Lines of
// Tokens. See internal/reader for the cursor abstractions built on top of
// the types defined here, and internal/parser for the consumer.
package lexer

import (
	"fmt"
	"strconv"

	"github.com/cwbudde/chalcedony/internal/source"
)

// Kind identifies the lexical category of a Token. It is a flat enum
// rather than a Go sum type: the payload for literal kinds lives in the
// Token's own typed accessor methods (IntValue, FloatValue, ...), parsed
// lazily from the raw source text captured in Token.Text.
type Kind int

const (
	// Literals
	KindInt Kind = iota
	KindUint
	KindFloat
	KindStr
	KindBool

	KindIdent
	KindTypeTag

	// Keywords
	KindLet
	KindConst
	KindFn
	KindIf
	KindElif
	KindElse
	KindWhile
	KindFor
	KindIn
	KindReturn
	KindBreak
	KindContinue
	KindTry
	KindCatch
	KindThrow
	KindClass

	// Operators
	KindPlus
	KindMinus
	KindStar
	KindSlash
	KindPercent
	KindLt
	KindGt
	KindLtEq
	KindGtEq
	KindEqEq
	KindNotEq
	KindAndAnd
	KindOrOr
	KindNot
	KindAssign
	KindPlusEq
	KindMinusEq
	KindStarEq
	KindSlashEq
	KindPercentEq
	KindWalrus // :=
	KindArrow  // ->

	// Delimiters
	KindLParen
	KindRParen
	KindLBracket
	KindRBracket
	KindLBrace
	KindRBrace

	// Specials
	KindComma
	KindColon
	KindDot
	KindSemicolon

	KindNewline
	KindEOF
	KindIllegal
)

var kindNames = map[Kind]string{
	KindInt:       "Int",
	KindUint:      "Uint",
	KindFloat:     "Float",
	KindStr:       "Str",
	KindBool:      "Bool",
	KindIdent:     "Ident",
	KindTypeTag:   "TypeTag",
	KindLet:       "let",
	KindConst:     "const",
	KindFn:        "fn",
	KindIf:        "if",
	KindElif:      "elif",
	KindElse:      "else",
	KindWhile:     "while",
	KindFor:       "for",
	KindIn:        "in",
	KindReturn:    "return",
	KindBreak:     "break",
	KindContinue:  "continue",
	KindTry:       "try",
	KindCatch:     "catch",
	KindThrow:     "throw",
	KindClass:     "class",
	KindPlus:      "+",
	KindMinus:     "-",
	KindStar:      "*",
	KindSlash:     "/",
	KindPercent:   "%",
	KindLt:        "<",
	KindGt:        ">",
	KindLtEq:      "<=",
	KindGtEq:      ">=",
	KindEqEq:      "==",
	KindNotEq:     "!=",
	KindAndAnd:    "&&",
	KindOrOr:      "||",
	KindNot:       "!",
	KindAssign:    "=",
	KindPlusEq:    "+=",
	KindMinusEq:   "-=",
	KindStarEq:    "*=",
	KindSlashEq:   "/=",
	KindPercentEq: "%=",
	KindWalrus:    ":=",
	KindArrow:     "->",
	KindLParen:    "(",
	KindRParen:    ")",
	KindLBracket:  "[",
	KindRBracket:  "]",
	KindLBrace:    "{",
	KindRBrace:    "}",
	KindComma:     ",",
	KindColon:     ":",
	KindDot:       ".",
	KindSemicolon: ";",
	KindNewline:   "Newline",
	KindEOF:       "EOF",
	KindIllegal:   "Illegal",
}

// String renders the kind's name for diagnostics.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps reserved words to their Kind. Identifiers that don't
// appear here lex as KindIdent (or KindTypeTag when they are listed in
// PrimitiveTypeNames; user class names always lex as KindIdent).
var Keywords = map[string]Kind{
	"let":      KindLet,
	"const":    KindConst,
	"fn":       KindFn,
	"if":       KindIf,
	"elif":     KindElif,
	"else":     KindElse,
	"while":    KindWhile,
	"for":      KindFor,
	"in":       KindIn,
	"return":   KindReturn,
	"break":    KindBreak,
	"continue": KindContinue,
	"try":      KindTry,
	"catch":    KindCatch,
	"throw":    KindThrow,
	"class":    KindClass,
	"true":     KindBool,
	"false":    KindBool,
}

// PrimitiveTypeNames are recognised as KindTypeTag even when they also look
// like plain identifiers. A user class name lexes as KindIdent; in a type
// position the parser accepts either kind and takes the name from
// Token.Text.
var PrimitiveTypeNames = map[string]bool{
	"int":   true,
	"uint":  true,
	"float": true,
	"str":   true,
	"bool":  true,
	"any":   true,
	"void":  true,
}

// Token is a single lexical unit: its raw source text, its Kind, and the
// Span it occupies.
type Token struct {
	Text string
	Kind Kind
	Span source.Span
}

// NewToken builds a Token spanning [start, end) over spanner.
func NewToken(kind Kind, text string, start, end source.Position, spanner source.Spanner) Token {
	return Token{Text: text, Kind: kind, Span: source.NewSpan(start, end, spanner)}
}

// IsTerminal reports whether this token can end an expression operand:
// a literal, an identifier, or a closing parenthesis or bracket. Used by
// the lexer to disambiguate unary vs. binary minus.
func (t Token) IsTerminal() bool {
	switch t.Kind {
	case KindInt, KindUint, KindFloat, KindStr, KindBool, KindIdent, KindRParen, KindRBracket:
		return true
	default:
		return false
	}
}

// IntValue parses an integer literal's text (including an optional leading
// '-' folded in by the lexer's unary-minus disambiguation).
func (t Token) IntValue() (int64, error) {
	return strconv.ParseInt(t.Text, 10, 64)
}

// UintValue parses an unsigned integer literal's text. The lexer consumes
// an optional 'u' suffix without storing it in Text, so the text is a
// plain digit run.
func (t Token) UintValue() (uint64, error) {
	return strconv.ParseUint(t.Text, 10, 64)
}

// FloatValue parses a float literal's text.
func (t Token) FloatValue() (float64, error) {
	return strconv.ParseFloat(t.Text, 64)
}

// BoolValue parses a boolean literal's text ("true"/"false").
func (t Token) BoolValue() bool {
	return t.Text == "true"
}
