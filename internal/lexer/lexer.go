package lexer

import (
	"strings"
	"unicode"

	"github.com/cwbudde/chalcedony/internal/cerrors"
	"github.com/cwbudde/chalcedony/internal/source"
)

// twoCharOps is the set of compound operators recognised by two-character
// lookahead, matched before falling back to their single-character meaning.
var twoCharOps = map[string]Kind{
	"+=": KindPlusEq,
	"-=": KindMinusEq,
	"*=": KindStarEq,
	"/=": KindSlashEq,
	"%=": KindPercentEq,
	"&&": KindAndAnd,
	"||": KindOrOr,
	">=": KindGtEq,
	"<=": KindLtEq,
	"==": KindEqEq,
	"!=": KindNotEq,
	"->": KindArrow,
	":=": KindWalrus,
}

var singleCharOps = map[rune]Kind{
	'+': KindPlus,
	'-': KindMinus,
	'*': KindStar,
	'/': KindSlash,
	'%': KindPercent,
	'<': KindLt,
	'>': KindGt,
	'!': KindNot,
	'=': KindAssign,
	'(': KindLParen,
	')': KindRParen,
	'[': KindLBracket,
	']': KindRBracket,
	'{': KindLBrace,
	'}': KindRBrace,
	',': KindComma,
	':': KindColon,
	'.': KindDot,
	';': KindSemicolon,
}

var openToClose = map[Kind]Kind{
	KindLParen:   KindRParen,
	KindLBracket: KindRBracket,
	KindLBrace:   KindRBrace,
}

var closeToOpen = map[Kind]Kind{
	KindRParen:   KindLParen,
	KindRBracket: KindLBracket,
	KindRBrace:   KindLBrace,
}

// Lexer tokenizes Chalcedony source into Lines of Tokens. AdvanceProg
// groups Lines into top-level program chunks; the parser, the `lex` CLI
// command and the tests all consume Lines through it.
//
// The delimiter stack is scoped to a single physical line: Chalcedony has
// no implicit line continuation, so `( [ {` must close before the line's
// Newline token, matching §4.3's claim that list/call scopes are captured
// from a TokenReader over one Line.
type Lexer struct {
	reader     *source.CharReader
	lines      []Line              // all Lines tokenized so far, lazily extended
	lineErrors [][]*cerrors.Error  // lex errors collected per entry in lines
	pos        int                 // index into lines of the next unconsumed Line
	done       bool                // true once the CharReader is exhausted and lines is final
}

// New creates a Lexer over src.
func New(src string) *Lexer {
	return &Lexer{reader: source.NewCharReader(src)}
}

// IsEmpty reports whether every Line has been consumed by AdvanceProg.
func (l *Lexer) IsEmpty() bool {
	l.fillAtLeast(l.pos + 1)
	return l.pos >= len(l.lines)
}

// fillAtLeast lexes additional Lines until at least n Lines are buffered
// or the source is exhausted.
func (l *Lexer) fillAtLeast(n int) {
	for !l.done && len(l.lines) < n {
		line, errs, ok := l.scanLine()
		if !ok {
			l.done = true
			break
		}
		if line.IsEmpty() && len(errs) == 0 {
			// Blank or comment-only line: doesn't participate in chunk
			// structure at all.
			continue
		}
		l.lines = append(l.lines, line)
		l.lineErrors = append(l.lineErrors, errs)
	}
}

// scanLine tokenizes one physical source line: measures indent, lexes
// tokens until the physical newline, and appends a trailing KindNewline.
// Returns ok=false once the reader is exhausted with nothing left to scan.
func (l *Lexer) scanLine() (Line, []*cerrors.Error, bool) {
	if l.reader.IsEmpty() {
		return Line{}, nil, false
	}

	var errs []*cerrors.Error

	indentCols := 0
	for l.reader.Peek() == ' ' {
		l.reader.Advance()
		indentCols++
	}

	// Blank line (nothing but the newline) or comment-only line: consume
	// it and report an empty Line so fillAtLeast can skip it.
	if l.reader.Peek() == '\n' {
		l.reader.Advance()
		return Line{}, nil, true
	}
	if l.reader.Peek() == '#' {
		l.reader.AdvanceWhile(func(r rune) bool { return r != '\n' })
		if l.reader.Peek() == '\n' {
			l.reader.Advance()
		}
		return Line{}, nil, true
	}

	if indentCols%4 != 0 {
		start := l.reader.Pos()
		errs = append(errs, cerrors.Lex(cerrors.KindInvalidIndentation,
			source.NewSpan(start, start, l.reader),
			"indentation of %d spaces is not a multiple of 4", indentCols))
	}

	var tokens []Token
	var delimStack []Token
	var lastSignificant *Token

	for {
		if l.reader.IsEmpty() {
			break
		}
		ch := l.reader.Peek()
		if ch == '\n' {
			l.reader.Advance()
			break
		}
		if ch == ' ' {
			l.reader.Advance()
			continue
		}
		if ch == '#' {
			l.reader.AdvanceWhile(func(r rune) bool { return r != '\n' })
			continue
		}

		tok, errList := l.nextToken(lastSignificant)
		errs = append(errs, errList...)

		switch tok.Kind {
		case KindLParen, KindLBracket, KindLBrace:
			delimStack = append(delimStack, tok)
		case KindRParen, KindRBracket, KindRBrace:
			if len(delimStack) == 0 {
				errs = append(errs, cerrors.Lex(cerrors.KindUnexpectedClosingDelim, tok.Span,
					"unexpected closing delimiter %q", tok.Text))
			} else {
				top := delimStack[len(delimStack)-1]
				delimStack = delimStack[:len(delimStack)-1]
				if openToClose[top.Kind] != tok.Kind {
					errs = append(errs, cerrors.Lex(cerrors.KindMismatchingDelimiters, tok.Span,
						"closing delimiter %q does not match opening %q", tok.Text, top.Text))
				}
			}
		}

		tokens = append(tokens, tok)
		t := tok
		lastSignificant = &t
	}

	for _, open := range delimStack {
		errs = append(errs, cerrors.Lex(cerrors.KindUnclosedDelimiter, open.Span,
			"unclosed delimiter %q", open.Text))
	}

	end := l.reader.Pos()
	tokens = append(tokens, NewToken(KindNewline, "\n", end, end, l.reader))

	return NewLine(indentCols, tokens), errs, true
}

// nextToken scans a single token starting at the current cursor, given the
// previously lexed significant token (used for unary/binary minus
// disambiguation).
func (l *Lexer) nextToken(prev *Token) (Token, []*cerrors.Error) {
	start := l.reader.Pos()
	ch := l.reader.Peek()

	switch {
	case ch == '"' || ch == '\'':
		return l.scanString(ch, start)
	case unicode.IsDigit(ch):
		return l.scanNumber(start, false)
	case ch == '-' && l.minusStartsLiteral(prev) && unicode.IsDigit(l.reader.PeekAt(1)):
		l.reader.Advance() // consume '-'
		return l.scanNumber(start, true)
	case ch == '_' || unicode.IsLetter(ch):
		return l.scanWord(start)
	}

	// Two-char operator lookahead.
	two := string(ch) + string(l.reader.PeekAt(1))
	if kind, ok := twoCharOps[two]; ok {
		l.reader.Advance()
		l.reader.Advance()
		return NewToken(kind, two, start, l.reader.Pos(), l.reader), nil
	}

	if kind, ok := singleCharOps[ch]; ok {
		l.reader.Advance()
		return NewToken(kind, string(ch), start, l.reader.Pos(), l.reader), nil
	}

	l.reader.Advance()
	return NewToken(KindIllegal, string(ch), start, l.reader.Pos(), l.reader),
		[]*cerrors.Error{cerrors.Lex(cerrors.KindInvalidChar, source.NewSpan(start, l.reader.Pos(), l.reader),
			"invalid character %q", ch)}
}

// minusStartsLiteral implements §4.2's unary/binary minus rule: '-' starts
// a signed numeric literal iff the previous token is not a terminal.
func (l *Lexer) minusStartsLiteral(prev *Token) bool {
	if prev == nil {
		return true
	}
	return !prev.IsTerminal()
}

func (l *Lexer) scanNumber(start source.Position, negative bool) (Token, []*cerrors.Error) {
	var sb strings.Builder
	if negative {
		sb.WriteRune('-')
	}
	sb.WriteString(l.reader.AdvanceWhile(unicode.IsDigit))

	isFloat := false
	if l.reader.Peek() == '.' && unicode.IsDigit(l.reader.PeekAt(1)) {
		isFloat = true
		sb.WriteRune(l.reader.Advance()) // '.'
		sb.WriteString(l.reader.AdvanceWhile(unicode.IsDigit))
	}

	kind := KindUint
	if isFloat {
		kind = KindFloat
	} else if negative {
		kind = KindInt
	}

	// An explicit 'u' suffix marks a non-negative integer literal as Uint
	// and is not kept in the token text. After a negative literal the
	// suffix is not consumed: the literal stays Int and the 'u' is lexed
	// as a separate identifier.
	if !isFloat && l.reader.Peek() == 'u' && !negative {
		l.reader.Advance()
		kind = KindUint
	}

	text := sb.String()
	return NewToken(kind, text, start, l.reader.Pos(), l.reader), nil
}

func (l *Lexer) scanString(quote rune, start source.Position) (Token, []*cerrors.Error) {
	l.reader.Advance() // opening quote
	var sb strings.Builder
	for {
		if l.reader.IsEmpty() || l.reader.Peek() == '\n' {
			return NewToken(KindStr, sb.String(), start, l.reader.Pos(), l.reader),
				[]*cerrors.Error{cerrors.Lex(cerrors.KindUnterminatedString,
					source.NewSpan(start, l.reader.Pos(), l.reader), "unterminated string literal")}
		}
		if l.reader.Peek() == quote {
			l.reader.Advance()
			break
		}
		sb.WriteRune(l.reader.Advance())
	}
	return NewToken(KindStr, sb.String(), start, l.reader.Pos(), l.reader), nil
}

func (l *Lexer) scanWord(start source.Position) (Token, []*cerrors.Error) {
	word := l.reader.AdvanceWhile(func(r rune) bool {
		return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
	})
	// Trailing '!' marks an unsafe function name; it is part of the
	// identifier's text so overload/lookup keys include it verbatim.
	if l.reader.Peek() == '!' {
		word += string(l.reader.Advance())
	}

	if kind, ok := Keywords[word]; ok {
		return NewToken(kind, word, start, l.reader.Pos(), l.reader), nil
	}
	if PrimitiveTypeNames[word] {
		return NewToken(KindTypeTag, word, start, l.reader.Pos(), l.reader), nil
	}
	return NewToken(KindIdent, word, start, l.reader.Pos(), l.reader), nil
}
