package reader

import (
	"github.com/cwbudde/chalcedony/internal/cerrors"
	"github.com/cwbudde/chalcedony/internal/lexer"
)

// TokenReader is a cursor over a single Line's Tokens, consumed by the
// expression (Shunting-Yard) and statement parsers. All tokens belong to
// one Line, so Newline always terminates it.
type TokenReader struct {
	tokens []lexer.Token
	pos    int
}

// NewTokenReader builds a TokenReader over tokens.
func NewTokenReader(tokens []lexer.Token) *TokenReader {
	return &TokenReader{tokens: tokens}
}

// IsAtEnd reports whether the next token is Newline or EOF, i.e. nothing
// meaningful remains to parse on this Line.
func (r *TokenReader) IsAtEnd() bool {
	tok := r.Peek()
	return tok.Kind == lexer.KindNewline || tok.Kind == lexer.KindEOF
}

// Peek returns the next token without consuming it. Past the end of
// tokens it returns a synthetic EOF token anchored at the last token seen,
// so callers never need a separate bounds check before inspecting Kind.
func (r *TokenReader) Peek() lexer.Token {
	return r.PeekAt(0)
}

// PeekAt returns the token n positions ahead of the cursor (0 is Peek).
func (r *TokenReader) PeekAt(n int) lexer.Token {
	i := r.pos + n
	if i < 0 || i >= len(r.tokens) {
		if len(r.tokens) == 0 {
			return lexer.Token{Kind: lexer.KindEOF}
		}
		last := r.tokens[len(r.tokens)-1]
		return lexer.Token{Kind: lexer.KindEOF, Span: last.Span}
	}
	return r.tokens[i]
}

// Advance consumes and returns the next token.
func (r *TokenReader) Advance() lexer.Token {
	tok := r.Peek()
	if r.pos < len(r.tokens) {
		r.pos++
	}
	return tok
}

// PeekIsExact reports whether the next token has the given Kind.
func (r *TokenReader) PeekIsExact(kind lexer.Kind) bool {
	return r.Peek().Kind == kind
}

// Expect consumes and returns the next token if it has the given Kind,
// otherwise reports a parse error and returns the unexpected token as-is
// so the caller can keep going with best-effort recovery.
func (r *TokenReader) Expect(kind lexer.Kind) (lexer.Token, *cerrors.Error) {
	tok := r.Peek()
	if tok.Kind != kind {
		return tok, cerrors.Parse(cerrors.KindExpectedToken, tok.Span,
			"expected %s, found %q", kind, tok.Text)
	}
	return r.Advance(), nil
}

// ExpectExact is an alias for Expect, for call sites matching a literal
// operator/delimiter rather than a semantic category.
func (r *TokenReader) ExpectExact(kind lexer.Kind) (lexer.Token, *cerrors.Error) {
	return r.Expect(kind)
}

// ExpectType consumes a type-tag position: either a primitive KindTypeTag
// or a KindIdent naming a user-defined class. Which one it is gets
// resolved later, against the symbol table, not here.
func (r *TokenReader) ExpectType() (lexer.Token, *cerrors.Error) {
	tok := r.Peek()
	if tok.Kind != lexer.KindTypeTag && tok.Kind != lexer.KindIdent {
		return tok, cerrors.Parse(cerrors.KindExpectedToken, tok.Span,
			"expected a type name, found %q", tok.Text)
	}
	return r.Advance(), nil
}

// ExpectIdent consumes a plain identifier.
func (r *TokenReader) ExpectIdent() (lexer.Token, *cerrors.Error) {
	return r.Expect(lexer.KindIdent)
}

// AdvanceUntil consumes and returns every token for which pred holds,
// stopping at (and not consuming) the first token pred rejects.
func (r *TokenReader) AdvanceUntil(pred func(lexer.Kind) bool) []lexer.Token {
	var out []lexer.Token
	for !r.IsAtEnd() && pred(r.Peek().Kind) {
		out = append(out, r.Advance())
	}
	return out
}

// AdvanceScopeRaw consumes a balanced run of tokens opened by `open` and
// closed by `close`, assuming the opening delimiter has already been
// consumed by the caller. The returned slice holds everything between the
// delimiters (not including either); nested open/close pairs of the same
// kind are tracked so inner calls/lists/literals pass through intact. The
// lexer already guarantees the Line's delimiters balance, so this never
// runs past end-of-line.
func (r *TokenReader) AdvanceScopeRaw(open, close lexer.Kind) []lexer.Token {
	depth := 1
	var out []lexer.Token
	for !r.IsAtEnd() {
		tok := r.Peek()
		if tok.Kind == open {
			depth++
		} else if tok.Kind == close {
			depth--
			if depth == 0 {
				r.Advance()
				break
			}
		}
		out = append(out, r.Advance())
	}
	return out
}

// SplitCommas splits a flat token buffer (as returned by AdvanceScopeRaw)
// into comma-separated groups, respecting nested delimiters so a comma
// inside a nested call or list doesn't split its argument list.
func SplitCommas(tokens []lexer.Token) [][]lexer.Token {
	if len(tokens) == 0 {
		return nil
	}
	var groups [][]lexer.Token
	var cur []lexer.Token
	depth := 0
	for _, tok := range tokens {
		switch tok.Kind {
		case lexer.KindLParen, lexer.KindLBracket, lexer.KindLBrace:
			depth++
		case lexer.KindRParen, lexer.KindRBracket, lexer.KindRBrace:
			depth--
		}
		if tok.Kind == lexer.KindComma && depth == 0 {
			groups = append(groups, cur)
			cur = nil
			continue
		}
		cur = append(cur, tok)
	}
	groups = append(groups, cur)
	return groups
}
