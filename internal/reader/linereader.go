// Package reader implements the LineReader and TokenReader cursor
// abstractions the parser uses to walk lexer.Lines and their Tokens: simple
// index-based cursors with lookahead, matching spec §4.3. Unlike the
// teacher's immutable TokenCursor (which returns a new cursor per
// operation), these are mutating cursors — Chalcedony's single-pass parser
// never needs to backtrack across a whole chunk, only to peek ahead a few
// tokens, so the simpler mutable form is enough and avoids an allocation
// per Advance.
package reader

import "github.com/cwbudde/chalcedony/internal/lexer"

// compoundHeaders mirrors the lexer's own chunk-shape table: these token
// kinds open a Line followed by a strictly-more-indented body.
var compoundHeaders = map[lexer.Kind]bool{
	lexer.KindFn:    true,
	lexer.KindIf:    true,
	lexer.KindWhile: true,
	lexer.KindFor:   true,
	lexer.KindTry:   true,
	lexer.KindClass: true,
}

// LineReader is a cursor over a sequence of lexer.Lines, used to walk the
// body of a compound statement (itself a sequence of one-or-more nested
// statement chunks).
type LineReader struct {
	lines []lexer.Line
	pos   int
}

// NewLineReader builds a LineReader over lines.
func NewLineReader(lines []lexer.Line) *LineReader {
	return &LineReader{lines: lines}
}

// IsEmpty reports whether every Line has been consumed.
func (r *LineReader) IsEmpty() bool {
	return r.pos >= len(r.lines)
}

// Peek returns the next unconsumed Line without advancing.
func (r *LineReader) Peek() (lexer.Line, bool) {
	if r.IsEmpty() {
		return lexer.Line{}, false
	}
	return r.lines[r.pos], true
}

// Indent returns the indent of the next unconsumed Line, or -1 if empty.
func (r *LineReader) Indent() int {
	if r.IsEmpty() {
		return -1
	}
	return r.lines[r.pos].Indent
}

// Advance consumes and returns the next Line.
func (r *LineReader) Advance() (lexer.Line, bool) {
	line, ok := r.Peek()
	if ok {
		r.pos++
	}
	return line, ok
}

// AdvanceUntil consumes and returns every contiguous Line for which pred
// holds, stopping at (and not consuming) the first Line pred rejects.
// Used to capture the strictly-more-indented body of a compound statement.
func (r *LineReader) AdvanceUntil(pred func(lexer.Line) bool) []lexer.Line {
	var out []lexer.Line
	for !r.IsEmpty() && pred(r.lines[r.pos]) {
		out = append(out, r.lines[r.pos])
		r.pos++
	}
	return out
}

// AdvanceReader consumes the next Line and returns a TokenReader over its
// tokens, for parsing a single-line statement.
func (r *LineReader) AdvanceReader() (*TokenReader, bool) {
	line, ok := r.Advance()
	if !ok {
		return nil, false
	}
	return NewTokenReader(line.Tokens), true
}

// AdvanceChunk captures one statement's governing Lines: the header line,
// plus (for a compound header) every subsequent Line indented strictly
// deeper than the header, plus — when the header is `if` or `try` — any
// immediately-following elif/else/catch extension at the header's own
// indent, each with its own nested body in turn.
func (r *LineReader) AdvanceChunk() []lexer.Line {
	header, ok := r.Advance()
	if !ok {
		return nil
	}
	if len(header.Tokens) == 0 {
		return []lexer.Line{header}
	}

	headerKind := header.Tokens[0].Kind
	if !compoundHeaders[headerKind] {
		return []lexer.Line{header}
	}

	chunk := []lexer.Line{header}
	chunk = append(chunk, r.AdvanceUntil(func(l lexer.Line) bool { return l.Indent > header.Indent })...)

	for headerKind == lexer.KindIf || headerKind == lexer.KindTry {
		ext, ok := r.Peek()
		if !ok || ext.Indent != header.Indent || len(ext.Tokens) == 0 {
			break
		}
		extKind := ext.Tokens[0].Kind
		isExtension := (headerKind == lexer.KindIf && (extKind == lexer.KindElif || extKind == lexer.KindElse)) ||
			(headerKind == lexer.KindTry && extKind == lexer.KindCatch)
		if !isExtension {
			break
		}
		r.pos++
		chunk = append(chunk, ext)
		chunk = append(chunk, r.AdvanceUntil(func(l lexer.Line) bool { return l.Indent > header.Indent })...)
		if extKind == lexer.KindElse {
			break
		}
	}
	return chunk
}
