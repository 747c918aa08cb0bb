package source

import (
	"strings"
	"unicode"
)

// CharReader is a stream of source characters with a 1-based (line, column)
// cursor. It expands tabs to four spaces and appends a trailing newline
// before scanning begins, so the lexer never has to special-case either
// concern: the last logical line always terminates, and indentation math
// never has to know about tab width.
//
// CharReader implements Spanner so a Span produced against it can render
// its own source excerpt for error messages.
type CharReader struct {
	input  []rune
	pos    int
	line   int
	column int
}

// NewCharReader prepares src for scanning: tabs become four spaces and a
// trailing newline is appended if src doesn't already end in one.
func NewCharReader(src string) *CharReader {
	expanded := strings.ReplaceAll(src, "\t", "    ")
	if !strings.HasSuffix(expanded, "\n") {
		expanded += "\n"
	}
	return &CharReader{
		input:  []rune(expanded),
		pos:    0,
		line:   1,
		column: 1,
	}
}

// Pos returns the cursor's current position.
func (r *CharReader) Pos() Position {
	return Position{Line: r.line, Column: r.column}
}

// IsEmpty reports whether the reader has consumed all input.
func (r *CharReader) IsEmpty() bool {
	return r.pos >= len(r.input)
}

// Peek returns the current rune without consuming it, or 0 at end of input.
func (r *CharReader) Peek() rune {
	if r.IsEmpty() {
		return 0
	}
	return r.input[r.pos]
}

// PeekAt returns the rune n positions ahead of the cursor without
// consuming anything, or 0 if that position is past the end of input.
func (r *CharReader) PeekAt(n int) rune {
	idx := r.pos + n
	if idx < 0 || idx >= len(r.input) {
		return 0
	}
	return r.input[idx]
}

// PeekWord returns the next contiguous run of identifier characters
// (letters, digits, underscore) starting at the cursor, without consuming
// anything. The lexer does not call it; it scans words with AdvanceWhile.
func (r *CharReader) PeekWord() string {
	var sb strings.Builder
	for i := r.pos; i < len(r.input); i++ {
		ch := r.input[i]
		isFirst := i == r.pos
		switch {
		case ch == '_' || unicode.IsLetter(ch):
			sb.WriteRune(ch)
		case !isFirst && unicode.IsDigit(ch):
			sb.WriteRune(ch)
		default:
			return sb.String()
		}
	}
	return sb.String()
}

// Advance consumes and returns the current rune, updating line/column.
func (r *CharReader) Advance() rune {
	if r.IsEmpty() {
		return 0
	}
	ch := r.input[r.pos]
	r.pos++
	if ch == '\n' {
		r.line++
		r.column = 1
	} else {
		r.column++
	}
	return ch
}

// AdvanceWhile consumes runes while pred holds, returning the consumed text.
func (r *CharReader) AdvanceWhile(pred func(rune) bool) string {
	var sb strings.Builder
	for !r.IsEmpty() && pred(r.Peek()) {
		sb.WriteRune(r.Advance())
	}
	return sb.String()
}

// Excerpt implements Spanner: it returns the raw text of a 1-based source
// line, reconstructed from the expanded (tab-free) input buffer.
func (r *CharReader) Excerpt(line int) string {
	if line < 1 {
		return ""
	}
	current := 1
	start := 0
	for i, ch := range r.input {
		if current == line && start == 0 && (i == 0 || r.input[i-1] == '\n') {
			start = i
		}
		if ch == '\n' {
			if current == line {
				return string(r.input[start:i])
			}
			current++
		}
	}
	return ""
}
