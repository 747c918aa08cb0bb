package reader

import (
	"testing"

	"github.com/cwbudde/chalcedony/internal/lexer"
)

func chunkOf(t *testing.T, src string) []lexer.Line {
	t.Helper()
	l := lexer.New(src)
	chunk, errs := l.AdvanceProg()
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors: %v", errs)
	}
	return chunk
}

func TestLineReaderAdvanceChunkSingleLine(t *testing.T) {
	lines := chunkOf(t, "let a = 1\n")
	lr := NewLineReader(lines)
	chunk := lr.AdvanceChunk()
	if len(chunk) != 1 {
		t.Fatalf("expected 1 line, got %d", len(chunk))
	}
	if !lr.IsEmpty() {
		t.Fatal("expected reader exhausted")
	}
}

func TestLineReaderAdvanceChunkNestedIf(t *testing.T) {
	lines := chunkOf(t, "if a:\n    let b = 1\n    if c:\n        let d = 2\nelse:\n    let e = 3\n")
	lr := NewLineReader(lines)
	// top-level: the 'if' header
	header, ok := lr.Advance()
	if !ok || header.Tokens[0].Kind != lexer.KindIf {
		t.Fatalf("expected if header")
	}
	body := lr.AdvanceUntil(func(l lexer.Line) bool { return l.Indent > header.Indent })
	// body should be: let b=1, if c:, let d=2 (3 lines)
	if len(body) != 3 {
		t.Fatalf("expected 3 body lines, got %d", len(body))
	}
	// inner if's own chunk via a fresh LineReader over the body
	inner := NewLineReader(body)
	inner.Advance() // let b = 1
	innerChunk := inner.AdvanceChunk()
	if len(innerChunk) != 2 {
		t.Fatalf("expected inner if chunk of 2 lines, got %d", len(innerChunk))
	}
	if !inner.IsEmpty() {
		t.Fatal("expected inner reader exhausted")
	}
	// back at top level: the else extension remains
	next, ok := lr.Peek()
	if !ok || next.Tokens[0].Kind != lexer.KindElse {
		t.Fatalf("expected else next")
	}
}

func TestLineReaderAdvanceChunkIfElifElse(t *testing.T) {
	lines := chunkOf(t, "if a:\n    let b = 1\nelif c:\n    let d = 2\nelse:\n    let e = 3\n")
	lr := NewLineReader(lines)
	chunk := lr.AdvanceChunk()
	// if, body, elif, body, else, body = 6 lines
	if len(chunk) != 6 {
		t.Fatalf("expected 6 lines in if/elif/else chunk, got %d", len(chunk))
	}
	if !lr.IsEmpty() {
		t.Fatal("expected reader exhausted after full if/elif/else chunk")
	}
}

func TestTokenReaderExpect(t *testing.T) {
	lines := chunkOf(t, "let a: int = 3\n")
	tr := NewTokenReader(lines[0].Tokens)
	if _, err := tr.Expect(lexer.KindLet); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := tr.ExpectIdent(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := tr.Expect(lexer.KindColon); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := tr.ExpectType(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := tr.Expect(lexer.KindAssign); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := tr.Expect(lexer.KindUint); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tr.IsAtEnd() {
		t.Fatal("expected reader at end (just Newline left)")
	}
}

func TestTokenReaderExpectMismatch(t *testing.T) {
	lines := chunkOf(t, "let a = 3\n")
	tr := NewTokenReader(lines[0].Tokens)
	tr.Advance() // let
	if _, err := tr.Expect(lexer.KindColon); err == nil {
		t.Fatal("expected error on mismatched Expect")
	}
}

func TestTokenReaderAdvanceScopeRawAndSplitCommas(t *testing.T) {
	lines := chunkOf(t, "f(a, b, g(c, d))\n")
	tr := NewTokenReader(lines[0].Tokens)
	tr.Advance() // f
	if _, err := tr.Expect(lexer.KindLParen); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inner := tr.AdvanceScopeRaw(lexer.KindLParen, lexer.KindRParen)
	groups := SplitCommas(inner)
	if len(groups) != 3 {
		t.Fatalf("expected 3 comma groups, got %d: %v", len(groups), groups)
	}
	if len(groups[2]) != 6 { // g ( c , d )
		t.Fatalf("expected nested call to stay whole, got %d tokens: %v", len(groups[2]), groups[2])
	}
	if !tr.IsAtEnd() {
		t.Fatal("expected reader at end after consuming balanced scope")
	}
}

func TestSplitCommasEmpty(t *testing.T) {
	if groups := SplitCommas(nil); groups != nil {
		t.Fatalf("expected nil for empty input, got %v", groups)
	}
}
