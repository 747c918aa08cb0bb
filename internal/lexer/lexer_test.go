package lexer

import "testing"

func kindsOf(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func assertKinds(t *testing.T, got []Kind, want ...Kind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d (%v vs %v)", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token[%d] = %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestLexerSingleLineVarDef(t *testing.T) {
	l := New("let a: int = 3\n")
	lines, errs := l.AdvanceProg()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	assertKinds(t, kindsOf(lines[0].Tokens),
		KindLet, KindIdent, KindColon, KindTypeTag, KindAssign, KindUint, KindNewline)
}

func TestLexerUnaryMinusLiteral(t *testing.T) {
	l := New("let a: int = -1\n")
	lines, _ := l.AdvanceProg()
	toks := lines[0].Tokens
	// let a : int = -1 \n
	got := toks[5]
	if got.Kind != KindInt || got.Text != "-1" {
		t.Fatalf("expected Int(-1), got %v %q", got.Kind, got.Text)
	}
}

func TestLexerBinaryMinus(t *testing.T) {
	l := New("let a = 3 - 2\n")
	lines, _ := l.AdvanceProg()
	kinds := kindsOf(lines[0].Tokens)
	// let a = 3 - 2 NEWLINE
	assertKinds(t, kinds, KindLet, KindIdent, KindAssign, KindUint, KindMinus, KindUint, KindNewline)
}

func TestLexerCompoundOperators(t *testing.T) {
	l := New("a += 1\n")
	lines, errs := l.AdvanceProg()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	assertKinds(t, kindsOf(lines[0].Tokens), KindIdent, KindPlusEq, KindUint, KindNewline)
}

func TestLexerInvalidIndentation(t *testing.T) {
	l := New("let a = 1\n   let b = 2\n")
	_, errs := l.AdvanceProg()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors on first chunk: %v", errs)
	}
	_, errs = l.AdvanceProg()
	if len(errs) != 1 {
		t.Fatalf("expected 1 indentation error, got %d: %v", len(errs), errs)
	}
}

func TestLexerUnclosedDelimiter(t *testing.T) {
	l := New("let a = (1 + 2\n")
	_, errs := l.AdvanceProg()
	if len(errs) != 1 {
		t.Fatalf("expected 1 unclosed-delimiter error, got %d: %v", len(errs), errs)
	}
}

func TestLexerUnexpectedClosingDelimiter(t *testing.T) {
	l := New("let a = 1)\n")
	_, errs := l.AdvanceProg()
	if len(errs) != 1 {
		t.Fatalf("expected 1 unexpected-closing-delimiter error, got %d: %v", len(errs), errs)
	}
}

func TestLexerMismatchedDelimiter(t *testing.T) {
	l := New("let a = (1]\n")
	_, errs := l.AdvanceProg()
	if len(errs) != 1 {
		t.Fatalf("expected 1 mismatched-delimiter error, got %d: %v", len(errs), errs)
	}
}

func TestLexerStringLiteral(t *testing.T) {
	l := New(`let a = "hi"` + "\n")
	lines, errs := l.AdvanceProg()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	toks := lines[0].Tokens
	if toks[3].Kind != KindStr || toks[3].Text != "hi" {
		t.Fatalf("expected Str(hi), got %v %q", toks[3].Kind, toks[3].Text)
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	l := New(`let a = "hi` + "\n")
	_, errs := l.AdvanceProg()
	if len(errs) != 1 {
		t.Fatalf("expected 1 unterminated-string error, got %d: %v", len(errs), errs)
	}
}

func TestLexerComment(t *testing.T) {
	l := New("let a = 1 # trailing comment\nlet b = 2\n")
	lines, errs := l.AdvanceProg()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	assertKinds(t, kindsOf(lines[0].Tokens), KindLet, KindIdent, KindAssign, KindUint, KindNewline)
	if !l.IsEmpty() {
		lines2, _ := l.AdvanceProg()
		assertKinds(t, kindsOf(lines2[0].Tokens), KindLet, KindIdent, KindAssign, KindUint, KindNewline)
	}
}

func TestLexerBlankLinesIgnored(t *testing.T) {
	l := New("let a = 1\n\n\nlet b = 2\n")
	chunk1, _ := l.AdvanceProg()
	chunk2, _ := l.AdvanceProg()
	if len(chunk1) != 1 || len(chunk2) != 1 {
		t.Fatalf("blank lines should not produce chunks: %d, %d", len(chunk1), len(chunk2))
	}
	if !l.IsEmpty() {
		t.Fatal("lexer should be empty after two chunks")
	}
}

func TestLexerKeywordsAndTypeTags(t *testing.T) {
	l := New("fn add(a: int, b: int) -> int:\n    return a + b\n")
	chunk, errs := l.AdvanceProg()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(chunk) != 2 {
		t.Fatalf("expected header + body line, got %d", len(chunk))
	}
	if chunk[0].Tokens[0].Kind != KindFn {
		t.Fatalf("expected fn header")
	}
	if chunk[1].Indent != 4 {
		t.Fatalf("expected body indent 4, got %d", chunk[1].Indent)
	}
	assertKinds(t, kindsOf(chunk[1].Tokens), KindReturn, KindIdent, KindPlus, KindIdent, KindNewline)
}
