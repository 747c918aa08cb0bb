package parser

import (
	"testing"

	"github.com/cwbudde/chalcedony/internal/ast"
	"github.com/cwbudde/chalcedony/internal/lexer"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New(src)
	prog, errs := p.ParseProgram()
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	return prog
}

func TestParseVarDef(t *testing.T) {
	prog := mustParse(t, "let a: int = 3\n")
	if len(prog.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(prog.Items))
	}
	vd, ok := prog.Items[0].(*ast.VarDef)
	if !ok {
		t.Fatalf("expected *ast.VarDef, got %T", prog.Items[0])
	}
	if vd.Name != "a" || !vd.HasType || vd.Type.String() != "int" {
		t.Fatalf("unexpected VarDef: %+v", vd)
	}
	if len(vd.Value.Items) != 1 || vd.Value.Items[0].LitText != "3" {
		t.Fatalf("unexpected value expr: %+v", vd.Value)
	}
}

func TestParseConstVarDef(t *testing.T) {
	prog := mustParse(t, "const let a = 1\n")
	vd := prog.Items[0].(*ast.VarDef)
	if !vd.IsConst {
		t.Fatal("expected IsConst true")
	}
}

func TestParseBinaryExpr(t *testing.T) {
	prog := mustParse(t, "let a = 3 - 2\n")
	vd := prog.Items[0].(*ast.VarDef)
	items := vd.Value.Items
	if len(items) != 3 {
		t.Fatalf("expected 3 RPN items, got %d: %+v", len(items), items)
	}
	if items[2].Kind != ast.ItemBinOp || items[2].Op != lexer.KindMinus {
		t.Fatalf("expected trailing Minus binop, got %+v", items[2])
	}
}

func TestParsePrecedence(t *testing.T) {
	// 1 + 2 * 3 -> 1 2 3 * +
	prog := mustParse(t, "let a = 1 + 2 * 3\n")
	vd := prog.Items[0].(*ast.VarDef)
	items := vd.Value.Items
	kinds := make([]ast.ExprItemKind, len(items))
	for i, it := range items {
		kinds[i] = it.Kind
	}
	if len(items) != 5 {
		t.Fatalf("expected 5 items, got %d: %+v", len(items), items)
	}
	if items[3].Op != lexer.KindStar || items[4].Op != lexer.KindPlus {
		t.Fatalf("expected * before +, got %+v", items)
	}
}

func TestParseFuncCallStmnt(t *testing.T) {
	prog := mustParse(t, "print(1)\n")
	fc, ok := prog.Items[0].(*ast.FuncCallStmnt)
	if !ok {
		t.Fatalf("expected *ast.FuncCallStmnt, got %T", prog.Items[0])
	}
	if fc.Call.Last().Name != "print" {
		t.Fatalf("expected call to print, got %q", fc.Call.Last().Name)
	}
}

func TestParseAssign(t *testing.T) {
	prog := mustParse(t, "a = 1\n")
	as, ok := prog.Items[0].(*ast.Assign)
	if !ok {
		t.Fatalf("expected *ast.Assign, got %T", prog.Items[0])
	}
	if as.Target.Last().Name != "a" {
		t.Fatalf("unexpected assign target: %+v", as.Target)
	}
}

func TestParseCompoundAssign(t *testing.T) {
	prog := mustParse(t, "a += 1\n")
	as := prog.Items[0].(*ast.Assign)
	if as.CompoundOp != lexer.KindPlusEq {
		t.Fatalf("expected PlusEq, got %v", as.CompoundOp)
	}
}

func TestParseIfElifElse(t *testing.T) {
	prog := mustParse(t, "if a:\n    print(1)\nelif b:\n    print(2)\nelse:\n    print(3)\n")
	ifStmt, ok := prog.Items[0].(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", prog.Items[0])
	}
	if len(ifStmt.Body) != 1 || len(ifStmt.Elifs) != 1 || len(ifStmt.Else) != 1 {
		t.Fatalf("unexpected if shape: %+v", ifStmt)
	}
}

func TestParseWhileBreak(t *testing.T) {
	prog := mustParse(t, "while false:\n    break\n")
	w, ok := prog.Items[0].(*ast.While)
	if !ok {
		t.Fatalf("expected *ast.While, got %T", prog.Items[0])
	}
	if len(w.Body) != 1 {
		t.Fatalf("expected 1 body stmt, got %d", len(w.Body))
	}
	if _, ok := w.Body[0].(*ast.Break); !ok {
		t.Fatalf("expected Break, got %T", w.Body[0])
	}
}

func TestParseFuncDecl(t *testing.T) {
	prog := mustParse(t, "fn add(a: int, b: int) -> int:\n    return a + b\n")
	fd, ok := prog.Items[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected *ast.FuncDecl, got %T", prog.Items[0])
	}
	if fd.Name != "add" || len(fd.Args) != 2 || fd.ReturnType.String() != "int" {
		t.Fatalf("unexpected FuncDecl: %+v", fd)
	}
	if len(fd.Body) != 1 {
		t.Fatalf("expected 1 body stmt, got %d", len(fd.Body))
	}
}

func TestParseTryCatch(t *testing.T) {
	prog := mustParse(t, "try:\n    throw 'x'\ncatch(e: exception):\n    print(e)\n")
	tc, ok := prog.Items[0].(*ast.TryCatch)
	if !ok {
		t.Fatalf("expected *ast.TryCatch, got %T", prog.Items[0])
	}
	if tc.CatchVar != "e" || len(tc.Try) != 1 || len(tc.Catch) != 1 {
		t.Fatalf("unexpected TryCatch: %+v", tc)
	}
}

func TestParseForLoop(t *testing.T) {
	prog := mustParse(t, "for x in items:\n    print(x)\n")
	f, ok := prog.Items[0].(*ast.For)
	if !ok {
		t.Fatalf("expected *ast.For, got %T", prog.Items[0])
	}
	if f.Var != "x" {
		t.Fatalf("unexpected for var: %q", f.Var)
	}
}

func TestParseClassDecl(t *testing.T) {
	prog := mustParse(t, "class Point:\n    x: int\n    y: int\n    fn dist(self: Point) -> int:\n        return self.x\n")
	cd, ok := prog.Items[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("expected *ast.ClassDecl, got %T", prog.Items[0])
	}
	if len(cd.Members) != 2 || len(cd.Methods) != 1 {
		t.Fatalf("unexpected class shape: %+v", cd)
	}
	if !cd.Methods[0].IsMethod {
		t.Fatal("expected method with self receiver to be IsMethod")
	}
}

func TestParseListLiteral(t *testing.T) {
	prog := mustParse(t, "let a = [1, 2, 3]\n")
	vd := prog.Items[0].(*ast.VarDef)
	if len(vd.Value.Items) != 1 || vd.Value.Items[0].Kind != ast.ItemList {
		t.Fatalf("expected single list item, got %+v", vd.Value.Items)
	}
	if len(vd.Value.Items[0].List) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(vd.Value.Items[0].List))
	}
}

func TestParseInlineClassConstructor(t *testing.T) {
	prog := mustParse(t, "let p = Point{x: 1, y: 2}\n")
	vd := prog.Items[0].(*ast.VarDef)
	item := vd.Value.Items[0]
	if item.Kind != ast.ItemInlineClass || item.ClassName != "Point" || len(item.Fields) != 2 {
		t.Fatalf("unexpected inline class item: %+v", item)
	}
}

func TestParseEmptyExprError(t *testing.T) {
	p := New("let a = \n")
	_, errs := p.ParseProgram()
	if len(errs) == 0 {
		t.Fatal("expected EmptyExpr error")
	}
}

func TestParseRepeatedTerminalError(t *testing.T) {
	p := New("let a = 1 2\n")
	_, errs := p.ParseProgram()
	if len(errs) == 0 {
		t.Fatal("expected RepeatedExprTerminal error")
	}
}

func TestParseUnaryMinus(t *testing.T) {
	prog := mustParse(t, "let a = -b\n")
	vd := prog.Items[0].(*ast.VarDef)
	items := vd.Value.Items
	if len(items) != 2 || items[1].Kind != ast.ItemUnOp || items[1].Op != lexer.KindMinus {
		t.Fatalf("expected unary minus over resolution, got %+v", items)
	}
}
