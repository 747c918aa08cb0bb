package ast

import (
	"github.com/cwbudde/chalcedony/internal/lexer"
	"github.com/cwbudde/chalcedony/internal/source"
	"github.com/cwbudde/chalcedony/internal/types"
)

// VarDef is `[const] let NAME [: TYPE] = EXPR`. Type is types.Any and
// HasType is false when no annotation was written; the compiler then
// infers the declared type from Value's root type (§4.6).
type VarDef struct {
	Name    string
	Type    types.Type
	HasType bool
	IsConst bool
	Value   *NodeExpr
	Pos     source.Span
}

func (*VarDef) stmtNode()          {}
func (v *VarDef) Span() source.Span { return v.Pos }

// Assign is a plain or compound (`+= -= *= /= %=`) assignment to an
// attribute-resolution target. CompoundOp is lexer.KindAssign for a plain
// `=`; any other operator kind names the compound form to desugar (§4.6).
type Assign struct {
	Target     *NodeAttrRes
	CompoundOp lexer.Kind
	Value      *NodeExpr
	Pos        source.Span
}

func (*Assign) stmtNode()           {}
func (a *Assign) Span() source.Span { return a.Pos }

// FuncCallStmnt is an attribute-resolution chain used as a statement on
// its own (must end in a call; §4.4).
type FuncCallStmnt struct {
	Call *NodeAttrRes
	Pos  source.Span
}

func (*FuncCallStmnt) stmtNode()           {}
func (f *FuncCallStmnt) Span() source.Span { return f.Pos }

// Return is `return [EXPR]`; Value is nil for a bare `return`.
type Return struct {
	Value *NodeExpr
	Pos   source.Span
}

func (*Return) stmtNode()          {}
func (r *Return) Span() source.Span { return r.Pos }

// ElifBranch is one `elif COND:` arm of an If statement.
type ElifBranch struct {
	Cond *NodeExpr
	Body []Stmt
	Pos  source.Span
}

// If is `if COND: BODY` with zero or more ElifBranches and an optional
// Else body (nil when absent).
type If struct {
	Cond  *NodeExpr
	Body  []Stmt
	Elifs []ElifBranch
	Else  []Stmt
	Pos   source.Span
}

func (*If) stmtNode()           {}
func (i *If) Span() source.Span { return i.Pos }

// While is `while COND: BODY`.
type While struct {
	Cond *NodeExpr
	Body []Stmt
	Pos  source.Span
}

func (*While) stmtNode()          {}
func (w *While) Span() source.Span { return w.Pos }

// For is `for VAR in ITERABLE: BODY`. The compiler desugars this into a
// try/catch iterator-protocol loop (§4.6); the AST node itself stays a
// plain high-level loop.
type For struct {
	Var      string
	Iterable *NodeExpr
	Body     []Stmt
	Pos      source.Span
}

func (*For) stmtNode()          {}
func (f *For) Span() source.Span { return f.Pos }

// Break and Continue are leaf statements; they carry no payload beyond
// their source position.
type Break struct{ Pos source.Span }

func (*Break) stmtNode()          {}
func (b *Break) Span() source.Span { return b.Pos }

type Continue struct{ Pos source.Span }

func (*Continue) stmtNode()          {}
func (c *Continue) Span() source.Span { return c.Pos }

// TryCatch is `try: BODY catch(NAME: TYPE): BODY`. CatchType is the
// exception type name as written (§3 requires it be `exception`, or a
// user Custom exception subtype if the language is later extended).
type TryCatch struct {
	Try       []Stmt
	CatchVar  string
	CatchType types.Type
	Catch     []Stmt
	Pos       source.Span
}

func (*TryCatch) stmtNode()          {}
func (t *TryCatch) Span() source.Span { return t.Pos }

// Throw is `throw EXPR`; the expression must evaluate to Str (§4.6).
type Throw struct {
	Value *NodeExpr
	Pos   source.Span
}

func (*Throw) stmtNode()          {}
func (t *Throw) Span() source.Span { return t.Pos }
