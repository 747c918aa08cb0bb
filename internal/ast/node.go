// Package ast defines Chalcedony's Abstract Syntax Tree: pure data,
// produced by internal/parser and consumed (walked once, never mutated in
// place) by internal/compiler. Node shapes follow the teacher's ast
// package conventions — a marker method per node category, Span()
// everywhere error reporting needs source back-reference — generalised
// from DWScript's Pascal-shaped tree to Chalcedony's expression-as-RPN
// model (§3, §9).
package ast

import (
	"github.com/cwbudde/chalcedony/internal/lexer"
	"github.com/cwbudde/chalcedony/internal/source"
	"github.com/cwbudde/chalcedony/internal/types"
)

// Node is any AST element that can anchor a diagnostic back to source.
type Node interface {
	Span() source.Span
}

// Stmt is a top-level or body-level statement. FuncDecl and ClassDecl
// implement it too: §6.2 allows fn/class at the same syntactic level as
// any other top-level statement.
type Stmt interface {
	Node
	stmtNode()
}

// ExprItemKind tags the member of the ExprItem union held by one slot of
// a NodeExpr's RPN sequence.
type ExprItemKind int

const (
	ItemLiteral ExprItemKind = iota
	ItemResolution
	ItemList
	ItemInlineClass
	ItemBinOp
	ItemUnOp
)

// ExprItem is one element of a NodeExpr's RPN sequence: a value, a
// variable/function resolution, a list literal, an inline-class
// constructor, or an operator. Which fields are populated depends on
// Kind, the same tagged-union-via-flat-struct idiom used by lexer.Token.
type ExprItem struct {
	Kind ExprItemKind
	Pos  source.Span

	// ItemLiteral
	LitType types.Type
	LitText string // raw token text; compiler parses per LitType

	// ItemResolution
	Resolution *NodeAttrRes

	// ItemList
	List []*NodeExpr

	// ItemInlineClass
	ClassName string
	Fields    []FieldInit

	// ItemBinOp / ItemUnOp
	Op lexer.Kind
}

func (e ExprItem) Span() source.Span { return e.Pos }

// FieldInit is one `member[: expr]` entry of an inline class constructor.
// For the shorthand form (`Name{field}` meaning `field: field`) the parser
// fills Value with a variable-call of the same name, so Value is never nil.
type FieldInit struct {
	Name  string
	Value *NodeExpr
	Pos   source.Span
}

// NodeExpr is a parsed expression: a non-empty sequence of ExprItems in
// Reverse Polish Notation. A valid NodeExpr, by parser invariant, reduces
// to exactly one pseudo-stack item (§3, §8).
type NodeExpr struct {
	Items []ExprItem
	Pos   source.Span
}

func (e *NodeExpr) Span() source.Span { return e.Pos }

// AttrSegKind distinguishes a plain-name reference from a call within an
// attribute-resolution chain.
type AttrSegKind int

const (
	SegVarCall AttrSegKind = iota
	SegFuncCall
)

// AttrSegment is one link of a NodeAttrRes chain: either a VarCall (plain
// name) or a FuncCall (name, arguments, optional namespace).
type AttrSegment struct {
	Kind      AttrSegKind
	Name      string
	Args      []*NodeExpr // populated only for SegFuncCall
	Namespace string      // `Namespace::name(...)`, empty if unqualified
	Pos       source.Span
}

func (s AttrSegment) Span() source.Span { return s.Pos }

// NodeAttrRes is a dotted chain of AttrSegments, e.g. `a.b(x).c`. Chain
// length is always >= 1 (§3). The compiler resolves the root segment
// against scope, then walks the remaining segments as attribute/method
// access on the result.
type NodeAttrRes struct {
	Segments []AttrSegment
	Pos      source.Span
}

func (r *NodeAttrRes) Span() source.Span { return r.Pos }

// Last returns the chain's final segment, the one assignment rewrites
// from GetAttr to SetAttr (§4.6, §9).
func (r *NodeAttrRes) Last() AttrSegment {
	return r.Segments[len(r.Segments)-1]
}
