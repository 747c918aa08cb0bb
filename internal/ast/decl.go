package ast

import (
	"github.com/cwbudde/chalcedony/internal/source"
	"github.com/cwbudde/chalcedony/internal/types"
)

// ArgDecl is one `name: type` entry of a function's parameter list.
type ArgDecl struct {
	Name string
	Type types.Type
	Pos  source.Span
}

// FuncDecl is `fn [CLASS ::] NAME ( ARGS ) [ -> TYPE ] : BODY`. ClassName
// is empty for a free function. A method whose first argument is named
// "self" is a true instance method (IsMethod); otherwise, when ClassName
// is set, it is a class-scoped static function (§4.4).
type FuncDecl struct {
	Name       string
	ClassName  string
	Args       []ArgDecl
	ReturnType types.Type
	IsMethod   bool
	IsUnsafe   bool
	Body       []Stmt
	Pos        source.Span
}

func (*FuncDecl) stmtNode()            {}
func (f *FuncDecl) Span() source.Span  { return f.Pos }

// MemberDecl is one declared field of a class.
type MemberDecl struct {
	Name string
	Type types.Type
	Pos  source.Span
}

// ClassDecl is `class NAME: MEMBERS then METHODS`.
type ClassDecl struct {
	Name    string
	Members []MemberDecl
	Methods []*FuncDecl
	Pos     source.Span
}

func (*ClassDecl) stmtNode()           {}
func (c *ClassDecl) Span() source.Span { return c.Pos }

// Program is the ordered sequence of top-level items produced by parsing
// one full source file (a let/const definition, a statement starting with
// an identifier, fn, if, while, for, try or class).
type Program struct {
	Items []Stmt
}
