package ast

import (
	"testing"

	"github.com/cwbudde/chalcedony/internal/source"
	"github.com/cwbudde/chalcedony/internal/types"
)

func span() source.Span {
	p := source.Position{Line: 1, Column: 1}
	return source.NewSpan(p, p, nil)
}

func TestNodeAttrResLast(t *testing.T) {
	r := &NodeAttrRes{
		Segments: []AttrSegment{
			{Kind: SegVarCall, Name: "a", Pos: span()},
			{Kind: SegFuncCall, Name: "b", Pos: span()},
		},
		Pos: span(),
	}
	if r.Last().Name != "b" {
		t.Fatalf("expected last segment 'b', got %q", r.Last().Name)
	}
}

func TestVarDefDefaultsToAny(t *testing.T) {
	v := &VarDef{Name: "x", Type: types.Any, HasType: false, Pos: span()}
	if v.HasType {
		t.Fatal("expected HasType false when no annotation given")
	}
	if !v.Type.Equal(types.Any) {
		t.Fatalf("expected default type Any, got %v", v.Type)
	}
}

func TestStmtInterfaceSatisfiedByAllKinds(t *testing.T) {
	var stmts []Stmt
	stmts = append(stmts,
		&VarDef{Pos: span()},
		&Assign{Pos: span()},
		&FuncCallStmnt{Pos: span()},
		&Return{Pos: span()},
		&If{Pos: span()},
		&While{Pos: span()},
		&For{Pos: span()},
		&Break{Pos: span()},
		&Continue{Pos: span()},
		&TryCatch{Pos: span()},
		&Throw{Pos: span()},
		&FuncDecl{Pos: span()},
		&ClassDecl{Pos: span()},
	)
	for i, s := range stmts {
		if s.Span().Start.Line != 1 {
			t.Fatalf("stmt %d: unexpected span", i)
		}
	}
}
