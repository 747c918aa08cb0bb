// Package parser builds internal/ast trees from internal/reader cursors:
// statement dispatch by leading token (§4.4) and a Shunting-Yard
// expression parser emitting RPN (§4.5). Grounded in control-flow shape on
// the teacher's internal/parser (a TokenCursor-driven recursive-descent
// parser) but the expression engine itself is new — DWScript's parser
// builds a binary tree directly, while Chalcedony's compiler wants a flat
// RPN sequence (§9).
package parser

import (
	"github.com/cwbudde/chalcedony/internal/ast"
	"github.com/cwbudde/chalcedony/internal/cerrors"
	"github.com/cwbudde/chalcedony/internal/lexer"
	"github.com/cwbudde/chalcedony/internal/reader"
	"github.com/cwbudde/chalcedony/internal/source"
	"github.com/cwbudde/chalcedony/internal/types"
)

// binaryPrecedence is the §4.5 precedence table; higher binds tighter.
// Unary operators are not looked up here — they are always precedence 999.
func binaryPrecedence(k lexer.Kind) int {
	switch k {
	case lexer.KindStar, lexer.KindSlash, lexer.KindPercent:
		return 6
	case lexer.KindPlus, lexer.KindMinus:
		return 5
	case lexer.KindLt, lexer.KindGt, lexer.KindLtEq, lexer.KindGtEq:
		return 4
	case lexer.KindEqEq, lexer.KindNotEq:
		return 3
	case lexer.KindAndAnd:
		return 2
	case lexer.KindOrOr:
		return 1
	default:
		return -1
	}
}

func isBinaryCapable(k lexer.Kind) bool {
	return binaryPrecedence(k) >= 0
}

func isUnaryCapable(k lexer.Kind) bool {
	return k == lexer.KindMinus || k == lexer.KindNot
}

func isOperandStart(k lexer.Kind) bool {
	switch k {
	case lexer.KindInt, lexer.KindUint, lexer.KindFloat, lexer.KindStr, lexer.KindBool,
		lexer.KindIdent, lexer.KindLBracket:
		return true
	default:
		return false
	}
}

func literalType(k lexer.Kind) types.Type {
	switch k {
	case lexer.KindInt:
		return types.Int
	case lexer.KindUint:
		return types.Uint
	case lexer.KindFloat:
		return types.Float
	case lexer.KindStr:
		return types.Str
	case lexer.KindBool:
		return types.Bool
	default:
		return types.Any
	}
}

// exprState holds the mutable state of one Shunting-Yard parse: the
// TokenReader being consumed and the error list errors accumulate into.
type exprState struct {
	tr   *reader.TokenReader
	errs *cerrors.List
}

// opEntry is one entry of the operator stack: a real operator (unary or
// binary) or an LParen grouping sentinel.
type opEntry struct {
	tok        lexer.Token
	isUnary    bool
	isSentinel bool
}

func (e opEntry) precedence() int {
	if e.isUnary {
		return 999
	}
	return binaryPrecedence(e.tok.Kind)
}

// ParseExpr runs the Shunting-Yard algorithm over tr until a token outside
// the expression grammar (Newline, EOF, a bare comma or colon, a closing
// ']' or '}') is reached, and returns the resulting RPN NodeExpr plus any
// parse errors encountered. A ')' never ends the expression: it is
// consumed whether or not a matching '(' is open.
func ParseExpr(tr *reader.TokenReader) (*ast.NodeExpr, []error) {
	st := &exprState{tr: tr, errs: &cerrors.List{}}
	expr := st.parse()
	return expr, st.errs.AsErrors()
}

func (st *exprState) parse() *ast.NodeExpr {
	var items []ast.ExprItem
	var stack []opEntry
	lastWasTerminal := false
	consumedAny := false
	startSpan := st.tr.Peek().Span

	popOp := func(e opEntry) {
		kind := ast.ItemBinOp
		if e.isUnary {
			kind = ast.ItemUnOp
		}
		items = append(items, ast.ExprItem{Kind: kind, Op: e.tok.Kind, Pos: e.tok.Span})
	}

loop:
	for !st.tr.IsAtEnd() {
		tok := st.tr.Peek()

		switch {
		case isOperandStart(tok.Kind):
			if lastWasTerminal {
				st.errs.Add(cerrors.Parse(cerrors.KindRepeatedExprTerm, tok.Span,
					"unexpected %q: two values in a row with no operator between them", tok.Text))
				st.parsePrimary() // consume and discard to keep making progress
				consumedAny = true
				continue
			}
			items = append(items, st.parsePrimary())
			lastWasTerminal = true
			consumedAny = true

		case tok.Kind == lexer.KindLParen:
			if lastWasTerminal {
				st.errs.Add(cerrors.Parse(cerrors.KindUnexpectedToken, tok.Span,
					"unexpected '(' following a value"))
				st.tr.Advance()
				consumedAny = true
				continue
			}
			stack = append(stack, opEntry{tok: tok, isSentinel: true})
			st.tr.Advance()
			consumedAny = true

		case tok.Kind == lexer.KindRParen:
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.isSentinel {
					break
				}
				popOp(top)
			}
			st.tr.Advance()
			lastWasTerminal = true
			consumedAny = true

		case !lastWasTerminal && isUnaryCapable(tok.Kind):
			stack = append(stack, opEntry{tok: tok, isUnary: true})
			st.tr.Advance()
			consumedAny = true

		case isBinaryCapable(tok.Kind):
			if !lastWasTerminal {
				st.errs.Add(cerrors.Parse(cerrors.KindRepeatedExprOp, tok.Span,
					"unexpected operator %q: two operators in a row", tok.Text))
				st.tr.Advance()
				consumedAny = true
				continue
			}
			newPrec := binaryPrecedence(tok.Kind)
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.isSentinel || top.precedence() < newPrec {
					break
				}
				stack = stack[:len(stack)-1]
				popOp(top)
			}
			stack = append(stack, opEntry{tok: tok})
			st.tr.Advance()
			lastWasTerminal = false
			consumedAny = true

		case tok.Kind == lexer.KindNot && lastWasTerminal:
			st.errs.Add(cerrors.Parse(cerrors.KindInvalidUnaryOp, tok.Span,
				"unary operator %q cannot follow a value", tok.Text))
			st.tr.Advance()
			consumedAny = true

		default:
			break loop
		}
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !top.isSentinel {
			popOp(top)
		}
	}

	if !consumedAny {
		st.errs.Add(cerrors.Parse(cerrors.KindEmptyExpr, st.tr.Peek().Span, "empty expression"))
		return &ast.NodeExpr{Pos: source.NewSpan(startSpan.Start, startSpan.Start, startSpan.Spanner)}
	}
	if !lastWasTerminal {
		st.errs.Add(cerrors.Parse(cerrors.KindInvalidExprEnd, st.tr.Peek().Span,
			"expression must end in a value"))
	}

	end := startSpan.End
	if len(items) > 0 {
		end = items[len(items)-1].Span().End
	}
	return &ast.NodeExpr{Items: items, Pos: source.NewSpan(startSpan.Start, end, startSpan.Spanner)}
}

// parsePrimary parses one operand: a literal, a list literal, an inline
// class constructor, or an attribute-resolution chain.
func (st *exprState) parsePrimary() ast.ExprItem {
	tok := st.tr.Peek()

	switch tok.Kind {
	case lexer.KindInt, lexer.KindUint, lexer.KindFloat, lexer.KindStr, lexer.KindBool:
		st.tr.Advance()
		return ast.ExprItem{Kind: ast.ItemLiteral, LitType: literalType(tok.Kind), LitText: tok.Text, Pos: tok.Span}

	case lexer.KindLBracket:
		return st.parseListLiteral()

	case lexer.KindIdent:
		if st.tr.PeekAt(1).Kind == lexer.KindLBrace {
			return st.parseInlineClass()
		}
		attrRes := st.parseAttrRes()
		return ast.ExprItem{Kind: ast.ItemResolution, Resolution: attrRes, Pos: attrRes.Pos}

	default:
		st.errs.Add(cerrors.Parse(cerrors.KindUnexpectedToken, tok.Span,
			"unexpected token %q in expression", tok.Text))
		st.tr.Advance()
		return ast.ExprItem{Kind: ast.ItemLiteral, LitType: types.Any, Pos: tok.Span}
	}
}

// parseAttrRes parses a dotted attribute/call chain: `a.b(x).c`, or a
// namespaced call `Class::method(x)` as its first segment.
func (st *exprState) parseAttrRes() *ast.NodeAttrRes {
	start := st.tr.Peek().Span
	var segments []ast.AttrSegment

	for {
		nameTok, err := st.tr.ExpectIdent()
		if err != nil {
			st.errs.Add(err)
			break
		}
		name := nameTok.Text
		namespace := ""
		if st.tr.PeekIsExact(lexer.KindColon) && st.tr.PeekAt(1).Kind == lexer.KindColon {
			st.tr.Advance()
			st.tr.Advance()
			namespace = name
			methodTok, err2 := st.tr.ExpectIdent()
			if err2 != nil {
				st.errs.Add(err2)
				break
			}
			name = methodTok.Text
		}

		seg := ast.AttrSegment{Name: name, Namespace: namespace, Pos: nameTok.Span}
		if st.tr.PeekIsExact(lexer.KindLParen) {
			st.tr.Advance()
			raw := st.tr.AdvanceScopeRaw(lexer.KindLParen, lexer.KindRParen)
			seg.Kind = ast.SegFuncCall
			seg.Args = st.parseArgGroups(raw)
		} else {
			seg.Kind = ast.SegVarCall
		}
		segments = append(segments, seg)

		if st.tr.PeekIsExact(lexer.KindDot) {
			st.tr.Advance()
			continue
		}
		break
	}

	end := start.End
	if len(segments) > 0 {
		end = segments[len(segments)-1].Span().End
	}
	return &ast.NodeAttrRes{Segments: segments, Pos: source.NewSpan(start.Start, end, start.Spanner)}
}

// parseArgGroups splits a raw (already delimiter-stripped) token buffer at
// top-level commas and parses each group as an independent expression.
func (st *exprState) parseArgGroups(raw []lexer.Token) []*ast.NodeExpr {
	groups := reader.SplitCommas(raw)
	var args []*ast.NodeExpr
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		sub := &exprState{tr: reader.NewTokenReader(g), errs: st.errs}
		args = append(args, sub.parse())
	}
	return args
}

func (st *exprState) parseListLiteral() ast.ExprItem {
	open := st.tr.Advance() // '['
	raw := st.tr.AdvanceScopeRaw(lexer.KindLBracket, lexer.KindRBracket)
	groups := reader.SplitCommas(raw)
	var elems []*ast.NodeExpr
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		sub := &exprState{tr: reader.NewTokenReader(g), errs: st.errs}
		elems = append(elems, sub.parse())
	}
	return ast.ExprItem{Kind: ast.ItemList, List: elems, Pos: open.Span}
}

func (st *exprState) parseInlineClass() ast.ExprItem {
	nameTok := st.tr.Advance() // class name
	st.tr.Advance()            // '{'
	raw := st.tr.AdvanceScopeRaw(lexer.KindLBrace, lexer.KindRBrace)
	groups := reader.SplitCommas(raw)

	var fields []ast.FieldInit
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		sub := reader.NewTokenReader(g)
		fieldTok, err := sub.ExpectIdent()
		if err != nil {
			st.errs.Add(err)
			continue
		}
		var value *ast.NodeExpr
		if sub.PeekIsExact(lexer.KindColon) {
			sub.Advance()
			inner := &exprState{tr: sub, errs: st.errs}
			value = inner.parse()
		} else {
			value = &ast.NodeExpr{
				Items: []ast.ExprItem{{
					Kind: ast.ItemResolution,
					Resolution: &ast.NodeAttrRes{
						Segments: []ast.AttrSegment{{Kind: ast.SegVarCall, Name: fieldTok.Text, Pos: fieldTok.Span}},
						Pos:      fieldTok.Span,
					},
					Pos: fieldTok.Span,
				}},
				Pos: fieldTok.Span,
			}
		}
		fields = append(fields, ast.FieldInit{Name: fieldTok.Text, Value: value, Pos: fieldTok.Span})
	}
	return ast.ExprItem{Kind: ast.ItemInlineClass, ClassName: nameTok.Text, Fields: fields, Pos: nameTok.Span}
}
