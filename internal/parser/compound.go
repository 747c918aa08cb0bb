package parser

import (
	"github.com/cwbudde/chalcedony/internal/ast"
	"github.com/cwbudde/chalcedony/internal/lexer"
	"github.com/cwbudde/chalcedony/internal/reader"
)

// headerCondTokens returns a header Line's tokens between the leading
// keyword(s) and the trailing `:` (itself immediately before the Line's
// always-present trailing Newline) — the condition/iterable expression's
// raw token span.
func headerCondTokens(header lexer.Line, skip int) []lexer.Token {
	toks := header.Tokens
	if len(toks) < skip+2 {
		return nil
	}
	return toks[skip : len(toks)-2]
}

func (p *Parser) parseIf(chunk []lexer.Line) ast.Stmt {
	lr := reader.NewLineReader(chunk)
	header, _ := lr.Advance()
	start := header.Tokens[0].Span

	condTr := reader.NewTokenReader(headerCondTokens(header, 1))
	cond, errs := ParseExpr(condTr)
	p.addErrs(errs)

	bodyLines := lr.AdvanceUntil(func(l lexer.Line) bool { return l.Indent > header.Indent })
	stmt := &ast.If{Cond: cond, Body: p.parseBody(bodyLines), Pos: start}

	for !lr.IsEmpty() {
		next, ok := lr.Peek()
		if !ok || next.Indent != header.Indent || len(next.Tokens) == 0 {
			break
		}
		kind := next.Tokens[0].Kind
		if kind != lexer.KindElif && kind != lexer.KindElse {
			break
		}
		lr.Advance()
		extBody := lr.AdvanceUntil(func(l lexer.Line) bool { return l.Indent > header.Indent })
		if kind == lexer.KindElif {
			econdTr := reader.NewTokenReader(headerCondTokens(next, 1))
			econd, eerrs := ParseExpr(econdTr)
			p.addErrs(eerrs)
			stmt.Elifs = append(stmt.Elifs, ast.ElifBranch{Cond: econd, Body: p.parseBody(extBody), Pos: next.Tokens[0].Span})
			continue
		}
		stmt.Else = p.parseBody(extBody)
		break
	}
	return stmt
}

func (p *Parser) parseWhile(chunk []lexer.Line) ast.Stmt {
	header := chunk[0]
	start := header.Tokens[0].Span
	condTr := reader.NewTokenReader(headerCondTokens(header, 1))
	cond, errs := ParseExpr(condTr)
	p.addErrs(errs)
	return &ast.While{Cond: cond, Body: p.parseBody(chunk[1:]), Pos: start}
}

func (p *Parser) parseFor(chunk []lexer.Line) ast.Stmt {
	header := chunk[0]
	start := header.Tokens[0].Span
	tr := headerReader(header, 1)

	varTok, err := tr.ExpectIdent()
	if err != nil {
		p.errs.Add(err)
	}
	if _, err := tr.Expect(lexer.KindIn); err != nil {
		p.errs.Add(err)
	}
	iterable, errs := ParseExpr(tr)
	p.addErrs(errs)

	return &ast.For{Var: varTok.Text, Iterable: iterable, Body: p.parseBody(chunk[1:]), Pos: start}
}

func (p *Parser) parseTry(chunk []lexer.Line) ast.Stmt {
	lr := reader.NewLineReader(chunk)
	header, _ := lr.Advance()
	start := header.Tokens[0].Span

	tryBody := lr.AdvanceUntil(func(l lexer.Line) bool { return l.Indent > header.Indent })
	stmt := &ast.TryCatch{Try: p.parseBody(tryBody), Pos: start}

	catchHeader, ok := lr.Advance()
	if !ok || len(catchHeader.Tokens) == 0 || catchHeader.Tokens[0].Kind != lexer.KindCatch {
		return stmt
	}
	ctr := headerReader(catchHeader, 1)
	if _, err := ctr.Expect(lexer.KindLParen); err != nil {
		p.errs.Add(err)
	}
	varTok, err := ctr.ExpectIdent()
	if err != nil {
		p.errs.Add(err)
	}
	if _, err := ctr.Expect(lexer.KindColon); err != nil {
		p.errs.Add(err)
	}
	typeTok, err := ctr.ExpectType()
	if err != nil {
		p.errs.Add(err)
	}
	if _, err := ctr.Expect(lexer.KindRParen); err != nil {
		p.errs.Add(err)
	}

	catchBody := lr.AdvanceUntil(func(l lexer.Line) bool { return l.Indent > header.Indent })
	stmt.CatchVar = varTok.Text
	stmt.CatchType = resolveType(typeTok)
	stmt.Catch = p.parseBody(catchBody)
	return stmt
}
