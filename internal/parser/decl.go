package parser

import (
	"strings"

	"github.com/cwbudde/chalcedony/internal/ast"
	"github.com/cwbudde/chalcedony/internal/lexer"
	"github.com/cwbudde/chalcedony/internal/reader"
	"github.com/cwbudde/chalcedony/internal/types"
)

// parseFuncDecl parses `fn [CLASS ::] NAME ( ARG:TYPE, ... ) [ -> TYPE ] :`
// plus its body. ownerClass is non-empty when called while parsing a
// class body, in which case an explicit `Class::` qualifier in the header
// (if present) is expected to repeat the same name.
func (p *Parser) parseFuncDecl(chunk []lexer.Line, ownerClass string) *ast.FuncDecl {
	header := chunk[0]
	start := header.Tokens[0].Span
	tr := headerReader(header, 1)

	firstTok, err := tr.ExpectIdent()
	if err != nil {
		p.errs.Add(err)
	}
	name := firstTok.Text
	className := ownerClass
	if tr.PeekIsExact(lexer.KindColon) && tr.PeekAt(1).Kind == lexer.KindColon {
		tr.Advance()
		tr.Advance()
		className = firstTok.Text
		nameTok, nerr := tr.ExpectIdent()
		if nerr != nil {
			p.errs.Add(nerr)
		}
		name = nameTok.Text
	}

	if _, err := tr.Expect(lexer.KindLParen); err != nil {
		p.errs.Add(err)
	}
	raw := tr.AdvanceScopeRaw(lexer.KindLParen, lexer.KindRParen)
	groups := reader.SplitCommas(raw)

	var args []ast.ArgDecl
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		argTr := reader.NewTokenReader(g)
		argName, aerr := argTr.ExpectIdent()
		if aerr != nil {
			p.errs.Add(aerr)
			continue
		}
		if _, cerr := argTr.Expect(lexer.KindColon); cerr != nil {
			p.errs.Add(cerr)
			continue
		}
		typeTok, terr := argTr.ExpectType()
		if terr != nil {
			p.errs.Add(terr)
			continue
		}
		args = append(args, ast.ArgDecl{Name: argName.Text, Type: resolveType(typeTok), Pos: argName.Span})
	}

	retType := types.Void
	if tr.PeekIsExact(lexer.KindArrow) {
		tr.Advance()
		retTok, rerr := tr.ExpectType()
		if rerr != nil {
			p.errs.Add(rerr)
		} else {
			retType = resolveType(retTok)
		}
	}
	if _, err := tr.Expect(lexer.KindColon); err != nil {
		p.errs.Add(err)
	}

	return &ast.FuncDecl{
		Name:       name,
		ClassName:  className,
		Args:       args,
		ReturnType: retType,
		IsMethod:   len(args) > 0 && args[0].Name == "self",
		IsUnsafe:   strings.HasSuffix(name, "!"),
		Body:       p.parseBody(chunk[1:]),
		Pos:        start,
	}
}

// parseClassDecl parses `class NAME:` followed by member declarations
// (`name: type` lines) and method declarations (`fn` chunks).
func (p *Parser) parseClassDecl(chunk []lexer.Line) ast.Stmt {
	header := chunk[0]
	start := header.Tokens[0].Span
	tr := headerReader(header, 1)

	nameTok, err := tr.ExpectIdent()
	if err != nil {
		p.errs.Add(err)
	}
	if _, err := tr.Expect(lexer.KindColon); err != nil {
		p.errs.Add(err)
	}

	decl := &ast.ClassDecl{Name: nameTok.Text, Pos: start}

	lr := reader.NewLineReader(chunk[1:])
	for !lr.IsEmpty() {
		sub := lr.AdvanceChunk()
		if len(sub) == 0 {
			continue
		}
		memberHeader := sub[0]
		if memberHeader.Tokens[0].Kind == lexer.KindFn {
			decl.Methods = append(decl.Methods, p.parseFuncDecl(sub, nameTok.Text))
			continue
		}
		decl.Members = append(decl.Members, p.parseMemberDecl(memberHeader))
	}
	return decl
}

// parseMemberDecl parses one `name: type` class member line.
func (p *Parser) parseMemberDecl(line lexer.Line) ast.MemberDecl {
	tr := reader.NewTokenReader(line.Tokens)
	nameTok, err := tr.ExpectIdent()
	if err != nil {
		p.errs.Add(err)
	}
	if _, err := tr.Expect(lexer.KindColon); err != nil {
		p.errs.Add(err)
	}
	typeTok, terr := tr.ExpectType()
	if terr != nil {
		p.errs.Add(terr)
	}
	return ast.MemberDecl{Name: nameTok.Text, Type: resolveType(typeTok), Pos: nameTok.Span}
}
