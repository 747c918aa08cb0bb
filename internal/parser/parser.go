package parser

import (
	"github.com/cwbudde/chalcedony/internal/ast"
	"github.com/cwbudde/chalcedony/internal/cerrors"
	"github.com/cwbudde/chalcedony/internal/lexer"
	"github.com/cwbudde/chalcedony/internal/reader"
	"github.com/cwbudde/chalcedony/internal/source"
	"github.com/cwbudde/chalcedony/internal/types"
)

// Parser builds an *ast.Program from Chalcedony source by repeatedly
// pulling top-level chunks from a Lexer and dispatching each on its
// leading token kind (§4.4).
type Parser struct {
	lex  *lexer.Lexer
	errs *cerrors.List
}

// New builds a Parser over src.
func New(src string) *Parser {
	return &Parser{lex: lexer.New(src), errs: &cerrors.List{}}
}

// ParseProgram consumes the entire source and returns the resulting
// Program, or the accumulated lex+parse errors. Per §4.7, lexing fails
// fast per chunk but the parser itself keeps going across chunks so a
// single bad statement doesn't hide errors in the rest of the file.
func (p *Parser) ParseProgram() (*ast.Program, []error) {
	prog := &ast.Program{}
	for !p.lex.IsEmpty() {
		chunk, lexErrs := p.lex.AdvanceProg()
		for _, e := range lexErrs {
			p.errs.Errors = append(p.errs.Errors, e.(*cerrors.Error))
		}
		if len(chunk) == 0 {
			continue
		}
		stmt := p.parseChunk(chunk)
		if stmt != nil {
			prog.Items = append(prog.Items, stmt)
		}
	}
	return prog, p.errs.AsErrors()
}

// parseChunk dispatches one top-level (or nested) chunk of Lines,
// produced either by the Lexer's AdvanceProg or by a LineReader's
// AdvanceChunk, to its statement builder by the header Line's leading
// token kind.
func (p *Parser) parseChunk(chunk []lexer.Line) ast.Stmt {
	header := chunk[0]
	if len(header.Tokens) == 0 {
		return nil
	}
	switch header.Tokens[0].Kind {
	case lexer.KindLet, lexer.KindConst:
		return p.parseVarDef(header)
	case lexer.KindIdent:
		return p.parseIdentStmt(header)
	case lexer.KindReturn:
		return p.parseReturn(header)
	case lexer.KindBreak:
		return &ast.Break{Pos: header.Tokens[0].Span}
	case lexer.KindContinue:
		return &ast.Continue{Pos: header.Tokens[0].Span}
	case lexer.KindThrow:
		return p.parseThrow(header)
	case lexer.KindIf:
		return p.parseIf(chunk)
	case lexer.KindWhile:
		return p.parseWhile(chunk)
	case lexer.KindFor:
		return p.parseFor(chunk)
	case lexer.KindTry:
		return p.parseTry(chunk)
	case lexer.KindFn:
		return p.parseFuncDecl(chunk, "")
	case lexer.KindClass:
		return p.parseClassDecl(chunk)
	default:
		tok := header.Tokens[0]
		p.errs.Add(cerrors.Parse(cerrors.KindUnexpectedToken, tok.Span,
			"unexpected token %q starting a statement", tok.Text))
		return nil
	}
}

// parseBody parses every statement chunk within a compound statement's
// body Lines, peeling one nested chunk at a time via a fresh LineReader.
func (p *Parser) parseBody(lines []lexer.Line) []ast.Stmt {
	lr := reader.NewLineReader(lines)
	var body []ast.Stmt
	for !lr.IsEmpty() {
		chunk := lr.AdvanceChunk()
		if len(chunk) == 0 {
			break
		}
		if stmt := p.parseChunk(chunk); stmt != nil {
			body = append(body, stmt)
		}
	}
	return body
}

// headerReader builds a TokenReader over a header Line's tokens, skipping
// the first n tokens (typically the leading keyword(s)).
func headerReader(header lexer.Line, skip int) *reader.TokenReader {
	tr := reader.NewTokenReader(header.Tokens)
	for i := 0; i < skip; i++ {
		tr.Advance()
	}
	return tr
}

func resolveType(tok lexer.Token) types.Type {
	switch tok.Text {
	case "int":
		return types.Int
	case "uint":
		return types.Uint
	case "float":
		return types.Float
	case "str":
		return types.Str
	case "bool":
		return types.Bool
	case "any":
		return types.Any
	case "void":
		return types.Void
	case "exception":
		return types.Exception
	default:
		return types.Custom(tok.Text)
	}
}

func (p *Parser) parseVarDef(header lexer.Line) ast.Stmt {
	tr := reader.NewTokenReader(header.Tokens)
	start := tr.Peek().Span

	isConst := false
	if tr.PeekIsExact(lexer.KindConst) {
		isConst = true
		tr.Advance()
	}
	if _, err := tr.Expect(lexer.KindLet); err != nil {
		p.errs.Add(err)
	}
	nameTok, err := tr.ExpectIdent()
	if err != nil {
		p.errs.Add(err)
	}

	declType := types.Any
	hasType := false
	if tr.PeekIsExact(lexer.KindColon) {
		tr.Advance()
		typeTok, terr := tr.ExpectType()
		if terr != nil {
			p.errs.Add(terr)
		} else {
			declType = resolveType(typeTok)
			hasType = true
		}
	}
	if _, err := tr.Expect(lexer.KindAssign); err != nil {
		p.errs.Add(err)
	}
	value, exprErrs := ParseExpr(tr)
	p.addErrs(exprErrs)

	return &ast.VarDef{
		Name: nameTok.Text, Type: declType, HasType: hasType,
		IsConst: isConst, Value: value, Pos: newSpan(start, value.Span()),
	}
}

// compoundAssignOps maps a compound-assignment token to the binary
// operator desugaring appends to the RHS RPN (§4.6).
var compoundAssignOps = map[lexer.Kind]lexer.Kind{
	lexer.KindPlusEq:    lexer.KindPlus,
	lexer.KindMinusEq:   lexer.KindMinus,
	lexer.KindStarEq:    lexer.KindStar,
	lexer.KindSlashEq:   lexer.KindSlash,
	lexer.KindPercentEq: lexer.KindPercent,
}

func (p *Parser) parseIdentStmt(header lexer.Line) ast.Stmt {
	tr := reader.NewTokenReader(header.Tokens)
	start := tr.Peek().Span
	es := &exprState{tr: tr, errs: p.errs}
	target := es.parseAttrRes()

	tok := tr.Peek()
	if tok.Kind == lexer.KindAssign {
		tr.Advance()
		value, errs := ParseExpr(tr)
		p.addErrs(errs)
		return &ast.Assign{Target: target, CompoundOp: lexer.KindAssign, Value: value, Pos: newSpan(start, value.Span())}
	}
	if _, ok := compoundAssignOps[tok.Kind]; ok {
		tr.Advance()
		value, errs := ParseExpr(tr)
		p.addErrs(errs)
		return &ast.Assign{Target: target, CompoundOp: tok.Kind, Value: value, Pos: newSpan(start, value.Span())}
	}

	if tr.IsAtEnd() {
		if len(target.Segments) > 0 && target.Last().Kind == ast.SegFuncCall {
			return &ast.FuncCallStmnt{Call: target, Pos: target.Pos}
		}
	}
	p.errs.Add(cerrors.Parse(cerrors.KindUnexpectedToken, tok.Span,
		"expression statement must be a function call or an assignment"))
	return &ast.FuncCallStmnt{Call: target, Pos: target.Pos}
}

func (p *Parser) parseReturn(header lexer.Line) ast.Stmt {
	tr := headerReader(header, 1)
	start := header.Tokens[0].Span
	if tr.IsAtEnd() {
		return &ast.Return{Pos: start}
	}
	value, errs := ParseExpr(tr)
	p.addErrs(errs)
	return &ast.Return{Value: value, Pos: newSpan(start, value.Span())}
}

func (p *Parser) parseThrow(header lexer.Line) ast.Stmt {
	tr := headerReader(header, 1)
	start := header.Tokens[0].Span
	value, errs := ParseExpr(tr)
	p.addErrs(errs)
	return &ast.Throw{Value: value, Pos: newSpan(start, value.Span())}
}

func (p *Parser) addErrs(errs []error) {
	for _, e := range errs {
		if ce, ok := e.(*cerrors.Error); ok {
			p.errs.Errors = append(p.errs.Errors, ce)
		}
	}
}

// newSpan builds a Span covering from start's beginning to end's end,
// anchored to start's Spanner (every Span within one parse shares the
// same Spanner, the Parser's underlying source.CharReader).
func newSpan(start, end source.Span) source.Span {
	return source.NewSpan(start.Start, end.End, start.Spanner)
}
