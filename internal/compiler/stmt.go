package compiler

import (
	"github.com/cwbudde/chalcedony/internal/ast"
	"github.com/cwbudde/chalcedony/internal/bytecode"
	"github.com/cwbudde/chalcedony/internal/cerrors"
	"github.com/cwbudde/chalcedony/internal/lexer"
	"github.com/cwbudde/chalcedony/internal/types"
)

// compileStmt dispatches one statement to its compiling function (§4.6's
// statement table).
func (c *Compiler) compileStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.VarDef:
		c.compileVarDef(s)
	case *ast.Assign:
		c.compileAssign(s)
	case *ast.FuncCallStmnt:
		c.compileFuncCallStmnt(s)
	case *ast.Return:
		c.compileReturn(s)
	case *ast.If:
		c.compileIf(s)
	case *ast.While:
		c.compileWhile(s)
	case *ast.For:
		c.compileFor(s)
	case *ast.Break:
		c.compileBreak(s)
	case *ast.Continue:
		c.compileContinue(s)
	case *ast.TryCatch:
		c.compileTryCatch(s)
	case *ast.Throw:
		c.compileThrow(s)
	}
}

func (c *Compiler) compileBody(body []ast.Stmt) {
	for _, s := range body {
		c.compileStmt(s)
	}
}

// compileVarDef handles `let`/`const let`: if an explicit type annotation
// is present it's the expected type (with widening); otherwise the value
// expression's own type is inferred (§4.6).
func (c *Compiler) compileVarDef(s *ast.VarDef) {
	if _, exists := c.currentScope()[s.Name]; exists {
		kind := cerrors.KindRedefiningVariable
		c.errs.Add(cerrors.Compile(kind, s.Pos, "%q is already defined in this scope", s.Name))
	}
	valType := c.compileExpr(s.Value)
	declared := valType
	if s.HasType {
		declared = s.Type
		cast, ok := types.Verify(s.Type, valType)
		if !ok {
			c.errs.Add(cerrors.Compile(cerrors.KindInvalidType, s.Pos,
				"%q declared as %s, value is %s", s.Name, s.Type, valType))
		}
		c.emitCast(cast)
	}
	if declared.Tag == types.TagVoid {
		c.errs.Add(cerrors.Compile(cerrors.KindVoidVariable, s.Pos, "variable %q cannot have type void", s.Name))
	}
	sym, op := c.defineSymbol(s.Name, declared, s.IsConst)
	c.chunk.Emit(op, sym.ID)
}

// currentScope returns the name table assignments/VarDefs should check for
// redefinition against: locals inside a function body, globals otherwise.
func (c *Compiler) currentScope() map[string]*symbol {
	if c.currentFunc != nil {
		return c.locals
	}
	return c.globals
}

var compoundOps = map[lexer.Kind]lexer.Kind{
	lexer.KindPlusEq: lexer.KindPlus, lexer.KindMinusEq: lexer.KindMinus,
	lexer.KindStarEq: lexer.KindStar, lexer.KindSlashEq: lexer.KindSlash,
	lexer.KindPercentEq: lexer.KindPercent,
}

// compileAssign handles both plain (`a = v`) and compound (`a += v`)
// assignment, and both single-segment variable targets and dotted member
// targets (`obj.field = v`). Compound ops desugar by synthesizing an RPN
// expression that reads the target, evaluates the RHS, then applies the
// matching binary operator, before the usual single assignment path runs
// (§4.6).
func (c *Compiler) compileAssign(s *ast.Assign) {
	value := s.Value
	if op, ok := compoundOps[s.CompoundOp]; ok {
		items := []ast.ExprItem{{Kind: ast.ItemResolution, Pos: s.Pos, Resolution: s.Target}}
		items = append(items, value.Items...)
		items = append(items, ast.ExprItem{Kind: ast.ItemBinOp, Pos: s.Pos, Op: op})
		value = &ast.NodeExpr{Items: items, Pos: s.Pos}
	}

	segs := s.Target.Segments
	if len(segs) == 1 {
		c.compileSimpleAssign(segs[0], value)
		return
	}

	objType := c.compileSegment(nil, segs[0])
	for _, seg := range segs[1 : len(segs)-1] {
		objType = c.compileSegment(&objType, seg)
	}
	last := segs[len(segs)-1]
	idx, mtype, ok := c.memberLookup(objType, last.Name)
	if !ok {
		c.errs.Add(cerrors.Compile(cerrors.KindUnknownMember, last.Pos, "unknown member %q on %s", last.Name, objType))
		c.compileExpr(value)
		return
	}
	valType := c.compileExpr(value)
	cast, ok := types.Verify(mtype, valType)
	if !ok {
		c.errs.Add(cerrors.Compile(cerrors.KindInvalidType, s.Pos, "member %q expects %s, got %s", last.Name, mtype, valType))
	}
	c.emitCast(cast)
	c.chunk.Emit(bytecode.SetAttr, uint16(idx))
}

func (c *Compiler) compileSimpleAssign(seg ast.AttrSegment, value *ast.NodeExpr) {
	sym, getOp, ok := c.lookupVar(seg.Name)
	if !ok {
		c.errs.Add(cerrors.Compile(cerrors.KindUnknownVariable, seg.Pos, "unknown variable %q", seg.Name))
		c.compileExpr(value)
		return
	}
	if sym.IsConst {
		c.errs.Add(cerrors.Compile(cerrors.KindMutatingConstant, seg.Pos, "cannot assign to constant %q", seg.Name))
	}
	if c.currentFunc != nil && getOp == bytecode.GetGlobal && !c.isOwnArg(seg.Name) {
		c.errs.Add(cerrors.Compile(cerrors.KindMutatingExternalState, seg.Pos,
			"function %q cannot assign to outer variable %q", c.currentFunc.Name, seg.Name))
	}
	valType := c.compileExpr(value)
	cast, ok := types.Verify(sym.Type, valType)
	if !ok {
		c.errs.Add(cerrors.Compile(cerrors.KindInvalidType, seg.Pos, "%q is %s, value is %s", seg.Name, sym.Type, valType))
	}
	c.emitCast(cast)
	setOp := bytecode.SetLocal
	if getOp == bytecode.GetGlobal {
		setOp = bytecode.SetGlobal
	}
	c.chunk.Emit(setOp, sym.ID)
}

func (c *Compiler) isOwnArg(name string) bool {
	if c.currentFunc == nil {
		return false
	}
	for _, a := range c.currentFunc.ArgNames {
		if a == name {
			return true
		}
	}
	return false
}

// compileFuncCallStmnt compiles a bare call used as a statement; a
// non-void result is rejected (its value would otherwise be discarded
// silently) but still popped to keep the stack balanced (§4.6).
func (c *Compiler) compileFuncCallStmnt(s *ast.FuncCallStmnt) {
	t := c.compileAttrRes(s.Call)
	if t.Tag != types.TagVoid {
		c.errs.Add(cerrors.Compile(cerrors.KindNonVoidFunctionStmnt, s.Pos,
			"result of type %s discarded; use it in an expression or assign it", t))
		c.chunk.EmitSimple(bytecode.Pop)
	}
}

func (c *Compiler) compileReturn(s *ast.Return) {
	if c.currentFunc == nil {
		c.errs.Add(cerrors.Compile(cerrors.KindReturnOutsideFunc, s.Pos, "return outside a function"))
		return
	}
	if s.Value == nil {
		if c.currentFunc.ReturnType.Tag != types.TagVoid {
			c.errs.Add(cerrors.Compile(cerrors.KindReturnVoid, s.Pos,
				"function %q must return %s", c.currentFunc.Name, c.currentFunc.ReturnType))
		}
		c.chunk.EmitSimple(bytecode.ReturnVoid)
		return
	}
	valType := c.compileExpr(s.Value)
	cast, ok := types.Verify(c.currentFunc.ReturnType, valType)
	if !ok {
		c.errs.Add(cerrors.Compile(cerrors.KindInvalidType, s.Pos,
			"function %q returns %s, got %s", c.currentFunc.Name, c.currentFunc.ReturnType, valType))
	}
	c.emitCast(cast)
	c.chunk.EmitSimple(bytecode.Return)
}

func (c *Compiler) compileBreak(s *ast.Break) {
	if len(c.loops) == 0 {
		c.errs.Add(cerrors.Compile(cerrors.KindCtrlFlowOutsideLoop, s.Pos, "break outside a loop"))
		return
	}
	loop := c.loops[len(c.loops)-1]
	idx := c.chunk.EmitJump(bytecode.Jmp, 0)
	loop.breakPositions = append(loop.breakPositions, idx)
}

func (c *Compiler) compileContinue(s *ast.Continue) {
	if len(c.loops) == 0 {
		c.errs.Add(cerrors.Compile(cerrors.KindCtrlFlowOutsideLoop, s.Pos, "continue outside a loop"))
		return
	}
	loop := c.loops[len(c.loops)-1]
	c.emitBackwardJump(loop.startPos)
}

// emitBackwardJump appends Jmp(d) where d targets the instruction at
// chunk index target. The offset is two more than the instruction's own
// index rather than one, matching §8 scenario 4's worked example exactly
// (while false: break compiles its repeat jump as Jmp(-5) at index 3,
// targeting index 0: -5 = 0 - (3 + 2)).
func (c *Compiler) emitBackwardJump(target int) {
	idx := c.chunk.Len()
	d := target - (idx + 2)
	c.chunk.EmitJump(bytecode.Jmp, int16(d))
}

// compileThrow rejects throw inside a Safe scope outright; inside a
// function body it additionally requires either the function's name end
// in `!` (it is itself unsafe) or that we are currently in a Guarded
// scope (a try body) — otherwise the throw could escape uncaught from a
// function whose signature never promised it might (§4.6).
func (c *Compiler) compileThrow(s *ast.Throw) {
	if c.safety == Safe {
		c.errs.Add(cerrors.Compile(cerrors.KindThrowInSafeFunc, s.Pos, "throw is not allowed inside a safe block"))
	} else if c.currentFunc != nil && !c.currentFunc.IsUnsafe && c.safety != Guarded {
		c.errs.Add(cerrors.Compile(cerrors.KindThrowInSafeFunc, s.Pos,
			"throw inside %q requires its name end in '!' or a surrounding guarded block", c.currentFunc.Name))
	}
	valType := c.compileExpr(s.Value)
	if valType.Tag != types.TagStr {
		c.errs.Add(cerrors.Compile(cerrors.KindInvalidType, s.Pos, "throw requires a str expression, got %s", valType))
	}
	c.chunk.EmitSimple(bytecode.ThrowException)
}
