package compiler

import (
	"github.com/cwbudde/chalcedony/internal/ast"
	"github.com/cwbudde/chalcedony/internal/builtins"
	"github.com/cwbudde/chalcedony/internal/bytecode"
	"github.com/cwbudde/chalcedony/internal/cerrors"
	"github.com/cwbudde/chalcedony/internal/types"
)

// compileIf compiles the condition/If-skip/body chain for an if/elif/else
// statement. Every branch but the last reserves one extra skipped
// instruction (bodyLen+1) for a trailing Jmp past the remaining branches;
// the last branch in the chain needs no such reservation (§8 scenario 3).
func (c *Compiler) compileIf(s *ast.If) {
	type branch struct {
		cond *ast.NodeExpr
		body []ast.Stmt
	}
	branches := []branch{{s.Cond, s.Body}}
	for _, e := range s.Elifs {
		branches = append(branches, branch{e.Cond, e.Body})
	}
	hasElse := s.Else != nil
	if hasElse {
		branches = append(branches, branch{nil, s.Else})
	}

	var exitJumps []int
	for i, br := range branches {
		isLast := i == len(branches)-1
		if br.cond != nil {
			t := c.compileExpr(br.cond)
			if t.Tag != types.TagBool {
				c.errs.Add(cerrors.Compile(cerrors.KindInvalidType, br.cond.Span(), "condition must be bool, got %s", t))
			}
			ifIdx := c.chunk.EmitJump(bytecode.If, 0)
			c.compileBody(br.body)
			bodyLen := c.chunk.Len() - ifIdx - 1
			if !isLast {
				jmpIdx := c.chunk.EmitJump(bytecode.Jmp, 0)
				exitJumps = append(exitJumps, jmpIdx)
				bodyLen++
			}
			c.chunk.PatchSigned(ifIdx, int16(bodyLen))
		} else {
			c.compileBody(br.body)
		}
	}
	end := c.chunk.Len()
	for _, idx := range exitJumps {
		c.chunk.PatchSigned(idx, int16(end-idx-1))
	}
}

// compileWhile compiles `while COND: BODY`, per §8 scenario 4: the
// condition's If always reserves bodyLen+1 (room for the loop's mandatory
// backward Jmp), and that backward Jmp's distance is startPos-(idx+2)
// where idx is its own emitted index and startPos is the index of the
// condition's first instruction, its target.
func (c *Compiler) compileWhile(s *ast.While) {
	startPos := c.chunk.Len()
	t := c.compileExpr(s.Cond)
	if t.Tag != types.TagBool {
		c.errs.Add(cerrors.Compile(cerrors.KindInvalidType, s.Cond.Span(), "condition must be bool, got %s", t))
	}
	ifIdx := c.chunk.EmitJump(bytecode.If, 0)

	loop := &loopCtx{startPos: startPos}
	c.loops = append(c.loops, loop)
	c.compileBody(s.Body)
	c.loops = c.loops[:len(c.loops)-1]

	bodyLen := c.chunk.Len() - ifIdx - 1 + 1 // +1 reserves the backward Jmp below
	c.chunk.PatchSigned(ifIdx, int16(bodyLen))
	c.emitBackwardJump(startPos)

	end := c.chunk.Len()
	for _, pos := range loop.breakPositions {
		c.chunk.PatchSigned(pos, int16(end-pos+1))
	}
}

// compileFor desugars `for v in ITER: BODY` into the iterator protocol
// (§4.6): a hidden global holds the iterator object (the result of
// __iter__()) and a hidden local holds v — both unconditionally, even at
// top level. Each pass wraps the __next__! call in its own one-shot
// try/catch: the iterator signals exhaustion by throwing, so the catch
// branch is a single jump out of the loop, and a normal return falls
// through into the loop body.
func (c *Compiler) compileFor(s *ast.For) {
	iterableType := c.compileExpr(s.Iterable)
	ns, ok := builtins.IterNamespace(iterableType)
	if !ok {
		c.errs.Add(cerrors.Compile(cerrors.KindInvalidIterable, s.Pos, "%s is not iterable", iterableType))
		return
	}
	iterTarget, ok := c.resolveCall(ns, "__iter__", []types.Type{iterableType})
	if !ok {
		c.errs.Add(cerrors.Compile(cerrors.KindMethodNotImplemented, s.Pos, "%s has no __iter__ method", iterableType))
		return
	}
	c.chunk.Emit(bytecode.CallFunc, iterTarget.FuncID)
	iterGlobal := &symbol{ID: c.nextGlobalID, Type: iterTarget.Return}
	c.nextGlobalID++
	c.chunk.Emit(bytecode.SetGlobal, iterGlobal.ID)

	nextNs, _ := builtins.IterNamespace(iterGlobal.Type)
	nextTarget, ok := c.resolveCall(nextNs, "__next__!", []types.Type{iterGlobal.Type})
	if !ok {
		c.errs.Add(cerrors.Compile(cerrors.KindMethodNotImplemented, s.Pos, "%s has no __next__! method", iterGlobal.Type))
		return
	}
	vLocal := c.allocHiddenLocal(s.Var, nextTarget.Return)

	startPos := c.chunk.Len()
	tryIdx := c.chunk.EmitJump(bytecode.TryScope, 0)
	c.chunk.Emit(bytecode.GetGlobal, iterGlobal.ID)
	c.chunk.Emit(bytecode.CallFunc, nextTarget.FuncID)
	c.chunk.Emit(bytecode.SetLocal, vLocal.ID)
	tryLen := c.chunk.Len() - tryIdx - 1
	c.chunk.EmitJump(bytecode.CatchJmp, 1)
	tryLen++ // the CatchJmp instruction itself is counted in the guarded region
	c.chunk.PatchSigned(tryIdx, int16(tryLen))
	exitIdx := c.chunk.EmitJump(bytecode.Jmp, 0)

	loop := &loopCtx{startPos: startPos}
	c.loops = append(c.loops, loop)
	c.compileBody(s.Body)
	c.loops = c.loops[:len(c.loops)-1]

	bodyLen := c.chunk.Len() - exitIdx - 1
	c.emitBackwardJump(startPos)
	c.chunk.PatchSigned(exitIdx, int16(bodyLen+1))

	end := c.chunk.Len()
	for _, pos := range loop.breakPositions {
		c.chunk.PatchSigned(pos, int16(end-pos+1))
	}
	delete(c.locals, s.Var)
}

// allocHiddenLocal allocates a true local slot for name even at top level,
// overriding the normal locals-only-inside-functions rule (§4.6's
// for-loop desugar requires this regardless of enclosing scope).
func (c *Compiler) allocHiddenLocal(name string, t types.Type) *symbol {
	sym := &symbol{ID: c.nextLocalID, Type: t}
	c.nextLocalID++
	c.locals[name] = sym
	return sym
}

// compileTryCatch emits TryScope(try_body_len), the try body (compiled in
// Guarded safety scope), then binds the exception into a fresh local
// before compiling the catch body (in Safe scope) under
// CatchJmp(catch_body_len) — per §8 scenario 6, catch_body_len counts
// only the user statements compiled after the bind, not the bind itself.
// Nesting a try/catch inside either scope is rejected (NestedTryCatch).
//
// The caught exception always binds as a local (SetLocal/GetLocal), even
// at top level where ordinary VarDefs would bind as globals: §8 scenario
// 6's worked example binds it with SetLocal(0) though the whole snippet
// is top-level code, so the binding follows the for-loop desugar's lead
// (allocHiddenLocal) rather than the general defineSymbol rule.
func (c *Compiler) compileTryCatch(s *ast.TryCatch) {
	if c.safety != Normal {
		c.errs.Add(cerrors.Compile(cerrors.KindNestedTryCatch, s.Pos, "try/catch cannot nest inside another try or catch block"))
	}
	savedSafety := c.safety

	tryIdx := c.chunk.EmitJump(bytecode.TryScope, 0)
	c.safety = Guarded
	c.compileBody(s.Try)
	tryLen := c.chunk.Len() - tryIdx - 1
	c.chunk.PatchSigned(tryIdx, int16(tryLen))

	catchIdx := c.chunk.EmitJump(bytecode.CatchJmp, 0)
	sym := c.allocHiddenLocal(s.CatchVar, s.CatchType)
	c.chunk.Emit(bytecode.SetLocal, sym.ID)
	c.safety = Safe
	bodyStart := c.chunk.Len()
	c.compileBody(s.Catch)
	catchLen := c.chunk.Len() - bodyStart
	c.chunk.PatchSigned(catchIdx, int16(catchLen))

	c.safety = savedSafety
	delete(c.locals, s.CatchVar)
}
