package compiler

import (
	"github.com/cwbudde/chalcedony/internal/ast"
	"github.com/cwbudde/chalcedony/internal/bytecode"
	"github.com/cwbudde/chalcedony/internal/cerrors"
	"github.com/cwbudde/chalcedony/internal/types"
)

// compileFuncDecl compiles one function/method body: it was already
// registered (id, arg/return types) by registerDecls, so this only binds
// a fresh local scope for its parameters, emits CreateFunc, the body, and
// checks every path returns a value when the declared return type isn't
// void (§4.6).
func (c *Compiler) compileFuncDecl(decl *ast.FuncDecl) {
	entry := c.findEntry(decl)
	if entry == nil {
		c.errs.Add(cerrors.Internal(cerrors.KindInvariantViolated, decl.Pos, "function %q was never registered", decl.Name))
		return
	}

	savedLocals, savedNextLocal, savedFunc, savedSafety := c.locals, c.nextLocalID, c.currentFunc, c.safety
	c.locals = make(map[string]*symbol)
	c.nextLocalID = 0
	c.currentFunc = entry
	c.safety = Normal

	for i, arg := range decl.Args {
		if arg.Type.Tag == types.TagVoid {
			c.errs.Add(cerrors.Compile(cerrors.KindVoidArgument, arg.Pos, "argument %q cannot have type void", arg.Name))
		}
		if _, exists := c.locals[arg.Name]; exists {
			c.errs.Add(cerrors.Compile(cerrors.KindRedefiningArg, arg.Pos, "argument %q repeated", arg.Name))
			continue
		}
		c.locals[arg.Name] = &symbol{ID: uint16(i), Type: arg.Type}
		c.nextLocalID++
	}

	c.chunk.Emit(bytecode.CreateFunc, uint16(len(decl.Args)))

	c.compileBody(decl.Body)

	if decl.ReturnType.Tag != types.TagVoid && !bodyAlwaysReturns(decl.Body) {
		c.errs.Add(cerrors.Compile(cerrors.KindNoDefaultReturnStmnt, decl.Pos,
			"function %q must return %s on every path", decl.Name, decl.ReturnType))
	}
	if decl.ReturnType.Tag == types.TagVoid {
		c.chunk.EmitSimple(bytecode.ReturnVoid)
	}

	c.locals, c.nextLocalID, c.currentFunc, c.safety = savedLocals, savedNextLocal, savedFunc, savedSafety
}

func (c *Compiler) findEntry(decl *ast.FuncDecl) *funcEntry {
	key := funcKey(decl.ClassName, decl.Name)
	for _, e := range c.funcs[key] {
		if e.Decl == decl {
			return e
		}
	}
	return nil
}

// bodyAlwaysReturns is a conservative, syntactic check: a body "always
// returns" when its last statement is a Return, or an if/elif/.../else
// chain whose every branch always returns (§4.6's fall-through check).
// Throw is not treated as a guaranteed exit here since it can be caught
// by an enclosing try higher up the call chain, outside this function's
// own view.
func bodyAlwaysReturns(body []ast.Stmt) bool {
	if len(body) == 0 {
		return false
	}
	switch last := body[len(body)-1].(type) {
	case *ast.Return:
		return true
	case *ast.If:
		if last.Else == nil {
			return false
		}
		if !bodyAlwaysReturns(last.Body) || !bodyAlwaysReturns(last.Else) {
			return false
		}
		for _, e := range last.Elifs {
			if !bodyAlwaysReturns(e.Body) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
