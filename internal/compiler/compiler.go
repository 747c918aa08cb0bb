// Package compiler is Chalcedony's type checker and bytecode generator
// (§4.6): it walks an *ast.Program once, resolves names against global and
// local scopes, verifies and widens types, and emits a linear
// *bytecode.Chunk. Grounded in structure on the teacher's
// internal/bytecode compiler (a single-pass AST-to-bytecode walk with
// running id counters) rather than its internal/semantic package, since
// Chalcedony's spec describes exactly one "Compiler" component doing both
// jobs at once.
package compiler

import (
	"github.com/cwbudde/chalcedony/internal/ast"
	"github.com/cwbudde/chalcedony/internal/builtins"
	"github.com/cwbudde/chalcedony/internal/bytecode"
	"github.com/cwbudde/chalcedony/internal/cerrors"
	"github.com/cwbudde/chalcedony/internal/types"
)

// Safety is the compiler's current safety scope, gating throw and unsafe
// function calls (§4.6, GLOSSARY).
type Safety int

const (
	Normal Safety = iota
	Guarded
	Safe
)

// symbol is one entry of the global or local scope table.
type symbol struct {
	ID      uint16
	Type    types.Type
	IsConst bool
}

// funcEntry is one registered user-defined function or method overload.
type funcEntry struct {
	ID         uint16
	Name       string
	Namespace  string
	ArgNames   []string
	ArgTypes   []types.Type
	ReturnType types.Type
	IsUnsafe   bool
	Decl       *ast.FuncDecl
}

// classInfo is one registered class's member layout.
type classInfo struct {
	Name    string
	Members []ast.MemberDecl
}

// loopCtx tracks one nested while/for loop: where its condition begins
// (for `continue`'s backward jump) and which instruction indices hold
// break placeholders still needing a patch to the loop's exit.
type loopCtx struct {
	startPos       int
	breakPositions []int
}

// Compiler holds all state for one compile: the output Chunk, global and
// (per-function) local scopes, the registered function/class tables, and
// the current safety/loop/namespace context (§3's "Scopes held by
// compiler", §5's "Compiler context").
type Compiler struct {
	chunk    *bytecode.Chunk
	builtins *builtins.Registry
	errs     *cerrors.List

	globals      map[string]*symbol
	nextGlobalID uint16

	locals      map[string]*symbol
	nextLocalID uint16

	funcs      map[string][]*funcEntry
	nextFuncID uint16

	classes map[string]*classInfo

	// builtinIDs assigns each non-dedicated builtin signature (the
	// iterator-protocol __iter__/__next__! methods) a synthetic CallFunc
	// id, since print/assert/len compile to their own dedicated opcodes
	// but the iterator methods have no such opcode and must be called the
	// same way a user-defined method is (§4.6, §9).
	builtinIDs map[string]uint16

	currentFunc      *funcEntry
	currentNamespace string
	safety           Safety
	loops            []*loopCtx
}

// New builds an empty Compiler.
func New() *Compiler {
	c := &Compiler{
		chunk:      bytecode.NewChunk(),
		builtins:   builtins.NewRegistry(),
		errs:       &cerrors.List{},
		globals:    make(map[string]*symbol),
		locals:     make(map[string]*symbol),
		funcs:      make(map[string][]*funcEntry),
		classes:    make(map[string]*classInfo),
		builtinIDs: make(map[string]uint16),
	}
	c.assignBuiltinIDs()
	return c
}

// assignBuiltinIDs reserves a synthetic function id for every registered
// builtin that isn't one of the dedicated-opcode core functions
// (print/assert/len), so the iterator protocol's __iter__/__next__!
// methods on str/list can be invoked via CallFunc like any user method.
func (c *Compiler) assignBuiltinIDs() {
	for _, key := range []struct{ ns, name string }{
		{"str", "__iter__"}, {"StrIterator", "__next__!"},
		{"list", "__iter__"}, {"ListIterator", "__next__!"},
	} {
		c.builtinIDs[funcKey(key.ns, key.name)] = c.nextFuncID
		c.nextFuncID++
	}
}

// Compile type-checks and compiles prog into a bytecode.Chunk. Errors
// accumulate per-statement (§4.7); the returned Chunk is always non-nil,
// but may be a partial/best-effort program when errs is non-empty.
func Compile(prog *ast.Program) (*bytecode.Chunk, []error) {
	c := New()
	c.registerDecls(prog.Items)
	for _, item := range prog.Items {
		c.compileTopLevel(item)
	}
	return c.chunk, c.errs.AsErrors()
}

func funcKey(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "::" + name
}

// registerDecls pre-registers every top-level FuncDecl/ClassDecl's
// signature (name, arg types, return type, a fresh id) before any body is
// compiled, so forward references and recursive calls resolve (§4.6:
// "Register the function with a fresh id before compiling the body").
func (c *Compiler) registerDecls(items []ast.Stmt) {
	for _, item := range items {
		switch decl := item.(type) {
		case *ast.FuncDecl:
			c.registerFunc(decl)
		case *ast.ClassDecl:
			for _, m := range decl.Members {
				if m.Type.Tag == types.TagVoid {
					c.errs.Add(cerrors.Compile(cerrors.KindVoidMember, m.Pos, "member %q cannot have type void", m.Name))
				}
			}
			c.classes[decl.Name] = &classInfo{Name: decl.Name, Members: decl.Members}
			for _, m := range decl.Methods {
				c.registerFunc(m)
			}
		}
	}
}

func (c *Compiler) registerFunc(decl *ast.FuncDecl) {
	argTypes := make([]types.Type, len(decl.Args))
	argNames := make([]string, len(decl.Args))
	for i, a := range decl.Args {
		argTypes[i] = a.Type
		argNames[i] = a.Name
	}
	key := funcKey(decl.ClassName, decl.Name)
	for _, existing := range c.funcs[key] {
		if sameTypeTuple(existing.ArgTypes, argTypes) {
			c.errs.Add(cerrors.Compile(cerrors.KindOverloadCollision, decl.Pos,
				"function %q is already defined with this argument tuple", decl.Name))
			return
		}
	}
	entry := &funcEntry{
		ID: c.nextFuncID, Name: decl.Name, Namespace: decl.ClassName,
		ArgNames: argNames, ArgTypes: argTypes, ReturnType: decl.ReturnType,
		IsUnsafe: decl.IsUnsafe, Decl: decl,
	}
	c.nextFuncID++
	c.funcs[key] = append(c.funcs[key], entry)
}

func sameTypeTuple(a, b []types.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// compileTopLevel compiles one Program item: FuncDecl/ClassDecl bodies
// (already registered), or any other statement inline at global scope.
func (c *Compiler) compileTopLevel(item ast.Stmt) {
	switch decl := item.(type) {
	case *ast.FuncDecl:
		c.compileFuncDecl(decl)
	case *ast.ClassDecl:
		c.currentNamespace = decl.Name
		for _, m := range decl.Methods {
			c.compileFuncDecl(m)
		}
		c.currentNamespace = ""
	default:
		c.compileStmt(item)
	}
}

// defineSymbol allocates a fresh symbol for name in the local scope when
// compiling a function body, or the global scope otherwise, and returns
// the matching Set opcode (the caller emits it with the id via Emit).
func (c *Compiler) defineSymbol(name string, t types.Type, isConst bool) (*symbol, bytecode.OpCode) {
	if c.currentFunc != nil {
		sym := &symbol{ID: c.nextLocalID, Type: t, IsConst: isConst}
		c.nextLocalID++
		c.locals[name] = sym
		return sym, bytecode.SetLocal
	}
	sym := &symbol{ID: c.nextGlobalID, Type: t, IsConst: isConst}
	c.nextGlobalID++
	c.globals[name] = sym
	return sym, bytecode.SetGlobal
}

// lookupVar resolves name against locals, then globals. Locals are
// checked unconditionally rather than only inside a function body: the
// for-loop and try/catch desugars both bind hidden locals at top level
// (allocHiddenLocal), and those bindings must resolve the same way a
// real function-local one does.
func (c *Compiler) lookupVar(name string) (*symbol, bytecode.OpCode, bool) {
	if sym, ok := c.locals[name]; ok {
		return sym, bytecode.GetLocal, true
	}
	if sym, ok := c.globals[name]; ok {
		return sym, bytecode.GetGlobal, true
	}
	return nil, 0, false
}
