package compiler

import (
	"strconv"

	"github.com/cwbudde/chalcedony/internal/ast"
	"github.com/cwbudde/chalcedony/internal/builtins"
	"github.com/cwbudde/chalcedony/internal/bytecode"
	"github.com/cwbudde/chalcedony/internal/cerrors"
	"github.com/cwbudde/chalcedony/internal/lexer"
	"github.com/cwbudde/chalcedony/internal/types"
)

// emitCast appends the instruction (if any) verify's decision calls for.
func (c *Compiler) emitCast(cast types.Cast) {
	switch cast {
	case types.CastToInt:
		c.chunk.EmitSimple(bytecode.CastI)
	case types.CastToFloat:
		c.chunk.EmitSimple(bytecode.CastF)
	}
}

// compileExpr emits e's bytecode and returns the resulting type (the
// single pseudo-stack item a valid RPN expression reduces to, §3/§8).
func (c *Compiler) compileExpr(e *ast.NodeExpr) types.Type {
	var stack []types.Type
	for _, item := range e.Items {
		switch item.Kind {
		case ast.ItemLiteral:
			stack = append(stack, c.compileLiteral(item))
		case ast.ItemResolution:
			stack = append(stack, c.compileAttrRes(item.Resolution))
		case ast.ItemList:
			stack = append(stack, c.compileList(item))
		case ast.ItemInlineClass:
			stack = append(stack, c.compileInlineClass(item))
		case ast.ItemBinOp:
			stack = c.compileBinOp(stack, item)
		case ast.ItemUnOp:
			stack = c.compileUnOp(stack, item)
		}
	}
	if len(stack) == 0 {
		return types.Void
	}
	return stack[len(stack)-1]
}

func (c *Compiler) compileLiteral(item ast.ExprItem) types.Type {
	switch item.LitType.Tag {
	case types.TagInt:
		v, _ := strconv.ParseInt(item.LitText, 10, 64)
		c.chunk.EmitConstI(v)
	case types.TagUint:
		v, _ := strconv.ParseUint(item.LitText, 10, 64)
		c.chunk.EmitConstU(v)
	case types.TagFloat:
		v, _ := strconv.ParseFloat(item.LitText, 64)
		c.chunk.EmitConstF(v)
	case types.TagStr:
		c.chunk.EmitConstS(item.LitText)
	case types.TagBool:
		c.chunk.EmitConstB(item.LitText == "true")
	}
	return item.LitType
}

// compileList emits each element (left to right) and ConstL(n). Element
// types must agree, with the same right-hand-side-only widening the rest
// of the compiler applies (§9's open question on incoherent list
// elements): later elements may widen into the first element's type, but
// not the reverse, since a cast instruction can only affect the value
// currently on top of the stack.
func (c *Compiler) compileList(item ast.ExprItem) types.Type {
	var elemType types.Type
	for i, elem := range item.List {
		t := c.compileExpr(elem)
		if i == 0 {
			elemType = t
			continue
		}
		if elemType.Equal(t) {
			continue
		}
		if cast, ok := types.Verify(elemType, t); ok {
			c.emitCast(cast)
			continue
		}
		c.errs.Add(cerrors.Compile(cerrors.KindIncoherentListElems, elem.Span(),
			"list element has type %s, expected %s", t, elemType))
	}
	c.chunk.Emit(bytecode.ConstL, uint16(len(item.List)))
	if len(item.List) == 0 {
		elemType = types.Any
	}
	return types.List(elemType)
}

// compileInlineClass validates the provided field set against the class's
// declared members, emits each member's value in DECLARED order
// (regardless of the order fields were written in source), and emits
// ConstObj(n).
func (c *Compiler) compileInlineClass(item ast.ExprItem) types.Type {
	cls, ok := c.classes[item.ClassName]
	if !ok {
		c.errs.Add(cerrors.Compile(cerrors.KindUnknownClass, item.Pos, "unknown class %q", item.ClassName))
		return types.Custom(item.ClassName)
	}

	byName := make(map[string]ast.FieldInit, len(item.Fields))
	for _, f := range item.Fields {
		byName[f.Name] = f
	}
	for _, f := range item.Fields {
		found := false
		for _, m := range cls.Members {
			if m.Name == f.Name {
				found = true
				break
			}
		}
		if !found {
			c.errs.Add(cerrors.Compile(cerrors.KindUndefinedMembers, f.Pos, "class %q has no member %q", item.ClassName, f.Name))
		}
	}

	var missing []string
	for _, m := range cls.Members {
		f, ok := byName[m.Name]
		if !ok {
			missing = append(missing, m.Name)
			continue
		}
		t := c.compileExpr(f.Value)
		cast, ok := types.Verify(m.Type, t)
		if !ok {
			c.errs.Add(cerrors.Compile(cerrors.KindInvalidType, f.Pos,
				"member %q expects %s, got %s", m.Name, m.Type, t))
		}
		c.emitCast(cast)
	}
	if len(missing) > 0 {
		c.errs.Add(cerrors.Compile(cerrors.KindMissingMembers, item.Pos,
			"class %q constructor is missing members %v", item.ClassName, missing))
	}
	c.chunk.Emit(bytecode.ConstObj, uint16(len(cls.Members)))
	return types.Custom(item.ClassName)
}

var binOpcodes = map[lexer.Kind]bytecode.OpCode{
	lexer.KindPlus: bytecode.Add, lexer.KindMinus: bytecode.Sub,
	lexer.KindStar: bytecode.Mul, lexer.KindSlash: bytecode.Div, lexer.KindPercent: bytecode.Mod,
	lexer.KindLt: bytecode.Lt, lexer.KindGt: bytecode.Gt,
	lexer.KindLtEq: bytecode.LtEq, lexer.KindGtEq: bytecode.GtEq,
	lexer.KindEqEq: bytecode.Eq,
	lexer.KindAndAnd: bytecode.And, lexer.KindOrOr: bytecode.Or,
}

// compileBinOp pops the two static types the RPN operator applies to,
// widens the right (top-of-stack) operand into the left's type when
// possible — the opcode set has no stack-reorder instruction, so only
// that direction is physically expressible — and emits the operator.
func (c *Compiler) compileBinOp(stack []types.Type, item ast.ExprItem) []types.Type {
	if len(stack) < 2 {
		c.errs.Add(cerrors.Internal(cerrors.KindInvariantViolated, item.Pos, "binary operator with fewer than two operands"))
		return stack
	}
	right := stack[len(stack)-1]
	left := stack[len(stack)-2]
	stack = stack[:len(stack)-2]

	result := left
	switch item.Op {
	case lexer.KindAndAnd, lexer.KindOrOr:
		if left.Tag != types.TagBool || right.Tag != types.TagBool {
			c.errs.Add(cerrors.Compile(cerrors.KindInvalidBinaryOp, item.Pos,
				"operator %s requires bool operands, got %s and %s", item.Op, left, right))
		}
		result = types.Bool
	case lexer.KindLt, lexer.KindGt, lexer.KindLtEq, lexer.KindGtEq:
		c.widenRight(left, right, item)
		result = types.Bool
	case lexer.KindEqEq:
		c.widenRight(left, right, item)
		result = types.Bool
	case lexer.KindNotEq:
		c.widenRight(left, right, item)
		c.chunk.EmitSimple(bytecode.Eq)
		c.chunk.EmitSimple(bytecode.Not)
		return append(stack, types.Bool)
	default: // arithmetic
		c.widenRight(left, right, item)
		result = left
	}

	if op, ok := binOpcodes[item.Op]; ok {
		c.chunk.EmitSimple(op)
	}
	return append(stack, result)
}

// widenRight emits a cast of the top-of-stack (right) operand into left's
// type when the two differ and verify() allows it; otherwise records
// InvalidBinaryOperator.
func (c *Compiler) widenRight(left, right types.Type, item ast.ExprItem) {
	if left.Equal(right) {
		return
	}
	cast, ok := types.Verify(left, right)
	if !ok {
		c.errs.Add(cerrors.Compile(cerrors.KindInvalidBinaryOp, item.Pos,
			"operator %s cannot apply to %s and %s", item.Op, left, right))
		return
	}
	c.emitCast(cast)
}

func (c *Compiler) compileUnOp(stack []types.Type, item ast.ExprItem) []types.Type {
	if len(stack) < 1 {
		c.errs.Add(cerrors.Internal(cerrors.KindInvariantViolated, item.Pos, "unary operator with no operand"))
		return stack
	}
	operand := stack[len(stack)-1]
	switch item.Op {
	case lexer.KindMinus:
		if !operand.IsNumeric() {
			c.errs.Add(cerrors.Compile(cerrors.KindInvalidUnaryOpType, item.Pos, "unary '-' requires a numeric operand, got %s", operand))
		}
		c.chunk.EmitSimple(bytecode.Neg)
	case lexer.KindNot:
		if operand.Tag != types.TagBool {
			c.errs.Add(cerrors.Compile(cerrors.KindInvalidUnaryOpType, item.Pos, "unary '!' requires a bool operand, got %s", operand))
		}
		c.chunk.EmitSimple(bytecode.Not)
	}
	return stack
}

// compileAttrRes compiles a full read of a dotted attribute-resolution
// chain and returns the resulting type.
func (c *Compiler) compileAttrRes(r *ast.NodeAttrRes) types.Type {
	t := c.compileSegment(nil, r.Segments[0])
	for _, seg := range r.Segments[1:] {
		t = c.compileSegment(&t, seg)
	}
	return t
}

func (c *Compiler) compileSegment(objType *types.Type, seg ast.AttrSegment) types.Type {
	if seg.Kind == ast.SegVarCall {
		if objType == nil {
			sym, op, ok := c.lookupVar(seg.Name)
			if !ok {
				c.errs.Add(cerrors.Compile(cerrors.KindUnknownVariable, seg.Pos, "unknown variable %q", seg.Name))
				return types.Any
			}
			c.chunk.Emit(op, sym.ID)
			return sym.Type
		}
		idx, mtype, ok := c.memberLookup(*objType, seg.Name)
		if !ok {
			c.errs.Add(cerrors.Compile(cerrors.KindUnknownMember, seg.Pos, "unknown member %q on %s", seg.Name, objType))
			return types.Any
		}
		c.chunk.Emit(bytecode.GetAttr, uint16(idx))
		return mtype
	}

	namespace := seg.Namespace
	if objType != nil {
		ns, _ := builtins.IterNamespace(*objType)
		namespace = ns
	}
	target, ok := c.resolveCall(namespace, seg.Name, c.inferArgTypes(objType, seg.Args))
	if !ok {
		kind := cerrors.KindUnknownFunction
		if objType != nil {
			kind = cerrors.KindMethodNotImplemented
		}
		c.errs.Add(cerrors.Compile(kind, seg.Pos, "no matching overload for %q", seg.Name))
		for _, a := range seg.Args {
			c.compileExpr(a)
		}
		return types.Any
	}
	if target.IsUnsafe && c.safety == Safe {
		c.errs.Add(cerrors.Compile(cerrors.KindUnsafeOpInSafeBlock, seg.Pos, "call to unsafe function %q inside a safe block", seg.Name))
	}
	return c.emitCall(target, seg.Args, objType != nil)
}

func (c *Compiler) memberLookup(objType types.Type, name string) (int, types.Type, bool) {
	if objType.Tag != types.TagCustom {
		return 0, types.Any, false
	}
	cls, ok := c.classes[objType.Name]
	if !ok {
		return 0, types.Any, false
	}
	for i, m := range cls.Members {
		if m.Name == name {
			return i, m.Type, true
		}
	}
	return 0, types.Any, false
}

// callTarget is the outcome of overload resolution: enough information to
// emit the call's argument casts and the call instruction itself.
type callTarget struct {
	IsDedicated bool
	Dedicated   bytecode.OpCode // Print/Assert/Len when IsDedicated
	FuncID      uint16
	ParamTypes  []types.Type
	Return      types.Type
	IsUnsafe    bool
}

// inferArgTypes computes each argument's static type via a silent,
// non-emitting pass (inferType), used only to pick an overload before the
// authoritative, error-recording, bytecode-emitting pass runs.
func (c *Compiler) inferArgTypes(selfType *types.Type, args []*ast.NodeExpr) []types.Type {
	var out []types.Type
	if selfType != nil {
		out = append(out, *selfType)
	}
	for _, a := range args {
		out = append(out, c.inferType(a))
	}
	return out
}

// inferType mirrors compileExpr's type logic without emitting bytecode or
// recording errors; it exists solely so overload resolution can see every
// argument's type before any argument's bytecode (and therefore its cast)
// is emitted.
func (c *Compiler) inferType(e *ast.NodeExpr) types.Type {
	var stack []types.Type
	for _, item := range e.Items {
		switch item.Kind {
		case ast.ItemLiteral:
			stack = append(stack, item.LitType)
		case ast.ItemResolution:
			stack = append(stack, c.inferAttrRes(item.Resolution))
		case ast.ItemList:
			et := types.Any
			if len(item.List) > 0 {
				et = c.inferType(item.List[0])
			}
			stack = append(stack, types.List(et))
		case ast.ItemInlineClass:
			stack = append(stack, types.Custom(item.ClassName))
		case ast.ItemBinOp:
			if len(stack) >= 2 {
				left := stack[len(stack)-2]
				stack = stack[:len(stack)-2]
				result := left
				switch item.Op {
				case lexer.KindAndAnd, lexer.KindOrOr, lexer.KindLt, lexer.KindGt,
					lexer.KindLtEq, lexer.KindGtEq, lexer.KindEqEq, lexer.KindNotEq:
					result = types.Bool
				}
				stack = append(stack, result)
			}
		case ast.ItemUnOp:
			if item.Op == lexer.KindNot && len(stack) >= 1 {
				stack[len(stack)-1] = types.Bool
			}
		}
	}
	if len(stack) == 0 {
		return types.Void
	}
	return stack[len(stack)-1]
}

func (c *Compiler) inferAttrRes(r *ast.NodeAttrRes) types.Type {
	seg := r.Segments[0]
	var t types.Type
	if seg.Kind == ast.SegVarCall {
		if sym, _, ok := c.lookupVar(seg.Name); ok {
			t = sym.Type
		} else {
			t = types.Any
		}
	} else {
		target, ok := c.resolveCall(seg.Namespace, seg.Name, c.inferArgTypes(nil, seg.Args))
		if ok {
			t = target.Return
		} else {
			t = types.Any
		}
	}
	for _, seg := range r.Segments[1:] {
		if seg.Kind == ast.SegVarCall {
			_, mt, ok := c.memberLookup(t, seg.Name)
			if ok {
				t = mt
			} else {
				t = types.Any
			}
			continue
		}
		ns, _ := builtins.IterNamespace(t)
		target, ok := c.resolveCall(ns, seg.Name, c.inferArgTypes(&t, seg.Args))
		if ok {
			t = target.Return
		} else {
			t = types.Any
		}
	}
	return t
}

// resolveCall picks an overload of (namespace, name). Unqualified print,
// assert and len map to their dedicated opcodes by name alone, before any
// user-defined function and without checking argTypes. Other calls try
// user-defined functions first, then the builtin registry, matching
// argTypes by soft-equality position-for-position (§4.6, §9).
func (c *Compiler) resolveCall(namespace, name string, argTypes []types.Type) (callTarget, bool) {
	if namespace == "" {
		switch name {
		case "print":
			return callTarget{IsDedicated: true, Dedicated: bytecode.Print, ParamTypes: []types.Type{types.Any}, Return: types.Void}, true
		case "assert":
			return callTarget{IsDedicated: true, Dedicated: bytecode.Assert, ParamTypes: []types.Type{types.Any, types.Any}, Return: types.Void}, true
		case "len":
			return callTarget{IsDedicated: true, Dedicated: bytecode.Len, ParamTypes: []types.Type{types.Any}, Return: types.Uint}, true
		}
	}
	key := funcKey(namespace, name)
	for _, entry := range c.funcs[key] {
		if softEqualTuple(entry.ArgTypes, argTypes) {
			return callTarget{FuncID: entry.ID, ParamTypes: entry.ArgTypes, Return: entry.ReturnType, IsUnsafe: entry.IsUnsafe}, true
		}
	}
	if sig, ok := c.builtins.Resolve(namespace, name, argTypes); ok {
		id, hasID := c.builtinIDs[key]
		if !hasID {
			return callTarget{}, false
		}
		return callTarget{FuncID: id, ParamTypes: sig.Args, Return: sig.Return, IsUnsafe: sig.IsUnsafe}, true
	}
	return callTarget{}, false
}

func softEqualTuple(params, args []types.Type) bool {
	if len(params) != len(args) {
		return false
	}
	for i := range params {
		if !types.SoftEqual(params[i], args[i]) {
			return false
		}
	}
	return true
}

// emitCall compiles argExprs (skipping the leading self parameter when
// selfOnStack, since that value is already on the stack from the segment
// chain before this call) and the call instruction itself.
func (c *Compiler) emitCall(target callTarget, argExprs []*ast.NodeExpr, selfOnStack bool) types.Type {
	offset := 0
	if selfOnStack {
		offset = 1
	}
	for i, argExpr := range argExprs {
		argType := c.compileExpr(argExpr)
		if i+offset >= len(target.ParamTypes) {
			continue
		}
		paramType := target.ParamTypes[i+offset]
		cast, ok := types.Verify(paramType, argType)
		if !ok {
			c.errs.Add(cerrors.Compile(cerrors.KindInvalidType, argExpr.Span(),
				"argument %d expects %s, got %s", i+1, paramType, argType))
		}
		c.emitCast(cast)
	}
	if target.IsDedicated {
		c.chunk.EmitSimple(target.Dedicated)
	} else {
		c.chunk.Emit(bytecode.CallFunc, target.FuncID)
	}
	return target.Return
}
