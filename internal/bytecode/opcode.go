// Package bytecode defines Chalcedony's linear instruction set (§6.1) and
// the Chunk builder the compiler emits into. Instruction encoding follows
// the teacher's bytecode package: a 32-bit instruction packed as
// [8-bit opcode][8-bit A][16-bit B], letting small operands (a jump
// distance, a local index) live inline with no separate operand pool.
// Unlike the teacher's VM, this package never executes an Instruction —
// running it is the out-of-scope VM's job.
package bytecode

// OpCode is one tag in Chalcedony's instruction set, per spec §6.1.
type OpCode byte

const (
	// Nop does nothing. The compiler never emits it: break jumps and the
	// for-loop desugar's catch-exit jump are emitted as Jmp(0) and patched.
	// Stack: [] -> []
	Nop OpCode = iota

	// Dup duplicates the top of stack (shallow).
	// Stack: [a] -> [a, a]
	Dup
	// Copy duplicates the top of stack (deep).
	// Stack: [a] -> [a, a]
	Copy
	// Pop discards the top of stack.
	// Stack: [a] -> []
	Pop

	// ConstI pushes a literal Int. Operand B is an index into the Chunk's
	// constant pool, whatever the literal's size.
	ConstI
	// ConstU pushes a literal Uint.
	ConstU
	// ConstF pushes a literal Float.
	ConstF
	// ConstS pushes a literal Str.
	ConstS
	// ConstB pushes a literal Bool.
	ConstB

	// ConstObj pops n values and builds an object.
	// Stack: [v1..vn] -> [obj]
	ConstObj
	// ConstL pops n values and builds a list.
	// Stack: [v1..vn] -> [list]
	ConstL

	// ThrowException converts the top-of-stack string into an exception
	// and unwinds to the nearest enclosing TryScope.
	// Stack: [str] -> []
	ThrowException

	// CastI converts the top-of-stack numeric value to Int.
	CastI
	// CastF converts the top-of-stack numeric value to Float.
	CastF
	// CastU converts the top-of-stack numeric value to Uint.
	CastU

	// Add, Sub, Mul, Div, Mod pop two operands and push the binary
	// arithmetic result.
	Add
	Sub
	Mul
	Div
	Mod

	// And, Or, Lt, Gt, Eq, LtEq, GtEq pop two operands and push a Bool.
	And
	Or
	Lt
	Gt
	Eq
	LtEq
	GtEq

	// Neg, Not apply a unary operator to the top of stack in place.
	Neg
	Not

	// SetGlobal/GetGlobal access the global with the given id (operand B).
	SetGlobal
	GetGlobal

	// SetLocal/GetLocal access the current frame's local with the given
	// id (operand B).
	SetLocal
	GetLocal

	// SetAttr/GetAttr access a field (operand B is the member id) on the
	// object at the top of stack.
	SetAttr
	GetAttr

	// CreateFunc defines a function whose body is the instructions that
	// follow, taking operand B arguments.
	CreateFunc

	// CallFunc invokes the function with the given id (operand B).
	CallFunc

	// Return pops the top of stack as the function's result and unwinds
	// the frame; ReturnVoid unwinds without a value.
	Return
	ReturnVoid

	// If skips the next n (operand B) instructions if the top of stack
	// is false.
	If

	// Jmp performs a relative jump of signed distance d (operand B,
	// interpreted via SignedB).
	Jmp

	// TryScope marks the next n (operand B) instructions as guarded by
	// an exception handler.
	TryScope
	// CatchJmp marks the end of a try block, skipping the next n
	// (operand B) catch instructions when no exception was thrown.
	CatchJmp

	// Len, ListGet, ListRemove, ListInsert, ListSet are list intrinsics;
	// an invalid index throws.
	Len
	ListGet
	ListRemove
	ListInsert
	ListSet

	// Print writes the top of stack to stdout; Assert pops two values
	// and checks them for equality.
	Print
	Assert
)

var opNames = map[OpCode]string{
	Nop: "Nop", Dup: "Dup", Copy: "Copy", Pop: "Pop",
	ConstI: "ConstI", ConstU: "ConstU", ConstF: "ConstF", ConstS: "ConstS", ConstB: "ConstB",
	ConstObj: "ConstObj", ConstL: "ConstL",
	ThrowException: "ThrowException",
	CastI:          "CastI", CastF: "CastF", CastU: "CastU",
	Add: "Add", Sub: "Sub", Mul: "Mul", Div: "Div", Mod: "Mod",
	And: "And", Or: "Or", Lt: "Lt", Gt: "Gt", Eq: "Eq", LtEq: "LtEq", GtEq: "GtEq",
	Neg: "Neg", Not: "Not",
	SetGlobal: "SetGlobal", GetGlobal: "GetGlobal",
	SetLocal: "SetLocal", GetLocal: "GetLocal",
	SetAttr: "SetAttr", GetAttr: "GetAttr",
	CreateFunc: "CreateFunc", CallFunc: "CallFunc",
	Return: "Return", ReturnVoid: "ReturnVoid",
	If: "If", Jmp: "Jmp",
	TryScope: "TryScope", CatchJmp: "CatchJmp",
	Len: "Len", ListGet: "ListGet", ListRemove: "ListRemove", ListInsert: "ListInsert", ListSet: "ListSet",
	Print: "Print", Assert: "Assert",
}

// String renders the opcode's mnemonic, used by Chunk.Disassemble and test
// failure messages.
func (op OpCode) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return "Unknown"
}
