package bytecode

import (
	"fmt"
	"strconv"
	"strings"
)

// Constant is one entry in a Chunk's constant pool. Every Const*
// instruction refers to its literal by a pool index in operand B.
type Constant struct {
	Kind OpCode // one of ConstI, ConstU, ConstF, ConstS, ConstB
	I    int64
	U    uint64
	F    float64
	S    string
	B    bool
}

func (c Constant) String() string {
	switch c.Kind {
	case ConstI:
		return strconv.FormatInt(c.I, 10)
	case ConstU:
		return strconv.FormatUint(c.U, 10)
	case ConstF:
		return strconv.FormatFloat(c.F, 'g', -1, 64)
	case ConstS:
		return strconv.Quote(c.S)
	case ConstB:
		return strconv.FormatBool(c.B)
	default:
		return "?"
	}
}

// Chunk is one compiled program: its linear instruction stream plus the
// constant pool literals reference by index. The compiler builds exactly
// one Chunk per compile; there is no linking step.
type Chunk struct {
	Code      []Instruction
	Constants []Constant
}

// NewChunk returns an empty Chunk.
func NewChunk() *Chunk {
	return &Chunk{}
}

// Len reports the number of instructions emitted so far.
func (c *Chunk) Len() int {
	return len(c.Code)
}

// addConstant appends k and returns its pool index.
func (c *Chunk) addConstant(k Constant) uint16 {
	c.Constants = append(c.Constants, k)
	return uint16(len(c.Constants) - 1)
}

// EmitConstI appends ConstI(v) and returns its instruction index.
func (c *Chunk) EmitConstI(v int64) int {
	idx := c.addConstant(Constant{Kind: ConstI, I: v})
	return c.emit(MakeB(ConstI, idx))
}

// EmitConstU appends ConstU(v).
func (c *Chunk) EmitConstU(v uint64) int {
	idx := c.addConstant(Constant{Kind: ConstU, U: v})
	return c.emit(MakeB(ConstU, idx))
}

// EmitConstF appends ConstF(v).
func (c *Chunk) EmitConstF(v float64) int {
	idx := c.addConstant(Constant{Kind: ConstF, F: v})
	return c.emit(MakeB(ConstF, idx))
}

// EmitConstS appends ConstS(v).
func (c *Chunk) EmitConstS(v string) int {
	idx := c.addConstant(Constant{Kind: ConstS, S: v})
	return c.emit(MakeB(ConstS, idx))
}

// EmitConstB appends ConstB(v).
func (c *Chunk) EmitConstB(v bool) int {
	idx := c.addConstant(Constant{Kind: ConstB, B: v})
	return c.emit(MakeB(ConstB, idx))
}

// Emit appends a generic instruction with an id-shaped B operand (local,
// global, member, function id; arg/elem count).
func (c *Chunk) Emit(op OpCode, b uint16) int {
	return c.emit(MakeB(op, b))
}

// EmitJump appends a Jmp/If/TryScope/CatchJmp-shaped instruction carrying
// a signed relative distance.
func (c *Chunk) EmitJump(op OpCode, d int16) int {
	return c.emit(MakeSignedB(op, d))
}

// EmitSimple appends an operand-less instruction (Add, Pop, Return, ...).
func (c *Chunk) EmitSimple(op OpCode) int {
	return c.emit(MakeSimple(op))
}

func (c *Chunk) emit(i Instruction) int {
	c.Code = append(c.Code, i)
	return len(c.Code) - 1
}

// Patch overwrites the instruction at idx, preserving its opcode and A
// operand but replacing B — used to fix up break placeholders and
// forward-jump distances computed after the jump site was emitted.
func (c *Chunk) Patch(idx int, b uint16) {
	i := c.Code[idx]
	c.Code[idx] = Make(i.OpCode(), i.A(), b)
}

// PatchSigned is Patch for a signed relative-offset operand.
func (c *Chunk) PatchSigned(idx int, d int16) {
	c.Patch(idx, uint16(d))
}

// Disassemble renders the Chunk as one mnemonic per line, constant
// operands resolved inline, for debugging and golden-file tests.
func (c *Chunk) Disassemble() string {
	var sb strings.Builder
	for i, instr := range c.Code {
		op := instr.OpCode()
		switch op {
		case ConstI, ConstU, ConstF, ConstS, ConstB:
			fmt.Fprintf(&sb, "%04d %-14s %s\n", i, op, c.Constants[instr.B()])
		case Jmp, If, TryScope, CatchJmp:
			fmt.Fprintf(&sb, "%04d %-14s %d\n", i, op, instr.SignedB())
		case SetGlobal, GetGlobal, SetLocal, GetLocal, SetAttr, GetAttr,
			CreateFunc, CallFunc, ConstObj, ConstL:
			fmt.Fprintf(&sb, "%04d %-14s %d\n", i, op, instr.B())
		default:
			fmt.Fprintf(&sb, "%04d %s\n", i, op)
		}
	}
	return sb.String()
}
