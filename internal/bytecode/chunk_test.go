package bytecode

import "testing"

func TestEmitConstUAndSetGlobal(t *testing.T) {
	c := NewChunk()
	c.EmitConstU(3)
	c.Emit(SetGlobal, 0)

	if c.Len() != 2 {
		t.Fatalf("expected 2 instructions, got %d", c.Len())
	}
	if c.Code[0].OpCode() != ConstU {
		t.Fatalf("expected ConstU, got %v", c.Code[0].OpCode())
	}
	if c.Constants[c.Code[0].B()].U != 3 {
		t.Fatalf("expected constant 3, got %v", c.Constants[c.Code[0].B()])
	}
	if c.Code[1].OpCode() != SetGlobal || c.Code[1].B() != 0 {
		t.Fatalf("expected SetGlobal(0), got %v(%d)", c.Code[1].OpCode(), c.Code[1].B())
	}
}

func TestPatchJump(t *testing.T) {
	c := NewChunk()
	c.EmitConstB(false)
	idx := c.EmitJump(If, 0) // placeholder
	c.EmitSimple(Pop)
	c.PatchSigned(idx, int16(c.Len()-idx))

	if c.Code[idx].SignedB() != 2 {
		t.Fatalf("expected patched offset 2, got %d", c.Code[idx].SignedB())
	}
}

func TestDisassemble(t *testing.T) {
	c := NewChunk()
	c.EmitConstU(1)
	c.EmitSimple(Print)
	out := c.Disassemble()
	if out == "" {
		t.Fatal("expected non-empty disassembly")
	}
}

func TestNegativeJumpOffset(t *testing.T) {
	c := NewChunk()
	c.EmitConstB(false)
	c.EmitJump(If, 2)
	c.EmitJump(Jmp, 3)
	idx := c.EmitJump(Jmp, 0)
	c.PatchSigned(idx, int16(-(c.Len() - idx + 4)))
	if c.Code[idx].SignedB() >= 0 {
		t.Fatalf("expected negative offset, got %d", c.Code[idx].SignedB())
	}
}
