package compiler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cwbudde/chalcedony/internal/bytecode"
	"github.com/cwbudde/chalcedony/internal/cerrors"
	"github.com/cwbudde/chalcedony/internal/parser"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustCompile parses and compiles src, failing the test on either stage's
// errors, mirroring the teacher's fixture-test pattern of running the full
// pipeline and asserting a clean result.
func mustCompile(t *testing.T, src string) *bytecode.Chunk {
	t.Helper()
	prog, perrs := parser.New(src).ParseProgram()
	require.Empty(t, perrs, "unexpected parse errors")
	chunk, cerrs := Compile(prog)
	require.Empty(t, cerrs, "unexpected compile errors")
	return chunk
}

// disasmOneLine renders a chunk's instructions on a single comma-joined
// line, mnemonic(operand) per instruction, matching §8's worked-example
// notation exactly so scenario tests can assert against it directly.
func disasmOneLine(chunk *bytecode.Chunk) string {
	parts := make([]string, 0, chunk.Len())
	for i := 0; i < chunk.Len(); i++ {
		instr := chunk.Code[i]
		op := instr.OpCode()
		switch op {
		case bytecode.ConstI, bytecode.ConstU, bytecode.ConstF, bytecode.ConstS, bytecode.ConstB:
			parts = append(parts, fmt.Sprintf("%s(%s)", op, chunk.Constants[instr.B()]))
		case bytecode.Jmp, bytecode.If, bytecode.TryScope, bytecode.CatchJmp:
			parts = append(parts, fmt.Sprintf("%s(%d)", op, instr.SignedB()))
		case bytecode.SetGlobal, bytecode.GetGlobal, bytecode.SetLocal, bytecode.GetLocal,
			bytecode.SetAttr, bytecode.GetAttr, bytecode.CreateFunc, bytecode.CallFunc,
			bytecode.ConstObj, bytecode.ConstL:
			parts = append(parts, fmt.Sprintf("%s(%d)", op, instr.B()))
		default:
			parts = append(parts, op.String())
		}
	}
	return strings.Join(parts, ", ")
}

// compileErrs parses and compiles src, returning only the compile-stage
// errors (parse errors still fail the test immediately, since these tests
// are aimed at the compiler, not the parser).
func compileErrs(t *testing.T, src string) []error {
	t.Helper()
	prog, perrs := parser.New(src).ParseProgram()
	require.Empty(t, perrs, "unexpected parse errors")
	_, errs := Compile(prog)
	return errs
}

func kindOf(t *testing.T, err error) cerrors.Kind {
	t.Helper()
	ce, ok := err.(*cerrors.Error)
	require.True(t, ok, "expected *cerrors.Error, got %T", err)
	return ce.Kind
}

// §8 scenario 1.
func TestScenarioUintLiteral(t *testing.T) {
	chunk := mustCompile(t, "let a: uint = 3\n")
	assert.Equal(t, "ConstU(3), SetGlobal(0)", disasmOneLine(chunk))
}

// §8 scenario 2: widening a uint literal into an int-typed variable
// inserts an implicit CastI immediately after the constant push.
func TestScenarioIntLiteralWidened(t *testing.T) {
	chunk := mustCompile(t, "let a: int = 3\n")
	assert.Equal(t, "ConstU(3), CastI, SetGlobal(0)", disasmOneLine(chunk))
}

// §8 scenario 3.
func TestScenarioIfPrint(t *testing.T) {
	chunk := mustCompile(t, "if true:\n    print(1)\n")
	assert.Equal(t, "ConstB(true), If(2), ConstU(1), Print", disasmOneLine(chunk))
}

// §8 scenario 4: the break placeholder is patched to jump past the loop's
// own backward repeat instruction.
func TestScenarioWhileBreak(t *testing.T) {
	chunk := mustCompile(t, "while false:\n    break\n")
	assert.Equal(t, "ConstB(false), If(2), Jmp(3), Jmp(-5)", disasmOneLine(chunk))
}

// §8 scenario 5: overload resolution sees both argument types before any
// bytecode emits, but each argument's cast is still emitted immediately
// after its own push. The call result is captured in a variable rather
// than left as a bare statement, since a discarded non-void call is
// rejected separately (NonVoidFunctionStmnt). The CallFunc id is 4 rather
// than scenario 5's literal 0: the four iterator-protocol builtins
// reserve ids 0-3 up front, so the first user function is always id 4
// (see the design notes on builtinIDs).
func TestScenarioFuncCallWithCasts(t *testing.T) {
	chunk := mustCompile(t, "fn add(a: int, b: int) -> int:\n    return a + b\nlet r = add(1, 2)\n")
	got := disasmOneLine(chunk)
	assert.Equal(t,
		"CreateFunc(2), GetLocal(0), GetLocal(1), Add, Return, "+
			"ConstU(1), CastI, ConstU(2), CastI, CallFunc(4), SetGlobal(0)",
		got)
}

func TestBoundaryNonVoidCallAsStatement(t *testing.T) {
	src := "fn add(a: int, b: int) -> int:\n    return a + b\nadd(1, 2)\n"
	errs := compileErrs(t, src)
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.KindNonVoidFunctionStmnt, kindOf(t, errs[0]))
}

// §8 scenario 6.
func TestScenarioTryCatch(t *testing.T) {
	chunk := mustCompile(t, "try:\n    throw 'x'\ncatch(e: exception):\n    print(e)\n")
	assert.Equal(t,
		`TryScope(2), ConstS("x"), ThrowException, CatchJmp(2), SetLocal(0), GetLocal(0), Print`,
		disasmOneLine(chunk))
}

func TestBoundaryCastOnDeclaredInt(t *testing.T) {
	chunk := mustCompile(t, "let a: int = 2u\n")
	assert.Contains(t, chunk.Disassemble(), "CastI")
}

func TestBoundaryInvalidUintFromNegative(t *testing.T) {
	errs := compileErrs(t, "let a: uint = -1\n")
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.KindInvalidType, kindOf(t, errs[0]))
}

func TestBoundaryBreakOutsideLoop(t *testing.T) {
	errs := compileErrs(t, "if true:\n    break\n")
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.KindCtrlFlowOutsideLoop, kindOf(t, errs[0]))
}

func TestBoundaryForOverNonIterable(t *testing.T) {
	errs := compileErrs(t, "for x in 5:\n    print(x)\n")
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.KindInvalidIterable, kindOf(t, errs[0]))
}

func TestBoundaryNestedTryCatch(t *testing.T) {
	src := "try:\n    try:\n        throw 'x'\n    catch(e: exception):\n        print(e)\ncatch(e: exception):\n    print(e)\n"
	errs := compileErrs(t, src)
	require.NotEmpty(t, errs)
	found := false
	for _, e := range errs {
		if kindOf(t, e) == cerrors.KindNestedTryCatch {
			found = true
		}
	}
	assert.True(t, found, "expected a NestedTryCatch error among: %v", errs)
}

func TestBoundaryOverloadCollision(t *testing.T) {
	errs := compileErrs(t, "fn add(a: int, b: int) -> int:\n    return a + b\nfn add(a: int, b: int) -> int:\n    return a\n")
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.KindOverloadCollision, kindOf(t, errs[0]))
}

func TestBoundaryVoidVariable(t *testing.T) {
	errs := compileErrs(t, "fn f() -> void:\n    return\nlet a: void = f()\n")
	require.NotEmpty(t, errs)
	found := false
	for _, e := range errs {
		if kindOf(t, e) == cerrors.KindVoidVariable {
			found = true
		}
	}
	assert.True(t, found, "expected a VoidVariable error among: %v", errs)
}

func TestBoundaryMutatingExternalState(t *testing.T) {
	src := "let counter: int = 0\nfn bump() -> void:\n    counter = counter + 1\n"
	errs := compileErrs(t, src)
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.KindMutatingExternalState, kindOf(t, errs[0]))
}

func TestBoundaryNoDefaultReturn(t *testing.T) {
	errs := compileErrs(t, "fn f(a: bool) -> int:\n    if a:\n        return 1\n")
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.KindNoDefaultReturnStmnt, kindOf(t, errs[0]))
}

func TestBoundaryMissingMembers(t *testing.T) {
	src := "class Point:\n    x: int\n    y: int\nlet p = Point{x: 1}\n"
	errs := compileErrs(t, src)
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.KindMissingMembers, kindOf(t, errs[0]))
}

func TestBoundaryUndefinedMembers(t *testing.T) {
	src := "class Point:\n    x: int\nlet p = Point{x: 1, z: 2}\n"
	errs := compileErrs(t, src)
	require.NotEmpty(t, errs)
	found := false
	for _, e := range errs {
		if kindOf(t, e) == cerrors.KindUndefinedMembers {
			found = true
		}
	}
	assert.True(t, found, "expected an UndefinedMembers error among: %v", errs)
}

func TestBoundaryThrowOutsideGuardedFunc(t *testing.T) {
	errs := compileErrs(t, "fn f() -> void:\n    throw 'boom'\n")
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.KindThrowInSafeFunc, kindOf(t, errs[0]))
}

func TestBoundaryThrowInUnsafeFuncAllowed(t *testing.T) {
	errs := compileErrs(t, "fn f!() -> void:\n    throw 'boom'\n")
	assert.Empty(t, errs)
}

// Disassembly snapshots cover shapes that are awkward to assert line by
// line: a full class declaration with a method, and a for-loop's iterator
// protocol desugar.
func TestSnapshotClassConstruction(t *testing.T) {
	chunk := mustCompile(t, "class Point:\n    x: int\n    y: int\nlet p = Point{x: 1, y: 2}\n")
	snaps.MatchSnapshot(t, "class_construction", chunk.Disassemble())
}

func TestSnapshotForLoopDesugar(t *testing.T) {
	chunk := mustCompile(t, "for c in \"hi\":\n    print(c)\n")
	snaps.MatchSnapshot(t, "for_loop_desugar", chunk.Disassemble())
}
