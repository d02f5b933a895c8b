package compiler_test

import (
	"testing"

	"quickpy/bytecode"
	"quickpy/compiler"
)

func opSeq(instrs bytecode.Instructions) []bytecode.Op {
	ops := make([]bytecode.Op, len(instrs))
	for i, instr := range instrs {
		ops[i] = instr.Op
	}
	return ops
}

func assertOps(t *testing.T, instrs bytecode.Instructions, want ...bytecode.Op) {
	t.Helper()
	got := opSeq(instrs)
	if len(got) != len(want) {
		t.Fatalf("expected %d instructions %v, got %d %v", len(want), want, len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("instruction %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestCompileEmptyInput(t *testing.T) {
	instrs, err := compiler.Compile("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(instrs) != 0 {
		t.Fatalf("expected empty stream, got %d instructions", len(instrs))
	}
}

func TestCompileBareExpressionIsNotPopped(t *testing.T) {
	instrs, err := compiler.Compile("1 + 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertOps(t, instrs, bytecode.PushInt, bytecode.PushInt, bytecode.Add)
}

func TestCompileLastExpressionStatementIsNotPopped(t *testing.T) {
	instrs, err := compiler.Compile("x = 1\nx + 1\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := instrs[len(instrs)-1]
	if last.Op == bytecode.Pop {
		t.Fatal("expected the trailing expression statement to leave its value on the stack")
	}
	assertOps(t, instrs, bytecode.PushInt, bytecode.SetGlobal, bytecode.GetGlobal, bytecode.PushInt, bytecode.Add)
}

func TestCompileAssignmentDoesNotPop(t *testing.T) {
	instrs, err := compiler.Compile("x = 1\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Assign is the sole (and thus last) statement but it's not an
	// ast.ExpressionStmt, so it still compiles in plain statement position:
	// PushInt, SetGlobal, with no trailing Pop.
	assertOps(t, instrs, bytecode.PushInt, bytecode.SetGlobal)
}

func TestCompileIntegerOverflow(t *testing.T) {
	_, err := compiler.Compile("9999999999\n")
	if err == nil {
		t.Fatal("expected an integer overflow error")
	}
	if err.Error() != "Integer overflow" {
		t.Fatalf("expected exact message 'Integer overflow', got %q", err.Error())
	}
}

func TestCompileIfElse(t *testing.T) {
	src := "" +
		"if x < 1:\n" +
		"    y = 1\n" +
		"else:\n" +
		"    y = 2\n"
	instrs, err := compiler.Compile(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var jumpIfFalse, jump bytecode.Instruction
	for _, instr := range instrs {
		if instr.Op == bytecode.JumpIfFalse {
			jumpIfFalse = instr
		}
		if instr.Op == bytecode.Jump {
			jump = instr
		}
	}
	if int(jumpIfFalse.Target) >= len(instrs) || int(jump.Target) != len(instrs) {
		t.Fatalf("jump targets not patched to valid offsets: jumpIfFalse=%d jump=%d len=%d",
			jumpIfFalse.Target, jump.Target, len(instrs))
	}
}

func TestCompileWhileLoopBacks(t *testing.T) {
	src := "" +
		"while x < 10:\n" +
		"    x = x + 1\n"
	instrs, err := compiler.Compile(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, instr := range instrs {
		if instr.Op == bytecode.Jump && instr.Target == 0 {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a backward Jump to the loop start (offset 0)")
	}
}

func TestCompileFunctionDefAppendsImplicitReturn(t *testing.T) {
	src := "" +
		"def f(a):\n" +
		"    a + 1\n"
	instrs, err := compiler.Compile(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var makeFn bytecode.Instruction
	for _, instr := range instrs {
		if instr.Op == bytecode.MakeFunction {
			makeFn = instr
		}
	}
	if makeFn.Str != "f" || len(makeFn.Params) != 1 || makeFn.Params[0] != "a" {
		t.Fatalf("unexpected MakeFunction instruction: %+v", makeFn)
	}
	// body: GetLocal, PushInt, Add, Pop, PushNone, Return
	if int(makeFn.CodeLen) != 6 {
		t.Fatalf("expected implicit PushNone;Return appended, code_len=%d", makeFn.CodeLen)
	}
}

func TestCompileFunctionWithExplicitReturnHasNoDoubleReturn(t *testing.T) {
	src := "" +
		"def f(a):\n" +
		"    return a\n"
	instrs, err := compiler.Compile(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var makeFn bytecode.Instruction
	for _, instr := range instrs {
		if instr.Op == bytecode.MakeFunction {
			makeFn = instr
		}
	}
	if int(makeFn.CodeLen) != 2 {
		t.Fatalf("expected GetLocal;Return body with no extra appended, code_len=%d", makeFn.CodeLen)
	}
}

func TestCompileUnsupportedAssignmentTarget(t *testing.T) {
	_, err := compiler.Compile("1 + 1 = 2\n")
	if err == nil {
		t.Fatal("expected an error for invalid assignment target")
	}
}
