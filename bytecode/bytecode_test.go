package bytecode_test

import (
	"testing"

	"quickpy/bytecode"
)

func TestOpString(t *testing.T) {
	if got := bytecode.Add.String(); got != "Add" {
		t.Fatalf("expected Add, got %s", got)
	}
	if got := bytecode.Op(200).String(); got != "Unknown" {
		t.Fatalf("expected Unknown for an out-of-range opcode, got %s", got)
	}
}

func TestConstructors(t *testing.T) {
	instr := bytecode.MakeFunctionInstr("add", []string{"a", "b"}, 5)
	if instr.Op != bytecode.MakeFunction {
		t.Fatalf("expected MakeFunction op, got %s", instr.Op)
	}
	if instr.Str != "add" || len(instr.Params) != 2 || instr.CodeLen != 5 {
		t.Fatalf("unexpected instruction fields: %+v", instr)
	}

	jump := bytecode.JumpIfFalseInstr(42)
	if jump.Target != 42 {
		t.Fatalf("expected target 42, got %d", jump.Target)
	}
}
