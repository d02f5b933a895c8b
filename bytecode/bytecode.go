// Package bytecode defines the instruction set the compiler emits, the
// serializer encodes, and the vm executes. An Instruction is a tagged
// struct with one field per operand shape rather than a byte-packed
// encoding: spec.md §3 describes operands as carried inline on the
// instruction itself ("PushInt carries an i32... Jump carries an absolute
// code offset"), and keeping that structure explicit in Go means the
// compiler never has to think about byte layout — that's the serializer's
// job alone.
package bytecode

// Op identifies an instruction's operation.
type Op uint8

const (
	PushInt Op = iota
	PushFloat
	PushBool
	PushNone
	PushString
	Pop

	Add
	Sub
	Mul
	Div

	Eq
	Ne
	Lt
	Le
	Gt
	Ge

	GetGlobal
	SetGlobal
	GetLocal
	SetLocal

	Jump
	JumpIfFalse

	MakeFunction
	Call
	Return
)

var names = map[Op]string{
	PushInt: "PushInt", PushFloat: "PushFloat", PushBool: "PushBool",
	PushNone: "PushNone", PushString: "PushString", Pop: "Pop",
	Add: "Add", Sub: "Sub", Mul: "Mul", Div: "Div",
	Eq: "Eq", Ne: "Ne", Lt: "Lt", Le: "Le", Gt: "Gt", Ge: "Ge",
	GetGlobal: "GetGlobal", SetGlobal: "SetGlobal",
	GetLocal: "GetLocal", SetLocal: "SetLocal",
	Jump: "Jump", JumpIfFalse: "JumpIfFalse",
	MakeFunction: "MakeFunction", Call: "Call", Return: "Return",
}

func (o Op) String() string {
	if n, ok := names[o]; ok {
		return n
	}
	return "Unknown"
}

// Instruction is one tagged operation plus whichever operand fields its Op
// uses. Unused fields are left at their zero value.
type Instruction struct {
	Op Op

	Int   int32
	Float float64
	Bool  bool
	Str   string

	// Slot is the local-variable index for GetLocal/SetLocal.
	Slot int

	// Target is the absolute code offset for Jump/JumpIfFalse.
	Target int32

	// Argc is the argument count for Call.
	Argc int

	// Params and CodeLen are MakeFunction's parameter-name list and the
	// length, in instructions, of the function body immediately following
	// this instruction in the stream.
	Params  []string
	CodeLen int32
}

// Instructions is a linear instruction stream: the unit the compiler
// produces, the serializer round-trips, and the vm executes.
type Instructions []Instruction

func PushIntInstr(v int32) Instruction      { return Instruction{Op: PushInt, Int: v} }
func PushFloatInstr(v float64) Instruction  { return Instruction{Op: PushFloat, Float: v} }
func PushBoolInstr(v bool) Instruction      { return Instruction{Op: PushBool, Bool: v} }
func PushNoneInstr() Instruction            { return Instruction{Op: PushNone} }
func PushStringInstr(v string) Instruction  { return Instruction{Op: PushString, Str: v} }
func PopInstr() Instruction                 { return Instruction{Op: Pop} }

func GetGlobalInstr(name string) Instruction { return Instruction{Op: GetGlobal, Str: name} }
func SetGlobalInstr(name string) Instruction { return Instruction{Op: SetGlobal, Str: name} }
func GetLocalInstr(slot int) Instruction     { return Instruction{Op: GetLocal, Slot: slot} }
func SetLocalInstr(slot int) Instruction     { return Instruction{Op: SetLocal, Slot: slot} }

func JumpInstr(target int32) Instruction        { return Instruction{Op: Jump, Target: target} }
func JumpIfFalseInstr(target int32) Instruction { return Instruction{Op: JumpIfFalse, Target: target} }

func MakeFunctionInstr(name string, params []string, codeLen int32) Instruction {
	return Instruction{Op: MakeFunction, Str: name, Params: params, CodeLen: codeLen}
}

func CallInstr(argc int) Instruction { return Instruction{Op: Call, Argc: argc} }
func ReturnInstr() Instruction       { return Instruction{Op: Return} }
