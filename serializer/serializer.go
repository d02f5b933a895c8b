// Package serializer persists a bytecode.Instructions stream as a portable
// byte blob and restores it, per spec.md §4.3. It is the only part of
// quickpy that does byte packing — the compiler emits a tagged
// bytecode.Instruction stream with typed operand fields, and the vm
// executes that same tagged stream directly; this package exists solely to
// move that stream across a process boundary (a .pyq file).
package serializer

import (
	"encoding/binary"
	"fmt"
	"math"

	"quickpy/bytecode"
)

// Magic opens every .pyq file, per spec.md §4.3/§6.
var Magic = [4]byte{'Q', 'P', 'Y', 0}

// Version is the current on-disk format version.
const Version uint32 = 1

// opcode tags for the wire format. These are independent of Op's Go iota
// values so the file format stays stable even if Op gains members.
const (
	tagPushInt    byte = 0x01
	tagPushFloat  byte = 0x02
	tagPushBool   byte = 0x03
	tagPushNone   byte = 0x04
	tagPushString byte = 0x05
	tagPop        byte = 0x06

	tagAdd byte = 0x10
	tagSub byte = 0x11
	tagMul byte = 0x12
	tagDiv byte = 0x13

	tagEq byte = 0x20
	tagNe byte = 0x21
	tagLt byte = 0x22
	tagLe byte = 0x23
	tagGt byte = 0x24
	tagGe byte = 0x25

	tagGetGlobal byte = 0x30
	tagSetGlobal byte = 0x31
	tagGetLocal  byte = 0x32
	tagSetLocal  byte = 0x33

	tagJump        byte = 0x40
	tagJumpIfFalse byte = 0x41

	tagMakeFunction byte = 0x50
	tagCall         byte = 0x51
	tagReturn       byte = 0x52
)

var opToTag = map[bytecode.Op]byte{
	bytecode.PushInt: tagPushInt, bytecode.PushFloat: tagPushFloat, bytecode.PushBool: tagPushBool,
	bytecode.PushNone: tagPushNone, bytecode.PushString: tagPushString, bytecode.Pop: tagPop,
	bytecode.Add: tagAdd, bytecode.Sub: tagSub, bytecode.Mul: tagMul, bytecode.Div: tagDiv,
	bytecode.Eq: tagEq, bytecode.Ne: tagNe, bytecode.Lt: tagLt, bytecode.Le: tagLe, bytecode.Gt: tagGt, bytecode.Ge: tagGe,
	bytecode.GetGlobal: tagGetGlobal, bytecode.SetGlobal: tagSetGlobal,
	bytecode.GetLocal: tagGetLocal, bytecode.SetLocal: tagSetLocal,
	bytecode.Jump: tagJump, bytecode.JumpIfFalse: tagJumpIfFalse,
	bytecode.MakeFunction: tagMakeFunction, bytecode.Call: tagCall, bytecode.Return: tagReturn,
}

// Serialize encodes instrs as a .pyq byte blob: magic, LE u32 version, LE
// u32 instruction count, then each instruction's tag and operands.
func Serialize(instrs bytecode.Instructions) ([]byte, error) {
	buf := make([]byte, 0, 12+len(instrs)*4)
	buf = append(buf, Magic[:]...)
	buf = appendU32(buf, Version)
	buf = appendU32(buf, uint32(len(instrs)))

	for _, instr := range instrs {
		tag, ok := opToTag[instr.Op]
		if !ok {
			return nil, fmt.Errorf("cannot serialize unknown opcode %s", instr.Op)
		}
		buf = append(buf, tag)
		switch instr.Op {
		case bytecode.PushInt:
			buf = appendI32(buf, instr.Int)
		case bytecode.PushFloat:
			buf = appendU64(buf, math.Float64bits(instr.Float))
		case bytecode.PushBool:
			if instr.Bool {
				buf = append(buf, 1)
			} else {
				buf = append(buf, 0)
			}
		case bytecode.PushNone, bytecode.Pop, bytecode.Add, bytecode.Sub, bytecode.Mul, bytecode.Div, bytecode.Eq, bytecode.Ne, bytecode.Lt, bytecode.Le, bytecode.Gt, bytecode.Ge, bytecode.Return:
			// no operands
		case bytecode.PushString, bytecode.GetGlobal, bytecode.SetGlobal:
			buf = appendString(buf, instr.Str)
		case bytecode.GetLocal, bytecode.SetLocal:
			buf = appendI32(buf, int32(instr.Slot))
		case bytecode.Jump, bytecode.JumpIfFalse:
			buf = appendI32(buf, instr.Target)
		case bytecode.Call:
			buf = appendI32(buf, int32(instr.Argc))
		case bytecode.MakeFunction:
			buf = appendString(buf, instr.Str)
			buf = appendU32(buf, uint32(len(instr.Params)))
			for _, p := range instr.Params {
				buf = appendString(buf, p)
			}
			buf = appendU32(buf, uint32(instr.CodeLen))
		}
	}
	return buf, nil
}

// Deserialize decodes a .pyq byte blob back into a bytecode.Instructions stream.
// deserialize(serialize(b)) == b for every stream the compiler can
// produce (spec.md §4.3's round-trip property).
func Deserialize(data []byte) (bytecode.Instructions, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("invalid bytecode: too short (%d bytes)", len(data))
	}
	if data[0] != Magic[0] || data[1] != Magic[1] || data[2] != Magic[2] || data[3] != Magic[3] {
		return nil, fmt.Errorf("invalid bytecode: wrong magic number")
	}
	version := binary.LittleEndian.Uint32(data[4:8])
	if version != Version {
		return nil, fmt.Errorf("unsupported bytecode version: %d", version)
	}
	count := binary.LittleEndian.Uint32(data[8:12])

	instrs := make(bytecode.Instructions, 0, count)
	offset := 12
	for i := uint32(0); i < count; i++ {
		instr, read, err := deserializeOne(data[offset:])
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, instr)
		offset += read
	}
	return instrs, nil
}

func deserializeOne(data []byte) (bytecode.Instruction, int, error) {
	if len(data) == 0 {
		return bytecode.Instruction{}, 0, fmt.Errorf("unexpected end of bytecode")
	}
	tag := data[0]
	rest := data[1:]

	switch tag {
	case tagPushInt:
		v, n, err := readI32(rest)
		return bytecode.Instruction{Op: bytecode.PushInt, Int: v}, 1 + n, err
	case tagPushFloat:
		v, n, err := readU64(rest)
		return bytecode.Instruction{Op: bytecode.PushFloat, Float: math.Float64frombits(v)}, 1 + n, err
	case tagPushBool:
		if len(rest) < 1 {
			return bytecode.Instruction{}, 0, fmt.Errorf("invalid PushBool instruction")
		}
		return bytecode.Instruction{Op: bytecode.PushBool, Bool: rest[0] != 0}, 2, nil
	case tagPushNone:
		return bytecode.Instruction{Op: bytecode.PushNone}, 1, nil
	case tagPushString:
		s, n, err := readString(rest)
		return bytecode.Instruction{Op: bytecode.PushString, Str: s}, 1 + n, err
	case tagPop:
		return bytecode.Instruction{Op: bytecode.Pop}, 1, nil
	case tagAdd:
		return bytecode.Instruction{Op: bytecode.Add}, 1, nil
	case tagSub:
		return bytecode.Instruction{Op: bytecode.Sub}, 1, nil
	case tagMul:
		return bytecode.Instruction{Op: bytecode.Mul}, 1, nil
	case tagDiv:
		return bytecode.Instruction{Op: bytecode.Div}, 1, nil
	case tagEq:
		return bytecode.Instruction{Op: bytecode.Eq}, 1, nil
	case tagNe:
		return bytecode.Instruction{Op: bytecode.Ne}, 1, nil
	case tagLt:
		return bytecode.Instruction{Op: bytecode.Lt}, 1, nil
	case tagLe:
		return bytecode.Instruction{Op: bytecode.Le}, 1, nil
	case tagGt:
		return bytecode.Instruction{Op: bytecode.Gt}, 1, nil
	case tagGe:
		return bytecode.Instruction{Op: bytecode.Ge}, 1, nil
	case tagGetGlobal:
		s, n, err := readString(rest)
		return bytecode.Instruction{Op: bytecode.GetGlobal, Str: s}, 1 + n, err
	case tagSetGlobal:
		s, n, err := readString(rest)
		return bytecode.Instruction{Op: bytecode.SetGlobal, Str: s}, 1 + n, err
	case tagGetLocal:
		v, n, err := readI32(rest)
		return bytecode.Instruction{Op: bytecode.GetLocal, Slot: int(v)}, 1 + n, err
	case tagSetLocal:
		v, n, err := readI32(rest)
		return bytecode.Instruction{Op: bytecode.SetLocal, Slot: int(v)}, 1 + n, err
	case tagJump:
		v, n, err := readI32(rest)
		return bytecode.Instruction{Op: bytecode.Jump, Target: v}, 1 + n, err
	case tagJumpIfFalse:
		v, n, err := readI32(rest)
		return bytecode.Instruction{Op: bytecode.JumpIfFalse, Target: v}, 1 + n, err
	case tagCall:
		v, n, err := readI32(rest)
		return bytecode.Instruction{Op: bytecode.Call, Argc: int(v)}, 1 + n, err
	case tagReturn:
		return bytecode.Instruction{Op: bytecode.Return}, 1, nil
	case tagMakeFunction:
		name, n1, err := readString(rest)
		if err != nil {
			return bytecode.Instruction{}, 0, err
		}
		rest = rest[n1:]
		paramCount, n2, err := readU32(rest)
		if err != nil {
			return bytecode.Instruction{}, 0, err
		}
		rest = rest[n2:]
		params := make([]string, 0, paramCount)
		consumed := n1 + n2
		for i := uint32(0); i < paramCount; i++ {
			p, n, err := readString(rest)
			if err != nil {
				return bytecode.Instruction{}, 0, err
			}
			params = append(params, p)
			rest = rest[n:]
			consumed += n
		}
		codeLen, n3, err := readU32(rest)
		if err != nil {
			return bytecode.Instruction{}, 0, err
		}
		consumed += n3
		return bytecode.Instruction{Op: bytecode.MakeFunction, Str: name, Params: params, CodeLen: int32(codeLen)}, 1 + consumed, nil
	default:
		return bytecode.Instruction{}, 0, fmt.Errorf("unknown opcode: 0x%02x", tag)
	}
}

func appendU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendI32(buf []byte, v int32) []byte {
	return appendU32(buf, uint32(v))
}

func appendU64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendString(buf []byte, s string) []byte {
	buf = appendU32(buf, uint32(len(s)))
	return append(buf, s...)
}

func readU32(data []byte) (uint32, int, error) {
	if len(data) < 4 {
		return 0, 0, fmt.Errorf("unexpected end of bytecode reading a length/offset")
	}
	return binary.LittleEndian.Uint32(data[:4]), 4, nil
}

func readI32(data []byte) (int32, int, error) {
	v, n, err := readU32(data)
	return int32(v), n, err
}

func readU64(data []byte) (uint64, int, error) {
	if len(data) < 8 {
		return 0, 0, fmt.Errorf("unexpected end of bytecode reading a float")
	}
	return binary.LittleEndian.Uint64(data[:8]), 8, nil
}

func readString(data []byte) (string, int, error) {
	length, n, err := readU32(data)
	if err != nil {
		return "", 0, err
	}
	if len(data) < n+int(length) {
		return "", 0, fmt.Errorf("unexpected end of bytecode reading a string")
	}
	return string(data[n : n+int(length)]), n + int(length), nil
}
