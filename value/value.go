// Package value implements the quickpy runtime value: a closed tagged
// union, per spec.md §4.1 and §9's explicit instruction not to model it as
// an inheritance hierarchy. It is a fat-struct encoding rather than a Go
// interface per variant: one Kind tag plus one field per payload shape,
// which keeps equality, truthiness and projection simple switch statements
// instead of type assertions scattered across the codebase.
package value

import (
	"fmt"
	"strings"
)

// Kind tags which variant a Value currently holds.
type Kind uint8

const (
	KindNone Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindList
	KindDict
	KindFunction
	KindNativeFunction
	KindModule
	KindRegex
	KindMatch
	KindAsyncSleep
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "NoneType"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "str"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	case KindFunction, KindNativeFunction:
		return "function"
	case KindModule:
		return "module"
	case KindRegex:
		return "regex"
	case KindMatch:
		return "match"
	case KindAsyncSleep:
		return "async_sleep"
	default:
		return "unknown"
	}
}

// NativeFunc is the signature every host-implemented callable must satisfy.
// Unlike the Rust original's Result<Value, Value>, quickpy uses Go's native
// two-return-value idiom: a *Error is a distinct Go type, not a Value
// variant. spec.md §9 permits either representation for a ported native
// function boundary; this one reads far more naturally from Go call sites
// (`if err != nil`) and avoids overloading Value with an error tag that
// every other part of the VM would need to special-case.
type NativeFunc func(args []Value) (Value, *Error)

// Function is a user-defined, bytecode-backed callable. Code holds the body
// as a bytecode.Instructions but is declared as `any`, so the value package
// does not import bytecode; the vm package performs the concrete
// bytecode.Instructions type assertion.
type Function struct {
	Name   string
	Params []string
	Code   any
}

// NativeFunction wraps a host callable with the name it's bound under, for
// error messages and introspection.
type NativeFunction struct {
	Name string
	Fn   NativeFunc
}

// Regex and Match back the `re` extension module; AsyncSleep backs
// `asyncio`. Per spec.md §9 AsyncSleep is reserved for a future cooperative
// scheduler and the VM never acts on it.
type Regex struct {
	Pattern string
	Compiled any
}

type Match struct {
	Groups []string
	Start  int
	End    int
}

type AsyncSleep struct {
	Seconds float64
}

// List is a shared, mutable, ordered sequence. Two Values holding the same
// *List observe each other's mutations, the reference-sharing contract
// spec.md §4.1 requires.
type List struct {
	Items []Value
}

// DictKey is restricted to String or Integer so it stays hashable without
// reference to the VM (spec.md §4.1).
type DictKey struct {
	IsString bool
	Str      string
	Int      int32
}

func StringKey(s string) DictKey { return DictKey{IsString: true, Str: s} }
func IntKey(i int32) DictKey     { return DictKey{Int: i} }

func (k DictKey) String() string {
	if k.IsString {
		return k.Str
	}
	return fmt.Sprintf("%d", k.Int)
}

// Dict is a shared, mutable mapping from DictKey to Value.
type Dict struct {
	Entries map[DictKey]Value
}

// Module is a shared, mutable named attribute map, the shape both
// host-registered extension modules and builtin modules (json/os/re/
// asyncio) use.
type Module struct {
	Name  string
	Attrs map[string]Value
}

func (m *Module) Get(name string) (Value, bool) {
	v, ok := m.Attrs[name]
	return v, ok
}

func (m *Module) Set(name string, v Value) {
	m.Attrs[name] = v
}

// ExceptionType is the taxonomy carried by an error Value raised from
// native code, per spec.md §7.
type ExceptionType string

const (
	TypeError         ExceptionType = "TypeError"
	ValueError        ExceptionType = "ValueError"
	KeyError          ExceptionType = "KeyError"
	IndexError        ExceptionType = "IndexError"
	RuntimeError      ExceptionType = "RuntimeError"
	OSError           ExceptionType = "OSError"
	ZeroDivisionError ExceptionType = "ZeroDivisionError"
	NameError         ExceptionType = "NameError"
	AttributeError    ExceptionType = "AttributeError"
)

// Error is what a NativeFunc returns on failure: an exception kind plus a
// message. It also implements Go's error interface so it composes with the
// rest of the codebase's error handling.
type Error struct {
	Kind    ExceptionType
	Message string
}

func NewError(kind ExceptionType, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Value is the tagged runtime value. Int/Float/Bool/None are inlined
// directly (no heap allocation); String and every container/callable
// variant are heap-allocated pointers or Go strings, matching spec.md §9's
// small-value-inlining guidance.
type Value struct {
	Kind Kind

	Int   int32
	Float float64
	Bool  bool
	Str   string

	List           *List
	Dict           *Dict
	Function       *Function
	NativeFunction *NativeFunction
	Module         *Module
	Regex          *Regex
	Match          *Match
	AsyncSleep     *AsyncSleep
}

func None() Value               { return Value{Kind: KindNone} }
func Int(i int32) Value         { return Value{Kind: KindInt, Int: i} }
func Float(f float64) Value     { return Value{Kind: KindFloat, Float: f} }
func Bool(b bool) Value         { return Value{Kind: KindBool, Bool: b} }
func String(s string) Value     { return Value{Kind: KindString, Str: s} }

func NewList(items []Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: KindList, List: &List{Items: items}}
}

func NewDict(entries map[DictKey]Value) Value {
	if entries == nil {
		entries = map[DictKey]Value{}
	}
	return Value{Kind: KindDict, Dict: &Dict{Entries: entries}}
}

func NewFunction(f *Function) Value {
	return Value{Kind: KindFunction, Function: f}
}

func NewNativeFunction(name string, fn NativeFunc) Value {
	return Value{Kind: KindNativeFunction, NativeFunction: &NativeFunction{Name: name, Fn: fn}}
}

func NewModule(m *Module) Value {
	return Value{Kind: KindModule, Module: m}
}

func NewRegex(r *Regex) Value     { return Value{Kind: KindRegex, Regex: r} }
func NewMatch(m *Match) Value     { return Value{Kind: KindMatch, Match: m} }
func NewAsyncSleep(seconds float64) Value {
	return Value{Kind: KindAsyncSleep, AsyncSleep: &AsyncSleep{Seconds: seconds}}
}

// AsInt projects an Int, reporting whether the Value held one.
func (v Value) AsInt() (int32, bool) {
	if v.Kind != KindInt {
		return 0, false
	}
	return v.Int, true
}

func (v Value) AsFloat() (float64, bool) {
	if v.Kind != KindFloat {
		return 0, false
	}
	return v.Float, true
}

func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.Bool, true
}

func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.Str, true
}

func (v Value) AsList() (*List, bool) {
	if v.Kind != KindList {
		return nil, false
	}
	return v.List, true
}

func (v Value) AsDict() (*Dict, bool) {
	if v.Kind != KindDict {
		return nil, false
	}
	return v.Dict, true
}

// Truthy reports the Boolean projection of v per spec.md §4.1: false for
// Bool(false), Int(0), Float(0.0), None, and empty String/List/Dict; true
// otherwise, including every Function/NativeFunction/Module.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int != 0
	case KindFloat:
		return v.Float != 0.0
	case KindNone:
		return false
	case KindString:
		return v.Str != ""
	case KindList:
		return len(v.List.Items) != 0
	case KindDict:
		return len(v.Dict.Entries) != 0
	default:
		return true
	}
}

// Equal tests structural equality per spec.md §4.1: numeric coercion
// between Int and Float, element-wise equality for List/Dict, and identity
// for Functions: two Function values are equal only if they hold the same
// *Function pointer. The vm allocates a new *Function (with its own copy of
// the body) each time it executes MakeFunction, so that pointer stands in
// for identity of the instruction slice. NativeFunction, Module and the
// auxiliary kinds never compare equal.
func Equal(a, b Value) bool {
	switch {
	case a.Kind == KindInt && b.Kind == KindInt:
		return a.Int == b.Int
	case a.Kind == KindFloat && b.Kind == KindFloat:
		return a.Float == b.Float
	case a.Kind == KindInt && b.Kind == KindFloat:
		return float64(a.Int) == b.Float
	case a.Kind == KindFloat && b.Kind == KindInt:
		return a.Float == float64(b.Int)
	case a.Kind == KindBool && b.Kind == KindBool:
		return a.Bool == b.Bool
	case a.Kind == KindNone && b.Kind == KindNone:
		return true
	case a.Kind == KindString && b.Kind == KindString:
		return a.Str == b.Str
	case a.Kind == KindList && b.Kind == KindList:
		return equalLists(a.List, b.List)
	case a.Kind == KindDict && b.Kind == KindDict:
		return equalDicts(a.Dict, b.Dict)
	case a.Kind == KindFunction && b.Kind == KindFunction:
		return a.Function == b.Function
	default:
		return false
	}
}

func equalLists(a, b *List) bool {
	if len(a.Items) != len(b.Items) {
		return false
	}
	for i := range a.Items {
		if !Equal(a.Items[i], b.Items[i]) {
			return false
		}
	}
	return true
}

func equalDicts(a, b *Dict) bool {
	if len(a.Entries) != len(b.Entries) {
		return false
	}
	for k, v := range a.Entries {
		other, ok := b.Entries[k]
		if !ok || !Equal(v, other) {
			return false
		}
	}
	return true
}

// String renders a Value the way the REPL and print-style native functions
// display it.
func (v Value) String() string {
	switch v.Kind {
	case KindNone:
		return "None"
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindFloat:
		return fmt.Sprintf("%g", v.Float)
	case KindBool:
		if v.Bool {
			return "True"
		}
		return "False"
	case KindString:
		return v.Str
	case KindList:
		parts := make([]string, len(v.List.Items))
		for i, item := range v.List.Items {
			parts[i] = item.Repr()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindDict:
		parts := make([]string, 0, len(v.Dict.Entries))
		for k, val := range v.Dict.Entries {
			parts = append(parts, fmt.Sprintf("%s: %s", k.String(), val.Repr()))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindFunction:
		return fmt.Sprintf("<function %s>", v.Function.Name)
	case KindNativeFunction:
		return fmt.Sprintf("<native function %s>", v.NativeFunction.Name)
	case KindModule:
		return fmt.Sprintf("<module %s>", v.Module.Name)
	case KindRegex:
		return fmt.Sprintf("<regex %q>", v.Regex.Pattern)
	case KindMatch:
		return "<match>"
	case KindAsyncSleep:
		return fmt.Sprintf("<async_sleep %gs>", v.AsyncSleep.Seconds)
	default:
		return "<unknown>"
	}
}

// Repr is String's quoted form for container elements, the way a
// collection prints its string members with quotes.
func (v Value) Repr() string {
	if v.Kind == KindString {
		return fmt.Sprintf("%q", v.Str)
	}
	return v.String()
}
