package modules

import "quickpy/value"

// NewAsyncioModule builds the asyncio module, grounded on
// builtins/asyncio.rs: sleep(seconds) returns an AsyncSleep marker value
// rather than blocking, the same reservation spec.md §9 documents for a
// future cooperative scheduler the vm package does not yet implement.
func NewAsyncioModule() *value.Module {
	m := &value.Module{Name: "asyncio", Attrs: map[string]value.Value{}}
	m.Set("sleep", value.NewNativeFunction("sleep", asyncioSleep))
	return m
}

func asyncioSleep(args []value.Value) (value.Value, *value.Error) {
	if len(args) != 1 {
		return value.Value{}, typeErrorf("sleep() takes exactly 1 argument (%d given)", len(args))
	}
	var seconds float64
	switch args[0].Kind {
	case value.KindInt:
		n, _ := args[0].AsInt()
		seconds = float64(n)
	case value.KindFloat:
		seconds, _ = args[0].AsFloat()
	default:
		return value.Value{}, typeErrorf("sleep() argument must be a number")
	}
	if seconds < 0.0 {
		return value.Value{}, value.NewError(value.ValueError, "sleep() argument must be non-negative")
	}
	return value.NewAsyncSleep(seconds), nil
}
