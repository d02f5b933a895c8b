package modules

import "quickpy/value"

// builtinFactories mirrors builtins/mod.rs's BUILTIN_MODULES table: a
// compile-time-fixed set of names a Context always knows how to build,
// independent of whatever extension modules a host registers afterward.
var builtinFactories = map[string]func() *value.Module{
	"os":      NewOSModule,
	"json":    NewJSONModule,
	"re":      NewRegexModule,
	"asyncio": NewAsyncioModule,
}

// IsBuiltin reports whether name is one of quickpy's builtin modules.
func IsBuiltin(name string) bool {
	_, ok := builtinFactories[name]
	return ok
}

// GetBuiltin constructs a fresh instance of the named builtin module. A
// fresh *value.Module is returned on every call (rather than a shared
// singleton) so that two Contexts never observe each other's os.environ or
// similar mutable module state.
func GetBuiltin(name string) (*value.Module, bool) {
	factory, ok := builtinFactories[name]
	if !ok {
		return nil, false
	}
	return factory(), true
}
