// Package context is the embeddable façade quickpy exposes to a host
// program, grounded on original_source/src/context.rs's Context: pair a
// persistent globals map with a VM and a Compile-then-Execute Eval. Between
// calls to Eval, globals (and therefore every Function/List/Dict a prior
// Eval left bound) survives, so a host can build up state across many small
// snippets the way a REPL does.
//
// context.rs's extension module registry (extension.rs) is a single
// process-wide static behind a Mutex, which means two Contexts in the same
// process would see each other's registered modules. spec.md §9 flags that
// as a design smell for an embeddable interpreter and recommends making the
// registry a Context-owned field instead; this package does that.
package context

import (
	"fmt"

	"quickpy/compiler"
	"quickpy/modules"
	"quickpy/value"
	"quickpy/vm"
)

// Context bundles one evaluation session: a VM, its globals, and the set of
// extension modules a host has registered on top of the builtin ones.
type Context struct {
	vm         *vm.VM
	globals    map[string]value.Value
	extensions map[string]*value.Module
}

// New creates an empty Context ready to Eval quickpy source.
func New() *Context {
	return &Context{
		vm:         vm.New(),
		globals:    map[string]value.Value{},
		extensions: map[string]*value.Module{},
	}
}

// Eval compiles and runs source against this Context's persistent globals,
// returning the value left on the stack (spec.md §4.2/§4.4's "value in
// expression position" contract).
func (c *Context) Eval(source string) (value.Value, error) {
	instrs, err := compiler.Compile(source)
	if err != nil {
		return value.Value{}, err
	}
	return c.vm.Execute(instrs, c.globals)
}

// Get reads a global binding by name, the way a host inspects a script's
// result without re-evaluating it.
func (c *Context) Get(name string) (value.Value, bool) {
	v, ok := c.globals[name]
	return v, ok
}

// Set binds name directly in globals, the host-side equivalent of a
// top-level assignment — used to seed a script with host-provided values
// before Eval runs, or to inject a callable the script can invoke by name.
func (c *Context) Set(name string, v value.Value) {
	c.globals[name] = v
}

// RegisterExtensionModule installs a host-provided module under name, for
// this Context only. A second call with the same name replaces the first.
func (c *Context) RegisterExtensionModule(name string, m *value.Module) {
	c.extensions[name] = m
}

// Module looks up a module by name: first this Context's registered
// extensions, then the fixed builtin set (os/json/re/asyncio). quickpy
// source has no attribute-access syntax to reach a module's members
// directly (spec.md §4.2's expression grammar is Literal/Name/Binary/
// Compare/Call only), so Module is the host-facing way to obtain one and
// invoke its NativeFunctions by hand, e.g.:
//
//	osModule, _ := ctx.Module("os")
//	uuidFn, _ := osModule.Get("uuid")
//	result, err := uuidFn.NativeFunction.Fn(nil)
func (c *Context) Module(name string) (*value.Module, bool) {
	if m, ok := c.extensions[name]; ok {
		return m, true
	}
	if m, ok := modules.GetBuiltin(name); ok {
		return m, true
	}
	return nil, false
}

// BindModule is a convenience over Module + Set: it looks the module up and
// binds it into globals under its own name, letting a script reference the
// module's Value directly (e.g. passed to another function) even though it
// still cannot dot into the module's members itself.
func (c *Context) BindModule(name string) error {
	m, ok := c.Module(name)
	if !ok {
		return fmt.Errorf("no such module: %s", name)
	}
	c.globals[name] = value.NewModule(m)
	return nil
}
