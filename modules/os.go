// Package modules implements quickpy's builtin extension modules: os, json,
// re, and asyncio. They are grounded on original_source/src/builtins/*.rs,
// each function carrying over its argument contract and error taxonomy, but
// surfaced through value.NativeFunc's (Value, *value.Error) return shape
// instead of Rust's Result<Value, Value>.
//
// quickpy's expression grammar (spec.md §4.2) has no attribute-access
// operator, so a Module value is never dereferenced from quickpy source
// itself — only a host embedding a Context can look a module up and invoke
// its members directly. These modules exist to be exercised through that
// host-facing surface (see context.Context.Module), the same role
// extension.rs's registry plays for the original implementation.
package modules

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/ncruces/go-strftime"

	"quickpy/value"
)

func typeErrorf(format string, args ...any) *value.Error {
	return value.NewError(value.TypeError, format, args...)
}

func osErrorf(format string, args ...any) *value.Error {
	return value.NewError(value.OSError, format, args...)
}

func requireString(args []value.Value, i int, label string) (string, *value.Error) {
	if i >= len(args) {
		return "", typeErrorf("missing required argument: %q", label)
	}
	s, ok := args[i].AsString()
	if !ok {
		return "", typeErrorf("%s must be a string", label)
	}
	return s, nil
}

// NewOSModule builds the os module, grounded on builtins/os.rs's
// create_module: directory and file manipulation, environment variables,
// and an os.path submodule. It additionally wires three domain dependencies
// the original never had available — uuid, go-humanize and go-strftime —
// as os.uuid, os.humanize_size and os.strftime, the natural home for
// system-adjacent utility functions a scripting environment's os module
// would plausibly carry.
func NewOSModule() *value.Module {
	m := &value.Module{Name: "os", Attrs: map[string]value.Value{}}

	m.Set("listdir", value.NewNativeFunction("listdir", osListdir))
	m.Set("mkdir", value.NewNativeFunction("mkdir", osMkdir))
	m.Set("makedirs", value.NewNativeFunction("makedirs", osMakedirs))
	m.Set("remove", value.NewNativeFunction("remove", osRemove))
	m.Set("rmdir", value.NewNativeFunction("rmdir", osRmdir))
	m.Set("rename", value.NewNativeFunction("rename", osRename))
	m.Set("getcwd", value.NewNativeFunction("getcwd", osGetcwd))
	m.Set("chdir", value.NewNativeFunction("chdir", osChdir))
	m.Set("getenv", value.NewNativeFunction("getenv", osGetenv))

	m.Set("environ", value.NewDict(environDict()))
	m.Set("name", value.String("posix"))
	m.Set("path", value.NewModule(newPathModule()))

	m.Set("uuid", value.NewNativeFunction("uuid", osUUID))
	m.Set("humanize_size", value.NewNativeFunction("humanize_size", osHumanizeSize))
	m.Set("strftime", value.NewNativeFunction("strftime", osStrftime))

	return m
}

func environDict() map[value.DictKey]value.Value {
	entries := map[value.DictKey]value.Value{}
	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				entries[value.StringKey(kv[:i])] = value.String(kv[i+1:])
				break
			}
		}
	}
	return entries
}

func newPathModule() *value.Module {
	m := &value.Module{Name: "os.path", Attrs: map[string]value.Value{}}
	m.Set("exists", value.NewNativeFunction("exists", pathExists))
	m.Set("isfile", value.NewNativeFunction("isfile", pathIsFile))
	m.Set("isdir", value.NewNativeFunction("isdir", pathIsDir))
	m.Set("join", value.NewNativeFunction("join", pathJoin))
	m.Set("basename", value.NewNativeFunction("basename", pathBasename))
	m.Set("dirname", value.NewNativeFunction("dirname", pathDirname))
	m.Set("abspath", value.NewNativeFunction("abspath", pathAbspath))
	return m
}

func osListdir(args []value.Value) (value.Value, *value.Error) {
	path, err := requireString(args, 0, "path")
	if err != nil {
		return value.Value{}, err
	}
	entries, readErr := os.ReadDir(path)
	if readErr != nil {
		return value.Value{}, osErrorf("Failed to read directory %q: %v", path, readErr)
	}
	names := make([]value.Value, len(entries))
	for i, e := range entries {
		names[i] = value.String(e.Name())
	}
	return value.NewList(names), nil
}

func osMkdir(args []value.Value) (value.Value, *value.Error) {
	path, err := requireString(args, 0, "path")
	if err != nil {
		return value.Value{}, err
	}
	if mkErr := os.Mkdir(path, 0o755); mkErr != nil {
		return value.Value{}, osErrorf("Failed to create directory %q: %v", path, mkErr)
	}
	return value.None(), nil
}

func osMakedirs(args []value.Value) (value.Value, *value.Error) {
	path, err := requireString(args, 0, "path")
	if err != nil {
		return value.Value{}, err
	}
	if mkErr := os.MkdirAll(path, 0o755); mkErr != nil {
		return value.Value{}, osErrorf("Failed to create directories %q: %v", path, mkErr)
	}
	return value.None(), nil
}

func osRemove(args []value.Value) (value.Value, *value.Error) {
	path, err := requireString(args, 0, "path")
	if err != nil {
		return value.Value{}, err
	}
	if rmErr := os.Remove(path); rmErr != nil {
		return value.Value{}, osErrorf("Failed to remove file %q: %v", path, rmErr)
	}
	return value.None(), nil
}

func osRmdir(args []value.Value) (value.Value, *value.Error) {
	path, err := requireString(args, 0, "path")
	if err != nil {
		return value.Value{}, err
	}
	if rmErr := os.Remove(path); rmErr != nil {
		return value.Value{}, osErrorf("Failed to remove directory %q: %v", path, rmErr)
	}
	return value.None(), nil
}

func osRename(args []value.Value) (value.Value, *value.Error) {
	if len(args) < 2 {
		return value.Value{}, typeErrorf("rename() requires 2 arguments: old and new")
	}
	oldPath, err := requireString(args, 0, "old")
	if err != nil {
		return value.Value{}, err
	}
	newPath, err := requireString(args, 1, "new")
	if err != nil {
		return value.Value{}, err
	}
	if rnErr := os.Rename(oldPath, newPath); rnErr != nil {
		return value.Value{}, osErrorf("Failed to rename %q to %q: %v", oldPath, newPath, rnErr)
	}
	return value.None(), nil
}

func osGetcwd(args []value.Value) (value.Value, *value.Error) {
	cwd, err := os.Getwd()
	if err != nil {
		return value.Value{}, osErrorf("Failed to get current directory: %v", err)
	}
	return value.String(cwd), nil
}

func osChdir(args []value.Value) (value.Value, *value.Error) {
	path, err := requireString(args, 0, "path")
	if err != nil {
		return value.Value{}, err
	}
	if cdErr := os.Chdir(path); cdErr != nil {
		return value.Value{}, osErrorf("Failed to change directory to %q: %v", path, cdErr)
	}
	return value.None(), nil
}

func osGetenv(args []value.Value) (value.Value, *value.Error) {
	key, err := requireString(args, 0, "key")
	if err != nil {
		return value.Value{}, err
	}
	if v, ok := os.LookupEnv(key); ok {
		return value.String(v), nil
	}
	if len(args) > 1 {
		return args[1], nil
	}
	return value.None(), nil
}

func pathExists(args []value.Value) (value.Value, *value.Error) {
	path, err := requireString(args, 0, "path")
	if err != nil {
		return value.Value{}, err
	}
	_, statErr := os.Stat(path)
	return value.Bool(statErr == nil), nil
}

func pathIsFile(args []value.Value) (value.Value, *value.Error) {
	path, err := requireString(args, 0, "path")
	if err != nil {
		return value.Value{}, err
	}
	info, statErr := os.Stat(path)
	return value.Bool(statErr == nil && !info.IsDir()), nil
}

func pathIsDir(args []value.Value) (value.Value, *value.Error) {
	path, err := requireString(args, 0, "path")
	if err != nil {
		return value.Value{}, err
	}
	info, statErr := os.Stat(path)
	return value.Bool(statErr == nil && info.IsDir()), nil
}

func pathJoin(args []value.Value) (value.Value, *value.Error) {
	parts := make([]string, len(args))
	for i, a := range args {
		s, ok := a.AsString()
		if !ok {
			return value.Value{}, typeErrorf("all arguments must be strings")
		}
		parts[i] = s
	}
	return value.String(filepath.Join(parts...)), nil
}

func pathBasename(args []value.Value) (value.Value, *value.Error) {
	path, err := requireString(args, 0, "path")
	if err != nil {
		return value.Value{}, err
	}
	return value.String(filepath.Base(path)), nil
}

func pathDirname(args []value.Value) (value.Value, *value.Error) {
	path, err := requireString(args, 0, "path")
	if err != nil {
		return value.Value{}, err
	}
	return value.String(filepath.Dir(path)), nil
}

func pathAbspath(args []value.Value) (value.Value, *value.Error) {
	path, err := requireString(args, 0, "path")
	if err != nil {
		return value.Value{}, err
	}
	abs, absErr := filepath.Abs(path)
	if absErr != nil {
		return value.Value{}, osErrorf("Failed to get current directory: %v", absErr)
	}
	return value.String(abs), nil
}

// osUUID returns a freshly generated random (v4) UUID string.
func osUUID(args []value.Value) (value.Value, *value.Error) {
	return value.String(uuid.New().String()), nil
}

// osHumanizeSize renders a byte count (int or float) in base-1000 SI units,
// e.g. humanize_size(1536) -> "1.5 kB".
func osHumanizeSize(args []value.Value) (value.Value, *value.Error) {
	if len(args) == 0 {
		return value.Value{}, typeErrorf("humanize_size() missing required argument: 'bytes'")
	}
	switch args[0].Kind {
	case value.KindInt:
		n, _ := args[0].AsInt()
		return value.String(humanize.Bytes(uint64(n))), nil
	case value.KindFloat:
		f, _ := args[0].AsFloat()
		return value.String(humanize.Bytes(uint64(f))), nil
	default:
		return value.Value{}, typeErrorf("humanize_size() argument must be a number")
	}
}

// osStrftime formats a Unix timestamp with a C strftime-style layout string,
// e.g. strftime("%Y-%m-%d", 1705276800) -> "2024-01-15".
func osStrftime(args []value.Value) (value.Value, *value.Error) {
	layout, err := requireString(args, 0, "format")
	if err != nil {
		return value.Value{}, err
	}
	var seconds float64
	switch {
	case len(args) < 2:
		return value.Value{}, typeErrorf("strftime() missing required argument: 'unix_time'")
	case args[1].Kind == value.KindInt:
		n, _ := args[1].AsInt()
		seconds = float64(n)
	case args[1].Kind == value.KindFloat:
		f, _ := args[1].AsFloat()
		seconds = f
	default:
		return value.Value{}, typeErrorf("strftime() argument 'unix_time' must be a number")
	}
	t := time.Unix(0, int64(seconds*float64(time.Second))).UTC()
	return value.String(strftime.Format(layout, t)), nil
}
