package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"quickpy/bytecode"
	"quickpy/compiler"
	"quickpy/serializer"
	"quickpy/value"
	"quickpy/vm"
)

// runCmd implements `quickpy run <file>`.
type runCmd struct{}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Execute a quickpy source or .pyq bytecode file" }
func (*runCmd) Usage() string {
	return `run <file>:
  Execute quickpy code. A .pyq file is deserialized and run directly;
  any other file is read as source, compiled, and run.
`
}
func (r *runCmd) SetFlags(f *flag.FlagSet) {}

func (r *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "run: no file provided")
		return subcommands.ExitUsageError
	}
	filename := args[0]

	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "run: failed to read %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}

	instrs, err := loadInstructions(filename, data)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return subcommands.ExitFailure
	}

	globals := map[string]value.Value{}
	result, runErr := vm.New().Execute(instrs, globals)
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr.Error())
		return subcommands.ExitFailure
	}
	if result.Kind != value.KindNone {
		fmt.Println(result.String())
	}
	return subcommands.ExitSuccess
}

func isPyqFile(filename string) bool {
	return strings.HasSuffix(filename, ".pyq")
}

// loadInstructions picks the .pyq deserializer or the source compiler based
// on the file extension, per spec.md §6's "`.pyq` → deserialize + execute;
// otherwise read, compile, execute" rule.
func loadInstructions(filename string, data []byte) (bytecode.Instructions, error) {
	if isPyqFile(filename) {
		return serializer.Deserialize(data)
	}
	return compiler.Compile(string(data))
}
