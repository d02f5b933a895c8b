package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"quickpy/compiler"
	"quickpy/serializer"
)

// compileCmd implements `quickpy compile <file> [-o <output>]`.
type compileCmd struct {
	output string
}

func (*compileCmd) Name() string     { return "compile" }
func (*compileCmd) Synopsis() string { return "Compile quickpy source to a .pyq bytecode file" }
func (*compileCmd) Usage() string {
	return `compile <file> [-o <output>]:
  Compile a quickpy source file to its serialized bytecode form. The
  default output path substitutes a trailing ".py" with ".pyq", or
  appends ".pyq" if the input has no ".py" suffix.
`
}

func (c *compileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "output path (default: input with .py replaced by .pyq)")
}

func (c *compileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "compile: no file provided")
		return subcommands.ExitUsageError
	}
	filename := args[0]

	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "compile: failed to read %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}

	instrs, compileErr := compiler.Compile(string(data))
	if compileErr != nil {
		fmt.Fprintln(os.Stderr, compileErr.Error())
		return subcommands.ExitFailure
	}

	encoded, serErr := serializer.Serialize(instrs)
	if serErr != nil {
		fmt.Fprintln(os.Stderr, serErr.Error())
		return subcommands.ExitFailure
	}

	output := c.output
	if output == "" {
		output = defaultOutputPath(filename)
	}

	if writeErr := os.WriteFile(output, encoded, 0o644); writeErr != nil {
		fmt.Fprintf(os.Stderr, "compile: failed to write %q: %v\n", output, writeErr)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func defaultOutputPath(filename string) string {
	if strings.HasSuffix(filename, ".py") {
		return strings.TrimSuffix(filename, ".py") + ".pyq"
	}
	return filename + ".pyq"
}
