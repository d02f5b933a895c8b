package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	quickpyContext "quickpy/context"
	"quickpy/value"
)

// replCmd implements `quickpy repl`: an interactive session backed by
// readline for line editing/history, persisting one context.Context across
// evaluations the way cmd_repl_compiled.go's compiled REPL persisted one
// compiler/vm pair across lines. Because quickpy's grammar is
// indentation-sensitive rather than brace-delimited, continuation detection
// works off open parens and trailing ':' rather than the teacher's brace
// balance.
type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive quickpy session" }
func (*replCmd) Usage() string {
	return `repl:
  Start an interactive quickpy session. Globals persist across lines.
`
}
func (*replCmd) SetFlags(f *flag.FlagSet) {}

func (*replCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     "",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Println("repl: failed to start readline:", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	ctx := quickpyContext.New()
	var buffer strings.Builder

	for {
		if buffer.Len() == 0 {
			rl.SetPrompt(">>> ")
		} else {
			rl.SetPrompt("... ")
		}

		line, readErr := rl.Readline()
		if readErr == readline.ErrInterrupt {
			buffer.Reset()
			continue
		}
		if readErr == io.EOF {
			return subcommands.ExitSuccess
		}
		if readErr != nil {
			fmt.Println("repl:", readErr)
			return subcommands.ExitFailure
		}

		if strings.TrimSpace(line) == "exit" && buffer.Len() == 0 {
			return subcommands.ExitSuccess
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)

		if !replReady(buffer.String(), line) {
			continue
		}

		source := buffer.String()
		buffer.Reset()

		result, evalErr := ctx.Eval(source + "\n")
		if evalErr != nil {
			fmt.Println(evalErr.Error())
			continue
		}
		if result.Kind != value.KindNone {
			fmt.Println(result.String())
		}
	}
}

// replReady decides whether the buffered input should be evaluated now or
// whether the REPL should keep prompting for continuation lines: unbalanced
// parens always continue (a multi-line call), and a block opened by a
// trailing ':' continues until a blank line closes it.
func replReady(buffered string, lastLine string) bool {
	opens := strings.Count(buffered, "(")
	closes := strings.Count(buffered, ")")
	if opens > closes {
		return false
	}

	trimmedLast := strings.TrimRight(lastLine, " \t")
	if strings.HasSuffix(trimmedLast, ":") {
		return false
	}

	lines := strings.Split(buffered, "\n")
	if len(lines) > 1 && strings.TrimSpace(lastLine) != "" {
		firstLine := strings.TrimRight(lines[0], " \t")
		if strings.HasSuffix(firstLine, ":") || blockStillOpen(lines) {
			return false
		}
	}
	return true
}

// blockStillOpen reports whether the last buffered line is non-blank and
// starts with a space or tab, meaning the indented block hasn't been closed
// by a blank line yet.
func blockStillOpen(lines []string) bool {
	if len(lines) < 2 {
		return false
	}
	last := lines[len(lines)-1]
	return strings.TrimSpace(last) != "" && (strings.HasPrefix(last, " ") || strings.HasPrefix(last, "\t"))
}
