package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

// Exit codes, keyed to the first pipeline phase that fails.
const (
	exitLexError     = 65
	exitParseError   = 65
	exitCompileError = 65
	exitResolveError = 75
	exitRuntimeError = 70
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&runCmd{}, "")
	subcommands.Register(&runCompiledCmd{}, "")
	subcommands.Register(&replCmd{}, "")
	subcommands.Register(&replCompiledCmd{}, "")
	subcommands.Register(&emitBytecodeCmd{}, "")
	subcommands.Register(&tokenizeCmd{}, "")
	subcommands.Register(&parseCmd{}, "")
	subcommands.Register(&formatCmd{}, "")
	subcommands.Register(&evaluateCmd{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
