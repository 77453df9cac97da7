package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"
	"lumen/interpreter"
	"lumen/lexer"
	"lumen/parser"
	"lumen/resolver"
)

// replCmd implements the interactive tree-evaluator REPL.
type replCmd struct {
	dumpAST bool
}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start REPL session" }
func (*replCmd) Usage() string {
	return `repl:
  Start interactive REPL session.
`
}

func (r *replCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.dumpAST, "dumpAST", false, "Print the AST as JSON before evaluating each submission")
}

func (r *replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fmt.Println("\n\nWelcome to Lumen!")

	rl, err := readline.New(">>> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to start line editor: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	// One interpreter for the whole session, so variables and functions
	// defined in earlier submissions stay available. Hop-distance
	// annotations from each per-submission resolver pass are merged in.
	interp := interpreter.Make()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 %s\n", err.Error())
			return subcommands.ExitFailure
		}
		if line == "exit" {
			os.Exit(0)
		}

		lex := lexer.New(line)
		tokens, lexErrors := lex.Scan()
		if len(lexErrors) > 0 {
			reportErrors(lexErrors)
			continue
		}

		p := parser.Make(tokens)
		statements, parseErrors := p.Parse()
		if len(parseErrors) > 0 {
			reportErrors(parseErrors)
			continue
		}

		res := resolver.Make()
		resolveErrors := res.Resolve(statements)
		reportWarnings(res.Warnings())
		if len(resolveErrors) > 0 {
			reportErrors(resolveErrors)
			continue
		}
		interp.AddResolved(res.ResolvedExpressions())

		if r.dumpAST {
			p.Print(statements)
		}

		if err := interp.Interpret(statements); err != nil {
			reportError(err)
		}
	}
}
