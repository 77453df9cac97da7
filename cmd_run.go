package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"lumen/interpreter"
	"lumen/lexer"
	"lumen/parser"
	"lumen/resolver"
)

// runCmd executes a source file with the tree-walking evaluator.
type runCmd struct{}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Execute Lumen code from a source file" }
func (*runCmd) Usage() string {
	return `run <file>:
  Execute Lumen code with the tree-walking evaluator.
`
}
func (r *runCmd) SetFlags(f *flag.FlagSet) {}

func (r *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	source, ok := readSourceFile(f.Args())
	if !ok {
		return subcommands.ExitUsageError
	}

	lex := lexer.New(source)
	tokens, lexErrors := lex.Scan()
	if len(lexErrors) > 0 {
		reportErrors(lexErrors)
		return subcommands.ExitStatus(exitLexError)
	}

	p := parser.Make(tokens)
	statements, parseErrors := p.Parse()
	if len(parseErrors) > 0 {
		reportErrors(parseErrors)
		return subcommands.ExitStatus(exitParseError)
	}

	res := resolver.Make()
	resolveErrors := res.Resolve(statements)
	reportWarnings(res.Warnings())
	if len(resolveErrors) > 0 {
		reportErrors(resolveErrors)
		return subcommands.ExitStatus(exitResolveError)
	}

	interp := interpreter.Make()
	interp.AddResolved(res.ResolvedExpressions())
	if err := interp.Interpret(statements); err != nil {
		reportError(err)
		return subcommands.ExitStatus(exitRuntimeError)
	}
	return subcommands.ExitSuccess
}
