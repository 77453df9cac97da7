package main

import (
	"context"
	"flag"
	"fmt"

	"lumen/interpreter"
	"lumen/lexer"
	"lumen/parser"

	"github.com/google/subcommands"
)

// evaluateCmd parses a source file as a single expression, evaluates it
// with the tree evaluator and prints the result.
type evaluateCmd struct{}

func (*evaluateCmd) Name() string     { return "evaluate" }
func (*evaluateCmd) Synopsis() string { return "Evaluate a single expression and print its value" }
func (*evaluateCmd) Usage() string {
	return `evaluate <file>:
  Parse the file as one expression, evaluate it and print the result.
`
}
func (e *evaluateCmd) SetFlags(f *flag.FlagSet) {}

func (e *evaluateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	expression, err := p.ParseExpression()
	if err != nil {
		reportError(err)
		return subcommands.ExitStatus(exitParseError)
	}

	// A bare expression declares nothing, so every reference resolves
	// through the globals namespace and no resolver pass is needed.
	interp := interpreter.Make()
	result, err := interp.Evaluate(expression)
	if err != nil {
		reportError(err)
		return subcommands.ExitStatus(exitRuntimeError)
	}

	fmt.Println(interpreter.Stringify(result))
	return subcommands.ExitSuccess
}
