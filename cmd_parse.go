package main

import (
	"context"
	"flag"
	"fmt"

	"lumen/lexer"
	"lumen/parser"

	"github.com/google/subcommands"
)

// parseCmd parses a source file as a single expression and prints its
// S-expression form.
type parseCmd struct{}

func (*parseCmd) Name() string     { return "parse" }
func (*parseCmd) Synopsis() string { return "Parse a single expression and print its S-expression form" }
func (*parseCmd) Usage() string {
	return `parse <file>:
  Parse the file as one expression and print it in parenthesized prefix form.
`
}
func (p *parseCmd) SetFlags(f *flag.FlagSet) {}

func (p *parseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	prs := parser.Make(tokens)
	expression, err := prs.ParseExpression()
	if err != nil {
		reportError(err)
		return subcommands.ExitStatus(exitParseError)
	}

	fmt.Println(parser.PrintSExpression(expression))
	return subcommands.ExitSuccess
}
