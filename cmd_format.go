package main

import (
	"context"
	"flag"

	"lumen/lexer"
	"lumen/parser"

	"github.com/google/subcommands"
)

// formatCmd pretty-prints the statements of a source file as AST JSON,
// optionally writing the output to a file.
type formatCmd struct {
	outputPath string
}

func (*formatCmd) Name() string     { return "format" }
func (*formatCmd) Synopsis() string { return "Pretty-print the statements of a source file" }
func (*formatCmd) Usage() string {
	return `format <file>:
  Pretty-print the parsed statements as AST JSON.
`
}

func (cmd *formatCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.outputPath, "o", "", "Write the AST JSON to the given file instead of only printing it")
}

func (cmd *formatCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	if cmd.outputPath != "" {
		if err := p.PrintToFile(statements, cmd.outputPath); err != nil {
			reportError(err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	p.Print(statements)
	return subcommands.ExitSuccess
}
