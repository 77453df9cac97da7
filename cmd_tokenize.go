package main

import (
	"context"
	"flag"
	"fmt"

	"lumen/lexer"
	"lumen/parser"
	"lumen/token"

	"github.com/google/subcommands"
)

// tokenizeCmd prints the token stream of a source file, one token per
// line as "<KIND> <LEXEME> <LITERAL-OR-NULL>".
type tokenizeCmd struct{}

func (*tokenizeCmd) Name() string     { return "tokenize" }
func (*tokenizeCmd) Synopsis() string { return "Print the token stream of a source file" }
func (*tokenizeCmd) Usage() string {
	return `tokenize <file>:
  Print one line per token as <KIND> <LEXEME> <LITERAL-OR-NULL>.
`
}
func (t *tokenizeCmd) SetFlags(f *flag.FlagSet) {}

func (t *tokenizeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	source, ok := readSourceFile(f.Args())
	if !ok {
		return subcommands.ExitUsageError
	}

	lex := lexer.New(source)
	tokens, lexErrors := lex.Scan()
	reportErrors(lexErrors)

	for _, tok := range tokens {
		literal := "null"
		switch tok.TokenType {
		case token.NUMBER, token.STRING:
			literal = parser.FormatLiteral(tok.Literal)
		}
		fmt.Printf("%s %s %s\n", token.Name(tok.TokenType), tok.Lexeme, literal)
	}

	if len(lexErrors) > 0 {
		return subcommands.ExitStatus(exitLexError)
	}
	return subcommands.ExitSuccess
}
