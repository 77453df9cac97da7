package main

import (
	"context"
	"flag"

	"lumen/compiler"
	"lumen/lexer"
	"lumen/parser"
	"lumen/vm"

	"github.com/google/subcommands"
)

// runCompiledCmd compiles a source file to bytecode and runs it on the VM.
type runCompiledCmd struct{}

func (*runCompiledCmd) Name() string     { return "compile" }
func (*runCompiledCmd) Synopsis() string { return "Compile Lumen code to bytecode and run it on the VM" }
func (*runCompiledCmd) Usage() string {
	return `compile <file>:
  Compile Lumen code to bytecode and execute it on the virtual machine.
`
}
func (r *runCompiledCmd) SetFlags(f *flag.FlagSet) {}

func (r *runCompiledCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	astCompiler := compiler.NewASTCompiler()
	chunk, err := astCompiler.CompileAST(statements)
	if err != nil {
		reportError(err)
		return subcommands.ExitStatus(exitCompileError)
	}

	machine := vm.New()
	if err := machine.Run(chunk); err != nil {
		reportError(err)
		return subcommands.ExitStatus(exitRuntimeError)
	}
	return subcommands.ExitSuccess
}
