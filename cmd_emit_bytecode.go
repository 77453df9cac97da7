package main

import (
	"context"
	"flag"
	"fmt"
	"lumen/compiler"
	"lumen/lexer"
	"lumen/parser"
	"os"
	"strings"

	"github.com/google/subcommands"
)

// emitBytecodeCmd compiles a source file and writes the chunk's debug
// artifacts to disk without executing anything.
type emitBytecodeCmd struct {
	diassemble   bool
	dumpBytecode bool
}

func (*emitBytecodeCmd) Name() string { return "emit" }
func (*emitBytecodeCmd) Synopsis() string {
	return "Emit the bytecode representation from a source file"
}
func (*emitBytecodeCmd) Usage() string {
	return `lumen emit <file>`
}

func (cmd *emitBytecodeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.diassemble, "diassemble", true, "diassemble the bytecode and dump it to a text file.")
	f.BoolVar(&cmd.dumpBytecode, "dumpBytecode", true, "Writes the encoded bytecode as hexadecimal to a .lmc file")
}

func (r *emitBytecodeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 File not provided\n")
		return subcommands.ExitUsageError
	}
	lumenFile := args[0]
	source, ok := readSourceFile(args)
	if !ok {
		return subcommands.ExitFailure
	}

	lex := lexer.New(source)
	tokens, lexErrors := lex.Scan()
	if len(lexErrors) > 0 {
		reportErrors(lexErrors)
		return subcommands.ExitStatus(exitLexError)
	}

	p := parser.Make(tokens)
	statements, parseErrs := p.Parse()
	if len(parseErrs) > 0 {
		reportErrors(parseErrs)
		return subcommands.ExitStatus(exitParseError)
	}

	astCompiler := compiler.NewASTCompiler()
	_, cErr := astCompiler.CompileAST(statements)
	if cErr != nil {
		reportError(cErr)
		return subcommands.ExitStatus(exitCompileError)
	}

	fileName := strings.TrimSuffix(lumenFile, ".lum")

	if r.diassemble {
		_, dErr := astCompiler.DiassembleBytecode(true, fileName)
		if dErr != nil {
			fmt.Fprintf(os.Stderr, "💥 Bytecode diassemble error:\n:\t%s", dErr.Error())
			return subcommands.ExitFailure
		}
	}

	if r.dumpBytecode {
		err := astCompiler.DumpBytecode(fileName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 Dump bytecode error:\n:\t%s", err.Error())
			return subcommands.ExitFailure
		}
	}

	return subcommands.ExitSuccess
}
