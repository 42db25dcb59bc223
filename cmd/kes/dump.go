package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/riey/kes/compiler"
	"github.com/riey/kes/interner"
	"github.com/riey/kes/parser"
)

// dumpCmd replaces the teacher's ad-hoc hex-dump-to-file emitter with a
// disassembly printed to stdout (and, with -o, also the compact binary
// Program written to a file, which compiler.Decode can read back).
type dumpCmd struct {
	outPath string
}

func (*dumpCmd) Name() string     { return "dump" }
func (*dumpCmd) Synopsis() string { return "Print the compiled bytecode for a source file" }
func (*dumpCmd) Usage() string {
	return `dump [-o out.kesc] <file.kes>:
  Parse and compile a source file, then print its disassembled
  instructions. With -o, also write the encoded Program to out.kesc.
`
}

func (cmd *dumpCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.outPath, "o", "", "write the encoded Program to this path")
}

func (cmd *dumpCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 파일이 주어지지 않았습니다\n")
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 파일을 읽을 수 없습니다: %v\n", err)
		return subcommands.ExitFailure
	}

	in := interner.New()
	stmts, err := parser.Parse(string(data), in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}

	prog, err := compiler.Compile(stmts, in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}

	out := bufio.NewWriter(os.Stdout)
	for i, inst := range prog.Instructions {
		fmt.Fprintf(out, "%4d: %s\n", i, inst.String())
	}
	out.Flush()

	if cmd.outPath != "" {
		f, err := os.Create(cmd.outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 출력 파일을 열 수 없습니다: %v\n", err)
			return subcommands.ExitFailure
		}
		defer f.Close()
		if err := prog.Encode(f); err != nil {
			fmt.Fprintf(os.Stderr, "💥 바이트코드 인코딩 오류: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	return subcommands.ExitSuccess
}
