package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/riey/kes/compiler"
	"github.com/riey/kes/interner"
	"github.com/riey/kes/parser"
	"github.com/riey/kes/vm"
)

type runCmd struct{}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Execute a kes source file" }
func (*runCmd) Usage() string {
	return `run <file.kes>:
  Execute kes code from a source file.
`
}
func (r *runCmd) SetFlags(f *flag.FlagSet) {}

func (r *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	c := vm.NewContext(prog)
	builtin := newCLIBuiltin()
	runErr := c.Run(ctx, builtin)
	builtin.flush()
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "%v\n", runErr)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
