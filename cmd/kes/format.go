package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/riey/kes/format"
)

type formatCmd struct{}

func (*formatCmd) Name() string     { return "format" }
func (*formatCmd) Synopsis() string { return "Print the canonical reformatting of a source file" }
func (*formatCmd) Usage() string {
	return `format <file.kes>:
  Read source and write canonical reformatted source to stdout. With no
  file argument, reads from stdin.
`
}
func (*formatCmd) SetFlags(f *flag.FlagSet) {}

func (cmd *formatCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var data []byte
	var err error

	if args := f.Args(); len(args) > 0 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 입력을 읽을 수 없습니다: %v\n", err)
		return subcommands.ExitFailure
	}

	formatted, err := format.Source(string(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprint(os.Stdout, formatted)
	return subcommands.ExitSuccess
}
