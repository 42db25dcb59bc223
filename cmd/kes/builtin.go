package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/riey/kes/vm"
)

// cliBuiltin is the Builtin the run/repl commands hand to the VM: output
// goes to stdout, print-wait blocks on a line of stdin. It knows a small
// fixed table of named calls; anything else is an ExecutionError.
type cliBuiltin struct {
	out *bufio.Writer
	in  *bufio.Reader
}

func newCLIBuiltin() *cliBuiltin {
	return &cliBuiltin{
		out: bufio.NewWriter(os.Stdout),
		in:  bufio.NewReader(os.Stdin),
	}
}

func (b *cliBuiltin) Print(v vm.Value) {
	fmt.Fprint(b.out, v.String())
}

func (b *cliBuiltin) NewLine() {
	fmt.Fprintln(b.out)
	b.out.Flush()
}

func (b *cliBuiltin) Wait(ctx context.Context) error {
	b.out.Flush()
	_, err := b.in.ReadString('\n')
	if err != nil {
		return fmt.Errorf("kes: reading input: %w", err)
	}
	return nil
}

// Run implements the handful of builtins a standalone script can call
// without a richer host embedding it: 정수 (parse an Int from a Str
// argument), 문자열 (stringify an Int argument), 길이 (Str length).
func (b *cliBuiltin) Run(ctx context.Context, name string, c *vm.Context) (vm.Value, error) {
	line := c.Program.Instructions[c.Cursor].Loc
	switch name {
	case "정수":
		arg, err := c.Pop(line)
		if err != nil {
			return vm.Value{}, err
		}
		if arg.Kind != vm.StrKind {
			return vm.Value{}, &vm.TypeError{Type: arg.TypeName(), Line: line}
		}
		var n uint32
		if _, err := fmt.Sscanf(arg.Str, "%d", &n); err != nil {
			return vm.Value{}, &vm.ExecutionError{Msg: fmt.Sprintf("'%s'는 정수가 아닙니다", arg.Str), Line: line}
		}
		return vm.Int(n), nil
	case "문자열":
		arg, err := c.Pop(line)
		if err != nil {
			return vm.Value{}, err
		}
		return vm.Str(arg.String()), nil
	case "길이":
		arg, err := c.Pop(line)
		if err != nil {
			return vm.Value{}, err
		}
		if arg.Kind != vm.StrKind {
			return vm.Value{}, &vm.TypeError{Type: arg.TypeName(), Line: line}
		}
		return vm.Int(uint32(len([]rune(arg.Str)))), nil
	default:
		return vm.Value{}, &vm.ExecutionError{Msg: fmt.Sprintf("알 수 없는 내장 함수 '%s'", name), Line: line}
	}
}

func (b *cliBuiltin) flush() {
	b.out.Flush()
}
