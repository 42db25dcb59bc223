package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"github.com/riey/kes/compiler"
	"github.com/riey/kes/interner"
	"github.com/riey/kes/lexer"
	"github.com/riey/kes/parser"
	"github.com/riey/kes/token"
	"github.com/riey/kes/vm"
)

type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive kes session" }
func (*replCmd) Usage() string {
	return `repl:
  Start an interactive REPL. Variables persist across lines; multi-line
  blocks (unbalanced '{') are accumulated until they close.
`
}
func (*replCmd) SetFlags(f *flag.FlagSet) {}

func (r *replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.New(">>> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 readline 초기화 실패: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	fmt.Println("kes 대화형 세션을 시작합니다. 'exit'를 입력하면 종료합니다.")

	in := interner.New()
	c := vm.NewContext(&compiler.Program{Interner: in})
	builtin := newCLIBuiltin()

	var buffer strings.Builder
	for {
		if buffer.Len() == 0 {
			rl.SetPrompt(">>> ")
		} else {
			rl.SetPrompt("... ")
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if buffer.Len() == 0 {
				continue
			}
			buffer.Reset()
			continue
		}
		if err == io.EOF {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 %v\n", err)
			return subcommands.ExitFailure
		}

		if strings.TrimSpace(line) == "exit" && buffer.Len() == 0 {
			return subcommands.ExitSuccess
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)
		source := buffer.String()

		tokens, err := lexer.New(source, in, lexer.DiscardComments).Scan()
		if err != nil {
			fmt.Println(err)
			buffer.Reset()
			continue
		}
		if !blockIsBalanced(tokens) {
			continue
		}

		stmts, err := parser.Make(tokens).Parse()
		if err != nil {
			if isUnexpectedEOF(err) {
				continue
			}
			fmt.Println(err)
			buffer.Reset()
			continue
		}

		prog, err := compiler.Compile(stmts, in)
		if err != nil {
			fmt.Println(err)
			buffer.Reset()
			continue
		}

		c.Program = prog
		c.Cursor = 0
		c.Stack = c.Stack[:0]
		runErr := c.Run(ctx, builtin)
		builtin.flush()
		if runErr != nil {
			fmt.Println(runErr)
		}
		buffer.Reset()
	}
}

// blockIsBalanced reports whether tokens contains no more '{' than '}' —
// the REPL keeps accumulating lines into the same buffer until a block
// closes, rather than trying to execute a truncated If/While body.
func blockIsBalanced(tokens []token.Token) bool {
	depth := 0
	for _, t := range tokens {
		switch t.Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
		}
	}
	return depth <= 0
}

func isUnexpectedEOF(err error) bool {
	perr, ok := err.(*parser.Error)
	return ok && perr.Kind == parser.UnexpectedEndOfToken
}
