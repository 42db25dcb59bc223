package vm

import (
	"context"
	"testing"

	"github.com/riey/kes/compiler"
	"github.com/riey/kes/interner"
	"github.com/riey/kes/parser"
)

func compileSource(t *testing.T, src string) *compiler.Program {
	t.Helper()
	in := interner.New()
	stmts, err := parser.Parse(src, in)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", src, err)
	}
	prog, err := compiler.Compile(stmts, in)
	if err != nil {
		t.Fatalf("Compile(%q) failed: %v", src, err)
	}
	return prog
}

func TestRunPrintConcatenation(t *testing.T) {
	prog := compileSource(t, "@@123 '123';")
	c := NewContext(prog)
	rec := &RecordingBuiltin{}
	if err := c.Run(context.Background(), rec); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := rec.String(); got != "123123" {
		t.Fatalf("recorded output = %q, want %q", got, "123123")
	}
	if c.State != Halted {
		t.Fatalf("state = %v, want Halted", c.State)
	}
}

func TestRunPrintLineAddsNewline(t *testing.T) {
	prog := compileSource(t, "@123;")
	c := NewContext(prog)
	rec := &RecordingBuiltin{}
	if err := c.Run(context.Background(), rec); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := rec.String(); got != "123@" {
		t.Fatalf("recorded output = %q, want %q", got, "123@")
	}
}

func TestRunPrintWaitAddsNewlineAndWaitMarker(t *testing.T) {
	prog := compileSource(t, "@!123;")
	c := NewContext(prog)
	rec := &RecordingBuiltin{}
	if err := c.Run(context.Background(), rec); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := rec.String(); got != "123@#" {
		t.Fatalf("recorded output = %q, want %q", got, "123@#")
	}
}

func TestRunWhileLoopAccumulatesDigits(t *testing.T) {
	prog := compileSource(t, "$0 = 1; 반복 $0 < 10 { @@$0; $0 = $0 + 1; } @@$0;")
	c := NewContext(prog)
	rec := &RecordingBuiltin{}
	if err := c.Run(context.Background(), rec); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := rec.String(); got != "12345678910" {
		t.Fatalf("recorded output = %q, want %q", got, "12345678910")
	}
}

func TestRunIfElseIfElseTakesFirstTruthyArm(t *testing.T) {
	prog := compileSource(t, "만약 0 { @@1; } 혹은 1 { @@2; } 그외 { @@3; }")
	c := NewContext(prog)
	rec := &RecordingBuiltin{}
	if err := c.Run(context.Background(), rec); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := rec.String(); got != "2" {
		t.Fatalf("recorded output = %q, want %q", got, "2")
	}
}

func TestRunIfElseIfElseFallsThroughToElse(t *testing.T) {
	prog := compileSource(t, "만약 0 { @@1; } 혹은 0 { @@2; } 그외 { @@3; }")
	c := NewContext(prog)
	rec := &RecordingBuiltin{}
	if err := c.Run(context.Background(), rec); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := rec.String(); got != "3" {
		t.Fatalf("recorded output = %q, want %q", got, "3")
	}
}

func TestRunTernary(t *testing.T) {
	prog := compileSource(t, "@@1 ? 2 : 3;")
	c := NewContext(prog)
	rec := &RecordingBuiltin{}
	if err := c.Run(context.Background(), rec); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := rec.String(); got != "2" {
		t.Fatalf("recorded output = %q, want %q", got, "2")
	}
}

func TestRunCallBuiltinRecordsName(t *testing.T) {
	prog := compileSource(t, "더하기(1, 2);")
	c := NewContext(prog)
	rec := &RecordingBuiltin{}
	if err := c.Run(context.Background(), rec); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := rec.String(); got != "더하기" {
		t.Fatalf("recorded output = %q, want %q", got, "더하기")
	}
}

func TestRunTypeErrorReportsOffendingLine(t *testing.T) {
	src := "\n    2 + '2';\n    # comment\n    1 - '1'; # line 4\n"
	prog := compileSource(t, src)
	c := NewContext(prog)
	rec := &RecordingBuiltin{}
	err := c.Run(context.Background(), rec)
	if err == nil {
		t.Fatal("expected a TypeError")
	}
	typeErr, ok := err.(*TypeError)
	if !ok {
		t.Fatalf("error = %#v (%T), want *TypeError", err, err)
	}
	if typeErr.Line != 4 {
		t.Fatalf("line = %d, want 4", typeErr.Line)
	}
	if c.State != Errored {
		t.Fatalf("state = %v, want Errored", c.State)
	}
}

func TestRunDivisionByZeroIsFatal(t *testing.T) {
	prog := compileSource(t, "1 / 0;")
	c := NewContext(prog)
	err := c.Run(context.Background(), &RecordingBuiltin{})
	if err == nil {
		t.Fatal("expected an ExecutionError")
	}
	if _, ok := err.(*ExecutionError); !ok {
		t.Fatalf("error = %#v (%T), want *ExecutionError", err, err)
	}
}

func TestRunUndefinedVariableIsExecutionError(t *testing.T) {
	prog := compileSource(t, "$0;")
	c := NewContext(prog)
	err := c.Run(context.Background(), &RecordingBuiltin{})
	if err == nil {
		t.Fatal("expected an ExecutionError")
	}
	execErr, ok := err.(*ExecutionError)
	if !ok {
		t.Fatalf("error = %#v (%T), want *ExecutionError", err, err)
	}
	if execErr.Msg != "변수를 찾을수 없습니다" {
		t.Fatalf("message = %q", execErr.Msg)
	}
}

func TestRunExitHaltsImmediately(t *testing.T) {
	prog := compileSource(t, "@@1; 종료; @@2;")
	c := NewContext(prog)
	rec := &RecordingBuiltin{}
	if err := c.Run(context.Background(), rec); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := rec.String(); got != "1" {
		t.Fatalf("recorded output = %q, want %q", got, "1")
	}
	if c.State != Halted {
		t.Fatalf("state = %v, want Halted", c.State)
	}
}

// TestStackBalanceAfterEachStatement checks the invariant that top-level
// Assign/Expression/Exit statements return the stack to its pre-statement
// depth.
func TestStackBalanceAfterEachStatement(t *testing.T) {
	prog := compileSource(t, "$0 = 1 + 2; $0 + 3;")
	c := NewContext(prog)
	if err := c.Run(context.Background(), &RecordingBuiltin{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if c.Depth() != 0 {
		t.Fatalf("final stack depth = %d, want 0", c.Depth())
	}
}
