package compiler

import (
	"testing"

	"github.com/riey/kes/ast"
	"github.com/riey/kes/interner"
	"github.com/riey/kes/parser"
)

func compileSource(t *testing.T, src string) *Program {
	t.Helper()
	in := interner.New()
	stmts, err := parser.Parse(src, in)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", src, err)
	}
	prog, err := Compile(stmts, in)
	if err != nil {
		t.Fatalf("Compile(%q) failed: %v", src, err)
	}
	return prog
}

func assertOps(t *testing.T, prog *Program, want ...Opcode) {
	t.Helper()
	if len(prog.Instructions) != len(want) {
		t.Fatalf("got %d instructions, want %d: %v", len(prog.Instructions), len(want), prog.Instructions)
	}
	for i, op := range want {
		if prog.Instructions[i].Op != op {
			t.Fatalf("instruction[%d] = %v, want %v", i, prog.Instructions[i], op)
		}
	}
}

func TestCompileSimpleArithmetic(t *testing.T) {
	prog := compileSource(t, "1 + 2;")
	assertOps(t, prog, OpLoadInt, OpLoadInt, OpBinaryOperator, OpPop)
	if prog.Instructions[0].Int != 1 || prog.Instructions[1].Int != 2 {
		t.Fatalf("operands = %+v", prog.Instructions)
	}
	if prog.Instructions[2].BinOp != ast.Add {
		t.Fatalf("binop = %v, want Add", prog.Instructions[2].BinOp)
	}
}

func TestCompilePrint(t *testing.T) {
	prog := compileSource(t, "@ 123 '123';")
	assertOps(t, prog, OpLoadInt, OpLoadStr, OpPrint)
	if !prog.Instructions[2].Newline || prog.Instructions[2].Wait {
		t.Fatalf("print flags = %+v", prog.Instructions[2])
	}
}

// TestCompileIfElseIfElse mirrors the worked example: every instruction
// index and jump target is pinned down, not just the opcode sequence.
func TestCompileIfElseIfElse(t *testing.T) {
	prog := compileSource(t, "만약 1 + 2 { 0; } 혹은 1 { 1; } 그외 { 2; }")
	assertOps(t, prog,
		OpLoadInt, OpLoadInt, OpBinaryOperator, OpGotoIfNot,
		OpLoadInt, OpPop, OpGoto,
		OpLoadInt, OpGotoIfNot,
		OpLoadInt, OpPop, OpGoto,
		OpLoadInt, OpPop,
	)
	wantTargets := map[int]uint32{3: 7, 6: 14, 8: 12, 11: 14}
	for idx, target := range wantTargets {
		if prog.Instructions[idx].Int != target {
			t.Fatalf("instruction[%d].Int = %d, want %d", idx, prog.Instructions[idx].Int, target)
		}
	}
}

func TestCompileWhile(t *testing.T) {
	prog := compileSource(t, "반복 1 + 2 { 2; } 3;")
	assertOps(t, prog,
		OpLoadInt, OpLoadInt, OpBinaryOperator, OpGotoIfNot,
		OpLoadInt, OpPop, OpGoto,
		OpLoadInt, OpPop,
	)
	if prog.Instructions[3].Int != 7 {
		t.Fatalf("exit jump target = %d, want 7", prog.Instructions[3].Int)
	}
	if prog.Instructions[6].Int != 0 {
		t.Fatalf("loop jump target = %d, want 0", prog.Instructions[6].Int)
	}
}

func TestCompileTernary(t *testing.T) {
	prog := compileSource(t, "1 ? 2 : 3;")
	assertOps(t, prog, OpLoadInt, OpLoadInt, OpLoadInt, OpTernaryOperator, OpPop)
	if prog.Instructions[3].TernOp != ast.Conditional {
		t.Fatalf("ternary op = %v", prog.Instructions[3].TernOp)
	}
}

func TestCompileAssignAndLoop(t *testing.T) {
	prog := compileSource(t, "$0 = 1; 반복 $0 < 10 { @@$0; $0 = $0 + 1; } @@$0;")
	if len(prog.Instructions) == 0 {
		t.Fatal("expected non-empty program")
	}
	// every Goto/GotoIfNot target must lie within [0, len]; len is the end
	// of the program.
	for i, inst := range prog.Instructions {
		if inst.Op == OpGoto || inst.Op == OpGotoIfNot {
			if int(inst.Int) > len(prog.Instructions) {
				t.Fatalf("instruction[%d] jumps out of bounds: %+v", i, inst)
			}
		}
		if inst.Op == OpNop {
			t.Fatalf("unpatched Nop left at instruction[%d]", i)
		}
	}
}

func TestCompileNoNopSurvives(t *testing.T) {
	prog := compileSource(t, "만약 1 { 1; } 혹은 0 { 2; } 그외 { 3; }")
	for i, inst := range prog.Instructions {
		if inst.Op == OpNop {
			t.Fatalf("instruction[%d] is an unpatched Nop", i)
		}
	}
}

func TestCompileBuiltinCallOrder(t *testing.T) {
	prog := compileSource(t, "더하기(1, 2);")
	assertOps(t, prog, OpLoadInt, OpLoadInt, OpCallBuiltin, OpPop)
}
