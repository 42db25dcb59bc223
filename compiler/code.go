// Package compiler lowers an AST (produced by the parser) into the flat,
// forward-jump-patched instruction vector the VM executes, and serializes
// the resulting Program to and from a compact binary format.
package compiler

import (
	"fmt"

	"github.com/riey/kes/ast"
	"github.com/riey/kes/interner"
)

// Opcode tags an Instruction. Only the operand fields relevant to a given
// Opcode are meaningful on that Instruction; see the Instruction field docs.
type Opcode byte

const (
	OpNop Opcode = iota
	OpExit
	OpPop
	OpDuplicate
	OpLoadInt
	OpLoadStr
	OpLoadVar
	OpStoreVar
	OpCallBuiltin
	OpPrint
	OpBinaryOperator
	OpUnaryOperator
	OpTernaryOperator
	OpGoto
	OpGotoIfNot
)

var opcodeNames = map[Opcode]string{
	OpNop: "Nop", OpExit: "Exit", OpPop: "Pop", OpDuplicate: "Duplicate",
	OpLoadInt: "LoadInt", OpLoadStr: "LoadStr", OpLoadVar: "LoadVar", OpStoreVar: "StoreVar",
	OpCallBuiltin: "CallBuiltin", OpPrint: "Print",
	OpBinaryOperator: "BinaryOperator", OpUnaryOperator: "UnaryOperator", OpTernaryOperator: "TernaryOperator",
	OpGoto: "Goto", OpGotoIfNot: "GotoIfNot",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Opcode(%d)", byte(op))
}

// Instruction is one entry in a Program's flat instruction vector. It
// carries the Location (source line) of the statement it was emitted for,
// so runtime errors can quote a line number.
type Instruction struct {
	Op  Opcode
	Loc int

	Int uint32          // LoadInt operand; jump target for Goto/GotoIfNot
	Sym interner.Symbol  // LoadStr/LoadVar/StoreVar/CallBuiltin operand

	BinOp  ast.BinaryOp
	UnOp   ast.UnaryOp
	TernOp ast.TernaryOp

	Newline bool // Print
	Wait    bool // Print
}

func (i Instruction) String() string {
	switch i.Op {
	case OpLoadInt:
		return fmt.Sprintf("LoadInt %d", i.Int)
	case OpLoadStr:
		return fmt.Sprintf("LoadStr %d", i.Sym)
	case OpLoadVar:
		return fmt.Sprintf("LoadVar %d", i.Sym)
	case OpStoreVar:
		return fmt.Sprintf("StoreVar %d", i.Sym)
	case OpCallBuiltin:
		return fmt.Sprintf("CallBuiltin %d", i.Sym)
	case OpPrint:
		return fmt.Sprintf("Print{newline:%v, wait:%v}", i.Newline, i.Wait)
	case OpBinaryOperator:
		return fmt.Sprintf("BinaryOperator(%s)", i.BinOp)
	case OpUnaryOperator:
		return fmt.Sprintf("UnaryOperator(%s)", i.UnOp)
	case OpTernaryOperator:
		return "TernaryOperator(Conditional)"
	case OpGoto:
		return fmt.Sprintf("Goto %d", i.Int)
	case OpGotoIfNot:
		return fmt.Sprintf("GotoIfNot %d", i.Int)
	default:
		return i.Op.String()
	}
}
