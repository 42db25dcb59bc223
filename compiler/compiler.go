package compiler

import (
	"fmt"

	"github.com/riey/kes/ast"
	"github.com/riey/kes/interner"
)

// compiler lowers a statement list into a flat instruction vector. It
// carries one mutable piece of state across the whole pass — curLoc — so
// every instruction it emits inherits the Location of the statement that
// produced it.
type compiler struct {
	interner     *interner.Interner
	instructions []Instruction
	curLoc       int
}

var (
	_ ast.StmtVisitor = (*compiler)(nil)
	_ ast.ExprVisitor = (*compiler)(nil)
)

// Compile lowers stmts (as produced by the parser, sharing in) into a
// Program. Compilation is infallible over well-formed AST; a non-nil error
// here means a compiler invariant was violated, which is a bug rather than
// a condition callers can recover from.
func Compile(stmts []ast.Stmt, in *interner.Interner) (prog *Program, err error) {
	c := &compiler{interner: in}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("compiler: %v", r)
		}
	}()

	for _, stmt := range stmts {
		c.compileStmt(stmt)
	}

	return &Program{Interner: in, Instructions: c.instructions}, nil
}

func (c *compiler) emit(inst Instruction) int {
	inst.Loc = c.curLoc
	idx := len(c.instructions)
	c.instructions = append(c.instructions, inst)
	return idx
}

// mark reserves a slot for a forward jump: a Nop placeholder whose index is
// remembered so patch can later overwrite it with a real Goto/GotoIfNot
// once the jump target is known.
func (c *compiler) mark() int {
	return c.emit(Instruction{Op: OpNop})
}

func (c *compiler) patch(idx int, op Opcode, target uint32) {
	c.instructions[idx].Op = op
	c.instructions[idx].Int = target
}

func (c *compiler) nextPos() uint32 {
	return uint32(len(c.instructions))
}

func (c *compiler) compileStmt(s ast.Stmt) {
	c.curLoc = s.Location()
	s.Accept(c)
}

func (c *compiler) compileExpr(e ast.Expr) {
	e.Accept(c)
}

func (c *compiler) VisitAssign(s ast.Assign) any {
	c.compileExpr(s.Value)
	c.emit(Instruction{Op: OpStoreVar, Sym: s.Var})
	return nil
}

func (c *compiler) VisitPrint(s ast.Print) any {
	for _, v := range s.Values {
		c.compileExpr(v)
	}
	c.emit(Instruction{Op: OpPrint, Newline: s.Newline, Wait: s.Wait})
	return nil
}

func (c *compiler) VisitExpression(s ast.Expression) any {
	c.compileExpr(s.V)
	c.emit(Instruction{Op: OpPop})
	return nil
}

func (c *compiler) VisitExit(s ast.Exit) any {
	c.emit(Instruction{Op: OpExit})
	return nil
}

func (c *compiler) VisitWhile(s ast.While) any {
	top := c.nextPos()
	c.compileExpr(s.Cond)
	exitJump := c.mark()

	for _, stmt := range s.Body {
		c.compileStmt(stmt)
	}
	c.emit(Instruction{Op: OpGoto, Int: top})
	c.patch(exitJump, OpGotoIfNot, c.nextPos())
	return nil
}

func (c *compiler) VisitIf(s ast.If) any {
	var condJump int
	endJumps := make([]int, 0, len(s.Arms))

	for i, arm := range s.Arms {
		if i > 0 {
			c.patch(condJump, OpGotoIfNot, c.nextPos())
		}
		c.curLoc = arm.Loc
		c.compileExpr(arm.Cond)
		condJump = c.mark()

		for _, stmt := range arm.Body {
			c.compileStmt(stmt)
		}
		endJumps = append(endJumps, c.mark())
	}
	c.patch(condJump, OpGotoIfNot, c.nextPos())

	if s.Other != nil {
		c.curLoc = s.OtherLoc
	}
	for _, stmt := range s.Other {
		c.compileStmt(stmt)
	}

	target := c.nextPos()
	for _, j := range endJumps {
		c.patch(j, OpGoto, target)
	}
	return nil
}

func (c *compiler) VisitNumber(e ast.Number) any {
	c.emit(Instruction{Op: OpLoadInt, Int: e.Value})
	return nil
}

func (c *compiler) VisitString(e ast.String) any {
	c.emit(Instruction{Op: OpLoadStr, Sym: e.Sym})
	return nil
}

func (c *compiler) VisitVariable(e ast.Variable) any {
	c.emit(Instruction{Op: OpLoadVar, Sym: e.Sym})
	return nil
}

func (c *compiler) VisitBuiltinFunc(e ast.BuiltinFunc) any {
	for _, arg := range e.Args {
		c.compileExpr(arg)
	}
	c.emit(Instruction{Op: OpCallBuiltin, Sym: e.Name})
	return nil
}

func (c *compiler) VisitUnary(e ast.Unary) any {
	c.compileExpr(e.V)
	c.emit(Instruction{Op: OpUnaryOperator, UnOp: e.Op})
	return nil
}

func (c *compiler) VisitBinary(e ast.Binary) any {
	c.compileExpr(e.Lhs)
	c.compileExpr(e.Rhs)
	c.emit(Instruction{Op: OpBinaryOperator, BinOp: e.Op})
	return nil
}

func (c *compiler) VisitTernary(e ast.Ternary) any {
	c.compileExpr(e.Lhs)
	c.compileExpr(e.Mhs)
	c.compileExpr(e.Rhs)
	c.emit(Instruction{Op: OpTernaryOperator, TernOp: e.Op})
	return nil
}

// VisitParen lowers identically to its inner expression; Paren exists only
// so the formatter can recover explicit grouping.
func (c *compiler) VisitParen(e ast.Paren) any {
	c.compileExpr(e.V)
	return nil
}
