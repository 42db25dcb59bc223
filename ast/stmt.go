package ast

import "github.com/riey/kes/interner"

// StmtVisitor operates on every Stmt variant.
type StmtVisitor interface {
	VisitAssign(s Assign) any
	VisitPrint(s Print) any
	VisitIf(s If) any
	VisitWhile(s While) any
	VisitExpression(s Expression) any
	VisitExit(s Exit) any
}

// Stmt is any statement node. Every variant carries the source Location of
// its leading token, which the compiler copies onto every instruction it
// emits for that statement.
type Stmt interface {
	Accept(v StmtVisitor) any
	Location() int
}

// Assign stores the value of an expression into a variable.
type Assign struct {
	Var   interner.Symbol
	Value Expr
	Loc   int
}

func (s Assign) Accept(v StmtVisitor) any { return v.VisitAssign(s) }
func (s Assign) Location() int            { return s.Loc }

// Print evaluates Values left to right and hands them to the builtin's
// print sink. Newline requests a trailing new_line(); Wait additionally
// suspends for host input after the newline.
type Print struct {
	Values  []Expr
	Newline bool
	Wait    bool
	Loc     int
}

func (s Print) Accept(v StmtVisitor) any { return v.VisitPrint(s) }
func (s Print) Location() int            { return s.Loc }

// IfArm is one `만약`/`혹은` arm: a condition, its body, and the Location of
// the arm's leading keyword (tracked so the formatter can reattach
// comments precisely).
type IfArm struct {
	Cond Expr
	Body []Stmt
	Loc  int
}

// If is a chain of conditional arms followed by an optional `그외` body.
// OtherLoc is meaningful only when Other is non-nil; it is the Location of
// the `그외` keyword, kept for formatting.
type If struct {
	Arms     []IfArm
	Other    []Stmt
	OtherLoc int
	Loc      int
}

func (s If) Accept(v StmtVisitor) any { return v.VisitIf(s) }
func (s If) Location() int            { return s.Loc }

// While repeats Body while Cond is truthy, testing before each iteration.
type While struct {
	Cond Expr
	Body []Stmt
	Loc  int
}

func (s While) Accept(v StmtVisitor) any { return v.VisitWhile(s) }
func (s While) Location() int            { return s.Loc }

// Expression evaluates V for its side effects and discards the result.
type Expression struct {
	V   Expr
	Loc int
}

func (s Expression) Accept(v StmtVisitor) any { return v.VisitExpression(s) }
func (s Expression) Location() int            { return s.Loc }

// Exit terminates the program immediately.
type Exit struct {
	Loc int
}

func (s Exit) Accept(v StmtVisitor) any { return v.VisitExit(s) }
func (s Exit) Location() int            { return s.Loc }
