// Package ast defines the tagged tree of statements and expressions the
// parser produces and the compiler lowers to bytecode. Node types follow
// the visitor pattern: each implements Accept, dispatching to the matching
// method on whatever Visitor is walking the tree (the compiler, or the
// formatter).
package ast

import "github.com/riey/kes/interner"

// ExprVisitor operates on every Expr variant. The compiler and formatter
// each implement this to walk expressions without the node types knowing
// anything about compilation or printing.
type ExprVisitor interface {
	VisitNumber(e Number) any
	VisitString(e String) any
	VisitVariable(e Variable) any
	VisitBuiltinFunc(e BuiltinFunc) any
	VisitUnary(e Unary) any
	VisitBinary(e Binary) any
	VisitTernary(e Ternary) any
	VisitParen(e Paren) any
}

// Expr is any expression node; evaluating one always produces exactly one
// VM stack value.
type Expr interface {
	Accept(v ExprVisitor) any
}

// Number is an integer literal.
type Number struct {
	Value uint32
}

func (e Number) Accept(v ExprVisitor) any { return v.VisitNumber(e) }

// String is a string literal, interned at parse time.
type String struct {
	Sym interner.Symbol
}

func (e String) Accept(v ExprVisitor) any { return v.VisitString(e) }

// Variable reads a `$name` binding.
type Variable struct {
	Sym interner.Symbol
}

func (e Variable) Accept(v ExprVisitor) any { return v.VisitVariable(e) }

// BuiltinFunc calls a host builtin by name with the given arguments,
// evaluated left to right.
type BuiltinFunc struct {
	Name interner.Symbol
	Args []Expr
}

func (e BuiltinFunc) Accept(v ExprVisitor) any { return v.VisitBuiltinFunc(e) }

// Unary applies a UnaryOp to a single operand.
type Unary struct {
	Op UnaryOp
	V  Expr
}

func (e Unary) Accept(v ExprVisitor) any { return v.VisitUnary(e) }

// Binary applies a BinaryOp to two operands.
type Binary struct {
	Lhs Expr
	Op  BinaryOp
	Rhs Expr
}

func (e Binary) Accept(v ExprVisitor) any { return v.VisitBinary(e) }

// Ternary applies a TernaryOp to three operands: `Lhs ? Mhs : Rhs`.
type Ternary struct {
	Lhs Expr
	Mhs Expr
	Rhs Expr
	Op  TernaryOp
}

func (e Ternary) Accept(v ExprVisitor) any { return v.VisitTernary(e) }

// Paren wraps an expression that was explicitly parenthesized in source.
// It lowers identically to its inner expression; its only purpose is
// letting the formatter recover grouping that operator precedence alone
// would otherwise swallow.
type Paren struct {
	V Expr
}

func (e Paren) Accept(v ExprVisitor) any { return v.VisitParen(e) }
