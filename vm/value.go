// Package vm implements the stack-based Context that executes a compiled
// Program against a host-supplied Builtin.
package vm

import (
	"strconv"
	"strings"

	"github.com/riey/kes/ast"
)

// Kind tags a Value's variant.
type Kind int

const (
	IntKind Kind = iota
	StrKind
)

// Value is the runtime tagged union: a 32-bit unsigned int or an owned
// string. Arithmetic on Int wraps (Go's native unsigned overflow behavior),
// which is the deterministic choice spec.md §9 leaves to implementer
// discretion.
type Value struct {
	Kind Kind
	Int  uint32
	Str  string
}

// Int constructs an integer Value.
func Int(n uint32) Value { return Value{Kind: IntKind, Int: n} }

// Str constructs a string Value.
func Str(s string) Value { return Value{Kind: StrKind, Str: s} }

// Truthy implements the language's truthiness rule: Int(0) and Str("") are
// false, everything else is true.
func (v Value) Truthy() bool {
	if v.Kind == IntKind {
		return v.Int != 0
	}
	return v.Str != ""
}

// TypeName names v's variant for TypeError messages.
func (v Value) TypeName() string {
	if v.Kind == IntKind {
		return "int"
	}
	return "str"
}

func (v Value) String() string {
	if v.Kind == IntKind {
		return strconv.FormatUint(uint64(v.Int), 10)
	}
	return v.Str
}

func boolToInt(b bool) Value {
	if b {
		return Int(1)
	}
	return Int(0)
}

func valuesEqual(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == IntKind {
		return a.Int == b.Int
	}
	return a.Str == b.Str
}

// compareValues implements the fixed deterministic total order spec.md §9
// asks for: every Int precedes every Str. Cross-type comparison is
// unreachable in well-typed programs, but the source permits it, so this
// must never panic.
func compareValues(a, b Value) int {
	if a.Kind != b.Kind {
		if a.Kind == IntKind {
			return -1
		}
		return 1
	}
	if a.Kind == IntKind {
		switch {
		case a.Int < b.Int:
			return -1
		case a.Int > b.Int:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a.Str, b.Str)
}

// binaryOp implements spec.md §4.4.2. Add is overloaded across both
// variants; every other arithmetic op requires Int on both sides.
func binaryOp(op ast.BinaryOp, lhs, rhs Value, line int) (Value, error) {
	switch op {
	case ast.Add:
		switch {
		case lhs.Kind == IntKind && rhs.Kind == IntKind:
			return Int(lhs.Int + rhs.Int), nil
		case lhs.Kind == IntKind && rhs.Kind == StrKind:
			return Str(lhs.String() + rhs.Str), nil
		case lhs.Kind == StrKind && rhs.Kind == IntKind:
			return Str(lhs.Str + rhs.String()), nil
		default:
			return Str(lhs.Str + rhs.Str), nil
		}
	case ast.Sub, ast.Mul, ast.Div, ast.Rem:
		if lhs.Kind != IntKind {
			return Value{}, &TypeError{Type: lhs.TypeName(), Line: line}
		}
		if rhs.Kind != IntKind {
			return Value{}, &TypeError{Type: rhs.TypeName(), Line: line}
		}
		switch op {
		case ast.Sub:
			return Int(lhs.Int - rhs.Int), nil
		case ast.Mul:
			return Int(lhs.Int * rhs.Int), nil
		case ast.Div:
			if rhs.Int == 0 {
				return Value{}, &ExecutionError{Msg: "0으로 나눌 수 없습니다", Line: line}
			}
			return Int(lhs.Int / rhs.Int), nil
		default: // ast.Rem
			if rhs.Int == 0 {
				return Value{}, &ExecutionError{Msg: "0으로 나눌 수 없습니다", Line: line}
			}
			return Int(lhs.Int % rhs.Int), nil
		}
	case ast.And:
		return boolToInt(lhs.Truthy() && rhs.Truthy()), nil
	case ast.Or:
		return boolToInt(lhs.Truthy() || rhs.Truthy()), nil
	case ast.Xor:
		return boolToInt(lhs.Truthy() != rhs.Truthy()), nil
	case ast.Equal:
		return boolToInt(valuesEqual(lhs, rhs)), nil
	case ast.NotEqual:
		return boolToInt(!valuesEqual(lhs, rhs)), nil
	case ast.Less:
		return boolToInt(compareValues(lhs, rhs) < 0), nil
	case ast.LessOrEqual:
		return boolToInt(compareValues(lhs, rhs) <= 0), nil
	case ast.Greater:
		return boolToInt(compareValues(lhs, rhs) > 0), nil
	default: // ast.GreaterOrEqual
		return boolToInt(compareValues(lhs, rhs) >= 0), nil
	}
}

// unaryOp implements the language's single unary operator: boolean negation
// on the truthiness projection of v.
func unaryOp(op ast.UnaryOp, v Value) Value {
	return boolToInt(!v.Truthy())
}
