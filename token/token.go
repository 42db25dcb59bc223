// Package token defines the lexical tokens produced by the lexer and
// consumed by the parser: keywords, literals, operators, punctuation, and
// the print markers that make this language's output statements terse.
package token

import (
	"fmt"

	"github.com/riey/kes/interner"
)

// Kind classifies a Token. Literal and identifier tokens carry their
// payload in Token.Int/Token.Sym rather than in the Kind itself.
type Kind int

const (
	// keywords
	If Kind = iota
	ElseIf
	Else
	While
	Exit
	Select // see SPEC_FULL.md §10: recovered from original_source, never parses successfully

	// literals / names
	IntLit
	StrLit
	Builtin
	Variable

	// unary
	Bang

	// binary arithmetic / bitwise-syntax-but-boolean operators
	Add
	Sub
	Mul
	Div
	Rem
	And
	Or
	Xor

	// comparison
	Equal
	NotEqual
	Less
	LessEqual
	Greater
	GreaterEqual

	// ternary
	Question
	Colon

	// punctuation
	LParen
	RParen
	LBrace
	RBrace
	SemiColon
	Comma
	Assign

	// print markers
	PrintLine // @
	Print     // @@
	PrintWait // @!

	EOF
)

var kindNames = map[Kind]string{
	If: "만약", ElseIf: "혹은", Else: "그외", While: "반복", Exit: "종료", Select: "선택",
	IntLit: "IntLit", StrLit: "StrLit", Builtin: "Builtin", Variable: "Variable",
	Bang: "!",
	Add:  "+", Sub: "-", Mul: "*", Div: "/", Rem: "%", And: "&", Or: "|", Xor: "^",
	Equal: "==", NotEqual: "!=", Less: "<", LessEqual: "<=", Greater: ">", GreaterEqual: ">=",
	Question: "?", Colon: ":",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", SemiColon: ";", Comma: ",", Assign: "=",
	PrintLine: "@", Print: "@@", PrintWait: "@!",
	EOF: "EOF",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps the Korean keyword spelling to its Kind. Recognized by
// prefix match before the lexer falls back to treating a run as a builtin
// identifier, unless a letter directly follows the keyword.
var Keywords = map[string]Kind{
	"만약": If,
	"혹은": ElseIf,
	"그외": Else,
	"반복": While,
	"종료": Exit,
	"선택": Select,
}

// Token is a single lexical token together with its source location.
// IntLit/StrLit/Builtin/Variable carry their payload in Int or Sym.
type Token struct {
	Kind Kind
	Line int // 1-based source line; the same number ast nodes and compiler.Instruction carry as Loc
	Int  uint32
	Sym  interner.Symbol
}

// New constructs a Token that carries no literal payload.
func New(kind Kind, line int) Token {
	return Token{Kind: kind, Line: line}
}

// NewInt constructs an IntLit token.
func NewInt(value uint32, line int) Token {
	return Token{Kind: IntLit, Line: line, Int: value}
}

// NewSym constructs a token whose payload is an interned string (StrLit,
// Builtin, or Variable).
func NewSym(kind Kind, sym interner.Symbol, line int) Token {
	return Token{Kind: kind, Line: line, Sym: sym}
}

func (t Token) String() string {
	switch t.Kind {
	case IntLit:
		return fmt.Sprintf("Token{IntLit %d}", t.Int)
	case StrLit, Builtin, Variable:
		return fmt.Sprintf("Token{%s sym=%d}", t.Kind, t.Sym)
	default:
		return fmt.Sprintf("Token{%s}", t.Kind)
	}
}
