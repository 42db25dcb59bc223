package parser

import (
	"fmt"

	"github.com/riey/kes/token"
)

// ErrorKind classifies a parse-time failure. LexError wraps a failure
// from the lexer; the rest are grammar failures the parser itself raises.
type ErrorKind int

const (
	LexError ErrorKind = iota
	UnexpectedToken
	UnexpectedEndOfToken
)

// Error is the parser's single error type: a lexical error or a grammar
// error, always carrying the offending token (or underlying cause) and its
// source line.
type Error struct {
	Kind  ErrorKind
	Got   token.Token
	Line  int
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case LexError:
		return fmt.Sprintf("💥 구문 분석 오류: %s", e.Cause)
	case UnexpectedEndOfToken:
		return fmt.Sprintf("💥 구문 분석 오류: 예기치 않은 입력의 끝 (줄 %d)", e.Line)
	default:
		return fmt.Sprintf("💥 구문 분석 오류: 예상치 못한 토큰 %s (줄 %d) - %s", e.Got.Kind, e.Line, e.Msg)
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}
