// Package parser implements a recursive descent parser over the kes token
// stream, producing a slice of ast.Stmt.
//
// https://en.wikipedia.org/wiki/Recursive_descent_parser
package parser

import (
	"github.com/riey/kes/ast"
	"github.com/riey/kes/interner"
	"github.com/riey/kes/lexer"
	"github.com/riey/kes/token"
)

type Parser struct {
	tokens   []token.Token
	position int
}

// Make builds a Parser over an already-scanned token stream.
func Make(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse scans src with the shared interner and parses the resulting token
// stream into statements. Comments are discarded; use ParseKeepingComments
// for the formatter's path.
func Parse(src string, in *interner.Interner) ([]ast.Stmt, error) {
	l := lexer.New(src, in, lexer.DiscardComments)
	tokens, err := l.Scan()
	if err != nil {
		return nil, wrapLexError(err)
	}
	return Make(tokens).Parse()
}

// ParseKeepingComments is like Parse but also returns the comments the
// lexer collected, for the formatter to reattach.
func ParseKeepingComments(src string, in *interner.Interner) ([]ast.Stmt, []lexer.Comment, error) {
	l := lexer.New(src, in, lexer.CollectComments)
	tokens, err := l.Scan()
	if err != nil {
		return nil, nil, wrapLexError(err)
	}
	stmts, err := Make(tokens).Parse()
	return stmts, l.Comments(), err
}

func wrapLexError(err error) error {
	return &Error{Kind: LexError, Cause: err}
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.position]
}

func (p *Parser) peekAt(offset int) token.Token {
	i := p.position + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.position-1]
}

func (p *Parser) atEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) advance() token.Token {
	if !p.atEnd() {
		p.position++
	}
	return p.previous()
}

func (p *Parser) check(kind token.Kind) bool {
	return !p.atEnd() && p.peek().Kind == kind
}

func (p *Parser) checkNext(kind token.Kind) bool {
	return p.peekAt(1).Kind == kind
}

func (p *Parser) match(kind token.Kind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) consume(kind token.Kind, msg string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	if p.atEnd() {
		return token.Token{}, &Error{Kind: UnexpectedEndOfToken, Line: p.peek().Line}
	}
	return token.Token{}, &Error{Kind: UnexpectedToken, Got: p.peek(), Line: p.peek().Line, Msg: msg}
}

// Parse parses the full token stream into statements, stopping at the
// first error. kes has no statement-level error recovery: a malformed
// program never partially compiles.
func (p *Parser) Parse() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for !p.atEnd() {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *Parser) statement() (ast.Stmt, error) {
	switch {
	case p.check(token.Exit):
		return p.exitStatement()
	case p.check(token.If):
		return p.ifStatement()
	case p.check(token.While):
		return p.whileStatement()
	case p.check(token.PrintLine), p.check(token.Print), p.check(token.PrintWait):
		return p.printStatement()
	case p.check(token.Variable) && p.checkNext(token.Assign):
		return p.assignStatement()
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) exitStatement() (ast.Stmt, error) {
	tok := p.advance()
	if _, err := p.consume(token.SemiColon, "종료 뒤에는 ';'가 와야 합니다"); err != nil {
		return nil, err
	}
	return ast.Exit{Loc: tok.Line}, nil
}

func (p *Parser) assignStatement() (ast.Stmt, error) {
	name := p.advance()
	if _, err := p.consume(token.Assign, "변수 이름 뒤에는 '='가 와야 합니다"); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SemiColon, "대입문 뒤에는 ';'가 와야 합니다"); err != nil {
		return nil, err
	}
	return ast.Assign{Var: name.Sym, Value: value, Loc: name.Line}, nil
}

func (p *Parser) printStatement() (ast.Stmt, error) {
	marker := p.advance()
	var values []ast.Expr
	for !p.check(token.SemiColon) && !p.atEnd() {
		v, err := p.expression()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if _, err := p.consume(token.SemiColon, "출력문 뒤에는 ';'가 와야 합니다"); err != nil {
		return nil, err
	}
	return ast.Print{
		Values:  values,
		Newline: marker.Kind == token.PrintLine || marker.Kind == token.PrintWait,
		Wait:    marker.Kind == token.PrintWait,
		Loc:     marker.Line,
	}, nil
}

func (p *Parser) ifStatement() (ast.Stmt, error) {
	tok := p.advance()
	firstArm, err := p.ifArm(tok.Line)
	if err != nil {
		return nil, err
	}
	arms := []ast.IfArm{firstArm}

	for p.check(token.ElseIf) {
		elseIfTok := p.advance()
		arm, err := p.ifArm(elseIfTok.Line)
		if err != nil {
			return nil, err
		}
		arms = append(arms, arm)
	}

	var other []ast.Stmt
	otherLoc := 0
	if p.check(token.Else) {
		elseTok := p.advance()
		otherLoc = elseTok.Line
		if _, err := p.consume(token.LBrace, "그외 뒤에는 '{'가 와야 합니다"); err != nil {
			return nil, err
		}
		other, err = p.block()
		if err != nil {
			return nil, err
		}
	}

	return ast.If{Arms: arms, Other: other, OtherLoc: otherLoc, Loc: tok.Line}, nil
}

func (p *Parser) ifArm(loc int) (ast.IfArm, error) {
	cond, err := p.expression()
	if err != nil {
		return ast.IfArm{}, err
	}
	if _, err := p.consume(token.LBrace, "조건식 뒤에는 '{'가 와야 합니다"); err != nil {
		return ast.IfArm{}, err
	}
	body, err := p.block()
	if err != nil {
		return ast.IfArm{}, err
	}
	return ast.IfArm{Cond: cond, Body: body, Loc: loc}, nil
}

func (p *Parser) whileStatement() (ast.Stmt, error) {
	tok := p.advance()
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LBrace, "반복 조건 뒤에는 '{'가 와야 합니다"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.While{Cond: cond, Body: body, Loc: tok.Line}, nil
}

func (p *Parser) expressionStatement() (ast.Stmt, error) {
	loc := p.peek().Line
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SemiColon, "식 뒤에는 ';'가 와야 합니다"); err != nil {
		return nil, err
	}
	return ast.Expression{V: expr, Loc: loc}, nil
}

// block consumes statements up to and including the closing '}'. The
// opening '{' is consumed by the caller so that the block's leading brace
// stays paired with the construct that introduced it (if-arm, else, while).
func (p *Parser) block() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for !p.check(token.RBrace) && !p.atEnd() {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.consume(token.RBrace, "블록은 '}'로 닫혀야 합니다"); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) expression() (ast.Expr, error) {
	return p.ternary()
}

func (p *Parser) ternary() (ast.Expr, error) {
	cond, err := p.or()
	if err != nil {
		return nil, err
	}
	if !p.match(token.Question) {
		return cond, nil
	}
	mhs, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Colon, "'?' 뒤에는 ':'가 와야 합니다"); err != nil {
		return nil, err
	}
	rhs, err := p.ternary()
	if err != nil {
		return nil, err
	}
	return ast.Ternary{Lhs: cond, Mhs: mhs, Rhs: rhs, Op: ast.Conditional}, nil
}

func (p *Parser) or() (ast.Expr, error) {
	expr, err := p.andXor()
	if err != nil {
		return nil, err
	}
	for p.match(token.Or) {
		right, err := p.andXor()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Lhs: expr, Op: ast.Or, Rhs: right}
	}
	return expr, nil
}

func (p *Parser) andXor() (ast.Expr, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.check(token.And) || p.check(token.Xor) {
		opTok := p.advance()
		op := ast.And
		if opTok.Kind == token.Xor {
			op = ast.Xor
		}
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Lhs: expr, Op: op, Rhs: right}
	}
	return expr, nil
}

func (p *Parser) equality() (ast.Expr, error) {
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.check(token.Equal) || p.check(token.NotEqual) {
		opTok := p.advance()
		op := ast.Equal
		if opTok.Kind == token.NotEqual {
			op = ast.NotEqual
		}
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Lhs: expr, Op: op, Rhs: right}
	}
	return expr, nil
}

var comparisonOps = map[token.Kind]ast.BinaryOp{
	token.Less:         ast.Less,
	token.LessEqual:    ast.LessOrEqual,
	token.Greater:      ast.Greater,
	token.GreaterEqual: ast.GreaterOrEqual,
}

func (p *Parser) comparison() (ast.Expr, error) {
	expr, err := p.additive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := comparisonOps[p.peek().Kind]
		if !ok {
			break
		}
		p.advance()
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Lhs: expr, Op: op, Rhs: right}
	}
	return expr, nil
}

func (p *Parser) additive() (ast.Expr, error) {
	expr, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.check(token.Add) || p.check(token.Sub) {
		opTok := p.advance()
		op := ast.Add
		if opTok.Kind == token.Sub {
			op = ast.Sub
		}
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Lhs: expr, Op: op, Rhs: right}
	}
	return expr, nil
}

var multiplicativeOps = map[token.Kind]ast.BinaryOp{
	token.Mul: ast.Mul,
	token.Div: ast.Div,
	token.Rem: ast.Rem,
}

func (p *Parser) multiplicative() (ast.Expr, error) {
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := multiplicativeOps[p.peek().Kind]
		if !ok {
			break
		}
		p.advance()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Lhs: expr, Op: op, Rhs: right}
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expr, error) {
	if p.match(token.Bang) {
		v, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.Unary{Op: ast.Not, V: v}, nil
	}
	return p.primary()
}

func (p *Parser) primary() (ast.Expr, error) {
	switch {
	case p.check(token.IntLit):
		tok := p.advance()
		return ast.Number{Value: tok.Int}, nil
	case p.check(token.StrLit):
		tok := p.advance()
		return ast.String{Sym: tok.Sym}, nil
	case p.check(token.Variable):
		tok := p.advance()
		return ast.Variable{Sym: tok.Sym}, nil
	case p.check(token.Builtin):
		return p.builtinCall()
	case p.check(token.LParen):
		p.advance()
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RParen, "식은 ')'로 닫혀야 합니다"); err != nil {
			return nil, err
		}
		return ast.Paren{V: expr}, nil
	case p.atEnd():
		return nil, &Error{Kind: UnexpectedEndOfToken, Line: p.peek().Line}
	default:
		return nil, &Error{Kind: UnexpectedToken, Got: p.peek(), Line: p.peek().Line, Msg: "알 수 없는 식입니다"}
	}
}

func (p *Parser) builtinCall() (ast.Expr, error) {
	name := p.advance()
	if _, err := p.consume(token.LParen, "함수 이름 뒤에는 '('가 와야 합니다"); err != nil {
		return nil, err
	}
	var args []ast.Expr
	for !p.check(token.RParen) {
		arg, err := p.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.match(token.Comma) {
			break
		}
	}
	if _, err := p.consume(token.RParen, "인자 목록은 ')'로 닫혀야 합니다"); err != nil {
		return nil, err
	}
	return ast.BuiltinFunc{Name: name.Sym, Args: args}, nil
}
