// Package format implements the canonical source reprinter: 4-space
// indent, a blank line before block statements, and comments reattached in
// source order to the statement whose Location immediately follows them.
package format

import (
	"bytes"
	"fmt"
	"io"

	"github.com/riey/kes/ast"
	"github.com/riey/kes/interner"
	"github.com/riey/kes/lexer"
	"github.com/riey/kes/parser"
)

const indentUnit = "    "

// indentWriter tracks whether the current output line has had its indent
// written yet, resetting on every newline it sees pass through.
type indentWriter struct {
	out        io.Writer
	indentDone bool
	blockDepth int
}

func newIndentWriter(out io.Writer) *indentWriter {
	return &indentWriter{out: out}
}

func (w *indentWriter) pushBlock() { w.blockDepth++ }
func (w *indentWriter) popBlock()  { w.blockDepth-- }

func (w *indentWriter) Write(p []byte) (int, error) {
	if !w.indentDone {
		for i := 0; i < w.blockDepth; i++ {
			if _, err := io.WriteString(w.out, indentUnit); err != nil {
				return 0, err
			}
		}
		w.indentDone = true
	}
	if bytes.ContainsRune(p, '\n') {
		w.indentDone = false
	}
	return w.out.Write(p)
}

func (w *indentWriter) writeString(s string) error {
	_, err := w.Write([]byte(s))
	return err
}

// exprString renders e in canonical surface form. Paren is printed with
// explicit parentheses so grouping the source wrote is never lost.
func exprString(in *interner.Interner, e ast.Expr) string {
	switch v := e.(type) {
	case ast.Number:
		return fmt.Sprintf("%d", v.Value)
	case ast.String:
		return fmt.Sprintf("'%s'", resolve(in, v.Sym))
	case ast.Variable:
		return fmt.Sprintf("$%s", resolve(in, v.Sym))
	case ast.BuiltinFunc:
		s := resolve(in, v.Name) + "("
		for i, arg := range v.Args {
			if i > 0 {
				s += ", "
			}
			s += exprString(in, arg)
		}
		return s + ")"
	case ast.Unary:
		return v.Op.String() + exprString(in, v.V)
	case ast.Binary:
		return fmt.Sprintf("%s %s %s", exprString(in, v.Lhs), v.Op.String(), exprString(in, v.Rhs))
	case ast.Ternary:
		return fmt.Sprintf("%s ? %s : %s", exprString(in, v.Lhs), exprString(in, v.Mhs), exprString(in, v.Rhs))
	case ast.Paren:
		return "(" + exprString(in, v.V) + ")"
	default:
		panic(fmt.Sprintf("format: unhandled expression type %T", e))
	}
}

func resolve(in *interner.Interner, sym interner.Symbol) string {
	s, _ := in.Resolve(sym)
	return s
}

// printer writes statements and decides which statement each comment
// reattaches to: every comment at or before a statement's
// Location is emitted right before that statement.
type printer struct {
	w        *indentWriter
	in       *interner.Interner
	comments []lexer.Comment
	nextIdx  int
	lastLoc  int
}

func newPrinter(out io.Writer, in *interner.Interner, comments []lexer.Comment) *printer {
	return &printer{w: newIndentWriter(out), in: in, comments: comments}
}

// writeCommentsUpTo emits every unconsumed comment whose Line is strictly
// before upTo.
func (p *printer) writeCommentsUpTo(upTo int) {
	for p.nextIdx < len(p.comments) && p.comments[p.nextIdx].Line < upTo {
		fmt.Fprintf(p.w, "#%s\n", p.comments[p.nextIdx].Text)
		p.nextIdx++
	}
	if upTo > p.lastLoc {
		p.lastLoc = upTo
	}
}

func (p *printer) writeRemainingComments() {
	for p.nextIdx < len(p.comments) {
		fmt.Fprintf(p.w, "#%s\n", p.comments[p.nextIdx].Text)
		p.nextIdx++
	}
}

func isBlockStmt(s ast.Stmt) bool {
	switch s.(type) {
	case ast.If, ast.While:
		return true
	default:
		return false
	}
}

const sentinelLoc = 1 << 30

func (p *printer) writeProgram(stmts []ast.Stmt) {
	for i, s := range stmts {
		upTo := sentinelLoc
		if i+1 < len(stmts) {
			upTo = stmts[i+1].Location()
		}
		p.writeStmt(s, upTo)
	}
	p.writeRemainingComments()
}

// writeBlock prints stmts as a brace-delimited block. upTo bounds how far
// trailing comments (between the last body statement and the closing
// brace) are allowed to drain — the Location of whatever follows the block
// in the enclosing statement (the next arm, "그외", or the statement after
// the whole If/While).
func (p *printer) writeBlock(stmts []ast.Stmt, upTo int) {
	p.w.writeString("{\n")
	p.w.pushBlock()
	for i, s := range stmts {
		innerUpTo := upTo
		if i+1 < len(stmts) {
			innerUpTo = stmts[i+1].Location()
		}
		p.writeStmt(s, innerUpTo)
	}
	p.writeCommentsUpTo(upTo)
	p.w.popBlock()
	p.w.writeString("}")
}

// writeStmt prints s. upTo is the Location of whatever statement follows s
// in its enclosing list (or sentinelLoc if s is last); it bounds comment
// draining so a block statement's trailing comments land before its own
// closing brace rather than leaking into the next statement.
func (p *printer) writeStmt(s ast.Stmt, upTo int) {
	if isBlockStmt(s) {
		p.w.writeString("\n")
	}
	p.writeCommentsUpTo(s.Location())

	switch v := s.(type) {
	case ast.Assign:
		fmt.Fprintf(p.w, "$%s = %s;\n", resolve(p.in, v.Var), exprString(p.in, v.Value))
	case ast.Exit:
		p.w.writeString("종료;\n")
	case ast.Print:
		prefix := "@@"
		if v.Wait {
			prefix = "@!"
		} else if v.Newline {
			prefix = "@"
		}
		p.w.writeString(prefix)
		for i, val := range v.Values {
			if i > 0 {
				p.w.writeString(" ")
			}
			p.w.writeString(exprString(p.in, val))
		}
		p.w.writeString(";\n")
	case ast.Expression:
		fmt.Fprintf(p.w, "%s;\n", exprString(p.in, v.V))
	case ast.While:
		fmt.Fprintf(p.w, "반복 %s ", exprString(p.in, v.Cond))
		p.writeBlock(v.Body, upTo)
		p.w.writeString("\n\n")
	case ast.If:
		for i, arm := range v.Arms {
			if i == 0 {
				fmt.Fprintf(p.w, "만약 %s ", exprString(p.in, arm.Cond))
			} else {
				p.w.writeString("혹은 " + exprString(p.in, arm.Cond) + " ")
			}
			blockUpTo := upTo
			switch {
			case i+1 < len(v.Arms):
				blockUpTo = v.Arms[i+1].Loc
			case len(v.Other) > 0:
				blockUpTo = v.OtherLoc
			}
			p.writeBlock(arm.Body, blockUpTo)
			if i != len(v.Arms)-1 || len(v.Other) > 0 {
				p.w.writeString(" ")
			}
		}
		if len(v.Other) > 0 {
			p.w.writeString("그외 ")
			p.writeBlock(v.Other, upTo)
		}
		p.w.writeString("\n\n")
	default:
		panic(fmt.Sprintf("format: unhandled statement type %T", s))
	}
}

// Source returns the canonical reprint of src. Comments are preserved in
// source order, each reattached to the first statement at or after its
// own line.
func Source(src string) (string, error) {
	in := interner.New()
	stmts, comments, err := parser.ParseKeepingComments(src, in)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	p := newPrinter(&buf, in, comments)
	p.writeProgram(stmts)
	return buf.String(), nil
}
