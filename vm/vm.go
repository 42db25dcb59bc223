package vm

import (
	"context"

	"github.com/riey/kes/compiler"
	"github.com/riey/kes/interner"
)

// State reports what a Context is doing, for host introspection and
// testing. It has no effect on execution itself.
type State int

const (
	Running State = iota
	AwaitingBuiltin
	AwaitingPrintWait
	Halted
	Errored
)

func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case AwaitingBuiltin:
		return "AwaitingBuiltin"
	case AwaitingPrintWait:
		return "AwaitingPrintWait"
	case Halted:
		return "Halted"
	case Errored:
		return "Errored"
	default:
		return "Unknown"
	}
}

// Context is a single execution of a Program: its own stack, variable
// bindings, and cursor. Several Contexts may share one read-only Program.
type Context struct {
	Program   *compiler.Program
	Stack     []Value
	Variables map[interner.Symbol]Value
	Cursor    int
	State     State
}

// NewContext constructs a fresh Context positioned at the start of prog.
func NewContext(prog *compiler.Program) *Context {
	return &Context{
		Program:   prog,
		Stack:     make([]Value, 0, 16),
		Variables: make(map[interner.Symbol]Value),
		State:     Running,
	}
}

// Push appends v to the top of the stack. Exported so a host Builtin can
// push any intermediate values it needs; its result is returned from Run
// and pushed by the Context.
func (c *Context) Push(v Value) {
	c.Stack = append(c.Stack, v)
}

// Pop removes and returns the top of the stack. Exported so a host Builtin
// can pop its own call arguments; line is used only to annotate the error
// if the stack is empty.
func (c *Context) Pop(line int) (Value, error) {
	if len(c.Stack) == 0 {
		return Value{}, errMissingArgument(line)
	}
	top := c.Stack[len(c.Stack)-1]
	c.Stack = c.Stack[:len(c.Stack)-1]
	return top, nil
}

// PopN pops n values and returns them in original (bottom-to-top) order —
// the order arguments were pushed in, i.e. argument 0 first.
func (c *Context) PopN(n int, line int) ([]Value, error) {
	if len(c.Stack) < n {
		return nil, errMissingArgument(line)
	}
	args := make([]Value, n)
	copy(args, c.Stack[len(c.Stack)-n:])
	c.Stack = c.Stack[:len(c.Stack)-n]
	return args, nil
}

// Peek returns the top of the stack without removing it.
func (c *Context) Peek(line int) (Value, error) {
	if len(c.Stack) == 0 {
		return Value{}, errMissingArgument(line)
	}
	return c.Stack[len(c.Stack)-1], nil
}

// Depth reports the current stack size.
func (c *Context) Depth() int { return len(c.Stack) }

func (c *Context) resolveStr(sym interner.Symbol) string {
	s, _ := c.Program.Interner.Resolve(sym)
	return s
}

// Run drives the Context to completion (Halted or Errored) against b,
// dispatching one instruction per iteration. It runs in the caller's own
// goroutine; CallBuiltin and Print{wait} are the only suspension points,
// and both simply block on b's methods rather than yielding control
// explicitly, since Go's goroutines make that unnecessary.
func (c *Context) Run(ctx context.Context, b Builtin) error {
	instructions := c.Program.Instructions
	for c.Cursor < len(instructions) {
		if err := ctx.Err(); err != nil {
			c.State = Errored
			return err
		}

		inst := instructions[c.Cursor]
		next := c.Cursor + 1

		switch inst.Op {
		case compiler.OpNop:
			// no effect.

		case compiler.OpExit:
			c.State = Halted
			c.Cursor = len(instructions)
			return nil

		case compiler.OpPop:
			if _, err := c.Pop(inst.Loc); err != nil {
				c.State = Errored
				return err
			}

		case compiler.OpDuplicate:
			top, err := c.Peek(inst.Loc)
			if err != nil {
				c.State = Errored
				return err
			}
			c.Push(top)

		case compiler.OpLoadInt:
			c.Push(Int(inst.Int))

		case compiler.OpLoadStr:
			c.Push(Str(c.resolveStr(inst.Sym)))

		case compiler.OpLoadVar:
			v, ok := c.Variables[inst.Sym]
			if !ok {
				c.State = Errored
				return errVariableNotFound(inst.Loc)
			}
			c.Push(v)

		case compiler.OpStoreVar:
			v, err := c.Pop(inst.Loc)
			if err != nil {
				c.State = Errored
				return err
			}
			c.Variables[inst.Sym] = v

		case compiler.OpCallBuiltin:
			c.State = AwaitingBuiltin
			name := c.resolveStr(inst.Sym)
			result, err := b.Run(ctx, name, c)
			if err != nil {
				c.State = Errored
				return err
			}
			c.State = Running
			c.Push(result)

		case compiler.OpPrint:
			for _, v := range c.Stack {
				b.Print(v)
			}
			c.Stack = c.Stack[:0]
			if inst.Newline || inst.Wait {
				b.NewLine()
			}
			if inst.Wait {
				c.State = AwaitingPrintWait
				if err := b.Wait(ctx); err != nil {
					c.State = Errored
					return err
				}
				c.State = Running
			}

		case compiler.OpBinaryOperator:
			rhs, err := c.Pop(inst.Loc)
			if err != nil {
				c.State = Errored
				return err
			}
			lhs, err := c.Pop(inst.Loc)
			if err != nil {
				c.State = Errored
				return err
			}
			result, err := binaryOp(inst.BinOp, lhs, rhs, inst.Loc)
			if err != nil {
				c.State = Errored
				return err
			}
			c.Push(result)

		case compiler.OpUnaryOperator:
			v, err := c.Pop(inst.Loc)
			if err != nil {
				c.State = Errored
				return err
			}
			c.Push(unaryOp(inst.UnOp, v))

		case compiler.OpTernaryOperator:
			rhs, err := c.Pop(inst.Loc)
			if err != nil {
				c.State = Errored
				return err
			}
			lhs, err := c.Pop(inst.Loc)
			if err != nil {
				c.State = Errored
				return err
			}
			cond, err := c.Pop(inst.Loc)
			if err != nil {
				c.State = Errored
				return err
			}
			if cond.Truthy() {
				c.Push(lhs)
			} else {
				c.Push(rhs)
			}

		case compiler.OpGoto:
			next = int(inst.Int)

		case compiler.OpGotoIfNot:
			cond, err := c.Pop(inst.Loc)
			if err != nil {
				c.State = Errored
				return err
			}
			if !cond.Truthy() {
				next = int(inst.Int)
			}
		}

		c.Cursor = next
	}

	c.State = Halted
	return nil
}
