package vm

import "context"

// Builtin is the host surface a Context calls into for everything the
// language itself has no opinion about: named external calls, output, and
// the print-wait suspension point. Run is responsible for popping whatever
// arguments it needs directly off c's stack — CallBuiltin carries only the
// builtin's name, not an arity, so the argument count is a property of the
// builtin, not of the instruction.
type Builtin interface {
	// Run executes the builtin named name. Any arguments it expects were
	// pushed by the caller in left-to-right order immediately before the
	// call and sit on top of c's stack; Run must pop exactly as many as it
	// consumes and return exactly one result Value, which the Context
	// pushes.
	Run(ctx context.Context, name string, c *Context) (Value, error)

	// Print renders v as program output. Called for every Print instruction
	// operand, in order, before any newline/wait marker.
	Print(v Value)

	// NewLine terminates the current output line.
	NewLine()

	// Wait suspends execution until the host resumes it, implementing `@!`.
	// Run reports Context.State as AwaitingPrintWait for the duration of
	// this call.
	Wait(ctx context.Context) error
}
