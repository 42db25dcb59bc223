package vm

import (
	"context"
	"strings"
)

// RecordingBuiltin is a test double that records every observable effect
// into a single buffer: print output verbatim, '@' for a newline, '#' for a
// wait, and the builtin name for a CallBuiltin. It always resolves calls to
// Int(0) and never errors, matching the test double used throughout the
// original source's own compiler/VM tests.
type RecordingBuiltin struct {
	buf strings.Builder
}

func (r *RecordingBuiltin) Run(ctx context.Context, name string, c *Context) (Value, error) {
	r.buf.WriteString(name)
	return Int(0), nil
}

func (r *RecordingBuiltin) Print(v Value) {
	r.buf.WriteString(v.String())
}

func (r *RecordingBuiltin) NewLine() {
	r.buf.WriteByte('@')
}

func (r *RecordingBuiltin) Wait(ctx context.Context) error {
	r.buf.WriteByte('#')
	return nil
}

// String returns everything recorded so far.
func (r *RecordingBuiltin) String() string {
	return r.buf.String()
}
