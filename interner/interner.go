// Package interner implements the bidirectional string table threaded
// through lexing, parsing, compilation and execution. Every builtin name,
// variable name, and string literal in a compiled Program is interned once
// and referred to everywhere else by its compact Symbol handle.
package interner

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Symbol is an opaque handle into an Interner. Equality is identity: two
// symbols are equal iff they were issued for the same string. The zero
// value is never issued by GetOrIntern and is reserved to mean "no symbol".
type Symbol uint32

// Valid reports whether s was actually issued by an Interner.
func (s Symbol) Valid() bool {
	return s != 0
}

// Interner deduplicates strings into Symbols. The zero value is ready to
// use. Insertion order does not matter; symbols are stable for the life of
// the Interner and never invalidated once issued.
type Interner struct {
	strings []string         // index i holds the string for Symbol(i+1)
	lookup  map[string]Symbol
}

// New returns an empty, ready-to-use Interner.
func New() *Interner {
	return &Interner{lookup: make(map[string]Symbol)}
}

// GetOrIntern returns the Symbol for s, interning it if this is the first
// time s has been seen.
func (in *Interner) GetOrIntern(s string) Symbol {
	if in.lookup == nil {
		in.lookup = make(map[string]Symbol)
	}
	if sym, ok := in.lookup[s]; ok {
		return sym
	}
	in.strings = append(in.strings, s)
	sym := Symbol(len(in.strings))
	in.lookup[s] = sym
	return sym
}

// Get looks up the Symbol for s without interning it. It returns false if s
// has never been interned.
func (in *Interner) Get(s string) (Symbol, bool) {
	sym, ok := in.lookup[s]
	return sym, ok
}

// Resolve returns the string that sym was issued for. It returns false if
// sym was not issued by this Interner.
func (in *Interner) Resolve(sym Symbol) (string, bool) {
	if sym == 0 || int(sym) > len(in.strings) {
		return "", false
	}
	return in.strings[sym-1], true
}

// MustResolve is like Resolve but panics on an unknown symbol. Compiled
// code only ever holds symbols its own Interner issued, so a failure here
// means the Program's interner and instruction stream have gone out of
// sync — a bug, not a runtime condition a caller can recover from.
func (in *Interner) MustResolve(sym Symbol) string {
	s, ok := in.Resolve(sym)
	if !ok {
		panic(fmt.Sprintf("interner: symbol %d has no mapping", sym))
	}
	return s
}

// Len returns the number of distinct strings interned so far.
func (in *Interner) Len() int {
	return len(in.strings)
}

// Encode writes a length-prefixed dump of every interned string, in
// insertion (Symbol) order, so Decode can reconstruct identical Symbol
// values.
func (in *Interner) Encode(w io.Writer) error {
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(in.strings)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	for _, s := range in.strings {
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(s)))
		if _, err := w.Write(lenBuf[:]); err != nil {
			return err
		}
		if _, err := io.WriteString(w, s); err != nil {
			return err
		}
	}
	return nil
}

// Decode reconstructs an Interner previously written by Encode. Symbol
// values are preserved across the round trip.
func Decode(r io.Reader) (*Interner, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("interner: reading count: %w", err)
	}
	count := binary.BigEndian.Uint32(hdr[:])

	in := New()
	for i := uint32(0); i < count; i++ {
		var lenBuf [4]byte
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			return nil, fmt.Errorf("interner: reading string length: %w", err)
		}
		n := binary.BigEndian.Uint32(lenBuf[:])
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("interner: reading string: %w", err)
		}
		in.GetOrIntern(string(buf))
	}
	return in, nil
}
