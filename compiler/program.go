package compiler

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/riey/kes/ast"
	"github.com/riey/kes/interner"
)

// Program is the compiled artifact: an interner plus the flat instruction
// vector the VM executes. It is read-only once constructed; the same
// Program may be handed to several VM Contexts concurrently.
type Program struct {
	Interner     *interner.Interner
	Instructions []Instruction
}

var programMagic = [4]byte{'k', 'e', 's', 1}

// Encode writes p as a compact, deterministic binary: a 4-byte magic/version
// header, the interner dump, the instruction count, then one tagged record
// per instruction. Decode(Encode(p)) reproduces p exactly, including Symbol
// values, which is why the interner is serialized alongside the
// instructions rather than each string being re-interned independently.
func (p *Program) Encode(w io.Writer) error {
	if _, err := w.Write(programMagic[:]); err != nil {
		return err
	}
	if err := p.Interner.Encode(w); err != nil {
		return fmt.Errorf("compiler: encoding interner: %w", err)
	}

	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(p.Instructions)))
	if _, err := w.Write(countBuf[:]); err != nil {
		return err
	}

	for _, inst := range p.Instructions {
		if err := encodeInstruction(w, inst); err != nil {
			return fmt.Errorf("compiler: encoding instruction: %w", err)
		}
	}
	return nil
}

func encodeInstruction(w io.Writer, inst Instruction) error {
	var hdr [5]byte
	hdr[0] = byte(inst.Op)
	binary.BigEndian.PutUint32(hdr[1:], uint32(inst.Loc))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	var u32 [4]byte
	switch inst.Op {
	case OpLoadInt, OpGoto, OpGotoIfNot:
		binary.BigEndian.PutUint32(u32[:], inst.Int)
		_, err := w.Write(u32[:])
		return err
	case OpLoadStr, OpLoadVar, OpStoreVar, OpCallBuiltin:
		binary.BigEndian.PutUint32(u32[:], uint32(inst.Sym))
		_, err := w.Write(u32[:])
		return err
	case OpPrint:
		_, err := w.Write([]byte{boolByte(inst.Newline), boolByte(inst.Wait)})
		return err
	case OpBinaryOperator:
		_, err := w.Write([]byte{byte(inst.BinOp)})
		return err
	case OpUnaryOperator:
		_, err := w.Write([]byte{byte(inst.UnOp)})
		return err
	case OpTernaryOperator:
		_, err := w.Write([]byte{byte(inst.TernOp)})
		return err
	default:
		return nil
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// Decode reconstructs a Program previously written by Encode.
func Decode(r io.Reader) (*Program, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("compiler: reading magic: %w", err)
	}
	if magic != programMagic {
		return nil, fmt.Errorf("compiler: unrecognized program format %v", magic)
	}

	in, err := interner.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("compiler: decoding interner: %w", err)
	}

	var countBuf [4]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return nil, fmt.Errorf("compiler: reading instruction count: %w", err)
	}
	count := binary.BigEndian.Uint32(countBuf[:])

	instructions := make([]Instruction, count)
	for i := range instructions {
		inst, err := decodeInstruction(r)
		if err != nil {
			return nil, fmt.Errorf("compiler: decoding instruction %d: %w", i, err)
		}
		instructions[i] = inst
	}

	return &Program{Interner: in, Instructions: instructions}, nil
}

func decodeInstruction(r io.Reader) (Instruction, error) {
	var hdr [5]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Instruction{}, err
	}
	inst := Instruction{Op: Opcode(hdr[0]), Loc: int(binary.BigEndian.Uint32(hdr[1:]))}

	var u32 [4]byte
	switch inst.Op {
	case OpLoadInt, OpGoto, OpGotoIfNot:
		if _, err := io.ReadFull(r, u32[:]); err != nil {
			return Instruction{}, err
		}
		inst.Int = binary.BigEndian.Uint32(u32[:])
	case OpLoadStr, OpLoadVar, OpStoreVar, OpCallBuiltin:
		if _, err := io.ReadFull(r, u32[:]); err != nil {
			return Instruction{}, err
		}
		inst.Sym = interner.Symbol(binary.BigEndian.Uint32(u32[:]))
	case OpPrint:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return Instruction{}, err
		}
		inst.Newline, inst.Wait = buf[0] != 0, buf[1] != 0
	case OpBinaryOperator:
		var buf [1]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return Instruction{}, err
		}
		inst.BinOp = ast.BinaryOp(buf[0])
	case OpUnaryOperator:
		var buf [1]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return Instruction{}, err
		}
		inst.UnOp = ast.UnaryOp(buf[0])
	case OpTernaryOperator:
		var buf [1]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return Instruction{}, err
		}
		inst.TernOp = ast.TernaryOp(buf[0])
	}
	return inst, nil
}
