package cpu

import (
	"encoding/binary"
	"fmt"
)

// Instruction is one of LoadConst, ReadMem, WriteMem or BinOpLE.
type Instruction interface {
	// Opcode returns the instruction's opcode.
	Opcode() Opcode
	// Operands returns the operand values, in layout order.
	Operands() []uint64
	// Append appends the binary encoding of the instruction to b.
	Append(b []byte) []byte
	// MarshalBinary returns the binary encoding of the instruction.
	MarshalBinary() ([]byte, error)
	// String returns the assembler text of the instruction.
	String() string

	instruction()
}

// LoadConst sets a register to an immediate value.
type LoadConst struct {
	Dst   uint8
	Value uint16
}

// ReadMem loads a register from an absolute memory address.
type ReadMem struct {
	Dst     uint8
	Address uint16
}

// WriteMem stores a register at a register-relative memory address.
type WriteMem struct {
	Base   uint8
	Src    uint8
	Offset uint8
}

// BinOpLE stores the result of a less-or-equal comparison to the memory
// address held in register Dst.
type BinOpLE struct {
	Dst       uint8
	Lhs       uint8
	RhsBase   uint8
	RhsOffset uint8
}

var (
	_ Instruction = LoadConst{}
	_ Instruction = ReadMem{}
	_ Instruction = WriteMem{}
	_ Instruction = BinOpLE{}
)

func (LoadConst) instruction() {}
func (ReadMem) instruction()   {}
func (WriteMem) instruction()  {}
func (BinOpLE) instruction()   {}

func (LoadConst) Opcode() Opcode { return OP_LOAD_CONST }
func (ReadMem) Opcode() Opcode   { return OP_READ_MEM }
func (WriteMem) Opcode() Opcode  { return OP_WRITE_MEM }
func (BinOpLE) Opcode() Opcode   { return OP_BIN_OP_LE }

func (in LoadConst) Operands() []uint64 {
	return []uint64{uint64(in.Dst), uint64(in.Value)}
}

func (in ReadMem) Operands() []uint64 {
	return []uint64{uint64(in.Dst), uint64(in.Address)}
}

func (in WriteMem) Operands() []uint64 {
	return []uint64{uint64(in.Base), uint64(in.Src), uint64(in.Offset)}
}

func (in BinOpLE) Operands() []uint64 {
	return []uint64{uint64(in.Dst), uint64(in.Lhs), uint64(in.RhsBase), uint64(in.RhsOffset)}
}

func (in LoadConst) Append(b []byte) []byte {
	b = append(b, byte(OP_LOAD_CONST), in.Dst)
	return binary.LittleEndian.AppendUint16(b, in.Value)
}

func (in ReadMem) Append(b []byte) []byte {
	b = append(b, byte(OP_READ_MEM), in.Dst)
	return binary.LittleEndian.AppendUint16(b, in.Address)
}

func (in WriteMem) Append(b []byte) []byte {
	return append(b, byte(OP_WRITE_MEM), in.Base, in.Src, in.Offset)
}

func (in BinOpLE) Append(b []byte) []byte {
	return append(b, byte(OP_BIN_OP_LE), in.Dst, in.Lhs, in.RhsBase, in.RhsOffset)
}

func (in LoadConst) MarshalBinary() ([]byte, error) { return in.Append(nil), nil }
func (in ReadMem) MarshalBinary() ([]byte, error)   { return in.Append(nil), nil }
func (in WriteMem) MarshalBinary() ([]byte, error)  { return in.Append(nil), nil }
func (in BinOpLE) MarshalBinary() ([]byte, error)   { return in.Append(nil), nil }

func (in LoadConst) String() string { return format(in) }
func (in ReadMem) String() string   { return format(in) }
func (in WriteMem) String() string  { return format(in) }
func (in BinOpLE) String() string   { return format(in) }

// format renders an instruction as a line of assembler text.
func format(in Instruction) (text string) {
	text = in.Opcode().String()
	for _, value := range in.Operands() {
		text += fmt.Sprintf(" %d", value)
	}
	return
}

// MakeInstruction builds an instruction from an opcode and raw operand
// values, checking the operand count and each operand's field width.
func MakeInstruction(op Opcode, args ...uint64) (in Instruction, err error) {
	fields, ok := layouts[op]
	if !ok {
		err = ErrOpcode(op)
		return
	}

	if len(args) != len(fields) {
		err = ErrArgs{Opcode: op, Want: len(fields), Got: len(args)}
		return
	}

	for n, fd := range fields {
		if args[n] > fd.Max() {
			err = ErrOperand{Field: fd.Name, Value: args[n], Bits: fd.Bits}
			return
		}
	}

	switch op {
	case OP_LOAD_CONST:
		in = LoadConst{Dst: uint8(args[0]), Value: uint16(args[1])}
	case OP_READ_MEM:
		in = ReadMem{Dst: uint8(args[0]), Address: uint16(args[1])}
	case OP_WRITE_MEM:
		in = WriteMem{Base: uint8(args[0]), Src: uint8(args[1]), Offset: uint8(args[2])}
	case OP_BIN_OP_LE:
		in = BinOpLE{Dst: uint8(args[0]), Lhs: uint8(args[1]), RhsBase: uint8(args[2]), RhsOffset: uint8(args[3])}
	default:
		err = ErrOpcode(op)
	}

	return
}

// Decode decodes the instruction starting at data[offset], returning the
// instruction and the number of bytes it occupies.
func Decode(data []byte, offset int) (in Instruction, width int, err error) {
	if offset < 0 || offset >= len(data) {
		err = ErrAddress{Space: "stream", Index: uint64(offset), Size: len(data)}
		return
	}

	op := Opcode(data[offset])
	if !op.Valid() {
		err = ErrOpcode(op)
		return
	}

	width = op.Width()
	code := data[offset:]
	if len(code) < width {
		err = ErrShort{Opcode: op, Need: width, Have: len(code)}
		width = 0
		return
	}

	switch op {
	case OP_LOAD_CONST:
		in = LoadConst{Dst: code[1], Value: binary.LittleEndian.Uint16(code[2:4])}
	case OP_READ_MEM:
		in = ReadMem{Dst: code[1], Address: binary.LittleEndian.Uint16(code[2:4])}
	case OP_WRITE_MEM:
		in = WriteMem{Base: code[1], Src: code[2], Offset: code[3]}
	case OP_BIN_OP_LE:
		in = BinOpLE{Dst: code[1], Lhs: code[2], RhsBase: code[3], RhsOffset: code[4]}
	default:
		err = ErrOpcode(op)
		width = 0
	}

	return
}
