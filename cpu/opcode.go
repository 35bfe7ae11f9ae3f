package cpu

import (
	"slices"
)

// Opcode is the leading byte of every encoded instruction.
type Opcode uint8

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_BIN_OP_LE  = Opcode(83)  // BIN_OP_LE
	OP_WRITE_MEM  = Opcode(115) // WRITE_MEM
	OP_LOAD_CONST = Opcode(192) // LOAD_CONST
	OP_READ_MEM   = Opcode(247) // READ_MEM
)

// Opcodes lists every defined opcode, in mnemonic table order.
var Opcodes = []Opcode{
	OP_LOAD_CONST,
	OP_READ_MEM,
	OP_WRITE_MEM,
	OP_BIN_OP_LE,
}

// Field is a single operand slot of an instruction layout.
type Field struct {
	Name string // Name of the operand.
	Bits int    // Width of the operand, 8 or 16.
}

// Max returns the largest value the field can hold.
func (fd Field) Max() uint64 {
	return (uint64(1) << fd.Bits) - 1
}

// layouts are the operand fields following the opcode byte.
var layouts = map[Opcode][]Field{
	OP_LOAD_CONST: {{"dst", 8}, {"value", 16}},
	OP_READ_MEM:   {{"dst", 8}, {"address", 16}},
	OP_WRITE_MEM:  {{"base", 8}, {"src", 8}, {"offset", 8}},
	OP_BIN_OP_LE:  {{"dst", 8}, {"lhs", 8}, {"rhs_base", 8}, {"rhs_offset", 8}},
}

// Valid returns true if the opcode is one of the defined opcodes.
func (op Opcode) Valid() bool {
	_, ok := layouts[op]
	return ok
}

// Fields returns the operand layout of the opcode, or nil if the opcode is
// not defined.
func (op Opcode) Fields() []Field {
	return slices.Clone(layouts[op])
}

// Width returns the encoded size in bytes of an instruction with this opcode,
// including the opcode byte. Undefined opcodes have width 0.
func (op Opcode) Width() (width int) {
	fields, ok := layouts[op]
	if !ok {
		return
	}

	width = 1
	for _, fd := range fields {
		width += fd.Bits / 8
	}

	return
}

// mnemonicMap maps assembler mnemonics to opcodes.
var mnemonicMap = func() map[string]Opcode {
	mnemonics := make(map[string]Opcode, len(Opcodes))
	for _, op := range Opcodes {
		mnemonics[op.String()] = op
	}
	return mnemonics
}()

// Lookup returns the opcode for an assembler mnemonic.
func Lookup(mnemonic string) (op Opcode, err error) {
	op, ok := mnemonicMap[mnemonic]
	if !ok {
		err = ErrMnemonic(mnemonic)
	}

	return
}
