package cpu

import (
	"errors"

	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var (
	// Assembler errors
	ErrUnknownMnemonic = errors.New(f("unknown mnemonic"))
	ErrArity           = errors.New(f("operand count"))

	// Instruction errors
	ErrUnknownOpcode   = errors.New(f("unknown opcode"))
	ErrOperandOverflow = errors.New(f("operand overflow"))
	ErrTruncated       = errors.New(f("instruction truncated"))

	// Cpu errors
	ErrOutOfRange = errors.New(f("out of range"))
	ErrHalted     = errors.New(f("halted"))
)

// ErrMnemonic is an unrecognized assembler mnemonic.
type ErrMnemonic string

func (err ErrMnemonic) Error() string {
	return f("unknown mnemonic '%v'", string(err))
}

func (err ErrMnemonic) Is(target error) bool {
	return target == ErrUnknownMnemonic
}

// ErrArgs is an operand count mismatch for an opcode.
type ErrArgs struct {
	Opcode Opcode
	Want   int
	Got    int
}

func (err ErrArgs) Error() string {
	return f("%v takes %d operands, got %d", err.Opcode, err.Want, err.Got)
}

func (err ErrArgs) Is(target error) bool {
	return target == ErrArity
}

// ErrOpcode is an opcode byte outside of the instruction set.
type ErrOpcode byte

func (err ErrOpcode) Error() string {
	return f("bad opcode %d (0x%02x)", uint8(err), uint8(err))
}

func (err ErrOpcode) Is(target error) bool {
	return target == ErrUnknownOpcode
}

// ErrOperand is an operand value that does not fit its field.
type ErrOperand struct {
	Field string
	Value uint64
	Bits  int
}

func (err ErrOperand) Error() string {
	return f("%v %d exceeds %d bits", err.Field, err.Value, err.Bits)
}

func (err ErrOperand) Is(target error) bool {
	return target == ErrOperandOverflow
}

// ErrShort is a stream that ends inside an instruction.
type ErrShort struct {
	Opcode Opcode
	Need   int
	Have   int
}

func (err ErrShort) Error() string {
	return f("%v needs %d bytes, %d remain", err.Opcode, err.Need, err.Have)
}

func (err ErrShort) Is(target error) bool {
	return target == ErrTruncated
}

// ErrAddress is a memory or register index outside of its array.
type ErrAddress struct {
	Space string
	Index uint64
	Size  int
}

func (err ErrAddress) Error() string {
	return f("%v index %d outside 0..%d", err.Space, err.Index, err.Size-1)
}

func (err ErrAddress) Is(target error) bool {
	return target == ErrOutOfRange
}

// ErrSpan is a memory window whose start lies beyond its end.
type ErrSpan struct {
	Start uint
	End   uint
}

func (err ErrSpan) Error() string {
	return f("window start %d is after end %d", err.Start, err.End)
}

func (err ErrSpan) Is(target error) bool {
	return target == ErrOutOfRange
}

// ErrSyntax locates an assembler error in the source text.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrOffset locates a decode or execution error in the binary stream.
type ErrOffset struct {
	Offset int
	Err    error
}

func (err ErrOffset) Error() string {
	return f("offset %d %v", err.Offset, err.Err)
}

func (err ErrOffset) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
