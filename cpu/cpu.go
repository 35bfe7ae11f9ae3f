// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"maps"
	"strings"

	"go.uber.org/zap"
)

// Cpu is the execution engine: a memory, a register file and a cursor into
// the loaded instruction stream.
type Cpu struct {
	Verbose bool        // Set to enable verbose logging.
	Logger  *zap.Logger // Destination of verbose logging.

	Memory   []uint32 // Memory cells.
	Register []uint32 // Register bank.

	Text   []byte // Loaded instruction stream.
	Cursor int    // Byte offset of the next instruction.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a new CPU with the given number of memory cells and
// registers.
func NewCpu(memory, registers uint) (cpu *Cpu) {
	cpu = &Cpu{
		Memory:   make([]uint32, memory),
		Register: make([]uint32, registers),
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"MEMORY_SIZE":    fmt.Sprintf("%d", len(cpu.Memory)),
		"REGISTER_COUNT": fmt.Sprintf("%d", len(cpu.Register)),
	})
}

func (cpu *Cpu) logger() *zap.Logger {
	if cpu.Logger == nil {
		return zap.NewNop()
	}
	return cpu.Logger
}

// String returns the current CPU state as a string. Only non-zero registers
// are listed.
func (cpu *Cpu) String() string {
	var text strings.Builder

	fmt.Fprintf(&text, "cursor: %d/%d\n", cpu.Cursor, len(cpu.Text))
	fmt.Fprintf(&text, " ticks: %d\n", cpu.Ticks)
	for n, val := range cpu.Register {
		if val != 0 {
			fmt.Fprintf(&text, "  r%-3d: %d\n", n, val)
		}
	}

	return text.String()
}

// Reset the CPU state.
// - Clears the memory and registers.
// - Rewinds the cursor to the start of the loaded stream.
// - Zeros statistics counters.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		cpu.logger().Debug("cpu: reset")
	}

	clear(cpu.Memory)
	clear(cpu.Register)
	cpu.Cursor = 0
	cpu.Ticks = 0
}

// Load installs an instruction stream and rewinds the cursor.
func (cpu *Cpu) Load(text []byte) {
	cpu.Text = text
	cpu.Cursor = 0
}

// Halted returns true once the cursor has reached the end of the stream.
func (cpu *Cpu) Halted() bool {
	return cpu.Cursor >= len(cpu.Text)
}

// FetchCode decodes the instruction at the cursor.
func (cpu *Cpu) FetchCode() (in Instruction, width int, err error) {
	if cpu.Halted() {
		err = ErrHalted
		return
	}

	return Decode(cpu.Text, cpu.Cursor)
}

// Tick executes a single instruction and advances the cursor past it.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted() {
		return ErrHalted
	}

	defer func() {
		if err != nil {
			err = &ErrOffset{Offset: cpu.Cursor, Err: err}
		}
	}()

	in, width, err := cpu.FetchCode()
	if err != nil {
		return
	}

	err = cpu.Execute(in)
	if err != nil {
		return
	}

	cpu.Cursor += width
	cpu.Ticks += 1

	return
}

// Run ticks until the end of the stream.
func (cpu *Cpu) Run() (err error) {
	for !cpu.Halted() {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(in Instruction) (err error) {
	if cpu.Verbose {
		cpu.logger().Debug("exec",
			zap.Int("cursor", cpu.Cursor),
			zap.Stringer("instruction", in))
	}

	switch in := in.(type) {
	case LoadConst:
		err = cpu.setRegister(uint64(in.Dst), uint32(in.Value))
	case ReadMem:
		var value uint32
		value, err = cpu.getMemory(uint64(in.Address))
		if err != nil {
			return
		}
		err = cpu.setRegister(uint64(in.Dst), value)
	case WriteMem:
		var base, value uint32
		base, err = cpu.getRegister(uint64(in.Base))
		if err != nil {
			return
		}
		value, err = cpu.getRegister(uint64(in.Src))
		if err != nil {
			return
		}
		err = cpu.setMemory(uint64(base)+uint64(in.Offset), value)
	case BinOpLE:
		var lhs, base, rhs, dst uint32
		lhs, err = cpu.getRegister(uint64(in.Lhs))
		if err != nil {
			return
		}
		base, err = cpu.getRegister(uint64(in.RhsBase))
		if err != nil {
			return
		}
		rhs, err = cpu.getMemory(uint64(base) + uint64(in.RhsOffset))
		if err != nil {
			return
		}
		dst, err = cpu.getRegister(uint64(in.Dst))
		if err != nil {
			return
		}
		var result uint32
		if lhs <= rhs {
			result = 1
		}
		err = cpu.setMemory(uint64(dst), result)
	default:
		if in == nil {
			err = ErrUnknownOpcode
		} else {
			err = ErrOpcode(in.Opcode())
		}
	}

	return
}

// Window returns a copy of the memory cells in [start, end).
func (cpu *Cpu) Window(start, end uint) (cells []uint32, err error) {
	if end > uint(len(cpu.Memory)) {
		err = ErrAddress{Space: "memory", Index: uint64(end), Size: len(cpu.Memory)}
		return
	}
	if start > end {
		err = ErrSpan{Start: start, End: end}
		return
	}

	cells = make([]uint32, end-start)
	copy(cells, cpu.Memory[start:end])

	return
}

func (cpu *Cpu) getRegister(index uint64) (value uint32, err error) {
	if index >= uint64(len(cpu.Register)) {
		err = ErrAddress{Space: "register", Index: index, Size: len(cpu.Register)}
		return
	}

	value = cpu.Register[index]
	return
}

func (cpu *Cpu) setRegister(index uint64, value uint32) (err error) {
	if index >= uint64(len(cpu.Register)) {
		err = ErrAddress{Space: "register", Index: index, Size: len(cpu.Register)}
		return
	}

	cpu.Register[index] = value
	return
}

func (cpu *Cpu) getMemory(address uint64) (value uint32, err error) {
	if address >= uint64(len(cpu.Memory)) {
		err = ErrAddress{Space: "memory", Index: address, Size: len(cpu.Memory)}
		return
	}

	value = cpu.Memory[address]
	return
}

func (cpu *Cpu) setMemory(address uint64, value uint32) (err error) {
	if address >= uint64(len(cpu.Memory)) {
		err = ErrAddress{Space: "memory", Index: address, Size: len(cpu.Memory)}
		return
	}

	cpu.Memory[address] = value
	return
}
