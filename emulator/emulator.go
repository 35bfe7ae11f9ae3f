// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"iter"
	"maps"

	"go.uber.org/zap"

	"github.com/ezrec/uvm/cpu"
	"github.com/ezrec/uvm/internal"
)

// Emulator state. CPU + program listing + configuration.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Listing of the running program, or nil for a raw binary.
	Binary   []byte       // Instruction stream loaded on Reset.

	Config Config
	Logger *zap.Logger
}

// NewEmulator creates a new emulator for a validated configuration.
func NewEmulator(config Config) (emu *Emulator, err error) {
	err = config.Validate()
	if err != nil {
		return
	}

	emu = &Emulator{
		Cpu:    cpu.NewCpu(config.MemorySize, config.RegisterCount),
		Config: config,
	}

	return
}

// SetLogger sets the logger of the emulator and its CPU. A nil logger
// discards all output.
func (emu *Emulator) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	emu.Logger = logger
	emu.Cpu.Logger = logger.Named("cpu")
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.Concat2(maps.All(map[string]string{
		"WINDOW_START": fmt.Sprintf("%d", emu.Config.Window.Start),
		"WINDOW_END":   fmt.Sprintf("%d", emu.Config.Window.End),
	}),
		emu.Cpu.Defines(),
	)
}

// Assembler returns an assembler with the emulator's defines predefined.
func (emu *Emulator) Assembler() (asm *cpu.Assembler) {
	asm = &cpu.Assembler{
		Verbose: emu.Verbose,
	}
	if emu.Logger != nil {
		asm.Logger = emu.Logger.Named("asm")
	}

	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	return
}

// SetProgram selects an assembled program for execution. A nil program
// clears the listing and the stream.
func (emu *Emulator) SetProgram(prog *cpu.Program) {
	emu.Program = prog
	emu.Binary = nil
	if prog != nil {
		emu.Binary = prog.Binary()
	}
}

// SetBinary selects a raw instruction stream for execution. No listing is
// available, so runtime errors report only the byte offset.
func (emu *Emulator) SetBinary(binary []byte) {
	emu.Program = nil
	emu.Binary = binary
}

// Reset clears the machine and rewinds to the start of the stream.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.Cpu.Load(emu.Binary)

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// LineNo returns the source line number for the instruction at the cursor,
// or 0 if there is no listing.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	line := emu.Program.Debug(emu.Cpu.Cursor)
	if line == nil {
		return 0
	}

	return line.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if emu.Cpu.Halted() {
		done = true
		return
	}

	lineno := emu.LineNo()
	offset := emu.Cpu.Cursor
	defer func() {
		if err != nil {
			var at *cpu.ErrOffset
			if errors.As(err, &at) {
				offset = at.Offset
				err = at.Err
			}
			err = &ErrRuntime{LineNo: lineno, Offset: offset, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	done = emu.Cpu.Halted()

	return
}

// Run resets the machine, executes the whole stream and returns the
// configured memory window.
func (emu *Emulator) Run() (result []uint32, err error) {
	err = emu.Reset()
	if err != nil {
		return
	}

	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	if emu.Verbose && emu.Logger != nil {
		emu.Logger.Debug("halted",
			zap.Int("ticks", emu.Ticks()),
			zap.Int("bytes", len(emu.Binary)))
	}

	return emu.Result()
}

// Result returns the configured memory window.
func (emu *Emulator) Result() ([]uint32, error) {
	return emu.Cpu.Window(emu.Config.Window.Start, emu.Config.Window.End)
}
