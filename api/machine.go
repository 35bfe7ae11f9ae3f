package api

import (
	"io"

	"go.uber.org/zap"

	"github.com/ezrec/uvm/cpu"
	"github.com/ezrec/uvm/emulator"
)

// Machine assembles and executes programs on behalf of the server.
type Machine interface {
	Assemble(source io.Reader) (*cpu.Program, error)
	Execute(binary []byte) ([]uint32, error)
	Run(prog *cpu.Program) ([]uint32, error)
}

type machineImpl struct {
	config emulator.Config
	logger *zap.Logger
}

// NewMachine returns a Machine that builds a fresh emulator for every call.
func NewMachine(config emulator.Config, logger *zap.Logger) (Machine, error) {
	err := config.Validate()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &machineImpl{config: config, logger: logger}, nil
}

func (m *machineImpl) emulator() (emu *emulator.Emulator, err error) {
	emu, err = emulator.NewEmulator(m.config)
	if err != nil {
		return
	}
	emu.SetLogger(m.logger)

	return
}

func (m *machineImpl) Assemble(source io.Reader) (prog *cpu.Program, err error) {
	emu, err := m.emulator()
	if err != nil {
		return
	}

	return emu.Assembler().Parse(source)
}

func (m *machineImpl) Execute(binary []byte) (result []uint32, err error) {
	emu, err := m.emulator()
	if err != nil {
		return
	}

	emu.SetBinary(binary)

	return emu.Run()
}

func (m *machineImpl) Run(prog *cpu.Program) (result []uint32, err error) {
	emu, err := m.emulator()
	if err != nil {
		return
	}

	emu.SetProgram(prog)

	return emu.Run()
}
