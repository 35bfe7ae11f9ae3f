package emulator

import (
	"github.com/ezrec/uvm/cpu"
)

// Window is a half-open range [Start, End) of memory cells.
type Window struct {
	Start uint `yaml:"start" json:"start"`
	End   uint `yaml:"end" json:"end"`
}

// Len returns the number of cells in the window.
func (w Window) Len() uint {
	if w.End < w.Start {
		return 0
	}
	return w.End - w.Start
}

// Config describes the machine an Emulator builds.
type Config struct {
	MemorySize    uint   `yaml:"memory_size" json:"memory_size"`       // Number of memory cells.
	RegisterCount uint   `yaml:"register_count" json:"register_count"` // Number of registers.
	Window        Window `yaml:"window" json:"window"`                 // Exported memory range.
}

// DefaultConfig returns the reference machine: 1024 memory cells, 256
// registers, exporting cells 200 through 207.
func DefaultConfig() Config {
	return Config{
		MemorySize:    cpu.MEMORY_SIZE,
		RegisterCount: cpu.REGISTER_COUNT,
		Window:        Window{Start: 200, End: 208},
	}
}

// Validate checks that the configuration describes a usable machine.
func (c Config) Validate() (err error) {
	switch {
	case c.MemorySize == 0:
		err = ErrConfigMemory
	case c.RegisterCount == 0:
		err = ErrConfigRegisters
	case c.Window.Start > c.Window.End:
		err = ErrConfigWindow
	case c.Window.End > c.MemorySize:
		err = ErrConfigWindow
	}

	return
}
