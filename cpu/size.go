package cpu

const (
	MEMORY_SIZE    = 1024 // Default number of memory cells.
	REGISTER_COUNT = 256  // Default number of registers.
)
