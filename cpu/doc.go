// Package cpu implements the instruction set, assembler and execution engine
// for the μVM system.
//
// The machine has a flat memory of unsigned cells, a register file of
// unsigned cells, and four instructions: LOAD_CONST, READ_MEM, WRITE_MEM and
// BIN_OP_LE. Instructions are encoded as an opcode byte followed by 3 or 4
// bytes of little-endian operands, packed back to back with no terminator.
//
// The assembler translates one mnemonic per line into a Program, which
// yields both the binary stream and a parallel list of trace Records.
package cpu
