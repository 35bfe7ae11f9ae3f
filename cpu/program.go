package cpu

import (
	"iter"
)

// Line represents a line of assembled code with its source location and
// generated instruction.
type Line struct {
	LineNo      int
	Offset      int
	Words       []string
	Instruction Instruction
}

// Width returns the encoded width of the line's instruction.
func (line *Line) Width() int {
	return line.Instruction.Opcode().Width()
}

type Program struct {
	Lines []Line
}

// Debug returns the listing entry whose instruction covers the byte offset,
// or nil.
func (prog *Program) Debug(offset int) (line *Line) {
	for n := range prog.Lines {
		entry := &prog.Lines[n]
		if offset >= entry.Offset && offset < entry.Offset+entry.Width() {
			line = entry
			break
		}
	}

	return
}

// Size returns the total encoded size of the program in bytes.
func (prog *Program) Size() (size int) {
	for _, line := range prog.Lines {
		size += line.Width()
	}
	return
}

// Binary returns the concatenated encoding of every instruction.
func (prog *Program) Binary() (bin []byte) {
	bin = make([]byte, 0, prog.Size())
	for _, in := range prog.Instructions() {
		bin = in.Append(bin)
	}

	return
}

// Trace returns one trace record per instruction, in program order.
func (prog *Program) Trace() (recs []Record) {
	recs = make([]Record, 0, len(prog.Lines))
	for _, in := range prog.Instructions() {
		recs = append(recs, MakeRecord(in))
	}

	return
}

// Instructions iterates over the byte offset and instruction of each line.
func (prog *Program) Instructions() iter.Seq2[int, Instruction] {
	return func(yield func(offset int, in Instruction) bool) {
		for _, line := range prog.Lines {
			if !yield(line.Offset, line.Instruction) {
				return
			}
		}
	}
}

// Disassemble decodes a binary stream into a program listing. Line numbers
// are zero, as there is no source text.
func Disassemble(data []byte) (prog *Program, err error) {
	var lines []Line

	for offset := 0; offset < len(data); {
		var in Instruction
		var width int
		in, width, err = Decode(data, offset)
		if err != nil {
			err = &ErrOffset{Offset: offset, Err: err}
			return
		}
		lines = append(lines, Line{Offset: offset, Instruction: in})
		offset += width
	}

	prog = &Program{Lines: lines}

	return
}
