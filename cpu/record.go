package cpu

// Record is the structured trace of a single instruction. A is the opcode,
// B through E are the operands in layout order.
type Record struct {
	A uint8   `json:"A"`
	B uint64  `json:"B"`
	C uint64  `json:"C"`
	D *uint64 `json:"D,omitempty"`
	E *uint64 `json:"E,omitempty"`
}

// MakeRecord creates the trace record of an instruction.
func MakeRecord(in Instruction) (rec Record) {
	rec.A = uint8(in.Opcode())

	slots := [](*uint64){&rec.B, &rec.C}
	for n, value := range in.Operands() {
		switch {
		case n < len(slots):
			*slots[n] = value
		case n == 2:
			rec.D = &value
		case n == 3:
			rec.E = &value
		}
	}

	return
}

// Operands returns the operand values present in the record.
func (rec Record) Operands() (args []uint64) {
	args = []uint64{rec.B, rec.C}
	if rec.D != nil {
		args = append(args, *rec.D)
		if rec.E != nil {
			args = append(args, *rec.E)
		}
	}

	return
}

// Instruction rebuilds the instruction described by the record.
func (rec Record) Instruction() (Instruction, error) {
	return MakeInstruction(Opcode(rec.A), rec.Operands()...)
}
