package io

import (
	"io"

	"github.com/pkg/errors"

	"github.com/ezrec/uvm/cpu"
)

// Tape provides sequential I/O of binary instruction streams.
// It wraps an io.Reader for input and io.Writer for output.
type Tape struct {
	Input  io.Reader
	Output io.Writer
}

// Receive reads the whole input stream.
func (tc *Tape) Receive() (data []byte, err error) {
	if tc.Input == nil {
		err = ErrTapeInput
		return
	}

	data, err = io.ReadAll(tc.Input)
	if err != nil {
		err = errors.Wrap(err, f("tape receive"))
		data = nil
	}

	return
}

// Send writes the binary encoding of a program to the output stream.
func (tc *Tape) Send(prog *cpu.Program) (err error) {
	if tc.Output == nil {
		err = ErrTapeOutput
		return
	}

	_, err = tc.Output.Write(prog.Binary())
	if err != nil {
		err = errors.Wrap(err, f("tape send"))
	}

	return
}
