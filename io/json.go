package io

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/ezrec/uvm/cpu"
)

// JSON_INDENT is the indentation of every JSON document written.
const JSON_INDENT = "    "

// writeJSON writes value with no trailing newline.
func writeJSON(w io.Writer, value any) (err error) {
	data, err := json.MarshalIndent(value, "", JSON_INDENT)
	if err != nil {
		return errors.Wrap(err, f("json encode"))
	}

	_, err = w.Write(data)
	if err != nil {
		err = errors.Wrap(err, f("json write"))
	}

	return
}

func readJSON(r io.Reader, value any) (err error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	err = dec.Decode(value)
	if err != nil {
		err = errors.Wrap(err, f("json decode"))
	}

	return
}

// WriteTrace writes the trace log, one record per instruction.
func WriteTrace(w io.Writer, recs []cpu.Record) error {
	if recs == nil {
		recs = []cpu.Record{}
	}

	return writeJSON(w, recs)
}

// ReadTrace reads a trace log, checking that every record describes a valid
// instruction.
func ReadTrace(r io.Reader) (recs []cpu.Record, err error) {
	err = readJSON(r, &recs)
	if err != nil {
		return
	}

	for n, rec := range recs {
		_, err = rec.Instruction()
		if err != nil {
			err = errors.Wrap(err, f("record %d", n))
			recs = nil
			return
		}
	}

	return
}

// WriteResult writes an exported memory window.
func WriteResult(w io.Writer, cells []uint32) error {
	if cells == nil {
		cells = []uint32{}
	}

	return writeJSON(w, cells)
}

// ReadResult reads an exported memory window.
func ReadResult(r io.Reader) (cells []uint32, err error) {
	err = readJSON(r, &cells)
	return
}
