package emulator

import (
	"errors"

	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var (
	ErrConfig          = errors.New(f("invalid configuration"))
	ErrConfigMemory    = errors.Join(ErrConfig, errors.New(f("memory size must be positive")))
	ErrConfigRegisters = errors.Join(ErrConfig, errors.New(f("register count must be positive")))
	ErrConfigWindow    = errors.Join(ErrConfig, errors.New(f("window must lie within memory")))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Offset int
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("offset %d %v", err.Offset, err.Err)
	}
	return f("line %d offset %d %v", err.LineNo, err.Offset, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
