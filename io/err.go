package io

import (
	"github.com/pkg/errors"

	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var (
	// Tape errors
	ErrTapeInput  = errors.New(f("tape has no input"))
	ErrTapeOutput = errors.New(f("tape has no output"))
)
