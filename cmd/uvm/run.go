package main

import (
	"bytes"
	"io"

	"go.uber.org/zap"

	"github.com/ezrec/uvm/api"
	"github.com/ezrec/uvm/cpu"
	"github.com/ezrec/uvm/emulator"
	uvmio "github.com/ezrec/uvm/io"
)

// run performs the work selected by the configuration.
func run(c *Config, logger *zap.Logger) (err error) {
	if len(c.Serve) != 0 {
		server, err := api.NewServer(api.ServerConfig{
			ListenerAddr: c.Serve,
			Logger:       logger.Named("api"),
			Config:       c.Machine,
		}, nil)
		if err != nil {
			return err
		}
		return server.Start()
	}

	emu, err := emulator.NewEmulator(c.Machine)
	if err != nil {
		return
	}
	emu.SetLogger(logger)
	emu.Verbose = c.Verbose

	var prog *cpu.Program
	if !c.Execute {
		prog, err = assemble(c, emu, logger)
		if err != nil {
			return
		}
	}

	if c.Assemble {
		return
	}

	return execute(c, emu, prog, logger)
}

// assemble writes the binary and trace log of the source file.
func assemble(c *Config, emu *emulator.Emulator, logger *zap.Logger) (prog *cpu.Program, err error) {
	err = uvmio.ReadFile(c.Source, func(r io.Reader) (err error) {
		prog, err = emu.Assembler().Parse(r)
		return
	})
	if err != nil {
		return
	}

	err = uvmio.WriteFile(c.Binary, func(w io.Writer) error {
		tape := &uvmio.Tape{Output: w}
		return tape.Send(prog)
	})
	if err != nil {
		return
	}

	err = uvmio.WriteFile(c.Log, func(w io.Writer) error {
		return uvmio.WriteTrace(w, prog.Trace())
	})
	if err != nil {
		return
	}

	logger.Info("assembled",
		zap.String("source", c.Source),
		zap.Int("instructions", len(prog.Lines)),
		zap.Int("bytes", prog.Size()))

	return
}

// execute runs the binary file and writes the exported window. If the
// binary is the program just assembled, its listing is used for error
// locations.
func execute(c *Config, emu *emulator.Emulator, prog *cpu.Program, logger *zap.Logger) (err error) {
	var binary []byte
	err = uvmio.ReadFile(c.Binary, func(r io.Reader) (err error) {
		tape := &uvmio.Tape{Input: r}
		binary, err = tape.Receive()
		return
	})
	if err != nil {
		return
	}

	if prog != nil && bytes.Equal(binary, prog.Binary()) {
		emu.SetProgram(prog)
	} else {
		emu.SetBinary(binary)
	}

	result, err := emu.Run()
	if err != nil {
		return
	}

	err = uvmio.WriteFile(c.Result, func(w io.Writer) error {
		return uvmio.WriteResult(w, result)
	})
	if err != nil {
		return
	}

	logger.Info("executed",
		zap.String("binary", c.Binary),
		zap.Int("ticks", emu.Ticks()),
		zap.String("result", c.Result))

	return
}
