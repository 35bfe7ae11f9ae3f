// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/tebeka/atexit"
	"go.uber.org/zap"
)

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	if !verbose {
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	return config.Build()
}

func main() {
	c, err := parseArgs(os.Args[0], os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v: %v\n", os.Args[0], err)
		os.Exit(2)
	}

	logger, err := newLogger(c.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v: %v\n", os.Args[0], err)
		os.Exit(1)
	}
	atexit.Register(func() { _ = logger.Sync() })

	err = run(c, logger)
	if err != nil {
		logger.Error("failed", zap.Error(err))
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
