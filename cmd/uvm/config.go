package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ezrec/uvm/emulator"
	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var (
	ErrArguments = errors.New(f("unknown arguments"))
	ErrModes     = errors.New(f("-s and -x are mutually exclusive"))
	ErrWindow    = errors.New(f("window must be START:END"))
)

// Config defines program configuration.
type Config struct {
	Source   string          `yaml:"source"`   // Assembly source file.
	Binary   string          `yaml:"binary"`   // Binary instruction stream file.
	Log      string          `yaml:"log"`      // JSON trace log file.
	Result   string          `yaml:"result"`   // JSON result file.
	Serve    string          `yaml:"serve"`    // If set, serve the HTTP API on this address.
	Verbose  bool            `yaml:"verbose"`  // Verbose logging.
	Machine  emulator.Config `yaml:"machine"`  // Machine dimensions and exported window.
	Assemble bool            `yaml:"-"`        // Assemble only, do not execute.
	Execute  bool            `yaml:"-"`        // Execute the binary only, do not assemble.
}

// DefaultConfig returns the configuration used when no flags are given.
func DefaultConfig() Config {
	return Config{
		Source:  "input.txt",
		Binary:  "output.bin",
		Log:     "log.json",
		Result:  "result.json",
		Machine: emulator.DefaultConfig(),
	}
}

// windowValue is a flag.Value for a START:END memory window.
type windowValue struct {
	*emulator.Window
}

func (w windowValue) String() string {
	if w.Window == nil {
		return ""
	}
	return fmt.Sprintf("%d:%d", w.Start, w.End)
}

func (w windowValue) Set(value string) (err error) {
	start, end, ok := strings.Cut(value, ":")
	if !ok {
		return ErrWindow
	}

	s, err := strconv.ParseUint(strings.TrimSpace(start), 10, 0)
	if err != nil {
		return errors.Join(ErrWindow, err)
	}
	e, err := strconv.ParseUint(strings.TrimSpace(end), 10, 0)
	if err != nil {
		return errors.Join(ErrWindow, err)
	}

	w.Start = uint(s)
	w.End = uint(e)

	return
}

// loadConfig merges a YAML configuration file into c.
func loadConfig(c *Config, path string) (err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	err = yaml.Unmarshal(data, c)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
	}

	return
}

// parseArgs parses command line arguments as applicable.
//
// Values from a -config file replace the defaults, and flags given
// explicitly on the command line replace both.
func parseArgs(name string, args []string) (c *Config, err error) {
	c = &Config{}
	*c = DefaultConfig()

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "%s [options]\n", name)
		fs.PrintDefaults()
	}

	config := fs.String("config", "", "YAML configuration file.")
	fs.StringVar(&c.Source, "c", c.Source, "Assembly source file.")
	fs.StringVar(&c.Binary, "b", c.Binary, "Binary instruction stream file.")
	fs.StringVar(&c.Log, "l", c.Log, "JSON trace log file.")
	fs.StringVar(&c.Result, "o", c.Result, "JSON result file.")
	fs.StringVar(&c.Serve, "serve", c.Serve, "Serve the HTTP API on this address.")
	fs.Var(windowValue{&c.Machine.Window}, "window", "Exported memory window, START:END.")
	fs.UintVar(&c.Machine.MemorySize, "memory", c.Machine.MemorySize, "Number of memory cells.")
	fs.UintVar(&c.Machine.RegisterCount, "registers", c.Machine.RegisterCount, "Number of registers.")
	fs.BoolVar(&c.Assemble, "s", c.Assemble, "Assemble only, do not execute.")
	fs.BoolVar(&c.Execute, "x", c.Execute, "Execute the binary only, do not assemble.")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "Verbose mode.")

	err = fs.Parse(args)
	if err != nil {
		return nil, err
	}

	if fs.NArg() != 0 {
		return nil, fmt.Errorf("%w: %v", ErrArguments, fs.Args())
	}

	if len(*config) != 0 {
		explicit := map[string]string{}
		fs.Visit(func(fl *flag.Flag) {
			explicit[fl.Name] = fl.Value.String()
		})

		err = loadConfig(c, *config)
		if err != nil {
			return nil, err
		}

		for key, value := range explicit {
			err = fs.Set(key, value)
			if err != nil {
				return nil, err
			}
		}
	}

	if c.Assemble && c.Execute {
		return nil, ErrModes
	}

	err = c.Machine.Validate()
	if err != nil {
		return nil, err
	}

	return
}
