// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
	"go.uber.org/zap"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":         "0",
	"MEMORY_SIZE":    fmt.Sprintf("%d", MEMORY_SIZE),
	"REGISTER_COUNT": fmt.Sprintf("%d", REGISTER_COUNT),
}

// Assembler is a single pass assembler for the μVM system.
type Assembler struct {
	Verbose bool        // If set, verbosely logs the assembler actions.
	Logger  *zap.Logger // Destination of verbose logging.
	Lines   []Line      // List of assembled lines.

	predefine map[string]string // Predefines
	Equate    map[string]string // Names visible to $(...) expressions.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

func (asm *Assembler) logger() *zap.Logger {
	if asm.Logger == nil {
		return zap.NewNop()
	}
	return asm.Logger
}

// valueOf returns the value of a base-10 operand literal.
func (asm *Assembler) valueOf(word string) (value uint64, err error) {
	value, err = strconv.ParseUint(word, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			err = errors.Join(ErrOperandOverflow, ErrParseNumber(word))
		} else {
			err = ErrParseNumber(word)
		}
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v64 uint64
		v64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates.
			err = nil
			continue
		}
		pred[key] = starlark.MakeUint64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Uint64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine expands expressions and splits a line into words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%d", lineno)

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil && err == nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

	return
}

// currentOffset gets the byte offset of the next instruction.
func (asm *Assembler) currentOffset() int {
	if len(asm.Lines) == 0 {
		return 0
	}

	last := &asm.Lines[len(asm.Lines)-1]

	return last.Offset + last.Width()
}

// Parse parses an input stream into a Program. Any error aborts the whole
// pass, and no Program is returned.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			prog = nil
			asm.Lines = nil
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Lines = asm.Lines[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		line = scanner.Text()
		lineno += 1

		if asm.Verbose {
			asm.logger().Debug("asm", zap.Int("line", lineno), zap.String("text", line))
		}

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	prog = &Program{
		Lines: slices.Clone(asm.Lines),
	}

	return
}

// parseWords assembles the words of a single line of text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// blank line
	if len(words) == 0 {
		return
	}

	op, err := Lookup(words[0])
	if err != nil {
		return
	}

	fields := op.Fields()
	if len(words)-1 != len(fields) {
		err = ErrArgs{Opcode: op, Want: len(fields), Got: len(words) - 1}
		return
	}

	args := make([]uint64, len(fields))
	for n, word := range words[1:] {
		args[n], err = asm.valueOf(word)
		if err != nil {
			return
		}
	}

	in, err := MakeInstruction(op, args...)
	if err != nil {
		return
	}

	asm.Lines = append(asm.Lines, Line{
		LineNo:      lineno,
		Offset:      asm.currentOffset(),
		Words:       words,
		Instruction: in,
	})

	return
}
