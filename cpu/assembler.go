// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"io"
	"log"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	vmio "github.com/ezrec/stackvm/io"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a three pass assembler for the stack machine.
//
// Pass one records the address of every label definition, pass two rewrites
// every '@label' reference line into a PUSH of the label's address, and
// pass three encodes every line into the program store. Blank lines take
// no address in any pass.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.
	Strict  bool // If set, a reference to an undefined label is an error.

	MaxInstr   int // Program store capacity, MAX_INSTR if zero.
	MaxLabels  int // Symbol table capacity, MAX_LABELS if zero.
	MaxLineLen int // Line buffer size, MAX_LINE_LEN if zero.
	MaxDepth   int // Stack depth seen by $(MAX_DEPTH), MAX_DEPTH if zero.

	Symbols *SymbolTable      // Labels of the last Parse.
	Equate  map[string]string // Symbols visible to $(...) expressions.

	predefine map[string]string // Predefines
}

// Predefine defines a new symbol or redefines an existing one for $(...)
// expressions.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

func capacity(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

// valueOf returns the operand value of an argument.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	if len(word) == 0 {
		value = NoValue
		return
	}

	if strings.HasPrefix(word, "$(") && strings.HasSuffix(word, ")") {
		value, err = asm.parenEval(word[2 : len(word)-1])
		return
	}

	v64, err := strconv.ParseInt(word, 10, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, _err := strconv.ParseInt(str, 0, 64)
		if _err != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < math.MinInt32 || st_int64 > math.MaxInt32 {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	lines, err := vmio.ReadLines(input)
	if err != nil {
		return
	}

	prog, err = asm.ParseLines(lines)

	return
}

// ParseLines assembles a buffer of source lines into a Program.
func (asm *Assembler) ParseLines(source []string) (prog *Program, err error) {
	var line string
	var lineno int

	defer func() {
		if err != nil {
			prog = nil
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	maxInstr := capacity(asm.MaxInstr, MAX_INSTR)
	maxLabels := capacity(asm.MaxLabels, MAX_LABELS)
	maxLineLen := capacity(asm.MaxLineLen, MAX_LINE_LEN)

	asm.Symbols = NewSymbolTable(maxLabels)
	asm.Equate = maps.Clone(sysEquate)
	asm.Equate["MAX_INSTR"] = strconv.Itoa(maxInstr)
	asm.Equate["MAX_LABELS"] = strconv.Itoa(maxLabels)
	asm.Equate["MAX_LINE_LEN"] = strconv.Itoa(maxLineLen)
	asm.Equate["MAX_DEPTH"] = strconv.Itoa(capacity(asm.MaxDepth, MAX_DEPTH))
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	// Pass rewrites happen on a copy, so errors can quote the original.
	buffer := slices.Clone(source)

	// Pass one: label definitions.
	var ip int
	for n, text := range buffer {
		lineno, line = n+1, source[n]

		if len(text) >= maxLineLen {
			err = ErrLineTooLong
			return
		}

		parsed := Classify(text)
		if parsed.Blank() {
			continue
		}

		if parsed.HasLabel {
			if len(parsed.Label) == 0 {
				err = ErrLabelEmpty
				return
			}
			// A label on a line of its own names the instruction after it.
			address := ip
			if parsed.LabelOnly() {
				address++
			}
			err = asm.Symbols.Add(parsed.Label, address)
			if err != nil {
				return
			}
			if asm.Verbose {
				log.Printf("%v: label %v = %d", lineno, parsed.Label, address)
			}
		}

		ip++
	}

	// Pass two: label references.
	ip = 0
	for n, text := range buffer {
		lineno, line = n+1, source[n]

		parsed := Classify(text)
		if parsed.Blank() {
			continue
		}

		if parsed.Kind == KIND_REF {
			if len(parsed.Ref) == 0 {
				err = ErrLabelEmpty
				return
			}

			var prefix string
			if parsed.HasLabel {
				prefix = parsed.Label + ": "
			}

			address, ok := asm.Symbols.Resolve(parsed.Ref)
			if ok {
				buffer[n] = fmt.Sprintf("%vPUSH %d", prefix, address)
			} else {
				if asm.Strict {
					err = ErrLabelMissing(parsed.Ref)
					return
				}
				// Left without an operand, the PUSH carries NoValue.
				buffer[n] = prefix + "PUSH"
			}
			if asm.Verbose {
				log.Printf("%v: %03d @%v => %v", lineno, ip, parsed.Ref, buffer[n])
			}
		}

		ip++
	}

	// Pass three: instructions.
	prog = NewProgram(maxInstr)
	prog.Symbols = asm.Symbols

	ip = 0
	for n, text := range buffer {
		lineno, line = n+1, source[n]

		parsed := Classify(text)
		if parsed.Blank() {
			continue
		}

		ins := Instruction{Code: NOP, Operand: NoValue}
		if !parsed.LabelOnly() {
			ins, err = asm.encode(parsed, lineno)
			if err != nil {
				return
			}
		}

		err = prog.Store(ip, ins, lineno)
		if err != nil {
			return
		}
		if asm.Verbose {
			log.Printf("%v: %03d %v", lineno, ip, ins)
		}

		ip++
	}

	return
}

// encode converts an instruction line into an opcode and operand.
func (asm *Assembler) encode(parsed Line, lineno int) (ins Instruction, err error) {
	code, ok := LookupCode(parsed.Mnemonic)
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	// Set line number.
	asm.Equate["LINENO"] = strconv.Itoa(lineno)

	operand, err := asm.valueOf(parsed.Arg)
	if err != nil {
		return
	}

	ins = Instruction{Code: code, Operand: operand}

	return
}
