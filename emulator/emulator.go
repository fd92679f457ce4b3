// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator ties the assembler, the cpu and the console together
// under a single configuration.
package emulator

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log"
	"maps"
	"strconv"

	"github.com/ezrec/stackvm/config"
	"github.com/ezrec/stackvm/cpu"
	"github.com/ezrec/stackvm/internal"
	"github.com/ezrec/stackvm/io"
)

// Emulator state. CPU + program store + console.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	Strict   bool         // If set, undefined labels fail assembly.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program.

	Config  config.Config // Capacities, fixed at creation.
	Console io.Console    // Output channel of OUT and COUT.
}

// NewEmulator creates a new emulator with the capacities of cfg.
func NewEmulator(cfg config.Config) (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(cfg.MaxDepth),
		Program: cpu.NewProgram(cfg.MaxInstr),
		Config:  cfg,
	}

	emu.Cpu.Output = &emu.Console

	return
}

// Defines returns an iterator over all of the defines visible to
// $(...) expressions.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(emu.Config.Defines(),
		maps.All(map[string]string{
			"MAX_TICKS": strconv.Itoa(emu.Config.MaxTicks),
		}),
	)
}

// Assembler returns an assembler set up for the emulator capacities.
func (emu *Emulator) Assembler() (asm *cpu.Assembler) {
	asm = &cpu.Assembler{
		Verbose:    emu.Verbose,
		Strict:     emu.Strict,
		MaxInstr:   emu.Config.MaxInstr,
		MaxLabels:  emu.Config.MaxLabels,
		MaxLineLen: emu.Config.MaxLineLen,
		MaxDepth:   emu.Config.MaxDepth,
	}

	for equ, value := range emu.Defines() {
		asm.Predefine(equ, value)
	}

	return
}

// Assemble loads a program from source lines. On error the loaded program
// is left as it was.
func (emu *Emulator) Assemble(source []string) (err error) {
	prog, err := emu.Assembler().ParseLines(source)
	if err != nil {
		return
	}

	emu.Program = prog

	return
}

// LoadFile assembles a source file.
func (emu *Emulator) LoadFile(path string) (err error) {
	lines, err := io.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		err = fmt.Errorf("%w: '%v'", cpu.FileNotFound, path)
		return
	}
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: assemble %v (%d lines)", path, len(lines))
	}

	err = emu.Assemble(lines)

	return
}

// LoadImage loads a program saved by cpu.Program.MarshalBinary. The
// program is copied into a store of the configured capacity, whatever
// capacity it was saved with.
func (emu *Emulator) LoadImage(data []byte) (err error) {
	image, err := cpu.UnmarshalProgram(data)
	if err != nil {
		return
	}

	if image.Symbols != nil && image.Symbols.Len() > emu.Config.MaxLabels {
		err = cpu.TooManyLabels
		return
	}

	prog := cpu.NewProgram(emu.Config.MaxInstr)
	for ip, ins := range image.Instructions() {
		err = prog.Store(ip, ins, image.Debug(ip))
		if err != nil {
			return
		}
	}

	if image.Symbols != nil {
		prog.Symbols = cpu.NewSymbolTable(emu.Config.MaxLabels)
		prog.Symbols.Labels = append(prog.Symbols.Labels, image.Symbols.Labels...)
	}

	emu.Program = prog

	return
}

// Reset the emulator to the start of the loaded program.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Console.Rewind()
	emu.Cpu.Reset(emu.Program)
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() int {
	return emu.Cpu.Ip
}

// LineNo returns the source line number of the instruction at the
// instruction pointer, or 0 if there is none.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	return emu.Program.Debug(emu.Cpu.Ip)
}

// Tick performs a single tick of the emulator. done is set once the
// program has run past its last instruction.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	if emu.Cpu.Halt == nil && emu.Config.MaxTicks > 0 && emu.Cpu.Ticks >= emu.Config.MaxTicks {
		emu.Cpu.Halt = ErrTickLimit
	}

	err = emu.Cpu.Tick()
	if errors.Is(err, cpu.ErrIpEmpty) {
		err = nil
		done = true
	}

	return
}

// Run ticks the emulator until the program ends or faults.
func (emu *Emulator) Run() (err error) {
	for {
		var done bool
		done, err = emu.Tick()
		if done || err != nil {
			return
		}
	}
}
