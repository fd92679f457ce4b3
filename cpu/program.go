package cpu

import (
	"iter"
)

const (
	MAX_INSTR = 1000 // Default program store capacity.
)

// Program is the program store: parallel opcode, operand and source line
// arrays indexed by instruction address. The arrays are allocated once at
// the store's capacity.
type Program struct {
	Opcodes  []Code
	Operands []int
	LineNo   []int

	Symbols *SymbolTable // Labels the program was assembled with, if any.
}

// NewProgram creates an empty program store of a fixed capacity.
func NewProgram(capacity int) (prog *Program) {
	prog = &Program{
		Opcodes:  make([]Code, 0, capacity),
		Operands: make([]int, 0, capacity),
		LineNo:   make([]int, 0, capacity),
	}

	return
}

// Len returns the number of assembled instructions.
func (prog *Program) Len() int {
	return len(prog.Opcodes)
}

// Capacity returns the number of addresses in the store.
func (prog *Program) Capacity() int {
	return cap(prog.Opcodes)
}

// Store writes an instruction at an address. The store must be filled in
// address order; skipped addresses hold NOP.
func (prog *Program) Store(ip int, ins Instruction, lineno int) (err error) {
	if ip < 0 || ip >= prog.Capacity() {
		err = ProgramTooLarge
		return
	}

	for prog.Len() <= ip {
		prog.Opcodes = append(prog.Opcodes, NOP)
		prog.Operands = append(prog.Operands, NoValue)
		prog.LineNo = append(prog.LineNo, 0)
	}

	prog.Opcodes[ip] = ins.Code
	prog.Operands[ip] = ins.Operand
	prog.LineNo[ip] = lineno

	return
}

// Fetch returns the instruction at an address.
func (prog *Program) Fetch(ip int) (ins Instruction, ok bool) {
	if ip < 0 || ip >= prog.Len() {
		return
	}

	ins = Instruction{Code: prog.Opcodes[ip], Operand: prog.Operands[ip]}
	ok = true

	return
}

// Debug returns the source line number of an address, or 0.
func (prog *Program) Debug(ip int) (lineno int) {
	if ip >= 0 && ip < len(prog.LineNo) {
		lineno = prog.LineNo[ip]
	}

	return
}

// Instructions iterates the program in address order.
func (prog *Program) Instructions() iter.Seq2[int, Instruction] {
	return func(yield func(ip int, ins Instruction) bool) {
		for ip := range prog.Len() {
			ins, _ := prog.Fetch(ip)
			if !yield(ip, ins) {
				return
			}
		}
	}
}
