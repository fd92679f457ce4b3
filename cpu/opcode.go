package cpu

import (
	"fmt"
	"math"
	"strings"
)

// NoValue is the operand of an instruction that was given none, and the
// address of a label that was never defined. Source literals are limited
// to 32 bits, so no literal can produce it.
const NoValue = math.MinInt64

// Code is an instruction opcode.
type Code int

//go:generate go tool stringer -linecomment -type=Code
const (
	NOP  = Code(0)   // NOP
	PUSH = Code(1)   // PUSH
	POP  = Code(2)   // POP
	OUT  = Code(3)   // OUT
	COUT = Code(4)   // COUT
	ADD  = Code(5)   // ADD
	SUB  = Code(6)   // SUB
	MUL  = Code(7)   // MUL
	DIV  = Code(8)   // DIV
	DUP  = Code(9)   // DUP
	AND  = Code(10)  // AND
	OR   = Code(11)  // OR
	CALL = Code(12)  // CALL
	RET  = Code(13)  // RET
	JMP  = Code(100) // JMP
	CMP  = Code(101) // CMP
	JNZ  = Code(102) // JNZ
	JZ   = Code(103) // JZ
)

// codeMap maps mnemonics to opcodes.
var codeMap = map[string]Code{
	"NOP":  NOP,
	"PUSH": PUSH,
	"POP":  POP,
	"OUT":  OUT,
	"COUT": COUT,
	"ADD":  ADD,
	"SUB":  SUB,
	"MUL":  MUL,
	"DIV":  DIV,
	"DUP":  DUP,
	"AND":  AND,
	"OR":   OR,
	"CALL": CALL,
	"RET":  RET,
	"JMP":  JMP,
	"CMP":  CMP,
	"JNZ":  JNZ,
	"JZ":   JZ,
}

// LookupCode returns the opcode for a mnemonic.
func LookupCode(name string) (code Code, ok bool) {
	code, ok = codeMap[strings.ToUpper(name)]
	return
}

// Valid returns true if the opcode is part of the instruction set.
func (code Code) Valid() bool {
	_, ok := codeMap[code.String()]
	return ok
}

// Instruction is a single opcode and its operand.
type Instruction struct {
	Code    Code
	Operand int
}

// HasOperand returns true if the instruction was given an operand.
func (ins Instruction) HasOperand() bool {
	return ins.Operand != NoValue
}

// String returns the assembly language representation of this instruction.
func (ins Instruction) String() string {
	if !ins.HasOperand() {
		return ins.Code.String()
	}
	return fmt.Sprintf("%v %d", ins.Code, ins.Operand)
}
