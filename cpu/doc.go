// Package cpu implements the stack machine and its assembler.
//
// The machine is an instruction pointer over a fixed-capacity program store
// of opcode/operand pairs, and a fixed-depth operand stack of signed
// integers. Every instruction takes its arguments from the stack; PUSH is
// the only instruction that uses its operand.
//
// The assembler reads a line-oriented source where each line is a label
// definition ('name:'), a label reference ('@name', assembled as a PUSH of
// the label's address), an instruction ('MNEMONIC [integer]'), or blank.
// Comments start at ';'.
package cpu
