package cpu

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ezrec/stackvm/translate"
)

var f = translate.From

// Fault is the kind of condition that halts assembly or execution.
type Fault int

// List of faults.
const (
	ProgramTooLarge = Fault(iota + 1)
	TooManyLabels
	FileNotFound
	StackOverflow
	StackUnderflow
	InvalidOpcode
	JumpOutOfBounds
	DivisionByZero
)

var strFault = []string{
	ProgramTooLarge: "program too large",
	TooManyLabels:   "too many labels",
	FileNotFound:    "file not found",
	StackOverflow:   "stack overflow",
	StackUnderflow:  "stack underflow",
	InvalidOpcode:   "invalid instruction",
	JumpOutOfBounds: "jump out of bounds",
	DivisionByZero:  "division by zero",
}

func (ft Fault) Error() string {
	if ft <= 0 || int(ft) >= len(strFault) {
		return f("fault %v", strconv.Itoa(int(ft)))
	}
	return f(strFault[ft])
}

var (
	// Cpu errors
	ErrIpEmpty = errors.New(f("ip empty"))
	ErrOutput  = errors.New(f("output"))

	// Assembler errors
	ErrLabelEmpty         = errors.New(f("label name empty"))
	ErrLineTooLong        = errors.New(f("line too long"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))

	// Image errors
	ErrImageInvalid = errors.New(f("image invalid"))
)

// Error describes a fault raised by an executing instruction, with the
// machine state at the start of the faulting step.
type Error struct {
	Fault Fault       // Nature of the fault.
	Ip    int         // Address of the faulting instruction.
	Code  Instruction // Faulting instruction.
	Addr  int         // Target when Fault is JumpOutOfBounds.
	Stack []int       // Operand stack, bottom first.
}

func (err *Error) Error() string {
	msg := err.Fault.Error()
	switch err.Fault {
	case JumpOutOfBounds:
		if err.Addr == NoValue {
			msg = f("%v to unresolved label", msg)
		} else {
			msg = f("%v to %v", msg, strconv.Itoa(err.Addr))
		}
	case InvalidOpcode:
		msg = f("%v %v", msg, strconv.Itoa(int(err.Code.Code)))
	}

	return f("%v at ip %v (%v)", msg, strconv.Itoa(err.Ip), err.Code.String())
}

func (err *Error) Unwrap() error {
	return err.Fault
}

// StackString returns the stack of the fault as text, top last.
func (err *Error) StackString() string {
	words := make([]string, len(err.Stack))
	for n, value := range err.Stack {
		words[n] = fmt.Sprintf("%d", value)
	}
	return strings.Join(words, " ")
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %v '%v' %v", strconv.Itoa(err.LineNo), err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
