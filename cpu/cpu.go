package cpu

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/ezrec/stackvm/io"
)

// Channel is the program output channel.
type Channel io.Channel

// State is the execution state of the Cpu. A HALTED Cpu records the
// reason in Cpu.Halt.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	RUNNING = State(0) // running
	HALTED  = State(1) // halted
)

// Cpu is the execution engine of the stack machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Program *Program // Program being executed. Never modified.
	Output  Channel  // Destination of OUT and COUT.

	Ip    int    // Current instruction pointer.
	Stack *Stack // Operand stack.
	Ticks int    // Instructions executed since reset.

	// Halt is the reason execution stopped: ErrIpEmpty when the program
	// ran off its end, or the fault that stopped it. Nil while running.
	Halt error
}

// NewCpu creates a new CPU with a specifically sized stack.
func NewCpu(depth int) (cpu *Cpu) {
	cpu = &Cpu{
		Stack: NewStack(capacity(depth, MAX_DEPTH)),
	}

	return
}

// Reset the CPU to the start of a program.
func (cpu *Cpu) Reset(prog *Program) {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Program = prog
	cpu.Ip = 0
	cpu.Ticks = 0
	cpu.Halt = nil
	cpu.Stack.Reset()
}

// State returns the current execution state.
func (cpu *Cpu) State() State {
	if cpu.Halt != nil {
		return HALTED
	}
	return RUNNING
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	words := make([]string, len(cpu.Stack.Data))
	for n, value := range cpu.Stack.Data {
		words[n] = fmt.Sprintf("%d", value)
	}

	text += fmt.Sprintf("% 6s: %03d\n", "ip", cpu.Ip)
	text += fmt.Sprintf("% 6s: %v\n", "state", cpu.State())
	text += fmt.Sprintf("% 6s: %d/%d\n", "depth", cpu.Stack.Depth(), cap(cpu.Stack.Data))
	text += fmt.Sprintf("% 6s: [%v]\n", "stack", strings.Join(words, " "))
	text += fmt.Sprintf("% 6s: %d\n", "ticks", cpu.Ticks)

	return
}

// Capacity returns the size of the address space jumps may target.
func (cpu *Cpu) Capacity() int {
	if cpu.Program == nil {
		return MAX_INSTR
	}
	return cpu.Program.Capacity()
}

// FetchCode fetches the instruction at the instruction pointer.
func (cpu *Cpu) FetchCode() (ins Instruction, err error) {
	if cpu.Program == nil {
		err = ErrIpEmpty
		return
	}

	ins, ok := cpu.Program.Fetch(cpu.Ip)
	if !ok {
		err = ErrIpEmpty
		return
	}

	return
}

// Tick executes a single instruction cycle. Once halted, every further
// Tick returns the halt reason.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halt != nil {
		return cpu.Halt
	}

	defer func() {
		if err != nil {
			cpu.Halt = err
		}
	}()

	ins, err := cpu.FetchCode()
	if err != nil {
		return
	}

	err = cpu.Execute(ins)

	return
}

// fault builds the Error for a fault raised by an instruction.
func (cpu *Cpu) fault(fault Fault, ins Instruction, addr int) error {
	return &Error{
		Fault: fault,
		Ip:    cpu.Ip,
		Code:  ins,
		Addr:  addr,
		Stack: slices.Clone(cpu.Stack.Data),
	}
}

// stackNeed maps opcodes to the number of values they pop, and push.
// Reads of the top of the stack count as a pop and a push.
var stackNeed = map[Code][2]int{
	NOP:  {0, 0},
	PUSH: {0, 1},
	POP:  {1, 0},
	OUT:  {1, 1},
	COUT: {1, 1},
	ADD:  {2, 1},
	SUB:  {2, 1},
	MUL:  {2, 1},
	DIV:  {2, 1},
	DUP:  {1, 2},
	AND:  {2, 1},
	OR:   {2, 1},
	CALL: {1, 1},
	RET:  {1, 0},
	JMP:  {1, 0},
	CMP:  {2, 1},
	JNZ:  {2, 0},
	JZ:   {2, 0},
}

// Execute executes a single decoded instruction. Every check is made before
// any state changes, so a faulting instruction leaves the stack and the
// instruction pointer as they were.
func (cpu *Cpu) Execute(ins Instruction) (err error) {
	if cpu.Verbose {
		log.Printf("%03d: %v", cpu.Ip, ins)
	}

	need, ok := stackNeed[ins.Code]
	if !ok {
		return cpu.fault(InvalidOpcode, ins, NoValue)
	}

	err = cpu.Stack.Need(need[0], need[1])
	if err != nil {
		return cpu.fault(err.(Fault), ins, NoValue)
	}

	data := cpu.Stack.Data
	depth := len(data)

	// top returns the n'th value from the top of the stack, from 1.
	top := func(n int) int { return data[depth-n] }

	next_ip := cpu.Ip + 1

	// jump validates a jump target.
	jump := func(addr int) error {
		if addr < 0 || addr >= cpu.Capacity() {
			return cpu.fault(JumpOutOfBounds, ins, addr)
		}
		next_ip = addr
		return nil
	}

	// binary replaces the top two values with the result of op(top, second).
	binary := func(op func(a, b int) int) {
		a, b := top(1), top(2)
		cpu.Stack.Data = append(data[:depth-2], op(a, b))
	}

	switch ins.Code {
	case NOP:
	case PUSH:
		cpu.Stack.Data = append(data, ins.Operand)
	case POP:
		cpu.Stack.Data = data[:depth-1]
	case OUT, COUT:
		switch {
		case cpu.Output == nil:
			err = io.ErrChannelClosed
		case ins.Code == OUT:
			err = cpu.Output.SendInt(top(1))
		default:
			err = cpu.Output.SendChar(top(1))
		}
		if err != nil {
			return errors.Join(ErrOutput, err)
		}
	case ADD:
		binary(func(a, b int) int { return a + b })
	case SUB:
		binary(func(a, b int) int { return a - b })
	case MUL:
		binary(func(a, b int) int { return a * b })
	case DIV:
		if top(2) == 0 {
			return cpu.fault(DivisionByZero, ins, NoValue)
		}
		binary(func(a, b int) int { return a / b })
	case DUP:
		cpu.Stack.Data = append(data, top(1))
	case AND:
		binary(func(a, b int) int { return a & b })
	case OR:
		binary(func(a, b int) int { return a | b })
	case CALL:
		err = jump(top(1))
		if err != nil {
			return
		}
		// Return address replaces the target.
		data[depth-1] = cpu.Ip
	case RET:
		target := top(1)
		if target != NoValue {
			target++
		}
		err = jump(target)
		if err != nil {
			return
		}
		cpu.Stack.Data = data[:depth-1]
	case JMP:
		err = jump(top(1))
		if err != nil {
			return
		}
		cpu.Stack.Data = data[:depth-1]
	case CMP:
		binary(func(a, b int) int {
			if a == b {
				return 1
			}
			return 0
		})
	case JNZ, JZ:
		target, cond := top(1), top(2)
		if (cond != 0) == (ins.Code == JNZ) {
			err = jump(target)
			if err != nil {
				return
			}
		}
		cpu.Stack.Data = data[:depth-2]
	}

	cpu.Ip = next_ip
	cpu.Ticks += 1

	return
}
