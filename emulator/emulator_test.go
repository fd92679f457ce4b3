package emulator

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/stackvm/config"
	"github.com/ezrec/stackvm/cpu"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(config.Default())

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.Equal(cpu.MAX_INSTR, emu.Program.Capacity())
	assert.Equal(cpu.MAX_DEPTH, cap(emu.Cpu.Stack.Data))

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}
	assert.Equal("1000", defines["MAX_INSTR"])
	assert.Equal("100", defines["MAX_DEPTH"])
	assert.Equal("0", defines["MAX_TICKS"])

	// Nothing loaded, nothing to run.
	emu.Reset()
	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
}

func doRun(emu *Emulator, program []string, t *testing.T) (output string, err error) {
	assert := assert.New(t)

	err = emu.Assemble(program)
	assert.NoError(err)
	if err != nil {
		t.Fatalf("%v", err)
	}

	buffer := &bytes.Buffer{}
	emu.Console.Output = buffer
	emu.Reset()

	err = emu.Run()

	output = buffer.String()
	return
}

func TestEmulatorRun(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		program  []string
		expected string
	}){
		{[]string{"PUSH 3", "PUSH 4", "ADD", "OUT"}, "7"},
		{[]string{"PUSH 10", "PUSH 3", "SUB", "OUT"}, "-7"},
		{[]string{
			"; hello",
			"PUSH 72",
			"COUT",
			"POP",
			"PUSH 105",
			"COUT",
		}, "Hi"},
		{[]string{
			"PUSH $(MAX_DEPTH - 1)",
			"OUT",
		}, "99"},
	}

	for _, entry := range table {
		emu := NewEmulator(config.Default())
		output, err := doRun(emu, entry.program, t)
		assert.NoError(err, entry.program)
		assert.Equal(entry.expected, output, entry.program)
	}
}

func TestEmulatorStep(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"PUSH 1", // 1
		"",       // 2
		"@next",  // 3
		"JMP",    // 4
		"next:",  // 5
		"OUT",    // 6
	}

	emu := NewEmulator(config.Default())
	assert.NoError(emu.Assemble(program))
	emu.Console.Output = &bytes.Buffer{}
	emu.Reset()

	// The label line is a NOP that the jump skips.
	lines := []int{1, 3, 4, 6}
	for _, lineno := range lines {
		assert.Equal(lineno, emu.LineNo())
		done, err := emu.Tick()
		assert.NoError(err)
		assert.False(done)
	}

	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
	assert.Equal(4, emu.Ticks())
	assert.Equal(5, emu.Ip())
}

func TestEmulatorFault(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"PUSH 1",
		"POP",
		"; empty now",
		"OUT",
	}

	emu := NewEmulator(config.Default())
	_, err := doRun(emu, program, t)

	assert.ErrorIs(err, cpu.StackUnderflow)

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(4, runtime.LineNo)
	}

	var cpuErr *cpu.Error
	if assert.True(errors.As(err, &cpuErr)) {
		assert.Equal(2, cpuErr.Ip)
	}

	assert.Equal(cpu.HALTED, emu.State())
	assert.True(strings.HasPrefix(err.Error(), "line 4 "))
}

func TestEmulatorUnresolvedLabel(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"@missing",
		"JMP",
	}

	emu := NewEmulator(config.Default())
	_, err := doRun(emu, program, t)
	assert.ErrorIs(err, cpu.JumpOutOfBounds)

	emu.Strict = true
	err = emu.Assemble(program)
	assert.ErrorIs(err, cpu.ErrLabelMissing("missing"))
}

func TestEmulatorTickLimit(t *testing.T) {
	assert := assert.New(t)

	cfg := config.Default()
	cfg.MaxTicks = 10

	program := []string{
		"loop:",
		"@loop",
		"JMP",
	}

	emu := NewEmulator(cfg)
	_, err := doRun(emu, program, t)
	assert.ErrorIs(err, ErrTickLimit)
	assert.Equal(10, emu.Ticks())
	assert.Equal(cpu.HALTED, emu.State())
}

func TestEmulatorCapacities(t *testing.T) {
	assert := assert.New(t)

	cfg := config.Default()
	cfg.MaxInstr = 2
	cfg.MaxDepth = 1

	emu := NewEmulator(cfg)
	err := emu.Assemble([]string{"NOP", "NOP", "NOP"})
	assert.ErrorIs(err, cpu.ProgramTooLarge)

	_, err = doRun(emu, []string{"PUSH 1", "PUSH 2"}, t)
	assert.ErrorIs(err, cpu.StackOverflow)
}

func TestEmulatorLoadFile(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "sum.asm")
	assert.NoError(os.WriteFile(path, []byte("PUSH 3\nPUSH 4\nADD\nOUT\n"), 0o644))

	emu := NewEmulator(config.Default())
	assert.NoError(emu.LoadFile(path))
	assert.Equal(4, emu.Program.Len())

	err := emu.LoadFile(filepath.Join(dir, "missing.asm"))
	assert.ErrorIs(err, cpu.FileNotFound)
	assert.Equal(4, emu.Program.Len())
}

func TestEmulatorLoadImage(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"PUSH 3",
		"loop: OUT",
		"PUSH -1",
		"ADD",
		"DUP",
		"@loop",
		"JNZ",
	}

	emu := NewEmulator(config.Default())
	expected, err := doRun(emu, program, t)
	assert.NoError(err)
	assert.Equal("321", expected)

	data, err := emu.Program.MarshalBinary()
	assert.NoError(err)

	loaded := NewEmulator(config.Default())
	assert.NoError(loaded.LoadImage(data))

	buffer := &bytes.Buffer{}
	loaded.Console.Output = buffer
	loaded.Reset()
	assert.NoError(loaded.Run())
	assert.Equal(expected, buffer.String())

	small := config.Default()
	small.MaxInstr = 4
	err = NewEmulator(small).LoadImage(data)
	assert.ErrorIs(err, cpu.ProgramTooLarge)

	err = loaded.LoadImage([]byte("not an image"))
	assert.ErrorIs(err, cpu.ErrImageInvalid)
}

func TestEmulatorLoadImage_Capacity(t *testing.T) {
	assert := assert.New(t)

	// Saved from a machine with a much larger store.
	asm := &cpu.Assembler{MaxInstr: 1 << 20, MaxLabels: 4}
	prog, err := asm.ParseLines([]string{"PUSH 5000", "JMP"})
	assert.NoError(err)
	assert.Equal(1<<20, prog.Capacity())

	data, err := prog.MarshalBinary()
	assert.NoError(err)

	emu := NewEmulator(config.Default())
	assert.NoError(emu.LoadImage(data))
	assert.Equal(cpu.MAX_INSTR, emu.Program.Capacity())

	emu.Reset()
	assert.Equal(cpu.MAX_INSTR, emu.Cpu.Capacity())
	err = emu.Run()
	assert.ErrorIs(err, cpu.JumpOutOfBounds)

	var cpuErr *cpu.Error
	if assert.True(errors.As(err, &cpuErr)) {
		assert.Equal(5000, cpuErr.Addr)
		assert.Equal(1, cpuErr.Ip)
	}

	small := config.Default()
	small.MaxLabels = 2
	asm = &cpu.Assembler{MaxLabels: 4}
	prog, err = asm.ParseLines([]string{"a: NOP", "b: NOP", "c: NOP"})
	assert.NoError(err)
	data, err = prog.MarshalBinary()
	assert.NoError(err)
	err = NewEmulator(small).LoadImage(data)
	assert.ErrorIs(err, cpu.TooManyLabels)
}
