package cpu

import (
	"bytes"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	vmio "github.com/ezrec/stackvm/io"
)

func FuzzCpu(f *testing.F) {
	for _, code := range codeMap {
		f.Add(int(code), 0, 0, uint8(0))
		f.Add(int(code), 3, 7, uint8(2))
		f.Add(int(code), 0, 1, uint8(3))
		f.Add(int(code), -1, NoValue, uint8(2))
	}
	f.Add(42, 1, 2, uint8(2))

	f.Fuzz(func(t *testing.T, opcode int, a int, b int, depth uint8) {
		assert := assert.New(t)

		ins := Instruction{Code: Code(opcode), Operand: a}

		cpu := NewCpu(4)
		cpu.Output = &vmio.Console{Output: &bytes.Buffer{}}
		cpu.Reset(NewProgram(16))
		cpu.Ip = 5

		values := []int{b, a, b}
		for _, value := range values[:min(int(depth), len(values))] {
			assert.NoError(cpu.Stack.Push(value))
		}

		before := slices.Clone(cpu.Stack.Data)

		err := cpu.Execute(ins)
		if err != nil {
			var cpuErr *Error
			if errors.As(err, &cpuErr) {
				assert.Equal(5, cpuErr.Ip)
				assert.Equal(ins, cpuErr.Code)
				assert.Equal(before, cpuErr.Stack)
			}
			// A fault changes nothing.
			assert.Equal(5, cpu.Ip)
			assert.Equal(before, cpu.Stack.Data)
			assert.Equal(0, cpu.Ticks)
			return
		}

		assert.True(ins.Code.Valid())
		assert.Equal(1, cpu.Ticks)
		assert.LessOrEqual(cpu.Stack.Depth(), 4)
		assert.GreaterOrEqual(cpu.Ip, 0)
		assert.Less(cpu.Ip, 16)
	})
}
