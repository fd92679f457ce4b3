package cpu

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Listing renders the program store as a table of address, source line,
// labels, opcode and operand. Missing operands are shown as '-'.
func (prog *Program) Listing() string {
	tw := table.NewWriter()
	tw.SetTitle(f("Program (%v/%v instructions)", strconv.Itoa(prog.Len()), strconv.Itoa(prog.Capacity())))
	tw.AppendHeader(table.Row{"Addr", "Line", "Label", "Opcode", "Operand"})

	for ip, ins := range prog.Instructions() {
		operand := "-"
		if ins.HasOperand() {
			operand = fmt.Sprintf("%d", ins.Operand)
		}
		labels := strings.Join(prog.Symbols.At(ip), " ")
		tw.AppendRow(table.Row{fmt.Sprintf("%03d", ip), prog.Debug(ip), labels, ins.Code.String(), operand})
	}

	return tw.Render()
}
