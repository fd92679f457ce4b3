package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		text     string
		expected Line
	}){
		{"", Line{Kind: KIND_BLANK}},
		{"   \t ", Line{Kind: KIND_BLANK}},
		{"  ; PUSH 3", Line{Kind: KIND_BLANK}},
		{"\r\n", Line{Kind: KIND_BLANK}},
		{"loop:", Line{Label: "loop", HasLabel: true, Kind: KIND_BLANK}},
		{"  loop  :  ; top", Line{Label: "loop", HasLabel: true, Kind: KIND_BLANK}},
		{"loop: OUT", Line{Label: "loop", HasLabel: true, Kind: KIND_INSTR, Mnemonic: "OUT"}},
		{"@loop", Line{Kind: KIND_REF, Ref: "loop"}},
		{"  @ loop ; back\n", Line{Kind: KIND_REF, Ref: "loop"}},
		{"JMP @end", Line{Kind: KIND_REF, Ref: "end"}},
		{"x: @end", Line{Label: "x", HasLabel: true, Kind: KIND_REF, Ref: "end"}},
		{"PUSH 3", Line{Kind: KIND_INSTR, Mnemonic: "PUSH", Arg: "3"}},
		{"  push\t-12 ; minus", Line{Kind: KIND_INSTR, Mnemonic: "PUSH", Arg: "-12"}},
		{"Add", Line{Kind: KIND_INSTR, Mnemonic: "ADD"}},
		{"out\r", Line{Kind: KIND_INSTR, Mnemonic: "OUT"}},
		{"PUSH $(MAX_DEPTH - 1)", Line{Kind: KIND_INSTR, Mnemonic: "PUSH", Arg: "$(MAX_DEPTH - 1)"}},
		{"; loop: @loop", Line{Kind: KIND_BLANK}},
		{"PUSH 1 ; a: @b", Line{Kind: KIND_INSTR, Mnemonic: "PUSH", Arg: "1"}},
		{"OUT\x00garbage", Line{Kind: KIND_INSTR, Mnemonic: "OUT"}},
		{"PUSH 4\x00: @x", Line{Kind: KIND_INSTR, Mnemonic: "PUSH", Arg: "4"}},
		{"\x00NOP", Line{Kind: KIND_BLANK}},
	}

	for _, entry := range table {
		assert.Equal(entry.expected, Classify(entry.text), "%q", entry.text)
	}
}

func TestLine_Blank(t *testing.T) {
	assert := assert.New(t)

	assert.True(Classify(" ; nothing").Blank())
	assert.False(Classify("a:").Blank())
	assert.True(Classify("a:").LabelOnly())
	assert.False(Classify("a: NOP").LabelOnly())
	assert.False(Classify("@a").Blank())
	assert.False(Classify("NOP").Blank())
}

func TestContent(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("PUSH 1 ", Content("PUSH 1 ; one"))
	assert.Equal("OUT", Content("OUT\r\n"))
	assert.Equal("", Content(";"))
	assert.Equal("NOP", Content("NOP"))
	assert.Equal("OUT", Content("OUT\x00garbage"))
}

func TestKind_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("blank", KIND_BLANK.String())
	assert.Equal("ref", KIND_REF.String())
	assert.Equal("instr", KIND_INSTR.String())
	assert.Equal("Kind(9)", Kind(9).String())
}
