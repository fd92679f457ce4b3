package cpu

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

const (
	IMAGE_MAGIC    = "stackvm/1" // Identifies a stack machine program image.
	IMAGE_CAPACITY = 1 << 20     // Largest store or symbol table an image may ask for.
)

// image is the serialized form of a Program.
type image struct {
	Magic    string  `cbor:"1,keyasint"`
	Capacity int     `cbor:"2,keyasint"`
	Opcodes  []Code  `cbor:"3,keyasint"`
	Operands []int   `cbor:"4,keyasint"`
	LineNo   []int   `cbor:"5,keyasint"`
	Labels   []Label `cbor:"6,keyasint,omitempty"`
	MaxLabel int     `cbor:"7,keyasint,omitempty"`
}

// Canonical encoding, so the same program always gives the same bytes.
var imageEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cpu: failed to create CBOR enc mode: %v", err))
	}
	imageEncMode = em
}

// MarshalBinary serializes the program, with its labels, to CBOR.
func (prog *Program) MarshalBinary() (data []byte, err error) {
	img := image{
		Magic:    IMAGE_MAGIC,
		Capacity: prog.Capacity(),
		Opcodes:  prog.Opcodes,
		Operands: prog.Operands,
		LineNo:   prog.LineNo,
	}
	if prog.Symbols != nil {
		img.Labels = prog.Symbols.Labels
		img.MaxLabel = cap(prog.Symbols.Labels)
	}

	data, err = imageEncMode.Marshal(&img)

	return
}

// UnmarshalProgram deserializes a program image. Opcodes are not checked;
// an unknown opcode faults when it is executed.
func UnmarshalProgram(data []byte) (prog *Program, err error) {
	var img image
	err = cbor.Unmarshal(data, &img)
	if err != nil {
		err = errors.Join(ErrImageInvalid, err)
		return
	}

	switch {
	case img.Magic != IMAGE_MAGIC:
		err = fmt.Errorf("%w: magic %q", ErrImageInvalid, img.Magic)
	case img.Capacity <= 0 || img.Capacity > IMAGE_CAPACITY:
		err = fmt.Errorf("%w: capacity %d", ErrImageInvalid, img.Capacity)
	case len(img.Opcodes) > img.Capacity:
		err = fmt.Errorf("%w: %w", ErrImageInvalid, ProgramTooLarge)
	case len(img.Operands) != len(img.Opcodes) || len(img.LineNo) != len(img.Opcodes):
		err = fmt.Errorf("%w: %d opcodes, %d operands, %d lines", ErrImageInvalid,
			len(img.Opcodes), len(img.Operands), len(img.LineNo))
	case img.MaxLabel < 0 || img.MaxLabel > IMAGE_CAPACITY:
		err = fmt.Errorf("%w: label capacity %d", ErrImageInvalid, img.MaxLabel)
	case len(img.Labels) > img.MaxLabel:
		err = fmt.Errorf("%w: %w", ErrImageInvalid, TooManyLabels)
	}
	if err != nil {
		return
	}

	prog = NewProgram(img.Capacity)
	prog.Opcodes = append(prog.Opcodes, img.Opcodes...)
	prog.Operands = append(prog.Operands, img.Operands...)
	prog.LineNo = append(prog.LineNo, img.LineNo...)

	if img.MaxLabel > 0 {
		prog.Symbols = NewSymbolTable(img.MaxLabel)
		prog.Symbols.Labels = append(prog.Symbols.Labels, img.Labels...)
	}

	return
}
