package cpu

import (
	"strings"
	"unicode"
)

const (
	MAX_LINE_LEN = 81 // Default line buffer size, line ending included.
)

// Kind is the classification of the body of a source line.
// KIND_BLANK is nothing but whitespace, KIND_REF an '@name' label
// reference, and KIND_INSTR a mnemonic with an optional argument.
type Kind int

//go:generate go tool stringer -linecomment -type=Kind
const (
	KIND_BLANK = Kind(0) // blank
	KIND_REF   = Kind(1) // ref
	KIND_INSTR = Kind(2) // instr
)

// Line is a classified source line. A line may define a label and still
// carry a reference or instruction after the ':'.
type Line struct {
	Label    string // Label defined by the line, if HasLabel.
	HasLabel bool

	Kind     Kind
	Ref      string // Referenced label name, for KIND_REF.
	Mnemonic string // Upper case mnemonic, for KIND_INSTR.
	Arg      string // Trimmed argument text, for KIND_INSTR.
}

// Blank returns true if the line occupies no instruction address.
func (line Line) Blank() bool {
	return !line.HasLabel && line.Kind == KIND_BLANK
}

// LabelOnly returns true if the line defines a label and nothing else.
func (line Line) LabelOnly() bool {
	return line.HasLabel && line.Kind == KIND_BLANK
}

// isTerminating returns true for the characters that end the meaningful
// part of a line.
func isTerminating(c byte) bool {
	return c == 0 || c == '\n' || c == '\r' || c == ';'
}

// Content returns the part of a line before its terminator.
func Content(text string) string {
	for n := 0; n < len(text); n++ {
		if isTerminating(text[n]) {
			return text[:n]
		}
	}
	return text
}

// Classify determines the kind of a source line and extracts its fields.
func Classify(text string) (line Line) {
	text = Content(text)

	if label, rest, ok := strings.Cut(text, ":"); ok {
		line.Label = strings.TrimSpace(label)
		line.HasLabel = true
		text = rest
	}

	if _, ref, ok := strings.Cut(text, "@"); ok {
		line.Kind = KIND_REF
		line.Ref = strings.TrimSpace(ref)
		return
	}

	text = strings.TrimSpace(text)
	if len(text) == 0 {
		line.Kind = KIND_BLANK
		return
	}

	line.Kind = KIND_INSTR
	mnemonic, arg := text, ""
	if n := strings.IndexFunc(text, unicode.IsSpace); n >= 0 {
		mnemonic, arg = text[:n], text[n:]
	}
	line.Mnemonic = strings.ToUpper(mnemonic)
	line.Arg = strings.TrimSpace(arg)

	return
}
