// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"io"
	"strconv"
	"unicode/utf8"
)

// Console writes program output to an io.Writer. Integers are written in
// decimal with no separator, characters as their UTF-8 encoding.
type Console struct {
	Output io.Writer

	Written int // Bytes written since the last Rewind.
}

var _ Channel = (*Console)(nil)

// Rewind clears the byte counter. Output already written is not recalled.
func (con *Console) Rewind() {
	con.Written = 0
}

// SendInt writes the decimal form of value.
func (con *Console) SendInt(value int) (err error) {
	var buf [20]byte
	err = con.write(strconv.AppendInt(buf[:0], int64(value), 10))
	return
}

// SendChar writes the character whose code is value. Codes that are not
// valid Unicode scalar values are written as U+FFFD.
func (con *Console) SendChar(value int) (err error) {
	r := utf8.RuneError
	if value >= 0 && value <= utf8.MaxRune {
		r = rune(value)
	}

	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	err = con.write(buf[:n])
	return
}

func (con *Console) write(data []byte) (err error) {
	if con.Output == nil {
		err = ErrChannelClosed
		return
	}

	n, err := con.Output.Write(data)
	con.Written += n

	return
}
