// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package io provides the program output channel of the stack machine and
// the loader that splits assembly source into line buffers.
package io

// Channel defines the interface for the output side of the machine.
// OUT and COUT are the only instructions that use it.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// SendInt writes the decimal form of a value.
	SendInt(value int) error
	// SendChar writes the character whose code is value.
	SendChar(value int) error
}
