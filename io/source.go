// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"bufio"
	"io"
	"os"
)

// ReadLines splits an assembly source into its lines, line endings removed.
func ReadLines(input io.Reader) (lines []string, err error) {
	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	err = scanner.Err()

	return
}

// ReadFile reads the lines of an assembly source file.
func ReadFile(path string) (lines []string, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	lines, err = ReadLines(inf)

	return
}
