// Package io provides the console devices used by the simulated program's
// print and read syscalls.
//
// Two consoles are provided: Tape, which wraps an io.Reader and io.Writer
// and blocks the simulation while waiting on input, and Queue, which never
// blocks and reports ErrInputPending when a read cannot be satisfied yet.
package io

import (
	"io"
)

// Console is the character device seen by syscalls.
type Console interface {
	io.Writer

	// Rewind discards any buffered input.
	Rewind()
	// ReadLine returns the next line of input, including its
	// terminating newline if one was read.
	ReadLine() (line string, err error)
	// ReadByte returns the next byte of input.
	ReadByte() (b byte, err error)
}
