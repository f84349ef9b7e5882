package io

import (
	"bufio"
	"io"
)

// Tape is a console over sequential byte streams.
//
// Reads block on Input, which suspends the simulation until input
// arrives. A nil Input reads as ErrNoInput, and a nil Output as ErrNoOutput.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	reader *bufio.Reader
	source io.Reader
}

var _ Console = (*Tape)(nil)

func (tc *Tape) input() (reader *bufio.Reader, err error) {
	if tc.Input == nil {
		err = ErrNoInput
		return
	}

	if tc.reader == nil || tc.source != tc.Input {
		tc.reader = bufio.NewReader(tc.Input)
		tc.source = tc.Input
	}

	reader = tc.reader
	return
}

// Rewind is not possible on a tape; bytes already buffered are kept.
func (tc *Tape) Rewind() {
}

// ReadLine reads through the next newline. A final line without a newline
// is returned with a nil error; after that, io.EOF.
func (tc *Tape) ReadLine() (line string, err error) {
	reader, err := tc.input()
	if err != nil {
		return
	}

	line, err = reader.ReadString('\n')
	if err == io.EOF && len(line) > 0 {
		err = nil
	}
	return
}

// ReadByte reads a single byte.
func (tc *Tape) ReadByte() (b byte, err error) {
	reader, err := tc.input()
	if err != nil {
		return
	}

	b, err = reader.ReadByte()
	return
}

// Write sends bytes to Output.
func (tc *Tape) Write(data []byte) (n int, err error) {
	if tc.Output == nil {
		err = ErrNoOutput
		return
	}

	n, err = tc.Output.Write(data)
	return
}
