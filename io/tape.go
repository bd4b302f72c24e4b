package io

import (
	"errors"
	"io"
)

// Tape provides sequential I/O for one of the standard descriptors.
// It wraps an io.Reader for input and io.Writer for output; either may be nil.
type Tape struct {
	Input  io.Reader
	Output io.Writer
}

var _ io.ReadWriter = (*Tape)(nil)

// Read reads from the input stream. A missing input or end of stream reads
// zero bytes.
func (tc *Tape) Read(data []byte) (n int, err error) {
	if tc.Input == nil {
		return
	}

	n, err = tc.Input.Read(data)
	if errors.Is(err, io.EOF) {
		err = nil
	}

	return
}

// Write writes to the output stream.
func (tc *Tape) Write(data []byte) (n int, err error) {
	if tc.Output == nil {
		err = ErrDescriptorReadOnly
		return
	}

	return tc.Output.Write(data)
}
