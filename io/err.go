package io

import (
	"errors"

	"github.com/ezrec/yan85/translate"
)

var f = translate.From

var (
	// Descriptor errors
	ErrDescriptorInvalid  = errors.New(f("descriptor invalid"))
	ErrDescriptorReadOnly = errors.New(f("descriptor read only"))
	ErrDescriptorFull     = errors.New(f("descriptor table full"))
)

// ErrOpen indicates a file that could not be opened.
type ErrOpen struct {
	Path string
	Err  error
}

func (err *ErrOpen) Error() string {
	return f("open '%v': %v", err.Path, err.Err)
}

func (err *ErrOpen) Unwrap() error {
	return err.Err
}
