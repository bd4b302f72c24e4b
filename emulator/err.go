package emulator

import (
	"github.com/ezrec/yan85/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Index  int // Instruction index.
	LineNo int // Source line, zero if unknown.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("instruction %d %v", err.Index, err.Err)
	}
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrImage indicates a memory image of the wrong size.
type ErrImage struct {
	Size int
}

func (err *ErrImage) Error() string {
	return f("memory image is %d bytes, not 256", err.Size)
}
