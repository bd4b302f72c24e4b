package cpu

import (
	"iter"
)

const (
	PROGRAM_LIMIT = 256 // Maximum instructions addressable by the I register.
)

// Program is a list of instructions, and the source line of each.
type Program struct {
	Instructions []Instruction
	Lines        []int // Source line per instruction; may be empty.
}

// Debug is an instruction and where it came from.
type Debug struct {
	Instruction Instruction
	Index       int
	LineNo      int // Zero if unknown.
}

// NewProgram wraps a list of instructions with no source lines.
func NewProgram(insts []Instruction) (prog *Program) {
	prog = &Program{Instructions: insts}
	return
}

// Len returns the number of instructions.
func (prog *Program) Len() int {
	return len(prog.Instructions)
}

// LineNo returns the source line of an instruction, or zero.
func (prog *Program) LineNo(index int) int {
	if index < 0 || index >= len(prog.Lines) {
		return 0
	}
	return prog.Lines[index]
}

// Debug returns the instruction at index. ok is false when index is outside
// the program.
func (prog *Program) Debug(index int) (dbg Debug, ok bool) {
	if index < 0 || index >= len(prog.Instructions) {
		return
	}

	dbg = Debug{
		Instruction: prog.Instructions[index],
		Index:       index,
		LineNo:      prog.LineNo(index),
	}
	ok = true
	return
}

// All iterates over the instructions by index.
func (prog *Program) All() iter.Seq2[int, Instruction] {
	return func(yield func(index int, inst Instruction) bool) {
		for n, inst := range prog.Instructions {
			if !yield(n, inst) {
				return
			}
		}
	}
}

// Binary encodes the program in wire format.
func (prog *Program) Binary(t *Table) (data []uint8) {
	return Assemble(prog.Instructions, t)
}

// Listing returns the program as assembly text, one instruction per line.
func (prog *Program) Listing() (text string) {
	for _, inst := range prog.Instructions {
		text += inst.String() + "\n"
	}
	return
}
