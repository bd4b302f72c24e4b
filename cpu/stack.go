package cpu

const (
	STACK_SIZE = 256 // Stack cells, indexed by the S register.
)

// Stack is the fixed stack buffer. The stack pointer lives in the register
// file; Push and Pop wrap at 8 bits with no overflow detection.
type Stack struct {
	Data [STACK_SIZE]uint8
}

// Push stores value at the slot sp names, then advances sp.
func (s *Stack) Push(sp *uint8, value uint8) {
	s.Data[*sp] = value
	*sp++
}

// Pop retreats sp, then returns the value at the slot it names.
func (s *Stack) Pop(sp *uint8) (value uint8) {
	*sp--
	value = s.Data[*sp]
	return
}

// Peek returns the value below sp, without moving it.
func (s *Stack) Peek(sp uint8) (value uint8) {
	return s.Data[sp-1]
}

// Reset zeros the stack.
func (s *Stack) Reset() {
	clear(s.Data[:])
}
