package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	var sp uint8

	s.Push(&sp, 0x42)
	assert.Equal(uint8(1), sp)
	assert.Equal(uint8(0x42), s.Data[0])
	assert.Equal(uint8(0x42), s.Peek(sp))
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	var sp uint8

	s.Push(&sp, 0x12)
	s.Push(&sp, 0x34)

	assert.Equal(uint8(0x34), s.Pop(&sp))
	assert.Equal(uint8(1), sp)
	assert.Equal(uint8(0x12), s.Pop(&sp))
	assert.Equal(uint8(0), sp)
}

func TestStack_Wrap(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	sp := uint8(0xff)

	s.Push(&sp, 0x99)
	assert.Equal(uint8(0), sp)
	assert.Equal(uint8(0x99), s.Data[0xff])

	// Underflow wraps to the top of the stack.
	assert.Equal(uint8(0x99), s.Pop(&sp))
	assert.Equal(uint8(0xff), sp)
}

func TestStack_Reset(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	var sp uint8
	s.Push(&sp, 0x12)

	s.Reset()
	assert.Equal(Stack{}, *s)
}

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	var mem Memory
	copy(mem[0x10:], "/flag\x00junk")
	assert.Equal("/flag", mem.CString(0x10))
	assert.Equal("", mem.CString(0x00))

	copy(mem[0xfd:], "abc")
	assert.Equal("abc", mem.CString(0xfd))

	mem.Scatter(0xfe, []uint8{1, 2, 3})
	assert.Equal(uint8(1), mem[0xfe])
	assert.Equal(uint8(2), mem[0xff])
	assert.Equal(uint8(3), mem[0x00])
	assert.Equal([]uint8{1, 2, 3}, mem.Gather(0xfe, 3))
	assert.Equal([]uint8{}, mem.Gather(0x20, 0))

	mem.Reset()
	assert.Equal(Memory{}, mem)
}
