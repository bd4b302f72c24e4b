package cpu

const (
	MEMORY_SIZE = 256 // Memory cells, addressed by one byte.
)

// Memory is the byte addressed data memory.
type Memory [MEMORY_SIZE]uint8

// CString returns the bytes from addr up to a NUL, or up to the end of
// memory if there is none.
func (mem *Memory) CString(addr uint8) string {
	end := int(addr)
	for end < MEMORY_SIZE && mem[end] != 0 {
		end++
	}
	return string(mem[addr:end])
}

// Gather copies count bytes starting at addr, wrapping modulo 256.
func (mem *Memory) Gather(addr uint8, count uint8) (data []uint8) {
	data = make([]uint8, count)
	for n := range data {
		data[n] = mem[addr+uint8(n)]
	}
	return
}

// Scatter copies data into memory starting at addr, wrapping modulo 256.
func (mem *Memory) Scatter(addr uint8, data []uint8) {
	for n, value := range data {
		mem[addr+uint8(n)] = value
	}
}

// Reset zeros the memory.
func (mem *Memory) Reset() {
	clear(mem[:])
}
