// Package cpu implements the Yan85 virtual processor, its codec and its assembler.
//
// Yan85 has seven 8-bit registers (a, b, c, d, s, i, f), a 256 byte stack
// addressed by s, and 256 bytes of data memory. The instruction pointer i
// indexes whole instructions, not bytes. Every instruction is a 3 byte
// triple; which byte is the opcode, and what value each opcode, register,
// flag and syscall has, is decided by an encoding Table. The same program
// text therefore assembles to different bytes under different tables.
//
// The assembler reads one instruction per line, and supports labels,
// equates, character literals, macros, and compile-time expression
// evaluation.
package cpu
