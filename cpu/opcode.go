// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"strings"
)

// Opcode is a symbolic instruction kind.
type Opcode int

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_IMM = Opcode(0) // IMM
	OP_ADD = Opcode(1) // ADD
	OP_STK = Opcode(2) // STK
	OP_STM = Opcode(3) // STM
	OP_LDM = Opcode(4) // LDM
	OP_CMP = Opcode(5) // CMP
	OP_JMP = Opcode(6) // JMP
	OP_SYS = Opcode(7) // SYS

	OPCODE_COUNT = 8
)

// Register is a symbolic register name.
type Register int

//go:generate go tool stringer -linecomment -type=Register
const (
	REG_A    = Register(0) // a
	REG_B    = Register(1) // b
	REG_C    = Register(2) // c
	REG_D    = Register(3) // d
	REG_S    = Register(4) // s
	REG_I    = Register(5) // i
	REG_F    = Register(6) // f
	REG_NONE = Register(7) // NONE

	REGISTER_COUNT = 7
)

// Valid returns true if the register names one of the register file cells.
func (reg Register) Valid() bool {
	return reg >= REG_A && reg < REG_NONE
}

// Flags is a set of comparison flags. The bits are symbolic; the encoding
// table maps each one to its level-specific byte value.
type Flags uint8

const (
	FLAG_L = Flags(1 << 0) // L: less than
	FLAG_G = Flags(1 << 1) // G: greater than
	FLAG_E = Flags(1 << 2) // E: equal
	FLAG_N = Flags(1 << 3) // N: not equal
	FLAG_Z = Flags(1 << 4) // Z: both operands zero

	FLAG_COUNT = 5
	FLAG_ALL   = FLAG_L | FLAG_G | FLAG_E | FLAG_N | FLAG_Z
)

const flagLetters = "LGENZ"

// ParseFlags converts flag letters (repeats allowed) into a flag set.
// A lone "*" is the empty set.
func ParseFlags(letters string) (flags Flags, err error) {
	if letters == "*" {
		return
	}
	if len(letters) == 0 {
		err = ErrFlagInvalid
		return
	}
	for _, letter := range letters {
		n := strings.IndexRune(flagLetters, letter)
		if n < 0 {
			err = ErrFlagInvalid
			return
		}
		flags |= 1 << n
	}
	return
}

// Has returns true if every flag in other is also in flags.
func (flags Flags) Has(other Flags) bool {
	return flags&other == other
}

func (flags Flags) String() string {
	var sb strings.Builder
	for n := range FLAG_COUNT {
		if flags&(1<<n) != 0 {
			sb.WriteByte(flagLetters[n])
		}
	}
	if sb.Len() == 0 {
		return "*"
	}
	return sb.String()
}

// Syscall is a symbolic host system call.
type Syscall int

//go:generate go tool stringer -linecomment -type=Syscall
const (
	SYS_OPEN        = Syscall(0) // OPEN
	SYS_READ_CODE   = Syscall(1) // READ_CODE
	SYS_READ_MEMORY = Syscall(2) // READ_MEMORY
	SYS_WRITE       = Syscall(3) // WRITE
	SYS_SLEEP       = Syscall(4) // SLEEP
	SYS_EXIT        = Syscall(5) // EXIT

	SYSCALL_COUNT = 6
)

// Returns is true if the syscall writes a result register.
func (sys Syscall) Returns() bool {
	return sys != SYS_EXIT
}

// Role is the meaning of one byte of an instruction triple.
type Role int

//go:generate go tool stringer -linecomment -type=Role
const (
	ROLE_OP = Role(0) // op
	ROLE_A  = Role(1) // a
	ROLE_B  = Role(2) // b
)
