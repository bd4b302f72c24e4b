// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"

	"github.com/ezrec/yan85/internal"
)

// ByteOrder places the three roles of an instruction into wire positions.
type ByteOrder struct {
	Op uint8 // Position of the opcode byte.
	A  uint8 // Position of the first operand byte.
	B  uint8 // Position of the second operand byte.
}

// Slot returns the wire position of a role.
func (bo ByteOrder) Slot(role Role) int {
	switch role {
	case ROLE_A:
		return int(bo.A)
	case ROLE_B:
		return int(bo.B)
	default:
		return int(bo.Op)
	}
}

// TableSpec is the raw, unvalidated form of an encoding table: five groups,
// each a map from mnemonic to byte value.
type TableSpec struct {
	Flag      map[string]uint8 `yaml:"flag"`
	Opcode    map[string]uint8 `yaml:"opcode"`
	Register  map[string]uint8 `yaml:"register"`
	Syscall   map[string]uint8 `yaml:"syscall"`
	ByteOrder map[string]uint8 `yaml:"byte_order"`
}

// Table is a validated encoding table. It is immutable once built.
type Table struct {
	opcode   [OPCODE_COUNT]uint8
	register [REGISTER_COUNT]uint8
	flag     [FLAG_COUNT]uint8
	syscall  map[Syscall]uint8
	order    ByteOrder

	opcodeOf   map[uint8]Opcode
	registerOf map[uint8]Register
	syscallOf  map[uint8]Syscall
	flagMask   uint8
}

// Mnemonics used in the table file.
var (
	flagKey     = [FLAG_COUNT]string{"L", "G", "E", "N", "Z"}
	registerKey = [REGISTER_COUNT]string{"A", "B", "C", "D", "S", "I", "F"}
	orderKey    = [3]string{"op", "a", "b"}
)

// enumNames lists the names of the first count values of an enum.
func enumNames[T interface {
	~int
	String() string
}](count int) (names []string) {
	names = make([]string, count)
	for n := range count {
		names[n] = T(n).String()
	}
	return
}

// lookup resolves every name of a group, in index order.
func lookup(group string, values map[string]uint8, names []string, required bool) (out []uint8, present []bool, err error) {
	known := make(map[string]bool, len(names))
	for _, name := range names {
		known[name] = true
	}
	for name := range values {
		if !known[name] {
			err = &ErrConfig{Group: group, Name: name, Err: ErrConfigUnknown}
			return
		}
	}

	seen := make(map[uint8]string, len(names))
	out = make([]uint8, len(names))
	present = make([]bool, len(names))
	for n, name := range names {
		value, ok := values[name]
		if !ok {
			if required {
				err = &ErrConfig{Group: group, Name: name, Err: ErrConfigMissing}
				return
			}
			continue
		}
		other, dup := seen[value]
		if dup {
			err = &ErrConfig{Group: group, Name: name, Err: fmt.Errorf("%w with %v", ErrConfigDuplicate, other)}
			return
		}
		seen[value] = name
		out[n] = value
		present[n] = true
	}

	return
}

// NewTable validates a TableSpec and builds a Table.
//   - Every opcode, register, flag and byte order role must be present.
//   - Syscalls are optional individually.
//   - Values within a group must be distinct.
//   - Registers and flags may not be 0x00.
//   - Flag values may not share bits.
//   - The byte order must be a permutation of 0, 1, 2.
func NewTable(spec TableSpec) (table *Table, err error) {
	t := &Table{
		syscall:    make(map[Syscall]uint8, SYSCALL_COUNT),
		opcodeOf:   make(map[uint8]Opcode, OPCODE_COUNT),
		registerOf: make(map[uint8]Register, REGISTER_COUNT),
		syscallOf:  make(map[uint8]Syscall, SYSCALL_COUNT),
	}

	values, _, err := lookup("opcode", spec.Opcode, enumNames[Opcode](OPCODE_COUNT), true)
	if err != nil {
		return
	}
	for n, value := range values {
		t.opcode[n] = value
		t.opcodeOf[value] = Opcode(n)
	}

	values, _, err = lookup("register", spec.Register, registerKey[:], true)
	if err != nil {
		return
	}
	for n, value := range values {
		if value == 0 {
			err = &ErrConfig{Group: "register", Name: registerKey[n], Err: ErrConfigReserved}
			return
		}
		t.register[n] = value
		t.registerOf[value] = Register(n)
	}

	values, _, err = lookup("flag", spec.Flag, flagKey[:], true)
	if err != nil {
		return
	}
	for n, value := range values {
		if value == 0 {
			err = &ErrConfig{Group: "flag", Name: flagKey[n], Err: ErrConfigReserved}
			return
		}
		if t.flagMask&value != 0 {
			err = &ErrConfig{Group: "flag", Name: flagKey[n], Err: ErrConfigOverlap}
			return
		}
		t.flag[n] = value
		t.flagMask |= value
	}

	values, present, err := lookup("syscall", spec.Syscall, enumNames[Syscall](SYSCALL_COUNT), false)
	if err != nil {
		return
	}
	for n, value := range values {
		if !present[n] {
			continue
		}
		t.syscall[Syscall(n)] = value
		t.syscallOf[value] = Syscall(n)
	}

	values, _, err = lookup("byte_order", spec.ByteOrder, orderKey[:], true)
	if err != nil {
		return
	}
	for _, value := range values {
		if value > 2 {
			err = &ErrConfig{Group: "byte_order", Err: ErrConfigByteOrder}
			return
		}
	}
	t.order = ByteOrder{Op: values[0], A: values[1], B: values[2]}

	table = t
	return
}

// MustTable is NewTable for known-good tables. It panics on error.
func MustTable(spec TableSpec) *Table {
	table, err := NewTable(spec)
	if err != nil {
		panic(err)
	}
	return table
}

// DefaultSpec returns the specification of the built-in level table.
func DefaultSpec() TableSpec {
	return TableSpec{
		Flag: map[string]uint8{
			"L": 0x01, "G": 0x08, "E": 0x04, "N": 0x10, "Z": 0x02,
		},
		Opcode: map[string]uint8{
			"IMM": 0x01, "ADD": 0x02, "STK": 0x80, "STM": 0x10,
			"LDM": 0x20, "CMP": 0x08, "JMP": 0x40, "SYS": 0x04,
		},
		Register: map[string]uint8{
			"A": 0x20, "B": 0x40, "C": 0x08, "D": 0x02,
			"S": 0x10, "I": 0x04, "F": 0x01,
		},
		Syscall: map[string]uint8{
			"OPEN": 0x40, "READ_CODE": 0x20, "READ_MEMORY": 0x10,
			"WRITE": 0x01, "SLEEP": 0x02, "EXIT": 0x08,
		},
		ByteOrder: map[string]uint8{
			"op": 2, "a": 0, "b": 1,
		},
	}
}

// DefaultTable returns the built-in level table.
func DefaultTable() *Table {
	return MustTable(DefaultSpec())
}

// Spec returns the TableSpec the table was built from.
func (t *Table) Spec() (spec TableSpec) {
	spec = TableSpec{
		Flag:      make(map[string]uint8, FLAG_COUNT),
		Opcode:    make(map[string]uint8, OPCODE_COUNT),
		Register:  make(map[string]uint8, REGISTER_COUNT),
		Syscall:   make(map[string]uint8, len(t.syscall)),
		ByteOrder: map[string]uint8{"op": t.order.Op, "a": t.order.A, "b": t.order.B},
	}
	for n, value := range t.flag {
		spec.Flag[flagKey[n]] = value
	}
	for n, value := range t.opcode {
		spec.Opcode[Opcode(n).String()] = value
	}
	for n, value := range t.register {
		spec.Register[registerKey[n]] = value
	}
	for sys, value := range t.syscall {
		spec.Syscall[sys.String()] = value
	}
	return
}

// Opcode encodes an opcode.
func (t *Table) Opcode(op Opcode) uint8 {
	return t.opcode[op]
}

// DecodeOpcode decodes an opcode byte.
func (t *Table) DecodeOpcode(value uint8) (op Opcode, ok bool) {
	op, ok = t.opcodeOf[value]
	return
}

// Register encodes a register. REG_NONE encodes as 0x00.
func (t *Table) Register(reg Register) uint8 {
	if !reg.Valid() {
		return 0
	}
	return t.register[reg]
}

// DecodeRegister decodes a register byte. 0x00 is not a register.
func (t *Table) DecodeRegister(value uint8) (reg Register, ok bool) {
	reg, ok = t.registerOf[value]
	return
}

// Flags encodes a flag set as the OR of its flag values.
func (t *Table) Flags(flags Flags) (value uint8) {
	for n := range FLAG_COUNT {
		if flags&(1<<n) != 0 {
			value |= t.flag[n]
		}
	}
	return
}

// DecodeFlags decodes a flag byte. Bits that belong to no flag are rejected.
func (t *Table) DecodeFlags(value uint8) (flags Flags, ok bool) {
	if value&^t.flagMask != 0 {
		return
	}
	for n := range FLAG_COUNT {
		if value&t.flag[n] != 0 {
			flags |= 1 << n
		}
	}
	ok = true
	return
}

// Syscall encodes a syscall, if the table supports it.
func (t *Table) Syscall(sys Syscall) (value uint8, ok bool) {
	value, ok = t.syscall[sys]
	return
}

// DecodeSyscall decodes a syscall byte.
func (t *Table) DecodeSyscall(value uint8) (sys Syscall, ok bool) {
	sys, ok = t.syscallOf[value]
	return
}

// ByteOrder returns the wire placement of the instruction roles.
func (t *Table) ByteOrder() ByteOrder {
	return t.order
}

// Defines returns assembler equates for the table, such as FLAG_L or SYS_EXIT.
func (t *Table) Defines() iter.Seq2[string, string] {
	defines := make(map[string]string, len(t.syscall))
	for sys, value := range t.syscall {
		defines["SYS_"+sys.String()] = fmt.Sprintf("0x%02x", value)
	}
	flags := make(map[string]string, FLAG_COUNT)
	for n, value := range t.flag {
		flags["FLAG_"+flagKey[n]] = fmt.Sprintf("0x%02x", value)
	}
	return internal.IterSeq2Concat(internal.IterSorted(flags), internal.IterSorted(defines))
}
