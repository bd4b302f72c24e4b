package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// sampleInstructions covers every instruction kind and operand form.
var sampleInstructions = []Instruction{
	Imm{Reg: REG_A, Value: 5},
	Imm{Reg: REG_F, Value: 0xff},
	Add{Dst: REG_A, Src: REG_B},
	Stk{Pop: REG_NONE, Push: REG_C},
	Stk{Pop: REG_B, Push: REG_NONE},
	Stk{Pop: REG_D, Push: REG_S},
	Stk{Pop: REG_NONE, Push: REG_NONE},
	Stm{Addr: REG_A, Value: REG_B},
	Ldm{Dst: REG_C, Addr: REG_D},
	Cmp{A: REG_A, B: REG_B},
	Jmp{Cond: FLAG_L | FLAG_N, Target: REG_D},
	Jmp{Cond: 0, Target: REG_I},
	Jmp{Cond: FLAG_ALL, Target: REG_A},
	Sys{Call: 0x08, Result: REG_NONE},
	Sys{Call: 0x01, Result: REG_D},
	Sys{Call: 0x77, Result: REG_A},
}

func TestEncode(t *testing.T) {
	assert := assert.New(t)

	table := DefaultTable()

	// byte_order is op=2, a=0, b=1
	assert.Equal([INSTRUCTION_SIZE]uint8{0x20, 0x05, 0x01}, Encode(Imm{Reg: REG_A, Value: 5}, table))
	assert.Equal([INSTRUCTION_SIZE]uint8{0x20, 0x40, 0x02}, Encode(Add{Dst: REG_A, Src: REG_B}, table))
	assert.Equal([INSTRUCTION_SIZE]uint8{0x00, 0x08, 0x80}, Encode(Stk{Pop: REG_NONE, Push: REG_C}, table))
	assert.Equal([INSTRUCTION_SIZE]uint8{0x11, 0x02, 0x40}, Encode(Jmp{Cond: FLAG_L | FLAG_N, Target: REG_D}, table))
	assert.Equal([INSTRUCTION_SIZE]uint8{0x08, 0x00, 0x04}, Encode(Sys{Call: 0x08, Result: REG_NONE}, table))
}

func TestRoundTrip(t *testing.T) {
	assert := assert.New(t)

	table := DefaultTable()

	for _, inst := range sampleInstructions {
		wire := Encode(inst, table)
		again, err := Decode(wire, table)
		assert.NoError(err, inst.String())
		assert.Equal(inst, again, inst.String())
	}
}

func TestRoundTripByteOrder(t *testing.T) {
	assert := assert.New(t)

	orders := [][3]uint8{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}

	layouts := map[[INSTRUCTION_SIZE]uint8]bool{}
	for _, order := range orders {
		spec := DefaultSpec()
		spec.ByteOrder = map[string]uint8{"op": order[0], "a": order[1], "b": order[2]}
		table := MustTable(spec)

		data := Assemble(sampleInstructions, table)
		assert.Equal(INSTRUCTION_SIZE*len(sampleInstructions), len(data))

		insts, err := Disassemble(data, table)
		assert.NoError(err, order)
		assert.Equal(sampleInstructions, insts, order)

		wire := Encode(Imm{Reg: REG_A, Value: 5}, table)
		assert.Equal(uint8(0x01), wire[order[0]], order)
		assert.Equal(uint8(0x20), wire[order[1]], order)
		assert.Equal(uint8(0x05), wire[order[2]], order)
		layouts[wire] = true
	}

	assert.Equal(len(orders), len(layouts))
}

func TestDecodeInvalid(t *testing.T) {
	assert := assert.New(t)

	table := DefaultTable()

	cases := [](struct {
		name string
		wire [INSTRUCTION_SIZE]uint8 // a, b, op
		role Role
		err  error
	}){
		{"opcode-unknown", [3]uint8{0x20, 0x05, 0x03}, ROLE_OP, ErrInvalidOpcode},
		{"opcode-zero", [3]uint8{0x20, 0x05, 0x00}, ROLE_OP, ErrInvalidOpcode},
		{"imm-register", [3]uint8{0x03, 0x05, 0x01}, ROLE_A, ErrInvalidOperand},
		{"imm-none", [3]uint8{0x00, 0x05, 0x01}, ROLE_A, ErrInvalidOperand},
		{"add-src", [3]uint8{0x20, 0x80, 0x02}, ROLE_B, ErrInvalidOperand},
		{"stk-pop", [3]uint8{0x03, 0x00, 0x80}, ROLE_A, ErrInvalidOperand},
		{"stk-push", [3]uint8{0x00, 0x03, 0x80}, ROLE_B, ErrInvalidOperand},
		{"stm-none", [3]uint8{0x20, 0x00, 0x10}, ROLE_B, ErrInvalidOperand},
		{"ldm-none", [3]uint8{0x00, 0x20, 0x20}, ROLE_A, ErrInvalidOperand},
		{"cmp-bad", [3]uint8{0x20, 0xff, 0x08}, ROLE_B, ErrInvalidOperand},
		{"jmp-flag-bit", [3]uint8{0x21, 0x02, 0x40}, ROLE_A, ErrInvalidOperand},
		{"jmp-target", [3]uint8{0x01, 0x00, 0x40}, ROLE_B, ErrInvalidOperand},
		{"sys-result", [3]uint8{0x08, 0x03, 0x04}, ROLE_B, ErrInvalidOperand},
	}

	for _, entry := range cases {
		inst, err := Decode(entry.wire, table)
		assert.Nil(inst, entry.name)
		assert.ErrorIs(err, entry.err, entry.name)

		var eb *ErrByte
		if assert.True(errors.As(err, &eb), entry.name) {
			assert.Equal(entry.role, eb.Role, entry.name)
		}
	}
}

func TestDisassemble(t *testing.T) {
	assert := assert.New(t)

	table := DefaultTable()

	insts, err := Disassemble(nil, table)
	assert.NoError(err)
	assert.Equal(0, len(insts))

	data := []uint8{
		0x20, 0x05, 0x01, // IMM a = 0x05
		0x20, 0x40, 0x02, // ADD a b
	}
	insts, err = Disassemble(data, table)
	assert.NoError(err)
	assert.Equal([]Instruction{Imm{Reg: REG_A, Value: 5}, Add{Dst: REG_A, Src: REG_B}}, insts)
}

func TestDisassembleErrors(t *testing.T) {
	assert := assert.New(t)

	table := DefaultTable()

	// Short stream.
	insts, err := Disassemble([]uint8{0x20, 0x05, 0x01, 0x20}, table)
	assert.Nil(insts)
	assert.ErrorIs(err, ErrProgramLength)

	var ed *ErrDecode
	if assert.True(errors.As(err, &ed)) {
		assert.Equal(1, ed.Index)
		assert.Equal(3, ed.Offset)
	}

	// Bad opcode in the second instruction; no partial result.
	insts, err = Disassemble([]uint8{0x20, 0x05, 0x01, 0x20, 0x05, 0x03}, table)
	assert.Nil(insts)
	assert.ErrorIs(err, ErrInvalidOpcode)
	if assert.True(errors.As(err, &ed)) {
		assert.Equal(1, ed.Index)
		assert.Equal(5, ed.Offset)
	}

	// Bad operand a in the first instruction.
	_, err = Disassemble([]uint8{0x03, 0x05, 0x01}, table)
	assert.ErrorIs(err, ErrInvalidOperand)
	if assert.True(errors.As(err, &ed)) {
		assert.Equal(0, ed.Index)
		assert.Equal(0, ed.Offset)
	}
}

func TestInstructionString(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		inst Instruction
		text string
	}{
		{Imm{Reg: REG_A, Value: 5}, "IMM a = 0x05"},
		{Add{Dst: REG_A, Src: REG_B}, "ADD a b"},
		{Stk{Pop: REG_NONE, Push: REG_C}, "STK NONE c"},
		{Stm{Addr: REG_A, Value: REG_B}, "STM *a = b"},
		{Ldm{Dst: REG_A, Addr: REG_B}, "LDM a = *b"},
		{Cmp{A: REG_C, B: REG_D}, "CMP c d"},
		{Jmp{Cond: FLAG_L | FLAG_N, Target: REG_D}, "JMP LN d"},
		{Jmp{Cond: 0, Target: REG_D}, "JMP * d"},
		{Sys{Call: 0x08, Result: REG_NONE}, "SYS 0x08 NONE"},
	}

	for _, entry := range table {
		assert.Equal(entry.text, entry.inst.String())
	}
}

func TestEncodeOutsideInstructionSet(t *testing.T) {
	assert := assert.New(t)

	table := DefaultTable()

	rejected := []Instruction{
		Imm{Reg: REG_NONE, Value: 5},
		Add{Dst: REG_A, Src: Register(9)},
		Cmp{A: REG_NONE, B: REG_B},
		Jmp{Cond: FLAG_L, Target: REG_NONE},
		Sys{Call: 0x08, Result: Register(-1)},
	}

	for _, inst := range rejected[:len(rejected)-1] {
		_, err := Decode(Encode(inst, table), table)
		assert.ErrorIs(err, ErrInvalidOperand, inst.String())
	}

	// Optional operands read back as NONE.
	sys, err := Decode(Encode(rejected[len(rejected)-1], table), table)
	assert.NoError(err)
	assert.Equal(Sys{Call: 0x08, Result: REG_NONE}, sys)

	stk, err := Decode(Encode(Stk{Pop: Register(9), Push: REG_C}, table), table)
	assert.NoError(err)
	assert.Equal(Stk{Pop: REG_NONE, Push: REG_C}, stk)

	// Unknown flag bits are dropped.
	jmp, err := Decode(Encode(Jmp{Cond: FLAG_L | Flags(0x80), Target: REG_D}, table), table)
	assert.NoError(err)
	assert.Equal(Jmp{Cond: FLAG_L, Target: REG_D}, jmp)
}
