// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

const (
	INSTRUCTION_SIZE = 3 // Bytes per instruction.
)

// Encode converts an instruction to its wire triple.
//
// Instructions round trip through Decode when every register is valid, with
// REG_NONE only in the optional operands of STK and SYS. Any other register
// value is outside the instruction set and encodes as 0x00: Decode rejects
// that for a required operand, and reads it as REG_NONE for an optional one.
// Flag bits outside FLAG_ALL are not encoded.
func Encode(inst Instruction, t *Table) (wire [INSTRUCTION_SIZE]uint8) {
	bo := t.ByteOrder()
	a, b := inst.operands(t)

	wire[bo.Op] = t.Opcode(inst.Opcode())
	wire[bo.A] = a
	wire[bo.B] = b

	return
}

// Assemble concatenates the encoding of each instruction.
func Assemble(insts []Instruction, t *Table) (data []uint8) {
	data = make([]uint8, 0, len(insts)*INSTRUCTION_SIZE)
	for _, inst := range insts {
		wire := Encode(inst, t)
		data = append(data, wire[:]...)
	}

	return
}

// decodeRegister decodes a required register operand.
func decodeRegister(t *Table, role Role, value uint8) (reg Register, err error) {
	reg, ok := t.DecodeRegister(value)
	if !ok {
		err = &ErrByte{Role: role, Value: value, Err: ErrInvalidOperand}
	}
	return
}

// decodeOptional decodes an optional register operand; 0x00 is REG_NONE.
func decodeOptional(t *Table, role Role, value uint8) (reg Register, err error) {
	if value == 0 {
		reg = REG_NONE
		return
	}
	return decodeRegister(t, role, value)
}

// decodePair decodes two required register operands.
func decodePair(t *Table, a, b uint8) (ra, rb Register, err error) {
	ra, err = decodeRegister(t, ROLE_A, a)
	if err != nil {
		return
	}
	rb, err = decodeRegister(t, ROLE_B, b)
	return
}

// decoder decodes the operands for an opcode.
type decoder func(t *Table, a, b uint8) (inst Instruction, err error)

var decoders = [OPCODE_COUNT]decoder{
	OP_IMM: func(t *Table, a, b uint8) (inst Instruction, err error) {
		reg, err := decodeRegister(t, ROLE_A, a)
		inst = Imm{Reg: reg, Value: b}
		return
	},
	OP_ADD: func(t *Table, a, b uint8) (inst Instruction, err error) {
		ra, rb, err := decodePair(t, a, b)
		inst = Add{Dst: ra, Src: rb}
		return
	},
	OP_STK: func(t *Table, a, b uint8) (inst Instruction, err error) {
		pop, err := decodeOptional(t, ROLE_A, a)
		if err != nil {
			return
		}
		push, err := decodeOptional(t, ROLE_B, b)
		inst = Stk{Pop: pop, Push: push}
		return
	},
	OP_STM: func(t *Table, a, b uint8) (inst Instruction, err error) {
		ra, rb, err := decodePair(t, a, b)
		inst = Stm{Addr: ra, Value: rb}
		return
	},
	OP_LDM: func(t *Table, a, b uint8) (inst Instruction, err error) {
		ra, rb, err := decodePair(t, a, b)
		inst = Ldm{Dst: ra, Addr: rb}
		return
	},
	OP_CMP: func(t *Table, a, b uint8) (inst Instruction, err error) {
		ra, rb, err := decodePair(t, a, b)
		inst = Cmp{A: ra, B: rb}
		return
	},
	OP_JMP: func(t *Table, a, b uint8) (inst Instruction, err error) {
		cond, ok := t.DecodeFlags(a)
		if !ok {
			err = &ErrByte{Role: ROLE_A, Value: a, Err: ErrInvalidOperand}
			return
		}
		target, err := decodeRegister(t, ROLE_B, b)
		inst = Jmp{Cond: cond, Target: target}
		return
	},
	OP_SYS: func(t *Table, a, b uint8) (inst Instruction, err error) {
		result, err := decodeOptional(t, ROLE_B, b)
		inst = Sys{Call: a, Result: result}
		return
	},
}

// Decode converts a wire triple to an instruction.
//
// The SYS call byte is passed through undecoded; the Cpu resolves it when it
// executes the instruction.
func Decode(wire [INSTRUCTION_SIZE]uint8, t *Table) (inst Instruction, err error) {
	bo := t.ByteOrder()

	op := wire[bo.Op]
	a := wire[bo.A]
	b := wire[bo.B]

	opcode, ok := t.DecodeOpcode(op)
	if !ok {
		err = &ErrByte{Role: ROLE_OP, Value: op, Err: ErrInvalidOpcode}
		return
	}

	inst, err = decoders[opcode](t, a, b)
	if err != nil {
		inst = nil
	}

	return
}

// Disassemble decodes a byte stream into instructions. The first error stops
// decoding; no partial result is returned.
func Disassemble(data []uint8, t *Table) (insts []Instruction, err error) {
	if len(data)%INSTRUCTION_SIZE != 0 {
		err = &ErrDecode{
			Index:  len(data) / INSTRUCTION_SIZE,
			Offset: len(data) - len(data)%INSTRUCTION_SIZE,
			Err:    ErrProgramLength,
		}
		return
	}

	bo := t.ByteOrder()
	list := make([]Instruction, 0, len(data)/INSTRUCTION_SIZE)
	for n := 0; n < len(data); n += INSTRUCTION_SIZE {
		var inst Instruction
		inst, err = Decode([INSTRUCTION_SIZE]uint8(data[n:n+INSTRUCTION_SIZE]), t)
		if err != nil {
			offset := n
			if eb, ok := err.(*ErrByte); ok {
				offset += bo.Slot(eb.Role)
			}
			err = &ErrDecode{Index: n / INSTRUCTION_SIZE, Offset: offset, Err: err}
			return
		}
		list = append(list, inst)
	}

	insts = list
	return
}
