// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
)

// Instruction is one of the eight instruction kinds: Imm, Add, Stk, Stm,
// Ldm, Cmp, Jmp, or Sys. Instructions are comparable values.
type Instruction interface {
	// Opcode returns the instruction kind.
	Opcode() Opcode
	// String returns the assembly text of the instruction.
	String() string

	// operands encodes the two operand bytes.
	operands(t *Table) (a, b uint8)
}

// Imm assigns an immediate value to a register.
//
//	IMM reg = value
type Imm struct {
	Reg   Register
	Value uint8
}

// Add adds Src to Dst, wrapping at 8 bits.
//
//	ADD dst src
type Add struct {
	Dst Register
	Src Register
}

// Stk pushes Push, then pops into Pop. Either may be REG_NONE.
//
//	STK pop push
type Stk struct {
	Pop  Register
	Push Register
}

// Stm stores Value into memory at the address held in Addr.
//
//	STM *addr = value
type Stm struct {
	Addr  Register
	Value Register
}

// Ldm loads Dst from memory at the address held in Addr.
//
//	LDM dst = *addr
type Ldm struct {
	Dst  Register
	Addr Register
}

// Cmp compares A with B, replacing the flag register.
//
//	CMP a b
type Cmp struct {
	A Register
	B Register
}

// Jmp sets the instruction pointer to the value of Target when the flag
// register shares any flag with Cond.
//
//	JMP cond target
type Jmp struct {
	Cond   Flags
	Target Register
}

// Sys performs the host system call encoded as Call, storing the result in
// Result. Result may be REG_NONE for EXIT.
//
//	SYS call result
type Sys struct {
	Call   uint8
	Result Register
}

var (
	_ Instruction = Imm{}
	_ Instruction = Add{}
	_ Instruction = Stk{}
	_ Instruction = Stm{}
	_ Instruction = Ldm{}
	_ Instruction = Cmp{}
	_ Instruction = Jmp{}
	_ Instruction = Sys{}
)

func (Imm) Opcode() Opcode { return OP_IMM }
func (Add) Opcode() Opcode { return OP_ADD }
func (Stk) Opcode() Opcode { return OP_STK }
func (Stm) Opcode() Opcode { return OP_STM }
func (Ldm) Opcode() Opcode { return OP_LDM }
func (Cmp) Opcode() Opcode { return OP_CMP }
func (Jmp) Opcode() Opcode { return OP_JMP }
func (Sys) Opcode() Opcode { return OP_SYS }

func (in Imm) operands(t *Table) (a, b uint8) { return t.Register(in.Reg), in.Value }
func (in Add) operands(t *Table) (a, b uint8) { return t.Register(in.Dst), t.Register(in.Src) }
func (in Stk) operands(t *Table) (a, b uint8) { return t.Register(in.Pop), t.Register(in.Push) }
func (in Stm) operands(t *Table) (a, b uint8) { return t.Register(in.Addr), t.Register(in.Value) }
func (in Ldm) operands(t *Table) (a, b uint8) { return t.Register(in.Dst), t.Register(in.Addr) }
func (in Cmp) operands(t *Table) (a, b uint8) { return t.Register(in.A), t.Register(in.B) }
func (in Jmp) operands(t *Table) (a, b uint8) { return t.Flags(in.Cond), t.Register(in.Target) }
func (in Sys) operands(t *Table) (a, b uint8) { return in.Call, t.Register(in.Result) }

func (in Imm) String() string { return fmt.Sprintf("IMM %v = 0x%02x", in.Reg, in.Value) }
func (in Add) String() string { return fmt.Sprintf("ADD %v %v", in.Dst, in.Src) }
func (in Stk) String() string { return fmt.Sprintf("STK %v %v", in.Pop, in.Push) }
func (in Stm) String() string { return fmt.Sprintf("STM *%v = %v", in.Addr, in.Value) }
func (in Ldm) String() string { return fmt.Sprintf("LDM %v = *%v", in.Dst, in.Addr) }
func (in Cmp) String() string { return fmt.Sprintf("CMP %v %v", in.A, in.B) }
func (in Jmp) String() string { return fmt.Sprintf("JMP %v %v", in.Cond, in.Target) }
func (in Sys) String() string { return fmt.Sprintf("SYS 0x%02x %v", in.Call, in.Result) }

// registers lists the registers an instruction requires, and whether each
// may be REG_NONE.
func registers(inst Instruction) (regs []Register, optional []bool) {
	switch in := inst.(type) {
	case Imm:
		return []Register{in.Reg}, []bool{false}
	case Add:
		return []Register{in.Dst, in.Src}, []bool{false, false}
	case Stk:
		return []Register{in.Pop, in.Push}, []bool{true, true}
	case Stm:
		return []Register{in.Addr, in.Value}, []bool{false, false}
	case Ldm:
		return []Register{in.Dst, in.Addr}, []bool{false, false}
	case Cmp:
		return []Register{in.A, in.B}, []bool{false, false}
	case Jmp:
		return []Register{in.Target}, []bool{false}
	case Sys:
		return []Register{in.Result}, []bool{true}
	}
	return
}
