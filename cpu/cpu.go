package cpu

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ezrec/yan85/io"
)

// Host is the syscall target interface.
type Host io.Host

// Cpu is the execution engine: a register file, stack, memory and a program,
// configured by an encoding table.
type Cpu struct {
	Logger *zap.Logger // Instruction trace and syscall logger.

	Table   *Table   // Encoding table.
	Program *Program // Loaded program.
	Host    Host     // Syscall target.

	Register [REGISTER_COUNT]uint8 // Register file, indexed by Register.
	Stack    Stack                 // Stack, indexed by the S register.
	Memory   Memory                // Data memory.

	Halted   bool  // Set by the EXIT syscall.
	ExitCode uint8 // Exit code given to EXIT.

	Ticks int // Instructions executed since a reset.
}

// NewCpu creates a new Cpu for an encoding table, with an empty program.
func NewCpu(table *Table) (cpu *Cpu) {
	cpu = &Cpu{
		Logger:  zap.NewNop(),
		Table:   table,
		Program: &Program{},
	}

	return
}

// Load replaces the program. The machine state is not changed.
func (cpu *Cpu) Load(prog *Program) (err error) {
	if prog.Len() > PROGRAM_LIMIT {
		err = ErrProgramSize
		return
	}

	cpu.Program = prog
	return
}

// Reset the Cpu state.
// - Clears the registers, stack and memory.
// - Clears the halt state and exit code.
// - Zeros the tick counter.
func (cpu *Cpu) Reset() {
	clear(cpu.Register[:])
	cpu.Stack.Reset()
	cpu.Memory.Reset()
	cpu.Halted = false
	cpu.ExitCode = 0
	cpu.Ticks = 0
}

// String returns the register file as a string.
func (cpu *Cpu) String() (text string) {
	for n, value := range cpu.Register {
		text += fmt.Sprintf("%v: 0x%02x\n", Register(n), value)
	}

	return
}

// Fetch returns the instruction the I register names.
func (cpu *Cpu) Fetch() (inst Instruction, err error) {
	index := int(cpu.Register[REG_I])
	if index >= cpu.Program.Len() {
		err = ErrFetch
		return
	}

	inst = cpu.Program.Instructions[index]
	return
}

// Tick executes a single instruction. The I register is advanced before the
// instruction is executed.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	index := int(cpu.Register[REG_I])

	inst, err := cpu.Fetch()
	if err != nil {
		err = &ErrInstruction{Index: index, Err: err}
		return
	}

	cpu.Logger.Debug("execute",
		zap.Int("index", index),
		zap.Int("line", cpu.Program.LineNo(index)),
		zap.Stringer("instruction", inst),
	)

	cpu.Register[REG_I]++

	err = cpu.Execute(inst)
	if err != nil {
		err = &ErrInstruction{Index: index, Instruction: inst, Err: err}
		return
	}

	cpu.Ticks++

	return
}

// Execute executes a single instruction.
func (cpu *Cpu) Execute(inst Instruction) (err error) {
	regs, optional := registers(inst)
	for n, reg := range regs {
		if reg == REG_NONE {
			if !optional[n] {
				err = ErrRegisterNone
				return
			}
			continue
		}
		if !reg.Valid() {
			err = ErrRegisterInvalid
			return
		}
	}

	reg := &cpu.Register

	switch in := inst.(type) {
	case Imm:
		reg[in.Reg] = in.Value
	case Add:
		reg[in.Dst] += reg[in.Src]
	case Stk:
		if in.Push != REG_NONE {
			cpu.Stack.Push(&reg[REG_S], reg[in.Push])
		}
		if in.Pop != REG_NONE {
			reg[in.Pop] = cpu.Stack.Pop(&reg[REG_S])
		}
	case Stm:
		cpu.Memory[reg[in.Addr]] = reg[in.Value]
	case Ldm:
		reg[in.Dst] = cpu.Memory[reg[in.Addr]]
	case Cmp:
		reg[REG_F] = cpu.Table.Flags(compare(reg[in.A], reg[in.B]))
	case Jmp:
		if reg[REG_F]&cpu.Table.Flags(in.Cond) != 0 {
			reg[REG_I] = reg[in.Target]
		}
	case Sys:
		err = cpu.syscall(in)
	default:
		err = ErrInstructionInvalid
	}

	return
}

// compare returns the flags CMP sets for a against b.
func compare(a, b uint8) (flags Flags) {
	switch {
	case a < b:
		flags = FLAG_L | FLAG_N
	case a > b:
		flags = FLAG_G | FLAG_N
	default:
		flags = FLAG_E
	}

	if a == 0 && b == 0 {
		flags |= FLAG_Z
	}

	return
}
