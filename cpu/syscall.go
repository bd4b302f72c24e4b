package cpu

import (
	"errors"
	"fmt"
	"time"

	"github.com/ccoveille/go-safecast"
	"go.uber.org/zap"
)

// syscall performs a SYS instruction. Arguments are taken from the A, B and
// C registers. The result register is checked before the host is called.
func (cpu *Cpu) syscall(in Sys) (err error) {
	sys, ok := cpu.Table.DecodeSyscall(in.Call)
	if !ok {
		err = fmt.Errorf("%w: 0x%02x", ErrSyscallInvalid, in.Call)
		return
	}

	if sys.Returns() && in.Result == REG_NONE {
		err = ErrSyscallResult
		return
	}

	a := cpu.Register[REG_A]
	b := cpu.Register[REG_B]
	c := cpu.Register[REG_C]

	cpu.Logger.Info("syscall",
		zap.Stringer("syscall", sys),
		zap.Uint8("a", a),
		zap.Uint8("b", b),
		zap.Uint8("c", c),
	)

	if sys == SYS_EXIT {
		cpu.Halted = true
		cpu.ExitCode = a
		return
	}

	if cpu.Host == nil {
		err = ErrHostMissing
		return
	}

	var rc int
	switch sys {
	case SYS_OPEN:
		rc, err = cpu.Host.Open(cpu.Memory.CString(a))
	case SYS_READ_CODE:
		rc, err = cpu.readCode(int(a), b, c)
	case SYS_READ_MEMORY:
		data := make([]uint8, c)
		rc, err = cpu.Host.Read(int(a), data)
		if err == nil && rc <= len(data) {
			cpu.Memory.Scatter(b, data[:rc])
		}
	case SYS_WRITE:
		rc, err = cpu.Host.Write(int(a), cpu.Memory.Gather(b, c))
	case SYS_SLEEP:
		cpu.Host.Sleep(time.Duration(a) * time.Second)
	}
	if err != nil {
		return
	}

	value, err := safecast.ToUint8(rc)
	if err != nil {
		err = errors.Join(ErrReturnOverflow, err)
		return
	}

	cpu.Register[in.Result] = value

	return
}

// readCode reads wire bytes from a descriptor into the program, starting at
// instruction index start. start may be at most the program length, so the
// program grows without gaps, up to PROGRAM_LIMIT.
func (cpu *Cpu) readCode(fd int, start uint8, count uint8) (n int, err error) {
	if int(start) > cpu.Program.Len() {
		err = fmt.Errorf("%w: %d > %d", ErrCodeRange, start, cpu.Program.Len())
		return
	}

	data := make([]uint8, count)
	n, err = cpu.Host.Read(fd, data)
	if err != nil {
		return
	}
	if n > len(data) {
		n = len(data)
	}
	if n == 0 {
		return
	}

	image := cpu.Program.Binary(cpu.Table)
	offset := int(start) * INSTRUCTION_SIZE
	end := min(offset+n, PROGRAM_LIMIT*INSTRUCTION_SIZE)
	if end > len(image) {
		image = append(image, make([]uint8, end-len(image))...)
	}
	copy(image[offset:end], data[:n])

	// Only whole instructions are decoded.
	image = image[:len(image)-len(image)%INSTRUCTION_SIZE]

	insts, err := Disassemble(image, cpu.Table)
	if err != nil {
		return
	}

	lines := cpu.Program.Lines
	if len(lines) > len(insts) {
		lines = lines[:len(insts)]
	}
	cpu.Program = &Program{Instructions: insts, Lines: lines}

	return
}
