// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/ezrec/yan85/cpu"
	"github.com/ezrec/yan85/internal"
	"github.com/ezrec/yan85/io"
)

var _emulator_defines = map[string]string{
	"FD_STDIN":  fmt.Sprintf("%v", io.FD_STDIN),
	"FD_STDOUT": fmt.Sprintf("%v", io.FD_STDOUT),
	"FD_STDERR": fmt.Sprintf("%v", io.FD_STDERR),
}

// Emulator state. CPU + host files + initial memory image.
type Emulator struct {
	Logger   *zap.Logger // If set, logs instruction traces and syscalls.
	*cpu.Cpu             // Reference to the CPU simulation.
	Files    *io.Files   // Host side of the syscalls.

	// Trace, if set, is called with each instruction before it executes.
	Trace func(dbg cpu.Debug)

	image *cpu.Memory
}

// NewEmulator creates a new emulator for an encoding table, with the host
// filesystem and standard streams.
func NewEmulator(table *cpu.Table) (emu *Emulator) {
	emu = &Emulator{
		Logger: zap.NewNop(),
		Cpu:    cpu.NewCpu(table),
		Files:  io.NewFiles(afero.NewOsFs()),
	}

	emu.Cpu.Host = emu.Files

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(internal.IterSorted(_emulator_defines),
		emu.Cpu.Table.Defines(),
	)
}

// Close the emulator, closing all opened files.
func (emu *Emulator) Close() (err error) {
	return emu.Files.Close()
}

// LoadProgram sets the program to run.
func (emu *Emulator) LoadProgram(prog *cpu.Program) (err error) {
	return emu.Cpu.Load(prog)
}

// LoadBinary decodes a wire format program and sets it as the program to run.
func (emu *Emulator) LoadBinary(data []byte) (err error) {
	insts, err := cpu.Disassemble(data, emu.Cpu.Table)
	if err != nil {
		return
	}

	return emu.LoadProgram(cpu.NewProgram(insts))
}

// LoadImage sets the initial memory contents. The image must be exactly
// cpu.MEMORY_SIZE bytes.
func (emu *Emulator) LoadImage(data []byte) (err error) {
	if len(data) != cpu.MEMORY_SIZE {
		err = &ErrImage{Size: len(data)}
		return
	}

	emu.image = &cpu.Memory{}
	copy(emu.image[:], data)

	return
}

// LoadImageFile reads the initial memory contents from a file.
func (emu *Emulator) LoadImageFile(fs afero.Fs, path string) (err error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return
	}

	err = emu.LoadImage(data)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
	}

	return
}

// Reset the emulator state. Registers and stack are cleared, and memory is
// set to the loaded image, or zeroed if there is none.
func (emu *Emulator) Reset() {
	emu.Cpu.Logger = emu.Logger
	emu.Cpu.Host = emu.Files

	emu.Cpu.Reset()
	if emu.image != nil {
		emu.Cpu.Memory = *emu.image
	}
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Index returns the index of the next instruction.
func (emu *Emulator) Index() int {
	return int(emu.Cpu.Register[cpu.REG_I])
}

// LineNo returns the source line number of the next instruction.
func (emu *Emulator) LineNo() int {
	return emu.Cpu.Program.LineNo(emu.Index())
}

// Tick performs a single tick of the emulator. done is set once the program
// has exited.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU logger
	emu.Cpu.Logger = emu.Logger

	index := emu.Index()
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Index: index, LineNo: lineno, Err: err}
		}
	}()

	if emu.Trace != nil {
		dbg, ok := emu.Cpu.Program.Debug(index)
		if ok {
			emu.Trace(dbg)
		}
	}

	err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	done = emu.Cpu.Halted

	return
}

// Run ticks the emulator until the program exits, returning its exit code.
func (emu *Emulator) Run() (code uint8, err error) {
	for {
		var done bool
		done, err = emu.Tick()
		if err != nil {
			return
		}
		if done {
			break
		}
	}

	code = emu.Cpu.ExitCode
	emu.Logger.Info("exit", zap.Uint8("code", code), zap.Int("ticks", emu.Ticks()))

	return
}
