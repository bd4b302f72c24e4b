package main

import (
	"errors"

	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ezrec/yan85/cpu"
	"github.com/ezrec/yan85/emulator"
	"github.com/ezrec/yan85/io"
)

func (c *cli) commandFlags(name string, usage string) (flags *flag.FlagSet) {
	flags = flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(c.Stderr.Output)
	flags.Usage = func() {
		c.errorf("Usage:\n  yan85 %v %v\n\nFlags:\n", name, usage)
		flags.PrintDefaults()
	}
	return
}

// parse parses args into flags. Errors are reported with the usage.
func (c *cli) parse(flags *flag.FlagSet, args []string) (ok bool) {
	err := flags.Parse(args)
	if err == nil {
		return true
	}

	// pflag has already shown the usage for -h.
	if !errors.Is(err, flag.ErrHelp) {
		c.errorf("%v\n", err)
		flags.Usage()
	}

	return false
}

func (c *cli) assemble(args []string) (code int) {
	flags := c.commandFlags("assemble", "<in.asm> <out.bin>")
	if !c.parse(flags, args) {
		return 2
	}
	if flags.NArg() != 2 {
		flags.Usage()
		return 2
	}
	input, output := flags.Arg(0), flags.Arg(1)

	table, err := c.table()
	if err != nil {
		c.errorf("%v\n", err)
		return 1
	}

	emu := emulator.NewEmulator(table)
	defer emu.Close()

	asm := &cpu.Assembler{Logger: c.Logger}
	for name, value := range emu.Defines() {
		asm.Predefine(name, value)
	}

	inf, err := c.Fs.Open(input)
	if err != nil {
		c.errorf("%v\n", err)
		return 1
	}
	defer inf.Close()

	prog, err := asm.Parse(inf)
	if err != nil {
		c.errorf("%v: %v\n", input, err)
		return 1
	}

	err = afero.WriteFile(c.Fs, output, prog.Binary(table), 0o644)
	if err != nil {
		c.errorf("%v\n", err)
		return 1
	}

	c.Logger.Info("assemble", zap.String("output", output), zap.Int("instructions", prog.Len()))

	return
}

func (c *cli) disassemble(args []string) (code int) {
	flags := c.commandFlags("disassemble", "<in.bin>")
	if !c.parse(flags, args) {
		return 2
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return 2
	}
	input := flags.Arg(0)

	table, err := c.table()
	if err != nil {
		c.errorf("%v\n", err)
		return 1
	}

	data, err := afero.ReadFile(c.Fs, input)
	if err != nil {
		c.errorf("%v\n", err)
		return 1
	}

	insts, err := cpu.Disassemble(data, table)
	if err != nil {
		c.errorf("%v: %v\n", input, err)
		return 1
	}

	c.printf("%v", cpu.NewProgram(insts).Listing())

	return
}

func (c *cli) emulate(args []string) (code int) {
	var showDisassembly bool
	var memoryImage string
	var root string

	flags := c.commandFlags("emulate", "<in.bin> [flags]")
	flags.BoolVarP(&showDisassembly, "show-disassembly", "d", false, "Print each instruction as it executes")
	flags.StringVarP(&memoryImage, "memory-image", "m", "", "Initial 256 byte memory image")
	flags.StringVarP(&root, "root", "r", "", "Directory that OPEN paths are resolved beneath")
	if !c.parse(flags, args) {
		return 2
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return 2
	}
	input := flags.Arg(0)

	table, err := c.table()
	if err != nil {
		c.errorf("%v\n", err)
		return 1
	}

	data, err := afero.ReadFile(c.Fs, input)
	if err != nil {
		c.errorf("%v\n", err)
		return 1
	}

	emu := emulator.NewEmulator(table)
	emu.Logger = c.Logger
	emu.Files = io.NewFiles(io.Sandbox(c.Fs, root))
	emu.Files.Stdio = [...]io.Tape{c.Stdin, c.Stdout, c.Stderr}
	defer emu.Close()

	if showDisassembly {
		emu.Trace = func(dbg cpu.Debug) {
			c.errorf("%3d: %v\n", dbg.Index, dbg.Instruction)
		}
	}

	err = emu.LoadBinary(data)
	if err != nil {
		c.errorf("%v: %v\n", input, err)
		return 1
	}

	if len(memoryImage) != 0 {
		err = emu.LoadImageFile(c.Fs, memoryImage)
		if err != nil {
			c.errorf("%v\n", err)
			return 1
		}
	}

	emu.Reset()

	exit, err := emu.Run()
	if err != nil {
		c.errorf("%v: %v\n", input, err)
		c.Logger.Debug("state", zap.String("cpu", emu.Cpu.String()))
		return 1
	}

	return int(exit)
}

func (c *cli) printConstants(args []string) (code int) {
	flags := c.commandFlags("constants", "")
	if !c.parse(flags, args) {
		return 2
	}
	if flags.NArg() != 0 {
		flags.Usage()
		return 2
	}

	err := cpu.DefaultTable().Marshal(c.Stdout.Output)
	if err != nil {
		c.errorf("%v\n", err)
		return 1
	}

	return
}
