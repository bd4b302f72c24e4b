// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ezrec/yan85/cpu"
	"github.com/ezrec/yan85/io"
	"github.com/ezrec/yan85/translate"
)

var usage = `
Usage:
  yan85 [flags] command [args]

Available Commands:
  assemble, asm <in.asm> <out.bin>      Assemble a program
  disassemble, disasm <in.bin>          List a program
  emulate, emu, run <in.bin> [flags]    Run a program, exiting with its exit code
  constants                             Print the default encoding table

Flags:
`

// cli is the state shared by all commands.
type cli struct {
	Fs     afero.Fs
	Stdin  io.Tape
	Stdout io.Tape
	Stderr io.Tape
	Logger *zap.Logger

	constants string
}

func newLogger(verbose bool) (logger *zap.Logger, err error) {
	cfg := zap.NewDevelopmentConfig()
	if verbose {
		cfg.Level.SetLevel(zap.DebugLevel)
	} else {
		cfg.Level.SetLevel(zap.WarnLevel)
	}
	return cfg.Build()
}

func (c *cli) printf(format string, args ...any) {
	fmt.Fprintf(c.Stdout.Output, format, args...)
}

func (c *cli) errorf(format string, args ...any) {
	_, _ = translate.Fprint(c.Stderr.Output, format, args...)
}

// table loads the encoding table from the constants file.
func (c *cli) table() (table *cpu.Table, err error) {
	inf, err := c.Fs.Open(c.constants)
	if err != nil {
		err = &cpu.ErrConfig{Group: c.constants, Err: err}
		return
	}
	defer inf.Close()

	table, err = cpu.LoadTable(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", c.constants, err)
	}

	return
}

// run executes a command line, and returns the process exit code.
func (c *cli) run(args []string) (code int) {
	var verbose bool

	flags := flag.NewFlagSet("yan85", flag.ContinueOnError)
	flags.SetOutput(c.Stderr.Output)
	flags.SetInterspersed(false)
	flags.StringVarP(&c.constants, "constants-file", "c", "constants.yml", "Encoding table file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Verbose mode")
	flags.Usage = func() {
		c.errorf("%v", usage)
		flags.PrintDefaults()
	}

	if !c.parse(flags, args) {
		return 2
	}

	var err error

	if c.Logger == nil {
		c.Logger, err = newLogger(verbose)
		if err != nil {
			c.errorf("%v\n", err)
			return 1
		}
		defer func() { _ = c.Logger.Sync() }()
	}

	c.Logger.Debug("start", zap.Stringer("language", translate.Language()), zap.String("constants", c.constants))

	command := strings.ToLower(flags.Arg(0))
	cmdArgs := flags.Args()
	if len(cmdArgs) > 0 {
		cmdArgs = cmdArgs[1:]
	}

	switch command {
	case "assemble", "asm":
		code = c.assemble(cmdArgs)
	case "disassemble", "disasm":
		code = c.disassemble(cmdArgs)
	case "emulate", "emu", "run":
		code = c.emulate(cmdArgs)
	case "constants":
		code = c.printConstants(cmdArgs)
	default:
		flags.Usage()
		code = 2
	}

	return
}

func main() {
	c := &cli{
		Fs:     afero.NewOsFs(),
		Stdin:  io.Tape{Input: os.Stdin},
		Stdout: io.Tape{Output: os.Stdout},
		Stderr: io.Tape{Output: os.Stderr},
	}

	os.Exit(c.run(os.Args[1:]))
}
