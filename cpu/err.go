package cpu

import (
	"errors"

	"github.com/ezrec/yan85/translate"
)

var f = translate.From

var (
	// Encoding table errors
	ErrConfigMissing   = errors.New(f("missing"))
	ErrConfigUnknown   = errors.New(f("unknown name"))
	ErrConfigDuplicate = errors.New(f("duplicated value"))
	ErrConfigReserved  = errors.New(f("reserved value 0x00"))
	ErrConfigOverlap   = errors.New(f("overlapping flag bits"))
	ErrConfigByteOrder = errors.New(f("byte order is not a permutation of 0, 1, 2"))

	// Instruction decode errors
	ErrInvalidOpcode  = errors.New(f("invalid opcode"))
	ErrInvalidOperand = errors.New(f("invalid operand"))
	ErrProgramLength  = errors.New(f("length is not a multiple of 3"))

	// Cpu errors
	ErrProgramSize    = errors.New(f("more than 256 instructions"))
	ErrFetch          = errors.New(f("instruction pointer past end of program"))
	ErrHalted         = errors.New(f("halted"))
	ErrRegisterNone   = errors.New(f("NONE used as a register"))
	ErrSyscallInvalid = errors.New(f("syscall unsupported"))
	ErrSyscallResult  = errors.New(f("syscall result register is NONE"))
	ErrReturnOverflow = errors.New(f("syscall return value does not fit in a byte"))
	ErrHostMissing    = errors.New(f("no host attached"))
	ErrCodeRange      = errors.New(f("code offset past end of program"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrFlagInvalid        = errors.New(f("jump condition invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

// ErrConfig locates an encoding table error.
type ErrConfig struct {
	Group string
	Name  string
	Err   error
}

func (err *ErrConfig) Error() string {
	if len(err.Name) == 0 {
		return f("constants %v: %v", err.Group, err.Err)
	}
	return f("constants %v.%v: %v", err.Group, err.Name, err.Err)
}

func (err *ErrConfig) Unwrap() error {
	return err.Err
}

// ErrByte is a wire byte that does not decode.
type ErrByte struct {
	Role  Role
	Value uint8
	Err   error
}

func (err *ErrByte) Error() string {
	return f("%v byte 0x%02x: %v", err.Role, err.Value, err.Err)
}

func (err *ErrByte) Unwrap() error {
	return err.Err
}

// ErrDecode locates a decode error within a byte stream.
type ErrDecode struct {
	Index  int // Instruction index.
	Offset int // Byte offset into the stream.
	Err    error
}

func (err *ErrDecode) Error() string {
	return f("instruction %d (offset %d) %v", err.Index, err.Offset, err.Err)
}

func (err *ErrDecode) Unwrap() error {
	return err.Err
}

// ErrInstruction is a runtime error raised while executing an instruction.
type ErrInstruction struct {
	Index       int // Instruction index.
	Instruction Instruction
	Err         error
}

func (err *ErrInstruction) Error() string {
	if err.Instruction == nil {
		return f("%03d: %v", err.Index, err.Err)
	}
	return f("%03d: %v: %v", err.Index, err.Instruction, err.Err)
}

func (err *ErrInstruction) Unwrap() error {
	return err.Err
}

// ErrSyntax locates an assembler error.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number from 0 to 255", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err *ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err *ErrMacro) Unwrap() error {
	return err.Err
}
