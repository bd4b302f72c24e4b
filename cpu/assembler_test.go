package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func parse(t *testing.T, program ...string) (prog *Program, err error) {
	asm := &Assembler{Logger: zaptest.NewLogger(t)}
	return asm.Parse(strings.NewReader(strings.Join(program, "\n")))
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, prog.Len())

	assert.Equal("0", asm.Equate["LINENO"])
}

func TestAssemblerInstructions(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t,
		"IMM a = 0x05",
		"IMM b = 10",
		"ADD a b",
		"STK NONE c",
		"STK b NONE",
		"STM *a = b",
		"LDM c = *d",
		"CMP a b",
		"JMP LN d",
		"JMP LLGG i",
		"JMP * s",
		"SYS 0x08 NONE",
		"SYS 1 d",
	)
	if !assert.NoError(err) {
		return
	}

	expected := []Instruction{
		Imm{Reg: REG_A, Value: 5},
		Imm{Reg: REG_B, Value: 10},
		Add{Dst: REG_A, Src: REG_B},
		Stk{Pop: REG_NONE, Push: REG_C},
		Stk{Pop: REG_B, Push: REG_NONE},
		Stm{Addr: REG_A, Value: REG_B},
		Ldm{Dst: REG_C, Addr: REG_D},
		Cmp{A: REG_A, B: REG_B},
		Jmp{Cond: FLAG_L | FLAG_N, Target: REG_D},
		Jmp{Cond: FLAG_L | FLAG_G, Target: REG_I},
		Jmp{Cond: 0, Target: REG_S},
		Sys{Call: 0x08, Result: REG_NONE},
		Sys{Call: 0x01, Result: REG_D},
	}
	assert.Equal(expected, prog.Instructions)
	assert.Equal([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}, prog.Lines)
}

func TestAssemblerEndToEnd(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader("IMM a = 0x05\nADD a b\n"))
	if !assert.NoError(err) {
		return
	}

	table := DefaultTable()
	data := Assemble(prog.Instructions, table)
	assert.Equal(6, len(data))

	insts, err := Disassemble(data, table)
	assert.NoError(err)
	assert.Equal([]Instruction{Imm{Reg: REG_A, Value: 5}, Add{Dst: REG_A, Src: REG_B}}, insts)
}

func TestAssemblerListing(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"IMM a = 0x05",
		"STK NONE c",
		"STM *a = b",
		"LDM a = *b",
		"JMP LN d",
		"JMP * d",
		"SYS 0x08 NONE",
	}

	prog, err := parse(t, program...)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(strings.Join(program, "\n")+"\n", prog.Listing())
}

func TestAssemblerComments(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t,
		"; header",
		"",
		"   IMM a = 1   ; trailing",
		"\tADD\ta\tb",
	)
	if !assert.NoError(err) {
		return
	}

	assert.Equal([]Instruction{Imm{Reg: REG_A, Value: 1}, Add{Dst: REG_A, Src: REG_B}}, prog.Instructions)
	assert.Equal([]int{3, 4}, prog.Lines)
}

func TestAssemblerEquate(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("SYS_EXIT", "0x08")

	prog, err := asm.Parse(strings.NewReader(strings.Join([]string{
		".equ COUNT 0x20",
		".equ PTR d",
		"IMM PTR = COUNT",
		"STM *PTR = a",
		"SYS SYS_EXIT NONE",
	}, "\n")))
	if !assert.NoError(err) {
		return
	}

	assert.Equal([]Instruction{
		Imm{Reg: REG_D, Value: 0x20},
		Stm{Addr: REG_D, Value: REG_A},
		Sys{Call: 0x08, Result: REG_NONE},
	}, prog.Instructions)
}

func TestAssemblerCharacter(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t,
		"IMM a = 'A'",
		"IMM b = '\\n'",
		"IMM c = ' '",
		"IMM d = '\\0'",
		"IMM a = ';' ; a semicolon",
		"IMM b = 1 ; ';' in a comment",
	)
	if !assert.NoError(err) {
		return
	}

	assert.Equal([]Instruction{
		Imm{Reg: REG_A, Value: 'A'},
		Imm{Reg: REG_B, Value: '\n'},
		Imm{Reg: REG_C, Value: ' '},
		Imm{Reg: REG_D, Value: 0},
		Imm{Reg: REG_A, Value: ';'},
		Imm{Reg: REG_B, Value: 1},
	}, prog.Instructions)
}

func TestAssemblerExpression(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t,
		".equ BASE 0x10",
		"IMM a = $(BASE + 2)",
		"IMM b = $(LINENO * 3)",
		"start:",
		"IMM c = $(start + 1)",
	)
	if !assert.NoError(err) {
		return
	}

	assert.Equal([]Instruction{
		Imm{Reg: REG_A, Value: 0x12},
		Imm{Reg: REG_B, Value: 9},
		Imm{Reg: REG_C, Value: 3},
	}, prog.Instructions)
}

func TestAssemblerLabels(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t,
		"start:",
		"IMM d = done",
		"loop: again: IMM c = loop",
		"JMP * d",
		"done:",
		"SYS 0x08 NONE",
	)
	if !assert.NoError(err) {
		return
	}

	assert.Equal([]Instruction{
		Imm{Reg: REG_D, Value: 3},
		Imm{Reg: REG_C, Value: 1},
		Jmp{Cond: 0, Target: REG_D},
		Sys{Call: 0x08, Result: REG_NONE},
	}, prog.Instructions)
}

func TestAssemblerMacro(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t,
		".macro PUT reg value",
		"IMM reg = value",
		"IMM d = @skip",
		"JMP * d",
		"@skip:",
		".endm",
		"PUT a 1",
		"PUT b 2",
	)
	if !assert.NoError(err) {
		return
	}

	assert.Equal([]Instruction{
		Imm{Reg: REG_A, Value: 1},
		Imm{Reg: REG_D, Value: 3},
		Jmp{Cond: 0, Target: REG_D},
		Imm{Reg: REG_B, Value: 2},
		Imm{Reg: REG_D, Value: 6},
		Jmp{Cond: 0, Target: REG_D},
	}, prog.Instructions)
	assert.Equal([]int{2, 3, 4, 2, 3, 4}, prog.Lines)
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []string
		lineno  int
		err     error
	}){
		{"mnemonic", []string{"NOP"}, 1, ErrInstructionInvalid},
		{"lowercase-mnemonic", []string{"imm a = 1"}, 1, ErrInstructionInvalid},
		{"trailing", []string{"ADD a b", "ADD a b c"}, 2, ErrInstructionInvalid},
		{"missing-operand", []string{"CMP a"}, 1, ErrInstructionInvalid},
		{"imm-range", []string{"IMM a = 256"}, 1, ErrParseNumber("256")},
		{"imm-hex-range", []string{"IMM a = 0x100"}, 1, ErrParseNumber("0x100")},
		{"register", []string{"ADD a x"}, 1, ErrRegisterInvalid},
		{"register-upper", []string{"ADD A b"}, 1, ErrRegisterInvalid},
		{"required-none", []string{"ADD NONE b"}, 1, ErrRegisterInvalid},
		{"flag", []string{"JMP LQ d"}, 1, ErrFlagInvalid},
		{"label-missing", []string{"IMM a = nowhere"}, 1, ErrLabelMissing("nowhere")},
		{"label-duplicate", []string{"x:", "x:"}, 2, ErrLabelDuplicate},
		{"equate-syntax", []string{".equ X"}, 1, ErrEquateSyntax},
		{"equate-duplicate", []string{".equ X 1", ".equ X 2"}, 2, ErrEquateDuplicate},
		{"macro-nesting", []string{".macro A", ".macro B"}, 2, ErrMacroNesting},
		{"macro-lonely", []string{".macro A", "ADD a b"}, 2, ErrMacroLonely},
		{"macro-endm", []string{".endm"}, 1, ErrMacroLonelyEndm},
		{"macro-args", []string{".macro A x", ".endm", "A"}, 3, ErrMacroSyntax},
		{"macro-duplicate", []string{".macro A", ".endm", ".macro A", ".endm"}, 3, ErrMacroDuplicate},
		{"expression-range", []string{"IMM a = $(200 + 100)"}, 1, ErrParseNumber("300")},
		{"expression-type", []string{`IMM a = $("x")`}, 1, ErrParseExpression(`"x"`)},
	}

	for _, entry := range table {
		_, err := parse(t, entry.program...)
		assert.ErrorIs(err, entry.err, entry.name)

		var es *ErrSyntax
		if assert.True(errors.As(err, &es), entry.name) {
			assert.Equal(entry.lineno, es.LineNo, entry.name)
		}
	}
}

func TestAssemblerMacroError(t *testing.T) {
	assert := assert.New(t)

	_, err := parse(t,
		".macro BAD",
		"ADD a q",
		".endm",
		"BAD",
	)
	assert.ErrorIs(err, ErrRegisterInvalid)

	var es *ErrSyntax
	if assert.True(errors.As(err, &es)) {
		assert.Equal(4, es.LineNo)
		assert.Equal("BAD", es.Line)
	}

	var em *ErrMacro
	if assert.True(errors.As(err, &em)) {
		assert.Equal("BAD", em.Macro)
		assert.Equal(2, em.Line)

		// Only the invocation line is a syntax error.
		assert.False(errors.As(em.Err, &es))
	}
}
