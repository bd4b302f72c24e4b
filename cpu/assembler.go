// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
	"go.uber.org/zap"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass macro assembler for Yan85 assembly text.
type Assembler struct {
	Logger *zap.Logger // If set, logs the assembler actions.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of jump labels to instruction indexes.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	inst      []Instruction
	lines     []int
	link      []link
	expansion int
}

// link is an operand waiting on a label.
type link struct {
	Index  int
	LineNo int
	Line   string
	Label  string
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

func (asm *Assembler) logger() *zap.Logger {
	if asm.Logger == nil {
		return zap.NewNop()
	}
	return asm.Logger
}

var asmLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t]+`},
	{Name: "Hex", Pattern: `0[xX][0-9a-fA-F]+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[=*]`},
})

// asmLine is the grammar of a single instruction.
type asmLine struct {
	Imm *asmImm  `  "IMM" @@`
	Add *asmPair `| "ADD" @@`
	Stk *asmPair `| "STK" @@`
	Stm *asmStm  `| "STM" @@`
	Ldm *asmLdm  `| "LDM" @@`
	Cmp *asmPair `| "CMP" @@`
	Jmp *asmJmp  `| "JMP" @@`
	Sys *asmSys  `| "SYS" @@`
}

// IMM reg = value
type asmImm struct {
	Reg   string `@Ident "="`
	Value string `@(Hex | Int | Ident)`
}

// ADD, STK and CMP
type asmPair struct {
	A string `@Ident`
	B string `@Ident`
}

// STM *addr = value
type asmStm struct {
	Addr  string `"*" @Ident "="`
	Value string `@Ident`
}

// LDM dst = *addr
type asmLdm struct {
	Dst  string `@Ident "=" "*"`
	Addr string `@Ident`
}

// JMP cond target
type asmJmp struct {
	Cond   string `@(Ident | "*")`
	Target string `@Ident`
}

// SYS call result
type asmSys struct {
	Call   string `@(Hex | Int | Ident)`
	Result string `@Ident`
}

var asmParser = participle.MustBuild[asmLine](
	participle.Lexer(asmLexer),
	participle.Elide("Whitespace"),
)

// registerMap maps register names to registers.
var registerMap = map[string]Register{
	"a":    REG_A,
	"b":    REG_B,
	"c":    REG_C,
	"d":    REG_D,
	"s":    REG_S,
	"i":    REG_I,
	"f":    REG_F,
	"NONE": REG_NONE,
}

// register resolves a register name. NONE is only allowed if optional.
func register(word string, optional bool) (reg Register, err error) {
	reg, ok := registerMap[word]
	if !ok || (reg == REG_NONE && !optional) {
		err = fmt.Errorf("%w: '%v'", ErrRegisterInvalid, word)
		return
	}
	return
}

// registerPair resolves two required register names.
func registerPair(pair *asmPair, optional bool) (a, b Register, err error) {
	a, err = register(pair.A, optional)
	if err != nil {
		return
	}
	b, err = register(pair.B, optional)
	return
}

// valueOf returns the value of a numeric word.
func valueOf(word string) (value uint8, err error) {
	var v64 uint64
	if len(word) > 2 && (word[:2] == "0x" || word[:2] == "0X") {
		v64, err = strconv.ParseUint(word[2:], 16, 8)
	} else {
		v64, err = strconv.ParseUint(word, 10, 8)
	}
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = uint8(v64)
	return
}

// isNumber is true if the word starts like a number.
func isNumber(word string) bool {
	return len(word) > 0 && word[0] >= '0' && word[0] <= '9'
}

// operand returns the value of a byte operand, or the label it refers to.
func operand(word string) (value uint8, label string, err error) {
	if !isNumber(word) {
		label = word
		return
	}

	value, err = valueOf(word)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint8, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, label := range asm.Label {
		pred[key] = starlark.MakeInt(label)
	}
	for key, str := range asm.Equate {
		var v8 uint8
		v8, err = valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt(int(v8))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < 0 || st_int64 > 0xff {
		err = ErrParseNumber(st_int.String())
		return
	}
	value = uint8(st_int64)
	return
}

var (
	charRegexp  = regexp.MustCompile(`'\\?[^']'`)
	parenRegexp = regexp.MustCompile(`\$\([^\$]*\)`)
)

// stripComment removes a ';' comment. A ';' character literal is kept.
func stripComment(text string) string {
	literals := charRegexp.FindAllStringIndex(text, -1)
	for n := range len(text) {
		if text[n] != ';' {
			continue
		}
		quoted := false
		for _, lit := range literals {
			if n >= lit[0] && n < lit[1] {
				quoted = true
				break
			}
		}
		if !quoted {
			return text[:n]
		}
	}
	return text
}

// parseLine preprocesses a single line into words. Equates, labels and
// macro invocations are consumed here; the remaining words, if any, are an
// instruction.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = charRegexp.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			case "0":
				str = "\000"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf(" %v ", str[0])
	})

	// Do $() evaluations
	line = parenRegexp.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)
	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next, including a dereferenced one.
		deref := strings.HasPrefix(word, "*")
		equate, ok := asm.Equate[strings.TrimPrefix(word, "*")]
		if ok {
			if deref {
				equate = "*" + equate
			}
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = len(asm.inst)
		asm.logger().Debug("label", zap.String("label", label), zap.Int("index", len(asm.inst)))
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]
		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		asm.expansion++
		local := fmt.Sprintf("%v_%v_", name, asm.expansion)

		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = args[n]
		}
		defer func() { asm.Equate = old_equate }()

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n
			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err == nil {
				err = asm.parseWords(words, line, lineno)
			}
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}
		}
		words = nil
		return
	}

	return
}

// parseWords assembles the words of a single instruction.
func (asm *Assembler) parseWords(words []string, line string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	text := strings.Join(words, " ")
	ast, err := asmParser.ParseString("", text)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrInstructionInvalid, err)
		return
	}

	var inst Instruction
	var label string

	switch {
	case ast.Imm != nil:
		var in Imm
		in.Reg, err = register(ast.Imm.Reg, false)
		if err == nil {
			in.Value, label, err = operand(ast.Imm.Value)
		}
		inst = in
	case ast.Add != nil:
		var in Add
		in.Dst, in.Src, err = registerPair(ast.Add, false)
		inst = in
	case ast.Stk != nil:
		var in Stk
		in.Pop, in.Push, err = registerPair(ast.Stk, true)
		inst = in
	case ast.Stm != nil:
		var in Stm
		in.Addr, in.Value, err = registerPair(&asmPair{A: ast.Stm.Addr, B: ast.Stm.Value}, false)
		inst = in
	case ast.Ldm != nil:
		var in Ldm
		in.Dst, in.Addr, err = registerPair(&asmPair{A: ast.Ldm.Dst, B: ast.Ldm.Addr}, false)
		inst = in
	case ast.Cmp != nil:
		var in Cmp
		in.A, in.B, err = registerPair(ast.Cmp, false)
		inst = in
	case ast.Jmp != nil:
		var in Jmp
		in.Cond, err = ParseFlags(ast.Jmp.Cond)
		if err == nil {
			in.Target, err = register(ast.Jmp.Target, false)
		}
		inst = in
	case ast.Sys != nil:
		var in Sys
		in.Call, label, err = operand(ast.Sys.Call)
		if err == nil {
			in.Result, err = register(ast.Sys.Result, true)
		}
		inst = in
	default:
		err = ErrInstructionInvalid
	}
	if err != nil {
		return
	}

	if len(label) != 0 {
		asm.link = append(asm.link, link{Index: len(asm.inst), LineNo: lineno, Line: line, Label: label})
	}

	asm.logger().Debug("instruction", zap.Int("index", len(asm.inst)), zap.Stringer("instruction", inst))

	asm.inst = append(asm.inst, inst)
	asm.lines = append(asm.lines, lineno)

	return
}

// resolve patches a label value into the byte operand of an instruction.
func (asm *Assembler) resolve(lk link) (err error) {
	index, ok := asm.Label[lk.Label]
	if !ok {
		err = ErrLabelMissing(lk.Label)
		return
	}
	if index > 0xff {
		err = ErrParseNumber(fmt.Sprintf("%v (%v)", lk.Label, index))
		return
	}

	switch in := asm.inst[lk.Index].(type) {
	case Imm:
		in.Value = uint8(index)
		asm.inst[lk.Index] = in
	case Sys:
		in.Call = uint8(index)
		asm.inst[lk.Index] = in
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil && lineno > 0 {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.inst = nil
	asm.lines = nil
	asm.link = nil
	asm.expansion = 0
	asm.Label = make(map[string]int, 16)
	asm.Macro = make(map[string](*Macro))
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		asm.logger().Debug("line", zap.Int("lineno", lineno), zap.String("text", text))

		line = strings.TrimSpace(stripComment(text))
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, line, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for _, lk := range asm.link {
		err = asm.resolve(lk)
		if err != nil {
			lineno = lk.LineNo
			line = lk.Line
			return
		}
	}

	prog = &Program{
		Instructions: slices.Clone(asm.inst),
		Lines:        slices.Clone(asm.lines),
	}

	return
}
