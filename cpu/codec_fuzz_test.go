package cpu

import (
	"strings"
	"testing"
)

func FuzzCodec(f *testing.F) {
	table := DefaultTable()

	for _, inst := range sampleInstructions {
		wire := Encode(inst, table)
		f.Add(wire[0], wire[1], wire[2])
	}
	f.Add(uint8(0), uint8(0), uint8(0))

	// IMM with no register does not decode.
	none := Encode(Imm{Reg: REG_NONE, Value: 5}, table)
	f.Add(none[0], none[1], none[2])
	f.Add(uint8(0xff), uint8(0xff), uint8(0xff))

	f.Fuzz(func(t *testing.T, b0, b1, b2 uint8) {
		wire := [INSTRUCTION_SIZE]uint8{b0, b1, b2}

		inst, err := Decode(wire, table)
		if err != nil {
			if inst != nil {
				t.Fatalf("%v: error %v with instruction %v", wire, err, inst)
			}
			return
		}

		again := Encode(inst, table)
		if again != wire {
			t.Fatalf("%v: %v encodes as %v", wire, inst, again)
		}

		asm := &Assembler{}
		prog, err := asm.Parse(strings.NewReader(inst.String()))
		if err != nil {
			t.Fatalf("%v: '%v' does not assemble: %v", wire, inst, err)
		}
		if len(prog.Instructions) != 1 || prog.Instructions[0] != inst {
			t.Fatalf("%v: '%v' assembles as %v", wire, inst, prog.Instructions)
		}
	})
}
