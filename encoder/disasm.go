package encoder

import (
	"fmt"

	"github.com/lumikalt/rizzv-go/isa"
)

// Disassemble renders a 32-bit word back into assembly text using ABI
// register names. It is the inverse of what the assembler emits, up to
// pseudo-instruction expansion: a word always disassembles to the real
// instruction it encodes, never back to li/mv/ret.
func Disassemble(w uint32) (string, error) {
	kind, err := FormatFor(w)
	if err != nil {
		return "", err
	}
	opcode, funct3, funct7, funct2 := FieldsFor(w, kind)
	name, ok := isa.LookupByEncoding(kind, opcode, funct3, funct7, funct2)
	if !ok {
		return "", &ErrUnknownEncoding{Word: w}
	}
	imm, regs := Decode(w, kind)

	rdFloat, rsFloat := isa.UsesFloatRegs(name)
	rn := func(i uint32, float bool) string {
		if float {
			return isa.FRegName(int(i))
		}
		return isa.RegName(int(i))
	}

	switch kind {
	case isa.R:
		entry, _ := isa.Lookup(name)
		if len(entry.Sig) == 2 {
			// fcvt.s.w, fmv.w.x, fmv.x.w: rs2 is a fixed zero field.
			return fmt.Sprintf("%s %s %s", name, rn(regs[0], rdFloat), rn(regs[1], rsFloat)), nil
		}
		return fmt.Sprintf("%s %s %s %s", name,
			rn(regs[0], rdFloat), rn(regs[1], rsFloat), rn(regs[2], rsFloat)), nil

	case isa.R4:
		return fmt.Sprintf("%s %s %s %s %s", name,
			rn(regs[0], true), rn(regs[1], true), rn(regs[2], true), rn(regs[3], true)), nil

	case isa.I:
		if opcode == 0b0000011 { // loads use the memory operand form
			return fmt.Sprintf("%s %s %d(%s)", name,
				rn(regs[0], false), int32(imm), rn(regs[1], false)), nil
		}
		return fmt.Sprintf("%s %s %s %d", name,
			rn(regs[0], false), rn(regs[1], false), int32(imm)), nil

	case isa.I2:
		return fmt.Sprintf("%s %s %s %d", name,
			rn(regs[0], false), rn(regs[1], false), imm), nil

	case isa.S:
		return fmt.Sprintf("%s %s %d(%s)", name,
			rn(regs[0], false), int32(imm), rn(regs[1], false)), nil

	case isa.B:
		return fmt.Sprintf("%s %s %s %d", name,
			rn(regs[0], false), rn(regs[1], false), int32(imm)), nil

	case isa.U:
		return fmt.Sprintf("%s %s %d", name, rn(regs[0], false), imm>>12), nil

	case isa.J:
		return fmt.Sprintf("%s %s %d", name, rn(regs[0], false), int32(imm)), nil
	}

	return "", &ErrUnknownEncoding{Word: w}
}
