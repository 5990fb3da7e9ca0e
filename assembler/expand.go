package assembler

// expansionStep is one real instruction produced by expanding a
// pseudo-instruction: the real mnemonic to look up in isa.Lookup, the
// immediate to hand to encoder.Place, and the register vector in the
// real instruction's own slot convention.
type expansionStep struct {
	name string
	imm  uint32
	regs [4]uint32
}

// expandPseudo turns a resolved pseudo-instruction (its own ArgSig's
// regs/imm, as isa/table.go declares it) into the sequence of real
// instructions it stands for.
//
// li's argument may be a forward-referenced label, resolved to an
// absolute address; pass 1 cannot know a forward label's address yet,
// so it sizes a symbol-operand li conservatively at two words. This
// function only runs in pass 2 with fully resolved values; liForceTwo
// makes it honor the pass-1 upper bound even when the resolved address
// would fit one instruction, so label addresses recorded earlier stay
// correct.
func expandPseudo(name string, imm uint32, regs [4]uint32, liForceTwo bool) []expansionStep {
	switch name {
	case "nop":
		return []expansionStep{{"addi", 0, [4]uint32{0, 0, 0, 0}}}

	case "li":
		rd := regs[0]
		if !liForceTwo {
			if immFitsAddi(imm) {
				return []expansionStep{{"addi", imm, [4]uint32{rd, 0, 0, 0}}}
			}
			if imm&0xFFF == 0 {
				return []expansionStep{{"lui", imm, [4]uint32{rd, 0, 0, 0}}}
			}
		}
		// Carry-corrected split: addi sign-extends its 12-bit field, so
		// a low part with bit 11 set must borrow from the upper 20 bits
		// for lui + addi to reproduce imm exactly.
		hi := (imm + 0x800) & 0xFFFFF000
		lo := imm - hi
		return []expansionStep{
			{"lui", hi, [4]uint32{rd, 0, 0, 0}},
			{"addi", lo, [4]uint32{rd, rd, 0, 0}},
		}

	case "mv":
		rd, rs := regs[0], regs[1]
		return []expansionStep{{"addi", 0, [4]uint32{rd, rs, 0, 0}}}

	case "not":
		rd, rs := regs[0], regs[1]
		return []expansionStep{{"xori", 0xFFFFFFFF, [4]uint32{rd, rs, 0, 0}}}

	case "neg":
		rd, rs := regs[0], regs[1]
		return []expansionStep{{"sub", 0, [4]uint32{rd, 0, rs, 0}}}

	case "ret":
		return []expansionStep{{"jalr", 0, [4]uint32{0, 1, 0, 0}}}

	case "call", "tail":
		return []expansionStep{{"jal", imm, [4]uint32{1, 0, 0, 0}}}

	case "j":
		return []expansionStep{{"jal", imm, [4]uint32{0, 0, 0, 0}}}

	case "beqz":
		rs := regs[1]
		return []expansionStep{{"beq", imm, [4]uint32{rs, 0, 0, 0}}}

	case "bnez":
		rs := regs[1]
		return []expansionStep{{"bne", imm, [4]uint32{rs, 0, 0, 0}}}

	default:
		return nil
	}
}

// liWordCount decides how many real instructions a given li immediate
// needs: a value that fits addi's signed 12-bit immediate is one
// instruction, a value that is already 4096-aligned is one lui,
// anything else is lui+addi.
func liWordCount(imm uint32) int {
	if immFitsAddi(imm) {
		return 1
	}
	if imm&0xFFF == 0 {
		return 1
	}
	return 2
}

// immFitsAddi reports whether the value survives addi's sign-extending
// 12-bit immediate field unchanged.
func immFitsAddi(imm uint32) bool {
	v := int32(imm)
	return v >= -2048 && v <= 2047
}
