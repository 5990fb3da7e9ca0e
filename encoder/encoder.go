// Package encoder is the bit-level projection between a 32-bit RV32
// instruction word and a structured (format, immediate, registers)
// view. Place and Decode are pure, inverse operations;
// round-tripping any real format must satisfy decode(place(k,...)) == ...
// modulo the bits the format can actually represent (the implicit zero
// low bit of B/J immediates).
package encoder

import (
	"fmt"

	"github.com/lumikalt/rizzv-go/isa"
)

// Regs is the ordered register vector an Entry's signature fills:
// index 0=rd, 1=rs1, 2=rs2, 3=rs3. For S and B formats the same slots
// are reused to carry the format's actual rs1/rs2 pair; Place and
// Decode agree on the mapping so callers never need to know it.
type Regs [4]uint32

// ErrUnknownEncoding is returned by FormatFor when the word's opcode
// is not a supported one, and by Disassemble when no table entry
// matches the word's (opcode, funct3, funct7) combination.
type ErrUnknownEncoding struct {
	Word uint32
}

func (e *ErrUnknownEncoding) Error() string {
	return fmt.Sprintf("unknown encoding: word 0x%08x", e.Word)
}

const (
	mask5  = 0x1F
	mask7  = 0x7F
	mask12 = 0xFFF
)

// Place builds the final 32-bit word for a format template, an
// immediate and an ordered register vector. The immediate is sliced
// into the format's scattered fields per the RISC-V ISA manual.
func Place(f isa.Format, imm uint32, regs Regs) uint32 {
	opc := f.Opcode & mask7

	switch f.Kind {
	case isa.R:
		return opc | (regs[0]&0x1F)<<7 | (f.Funct3&0x7)<<12 |
			(regs[1]&0x1F)<<15 | (regs[2]&0x1F)<<20 | (f.Funct7&mask7)<<25

	case isa.R4:
		return opc | (regs[0]&0x1F)<<7 | (f.Funct3&0x7)<<12 | (regs[1]&0x1F)<<15 |
			(regs[2]&0x1F)<<20 | (f.Funct2&0x3)<<25 | (regs[3]&0x1F)<<27

	case isa.I:
		return opc | (regs[0]&0x1F)<<7 | (f.Funct3&0x7)<<12 | (regs[1]&0x1F)<<15 |
			(imm&mask12)<<20

	case isa.I2:
		shamt := imm & mask5
		return opc | (regs[0]&0x1F)<<7 | (f.Funct3&0x7)<<12 | (regs[1]&0x1F)<<15 |
			shamt<<20 | (f.Funct7&mask7)<<25

	case isa.S:
		return opc | (imm&0x1F)<<7 | (f.Funct3&0x7)<<12 | (regs[1]&0x1F)<<15 |
			(regs[0]&0x1F)<<20 | ((imm>>5)&mask7)<<25

	case isa.B:
		imm11 := (imm >> 11) & 1
		imm41 := (imm >> 1) & 0xF
		imm105 := (imm >> 5) & 0x3F
		imm12 := (imm >> 12) & 1
		return opc | imm11<<7 | imm41<<8 | (f.Funct3&0x7)<<12 | (regs[0]&0x1F)<<15 |
			(regs[1]&0x1F)<<20 | imm105<<25 | imm12<<31

	case isa.U:
		return opc | (regs[0]&0x1F)<<7 | (imm & 0xFFFFF000)

	case isa.J:
		imm20 := (imm >> 20) & 1
		imm101 := (imm >> 1) & 0x3FF
		imm11 := (imm >> 11) & 1
		imm1912 := (imm >> 12) & 0xFF
		return opc | (regs[0]&0x1F)<<7 | imm1912<<12 | imm11<<20 | imm101<<21 | imm20<<31

	default:
		return 0
	}
}

// Decode extracts the opcode from w and reverses the bit layout for
// the matching format. Callers that need the mnemonic (disassembly,
// the explainer) resolve it from (opcode, funct3, funct7) separately;
// Decode itself is format-shaped, not mnemonic-shaped, matching the
// executor's own decode/dispatch split.
func Decode(w uint32, kind isa.FormatKind) (imm uint32, regs Regs) {
	switch kind {
	case isa.R, isa.R4:
		rd := (w >> 7) & 0x1F
		rs1 := (w >> 15) & 0x1F
		rs2 := (w >> 20) & 0x1F
		rs3 := (w >> 27) & 0x1F
		return 0, Regs{rd, rs1, rs2, rs3}

	case isa.I:
		rd := (w >> 7) & 0x1F
		rs1 := (w >> 15) & 0x1F
		raw := (w >> 20) & mask12
		return signExtend(raw, 12), Regs{rd, rs1, 0, 0}

	case isa.I2:
		rd := (w >> 7) & 0x1F
		rs1 := (w >> 15) & 0x1F
		shamt := (w >> 20) & mask5
		return shamt, Regs{rd, rs1, 0, 0}

	case isa.S:
		rs1 := (w >> 15) & 0x1F
		rs2 := (w >> 20) & 0x1F
		lo := (w >> 7) & 0x1F
		hi := (w >> 25) & mask7
		raw := (hi << 5) | lo
		return signExtend(raw, 12), Regs{rs2, rs1, 0, 0}

	case isa.B:
		rs1 := (w >> 15) & 0x1F
		rs2 := (w >> 20) & 0x1F
		b11 := (w >> 7) & 1
		b41 := (w >> 8) & 0xF
		b105 := (w >> 25) & 0x3F
		b12 := (w >> 31) & 1
		raw := (b12 << 12) | (b11 << 11) | (b105 << 5) | (b41 << 1)
		return signExtend(raw, 13), Regs{rs1, rs2, 0, 0}

	case isa.U:
		rd := (w >> 7) & 0x1F
		return w & 0xFFFFF000, Regs{rd, 0, 0, 0}

	case isa.J:
		rd := (w >> 7) & 0x1F
		b1912 := (w >> 12) & 0xFF
		b11 := (w >> 20) & 1
		b101 := (w >> 21) & 0x3FF
		b20 := (w >> 31) & 1
		raw := (b20 << 20) | (b1912 << 12) | (b11 << 11) | (b101 << 1)
		return signExtend(raw, 21), Regs{rd, 0, 0, 0}

	default:
		return 0, Regs{}
	}
}

// signExtend treats the low `bits` of v as a two's-complement value
// and sign-extends it to the full 32-bit word.
func signExtend(v uint32, bits uint) uint32 {
	shift := 32 - bits
	return uint32(int32(v<<shift) >> shift)
}

// FieldsFor extracts the fixed bits a format kind carries from a raw
// word: always the opcode, plus whichever of funct3/funct7/funct2 that
// format actually has (the rest come back zero). Paired with
// isa.LookupByEncoding, this is how the executor recovers a mnemonic
// from a fetched instruction.
func FieldsFor(w uint32, kind isa.FormatKind) (opcode, funct3, funct7, funct2 uint32) {
	opcode = w & mask7

	switch kind {
	case isa.R:
		funct3 = (w >> 12) & 0x7
		funct7 = (w >> 25) & mask7
	case isa.R4:
		funct3 = (w >> 12) & 0x7
		funct2 = (w >> 25) & 0x3
	case isa.I2:
		funct3 = (w >> 12) & 0x7
		funct7 = (w >> 25) & mask7
	case isa.I, isa.S, isa.B:
		funct3 = (w >> 12) & 0x7
	}

	return opcode, funct3, funct7, funct2
}

// FormatFor maps a 32-bit word's opcode (and, where ambiguous, funct3)
// to the format kind needed to call Decode, and the mnemonic
// table lookup the executor performs next. It is shared between the
// executor and the disassembler so the two never drift apart.
func FormatFor(w uint32) (isa.FormatKind, error) {
	opcode := w & mask7
	funct3 := (w >> 12) & 0x7

	switch opcode {
	case 0b0110111, 0b0010111: // LUI, AUIPC
		return isa.U, nil
	case 0b1101111: // JAL
		return isa.J, nil
	case 0b1100111: // JALR
		return isa.I, nil
	case 0b1100011: // branches
		return isa.B, nil
	case 0b0000011: // loads
		return isa.I, nil
	case 0b0100011: // stores
		return isa.S, nil
	case 0b0010011: // OP-IMM
		if funct3 == 0b001 || funct3 == 0b101 {
			return isa.I2, nil
		}
		return isa.I, nil
	case 0b0110011: // OP
		return isa.R, nil
	case 0b1010011: // OP-FP
		return isa.R, nil
	case 0b1000011: // FMADD.S
		return isa.R4, nil
	default:
		return 0, &ErrUnknownEncoding{Word: w}
	}
}
