// Package isa is the static RV32 instruction table: for each
// mnemonic, the encoding format with its fixed function bits,
// and the typed argument signature the assembler checks arity against.
//
// The table is built once at package init and is read-only for the life
// of the process; nothing in this package mutates after init.
package isa

import "fmt"

// FormatKind is the closed set of RISC-V encodings this core supports,
// plus a Pseudo tag for mnemonics with no direct encoding.
type FormatKind int

const (
	R FormatKind = iota
	R4
	I
	I2 // shift-immediate: funct7-like field over imm[11:5], shamt in imm[4:0]
	S
	B
	U
	J
	Pseudo
)

func (k FormatKind) String() string {
	switch k {
	case R:
		return "R"
	case R4:
		return "R4"
	case I:
		return "I"
	case I2:
		return "I2"
	case S:
		return "S"
	case B:
		return "B"
	case U:
		return "U"
	case J:
		return "J"
	case Pseudo:
		return "Pseudo"
	default:
		return fmt.Sprintf("FormatKind(%d)", int(k))
	}
}

// Format carries a format's fixed bits. Register and immediate fields
// are supplied per-instance by the encoder and are not stored here.
type Format struct {
	Kind FormatKind

	Opcode uint32
	Funct3 uint32
	Funct7 uint32 // also used as the imm[11:5] fixed field for I2
	Funct2 uint32 // R4 only

	// PseudoName is set only when Kind == Pseudo; it names the
	// expansion in assembler.expandPseudo.
	PseudoName string
}

// Slot identifies which positional register an ArgKind occupies:
// 0=rd, 1=ra(rs1), 2=rb(rs2), 3=rc(rs3, R4 only).
type Slot int

const (
	SlotRd  Slot = 0
	SlotRs1 Slot = 1
	SlotRs2 Slot = 2
	SlotRs3 Slot = 3
)

// ArgKind is the closed set of operand shapes an argument signature
// position can require.
type ArgKind int

const (
	ArgRegister ArgKind = iota
	ArgImmediate
	ArgMemory
	ArgSymbol
)

func (k ArgKind) String() string {
	switch k {
	case ArgRegister:
		return "register"
	case ArgImmediate:
		return "immediate"
	case ArgMemory:
		return "memory"
	case ArgSymbol:
		return "symbol"
	default:
		return fmt.Sprintf("ArgKind(%d)", int(k))
	}
}

// ArgSpec is one position in an ArgSig: what kind of token it accepts
// and, for registers, which slot it fills.
type ArgSpec struct {
	Kind ArgKind
	Slot Slot // meaningful only when Kind == ArgRegister, or for the
	// embedded register of ArgMemory (always SlotRs1).
}

// ArgSig is the ordered argument signature of a mnemonic.
type ArgSig []ArgSpec

// Entry is a full instruction table row: its format and its signature.
type Entry struct {
	Format Format
	Sig    ArgSig
}
