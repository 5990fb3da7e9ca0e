package isa

// Opcode values, §4.B / RISC-V ISA manual chapter 2.
const (
	opLUI    = 0b0110111
	opAUIPC  = 0b0010111
	opJAL    = 0b1101111
	opJALR   = 0b1100111
	opBRANCH = 0b1100011
	opLOAD   = 0b0000011
	opSTORE  = 0b0100011
	opOPIMM  = 0b0010011
	opOP     = 0b0110011
	opOPFP   = 0b1010011
	opFMADD  = 0b1000011
)

var table = map[string]Entry{}

// encKey identifies a real (non-pseudo) instruction by its fixed bits,
// the inverse of what Format carries. The executor uses it to recover
// a mnemonic from a decoded word.
type encKey struct {
	kind   FormatKind
	opcode uint32
	funct3 uint32
	funct7 uint32
	funct2 uint32
}

var byEncoding = map[encKey]string{}

func reg(slot Slot) ArgSpec { return ArgSpec{Kind: ArgRegister, Slot: slot} }

var immArg = ArgSpec{Kind: ArgImmediate}
var memArg = ArgSpec{Kind: ArgMemory, Slot: SlotRs1}
var symArg = ArgSpec{Kind: ArgSymbol}

func add(name string, f Format, sig ArgSig) {
	table[name] = Entry{Format: f, Sig: sig}
	if f.Kind != Pseudo {
		byEncoding[encKey{f.Kind, f.Opcode, f.Funct3, f.Funct7, f.Funct2}] = name
	}
}

func init() {
	// R-type integer arithmetic (rd, rs1, rs2).
	rSig := ArgSig{reg(SlotRd), reg(SlotRs1), reg(SlotRs2)}
	addR := func(name string, funct3, funct7 uint32) {
		add(name, Format{Kind: R, Opcode: opOP, Funct3: funct3, Funct7: funct7}, rSig)
	}
	addR("add", 0b000, 0b0000000)
	addR("sub", 0b000, 0b0100000)
	addR("sll", 0b001, 0b0000000)
	addR("slt", 0b010, 0b0000000)
	addR("sltu", 0b011, 0b0000000)
	addR("xor", 0b100, 0b0000000)
	addR("srl", 0b101, 0b0000000)
	addR("sra", 0b101, 0b0100000)
	addR("or", 0b110, 0b0000000)
	addR("and", 0b111, 0b0000000)

	// RV32M.
	addR("mul", 0b000, 0b0000001)
	addR("mulh", 0b001, 0b0000001)
	addR("mulhsu", 0b010, 0b0000001)
	addR("mulhu", 0b011, 0b0000001)
	addR("div", 0b100, 0b0000001)
	addR("divu", 0b101, 0b0000001)
	addR("rem", 0b110, 0b0000001)
	addR("remu", 0b111, 0b0000001)

	// I-type arithmetic immediate (rd, rs1, imm).
	iSig := ArgSig{reg(SlotRd), reg(SlotRs1), immArg}
	addI := func(name string, funct3 uint32) {
		add(name, Format{Kind: I, Opcode: opOPIMM, Funct3: funct3}, iSig)
	}
	addI("addi", 0b000)
	addI("slti", 0b010)
	addI("sltiu", 0b011)
	addI("xori", 0b100)
	addI("ori", 0b110)
	addI("andi", 0b111)

	// I2: shift-immediate, fixed top-7 bits over imm[11:5], shamt in imm[4:0].
	addI2 := func(name string, funct7 uint32) {
		add(name, Format{Kind: I2, Opcode: opOPIMM, Funct3: 0b101, Funct7: funct7}, iSig)
	}
	add("slli", Format{Kind: I2, Opcode: opOPIMM, Funct3: 0b001, Funct7: 0b0000000}, iSig)
	addI2("srli", 0b0000000)
	addI2("srai", 0b0100000)

	// jalr shares the I-type reg+reg+imm signature.
	add("jalr", Format{Kind: I, Opcode: opJALR, Funct3: 0b000}, iSig)

	// Loads (rd, imm(rs1)).
	loadSig := ArgSig{reg(SlotRd), memArg}
	addLoad := func(name string, funct3 uint32) {
		add(name, Format{Kind: I, Opcode: opLOAD, Funct3: funct3}, loadSig)
	}
	addLoad("lb", 0b000)
	addLoad("lh", 0b001)
	addLoad("lw", 0b010)
	addLoad("lbu", 0b100)
	addLoad("lhu", 0b101)

	// Stores (rs2-as-rd-slot, imm(rs1)).
	storeSig := ArgSig{reg(SlotRd), memArg}
	addStore := func(name string, funct3 uint32) {
		add(name, Format{Kind: S, Opcode: opSTORE, Funct3: funct3}, storeSig)
	}
	addStore("sb", 0b000)
	addStore("sh", 0b001)
	addStore("sw", 0b010)

	// Branches (rs1-as-rd-slot, rs2-as-ra-slot, symbol).
	branchSig := ArgSig{reg(SlotRd), reg(SlotRs1), symArg}
	addBranch := func(name string, funct3 uint32) {
		add(name, Format{Kind: B, Opcode: opBRANCH, Funct3: funct3}, branchSig)
	}
	addBranch("beq", 0b000)
	addBranch("bne", 0b001)
	addBranch("blt", 0b100)
	addBranch("bge", 0b101)
	addBranch("bltu", 0b110)
	addBranch("bgeu", 0b111)

	// U-type (rd, imm).
	uSig := ArgSig{reg(SlotRd), immArg}
	add("lui", Format{Kind: U, Opcode: opLUI}, uSig)
	add("auipc", Format{Kind: U, Opcode: opAUIPC}, uSig)

	// J-type (rd, symbol).
	add("jal", Format{Kind: J, Opcode: opJAL}, ArgSig{reg(SlotRd), symArg})

	// RV32F: single-precision float arithmetic (fd, fa, fb).
	fSig := ArgSig{reg(SlotRd), reg(SlotRs1), reg(SlotRs2)}
	addF := func(name string, funct7 uint32) {
		add(name, Format{Kind: R, Opcode: opOPFP, Funct7: funct7}, fSig)
	}
	addF("fadd.s", 0b0000000)
	addF("fsub.s", 0b0000100)
	addF("fmul.s", 0b0001000)
	addF("fdiv.s", 0b0001100)
	add("fsgnj.s", Format{Kind: R, Opcode: opOPFP, Funct3: 0b000, Funct7: 0b0010000}, fSig)

	// Float compare: integer rd, float fa/fb.
	addFCmp := func(name string, funct3 uint32) {
		add(name, Format{Kind: R, Opcode: opOPFP, Funct3: funct3, Funct7: 0b1010000}, fSig)
	}
	addFCmp("fle.s", 0b000)
	addFCmp("flt.s", 0b001)
	addFCmp("feq.s", 0b010)

	// fcvt.s.w: fd <- (f32)(i32) rs1 (rs2 field fixed to 0, carried in Funct7 row).
	add("fcvt.s.w", Format{Kind: R, Opcode: opOPFP, Funct3: 0b000, Funct7: 0b1101000},
		ArgSig{reg(SlotRd), reg(SlotRs1)})
	// fmv.w.x: fd <- bit_cast<f32>(rs1).
	add("fmv.w.x", Format{Kind: R, Opcode: opOPFP, Funct3: 0b000, Funct7: 0b1111000},
		ArgSig{reg(SlotRd), reg(SlotRs1)})
	// fmv.x.w: rd <- bit_cast<i32>(fa).
	add("fmv.x.w", Format{Kind: R, Opcode: opOPFP, Funct3: 0b000, Funct7: 0b1110000},
		ArgSig{reg(SlotRd), reg(SlotRs1)})

	// fmadd.s: fd <- fa*fb + fc (R4 format).
	add("fmadd.s", Format{Kind: R4, Opcode: opFMADD, Funct2: 0b00},
		ArgSig{reg(SlotRd), reg(SlotRs1), reg(SlotRs2), reg(SlotRs3)})

	// Pseudo-instructions, §4.A / §4.E.
	pseudo := func(name string, sig ArgSig) {
		add(name, Format{Kind: Pseudo, PseudoName: name}, sig)
	}
	pseudo("nop", ArgSig{})
	pseudo("li", ArgSig{reg(SlotRd), immArg})
	pseudo("mv", ArgSig{reg(SlotRd), reg(SlotRs1)})
	pseudo("not", ArgSig{reg(SlotRd), reg(SlotRs1)})
	pseudo("neg", ArgSig{reg(SlotRd), reg(SlotRs1)})
	pseudo("ret", ArgSig{})
	pseudo("call", ArgSig{symArg})
	pseudo("tail", ArgSig{symArg})
	pseudo("j", ArgSig{symArg})
	pseudo("beqz", ArgSig{reg(SlotRs1), symArg})
	pseudo("bnez", ArgSig{reg(SlotRs1), symArg})
}

// Lookup returns the table entry for a mnemonic (case-sensitive; the
// parser lower-cases nothing, mnemonics are written lowercase by
// convention same as the rest of the RISC-V toolchain).
func Lookup(name string) (Entry, bool) {
	e, ok := table[name]
	return e, ok
}

// LookupByEncoding is Lookup's inverse: given a format kind and the
// fixed bits a decoded word carries, it returns the mnemonic that
// produced them. The executor uses this to turn a fetched word back
// into something it can dispatch on.
func LookupByEncoding(kind FormatKind, opcode, funct3, funct7, funct2 uint32) (string, bool) {
	name, ok := byEncoding[encKey{kind, opcode, funct3, funct7, funct2}]
	return name, ok
}
