package isa

// ABINames maps integer register indices to their standard ABI names.
var ABINames = [32]string{
	"zero", "ra", "sp", "gp", "tp",
	"t0", "t1", "t2",
	"s0", "s1",
	"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7",
	"s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10", "s11",
	"t3", "t4", "t5", "t6",
}

// FABINames maps float register indices to their standard ABI names.
var FABINames = [32]string{
	"ft0", "ft1", "ft2", "ft3", "ft4", "ft5", "ft6", "ft7",
	"fs0", "fs1",
	"fa0", "fa1", "fa2", "fa3", "fa4", "fa5", "fa6", "fa7",
	"fs2", "fs3", "fs4", "fs5", "fs6", "fs7", "fs8", "fs9", "fs10", "fs11",
	"ft8", "ft9", "ft10", "ft11",
}

// RegName returns the ABI name for an integer register index.
func RegName(i int) string {
	if i < 0 || i >= 32 {
		return "?"
	}
	return ABINames[i]
}

// FRegName returns the ABI name for a float register index.
func FRegName(i int) string {
	if i < 0 || i >= 32 {
		return "?"
	}
	return FABINames[i]
}

// UsesFloatRegs reports which operand positions of a mnemonic read or
// write the float register file rather than the integer one. The OP-FP
// and FMADD opcode spaces are float-register instructions except for
// the slots that bridge the two files: the integer rd of the compares
// and fmv.x.w, and the integer rs1 of fcvt.s.w and fmv.w.x.
func UsesFloatRegs(name string) (rdFloat, rsFloat bool) {
	switch name {
	case "fadd.s", "fsub.s", "fmul.s", "fdiv.s", "fsgnj.s", "fmadd.s":
		return true, true
	case "feq.s", "flt.s", "fle.s", "fmv.x.w":
		return false, true
	case "fcvt.s.w", "fmv.w.x":
		return true, false
	default:
		return false, false
	}
}
