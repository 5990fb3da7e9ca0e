package executor

import (
	"fmt"
	"strings"

	"github.com/lumikalt/rizzv-go/env"
	"github.com/lumikalt/rizzv-go/isa"
)

// Base selects how Explain renders register values and immediates.
type Base int

const (
	BaseHex Base = iota
	BaseDec
	BaseBin
)

// ParseBase maps a config/CLI string to a Base.
func ParseBase(s string) (Base, bool) {
	switch strings.ToLower(s) {
	case "hex", "hexadecimal":
		return BaseHex, true
	case "dec", "decimal":
		return BaseDec, true
	case "bin", "binary":
		return BaseBin, true
	}
	return BaseHex, false
}

// Format renders a 32-bit value in the selected base.
func (b Base) Format(v uint32) string {
	switch b {
	case BaseDec:
		return fmt.Sprintf("%d", int32(v))
	case BaseBin:
		return fmt.Sprintf("0b%b", v)
	default:
		return fmt.Sprintf("0x%x", v)
	}
}

// Highlight lists the register indices an instruction reads, split by
// register file, for the UI to mark after a step.
type Highlight struct {
	Ints   []int
	Floats []int
}

// Explain produces a short human-readable description of a mnemonic
// with its argument strings, plus the set of registers the instruction
// reads. Register values are rendered from e in the selected base.
// Mnemonics without bespoke text fall back to a generic line.
func Explain(e *env.Env, name string, args []string, base Base) (string, Highlight) {
	hl := readRegisters(e, name, args)

	a := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return "?"
	}

	var text string
	switch name {
	case "nop":
		text = "nop: do nothing for one cycle"
	case "li":
		text = fmt.Sprintf("li: load the immediate %s into %s", a(1), a(0))
	case "lui":
		text = fmt.Sprintf("lui: set the upper 20 bits of %s to %s, clearing the lower 12", a(0), a(1))
	case "auipc":
		text = fmt.Sprintf("auipc: add %s shifted up 12 bits to the current pc, into %s", a(1), a(0))
	case "mv":
		text = fmt.Sprintf("mv: copy %s into %s", a(1), a(0))
	case "not":
		text = fmt.Sprintf("not: write the bitwise complement of %s into %s", a(1), a(0))
	case "neg":
		text = fmt.Sprintf("neg: write the two's-complement negation of %s into %s", a(1), a(0))
	case "add":
		text = fmt.Sprintf("add: %s <- %s + %s, wrapping on overflow", a(0), a(1), a(2))
	case "addi":
		text = fmt.Sprintf("addi: %s <- %s + %s, wrapping on overflow", a(0), a(1), a(2))
	case "sub":
		text = fmt.Sprintf("sub: %s <- %s - %s, wrapping on overflow", a(0), a(1), a(2))
	case "mul":
		text = fmt.Sprintf("mul: %s <- low 32 bits of %s * %s", a(0), a(1), a(2))
	case "mulh":
		text = fmt.Sprintf("mulh: %s <- high 32 bits of signed %s * signed %s", a(0), a(1), a(2))
	case "mulhu":
		text = fmt.Sprintf("mulhu: %s <- high 32 bits of unsigned %s * unsigned %s", a(0), a(1), a(2))
	case "mulhsu":
		text = fmt.Sprintf("mulhsu: %s <- high 32 bits of signed %s * unsigned %s", a(0), a(1), a(2))
	case "div":
		text = fmt.Sprintf("div: %s <- %s / %s (signed; division by zero gives -1)", a(0), a(1), a(2))
	case "divu":
		text = fmt.Sprintf("divu: %s <- %s / %s (unsigned; division by zero gives all ones)", a(0), a(1), a(2))
	case "rem":
		text = fmt.Sprintf("rem: %s <- %s %% %s (signed; remainder by zero gives the dividend)", a(0), a(1), a(2))
	case "remu":
		text = fmt.Sprintf("remu: %s <- %s %% %s (unsigned; remainder by zero gives the dividend)", a(0), a(1), a(2))
	case "beq", "beqz":
		text = fmt.Sprintf("%s: branch if %s equals %s", name, a(0), beqzRHS(name, a))
	case "bne", "bnez":
		text = fmt.Sprintf("%s: branch if %s differs from %s", name, a(0), beqzRHS(name, a))
	case "blt":
		text = fmt.Sprintf("blt: branch if %s < %s, signed", a(0), a(1))
	case "bge":
		text = fmt.Sprintf("bge: branch if %s >= %s, signed", a(0), a(1))
	case "bltu":
		text = fmt.Sprintf("bltu: branch if %s < %s, unsigned", a(0), a(1))
	case "bgeu":
		text = fmt.Sprintf("bgeu: branch if %s >= %s, unsigned", a(0), a(1))
	case "j":
		text = fmt.Sprintf("j: jump to %s", a(0))
	case "jal":
		text = fmt.Sprintf("jal: save the return address in %s, then jump to %s", a(0), a(1))
	case "jalr":
		text = fmt.Sprintf("jalr: save the return address in %s, then jump to %s + %s", a(0), a(1), a(2))
	case "ret":
		text = "ret: return to the address saved in ra"
	case "call":
		text = fmt.Sprintf("call: save the return address in ra, then jump to %s", a(0))
	case "lb", "lh", "lw", "lbu", "lhu":
		text = fmt.Sprintf("%s: load %s from memory at %s", name, loadWidth(name), a(1))
	case "sb", "sh", "sw":
		text = fmt.Sprintf("%s: store %s of %s to memory at %s", name, loadWidth(name), a(0), a(1))
	case "fadd.s":
		text = fmt.Sprintf("fadd.s: %s <- %s + %s, single precision", a(0), a(1), a(2))
	case "fsub.s":
		text = fmt.Sprintf("fsub.s: %s <- %s - %s, single precision", a(0), a(1), a(2))
	case "fmul.s":
		text = fmt.Sprintf("fmul.s: %s <- %s * %s, single precision", a(0), a(1), a(2))
	case "fdiv.s":
		text = fmt.Sprintf("fdiv.s: %s <- %s / %s, single precision", a(0), a(1), a(2))
	case "fmadd.s":
		text = fmt.Sprintf("fmadd.s: %s <- %s * %s + %s, fused", a(0), a(1), a(2), a(3))
	case "fcvt.s.w":
		text = fmt.Sprintf("fcvt.s.w: convert the signed integer in %s to a float in %s", a(1), a(0))
	case "fmv.w.x":
		text = fmt.Sprintf("fmv.w.x: move the raw bits of %s into %s, no conversion", a(1), a(0))
	case "fmv.x.w":
		text = fmt.Sprintf("fmv.x.w: move the raw bits of %s into %s, no conversion", a(1), a(0))
	default:
		text = fmt.Sprintf("execute `%s`", name)
	}

	if vals := registerValues(e, hl, base); vals != "" {
		text += "\n" + vals
	}
	return text, hl
}

func beqzRHS(name string, a func(int) string) string {
	if name == "beqz" || name == "bnez" {
		return "zero"
	}
	return a(1)
}

func loadWidth(name string) string {
	switch name {
	case "lb", "lbu", "sb":
		return "a byte"
	case "lh", "lhu", "sh":
		return "a halfword"
	default:
		return "a word"
	}
}

// readRegisters works out which registers the instruction reads from
// its argument strings: every register-shaped argument except the
// destination, which is the first argument of anything that writes one.
// Branches and stores have no destination, so all their register
// arguments count as reads.
func readRegisters(e *env.Env, name string, args []string) Highlight {
	var hl Highlight
	readsAll := strings.HasPrefix(name, "b") || name == "sb" || name == "sh" || name == "sw"
	_, rsFloat := isa.UsesFloatRegs(name)

	for i, arg := range args {
		regName := arg
		// Pull the base register out of an imm(reg) operand.
		if open := strings.IndexByte(arg, '('); open >= 0 && strings.HasSuffix(arg, ")") {
			regName = arg[open+1 : len(arg)-1]
		}
		idx, ok := e.Resolve(regName)
		if !ok {
			continue
		}
		if i == 0 && !readsAll && regName == arg {
			continue // destination
		}
		if rsFloat && strings.HasPrefix(regName, "f") && regName != "fp" {
			hl.Floats = append(hl.Floats, idx)
		} else {
			hl.Ints = append(hl.Ints, idx)
		}
	}
	return hl
}

// registerValues renders "name = value" for each highlighted register.
func registerValues(e *env.Env, hl Highlight, base Base) string {
	var parts []string
	for _, i := range hl.Ints {
		parts = append(parts, fmt.Sprintf("%s = %s", isa.RegName(i), base.Format(e.GetReg(i))))
	}
	for _, i := range hl.Floats {
		parts = append(parts, fmt.Sprintf("%s = %g", isa.FRegName(i), e.GetFReg(i)))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, ", ")
}
