// Package executor is the decode-and-execute engine: it fetches each
// assembled 32-bit word, pattern-matches it on (opcode, funct3, funct7),
// and mutates the Environment's registers, float registers, memory and
// PC. Step handles a single word; Run drives the fetch/dispatch/update
// loop to termination.
package executor

import (
	"fmt"

	"github.com/lumikalt/rizzv-go/encoder"
	"github.com/lumikalt/rizzv-go/env"
	"github.com/lumikalt/rizzv-go/isa"
)

const intMin = uint32(0x80000000)

// Error is a fatal execution error. An unrecognized encoding aborts
// the current program; nothing else in Step can fail.
type Error struct {
	PC   uint32
	Word uint32
}

func (e *Error) Error() string {
	return fmt.Sprintf("unknown encoding at pc=0x%08x: word 0x%08x", e.PC, e.Word)
}

// Step decodes and executes a single instruction word against e. The
// returned bool reports whether the instruction already updated the PC
// (a taken branch or jump); when false the caller advances the PC by 4.
// A failing Step leaves e untouched, including the PC.
func Step(e *env.Env, w uint32) (jumped bool, err error) {
	kind, ferr := encoder.FormatFor(w)
	if ferr != nil {
		return false, &Error{PC: e.PC, Word: w}
	}
	opcode, funct3, funct7, funct2 := encoder.FieldsFor(w, kind)
	name, ok := isa.LookupByEncoding(kind, opcode, funct3, funct7, funct2)
	if !ok {
		return false, &Error{PC: e.PC, Word: w}
	}
	imm, regs := encoder.Decode(w, kind)

	switch name {
	case "lui":
		e.SetReg(int(regs[0]), imm)
	case "auipc":
		e.SetReg(int(regs[0]), e.PC+imm)

	case "jal":
		e.SetReg(int(regs[0]), e.PC+4)
		e.PC += imm
		return true, nil
	case "jalr":
		target := (e.GetReg(int(regs[1])) + imm) &^ 1
		e.SetReg(int(regs[0]), e.PC+4)
		e.PC = target
		return true, nil

	case "beq", "bne", "blt", "bge", "bltu", "bgeu":
		// B-format decode hands back (rs1, rs2) in the first two slots.
		a := e.GetReg(int(regs[0]))
		b := e.GetReg(int(regs[1]))
		var taken bool
		switch name {
		case "beq":
			taken = a == b
		case "bne":
			taken = a != b
		case "blt":
			taken = int32(a) < int32(b)
		case "bge":
			taken = int32(a) >= int32(b)
		case "bltu":
			taken = a < b
		case "bgeu":
			taken = a >= b
		}
		if taken {
			e.PC += imm
			return true, nil
		}

	case "lb":
		addr := e.GetReg(int(regs[1])) + imm
		e.SetReg(int(regs[0]), uint32(int32(int8(e.ReadByte(addr)))))
	case "lh":
		addr := e.GetReg(int(regs[1])) + imm
		e.SetReg(int(regs[0]), uint32(int32(int16(e.ReadHalf(addr)))))
	case "lw":
		addr := e.GetReg(int(regs[1])) + imm
		e.SetReg(int(regs[0]), e.ReadWord(addr))
	case "lbu":
		addr := e.GetReg(int(regs[1])) + imm
		e.SetReg(int(regs[0]), uint32(e.ReadByte(addr)))
	case "lhu":
		addr := e.GetReg(int(regs[1])) + imm
		e.SetReg(int(regs[0]), uint32(e.ReadHalf(addr)))

	case "sb", "sh", "sw":
		// S-format decode hands back (rs2, rs1): the stored value first,
		// then the base register.
		addr := e.GetReg(int(regs[1])) + imm
		v := e.GetReg(int(regs[0]))
		switch name {
		case "sb":
			e.WriteByte(addr, byte(v))
		case "sh":
			e.WriteHalf(addr, uint16(v))
		case "sw":
			e.WriteWord(addr, v)
		}

	case "addi":
		e.SetReg(int(regs[0]), e.GetReg(int(regs[1]))+imm)
	case "slti":
		e.SetReg(int(regs[0]), boolToReg(int32(e.GetReg(int(regs[1]))) < int32(imm)))
	case "sltiu":
		e.SetReg(int(regs[0]), boolToReg(e.GetReg(int(regs[1])) < imm))
	case "xori":
		e.SetReg(int(regs[0]), e.GetReg(int(regs[1]))^imm)
	case "ori":
		e.SetReg(int(regs[0]), e.GetReg(int(regs[1]))|imm)
	case "andi":
		e.SetReg(int(regs[0]), e.GetReg(int(regs[1]))&imm)
	case "slli":
		e.SetReg(int(regs[0]), e.GetReg(int(regs[1]))<<(imm&0x1F))
	case "srli":
		e.SetReg(int(regs[0]), e.GetReg(int(regs[1]))>>(imm&0x1F))
	case "srai":
		e.SetReg(int(regs[0]), uint32(int32(e.GetReg(int(regs[1])))>>(imm&0x1F)))

	case "add":
		e.SetReg(int(regs[0]), e.GetReg(int(regs[1]))+e.GetReg(int(regs[2])))
	case "sub":
		e.SetReg(int(regs[0]), e.GetReg(int(regs[1]))-e.GetReg(int(regs[2])))
	case "sll":
		e.SetReg(int(regs[0]), e.GetReg(int(regs[1]))<<(e.GetReg(int(regs[2]))&0x1F))
	case "slt":
		e.SetReg(int(regs[0]), boolToReg(int32(e.GetReg(int(regs[1]))) < int32(e.GetReg(int(regs[2])))))
	case "sltu":
		e.SetReg(int(regs[0]), boolToReg(e.GetReg(int(regs[1])) < e.GetReg(int(regs[2]))))
	case "xor":
		e.SetReg(int(regs[0]), e.GetReg(int(regs[1]))^e.GetReg(int(regs[2])))
	case "srl":
		e.SetReg(int(regs[0]), e.GetReg(int(regs[1]))>>(e.GetReg(int(regs[2]))&0x1F))
	case "sra":
		e.SetReg(int(regs[0]), uint32(int32(e.GetReg(int(regs[1])))>>(e.GetReg(int(regs[2]))&0x1F)))
	case "or":
		e.SetReg(int(regs[0]), e.GetReg(int(regs[1]))|e.GetReg(int(regs[2])))
	case "and":
		e.SetReg(int(regs[0]), e.GetReg(int(regs[1]))&e.GetReg(int(regs[2])))

	case "mul":
		e.SetReg(int(regs[0]), e.GetReg(int(regs[1]))*e.GetReg(int(regs[2])))
	case "mulh":
		p := int64(int32(e.GetReg(int(regs[1])))) * int64(int32(e.GetReg(int(regs[2]))))
		e.SetReg(int(regs[0]), uint32(uint64(p)>>32))
	case "mulhsu":
		p := int64(int32(e.GetReg(int(regs[1])))) * int64(e.GetReg(int(regs[2])))
		e.SetReg(int(regs[0]), uint32(uint64(p)>>32))
	case "mulhu":
		p := uint64(e.GetReg(int(regs[1]))) * uint64(e.GetReg(int(regs[2])))
		e.SetReg(int(regs[0]), uint32(p>>32))
	case "div":
		a, b := e.GetReg(int(regs[1])), e.GetReg(int(regs[2]))
		e.SetReg(int(regs[0]), divSigned(a, b))
	case "divu":
		a, b := e.GetReg(int(regs[1])), e.GetReg(int(regs[2]))
		if b == 0 {
			e.SetReg(int(regs[0]), 0xFFFFFFFF)
		} else {
			e.SetReg(int(regs[0]), a/b)
		}
	case "rem":
		a, b := e.GetReg(int(regs[1])), e.GetReg(int(regs[2]))
		e.SetReg(int(regs[0]), remSigned(a, b))
	case "remu":
		a, b := e.GetReg(int(regs[1])), e.GetReg(int(regs[2]))
		if b == 0 {
			e.SetReg(int(regs[0]), a)
		} else {
			e.SetReg(int(regs[0]), a%b)
		}

	case "fadd.s":
		e.SetFReg(int(regs[0]), e.GetFReg(int(regs[1]))+e.GetFReg(int(regs[2])))
	case "fsub.s":
		e.SetFReg(int(regs[0]), e.GetFReg(int(regs[1]))-e.GetFReg(int(regs[2])))
	case "fmul.s":
		e.SetFReg(int(regs[0]), e.GetFReg(int(regs[1]))*e.GetFReg(int(regs[2])))
	case "fdiv.s":
		e.SetFReg(int(regs[0]), e.GetFReg(int(regs[1]))/e.GetFReg(int(regs[2])))
	case "fsgnj.s":
		mag := env.Float32ToBits(e.GetFReg(int(regs[1]))) &^ intMin
		sign := env.Float32ToBits(e.GetFReg(int(regs[2]))) & intMin
		e.SetFReg(int(regs[0]), env.BitsToFloat32(mag|sign))
	case "fmadd.s":
		e.SetFReg(int(regs[0]),
			e.GetFReg(int(regs[1]))*e.GetFReg(int(regs[2]))+e.GetFReg(int(regs[3])))

	case "feq.s":
		e.SetReg(int(regs[0]), boolToReg(e.GetFReg(int(regs[1])) == e.GetFReg(int(regs[2]))))
	case "flt.s":
		e.SetReg(int(regs[0]), boolToReg(e.GetFReg(int(regs[1])) < e.GetFReg(int(regs[2]))))
	case "fle.s":
		e.SetReg(int(regs[0]), boolToReg(e.GetFReg(int(regs[1])) <= e.GetFReg(int(regs[2]))))

	case "fcvt.s.w":
		e.SetFReg(int(regs[0]), float32(int32(e.GetReg(int(regs[1])))))
	case "fmv.w.x":
		e.SetFReg(int(regs[0]), env.BitsToFloat32(e.GetReg(int(regs[1]))))
	case "fmv.x.w":
		e.SetReg(int(regs[0]), env.Float32ToBits(e.GetFReg(int(regs[1]))))

	default:
		return false, &Error{PC: e.PC, Word: w}
	}

	return false, nil
}

// divSigned implements the RV32M div result including its two special
// cases: division by zero yields -1, and INT_MIN / -1 wraps back to
// INT_MIN rather than trapping.
func divSigned(a, b uint32) uint32 {
	if b == 0 {
		return 0xFFFFFFFF
	}
	if a == intMin && b == 0xFFFFFFFF {
		return intMin
	}
	return uint32(int32(a) / int32(b))
}

// remSigned mirrors divSigned: remainder by zero yields the dividend,
// and the INT_MIN / -1 overflow case yields 0.
func remSigned(a, b uint32) uint32 {
	if b == 0 {
		return a
	}
	if a == intMin && b == 0xFFFFFFFF {
		return 0
	}
	return uint32(int32(a) % int32(b))
}

func boolToReg(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// StepInfo describes one completed step to a Run observer: the fetched
// word, where it sat, whether it transferred control, and the register
// state from before it ran so the observer can diff.
type StepInfo struct {
	Seq    uint64
	PC     uint32 // address of the executed instruction
	Word   uint32
	Jumped bool
	Prev   Snapshot
}

// RunOptions tunes Run. A zero MaxSteps means no limit; OnStep may be
// nil for headless execution.
type RunOptions struct {
	MaxSteps uint64
	OnStep   func(StepInfo)
}

// ErrMaxSteps is returned by Run when the step budget runs out before
// the program falls off the end of instruction memory, the usual sign
// of an infinite loop.
type ErrMaxSteps struct {
	Steps uint64
}

func (e *ErrMaxSteps) Error() string {
	return fmt.Sprintf("execution stopped after %d steps", e.Steps)
}

// Run drives the fetch/dispatch/update loop until the PC walks off the
// end of instruction memory: terminal state pc/4 >= len(instructions).
func Run(e *env.Env, opts RunOptions) error {
	var seq uint64

	for e.PC/4 < uint32(len(e.Instructions)) {
		if opts.MaxSteps > 0 && seq >= opts.MaxSteps {
			execLog.Printf("step budget exhausted at pc=0x%08x", e.PC)
			return &ErrMaxSteps{Steps: seq}
		}

		pc := e.PC
		w := e.Instructions[pc/4]
		prev := TakeSnapshot(e)

		jumped, err := Step(e, w)
		if err != nil {
			execLog.Printf("fatal at pc=0x%08x word=0x%08x after %d steps: %v", pc, w, seq, err)
			return err
		}
		if !jumped {
			e.PC += 4
		}

		if opts.OnStep != nil {
			opts.OnStep(StepInfo{Seq: seq, PC: pc, Word: w, Jumped: jumped, Prev: prev})
		}
		seq++
	}

	return nil
}
