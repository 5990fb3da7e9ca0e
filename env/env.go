// Package env is the simulated machine state:
// the integer and float register files, PC, a byte-addressable data
// memory, the label table and the assembled instruction memory.
package env

import (
	"math"
	"strconv"

	"github.com/lumikalt/rizzv-go/isa"
)

const (
	// NumRegisters is the size of both the integer and float register files.
	NumRegisters = 32

	// DataMemSize is the size of the data memory backing loads and
	// stores. The initial stack pointer starts at its top.
	DataMemSize = 4096
)

// Env owns every piece of mutable state the assembler and executor act
// on. It is created once by a caller and passed in explicitly; nothing
// in this package is a package-level global.
type Env struct {
	Registers  [NumRegisters]uint32
	FRegisters [NumRegisters]float32

	PC uint32

	// Memory is the byte-addressable data segment for lb/lh/lw/lbu/lhu
	// and sb/sh/sw. The initial stack pointer (x2) points at its top.
	Memory [DataMemSize]byte

	Labels map[string]uint32
	alias  map[string]int

	// Instructions is the assembled program, indexed by PC/4.
	Instructions []uint32
}

// New creates an Env with the alias table populated from the standard
// RISC-V ABI names and the stack pointer initialized to the top of
// data memory.
func New() *Env {
	e := &Env{
		Labels: make(map[string]uint32),
		alias:  make(map[string]int),
	}
	e.populateAliases()
	e.Registers[2] = DataMemSize // sp
	return e
}

func (e *Env) populateAliases() {
	for i := 0; i < NumRegisters; i++ {
		e.alias["x"+strconv.Itoa(i)] = i
		e.alias[isa.ABINames[i]] = i
	}
	e.alias["fp"] = 8 // s0 alias
	for i := 0; i < NumRegisters; i++ {
		e.alias["f"+strconv.Itoa(i)] = i
		e.alias[isa.FABINames[i]] = i
	}
}

// Resolve returns the register index for a name (xN, fN, or any ABI
// alias). Integer and float names share the same 0-31 index space but
// are looked up through separate getter/setter families.
func (e *Env) Resolve(name string) (int, bool) {
	idx, ok := e.alias[name]
	return idx, ok
}

// GetReg returns an integer register's value. x0 always reads as 0.
func (e *Env) GetReg(i int) uint32 {
	if i == 0 {
		return 0
	}
	return e.Registers[i]
}

// SetReg writes an integer register. Writes to x0 are silently
// discarded; this setter is the one place that invariant lives.
func (e *Env) SetReg(i int, v uint32) {
	if i == 0 {
		return
	}
	e.Registers[i] = v
}

// GetFReg returns a float register's value.
func (e *Env) GetFReg(i int) float32 {
	return e.FRegisters[i]
}

// SetFReg writes a float register.
func (e *Env) SetFReg(i int, v float32) {
	e.FRegisters[i] = v
}

// LabelInsert records a label's byte address. Pass 1 of the assembler
// calls this exactly once per label; later passes never change it.
func (e *Env) LabelInsert(name string, addr uint32) {
	e.Labels[name] = addr
}

// LabelLookup resolves a label to its byte address.
func (e *Env) LabelLookup(name string) (uint32, bool) {
	addr, ok := e.Labels[name]
	return addr, ok
}

// ReadByte/ReadHalf/ReadWord/WriteByte/WriteHalf/WriteWord implement the
// little-endian byte-addressable data memory backing loads and stores.
// Out-of-range accesses wrap modulo DataMemSize rather than faulting;
// there is no trap model.

func (e *Env) ReadByte(addr uint32) byte {
	return e.Memory[addr%DataMemSize]
}

func (e *Env) WriteByte(addr uint32, v byte) {
	e.Memory[addr%DataMemSize] = v
}

func (e *Env) ReadHalf(addr uint32) uint16 {
	a := addr % DataMemSize
	return uint16(e.Memory[a]) | uint16(e.Memory[(a+1)%DataMemSize])<<8
}

func (e *Env) WriteHalf(addr uint32, v uint16) {
	a := addr % DataMemSize
	e.Memory[a] = byte(v)
	e.Memory[(a+1)%DataMemSize] = byte(v >> 8)
}

func (e *Env) ReadWord(addr uint32) uint32 {
	a := addr % DataMemSize
	var v uint32
	for i := uint32(0); i < 4; i++ {
		v |= uint32(e.Memory[(a+i)%DataMemSize]) << (8 * i)
	}
	return v
}

func (e *Env) WriteWord(addr uint32, v uint32) {
	a := addr % DataMemSize
	for i := uint32(0); i < 4; i++ {
		e.Memory[(a+i)%DataMemSize] = byte(v >> (8 * i))
	}
}

// BitsToFloat32/Float32ToBits implement the bit_cast the GLOSSARY
// describes, used by fmv.w.x and fmv.x.w.
func BitsToFloat32(bits uint32) float32 { return math.Float32frombits(bits) }
func Float32ToBits(f float32) uint32    { return math.Float32bits(f) }
