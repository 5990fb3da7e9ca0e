package isa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumikalt/rizzv-go/isa"
)

func TestLookup_RepresentativeEntries(t *testing.T) {
	tests := []struct {
		name   string
		kind   isa.FormatKind
		arity  int
		funct3 uint32
		funct7 uint32
	}{
		{"nop", isa.Pseudo, 0, 0, 0},
		{"li", isa.Pseudo, 2, 0, 0},
		{"lui", isa.U, 2, 0, 0},
		{"sb", isa.S, 2, 0b000, 0},
		{"add", isa.R, 3, 0b000, 0b0000000},
		{"addi", isa.I, 3, 0b000, 0},
		{"mul", isa.R, 3, 0b000, 0b0000001},
		{"div", isa.R, 3, 0b100, 0b0000001},
		{"beq", isa.B, 3, 0b000, 0},
		{"bne", isa.B, 3, 0b001, 0},
		{"beqz", isa.Pseudo, 2, 0, 0},
		{"bnez", isa.Pseudo, 2, 0, 0},
		{"j", isa.Pseudo, 1, 0, 0},
		{"jal", isa.J, 2, 0, 0},
		{"fadd.s", isa.R, 3, 0, 0b0000000},
		{"fdiv.s", isa.R, 3, 0, 0b0001100},
		{"fmadd.s", isa.R4, 4, 0, 0},
		{"fcvt.s.w", isa.R, 2, 0, 0b1101000},
		{"fmv.w.x", isa.R, 2, 0, 0b1111000},
	}

	for _, tt := range tests {
		entry, ok := isa.Lookup(tt.name)
		require.True(t, ok, tt.name)
		assert.Equal(t, tt.kind, entry.Format.Kind, tt.name)
		assert.Len(t, entry.Sig, tt.arity, tt.name)
		if tt.kind != isa.Pseudo {
			assert.Equal(t, tt.funct3, entry.Format.Funct3, tt.name)
			assert.Equal(t, tt.funct7, entry.Format.Funct7, tt.name)
		}
	}
}

func TestLookup_UnknownMnemonic(t *testing.T) {
	_, ok := isa.Lookup("frobnicate")
	assert.False(t, ok)
}

func TestLookupByEncoding_Inverse(t *testing.T) {
	for _, name := range []string{"add", "sub", "mul", "divu", "addi", "slli", "srai",
		"lw", "sw", "beq", "bgeu", "lui", "jal", "jalr", "fadd.s", "fmadd.s"} {
		entry, ok := isa.Lookup(name)
		require.True(t, ok, name)
		f := entry.Format
		got, ok := isa.LookupByEncoding(f.Kind, f.Opcode, f.Funct3, f.Funct7, f.Funct2)
		require.True(t, ok, name)
		assert.Equal(t, name, got)
	}
}

func TestLookupByEncoding_NoPseudoEntries(t *testing.T) {
	for _, name := range []string{"nop", "li", "mv", "ret", "j", "beqz"} {
		entry, ok := isa.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, isa.Pseudo, entry.Format.Kind, name)
		assert.Equal(t, name, entry.Format.PseudoName, name)
		_, found := isa.LookupByEncoding(entry.Format.Kind, entry.Format.Opcode,
			entry.Format.Funct3, entry.Format.Funct7, entry.Format.Funct2)
		assert.False(t, found, name)
	}
}

func TestRegNames(t *testing.T) {
	assert.Equal(t, "zero", isa.RegName(0))
	assert.Equal(t, "sp", isa.RegName(2))
	assert.Equal(t, "a0", isa.RegName(10))
	assert.Equal(t, "t6", isa.RegName(31))
	assert.Equal(t, "ft0", isa.FRegName(0))
	assert.Equal(t, "fa0", isa.FRegName(10))
	assert.Equal(t, "ft11", isa.FRegName(31))
	assert.Equal(t, "?", isa.RegName(32))
}

func TestUsesFloatRegs(t *testing.T) {
	rd, rs := isa.UsesFloatRegs("fadd.s")
	assert.True(t, rd)
	assert.True(t, rs)

	rd, rs = isa.UsesFloatRegs("fcvt.s.w")
	assert.True(t, rd)
	assert.False(t, rs)

	rd, rs = isa.UsesFloatRegs("feq.s")
	assert.False(t, rd)
	assert.True(t, rs)

	rd, rs = isa.UsesFloatRegs("add")
	assert.False(t, rd)
	assert.False(t, rs)
}
