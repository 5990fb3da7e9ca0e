package encoder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumikalt/rizzv-go/encoder"
	"github.com/lumikalt/rizzv-go/isa"
)

// place looks up a mnemonic and encodes it in one call.
func place(t *testing.T, name string, imm uint32, regs encoder.Regs) uint32 {
	t.Helper()
	entry, ok := isa.Lookup(name)
	require.True(t, ok, "mnemonic %s must be in the table", name)
	return encoder.Place(entry.Format, imm, regs)
}

func TestPlace_ExactWords(t *testing.T) {
	tests := []struct {
		name string
		imm  uint32
		regs encoder.Regs
		want uint32
	}{
		{"addi", 0, encoder.Regs{0, 0, 0, 0}, 0x00000013},          // nop
		{"lui", 13609 << 12, encoder.Regs{10, 0, 0, 0}, 0x03529537},
		{"addi", 1, encoder.Regs{10, 10, 0, 0}, 0x00150513},
		{"add", 0, encoder.Regs{10, 10, 11, 0}, 0x00B50533},
		{"sb", 0xFFFFFFFC, encoder.Regs{30, 2, 0, 0}, 0xFFE10E23}, // sb t5 -4(sp)
		{"beq", 4, encoder.Regs{10, 11, 0, 0}, 0x00B50263},        // beq a0 a1 4
		{"lui", 0xD000, encoder.Regs{10, 0, 0, 0}, 0x0000D537},    // li a0 53289 step 1
		{"addi", 0x29, encoder.Regs{10, 10, 0, 0}, 0x02950513},    // li a0 53289 step 2
	}

	for _, tt := range tests {
		got := place(t, tt.name, tt.imm, tt.regs)
		assert.Equalf(t, tt.want, got, "%s imm=%#x regs=%v", tt.name, tt.imm, tt.regs)
	}
}

func TestRoundTrip_AllFormats(t *testing.T) {
	tests := []struct {
		name    string
		imm     uint32
		regs    encoder.Regs
		immMask uint32 // bits the format can actually carry back
	}{
		{"add", 0, encoder.Regs{1, 2, 3, 0}, 0},
		{"mul", 0, encoder.Regs{31, 30, 29, 0}, 0},
		{"addi", 0x7FF, encoder.Regs{5, 6, 0, 0}, 0xFFFFFFFF},
		{"addi", 0xFFFFF800, encoder.Regs{5, 6, 0, 0}, 0xFFFFFFFF}, // -2048
		{"slli", 31, encoder.Regs{1, 2, 0, 0}, 0x1F},
		{"sw", 0xFFFFFFFC, encoder.Regs{7, 8, 0, 0}, 0xFFFFFFFF},
		{"sh", 2047, encoder.Regs{1, 31, 0, 0}, 0xFFFFFFFF},
		{"beq", 0xFFFFF000, encoder.Regs{9, 10, 0, 0}, 0xFFFFFFFE},
		{"bne", 4094, encoder.Regs{1, 2, 0, 0}, 0xFFFFFFFE},
		{"lui", 0xABCDE000, encoder.Regs{11, 0, 0, 0}, 0xFFFFF000},
		{"jal", 0x000FF7FE, encoder.Regs{1, 0, 0, 0}, 0xFFFFFFFE},
		{"jal", 0xFFF00000, encoder.Regs{0, 0, 0, 0}, 0xFFFFFFFE},
		{"fmadd.s", 0, encoder.Regs{1, 2, 3, 4}, 0},
	}

	for _, tt := range tests {
		entry, ok := isa.Lookup(tt.name)
		require.True(t, ok)

		w := encoder.Place(entry.Format, tt.imm, tt.regs)
		kind, err := encoder.FormatFor(w)
		require.NoErrorf(t, err, "%s word %#x", tt.name, w)
		assert.Equal(t, entry.Format.Kind, kind, tt.name)

		imm, regs := encoder.Decode(w, kind)
		assert.Equalf(t, tt.imm&tt.immMask, imm&tt.immMask, "%s immediate", tt.name)
		if tt.immMask != 0 {
			assert.Equalf(t, tt.imm&tt.immMask, imm, "%s full decoded immediate", tt.name)
		}

		// Register slots round-trip exactly for the slots the format has.
		nregs := 0
		for _, spec := range entry.Sig {
			if spec.Kind == isa.ArgRegister || spec.Kind == isa.ArgMemory {
				nregs++
			}
		}
		for i := 0; i < nregs; i++ {
			assert.Equalf(t, tt.regs[i], regs[i], "%s regs[%d]", tt.name, i)
		}
	}
}

func TestRoundTrip_MnemonicRecovery(t *testing.T) {
	names := []string{
		"add", "sub", "sll", "slt", "sltu", "xor", "srl", "sra", "or", "and",
		"mul", "mulh", "mulhsu", "mulhu", "div", "divu", "rem", "remu",
		"addi", "slti", "sltiu", "xori", "ori", "andi", "slli", "srli", "srai",
		"lb", "lh", "lw", "lbu", "lhu", "sb", "sh", "sw",
		"beq", "bne", "blt", "bge", "bltu", "bgeu",
		"lui", "auipc", "jal", "jalr",
		"fadd.s", "fsub.s", "fmul.s", "fdiv.s", "fsgnj.s",
		"feq.s", "flt.s", "fle.s", "fcvt.s.w", "fmv.w.x", "fmv.x.w", "fmadd.s",
	}

	for _, name := range names {
		entry, ok := isa.Lookup(name)
		require.True(t, ok, name)

		w := encoder.Place(entry.Format, 0, encoder.Regs{1, 2, 3, 4})
		kind, err := encoder.FormatFor(w)
		require.NoError(t, err, name)
		opcode, funct3, funct7, funct2 := encoder.FieldsFor(w, kind)
		got, ok := isa.LookupByEncoding(kind, opcode, funct3, funct7, funct2)
		require.True(t, ok, name)
		assert.Equal(t, name, got)
	}
}

func TestFormatFor_UnknownOpcode(t *testing.T) {
	_, err := encoder.FormatFor(0xFFFFFFFF)
	require.Error(t, err)
	assert.IsType(t, &encoder.ErrUnknownEncoding{}, err)
}

func TestDisassemble(t *testing.T) {
	tests := []struct {
		word uint32
		want string
	}{
		{0x00000013, "addi zero zero 0"},
		{0x00B50533, "add a0 a0 a1"},
		{0x00150513, "addi a0 a0 1"},
		{0xFFE10E23, "sb t5 -4(sp)"},
		{0x00B50263, "beq a0 a1 4"},
		{0x0000D537, "lui a0 13"},
		{0x02950513, "addi a0 a0 41"},
	}

	for _, tt := range tests {
		got, err := encoder.Disassemble(tt.word)
		require.NoErrorf(t, err, "word %#x", tt.word)
		assert.Equal(t, tt.want, got)
	}
}

func TestDisassemble_UnknownWord(t *testing.T) {
	_, err := encoder.Disassemble(0x0000007F)
	assert.Error(t, err)
}
