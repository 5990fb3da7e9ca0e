package env_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumikalt/rizzv-go/env"
)

func TestResolve_Aliases(t *testing.T) {
	e := env.New()

	tests := []struct {
		name string
		want int
	}{
		{"x0", 0}, {"zero", 0},
		{"x1", 1}, {"ra", 1},
		{"x2", 2}, {"sp", 2},
		{"x8", 8}, {"s0", 8}, {"fp", 8},
		{"x10", 10}, {"a0", 10},
		{"x31", 31}, {"t6", 31},
		{"f0", 0}, {"ft0", 0},
		{"f10", 10}, {"fa0", 10},
		{"f31", 31}, {"ft11", 31},
	}

	for _, tt := range tests {
		idx, ok := e.Resolve(tt.name)
		require.True(t, ok, tt.name)
		assert.Equal(t, tt.want, idx, tt.name)
	}
}

func TestResolve_Unknown(t *testing.T) {
	e := env.New()
	for _, name := range []string{"x32", "q7", "a8", "t7", "s12", "fs12", "loop"} {
		_, ok := e.Resolve(name)
		assert.False(t, ok, name)
	}
}

func TestZeroRegister(t *testing.T) {
	e := env.New()
	e.SetReg(0, 0xDEADBEEF)
	assert.Equal(t, uint32(0), e.GetReg(0))

	e.SetReg(1, 0xDEADBEEF)
	assert.Equal(t, uint32(0xDEADBEEF), e.GetReg(1))
}

func TestStackPointerStartsAtTopOfMemory(t *testing.T) {
	e := env.New()
	assert.Equal(t, uint32(env.DataMemSize), e.GetReg(2))
}

func TestLabels(t *testing.T) {
	e := env.New()
	_, ok := e.LabelLookup("loop")
	assert.False(t, ok)

	e.LabelInsert("loop", 8)
	addr, ok := e.LabelLookup("loop")
	require.True(t, ok)
	assert.Equal(t, uint32(8), addr)
}

func TestMemory_LittleEndian(t *testing.T) {
	e := env.New()

	e.WriteWord(16, 0x11223344)
	assert.Equal(t, byte(0x44), e.ReadByte(16))
	assert.Equal(t, byte(0x33), e.ReadByte(17))
	assert.Equal(t, byte(0x22), e.ReadByte(18))
	assert.Equal(t, byte(0x11), e.ReadByte(19))
	assert.Equal(t, uint16(0x3344), e.ReadHalf(16))
	assert.Equal(t, uint16(0x1122), e.ReadHalf(18))
	assert.Equal(t, uint32(0x11223344), e.ReadWord(16))

	e.WriteHalf(20, 0xBEEF)
	assert.Equal(t, byte(0xEF), e.ReadByte(20))
	assert.Equal(t, byte(0xBE), e.ReadByte(21))
}

func TestMemory_WrapsModuloSize(t *testing.T) {
	e := env.New()
	e.WriteByte(env.DataMemSize+4, 0x7F)
	assert.Equal(t, byte(0x7F), e.ReadByte(4))
}

func TestFloatBitCast(t *testing.T) {
	bits := env.Float32ToBits(1.0)
	assert.Equal(t, uint32(0x3F800000), bits)
	assert.Equal(t, float32(1.0), env.BitsToFloat32(0x3F800000))
}
