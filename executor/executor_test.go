package executor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumikalt/rizzv-go/env"
	"github.com/lumikalt/rizzv-go/executor"
	"github.com/lumikalt/rizzv-go/loader"
)

// run assembles src into a fresh environment and executes it to
// completion.
func run(t *testing.T, src string) *env.Env {
	t.Helper()
	e := env.New()
	_, err := loader.Load(e, src)
	require.NoError(t, err)
	require.NoError(t, executor.Run(e, executor.RunOptions{MaxSteps: 10000}))
	return e
}

func reg(t *testing.T, e *env.Env, name string) uint32 {
	t.Helper()
	idx, ok := e.Resolve(name)
	require.True(t, ok, name)
	return e.GetReg(idx)
}

func freg(t *testing.T, e *env.Env, name string) float32 {
	t.Helper()
	idx, ok := e.Resolve(name)
	require.True(t, ok, name)
	return e.GetFReg(idx)
}

func TestRun_AddProgram(t *testing.T) {
	e := run(t, "li a0 5\nli a1 7\nadd a2 a0 a1\n")

	assert.Equal(t, uint32(5), reg(t, e, "a0"))
	assert.Equal(t, uint32(7), reg(t, e, "a1"))
	assert.Equal(t, uint32(12), reg(t, e, "a2"))

	// Everything else is untouched: only sp carries its initial value.
	for i := 1; i < env.NumRegisters; i++ {
		switch i {
		case 2, 10, 11, 12:
			continue
		}
		assert.Equalf(t, uint32(0), e.GetReg(i), "x%d", i)
	}
}

func TestRun_BranchNotTaken(t *testing.T) {
	e := run(t, "addi a0 x0 1\nbeq a0 x0 8\naddi a1 x0 42\n")
	assert.Equal(t, uint32(1), reg(t, e, "a0"))
	assert.Equal(t, uint32(42), reg(t, e, "a1"))
}

func TestRun_BranchTaken(t *testing.T) {
	e := run(t, "addi a0 x0 0\nbeq a0 x0 8\naddi a1 x0 42\naddi a2 x0 7\n")
	assert.Equal(t, uint32(0), reg(t, e, "a1"), "skipped instruction must not run")
	assert.Equal(t, uint32(7), reg(t, e, "a2"))
}

func TestRun_JalSkipsOver(t *testing.T) {
	e := run(t, "jal ra L\naddi a0 x0 1\nL: addi a1 x0 2\n")
	assert.Equal(t, uint32(0), reg(t, e, "a0"))
	assert.Equal(t, uint32(2), reg(t, e, "a1"))
	assert.Equal(t, uint32(4), reg(t, e, "ra"))
}

func TestRun_CallAndRet(t *testing.T) {
	src := `
j main
double:
  add a0 a0 a0
  ret
main:
  li a0 21
  jal ra double
`
	e := run(t, src)
	assert.Equal(t, uint32(42), reg(t, e, "a0"))
}

func TestRun_Loop(t *testing.T) {
	// Sum 1..5 with a countdown loop.
	src := `
li t0 5
li t1 0
loop:
  add t1 t1 t0
  addi t0 t0 -1
  bnez t0 loop
`
	e := run(t, src)
	assert.Equal(t, uint32(15), reg(t, e, "t1"))
	assert.Equal(t, uint32(0), reg(t, e, "t0"))
}

func TestRun_LiRoundTripsEveryShape(t *testing.T) {
	values := []uint32{0, 1, 42, 0x7FF, 0x800, 0xFFF, 0x1000, 0x2000,
		53289, 0x12345678, 0x7FFFFFFF, 0x80000000, 0xFFFFF800, 0xFFFFFFFF}

	for _, v := range values {
		e := env.New()
		_, err := loader.Load(e, "li a0 "+executor.BaseHex.Format(v))
		require.NoError(t, err)
		require.NoError(t, executor.Run(e, executor.RunOptions{}))
		assert.Equalf(t, v, reg(t, e, "a0"), "li a0 %#x", v)
	}
}

func TestRun_X0StaysZero(t *testing.T) {
	e := run(t, "li x0 5\naddi x0 x0 7\nadd x0 x0 x0\n")
	assert.Equal(t, uint32(0), e.GetReg(0))
}

func TestStep_ArithmeticAndLogic(t *testing.T) {
	tests := []struct {
		src  string
		reg  string
		want uint32
	}{
		{"li a0 10\nli a1 3\nsub a2 a0 a1", "a2", 7},
		{"li a0 10\nli a1 3\nand a2 a0 a1", "a2", 2},
		{"li a0 10\nli a1 3\nor a2 a0 a1", "a2", 11},
		{"li a0 10\nli a1 3\nxor a2 a0 a1", "a2", 9},
		{"li a0 1\nli a1 4\nsll a2 a0 a1", "a2", 16},
		{"li a0 -16\nli a1 2\nsra a2 a0 a1", "a2", 0xFFFFFFFC},
		{"li a0 -16\nli a1 2\nsrl a2 a0 a1", "a2", 0x3FFFFFFC},
		{"li a0 -1\nli a1 1\nslt a2 a0 a1", "a2", 1},
		{"li a0 -1\nli a1 1\nsltu a2 a0 a1", "a2", 0},
		{"li a0 10\nandi a1 a0 6", "a1", 2},
		{"li a0 10\nori a1 a0 5", "a1", 15},
		{"li a0 10\nxori a1 a0 3", "a1", 9},
		{"li a0 1\nslli a1 a0 31", "a1", 0x80000000},
		{"li a0 -4\nsrai a1 a0 1", "a1", 0xFFFFFFFE},
		{"li a0 -4\nsrli a1 a0 1", "a1", 0x7FFFFFFE},
		{"li a0 5\nslti a1 a0 6", "a1", 1},
		{"li a0 -5\nsltiu a1 a0 6", "a1", 0},
		{"not a0 x0", "a0", 0xFFFFFFFF},
		{"li a1 7\nneg a0 a1", "a0", 0xFFFFFFF9},
		{"li a1 9\nmv a0 a1", "a0", 9},
	}

	for _, tt := range tests {
		e := run(t, tt.src)
		assert.Equalf(t, tt.want, reg(t, e, tt.reg), "src %q", tt.src)
	}
}

func TestStep_MulDiv(t *testing.T) {
	tests := []struct {
		src  string
		want uint32
	}{
		{"li a0 7\nli a1 6\nmul a2 a0 a1", 42},
		{"li a0 0x10000\nli a1 0x10000\nmul a2 a0 a1", 0},          // low word wraps
		{"li a0 0x10000\nli a1 0x10000\nmulhu a2 a0 a1", 1},        // high word
		{"li a0 -1\nli a1 -1\nmulh a2 a0 a1", 0},                   // (-1)*(-1)=1, high 0
		{"li a0 -1\nli a1 2\nmulh a2 a0 a1", 0xFFFFFFFF},           // -2 high word
		{"li a0 -1\nli a1 -1\nmulhu a2 a0 a1", 0xFFFFFFFE},         // unsigned max squared
		{"li a0 -1\nli a1 1\nmulhsu a2 a0 a1", 0xFFFFFFFF},         // signed * unsigned
		{"li a0 42\nli a1 7\ndiv a2 a0 a1", 6},
		{"li a0 -42\nli a1 7\ndiv a2 a0 a1", 0xFFFFFFFA},           // -6
		{"li a0 42\nli a1 0\ndiv a2 a0 a1", 0xFFFFFFFF},            // x/0 = -1
		{"li a0 0x80000000\nli a1 -1\ndiv a2 a0 a1", 0x80000000},   // overflow wraps
		{"li a0 42\nli a1 0\ndivu a2 a0 a1", 0xFFFFFFFF},
		{"li a0 43\nli a1 7\nrem a2 a0 a1", 1},
		{"li a0 -43\nli a1 7\nrem a2 a0 a1", 0xFFFFFFFF},           // -1
		{"li a0 43\nli a1 0\nrem a2 a0 a1", 43},                    // x%0 = x
		{"li a0 0x80000000\nli a1 -1\nrem a2 a0 a1", 0},            // overflow rem
		{"li a0 43\nli a1 0\nremu a2 a0 a1", 43},
		{"li a0 43\nli a1 7\nremu a2 a0 a1", 1},
	}

	for _, tt := range tests {
		e := run(t, tt.src)
		assert.Equalf(t, tt.want, reg(t, e, "a2"), "src %q", tt.src)
	}
}

func TestStep_LoadsAndStores(t *testing.T) {
	e := run(t, `
li a0 0x12345678
sw a0 -4(sp)
lw a1 -4(sp)
lb a2 -4(sp)
lbu a3 -1(sp)
lh a4 -4(sp)
lhu a5 -2(sp)
`)
	assert.Equal(t, uint32(0x12345678), reg(t, e, "a1"))
	assert.Equal(t, uint32(0x78), reg(t, e, "a2"))
	assert.Equal(t, uint32(0x12), reg(t, e, "a3"))
	assert.Equal(t, uint32(0x5678), reg(t, e, "a4"))
	assert.Equal(t, uint32(0x1234), reg(t, e, "a5"))
}

func TestStep_SignExtendingLoads(t *testing.T) {
	e := run(t, `
li a0 -1
sb a0 0(x0)
lb a1 0(x0)
lbu a2 0(x0)
sh a0 4(x0)
lh a3 4(x0)
lhu a4 4(x0)
`)
	assert.Equal(t, uint32(0xFFFFFFFF), reg(t, e, "a1"))
	assert.Equal(t, uint32(0xFF), reg(t, e, "a2"))
	assert.Equal(t, uint32(0xFFFFFFFF), reg(t, e, "a3"))
	assert.Equal(t, uint32(0xFFFF), reg(t, e, "a4"))
}

func TestStep_StoreWidths(t *testing.T) {
	e := run(t, `
li a0 -1
sw a0 0(x0)
li a1 0
sb a1 0(x0)
lw a2 0(x0)
sh a1 0(x0)
lw a3 0(x0)
`)
	assert.Equal(t, uint32(0xFFFFFF00), reg(t, e, "a2"))
	assert.Equal(t, uint32(0xFFFF0000), reg(t, e, "a3"))
}

func TestStep_Branches(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		taken bool
	}{
		{"blt signed", "li a0 -1\nli a1 1\nblt a0 a1 8\nli a2 1\nli a3 1", true},
		{"bltu unsigned", "li a0 -1\nli a1 1\nbltu a0 a1 8\nli a2 1\nli a3 1", false},
		{"bge equal", "li a0 3\nli a1 3\nbge a0 a1 8\nli a2 1\nli a3 1", true},
		{"bgeu larger", "li a0 4\nli a1 3\nbgeu a0 a1 8\nli a2 1\nli a3 1", true},
		{"bne differs", "li a0 4\nli a1 3\nbne a0 a1 8\nli a2 1\nli a3 1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := run(t, tt.src)
			if tt.taken {
				assert.Equal(t, uint32(0), reg(t, e, "a2"), "branch should skip")
			} else {
				assert.Equal(t, uint32(1), reg(t, e, "a2"), "branch should fall through")
			}
			assert.Equal(t, uint32(1), reg(t, e, "a3"))
		})
	}
}

func TestStep_AuipcAndLui(t *testing.T) {
	e := run(t, "nop\nauipc a0 1\nlui a1 0xFFFFF\n")
	assert.Equal(t, uint32(0x1004), reg(t, e, "a0"))
	assert.Equal(t, uint32(0xFFFFF000), reg(t, e, "a1"))
}

func TestStep_Floats(t *testing.T) {
	e := run(t, `
li a0 3
li a1 4
fcvt.s.w fa0 a0
fcvt.s.w fa1 a1
fadd.s fa2 fa0 fa1
fsub.s fa3 fa0 fa1
fmul.s fa4 fa0 fa1
fdiv.s fa5 fa1 fa0
fmadd.s fa6 fa0 fa1 fa2
`)
	assert.Equal(t, float32(7), freg(t, e, "fa2"))
	assert.Equal(t, float32(-1), freg(t, e, "fa3"))
	assert.Equal(t, float32(12), freg(t, e, "fa4"))
	assert.InDelta(t, float64(4.0/3.0), float64(freg(t, e, "fa5")), 1e-6)
	assert.Equal(t, float32(19), freg(t, e, "fa6"))
}

func TestStep_FloatMovesAndCompares(t *testing.T) {
	e := run(t, `
li a0 0x3F800000
fmv.w.x fa0 a0
fmv.x.w a1 fa0
li a2 2
fcvt.s.w fa1 a2
flt.s a3 fa0 fa1
fle.s a4 fa1 fa0
feq.s a5 fa0 fa0
fsgnj.s fa2 fa0 fa1
`)
	assert.Equal(t, float32(1.0), freg(t, e, "fa0"))
	assert.Equal(t, uint32(0x3F800000), reg(t, e, "a1"))
	assert.Equal(t, uint32(1), reg(t, e, "a3"), "1.0 < 2.0")
	assert.Equal(t, uint32(0), reg(t, e, "a4"), "2.0 <= 1.0 is false")
	assert.Equal(t, uint32(1), reg(t, e, "a5"))
	assert.Equal(t, float32(1.0), freg(t, e, "fa2"), "sign of positive 2.0 applied to 1.0")
}

func TestStep_UnknownEncodingIsFatal(t *testing.T) {
	e := env.New()
	e.Instructions = []uint32{0x0000007F}
	err := executor.Run(e, executor.RunOptions{})
	require.Error(t, err)
	assert.IsType(t, &executor.Error{}, err)
	assert.Equal(t, uint32(0), e.PC, "failing step must not advance the PC")
}

func TestRun_MaxSteps(t *testing.T) {
	e := env.New()
	_, err := loader.Load(e, "loop: j loop\n")
	require.NoError(t, err)
	err = executor.Run(e, executor.RunOptions{MaxSteps: 100})
	require.Error(t, err)
	assert.IsType(t, &executor.ErrMaxSteps{}, err)
}

func TestRun_OnStepObserver(t *testing.T) {
	e := env.New()
	_, err := loader.Load(e, "li a0 5\nli a1 7\nadd a2 a0 a1\n")
	require.NoError(t, err)

	var infos []executor.StepInfo
	require.NoError(t, executor.Run(e, executor.RunOptions{
		OnStep: func(info executor.StepInfo) { infos = append(infos, info) },
	}))

	require.Len(t, infos, 3)
	assert.Equal(t, uint32(0), infos[0].PC)
	assert.Equal(t, uint32(4), infos[1].PC)
	assert.Equal(t, uint32(8), infos[2].PC)
	assert.Equal(t, uint64(2), infos[2].Seq)

	// The add step changed exactly a2.
	prev := infos[2].Prev
	assert.Equal(t, uint32(5), prev.Regs[10])
	ints, floats := prev.Changed(e)
	assert.Equal(t, []int{12}, ints)
	assert.Empty(t, floats)
}

func TestSnapshot_Changed(t *testing.T) {
	e := env.New()
	snap := executor.TakeSnapshot(e)
	e.SetReg(5, 99)
	e.SetFReg(3, 2.5)
	ints, floats := snap.Changed(e)
	assert.Equal(t, []int{5}, ints)
	assert.Equal(t, []int{3}, floats)
}
