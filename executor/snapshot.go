package executor

import "github.com/lumikalt/rizzv-go/env"

// Snapshot is a copy of both register files and the PC, taken before a
// step so the caller can tell which registers the instruction wrote.
type Snapshot struct {
	Regs  [env.NumRegisters]uint32
	FRegs [env.NumRegisters]float32
	PC    uint32
}

// TakeSnapshot copies e's register state.
func TakeSnapshot(e *env.Env) Snapshot {
	return Snapshot{Regs: e.Registers, FRegs: e.FRegisters, PC: e.PC}
}

// Changed returns the integer and float register indices whose values
// differ between the snapshot and e's current state. Float values are
// compared by bit pattern so a NaN result still counts as a change.
func (s Snapshot) Changed(e *env.Env) (ints, floats []int) {
	for i := 0; i < env.NumRegisters; i++ {
		if s.Regs[i] != e.Registers[i] {
			ints = append(ints, i)
		}
		if env.Float32ToBits(s.FRegs[i]) != env.Float32ToBits(e.FRegisters[i]) {
			floats = append(floats, i)
		}
	}
	return ints, floats
}
