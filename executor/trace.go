package executor

import (
	"fmt"
	"io"

	"github.com/lumikalt/rizzv-go/encoder"
)

// MnemonicOf recovers the mnemonic encoded in a word.
func MnemonicOf(w uint32) (string, error) {
	s, err := encoder.Disassemble(w)
	if err != nil {
		return "", err
	}
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			return s[:i], nil
		}
	}
	return s, nil
}

// Trace writes one line per executed instruction: sequence number, PC,
// raw word and disassembly. Wire Recorder into RunOptions.OnStep.
type Trace struct {
	Writer io.Writer

	entries uint64
	err     error
}

// NewTrace creates a trace writing to w.
func NewTrace(w io.Writer) *Trace {
	return &Trace{Writer: w}
}

// Record writes one trace line. Write errors are sticky: the first one
// is kept and later calls become no-ops.
func (t *Trace) Record(info StepInfo) {
	if t.err != nil {
		return
	}
	disasm, derr := encoder.Disassemble(info.Word)
	if derr != nil {
		disasm = "??"
	}
	mark := ' '
	if info.Jumped {
		mark = '>'
	}
	_, t.err = fmt.Fprintf(t.Writer, "%6d  pc=0x%08x  %08x %c %s\n",
		info.Seq, info.PC, info.Word, mark, disasm)
	t.entries++
}

// Recorder adapts the trace to RunOptions.OnStep.
func (t *Trace) Recorder() func(StepInfo) {
	return t.Record
}

// Err returns the first write error, if any.
func (t *Trace) Err() error { return t.err }

// Entries returns how many lines were recorded.
func (t *Trace) Entries() uint64 { return t.entries }
