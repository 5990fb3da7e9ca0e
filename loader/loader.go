// Package loader ties the pipeline together for callers: it parses and
// assembles a source file into an Environment, keeps the offset-to-item
// map the UI needs to show the source line behind each instruction, and
// reads/writes the flat hex dump format.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/lumikalt/rizzv-go/assembler"
	"github.com/lumikalt/rizzv-go/env"
	"github.com/lumikalt/rizzv-go/isa"
	"github.com/lumikalt/rizzv-go/parser"
	"github.com/lumikalt/rizzv-go/token"
)

// Program is an assembled source file plus the bookkeeping adapters
// need: the original text split into lines, the token items with their
// assigned offsets, and the emitted words already loaded into the
// Environment's instruction memory.
type Program struct {
	Source string
	Lines  []string
	Items  []token.Item
	Words  []uint32

	// offsetItem maps an instruction's byte offset to the index in
	// Items of the mnemonic that produced it. Words emitted by a
	// multi-word pseudo-instruction all map back to the same item.
	offsetItem map[uint32]int
}

// Load parses and assembles src into e. Parse errors stop the pipeline
// before assembly runs; assembly errors stop it before anything could
// execute. Both come back as the error lists their packages produce.
func Load(e *env.Env, src string) (*Program, error) {
	items, perrs := parser.Parse(src, func(name string) bool {
		_, ok := e.Resolve(name)
		return ok
	})
	if perrs.HasErrors() {
		return nil, perrs
	}

	words, aerrs := assembler.Assemble(e, items)
	if aerrs.HasErrors() {
		return nil, aerrs
	}

	p := &Program{
		Source:     src,
		Lines:      strings.Split(src, "\n"),
		Items:      items,
		Words:      words,
		offsetItem: make(map[uint32]int),
	}
	p.buildOffsetMap()
	return p, nil
}

// LoadFile reads a source file and runs Load.
func LoadFile(e *env.Env, path string) (*Program, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied source path
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}
	return Load(e, string(data))
}

// buildOffsetMap walks the items the same way the assembler's first
// pass did, so each emitted word's offset points back at its mnemonic.
func (p *Program) buildOffsetMap() {
	total := uint32(len(p.Words)) * 4
	for i, it := range p.Items {
		if it.Tok.Kind != token.KindMnemonic {
			continue
		}
		start := it.Loc.MemOffset
		end := total
		// The owning item covers offsets up to the next mnemonic's.
		for j := i + 1; j < len(p.Items); j++ {
			if p.Items[j].Tok.Kind == token.KindMnemonic {
				end = p.Items[j].Loc.MemOffset
				break
			}
		}
		for off := start; off < end; off += 4 {
			p.offsetItem[off] = i
		}
	}
}

// ItemAt returns the mnemonic item that produced the instruction at a
// byte offset.
func (p *Program) ItemAt(offset uint32) (token.Item, bool) {
	i, ok := p.offsetItem[offset]
	if !ok {
		return token.Item{}, false
	}
	return p.Items[i], true
}

// SourceLine returns the 1-based source line behind the instruction at
// a byte offset, and the line's text.
func (p *Program) SourceLine(offset uint32) (int, string, bool) {
	it, ok := p.ItemAt(offset)
	if !ok {
		return 0, "", false
	}
	line := it.Loc.Line
	if line < 1 || line > len(p.Lines) {
		return line, "", true
	}
	return line, p.Lines[line-1], true
}

// ArgStrings renders a mnemonic item's arguments back to display text,
// the shape the explainer takes.
func ArgStrings(it token.Item) []string {
	if it.Tok.Kind != token.KindMnemonic {
		return nil
	}
	out := make([]string, 0, len(it.Tok.Args))
	for _, a := range it.Tok.Args {
		out = append(out, argString(a.Tok))
	}
	return out
}

func argString(t token.Token) string {
	switch t.Kind {
	case token.KindRegister, token.KindSymbol:
		return t.Name
	case token.KindImmediate:
		return strconv.FormatInt(int64(int32(t.Value)), 10)
	case token.KindMemory:
		imm := ""
		if t.MemImm != nil {
			imm = argString(t.MemImm.Tok)
		}
		reg := ""
		if t.MemReg != nil {
			reg = t.MemReg.Tok.Name
		}
		return fmt.Sprintf("%s(%s)", imm, reg)
	default:
		return t.String()
	}
}

// WriteHex writes the assembled words as the flat text dump format:
// one instruction per line, zero-padded lowercase hex, in assembly
// order, with no header.
func WriteHex(w io.Writer, words []uint32) error {
	for _, word := range words {
		if _, err := fmt.Fprintf(w, "%08x\n", word); err != nil {
			return err
		}
	}
	return nil
}

// WriteHexFile writes the hex dump to a file.
func WriteHexFile(path string, words []uint32) error {
	f, err := os.Create(path) // #nosec G304 -- user-supplied output path
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()
	return WriteHex(f, words)
}

// ReadHex parses a hex dump back into instruction words, ignoring
// blank lines.
func ReadHex(r io.Reader) ([]uint32, error) {
	var words []uint32
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseUint(line, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid instruction word %q", lineno, line)
		}
		words = append(words, uint32(v))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// DumpSymbols renders the label table sorted by address, for the
// symbol dump mode.
func DumpSymbols(w io.Writer, e *env.Env) error {
	type sym struct {
		name string
		addr uint32
	}
	syms := make([]sym, 0, len(e.Labels))
	for name, addr := range e.Labels {
		syms = append(syms, sym{name, addr})
	}
	sort.Slice(syms, func(i, j int) bool {
		if syms[i].addr != syms[j].addr {
			return syms[i].addr < syms[j].addr
		}
		return syms[i].name < syms[j].name
	})
	for _, s := range syms {
		if _, err := fmt.Fprintf(w, "0x%08x  %s\n", s.addr, s.name); err != nil {
			return err
		}
	}
	return nil
}

// FinalRegisters renders the nonzero integer registers after a run,
// for headless mode's final state report.
func FinalRegisters(w io.Writer, e *env.Env) error {
	for i := 1; i < env.NumRegisters; i++ {
		if v := e.GetReg(i); v != 0 {
			if _, err := fmt.Fprintf(w, "%-4s (x%-2d) = 0x%08x (%d)\n",
				isa.RegName(i), i, v, int32(v)); err != nil {
				return err
			}
		}
	}
	for i := 0; i < env.NumRegisters; i++ {
		if v := e.GetFReg(i); v != 0 {
			if _, err := fmt.Fprintf(w, "%-4s (f%-2d) = %g\n", isa.FRegName(i), i, v); err != nil {
				return err
			}
		}
	}
	return nil
}
