// Package assembler implements the two-pass assembler:
// pass 1 assigns every item's byte offset and populates the label
// table, expanding pseudo-instructions speculatively to size them
// correctly; pass 2 re-walks the same items, resolves each argument
// against its mnemonic's signature and emits the final instruction
// words.
package assembler

import (
	"github.com/lumikalt/rizzv-go/encoder"
	"github.com/lumikalt/rizzv-go/env"
	"github.com/lumikalt/rizzv-go/isa"
	"github.com/lumikalt/rizzv-go/token"
)

// Assemble runs both passes over items, returning the emitted
// instruction words and any errors. e.Labels and e.Instructions are
// populated as a side effect so a caller can assemble-and-run in one
// step; a non-empty ErrorList means words is incomplete and must not
// be executed.
func Assemble(e *env.Env, items []token.Item) ([]uint32, *ErrorList) {
	passOne(e, items)
	words, errs := passTwo(e, items)
	e.Instructions = words
	return words, errs
}

// passOne assigns items[i].Loc.MemOffset and records every label's
// address. It never reports errors of its own: an unknown mnemonic is
// sized at one word, a malformed pseudo at the size itemWordCount gives
// its shape, and both are left for pass 2 to reject with a precise
// diagnostic.
func passOne(e *env.Env, items []token.Item) {
	var offset uint32

	for i := range items {
		items[i].Loc.MemOffset = offset

		tok := items[i].Tok
		if tok.Kind == token.KindLabel {
			e.LabelInsert(tok.Name, offset)
			continue
		}

		offset += 4 * uint32(itemWordCount(tok))
	}
}

// itemWordCount is pass 1's sizing function: one word for any real
// instruction, unknown mnemonic or pseudo-instruction other than li
// (each of those expands to exactly one instruction), the exact count
// for li with a literal immediate, and the conservative two-word upper
// bound for any other li operand shape, such as a label operand whose
// address is not yet known.
func itemWordCount(tok token.Token) int {
	entry, ok := isa.Lookup(tok.Name)
	if !ok || entry.Format.Kind != isa.Pseudo {
		return 1
	}
	if entry.Format.PseudoName != "li" {
		return 1
	}
	if len(tok.Args) != 2 || tok.Args[1].Tok.Kind != token.KindImmediate {
		return 2
	}
	return liWordCount(tok.Args[1].Tok.Value)
}

// passTwo resolves and encodes every item, collecting every error it
// finds rather than stopping at the first.
func passTwo(e *env.Env, items []token.Item) ([]uint32, *ErrorList) {
	errs := &ErrorList{}
	var words []uint32

	for _, it := range items {
		if it.Tok.Kind == token.KindLabel {
			continue
		}

		entry, ok := isa.Lookup(it.Tok.Name)
		if !ok {
			errs.Errors = append(errs.Errors, &Error{Kind: InvalidMnemonic, Loc: it.Loc, Note: it.Tok.Name})
			continue
		}
		if len(it.Tok.Args) != len(entry.Sig) {
			errs.Errors = append(errs.Errors, &Error{
				Kind: InvalidOpArity, Loc: it.Loc,
				Note: it.Tok.Name,
			})
			continue
		}

		regs, imm, rerr := resolveArgs(e, entry.Sig, it.Tok.Args, it.Loc.MemOffset)
		if rerr != nil {
			asmLog.Printf("skipping %s at %s: %v", it.Tok.Name, it.Loc, rerr)
			errs.Errors = append(errs.Errors, rerr)
			continue
		}

		if entry.Format.Kind == isa.Pseudo {
			liForceTwo := entry.Format.PseudoName == "li" &&
				(len(it.Tok.Args) != 2 || it.Tok.Args[1].Tok.Kind != token.KindImmediate)
			for _, step := range expandPseudo(entry.Format.PseudoName, imm, regs, liForceTwo) {
				stepEntry, ok := isa.Lookup(step.name)
				if !ok {
					continue // unreachable: every expansion target is a real table entry
				}
				words = append(words, encoder.Place(stepEntry.Format, step.imm, encoder.Regs(step.regs)))
			}
			continue
		}

		if entry.Format.Kind == isa.U {
			// lui/auipc take a raw 20-bit upper immediate from the
			// user; Place expects it already shifted into bits
			// 31:12 (encoder.go's Place doc comment), so this is the
			// one place that shift happens for a directly-written
			// instruction. li's own lui step computes its operand
			// pre-shifted and calls expandPseudo/Place directly, so
			// it never passes through this path.
			imm = imm << 12
		}
		words = append(words, encoder.Place(entry.Format, imm, encoder.Regs(regs)))
	}

	return words, errs
}

// resolveArgs pairs args against sig: a Register
// slot fills its declared register index, an Immediate or Symbol slot
// accepts either token kind (a literal is used as-is; a label in an
// Immediate slot resolves to its absolute address, a label in a
// Symbol slot resolves PC-relative to the instruction's own address),
// and a Memory slot supplies both the base register and the offset.
func resolveArgs(e *env.Env, sig isa.ArgSig, args []token.Arg, memOffset uint32) (regs [4]uint32, imm uint32, err *Error) {
	for i, spec := range sig {
		a := args[i]

		switch spec.Kind {
		case isa.ArgRegister:
			if a.Tok.Kind != token.KindRegister {
				return regs, imm, &Error{Kind: TypeMismatch, Loc: a.Loc, Note: "expected register"}
			}
			idx, ok := e.Resolve(a.Tok.Name)
			if !ok {
				return regs, imm, &Error{Kind: TypeMismatch, Loc: a.Loc, Note: "unknown register " + a.Tok.Name}
			}
			regs[spec.Slot] = uint32(idx)

		case isa.ArgImmediate:
			switch a.Tok.Kind {
			case token.KindImmediate:
				imm = a.Tok.Value
			case token.KindSymbol:
				addr, ok := e.LabelLookup(a.Tok.Name)
				if !ok {
					return regs, imm, &Error{Kind: LabelNotFound, Loc: a.Loc, Note: a.Tok.Name}
				}
				imm = addr
			default:
				return regs, imm, &Error{Kind: TypeMismatch, Loc: a.Loc, Note: "expected immediate or label"}
			}

		case isa.ArgSymbol:
			switch a.Tok.Kind {
			case token.KindSymbol:
				addr, ok := e.LabelLookup(a.Tok.Name)
				if !ok {
					return regs, imm, &Error{Kind: LabelNotFound, Loc: a.Loc, Note: a.Tok.Name}
				}
				imm = addr - memOffset
			case token.KindImmediate:
				imm = a.Tok.Value
			default:
				return regs, imm, &Error{Kind: TypeMismatch, Loc: a.Loc, Note: "expected label or immediate"}
			}

		case isa.ArgMemory:
			if a.Tok.Kind != token.KindMemory || a.Tok.MemImm == nil {
				return regs, imm, &Error{Kind: TypeMismatch, Loc: a.Loc, Note: "expected memory operand"}
			}
			imm = a.Tok.MemImm.Tok.Value
			if a.Tok.MemReg != nil {
				idx, ok := e.Resolve(a.Tok.MemReg.Tok.Name)
				if !ok {
					return regs, imm, &Error{Kind: TypeMismatch, Loc: a.Loc, Note: "unknown register " + a.Tok.MemReg.Tok.Name}
				}
				regs[spec.Slot] = uint32(idx)
			}
		}
	}

	return regs, imm, nil
}
