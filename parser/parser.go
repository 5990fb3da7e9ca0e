// Package parser implements the line-oriented assembly tokenizer:
// source text becomes a flat sequence of token.Item
// values, each a Mnemonic(name, args) or a Label(name) definition,
// with accurate source locations and a batch of collected errors.
package parser

import (
	"strings"

	"github.com/lumikalt/rizzv-go/token"
)

type preKind int

const (
	preIdent preKind = iota
	preNumber
	preMemory
)

type preArg struct {
	kind  preKind
	text  string // preIdent
	value uint32 // preNumber
	imm   *preArg
	reg   *preArg
	loc   token.Loc
}

// Resolver reports whether name is a register alias the Environment
// would recognize. The parser uses it only to classify bare
// identifiers in argument position and to reject a mnemonic position
// that is itself a register name; it never itself resolves to an index.
type Resolver func(name string) bool

// Parse tokenizes src into an ordered token.Item sequence. On success
// the ErrorList is empty; on any error the parser still returns every
// item it managed to build, but callers must treat a non-empty
// ErrorList as a hard stop.
func Parse(src string, isRegister Resolver) ([]token.Item, *ErrorList) {
	errs := &ErrorList{}
	var items []token.Item

	lines := strings.Split(src, "\n")
	for lineIdx, line := range lines {
		lineno := lineIdx + 1

		raw, lexErr := scanLine(line, lineno)
		if lexErr != nil {
			errs.Errors = append(errs.Errors, lexErr)
			continue
		}
		if len(raw) == 0 {
			continue
		}

		pre, combineErr := combineParens(raw)
		if combineErr != nil {
			errs.Errors = append(errs.Errors, combineErr)
			continue
		}
		if len(pre) == 0 {
			continue
		}

		// A label definition: identifier immediately followed by ':'.
		if pre[0].kind == preIdent && len(raw) > 0 && isLabelForm(raw, pre[0]) {
			items = append(items, token.Item{Tok: token.Label(pre[0].text), Loc: pre[0].loc})
			rest := pre[1:]
			if len(rest) == 0 {
				continue
			}
			pre = rest
		}

		item, err := buildMnemonic(pre, isRegister)
		if err != nil {
			errs.Errors = append(errs.Errors, err)
			continue
		}
		items = append(items, item)
	}

	return items, errs
}

// isLabelForm reports whether the raw token immediately following the
// leading identifier is a colon (label definition), by comparing
// positions: a colon raw token whose Start equals the identifier's End.
func isLabelForm(raw []rawTok, first preArg) bool {
	for _, r := range raw {
		if r.kind == rawColon && r.loc.Start == first.loc.End {
			return true
		}
	}
	return false
}

// combineParens walks the raw token stream, folding `imm ( reg )`
// sequences into a single preMemory entry and dropping the colon that
// trails a label identifier (handled separately by the caller).
func combineParens(raw []rawTok) ([]preArg, *Error) {
	var out []preArg

	for i := 0; i < len(raw); i++ {
		r := raw[i]
		switch r.kind {
		case rawColon:
			// Only valid directly after the leading identifier; the
			// caller checks that shape. Any other colon is dropped
			// silently only when it trails the first token.
			if len(out) != 1 || out[0].kind != preIdent {
				return out, &Error{Kind: UnexpectedChar, Loc: r.loc, Note: "unexpected ':'"}
			}

		case rawIdent:
			out = append(out, preArg{kind: preIdent, text: r.text, loc: r.loc})

		case rawNumber:
			v, ok := parseNumberLiteral(r.text)
			if !ok {
				return out, &Error{Kind: UnexpectedChar, Loc: r.loc, Note: "invalid numeric literal"}
			}
			out = append(out, preArg{kind: preNumber, value: v, loc: r.loc})

		case rawLParen:
			if len(out) == 0 || out[len(out)-1].kind != preNumber {
				return out, &Error{Kind: UnmatchedParenOpen, Loc: r.loc}
			}
			immArg := out[len(out)-1]
			out = out[:len(out)-1]

			i++
			if i >= len(raw) || raw[i].kind != rawIdent {
				return out, &Error{Kind: UnmatchedParenOpen, Loc: r.loc, Note: "expected register after '('"}
			}
			regTok := raw[i]

			i++
			if i >= len(raw) || raw[i].kind != rawRParen {
				return out, &Error{Kind: UnmatchedParenClose, Loc: r.loc, Note: "expected ')'"}
			}

			imm := immArg
			reg := preArg{kind: preIdent, text: regTok.text, loc: regTok.loc}
			out = append(out, preArg{
				kind: preMemory,
				imm:  &imm,
				reg:  &reg,
				loc:  token.Loc{Line: immArg.loc.Line, Start: immArg.loc.Start, End: raw[i].loc.End},
			})

		case rawRParen:
			return out, &Error{Kind: UnmatchedParenClose, Loc: r.loc}
		}
	}

	return out, nil
}

// buildMnemonic turns a line's pre-argument list into a Mnemonic
// token.Item: the first entry names the mnemonic, the rest become its
// arguments, with bare identifiers reclassified as Register or Symbol.
func buildMnemonic(pre []preArg, isRegister Resolver) (token.Item, *Error) {
	first := pre[0]
	if first.kind != preIdent {
		kind := "immediate"
		if first.kind == preMemory {
			kind = "memory"
		}
		return token.Item{}, &Error{Kind: OutsideMnemonic, Loc: first.loc, Note: kind}
	}
	if isRegister(first.text) {
		return token.Item{}, &Error{Kind: OutsideMnemonic, Loc: first.loc, Note: "register"}
	}

	args := make([]token.Arg, 0, len(pre)-1)
	for _, p := range pre[1:] {
		switch p.kind {
		case preIdent:
			if isRegister(p.text) {
				args = append(args, token.Arg{Tok: token.Register(p.text), Loc: p.loc})
			} else {
				args = append(args, token.Arg{Tok: token.Symbol(p.text), Loc: p.loc})
			}
		case preNumber:
			args = append(args, token.Arg{Tok: token.Immediate(p.value), Loc: p.loc})
		case preMemory:
			var regArg *token.Arg
			if p.reg != nil {
				regArg = &token.Arg{Tok: token.Register(p.reg.text), Loc: p.reg.loc}
			}
			immArg := token.Arg{Tok: token.Immediate(p.imm.value), Loc: p.imm.loc}
			args = append(args, token.Arg{Tok: token.Memory(immArg, regArg), Loc: p.loc})
		}
	}

	return token.Item{Tok: token.Mnemonic(first.text, args), Loc: first.loc}, nil
}
