package tools

import (
	"fmt"
	"io"
	"sort"

	"github.com/lumikalt/rizzv-go/env"
	"github.com/lumikalt/rizzv-go/parser"
	"github.com/lumikalt/rizzv-go/token"
)

// LabelXref records where a label is defined and every line that
// references it.
type LabelXref struct {
	Name     string
	DefLine  int   // 0 if never defined
	RefLines []int // sorted, may be empty
}

// CrossReference builds a label cross-reference table for assembly
// source. Lines that fail to parse are skipped; the table covers what
// the parser managed to build.
func CrossReference(src string) []LabelXref {
	e := env.New()
	items, _ := parser.Parse(src, func(name string) bool {
		_, ok := e.Resolve(name)
		return ok
	})

	byName := map[string]*LabelXref{}
	get := func(name string) *LabelXref {
		x, ok := byName[name]
		if !ok {
			x = &LabelXref{Name: name}
			byName[name] = x
		}
		return x
	}

	for _, it := range items {
		switch it.Tok.Kind {
		case token.KindLabel:
			x := get(it.Tok.Name)
			if x.DefLine == 0 {
				x.DefLine = it.Loc.Line
			}
		case token.KindMnemonic:
			for _, a := range it.Tok.Args {
				if a.Tok.Kind == token.KindSymbol {
					x := get(a.Tok.Name)
					x.RefLines = append(x.RefLines, a.Loc.Line)
				}
			}
		}
	}

	out := make([]LabelXref, 0, len(byName))
	for _, x := range byName {
		sort.Ints(x.RefLines)
		out = append(out, *x)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// WriteXref renders the cross-reference table as text.
func WriteXref(w io.Writer, xrefs []LabelXref) error {
	for _, x := range xrefs {
		def := "undefined"
		if x.DefLine > 0 {
			def = fmt.Sprintf("defined line %d", x.DefLine)
		}
		if _, err := fmt.Fprintf(w, "%-16s %s", x.Name, def); err != nil {
			return err
		}
		if len(x.RefLines) > 0 {
			fmt.Fprint(w, ", referenced")
			for i, l := range x.RefLines {
				if i > 0 {
					fmt.Fprint(w, ",")
				}
				fmt.Fprintf(w, " %d", l)
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
