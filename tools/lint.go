package tools

import (
	"fmt"
	"sort"

	"github.com/lumikalt/rizzv-go/env"
	"github.com/lumikalt/rizzv-go/isa"
	"github.com/lumikalt/rizzv-go/parser"
	"github.com/lumikalt/rizzv-go/token"
)

// Severity classifies lint findings.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Issue is a single lint finding.
type Issue struct {
	Line     int
	Severity Severity
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("line %d: %s: %s", i.Line, i.Severity, i.Message)
}

// Lint checks assembly source for problems the assembler would reject
// (unknown mnemonics, wrong operand counts, undefined labels) and for
// things it would silently accept but probably should not (duplicate
// and unused labels). Parse errors are reported as lint errors rather
// than aborting, so a partly broken file still gets the full report.
func Lint(src string) []Issue {
	var issues []Issue

	e := env.New()
	items, perrs := parser.Parse(src, func(name string) bool {
		_, ok := e.Resolve(name)
		return ok
	})
	for _, pe := range perrs.Errors {
		issues = append(issues, Issue{Line: pe.Loc.Line, Severity: SeverityError, Message: pe.Error()})
	}

	defined := map[string]int{} // label -> defining line
	referenced := map[string]bool{}

	for _, it := range items {
		switch it.Tok.Kind {
		case token.KindLabel:
			if prev, ok := defined[it.Tok.Name]; ok {
				issues = append(issues, Issue{
					Line: it.Loc.Line, Severity: SeverityWarning,
					Message: fmt.Sprintf("label %q already defined on line %d", it.Tok.Name, prev),
				})
			} else {
				defined[it.Tok.Name] = it.Loc.Line
			}

		case token.KindMnemonic:
			entry, ok := isa.Lookup(it.Tok.Name)
			if !ok {
				issues = append(issues, Issue{
					Line: it.Loc.Line, Severity: SeverityError,
					Message: fmt.Sprintf("unknown mnemonic %q", it.Tok.Name),
				})
				continue
			}
			if len(it.Tok.Args) != len(entry.Sig) {
				issues = append(issues, Issue{
					Line: it.Loc.Line, Severity: SeverityError,
					Message: fmt.Sprintf("%s takes %d operands, got %d",
						it.Tok.Name, len(entry.Sig), len(it.Tok.Args)),
				})
			}
			for _, a := range it.Tok.Args {
				if a.Tok.Kind == token.KindSymbol {
					referenced[a.Tok.Name] = true
				}
			}
		}
	}

	// A symbol with no matching label is an assembly-time error; a
	// label nothing references is only worth a warning.
	var undefined []string
	for name := range referenced {
		if _, ok := defined[name]; !ok {
			undefined = append(undefined, name)
		}
	}
	sort.Strings(undefined)
	for _, name := range undefined {
		issues = append(issues, Issue{Severity: SeverityError,
			Message: fmt.Sprintf("label %q is never defined", name)})
	}

	var unused []string
	for name := range defined {
		if !referenced[name] {
			unused = append(unused, name)
		}
	}
	sort.Strings(unused)
	for _, name := range unused {
		issues = append(issues, Issue{Line: defined[name], Severity: SeverityWarning,
			Message: fmt.Sprintf("label %q is never referenced", name)})
	}

	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Line < issues[j].Line })
	return issues
}

// HasErrors reports whether any issue is error severity.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
