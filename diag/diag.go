// Package diag renders parser and assembler error records as
// caret-annotated source diagnostics: the offending line, a caret run
// under the span the error points at, and the error message. It is a
// thin display adapter over the error records; nothing here feeds back
// into the pipeline.
package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/lumikalt/rizzv-go/assembler"
	"github.com/lumikalt/rizzv-go/parser"
	"github.com/lumikalt/rizzv-go/token"
)

// Record is any error carrying a source location. Both parser.Error
// and assembler.Error satisfy it.
type Record interface {
	error
	Location() token.Loc
}

const (
	colorRed   = "\x1b[31m"
	colorBold  = "\x1b[1m"
	colorReset = "\x1b[0m"
)

// Printer formats diagnostics against one source file's text.
type Printer struct {
	lines []string
	color bool
}

// NewPrinter creates a printer for src. color enables ANSI escapes on
// the caret and message.
func NewPrinter(src string, color bool) *Printer {
	return &Printer{lines: strings.Split(src, "\n"), color: color}
}

// Format renders a single diagnostic.
func (p *Printer) Format(r Record) string {
	loc := r.Location()
	var b strings.Builder

	msg := r.Error()
	if p.color {
		fmt.Fprintf(&b, "%s%serror:%s %s\n", colorBold, colorRed, colorReset, msg)
	} else {
		fmt.Fprintf(&b, "error: %s\n", msg)
	}

	if loc.Line >= 1 && loc.Line <= len(p.lines) {
		line := p.lines[loc.Line-1]
		fmt.Fprintf(&b, "%5d | %s\n", loc.Line, line)

		start, end := loc.Start, loc.End
		if start < 0 {
			start = 0
		}
		if end <= start {
			end = start + 1
		}
		if start > len(line) {
			start = len(line)
		}
		caret := strings.Repeat(" ", start) + strings.Repeat("^", end-start)
		if p.color {
			fmt.Fprintf(&b, "      | %s%s%s\n", colorRed, caret, colorReset)
		} else {
			fmt.Fprintf(&b, "      | %s\n", caret)
		}
	}

	return b.String()
}

// PrintParseErrors writes every collected parser error to w.
func (p *Printer) PrintParseErrors(w io.Writer, errs *parser.ErrorList) {
	for _, e := range errs.Errors {
		fmt.Fprint(w, p.Format(e))
	}
}

// PrintAssembleErrors writes every collected assembler error to w.
func (p *Printer) PrintAssembleErrors(w io.Writer, errs *assembler.ErrorList) {
	for _, e := range errs.Errors {
		fmt.Fprint(w, p.Format(e))
	}
}

// Print dispatches on the error shapes the pipeline can return and
// renders each record; anything else is printed as a bare message.
func (p *Printer) Print(w io.Writer, err error) {
	switch e := err.(type) {
	case *parser.ErrorList:
		p.PrintParseErrors(w, e)
	case *assembler.ErrorList:
		p.PrintAssembleErrors(w, e)
	case Record:
		fmt.Fprint(w, p.Format(e))
	default:
		fmt.Fprintf(w, "error: %v\n", err)
	}
}
