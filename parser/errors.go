package parser

import (
	"fmt"

	"github.com/lumikalt/rizzv-go/token"
)

// ErrorKind is the closed set of syntax errors the parser can raise.
type ErrorKind int

const (
	UnexpectedChar ErrorKind = iota
	UnmatchedParenOpen
	UnmatchedParenClose
	OutsideMnemonic
	InvalidRegister
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedChar:
		return "unexpected character"
	case UnmatchedParenOpen:
		return "unmatched '('"
	case UnmatchedParenClose:
		return "unmatched ')'"
	case OutsideMnemonic:
		return "token outside mnemonic position"
	case InvalidRegister:
		return "invalid register"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is a single parser error: a kind, a location and an optional
// note. It does not carry the tokens collected on the offending line
// before the error.
type Error struct {
	Kind ErrorKind
	Loc  token.Loc
	Note string
}

// Location returns the source span the error points at.
func (e *Error) Location() token.Loc { return e.Loc }

func (e *Error) Error() string {
	if e.Note != "" {
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Loc, e.Note)
	}
	return fmt.Sprintf("%s at %s", e.Kind, e.Loc)
}

// ErrorList collects every error produced while parsing a source file.
// The parser accumulates per-line errors and returns the whole batch
// at EOF.
type ErrorList struct {
	Errors []*Error
}

// HasErrors reports whether any error was collected.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

func (el *ErrorList) Error() string {
	var s string
	for i, e := range el.Errors {
		if i > 0 {
			s += "\n"
		}
		s += e.Error()
	}
	return s
}
