package assembler

import (
	"fmt"

	"github.com/lumikalt/rizzv-go/token"
)

// ErrorKind is the closed set of errors the two-pass assembler can
// raise once a source file has already tokenized cleanly.
type ErrorKind int

const (
	InvalidMnemonic ErrorKind = iota
	InvalidOpArity
	TypeMismatch
	LabelNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidMnemonic:
		return "invalid mnemonic"
	case InvalidOpArity:
		return "wrong number of operands"
	case TypeMismatch:
		return "operand type mismatch"
	case LabelNotFound:
		return "label not found"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is a single assembler error.
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

// ErrorList collects every error produced while assembling a program,
// mirroring parser.ErrorList so callers handle both the same way.
type ErrorList struct {
	Errors []*Error
}

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
