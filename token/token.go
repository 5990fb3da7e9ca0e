// Package token defines the lexical tokens produced by the parser and
// carried through assembly: mnemonics with their arguments, registers,
// immediates, memory operands, symbols and label definitions.
package token

import "fmt"

// Kind identifies which variant of Token is populated.
type Kind int

const (
	KindMnemonic Kind = iota
	KindRegister
	KindImmediate
	KindMemory
	KindSymbol
	KindLabel
	KindSpacing
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindMnemonic:
		return "mnemonic"
	case KindRegister:
		return "register"
	case KindImmediate:
		return "immediate"
	case KindMemory:
		return "memory"
	case KindSymbol:
		return "symbol"
	case KindLabel:
		return "label"
	case KindSpacing:
		return "spacing"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Arg pairs a Token with the source location it came from.
type Arg struct {
	Tok Token
	Loc Loc
}

// Token is a tagged union. Exactly one field
// group is meaningful for a given Kind; callers switch on Kind before
// reading the rest.
type Token struct {
	Kind Kind

	// KindMnemonic
	Name string
	Args []Arg

	// KindRegister / KindSymbol / KindLabel share Name above.

	// KindImmediate
	Value uint32

	// KindMemory
	MemImm *Arg // the Immediate (or Symbol) token
	MemReg *Arg // the Register token, nil if omitted

	// KindString
	Str string
}

// Mnemonic builds a KindMnemonic token.
func Mnemonic(name string, args []Arg) Token {
	return Token{Kind: KindMnemonic, Name: name, Args: args}
}

// Register builds a KindRegister token.
func Register(name string) Token {
	return Token{Kind: KindRegister, Name: name}
}

// Immediate builds a KindImmediate token from a 32-bit two's-complement pattern.
func Immediate(v uint32) Token {
	return Token{Kind: KindImmediate, Value: v}
}

// Memory builds a KindMemory token for the `imm(reg)` operand form.
func Memory(imm Arg, reg *Arg) Token {
	return Token{Kind: KindMemory, MemImm: &imm, MemReg: reg}
}

// Symbol builds a KindSymbol token.
func Symbol(name string) Token {
	return Token{Kind: KindSymbol, Name: name}
}

// Label builds a KindLabel (definition) token.
func Label(name string) Token {
	return Token{Kind: KindLabel, Name: name}
}

func (t Token) String() string {
	switch t.Kind {
	case KindMnemonic:
		return fmt.Sprintf("Mnemonic(%s, %d args)", t.Name, len(t.Args))
	case KindRegister:
		return fmt.Sprintf("Register(%s)", t.Name)
	case KindImmediate:
		return fmt.Sprintf("Immediate(0x%x)", t.Value)
	case KindMemory:
		return fmt.Sprintf("Memory(%v)(%v)", t.MemImm, t.MemReg)
	case KindSymbol:
		return fmt.Sprintf("Symbol(%s)", t.Name)
	case KindLabel:
		return fmt.Sprintf("Label(%s)", t.Name)
	case KindString:
		return fmt.Sprintf("String(%q)", t.Str)
	default:
		return "Spacing"
	}
}

// Loc is the source location of a token. Line/Start/End
// are for diagnostics; MemOffset is the byte address of the owning
// instruction and is only meaningful once the assembler's first pass
// has run.
type Loc struct {
	Line      int
	Start     int
	End       int
	MemOffset uint32
}

func (l Loc) String() string {
	return fmt.Sprintf("%d:%d-%d", l.Line, l.Start, l.End)
}

// Item is a top-level token paired with its location, the shape the
// parser emits: either a Mnemonic or a Label.
type Item struct {
	Tok Token
	Loc Loc
}
