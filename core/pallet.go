package core

import "fmt"

// PalletKind discriminates the closed set of Pallet variants.
type PalletKind int

const (
	// EmptyPallet is a pallet carrying no value.  Note that an empty
	// pallet is a real value; a vacant bay is represented by a nil
	// *Pallet, not by an empty pallet.
	EmptyPallet PalletKind = iota

	// IntPallet carries an integer.
	IntPallet

	// CharPallet carries a single character.
	CharPallet
)

func (k PalletKind) String() string {
	switch k {
	case EmptyPallet:
		return "empty"
	case IntPallet:
		return "int"
	case CharPallet:
		return "char"
	default:
		return fmt.Sprintf("palletkind(%d)", int(k))
	}
}

// Pallet is the unit of value that flows between stations.
type Pallet struct {
	Kind PalletKind `json:"kind"`
	Int  int64      `json:"int,omitempty"`
	Char rune       `json:"char,omitempty"`
}

// Empty makes a pallet carrying no value.
func Empty() Pallet {
	return Pallet{Kind: EmptyPallet}
}

// Int makes a pallet carrying n.
func Int(n int64) Pallet {
	return Pallet{Kind: IntPallet, Int: n}
}

// Char makes a pallet carrying c.
func Char(c rune) Pallet {
	return Pallet{Kind: CharPallet, Char: c}
}

func (p Pallet) String() string {
	switch p.Kind {
	case EmptyPallet:
		return "[]"
	case IntPallet:
		return fmt.Sprintf("[%d]", p.Int)
	case CharPallet:
		return fmt.Sprintf("[%q]", p.Char)
	default:
		return fmt.Sprintf("[?%d]", int(p.Kind))
	}
}
