package core

import (
	"fmt"
	"unicode/utf8"
)

// SourceLocation is the position of a span of characters in the source
// text.  It is used both for graph geometry and for error reporting.
//
// Col and Len count decoded characters, not bytes.  Source text may
// contain multi-byte characters, so byte offsets from scanning must be
// translated with CharIndex before they end up here.
type SourceLocation struct {
	// Line is the zero-based line number.
	Line int `json:"line"`

	// Col is the zero-based column in character (not byte) units.
	Col int `json:"col"`

	// Len is the length of the span in characters.
	Len int `json:"len"`
}

// NoLocation marks "not applicable".
var NoLocation = SourceLocation{}

// None reports whether the location is the NoLocation sentinel.
func (l SourceLocation) None() bool {
	return l == NoLocation
}

func (l SourceLocation) String() string {
	return fmt.Sprintf("%d:%d-%d", l.Line+1, l.Col, l.Col+l.Len)
}

// CharIndex translates a byte offset in line to a character index.
//
// A marker located after one 4-byte character and three 1-byte
// characters is at character-column 4, not byte-column 7.
func CharIndex(byteOffset int, line string) int {
	return utf8.RuneCountInString(line[:byteOffset])
}

// Direction is one of the four cardinal directions on the grid.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

var directionNames = [...]string{"north", "east", "south", "west"}

func (d Direction) String() string {
	if d < North || West < d {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

// Not gives the opposite direction.  A connection discovered going east
// plugs into the neighbor's west-facing bay.
func (d Direction) Not() Direction {
	switch d {
	case North:
		return South
	case East:
		return West
	case South:
		return North
	default:
		return East
	}
}

// Clockwise gives the next direction in the fixed clockwise rotation
// N→E→S→W→N.
func (d Direction) Clockwise() Direction {
	return (d + 1) % 4
}

// CounterClockwise gives the next direction in the reverse rotation
// N→W→S→E→N.
func (d Direction) CounterClockwise() Direction {
	return (d + 3) % 4
}
