package core

import (
	"bufio"
	"context"
	"io"
)

// Env carries the synchronous IO available to a station transform.
//
// A transform that does IO must not block indefinitely; it reads or
// writes and returns a pallet immediately.
type Env struct {
	// In is the input stream for reading stations.
	In *bufio.Reader

	// Out is the output stream for printing stations.
	Out io.Writer
}

// Transform is the logic of a station type: a function from consumed
// input pallets to produced output pallets.
//
// The input slice has exactly the type's InputArity pallets.  A
// transform may produce fewer pallets than the type's OutputArity (a
// gate that swallows its input, for example) but should not produce
// more.  An error from a transform is an operand error: a property of
// the program's logic, not of the engine.
type Transform func(ctx context.Context, env *Env, in []Pallet) ([]Pallet, error)

// StationType is one entry in the station-type registry.
//
// A StationType is shared and read-only: every placed station holds a
// reference to its type for the lifetime of the program graph.
type StationType struct {
	// ID is the identifier that source markers use, as in "[start]".
	ID string

	// Doc describes the behavior.  Markdown; see tools.RenderCatalogHTML.
	Doc string

	// InputArity is the number of input bays a placed station of this
	// type has.  The station is ready when all of them hold pallets.
	InputArity int

	// OutputArity is the number of pallets a firing normally produces.
	OutputArity int

	// Entry marks the type at which execution begins.  A program must
	// place exactly one entry station.
	Entry bool

	// Terminal marks the type whose firing ends execution successfully.
	Terminal bool

	Transform Transform
}

// Namespace is an ordered, read-only collection of station types.
//
// The order is stable so that generated documentation and tests are
// reproducible.
type Namespace []*StationType

// Lookup resolves an identifier to a station type, or nil.
func (ns Namespace) Lookup(id string) *StationType {
	for _, t := range ns {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// StationModifiers control the rotation used to order a station's
// neighbors (and therefore its bay wiring).
//
// Modifiers are attached at placement time and are immutable
// thereafter.  Reversed and WithPriority derive new values; they never
// mutate shared state.
type StationModifiers struct {
	// Reverse selects counter-clockwise rotation when true.
	Reverse bool

	// Priority is the direction the rotation starts with.
	Priority Direction
}

// DefaultModifiers are the modifiers of a plain marker: clockwise
// rotation starting north.
func DefaultModifiers() StationModifiers {
	return StationModifiers{
		Reverse:  false,
		Priority: North,
	}
}

// Reversed toggles the rotation direction.
func (m StationModifiers) Reversed() StationModifiers {
	m.Reverse = !m.Reverse
	return m
}

// WithPriority replaces the starting direction.
func (m StationModifiers) WithPriority(d Direction) StationModifiers {
	m.Priority = d
	return m
}

// Rotation gives the four directions in this station's emission order.
func (m StationModifiers) Rotation() [4]Direction {
	var ds [4]Direction
	d := m.Priority
	for i := 0; i < 4; i++ {
		ds[i] = d
		if m.Reverse {
			d = d.CounterClockwise()
		} else {
			d = d.Clockwise()
		}
	}
	return ds
}

// Wire is one output-bay connection: the index of the target station in
// the program's station collection and the index of the input bay the
// connection plugs into on that station.
//
// Bay is -1 when the target has no input bays; a pallet sent over such
// a wire is dropped.
type Wire struct {
	Station int `json:"station"`
	Bay     int `json:"bay"`
}

// Station is one placed instance of a station type.
//
// Loc, Type, and Modifiers are fixed at discovery.  OutBays is fixed by
// LinkStations.  Only the contents of InBays mutate during a run, and
// only the engine mutates them.
type Station struct {
	// Loc is where the marker sits in the source.
	Loc SourceLocation

	// Type is the resolved registry entry.  Shared, read-only.
	Type *StationType

	// Modifiers control neighbor rotation for this placement.
	Modifiers StationModifiers

	// InBays holds at most one pending pallet per slot.  A nil entry is
	// a vacant bay.  The slice length is Type.InputArity and never
	// changes after discovery.
	InBays []*Pallet

	// OutBays are the wired output connections in emission order.
	OutBays []Wire
}

// NewStation resolves identifier against ns and makes a station at loc
// with the given modifiers.
func NewStation(identifier string, loc SourceLocation, modifiers StationModifiers, ns Namespace) (*Station, error) {
	t := ns.Lookup(identifier)
	if t == nil {
		return nil, &IdentifierError{
			Loc:        loc,
			Identifier: identifier,
		}
	}
	return &Station{
		Loc:       loc,
		Type:      t,
		Modifiers: modifiers,
		InBays:    make([]*Pallet, t.InputArity),
	}, nil
}

// Ready reports whether every input bay holds a pallet.
func (s *Station) Ready() bool {
	for _, bay := range s.InBays {
		if bay == nil {
			return false
		}
	}
	return true
}

// ClearInBays vacates all input bays.
func (s *Station) ClearInBays() {
	for i := range s.InBays {
		s.InBays[i] = nil
	}
}
