package core

import (
	"fmt"
)

// Grid is the program source as a 2D field of characters, with each
// cell's owning station (if any) precomputed.
//
// Rows can be ragged; a cell beyond the end of its line is blank.
type Grid struct {
	cells [][]rune
	owner [][]int
}

// NewGrid builds the character grid for lines and records which cells
// belong to which station's span.
func NewGrid(lines []string, stations []*Station) *Grid {
	cells := make([][]rune, len(lines))
	owner := make([][]int, len(lines))
	for i, line := range lines {
		cells[i] = []rune(line)
		owner[i] = make([]int, len(cells[i]))
		for j := range owner[i] {
			owner[i][j] = -1
		}
	}

	for i, s := range stations {
		for col := s.Loc.Col; col < s.Loc.Col+s.Loc.Len; col++ {
			if s.Loc.Line < len(owner) && col < len(owner[s.Loc.Line]) {
				owner[s.Loc.Line][col] = i
			}
		}
	}

	return &Grid{
		cells: cells,
		owner: owner,
	}
}

// Height is the number of rows.
func (g *Grid) Height() int {
	return len(g.cells)
}

func blank(c rune) bool {
	return c == ' ' || c == '\t'
}

// at gives the cell at (line, col), or a blank for cells off the ragged
// edge of a row.
func (g *Grid) at(line, col int) rune {
	if col < len(g.cells[line]) {
		return g.cells[line][col]
	}
	return ' '
}

// Neighbor is one geometric adjacency: the nearest station found by
// scanning outward from one cell of a station's span.
type Neighbor struct {
	// Station is the index of the found station.
	Station int

	// Dir is the direction the scan traveled.
	Dir Direction

	// Line and Col are the cell of the found station's span where the
	// scan stopped.
	Line int
	Col  int
}

// Neighbors computes the ordered neighbor list for stations[i].
//
// Each cell of the station's span scans outward along each of the four
// cardinal directions, skipping blank cells and stopping at the first
// non-blank cell.  If that cell belongs to a different station, the
// scan contributes a neighbor; any other non-blank cell acts as a wall
// and the scan contributes nothing, as does running off the grid.
//
// Within a direction, neighbors are ordered by ascending perpendicular
// offset: ascending column for north and south, ascending row for east
// and west.  Across directions, the order starts at the station's
// priority direction and follows its rotation; directions with no
// neighbors are skipped.
func (g *Grid) Neighbors(stations []*Station, i int) []Neighbor {
	s := stations[i]
	acc := make([]Neighbor, 0, 4)

	for _, d := range s.Modifiers.Rotation() {
		acc = append(acc, g.scan(s, i, d)...)
	}

	return acc
}

// scan collects the neighbors in one direction, in ascending
// perpendicular order.
//
// The ascending suborder within a direction is fixed: modifiers choose
// the sequence of the direction groups, never the order inside one.
// Bay wiring depends on both ends computing the same order.
func (g *Grid) scan(s *Station, self int, d Direction) []Neighbor {
	var acc []Neighbor

	found := func(line, col int) bool {
		c := g.at(line, col)
		if blank(c) {
			return false
		}
		o := -1
		if col < len(g.owner[line]) {
			o = g.owner[line][col]
		}
		if o != -1 && o != self {
			acc = append(acc, Neighbor{
				Station: o,
				Dir:     d,
				Line:    line,
				Col:     col,
			})
		}
		// A non-blank cell that belongs to no station is a wall.
		return true
	}

	switch d {
	case North:
		for col := s.Loc.Col; col < s.Loc.Col+s.Loc.Len; col++ {
			for line := s.Loc.Line - 1; 0 <= line; line-- {
				if found(line, col) {
					break
				}
			}
		}
	case South:
		for col := s.Loc.Col; col < s.Loc.Col+s.Loc.Len; col++ {
			for line := s.Loc.Line + 1; line < g.Height(); line++ {
				if found(line, col) {
					break
				}
			}
		}
	case East:
		line := s.Loc.Line
		for col := s.Loc.Col + s.Loc.Len; col < len(g.cells[line]); col++ {
			if found(line, col) {
				break
			}
		}
	case West:
		line := s.Loc.Line
		for col := s.Loc.Col - 1; 0 <= col; col-- {
			if found(line, col) {
				break
			}
		}
	}

	return acc
}

// inKey identifies one end of a connection from the receiving station's
// point of view: the direction its own scan traveled, the perpendicular
// offset of that scan, and the station at the other end.
type inKey struct {
	dir  Direction
	axis int
	from int
}

func axisOf(n Neighbor) int {
	switch n.Dir {
	case North, South:
		return n.Col
	default:
		return n.Line
	}
}

// LinkStations wires every station's output bays.
//
// Each neighbor entry of a station becomes one output bay, in emission
// order.  The target input bay is the one corresponding to the opposite
// direction on the neighbor: input bays are assigned by walking the
// neighbor's own rotation-ordered list and numbering entries modulo the
// neighbor's input arity.  A target with no input bays gets Bay -1.
//
// LinkStations returns each station's neighbor list (useful for
// rendering the graph).  It runs once after discovery and is never
// re-run during execution.
func LinkStations(stations []*Station, g *Grid) ([][]Neighbor, error) {
	nbrs := make([][]Neighbor, len(stations))
	for i := range stations {
		nbrs[i] = g.Neighbors(stations, i)
	}

	bays := make([]map[inKey]int, len(stations))
	for i, s := range stations {
		bays[i] = make(map[inKey]int, len(nbrs[i]))
		for p, n := range nbrs[i] {
			key := inKey{
				dir:  n.Dir,
				axis: axisOf(n),
				from: n.Station,
			}
			if s.Type.InputArity == 0 {
				bays[i][key] = -1
			} else {
				bays[i][key] = p % s.Type.InputArity
			}
		}
	}

	for i, s := range stations {
		s.OutBays = make([]Wire, 0, len(nbrs[i]))
		for _, n := range nbrs[i] {
			key := inKey{
				dir:  n.Dir.Not(),
				axis: axisOf(n),
				from: i,
			}
			bay, ok := bays[n.Station][key]
			if !ok {
				return nil, &InternalError{
					Msg: fmt.Sprintf("linker: station %d at %s has no mirrored connection for station %d going %s",
						n.Station, stations[n.Station].Loc, i, n.Dir),
				}
			}
			s.OutBays = append(s.OutBays, Wire{
				Station: n.Station,
				Bay:     bay,
			})
		}
	}

	return nbrs, nil
}
