package core

import (
	"reflect"
	"testing"
)

// testCross is a station with one-cell stations on all four sides:
//
//	 NN
//	W[]E
//	 SS
//
// The center station is index 0; the others are N1, N2, E, S1, S2, W
// at indices 1-6.
func testCross(mods StationModifiers) ([]string, []*Station) {
	joint := testNamespace().Lookup("joint")

	lines := []string{
		" NN ",
		"W[]E",
		" SS ",
	}
	at := func(line, col, length int) *Station {
		return &Station{
			Loc:       SourceLocation{Line: line, Col: col, Len: length},
			Type:      joint,
			Modifiers: DefaultModifiers(),
			InBays:    make([]*Pallet, joint.InputArity),
		}
	}

	center := at(1, 1, 2)
	center.Modifiers = mods

	return lines, []*Station{
		center,
		at(0, 1, 1),
		at(0, 2, 1),
		at(1, 3, 1),
		at(2, 1, 1),
		at(2, 2, 1),
		at(1, 0, 1),
	}
}

func neighborPairs(ns []Neighbor) [][2]interface{} {
	acc := make([][2]interface{}, 0, len(ns))
	for _, n := range ns {
		acc = append(acc, [2]interface{}{n.Station, n.Dir})
	}
	return acc
}

func checkNeighbors(t *testing.T, mods StationModifiers, want [][2]interface{}) {
	t.Helper()
	lines, stations := testCross(mods)
	g := NewGrid(lines, stations)
	got := neighborPairs(g.Neighbors(stations, 0))
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, wanted %v", got, want)
	}
}

func TestNeighbors(t *testing.T) {
	checkNeighbors(t, DefaultModifiers(), [][2]interface{}{
		{1, North}, {2, North}, {3, East}, {4, South}, {5, South}, {6, West},
	})
}

func TestNeighborsPriority(t *testing.T) {
	// Changing the priority rotates the starting point of the same
	// cyclic ordering without altering set membership.
	checkNeighbors(t, DefaultModifiers().WithPriority(East), [][2]interface{}{
		{3, East}, {4, South}, {5, South}, {6, West}, {1, North}, {2, North},
	})
	checkNeighbors(t, DefaultModifiers().WithPriority(South), [][2]interface{}{
		{4, South}, {5, South}, {6, West}, {1, North}, {2, North}, {3, East},
	})
	checkNeighbors(t, DefaultModifiers().WithPriority(West), [][2]interface{}{
		{6, West}, {1, North}, {2, North}, {3, East}, {4, South}, {5, South},
	})
}

func TestNeighborsReversed(t *testing.T) {
	checkNeighbors(t, DefaultModifiers().Reversed(), [][2]interface{}{
		{1, North}, {2, North}, {6, West}, {4, South}, {5, South}, {3, East},
	})
	checkNeighbors(t, DefaultModifiers().Reversed().WithPriority(East), [][2]interface{}{
		{3, East}, {1, North}, {2, North}, {6, West}, {4, South}, {5, South},
	})
}

func TestNeighborsOnBorder(t *testing.T) {
	joint := testNamespace().Lookup("joint")
	lines := []string{"W[]E"}
	stations := []*Station{
		{
			Loc:       SourceLocation{Line: 0, Col: 1, Len: 2},
			Type:      joint,
			Modifiers: DefaultModifiers(),
			InBays:    make([]*Pallet, 1),
		},
		{
			Loc:       SourceLocation{Line: 0, Col: 3, Len: 1},
			Type:      joint,
			Modifiers: DefaultModifiers(),
			InBays:    make([]*Pallet, 1),
		},
		{
			Loc:       SourceLocation{Line: 0, Col: 0, Len: 1},
			Type:      joint,
			Modifiers: DefaultModifiers(),
			InBays:    make([]*Pallet, 1),
		},
	}
	g := NewGrid(lines, stations)
	got := neighborPairs(g.Neighbors(stations, 0))
	want := [][2]interface{}{{1, East}, {2, West}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v", got)
	}
}

func TestNeighborsNone(t *testing.T) {
	joint := testNamespace().Lookup("joint")
	lines := []string{"[]"}
	stations := []*Station{
		{
			Loc:       SourceLocation{Line: 0, Col: 0, Len: 2},
			Type:      joint,
			Modifiers: DefaultModifiers(),
			InBays:    make([]*Pallet, 1),
		},
	}
	g := NewGrid(lines, stations)

	// No adjacent non-blank cells: empty neighbor list regardless of
	// modifiers.
	for _, mods := range []StationModifiers{
		DefaultModifiers(),
		DefaultModifiers().Reversed(),
		DefaultModifiers().WithPriority(East),
		DefaultModifiers().Reversed().WithPriority(West),
	} {
		stations[0].Modifiers = mods
		if got := g.Neighbors(stations, 0); len(got) != 0 {
			t.Fatalf("%v: got %v", mods, got)
		}
	}
}

func TestNeighborsSkipBlanks(t *testing.T) {
	joint := testNamespace().Lookup("joint")
	lines := []string{"[]   E"}
	stations := []*Station{
		{
			Loc:       SourceLocation{Line: 0, Col: 0, Len: 2},
			Type:      joint,
			Modifiers: DefaultModifiers(),
			InBays:    make([]*Pallet, 1),
		},
		{
			Loc:       SourceLocation{Line: 0, Col: 5, Len: 1},
			Type:      joint,
			Modifiers: DefaultModifiers(),
			InBays:    make([]*Pallet, 1),
		},
	}
	g := NewGrid(lines, stations)
	got := g.Neighbors(stations, 0)
	if len(got) != 1 || got[0].Station != 1 || got[0].Dir != East || got[0].Col != 5 {
		t.Fatalf("got %v", got)
	}
}

func TestNeighborsWall(t *testing.T) {
	// A non-blank cell that belongs to no station stops the scan.
	joint := testNamespace().Lookup("joint")
	lines := []string{"[] # E"}
	stations := []*Station{
		{
			Loc:       SourceLocation{Line: 0, Col: 0, Len: 2},
			Type:      joint,
			Modifiers: DefaultModifiers(),
			InBays:    make([]*Pallet, 1),
		},
		{
			Loc:       SourceLocation{Line: 0, Col: 5, Len: 1},
			Type:      joint,
			Modifiers: DefaultModifiers(),
			InBays:    make([]*Pallet, 1),
		},
	}
	g := NewGrid(lines, stations)
	if got := g.Neighbors(stations, 0); len(got) != 0 {
		t.Fatalf("got %v", got)
	}
}

func TestLinkStations(t *testing.T) {
	p, err := NewProgram("[start][joint][exit]", testNamespace())
	if err != nil {
		t.Fatal(err)
	}

	start, joint, exit := p.Stations[0], p.Stations[1], p.Stations[2]

	if !reflect.DeepEqual(start.OutBays, []Wire{{Station: 1, Bay: 0}}) {
		t.Fatalf("start: %v", start.OutBays)
	}

	// The joint's first wire (east, by default rotation) feeds the
	// exit; its second points back at the start, which has no input
	// bays.
	if !reflect.DeepEqual(joint.OutBays, []Wire{{Station: 2, Bay: 0}, {Station: 0, Bay: -1}}) {
		t.Fatalf("joint: %v", joint.OutBays)
	}

	if !reflect.DeepEqual(exit.OutBays, []Wire{{Station: 1, Bay: 0}}) {
		t.Fatalf("exit: %v", exit.OutBays)
	}
}

func TestLinkStationsVertical(t *testing.T) {
	p, err := NewProgram("[start]\n[exit]", testNamespace())
	if err != nil {
		t.Fatal(err)
	}

	start := p.Stations[0]
	// One wire per overlapping column of the two spans, all plugging
	// into the exit's only input bay.
	if len(start.OutBays) != 6 {
		t.Fatalf("start: %v", start.OutBays)
	}
	for _, w := range start.OutBays {
		if w.Station != 1 || w.Bay != 0 {
			t.Fatalf("start: %v", start.OutBays)
		}
	}
}
