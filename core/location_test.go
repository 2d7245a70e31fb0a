package core

import (
	"testing"
)

func TestDirectionNot(t *testing.T) {
	if North.Not() != South {
		t.Fatal(North.Not())
	}
	if East.Not() != West {
		t.Fatal(East.Not())
	}
	if South.Not() != North {
		t.Fatal(South.Not())
	}
	if West.Not() != East {
		t.Fatal(West.Not())
	}

	for _, d := range []Direction{North, East, South, West} {
		if d.Not() == d {
			t.Fatalf("%s is its own opposite", d)
		}
		if d.Not().Not() != d {
			t.Fatalf("double negation of %s gives %s", d, d.Not().Not())
		}
	}
}

func TestDirectionRotation(t *testing.T) {
	if North.Clockwise() != East || East.Clockwise() != South ||
		South.Clockwise() != West || West.Clockwise() != North {
		t.Fatal("clockwise rotation is not N→E→S→W→N")
	}
	if North.CounterClockwise() != West || West.CounterClockwise() != South ||
		South.CounterClockwise() != East || East.CounterClockwise() != North {
		t.Fatal("counter-clockwise rotation is not N→W→S→E→N")
	}
}

func TestCharIndex(t *testing.T) {
	s := "😼abcd"
	if got := CharIndex(4, s); got != 1 {
		t.Fatalf("got %d", got)
	}
	if got := CharIndex(6, s); got != 3 {
		t.Fatalf("got %d", got)
	}
}

func TestCharIndexNoUnicode(t *testing.T) {
	if got := CharIndex(2, "abcd"); got != 2 {
		t.Fatalf("got %d", got)
	}
}

func TestCharIndexMultipleUnicode(t *testing.T) {
	if got := CharIndex(14, "😻a😼b😾c"); got != 5 {
		t.Fatalf("got %d", got)
	}
}

func TestSourceLocationString(t *testing.T) {
	loc := SourceLocation{Line: 0, Col: 3, Len: 7}
	if got := loc.String(); got != "1:3-10" {
		t.Fatal(got)
	}
	if !NoLocation.None() {
		t.Fatal("NoLocation should be none")
	}
	if loc.None() {
		t.Fatal("loc should not be none")
	}
}
