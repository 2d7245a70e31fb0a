package macro

import (
	"strings"
	"testing"
)

func TestExpand(t *testing.T) {
	src := strings.Join([]string{
		"!def pipeline [joint][joint]",
		"[start]{pipeline}[exit]",
	}, "\n")

	got, err := Expand(src)
	if err != nil {
		t.Fatal(err)
	}
	want := "\n[start][joint][joint][exit]"
	if got != want {
		t.Fatalf("%q", got)
	}
}

func TestExpandPreservesLineNumbers(t *testing.T) {
	src := strings.Join([]string{
		"!def x [joint]",
		"[start]",
		"{x}",
	}, "\n")

	got, err := Expand(src)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("%q", got)
	}
	if lines[0] != "" || lines[1] != "[start]" || lines[2] != "[joint]" {
		t.Fatalf("%q", got)
	}
}

func TestExpandEarlierDefinitions(t *testing.T) {
	src := strings.Join([]string{
		"!def a [joint]",
		"!def b {a}{a}",
		"{b}",
	}, "\n")

	got, err := Expand(src)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(got) != "[joint][joint]" {
		t.Fatalf("%q", got)
	}
}

func TestExpandUnknownReference(t *testing.T) {
	if _, err := Expand("{mystery}"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestExpandForwardReference(t *testing.T) {
	src := strings.Join([]string{
		"!def b {a}",
		"!def a [joint]",
	}, "\n")
	if _, err := Expand(src); err == nil {
		t.Fatal("expected an error")
	}
}

func TestExpandRedefinition(t *testing.T) {
	src := strings.Join([]string{
		"!def a [joint]",
		"!def a [exit]",
	}, "\n")
	if _, err := Expand(src); err == nil {
		t.Fatal("expected an error")
	}
}

func TestExpandNoDirectives(t *testing.T) {
	src := "[start][exit]"
	got, err := Expand(src)
	if err != nil {
		t.Fatal(err)
	}
	if got != src {
		t.Fatalf("%q", got)
	}
}
