package testutil

import "testing"

func TestJS(t *testing.T) {
	if got := JS(map[string]int{"n": 1}); got != `{"n":1}` {
		t.Fatalf("%s", got)
	}
}

func TestProgram(t *testing.T) {
	if got := Program(" N ", "[x]"); got != " N \n[x]" {
		t.Fatalf("%q", got)
	}
}
