package ecmascript

import (
	"context"
	"strings"
	"testing"

	"github.com/freightlang/freight/core"
)

func exec(t *testing.T, src string, in ...core.Pallet) []core.Pallet {
	t.Helper()
	typ, err := Compile(TypeDef{
		Id:     "test",
		In:     len(in),
		Out:    1,
		Source: src,
	})
	if err != nil {
		t.Fatal(err)
	}
	out, err := typ.Transform(context.Background(), nil, in)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestTransform(t *testing.T) {
	out := exec(t, "_.out(_.in[0] + _.in[1]);", core.Int(2), core.Int(3))
	if len(out) != 1 || out[0] != core.Int(5) {
		t.Fatalf("%v", out)
	}
}

func TestTransformChar(t *testing.T) {
	out := exec(t, `_.out("x");`, core.Empty())
	if len(out) != 1 || out[0] != core.Char('x') {
		t.Fatalf("%v", out)
	}
}

func TestTransformEmpty(t *testing.T) {
	out := exec(t, "_.out(null);", core.Int(1))
	if len(out) != 1 || out[0] != core.Empty() {
		t.Fatalf("%v", out)
	}
}

func TestTransformMultipleOut(t *testing.T) {
	out := exec(t, "_.out(_.in[0]); _.out(_.in[0] + 1);", core.Int(7))
	if len(out) != 2 || out[0] != core.Int(7) || out[1] != core.Int(8) {
		t.Fatalf("%v", out)
	}
}

func TestTransformEmptyInputIsNull(t *testing.T) {
	out := exec(t, "_.out(_.in[0] === null ? 1 : 0);", core.Empty())
	if out[0] != core.Int(1) {
		t.Fatalf("%v", out)
	}
}

func TestTransformBadOutput(t *testing.T) {
	typ, err := Compile(TypeDef{Id: "bad", In: 0, Out: 1, Source: `_.out("too long");`})
	if err != nil {
		t.Fatal(err)
	}
	if _, err = typ.Transform(context.Background(), nil, nil); err == nil {
		t.Fatal("expected an error")
	}
}

func TestTransformThrow(t *testing.T) {
	typ, err := Compile(TypeDef{Id: "throw", In: 0, Out: 0, Source: `throw "homemade";`})
	if err != nil {
		t.Fatal(err)
	}
	if _, err = typ.Transform(context.Background(), nil, nil); err == nil {
		t.Fatal("expected an error")
	}
}

func TestCompileError(t *testing.T) {
	if _, err := Compile(TypeDef{Id: "oops", Source: "this is not ECMAScript"}); err == nil {
		t.Fatal("expected an error")
	}
}

func TestInterrupt(t *testing.T) {
	typ, err := Compile(TypeDef{Id: "spin", In: 0, Out: 0, Source: "for (;;) {}"})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err = typ.Transform(ctx, nil, nil); err != Interrupted {
		t.Fatalf("wanted %v, got %v", Interrupted, err)
	}
}

func TestCronNext(t *testing.T) {
	out := exec(t, `
var when = _.cronNext("* * * * *");
_.out(0 < when.length ? 1 : 0);
`, core.Empty())
	if out[0] != core.Int(1) {
		t.Fatalf("%v", out)
	}
}

func TestLoadTypes(t *testing.T) {
	manifest := `
stationtypes:
  - id: double
    doc: Doubles an int pallet.
    in: 1
    out: 1
    source: |
      _.out(_.in[0] * 2);
  - id: upper
    in: 1
    out: 1
    source: |
      _.out(_.in[0].toUpperCase());
`
	ns, err := LoadTypes([]byte(manifest))
	if err != nil {
		t.Fatal(err)
	}
	if len(ns) != 2 {
		t.Fatalf("%d types", len(ns))
	}

	double := ns.Lookup("double")
	if double == nil || double.InputArity != 1 || double.Doc == "" {
		t.Fatalf("%#v", double)
	}
	out, err := double.Transform(context.Background(), nil, []core.Pallet{core.Int(21)})
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != core.Int(42) {
		t.Fatalf("%v", out)
	}

	upper := ns.Lookup("upper")
	out, err = upper.Transform(context.Background(), nil, []core.Pallet{core.Char('q')})
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != core.Char('Q') {
		t.Fatalf("%v", out)
	}
}

func TestLoadTypesBadManifest(t *testing.T) {
	if _, err := LoadTypes([]byte("stationtypes:\n  - source: '_.out(1);'")); err == nil {
		t.Fatal("expected an error")
	}
	if _, err := LoadTypes([]byte(strings.Repeat("\t", 3))); err == nil {
		t.Fatal("expected an error")
	}
}
