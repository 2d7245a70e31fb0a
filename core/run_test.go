package core

import (
	"context"
	"errors"
	"testing"
)

// testTracer records firings and drops.
type testTracer struct {
	fired   []string
	dropped int
}

func (tr *testTracer) Fired(round, i int, s *Station, in, out []Pallet) {
	tr.fired = append(tr.fired, s.Type.ID)
}

func (tr *testTracer) Dropped(round, i int, s *Station, p Pallet) {
	tr.dropped++
}

func TestRunStartExit(t *testing.T) {
	p, err := NewProgram("[start][exit]", testNamespace())
	if err != nil {
		t.Fatal(err)
	}

	ran, err := p.Run(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if ran.StopBecause != Terminated {
		t.Fatalf("stopped because %s", ran.StopBecause)
	}
	// The terminal is downstream of the entry in index order, so the
	// whole run completes in the first scheduling round.
	if ran.Rounds != 1 {
		t.Fatalf("rounds == %d", ran.Rounds)
	}
	if ran.Fired != 2 {
		t.Fatalf("fired == %d", ran.Fired)
	}
}

func TestRunChain(t *testing.T) {
	tr := &testTracer{}
	p, err := NewProgram("[start][joint][exit]", testNamespace())
	if err != nil {
		t.Fatal(err)
	}

	ran, err := p.Run(context.Background(), &Control{Tracer: tr})
	if err != nil {
		t.Fatal(err)
	}
	if ran.StopBecause != Terminated {
		t.Fatalf("stopped because %s", ran.StopBecause)
	}

	want := []string{"start", "joint", "exit"}
	if len(tr.fired) != len(want) {
		t.Fatalf("fired %v", tr.fired)
	}
	for i, id := range want {
		if tr.fired[i] != id {
			t.Fatalf("fired %v", tr.fired)
		}
	}
}

func TestRunDeadlock(t *testing.T) {
	// The wall between the stations means the exit's input bay is
	// never fed.  The engine must report the deadlock rather than
	// loop unboundedly.
	p, err := NewProgram("[start] # [exit]", testNamespace())
	if err != nil {
		t.Fatal(err)
	}

	ran, err := p.Run(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if ran.StopBecause != Deadlocked {
		t.Fatalf("stopped because %s", ran.StopBecause)
	}
	if ran.Fired != 1 {
		t.Fatalf("fired == %d", ran.Fired)
	}
}

func TestRunLimited(t *testing.T) {
	// Two joints bouncing a pallet back and forth, with no terminal
	// reachable.
	p, err := NewProgram("[start][joint][joint]", testNamespace())
	if err != nil {
		t.Fatal(err)
	}

	ran, err := p.Run(context.Background(), &Control{Limit: 7})
	if err != nil {
		t.Fatal(err)
	}
	if ran.StopBecause != Limited {
		t.Fatalf("stopped because %s", ran.StopBecause)
	}
	if ran.Rounds != 7 {
		t.Fatalf("rounds == %d", ran.Rounds)
	}
}

func TestRunBlockedBackpressure(t *testing.T) {
	p, err := NewProgram("[start][joint][exit]", testNamespace())
	if err != nil {
		t.Fatal(err)
	}

	// Occupy the exit's input bay before the run.  The joint becomes
	// ready during round one but its output has nowhere to go, so its
	// firing is deferred; the pallet stays in its bay.
	occupied := Int(9)
	p.Stations[2].InBays[0] = &occupied

	ran, err := p.Run(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if ran.StopBecause != Terminated {
		t.Fatalf("stopped because %s", ran.StopBecause)
	}
	if ran.Fired != 2 {
		t.Fatalf("fired == %d", ran.Fired)
	}
	if p.Stations[1].InBays[0] == nil {
		t.Fatal("the joint's deferred pallet should still be in its bay")
	}
}

func TestRunOperandError(t *testing.T) {
	p, err := NewProgram("[start][boom]", testNamespace())
	if err != nil {
		t.Fatal(err)
	}

	_, err = p.Run(context.Background(), nil)
	var oe *OperandError
	if !errors.As(err, &oe) {
		t.Fatalf("%T %v", err, err)
	}
	want := SourceLocation{Line: 0, Col: 7, Len: 6}
	if oe.Location() != want {
		t.Fatalf("loc == %v", oe.Location())
	}
}

func TestRunDroppedPallet(t *testing.T) {
	// The joint's only outbound wire points back at the entry, which
	// has no input bays, so its pallet is dropped and the graph then
	// deadlocks.
	tr := &testTracer{}
	p, err := NewProgram("[start][joint]", testNamespace())
	if err != nil {
		t.Fatal(err)
	}

	ran, err := p.Run(context.Background(), &Control{Tracer: tr})
	if err != nil {
		t.Fatal(err)
	}
	if ran.StopBecause != Deadlocked {
		t.Fatalf("stopped because %s", ran.StopBecause)
	}
	if tr.dropped != 1 {
		t.Fatalf("dropped == %d", tr.dropped)
	}
}

func TestEngineRounds(t *testing.T) {
	// The terminal sits at a lower index than the entry, so the run
	// takes two rounds: one to move the pallet, one to fire the exit.
	p, err := NewProgram("[exit][start]", testNamespace())
	if err != nil {
		t.Fatal(err)
	}

	e := p.Engine(nil)
	ctx := context.Background()

	stopped, err := e.Round(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stopped {
		t.Fatal("stopped after one round")
	}

	stopped, err = e.Round(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !stopped {
		t.Fatal("should have stopped")
	}

	ran := e.Ran()
	if ran.StopBecause != Terminated || ran.Rounds != 2 || ran.Fired != 2 {
		t.Fatalf("%#v", ran)
	}
}

func TestEngineDoesNotMutateControl(t *testing.T) {
	p, err := NewProgram("[start][exit]", testNamespace())
	if err != nil {
		t.Fatal(err)
	}

	// The engine defaults the missing reader and writer on its own
	// copy; the caller's control stays as given.
	c := &Control{Env: &Env{}}
	if _, err := p.Run(context.Background(), c); err != nil {
		t.Fatal(err)
	}
	if c.Env.In != nil || c.Env.Out != nil {
		t.Fatalf("control env mutated: %#v", c.Env)
	}
}

func TestRunCanceled(t *testing.T) {
	p, err := NewProgram("[start][joint][joint]", testNamespace())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Run(ctx, nil); err == nil {
		t.Fatal("expected a context error")
	}
}

func TestProgramReset(t *testing.T) {
	p, err := NewProgram("[start][joint][joint]", testNamespace())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := p.Run(context.Background(), &Control{Limit: 3}); err != nil {
		t.Fatal(err)
	}
	p.Reset()
	for _, s := range p.Stations {
		for _, bay := range s.InBays {
			if bay != nil {
				t.Fatal("bay not cleared")
			}
		}
	}

	// A reset program runs again deterministically.
	ran, err := p.Run(context.Background(), &Control{Limit: 3})
	if err != nil {
		t.Fatal(err)
	}
	if ran.StopBecause != Limited {
		t.Fatalf("stopped because %s", ran.StopBecause)
	}
}
