package core

import (
	"bufio"
	"context"
	"io"
	"strings"
)

var (
	// DefaultControl will be used by Program.Run (and Program.Engine)
	// if the given control is nil.
	DefaultControl = &Control{
		Limit: 10000,
	}
)

// StopReason represents the possible reasons for a run to stop without
// a fatal error.
type StopReason int

//go:generate stringer -type=StopReason

const (
	// Terminated means a terminal station fired.  The run succeeded.
	Terminated StopReason = iota

	// Deadlocked means no station was ready and no terminal had been
	// reached.  An unsuccessful but non-crashing outcome.
	Deadlocked

	// Limited means the round limit was hit.  Converts a malformed
	// program's livelock into a reported condition instead of an
	// unbounded loop.
	Limited
)

// Control influences how a run operates.
type Control struct {
	// Limit is the maximum number of scheduling rounds.  Zero or
	// negative means DefaultControl.Limit.
	Limit int

	// Env is the IO available to transforms.  A nil Env gets a
	// discarding writer and an empty reader.
	Env *Env

	// Tracer, if not nil, observes every firing.
	Tracer Tracer
}

// Tracer observes engine activity.  Useful for debugging and for
// persisting run histories; see package storage.
type Tracer interface {
	// Fired reports that stations[i] consumed in and produced out
	// during the given round.
	Fired(round, i int, s *Station, in, out []Pallet)

	// Dropped reports a produced pallet that had nowhere to go: no
	// wired output bay, a bay-less target, or a target bay already
	// occupied by an earlier output of the same firing.
	Dropped(round, i int, s *Station, p Pallet)
}

// Program is a discovered, wired station graph: a single owned,
// index-stable collection of stations.  All cross-references between
// stations are plain indices into Stations.
type Program struct {
	// Stations is the arena.  Never mutated structurally after
	// linking; only in-bay contents change during a run.
	Stations []*Station

	// Start is the index of the entry station.
	Start int

	// Neighbors is each station's geometric adjacency list, kept for
	// rendering and debugging.
	Neighbors [][]Neighbor
}

// NewProgram discovers, links, and returns a runnable program for the
// given source text.
func NewProgram(src string, ns Namespace) (*Program, error) {
	lines := strings.Split(src, "\n")

	stations, start, err := DiscoverStations(lines, ns)
	if err != nil {
		return nil, err
	}

	grid := NewGrid(lines, stations)
	nbrs, err := LinkStations(stations, grid)
	if err != nil {
		return nil, err
	}

	return &Program{
		Stations:  stations,
		Start:     start,
		Neighbors: nbrs,
	}, nil
}

// Reset vacates every input bay, returning the graph to its
// pre-execution state.
func (p *Program) Reset() {
	for _, s := range p.Stations {
		s.ClearInBays()
	}
}

// Ran reports how a run went.
type Ran struct {
	// StopBecause is why the run stopped.
	StopBecause StopReason `json:"stopBecause"`

	// Rounds is the number of scheduling rounds taken.
	Rounds int `json:"rounds"`

	// Fired is the total number of firings.
	Fired int `json:"fired"`
}

// Engine drives a program one scheduling round at a time.
//
// An Engine exclusively owns the program's in-bay contents until the
// run stops.  A Program must not be run by two engines at once, but
// independent programs run concurrently without interference: there is
// no ambient mutable state.
type Engine struct {
	p      *Program
	limit  int
	env    *Env
	tracer Tracer

	round        int
	entryPending bool
	stopped      bool
	ran          Ran
}

// Engine makes an engine for one run of the program.  The entry
// station begins marked ready regardless of its input bays.
func (p *Program) Engine(c *Control) *Engine {
	if c == nil {
		c = DefaultControl
	}

	limit := c.Limit
	if limit <= 0 {
		limit = DefaultControl.Limit
	}

	// Copy the Env so that defaulting never mutates the caller's
	// control.
	env := &Env{}
	if c.Env != nil {
		*env = *c.Env
	}
	if env.Out == nil {
		env.Out = io.Discard
	}
	if env.In == nil {
		env.In = bufio.NewReader(strings.NewReader(""))
	}

	return &Engine{
		p:            p,
		limit:        limit,
		env:          env,
		tracer:       c.Tracer,
		entryPending: true,
	}
}

// Round runs one scheduling round and reports whether the run has
// stopped.
//
// A round scans stations in ascending index and fires every station
// that is ready and unblocked at the moment of its turn, which makes
// firing order deterministic and reproducible.  A station is ready
// when all of its input bays hold pallets; the entry station is
// additionally ready -- once -- at the start of the run.  A ready
// station whose outputs would land in occupied bays is blocked, and
// its firing is deferred to a later round.
func (e *Engine) Round(ctx context.Context) (bool, error) {
	if e.stopped {
		return true, nil
	}
	if e.limit <= e.round {
		e.stop(Limited)
		return true, nil
	}

	e.round++
	e.ran.Rounds = e.round
	fired := false

	for i, s := range e.p.Stations {
		if err := ctx.Err(); err != nil {
			return true, err
		}

		ready := s.Ready()
		if i == e.p.Start && e.entryPending {
			ready = true
		} else if s.Type.InputArity == 0 {
			// An arity-0 station is only ready via entry activation.
			ready = false
		}
		if !ready || e.blocked(s) {
			continue
		}

		if i == e.p.Start {
			e.entryPending = false
		}

		out, err := e.fire(ctx, i, s)
		if err != nil {
			return true, err
		}
		fired = true
		e.ran.Fired++

		if s.Type.Terminal {
			e.stop(Terminated)
			return true, nil
		}

		e.deposit(i, s, out)
	}

	if !fired {
		e.stop(Deadlocked)
		return true, nil
	}

	return false, nil
}

func (e *Engine) stop(why StopReason) {
	e.stopped = true
	e.ran.StopBecause = why
}

// Ran gives the result so far.  Only meaningful once Round has
// reported that the run stopped.
func (e *Engine) Ran() *Ran {
	ran := e.ran
	return &ran
}

// Rounds gives the number of completed scheduling rounds.
func (e *Engine) Rounds() int {
	return e.round
}

// blocked reports whether any bay this station's firing would fill is
// already occupied.  Backpressure on single-slot bays: the whole
// firing waits rather than overwrite.
func (e *Engine) blocked(s *Station) bool {
	n := s.Type.OutputArity
	if len(s.OutBays) < n {
		n = len(s.OutBays)
	}
	for _, w := range s.OutBays[:n] {
		if w.Bay < 0 {
			continue
		}
		if e.p.Stations[w.Station].InBays[w.Bay] != nil {
			return true
		}
	}
	return false
}

// fire consumes the station's inputs and runs its transform.
func (e *Engine) fire(ctx context.Context, i int, s *Station) ([]Pallet, error) {
	in := make([]Pallet, len(s.InBays))
	for j, bay := range s.InBays {
		if bay != nil {
			in[j] = *bay
		}
	}
	s.ClearInBays()

	out, err := s.Type.Transform(ctx, e.env, in)
	if err != nil {
		if _, is := err.(Located); is {
			return nil, err
		}
		return nil, &OperandError{
			Loc: s.Loc,
			Err: err,
		}
	}

	if e.tracer != nil {
		e.tracer.Fired(e.round, i, s, in, out)
	}

	return out, nil
}

// deposit routes produced pallets into the wired target bays.  The
// j-th output goes to the j-th output bay.  Outputs with no wiring, or
// wired to a bay-less target, are dropped.
func (e *Engine) deposit(i int, s *Station, out []Pallet) {
	for j, pallet := range out {
		if len(s.OutBays) <= j {
			if e.tracer != nil {
				e.tracer.Dropped(e.round, i, s, pallet)
			}
			continue
		}
		w := s.OutBays[j]
		target := e.p.Stations[w.Station]
		if w.Bay < 0 || target.InBays[w.Bay] != nil {
			if e.tracer != nil {
				e.tracer.Dropped(e.round, i, s, pallet)
			}
			continue
		}
		delivered := pallet
		target.InBays[w.Bay] = &delivered
	}
}

// Run executes the program until a terminal station fires, the graph
// deadlocks, the round limit is reached, or a fatal error occurs.
//
// See Engine.Round for the scheduling policy.
func (p *Program) Run(ctx context.Context, c *Control) (*Ran, error) {
	e := p.Engine(c)
	for {
		stopped, err := e.Round(ctx)
		if err != nil {
			return nil, err
		}
		if stopped {
			return e.Ran(), nil
		}
	}
}
