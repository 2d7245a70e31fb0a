// Package storage defines persistence for run histories.
//
// A Store keeps runs and their firing-by-firing traces.  The Recorder
// adapts a Store to core.Tracer so an engine can persist its activity
// as it goes.
package storage

import (
	"context"

	"github.com/freightlang/freight/core"
)

// RunRecord is one persisted run.
type RunRecord struct {
	// Id identifies the run within the Store.
	Id string `json:"id"`

	// Source is the (expanded) program text.
	Source string `json:"source,omitempty"`

	// Ran is the outcome, absent while the run is in flight.
	Ran *core.Ran `json:"ran,omitempty"`
}

// FiringRecord is one engine event: either a firing or a dropped
// pallet.
type FiringRecord struct {
	Round   int                 `json:"round"`
	Station int                 `json:"station"`
	Type    string              `json:"type"`
	Loc     core.SourceLocation `json:"loc"`

	In  []core.Pallet `json:"in,omitempty"`
	Out []core.Pallet `json:"out,omitempty"`

	// Dropped, if not nil, means this record is a dropped pallet
	// rather than a firing.
	Dropped *core.Pallet `json:"dropped,omitempty"`
}

// Store is a persistence interface for run histories.
type Store interface {
	Open() error

	Close() error

	// AddRun writes (or overwrites) a run record.
	AddRun(ctx context.Context, r *RunRecord) error

	GetRun(ctx context.Context, id string) (*RunRecord, error)

	// ListRuns returns the ids of all stored runs.
	ListRuns(ctx context.Context) ([]string, error)

	// AddFiring appends an event to the given run's trace.
	AddFiring(ctx context.Context, runId string, f *FiringRecord) error

	// Firings returns a run's trace in the order it was written.
	Firings(ctx context.Context, runId string) ([]*FiringRecord, error)
}

// Recorder adapts a Store to core.Tracer.
//
// The tracer interface can't return errors, so the first write error
// is remembered at Err and later writes are skipped.
type Recorder struct {
	Store Store
	RunId string

	Err error
}

func (r *Recorder) add(f *FiringRecord) {
	if r.Err != nil {
		return
	}
	r.Err = r.Store.AddFiring(context.Background(), r.RunId, f)
}

func (r *Recorder) Fired(round, i int, s *core.Station, in, out []core.Pallet) {
	r.add(&FiringRecord{
		Round:   round,
		Station: i,
		Type:    s.Type.ID,
		Loc:     s.Loc,
		In:      in,
		Out:     out,
	})
}

func (r *Recorder) Dropped(round, i int, s *core.Station, p core.Pallet) {
	r.add(&FiringRecord{
		Round:   round,
		Station: i,
		Type:    s.Type.ID,
		Loc:     s.Loc,
		Dropped: &p,
	})
}
