/* Copyright 2024 The Freight Authors
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"

	"github.com/freightlang/freight/core"
	"github.com/freightlang/freight/storage"
)

// Op is a request to the service.
type Op struct {
	// Op is "run" (the default) or "expand".
	Op string `json:"op,omitempty"`

	// Id is echoed in the Result so a caller can pair requests with
	// responses.
	Id string `json:"id,omitempty"`

	// Source is the program text.
	Source string `json:"source"`

	// Input is the text the program reads from.
	Input string `json:"input,omitempty"`

	// Limit bounds the scheduling rounds.  Zero means the default.
	Limit int `json:"limit,omitempty"`

	// Trace asks for the firing-by-firing history in the Result.
	Trace bool `json:"trace,omitempty"`
}

// Result is the service's response to an Op.
type Result struct {
	Id string `json:"id,omitempty"`

	// Ran is the outcome of a "run".
	Ran *core.Ran `json:"ran,omitempty"`

	// Output is what the program printed.
	Output string `json:"output,omitempty"`

	// Expanded is the macro-expanded source for an "expand".
	Expanded string `json:"expanded,omitempty"`

	// Firings is the trace, if the Op asked for one.
	Firings []*storage.FiringRecord `json:"firings,omitempty"`

	Error string `json:"error,omitempty"`
}

// Couplings connects the service to the world.
type Couplings interface {
	// Start initiates the connection (if any).
	Start(ctx context.Context) error

	// IO returns the channel of incoming ops, the channel for
	// outbound results, and a channel that's closed on shutdown.
	IO(ctx context.Context) (chan *Op, chan *Result, chan bool, error)

	// Stop terminates the connection.
	Stop(ctx context.Context) error
}

// memTracer accumulates firing records in memory.
type memTracer struct {
	fs []*storage.FiringRecord
}

func (t *memTracer) Fired(round, i int, s *core.Station, in, out []core.Pallet) {
	t.fs = append(t.fs, &storage.FiringRecord{
		Round:   round,
		Station: i,
		Type:    s.Type.ID,
		Loc:     s.Loc,
		In:      in,
		Out:     out,
	})
}

func (t *memTracer) Dropped(round, i int, s *core.Station, p core.Pallet) {
	t.fs = append(t.fs, &storage.FiringRecord{
		Round:   round,
		Station: i,
		Type:    s.Type.ID,
		Loc:     s.Loc,
		Dropped: &p,
	})
}
