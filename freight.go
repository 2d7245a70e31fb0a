package freight

import (
	"context"

	"github.com/freightlang/freight/core"
	"github.com/freightlang/freight/macro"
)

// Run macro-expands src, discovers and links the station graph, and
// executes it.
//
// ns is the station-type namespace to resolve markers against; see
// stations.Standard.  A nil control gets core.DefaultControl.  All
// configuration is explicit: there is no process-wide mutable state,
// so independent runs can proceed concurrently.
func Run(ctx context.Context, src string, ns core.Namespace, c *core.Control) (*core.Ran, error) {
	p, err := Load(src, ns)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, c)
}

// Load macro-expands src and builds the wired program without running
// it.
func Load(src string, ns core.Namespace) (*core.Program, error) {
	expanded, err := macro.Expand(src)
	if err != nil {
		return nil, err
	}
	return core.NewProgram(expanded, ns)
}
