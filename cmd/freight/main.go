// A simple, single-run process that interprets a program file, reading
// from stdin and writing to stdout.

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/freightlang/freight"
	"github.com/freightlang/freight/core"
	"github.com/freightlang/freight/macro"
	"github.com/freightlang/freight/stations"
	"github.com/freightlang/freight/stations/ecmascript"
	"github.com/freightlang/freight/storage"
	"github.com/freightlang/freight/storage/bolt"
)

func main() {

	var (
		programFilename = flag.String("f", "", "program filename")
		typesFilename   = flag.String("t", "", "scripted station types filename (YAML)")

		limit      = flag.Int("limit", 0, "maximum scheduling rounds (0 means the default)")
		expandOnly = flag.Bool("expand", false, "print the macro-expanded program and exit")

		dbFilename = flag.String("db", "", "store the run's trace in this BoltDB file")
		runId      = flag.String("run", "default", "id for the stored run")

		diag = flag.Bool("d", false, "print diagnostics")
	)

	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *programFilename == "" {
		log.Fatal("give a program with -f")
	}
	src, err := ioutil.ReadFile(*programFilename)
	if err != nil {
		log.Fatal(err)
	}

	if *expandOnly {
		expanded, err := macro.Expand(string(src))
		if err != nil {
			log.Fatal(err)
		}
		fmt.Print(expanded)
		return
	}

	ns := stations.Standard()
	if *typesFilename != "" {
		bs, err := ioutil.ReadFile(*typesFilename)
		if err != nil {
			log.Fatal(err)
		}
		scripted, err := ecmascript.LoadTypes(bs)
		if err != nil {
			log.Fatal(err)
		}
		ns = append(ns, scripted...)
	}

	c := &core.Control{
		Limit: *limit,
		Env: &core.Env{
			In:  bufio.NewReader(os.Stdin),
			Out: os.Stdout,
		},
	}

	if *diag {
		c.Tracer = &logTracer{}
	}

	var rec *storage.Recorder
	if *dbFilename != "" {
		s, err := bolt.NewStorage(*dbFilename)
		if err != nil {
			log.Fatal(err)
		}
		if err := s.Open(); err != nil {
			log.Fatal(err)
		}
		defer func() {
			if err := s.Close(); err != nil {
				log.Print(err)
			}
		}()

		rec = &storage.Recorder{
			Store: s,
			RunId: *runId,
		}
		if c.Tracer != nil {
			c.Tracer = tracers{c.Tracer, rec}
		} else {
			c.Tracer = rec
		}

		if err := s.AddRun(ctx, &storage.RunRecord{
			Id:     *runId,
			Source: string(src),
		}); err != nil {
			log.Fatal(err)
		}
	}

	ran, err := freight.Run(ctx, string(src), ns, c)
	if err != nil {
		if l, is := err.(core.Located); is {
			log.Fatalf("%s: %v", l.Location(), err)
		}
		log.Fatal(err)
	}

	if rec != nil {
		if rec.Err != nil {
			log.Fatal(rec.Err)
		}
		if err := rec.Store.AddRun(ctx, &storage.RunRecord{
			Id:     *runId,
			Source: string(src),
			Ran:    ran,
		}); err != nil {
			log.Fatal(err)
		}
	}

	fmt.Fprintf(os.Stderr, "%s\n", JS(ran))
}

// logTracer prints engine activity to stderr.
type logTracer struct {
}

func (t *logTracer) Fired(round, i int, s *core.Station, in, out []core.Pallet) {
	log.Printf("round %d station %d %s (%s) %v -> %v", round, i, s.Type.ID, s.Loc, in, out)
}

func (t *logTracer) Dropped(round, i int, s *core.Station, p core.Pallet) {
	log.Printf("round %d station %d %s (%s) dropped %s", round, i, s.Type.ID, s.Loc, p)
}

// tracers fans engine activity out to several tracers.
type tracers []core.Tracer

func (ts tracers) Fired(round, i int, s *core.Station, in, out []core.Pallet) {
	for _, t := range ts {
		t.Fired(round, i, s, in, out)
	}
}

func (ts tracers) Dropped(round, i int, s *core.Station, p core.Pallet) {
	for _, t := range ts {
		t.Dropped(round, i, s, p)
	}
}

func JS(x interface{}) string {
	js, err := json.Marshal(&x)
	if err != nil {
		panic(err)
	}
	return string(js)
}
