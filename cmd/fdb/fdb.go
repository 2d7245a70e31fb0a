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

// Package main is a command-line program debugger in the spirit of gdb.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/freightlang/freight/core"
	"github.com/freightlang/freight/macro"
	"github.com/freightlang/freight/stations"
	"github.com/freightlang/freight/stations/ecmascript"
	"github.com/freightlang/freight/storage"
	"github.com/freightlang/freight/storage/bolt"
	. "github.com/freightlang/freight/util/testutil"
)

type Opts struct {
	typesFilename string
	echo          bool
}

func main() {

	opts := &Opts{}
	flag.StringVar(&opts.typesFilename, "t", "", "scripted station types filename (YAML)")
	flag.BoolVar(&opts.echo, "e", false, "echo input")
	flag.Parse()

	if err := opts.run(); err != nil {
		panic(err)
	}
}

func (opts *Opts) run() error {

	in := os.Stdin
	w := os.Stdout

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ns := stations.Standard()
	if opts.typesFilename != "" {
		bs, err := ioutil.ReadFile(opts.typesFilename)
		if err != nil {
			return err
		}
		scripted, err := ecmascript.LoadTypes(bs)
		if err != nil {
			return err
		}
		ns = append(ns, scripted...)
	}

	var (
		load = regexp.MustCompile("^load +(.*)")

		input = regexp.MustCompile("^input +(.*)")

		step = regexp.MustCompile("^step( +([0-9]+))?$")

		run = regexp.MustCompile("^run$")

		print = regexp.MustCompile("^print$")

		wires = regexp.MustCompile("^wires$")

		reset = regexp.MustCompile("^reset$")

		setLimit = regexp.MustCompile("^limit +([0-9]+)")

		db = regexp.MustCompile("^db +(.*)")

		runs = regexp.MustCompile("^runs$")

		firings = regexp.MustCompile("^firings +(.*)")

		help = regexp.MustCompile("^(help|h|\\?)")

		quit = regexp.MustCompile("^(quit|q|exit)$")

		outputPrefix = "# "

		say = func(format string, args ...interface{}) {
			fmt.Fprintf(w, outputPrefix+format+"\n", args...)
		}

		protest = func(format string, args ...interface{}) {
			say("error: "+format, args...)
		}

		ctl = &core.Control{
			Limit: core.DefaultControl.Limit,
			Env: &core.Env{
				In:  bufio.NewReader(strings.NewReader("")),
				Out: w,
			},
		}

		program *core.Program
		engine  *core.Engine
		store   storage.Store
	)

	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	// round runs one scheduling round, reporting the outcome when the
	// run stops.
	round := func() (bool, error) {
		if program == nil {
			return true, fmt.Errorf("no program loaded")
		}
		if engine == nil {
			engine = program.Engine(ctl)
		}
		stopped, err := engine.Round(ctx)
		if err != nil {
			return true, err
		}
		if stopped {
			say("stopped after %d rounds: %s", engine.Rounds(), JS(engine.Ran()))
		}
		return stopped, nil
	}

	r := bufio.NewReader(in)
	for {
		line, err := r.ReadString('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)

		if opts.echo {
			fmt.Println(line)
		}

		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			continue
		}

		var ss []string

		if ss = help.FindStringSubmatch(line); 0 < len(ss) {
			for _, s := range strings.Split(doc(), "\n") {
				say("%s", s)
			}
			continue
		}
		if ss = quit.FindStringSubmatch(line); 0 < len(ss) {
			return nil
		}
		if ss = load.FindStringSubmatch(line); 0 < len(ss) {
			filename := ss[1]
			src, err := ioutil.ReadFile(filename)
			if err != nil {
				protest("reading file '%s': %s", filename, err)
				continue
			}
			expanded, err := macro.Expand(string(src))
			if err != nil {
				protest("expanding '%s': %s", filename, err)
				continue
			}
			p, err := core.NewProgram(expanded, ns)
			if err != nil {
				if l, is := err.(core.Located); is {
					protest("%s: %s", l.Location(), err)
				} else {
					protest("%s", err)
				}
				continue
			}
			program = p
			engine = nil
			say("loaded %d stations (entry at %d)", len(p.Stations), p.Start)
			continue
		}
		if ss = input.FindStringSubmatch(line); 0 < len(ss) {
			ctl.Env.In = bufio.NewReader(strings.NewReader(ss[1]))
			continue
		}
		if ss = setLimit.FindStringSubmatch(line); 0 < len(ss) {
			n, err := strconv.Atoi(ss[1])
			if err != nil {
				protest("bad limit '%s'", ss[1])
				continue
			}
			ctl.Limit = n
			say("limit is %d", n)
			continue
		}
		if ss = step.FindStringSubmatch(line); 0 < len(ss) {
			n := 1
			if ss[2] != "" {
				if n, err = strconv.Atoi(ss[2]); err != nil {
					protest("bad count '%s'", ss[2])
					continue
				}
			}
			for i := 0; i < n; i++ {
				stopped, err := round()
				if err != nil {
					protest("%s", err)
					break
				}
				if stopped {
					break
				}
			}
			continue
		}
		if ss = run.FindStringSubmatch(line); 0 < len(ss) {
			for {
				stopped, err := round()
				if err != nil {
					protest("%s", err)
					break
				}
				if stopped {
					break
				}
			}
			continue
		}
		if ss = reset.FindStringSubmatch(line); 0 < len(ss) {
			if program == nil {
				protest("no program loaded")
				continue
			}
			program.Reset()
			engine = nil
			say("reset")
			continue
		}
		if ss = print.FindStringSubmatch(line); 0 < len(ss) {
			if program == nil {
				protest("no program loaded")
				continue
			}
			if engine != nil {
				say("round %d", engine.Rounds())
			}
			for i, s := range program.Stations {
				bays := make([]string, len(s.InBays))
				for j, bay := range s.InBays {
					if bay == nil {
						bays[j] = "_"
					} else {
						bays[j] = bay.String()
					}
				}
				say("%d. %s (%s) in: %s", i, s.Type.ID, s.Loc, strings.Join(bays, " "))
			}
			continue
		}
		if ss = wires.FindStringSubmatch(line); 0 < len(ss) {
			if program == nil {
				protest("no program loaded")
				continue
			}
			for i, s := range program.Stations {
				for j, wire := range s.OutBays {
					dir := ""
					if j < len(program.Neighbors[i]) {
						dir = program.Neighbors[i][j].Dir.String()
					}
					say("%d. %s out %d -> station %d bay %d (%s)",
						i, s.Type.ID, j, wire.Station, wire.Bay, dir)
				}
			}
			continue
		}
		if ss = db.FindStringSubmatch(line); 0 < len(ss) {
			filename := ss[1]
			s, err := bolt.NewStorage(filename)
			if err != nil {
				protest("%s", err)
				continue
			}
			if err := s.Open(); err != nil {
				protest("opening '%s': %s", filename, err)
				continue
			}
			if store != nil {
				store.Close()
			}
			store = s
			say("using %s", filename)
			continue
		}
		if ss = runs.FindStringSubmatch(line); 0 < len(ss) {
			if store == nil {
				protest("no db (see 'db FILENAME')")
				continue
			}
			ids, err := store.ListRuns(ctx)
			if err != nil {
				protest("%s", err)
				continue
			}
			for _, id := range ids {
				rec, err := store.GetRun(ctx, id)
				if err != nil {
					protest("%s", err)
					continue
				}
				say("%s %s", id, JS(rec.Ran))
			}
			continue
		}
		if ss = firings.FindStringSubmatch(line); 0 < len(ss) {
			if store == nil {
				protest("no db (see 'db FILENAME')")
				continue
			}
			fs, err := store.Firings(ctx, ss[1])
			if err != nil {
				protest("%s", err)
				continue
			}
			for i, f := range fs {
				say("%d. %s", i, JS(f))
			}
			continue
		}

		protest("unsupported command: %s", line)
	}
}

func doc() string {
	return `
  load FILENAME     Load (and macro-expand) a program
  input TEXT        Use TEXT as the program's input stream
  step [N]          Run N scheduling rounds (default 1)
  run               Run until the program stops
  print             Print stations and their input bays
  wires             Print the output wiring
  reset             Vacate all bays and start over
  limit N           Set the scheduling round limit
  db FILENAME       Open a BoltDB of stored runs
  runs              List stored runs
  firings ID        Show the stored trace for a run
  help              Show this documentation
  quit              Exit
`
}
