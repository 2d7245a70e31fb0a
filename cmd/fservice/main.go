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

// Package main is a service that runs programs it receives over a
// coupling: stdin/stdout, a WebSocket, or MQTT.
package main

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"strings"

	"github.com/freightlang/freight"
	"github.com/freightlang/freight/core"
	"github.com/freightlang/freight/macro"
	"github.com/freightlang/freight/stations"
	"github.com/freightlang/freight/stations/ecmascript"
)

func main() {

	var (
		coupling      = flag.String("io", "std", `IO protocol: "std", "mq", or "ws"`)
		typesFilename = flag.String("t", "", "scripted station types filename (YAML)")
		verbose       = flag.Bool("v", false, "Verbose")
		help          = flag.Bool("h", false, "Get usage")
	)

	flag.Parse()

	if *help {
		flag.PrintDefaults()

		{
			fmt.Fprintf(os.Stderr, "\n-io std (default):\n\n")
			_, fs := NewStdCouplings(nil)
			fs.PrintDefaults()
		}

		{
			fmt.Fprintf(os.Stderr, "\n-io mq:\n\n")
			_, fs := NewMQTTCouplings(nil)
			fs.PrintDefaults()
		}

		{
			fmt.Fprintf(os.Stderr, "\n-io ws:\n\n")
			_, fs := NewWebSocketCouplings(nil)
			fs.PrintDefaults()
		}

		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ns := stations.Standard()
	if *typesFilename != "" {
		bs, err := ioutil.ReadFile(*typesFilename)
		if err != nil {
			panic(err)
		}
		scripted, err := ecmascript.LoadTypes(bs)
		if err != nil {
			panic(err)
		}
		ns = append(ns, scripted...)
	}

	var cio Couplings
	switch *coupling {
	case "std":
		c, _ := NewStdCouplings(flag.Args())
		cio = c
	case "mq", "mqtt":
		c, _ := NewMQTTCouplings(flag.Args())
		cio = c
	case "ws":
		c, _ := NewWebSocketCouplings(flag.Args())
		cio = c
	default:
		panic(fmt.Errorf("unknown io: '%s'", *coupling))
	}

	if err := cio.Start(ctx); err != nil {
		panic(err)
	}

	in, out, done, err := cio.IO(ctx)
	if err != nil {
		panic(err)
	}

LOOP:
	for {
		select {
		case <-ctx.Done():
			break LOOP
		case <-done:
			break LOOP
		case op, ok := <-in:
			if !ok {
				break LOOP
			}
			if *verbose {
				log.Printf("op %s %s", op.Op, op.Id)
			}
			r := serve(ctx, ns, op)
			select {
			case <-ctx.Done():
				break LOOP
			case out <- r:
			}
		}
	}

	if err := cio.Stop(context.Background()); err != nil {
		log.Printf("error from io.Stop: %v", err)
	}
}

// serve executes one op.  Errors are reported in the Result, never
// returned: a bad program shouldn't stop the service.
func serve(ctx context.Context, ns core.Namespace, op *Op) *Result {
	r := &Result{
		Id: op.Id,
	}

	fail := func(err error) *Result {
		if l, is := err.(core.Located); is {
			r.Error = fmt.Sprintf("%s: %s", l.Location(), err)
		} else {
			r.Error = err.Error()
		}
		return r
	}

	switch op.Op {
	case "", "run":
		var buf bytes.Buffer
		c := &core.Control{
			Limit: op.Limit,
			Env: &core.Env{
				In:  bufio.NewReader(strings.NewReader(op.Input)),
				Out: &buf,
			},
		}

		var t *memTracer
		if op.Trace {
			t = &memTracer{}
			c.Tracer = t
		}

		ran, err := freight.Run(ctx, op.Source, ns, c)
		r.Output = buf.String()
		if err != nil {
			return fail(err)
		}
		r.Ran = ran
		if t != nil {
			r.Firings = t.fs
		}
		return r

	case "expand":
		expanded, err := macro.Expand(op.Source)
		if err != nil {
			return fail(err)
		}
		r.Expanded = expanded
		return r

	default:
		r.Error = fmt.Sprintf("unknown op: '%s'", op.Op)
		return r
	}
}

func E(err error, args ...interface{}) error {
	log.Printf("error %s: %v", err, args)
	return err
}
