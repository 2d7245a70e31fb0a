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
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
)

// StdCouplings reads ops as JSON lines from stdin and writes results
// as JSON lines to stdout.
type StdCouplings struct {
	EchoInput bool

	in   chan *Op
	out  chan *Result
	done chan bool
}

func NewStdCouplings(args []string) (*StdCouplings, *flag.FlagSet) {
	c := &StdCouplings{}
	fs := flag.NewFlagSet("std", flag.ExitOnError)
	fs.BoolVar(&c.EchoInput, "echo", false, "echo input")
	if args == nil {
		return nil, fs
	}
	fs.Parse(args)
	return c, fs
}

// Start launches the stdin reader and the stdout writer.
func (c *StdCouplings) Start(ctx context.Context) error {
	c.in = make(chan *Op)
	c.out = make(chan *Result)
	c.done = make(chan bool)

	go func() {
		defer close(c.done)
		r := bufio.NewReader(os.Stdin)
		for {
			line, err := r.ReadBytes('\n')
			if err == io.EOF {
				return
			}
			if err != nil {
				E(err, "ReadBytes")
				return
			}
			if len(line) <= 1 {
				continue
			}

			if c.EchoInput {
				fmt.Printf("in: %s", line)
			}

			var op Op
			if err = json.Unmarshal(line, &op); err != nil {
				E(err, "Unmarshal", string(line))
				continue
			}

			select {
			case <-ctx.Done():
				return
			case c.in <- &op:
			}
		}
	}()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case r := <-c.out:
				js, err := json.Marshal(r)
				if err != nil {
					E(err, "Marshal")
					continue
				}
				fmt.Printf("%s\n", js)
			}
		}
	}()

	return nil
}

// IO just returns the channels that Start() initialized.
func (c *StdCouplings) IO(ctx context.Context) (chan *Op, chan *Result, chan bool, error) {
	return c.in, c.out, c.done, nil
}

func (c *StdCouplings) Stop(ctx context.Context) error {
	return nil
}
