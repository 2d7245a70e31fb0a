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

// Package ecmascript provides ECMAScript-scripted station types.
//
// A TypeDef carries the source for a station's transform.  The source
// is compiled once with Goja, which is a Go implementation of
// ECMAScript 5.1+, and each firing runs the compiled program in a
// fresh runtime.
//
// See https://github.com/dop251/goja.
package ecmascript

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/freightlang/freight/core"

	"github.com/dop251/goja"
	"github.com/gorhill/cronexpr"
	"github.com/jsccast/yaml"
)

var (
	// InterruptedMessage is the string value of Interrupted.
	InterruptedMessage = "RuntimeError: timeout"

	// Interrupted is returned by a scripted transform if the
	// execution is interrupted.
	Interrupted = errors.New(InterruptedMessage)
)

// TypeDef describes one scripted station type.
type TypeDef struct {
	Id  string `json:"id" yaml:"id"`
	Doc string `json:"doc,omitempty" yaml:",omitempty"`

	// In and Out are the input and output arities.
	In  int `json:"in" yaml:"in"`
	Out int `json:"out" yaml:"out"`

	// Source is the ECMAScript for the transform.  See Compile for
	// the runtime environment the source sees.
	Source string `json:"source" yaml:"source"`
}

// Manifest is a YAML document listing scripted station types.
type Manifest struct {
	StationTypes []TypeDef `json:"stationtypes" yaml:"stationtypes"`
}

// LoadTypes parses a YAML manifest and compiles every type in it.
func LoadTypes(bs []byte) (core.Namespace, error) {
	var m Manifest
	if err := yaml.Unmarshal(bs, &m); err != nil {
		return nil, err
	}
	ns := make(core.Namespace, 0, len(m.StationTypes))
	for _, def := range m.StationTypes {
		typ, err := Compile(def)
		if err != nil {
			return nil, fmt.Errorf("station type %q: %v", def.Id, err)
		}
		ns = append(ns, typ)
	}
	return ns, nil
}

func wrapSrc(src string) string {
	return fmt.Sprintf("(function() {\n%s\n}());\n", src)
}

// Compile builds a core.StationType from a TypeDef.
//
// The following properties are available from the runtime at _.
//
// These two things are most important:
//
//	in: the array of input pallets (ints as numbers, chars as
//	  one-character strings, empties as null).
//	out(x): Add the given value as an output pallet.
//
// Additional properties:
//
//	cronNext(s): Return a string representing (RFC3999Nano) the
//	  next time for the given crontab expression.
//
// Output pallets are the out(x) calls in order.  The program's own
// return value is ignored.
func Compile(def TypeDef) (*core.StationType, error) {
	if def.Id == "" {
		return nil, errors.New("station type without an id")
	}

	p, err := goja.Compile("", wrapSrc(def.Source), true)
	if err != nil {
		return nil, err
	}

	typ := &core.StationType{
		ID:          def.Id,
		Doc:         def.Doc,
		InputArity:  def.In,
		OutputArity: def.Out,
	}

	typ.Transform = func(ctx context.Context, e *core.Env, in []core.Pallet) ([]core.Pallet, error) {
		o := goja.New()

		args := make([]interface{}, len(in))
		for i, p := range in {
			args[i] = toJS(p)
		}

		var emitted []core.Pallet
		env := map[string]interface{}{
			"in": args,
		}

		env["out"] = func(x interface{}) interface{} {
			switch vv := x.(type) {
			case goja.Value:
				x = vv.Export()
			}
			p, err := fromJS(x)
			if err != nil {
				// Will end up as a Javascript exception.
				panic(o.ToValue(err.Error()))
			}
			emitted = append(emitted, p)
			return x
		}

		// cronNext parses the given string as a crontab expression
		// using github.com/gorhill/cronexpr.  Returns the next time
		// as a string formatted in time.RFC3339Nano (UTC).
		env["cronNext"] = func(x interface{}) interface{} {
			switch vv := x.(type) {
			case goja.Value:
				x = vv.Export()
			}
			cronExpr, is := x.(string)
			if !is {
				panic(o.ToValue("not a string"))
			}
			c, err := cronexpr.Parse(cronExpr)
			if err != nil {
				panic(o.ToValue(err.Error()))
			}
			return c.Next(time.Now()).UTC().Format(time.RFC3339Nano)
		}

		o.Set("_", env)

		// We want to make sure that the following goroutine is
		// terminated as soon as possible.
		ictx, cancel := context.WithCancel(ctx)
		go func() {
			<-ictx.Done()
			// If this transform calls cancel() after RunProgram
			// returns, then we'll never see this
			// InterruptedMessage, which is actually the behavior
			// we want.  In this case, we weren't actually
			// interrupted.
			o.Interrupt(InterruptedMessage)
		}()

		_, err := runProgram(o, p)
		cancel()

		if err != nil {
			if _, is := err.(*goja.InterruptedError); is {
				return nil, Interrupted
			}
			return nil, err
		}

		return emitted, nil
	}

	return typ, nil
}

// toJS renders a pallet for the scripting runtime.
func toJS(p core.Pallet) interface{} {
	switch p.Kind {
	case core.IntPallet:
		return p.Int
	case core.CharPallet:
		return string(p.Char)
	default:
		return nil
	}
}

// fromJS converts a value the script produced back into a pallet.
func fromJS(x interface{}) (core.Pallet, error) {
	switch vv := x.(type) {
	case nil:
		return core.Empty(), nil
	case int64:
		return core.Int(vv), nil
	case float64:
		n := int64(vv)
		if float64(n) != vv {
			return core.Empty(), fmt.Errorf("%v is not an integer", vv)
		}
		return core.Int(n), nil
	case string:
		cs := []rune(vv)
		if len(cs) != 1 {
			return core.Empty(), fmt.Errorf("%q is not a single character", vv)
		}
		return core.Char(cs[0]), nil
	default:
		return core.Empty(), fmt.Errorf("%#v (%T) isn't a pallet", x, x)
	}
}

func runProgram(o *goja.Runtime, p *goja.Program) (v goja.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s", r)
		}
	}()
	return o.RunProgram(p)
}
