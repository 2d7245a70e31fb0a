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

// Package stations provides the standard station catalogue.
//
// Arithmetic and comparison stations work on integer pallets; a pallet
// of the wrong variant is an operand error that aborts the run.  IO
// stations read and write synchronously through the run's core.Env.
package stations

import (
	"context"
	"fmt"
	"io"

	"github.com/freightlang/freight/core"
)

// Standard returns the standard catalogue.
//
// The returned namespace is freshly allocated, but the station types
// themselves are shared and must be treated as read-only.
func Standard() core.Namespace {
	ns := make(core.Namespace, 0, len(standard))
	return append(ns, standard...)
}

func intOf(p core.Pallet) (int64, error) {
	if p.Kind != core.IntPallet {
		return 0, fmt.Errorf("wanted an int pallet, got %s", p)
	}
	return p.Int, nil
}

// binary adapts an integer operation to a Transform.
func binary(f func(a, b int64) (int64, error)) core.Transform {
	return func(ctx context.Context, env *core.Env, in []core.Pallet) ([]core.Pallet, error) {
		a, err := intOf(in[0])
		if err != nil {
			return nil, err
		}
		b, err := intOf(in[1])
		if err != nil {
			return nil, err
		}
		n, err := f(a, b)
		if err != nil {
			return nil, err
		}
		return []core.Pallet{core.Int(n)}, nil
	}
}

func printPallet(w io.Writer, p core.Pallet) error {
	switch p.Kind {
	case core.EmptyPallet:
		return nil
	case core.IntPallet:
		_, err := fmt.Fprintf(w, "%d", p.Int)
		return err
	case core.CharPallet:
		_, err := fmt.Fprintf(w, "%c", p.Char)
		return err
	default:
		return fmt.Errorf("unprintable pallet variant %s", p.Kind)
	}
}

var standard = core.Namespace{
	{
		ID:          "start",
		Doc:         "The entry station. Fires once at the start of the run, producing an empty pallet.",
		InputArity:  0,
		OutputArity: 1,
		Entry:       true,
		Transform: func(ctx context.Context, env *core.Env, in []core.Pallet) ([]core.Pallet, error) {
			return []core.Pallet{core.Empty()}, nil
		},
	},
	{
		ID:         "exit",
		Doc:        "The terminal station. Consumes a pallet and ends the run successfully.",
		InputArity: 1,
		Terminal:   true,
		Transform: func(ctx context.Context, env *core.Env, in []core.Pallet) ([]core.Pallet, error) {
			return nil, nil
		},
	},
	{
		ID:          "joint",
		Doc:         "Passes its input pallet through unchanged.",
		InputArity:  1,
		OutputArity: 1,
		Transform: func(ctx context.Context, env *core.Env, in []core.Pallet) ([]core.Pallet, error) {
			return in, nil
		},
	},
	{
		ID:          "dup",
		Doc:         "Duplicates its input pallet onto its first two output bays.",
		InputArity:  1,
		OutputArity: 2,
		Transform: func(ctx context.Context, env *core.Env, in []core.Pallet) ([]core.Pallet, error) {
			return []core.Pallet{in[0], in[0]}, nil
		},
	},
	{
		ID:          "pallet",
		Doc:         "Consumes any pallet and produces an empty one.",
		InputArity:  1,
		OutputArity: 1,
		Transform: func(ctx context.Context, env *core.Env, in []core.Pallet) ([]core.Pallet, error) {
			return []core.Pallet{core.Empty()}, nil
		},
	},
	{
		ID:          "add",
		Doc:         "Adds two int pallets.",
		InputArity:  2,
		OutputArity: 1,
		Transform: binary(func(a, b int64) (int64, error) {
			return a + b, nil
		}),
	},
	{
		ID:          "sub",
		Doc:         "Subtracts the second int pallet from the first.",
		InputArity:  2,
		OutputArity: 1,
		Transform: binary(func(a, b int64) (int64, error) {
			return a - b, nil
		}),
	},
	{
		ID:          "mul",
		Doc:         "Multiplies two int pallets.",
		InputArity:  2,
		OutputArity: 1,
		Transform: binary(func(a, b int64) (int64, error) {
			return a * b, nil
		}),
	},
	{
		ID:          "div",
		Doc:         "Divides the first int pallet by the second. Division by zero is an operand error.",
		InputArity:  2,
		OutputArity: 1,
		Transform: binary(func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			return a / b, nil
		}),
	},
	{
		ID:          "mod",
		Doc:         "The first int pallet modulo the second. Modulus by zero is an operand error.",
		InputArity:  2,
		OutputArity: 1,
		Transform: binary(func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, fmt.Errorf("modulus by zero")
			}
			return a % b, nil
		}),
	},
	{
		ID:          "eq",
		Doc:         "Compares two pallets for equality, producing int 1 or 0.",
		InputArity:  2,
		OutputArity: 1,
		Transform: func(ctx context.Context, env *core.Env, in []core.Pallet) ([]core.Pallet, error) {
			if in[0] == in[1] {
				return []core.Pallet{core.Int(1)}, nil
			}
			return []core.Pallet{core.Int(0)}, nil
		},
	},
	{
		ID:          "ne",
		Doc:         "Compares two pallets for inequality, producing int 1 or 0.",
		InputArity:  2,
		OutputArity: 1,
		Transform: func(ctx context.Context, env *core.Env, in []core.Pallet) ([]core.Pallet, error) {
			if in[0] != in[1] {
				return []core.Pallet{core.Int(1)}, nil
			}
			return []core.Pallet{core.Int(0)}, nil
		},
	},
	{
		ID:          "gt",
		Doc:         "Produces int 1 when the first int pallet is greater than the second, else 0.",
		InputArity:  2,
		OutputArity: 1,
		Transform: binary(func(a, b int64) (int64, error) {
			if a > b {
				return 1, nil
			}
			return 0, nil
		}),
	},
	{
		ID:          "lt",
		Doc:         "Produces int 1 when the first int pallet is less than the second, else 0.",
		InputArity:  2,
		OutputArity: 1,
		Transform: binary(func(a, b int64) (int64, error) {
			if a < b {
				return 1, nil
			}
			return 0, nil
		}),
	},
	{
		ID:          "not",
		Doc:         "Produces int 1 for int 0 and int 0 for any other int.",
		InputArity:  1,
		OutputArity: 1,
		Transform: func(ctx context.Context, env *core.Env, in []core.Pallet) ([]core.Pallet, error) {
			n, err := intOf(in[0])
			if err != nil {
				return nil, err
			}
			if n == 0 {
				return []core.Pallet{core.Int(1)}, nil
			}
			return []core.Pallet{core.Int(0)}, nil
		},
	},
	{
		ID:          "inc",
		Doc:         "Increments an int pallet, or shifts a char pallet to the next code point.",
		InputArity:  1,
		OutputArity: 1,
		Transform: func(ctx context.Context, env *core.Env, in []core.Pallet) ([]core.Pallet, error) {
			switch in[0].Kind {
			case core.IntPallet:
				return []core.Pallet{core.Int(in[0].Int + 1)}, nil
			case core.CharPallet:
				return []core.Pallet{core.Char(in[0].Char + 1)}, nil
			default:
				return nil, fmt.Errorf("cannot increment %s", in[0])
			}
		},
	},
	{
		ID:          "dec",
		Doc:         "Decrements an int pallet, or shifts a char pallet to the previous code point.",
		InputArity:  1,
		OutputArity: 1,
		Transform: func(ctx context.Context, env *core.Env, in []core.Pallet) ([]core.Pallet, error) {
			switch in[0].Kind {
			case core.IntPallet:
				return []core.Pallet{core.Int(in[0].Int - 1)}, nil
			case core.CharPallet:
				return []core.Pallet{core.Char(in[0].Char - 1)}, nil
			default:
				return nil, fmt.Errorf("cannot decrement %s", in[0])
			}
		},
	},
	{
		ID:          "gate",
		Doc:         "Passes the first pallet through when the second (an int) is non-zero; otherwise swallows it.",
		InputArity:  2,
		OutputArity: 1,
		Transform: func(ctx context.Context, env *core.Env, in []core.Pallet) ([]core.Pallet, error) {
			control, err := intOf(in[1])
			if err != nil {
				return nil, err
			}
			if control == 0 {
				return nil, nil
			}
			return []core.Pallet{in[0]}, nil
		},
	},
	{
		ID:          "zero",
		Doc:         "Consumes any pallet and produces int 0. Combine with inc and dup to build other numbers.",
		InputArity:  1,
		OutputArity: 1,
		Transform: func(ctx context.Context, env *core.Env, in []core.Pallet) ([]core.Pallet, error) {
			return []core.Pallet{core.Int(0)}, nil
		},
	},
	{
		ID:          "ord",
		Doc:         "Converts a char pallet to the int pallet of its code point.",
		InputArity:  1,
		OutputArity: 1,
		Transform: func(ctx context.Context, env *core.Env, in []core.Pallet) ([]core.Pallet, error) {
			if in[0].Kind != core.CharPallet {
				return nil, fmt.Errorf("wanted a char pallet, got %s", in[0])
			}
			return []core.Pallet{core.Int(int64(in[0].Char))}, nil
		},
	},
	{
		ID:          "chr",
		Doc:         "Converts an int pallet to the char pallet of that code point.",
		InputArity:  1,
		OutputArity: 1,
		Transform: func(ctx context.Context, env *core.Env, in []core.Pallet) ([]core.Pallet, error) {
			n, err := intOf(in[0])
			if err != nil {
				return nil, err
			}
			return []core.Pallet{core.Char(rune(n))}, nil
		},
	},
	{
		ID:          "print",
		Doc:         "Prints its pallet (ints in decimal, chars as themselves, empties as nothing) and passes it through.",
		InputArity:  1,
		OutputArity: 1,
		Transform: func(ctx context.Context, env *core.Env, in []core.Pallet) ([]core.Pallet, error) {
			if err := printPallet(env.Out, in[0]); err != nil {
				return nil, err
			}
			return in, nil
		},
	},
	{
		ID:          "println",
		Doc:         "Like print, with a trailing newline.",
		InputArity:  1,
		OutputArity: 1,
		Transform: func(ctx context.Context, env *core.Env, in []core.Pallet) ([]core.Pallet, error) {
			if err := printPallet(env.Out, in[0]); err != nil {
				return nil, err
			}
			if _, err := fmt.Fprintln(env.Out); err != nil {
				return nil, err
			}
			return in, nil
		},
	},
	{
		ID:          "readchar",
		Doc:         "Consumes any pallet and produces the next input character, or an empty pallet at end of input.",
		InputArity:  1,
		OutputArity: 1,
		Transform: func(ctx context.Context, env *core.Env, in []core.Pallet) ([]core.Pallet, error) {
			c, _, err := env.In.ReadRune()
			if err == io.EOF {
				return []core.Pallet{core.Empty()}, nil
			}
			if err != nil {
				return nil, err
			}
			return []core.Pallet{core.Char(c)}, nil
		},
	},
	{
		ID:          "readint",
		Doc:         "Consumes any pallet and produces the next whitespace-delimited integer from the input, or an empty pallet at end of input.",
		InputArity:  1,
		OutputArity: 1,
		Transform: func(ctx context.Context, env *core.Env, in []core.Pallet) ([]core.Pallet, error) {
			var n int64
			if _, err := fmt.Fscan(env.In, &n); err != nil {
				if err == io.EOF {
					return []core.Pallet{core.Empty()}, nil
				}
				return nil, fmt.Errorf("reading an int: %v", err)
			}
			return []core.Pallet{core.Int(n)}, nil
		},
	},
}
