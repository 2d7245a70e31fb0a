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

// Package macro provides the textual preprocessor that runs before
// station discovery.
//
// A directive line
//
//	!def NAME TEXT
//
// defines NAME; occurrences of {NAME} elsewhere in the source are
// replaced with TEXT.  Directive lines are blanked rather than removed
// so that the line numbers of discovered stations still point into the
// expanded text.  Replacement changes column geometry, which is the
// program author's concern: the expanded text is what discovery and
// the linker see.
//
// The core consumes this package only as text in, text out.
package macro

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	defPattern = regexp.MustCompile(`^!def\s+([A-Za-z_][A-Za-z0-9_]*)\s+(.*?)\s*$`)
	refPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)
)

// Expand applies all !def substitutions to src.
//
// Definitions may reference names defined on earlier lines.  An
// unknown {NAME} reference, or a redefinition, is an error.
func Expand(src string) (string, error) {
	lines := strings.Split(src, "\n")
	defs := make(map[string]string)

	// First pass: collect definitions and blank their lines.
	for i, line := range lines {
		m := defPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name, text := m[1], m[2]
		if _, dup := defs[name]; dup {
			return "", fmt.Errorf("line %d: macro %q redefined", i+1, name)
		}
		expanded, err := substitute(text, defs, i)
		if err != nil {
			return "", err
		}
		defs[name] = expanded
		lines[i] = ""
	}

	// Second pass: substitute into the body.
	for i, line := range lines {
		expanded, err := substitute(line, defs, i)
		if err != nil {
			return "", err
		}
		lines[i] = expanded
	}

	return strings.Join(lines, "\n"), nil
}

func substitute(line string, defs map[string]string, lineNo int) (string, error) {
	var badName string
	expanded := refPattern.ReplaceAllStringFunc(line, func(ref string) string {
		name := ref[1 : len(ref)-1]
		text, ok := defs[name]
		if !ok {
			if badName == "" {
				badName = name
			}
			return ref
		}
		return text
	})
	if badName != "" {
		return "", fmt.Errorf("line %d: unknown macro %q", lineNo+1, badName)
	}
	return expanded, nil
}
