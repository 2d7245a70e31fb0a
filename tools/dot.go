package tools

// dot -Tpng g.dot > g.png

import (
	"fmt"
	"io"
	"strings"

	"github.com/freightlang/freight/core"
)

// Dot writes a Graphviz dot rendering of the wired program.
//
// Stations are nodes labeled with their type and source location.
// Edges follow the output wiring, labeled with the discovery direction
// and the target bay.
func Dot(p *core.Program, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "digraph G {\n"); err != nil {
		return err
	}
	fmt.Fprintf(w, `  graph [ordering=out,rankdir=TB,nodesep=0.3,ranksep=0.6]
  node [shape="record" style="rounded,filled"]
  edge [fontsize = "12"]
`)

	for i, s := range p.Stations {
		label := fmt.Sprintf("%s<BR/><FONT POINT-SIZE='8'>%s</FONT>",
			escapeHTML(s.Type.ID), s.Loc)

		fillcolor := "#99ddc8"
		style := "rounded,filled"
		if s.Type.Entry {
			fillcolor = "#2d93ad"
			style += ",bold"
		}
		if s.Type.Terminal {
			fillcolor = "#f98b8b"
		}
		if len(s.OutBays) == 0 && !s.Type.Terminal {
			style += ",dashed"
		}

		fmt.Fprintf(w, "  s%d [style=\"%s\", fillcolor=\"%s\", label=<%s> ]\n",
			i, style, fillcolor, label)
	}

	for i, s := range p.Stations {
		// Output bays are wired in neighbor order, so the j-th wire's
		// direction is the j-th neighbor's.
		for j, wire := range s.OutBays {
			label := fmt.Sprintf("%d/%d", j+1, len(s.OutBays))
			if j < len(p.Neighbors[i]) {
				label += " " + p.Neighbors[i][j].Dir.String()
			}
			if wire.Bay < 0 {
				label += " (no bay)"
			} else {
				label += fmt.Sprintf(" bay %d", wire.Bay)
			}
			fmt.Fprintf(w, "  s%d -> s%d [ label = <%s> ]\n", i, wire.Station, label)
		}
	}

	_, err := fmt.Fprintf(w, "}\n")
	return err
}

func escapeHTML(s string) string {
	s = strings.Replace(s, "&", "&amp;", -1)
	s = strings.Replace(s, "<", "&lt;", -1)
	s = strings.Replace(s, ">", "&gt;", -1)
	return s
}
