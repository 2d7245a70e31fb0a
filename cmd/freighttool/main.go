// A toolbox for working with program files: macro expansion, graph
// rendering, and station-type documentation.

package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/freightlang/freight/core"
	"github.com/freightlang/freight/macro"
	"github.com/freightlang/freight/stations"
	"github.com/freightlang/freight/stations/ecmascript"
	"github.com/freightlang/freight/tools"
)

func main() {

	if len(os.Args) < 2 {
		Usage()
		os.Exit(1)
	}

	protest := func(err error) {
		if l, is := err.(core.Located); is {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", l.Location(), err)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}

	// The program (or manifest) comes in on stdin.
	read := func() string {
		bs, err := ioutil.ReadAll(os.Stdin)
		if err != nil {
			protest(err)
		}
		return string(bs)
	}

	switch os.Args[1] {
	case "expand":
		expanded, err := macro.Expand(read())
		if err != nil {
			protest(err)
		}
		fmt.Print(expanded)

	case "dot":
		expanded, err := macro.Expand(read())
		if err != nil {
			protest(err)
		}
		p, err := core.NewProgram(expanded, namespace(os.Args[2:]))
		if err != nil {
			protest(err)
		}
		if err := tools.Dot(p, os.Stdout); err != nil {
			protest(err)
		}

	case "catalog":
		if err := tools.RenderCatalogPage(namespace(os.Args[2:]), os.Stdout,
			"Station types", nil); err != nil {
			protest(err)
		}

	default:
		fmt.Printf("Unknown subcommand \"%s\"\n", os.Args[1])
		Usage()
		os.Exit(1)
	}
}

// namespace builds the standard catalogue plus any scripted type
// manifests named in args.
func namespace(manifests []string) core.Namespace {
	ns := stations.Standard()
	for _, filename := range manifests {
		bs, err := ioutil.ReadFile(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		scripted, err := ecmascript.LoadTypes(bs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		ns = append(ns, scripted...)
	}
	return ns
}

func Usage() {
	fmt.Printf("Subcommands:\n\n")
	fmt.Printf("  expand                    Macro-expand the program on stdin\n")
	fmt.Printf("  dot [MANIFEST ...]        Render the program on stdin as Graphviz dot\n")
	fmt.Printf("  catalog [MANIFEST ...]    Write an HTML catalog of station types\n")
	fmt.Println()
}
