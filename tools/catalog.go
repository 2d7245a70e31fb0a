package tools

import (
	"fmt"
	"io"

	"github.com/freightlang/freight/core"

	md "github.com/russross/blackfriday/v2"
)

// RenderCatalogHTML writes an HTML table documenting every station
// type in the namespace.  Docs are rendered as Markdown.
func RenderCatalogHTML(ns core.Namespace, out io.Writer) error {
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}

	f(`<div class="stationTypes"><table>`)
	f(`<tr><th>id</th><th>in</th><th>out</th><th></th><th></th></tr>`)
	for _, typ := range ns {
		var role string
		switch {
		case typ.Entry:
			role = "entry"
		case typ.Terminal:
			role = "terminal"
		}
		f(`<tr class="stationType">`)
		f(`<td><span id="%s" class="typeName"><code>%s</code></span></td>`,
			typ.ID, escapeHTML(typ.ID))
		f(`<td>%d</td><td>%d</td><td>%s</td>`, typ.InputArity, typ.OutputArity, role)
		f(`<td><div class="typeDoc doc">%s</div></td>`, md.Run([]byte(typ.Doc)))
		f(`</tr>`)
	}
	f(`</table></div>`)

	return nil
}

// RenderCatalogPage wraps RenderCatalogHTML in a complete page.
func RenderCatalogPage(ns core.Namespace, out io.Writer, title string, cssFiles []string) error {
	if cssFiles == nil {
		cssFiles = []string{"/static/catalog.css"}
	}

	fmt.Fprintf(out, `<!DOCTYPE html>
<meta charset="utf-8">
<html>
  <head>
  <title>%s</title>
`, title)

	for _, cssFile := range cssFiles {
		fmt.Fprintf(out, "  <link href=\"%s\" rel=\"stylesheet\">\n", cssFile)
	}

	fmt.Fprintf(out, `
  </head>
  <body>
    <h1>%s</h1>
`, title)

	if err := RenderCatalogHTML(ns, out); err != nil {
		return err
	}

	fmt.Fprintf(out, `
  </body>
</html>
`)

	return nil
}
