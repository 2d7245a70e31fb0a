package tools

import (
	"bytes"
	"strings"
	"testing"

	"github.com/freightlang/freight/stations"
)

func TestRenderCatalogHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderCatalogHTML(stations.Standard(), &buf); err != nil {
		t.Fatal(err)
	}
	got := buf.String()

	for _, want := range []string{
		`<code>start</code>`,
		`<code>exit</code>`,
		`<code>add</code>`,
		"entry",
		"terminal",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("no %q", want)
		}
	}
}

func TestRenderCatalogPage(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderCatalogPage(stations.Standard(), &buf, "Standard stations", nil); err != nil {
		t.Fatal(err)
	}
	got := buf.String()

	if !strings.Contains(got, "<title>Standard stations</title>") {
		t.Fatalf("no title in %s", got)
	}
	if !strings.Contains(got, "</html>") {
		t.Fatal("unfinished page")
	}
}
