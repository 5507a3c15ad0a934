package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"prism/internal/diag"
	"prism/internal/source"
)

func sampleBag() *diag.Bag {
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.DeclUnsupportedType, source.Location{File: "/src/demo/shape.src", Line: 4, Column: 2}, "pointer types have no declaration equivalent").
		WithSubject(diag.Subject{Owner: "Demo.Shape", Member: "Raw"}))
	bag.Add(diag.New(diag.SevWarning, diag.EmitRenamedParameter, source.Location{File: "/src/a.src", Line: 1}, "renamed").
		WithNote(source.Location{File: "/src/a.src", Line: 1, Column: 5}, "declared here"))
	return bag
}

func TestPrettyPlain(t *testing.T) {
	var buf bytes.Buffer
	if err := Pretty(&buf, sampleBag(), PrettyOpts{PathMode: PathModeBasename, ShowNotes: true}); err != nil {
		t.Fatalf("pretty: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), buf.String())
	}
	want := "shape.src:4:2  ERROR DCL3001 [Demo.Shape.Raw] pointer types have no declaration equivalent"
	if lines[0] != want {
		t.Fatalf("unexpected first line:\nwant %q\ngot  %q", want, lines[0])
	}
	if !strings.HasPrefix(lines[1], "a.src:1        WARNING EMT4003") {
		t.Fatalf("location column not padded: %q", lines[1])
	}
	if !strings.Contains(lines[2], "note declared here") {
		t.Fatalf("missing note line: %q", lines[2])
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sampleBag(), JSONOpts{Max: 1}); err != nil {
		t.Fatalf("json: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 1 || out.Diagnostics[0].Code != "DCL3001" || out.Diagnostics[0].Member != "Raw" {
		t.Fatalf("unexpected output: %+v", out)
	}
}
