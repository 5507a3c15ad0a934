package diagfmt

import (
	"encoding/json"
	"io"
	"path/filepath"

	"prism/internal/diag"
	"prism/internal/source"
)

type LocationJSON struct {
	File   string `json:"file,omitempty"`
	Line   uint32 `json:"line,omitempty"`
	Column uint32 `json:"column,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Owner    string       `json:"owner,omitempty"`
	Member   string       `json:"member,omitempty"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// JSON writes the bag as a single indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, opts JSONOpts) error {
	out := DiagnosticsOutput{Diagnostics: []DiagnosticJSON{}}
	if bag != nil {
		for _, d := range bag.Items() {
			if opts.Max > 0 && len(out.Diagnostics) >= opts.Max {
				break
			}
			item := DiagnosticJSON{
				Severity: d.Severity.String(),
				Code:     d.Code.ID(),
				Message:  d.Message,
				Owner:    d.Subject.Owner,
				Member:   d.Subject.Member,
				Location: makeLocation(d.Primary, opts.PathMode),
			}
			if opts.IncludeNotes {
				for _, n := range d.Notes {
					item.Notes = append(item.Notes, NoteJSON{Message: n.Msg, Location: makeLocation(n.Loc, opts.PathMode)})
				}
			}
			out.Diagnostics = append(out.Diagnostics, item)
		}
	}
	out.Count = len(out.Diagnostics)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func makeLocation(loc source.Location, mode PathMode) LocationJSON {
	if mode == PathModeBasename && loc.File != "" {
		loc.File = filepath.Base(loc.File)
	}
	return LocationJSON{File: loc.File, Line: loc.Line, Column: loc.Column}
}
