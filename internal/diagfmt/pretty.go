package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"prism/internal/diag"
	"prism/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	subjectColor = color.New(color.Bold)
	noteColor    = color.New(color.FgBlue)
)

// Pretty renders diagnostics one per line:
//
//	<location>  <SEV> <CODE> [<owner>.<member>] <message>
//
// Locations are padded to a common display width so messages line up even
// for non-ASCII paths. The bag is expected to be sorted already.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	items := bag.Items()
	locs := make([]string, len(items))
	width := 0
	for i := range items {
		locs[i] = formatLocation(items[i].Primary, opts.PathMode)
		width = max(width, runewidth.StringWidth(locs[i]))
	}
	for i := range items {
		d := &items[i]
		line := runewidth.FillRight(locs[i], width) + "  " + severityLabel(d.Severity, opts.Color) + " " + d.Code.ID()
		if subject := d.Subject.String(); subject != "" {
			if opts.Color {
				subject = subjectColor.Sprint(subject)
			}
			line += " [" + subject + "]"
		}
		line += " " + d.Message
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			label := "note"
			if opts.Color {
				label = noteColor.Sprint(label)
			}
			if _, err := fmt.Fprintf(w, "%s  %s %s\n", runewidth.FillRight(formatLocation(n.Loc, opts.PathMode), width), label, n.Msg); err != nil {
				return err
			}
		}
	}
	return nil
}

func severityLabel(sev diag.Severity, colored bool) string {
	label := sev.String()
	if !colored {
		return label
	}
	switch sev {
	case diag.SevError:
		return errorColor.Sprint(label)
	case diag.SevWarning:
		return warningColor.Sprint(label)
	default:
		return infoColor.Sprint(label)
	}
}

func formatLocation(loc source.Location, mode PathMode) string {
	if mode == PathModeBasename && loc.File != "" {
		loc.File = filepath.Base(loc.File)
	}
	return loc.String()
}
