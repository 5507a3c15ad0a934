package diag

import (
	"prism/internal/source"
)

type Note struct {
	Loc source.Location
	Msg string
}

// Subject names the program element a diagnostic is about.
type Subject struct {
	Owner  string // qualified name of the declaring type
	Member string // member name, empty for type-level diagnostics
}

func (s Subject) String() string {
	switch {
	case s.Owner == "" && s.Member == "":
		return ""
	case s.Member == "":
		return s.Owner
	case s.Owner == "":
		return s.Member
	}
	return s.Owner + "." + s.Member
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Location
	Subject  Subject
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Location, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Location, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(loc source.Location, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Loc: loc, Msg: msg})
	return d
}

func (d Diagnostic) WithSubject(subject Subject) Diagnostic {
	d.Subject = subject
	return d
}
