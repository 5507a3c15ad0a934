package source

import "fmt"

// Location points at a declaration in the original program. The front-end
// fills it in; the zero value means "unknown".
type Location struct {
	File   string
	Line   uint32 // 1-based
	Column uint32 // 1-based
}

func (l Location) IsZero() bool {
	return l.File == "" && l.Line == 0 && l.Column == 0
}

func (l Location) String() string {
	switch {
	case l.IsZero():
		return "<unknown>"
	case l.Line == 0:
		return l.File
	case l.Column == 0:
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
}

// Less orders locations by file, line, then column.
func (l Location) Less(other Location) bool {
	if l.File != other.File {
		return l.File < other.File
	}
	if l.Line != other.Line {
		return l.Line < other.Line
	}
	return l.Column < other.Column
}
