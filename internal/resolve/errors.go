package resolve

import (
	"errors"
	"fmt"

	"prism/internal/model"
)

// ErrUnresolvable is wrapped by every resolution failure.
var ErrUnresolvable = errors.New("unresolvable reference")

// Error carries enough context for an actionable diagnostic.
type Error struct {
	Node   model.NodeID
	Member model.MemberID
	Owner  string
	Name   string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	subject := e.Name
	if e.Owner != "" {
		subject = e.Owner + "." + e.Name
	}
	switch {
	case subject != "" && e.Reason != "":
		return fmt.Sprintf("%s: %s: %v", subject, e.Reason, e.Err)
	case subject != "":
		return fmt.Sprintf("%s: %v", subject, e.Err)
	case e.Node.IsValid():
		return fmt.Sprintf("node %d: %v", e.Node, e.Err)
	}
	return fmt.Sprintf("member %d: %v", e.Member, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
