package resolve

import (
	"prism/internal/model"
)

// OverloadSet lists the same-named members that share one emitted name
// space, in a stable order: base types first, then declaration order.
// Overrides of an earlier member are not listed; they alias its slot.
type OverloadSet struct {
	Name    string
	Members []model.MemberID
	aliases map[model.MemberID]int
}

func (s *OverloadSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Members)
}

// Index returns the slot of id, or -1 when id is not part of the set.
func (s *OverloadSet) Index(id model.MemberID) int {
	if s == nil {
		return -1
	}
	for i, m := range s.Members {
		if m == id {
			return i
		}
	}
	if i, ok := s.aliases[id]; ok {
		return i
	}
	return -1
}

// Contains reports whether id has a slot in the set.
func (s *OverloadSet) Contains(id model.MemberID) bool {
	return s.Index(id) >= 0
}

// NodeKey keys node resolutions. Static selects the storage class the node
// accesses.
type NodeKey struct {
	Node   model.NodeID
	Static bool
}

// MemberKey keys member resolutions. Static selects the storage class,
// Inherited extends the search to base types.
type MemberKey struct {
	Member    model.MemberID
	Static    bool
	Inherited bool
}

// Resolver is the front-end capability the backend queries.
type Resolver interface {
	ResolveNode(key NodeKey) (*OverloadSet, error)
	ResolveMember(key MemberKey) (*OverloadSet, error)
}
