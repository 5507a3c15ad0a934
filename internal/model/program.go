package model

import (
	"prism/internal/types"
)

// MemberRef locates a member and its declaring type.
type MemberRef struct {
	Owner  *Type
	Member *Member
	Method *Method // set for methods
}

// Program is the fully resolved program model handed to the backend.
type Program struct {
	Name  string
	Types *types.Interner
	// Decls are sorted by qualified name.
	Decls []*Type

	byID    map[types.TypeID]*Type
	members map[MemberID]MemberRef
	nodes   map[NodeID]MemberID
}

func (p *Program) Type(id types.TypeID) (*Type, bool) {
	t, ok := p.byID[id]
	return t, ok
}

func (p *Program) Member(id MemberID) (MemberRef, bool) {
	ref, ok := p.members[id]
	return ref, ok
}

// NodeTarget returns the member a syntax node refers to.
func (p *Program) NodeTarget(node NodeID) (MemberID, bool) {
	id, ok := p.nodes[node]
	return id, ok
}

// BaseChain returns t followed by its base types, nearest first. Bases that
// are not declared in the program (e.g. library types) end the chain.
func (p *Program) BaseChain(t *Type) []*Type {
	chain := []*Type{t}
	seen := map[types.TypeID]bool{t.ID: true}
	for cur := t; cur.Base != types.NoTypeID; {
		base := cur.Base
		if inst, ok := p.Types.InstInfo(base); ok {
			base = inst.Base
		}
		next, ok := p.byID[base]
		if !ok || seen[next.ID] {
			break
		}
		seen[next.ID] = true
		chain = append(chain, next)
		cur = next
	}
	return chain
}
