package resolve

import (
	"slices"

	"prism/internal/model"
)

// Static resolves against a fully built Program. Overload sets are computed
// from declarations alone, which is all a resolved program model needs.
type Static struct {
	prog *model.Program
}

func NewStatic(prog *model.Program) *Static {
	return &Static{prog: prog}
}

func (s *Static) ResolveNode(key NodeKey) (*OverloadSet, error) {
	target, ok := s.prog.NodeTarget(key.Node)
	if !ok {
		return nil, &Error{Node: key.Node, Reason: "node has no target", Err: ErrUnresolvable}
	}
	set, err := s.ResolveMember(MemberKey{Member: target, Static: key.Static, Inherited: true})
	if err != nil {
		return nil, err
	}
	if !set.Contains(target) {
		ref, _ := s.prog.Member(target)
		return nil, &Error{
			Node:   key.Node,
			Member: target,
			Owner:  ref.Owner.Qualified,
			Name:   ref.Member.Name,
			Reason: "accessed through the wrong storage class",
			Err:    ErrUnresolvable,
		}
	}
	return set, nil
}

func (s *Static) ResolveMember(key MemberKey) (*OverloadSet, error) {
	ref, ok := s.prog.Member(key.Member)
	if !ok {
		return nil, &Error{Member: key.Member, Err: ErrUnresolvable}
	}
	chain := []*model.Type{ref.Owner}
	if key.Inherited {
		chain = s.prog.BaseChain(ref.Owner)
	}
	slices.Reverse(chain)

	set := &OverloadSet{Name: ref.Member.Name}
	var methods []*model.Method
	for _, t := range chain {
		for _, cand := range candidates(t, ref.Member, key.Static) {
			if cand.Method != nil {
				if slot := overridden(methods, cand.Method); slot >= 0 {
					if set.aliases == nil {
						set.aliases = make(map[model.MemberID]int)
					}
					set.aliases[cand.Member.ID] = slot
					continue
				}
			}
			set.Members = append(set.Members, cand.Member.ID)
			methods = append(methods, cand.Method)
		}
	}
	return set, nil
}

type candidate struct {
	Member *model.Member
	Method *model.Method
}

// candidates lists members of t with the same name and kind as m.
func candidates(t *model.Type, m *model.Member, static bool) []candidate {
	part := t.Members(static)
	var out []candidate
	switch m.Kind {
	case model.MemberMethod:
		for _, x := range part.Methods {
			if x.Name == m.Name {
				out = append(out, candidate{Member: &x.Member, Method: x})
			}
		}
	case model.MemberProperty:
		for _, x := range part.Properties {
			if x.Name == m.Name {
				out = append(out, candidate{Member: &x.Member})
			}
		}
	case model.MemberEvent:
		for _, x := range part.Events {
			if x.Name == m.Name {
				out = append(out, candidate{Member: &x.Member})
			}
		}
	case model.MemberField:
		for _, x := range part.Fields {
			if x.Name == m.Name {
				out = append(out, candidate{Member: &x.Member})
			}
		}
	}
	return out
}

// overridden returns the slot of the method m overrides, or -1.
func overridden(earlier []*model.Method, m *model.Method) int {
	for i, prev := range earlier {
		if prev == nil || prev.Owner == m.Owner {
			continue
		}
		if sameSignature(prev, m) {
			return i
		}
	}
	return -1
}

func sameSignature(a, b *model.Method) bool {
	if len(a.Params) != len(b.Params) || len(a.TypeParams) != len(b.TypeParams) {
		return false
	}
	for i := range a.Params {
		if a.Params[i].Type != b.Params[i].Type {
			return false
		}
	}
	return true
}
