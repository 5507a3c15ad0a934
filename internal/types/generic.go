package types

import "slices"

// InstInfo describes a generic type applied to concrete arguments.
type InstInfo struct {
	Base TypeID
	Args []TypeID
}

// Instantiate creates or finds the instantiation of base with args.
func (in *Interner) Instantiate(base TypeID, args []TypeID) TypeID {
	for id := TypeID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindGenericInst || int(tt.Payload) >= len(in.insts) {
			continue
		}
		info := in.insts[tt.Payload]
		if info.Base == base && slices.Equal(info.Args, args) {
			return id
		}
	}
	slot := appendSlot(&in.insts, InstInfo{Base: base, Args: cloneTypeArgs(args)}, "instantiation")
	return in.internRaw(Type{Kind: KindGenericInst, Payload: slot})
}

func (in *Interner) InstInfo(id TypeID) (*InstInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindGenericInst || tt.Payload == 0 || int(tt.Payload) >= len(in.insts) {
		return nil, false
	}
	return &in.insts[tt.Payload], true
}

// TupleInfo stores the element types for a tuple type.
type TupleInfo struct {
	Elems []TypeID
}

// RegisterTuple creates or finds a tuple type with the given elements.
func (in *Interner) RegisterTuple(elems []TypeID) TypeID {
	for id := TypeID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind == KindTuple && int(tt.Payload) < len(in.tuples) && slices.Equal(in.tuples[tt.Payload].Elems, elems) {
			return id
		}
	}
	slot := appendSlot(&in.tuples, TupleInfo{Elems: cloneTypeArgs(elems)}, "tuple")
	return in.internRaw(Type{Kind: KindTuple, Payload: slot})
}

func (in *Interner) TupleInfo(id TypeID) (*TupleInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTuple || tt.Payload == 0 || int(tt.Payload) >= len(in.tuples) {
		return nil, false
	}
	return &in.tuples[tt.Payload], true
}
