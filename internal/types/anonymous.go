package types

import (
	"slices"

	"prism/internal/source"
)

// AnonField is one member of an anonymous type, in declaration order.
type AnonField struct {
	Name source.StringID
	Type TypeID
}

// AnonInfo describes a compiler-synthesized anonymous type.
type AnonInfo struct {
	Fields []AnonField
}

// RegisterAnonymous always allocates a new TypeID: the front-end creates one
// anonymous type per construction site, even for identical layouts.
func (in *Interner) RegisterAnonymous(fields []AnonField) TypeID {
	slot := appendSlot(&in.anons, AnonInfo{Fields: slices.Clone(fields)}, "anonymous")
	return in.internRaw(Type{Kind: KindAnonymous, Payload: slot})
}

func (in *Interner) AnonInfo(id TypeID) (*AnonInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindAnonymous || tt.Payload == 0 || int(tt.Payload) >= len(in.anons) {
		return nil, false
	}
	return &in.anons[tt.Payload], true
}
