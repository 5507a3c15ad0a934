package types

import (
	"slices"

	"prism/internal/source"
)

// DelegateParam is one parameter of a delegate signature.
type DelegateParam struct {
	Name source.StringID
	Type TypeID
}

// DelegateInfo stores the signature of a function-valued type (event
// handlers, callbacks).
type DelegateInfo struct {
	Params []DelegateParam
	Result TypeID
}

// RegisterDelegate creates or finds a delegate type with this signature.
func (in *Interner) RegisterDelegate(params []DelegateParam, result TypeID) TypeID {
	for id := TypeID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindDelegate || int(tt.Payload) >= len(in.delegates) {
			continue
		}
		info := in.delegates[tt.Payload]
		if info.Result == result && slices.Equal(info.Params, params) {
			return id
		}
	}
	slot := appendSlot(&in.delegates, DelegateInfo{Params: slices.Clone(params), Result: result}, "delegate")
	return in.internRaw(Type{Kind: KindDelegate, Payload: slot})
}

func (in *Interner) DelegateInfo(id TypeID) (*DelegateInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindDelegate || tt.Payload == 0 || int(tt.Payload) >= len(in.delegates) {
		return nil, false
	}
	return &in.delegates[tt.Payload], true
}
