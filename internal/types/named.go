package types

import "prism/internal/source"

// Category distinguishes the nominal type declarations of the program.
type Category uint8

const (
	CategoryClass Category = iota + 1
	CategoryStruct
	CategoryInterface
	CategoryEnum
	CategoryDelegate
)

func (c Category) String() string {
	switch c {
	case CategoryClass:
		return "class"
	case CategoryStruct:
		return "struct"
	case CategoryInterface:
		return "interface"
	case CategoryEnum:
		return "enum"
	case CategoryDelegate:
		return "delegate"
	}
	return "unknown"
}

// NamedInfo stores metadata for a declared (nominal) type.
type NamedInfo struct {
	Name       source.StringID
	Namespace  source.StringID
	Outer      TypeID // enclosing type for nested declarations
	Category   Category
	TypeParams []TypeID // generic parameters, in order
	Underlying TypeID   // enums: backing integral type
}

// RegisterNamed allocates a nominal type slot and returns its TypeID.
func (in *Interner) RegisterNamed(info NamedInfo) TypeID {
	info.TypeParams = cloneTypeArgs(info.TypeParams)
	slot := appendSlot(&in.named, info, "named")
	return in.internRaw(Type{Kind: KindNamed, Payload: slot})
}

// SetTypeParams records generic parameters after registration; parameters
// reference their owner, so they are created once the owner exists.
func (in *Interner) SetTypeParams(id TypeID, params []TypeID) {
	if info := in.namedInfo(id); info != nil {
		info.TypeParams = cloneTypeArgs(params)
	}
}

// NamedInfo returns metadata for the provided nominal TypeID.
func (in *Interner) NamedInfo(id TypeID) (*NamedInfo, bool) {
	info := in.namedInfo(id)
	return info, info != nil
}

func (in *Interner) namedInfo(id TypeID) *NamedInfo {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindNamed || tt.Payload == 0 || int(tt.Payload) >= len(in.named) {
		return nil
	}
	return &in.named[tt.Payload]
}

// QualifiedName joins namespace, enclosing types and the type name with dots.
func (in *Interner) QualifiedName(id TypeID) string {
	info := in.namedInfo(id)
	if info == nil {
		return ""
	}
	name := in.Strings.MustLookup(info.Name)
	if info.Outer != NoTypeID {
		return in.QualifiedName(info.Outer) + "." + name
	}
	if ns := in.Strings.MustLookup(info.Namespace); ns != "" {
		return ns + "." + name
	}
	return name
}

// ParamInfo stores metadata about a generic type parameter.
type ParamInfo struct {
	Name  source.StringID
	Owner TypeID // NoTypeID for method-level parameters
	Index uint32
}

// RegisterTypeParam allocates a new generic parameter descriptor.
func (in *Interner) RegisterTypeParam(name source.StringID, owner TypeID, index uint32) TypeID {
	slot := appendSlot(&in.params, ParamInfo{Name: name, Owner: owner, Index: index}, "type param")
	return in.internRaw(Type{Kind: KindGenericParam, Payload: slot})
}

func (in *Interner) ParamInfo(id TypeID) (*ParamInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindGenericParam || tt.Payload == 0 || int(tt.Payload) >= len(in.params) {
		return nil, false
	}
	return &in.params[tt.Payload], true
}
