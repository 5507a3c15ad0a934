package types

import (
	"fmt"

	"fortio.org/safecast"

	"prism/internal/source"
)

// Builtins stores TypeIDs for common primitive types.
type Builtins struct {
	Invalid TypeID
	Void    TypeID
	Bool    TypeID
	Char    TypeID
	String  TypeID
	Int     TypeID
	Uint    TypeID
	Float   TypeID
	Decimal TypeID
	Object  TypeID
	Dynamic TypeID
}

// Interner provides stable TypeIDs. Structural descriptors are deduplicated;
// nominal and anonymous types get a fresh ID per registration.
type Interner struct {
	Strings *source.Interner

	types     []Type
	index     map[typeKey]TypeID
	builtins  Builtins
	named     []NamedInfo
	insts     []InstInfo
	delegates []DelegateInfo
	tuples    []TupleInfo
	anons     []AnonInfo
	params    []ParamInfo
}

// NewInterner constructs an interner seeded with built-in primitives.
// If strings is nil a fresh string interner is allocated.
func NewInterner(strings *source.Interner) *Interner {
	if strings == nil {
		strings = source.NewInterner()
	}
	in := &Interner{
		Strings: strings,
		index:   make(map[typeKey]TypeID, 64),
	}
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Void = in.Intern(Type{Kind: KindVoid})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.Char = in.Intern(Type{Kind: KindChar})
	in.builtins.String = in.Intern(Type{Kind: KindString})
	in.builtins.Int = in.Intern(MakeInt(Width32))
	in.builtins.Uint = in.Intern(MakeUint(Width32))
	in.builtins.Float = in.Intern(MakeFloat(Width64))
	in.builtins.Decimal = in.Intern(Type{Kind: KindDecimal})
	in.builtins.Object = in.Intern(Type{Kind: KindObject})
	in.builtins.Dynamic = in.Intern(Type{Kind: KindDynamic})
	return in
}

func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided structural descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := typeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	key := typeKey(t)
	if _, ok := in.index[key]; !ok {
		in.index[key] = id
	}
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Len counts registered types including the invalid sentinel.
func (in *Interner) Len() int {
	return len(in.types)
}

type typeKey Type

// appendSlot stores info in a side table whose slot 0 is a sentinel and
// returns the new slot.
func appendSlot[T any](table *[]T, info T, what string) uint32 {
	if len(*table) == 0 {
		var zero T
		*table = append(*table, zero)
	}
	*table = append(*table, info)
	slot, err := safecast.Conv[uint32](len(*table) - 1)
	if err != nil {
		panic(fmt.Errorf("%s info overflow: %w", what, err))
	}
	return slot
}

func cloneTypeArgs(args []TypeID) []TypeID {
	if len(args) == 0 {
		return nil
	}
	out := make([]TypeID, len(args))
	copy(out, args)
	return out
}
