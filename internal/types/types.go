package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates the shapes of the source type system.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindBool
	KindChar
	KindString
	KindInt
	KindUint
	KindFloat
	KindDecimal
	KindObject
	KindDynamic
	KindArray
	KindNullable
	KindPointer
	KindTuple
	KindNamed
	KindGenericParam
	KindGenericInst
	KindDelegate
	KindAnonymous
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindDecimal:
		return "decimal"
	case KindObject:
		return "object"
	case KindDynamic:
		return "dynamic"
	case KindArray:
		return "array"
	case KindNullable:
		return "nullable"
	case KindPointer:
		return "pointer"
	case KindTuple:
		return "tuple"
	case KindNamed:
		return "named"
	case KindGenericParam:
		return "generic-param"
	case KindGenericInst:
		return "generic-inst"
	case KindDelegate:
		return "delegate"
	case KindAnonymous:
		return "anonymous"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// ParseKind is the inverse of Kind.String for the kinds a program model file
// may spell out.
func ParseKind(s string) (Kind, bool) {
	for k := KindVoid; k <= KindAnonymous; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return KindInvalid, false
}

// IsNumeric reports whether the kind is represented by a number at runtime.
func (k Kind) IsNumeric() bool {
	switch k {
	case KindInt, KindUint, KindFloat, KindDecimal:
		return true
	}
	return false
}

// Width captures the precision of integers/floats.
type Width uint8

const (
	WidthAny Width = 0
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
	Width128 Width = 128
)

// Type is a compact descriptor for any supported type. Composite kinds keep
// their details in a side table addressed by Payload.
type Type struct {
	Kind    Kind
	Elem    TypeID // array, nullable, pointer
	Width   Width  // numeric primitives
	Payload uint32 // slot in the kind's info table
}

// MakeInt describes a signed integer of the given width (WidthAny for "int").
func MakeInt(width Width) Type {
	return Type{Kind: KindInt, Width: width}
}

func MakeUint(width Width) Type {
	return Type{Kind: KindUint, Width: width}
}

func MakeFloat(width Width) Type {
	return Type{Kind: KindFloat, Width: width}
}

// MakeArray describes an array of elem.
func MakeArray(elem TypeID) Type {
	return Type{Kind: KindArray, Elem: elem}
}

// MakeNullable describes a value type that may also hold null.
func MakeNullable(elem TypeID) Type {
	return Type{Kind: KindNullable, Elem: elem}
}

// MakePointer describes an unmanaged pointer.
func MakePointer(elem TypeID) Type {
	return Type{Kind: KindPointer, Elem: elem}
}
