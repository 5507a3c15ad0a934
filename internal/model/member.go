package model

import (
	"prism/internal/source"
	"prism/internal/types"
)

// Visibility is the declared accessibility of a member.
type Visibility uint8

const (
	VisPrivate Visibility = iota
	VisProtected
	VisInternal
	VisPublic
)

func (v Visibility) String() string {
	switch v {
	case VisPrivate:
		return "private"
	case VisProtected:
		return "protected"
	case VisInternal:
		return "internal"
	case VisPublic:
		return "public"
	}
	return "unknown"
}

// ParseVisibility accepts the spellings used by program model files.
// Unknown values fall back to private.
func ParseVisibility(s string) Visibility {
	switch s {
	case "public":
		return VisPublic
	case "protected":
		return VisProtected
	case "internal":
		return VisInternal
	}
	return VisPrivate
}

// MemberKind enumerates the member descriptors.
type MemberKind uint8

const (
	MemberField MemberKind = iota + 1
	MemberProperty
	MemberEvent
	MemberMethod
)

func (k MemberKind) String() string {
	switch k {
	case MemberField:
		return "field"
	case MemberProperty:
		return "property"
	case MemberEvent:
		return "event"
	case MemberMethod:
		return "method"
	}
	return "unknown"
}

// Member is the header shared by every member descriptor. Type is the
// declared type: field/property type, event handler type, method result.
type Member struct {
	ID         MemberID
	Kind       MemberKind
	Name       string
	Type       types.TypeID
	Visibility Visibility
	Static     bool
	Doc        string
	Loc        source.Location
	Owner      types.TypeID
}

func (m *Member) IsPublic() bool { return m.Visibility == VisPublic }

// Body is a member body already lowered by the front-end to runtime
// statements, one per entry.
type Body struct {
	Statements []string
}

type Field struct {
	Member
	// Value is the constant of an enum member.
	Value *int64
	// Property is set when the field backs a field-like property.
	Property MemberID
}

// Accessor is one get/set/add/remove half. A nil *Accessor means the accessor
// is not declared at all.
type Accessor struct {
	Body *Body
}

func (a *Accessor) HasBody() bool { return a != nil && a.Body != nil }

type Property struct {
	Member
	Getter *Accessor
	Setter *Accessor
	// FieldLike properties have no independently authored accessors; their
	// storage is described by a synthesized Field.
	FieldLike bool
}

// HasAnyBody reports whether at least one accessor carries a body.
func (p *Property) HasAnyBody() bool {
	return p.Getter.HasBody() || p.Setter.HasBody()
}

type Event struct {
	Member
	Adder     *Accessor
	Remover   *Accessor
	FieldLike bool
}

type Param struct {
	Name string
	Type types.TypeID
}

type Method struct {
	Member
	Params     []Param
	TypeParams []types.TypeID
	Async      bool
	Body       *Body // nil for abstract and interface methods
}
