package model

// SchemaVersion is bumped whenever the File layout changes.
const SchemaVersion uint16 = 1

// File is the wire form of a program model as produced by the front-end.
// Types are referenced structurally (TypeRef) and interned on Build.
type File struct {
	Schema uint16     `msgpack:"schema"`
	Name   string     `msgpack:"name"`
	Types  []TypeDecl `msgpack:"types"`
	Nodes  []NodeDecl `msgpack:"nodes,omitempty"`
}

// TypeRef spells a type. Kind is a types.Kind name ("int", "named",
// "generic-inst", ...). Name is the qualified name for named types and the
// parameter name for generic parameters.
type TypeRef struct {
	Kind   string          `msgpack:"kind"`
	Name   string          `msgpack:"name,omitempty"`
	Width  uint8           `msgpack:"width,omitempty"`
	Elem   *TypeRef        `msgpack:"elem,omitempty"`
	Args   []TypeRef       `msgpack:"args,omitempty"`
	Fields []AnonFieldDecl `msgpack:"fields,omitempty"`
	Params []ParamDecl     `msgpack:"params,omitempty"`
	Result *TypeRef        `msgpack:"result,omitempty"`
}

type AnonFieldDecl struct {
	Name string  `msgpack:"name"`
	Type TypeRef `msgpack:"type"`
}

type ParamDecl struct {
	Name string  `msgpack:"name"`
	Type TypeRef `msgpack:"type"`
}

type LocDecl struct {
	File   string `msgpack:"file,omitempty"`
	Line   uint32 `msgpack:"line,omitempty"`
	Column uint32 `msgpack:"col,omitempty"`
}

type TypeDecl struct {
	Name       string         `msgpack:"name"`
	Namespace  string         `msgpack:"namespace,omitempty"`
	Outer      string         `msgpack:"outer,omitempty"` // qualified name of the enclosing type
	Category   string         `msgpack:"category"`
	TypeParams []string       `msgpack:"type_params,omitempty"`
	Base       *TypeRef       `msgpack:"base,omitempty"`
	Underlying *TypeRef       `msgpack:"underlying,omitempty"`
	Doc        string         `msgpack:"doc,omitempty"`
	Loc        LocDecl        `msgpack:"loc"`
	Fields     []FieldDecl    `msgpack:"fields,omitempty"`
	Properties []PropertyDecl `msgpack:"properties,omitempty"`
	Events     []EventDecl    `msgpack:"events,omitempty"`
	Methods    []MethodDecl   `msgpack:"methods,omitempty"`
}

// MemberDecl is embedded (inlined on the wire) by every member declaration.
// ID may be left zero; the builder then assigns one.
type MemberDecl struct {
	ID         uint32  `msgpack:"id,omitempty"`
	Name       string  `msgpack:"name"`
	Type       TypeRef `msgpack:"type"`
	Visibility string  `msgpack:"visibility,omitempty"`
	Static     bool    `msgpack:"static,omitempty"`
	Doc        string  `msgpack:"doc,omitempty"`
	Loc        LocDecl `msgpack:"loc"`
}

type FieldDecl struct {
	MemberDecl
	Value *int64 `msgpack:"value,omitempty"`
}

// AccessorDecl is a declared accessor. It has a body when HasBody is set or
// Body is non-empty.
type AccessorDecl struct {
	HasBody bool     `msgpack:"has_body,omitempty"`
	Body    []string `msgpack:"body,omitempty"`
}

type PropertyDecl struct {
	MemberDecl
	Getter    *AccessorDecl `msgpack:"getter,omitempty"`
	Setter    *AccessorDecl `msgpack:"setter,omitempty"`
	FieldLike bool          `msgpack:"field_like,omitempty"`
}

type EventDecl struct {
	MemberDecl
	Adder     *AccessorDecl `msgpack:"adder,omitempty"`
	Remover   *AccessorDecl `msgpack:"remover,omitempty"`
	FieldLike bool          `msgpack:"field_like,omitempty"`
}

type MethodDecl struct {
	MemberDecl
	Params     []ParamDecl `msgpack:"params,omitempty"`
	TypeParams []string    `msgpack:"type_params,omitempty"`
	Async      bool        `msgpack:"async,omitempty"`
	Body       []string    `msgpack:"body,omitempty"`
	Abstract   bool        `msgpack:"abstract,omitempty"`
}

// NodeDecl maps a front-end syntax node to the member it refers to.
type NodeDecl struct {
	ID     uint32 `msgpack:"id"`
	Target uint32 `msgpack:"target"`
}

// Ref helpers keep hand-written models (tests, fixtures) short.

func Prim(kind string) TypeRef { return TypeRef{Kind: kind} }

func Sized(kind string, width uint8) TypeRef { return TypeRef{Kind: kind, Width: width} }

func Named(qualified string) TypeRef { return TypeRef{Kind: "named", Name: qualified} }

func TypeParamRef(name string) TypeRef { return TypeRef{Kind: "generic-param", Name: name} }

func ArrayOf(elem TypeRef) TypeRef { return TypeRef{Kind: "array", Elem: &elem} }

func NullableOf(elem TypeRef) TypeRef { return TypeRef{Kind: "nullable", Elem: &elem} }

func PointerTo(elem TypeRef) TypeRef { return TypeRef{Kind: "pointer", Elem: &elem} }

func Generic(base string, args ...TypeRef) TypeRef {
	return TypeRef{Kind: "generic-inst", Name: base, Args: args}
}

func Tuple(elems ...TypeRef) TypeRef { return TypeRef{Kind: "tuple", Args: elems} }

func Delegate(result TypeRef, params ...ParamDecl) TypeRef {
	return TypeRef{Kind: "delegate", Params: params, Result: &result}
}

func Anonymous(fields ...AnonFieldDecl) TypeRef {
	return TypeRef{Kind: "anonymous", Fields: fields}
}
