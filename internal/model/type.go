package model

import (
	"prism/internal/source"
	"prism/internal/types"
)

// Partition holds the members of one storage class (static or instance), in
// declaration order.
type Partition struct {
	Fields     []*Field
	Events     []*Event
	Properties []*Property
	Methods    []*Method
}

func (p *Partition) Len() int {
	return len(p.Fields) + len(p.Events) + len(p.Properties) + len(p.Methods)
}

// Type is the descriptor of one declared type. It is built once per
// compilation and read by every pass.
type Type struct {
	ID        types.TypeID
	Name      string
	Namespace string
	Qualified string
	Category  types.Category
	Base      types.TypeID
	Doc       string
	Loc       source.Location

	Fields     []*Field
	Events     []*Event
	Properties []*Property
	Methods    []*Method

	static   Partition
	instance Partition
}

func (t *Type) IsEnum() bool      { return t.Category == types.CategoryEnum }
func (t *Type) IsInterface() bool { return t.Category == types.CategoryInterface }

// Members returns the static or the instance partition.
func (t *Type) Members(static bool) *Partition {
	if static {
		return &t.static
	}
	return &t.instance
}

// partition splits the member lists. Enum constants are static.
func (t *Type) partition() {
	t.static, t.instance = Partition{}, Partition{}
	for _, f := range t.Fields {
		p := t.Members(f.Static || t.IsEnum())
		p.Fields = append(p.Fields, f)
	}
	for _, e := range t.Events {
		p := t.Members(e.Static)
		p.Events = append(p.Events, e)
	}
	for _, pr := range t.Properties {
		p := t.Members(pr.Static)
		p.Properties = append(p.Properties, pr)
	}
	for _, m := range t.Methods {
		p := t.Members(m.Static)
		p.Methods = append(p.Methods, m)
	}
}
